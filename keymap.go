package main

import (
	"slices"

	"github.com/samber/lo"
)

type KeyHandler func(key string) bool

func CreateKeyHandler(f func()) KeyHandler {
	return func(key string) bool {
		f()
		return true
	}
}

type keyBinding struct {
	handler    KeyHandler
	repeatable bool
}

// KeyMap maps key names like "C-q" or "S-Left" to handlers. Bindings
// added with Bind ignore auto-repeat so that holding a key fires once;
// BindRepeat bindings fire on every repeat.
type KeyMap map[string]keyBinding

func CreateKeyMap() KeyMap {
	return KeyMap{}
}

func (km KeyMap) HandleKey(key string, repeat bool) bool {
	binding, ok := km[key]
	if !ok {
		return false
	}
	if repeat && !binding.repeatable {
		// swallow held keys so they do not fall through to other maps
		return true
	}
	return binding.handler(key)
}

func (km KeyMap) Bind(key string, f func()) {
	km[key] = keyBinding{handler: CreateKeyHandler(f)}
}

func (km KeyMap) BindRepeat(key string, f func()) {
	km[key] = keyBinding{handler: CreateKeyHandler(f), repeatable: true}
}

// Keys lists the bound key names in sorted order.
func (km KeyMap) Keys() []string {
	keys := lo.Keys(km)
	slices.Sort(keys)
	return keys
}
