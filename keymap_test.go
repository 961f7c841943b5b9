package main

import (
	"slices"
	"testing"
)

func TestKeyMapHeldKeys(t *testing.T) {
	km := CreateKeyMap()
	var toggles, seeks int
	km.Bind("Space", func() { toggles++ })
	km.BindRepeat("Right", func() { seeks++ })

	km.HandleKey("Space", false)
	for i := 0; i < 5; i++ {
		if !km.HandleKey("Space", true) {
			t.Errorf("expected held Space to be consumed")
		}
		km.HandleKey("Right", true)
	}
	if toggles != 1 {
		t.Errorf("expected 1 toggle, got %d", toggles)
	}
	if seeks != 5 {
		t.Errorf("expected 5 seeks, got %d", seeks)
	}
}

func TestKeyMapUnbound(t *testing.T) {
	km := CreateKeyMap()
	if km.HandleKey("C-x", false) {
		t.Errorf("expected unbound key to be ignored")
	}
}

func TestKeyMapKeys(t *testing.T) {
	km := CreateKeyMap()
	for _, k := range []string{"Space", "C-q", "Left", "=", "M-w"} {
		km.Bind(k, func() {})
	}
	want := []string{"=", "C-q", "Left", "M-w", "Space"}
	if got := km.Keys(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
