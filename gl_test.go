package main

import (
	"testing"
)

type fakeCapabilities struct {
	enabled map[uint32]bool
	toggles int
}

func (fc *fakeCapabilities) IsEnabled(capability uint32) bool { return fc.enabled[capability] }

func (fc *fakeCapabilities) Enable(capability uint32) {
	fc.enabled[capability] = true
	fc.toggles++
}

func (fc *fakeCapabilities) Disable(capability uint32) {
	fc.enabled[capability] = false
	fc.toggles++
}

func TestEnableScopedRestoresState(t *testing.T) {
	const blend = 0x0BE2
	tests := []struct {
		name    string
		before  bool
		toggles int
	}{
		{"initially disabled", false, 2},
		{"initially enabled", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCapabilities{enabled: map[uint32]bool{blend: tt.before}}
			restore := enableScoped(fc, blend)
			if !fc.enabled[blend] {
				t.Errorf("expected blending enabled while drawing")
			}
			restore()
			if fc.enabled[blend] != tt.before {
				t.Errorf("expected blending %v after drawing, got %v", tt.before, fc.enabled[blend])
			}
			if fc.toggles != tt.toggles {
				t.Errorf("expected %d state changes, got %d", tt.toggles, fc.toggles)
			}
		})
	}
}

func TestPremultiplied(t *testing.T) {
	tests := []struct {
		c    Color
		want [4]float32
	}{
		{Color{R: 255, G: 255, B: 255, A: 255}, [4]float32{1, 1, 1, 1}},
		{Color{R: 255, G: 0, B: 255, A: 0}, [4]float32{0, 0, 0, 0}},
		{Color{R: 255, G: 102, B: 0, A: 51}, [4]float32{0.2, 0.08, 0, 0.2}},
	}
	for _, tt := range tests {
		got := premultiplied(tt.c)
		for i := range got {
			if d := got[i] - tt.want[i]; d > 1e-6 || d < -1e-6 {
				t.Errorf("%v: expected %v, got %v", tt.c, tt.want, got)
				break
			}
		}
		if got[0] > got[3] || got[1] > got[3] || got[2] > got[3] {
			t.Errorf("%v: colour channels exceed alpha in %v", tt.c, got)
		}
	}
}
