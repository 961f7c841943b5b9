package main

import (
	"errors"
	"image"
	"testing"
)

type fakeTexture struct {
	size   image.Point
	bound  int
	closed bool
}

func (ft *fakeTexture) Bind() { ft.bound++ }

func (ft *fakeTexture) Close() error {
	ft.closed = true
	return nil
}

type fakeUploader struct {
	textures []*fakeTexture
	err      error
}

func (fu *fakeUploader) upload(img *image.RGBA) (TextureHandle, error) {
	if fu.err != nil {
		return nil, fu.err
	}
	tex := &fakeTexture{size: img.Bounds().Size()}
	fu.textures = append(fu.textures, tex)
	return tex, nil
}

func markerSpec(length, breadth float64) MarkerSpec {
	return MarkerSpec{
		LengthPixels:     length,
		BreadthPixels:    breadth,
		DevicePixelRatio: 1,
		Color:            opaqueWhite,
	}
}

func TestMarkerCacheMemoizes(t *testing.T) {
	fu := &fakeUploader{}
	mc := NewMarkerCache(fu.upload, DefaultMarkerTolerance)
	var first TextureHandle
	for i := 0; i < 100; i++ {
		tex := mc.EnsureTexture(markerSpec(10, 40))
		if tex == nil {
			t.Fatalf("call %d: expected a texture", i)
		}
		if first == nil {
			first = tex
		} else if tex != first {
			t.Fatalf("call %d: expected the cached texture", i)
		}
	}
	if n := mc.Synthesized(); n != 1 {
		t.Errorf("expected 1 synthesis, got %d", n)
	}
	if n := len(fu.textures); n != 1 {
		t.Errorf("expected 1 upload, got %d", n)
	}
}

func TestMarkerCacheTolerance(t *testing.T) {
	tests := []struct {
		name       string
		next       MarkerSpec
		regenerate bool
	}{
		{"length within tolerance", markerSpec(10.4, 40), false},
		{"length beyond tolerance", markerSpec(10.6, 40), true},
		{"breadth within tolerance", markerSpec(10, 39.6), false},
		{"breadth beyond tolerance", markerSpec(10, 41), true},
		{"shrinking beyond tolerance", markerSpec(9.4, 40), true},
		{"pixel ratio changed", MarkerSpec{LengthPixels: 10, BreadthPixels: 40, DevicePixelRatio: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fu := &fakeUploader{}
			mc := NewMarkerCache(fu.upload, DefaultMarkerTolerance)
			mc.EnsureTexture(markerSpec(10, 40))
			mc.EnsureTexture(tt.next)
			want := 1
			if tt.regenerate {
				want = 2
			}
			if n := mc.Synthesized(); n != want {
				t.Errorf("expected %d syntheses, got %d", want, n)
			}
			if tt.regenerate && !fu.textures[0].closed {
				t.Errorf("expected the replaced texture to be released")
			}
			if !tt.regenerate && fu.textures[0].closed {
				t.Errorf("expected the texture to stay alive")
			}
		})
	}
}

func TestMarkerCacheDriftMeasuredFromSynthesizedSize(t *testing.T) {
	fu := &fakeUploader{}
	mc := NewMarkerCache(fu.upload, DefaultMarkerTolerance)
	mc.EnsureTexture(markerSpec(10, 40))
	// drift stays measured against the synthesized size, not the last request
	mc.EnsureTexture(markerSpec(10.4, 40))
	mc.EnsureTexture(markerSpec(10.8, 40))
	if n := mc.Synthesized(); n != 2 {
		t.Errorf("expected 2 syntheses, got %d", n)
	}
	if got := fu.textures[1].size; got != image.Pt(11, 40) {
		t.Errorf("expected 11x40 bitmap, got %v", got)
	}
}

func TestMarkerCacheDegenerate(t *testing.T) {
	fu := &fakeUploader{}
	mc := NewMarkerCache(fu.upload, DefaultMarkerTolerance)
	mc.EnsureTexture(markerSpec(10, 40))
	if tex := mc.EnsureTexture(markerSpec(0.2, 40)); tex != nil {
		t.Errorf("expected no texture for a degenerate marker")
	}
	if !fu.textures[0].closed {
		t.Errorf("expected the previous texture to be released")
	}
	if mc.Bitmap() != nil {
		t.Errorf("expected empty cache")
	}
	if tex := mc.EnsureTexture(markerSpec(0.2, 40)); tex != nil {
		t.Errorf("expected no texture on repeat")
	}
	if n := mc.Synthesized(); n != 2 {
		t.Errorf("expected 2 syntheses, got %d", n)
	}
	if n := len(fu.textures); n != 1 {
		t.Errorf("expected 1 upload, got %d", n)
	}
}

func TestMarkerCacheUploadFailure(t *testing.T) {
	fu := &fakeUploader{err: errors.New("out of memory")}
	mc := NewMarkerCache(fu.upload, DefaultMarkerTolerance)
	if tex := mc.EnsureTexture(markerSpec(10, 40)); tex != nil {
		t.Errorf("expected no texture when upload fails")
	}
	fu.err = nil
	if tex := mc.EnsureTexture(markerSpec(10, 40)); tex != nil {
		t.Errorf("expected the failed size to stay memoized")
	}
	if tex := mc.EnsureTexture(markerSpec(12, 40)); tex == nil {
		t.Errorf("expected a texture after the size changed")
	}
}

func TestMarkerCacheClose(t *testing.T) {
	fu := &fakeUploader{}
	mc := NewMarkerCache(fu.upload, DefaultMarkerTolerance)
	mc.EnsureTexture(markerSpec(10, 40))
	if err := mc.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fu.textures[0].closed {
		t.Errorf("expected texture released on close")
	}
	if mc.Bitmap() != nil {
		t.Errorf("expected empty cache after close")
	}
}
