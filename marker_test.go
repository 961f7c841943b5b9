package main

import (
	"image"
	"testing"
)

var opaqueWhite = Color{R: 255, G: 255, B: 255, A: 255}

func TestMarkerLengthInverseToZoom(t *testing.T) {
	tests := []struct {
		vspp float64
		want float64
	}{
		{1, 40},
		{2, 20},
		{4, 10},
		{8, 5},
		{0.5, 80},
	}
	for _, tt := range tests {
		if got := MarkerLength(DefaultMarkerLengthConstant, tt.vspp); got != tt.want {
			t.Errorf("vspp %v: expected length %v, got %v", tt.vspp, tt.want, got)
		}
	}
	for _, vspp := range []float64{0.3, 3, 17.25, 1000} {
		full := MarkerLength(DefaultMarkerLengthConstant, vspp)
		half := MarkerLength(DefaultMarkerLengthConstant, vspp/2)
		if half != 2*full {
			t.Errorf("halving vspp %v should double the length: %v vs %v", vspp, full, half)
		}
	}
}

func TestMarkerSpecFor(t *testing.T) {
	g := ViewportGeometry{VisualSamplesPerPixel: 4, BreadthPixels: 150, DevicePixelRatio: 2}
	spec := MarkerSpecFor(g, 40, opaqueWhite)
	if spec.LengthPixels != 10 {
		t.Errorf("expected length 10, got %v", spec.LengthPixels)
	}
	if spec.BreadthPixels != 60 {
		t.Errorf("expected breadth 60, got %v", spec.BreadthPixels)
	}
	if spec.DevicePixelRatio != 2 {
		t.Errorf("expected dpr 2, got %v", spec.DevicePixelRatio)
	}
}

func TestSynthesizeMarkerSize(t *testing.T) {
	tests := []struct {
		name    string
		spec    MarkerSpec
		want    image.Point
		logical [2]float64
	}{
		{"unit ratio", MarkerSpec{LengthPixels: 10, BreadthPixels: 40, DevicePixelRatio: 1}, image.Pt(10, 40), [2]float64{10, 40}},
		{"retina", MarkerSpec{LengthPixels: 10, BreadthPixels: 40, DevicePixelRatio: 2}, image.Pt(20, 80), [2]float64{10, 40}},
		{"rounded", MarkerSpec{LengthPixels: 10.4, BreadthPixels: 39.6, DevicePixelRatio: 1}, image.Pt(10, 40), [2]float64{10, 40}},
		{"ratio below one", MarkerSpec{LengthPixels: 10, BreadthPixels: 40, DevicePixelRatio: 0}, image.Pt(10, 40), [2]float64{10, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.spec.Color = opaqueWhite
			bitmap := SynthesizeMarker(tt.spec)
			if bitmap == nil {
				t.Fatalf("expected a bitmap")
			}
			if got := bitmap.Image.Bounds().Size(); got != tt.want {
				t.Errorf("expected size %v, got %v", tt.want, got)
			}
			l, b := bitmap.LogicalSize()
			if l != tt.logical[0] || b != tt.logical[1] {
				t.Errorf("expected logical size %v, got %v x %v", tt.logical, l, b)
			}
		})
	}
}

func TestSynthesizeMarkerDegenerate(t *testing.T) {
	for _, spec := range []MarkerSpec{
		{LengthPixels: 0, BreadthPixels: 40, DevicePixelRatio: 1},
		{LengthPixels: 10, BreadthPixels: 0.4, DevicePixelRatio: 1},
		{LengthPixels: -5, BreadthPixels: 40, DevicePixelRatio: 1},
	} {
		if bitmap := SynthesizeMarker(spec); bitmap != nil {
			t.Errorf("expected nil bitmap for %+v, got %v", spec, bitmap.Image.Bounds())
		}
	}
}

func TestSynthesizeMarkerShape(t *testing.T) {
	bitmap := SynthesizeMarker(MarkerSpec{
		LengthPixels:     10,
		BreadthPixels:    40,
		DevicePixelRatio: 1,
		Color:            opaqueWhite,
	})
	img := bitmap.Image
	alpha := func(x, y int) uint8 { return img.RGBAAt(x, y).A }

	// base runs along the right edge
	for _, y := range []int{0, 10, 20, 30, 39} {
		if a := alpha(9, y); a != 255 {
			t.Errorf("expected opaque base pixel at (9,%d), got alpha %d", y, a)
		}
	}
	// apex touches the left edge in the middle
	if a := alpha(0, 20); a == 0 {
		t.Errorf("expected apex coverage at (0,20)")
	}
	// the corners next to the apex stay empty
	for _, p := range []image.Point{{0, 0}, {0, 39}, {1, 2}, {1, 37}} {
		if a := alpha(p.X, p.Y); a != 0 {
			t.Errorf("expected transparent pixel at %v, got alpha %d", p, a)
		}
	}
	// the interior is filled
	if a := alpha(5, 20); a != 255 {
		t.Errorf("expected opaque interior at (5,20), got alpha %d", a)
	}
}

func TestSynthesizeMarkerColor(t *testing.T) {
	c := Color{R: 200, G: 100, B: 50, A: 255}
	bitmap := SynthesizeMarker(MarkerSpec{LengthPixels: 10, BreadthPixels: 40, DevicePixelRatio: 1, Color: c})
	got := bitmap.Image.RGBAAt(8, 20)
	if got.R != c.R || got.G != c.G || got.B != c.B || got.A != c.A {
		t.Errorf("expected %v inside the marker, got %v", c, got)
	}
}
