package main

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

const (
	// DefaultMarkerLengthConstant divided by the zoom gives the marker
	// length, so markers grow as the view zooms in.
	DefaultMarkerLengthConstant = 40.0
	// DefaultMarkerTolerance is how far (in logical pixels) the
	// requested marker size may drift before the bitmap is rebuilt.
	DefaultMarkerTolerance = 0.5

	markerBreadthRatio = 0.4
	markerStrokeWidth  = 1.0
)

type MarkerSpec struct {
	LengthPixels     float64
	BreadthPixels    float64
	DevicePixelRatio float64
	Color            Color
}

// MarkerSpecFor derives the marker dimensions for the current frame.
func MarkerSpecFor(g ViewportGeometry, lengthConstant float64, c Color) MarkerSpec {
	return MarkerSpec{
		LengthPixels:     MarkerLength(lengthConstant, g.VisualSamplesPerPixel),
		BreadthPixels:    g.BreadthPixels * markerBreadthRatio,
		DevicePixelRatio: g.DevicePixelRatio,
		Color:            c,
	}
}

func MarkerLength(lengthConstant, samplesPerPixel float64) float64 {
	return lengthConstant / samplesPerPixel
}

// MarkerBitmap is a rasterized marker in physical pixels.
type MarkerBitmap struct {
	Image            *image.RGBA
	DevicePixelRatio float64
}

// LogicalSize returns the bitmap size in logical pixels.
func (mb *MarkerBitmap) LogicalSize() (length, breadth float64) {
	size := mb.Image.Bounds().Size()
	return float64(size.X) / mb.DevicePixelRatio, float64(size.Y) / mb.DevicePixelRatio
}

// SynthesizeMarker rasterizes a triangle whose apex sits on the left
// (leading) edge and whose base lies along the right (trailing) edge.
// It returns nil when the requested size rounds to nothing.
func SynthesizeMarker(spec MarkerSpec) *MarkerBitmap {
	dpr := math.Max(spec.DevicePixelRatio, 1)
	w := int(math.Round(spec.LengthPixels * dpr))
	h := int(math.Round(spec.BreadthPixels * dpr))
	if w <= 0 || h <= 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	sw := float32(markerStrokeWidth * dpr)
	half := sw / 2
	fw, fh := float32(w), float32(h)
	corners := [][2]float32{
		{fw - half, half},
		{half, fh / 2},
		{fw - half, fh - half},
	}
	z := vector.NewRasterizer(w, h)
	addPolygon(z, corners)
	for i := range corners {
		p0 := corners[i]
		p1 := corners[(i+1)%len(corners)]
		addPolygon(z, strokeQuad(p0, p1, sw))
		addPolygon(z, [][2]float32{
			{p0[0] - half, p0[1] - half},
			{p0[0] + half, p0[1] - half},
			{p0[0] + half, p0[1] + half},
			{p0[0] - half, p0[1] + half},
		})
	}
	z.Draw(img, img.Bounds(), image.NewUniform(spec.Color), image.Point{})
	return &MarkerBitmap{
		Image:            img,
		DevicePixelRatio: dpr,
	}
}

// addPolygon adds a closed polygon with positive winding. The
// rasterizer sums signed coverage, so mixing orientations would punch
// holes where shapes overlap.
func addPolygon(z *vector.Rasterizer, pts [][2]float32) {
	if len(pts) < 3 {
		return
	}
	var area float32
	for i := range pts {
		p0 := pts[i]
		p1 := pts[(i+1)%len(pts)]
		area += p0[0]*p1[1] - p1[0]*p0[1]
	}
	if area == 0 {
		return
	}
	if area < 0 {
		z.MoveTo(pts[len(pts)-1][0], pts[len(pts)-1][1])
		for i := len(pts) - 2; i >= 0; i-- {
			z.LineTo(pts[i][0], pts[i][1])
		}
	} else {
		z.MoveTo(pts[0][0], pts[0][1])
		for _, p := range pts[1:] {
			z.LineTo(p[0], p[1])
		}
	}
	z.ClosePath()
}

func strokeQuad(p0, p1 [2]float32, width float32) [][2]float32 {
	dx := float64(p1[0] - p0[0])
	dy := float64(p1[1] - p0[1])
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil
	}
	nx := float32(-dy / l * float64(width) / 2)
	ny := float32(dx / l * float64(width) / 2)
	return [][2]float32{
		{p0[0] + nx, p0[1] + ny},
		{p1[0] + nx, p1[1] + ny},
		{p1[0] - nx, p1[1] - ny},
		{p0[0] - nx, p0[1] - ny},
	}
}
