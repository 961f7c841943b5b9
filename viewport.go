package main

import (
	"math"

	"github.com/samber/lo"
)

const (
	defaultSamplesPerPixel = 64.0
	defaultMinZoom         = 0.25
	defaultMaxZoom         = 16384.0
	zoomStep               = 1.25
)

// ViewportSource describes the zoomed, scrolled window the waveform
// is drawn into. Lengths are measured along the time axis, breadths
// across it, both in logical pixels.
type ViewportSource interface {
	VisualSamplesPerPixel() float64
	LengthPixels() float64
	BreadthPixels() float64
	DevicePixelRatio() float64
	// PlayMarkerPosition is the fraction of the length at which the
	// current play position is pinned.
	PlayMarkerPosition() float64
}

// Viewport holds the mutable zoom and size state driven by the app.
// It is only touched from the render thread.
type Viewport struct {
	samplesPerPixel float64
	defaultZoom     float64
	minZoom         float64
	maxZoom         float64
	playMarker      float64
	length          float64
	breadth         float64
	dpr             float64
}

func NewViewport(samplesPerPixel, playMarker float64) *Viewport {
	if samplesPerPixel <= 0 {
		samplesPerPixel = defaultSamplesPerPixel
	}
	v := &Viewport{
		defaultZoom: samplesPerPixel,
		minZoom:     defaultMinZoom,
		maxZoom:     defaultMaxZoom,
		playMarker:  lo.Clamp(playMarker, 0, 1),
		dpr:         1,
	}
	v.SetZoom(samplesPerPixel)
	return v
}

func (v *Viewport) VisualSamplesPerPixel() float64 { return v.samplesPerPixel }
func (v *Viewport) LengthPixels() float64          { return v.length }
func (v *Viewport) BreadthPixels() float64         { return v.breadth }
func (v *Viewport) DevicePixelRatio() float64      { return v.dpr }
func (v *Viewport) PlayMarkerPosition() float64    { return v.playMarker }

func (v *Viewport) SetSize(length, breadth float64) {
	v.length = math.Max(length, 0)
	v.breadth = math.Max(breadth, 0)
}

// SetDevicePixelRatio records the physical/logical pixel ratio.
// Values below 1 are treated as 1.
func (v *Viewport) SetDevicePixelRatio(dpr float64) {
	v.dpr = math.Max(dpr, 1)
}

func (v *Viewport) SetZoom(samplesPerPixel float64) {
	v.samplesPerPixel = lo.Clamp(samplesPerPixel, v.minZoom, v.maxZoom)
}

func (v *Viewport) ZoomIn() {
	v.SetZoom(v.samplesPerPixel / zoomStep)
}

func (v *Viewport) ZoomOut() {
	v.SetZoom(v.samplesPerPixel * zoomStep)
}

func (v *Viewport) ResetZoom() {
	v.SetZoom(v.defaultZoom)
}

// ViewportGeometry is the per-frame mapping between the sample
// timeline and the pixel viewport.
type ViewportGeometry struct {
	VisualSamplesPerPixel float64
	FirstVisibleFraction  float64
	LastVisibleFraction   float64
	LengthPixels          float64
	BreadthPixels         float64
	DevicePixelRatio      float64

	playMarkerPixel float64
	currentSample   float64
	totalSamples    float64
}

// ComputeGeometry derives the frame's geometry. The caller must have
// checked ps.HasTrackLoaded().
func ComputeGeometry(view ViewportSource, ps PlaybackState) ViewportGeometry {
	vspp := view.VisualSamplesPerPixel()
	length := view.LengthPixels()
	total := float64(ps.TotalSamples())
	current := float64(ps.PlayPosition())
	marker := view.PlayMarkerPosition()
	g := ViewportGeometry{
		VisualSamplesPerPixel: vspp,
		LengthPixels:          length,
		BreadthPixels:         view.BreadthPixels(),
		DevicePixelRatio:      math.Max(view.DevicePixelRatio(), 1),
		playMarkerPixel:       marker * length,
		currentSample:         current,
		totalSamples:          total,
	}
	samplesShown := length * vspp
	g.FirstVisibleFraction = (current - marker*samplesShown) / total
	g.LastVisibleFraction = (current + (1-marker)*samplesShown) / total
	return g
}

func (g ViewportGeometry) SampleToPixel(sample float64) float64 {
	return g.playMarkerPixel + (sample-g.currentSample)/g.VisualSamplesPerPixel
}

func (g ViewportGeometry) PixelToSample(x float64) float64 {
	return g.currentSample + (x-g.playMarkerPixel)*g.VisualSamplesPerPixel
}

func (g ViewportGeometry) PlayMarkerPixel() float64 { return g.playMarkerPixel }

// TrackStartPixel is where sample 0 falls, possibly far off screen.
func (g ViewportGeometry) TrackStartPixel() float64 { return g.SampleToPixel(0) }

// TrackEndPixel is where the last sample boundary falls.
func (g ViewportGeometry) TrackEndPixel() float64 { return g.SampleToPixel(g.totalSamples) }

func (g ViewportGeometry) PrerollVisible() bool  { return g.FirstVisibleFraction < 0 }
func (g ViewportGeometry) PostrollVisible() bool { return g.LastVisibleFraction > 1 }
