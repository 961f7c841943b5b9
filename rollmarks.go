package main

import (
	"fmt"
)

// RollZones reports which out-of-track zones were drawn in a frame.
type RollZones uint8

const (
	ZonePreroll RollZones = 1 << iota
	ZonePostroll

	ZoneNone RollZones = 0
	ZoneBoth           = ZonePreroll | ZonePostroll
)

func (z RollZones) String() string {
	switch z {
	case ZoneNone:
		return "none"
	case ZonePreroll:
		return "preroll"
	case ZonePostroll:
		return "postroll"
	case ZoneBoth:
		return "both"
	default:
		return fmt.Sprintf("RollZones(%d)", uint8(z))
	}
}

type RollMarkConfig struct {
	LengthConstant float64
	Tolerance      float64
	Color          Color
}

// RollRenderer draws repeated triangle markers over the parts of the
// viewport that lie before the track start or after its end. The only
// state it keeps between frames is the marker texture.
type RollRenderer struct {
	cache          *MarkerCache
	drawer         ZoneDrawer
	lengthConstant float64
	color          Color
}

func NewRollRenderer(cfg RollMarkConfig, drawer ZoneDrawer, upload TextureFactory) *RollRenderer {
	lengthConstant := cfg.LengthConstant
	if lengthConstant <= 0 {
		lengthConstant = DefaultMarkerLengthConstant
	}
	return &RollRenderer{
		cache:          NewMarkerCache(upload, cfg.Tolerance),
		drawer:         drawer,
		lengthConstant: lengthConstant,
		color:          cfg.Color,
	}
}

// CreateRollRenderer sets up the GL draw stage. A failure here means
// the shader could not be built and is not recoverable.
func CreateRollRenderer(cfg RollMarkConfig) (*RollRenderer, *RollDrawStage, error) {
	stage, err := CreateRollDrawStage()
	if err != nil {
		return nil, nil, err
	}
	return NewRollRenderer(cfg, stage, UploadRGBATexture), stage, nil
}

// Render draws the zones visible in this frame and reports which ones
// were drawn.
func (rr *RollRenderer) Render(src PositionSource, view ViewportSource) RollZones {
	ps := src.Snapshot()
	if !ps.HasTrackLoaded() {
		return ZoneNone
	}
	if view.VisualSamplesPerPixel() <= 0 || view.LengthPixels() <= 0 {
		return ZoneNone
	}
	g := ComputeGeometry(view, ps)
	preroll := g.PrerollVisible()
	postroll := g.PostrollVisible()
	if !preroll && !postroll {
		return ZoneNone
	}
	spec := MarkerSpecFor(g, rr.lengthConstant, rr.color)
	tex := rr.cache.EnsureTexture(spec)
	if tex == nil {
		return ZoneNone
	}
	pitch := spec.LengthPixels
	mid := g.BreadthPixels / 2
	band := [2]float64{mid - spec.BreadthPixels/2, mid + spec.BreadthPixels/2}
	var drawn RollZones
	if preroll {
		req := PlanZone(g.TrackStartPixel(), g.LengthPixels, 0, pitch, TowardDecreasing)
		req.Band = band
		if !req.Empty() {
			rr.drawer.DrawZone(req, tex)
			drawn |= ZonePreroll
		}
	}
	if postroll {
		req := PlanZone(g.TrackEndPixel(), 0, g.LengthPixels, pitch, TowardIncreasing)
		req.Band = band
		if !req.Empty() {
			rr.drawer.DrawZone(req, tex)
			drawn |= ZonePostroll
		}
	}
	return drawn
}

// Cache exposes the marker cache for diagnostics.
func (rr *RollRenderer) Cache() *MarkerCache {
	return rr.cache
}

func (rr *RollRenderer) Close() error {
	return rr.cache.Close()
}
