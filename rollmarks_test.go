package main

import (
	"math"
	"testing"
)

type drawCall struct {
	req TileRequest
	tex TextureHandle
}

type recordingDrawer struct {
	calls []drawCall
}

func (rd *recordingDrawer) DrawZone(req TileRequest, tex TextureHandle) {
	rd.calls = append(rd.calls, drawCall{req, tex})
}

func newTestRenderer() (*RollRenderer, *recordingDrawer, *fakeUploader) {
	rd := &recordingDrawer{}
	fu := &fakeUploader{}
	cfg := RollMarkConfig{
		LengthConstant: DefaultMarkerLengthConstant,
		Tolerance:      DefaultMarkerTolerance,
		Color:          opaqueWhite,
	}
	return NewRollRenderer(cfg, rd, fu.upload), rd, fu
}

func TestRenderStartOfTrack(t *testing.T) {
	rr, rd, fu := newTestRenderer()
	ps := StaticPosition{Total: 1_000_000, Current: 0, Loaded: true}
	zones := rr.Render(ps, startOfTrackView)
	if zones != ZonePreroll {
		t.Fatalf("expected preroll only, got %v", zones)
	}
	if len(rd.calls) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(rd.calls))
	}
	if len(fu.textures) != 1 || fu.textures[0].size.X != 10 {
		t.Fatalf("expected one 10px marker texture, got %v", fu.textures)
	}
	req := rd.calls[0].req
	if req.StartPixel != 0 {
		t.Errorf("expected preroll to start at the left edge, got %v", req.StartPixel)
	}
	if math.Abs(req.EndPixel-25000) > 1e-6 {
		t.Errorf("expected preroll to end at the track start, got %v", req.EndPixel)
	}
	if math.Abs(req.Repetitions-req.EndPixel/10) > 1e-9 {
		t.Errorf("expected %v repetitions, got %v", req.EndPixel/10, req.Repetitions)
	}
	if !req.Flipped {
		t.Errorf("expected preroll to be flipped")
	}
	if req.Band != [2]float64{30, 70} {
		t.Errorf("expected band centred on the viewport, got %v", req.Band)
	}
	if rd.calls[0].tex != fu.textures[0] {
		t.Errorf("expected the cached texture to be drawn")
	}
}

func TestRenderVisibilityGating(t *testing.T) {
	view := fixedView{vspp: 4, length: 1000, breadth: 100, dpr: 1, marker: 0.5}
	tests := []struct {
		name  string
		ps    StaticPosition
		view  fixedView
		zones RollZones
		draws int
	}{
		{"no track", StaticPosition{Total: 1000, Current: 500}, view, ZoneNone, 0},
		{"empty track", StaticPosition{Total: 0, Loaded: true}, view, ZoneNone, 0},
		{"middle of a long track", StaticPosition{Total: 1_000_000, Current: 500_000, Loaded: true}, view, ZoneNone, 0},
		{"near the end", StaticPosition{Total: 1_000_000, Current: 999_900, Loaded: true}, view, ZonePostroll, 1},
		{"whole track visible", StaticPosition{Total: 1000, Current: 500, Loaded: true}, view, ZoneBoth, 2},
		{"zero zoom", StaticPosition{Total: 1000, Current: 500, Loaded: true}, fixedView{vspp: 0, length: 1000, breadth: 100, dpr: 1, marker: 0.5}, ZoneNone, 0},
		{"zero length", StaticPosition{Total: 1000, Current: 500, Loaded: true}, fixedView{vspp: 4, length: 0, breadth: 100, dpr: 1, marker: 0.5}, ZoneNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, rd, fu := newTestRenderer()
			if zones := rr.Render(tt.ps, tt.view); zones != tt.zones {
				t.Errorf("expected zones %v, got %v", tt.zones, zones)
			}
			if len(rd.calls) != tt.draws {
				t.Errorf("expected %d draws, got %d", tt.draws, len(rd.calls))
			}
			if tt.draws == 0 && len(fu.textures) != 0 {
				t.Errorf("expected no texture work when nothing is drawn")
			}
		})
	}
}

func TestRenderBothZones(t *testing.T) {
	rr, rd, _ := newTestRenderer()
	view := fixedView{vspp: 4, length: 1000, breadth: 100, dpr: 1, marker: 0.5}
	rr.Render(StaticPosition{Total: 1000, Current: 500, Loaded: true}, view)
	if len(rd.calls) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(rd.calls))
	}
	pre, post := rd.calls[0].req, rd.calls[1].req
	if pre.StartPixel != 0 || pre.EndPixel != 375 || !pre.Flipped {
		t.Errorf("unexpected preroll request %+v", pre)
	}
	if pre.Repetitions != 37.5 {
		t.Errorf("expected 37.5 preroll repetitions, got %v", pre.Repetitions)
	}
	if post.StartPixel != 625 || post.EndPixel != 1000 || post.Flipped {
		t.Errorf("unexpected postroll request %+v", post)
	}
	if post.Repetitions != 37.5 {
		t.Errorf("expected 37.5 postroll repetitions, got %v", post.Repetitions)
	}
}

func TestRenderPlayMarkerExtremes(t *testing.T) {
	rr, rd, _ := newTestRenderer()
	// play marker at the left edge: the track start is pixel 0, nothing precedes it
	view := fixedView{vspp: 4, length: 1000, breadth: 100, dpr: 1, marker: 0}
	rr.Render(StaticPosition{Total: 1000, Current: 0, Loaded: true}, view)
	if len(rd.calls) != 1 || rd.calls[0].req.Flipped {
		t.Fatalf("expected a single postroll draw, got %+v", rd.calls)
	}
	if got := rd.calls[0].req.StartPixel; got != 250 {
		t.Errorf("expected postroll to start at pixel 250, got %v", got)
	}

	rd.calls = nil
	view.marker = 1
	view.vspp = 0.01
	rr.Render(StaticPosition{Total: 1_000_000, Current: 5, Loaded: true}, view)
	if len(rd.calls) != 1 {
		t.Fatalf("expected a single preroll draw, got %d", len(rd.calls))
	}
	req := rd.calls[0].req
	if req.EndPixel != 500 {
		t.Errorf("expected preroll to end at pixel 500, got %v", req.EndPixel)
	}
	// a 4000px marker only partly fits, so repetitions stay fractional
	if req.Repetitions != 0.125 {
		t.Errorf("expected 0.125 repetitions, got %v", req.Repetitions)
	}
}

func TestRenderDegenerateTexture(t *testing.T) {
	rr, rd, fu := newTestRenderer()
	view := fixedView{vspp: 4, length: 1000, breadth: 1, dpr: 1, marker: 0.5}
	zones := rr.Render(StaticPosition{Total: 1000, Current: 500, Loaded: true}, view)
	if zones != ZoneNone {
		t.Errorf("expected no zones, got %v", zones)
	}
	if len(rd.calls) != 0 {
		t.Errorf("expected no draws, got %d", len(rd.calls))
	}
	if len(fu.textures) != 0 {
		t.Errorf("expected no uploads, got %d", len(fu.textures))
	}
}

func TestRenderReusesTextureAcrossFrames(t *testing.T) {
	rr, rd, fu := newTestRenderer()
	ps := StaticPosition{Total: 1_000_000, Current: 0, Loaded: true}
	for frame := 0; frame < 10; frame++ {
		ps.Current = int64(frame * 100)
		rr.Render(ps, startOfTrackView)
	}
	if n := rr.Cache().Synthesized(); n != 1 {
		t.Errorf("expected 1 synthesis, got %d", n)
	}
	if len(fu.textures) != 1 {
		t.Errorf("expected 1 upload, got %d", len(fu.textures))
	}
	if len(rd.calls) != 10 {
		t.Errorf("expected 10 draws, got %d", len(rd.calls))
	}
	if err := rr.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fu.textures[0].closed {
		t.Errorf("expected the texture released on close")
	}
}

func TestRollZonesString(t *testing.T) {
	tests := []struct {
		z    RollZones
		want string
	}{
		{ZoneNone, "none"},
		{ZonePreroll, "preroll"},
		{ZonePostroll, "postroll"},
		{ZoneBoth, "both"},
		{RollZones(8), "RollZones(8)"},
	}
	for _, tt := range tests {
		if got := tt.z.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
