package main

import (
	"math"
)

// TileRequest describes one quad of repeated markers.
type TileRequest struct {
	StartPixel  float64
	EndPixel    float64
	Band        [2]float64
	Repetitions float64
	// Flipped mirrors the texture along the length axis so the marker
	// tips point toward EndPixel instead of StartPixel.
	Flipped bool
}

func (tr TileRequest) Empty() bool {
	return tr.Repetitions <= 0 || tr.EndPixel <= tr.StartPixel
}

// FoldAnchor moves anchor by whole multiples of pitch until it is no
// further than one pitch beyond limit on the side given by dir.
//
// TowardDecreasing folds anchors at or past limit into (limit-pitch, limit],
// TowardIncreasing folds anchors at or before limit into [limit, limit+pitch).
// Anchors already on the near side of limit are returned unchanged.
func FoldAnchor(anchor, limit, pitch float64, dir Direction) float64 {
	switch dir {
	case TowardDecreasing:
		if anchor < limit {
			return anchor
		}
		r := residue(anchor, limit, pitch)
		if r == 0 {
			return limit
		}
		return limit + r - pitch
	case TowardIncreasing:
		if anchor > limit {
			return anchor
		}
		r := residue(limit, anchor, pitch)
		if r == 0 {
			return limit
		}
		return limit + pitch - r
	}
	return anchor
}

// residue returns (a - b) mod pitch in [0, pitch). Both remainders are
// taken before subtracting: math.Mod is exact, so a distant anchor
// keeps its phase where ceil((a-b)/pitch)*pitch would not.
func residue(a, b, pitch float64) float64 {
	r := math.Mod(math.Mod(a, pitch)-math.Mod(b, pitch), pitch)
	if r < 0 {
		r += pitch
	}
	if r >= pitch {
		r = 0
	}
	return r
}

// PlanZone turns a marker tip anchor into a TileRequest spanning from
// the folded anchor to oppositeEdge. edge is the viewport edge the
// anchor may lie beyond.
func PlanZone(anchor, edge, oppositeEdge, pitch float64, dir Direction) TileRequest {
	var tr TileRequest
	if pitch <= 0 || math.IsNaN(anchor) || math.IsInf(anchor, 0) {
		return tr
	}
	switch dir {
	case TowardDecreasing:
		x := FoldAnchor(anchor, edge+pitch, pitch, dir)
		tr.StartPixel = oppositeEdge
		tr.EndPixel = x
		tr.Flipped = true
	case TowardIncreasing:
		x := FoldAnchor(anchor, edge-pitch, pitch, dir)
		tr.StartPixel = x
		tr.EndPixel = oppositeEdge
	}
	tr.Repetitions = math.Abs(tr.EndPixel-tr.StartPixel) / pitch
	if tr.EndPixel <= tr.StartPixel {
		tr.Repetitions = 0
	}
	return tr
}
