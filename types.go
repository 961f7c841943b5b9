package main

import (
	"image"
	"image/color"
)

type Size = image.Point
type Rect = image.Rectangle

// Smp is a single interleaved sample as stored in a Track.
type Smp = float32

type Color = color.NRGBA

// Direction tells the tile planner which way the marker pattern
// extends from its anchor.
type Direction int

const (
	// TowardDecreasing repeats markers from the anchor toward lower
	// pixel coordinates (preroll).
	TowardDecreasing Direction = iota
	// TowardIncreasing repeats markers from the anchor toward higher
	// pixel coordinates (postroll).
	TowardIncreasing
)

func (d Direction) String() string {
	switch d {
	case TowardDecreasing:
		return "decreasing"
	case TowardIncreasing:
		return "increasing"
	default:
		return "unknown"
	}
}
