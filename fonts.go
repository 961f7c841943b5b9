package main

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type FontSizeInPoints = float64

const (
	atlasFirstRune = ' '
	atlasLastRune  = '~'
	atlasCols      = 16
)

// GlyphAtlas is a monospace glyph sheet covering printable ASCII.
type GlyphAtlas struct {
	Image    *image.Alpha
	TileSize Size
	Cols     int
	Rows     int
}

// TileOf returns the atlas cell for r, falling back to '?'.
func (ga *GlyphAtlas) TileOf(r rune) (col, row int) {
	if r < atlasFirstRune || r > atlasLastRune {
		r = '?'
	}
	i := int(r - atlasFirstRune)
	return i % ga.Cols, i / ga.Cols
}

func LoadStatusFont() (*opentype.Font, error) {
	return opentype.Parse(gomono.TTF)
}

// BuildGlyphAtlas renders the face at size points, scaled by the
// device pixel ratio so glyphs stay crisp on dense displays.
func BuildGlyphAtlas(f *opentype.Font, size FontSizeInPoints, dpr float64) (*GlyphAtlas, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72 * dpr,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	defer face.Close()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	tileHeight := metrics.Height.Ceil()
	if tileHeight == 0 {
		tileHeight = ascent + metrics.Descent.Ceil()
	}
	adv, ok := face.GlyphAdvance('m')
	if !ok {
		return nil, fmt.Errorf("font face does not provide a glyph for rune 'm'")
	}
	tileWidth := adv.Ceil()
	nGlyphs := int(atlasLastRune-atlasFirstRune) + 1
	rows := (nGlyphs + atlasCols - 1) / atlasCols
	ga := &GlyphAtlas{
		Image:    image.NewAlpha(image.Rect(0, 0, tileWidth*atlasCols, tileHeight*rows)),
		TileSize: Size{X: tileWidth, Y: tileHeight},
		Cols:     atlasCols,
		Rows:     rows,
	}
	for r := atlasFirstRune; r <= atlasLastRune; r++ {
		col, row := ga.TileOf(r)
		dot := fixed.Point26_6{
			X: fixed.I(col * tileWidth),
			Y: fixed.I(row*tileHeight + ascent),
		}
		dstRect, mask, maskPt, _, ok := face.Glyph(dot, r)
		if !ok || mask == nil {
			continue
		}
		draw.Draw(ga.Image, dstRect, mask, maskPt, draw.Src)
	}
	return ga, nil
}
