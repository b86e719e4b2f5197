/*
NAME
  translator.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package tile

import (
	"image"
	"image/draw"
	"math"

	"github.com/ausocean/cimbar/imaging"
)

// neighborhood is the 9-neighborhood search order the symbol-phase
// decoder crops around a drift-adjusted anchor: center first, then
// axis-aligned offsets, then diagonals (spec §4.F).
var neighborhood = [9]image.Point{
	{X: 0, Y: 0},
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1},
}

// ColorCorrection is a 3x3 matrix applied to a sampled (r,g,b) before
// palette matching (spec §4.F color-correction modes 1/2/6/7).
type ColorCorrection [3][3]float64

// Identity is the no-op color-correction matrix (mode 0).
var Identity = ColorCorrection{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func (m ColorCorrection) apply(r, g, b float64) (float64, float64, float64) {
	return m[0][0]*r + m[0][1]*g + m[0][2]*b,
		m[1][0]*r + m[1][1]*g + m[1][2]*b,
		m[2][0]*r + m[2][1]*g + m[2][2]*b
}

// Translator encodes bit groups to tile images and decodes tile images
// back, per spec §4.F.
type Translator struct {
	Bank          *Bank
	Palette       Palette
	BitsPerSymbol int
	CellSize      int
	Ops           imaging.Ops
}

// NewTranslator builds a Translator over bank/palette for cellSize x
// cellSize tiles.
func NewTranslator(bank *Bank, palette Palette, cellSize int) *Translator {
	return &Translator{
		Bank:          bank,
		Palette:       palette,
		BitsPerSymbol: bank.BitsPerSymbol,
		CellSize:      cellSize,
		Ops:           imaging.New(),
	}
}

// Encode paints the tile for bits = (color_index<<bits_per_symbol |
// symbol_index) onto dst at origin (spec §4.F Encoder).
func (t *Translator) Encode(dst draw.Image, origin image.Point, bits int) {
	symbol := bits & (t.Bank.NumSymbols() - 1)
	colorIdx := bits >> t.BitsPerSymbol

	bg := t.Palette.BG
	for y := 0; y < t.CellSize; y++ {
		for x := 0; x < t.CellSize; x++ {
			dst.Set(origin.X+x, origin.Y+y, bg)
		}
	}

	c := t.Palette.BG
	if colorIdx < len(t.Palette.Colors) {
		c = t.Palette.Colors[colorIdx]
	}
	t.Bank.Paint(dst, origin, symbol, c)
}

// DecodeSymbol implements spec §4.F's symbol phase: crop the 9
// neighborhood around the drift-adjusted cell, hash each crop, and
// return the best-fit symbol, its hash distance, and which offset in
// the neighborhood won.
func (t *Translator) DecodeSymbol(img image.Image, cell image.Point, driftX, driftY int) (symbolBits, distance, bestDX, bestDY int) {
	bestDistance := 1 << 30
	for _, off := range neighborhood {
		x := cell.X + driftX + off.X
		y := cell.Y + driftY + off.Y
		crop := t.Ops.Crop(img, image.Rect(x, y, x+t.CellSize, y+t.CellSize))
		h := AverageHash(crop)
		symbol, dist := t.Bank.BestFit(h)
		if dist < bestDistance {
			bestDistance = dist
			symbolBits = symbol
			bestDX, bestDY = off.X, off.Y
		}
		if bestDistance < 8 {
			break
		}
	}
	return symbolBits, bestDistance, bestDX, bestDY
}

// DecodeColor implements spec §4.F's color phase: crop a 1-pixel inset
// of the cell, compute its mean color, apply optional color correction,
// normalize, and select the closest palette entry by relative-color
// distance.
func (t *Translator) DecodeColor(img image.Image, cell image.Point, correction ColorCorrection, darkBrightnessCutoff int) int {
	if len(t.Palette.Colors) <= 1 {
		return 0
	}
	inset := image.Rect(cell.X+1, cell.Y+1, cell.X+t.CellSize-1, cell.Y+t.CellSize-1)
	crop := t.Ops.Crop(img, inset)

	cutoff := -1
	if t.Palette.Dark {
		cutoff = darkBrightnessCutoff
	}
	r, g, b := t.Ops.MeanColor(crop, cutoff)
	r, g, b = correction.apply(r, g, b)
	r, g, b = normalizeColor(r, g, b, t.Palette.Dark)

	best, bestDist := -1, relativeColorDistance(float64(t.Palette.BG.R), float64(t.Palette.BG.G), float64(t.Palette.BG.B), r, g, b)
	for i, c := range t.Palette.Colors {
		d := relativeColorDistance(float64(c.R), float64(c.G), float64(c.B), r, g, b)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0
	}
	return best << t.BitsPerSymbol
}

// normalizeColor subtracts min(r,g,b) and scales so max(r,g,b) maps to
// 255; in light mode, a near-gray sample (max-min < 20) is clamped to
// black, per spec §4.F.
func normalizeColor(r, g, b float64, dark bool) (float64, float64, float64) {
	min := math.Min(r, math.Min(g, b))
	max := math.Max(r, math.Max(g, b))
	if !dark && max-min < 20 {
		return 0, 0, 0
	}
	r -= min
	g -= min
	b -= min
	max -= min
	if max == 0 {
		return 0, 0, 0
	}
	scale := 255 / max
	return r * scale, g * scale, b * scale
}

// relativeColorDistance is invariant to illumination scale (spec §4.F).
func relativeColorDistance(r1, g1, b1, r2, g2, b2 float64) int {
	drg := (r1 - g1) - (r2 - g2)
	dgb := (g1 - b1) - (g2 - b2)
	dbr := (b1 - r1) - (b2 - r2)
	return int(drg*drg + dgb*dgb + dbr*dbr)
}
