/*
NAME
  tile_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package tile

import (
	"image"
	"image/color"
	"testing"
)

func TestAverageHashDistinguishesGlyphs(t *testing.T) {
	bank := LoadBank(4, nil)
	for i := 0; i < bank.NumSymbols(); i++ {
		for j := i + 1; j < bank.NumSymbols(); j++ {
			if bank.Hash(i) == bank.Hash(j) {
				t.Errorf("glyphs %d and %d hash identically", i, j)
			}
		}
	}
}

func TestBestFitRecoversExactGlyph(t *testing.T) {
	bank := LoadBank(4, nil)
	for i := 0; i < bank.NumSymbols(); i++ {
		got, dist := bank.BestFit(bank.Hash(i))
		if got != i {
			t.Errorf("BestFit(hash(%d)) = %d, want %d", i, got, i)
		}
		if dist != 0 {
			t.Errorf("BestFit(hash(%d)) distance = %d, want 0", i, dist)
		}
	}
}

func TestEncodeDecodeSymbolRoundTrip(t *testing.T) {
	bank := LoadBank(4, nil)
	palette := NewPalette(false, 4)
	tr := NewTranslator(bank, palette, 8)

	for symbol := 0; symbol < bank.NumSymbols(); symbol++ {
		for colorIdx := 0; colorIdx < len(palette.Colors); colorIdx++ {
			bits := colorIdx<<tr.BitsPerSymbol | symbol
			img := image.NewRGBA(image.Rect(0, 0, 8, 8))
			tr.Encode(img, image.Pt(0, 0), bits)

			gotSymbol, dist, _, _ := tr.DecodeSymbol(img, image.Pt(0, 0), 0, 0)
			if gotSymbol != symbol {
				t.Errorf("symbol %d/color %d: decoded symbol %d, distance %d", symbol, colorIdx, gotSymbol, dist)
			}
		}
	}
}

// solidGlyph is a GlyphSource whose every symbol is a fully opaque
// 8x8 mark, so the color phase sees an undiluted palette color
// regardless of how little ink a real glyph's shape would leave.
func solidGlyph(i, bitsPerSymbol int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 0, G: 0xFF, B: 0xFF, A: 0xFF})
		}
	}
	return img
}

func TestEncodeDecodeColorRoundTrip(t *testing.T) {
	bank := LoadBank(2, solidGlyph)
	palette := NewPalette(false, 4)
	tr := NewTranslator(bank, palette, 8)

	for colorIdx := 0; colorIdx < len(palette.Colors); colorIdx++ {
		bits := colorIdx<<tr.BitsPerSymbol | 1
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		tr.Encode(img, image.Pt(0, 0), bits)

		got := tr.DecodeColor(img, image.Pt(0, 0), Identity, 80)
		wantBits := colorIdx << tr.BitsPerSymbol
		if got != wantBits {
			t.Errorf("color %d: decoded bits %d, want %d", colorIdx, got, wantBits)
		}
	}
}

func TestRelativeColorDistanceIsZeroForIdenticalColors(t *testing.T) {
	if d := relativeColorDistance(10, 20, 30, 10, 20, 30); d != 0 {
		t.Fatalf("distance of identical colors = %d, want 0", d)
	}
}

func TestNormalizeColorClampsNearGrayInLightMode(t *testing.T) {
	r, g, b := normalizeColor(100, 105, 102, false)
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("near-gray sample in light mode = (%v,%v,%v), want (0,0,0)", r, g, b)
	}
}
