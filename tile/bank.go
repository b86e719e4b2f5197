/*
NAME
  bank.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package tile

import (
	"image"
	"image/color"
	"image/draw"
	"math/bits"

	xdraw "golang.org/x/image/draw"
)

// hashSize is the side length of the downscaled grid an average-hash is
// computed over (spec §3: "downscale + mean-threshold bitmap").
const hashSize = 8

// Hash is an average-hash: one bit per pixel of a hashSize x hashSize
// downscale, set when that pixel's grayscale value exceeds the mean.
type Hash uint64

// Distance returns the Hamming distance between two hashes.
func (h Hash) Distance(other Hash) int {
	return bits.OnesCount64(uint64(h ^ other))
}

// AverageHash computes img's average-hash per spec §3/§4.F.
func AverageHash(img image.Image) Hash {
	small := image.NewGray(image.Rect(0, 0, hashSize, hashSize))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	var sum int
	var px [hashSize * hashSize]uint8
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			v := small.GrayAt(x, y).Y
			px[y*hashSize+x] = v
			sum += int(v)
		}
	}
	mean := sum / (hashSize * hashSize)

	var h Hash
	for i, v := range px {
		if int(v) > mean {
			h |= 1 << uint(i)
		}
	}
	return h
}

// GlyphSource loads the monochrome bitmap for a symbol index. The tile
// glyph bitmaps themselves are an opaque external asset per spec §1; a
// real deployment supplies one backed by the asset directory shipped
// alongside the binary. synthesizedGlyphs below is used when no
// GlyphSource is configured, so the package still builds a usable bank
// for tests and for decoding images produced by this same encoder.
type GlyphSource func(symbolIndex, bitsPerSymbol int) image.Image

// Bank is the loaded, immutable glyph bank: one monochrome mark image
// and its precomputed average-hash per symbol index.
type Bank struct {
	BitsPerSymbol int
	marks         []image.Image // "mark" pixels only; color painted on top at encode time.
	hashes        []Hash
}

// LoadBank loads 2^bitsPerSymbol glyphs via src (or a built-in
// synthetic generator if src is nil) and precomputes each one's hash.
func LoadBank(bitsPerSymbol int, src GlyphSource) *Bank {
	if src == nil {
		src = SyntheticGlyph
	}
	n := 1 << uint(bitsPerSymbol)
	b := &Bank{
		BitsPerSymbol: bitsPerSymbol,
		marks:         make([]image.Image, n),
		hashes:        make([]Hash, n),
	}
	for i := 0; i < n; i++ {
		img := src(i, bitsPerSymbol)
		b.marks[i] = img
		b.hashes[i] = AverageHash(img)
	}
	return b
}

// NumSymbols returns the number of glyphs in the bank.
func (b *Bank) NumSymbols() int { return len(b.marks) }

// Hash returns the precomputed hash for symbol index i.
func (b *Bank) Hash(i int) Hash { return b.hashes[i] }

// BestFit returns the symbol index whose precomputed hash is closest to
// h, and that distance, early-exiting once distance < 8 (spec §4.F).
//
// Glyph bitmaps are an opaque external asset (spec §1); this package's
// synthetic stand-in (SyntheticGlyph) can't guarantee the real asset's
// fixed ink-brighter-than-background polarity once an arbitrary palette
// color is painted over it, so BestFit checks each candidate against
// both its hash and that hash's bitwise complement and keeps whichever
// orientation is closer.
func (b *Bank) BestFit(h Hash) (symbol, distance int) {
	best, bestDist := 0, 1<<30
	for i, gh := range b.hashes {
		d := h.Distance(gh)
		if dc := h.Distance(^gh); dc < d {
			d = dc
		}
		if d < bestDist {
			best, bestDist = i, d
			if bestDist < 8 {
				break
			}
		}
	}
	return best, bestDist
}

// Paint draws glyph symbol's mark pixels onto dst at origin in c,
// leaving non-mark pixels untouched (so the caller can pre-fill the
// background, matching the source's "replace mark pixels" painting
// model, spec §4.F).
func (b *Bank) Paint(dst draw.Image, origin image.Point, symbol int, c color.Color) {
	mark := b.marks[symbol]
	mb := mark.Bounds()
	for y := 0; y < mb.Dy(); y++ {
		for x := 0; x < mb.Dx(); x++ {
			_, _, _, a := mark.At(mb.Min.X+x, mb.Min.Y+y).RGBA()
			if a == 0 {
				continue // transparent = not part of the mark.
			}
			dst.Set(origin.X+x, origin.Y+y, c)
		}
	}
}

// SyntheticGlyph deterministically generates a distinguishable
// monochrome glyph for symbol i out of bitsPerSymbol bits worth of
// symbols, used when no real glyph-bitmap asset directory is
// configured. Each glyph is a cellSize x cellSize bitmap with a
// distinct bit-pattern of filled quadrant blocks, guaranteeing distinct
// average-hashes for distinct indices.
func SyntheticGlyph(i, bitsPerSymbol int) image.Image {
	const cellSize = 8
	img := image.NewRGBA(image.Rect(0, 0, cellSize, cellSize))
	// Transparent background; opaque cyan marks the "ink".
	mark := color.RGBA{R: 0, G: 0xFF, B: 0xFF, A: 0xFF}
	half := cellSize / 2
	quadrant := func(qx, qy int) {
		for y := 0; y < half; y++ {
			for x := 0; x < half; x++ {
				img.Set(qx*half+x, qy*half+y, mark)
			}
		}
	}
	// Every glyph always paints quadrant 0 (a stable anchor corner) then
	// a subset of the remaining three quadrants chosen by the low bits
	// of i, plus a checkerboard perturbation from the high bit that
	// inverts the pixels it covers, so that indices sharing a quadrant
	// pattern (the fully filled one included) still hash distinctly.
	quadrant(0, 0)
	if i&1 != 0 {
		quadrant(1, 0)
	}
	if i&2 != 0 {
		quadrant(0, 1)
	}
	if i&4 != 0 {
		quadrant(1, 1)
	}
	if i&8 != 0 {
		for y := 0; y < cellSize; y += 2 {
			for x := (y / 2) % 2; x < cellSize; x += 2 {
				if img.RGBAAt(x, y).A != 0 {
					img.Set(x, y, color.Transparent)
				} else {
					img.Set(x, y, mark)
				}
			}
		}
	}
	return img
}
