/*
NAME
  palette.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// Package tile implements the symbol/color translator (spec §4.F): a
// glyph bank with precomputed perceptual hashes, a dark/light color
// palette, and the tile Encoder/Decoder that map bit groups to
// composite tile images and back.
package tile

import "image/color"

// possibleColors is the fixed candidate palette a config's bits_per_color
// selects a prefix from, one list per background mode (dark swaps out
// the colors that read poorly against a black background).
func possibleColors(dark bool) []color.RGBA {
	second := color.RGBA{R: 0, G: 0, B: 0xFF, A: 0xFF} // blue struggles in dark mode.
	if dark {
		second = color.RGBA{R: 0xFF, G: 0xFF, B: 0, A: 0xFF} // yellow struggles in light mode.
	}
	return []color.RGBA{
		{R: 0, G: 0xFF, B: 0xFF, A: 0xFF},
		second,
		{R: 0xFF, G: 0, B: 0xFF, A: 0xFF},
		{R: 0, G: 0xFF, B: 0, A: 0xFF},
		{R: 0xFF, G: 0x7F, B: 0, A: 0xFF}, // orange.
		{R: 0, G: 0x7F, B: 0xFF, A: 0xFF}, // sky blue.
		{R: 0xFF, G: 0, B: 0, A: 0xFF},
		{R: 0x7F, G: 0, B: 0xFF, A: 0xFF}, // purple.
		{R: 0xFF, G: 0, B: 0x7F, A: 0xFF}, // pink.
		{R: 0x7F, G: 0xFF, B: 0, A: 0xFF}, // lime green.
		{R: 0, G: 0xFF, B: 0x7F, A: 0xFF}, // sea green.
	}
}

// Palette is the ordered list of colors a config's bits_per_color maps
// tile indices onto, plus the background color that bit group 0 paints
// against (spec §3: "distinct palettes for dark-background and
// light-background modes").
type Palette struct {
	Colors []color.RGBA
	BG     color.RGBA
	Dark   bool
}

// NewPalette returns the first numColors entries of the dark/light
// candidate list, and the corresponding background color.
func NewPalette(dark bool, numColors int) Palette {
	all := possibleColors(dark)
	if numColors > len(all) {
		numColors = len(all)
	}
	bg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	if dark {
		bg = color.RGBA{A: 0xFF}
	}
	return Palette{Colors: append([]color.RGBA(nil), all[:numColors]...), BG: bg, Dark: dark}
}
