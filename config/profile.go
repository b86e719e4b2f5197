/*
NAME
  profile.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// Package config defines the named, immutable tile-geometry profiles that
// every other cimbar package is parameterised by.
package config

import (
	"fmt"

	"github.com/ausocean/utils/logging"
)

// ColorCorrection selects the colour-correction strategy used by the tile
// decoder's colour phase (spec §4.F).
type ColorCorrection int

const (
	// ColorCorrectNone applies no colour correction.
	ColorCorrectNone ColorCorrection = iota
	// ColorCorrectWhiteBalance performs a single von-Kries white-balance pass.
	ColorCorrectWhiteBalance
	// ColorCorrectTwoPass names the two-pass mode (white balance, then a
	// least-squares refit). pipeline.Decode treats it exactly like
	// ColorCorrectWhiteBalance: one single-pass estimate, no refit.
	ColorCorrectTwoPass
	// ColorCorrectSplitWhiteBalance names the split white-balance mode
	// (separate estimates for a central disc and the surrounding frame).
	// pipeline.Decode applies one whole-frame single-pass estimate for
	// it; no split is made.
	ColorCorrectSplitWhiteBalance
	// ColorCorrectSplitTwoPass names the split two-pass mode.
	// pipeline.Decode applies one whole-frame single-pass estimate for
	// it; neither a refit nor a split is made.
	ColorCorrectSplitTwoPass
)

// Profile is a named, immutable tile-geometry parameter set. A Profile is
// selected once at invocation and must not change between the encode and
// decode of a given stream; doing so is a user error, not something this
// package attempts to detect beyond the static Validate check below.
type Profile struct {
	// Name identifies the profile, e.g. "4c" or "16c".
	Name string

	// TotalSize is the pixel width/height of the canonical encoded frame.
	TotalSize int

	// CellSize is the pixel size of one tile's side.
	CellSize int

	// CellSpacingX/Y is the center-to-center pixel stride between
	// neighbouring tiles, usually CellSize+1.
	CellSpacingX, CellSpacingY int

	// CellDimX/Y is the grid's tile count along each axis.
	CellDimX, CellDimY int

	// CellsOffset is the pixel offset of the first cell's anchor point.
	CellsOffset int

	// BitsPerSymbol is the number of bits encoded by glyph choice (2 or 4).
	BitsPerSymbol int

	// BitsPerColor is the number of bits encoded by palette choice (0-3).
	BitsPerColor int

	// ECC is the number of Reed-Solomon parity bytes per block.
	ECC int

	// ECCBlockSize is the Reed-Solomon block size n (e.g. 155).
	ECCBlockSize int

	// InterleaveBlocks is the number of RS blocks tiles are spread across.
	InterleaveBlocks int

	// InterleavePartitions is the number of independent interleave
	// partitions (spec §4.C).
	InterleavePartitions int

	// FountainBlocks is the number of RS blocks that make up one fountain
	// chunk.
	FountainBlocks int

	// Dark selects the dark-background palette and glyph polarity.
	Dark bool

	// ColorCorrect selects the tile decoder's colour-correction mode.
	ColorCorrect ColorCorrection

	// MarkerSizeX/Y is derived: the side of a corner anchor in tiles,
	// 54/CellSpacing (so roughly 54 pixels).
	MarkerSizeX, MarkerSizeY int
}

// Validate checks the invariants required by spec §4.A:
// CellsOffset + CellDim*CellSpacing <= TotalSize, and ECC < ECCBlockSize.
func (p *Profile) Validate() error {
	if p.CellsOffset+p.CellDimX*p.CellSpacingX > p.TotalSize {
		return fmt.Errorf("config: x geometry exceeds total size: offset %d + %d*%d > %d", p.CellsOffset, p.CellDimX, p.CellSpacingX, p.TotalSize)
	}
	if p.CellsOffset+p.CellDimY*p.CellSpacingY > p.TotalSize {
		return fmt.Errorf("config: y geometry exceeds total size: offset %d + %d*%d > %d", p.CellsOffset, p.CellDimY, p.CellSpacingY, p.TotalSize)
	}
	if p.ECC >= p.ECCBlockSize {
		return fmt.Errorf("config: ecc %d must be less than ecc block size %d", p.ECC, p.ECCBlockSize)
	}
	if p.BitsPerSymbol != 2 && p.BitsPerSymbol != 4 {
		return fmt.Errorf("config: bits per symbol must be 2 or 4, got %d", p.BitsPerSymbol)
	}
	if p.BitsPerColor < 0 || p.BitsPerColor > 3 {
		return fmt.Errorf("config: bits per color must be 0-3, got %d", p.BitsPerColor)
	}
	if p.MarkerSizeX <= 0 || p.MarkerSizeY <= 0 {
		return fmt.Errorf("config: marker size must be positive, got %dx%d", p.MarkerSizeX, p.MarkerSizeY)
	}
	return nil
}

// BitsPerOp is the total number of bits encoded by a single tile:
// BitsPerSymbol + BitsPerColor.
func (p *Profile) BitsPerOp() int {
	return p.BitsPerSymbol + p.BitsPerColor
}

// NumSymbols is the size of the glyph bank: 2^BitsPerSymbol.
func (p *Profile) NumSymbols() int {
	return 1 << uint(p.BitsPerSymbol)
}

// NumColors is the size of the colour palette: 2^BitsPerColor.
func (p *Profile) NumColors() int {
	return 1 << uint(p.BitsPerColor)
}

// logInvalidField logs a corrected field the way revid's config package
// does, via the provided logger. Nothing in this module calls it; the
// CLI and tests use the named presets as they are.
func logInvalidField(log logging.Logger, name string, def interface{}) {
	if log == nil {
		return
	}
	log.Info(name+" bad or unset, defaulting", name, def)
}

// deriveMarkerSize computes the marker footprint used by the presets below:
// roughly 54 pixels translated into tile units via the cell spacing.
func deriveMarkerSize(spacing int) int {
	m := 54 / spacing
	if m < 1 {
		m = 1
	}
	return m
}

// Default4Color is the baseline 2-bits-per-symbol, 0-bits-per-color
// profile: 4 glyphs, no colour, ecc=30 over 155-byte blocks.
var Default4Color = newProfile("4c", 1024, 8, 2, 0, 30, 155)

// Default16Color is the higher-density 4-bits-per-symbol,
// 2-bits-per-color profile: 16 glyphs x 4 colours per tile.
var Default16Color = newProfile("16c", 1024, 8, 4, 2, 30, 155)

// Default16ColorNoECC is Default16Color with ECC disabled, used for
// fitness measurement against raw channel noise (spec §8 scenario 3/4).
var Default16ColorNoECC = newProfile("16c-noecc", 1024, 8, 4, 2, 0, 155)

func newProfile(name string, totalSize, cellSize, bitsPerSymbol, bitsPerColor, ecc, eccBlockSize int) Profile {
	spacingX := cellSize + 1
	spacingY := cellSize + 1
	dim := (totalSize) / spacingX
	return Profile{
		Name:                 name,
		TotalSize:            totalSize,
		CellSize:             cellSize,
		CellSpacingX:         spacingX,
		CellSpacingY:         spacingY,
		CellDimX:             dim,
		CellDimY:             dim,
		CellsOffset:          4,
		BitsPerSymbol:        bitsPerSymbol,
		BitsPerColor:         bitsPerColor,
		ECC:                  ecc,
		ECCBlockSize:         eccBlockSize,
		InterleaveBlocks:     4,
		InterleavePartitions: 2,
		FountainBlocks:       2,
		Dark:                 true,
		ColorCorrect:         ColorCorrectNone,
		MarkerSizeX:          deriveMarkerSize(spacingX),
		MarkerSizeY:          deriveMarkerSize(spacingY),
	}
}
