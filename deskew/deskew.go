/*
NAME
  deskew.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// Package deskew turns a captured (possibly perspective-skewed)
// CIMBar photo into a canonical, axis-aligned frame the tile
// translator can decode, by scanning for the four corner anchors and
// solving a perspective transform back to the grid (spec §4.H).
package deskew

import (
	"image"
	"math"

	"github.com/ausocean/cimbar/imaging"
	"github.com/ausocean/cimbar/scan"
)

// Level selects how much correction to apply (spec §6 --deskew=0..2).
type Level int

const (
	// LevelNone skips deskewing entirely; the source is used as-is.
	LevelNone Level = 0
	// LevelPerspective scans for the four corners and warps to the
	// canonical grid, with no radial correction.
	LevelPerspective Level = 1
	// LevelRadial additionally attempts a one-parameter radial
	// undistortion pass before the perspective warp.
	LevelRadial Level = 2
)

// Result is the outcome of a Deskew call.
type Result struct {
	// Image is the canonical totalSize x totalSize frame (or, at
	// LevelNone, the untouched source).
	Image image.Image

	// SourceWidth/Height are the original source image's dimensions,
	// reported back per spec §4.H step 4 ("return observed source
	// dimensions").
	SourceWidth, SourceHeight int

	// Alignment is the corner/edge/midpoint geometry the warp was
	// computed from, exposed for diagnostics and grading. It is the zero
	// value at LevelNone, where no scan is made.
	Alignment scan.Alignment
}

// Deskew scans src for the four CIMBar corner anchors and warps it to a
// totalSize x totalSize canonical frame, with markerSize-pixel insets
// matching the encoder's anchor placement (spec §4.H). At LevelNone it
// returns src unchanged without scanning.
func Deskew(src image.Image, dark bool, totalSize, markerSize int, level Level) (Result, error) {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	if level == LevelNone {
		return Result{Image: src, SourceWidth: sw, SourceHeight: sh}, nil
	}

	align, err := scan.NewScanner(src, dark, 17).Scan()
	if err != nil {
		return Result{}, err
	}

	if level >= LevelRadial {
		if k, ok := radialDistortionFactor(align); ok && k != 0 {
			corrected := undistortRadial(src, k)
			if realigned, rerr := scan.NewScanner(corrected, dark, 17).Scan(); rerr == nil {
				src = corrected
				align = realigned
			}
		}
	}

	ops := imaging.New()
	// WarpPerspective wants corners clockwise from top-left; Alignment's
	// Corners are [top_left, top_right, bottom_left, bottom_right].
	srcCorners := [4]image.Point{align.Corners[0], align.Corners[1], align.Corners[3], align.Corners[2]}
	dstCorners := [4]image.Point{
		{X: markerSize, Y: markerSize},
		{X: totalSize - markerSize, Y: markerSize},
		{X: totalSize - markerSize, Y: totalSize - markerSize},
		{X: markerSize, Y: totalSize - markerSize},
	}
	warped, err := ops.WarpPerspective(src, srcCorners, dstCorners, totalSize, totalSize)
	if err != nil {
		return Result{}, err
	}
	return Result{Image: warped, SourceWidth: sw, SourceHeight: sh, Alignment: align}, nil
}

func distance(a, b image.Point) float64 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
