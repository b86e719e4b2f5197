/*
NAME
  template.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package pipeline

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ausocean/cimbar/cell"
	"github.com/ausocean/cimbar/config"
	"github.com/ausocean/cimbar/tile"
)

// anchorUnit is the number of ratio units a primary 1:1:4:1:1 bullseye
// (and the 1:2:2 bottom-right variant) spans corner-to-corner, matching
// scan.ratioTables' five-run window (spec §4.G).
const anchorUnit = 8

// anchorInk is the ink color a finder bullseye is painted in: whichever
// of black/white contrasts against the palette's background, mirroring
// the reference's fixed "anchor-dark.png"/"anchor-light.png" assets
// (original_source/cimbar/cimbar.py:_get_image_template).
func anchorInk(dark bool) color.RGBA {
	if dark {
		return color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	return color.RGBA{A: 0xFF}
}

// paintTemplate renders the fixed elements of a canonical frame
// (background, four corner anchors, horizontal guide bars) that every
// encoded frame of a run shares (spec §4.I: "paint the canonical
// template"). Per-frame tile data is painted onto a clone of the
// result.
func paintTemplate(p config.Profile, palette tile.Palette, positions cell.Positions) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.TotalSize, p.TotalSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{palette.BG}, image.Point{}, draw.Src)

	ink := anchorInk(palette.Dark)
	anchorSize := anchorPixelSize(p)
	unit := anchorSize / anchorUnit
	if unit < 1 {
		unit = 1
	}
	primary := []int{unit * 8, unit * 6, unit * 4}
	secondary := []int{unit * 8, unit * 6, unit * 2} // spec §4.G: bottom-right uses a distinct 1:2:2 marker.

	paintBullseye(img, image.Pt(0, 0), primary, ink, palette.BG)
	paintBullseye(img, image.Pt(p.TotalSize-anchorSize, 0), primary, ink, palette.BG)
	paintBullseye(img, image.Pt(0, p.TotalSize-anchorSize), primary, ink, palette.BG)
	paintBullseye(img, image.Pt(p.TotalSize-anchorSize, p.TotalSize-anchorSize), secondary, ink, palette.BG)

	paintHorizontalGuideBars(img, p, positions, ink)
	return img
}

// paintBullseye draws a set of concentric squares of the given sizes
// (widest first), alternating ink and bg starting with ink, so that any
// line crossing the center sees the 1:1:4:1:1 (or 1:2:2) run pattern
// scan.ScanState is built to recognize.
func paintBullseye(dst draw.Image, origin image.Point, sizes []int, ink, bg color.Color) {
	active := true
	for _, s := range sizes {
		inset := (sizes[0] - s) / 2
		c := bg
		if active {
			c = ink
		}
		r := image.Rect(origin.X+inset, origin.Y+inset, origin.X+inset+s, origin.Y+inset+s)
		draw.Draw(dst, r, &image.Uniform{c}, image.Point{}, draw.Src)
		active = !active
	}
}

// paintHorizontalGuideBars fills the top/bottom padding gap
// cell.Positions reserves beside the side markers (spec §4.B's 4-cell
// horizontal inset) with ink, giving the top and bottom "guide bars" of
// spec §6's fixed-element list a pixel region that is never written by
// tile data.
func paintHorizontalGuideBars(dst draw.Image, p config.Profile, positions cell.Positions, ink color.Color) {
	colEnd := positions.MarkerX + positions.EdgeCells
	colStop := p.CellDimX - positions.MarkerX
	if colStop <= colEnd {
		return
	}
	xStart := p.CellsOffset + colEnd*p.CellSpacingX
	xEnd := p.CellsOffset + colStop*p.CellSpacingX
	yTop0 := p.CellsOffset
	yTop1 := p.CellsOffset + positions.MarkerY*p.CellSpacingY
	yBot0 := p.CellsOffset + (p.CellDimY-positions.MarkerY)*p.CellSpacingY
	yBot1 := p.CellsOffset + p.CellDimY*p.CellSpacingY

	draw.Draw(dst, image.Rect(xStart, yTop0, xEnd, yTop1), &image.Uniform{ink}, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(xStart, yBot0, xEnd, yBot1), &image.Uniform{ink}, image.Point{}, draw.Src)
}

// paintVerticalGuideBars overlays the left/right "guide bars" of spec
// §6's fixed-element list onto an already tile-painted frame. Unlike
// the horizontal bars, cell.CellPositions reserves no column gap beside
// the top/bottom markers for a vertical bar (spec §4.B only describes a
// horizontal inset), so this is painted as a final overlay after tile
// data, intentionally sacrificing the handful of data tiles it covers —
// RS/fountain recovery (spec §7 kind 3/4) tolerates that localized loss.
func paintVerticalGuideBars(dst draw.Image, p config.Profile, ink color.Color) {
	barWidth := p.CellSize
	barHeight := 4 * p.CellSpacingY
	yStart := p.TotalSize/2 - barHeight/2
	yEnd := yStart + barHeight

	leftX := p.MarkerSizeX*p.CellSpacingX + p.CellsOffset
	rightX := p.TotalSize - p.MarkerSizeX*p.CellSpacingX - p.CellsOffset - barWidth

	draw.Draw(dst, image.Rect(leftX, yStart, leftX+barWidth, yEnd), &image.Uniform{ink}, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rightX, yStart, rightX+barWidth, yEnd), &image.Uniform{ink}, image.Point{}, draw.Src)
}

// anchorPixelSize is the pixel footprint of a corner anchor: the
// smaller of the two axes' marker-size-in-tiles times cell spacing
// (square in every built-in profile, but computed defensively for
// non-square marker configurations).
func anchorPixelSize(p config.Profile) int {
	x := p.MarkerSizeX * p.CellSpacingX
	y := p.MarkerSizeY * p.CellSpacingY
	if y < x {
		return y
	}
	return x
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
