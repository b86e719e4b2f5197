/*
NAME
  positions.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// Package cell enumerates tile anchor positions on the canonical grid,
// answers tile adjacency queries, and orders tile decode so that a
// locally estimated sampling drift can propagate between neighbours
// (spec §4.B).
package cell

// Point is a pixel position of a tile's top-left sampling anchor.
type Point struct {
	X, Y int
}

// grid is the (row, col) coordinate a position was emitted at, kept
// alongside Point so AdjacentCellFinder can answer neighbour queries by
// grid coordinate rather than re-deriving them from pixel offsets.
type grid struct {
	row, col int
}

// Positions is the emitted cell-position list plus the bookkeeping the
// adjacency finder needs to skip the side-marker gaps.
type Positions struct {
	// List holds every tile anchor in row-major-by-section order: top
	// strip, mid band, bottom strip.
	List []Point

	// EdgeCells is the number of cells in each of the top/bottom strip
	// rows (i.e. the column span shared by the top and bottom strips).
	EdgeCells int

	// MarkerX/Y are carried through from the profile for adjacency math.
	MarkerX, MarkerY int

	// DimX/Y are carried through from the profile for adjacency math.
	DimX, DimY int

	coords  []grid
	byCoord map[grid]int
}

// padding is the 4-cell horizontal inset reserved for the top/bottom
// guide bar, at the right-hand end of the top and bottom strips (just
// before the right-side markers).
const padding = 4

// CellPositions enumerates every tile anchor on a dimX x dimY grid with
// the given spacing and offset, excluding the four markerX x markerY
// corner marker regions (and the guide-bar insets next to them).
func CellPositions(spacingX, spacingY, dimX, dimY, offset, markerX, markerY int) Positions {
	var list []Point
	var coords []grid

	colStart := markerX
	colEnd := dimX - markerX - padding
	if colEnd < colStart {
		colEnd = colStart
	}

	emit := func(row, col int) {
		list = append(list, Point{X: offset + col*spacingX, Y: offset + row*spacingY})
		coords = append(coords, grid{row: row, col: col})
	}

	// Top strip: rows 0..markerY, columns [markerX, dimX-markerX-padding).
	for row := 0; row < markerY; row++ {
		for col := colStart; col < colEnd; col++ {
			emit(row, col)
		}
	}

	// Mid band: all columns, rows [markerY, dimY-markerY).
	for row := markerY; row < dimY-markerY; row++ {
		for col := 0; col < dimX; col++ {
			emit(row, col)
		}
	}

	// Bottom strip: same columns as top strip, rows [dimY-markerY, dimY).
	for row := dimY - markerY; row < dimY; row++ {
		for col := colStart; col < colEnd; col++ {
			emit(row, col)
		}
	}

	byCoord := make(map[grid]int, len(coords))
	for i, c := range coords {
		byCoord[c] = i
	}

	return Positions{
		List:      list,
		EdgeCells: colEnd - colStart,
		MarkerX:   markerX,
		MarkerY:   markerY,
		DimX:      dimX,
		DimY:      dimY,
		coords:    coords,
		byCoord:   byCoord,
	}
}

// Corners returns the four seed indices FloodDecodeOrder starts from:
// the grid's top-left, top-right, bottom-left and bottom-right
// occupied positions (spec §4.B: "index 0, end of top-strip row,
// last-row first cell, last index").
func (p *Positions) Corners() [4]int {
	colEnd := p.MarkerX + p.EdgeCells
	topRight, ok := p.byCoord[grid{row: 0, col: colEnd - 1}]
	if !ok {
		topRight = 0
	}
	bottomLeft, ok := p.byCoord[grid{row: p.DimY - 1, col: p.MarkerX}]
	if !ok {
		bottomLeft = len(p.List) - 1
	}
	return [4]int{0, topRight, bottomLeft, len(p.List) - 1}
}

// Count returns the expected number of cell positions for the given
// geometry. Per spec §3 this is nominally dimX*dimY - 4*markerX*markerY;
// §4.B additionally reserves a 4-cell horizontal inset for the guide bar
// at the right-hand end of every top- and bottom-strip row, which this
// formula accounts for exactly as CellPositions emits it.
func Count(dimX, dimY, markerX, markerY int) int {
	return dimX*dimY - 4*markerX*markerY - 2*markerY*padding
}
