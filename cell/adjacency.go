/*
NAME
  adjacency.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package cell

// Neighbors is the set of adjacent cell indices for a given index. A
// field is -1 when that side falls outside the position list (grid
// edge, or inside an excluded marker/guide region).
type Neighbors struct {
	Left, Right, Top, Bottom int
}

// AdjacentCellFinder answers {left, right, top, bottom} neighbour
// queries for indices into a Positions' List. Neighbours are found by
// grid coordinate, which automatically applies the row/column
// corrections spec §4.B describes informally (adding/subtracting
// MarkerX to cross the side-marker gap): a cell's neighbour is simply
// whichever cell (if any) occupies the adjacent grid coordinate.
type AdjacentCellFinder struct {
	pos *Positions
}

// NewAdjacentCellFinder returns a finder over the given position list.
func NewAdjacentCellFinder(pos *Positions) *AdjacentCellFinder {
	return &AdjacentCellFinder{pos: pos}
}

// Neighbors returns the adjacent indices of pos.List[i]. A neighbour
// field is -1 if no cell occupies that coordinate (grid edge or a
// marker/guide region).
func (f *AdjacentCellFinder) Neighbors(i int) Neighbors {
	g := f.pos.coords[i]
	lookup := func(row, col int) int {
		if idx, ok := f.pos.byCoord[grid{row: row, col: col}]; ok {
			return idx
		}
		return -1
	}
	return Neighbors{
		Left:   lookup(g.row, g.col-1),
		Right:  lookup(g.row, g.col+1),
		Top:    lookup(g.row-1, g.col),
		Bottom: lookup(g.row+1, g.col),
	}
}
