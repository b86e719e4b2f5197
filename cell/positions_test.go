/*
NAME
  positions_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package cell

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCellPositionsDeterministic(t *testing.T) {
	a := CellPositions(9, 9, 113, 113, 4, 6, 6)
	b := CellPositions(9, 9, 113, 113, 4, 6, 6)
	if diff := cmp.Diff(a.List, b.List); diff != "" {
		t.Fatalf("CellPositions not deterministic (-first +second):\n%s", diff)
	}
}

func TestCellPositionsCount(t *testing.T) {
	const spacing, dim, offset, markerX, markerY = 9, 113, 4, 6, 6

	pos := CellPositions(spacing, spacing, dim, dim, offset, markerX, markerY)
	want := Count(dim, dim, markerX, markerY)
	if len(pos.List) != want {
		t.Fatalf("len(pos.List) = %d, want %d", len(pos.List), want)
	}
}

func TestCellPositionsUnique(t *testing.T) {
	pos := CellPositions(9, 9, 113, 113, 4, 6, 6)
	seen := make(map[Point]bool, len(pos.List))
	for _, p := range pos.List {
		if seen[p] {
			t.Fatalf("duplicate position %v", p)
		}
		seen[p] = true
	}
}

func TestAdjacentCellFinder(t *testing.T) {
	pos := CellPositions(9, 9, 113, 113, 4, 6, 6)
	f := NewAdjacentCellFinder(&pos)

	for i := range pos.List {
		n := f.Neighbors(i)
		for _, idx := range []int{n.Left, n.Right, n.Top, n.Bottom} {
			if idx == i {
				t.Fatalf("cell %d is its own neighbor", i)
			}
			if idx < -1 || idx >= len(pos.List) {
				t.Fatalf("cell %d has out-of-range neighbor %d", i, idx)
			}
		}
	}
}

func TestFloodDecodeOrderVisitsEveryCellOnce(t *testing.T) {
	pos := CellPositions(9, 9, 113, 113, 4, 6, 6)
	order := NewFloodDecodeOrder(&pos, DefaultDriftLimit)

	seen := make(map[int]int)
	for {
		e, ok := order.Next()
		if !ok {
			break
		}
		seen[e.Index]++
		order.Update(0, 0, 0)
	}

	if len(seen) != len(pos.List) {
		t.Fatalf("visited %d distinct cells, want %d", len(seen), len(pos.List))
	}
	for idx, n := range seen {
		if n != 1 {
			t.Fatalf("cell %d visited %d times, want 1", idx, n)
		}
	}
}

func TestLinearDecodeOrderEmitsAll(t *testing.T) {
	pos := CellPositions(9, 9, 113, 113, 4, 6, 6)
	order := NewLinearDecodeOrder(&pos, DefaultDriftLimit)

	var n int
	for {
		_, ok := order.Next()
		if !ok {
			break
		}
		n++
		order.Update(1, -1, 0)
	}
	if n != len(pos.List) {
		t.Fatalf("emitted %d elements, want %d", n, len(pos.List))
	}
}
