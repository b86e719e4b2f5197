/*
NAME
  grade_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package grade

import "testing"

func TestGradeNoErrors(t *testing.T) {
	g := NewGrader(4)
	for _, v := range []uint32{0x0, 0xA, 0xF, 0x3C} {
		g.Grade(v, v)
	}
	if g.ErrorBits != 0 || g.ErrorTiles != 0 {
		t.Fatalf("ErrorBits=%d ErrorTiles=%d, want 0, 0", g.ErrorBits, g.ErrorTiles)
	}
}

func TestGradeCountsSymbolAndColorBitsSeparately(t *testing.T) {
	g := NewGrader(4)
	// expected 0x1F = color 0x1, symbol 0xF; actual 0x0F = color 0x0, symbol 0xF.
	// Only the color nibble differs, by one bit.
	g.Grade(0x1F, 0x0F)

	if g.ErrorBits != 1 {
		t.Fatalf("ErrorBits = %d, want 1", g.ErrorBits)
	}
	if g.SymbolErrorBits != 0 {
		t.Fatalf("SymbolErrorBits = %d, want 0", g.SymbolErrorBits)
	}
	if g.ColorErrorBits != 1 {
		t.Fatalf("ColorErrorBits = %d, want 1", g.ColorErrorBits)
	}
	if g.ErrorTiles != 1 {
		t.Fatalf("ErrorTiles = %d, want 1", g.ErrorTiles)
	}
}

func TestReportSortedByErrorRateAscending(t *testing.T) {
	g := NewGrader(4)
	// symbol 0x1: always correct.
	g.Grade(0x01, 0x01)
	g.Grade(0x01, 0x01)
	// symbol 0x2: always wrong.
	g.Grade(0x02, 0x03)
	g.Grade(0x02, 0x03)

	r := g.Report()
	if len(r.ErrorsBySymbol) != 2 {
		t.Fatalf("len(ErrorsBySymbol) = %d, want 2", len(r.ErrorsBySymbol))
	}
	if r.ErrorsBySymbol[0].Key != 0x1 {
		t.Fatalf("ordering wrong: first key = %#x, want 0x1 (lowest error rate sorts first)", r.ErrorsBySymbol[0].Key)
	}
	if r.ErrorsBySymbol[1].Key != 0x2 {
		t.Fatalf("ordering wrong: last key = %#x, want 0x2", r.ErrorsBySymbol[1].Key)
	}
}

func TestGradeStreamStopsAtShorterSlice(t *testing.T) {
	expected := []uint32{1, 2, 3, 4}
	actual := []uint32{1, 2, 3}
	g := GradeStream(4, expected, actual)
	if g.Report().ErrorBits != 0 {
		t.Fatalf("ErrorBits = %d, want 0 (only overlapping prefix graded)", g.Report().ErrorBits)
	}
}
