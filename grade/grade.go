/*
NAME
  grade.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// Package grade scores a decoded stream against a known-good baseline,
// tile by tile, attributing bit errors to symbol and colour values so a
// run can be diagnosed rather than just pass/failed (spec §4.J).
package grade

import (
	"math/bits"
	"sort"
)

// ErrorTracker accumulates a bit-error rate over some dimension (a
// single expected symbol value, a single expected colour value, and so
// on), mirroring original_source/cimbar/grader.py's ErrorTracker.
type ErrorTracker struct {
	Errors    int // tiles with at least one bit wrong
	ErrorBits int // total mismatched bits
	Total     int // tiles observed
}

// Add records one tile's bit-error count against this tracker.
func (t *ErrorTracker) Add(errBits int) {
	t.Total++
	if errBits > 0 {
		t.Errors++
		t.ErrorBits += errBits
	}
}

// Rate is the fraction of tiles with at least one bit wrong, or 0 if no
// tiles have been observed.
func (t ErrorTracker) Rate() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Errors) / float64(t.Total)
}

// Grader accumulates per-tile grading results across a full decoded
// stream (spec §4.J's Grader type), grounded on grader.py's Grader
// class and fitness.py's per-tile ErrorTracker breakdown.
type Grader struct {
	bitsPerSymbol int
	symbolMask    uint32

	ErrorBits       int
	ErrorTiles      int
	SymbolErrorBits int
	ColorErrorBits  int

	ErrorsBySymbol   map[uint32]*ErrorTracker
	ErrorsByColor    map[uint32]*ErrorTracker
	MismatchBySymbol map[uint32]*ErrorTracker
	MismatchByColor  map[uint32]*ErrorTracker
}

// NewGrader returns a Grader for values split into bitsPerSymbol
// low-order symbol bits and any remaining high-order colour bits.
func NewGrader(bitsPerSymbol int) *Grader {
	return &Grader{
		bitsPerSymbol:    bitsPerSymbol,
		symbolMask:       1<<uint(bitsPerSymbol) - 1,
		ErrorsBySymbol:   make(map[uint32]*ErrorTracker),
		ErrorsByColor:    make(map[uint32]*ErrorTracker),
		MismatchBySymbol: make(map[uint32]*ErrorTracker),
		MismatchByColor:  make(map[uint32]*ErrorTracker),
	}
}

// Grade compares one decoded tile value against its expected value,
// tallying bit errors overall and by symbol/colour, both keyed by the
// expected value (where the error occurred) and by the actual value
// (what it was mistaken for), per grader.py's grade/evaluate methods.
func (g *Grader) Grade(expectedBits, actualBits uint32) {
	err := bits.OnesCount32(expectedBits ^ actualBits)
	if err > 0 {
		g.ErrorBits += err
		g.ErrorTiles++
	}

	expSym, expColor := g.split(expectedBits)
	actSym, actColor := g.split(actualBits)
	symErr := bits.OnesCount32(expSym ^ actSym)
	colorErr := bits.OnesCount32(expColor ^ actColor)

	g.SymbolErrorBits += symErr
	g.ColorErrorBits += colorErr

	trackerFor(g.ErrorsBySymbol, expSym).Add(symErr)
	trackerFor(g.ErrorsByColor, expColor).Add(colorErr)
	trackerFor(g.MismatchBySymbol, actSym).Add(symErr)
	trackerFor(g.MismatchByColor, actColor).Add(colorErr)
}

func (g *Grader) split(v uint32) (symbol, color uint32) {
	return v & g.symbolMask, v >> uint(g.bitsPerSymbol)
}

func trackerFor(m map[uint32]*ErrorTracker, key uint32) *ErrorTracker {
	t, ok := m[key]
	if !ok {
		t = &ErrorTracker{}
		m[key] = t
	}
	return t
}

// Bucket is one entry of a Report's sorted breakdown.
type Bucket struct {
	Key     uint32
	Tracker ErrorTracker
}

// Report is a snapshot of a Grader's tallies, with the by-symbol/by-
// colour maps flattened into slices sorted lowest-rate-first (grader.py's
// _print_sorted ordering).
type Report struct {
	ErrorBits       int
	ErrorTiles      int
	SymbolErrorBits int
	ColorErrorBits  int

	ErrorsBySymbol   []Bucket
	ErrorsByColor    []Bucket
	MismatchBySymbol []Bucket
	MismatchByColor  []Bucket
}

// Report snapshots the Grader's current state into a sorted, read-only
// Report.
func (g *Grader) Report() Report {
	return Report{
		ErrorBits:        g.ErrorBits,
		ErrorTiles:       g.ErrorTiles,
		SymbolErrorBits:  g.SymbolErrorBits,
		ColorErrorBits:   g.ColorErrorBits,
		ErrorsBySymbol:   sortedBuckets(g.ErrorsBySymbol),
		ErrorsByColor:    sortedBuckets(g.ErrorsByColor),
		MismatchBySymbol: sortedBuckets(g.MismatchBySymbol),
		MismatchByColor:  sortedBuckets(g.MismatchByColor),
	}
}

func sortedBuckets(m map[uint32]*ErrorTracker) []Bucket {
	out := make([]Bucket, 0, len(m))
	for k, t := range m {
		out = append(out, Bucket{Key: k, Tracker: *t})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Tracker.Rate() < out[j].Tracker.Rate()
	})
	return out
}

// GradeStream grades every value of actual against the corresponding
// value of expected, stopping at the shorter of the two, mirroring
// grader.py's evaluate() bit_file loop (spec §4.J evaluate operation).
func GradeStream(bitsPerSymbol int, expected, actual []uint32) *Grader {
	g := NewGrader(bitsPerSymbol)
	n := len(expected)
	if len(actual) < n {
		n = len(actual)
	}
	for i := 0; i < n; i++ {
		g.Grade(expected[i], actual[i])
	}
	return g
}
