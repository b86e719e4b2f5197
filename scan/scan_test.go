/*
NAME
  scan_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package scan

import "testing"

func TestScanStateDetectsRatioPattern(t *testing.T) {
	s := NewScanState("1:1:4")
	seq := []bool{true, false, true, true, true, true, false, true, false}
	var gotWidth int
	var gotOK bool
	for _, active := range seq {
		if w, ok := s.Process(active); ok {
			gotWidth, gotOK = w, ok
		}
	}
	if !gotOK {
		t.Fatal("expected ScanState to recognize a 1:1:4:1:1 pattern")
	}
	if gotWidth != 8 {
		t.Fatalf("width = %d, want 8 (1+1+4+1+1)", gotWidth)
	}
}

func TestScanStateRejectsOutOfToleranceRatio(t *testing.T) {
	s := NewScanState("1:1:4")
	// All five runs equal length: center/outer ratio is 1, outside [3,6].
	seq := []bool{true, false, true, false, true, false}
	for _, active := range seq {
		if _, ok := s.Process(active); ok {
			t.Fatal("expected no match for an evenly-spaced (non-1:1:4:1:1) run sequence")
		}
	}
}

func TestEdgeScanStateReportsFirstActiveRun(t *testing.T) {
	s := NewEdgeScanState()
	seq := []bool{false, false, true, true, true, false}
	var got int
	var ok bool
	for _, active := range seq {
		if size, found := s.Process(active); found {
			got, ok = size, found
		}
	}
	if !ok {
		t.Fatal("expected EdgeScanState to report a run")
	}
	if got != 3 {
		t.Fatalf("run length = %d, want 3", got)
	}
}

func TestAnchorMergeGrowsBoundingBox(t *testing.T) {
	a := NewAnchor(10, 20, 10, 20)
	b := NewAnchor(5, 15, 25, 35)
	a.Merge(b)
	if a.X != 5 || a.XMax != 20 || a.Y != 10 || a.YMax != 35 {
		t.Fatalf("merged anchor = %+v, want {5 20 10 35}", a)
	}
}

func TestAnchorIsMergeableRespectsCutoffAndSize(t *testing.T) {
	a := NewAnchor(100, 120, 100, 120) // xavg=110, yavg=110, maxrange=20
	close := NewAnchor(102, 122, 102, 122)
	if !a.IsMergeable(close, 10) {
		t.Fatal("expected similarly-sized nearby anchor to be mergeable")
	}

	far := NewAnchor(500, 520, 500, 520)
	if a.IsMergeable(far, 10) {
		t.Fatal("expected distant anchor to not be mergeable")
	}

	tiny := NewAnchor(100, 101, 100, 101) // maxrange=1, ratio way outside 6-17
	if a.IsMergeable(tiny, 10) {
		t.Fatal("expected wildly different-sized anchor to not be mergeable")
	}
}

func TestDeduplicateCandidatesIsIdempotent(t *testing.T) {
	s := &Scanner{cutoff: 10}
	candidates := []Anchor{
		NewAnchor(100, 120, 100, 120),
		NewAnchor(103, 123, 102, 122),
		NewAnchor(400, 420, 400, 420),
	}

	once := s.deduplicateCandidates(candidates)
	twice := s.deduplicateCandidates(once)

	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: len(once)=%d, len(twice)=%d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("dedup not idempotent at %d: %+v != %+v", i, once[i], twice[i])
		}
	}
}

func TestFilterCandidatesKeepsThreeLargest(t *testing.T) {
	candidates := []Anchor{
		NewAnchor(0, 5, 0, 5),
		NewAnchor(0, 50, 0, 50),
		NewAnchor(0, 40, 0, 40),
		NewAnchor(0, 45, 0, 45),
	}
	kept, maxRange := filterCandidates(candidates)
	if len(kept) != 3 {
		t.Fatalf("kept %d candidates, want 3", len(kept))
	}
	if maxRange <= 0 {
		t.Fatalf("maxRange = %d, want positive", maxRange)
	}
	for _, c := range kept {
		if c.XRange() == 2 { // the smallest (xmax=5) one should be dropped.
			t.Fatalf("smallest candidate should not survive filtering: %+v", c)
		}
	}
}
