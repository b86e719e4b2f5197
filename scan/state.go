/*
NAME
  state.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// Package scan locates the four corner anchors (and their edge
// midpoints) of a CIMBar frame in a captured image, so the deskew
// package can compute a perspective transform back to the canonical
// grid (spec §4.G).
package scan

// ratioLimits is the pair of (min, max) tolerance bounds the center run
// of a five-run window, divided by an outer run and by an inner run
// respectively, must fall within for ScanState to accept a candidate.
type ratioLimits struct {
	outer [2]float64
	inner [2]float64
}

// ratioTables mirrors the reference scanner's two finder ratios: the
// primary 1:1:4:1:1 bullseye, and the 1:2:2 secondary marker used to
// disambiguate the bottom-right corner (spec §4.G, §6).
var ratioTables = map[string]ratioLimits{
	"1:1:4": {outer: [2]float64{3.0, 6.0}, inner: [2]float64{3.0, 6.0}},
	"1:2:2": {outer: [2]float64{1.0, 3.0}, inner: [2]float64{0.5, 1.5}},
}

// ScanState consumes a stream of active/inactive pixel samples and
// recognizes the five-run ratio pattern of a finder line (spec §4.G).
// States 0..5 alternate inactive/active; reaching state 6 triggers a
// ratio evaluation over the last five run lengths, after which the
// window slides forward by two runs (state drops back to 4) so an
// overlapping candidate starting mid-stream isn't missed.
type ScanState struct {
	state  int
	tally  []int
	limits ratioLimits
}

// NewScanState returns a ScanState configured for the given ratio name
// ("1:1:4" or "1:2:2").
func NewScanState(ratio string) *ScanState {
	return &ScanState{state: 0, tally: []int{0}, limits: ratioTables[ratio]}
}

func (s *ScanState) popState() {
	s.state -= 2
	if len(s.tally) > 2 {
		s.tally = s.tally[2:]
	} else {
		s.tally = nil
	}
}

// evaluateState checks the last five run lengths against the ratio
// tolerance and returns the total anchor width on success.
func (s *ScanState) evaluateState() (width int, ok bool) {
	if s.state != 6 {
		return 0, false
	}
	runs := append([]int(nil), s.tally[1:6]...)
	for _, r := range runs {
		if r == 0 {
			return 0, false
		}
	}

	center := runs[2]
	outerA, innerB, innerC, outerD := runs[0], runs[1], runs[3], runs[4]

	// The reference scanner keys its per-run check by the run-length
	// value itself rather than its position, so two runs that happen to
	// share a length share a single check. Preserved here for fidelity.
	checks := map[int][2]float64{
		outerA: s.limits.outer,
		innerB: s.limits.inner,
		innerC: s.limits.inner,
		outerD: s.limits.outer,
	}
	for run, limits := range checks {
		ratioMin := float64(center) / float64(run+1)
		ratioMax := float64(center) / float64(maxInt(1, run-1))
		if ratioMax < limits[0] || ratioMin > limits[1] {
			return 0, false
		}
	}
	return outerA + innerB + center + innerC + outerD, true
}

// Process feeds one more sample into the state machine. It returns a
// positive width and ok=true exactly when a full five-run pattern was
// just evaluated and passed the ratio checks; the window slides forward
// after every evaluation, whether it passed or not.
func (s *ScanState) Process(active bool) (int, bool) {
	isTransition := (s.state == 0 || s.state == 2 || s.state == 4) && active ||
		(s.state == 1 || s.state == 3 || s.state == 5) && !active
	if isTransition {
		s.state++
		s.tally = append(s.tally, 0)
		s.tally[len(s.tally)-1]++
		if s.state == 6 {
			width, ok := s.evaluateState()
			s.popState()
			return width, ok
		}
		return 0, false
	}
	if (s.state == 1 || s.state == 3 || s.state == 5) && active {
		s.tally[len(s.tally)-1]++
	}
	if (s.state == 2 || s.state == 4) && !active {
		s.tally[len(s.tally)-1]++
	}
	return 0, false
}

// EdgeScanState is a minimal two-state run-length detector: it reports
// the length of the first active run following an inactive one. Used
// by the edge-midpoint walk (spec §4.G "edge-midpoint search"), which
// only needs to find where the edge line itself begins, not a full
// finder pattern.
type EdgeScanState struct {
	state int
	tally []int
}

// NewEdgeScanState returns a fresh EdgeScanState.
func NewEdgeScanState() *EdgeScanState {
	return &EdgeScanState{state: 0, tally: []int{0}}
}

func (s *EdgeScanState) popState() {
	s.state -= 2
	if len(s.tally) > 2 {
		s.tally = s.tally[2:]
	} else {
		s.tally = nil
	}
}

// Process feeds one more sample. It returns the run length and ok=true
// when an active run following an inactive run has just completed.
func (s *EdgeScanState) Process(active bool) (int, bool) {
	isTransition := s.state == 0 && active || s.state == 1 && !active
	if isTransition {
		s.state++
		s.tally = append(s.tally, 0)
		s.tally[len(s.tally)-1]++
		if s.state == 2 {
			res := s.tally[1]
			s.popState()
			return res, true
		}
		return 0, false
	}
	if s.state == 1 && active {
		s.tally[len(s.tally)-1]++
	}
	if s.state == 0 && !active {
		s.tally[len(s.tally)-1]++
	}
	return 0, false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
