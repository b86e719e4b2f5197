/*
NAME
  scanner.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package scan

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/ausocean/cimbar/imaging"
)

// ErrTooFewAnchors is returned by Scan when fewer than three finder
// patterns survive filtering (spec §7 error kind 2: anchor-detection
// failure).
var ErrTooFewAnchors = errors.New("scan: fewer than three anchors found")

// Alignment is the result of a successful Scan: the four frame corners
// (top-left, top-right, bottom-left, bottom-right), the edge points
// findEdge located on each side (Edges), and the geometric edge
// midpoints that search started from (Midpoints).
type Alignment struct {
	Corners   [4]image.Point
	Edges     [4]image.Point
	Midpoints Midpoints
}

// Scanner locates CIMBar finder anchors in a captured image.
type Scanner struct {
	ops    imaging.Ops
	bin    [][]bool
	width  int
	height int
	dark   bool
	skip   int
	cutoff int
	ratio  string
}

// nextPowerOfTwoPlusOne returns 2^ceil(log2(x)) + 1, the kernel-size
// rounding rule spec §4.G's preprocess step uses for the Gaussian blur.
func nextPowerOfTwoPlusOne(x int) int {
	if x < 1 {
		x = 1
	}
	n := x - 1
	bits := 0
	for n > 0 {
		bits++
		n >>= 1
	}
	return 1<<uint(bits) + 1
}

// NewScanner preprocesses img (grayscale, blur, Otsu threshold) and
// returns a Scanner ready to locate anchors. skip is the row stride for
// the horizontal scan pass; 0 selects height/200.
func NewScanner(img image.Image, dark bool, skip int) *Scanner {
	ops := imaging.New()
	gray := ops.Grayscale(img)

	b := gray.Bounds()
	minSide := b.Dx()
	if b.Dy() < minSide {
		minSide = b.Dy()
	}
	blurUnit := nextPowerOfTwoPlusOne(int(float64(minSide) * 0.002))
	if blurUnit < 3 {
		blurUnit = 3
	}
	blurred := ops.GaussianBlur(gray, blurUnit)
	binary, _ := ops.OtsuThreshold(blurred)

	height := len(binary)
	width := 0
	if height > 0 {
		width = len(binary[0])
	}
	if skip == 0 {
		skip = height / 200
	}
	if skip < 1 {
		skip = 1
	}

	return &Scanner{
		ops:    ops,
		bin:    binary,
		width:  width,
		height: height,
		dark:   dark,
		skip:   skip,
		cutoff: maxInt(1, height/30),
		ratio:  "1:1:4",
	}
}

// testPixel reports whether (x,y) is "active": bright-on-dark in dark
// mode, dark-on-bright in light mode. Out-of-bounds is always inactive.
func (s *Scanner) testPixel(x, y int) bool {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return false
	}
	v := s.bin[y][x]
	if s.dark {
		return v
	}
	return !v
}

// horizontalScan scans row y left-to-right (restricted to r if given)
// looking for the finder ratio pattern, yielding one Anchor per hit.
func (s *Scanner) horizontalScan(y int, r *[2]int) []Anchor {
	lo, hi := 0, s.width
	if r != nil {
		lo, hi = maxInt(r[0], 0), minInt(r[1], s.width)
	}

	var out []Anchor
	state := NewScanState(s.ratio)
	x := lo
	for ; x < hi; x++ {
		active := s.testPixel(x, y)
		if width, ok := state.Process(active); ok {
			out = append(out, NewAnchor(x-width, x-1, y, y))
		}
	}
	if width, ok := state.Process(false); ok {
		out = append(out, NewAnchor(hi-width, hi-1, y, y))
	}
	return out
}

// verticalScan scans column xavg(x,xmax) top-to-bottom (restricted to r
// if given), yielding one Anchor per hit, carrying the caller's x/xmax
// span through unchanged.
func (s *Scanner) verticalScan(x int, xmax int, r *[2]int) []Anchor {
	xavg := (x + xmax) / 2
	lo, hi := 0, s.height
	if r != nil {
		lo, hi = maxInt(r[0], 0), minInt(r[1], s.height)
	}

	var out []Anchor
	state := NewScanState(s.ratio)
	y := lo
	for ; y < hi; y++ {
		active := s.testPixel(xavg, y)
		if width, ok := state.Process(active); ok {
			out = append(out, NewAnchor(x, xmax, y-width, y-1))
		}
	}
	if width, ok := state.Process(false); ok {
		out = append(out, NewAnchor(x, xmax, hi-width, hi-1))
	}
	return out
}

// diagonalScan walks a 45-degree line from (startX,startY) toward
// (endX,endY), confirming candidates also trip the finder ratio along
// the diagonal (spec §4.G pass 3).
func (s *Scanner) diagonalScan(startX, endX, startY, endY int) []Anchor {
	endX = minInt(s.width, endX)
	endY = minInt(s.height, endY)

	if startX < 0 {
		offset := -startX
		startX += offset
		startY += offset
	}
	if startY < 0 {
		offset := -startY
		startX += offset
		startY += offset
	}

	var out []Anchor
	state := NewScanState(s.ratio)
	x, y := startX, startY
	for x < endX && y < endY {
		active := s.testPixel(x, y)
		if width, ok := state.Process(active); ok {
			out = append(out, NewAnchor(x-width, x, y-width, y))
		}
		x++
		y++
	}
	if width, ok := state.Process(false); ok {
		out = append(out, NewAnchor(x-width, x, y-width, y))
	}
	return out
}

// t1ScanHorizontal is pass 1: horizontal_scan over every skip-th row.
func (s *Scanner) t1ScanHorizontal(skip int, startY, endY int, r *[2]int) []Anchor {
	if skip == 0 {
		skip = s.skip
	}
	y := startY
	if endY == 0 {
		endY = s.height
	} else {
		endY = minInt(endY, s.height)
	}

	var out []Anchor
	y += skip
	for y < endY {
		out = append(out, s.horizontalScan(y, r)...)
		y += skip
	}
	return out
}

// t2ScanVertical is pass 2: re-scan each candidate vertically over a
// window of ±3·xrange around its y-center.
func (s *Scanner) t2ScanVertical(candidates []Anchor) []Anchor {
	var out []Anchor
	for _, p := range candidates {
		r := [2]int{p.Y - 3*p.XRange(), p.Y + 3*p.XRange()}
		out = append(out, s.verticalScan(p.X, p.XMax, &r)...)
	}
	return out
}

// t3ScanDiagonal is pass 3: confirm each candidate along a diagonal
// bounded by its extent.
func (s *Scanner) t3ScanDiagonal(candidates []Anchor) []Anchor {
	var out []Anchor
	for _, p := range candidates {
		out = append(out, s.diagonalScan(
			p.XAvg()-2*p.YRange(), p.XAvg()+2*p.YRange(),
			p.Y-p.YRange(), p.YMax+p.YRange(),
		)...)
	}
	return out
}

// t4ConfirmScan is pass 4: re-confirm each candidate with tight
// horizontal/vertical scans at ±1 pixel around its center, optionally
// merging the new hits into it, then dedups the survivors.
func (s *Scanner) t4ConfirmScan(candidates []Anchor, merge bool) []Anchor {
	confirm := func(p Anchor, hits []Anchor, cutoff int) []Anchor {
		var kept []Anchor
		for _, c := range hits {
			if c.IsMergeable(p, cutoff) {
				kept = append(kept, c)
			}
		}
		return kept
	}

	var results []Anchor
	for _, p := range candidates {
		ok := true

		xr := [2]int{p.X - p.XRange(), p.XMax + p.XRange()}
		yavg := p.YAvg()
		for _, y := range [3]int{yavg - 1, yavg, yavg + 1} {
			hits := s.horizontalScan(y, &xr)
			confirms := confirm(p, hits, s.cutoff/2)
			if len(confirms) == 0 {
				ok = false
				break
			}
			if merge {
				for _, c := range confirms {
					p.Merge(c)
				}
			}
		}
		if !ok {
			continue
		}

		yr := [2]int{p.Y - p.YRange(), p.YMax + p.YRange()}
		xavg := p.XAvg()
		for _, x := range [3]int{xavg - 1, xavg, xavg + 1} {
			hits := s.verticalScan(x, x, &yr)
			confirms := confirm(p, hits, s.cutoff/2)
			if len(confirms) == 0 {
				ok = false
				break
			}
			if merge {
				for _, c := range confirms {
					p.Merge(c)
				}
			}
		}
		if !ok {
			continue
		}

		results = append(results, p)
	}
	return s.deduplicateCandidates(results)
}

// deduplicateCandidates groups anchors within s.cutoff of each other
// and merges each group's bounding boxes (spec §8 property 8: dedup is
// idempotent, since a single already-merged group trivially groups with
// itself again).
func (s *Scanner) deduplicateCandidates(candidates []Anchor) []Anchor {
	var groups [][]Anchor
	for _, p := range candidates {
		placed := false
		for i, g := range groups {
			if g[0].IsMergeable(p, s.cutoff) {
				groups[i] = append(groups[i], p)
				placed = true
			}
		}
		if !placed {
			groups = append(groups, []Anchor{p})
		}
	}

	var out []Anchor
	for _, g := range groups {
		area := g[0]
		for _, p := range g {
			area.Merge(p)
		}
		out = append(out, area)
	}
	return out
}

// filterCandidates keeps the three largest anchors, discarding any that
// fall below half the average range of that top three (spec §4.G
// "Filtering").
func filterCandidates(candidates []Anchor) ([]Anchor, int) {
	if len(candidates) < 3 {
		return candidates, 0
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Size() < candidates[j].Size() })
	best := candidates[len(candidates)-3:]

	var sumX, sumY int
	for _, c := range best {
		sumX += c.XRange()
		sumY += c.YRange()
	}
	xrange := sumX / len(best)
	yrange := sumY / len(best)
	maxRange := maxInt(xrange, yrange)

	var kept []Anchor
	for _, c := range best {
		if float64(c.XRange()) >= float64(xrange)/2 && float64(c.YRange()) >= float64(yrange)/2 {
			kept = append(kept, c)
		}
	}
	return kept, maxRange
}

func fixIndex(idx int) int {
	if idx < 0 {
		return 2
	}
	if idx > 2 {
		return 0
	}
	return idx
}

// sortTopToBottom orders three anchors as [top_left, top_right,
// bottom_left] by finding the longest opposite edge (that anchor is the
// top-left) then disambiguating top-right vs bottom-left by checking
// which assignment makes the incoming edge, rotated 90 degrees
// clockwise, align with the outgoing edge (spec §4.G "Orientation").
func sortTopToBottom(candidates []Anchor) [3]Anchor {
	var cs [3]Point2D
	for i, p := range candidates {
		cs[i] = Point2D{X: float64(p.XAvg()), Y: float64(p.YAvg())}
	}
	edges := [3]Point2D{
		subPt(cs[1], cs[2]),
		subPt(cs[2], cs[0]),
		subPt(cs[0], cs[1]),
	}

	topLeft := 0
	maxD := 0.0
	for i, e := range edges {
		d := dotPt(e, e)
		if d > maxD {
			maxD = d
			topLeft = i
		}
	}

	departing := edges[fixIndex(topLeft-1)]
	incoming := edges[fixIndex(topLeft+1)]
	incoming = Point2D{X: -incoming.Y, Y: incoming.X} // rotate 90 degrees clockwise.
	overlap := subPt(departing, incoming)

	var topRight, bottomLeft int
	if dotPt(overlap, overlap) < dotPt(departing, departing) {
		topRight = fixIndex(topLeft + 1)
		bottomLeft = fixIndex(topLeft - 1)
	} else {
		topRight = fixIndex(topLeft - 1)
		bottomLeft = fixIndex(topLeft + 1)
	}

	return [3]Anchor{candidates[topLeft], candidates[topRight], candidates[bottomLeft]}
}

// Scan runs the full four-pass detection pipeline and returns the
// frame's Alignment (corners + edge midpoints). It fails with
// ErrTooFewAnchors if fewer than three finder patterns survive
// filtering, or if the fourth-corner / midpoint geometry can't be
// resolved.
func (s *Scanner) Scan() (Alignment, error) {
	s.ratio = "1:1:4"
	t1 := s.t1ScanHorizontal(0, 0, 0, nil)
	t2 := s.t2ScanVertical(t1)
	t3 := s.t3ScanDiagonal(t2)
	t4 := s.t4ConfirmScan(t3, true)

	filtered, maxRange := filterCandidates(t4)
	if len(filtered) < 3 {
		return Alignment{}, ErrTooFewAnchors
	}

	three := sortTopToBottom(filtered)
	corners, ok := s.addFourthCorner(three, maxRange)
	if !ok {
		return Alignment{}, ErrTooFewAnchors
	}

	anchorSize := maxRange
	return s.scanEdges(corners, anchorSize)
}

// addFourthCorner predicts the bottom-right corner by summing two
// anchor-size-scaled edge vectors from the known three, then confirms
// it with a 1:2:2-ratio scan (spec §4.G "Fourth corner").
func (s *Scanner) addFourthCorner(candidates [3]Anchor, maxRange int) ([4]image.Point, bool) {
	var anchors [3]Point2D
	for i, p := range candidates {
		anchors[i] = Point2D{X: float64(p.XAvg()), Y: float64(p.YAvg())}
	}
	s.ratio = "1:2:2"

	topScalar := float64(candidates[2].MaxRange()) / float64(maxInt(candidates[1].MaxRange(), candidates[0].MaxRange()))
	topEdge := scalePt(subPt(anchors[1], anchors[0]), topScalar)
	leftScalar := float64(candidates[1].MaxRange()) / float64(maxInt(candidates[2].MaxRange(), candidates[0].MaxRange()))
	leftEdge := scalePt(subPt(anchors[2], anchors[0]), leftScalar)

	guess1 := addPt(anchors[2], topEdge)
	guess2 := addPt(anchors[1], leftEdge)
	speculative := Point2D{X: floorDivInt2(guess1.X+guess2.X, 2), Y: floorDivInt2(guess1.Y+guess2.Y, 2)}

	var corners [4]image.Point
	corners[0] = anchors[0].toImagePoint()
	corners[1] = anchors[1].toImagePoint()
	corners[2] = anchors[2].toImagePoint()

	fourth, ok := s.scanFourthCorner(speculative, maxRange, maxRange)
	if !ok {
		return corners, false
	}
	corners[3] = fourth
	return corners, true
}

// floorDivInt2 divides two floats and floors, mirroring the reference
// scanner's integer-style `//` on a sum of (int-derived) floats.
func floorDivInt2(a, b float64) float64 {
	return math.Floor(a / b)
}

// scanFourthCorner searches a window of size maxRange*uncertainty
// around center for a 1:2:2-ratio finder, confirming with the same
// four-pass pipeline used for the primary three anchors.
func (s *Scanner) scanFourthCorner(center Point2D, xrange, yrange int) (image.Point, bool) {
	const uncertainty = 4
	startY := int(center.Y) - yrange*uncertainty
	endY := int(center.Y) + yrange*uncertainty
	startX := int(center.X) - xrange*uncertainty
	endX := int(center.X) + xrange*uncertainty

	skip := maxInt(1, s.skip/2)

	r := [2]int{startX, endX}
	t1 := s.t1ScanHorizontal(skip, startY, endY, &r)
	t2 := s.t2ScanVertical(t1)

	var filtered []Anchor
	for _, c := range t2 {
		if float64(c.XRange()) >= float64(xrange)/2 && float64(c.YRange()) >= float64(yrange)/2 {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return image.Point{}, false
	}

	t3 := s.t3ScanDiagonal(t2)
	t4 := s.t4ConfirmScan(t3, false)
	if len(t4) == 0 {
		return image.Point{}, false
	}
	sort.Slice(t4, func(i, j int) bool { return t4[i].Size() < t4[j].Size() })
	c4 := t4[len(t4)-1]
	if float64(c4.XRange()) < float64(xrange)/2 || float64(c4.YRange()) < float64(yrange)/2 {
		return image.Point{}, false
	}
	return image.Pt(c4.XAvg(), c4.YAvg()), true
}

// chaseEdge is a sanity test for a candidate edge-midpoint: walk 4
// probe points (±1 and ±2 units) along the direction from corner to
// corner and require at least 2 of them to be active (spec §4.G
// "chase-edge sanity test").
func (s *Scanner) chaseEdge(start Point2D, unit Point2D) bool {
	success := 0
	for _, i := range [4]int{-2, -1, 1, 2} {
		x := int(start.X) + int(unit.X*float64(i))
		y := int(start.Y) + int(unit.Y*float64(i))
		if s.testPixel(x, y) {
			success++
		}
	}
	return success >= 2
}

// findEdge walks outward and inward from midPoint, perpendicular to the
// line from u to v, looking for the first active run whose center
// passes the chase-edge test (spec §4.G "Edge-midpoint search").
func (s *Scanner) findEdge(u, v Point2D, midPoint Point2D, anchorSize int) (image.Point, bool) {
	distance := subPt(v, u)
	distanceUnit := scalePt(distance, 1.0/512)
	outV := Point2D{X: float64(floorDivInt(int(distance.Y), 64)), Y: -float64(floorDivInt(int(distance.X), 64))}

	mid := addPt(midPoint, scalePt(outV, float64(anchorSize)/16))
	inV := Point2D{X: -outV.X, Y: -outV.Y}

	for _, check := range [2]Point2D{outV, inV} {
		maxCheck := maxFloat(absFloat(check.X), absFloat(check.Y))
		if maxCheck == 0 {
			continue
		}
		unit := scalePt(check, 1/maxCheck)

		state := NewEdgeScanState()
		i, j := 0.0, 0.0
		for absFloat(i) <= absFloat(check.X) && absFloat(j) <= absFloat(check.Y) {
			x := int(mid.X + i)
			y := int(mid.Y + j)
			if x < 0 || x >= s.width || y < 0 || y >= s.height {
				i += unit.X
				j += unit.Y
				continue
			}
			active := s.testPixel(x, y)
			if size, ok := state.Process(active); ok {
				edge := Point2D{
					X: float64(x) - unit.X*float64(size)/2,
					Y: float64(y) - unit.Y*float64(size)/2,
				}
				if s.chaseEdge(edge, distanceUnit) {
					return edge.toImagePoint(), true
				}
			}
			i += unit.X
			j += unit.Y
		}
	}
	return image.Point{}, false
}

// scanEdges computes the four edge-midpoints of corners and, for each,
// locates the true edge line via findEdge (spec §4.G).
func (s *Scanner) scanEdges(corners [4]image.Point, anchorSize int) (Alignment, error) {
	mp, ok := calculateMidpoints(corners)
	if !ok {
		return Alignment{}, ErrTooFewAnchors
	}

	type bound struct {
		start, end image.Point
		mid        Point2D
	}
	bounds := [4]bound{
		{corners[0], corners[1], mp.Top},
		{corners[1], corners[3], mp.Right},
		{corners[3], corners[2], mp.Bottom},
		{corners[2], corners[0], mp.Left},
	}

	var edges [4]image.Point
	for i, b := range bounds {
		edge, ok := s.findEdge(pt2(b.start), pt2(b.end), b.mid, anchorSize)
		if ok {
			edges[i] = edge
		}
	}

	return Alignment{Corners: corners, Edges: edges, Midpoints: mp}, nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absFloat(a float64) float64 {
	if a < 0 {
		return -a
	}
	return a
}
