/*
NAME
  order.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package cell

import "container/heap"

// Element is one step of a DecodeOrder: the cell's index into the
// originating Positions.List, its pixel anchor, and the drift the
// caller should sample with.
type Element struct {
	Index int
	Pos   Point
	Drift Drift
}

// DecodeOrder is a lazy, finite, non-restartable iterator over cell
// positions. Next returns the next element to decode, or ok=false when
// exhausted. Update must be called after each element with the
// observed sub-pixel offset and the decode's error distance (e.g. glyph
// hash Hamming distance); it may mutate internal drift and priority
// state (spec §9: "model as an object with next() and update() rather
// than any language-specific generator").
type DecodeOrder interface {
	Next() (Element, bool)
	Update(dx, dy, errDist int)
}

// LinearDecodeOrder iterates positions in emission order, carrying a
// single drift shared by every cell.
type LinearDecodeOrder struct {
	pos   *Positions
	i     int
	drift Drift
}

// NewLinearDecodeOrder returns a LinearDecodeOrder over pos, with drift
// clamped to limit.
func NewLinearDecodeOrder(pos *Positions, limit int) *LinearDecodeOrder {
	return &LinearDecodeOrder{pos: pos, drift: NewDrift(limit)}
}

// Next implements DecodeOrder.
func (o *LinearDecodeOrder) Next() (Element, bool) {
	if o.i >= len(o.pos.List) {
		return Element{}, false
	}
	e := Element{Index: o.i, Pos: o.pos.List[o.i], Drift: o.drift}
	o.i++
	return e, true
}

// Update implements DecodeOrder. errDist is ignored; the linear order
// has no priority to steer.
func (o *LinearDecodeOrder) Update(dx, dy, errDist int) {
	o.drift.Update(dx, dy)
}

// floodItem is one entry of the flood-fill priority queue.
type floodItem struct {
	index   int
	drift   Drift
	errDist int
}

type floodHeap []floodItem

func (h floodHeap) Len() int            { return len(h) }
func (h floodHeap) Less(i, j int) bool  { return h[i].errDist < h[j].errDist }
func (h floodHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *floodHeap) Push(x interface{}) { *h = append(*h, x.(floodItem)) }
func (h *floodHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FloodDecodeOrder is the preferred decode order (spec §4.B): a min-heap
// over (error distance, cell index), seeded at the four grid corners
// with zero drift. Popping a cell propagates its observed drift to its
// unvisited neighbours, which are pushed with that cell's error as
// their priority; decoding fans out from clean regions into noisier
// ones carrying a fresh local drift estimate.
type FloodDecodeOrder struct {
	pos      *Positions
	adj      *AdjacentCellFinder
	limit    int
	heap     floodHeap
	visited  []bool
	current  floodItem
	haveCur  bool
}

// NewFloodDecodeOrder returns a FloodDecodeOrder over pos, seeded at the
// four grid corners, with drift clamped to limit.
func NewFloodDecodeOrder(pos *Positions, limit int) *FloodDecodeOrder {
	o := &FloodDecodeOrder{
		pos:     pos,
		adj:     NewAdjacentCellFinder(pos),
		limit:   limit,
		visited: make([]bool, len(pos.List)),
	}
	seen := make(map[int]bool, 4)
	for _, idx := range pos.Corners() {
		if idx < 0 || idx >= len(pos.List) || seen[idx] {
			continue
		}
		seen[idx] = true
		heap.Push(&o.heap, floodItem{index: idx, drift: NewDrift(limit)})
	}
	return o
}

// Next implements DecodeOrder. It pops the lowest-error unvisited cell
// from the heap, marking it visited and recording it as the cell Update
// will apply to.
func (o *FloodDecodeOrder) Next() (Element, bool) {
	for len(o.heap) > 0 {
		item := heap.Pop(&o.heap).(floodItem)
		if o.visited[item.index] {
			continue
		}
		o.visited[item.index] = true
		o.current = item
		o.haveCur = true
		return Element{Index: item.index, Pos: o.pos.List[item.index], Drift: item.drift}, true
	}
	return Element{}, false
}

// Update implements DecodeOrder. It records the just-decoded cell's
// drift and error distance, then pushes its unvisited neighbours onto
// the heap carrying that drift and using errDist as their priority.
func (o *FloodDecodeOrder) Update(dx, dy, errDist int) {
	if !o.haveCur {
		return
	}
	d := o.current.drift
	d.Update(dx, dy)

	n := o.adj.Neighbors(o.current.index)
	for _, idx := range []int{n.Left, n.Right, n.Top, n.Bottom} {
		if idx < 0 || o.visited[idx] {
			continue
		}
		heap.Push(&o.heap, floodItem{index: idx, drift: d, errDist: errDist})
	}
	o.haveCur = false
}
