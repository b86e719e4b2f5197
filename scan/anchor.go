/*
NAME
  anchor.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package scan

// Anchor is a candidate finder-pattern location: a bounding line or box
// described by its min/max extent on each axis (spec §4.G). A fresh
// anchor from a single scan line is degenerate on the axis perpendicular
// to the scan (X==XMax or Y==YMax); merging anchors from other scan
// directions grows it into a box.
type Anchor struct {
	X, XMax, Y, YMax int
}

// NewAnchor builds an Anchor from explicit extents.
func NewAnchor(x, xmax, y, ymax int) Anchor {
	return Anchor{X: x, XMax: xmax, Y: y, YMax: ymax}
}

// Merge grows a to the union of its own and rhs's bounding box.
func (a *Anchor) Merge(rhs Anchor) {
	a.X = minInt(a.X, rhs.X)
	a.XMax = maxInt(a.XMax, rhs.XMax)
	a.Y = minInt(a.Y, rhs.Y)
	a.YMax = maxInt(a.YMax, rhs.YMax)
}

// XAvg is the anchor's horizontal center.
func (a Anchor) XAvg() int { return (a.X + a.XMax) / 2 }

// YAvg is the anchor's vertical center.
func (a Anchor) YAvg() int { return (a.Y + a.YMax) / 2 }

// XRange is half the anchor's horizontal extent.
func (a Anchor) XRange() int { return absInt(a.X-a.XMax) / 2 }

// YRange is half the anchor's vertical extent.
func (a Anchor) YRange() int { return absInt(a.Y-a.YMax) / 2 }

// MaxRange is the larger of the anchor's two full-axis extents, used as
// a size proxy for dedup/filter comparisons.
func (a Anchor) MaxRange() int {
	return maxInt(absInt(a.X-a.XMax), absInt(a.Y-a.YMax))
}

// Size is the squared diagonal extent, used only for relative ordering
// (largest candidate wins), never as a physical area.
func (a Anchor) Size() int {
	dx, dy := a.X-a.XMax, a.Y-a.YMax
	return dx*dx + dy*dy
}

// IsMergeable reports whether rhs is close enough in center (within
// cutoff on both axes) and similar enough in size (rhs is between 0.6x
// and 1.7x a's MaxRange) to be considered the same physical anchor.
func (a Anchor) IsMergeable(rhs Anchor, cutoff int) bool {
	if absInt(a.XAvg()-rhs.XAvg()) > cutoff || absInt(a.YAvg()-rhs.YAvg()) > cutoff {
		return false
	}
	if a.MaxRange() == 0 {
		return false
	}
	ratio := float64(rhs.MaxRange()*10) / float64(a.MaxRange())
	return ratio > 6 && ratio < 17
}

// Less orders anchors by distance from the image's top-left corner, for
// deterministic output ordering.
func (a Anchor) Less(rhs Anchor) bool {
	return a.XAvg()+a.YAvg() < rhs.XAvg()+rhs.YAvg()
}
