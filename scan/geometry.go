/*
NAME
  geometry.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package scan

import (
	"image"
	"math"
)

// Point2D is a floating-point image coordinate, used wherever a
// computation (line intersection, edge-vector scaling) needs
// sub-pixel precision that an image.Point can't carry.
type Point2D struct {
	X, Y float64
}

func pt2(p image.Point) Point2D { return Point2D{X: float64(p.X), Y: float64(p.Y)} }

func (p Point2D) toImagePoint() image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

func addPt(a, b Point2D) Point2D { return Point2D{X: a.X + b.X, Y: a.Y + b.Y} }
func subPt(a, b Point2D) Point2D { return Point2D{X: a.X - b.X, Y: a.Y - b.Y} }
func scalePt(a Point2D, s float64) Point2D { return Point2D{X: a.X * s, Y: a.Y * s} }
func dotPt(a, b Point2D) float64 { return a.X*b.X + a.Y*b.Y }

// floorDivInt performs Python-style floor division (rounds toward
// negative infinity), used where the reference scanner relies on `//`
// for negative edge vectors.
func floorDivInt(a, b int) int {
	return int(math.Floor(float64(a) / float64(b)))
}

// Midpoints are the four edge-midpoints of a (possibly perspective
// distorted) quadrilateral, computed via vanishing-point construction
// rather than naive endpoint averaging so they remain accurate under
// projective distortion (spec §4.G "these four midpoints allow a
// homography fit over eight constraints").
type Midpoints struct {
	Top, Right, Bottom, Left Point2D
}

// lineIntersection returns the intersection of line (a0,a1) and line
// (b0,b1), or ok=false if the lines are parallel.
func lineIntersection(a0, a1, b0, b1 Point2D) (Point2D, bool) {
	compute := func(p, q Point2D) (xdiff, ydiff, det float64) {
		xdiff = q.X - p.X
		ydiff = p.Y - q.Y
		det = q.X*p.Y - p.X*q.Y
		return
	}
	ax, ay, adet := compute(a0, a1)
	bx, by, bdet := compute(b0, b1)

	d := ay*bx - ax*by
	if math.Abs(d) < 1e-8 {
		return Point2D{}, false
	}
	dx := adet*bx - ax*bdet
	dy := ay*bdet - adet*by
	return Point2D{X: dx / d, Y: dy / d}, true
}

// calculateMidpoints computes the four edge-midpoints of the
// quadrilateral corners = [top_left, top_right, bottom_left,
// bottom_right], by intersecting each edge with the line through the
// quadrilateral's diagonal-crossing center and the vanishing point of
// the two edges perpendicular to it.
func calculateMidpoints(corners [4]image.Point) (Midpoints, bool) {
	topLeft, topRight := pt2(corners[0]), pt2(corners[1])
	bottomLeft, bottomRight := pt2(corners[2]), pt2(corners[3])

	center, ok := lineIntersection(topLeft, bottomRight, topRight, bottomLeft)
	if !ok {
		return Midpoints{}, false
	}
	vVanish, ok := lineIntersection(topRight, bottomRight, topLeft, bottomLeft)
	if !ok {
		return Midpoints{}, false
	}
	hVanish, ok := lineIntersection(topLeft, topRight, bottomLeft, bottomRight)
	if !ok {
		return Midpoints{}, false
	}

	top, ok := lineIntersection(topLeft, topRight, center, vVanish)
	if !ok {
		return Midpoints{}, false
	}
	bottom, ok := lineIntersection(bottomLeft, bottomRight, center, vVanish)
	if !ok {
		return Midpoints{}, false
	}
	left, ok := lineIntersection(topLeft, bottomLeft, center, hVanish)
	if !ok {
		return Midpoints{}, false
	}
	right, ok := lineIntersection(topRight, bottomRight, center, hVanish)
	if !ok {
		return Midpoints{}, false
	}
	return Midpoints{Top: top, Right: right, Bottom: bottom, Left: left}, true
}
