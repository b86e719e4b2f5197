/*
NAME
  imageops.go

AUTHOR
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// Package imaging provides the image primitives the scanner, deskewer
// and tile translator are built on: grayscale conversion, blur,
// thresholding, perspective warp, resizing, cropping and mean-color
// sampling. Two implementations exist behind the withcv build tag:
// imaging_cv.go uses gocv for every operation except Crop and MeanColor
// (plain Go there too), imaging_default.go is a
// pure-Go fallback so the package builds (and tests) without OpenCV
// installed.
package imaging

import "image"

// Ops is the set of image operations the rest of cimbar is written
// against; callers never import gocv or image/draw directly.
type Ops interface {
	// Grayscale converts img to 8-bit grayscale.
	Grayscale(img image.Image) *image.Gray

	// GaussianBlur blurs a grayscale image with a kernel of the given
	// odd size (spec §4.G preprocess: kernel proportional to the short
	// side, rounded to the next odd power-of-two plus one).
	GaussianBlur(img *image.Gray, kernelSize int) *image.Gray

	// OtsuThreshold computes Otsu's binarization threshold for img and
	// returns the resulting binary image (true = foreground).
	OtsuThreshold(img *image.Gray) (binary [][]bool, threshold uint8)

	// Resize scales img to exactly (w, h).
	Resize(img image.Image, w, h int) image.Image

	// WarpPerspective maps the quadrilateral src (four corners,
	// clockwise from top-left) onto dst (four corners, same order) in a
	// (w,h) output canvas. Passing dst = {(0,0),(w,0),(w,h),(0,h)} warps
	// to fill the whole canvas; the deskewer instead insets dst by the
	// anchor size (spec §4.H step 3).
	WarpPerspective(img image.Image, src, dst [4]image.Point, w, h int) (image.Image, error)

	// Crop returns the sub-image of img within r, padding with black
	// where r extends outside img's bounds (tile sampling routinely
	// crops near the drift-shifted edge of a cell).
	Crop(img image.Image, r image.Rectangle) image.Image

	// MeanColor returns the mean (r,g,b) of img, optionally restricted
	// to pixels whose luminance is >= cutoff (spec §4.F color phase,
	// dark-mode brightness cutoff). cutoff < 0 disables the filter.
	MeanColor(img image.Image, cutoff int) (r, g, b float64)

	// UnsharpMask applies the fixed 3x3 sharpening kernel from spec
	// §4.I ([[-1,-1,-1],[-1,8.5,-1],[-1,-1,-1]]) used as a decode
	// preprocess step.
	UnsharpMask(img image.Image) image.Image
}

// New returns the Ops implementation selected at build time.
func New() Ops {
	return newOps()
}
