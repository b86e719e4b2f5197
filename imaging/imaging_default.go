//go:build !withcv
// +build !withcv

/*
NAME
  imaging_default.go

DESCRIPTION
  Pure-Go image primitives used when cimbar is built without OpenCV
  installed.

AUTHOR
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

func newOps() Ops { return defaultOps{} }

type defaultOps struct{}

func (defaultOps) Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}

// GaussianBlur approximates a Gaussian kernel with a separable box-blur
// chain (three passes converge quickly to a near-Gaussian response),
// avoiding an O(k^2) per-pixel convolution for the kernel sizes the
// scanner preprocess step asks for.
func (defaultOps) GaussianBlur(img *image.Gray, kernelSize int) *image.Gray {
	if kernelSize < 3 {
		kernelSize = 3
	}
	if kernelSize%2 == 0 {
		kernelSize++
	}
	radius := kernelSize / 2
	out := img
	for pass := 0; pass < 3; pass++ {
		out = boxBlur(out, radius)
	}
	return out
}

func boxBlur(img *image.Gray, radius int) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	horiz := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, n int
			for dx := -radius; dx <= radius; dx++ {
				sx := x + dx
				if sx < 0 || sx >= w {
					continue
				}
				sum += int(img.GrayAt(b.Min.X+sx, b.Min.Y+y).Y)
				n++
			}
			horiz.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: uint8(sum / n)})
		}
	}
	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, n int
			for dy := -radius; dy <= radius; dy++ {
				sy := y + dy
				if sy < 0 || sy >= h {
					continue
				}
				sum += int(horiz.GrayAt(b.Min.X+x, b.Min.Y+sy).Y)
				n++
			}
			out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: uint8(sum / n)})
		}
	}
	return out
}

// OtsuThreshold implements Otsu's method over the image's 256-bin
// grayscale histogram, maximizing inter-class variance.
func (defaultOps) OtsuThreshold(img *image.Gray) ([][]bool, uint8) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var hist [256]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hist[img.GrayAt(b.Min.X+x, b.Min.Y+y).Y]++
		}
	}

	total := w * h
	var sum float64
	for i, c := range hist {
		sum += float64(i * c)
	}

	var sumB, wB float64
	var best float64
	threshold := 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = t
		}
	}

	binary := make([][]bool, h)
	for y := 0; y < h; y++ {
		binary[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			binary[y][x] = int(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y) > threshold
		}
	}
	return binary, uint8(threshold)
}

func (defaultOps) Resize(img image.Image, w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return out
}

// WarpPerspective solves the 8-constraint homography taking src's four
// corners to dst's canonical rectangle corners, via gonum least-squares,
// then resamples with nearest-neighbour (tile-grid imagery has no
// texture detail finer than one cell, so nearest-neighbour sampling
// doesn't blur symbol edges the way bilinear would).
func (defaultOps) WarpPerspective(img image.Image, src, dst [4]image.Point, w, h int) (image.Image, error) {
	hmg, err := solveHomography(dst, src) // dst->src, so we can sample forward per output pixel.
	if err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := hmg.apply(float64(x), float64(y))
			out.Set(x, y, sampleNearest(img, sx, sy))
		}
	}
	return out, nil
}

func sampleNearest(img image.Image, x, y float64) color.Color {
	b := img.Bounds()
	ix := int(math.Round(x)) + b.Min.X
	iy := int(math.Round(y)) + b.Min.Y
	if ix < b.Min.X {
		ix = b.Min.X
	}
	if ix >= b.Max.X {
		ix = b.Max.X - 1
	}
	if iy < b.Min.Y {
		iy = b.Min.Y
	}
	if iy >= b.Max.Y {
		iy = b.Max.Y - 1
	}
	return img.At(ix, iy)
}

// homography holds a 3x3 projective transform applied to (x,y,1).
type homography struct {
	m [9]float64
}

func (h homography) apply(x, y float64) (float64, float64) {
	w := h.m[6]*x + h.m[7]*y + h.m[8]
	if w == 0 {
		w = 1e-9
	}
	return (h.m[0]*x + h.m[1]*y + h.m[2]) / w, (h.m[3]*x + h.m[4]*y + h.m[5]) / w
}

// solveHomography finds the homography mapping each src[i] to dst[i]
// using the standard DLT (direct linear transform) formulation, solved
// by least squares via gonum/mat.
func solveHomography(src, dst [4]image.Point) (homography, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		sx, sy := float64(src[i].X), float64(src[i].Y)
		dx, dy := float64(dst[i].X), float64(dst[i].Y)
		a.SetRow(2*i, []float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx})
		a.SetRow(2*i+1, []float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy})
		b.SetVec(2*i, dx)
		b.SetVec(2*i+1, dy)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return homography{}, err
	}

	var hmg homography
	for i := 0; i < 8; i++ {
		hmg.m[i] = x.AtVec(i)
	}
	hmg.m[8] = 1
	return hmg, nil
}

func (defaultOps) Crop(img image.Image, r image.Rectangle) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	b := img.Bounds()
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			sx, sy := r.Min.X+x, r.Min.Y+y
			if !(image.Point{X: sx, Y: sy}.In(b)) {
				out.Set(x, y, color.Black)
				continue
			}
			out.Set(x, y, img.At(sx, sy))
		}
	}
	return out
}

func (defaultOps) MeanColor(img image.Image, cutoff int) (r, g, b float64) {
	bounds := img.Bounds()
	var sr, sg, sb, n float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			fr, fg, fb := float64(cr>>8), float64(cg>>8), float64(cb>>8)
			if cutoff >= 0 {
				lum := 0.299*fr + 0.587*fg + 0.114*fb
				if lum < float64(cutoff) {
					continue
				}
			}
			sr += fr
			sg += fg
			sb += fb
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return sr / n, sg / n, sb / n
}

func (defaultOps) UnsharpMask(img image.Image) image.Image {
	kernel := [3][3]float64{
		{-1, -1, -1},
		{-1, 8.5, -1},
		{-1, -1, -1},
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sr, sg, sb float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					px, py := x+kx, y+ky
					if px < b.Min.X {
						px = b.Min.X
					}
					if px >= b.Max.X {
						px = b.Max.X - 1
					}
					if py < b.Min.Y {
						py = b.Min.Y
					}
					if py >= b.Max.Y {
						py = b.Max.Y - 1
					}
					cr, cg, cb, _ := img.At(px, py).RGBA()
					w := kernel[ky+1][kx+1]
					sr += w * float64(cr>>8)
					sg += w * float64(cg>>8)
					sb += w * float64(cb>>8)
				}
			}
			out.Set(x, y, color.RGBA{R: clamp8(sr), G: clamp8(sg), B: clamp8(sb), A: 255})
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Viewer is a no-op without gocv available; see debug.go for the
// withcv+debug build that actually opens windows.
type Viewer struct{}

// NewViewer returns a Viewer that discards every Show call.
func NewViewer() *Viewer { return &Viewer{} }

// Show does nothing in a build without gocv.
func (v *Viewer) Show(img image.Image, label string) {}

// Close does nothing in a build without gocv.
func (v *Viewer) Close() error { return nil }
