//go:build withcv
// +build withcv

/*
NAME
  imaging_cv.go

DESCRIPTION
  gocv-backed image primitives, used when cimbar is built with OpenCV
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

	"gocv.io/x/gocv"
)

func newOps() Ops { return cvOps{} }

type cvOps struct{}

func matToImage(m gocv.Mat) image.Image {
	out, err := m.ToImage()
	if err != nil {
		return image.NewRGBA(image.Rect(0, 0, m.Cols(), m.Rows()))
	}
	return out
}

func (cvOps) Grayscale(img image.Image) *image.Gray {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return image.NewGray(img.Bounds())
	}
	defer src.Close()
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	out := matToImage(gray)
	g := image.NewGray(out.Bounds())
	for y := out.Bounds().Min.Y; y < out.Bounds().Max.Y; y++ {
		for x := out.Bounds().Min.X; x < out.Bounds().Max.X; x++ {
			g.Set(x, y, out.At(x, y))
		}
	}
	return g
}

func (cvOps) GaussianBlur(img *image.Gray, kernelSize int) *image.Gray {
	if kernelSize%2 == 0 {
		kernelSize++
	}
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return img
	}
	defer src.Close()
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(kernelSize, kernelSize), 0, 0, gocv.BorderDefault)

	out := matToImage(blurred)
	g := image.NewGray(out.Bounds())
	for y := out.Bounds().Min.Y; y < out.Bounds().Max.Y; y++ {
		for x := out.Bounds().Min.X; x < out.Bounds().Max.X; x++ {
			g.Set(x, y, out.At(x, y))
		}
	}
	return g
}

func (cvOps) OtsuThreshold(img *image.Gray) ([][]bool, uint8) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		b := img.Bounds()
		return make([][]bool, b.Dy()), 0
	}
	defer src.Close()
	bin := gocv.NewMat()
	defer bin.Close()
	thresh := gocv.Threshold(src, &bin, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	binary := make([][]bool, h)
	for y := 0; y < h; y++ {
		binary[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			binary[y][x] = bin.GetUCharAt(y, x) > 0
		}
	}
	return binary, uint8(thresh)
}

func (cvOps) Resize(img image.Image, w, h int) image.Image {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return img
	}
	defer src.Close()
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(src, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
	return matToImage(resized)
}

func (cvOps) WarpPerspective(img image.Image, src, dst [4]image.Point, w, h int) (image.Image, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	srcPts := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: float32(src[0].X), Y: float32(src[0].Y)},
		{X: float32(src[1].X), Y: float32(src[1].Y)},
		{X: float32(src[2].X), Y: float32(src[2].Y)},
		{X: float32(src[3].X), Y: float32(src[3].Y)},
	})
	defer srcPts.Close()
	dstPts := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: float32(dst[0].X), Y: float32(dst[0].Y)},
		{X: float32(dst[1].X), Y: float32(dst[1].Y)},
		{X: float32(dst[2].X), Y: float32(dst[2].Y)},
		{X: float32(dst[3].X), Y: float32(dst[3].Y)},
	})
	defer dstPts.Close()

	m := gocv.GetPerspectiveTransform(srcPts, dstPts)
	defer m.Close()

	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspective(mat, &warped, m, image.Pt(w, h))

	out, err := warped.ToImage()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Crop and MeanColor operate equally well on any image.Image, so they
// are plain Go here rather than round-tripping through a gocv.Mat.

func (cvOps) Crop(img image.Image, r image.Rectangle) image.Image {
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

func (cvOps) MeanColor(img image.Image, cutoff int) (r, g, b float64) {
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

func (cvOps) UnsharpMask(img image.Image) image.Image {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return img
	}
	defer src.Close()
	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	vals := [9]float32{-1, -1, -1, -1, 8.5, -1, -1, -1, -1}
	for i, v := range vals {
		kernel.SetFloatAt(i/3, i%3, v)
	}
	out := gocv.NewMat()
	defer out.Close()
	gocv.Filter2D(src, &out, -1, kernel, image.Pt(-1, -1), 0, gocv.BorderDefault)
	return matToImage(out)
}
