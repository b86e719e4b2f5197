/*
NAME
  imaging_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package imaging

import (
	"image"
	"image/color"
	"testing"
)

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestGrayscaleProducesGrayImage(t *testing.T) {
	ops := New()
	img := checkerboard(16, 16)
	gray := ops.Grayscale(img)
	if gray.Bounds() != img.Bounds() {
		t.Fatalf("bounds mismatch: got %v, want %v", gray.Bounds(), img.Bounds())
	}
}

func TestOtsuThresholdSeparatesCheckerboard(t *testing.T) {
	ops := New()
	img := checkerboard(32, 32)
	gray := ops.Grayscale(img)
	binary, threshold := ops.OtsuThreshold(gray)

	if len(binary) != 32 || len(binary[0]) != 32 {
		t.Fatalf("binary dims = %dx%d, want 32x32", len(binary), len(binary[0]))
	}
	if threshold >= 255 {
		t.Fatalf("threshold = %d, want one below the white level so black and white fall on opposite sides", threshold)
	}

	var on, off int
	for _, row := range binary {
		for _, v := range row {
			if v {
				on++
			} else {
				off++
			}
		}
	}
	if on != 512 || off != 512 {
		t.Fatal("Otsu threshold did not separate the checkerboard into two classes")
	}
}

func TestCropPadsOutOfBounds(t *testing.T) {
	ops := New()
	img := checkerboard(8, 8)
	cropped := ops.Crop(img, image.Rect(4, 4, 12, 12))
	if cropped.Bounds().Dx() != 8 || cropped.Bounds().Dy() != 8 {
		t.Fatalf("cropped dims = %v, want 8x8", cropped.Bounds())
	}
	r, g, b, _ := cropped.At(7, 7).RGBA() // out of original bounds, should be black padding.
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("out-of-bounds crop pixel = (%d,%d,%d), want black", r, g, b)
	}
}

func TestMeanColorOfSolidImage(t *testing.T) {
	ops := New()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 100, G: 150, B: 200, A: 255})
		}
	}
	r, g, b := ops.MeanColor(img, -1)
	if r != 100 || g != 150 || b != 200 {
		t.Fatalf("MeanColor = (%v,%v,%v), want (100,150,200)", r, g, b)
	}
}

func TestMeanColorCutoffExcludesDarkPixels(t *testing.T) {
	ops := New()
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	r, _, _ := ops.MeanColor(img, 128)
	if r != 255 {
		t.Fatalf("MeanColor with cutoff = %v, want 255 (only the bright pixel counted)", r)
	}
}

func TestWarpPerspectiveIdentity(t *testing.T) {
	ops := New()
	img := checkerboard(16, 16)
	src := [4]image.Point{{X: 0, Y: 0}, {X: 16, Y: 0}, {X: 16, Y: 16}, {X: 0, Y: 16}}
	dst := [4]image.Point{{X: 0, Y: 0}, {X: 16, Y: 0}, {X: 16, Y: 16}, {X: 0, Y: 16}}
	out, err := ops.WarpPerspective(img, src, dst, 16, 16)
	if err != nil {
		t.Fatalf("WarpPerspective: %v", err)
	}
	if out.Bounds().Dx() != 16 || out.Bounds().Dy() != 16 {
		t.Fatalf("output dims = %v, want 16x16", out.Bounds())
	}
	// An identity-corner warp should reproduce corner pixels closely.
	r1, g1, b1, _ := img.At(0, 0).RGBA()
	r2, g2, b2, _ := out.At(0, 0).RGBA()
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Fatalf("corner pixel mismatch after identity warp: got (%d,%d,%d), want (%d,%d,%d)", r2, g2, b2, r1, g1, b1)
	}
}
