/*
NAME
  deskew_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package deskew

import (
	"image"
	"image/color"
	"testing"

	"github.com/ausocean/cimbar/scan"
)

func TestDistance(t *testing.T) {
	if d := distance(image.Pt(0, 0), image.Pt(3, 4)); d != 5 {
		t.Fatalf("distance = %v, want 5", d)
	}
}

func TestRadialDistortionFactorZeroForIdealMidpoint(t *testing.T) {
	align := scan.Alignment{
		Corners: [4]image.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}},
		Edges:   [4]image.Point{{X: 50, Y: 0}, {}, {}, {}},
	}
	k, ok := radialDistortionFactor(align)
	if !ok {
		t.Fatal("expected a factor to be computable")
	}
	if k != 0 {
		t.Fatalf("k = %v, want 0 for an exactly-centered midpoint", k)
	}
}

func TestRadialDistortionFactorMissingEdgeFails(t *testing.T) {
	align := scan.Alignment{
		Corners: [4]image.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}},
	}
	if _, ok := radialDistortionFactor(align); ok {
		t.Fatal("expected failure when the top edge midpoint was never found")
	}
}

func TestUndistortRadialPreservesDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 0, A: 255})
		}
	}
	out := undistortRadial(img, 0.05)
	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 32 {
		t.Fatalf("output dims = %v, want 32x32", out.Bounds())
	}
}

func TestUndistortRadialZeroFactorIsNearIdentityAtCenter(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 0, A: 255})
		}
	}
	out := undistortRadial(img, 0)
	r1, g1, _, _ := img.At(16, 16).RGBA()
	r2, g2, _, _ := out.At(16, 16).RGBA()
	if r1 != r2 || g1 != g2 {
		t.Fatalf("zero-factor undistort changed center pixel: (%d,%d) vs (%d,%d)", r1, g1, r2, g2)
	}
}
