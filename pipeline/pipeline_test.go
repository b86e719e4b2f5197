/*
NAME
  pipeline_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"testing"

	"github.com/ausocean/cimbar/config"
	"github.com/ausocean/cimbar/deskew"
)

func testProfile() config.Profile {
	p := config.Default4Color
	return p
}

func TestEncodeDecodeRoundTripNoFountainNoCompress(t *testing.T) {
	p := testProfile()
	payload := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 40))

	images, err := Encode(bytes.NewReader(payload), p, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(images) == 0 {
		t.Fatal("Encode produced no frames")
	}

	got, report, err := Decode(images, p, DecodeOptions{Deskew: deskew.LevelNone})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !report.FountainComplete {
		t.Fatal("non-fountain decode reported incomplete")
	}
	if len(got) < len(payload) {
		t.Fatalf("decoded %d bytes, want at least %d", len(got), len(payload))
	}
	if !bytes.Equal(got[:len(payload)], payload) {
		t.Fatalf("decoded prefix mismatch:\ngot  %q\nwant %q", got[:len(payload)], payload)
	}
}

func TestEncodeDecodeRoundTripCompress(t *testing.T) {
	p := testProfile()
	payload := []byte(strings.Repeat("compressible payload data ", 80))

	images, err := Encode(bytes.NewReader(payload), p, EncodeOptions{Compress: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, _, err := Decode(images, p, DecodeOptions{Deskew: deskew.LevelNone, Compress: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("decoded payload mismatch:\ngot  %q\nwant %q", got, payload)
	}
}

func TestEncodeDecodeRoundTripFountain(t *testing.T) {
	p := testProfile()
	payload := []byte(strings.Repeat("fountain-coded payload. ", 60))

	images, err := Encode(bytes.NewReader(payload), p, EncodeOptions{Fountain: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(images) < 2 {
		t.Fatalf("fountain encode produced %d frames, want at least 2 (spec §8 property 2)", len(images))
	}

	got, report, err := Decode(images, p, DecodeOptions{Deskew: deskew.LevelNone, Fountain: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !report.FountainComplete {
		t.Fatal("fountain decode did not complete with all frames present")
	}
	if len(got) < len(payload) {
		t.Fatalf("decoded %d bytes, want at least %d", len(got), len(payload))
	}
	if !bytes.Equal(got[:len(payload)], payload) {
		t.Fatalf("decoded prefix mismatch:\ngot  %q\nwant %q", got[:len(payload)], payload)
	}
}

// TestEncodeDecodeRoundTripPerspectiveRotate simulates a photographed
// (rather than screenshotted) frame: the canonical frame is rotated a
// few degrees and dropped onto a larger page with margin on every
// side, so Decode has to actually locate the four corner anchors and
// solve a perspective warp back to the grid instead of reading a
// frame that already sits at the canonical size and offset.
func TestEncodeDecodeRoundTripPerspectiveRotate(t *testing.T) {
	p := testProfile()
	payload := []byte(strings.Repeat("captured at an angle, margins and all. ", 30))

	images, err := Encode(bytes.NewReader(payload), p, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	captured := rotateOntoPage(images[0], 6*math.Pi/180, 48, color.White)

	got, report, err := Decode([]image.Image{captured}, p, DecodeOptions{Deskew: deskew.LevelPerspective})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !report.FountainComplete {
		t.Fatal("non-fountain decode reported incomplete")
	}
	if len(report.Frames) == 0 {
		t.Fatal("decode report has no frame stats; Deskew/Scan never ran")
	}
	if report.Frames[0].Alignment.Corners == ([4]image.Point{}) {
		t.Fatal("decode report's alignment has no corners; Scan never located the anchors")
	}
	if len(got) < len(payload) {
		t.Fatalf("decoded %d bytes, want at least %d", len(got), len(payload))
	}

	mismatches := 0
	for i := range payload {
		if got[i] != payload[i] {
			mismatches++
		}
	}
	if maxMismatch := len(payload) / 20; mismatches > maxMismatch {
		t.Fatalf("decoded payload diverged too much after rotated capture: %d/%d bytes mismatched (want <= %d)", mismatches, len(payload), maxMismatch)
	}
}

// rotateOntoPage places src, rotated by angle radians about its
// center, onto a (src+2*margin) square page filled with bg, so the
// result looks like a photo of a card sitting at a slight angle on a
// table rather than a perfectly cropped screenshot.
func rotateOntoPage(src image.Image, angle float64, margin int, bg color.Color) image.Image {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	pageSize := sw + 2*margin
	if sh+2*margin > pageSize {
		pageSize = sh + 2*margin
	}

	page := image.NewRGBA(image.Rect(0, 0, pageSize, pageSize))
	draw.Draw(page, page.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	cx, cy := float64(sw)/2, float64(sh)/2
	dcx, dcy := float64(pageSize)/2, float64(pageSize)/2
	sin, cos := math.Sincos(angle)

	for y := 0; y < pageSize; y++ {
		for x := 0; x < pageSize; x++ {
			dx, dy := float64(x)-dcx, float64(y)-dcy
			// Inverse-rotate the destination pixel back into src space.
			sx := cos*dx + sin*dy + cx
			sy := -sin*dx + cos*dy + cy
			ix, iy := int(math.Round(sx)), int(math.Round(sy))
			if ix >= 0 && ix < sw && iy >= 0 && iy < sh {
				page.Set(x, y, src.At(sb.Min.X+ix, sb.Min.Y+iy))
			}
		}
	}
	return page
}

func TestEncodeProducesCanonicalFrameSize(t *testing.T) {
	p := testProfile()
	images, err := Encode(bytes.NewReader([]byte("short")), p, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := images[0].Bounds()
	if b.Dx() != p.TotalSize || b.Dy() != p.TotalSize {
		t.Fatalf("frame size = %dx%d, want %dx%d", b.Dx(), b.Dy(), p.TotalSize, p.TotalSize)
	}
}

func TestPackValuesDeterministic(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 3, 2, 1, 0}
	const bitsPerOp = 2

	packed, err := packValues(values, bitsPerOp)
	if err != nil {
		t.Fatalf("packValues: %v", err)
	}
	again, err := packValues(append([]uint32(nil), values...), bitsPerOp)
	if err != nil {
		t.Fatalf("packValues (again): %v", err)
	}
	if !bytes.Equal(again, packed) {
		t.Fatalf("packValues not deterministic: got %v, want %v", again, packed)
	}
}

func TestShouldSharpen(t *testing.T) {
	cases := []struct {
		mode, w, h, total int
		want              bool
	}{
		{mode: 1, w: 1024, h: 1024, total: 1024, want: true},
		{mode: 0, w: 512, h: 512, total: 1024, want: false},
		{mode: -1, w: 512, h: 512, total: 1024, want: true},
		{mode: -1, w: 1024, h: 1024, total: 1024, want: false},
	}
	for _, c := range cases {
		if got := shouldSharpen(c.mode, c.w, c.h, c.total); got != c.want {
			t.Errorf("shouldSharpen(%d, %d, %d, %d) = %v, want %v", c.mode, c.w, c.h, c.total, got, c.want)
		}
	}
}
