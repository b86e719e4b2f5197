//go:build debug && withcv
// +build debug,withcv

/*
NAME
  debug.go

DESCRIPTION
  Displays debug windows during deskew/scan development builds.

AUTHOR
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package imaging

import (
	"image"

	"gocv.io/x/gocv"
)

// Viewer shows intermediate scan/deskew frames in OpenCV windows; only
// built into debug+withcv builds, never into the default release build.
type Viewer struct {
	windows map[string]*gocv.Window
}

// NewViewer returns a Viewer that lazily opens one window per label.
func NewViewer() *Viewer {
	return &Viewer{windows: make(map[string]*gocv.Window)}
}

// Show displays img in the window named label, creating it on first use.
func (v *Viewer) Show(img image.Image, label string) {
	w, ok := v.windows[label]
	if !ok {
		w = gocv.NewWindow(label)
		v.windows[label] = w
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return
	}
	defer mat.Close()
	w.IMShow(mat)
	w.WaitKey(1)
}

// Close frees every window's OpenCV resources.
func (v *Viewer) Close() error {
	for _, w := range v.windows {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}
