//go:build !debug && withcv
// +build !debug,withcv

/*
NAME
  release.go

DESCRIPTION
  No-op Viewer for withcv release builds (debug windows compiled out).

AUTHOR
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package imaging

import "image"

// Viewer is a no-op in release builds; see debug.go for the real one.
type Viewer struct{}

// NewViewer returns a Viewer that discards every Show call.
func NewViewer() *Viewer { return &Viewer{} }

// Show does nothing in a release build.
func (v *Viewer) Show(img image.Image, label string) {}

// Close does nothing in a release build.
func (v *Viewer) Close() error { return nil }
