/*
NAME
  compress.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// Package pipeline composes the codec layers (compression, fountain
// coding, Reed-Solomon, interleaved bit packing, tile painting) into
// the end-to-end Encode and Decode entry points.
package pipeline

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Compressor is the pipeline's optional payload-compression stage,
// applied before fountain/RS coding to shrink the data a frame has to
// carry.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// zstdCompressor is the default Compressor.
type zstdCompressor struct{}

// NewCompressor returns a Compressor backed by zstd.
func NewCompressor() Compressor { return zstdCompressor{} }

func (zstdCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: opening zstd writer")
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, errors.Wrap(err, "pipeline: zstd compressing")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "pipeline: closing zstd writer")
	}
	return buf.Bytes(), nil
}

func (zstdCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: opening zstd reader")
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: zstd decompressing")
	}
	return out, nil
}

// NoCompress is the identity Compressor, used when compression is
// disabled.
type NoCompress struct{}

func (NoCompress) Compress(data []byte) ([]byte, error)   { return data, nil }
func (NoCompress) Decompress(data []byte) ([]byte, error) { return data, nil }
