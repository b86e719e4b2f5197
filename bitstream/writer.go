/*
NAME
  writer.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package bitstream

import (
	"bytes"
	"io"
)

// InterleavedWriter is a per-block buffered bit writer (spec §4.C).
// Write appends into the named block's own buffer; Close flushes the
// block buffers in ascending block order into the underlying writer.
// This lets Reed-Solomon blocks see their own data contiguously even
// though the tiles that produced it are spread across the image by the
// interleave order, maximising resistance to spatial bursts.
type InterleavedWriter struct {
	dst    io.Writer
	blocks []*bytes.Buffer
	writes []*Writer
}

// NewInterleavedWriter returns an InterleavedWriter with numBlocks
// independent block buffers, each packing bitsPerOp-wide values.
func NewInterleavedWriter(dst io.Writer, numBlocks, bitsPerOp int) *InterleavedWriter {
	w := &InterleavedWriter{
		dst:    dst,
		blocks: make([]*bytes.Buffer, numBlocks),
		writes: make([]*Writer, numBlocks),
	}
	for i := range w.blocks {
		w.blocks[i] = &bytes.Buffer{}
		w.writes[i] = NewWriter(w.blocks[i], bitsPerOp)
	}
	return w
}

// Write appends v's low bitsPerOp bits into the given block's buffer.
func (w *InterleavedWriter) Write(v uint32, block int) error {
	return w.writes[block].Write(v)
}

// Close flushes every block's tail padding, then concatenates the
// block buffers, in ascending block order, into the underlying writer.
func (w *InterleavedWriter) Close() error {
	for i, bw := range w.writes {
		if err := bw.Close(); err != nil {
			return err
		}
		if _, err := w.dst.Write(w.blocks[i].Bytes()); err != nil {
			return err
		}
	}
	return nil
}
