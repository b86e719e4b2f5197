/*
NAME
  stream.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package fountain

import (
	"io"

	"github.com/pkg/errors"
)

// Encoder reads its entire input into memory up front, then emits an
// unbounded sequence of header+chunk reads, each chunkSize+HeaderSize
// bytes, incrementing chunk_id on every call (spec §4.E).
type Encoder struct {
	enc       *cycleCoder
	header    Header
	chunkSize int
	chunkID   uint16
}

// NewEncoder reads all of r and returns an Encoder producing
// chunkSize-byte payload chunks prefixed by a fountain header. encodeID
// distinguishes independent re-encodings of the same input (e.g. one
// per output frame when the caller regenerates frames).
func NewEncoder(r io.Reader, chunkSize int, encodeID byte) (*Encoder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "fountain: reading input")
	}
	if len(data) > MaxTotalSize {
		return nil, errors.Errorf("fountain: input of %d bytes exceeds max addressable size %d", len(data), MaxTotalSize)
	}
	return &Encoder{
		enc:       newCycleEncoder(data, chunkSize),
		header:    Header{EncodeID: encodeID, TotalSize: uint32(len(data))},
		chunkSize: chunkSize,
	}, nil
}

// Next returns the next header-prefixed chunk (chunkSize+HeaderSize
// bytes). The sequence never terminates on its own — the caller decides
// how many chunks to draw, which is how a rateless code supports
// regenerating as many frames as the channel needs.
func (e *Encoder) Next() []byte {
	h := e.header
	h.ChunkID = e.chunkID
	payload := e.enc.chunk(int(e.chunkID))
	e.chunkID++

	hdr := h.Bytes()
	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, hdr[:]...)
	out = append(out, payload...)
	return out
}

// NumChunks returns how many distinct chunk_ids cover the whole input
// once (a full lap of the cycle). The decoder needs every one of those
// chunk_ids, so any NumChunks consecutive chunks recover the original;
// a set of NumChunks chunks that repeats an id mod NumChunks does not.
func (e *Encoder) NumChunks() int {
	return e.enc.numChunks()
}

// Decoder buffers incoming (header, payload) writes and, once enough
// distinct chunks have arrived, reconstructs the original bytes (spec
// §4.E). A write whose header is all-zero (an upstream RS failure, spec
// §7 kind 5) is skipped silently.
type Decoder struct {
	chunkSize   int
	initialized bool
	inner       *cycleDecoder
	done        bool
	out         []byte
}

// NewDecoder returns a Decoder expecting chunkSize-byte payloads.
func NewDecoder(chunkSize int) *Decoder {
	return &Decoder{chunkSize: chunkSize}
}

// Write consumes one header-prefixed chunk of exactly
// chunkSize+HeaderSize bytes. It returns an error only on malformed
// framing (wrong length); a malformed (all-zero) header is absorbed per
// spec §7 kind 5, not reported as an error.
func (d *Decoder) Write(block []byte) error {
	if d.done {
		return nil // spec §4.E: subsequent writes after completion are no-ops.
	}
	if len(block) != d.chunkSize+HeaderSize {
		return errors.Errorf("fountain: chunk is %d bytes, want %d", len(block), d.chunkSize+HeaderSize)
	}
	h, err := FromBytes(block[:HeaderSize])
	if err != nil {
		return errors.Wrap(err, "fountain: parsing header")
	}
	if h.IsZero() {
		return nil
	}
	if !d.initialized {
		d.inner = newCycleDecoder(int(h.TotalSize), d.chunkSize)
		d.initialized = true
	}
	payload := block[HeaderSize:]
	if d.inner.feed(int(h.ChunkID), payload) {
		d.out = d.inner.bytes()
		d.done = true
	}
	return nil
}

// Done reports whether enough chunks have arrived to reconstruct the
// original payload.
func (d *Decoder) Done() bool {
	return d.done
}

// Bytes returns the reconstructed payload once Done reports true; it is
// nil before that (spec §7 kind 4, "fountain decode incomplete" is not
// an error — the caller just keeps feeding chunks from later frames).
func (d *Decoder) Bytes() []byte {
	return d.out
}
