/*
NAME
  stream.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package rs

import (
	"io"

	"github.com/pkg/errors"
)

// FailurePolicy decides what a Decoder emits for a block it could not
// correct (spec §4.D, §7 kind 3: "RS block uncorrectable"). ZeroBlock
// emits a block of zero bytes; DropBlock emits nothing.
type FailurePolicy func(messageLen int) []byte

// ZeroBlock is the default FailurePolicy: it emits messageLen zero
// bytes, letting downstream fountain decoding treat the block as an
// all-zero dropout rather than stalling the pipeline.
func ZeroBlock(messageLen int) []byte {
	return make([]byte, messageLen)
}

// DropBlock is a FailurePolicy that emits nothing for an uncorrectable
// block, for callers that can tolerate a short read. pipeline.Decode
// uses it only when DecodeOptions.RSFailure is set to it; its default
// is ZeroBlock, in fountain mode too.
func DropBlock(int) []byte {
	return nil
}

// Encoder reads message bytes from r and writes Reed-Solomon encoded
// blocks of blockSize bytes (blockSize-eccLen message bytes followed by
// eccLen parity bytes) downstream. The final block, if short, still
// carries a full eccLen parity bytes computed over the short message
// (spec §4.D).
type Encoder struct {
	r      io.Reader
	eccLen int
	msgLen int
	buf    []byte
	done   bool
}

// NewEncoder returns an Encoder producing blockSize-byte blocks, of
// which eccLen bytes are parity, from the bytes read out of r.
func NewEncoder(r io.Reader, blockSize, eccLen int) *Encoder {
	return &Encoder{
		r:      r,
		eccLen: eccLen,
		msgLen: blockSize - eccLen,
		buf:    make([]byte, blockSize-eccLen),
	}
}

// Next returns the next encoded block, or io.EOF once the underlying
// reader is exhausted and every byte has been emitted.
func (e *Encoder) Next() ([]byte, error) {
	if e.done {
		return nil, io.EOF
	}
	n, err := io.ReadFull(e.r, e.buf)
	switch {
	case err == nil:
		parity := Encode(e.buf, e.eccLen)
		block := make([]byte, 0, len(e.buf)+len(parity))
		block = append(block, e.buf...)
		block = append(block, parity...)
		return block, nil
	case err == io.ErrUnexpectedEOF:
		e.done = true
		msg := e.buf[:n]
		parity := Encode(msg, e.eccLen)
		block := make([]byte, 0, len(msg)+len(parity))
		block = append(block, msg...)
		block = append(block, parity...)
		return block, nil
	case err == io.EOF:
		e.done = true
		return nil, io.EOF
	default:
		return nil, errors.Wrap(err, "rs: reading message bytes")
	}
}

// Decoder reads exactly blockSize bytes at a time from r, attempts to
// correct up to eccLen/2 byte errors in each, and writes the recovered
// blockSize-eccLen message bytes to w. On an uncorrectable block, it
// writes whatever the configured FailurePolicy returns instead of
// failing the whole stream (spec §4.D, §7 kind 3).
type Decoder struct {
	r         io.Reader
	w         io.Writer
	blockSize int
	eccLen    int
	onFail    FailurePolicy
	buf       []byte
	Errors    int // total corrected byte errors across all blocks decoded.
	Dropped   int // total blocks that hit onFail.
}

// NewDecoder returns a Decoder reading blockSize-byte blocks from r and
// writing recovered message bytes to w.
func NewDecoder(r io.Reader, w io.Writer, blockSize, eccLen int, onFail FailurePolicy) *Decoder {
	if onFail == nil {
		onFail = ZeroBlock
	}
	return &Decoder{
		r:         r,
		w:         w,
		blockSize: blockSize,
		eccLen:    eccLen,
		onFail:    onFail,
		buf:       make([]byte, blockSize),
	}
}

// Run decodes every full block available from the underlying reader,
// writing recovered message bytes to w, until the reader is exhausted.
// A final partial block (fewer than blockSize bytes remaining) is
// dropped silently. Use RunSized when the total message length is
// known up front (spec §4.D's short final block carries full parity
// over fewer message bytes, so its on-wire size differs from every
// other block and can't be rediscovered from length alone).
func (d *Decoder) Run() error {
	for {
		n, err := io.ReadFull(d.r, d.buf)
		if err == io.EOF {
			return nil
		}
		if err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "rs: reading block bytes")
		}
		if err := d.decodeOne(d.buf[:n]); err != nil {
			return err
		}
	}
}

// RunSized decodes exactly the blocks that an Encoder would have
// produced for a message of totalMsgLen bytes: full blockSize blocks
// until fewer than a full message's worth remain, then one short final
// block sized msgLen(short)+eccLen bytes.
func (d *Decoder) RunSized(totalMsgLen int) error {
	msgLen := d.blockSize - d.eccLen
	remaining := totalMsgLen
	for remaining > 0 {
		n := msgLen
		if remaining < msgLen {
			n = remaining
		}
		buf := make([]byte, n+d.eccLen)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return errors.Wrap(err, "rs: reading block bytes")
		}
		if err := d.decodeOne(buf); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}

func (d *Decoder) decodeOne(block []byte) error {
	msg, errs, ok := Decode(block, d.eccLen)
	if !ok {
		d.Dropped++
		msg = d.onFail(len(block) - d.eccLen)
	} else {
		d.Errors += errs
	}
	if len(msg) > 0 {
		if _, err := d.w.Write(msg); err != nil {
			return errors.Wrap(err, "rs: writing recovered message")
		}
	}
	return nil
}
