/*
NAME
  fountain_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package fountain

import (
	"bytes"
	"strings"
	"testing"
)

// TestHeaderVectors checks the two concrete byte vectors from spec §8
// scenario 5.
func TestHeaderVectors(t *testing.T) {
	cases := []struct {
		h    Header
		want [HeaderSize]byte
	}{
		{Header{EncodeID: 1, TotalSize: 1024, ChunkID: 3}, [6]byte{0x01, 0x00, 0x04, 0x00, 0x00, 0x03}},
		{Header{EncodeID: 2, TotalSize: 0x1FFFFFF, ChunkID: 3}, [6]byte{0x82, 0xFF, 0xFF, 0xFF, 0x00, 0x03}},
	}
	for _, c := range cases {
		got := c.h.Bytes()
		if got != c.want {
			t.Errorf("%+v.Bytes() = %x, want %x", c.h, got, c.want)
		}
		back, err := FromBytes(got[:])
		if err != nil {
			t.Fatalf("FromBytes: %v", err)
		}
		if back != c.h {
			t.Errorf("FromBytes(%x) = %+v, want %+v", got, back, c.h)
		}
	}
}

// TestHeaderRoundTripProperty exercises spec §8 property 5 across the
// full range of each field.
func TestHeaderRoundTripProperty(t *testing.T) {
	samples := []Header{
		{0, 0, 0},
		{127, MaxTotalSize, 0xFFFF},
		{63, 1, 1},
		{1, 1 << 16, 1 << 8},
		{0x7F, 0x1000000, 0x8000},
	}
	for _, h := range samples {
		got := h.Bytes()
		back, err := FromBytes(got[:])
		if err != nil {
			t.Fatalf("FromBytes: %v", err)
		}
		if back != h {
			t.Errorf("round trip of %+v gave %+v", h, back)
		}
	}
}

func TestDecoderSkipsZeroHeader(t *testing.T) {
	const chunkSize = 8
	d := NewDecoder(chunkSize)
	zero := make([]byte, chunkSize+HeaderSize)
	if err := d.Write(zero); err != nil {
		t.Fatalf("Write zero header: %v", err)
	}
	if d.Done() {
		t.Fatal("Done after only a zero header")
	}
}

// TestEncodeDecodeRoundTrip exercises spec §8 property 2 / scenario 2:
// drawing enough chunks recovers the exact original payload.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("0123456789abcdefghij", 1000))
	const chunkSize = 119 // block_size - ecc - HeaderSize (155-30-6), the pipeline's chunk size.

	enc, err := NewEncoder(bytes.NewReader(payload), chunkSize, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	dec := NewDecoder(chunkSize)
	n := enc.NumChunks() + 2 // spec §8 property 2: ceil(payload/chunk)+2 frames.
	for i := 0; i < n && !dec.Done(); i++ {
		if err := dec.Write(enc.Next()); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if !dec.Done() {
		t.Fatal("decoder never completed")
	}
	if !bytes.Equal(dec.Bytes(), payload) {
		t.Fatalf("decoded %d bytes, want %d; mismatch", len(dec.Bytes()), len(payload))
	}
}

func TestDecoderIgnoresWritesAfterDone(t *testing.T) {
	payload := []byte("a small payload that fits in one chunk")
	const chunkSize = 64

	enc, err := NewEncoder(bytes.NewReader(payload), chunkSize, 0)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	dec := NewDecoder(chunkSize)
	for i := 0; i < enc.NumChunks(); i++ {
		if err := dec.Write(enc.Next()); err != nil {
			t.Fatal(err)
		}
	}
	if !dec.Done() {
		t.Fatal("decoder should be done after one full lap")
	}
	before := append([]byte(nil), dec.Bytes()...)
	if err := dec.Write(enc.Next()); err != nil {
		t.Fatalf("Write after done: %v", err)
	}
	if !bytes.Equal(dec.Bytes(), before) {
		t.Fatal("write after done mutated the recovered bytes")
	}
}
