/*
NAME
  bitfile_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package bitstream

import (
	"bytes"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 7, 15, 5, 9, 0, 31}
	const bpo = 5

	var buf bytes.Buffer
	w := NewWriter(&buf, bpo)
	for _, v := range values {
		if err := w.Write(v); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := NewReader(&buf, bpo)
	for i, want := range values {
		got := r.Read(0)
		if got != want {
			t.Fatalf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestReaderYieldsZeroAtEOF(t *testing.T) {
	r := NewReader(bytes.NewReader(nil), 4)
	for i := 0; i < 10; i++ {
		if v := r.Read(0); v != 0 {
			t.Fatalf("read %d at EOF: got %d, want 0", i, v)
		}
	}
}

func TestReaderWidthOverride(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 6)
	if err := w.Write(0x2A); err != nil { // 101010
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf, 6)
	// Read as two 3-bit groups instead of one 6-bit group.
	hi := r.Read(3)
	lo := r.Read(3)
	if hi != 0x5 || lo != 0x2 {
		t.Fatalf("got hi=%d lo=%d, want hi=5 lo=2", hi, lo)
	}
}

func TestInterleaveReverseIsInverse(t *testing.T) {
	const l, c, p = 30, 5, 1
	order := Interleave(l, c, p)
	if len(order) != l {
		t.Fatalf("len(order) = %d, want %d", len(order), l)
	}
	want := []int{0, 5, 10, 15, 20, 25, 1, 6}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("order[%d] = %d, want %d", i, order[i], w)
		}
	}

	rev, _ := InterleaveReverse(l, c, p)
	for i := 0; i < l; i++ {
		if order[rev[i]] != i {
			t.Fatalf("rev is not the inverse of order at %d", i)
		}
	}
}

func TestInterleavedWriterFlushesAscendingBlocks(t *testing.T) {
	var out bytes.Buffer
	w := NewInterleavedWriter(&out, 3, 8)
	if err := w.Write(0xAA, 2); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(0xBB, 0); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(0xCC, 1); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	want := []byte{0xBB, 0xCC, 0xAA}
	if !bytes.Equal(out.Bytes(), want) {
		t.Fatalf("got %x, want %x", out.Bytes(), want)
	}
}
