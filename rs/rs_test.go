/*
NAME
  rs_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package rs

import (
	"bytes"
	"strings"
	"testing"
)

func scenario6Message() []byte {
	return []byte(strings.Repeat("0123456789", 12) + "01234")
}

func TestEncodeProducesEccLenParityBytes(t *testing.T) {
	msg := scenario6Message()
	if len(msg) != 125 {
		t.Fatalf("test fixture message length = %d, want 125", len(msg))
	}
	parity := Encode(msg, 30)
	if len(parity) != 30 {
		t.Fatalf("len(parity) = %d, want 30", len(parity))
	}
}

func TestDecodeRoundTripNoErrors(t *testing.T) {
	msg := scenario6Message()
	parity := Encode(msg, 30)
	block := append(append([]byte(nil), msg...), parity...)

	got, errs, ok := Decode(block, 30)
	if !ok {
		t.Fatal("Decode reported an uncorrectable clean block")
	}
	if errs != 0 {
		t.Fatalf("errs = %d, want 0", errs)
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("got %q, want %q", got, msg)
	}
}

// TestDecodeCorrectsUpToHalfEcc exercises spec §8 property 6: for any
// k-byte block with at most ecc/2 byte corruptions, decode recovers the
// original message.
func TestDecodeCorrectsUpToHalfEcc(t *testing.T) {
	msg := scenario6Message()
	const eccLen = 30
	parity := Encode(msg, eccLen)
	block := append(append([]byte(nil), msg...), parity...)

	corrupt := append([]byte(nil), block...)
	positions := []int{0, 17, 40, 79, 100, 124, 130, 140, 150, 154, 3, 63, 95, 110, 153}
	if len(positions) != eccLen/2 {
		t.Fatalf("test fixture corrupts %d bytes, want %d", len(positions), eccLen/2)
	}
	for _, p := range positions {
		corrupt[p] ^= 0xFF
	}

	got, errs, ok := Decode(corrupt, eccLen)
	if !ok {
		t.Fatal("Decode failed to correct a block with ecc/2 errors")
	}
	if errs != len(positions) {
		t.Fatalf("errs = %d, want %d", errs, len(positions))
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("got %q, want %q", got, msg)
	}
}

func TestDecodeReportsUncorrectableBeyondCapacity(t *testing.T) {
	msg := scenario6Message()
	const eccLen = 30
	parity := Encode(msg, eccLen)
	block := append(append([]byte(nil), msg...), parity...)

	corrupt := append([]byte(nil), block...)
	for i := 0; i < eccLen; i++ { // ecc errors, one more than ecc/2 can fix.
		corrupt[i*5%len(corrupt)] ^= 0xFF
	}

	if _, _, ok := Decode(corrupt, eccLen); ok {
		t.Fatal("Decode reported success for a block beyond its correction capacity")
	}
}

func TestEncoderDecoderStreamRoundTrip(t *testing.T) {
	const blockSize, eccLen = 155, 30
	payload := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog", 20))

	var encoded bytes.Buffer
	enc := NewEncoder(bytes.NewReader(payload), blockSize, eccLen)
	for {
		block, err := enc.Next()
		if err != nil {
			break
		}
		encoded.Write(block)
	}

	var decoded bytes.Buffer
	dec := NewDecoder(bytes.NewReader(encoded.Bytes()), &decoded, blockSize, eccLen, nil)
	if err := dec.RunSized(len(payload)); err != nil {
		t.Fatalf("RunSized: %v", err)
	}

	if !bytes.Equal(decoded.Bytes(), payload) {
		t.Fatalf("decoded payload mismatch:\ngot  %q\nwant %q", decoded.Bytes(), payload)
	}
}

func TestDecoderDropBlockPolicyEmitsNothing(t *testing.T) {
	const blockSize, eccLen = 155, 30
	msg := scenario6Message()
	parity := Encode(msg, eccLen)
	block := append(append([]byte(nil), msg...), parity...)
	for i := 0; i < eccLen; i++ {
		block[i*5%len(block)] ^= 0xFF
	}

	var out bytes.Buffer
	dec := NewDecoder(bytes.NewReader(block), &out, blockSize, eccLen, DropBlock)
	if err := dec.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if dec.Dropped != 1 {
		t.Fatalf("Dropped = %d, want 1", dec.Dropped)
	}
	if out.Len() != 0 {
		t.Fatalf("out.Len() = %d, want 0", out.Len())
	}
}
