/*
NAME
  gf256.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

// Package rs implements block-wise Reed-Solomon encoding and decoding
// over GF(2^8) with a fixed field generator polynomial and first
// consecutive root.
//
// This is error *correction* (locating and fixing byte errors at
// unknown positions), not erasure coding: a tile can be misread without
// the decoder knowing which tile, so the caller can never supply a list
// of known-missing shards up front. That rules out shard-reconstruction
// libraries built around a known-erasure model, so the codec is
// hand-rolled GF(2^8) arithmetic and syndrome decoding, in the same
// low-level table-driven style as a CRC table generator.
package rs

// prim is the field generator polynomial.
const prim = 0x187

// fcr is the first consecutive root used by the generator polynomial.
const fcr = 1

// field holds the GF(2^8) exponent/logarithm tables for prim.
type field struct {
	exp [512]byte // exp[i] = alpha^i, doubled up to avoid wraparound checks.
	log [256]byte // log[alpha^i] = i.
}

var gf = newField(prim)

func newField(poly int) *field {
	f := &field{}
	x := 1
	for i := 0; i < 255; i++ {
		f.exp[i] = byte(x)
		f.log[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= poly
		}
	}
	for i := 255; i < 512; i++ {
		f.exp[i] = f.exp[i-255]
	}
	return f
}

func (f *field) mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[int(f.log[a])+int(f.log[b])]
}

func (f *field) div(a, b byte) byte {
	if a == 0 {
		return 0
	}
	if b == 0 {
		panic("rs: division by zero in GF(256)")
	}
	return f.exp[(int(f.log[a])+255-int(f.log[b]))%255]
}

func (f *field) pow(a byte, n int) byte {
	if a == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	e := (int(f.log[a]) * n) % 255
	if e < 0 {
		e += 255
	}
	return f.exp[e]
}

func (f *field) inv(a byte) byte {
	return f.exp[255-int(f.log[a])]
}

// polyEval evaluates polynomial p (coefficients highest-order-first) at x.
func (f *field) polyEval(p []byte, x byte) byte {
	y := p[0]
	for i := 1; i < len(p); i++ {
		y = f.mul(y, x) ^ p[i]
	}
	return y
}

// polyMul multiplies two polynomials (highest-order-first).
func (f *field) polyMul(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] ^= f.mul(av, bv)
		}
	}
	return out
}

// polyScale multiplies polynomial p by scalar s.
func (f *field) polyScale(p []byte, s byte) []byte {
	out := make([]byte, len(p))
	for i, v := range p {
		out[i] = f.mul(v, s)
	}
	return out
}

// polyAdd adds (XORs) two polynomials, aligning by lowest-order term.
func (f *field) polyAdd(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	copy(out[n-len(a):], a)
	for i, v := range b {
		out[n-len(b)+i] ^= v
	}
	return out
}
