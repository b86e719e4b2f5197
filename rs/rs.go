/*
NAME
  rs.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package rs

import "fmt"

// generatorPoly returns the generator polynomial of degree eccLen used
// for systematic Reed-Solomon encoding, rooted at alpha^fcr.
func generatorPoly(eccLen int) []byte {
	g := []byte{1}
	root := fcr
	for i := 0; i < eccLen; i++ {
		g = gf.polyMul(g, []byte{1, gf.pow(2, root)})
		root++
	}
	return g
}

// Encode returns the eccLen Reed-Solomon parity bytes for msg, computed
// as the remainder of msg (treated as the high-order coefficients of a
// polynomial) divided by the generator polynomial, over GF(2^8) with
// prim=0x187, fcr=1 (spec §4.D/§6). msg may be shorter than a full
// block — spec §4.D's short final block still gets full parity over
// the short message.
func Encode(msg []byte, eccLen int) []byte {
	gen := generatorPoly(eccLen)
	rem := make([]byte, len(msg)+eccLen)
	copy(rem, msg)
	for i := 0; i < len(msg); i++ {
		coef := rem[i]
		if coef == 0 {
			continue
		}
		for j, gv := range gen {
			rem[i+j] ^= gf.mul(gv, coef)
		}
	}
	return rem[len(msg):]
}

// syndromes computes the 2t syndrome values of the received codeword.
func syndromes(block []byte, eccLen int) []byte {
	s := make([]byte, eccLen)
	for i := 0; i < eccLen; i++ {
		s[i] = gf.polyEval(block, gf.pow(2, fcr+i))
	}
	return s
}

// hasErrors reports whether any syndrome is non-zero.
func hasErrors(s []byte) bool {
	for _, v := range s {
		if v != 0 {
			return true
		}
	}
	return false
}

// berlekampMassey computes the error-locator polynomial from the
// syndromes using the Berlekamp-Massey algorithm. Coefficients are
// lowest-order-first (sigma[0] == 1).
func berlekampMassey(s []byte, eccLen int) []byte {
	sigma := []byte{1}
	prevSigma := []byte{1}
	shift := 1
	lastDelta := byte(1)

	for i := 0; i < eccLen; i++ {
		delta := s[i]
		for j := 1; j < len(sigma); j++ {
			delta ^= gf.mul(sigma[j], s[i-j])
		}
		if delta == 0 {
			shift++
			continue
		}
		if 2*(len(sigma)-1) <= i {
			scaled := gf.polyScaleLowFirst(padLowFirst(prevSigma, shift), gf.div(delta, lastDelta))
			newSigma := xorLowFirst(sigma, scaled)
			prevSigma = sigma
			lastDelta = delta
			shift = 1
			sigma = newSigma
		} else {
			scaled := gf.polyScaleLowFirst(padLowFirst(prevSigma, shift), gf.div(delta, lastDelta))
			sigma = xorLowFirst(sigma, scaled)
			shift++
		}
	}
	return sigma
}

// polyScaleLowFirst and friends operate on lowest-order-first
// polynomials, the convention Berlekamp-Massey is naturally expressed
// in; the rest of this package uses highest-order-first, matching the
// systematic encoder.
func (f *field) polyScaleLowFirst(p []byte, s byte) []byte {
	out := make([]byte, len(p))
	for i, v := range p {
		out[i] = f.mul(v, s)
	}
	return out
}

func padLowFirst(p []byte, shift int) []byte {
	out := make([]byte, len(p)+shift)
	copy(out[shift:], p)
	return out
}

func xorLowFirst(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	copy(out, a)
	for i, v := range b {
		out[i] ^= v
	}
	return out
}

// chienSearch finds the roots of sigma (lowest-order-first) by brute
// force evaluation over all GF(256) non-zero elements, returning the
// error positions as indices from the start of a codeword of length n.
func chienSearch(sigma []byte, n int) []int {
	var positions []int
	for i := 0; i < n; i++ {
		x := gf.pow(2, i)
		xInv := gf.inv(x)
		var y byte
		for j, c := range sigma {
			y ^= gf.mul(c, gf.pow(xInv, j))
		}
		if y == 0 {
			positions = append(positions, n-1-i)
		}
	}
	return positions
}

// forneyMagnitudes computes the error magnitude at each position using
// the Forney algorithm.
func forneyMagnitudes(sigma, s []byte, positions []int, n int) []byte {
	// Error evaluator polynomial: omega(x) = s(x)*sigma(x) mod x^(2t),
	// computed here directly since s and sigma are both already
	// low-order-first and short.
	omega := make([]byte, len(s)+len(sigma)-1)
	for i, sv := range s {
		if sv == 0 {
			continue
		}
		for j, gv := range sigma {
			omega[i+j] ^= gf.mul(sv, gv)
		}
	}
	if len(omega) > len(s) {
		omega = omega[:len(s)]
	}

	sigmaDeriv := make([]byte, len(sigma))
	for i := 1; i < len(sigma); i += 2 {
		sigmaDeriv[i-1] = sigma[i]
	}

	mags := make([]byte, len(positions))
	for idx, pos := range positions {
		i := n - 1 - pos
		xInv := gf.inv(gf.pow(2, i))

		var numer byte
		for j, c := range omega {
			numer ^= gf.mul(c, gf.pow(xInv, j))
		}
		var denom byte
		for j, c := range sigmaDeriv {
			denom ^= gf.mul(c, gf.pow(xInv, j))
		}
		if denom == 0 {
			mags[idx] = 0
			continue
		}
		mags[idx] = gf.mul(gf.pow(xInv, fcr-1), gf.div(numer, denom))
	}
	return mags
}

// Decode attempts to correct up to eccLen/2 byte errors in block (a
// full codeword of len(block) bytes, the last eccLen of which are
// parity) and returns the corrected message (len(block)-eccLen bytes).
// ok is false if the block was uncorrectable, in which case the
// returned message is meaningless and the caller should apply its own
// failure policy (spec §4.D, §7 kind 3).
func Decode(block []byte, eccLen int) (msg []byte, errs int, ok bool) {
	s := syndromes(block, eccLen)
	if !hasErrors(s) {
		return append([]byte(nil), block[:len(block)-eccLen]...), 0, true
	}

	// berlekampMassey expects syndromes lowest-index-first, matching
	// its own lowest-order-first convention.
	sigma := berlekampMassey(s, eccLen)
	t := len(sigma) - 1
	if t <= 0 || t > eccLen/2 {
		return nil, 0, false
	}

	positions := chienSearch(sigma, len(block))
	if len(positions) != t {
		return nil, 0, false // sigma has roots outside the codeword: uncorrectable.
	}

	mags := forneyMagnitudes(sigma, s, positions, len(block))

	out := append([]byte(nil), block...)
	for i, pos := range positions {
		out[pos] ^= mags[i]
	}

	// Verify the correction actually zeroes the syndromes before trusting it.
	if hasErrors(syndromes(out, eccLen)) {
		return nil, 0, false
	}

	return out[:len(out)-eccLen], t, true
}

// BlockSize and ECC bounds are validated by config.Profile.Validate;
// this helper gives a friendly error for direct callers of this
// package outside that path.
func validate(n, ecc int) error {
	if ecc <= 0 || ecc >= n {
		return fmt.Errorf("rs: invalid ecc %d for block size %d", ecc, n)
	}
	return nil
}
