/*
NAME
  profile_test.go

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package config

import "testing"

func TestDefaultPresetsValidate(t *testing.T) {
	for _, p := range []Profile{Default4Color, Default16Color, Default16ColorNoECC} {
		p := p
		if err := p.Validate(); err != nil {
			t.Errorf("%s: Validate() = %v, want nil", p.Name, err)
		}
	}
}

func TestBitsPerOpAndDerivedSizes(t *testing.T) {
	p := Default16Color
	if got, want := p.BitsPerOp(), 6; got != want {
		t.Errorf("BitsPerOp() = %d, want %d", got, want)
	}
	if got, want := p.NumSymbols(), 16; got != want {
		t.Errorf("NumSymbols() = %d, want %d", got, want)
	}
	if got, want := p.NumColors(), 4; got != want {
		t.Errorf("NumColors() = %d, want %d", got, want)
	}
}

func TestValidateRejectsOversizedGeometry(t *testing.T) {
	p := Default4Color
	p.CellDimX = 1000
	if err := p.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for geometry exceeding TotalSize")
	}
}

func TestValidateRejectsEccNotLessThanBlockSize(t *testing.T) {
	p := Default4Color
	p.ECC = p.ECCBlockSize
	if err := p.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for ecc >= ecc block size")
	}
}

func TestValidateRejectsBadBitsPerSymbol(t *testing.T) {
	p := Default4Color
	p.BitsPerSymbol = 3
	if err := p.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for bits-per-symbol not in {2,4}")
	}
}
