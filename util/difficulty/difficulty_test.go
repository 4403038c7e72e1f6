// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/kaspanet/ghostdagd/util/difficulty"
)

// TestBigToCompact ensures BigToCompact converts big integers to the expected
// compact representation.
func TestBigToCompact(t *testing.T) {
	tests := []struct {
		in  int64
		out uint32
	}{
		{0, 0},
		{-1, 25231360},
	}

	for x, test := range tests {
		n := big.NewInt(test.in)
		r := difficulty.BigToCompact(n)
		if r != test.out {
			t.Errorf("TestBigToCompact test #%d failed: got %d want %d\n",
				x, r, test.out)
			return
		}
	}
}

// TestCompactToBig ensures CompactToBig converts numbers using the compact
// representation to the expected big integers.
func TestCompactToBig(t *testing.T) {
	tests := []struct {
		in  uint32
		out int64
	}{
		{10000000, 0},
		{0x01003456, 0},
		{0x02123456, 0x1234},
		{0x04123456, 0x12345600},
		{0x04923456, -0x12345600},
	}

	for x, test := range tests {
		n := difficulty.CompactToBig(test.in)
		want := big.NewInt(test.out)
		if n.Cmp(want) != 0 {
			t.Errorf("TestCompactToBig test #%d failed: got %d want %d\n",
				x, n.Int64(), want.Int64())
			return
		}
	}
}

func TestCompactRoundTrip(t *testing.T) {
	tests := []uint32{0x207fffff, 0x1e7fffff, 0x1d00ffff, 0x1b0404cb, 0x04123456}
	for _, bits := range tests {
		roundTripped := difficulty.BigToCompact(difficulty.CompactToBig(bits))
		if roundTripped != bits {
			t.Errorf("compact round trip of %08x gave %08x", bits, roundTripped)
		}
	}
}

// TestCalcWork ensures CalcWork calculates the expected work value from values
// in compact representation.
func TestCalcWork(t *testing.T) {
	tests := []struct {
		in  uint32
		out int64
	}{
		{10000000, 0},
		// target = 0x7fffff << 232 = 2^255 - 2^232, so work rounds down to 2
		{0x207fffff, 2},
	}

	for x, test := range tests {
		r := difficulty.CalcWork(test.in)
		if r.Int64() != test.out {
			t.Errorf("TestCalcWork test #%d failed: got %v want %d\n",
				x, r.Int64(), test.out)
			return
		}
	}
}

func TestCalcWorkDecreasesWithTarget(t *testing.T) {
	easy := difficulty.CalcWork(0x207fffff)
	hard := difficulty.CalcWork(0x1e7fffff)
	if hard.Cmp(easy) <= 0 {
		t.Fatalf("expected harder target to carry more work: %s <= %s", hard, easy)
	}
}

// This example demonstrates how to convert the compact "bits" in a block header
// which represent the target difficulty to a big integer and display it using
// the typical hex notation.
func ExampleCompactToBig() {
	bits := uint32(419465580)
	targetDifficulty := difficulty.CompactToBig(bits)

	// Display it in hex.
	fmt.Printf("%064x\n", targetDifficulty.Bytes())

	// Output:
	// 0000000000000000896c00000000000000000000000000000000000000000000
}

// This example demonstrates how to convert a target difficulty into the compact
// "bits" in a block header which represent that target difficulty.
func ExampleBigToCompact() {
	t := "0000000000000000896c00000000000000000000000000000000000000000000"
	targetDifficulty, success := new(big.Int).SetString(t, 16)
	if !success {
		fmt.Println("invalid target difficulty")
		return
	}
	bits := difficulty.BigToCompact(targetDifficulty)

	fmt.Println(bits)

	// Output:
	// 419465580
}
