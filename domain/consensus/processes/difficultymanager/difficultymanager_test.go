package difficultymanager

import (
	"math/big"
	"testing"
	"time"

	"github.com/kaspanet/ghostdagd/util/difficulty"
)

func newTestDifficultyManager(windowSize int) *difficultyManager {
	return &difficultyManager{
		powMax:                         new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1)),
		genesisBits:                    0x207fffff,
		difficultyAdjustmentWindowSize: windowSize,
		maxDifficultyAdjustmentFactor:  4,
		targetTimePerBlock:             time.Second,
	}
}

// evenlySpacedWindow returns windowSize+1 blocks with the given bits whose
// timestamps are spacing milliseconds apart, newest first
func evenlySpacedWindow(windowSize int, bits uint32, spacing int64) blockWindow {
	window := make(blockWindow, windowSize+1)
	for i := range window {
		window[i] = difficultyBlock{
			timeInMilliseconds: 1_000_000 - int64(i)*spacing,
			bits:               bits,
		}
	}
	return window
}

func TestCalculateTarget(t *testing.T) {
	const windowSize = 100
	const bits = 0x1d00ffff
	initialTarget := difficulty.CompactToBig(bits)

	tests := []struct {
		name           string
		spacing        int64
		expectedTarget *big.Int
	}{
		{
			name:           "target spacing",
			spacing:        1000,
			expectedTarget: initialTarget,
		},
		{
			name:           "twice the target spacing",
			spacing:        2000,
			expectedTarget: new(big.Int).Mul(initialTarget, big.NewInt(2)),
		},
		{
			name:           "half the target spacing",
			spacing:        500,
			expectedTarget: new(big.Int).Div(initialTarget, big.NewInt(2)),
		},
		{
			name:           "clamped from above",
			spacing:        10_000,
			expectedTarget: new(big.Int).Mul(initialTarget, big.NewInt(4)),
		},
		{
			name:           "clamped from below",
			spacing:        0,
			expectedTarget: new(big.Int).Div(initialTarget, big.NewInt(4)),
		},
	}

	dm := newTestDifficultyManager(windowSize)
	for _, test := range tests {
		target := dm.calculateTarget(evenlySpacedWindow(windowSize, bits, test.spacing))
		if target.Cmp(test.expectedTarget) != 0 {
			t.Errorf("%s: expected target %x but got %x", test.name, test.expectedTarget, target)
		}
	}
}

func TestCalculateTargetCappedByPowMax(t *testing.T) {
	const windowSize = 10
	dm := newTestDifficultyManager(windowSize)

	powMaxBits := difficulty.BigToCompact(dm.powMax)
	target := dm.calculateTarget(evenlySpacedWindow(windowSize, powMaxBits, 3000))
	if target.Cmp(dm.powMax) != 0 {
		t.Fatalf("expected the target to be capped at %x but got %x", dm.powMax, target)
	}
}

func TestBlockWindowHelpers(t *testing.T) {
	window := blockWindow{
		{timeInMilliseconds: 30, bits: 0x1d00ffff},
		{timeInMilliseconds: 10, bits: 0x1d00ffff},
		{timeInMilliseconds: 20, bits: 0x1d00ffff},
	}

	minTime, minIndex := window.minTimestamp()
	if minTime != 10 || minIndex != 1 {
		t.Fatalf("unexpected minimum timestamp %d at index %d", minTime, minIndex)
	}
	if maxTime := window.maxTimestamp(); maxTime != 30 {
		t.Fatalf("unexpected maximum timestamp %d", maxTime)
	}

	window.remove(minIndex)
	if len(window) != 2 {
		t.Fatalf("expected 2 blocks after removal, got %d", len(window))
	}
	for _, block := range window {
		if block.timeInMilliseconds == 10 {
			t.Fatalf("the removed block is still in the window")
		}
	}
}
