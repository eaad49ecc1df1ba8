package costmodel

import (
	"testing"

	"github.com/mewkiz/bitcompactor/internal/predictor"
)

func TestComputeCost64PicksMinOrIdentityForSortedRun(t *testing.T) {
	in := make([]byte, 64)
	for i := range in {
		in[i] = byte(i)
	}
	choice := ComputeCost64(in, Options{DualEncodeEn: true, MinFixedBitLn: 3})
	if choice.None {
		t.Fatal("expected a compressed choice for a sorted run, got uncompressed")
	}
	if choice.Predictor != predictor.MinPredict && choice.Predictor != predictor.Identity {
		t.Errorf("expected MinPredict or Identity, got %v", choice.Predictor)
	}
}

func TestComputeCost64ConstantBlockHitsMinWidthFloor(t *testing.T) {
	in := make([]byte, 64)
	choice := ComputeCost64(in, Options{DualEncodeEn: true, MinFixedBitLn: 3})
	if choice.None {
		t.Fatal("expected a compressed choice for an all-zero block")
	}
	if choice.Result.BitWidth != 3 {
		t.Errorf("BitWidth = %d, want 3 (minFixedBitLn floor)", choice.Result.BitWidth)
	}
}

func TestComputeCost64NoisyDataNeverCostlierThanUncompressed(t *testing.T) {
	in := []byte{
		0x91, 0x02, 0xE3, 0x14, 0x55, 0xF6, 0x17, 0x88,
		0x09, 0xAA, 0x1B, 0x7C, 0xDD, 0x0E, 0x9F, 0x30,
		0x81, 0x22, 0xC3, 0x44, 0x15, 0xA6, 0x37, 0x98,
		0x19, 0x0A, 0xBB, 0x2C, 0xFD, 0x5E, 0x6F, 0x70,
		0x91, 0x02, 0xE3, 0x14, 0x55, 0xF6, 0x17, 0x88,
		0x09, 0xAA, 0x1B, 0x7C, 0xDD, 0x0E, 0x9F, 0x30,
		0x81, 0x22, 0xC3, 0x44, 0x15, 0xA6, 0x37, 0x98,
		0x19, 0x0A, 0xBB, 0x2C, 0xFD, 0x5E, 0x6F, 0x01,
	}
	choice := ComputeCost64(in, Options{DualEncodeEn: true, MinFixedBitLn: 3})
	// Full-range noisy data should cost at least as much as storing it raw;
	// CostModel must never select a compressed representation that costs
	// more than the uncompressed baseline.
	uncompressed := len(in)*8 + 2
	if choice.Cost > uncompressed && !choice.None {
		t.Errorf("chose a compressed representation costing %d bits, more than uncompressed baseline %d", choice.Cost, uncompressed)
	}
}

func TestComputeCost4KBinning(t *testing.T) {
	in := make([]byte, 4096)
	vals := []byte{0x01, 0x02, 0x03, 0x04}
	for i := range in {
		in[i] = vals[i%len(vals)]
	}
	choice := ComputeCost4K(in, Options{MixedBlkSize: true, ProcBinEn: true, ProcBtmapEn: true, MinFixedBitLn: 3})
	if choice.None {
		t.Fatal("expected a compressed 4K choice for 4-symbol data")
	}
	if choice.Predictor != predictor.Binning {
		t.Errorf("expected Binning to win for 4-symbol 4K data, got %v", choice.Predictor)
	}
	if len(choice.Result.Side.Symbols) != 4 {
		t.Errorf("expected 4 symbols, got %d", len(choice.Result.Side.Symbols))
	}
}

func TestDualLengthAlwaysHasOneLongBit(t *testing.T) {
	in := make([]byte, 64)
	for i := range in {
		in[i] = 1 // every symbol needs exactly 1 bit
	}
	dl := DualLength(in)
	found := false
	for _, b := range dl.Bitmap {
		if b == 1 {
			found = true
		}
	}
	if !found {
		t.Error("DualLength bitmap has no long bit set, violating the >=1-long invariant")
	}
}
