package predictor

import (
	"sort"

	"github.com/mewkiz/bitcompactor/internal/bitpack"
)

// forwardBinning implements BINCMPCT: map each distinct byte value present
// in the block to a small index. Aborts (OK=false) when the block has more
// than maxSyms distinct values; the cost model must then treat this Kind
// as ineligible rather than force its cost to the uncompressed bound
// itself, since it has nothing to cost.
func forwardBinning(in []byte, maxSyms int, minFixedBitLn uint8) Result {
	seen := make(map[byte]bool, maxSyms+1)
	var symbols []uint8
	for _, b := range in {
		if !seen[b] {
			seen[b] = true
			symbols = append(symbols, b)
			if len(symbols) > maxSyms {
				return Result{Kind: Binning, OK: false}
			}
		}
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	index := make(map[byte]uint8, len(symbols))
	for i, s := range symbols {
		index[s] = uint8(i)
	}

	n := len(in)
	residual := make([]uint8, n)
	for i, b := range in {
		residual[i] = index[b]
	}

	numSyms := len(symbols)
	w := clampWidth(bitpack.BitWidth(uint8(numSyms-1)), minFixedBitLn)
	return Result{
		Kind:     Binning,
		Residual: residual,
		NumBytes: n,
		BitWidth: w,
		Side:     SideData{Symbols: symbols},
		OK:       true,
	}
}

func invertBinning(residual []uint8, side SideData, blkSize int) []byte {
	out := make([]byte, blkSize)
	for i := 0; i < blkSize; i++ {
		out[i] = side.Symbols[residual[i]]
	}
	return out
}
