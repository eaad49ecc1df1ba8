package predictor

import "github.com/mewkiz/bitcompactor/internal/bitpack"

// forwardTopSymbolBitmap implements BTMAP: find the most frequent byte in
// the block, remove it, and emit a block-length bitmap (0 where the
// original byte equalled the top symbol) alongside the remaining bytes in
// order. NumBytes (and therefore the packed residual length) is the count
// of non-top bytes, not the block size.
func forwardTopSymbolBitmap(in []byte, minFixedBitLn uint8) Result {
	var freq [256]int
	for _, b := range in {
		freq[b]++
	}
	var top byte
	best := freq[0]
	for v := 1; v < 256; v++ {
		if freq[v] > best {
			best = freq[v]
			top = byte(v)
		}
	}

	bitmap := make([]uint8, len(in))
	var residual []uint8
	var max uint8
	for i, b := range in {
		if b == top {
			bitmap[i] = 0
			continue
		}
		bitmap[i] = 1
		residual = append(residual, b)
		if b > max {
			max = b
		}
	}

	w := clampWidth(bitpack.BitWidth(max), minFixedBitLn)
	return Result{
		Kind:     TopSymbolBitmap,
		Residual: residual,
		NumBytes: len(residual),
		BitWidth: w,
		Side: SideData{
			Top:    top,
			Bitmap: bitmap,
			Count:  len(residual),
		},
		OK: true,
	}
}

func invertTopSymbolBitmap(residual []uint8, side SideData, blkSize int) []byte {
	out := make([]byte, blkSize)
	next := 0
	for i := 0; i < blkSize; i++ {
		if side.Bitmap[i] == 0 {
			out[i] = side.Top
			continue
		}
		out[i] = residual[next]
		next++
	}
	return out
}
