package costmodel

import "github.com/mewkiz/bitcompactor/internal/bitpack"

// DualResult is the outcome of choosing a dual-length split for a
// residual: every symbol is packed at Width bits unless Bitmap marks it
// long, in which case it is packed at 8 bits.
type DualResult struct {
	Width  uint8
	Bitmap []uint8 // len(residual); 1 == long (8 bits), 0 == short (Width bits)
	// Cost is the packed payload bit count for this split (bitmap and
	// header overhead are not included).
	Cost int
}

// DualLength implements the per-block dual-length search of spec section
// 4.5: bin residual symbols by their individual bit width, then choose the
// short width w in [1,8] that minimises total payload bits. A dual-length
// block must contain at least one long symbol; if every symbol ended up
// short under the chosen w, bitmap[0] is forced long and the cost is
// corrected to account for it.
func DualLength(residual []uint8) DualResult {
	var bin [9]int
	widths := make([]uint8, len(residual))
	for i, v := range residual {
		w := bitpack.BitWidth(v)
		widths[i] = w
		bin[w]++
	}

	bestW := uint8(1)
	bestCost := -1
	for w := uint8(1); w <= 8; w++ {
		cost := 0
		for j := uint8(1); j <= 8; j++ {
			if j <= w {
				cost += bin[j] * int(w)
			} else {
				cost += bin[j] * 8
			}
		}
		if bestCost == -1 || cost < bestCost {
			bestCost = cost
			bestW = w
		}
	}

	bitmap := make([]uint8, len(residual))
	anyLong := false
	for i, w := range widths {
		if w > bestW {
			bitmap[i] = 1
			anyLong = true
		}
	}
	if !anyLong && len(bitmap) > 0 {
		bitmap[0] = 1
		bestCost += int(8 - bestW)
	}

	return DualResult{Width: bestW, Bitmap: bitmap, Cost: bestCost}
}
