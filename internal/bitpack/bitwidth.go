package bitpack

// ceilLog2 is a 257-entry lookup table giving ceil(log2(i)) for i in
// [0,256], transcribed from the reference implementation's literal table.
var ceilLog2 = [257]uint8{
	0, 0, 1, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	6, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8,
}

// BitWidth returns the number of bits needed to represent any value in
// [0, max]: w = ceil(log2(max+1)), with max==0 giving w=1 (w=0 is never
// legal). max is typically the maximum byte seen across a residual.
func BitWidth(max uint8) uint8 {
	w := ceilLog2[int(max)+1]
	if w == 0 {
		return 1
	}
	return w
}

// ClampMinWidth lower-bounds w by minFixedBitLn (0..7), the
// encoder-configurable floor that stabilises very-small-width outputs.
func ClampMinWidth(w, minFixedBitLn uint8) uint8 {
	if w < minFixedBitLn {
		return minFixedBitLn
	}
	return w
}

// WireCode encodes a bit-width for the 3-bit header field: w=8 is written
// as 0, all other widths are self-representing.
func WireCode(w uint8) uint8 {
	if w == 8 {
		return 0
	}
	return w
}

// FromWireCode inverts WireCode.
func FromWireCode(code uint8) uint8 {
	if code == 0 {
		return 8
	}
	return code
}
