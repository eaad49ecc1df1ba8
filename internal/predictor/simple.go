package predictor

import (
	"sort"

	"github.com/mewkiz/bitcompactor/internal/bitpack"
)

// forwardMin implements MINPRDCT: residual[i] = in[i] - min(in), unsigned.
func forwardMin(in []byte, minFixedBitLn uint8) Result {
	n := len(in)
	min := in[0]
	for _, b := range in[1:] {
		if b < min {
			min = b
		}
	}
	residual := make([]uint8, n)
	var max uint8
	for i, b := range in {
		d := b - min // unsigned subtraction, always >= 0 since min is the minimum
		residual[i] = d
		if d > max {
			max = d
		}
	}
	w := clampWidth(bitpack.BitWidth(max), minFixedBitLn)
	return Result{
		Kind:     MinPredict,
		Residual: residual,
		NumBytes: n,
		BitWidth: w,
		Side:     SideData{HasByte: true, Byte: min},
		OK:       true,
	}
}

func invertAdd(residual []uint8, side SideData, blkSize int) []byte {
	out := make([]byte, blkSize)
	for i := 0; i < blkSize; i++ {
		out[i] = residual[i] + side.Byte
	}
	return out
}

// signedBaselineResult runs the shared SIGNSHFTADDPROC shape: subtract a
// signed baseline (two's-complement byte arithmetic, which wraps exactly
// as the reference implementation's unsigned-char accumulator does), then
// sign-fold the difference.
func signedBaselineResult(k Kind, in []byte, baseline int8, minFixedBitLn uint8) Result {
	n := len(in)
	residual := make([]uint8, n)
	var max uint8
	base := uint8(baseline)
	for i, b := range in {
		d := b - base // wraps mod 256, matching unsigned-char arithmetic
		folded := bitpack.ToUnsigned(int8(d))
		residual[i] = folded
		if folded > max {
			max = folded
		}
	}
	w := clampWidth(bitpack.BitWidth(max), minFixedBitLn)
	return Result{
		Kind:     k,
		Residual: residual,
		NumBytes: n,
		BitWidth: w,
		Side:     SideData{HasByte: true, Byte: base},
		OK:       true,
	}
}

func invertSignShiftAdd(residual []uint8, side SideData, blkSize int) []byte {
	out := make([]byte, blkSize)
	for i := 0; i < blkSize; i++ {
		d := uint8(bitpack.ToSigned(residual[i]))
		out[i] = d + side.Byte
	}
	return out
}

// forwardMinSigned implements MINSPRDCT: subtract the minimum signed byte,
// then sign-fold.
func forwardMinSigned(in []byte, minFixedBitLn uint8) Result {
	minS := int8(in[0])
	for _, b := range in[1:] {
		if s := int8(b); s < minS {
			minS = s
		}
	}
	return signedBaselineResult(MinSignedPredict, in, minS, minFixedBitLn)
}

// forwardMean implements MUPRDCT: subtract the rounded signed mean, then
// sign-fold.
func forwardMean(in []byte, minFixedBitLn uint8) Result {
	sum := 0
	for _, b := range in {
		sum += int(int8(b))
	}
	// Round to nearest, ties away from zero.
	n := len(in)
	mean := 0
	if sum >= 0 {
		mean = (sum + n/2) / n
	} else {
		mean = -((-sum + n/2) / n)
	}
	if mean > 127 {
		mean = 127
	}
	if mean < -128 {
		mean = -128
	}
	return signedBaselineResult(MeanPredict, in, int8(mean), minFixedBitLn)
}

// forwardMedian implements MEDPRDCT: subtract the (naive, sort-based)
// median of the block, then sign-fold. Matches getMedianNaive: the block
// is sorted as unsigned bytes, and for an even-length block the median is
// the lower of the two middle values (never an average) before the result
// is reinterpreted as a signed baseline byte.
func forwardMedian(in []byte, minFixedBitLn uint8) Result {
	sorted := append([]byte(nil), in...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	var medianByte byte
	if len(sorted)%2 == 1 {
		medianByte = sorted[mid]
	} else {
		medianByte = sorted[mid-1]
	}
	return signedBaselineResult(MedianPredict, in, int8(medianByte), minFixedBitLn)
}

// forwardIdentity implements NOPRDCT: residual = in, bit-width from the raw
// unsigned maximum.
func forwardIdentity(in []byte, minFixedBitLn uint8) Result {
	n := len(in)
	residual := make([]uint8, n)
	var max uint8
	for i, b := range in {
		residual[i] = b
		if b > max {
			max = b
		}
	}
	w := clampWidth(bitpack.BitWidth(max), minFixedBitLn)
	return Result{
		Kind:     Identity,
		Residual: residual,
		NumBytes: n,
		BitWidth: w,
		OK:       true,
	}
}

func invertIdentity(residual []uint8, blkSize int) []byte {
	out := make([]byte, blkSize)
	copy(out, residual[:blkSize])
	return out
}

// forwardSignFold implements NOSPRDCT: sign-fold only, no baseline.
func forwardSignFold(in []byte, minFixedBitLn uint8) Result {
	n := len(in)
	residual := make([]uint8, n)
	var max uint8
	for i, b := range in {
		folded := bitpack.ToUnsigned(int8(b))
		residual[i] = folded
		if folded > max {
			max = folded
		}
	}
	w := clampWidth(bitpack.BitWidth(max), minFixedBitLn)
	return Result{
		Kind:     SignFold,
		Residual: residual,
		NumBytes: n,
		BitWidth: w,
		OK:       true,
	}
}

func invertSignFold(residual []uint8, blkSize int) []byte {
	out := make([]byte, blkSize)
	for i := 0; i < blkSize; i++ {
		out[i] = uint8(bitpack.ToSigned(residual[i]))
	}
	return out
}
