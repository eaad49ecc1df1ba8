package bitcompactor

import "github.com/pkg/errors"

// Sentinel errors returned by Compress/Decompress and their wrap-style
// counterparts. Callers should compare with errors.Is.
var (
	// ErrNullBuffer is returned by Compress when dst is nil. A nil src is
	// an empty input, not an error.
	ErrNullBuffer = errors.New("bitcompactor: nil buffer")

	// ErrInsufficientOutput is returned when dst is not large enough to
	// hold the worst-case compressed output (see CompressedSizeBound).
	ErrInsufficientOutput = errors.New("bitcompactor: output buffer too small")

	// ErrDecompressOverflow is returned when decoding a block would write
	// past the caller-declared dst length: either dst is smaller than the
	// decoded data or the compressed stream is corrupt.
	ErrDecompressOverflow = errors.New("bitcompactor: decompressed output exceeds dst capacity")

	// ErrInvalidArgs is returned when Args carries an out-of-range field,
	// such as an Align value other than 0, 1, or 2.
	ErrInvalidArgs = errors.New("bitcompactor: invalid Args")

	// ErrBinOverflow names the binning predictor's symbol-table overflow.
	// It is neither returned nor traced: when a block has more distinct
	// symbols than the block class's MaxSyms, the binning predictor reports
	// OK=false and CostModel skips that candidate instead of failing the
	// encode.
	ErrBinOverflow = errors.New("bitcompactor: binning predictor symbol table overflow")
)
