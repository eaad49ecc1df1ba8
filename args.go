package bitcompactor

// Align selects the tail-padding alignment EOR emission pads the stream to.
const (
	AlignNone Align = 0
	Align32B  Align = 1
	Align64B  Align = 2
)

// Align is the codec's output alignment mode.
type Align int

// Args configures one Compress or Decompress call. It is the codec's sole
// configuration surface: there is no config file or environment variable
// reader, matching the reference wrap-args struct it is modeled on.
type Args struct {
	// Verbosity gates TraceSink.Info calls; higher values trace more.
	Verbosity int

	// MixedBlkSize enables the 4096-byte "big" predictor family alongside
	// the 64-byte "small" one, with a per-block 2-bit size tag.
	MixedBlkSize bool

	// ProcBinEn enables the Binning predictor at both block scales.
	ProcBinEn bool

	// ProcBtmapEn enables the TopSymbolBitmap predictor at both block
	// scales.
	ProcBtmapEn bool

	// Align selects the EOR tail-padding alignment.
	Align Align

	// DualEncodeEn enables dual-length (mixed short/8-bit) residual
	// packing for 64-byte blocks. Never applies to 4096-byte blocks.
	DualEncodeEn bool

	// BypassEn forces every block to the UNCOMPRESSED path, skipping
	// CostModel entirely.
	BypassEn bool

	// MinFixedBitLn floors every predictor's computed bit-width (0..7).
	MinFixedBitLn uint8

	// Trace receives diagnostic messages. A nil Trace discards everything
	// when Verbosity is VerbosityNone; with a higher Verbosity a nil Trace
	// is replaced by a standard-error logger (NewStdTraceSink).
	Trace TraceSink
}

// DefaultArgs returns the reference implementation's field defaults:
// 32-byte alignment, dual-length encoding on, a minimum fixed-length
// symbol size of 3 bits, and binning/bitmap/mixed-size/bypass disabled.
func DefaultArgs() Args {
	return Args{
		Align:         Align32B,
		DualEncodeEn:  true,
		MinFixedBitLn: 3,
	}
}

func (a Args) valid() bool {
	return a.Align >= AlignNone && a.Align <= Align64B && a.MinFixedBitLn <= 7
}

func (a Args) trace() TraceSink {
	if a.Trace != nil {
		return a.Trace
	}
	if a.Verbosity > VerbosityNone {
		return NewStdTraceSink(a.Verbosity)
	}
	return noopTraceSink{}
}
