// Package predictor implements the eight 64-byte and two 4K per-block
// transforms BitCompactor chooses among: each consumes a block of input
// bytes and produces a residual stream, together with whatever side-data
// is needed to invert the transform on decode.
//
// Dispatch over predictors is expressed as an enum tag (Kind) plus pure
// functions, rather than a table of method pointers as in the reference
// C++ implementation: idiomatic Go favours a switch statement over a vtable for
// a fixed, small set of cases, and keeps the per-symbol hot loops free of
// interface indirection.
package predictor

import "github.com/mewkiz/bitcompactor/internal/bitpack"

// Kind identifies one of the eight 64-byte predictors (the same two,
// Binning and TopSymbolBitmap, also run at 4K scale with a larger symbol
// table bound).
type Kind uint8

const (
	MinPredict       Kind = iota // 0: MINPRDCT
	MinSignedPredict             // 1: MINSPRDCT
	MeanPredict                  // 2: MUPRDCT
	Identity                     // 3: NOPRDCT
	SignFold                     // 4: NOSPRDCT
	MedianPredict                // 5: MEDPRDCT
	Binning                      // 6: BINCMPCT
	TopSymbolBitmap              // 7: BTMAP
)

// NumKinds is the number of distinct predictor kinds.
const NumKinds = 8

// String names a Kind for diagnostics and trace sink messages.
func (k Kind) String() string {
	switch k {
	case MinPredict:
		return "MINPRDCT"
	case MinSignedPredict:
		return "MINSPRDCT"
	case MeanPredict:
		return "MUPRDCT"
	case Identity:
		return "NOPRDCT"
	case SignFold:
		return "NOSPRDCT"
	case MedianPredict:
		return "MEDPRDCT"
	case Binning:
		return "BINCMPCT"
	case TopSymbolBitmap:
		return "BTMAP"
	default:
		return "UNKNOWN"
	}
}

// HeaderCode is the 3-bit wire code a decoder reads to learn how to invert
// a compressed block's residual. Several Kinds share a HeaderCode because
// their side-data shape and inversion are identical; only the specific
// baseline subtracted on encode differs, and that baseline is carried as
// the side byte rather than the code.
type HeaderCode uint8

const (
	NoProc           HeaderCode = 0 // identity: residual == input, no side-data
	SignShiftProc    HeaderCode = 1 // sign-fold only, no side-data
	SignShiftAddProc HeaderCode = 2 // sign-fold, then add an 8-bit side byte
	AddProc          HeaderCode = 3 // add an 8-bit side byte (no sign-fold)
	BinExpProc       HeaderCode = 4 // symbol-table lookup
	BtExpProc        HeaderCode = 6 // top-symbol + bitmap + remainder
)

// String names a HeaderCode for diagnostics and trace sink messages.
func (c HeaderCode) String() string {
	switch c {
	case NoProc:
		return "NoProc"
	case SignShiftProc:
		return "SignShiftProc"
	case SignShiftAddProc:
		return "SignShiftAddProc"
	case AddProc:
		return "AddProc"
	case BinExpProc:
		return "BinExpProc"
	case BtExpProc:
		return "BtExpProc"
	default:
		return "UNKNOWN"
	}
}

// HeaderCode maps a predictor Kind to its wire code.
func (k Kind) HeaderCode() HeaderCode {
	switch k {
	case MinPredict:
		return AddProc
	case MinSignedPredict, MeanPredict, MedianPredict:
		return SignShiftAddProc
	case Identity:
		return NoProc
	case SignFold:
		return SignShiftProc
	case Binning:
		return BinExpProc
	case TopSymbolBitmap:
		return BtExpProc
	default:
		panic("predictor: unknown kind")
	}
}

// SideData is the union of everything a predictor may need to invert its
// transform: zero bytes, one byte, a symbol table, or a top-symbol with a
// bitmap and a remainder count.
type SideData struct {
	HasByte bool
	Byte    uint8 // MinPredict/MinSignedPredict/MeanPredict/MedianPredict

	Symbols []uint8 // Binning: 1..MaxSyms distinct byte values

	Top    uint8   // TopSymbolBitmap: the removed most-frequent byte
	Bitmap []uint8 // TopSymbolBitmap: one bit per input byte, 0 == top
	Count  int     // TopSymbolBitmap: number of non-top (remainder) bytes
}

// Result is a predictor's output.
type Result struct {
	Kind Kind
	// Residual holds the packed symbol stream. Its valid length is
	// NumBytes, which equals len(in) for every predictor except
	// TopSymbolBitmap, where only the non-top remainder bytes are packed.
	Residual []uint8
	NumBytes int
	BitWidth uint8
	Side     SideData
	// OK is false when the predictor could not run (Binning aborts when
	// the block has more distinct symbols than MaxSyms); the cost model
	// must then skip this Kind entirely.
	OK bool
}

// Forward runs predictor kind on the block in, using maxSyms as the
// Binning symbol-table bound (MAXSYMS=16 for 64B blocks, MAXSYMS4K=64 for
// 4K blocks; ignored by every predictor except Binning) and minFixedBitLn
// as the floor applied to the computed bit-width.
func Forward(k Kind, in []byte, maxSyms int, minFixedBitLn uint8) Result {
	switch k {
	case MinPredict:
		return forwardMin(in, minFixedBitLn)
	case MinSignedPredict:
		return forwardMinSigned(in, minFixedBitLn)
	case MeanPredict:
		return forwardMean(in, minFixedBitLn)
	case Identity:
		return forwardIdentity(in, minFixedBitLn)
	case SignFold:
		return forwardSignFold(in, minFixedBitLn)
	case MedianPredict:
		return forwardMedian(in, minFixedBitLn)
	case Binning:
		return forwardBinning(in, maxSyms, minFixedBitLn)
	case TopSymbolBitmap:
		return forwardTopSymbolBitmap(in, minFixedBitLn)
	default:
		panic("predictor: unknown kind")
	}
}

// Invert reconstructs the original block from a decoded residual and
// side-data, dispatching on the wire HeaderCode rather than the (encoder
// internal, not transmitted) Kind.
func Invert(code HeaderCode, residual []uint8, side SideData, blkSize int) []byte {
	switch code {
	case NoProc:
		return invertIdentity(residual, blkSize)
	case SignShiftProc:
		return invertSignFold(residual, blkSize)
	case SignShiftAddProc:
		return invertSignShiftAdd(residual, side, blkSize)
	case AddProc:
		return invertAdd(residual, side, blkSize)
	case BinExpProc:
		return invertBinning(residual, side, blkSize)
	case BtExpProc:
		return invertTopSymbolBitmap(residual, side, blkSize)
	default:
		panic("predictor: unknown header code")
	}
}

func clampWidth(w uint8, minFixedBitLn uint8) uint8 {
	return bitpack.ClampMinWidth(w, minFixedBitLn)
}
