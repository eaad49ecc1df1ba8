// Package costmodel computes the encoded-bit cost of every eligible
// predictor's output for a block, including header overhead, and picks
// the minimum — the analysis step the reference implementation spreads
// across its per-block encode loop, here isolated the way the teacher's
// analyseFixed/analyseSubframe helpers isolate FLAC's fixed-predictor
// order search from the bitstream writer.
package costmodel

import "github.com/mewkiz/bitcompactor/internal/predictor"

// MaxSymsSmall and MaxSymsBig are MAXSYMS and MAXSYMS4K: the maximum
// distinct symbols admissible to the binning predictor for 64B and 4K
// blocks respectively.
const (
	MaxSymsSmall = 16
	MaxSymsBig   = 64
)

// BlockClass distinguishes the 64B and 4K predictor families.
type BlockClass int

const (
	Small BlockClass = iota
	Big
)

// Options mirrors the subset of the codec's Args that the cost model
// needs: which predictors are enabled, whether mixed block sizing and
// dual-length encoding are active, and the bit-width floor.
type Options struct {
	MixedBlkSize  bool
	ProcBinEn     bool
	ProcBtmapEn   bool
	DualEncodeEn  bool
	MinFixedBitLn uint8
}

// Choice is the AlgoChoice tuple of spec section 3: the predictor (or
// uncompressed fallback) CostModel selected for one block, together with
// everything Encoder needs to emit it.
type Choice struct {
	Predictor        predictor.Kind
	HeaderCode       predictor.HeaderCode
	DualEncode       bool
	None             bool // true: emit uncompressed, ignore Predictor/Result
	Cost             int  // total bits, including header overhead
	WorkingBlockSize int
	Class            BlockClass

	// Result is the plain predictor output (residual + side-data). Valid
	// whenever !None, even when DualEncode is also true (the dual
	// alternative repacks the same residual at mixed widths).
	Result predictor.Result

	// Dual is populated when DualEncode is true.
	Dual DualResult
}

func boolBits(cond bool, ifTrue, ifFalse int) int {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// headerOverheadSmall returns the 64B header overhead for predictor kind
// k, per spec section 4.4's table, given whether the 2-bit mixed
// block-size field and the 2-bit dual-encode flag are present in every
// compressed header for this run.
func headerOverheadSmall(k predictor.Kind, mixedBits, dualBits int) int {
	switch k {
	case predictor.MinPredict, predictor.MinSignedPredict, predictor.MeanPredict, predictor.MedianPredict:
		return 16 + mixedBits + dualBits
	case predictor.Identity, predictor.SignFold:
		return 8 + mixedBits + dualBits
	case predictor.Binning:
		return 12 + mixedBits + dualBits
	case predictor.TopSymbolBitmap:
		return 88 + mixedBits + dualBits
	default:
		panic("costmodel: unknown kind")
	}
}

// headerOverheadBig returns the 4K header overhead; dual-length encoding
// never applies at 4K, so no dual-flag term is added even when
// DualEncodeEn is set globally.
func headerOverheadBig(k predictor.Kind, mixedBits int) int {
	switch k {
	case predictor.Binning:
		return 14 + mixedBits
	case predictor.TopSymbolBitmap:
		return 4126 + mixedBits
	default:
		panic("costmodel: kind has no 4K variant")
	}
}

// smallKinds lists the predictors eligible at 64B scale in table order;
// Binning and TopSymbolBitmap are appended only when enabled.
func smallKinds(opt Options) []predictor.Kind {
	kinds := []predictor.Kind{
		predictor.MinPredict,
		predictor.MinSignedPredict,
		predictor.MeanPredict,
		predictor.Identity,
		predictor.SignFold,
		predictor.MedianPredict,
	}
	if opt.ProcBinEn {
		kinds = append(kinds, predictor.Binning)
	}
	if opt.ProcBtmapEn {
		kinds = append(kinds, predictor.TopSymbolBitmap)
	}
	return kinds
}

type plainCandidate struct {
	kind predictor.Kind
	res  predictor.Result
	cost int
}

type dualCandidate struct {
	kind predictor.Kind
	res  predictor.Result
	dual DualResult
	cost int
}

// ComputeCost64 runs every enabled predictor over a 64-byte (or shorter,
// for a caller that wants the cost of a short trailing block) input, plus
// its dual-length alternative when enabled, and returns the minimum-cost
// AlgoChoice. Tie-break is strict '<': on equality the earlier-indexed
// predictor wins, and the uncompressed baseline wins any tie against a
// compressed alternative.
func ComputeCost64(in []byte, opt Options) Choice {
	mixedBits := boolBits(opt.MixedBlkSize, 2, 0)
	dualBits := boolBits(opt.DualEncodeEn, 2, 0)
	uncompressedCost := len(in)*8 + boolBits(opt.MixedBlkSize, 4, 2)

	var plain []plainCandidate
	for _, k := range smallKinds(opt) {
		res := predictor.Forward(k, in, MaxSymsSmall, opt.MinFixedBitLn)
		if !res.OK {
			continue
		}
		overhead := headerOverheadSmall(k, mixedBits, dualBits)
		bits := overhead + res.NumBytes*int(res.BitWidth)
		if k == predictor.Binning {
			bits += len(res.Side.Symbols) * 8
		}
		plain = append(plain, plainCandidate{kind: k, res: res, cost: bits})
	}

	var bestPlain *plainCandidate
	for i := range plain {
		if bestPlain == nil || plain[i].cost < bestPlain.cost {
			bestPlain = &plain[i]
		}
	}

	chosen := Choice{None: true, Cost: uncompressedCost, WorkingBlockSize: len(in), Class: Small}
	if bestPlain != nil && bestPlain.cost < chosen.Cost {
		chosen = Choice{
			Predictor:        bestPlain.kind,
			HeaderCode:       bestPlain.kind.HeaderCode(),
			Cost:             bestPlain.cost,
			WorkingBlockSize: len(in),
			Class:            Small,
			Result:           bestPlain.res,
		}
	}

	if opt.DualEncodeEn {
		var dual []dualCandidate
		for _, k := range smallKinds(opt) {
			if k == predictor.TopSymbolBitmap {
				continue // BTMAP has no dual alternative
			}
			res := predictor.Forward(k, in, MaxSymsSmall, opt.MinFixedBitLn)
			if !res.OK {
				continue
			}
			dl := DualLength(res.Residual[:res.NumBytes])
			overhead := headerOverheadSmall(k, mixedBits, dualBits)
			bits := overhead + dl.Cost + len(in) + 10 // bitmap + bit-length field
			if k == predictor.Binning {
				bits += len(res.Side.Symbols) * 8
			}
			dual = append(dual, dualCandidate{kind: k, res: res, dual: dl, cost: bits})
		}
		var bestDual *dualCandidate
		for i := range dual {
			if bestDual == nil || dual[i].cost < bestDual.cost {
				bestDual = &dual[i]
			}
		}
		if bestDual != nil && bestDual.cost < chosen.Cost {
			chosen = Choice{
				Predictor:        bestDual.kind,
				HeaderCode:       bestDual.kind.HeaderCode(),
				DualEncode:       true,
				Cost:             bestDual.cost,
				WorkingBlockSize: len(in),
				Class:            Small,
				Result:           bestDual.res,
				Dual:             bestDual.dual,
			}
		}
	}

	return chosen
}

// ComputeCost4K runs the two 4K-scale predictors (Binning, TopSymbolBitmap)
// over a 4096-byte input, each enabled only per opt, and returns the
// minimum-cost AlgoChoice. Dual-length encoding never applies at 4K scale.
func ComputeCost4K(in []byte, opt Options) Choice {
	mixedBits := boolBits(opt.MixedBlkSize, 2, 0)
	uncompressedCost := len(in)*8 + boolBits(opt.MixedBlkSize, 4, 2)

	var kinds []predictor.Kind
	if opt.ProcBinEn {
		kinds = append(kinds, predictor.Binning)
	}
	if opt.ProcBtmapEn {
		kinds = append(kinds, predictor.TopSymbolBitmap)
	}

	var best *plainCandidate
	var all []plainCandidate
	for _, k := range kinds {
		res := predictor.Forward(k, in, MaxSymsBig, opt.MinFixedBitLn)
		if !res.OK {
			continue
		}
		overhead := headerOverheadBig(k, mixedBits)
		bits := overhead + res.NumBytes*int(res.BitWidth)
		if k == predictor.Binning {
			bits += len(res.Side.Symbols) * 8
		}
		all = append(all, plainCandidate{kind: k, res: res, cost: bits})
	}
	for i := range all {
		if best == nil || all[i].cost < best.cost {
			best = &all[i]
		}
	}

	chosen := Choice{None: true, Cost: uncompressedCost, WorkingBlockSize: len(in), Class: Big}
	if best != nil && best.cost < chosen.Cost {
		chosen = Choice{
			Predictor:        best.kind,
			HeaderCode:       best.kind.HeaderCode(),
			Cost:             best.cost,
			WorkingBlockSize: len(in),
			Class:            Big,
			Result:           best.res,
		}
	}
	return chosen
}
