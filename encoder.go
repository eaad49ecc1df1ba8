package bitcompactor

import (
	"github.com/mewkiz/bitcompactor/internal/bitpack"
	"github.com/mewkiz/bitcompactor/internal/costmodel"
	"github.com/mewkiz/bitcompactor/internal/header"
)

// encoder drives the block segmentation loop of spec section 4.7: walk src
// front to back, ask costmodel for the cheapest representation of each
// block, and write it through header. An encoder is per-call scratch.
type encoder struct {
	args  Args
	opt   costmodel.Options
	trace TraceSink
}

func newEncoder(args Args) *encoder {
	return &encoder{
		args: args,
		opt: costmodel.Options{
			MixedBlkSize:  args.MixedBlkSize,
			ProcBinEn:     args.ProcBinEn,
			ProcBtmapEn:   args.ProcBtmapEn,
			DualEncodeEn:  args.DualEncodeEn,
			MinFixedBitLn: args.MinFixedBitLn,
		},
		trace: args.trace(),
	}
}

func (e *encoder) encode(src, dst []byte) (int, error) {
	sink := bitpack.NewSink(dst)
	pos := 0

	for len(src)-pos >= smallBlkSize {
		remaining := len(src) - pos
		big := e.opt.MixedBlkSize && remaining >= bigBlkSize

		if e.args.BypassEn {
			n := smallBlkSize
			if big {
				n = bigBlkSize
			}
			if err := header.WriteUncompressed(sink, e.opt.MixedBlkSize, big, src[pos:pos+n]); err != nil {
				return 0, err
			}
			pos += n
			continue
		}

		if big {
			n, err := e.encodeBigRegion(sink, src[pos:pos+bigBlkSize])
			if err != nil {
				return 0, err
			}
			pos += n
			continue
		}

		if err := e.writeChoice(sink, src[pos:pos+smallBlkSize], costmodel.ComputeCost64(src[pos:pos+smallBlkSize], e.opt)); err != nil {
			return 0, err
		}
		pos += smallBlkSize
	}

	if tail := len(src) - pos; tail > 0 {
		if err := header.WriteLastPartial(sink, src[pos:]); err != nil {
			return 0, err
		}
		e.trace.Info("encoder", "wrote trailing partial block", VerbosityMedium)
		pos = len(src)
	}

	if err := header.WriteEOR(sink, header.AlignBytesForArg(int(e.args.Align))); err != nil {
		return 0, err
	}
	return sink.Len(), nil
}

// encodeBigRegion decides between one 4096-byte block and sixty-four 64-byte
// blocks for region, picking whichever costs strictly fewer bits; a tie
// favours the finer-grained 64-byte path.
func (e *encoder) encodeBigRegion(sink *bitpack.Sink, region []byte) (int, error) {
	big := costmodel.ComputeCost4K(region, e.opt)

	numSmall := bigBlkSize / smallBlkSize
	small := make([]costmodel.Choice, numSmall)
	sumSmall := 0
	for i := range small {
		small[i] = costmodel.ComputeCost64(region[i*smallBlkSize:(i+1)*smallBlkSize], e.opt)
		sumSmall += small[i].Cost
	}

	if big.Cost < sumSmall {
		e.trace.Info("encoder", "chose 4K block via "+predictorLabel(big), VerbosityHigh)
		if err := e.writeChoice(sink, region, big); err != nil {
			return 0, err
		}
		return bigBlkSize, nil
	}

	for i, c := range small {
		if err := e.writeChoice(sink, region[i*smallBlkSize:(i+1)*smallBlkSize], c); err != nil {
			return 0, err
		}
	}
	return bigBlkSize, nil
}

func (e *encoder) writeChoice(sink *bitpack.Sink, raw []byte, choice costmodel.Choice) error {
	if choice.None {
		e.trace.Info("encoder", "block fell back to uncompressed", VerbosityHigh)
		return header.WriteUncompressed(sink, e.opt.MixedBlkSize, choice.Class == costmodel.Big, raw)
	}
	e.trace.Info("encoder", "chose "+predictorLabel(choice), VerbosityHigh)
	return header.WriteCompressed(sink, e.opt.MixedBlkSize, e.opt.DualEncodeEn, choice)
}

func predictorLabel(c costmodel.Choice) string {
	if c.None {
		return "uncompressed"
	}
	return c.Predictor.String()
}
