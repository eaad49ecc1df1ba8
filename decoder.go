package bitcompactor

import (
	"github.com/mewkiz/bitcompactor/internal/bitpack"
	"github.com/mewkiz/bitcompactor/internal/header"
)

// decoder drives the symmetric decode loop of spec section 4.8: each block
// header is self-describing (prefix, and, when mixed sizing is enabled, a
// size tag), so decode needs no cost model and no lookahead.
type decoder struct {
	args  Args
	trace TraceSink
}

func newDecoder(args Args) *decoder {
	return &decoder{args: args, trace: args.trace()}
}

func (d *decoder) decode(src, dst []byte) (int, error) {
	source := bitpack.NewSource(src)
	pos := 0

	for {
		hdr, err := header.ReadHeader(source, d.args.MixedBlkSize, d.args.DualEncodeEn)
		if err != nil {
			return 0, err
		}

		switch hdr.Kind {
		case header.BlockEOR:
			d.trace.Info("decoder", "reached EOR", VerbosityMedium)
			return pos, nil

		case header.BlockLastPartial:
			raw, err := header.ReadRawBytes(source, hdr.LastSize)
			if err != nil {
				return 0, err
			}
			if err := d.emit(dst, &pos, raw); err != nil {
				return 0, err
			}

		case header.BlockUncompressed:
			n := blockSize(hdr.Big)
			raw, err := header.ReadRawBytes(source, n)
			if err != nil {
				return 0, err
			}
			if err := d.emit(dst, &pos, raw); err != nil {
				return 0, err
			}

		case header.BlockCompressed:
			n := blockSize(hdr.Big)
			out, err := header.ReadCompressedBody(source, hdr, n)
			if err != nil {
				return 0, err
			}
			d.trace.Info("decoder", "restored "+hdr.HeaderCode.String(), VerbosityHigh)
			if err := d.emit(dst, &pos, out); err != nil {
				return 0, err
			}
		}
	}
}

func (d *decoder) emit(dst []byte, pos *int, block []byte) error {
	if *pos+len(block) > len(dst) {
		return ErrDecompressOverflow
	}
	copy(dst[*pos:], block)
	*pos += len(block)
	return nil
}

func blockSize(big bool) int {
	if big {
		return bigBlkSize
	}
	return smallBlkSize
}
