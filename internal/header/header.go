// Package header implements the per-block header grammar of spec section
// 4.6: the two-bit prefix code, the optional mixed-block-size field, the
// compressed-block postamble for each predictor family, and EOR emission
// with tail alignment.
package header

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/bitcompactor/internal/bitpack"
	"github.com/mewkiz/bitcompactor/internal/costmodel"
	"github.com/mewkiz/bitcompactor/internal/predictor"
)

// Prefix is the 2-bit block header prefix code.
type Prefix uint8

const (
	PrefixEOR          Prefix = 0b00
	PrefixLastPartial  Prefix = 0b01
	PrefixUncompressed Prefix = 0b10
	PrefixCompressed   Prefix = 0b11
)

const (
	numSymsBLSmall = 4 // NUMSYMSBL
	numSymsBLBig   = 6 // NUMSYMSBL4K
)

// AlignBytesForArg maps the codec's Align config (0 none, 1, 2) onto the
// literal tail alignment in bytes (0, 32, 64).
func AlignBytesForArg(align int) int {
	switch align {
	case 1:
		return 32
	case 2:
		return 64
	default:
		return 0
	}
}

func sizeCode(big bool) uint32 {
	if big {
		return 0b01
	}
	return 0b00
}

// --- [ Write ] ----------------------------------------------------------

// WriteEOR writes the end-of-record marker: a 00 prefix, optional tail
// padding (alignBytes 32 or 64; 0 disables padding), and a second
// mandatory 00 that flushes the accumulator. With padding, the zero bytes
// are sized so that the stream, including the byte the closing 00 occupies,
// ends on an alignBytes boundary.
func WriteEOR(sink *bitpack.Sink, alignBytes int) error {
	if err := sink.Append(uint32(PrefixEOR), 2); err != nil {
		return errors.WithStack(err)
	}
	if alignBytes == 32 || alignBytes == 64 {
		if rem := sink.BitsWritten() % 8; rem != 0 {
			if err := sink.Append(0, uint8(8-rem)); err != nil {
				return errors.WithStack(err)
			}
		}
		if err := sink.Flush(); err != nil {
			return errors.WithStack(err)
		}
		for (sink.BitsWritten()/8+1)%alignBytes != 0 {
			if err := sink.Append(0, 8); err != nil {
				return errors.WithStack(err)
			}
		}
	}
	if err := sink.Append(uint32(PrefixEOR), 2); err != nil {
		return errors.WithStack(err)
	}
	return sink.Flush()
}

// WriteLastPartial writes a trailing short block: the 01 prefix, a 6-bit
// byte count (1..63), and the raw bytes themselves.
func WriteLastPartial(sink *bitpack.Sink, data []byte) error {
	if err := sink.Append(uint32(PrefixLastPartial), 2); err != nil {
		return errors.WithStack(err)
	}
	if err := sink.Append(uint32(len(data)), 6); err != nil {
		return errors.WithStack(err)
	}
	return writeRawBytes(sink, data)
}

// WriteUncompressed writes an UNCOMPRESSED block header and its raw
// payload. big selects the 4K/64B size field when mixed is enabled.
func WriteUncompressed(sink *bitpack.Sink, mixed, big bool, data []byte) error {
	if err := sink.Append(uint32(PrefixUncompressed), 2); err != nil {
		return errors.WithStack(err)
	}
	if mixed {
		if err := sink.Append(sizeCode(big), 2); err != nil {
			return errors.WithStack(err)
		}
	}
	return writeRawBytes(sink, data)
}

func writeRawBytes(sink *bitpack.Sink, data []byte) error {
	for _, b := range data {
		if err := sink.Append(uint32(b), 8); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// WriteCompressed writes a full COMPRESSED block: header, the
// predictor-specific postamble, and the residual payload, for choice.
func WriteCompressed(sink *bitpack.Sink, mixed, dualEncodeEn bool, choice costmodel.Choice) error {
	big := choice.Class == costmodel.Big
	if err := sink.Append(uint32(PrefixCompressed), 2); err != nil {
		return errors.WithStack(err)
	}
	if mixed {
		if err := sink.Append(sizeCode(big), 2); err != nil {
			return errors.WithStack(err)
		}
	}
	if err := sink.Append(uint32(choice.HeaderCode), 3); err != nil {
		return errors.WithStack(err)
	}

	width := choice.Result.BitWidth
	if choice.DualEncode {
		width = choice.Dual.Width
	}
	if err := sink.Append(uint32(bitpack.WireCode(width)), 3); err != nil {
		return errors.WithStack(err)
	}

	// The dual-encode flag field only appears for 64B blocks: dual-length
	// encoding is defined only for blkSize <= 64 (spec section 4.5).
	if dualEncodeEn && !big {
		flag := uint32(0)
		if choice.DualEncode {
			flag = 1
		}
		if err := sink.Append(flag, 2); err != nil {
			return errors.WithStack(err)
		}
		if choice.DualEncode {
			// Informational total-compressed-bits literal for hardware
			// decoders; software decoders must still parse and discard it.
			if err := sink.Append(uint32(choice.Dual.Cost), 10); err != nil {
				return errors.WithStack(err)
			}
		}
	}

	if err := writePostamble(sink, big, choice.HeaderCode, choice.Result); err != nil {
		return err
	}

	residual := choice.Result.Residual[:choice.Result.NumBytes]
	if choice.DualEncode {
		for _, b := range choice.Dual.Bitmap {
			if err := sink.Append(uint32(b), 1); err != nil {
				return errors.WithStack(err)
			}
		}
		return writeResidualDual(sink, residual, choice.Dual)
	}
	return writeResidualPlain(sink, residual, width)
}

func writePostamble(sink *bitpack.Sink, big bool, code predictor.HeaderCode, res predictor.Result) error {
	switch code {
	case predictor.AddProc, predictor.SignShiftAddProc:
		return sink.Append(uint32(res.Side.Byte), 8)
	case predictor.BinExpProc:
		numSymsBL := uint8(numSymsBLSmall)
		maxSyms := costmodel.MaxSymsSmall
		if big {
			numSymsBL = numSymsBLBig
			maxSyms = costmodel.MaxSymsBig
		}
		k := len(res.Side.Symbols)
		kCode := uint32(k)
		if k == maxSyms {
			kCode = 0
		}
		if err := sink.Append(kCode, numSymsBL); err != nil {
			return errors.WithStack(err)
		}
		return writeRawBytes(sink, res.Side.Symbols)
	case predictor.BtExpProc:
		if err := sink.Append(uint32(res.Side.Top), 8); err != nil {
			return errors.WithStack(err)
		}
		count := res.Side.Count
		if err := sink.Append(uint32(count&0xFF), 8); err != nil {
			return errors.WithStack(err)
		}
		if big {
			if err := sink.Append(uint32((count>>8)&0x3F), 6); err != nil {
				return errors.WithStack(err)
			}
		}
		for _, b := range res.Side.Bitmap {
			if err := sink.Append(uint32(b), 1); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	default: // NoProc, SignShiftProc: no postamble
		return nil
	}
}

func writeResidualPlain(sink *bitpack.Sink, residual []uint8, width uint8) error {
	for _, v := range residual {
		if err := sink.Append(uint32(v), width); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func writeResidualDual(sink *bitpack.Sink, residual []uint8, dual costmodel.DualResult) error {
	for i, v := range residual {
		w := dual.Width
		if dual.Bitmap[i] == 1 {
			w = 8
		}
		if err := sink.Append(uint32(v), w); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// --- [ Read ] -------------------------------------------------------------

// BlockKind identifies which of the four header shapes was parsed.
type BlockKind int

const (
	BlockEOR BlockKind = iota
	BlockLastPartial
	BlockUncompressed
	BlockCompressed
)

// DecodedHeader is the parsed form of one block header.
type DecodedHeader struct {
	Kind       BlockKind
	Big        bool // 4K vs 64B; meaningful for Uncompressed/Compressed when mixed
	LastSize   int  // BlockLastPartial: byte count of the trailing block
	HeaderCode predictor.HeaderCode
	Width      uint8
	DualEncode bool
	DualBitLen int
}

// ReadHeader parses one block header from src.
func ReadHeader(src *bitpack.Source, mixed, dualEncodeEn bool) (DecodedHeader, error) {
	prefix, err := src.Consume(2)
	if err != nil {
		return DecodedHeader{}, errors.WithStack(err)
	}
	switch Prefix(prefix) {
	case PrefixEOR:
		return DecodedHeader{Kind: BlockEOR}, nil
	case PrefixLastPartial:
		size, err := src.Consume(6)
		if err != nil {
			return DecodedHeader{}, errors.WithStack(err)
		}
		return DecodedHeader{Kind: BlockLastPartial, LastSize: int(size)}, nil
	case PrefixUncompressed:
		big, err := readSizeField(src, mixed)
		if err != nil {
			return DecodedHeader{}, err
		}
		return DecodedHeader{Kind: BlockUncompressed, Big: big}, nil
	case PrefixCompressed:
		big, err := readSizeField(src, mixed)
		if err != nil {
			return DecodedHeader{}, err
		}
		codeVal, err := src.Consume(3)
		if err != nil {
			return DecodedHeader{}, errors.WithStack(err)
		}
		widthCode, err := src.Consume(3)
		if err != nil {
			return DecodedHeader{}, errors.WithStack(err)
		}
		hdr := DecodedHeader{
			Kind:       BlockCompressed,
			Big:        big,
			HeaderCode: predictor.HeaderCode(codeVal),
			Width:      bitpack.FromWireCode(uint8(widthCode)),
		}
		if dualEncodeEn && !big {
			flag, err := src.Consume(2)
			if err != nil {
				return DecodedHeader{}, errors.WithStack(err)
			}
			hdr.DualEncode = flag&1 == 1
			if hdr.DualEncode {
				dbl, err := src.Consume(10)
				if err != nil {
					return DecodedHeader{}, errors.WithStack(err)
				}
				hdr.DualBitLen = int(dbl)
			}
		}
		return hdr, nil
	default:
		return DecodedHeader{}, errors.Errorf("header: impossible prefix %02b", prefix)
	}
}

// readSizeField reads the optional 2-bit mixed block-size field, used by
// this decoder to learn the block size for both UNCOMPRESSED and
// COMPRESSED headers (see DESIGN.md for why this decoder consults the
// field for both header kinds instead of only COMPRESSED ones).
func readSizeField(src *bitpack.Source, mixed bool) (big bool, err error) {
	if !mixed {
		return false, nil
	}
	code, err := src.Consume(2)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return code == 0b01, nil
}

// ReadRawBytes reads n raw bytes (used for UNCOMPRESSED and LAST blocks).
func ReadRawBytes(src *bitpack.Source, n int) ([]byte, error) {
	out := make([]byte, n)
	for i := range out {
		b, err := src.ConsumeByte()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		out[i] = b
	}
	return out, nil
}

// ReadCompressedBody reads a COMPRESSED block's postamble and residual
// payload following the header hdr, and returns the reconstructed
// blkSize-byte block.
func ReadCompressedBody(src *bitpack.Source, hdr DecodedHeader, blkSize int) ([]byte, error) {
	side, err := readPostamble(src, hdr.Big, hdr.HeaderCode, blkSize)
	if err != nil {
		return nil, err
	}
	numBytes := blkSize
	if hdr.HeaderCode == predictor.BtExpProc {
		numBytes = side.Count
	}

	residual := make([]uint8, numBytes)
	if hdr.DualEncode {
		bitmap := make([]uint8, blkSize)
		for i := range bitmap {
			b, err := src.Consume(1)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			bitmap[i] = uint8(b)
		}
		for i := 0; i < numBytes; i++ {
			w := hdr.Width
			if bitmap[i] == 1 {
				w = 8
			}
			v, err := src.Consume(w)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			residual[i] = uint8(v)
		}
	} else {
		for i := 0; i < numBytes; i++ {
			v, err := src.Consume(hdr.Width)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			residual[i] = uint8(v)
		}
	}

	return predictor.Invert(hdr.HeaderCode, residual, side, blkSize), nil
}

func readPostamble(src *bitpack.Source, big bool, code predictor.HeaderCode, blkSize int) (predictor.SideData, error) {
	switch code {
	case predictor.AddProc, predictor.SignShiftAddProc:
		b, err := src.ConsumeByte()
		if err != nil {
			return predictor.SideData{}, errors.WithStack(err)
		}
		return predictor.SideData{HasByte: true, Byte: b}, nil
	case predictor.BinExpProc:
		numSymsBL := uint8(numSymsBLSmall)
		maxSyms := costmodel.MaxSymsSmall
		if big {
			numSymsBL = numSymsBLBig
			maxSyms = costmodel.MaxSymsBig
		}
		kCode, err := src.Consume(numSymsBL)
		if err != nil {
			return predictor.SideData{}, errors.WithStack(err)
		}
		k := int(kCode)
		if k == 0 {
			k = maxSyms
		}
		symbols, err := ReadRawBytes(src, k)
		if err != nil {
			return predictor.SideData{}, err
		}
		return predictor.SideData{Symbols: symbols}, nil
	case predictor.BtExpProc:
		top, err := src.ConsumeByte()
		if err != nil {
			return predictor.SideData{}, errors.WithStack(err)
		}
		lo, err := src.Consume(8)
		if err != nil {
			return predictor.SideData{}, errors.WithStack(err)
		}
		count := int(lo)
		if big {
			hi, err := src.Consume(6)
			if err != nil {
				return predictor.SideData{}, errors.WithStack(err)
			}
			count |= int(hi) << 8
		}
		bitmap := make([]uint8, blkSize)
		for i := range bitmap {
			b, err := src.Consume(1)
			if err != nil {
				return predictor.SideData{}, errors.WithStack(err)
			}
			bitmap[i] = uint8(b)
		}
		return predictor.SideData{Top: top, Bitmap: bitmap, Count: count}, nil
	default:
		return predictor.SideData{}, nil
	}
}
