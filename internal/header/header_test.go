package header

import (
	"bytes"
	"testing"

	"github.com/mewkiz/bitcompactor/internal/bitpack"
	"github.com/mewkiz/bitcompactor/internal/costmodel"
	"github.com/mewkiz/bitcompactor/internal/predictor"
)

func TestWriteReadUncompressedRoundTrip(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	buf := make([]byte, 128)
	sink := bitpack.NewSink(buf)
	if err := WriteUncompressed(sink, true, false, data); err != nil {
		t.Fatalf("WriteUncompressed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	src := bitpack.NewSource(buf)
	hdr, err := ReadHeader(src, true, false)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.Kind != BlockUncompressed {
		t.Fatalf("Kind = %v, want BlockUncompressed", hdr.Kind)
	}
	if hdr.Big {
		t.Fatalf("Big = true, want false for a 64B block")
	}
	got, err := ReadRawBytes(src, 64)
	if err != nil {
		t.Fatalf("ReadRawBytes: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round trip mismatch: got %v, want %v", got, data)
	}
}

func TestWriteReadLastPartialRoundTrip(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0xCC, 0x01, 0x02, 0x03}
	buf := make([]byte, 32)
	sink := bitpack.NewSink(buf)
	if err := WriteLastPartial(sink, data); err != nil {
		t.Fatalf("WriteLastPartial: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	src := bitpack.NewSource(buf)
	hdr, err := ReadHeader(src, false, false)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.Kind != BlockLastPartial {
		t.Fatalf("Kind = %v, want BlockLastPartial", hdr.Kind)
	}
	if hdr.LastSize != len(data) {
		t.Fatalf("LastSize = %d, want %d", hdr.LastSize, len(data))
	}
	got, err := ReadRawBytes(src, hdr.LastSize)
	if err != nil {
		t.Fatalf("ReadRawBytes: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round trip mismatch: got %v, want %v", got, data)
	}
}

func TestWriteReadEOR(t *testing.T) {
	for _, align := range []int{0, 32, 64} {
		buf := make([]byte, 256)
		sink := bitpack.NewSink(buf)
		// A couple of misaligned bits before EOR, to exercise padding.
		if err := sink.Append(0b101, 3); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if err := WriteEOR(sink, align); err != nil {
			t.Fatalf("WriteEOR(align=%d): %v", align, err)
		}
		if align != 0 && sink.Len()%align != 0 {
			t.Errorf("align=%d: Len()=%d not aligned", align, sink.Len())
		}

		src := bitpack.NewSource(buf)
		if _, err := src.Consume(3); err != nil {
			t.Fatalf("Consume: %v", err)
		}
		if align == 32 || align == 64 {
			src.AlignByte()
		}
		hdr, err := ReadHeader(src, false, false)
		if err != nil {
			t.Fatalf("ReadHeader: %v", err)
		}
		if hdr.Kind != BlockEOR {
			t.Fatalf("align=%d: Kind = %v, want BlockEOR", align, hdr.Kind)
		}
	}
}

func TestWriteReadCompressedAddProcRoundTrip(t *testing.T) {
	in := make([]byte, 64)
	for i := range in {
		in[i] = byte(10 + i)
	}
	choice := costmodel.ComputeCost64(in, costmodel.Options{MinFixedBitLn: 1})
	if choice.None {
		t.Fatal("expected a compressed choice for a monotone ramp")
	}

	buf := make([]byte, 256)
	sink := bitpack.NewSink(buf)
	if err := WriteCompressed(sink, false, false, choice); err != nil {
		t.Fatalf("WriteCompressed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	src := bitpack.NewSource(buf)
	hdr, err := ReadHeader(src, false, false)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.Kind != BlockCompressed {
		t.Fatalf("Kind = %v, want BlockCompressed", hdr.Kind)
	}
	if hdr.HeaderCode != choice.HeaderCode {
		t.Fatalf("HeaderCode = %v, want %v", hdr.HeaderCode, choice.HeaderCode)
	}
	got, err := ReadCompressedBody(src, hdr, 64)
	if err != nil {
		t.Fatalf("ReadCompressedBody: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("round trip mismatch: got %v, want %v", got, in)
	}
}

func TestWriteReadCompressedDualEncodeRoundTrip(t *testing.T) {
	in := make([]byte, 64)
	for i := range in {
		in[i] = byte(i % 3)
	}
	// One outlier that no plain predictor can absorb (0x80 needs 8 bits raw,
	// sign-folded or after any baseline) makes the dual-length choice win,
	// with the outlier as its single long symbol.
	in[5] = 0x80
	choice := costmodel.ComputeCost64(in, costmodel.Options{DualEncodeEn: true, MinFixedBitLn: 1})
	if choice.None {
		t.Fatal("expected a compressed choice")
	}
	if !choice.DualEncode {
		t.Fatalf("expected a dual-length choice, got %v plain", choice.Predictor)
	}

	buf := make([]byte, 256)
	sink := bitpack.NewSink(buf)
	if err := WriteCompressed(sink, false, true, choice); err != nil {
		t.Fatalf("WriteCompressed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	src := bitpack.NewSource(buf)
	hdr, err := ReadHeader(src, false, true)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.Kind != BlockCompressed {
		t.Fatalf("Kind = %v, want BlockCompressed", hdr.Kind)
	}
	got, err := ReadCompressedBody(src, hdr, 64)
	if err != nil {
		t.Fatalf("ReadCompressedBody: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("dual-encode round trip mismatch: got %v, want %v", got, in)
	}
}

func TestWriteReadCompressedBinningBigBlockRoundTrip(t *testing.T) {
	in := make([]byte, 4096)
	vals := []byte{0x01, 0x02, 0x03, 0x04}
	for i := range in {
		in[i] = vals[i%len(vals)]
	}
	choice := costmodel.ComputeCost4K(in, costmodel.Options{MixedBlkSize: true, ProcBinEn: true, ProcBtmapEn: true, MinFixedBitLn: 1})
	if choice.None || choice.Predictor != predictor.Binning {
		t.Fatalf("expected Binning to win, got None=%v Predictor=%v", choice.None, choice.Predictor)
	}

	buf := make([]byte, 8192)
	sink := bitpack.NewSink(buf)
	if err := WriteCompressed(sink, true, true, choice); err != nil {
		t.Fatalf("WriteCompressed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	src := bitpack.NewSource(buf)
	hdr, err := ReadHeader(src, true, true)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if !hdr.Big {
		t.Fatal("Big = false, want true for a 4096-byte block")
	}
	if hdr.DualEncode {
		t.Fatal("DualEncode = true, dual-length never applies at 4K scale")
	}
	got, err := ReadCompressedBody(src, hdr, 4096)
	if err != nil {
		t.Fatalf("ReadCompressedBody: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("round trip mismatch")
	}
}

func TestWriteReadCompressedTopSymbolBitmapRoundTrip(t *testing.T) {
	in := make([]byte, 64)
	for i := range in {
		in[i] = 0x7F
	}
	in[0], in[10], in[20] = 0x01, 0x02, 0x03
	choice := costmodel.ComputeCost64(in, costmodel.Options{ProcBtmapEn: true, MinFixedBitLn: 1})
	if choice.None || choice.Predictor != predictor.TopSymbolBitmap {
		t.Fatalf("expected TopSymbolBitmap to win, got None=%v Predictor=%v", choice.None, choice.Predictor)
	}

	buf := make([]byte, 256)
	sink := bitpack.NewSink(buf)
	if err := WriteCompressed(sink, false, false, choice); err != nil {
		t.Fatalf("WriteCompressed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	src := bitpack.NewSource(buf)
	hdr, err := ReadHeader(src, false, false)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	got, err := ReadCompressedBody(src, hdr, 64)
	if err != nil {
		t.Fatalf("ReadCompressedBody: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("round trip mismatch: got %v, want %v", got, in)
	}
}
