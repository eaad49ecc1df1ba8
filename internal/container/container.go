// Package container frames a BitCompactor payload for storage in a file or
// over a stream: a magic and format version, the Args the payload was
// encoded with (packed into a bit-level flags word), the original
// decompressed length, and the raw compressed bytes. The core codec in the
// parent package only ever sees in-memory byte slices; container is the
// layer the CLI uses to make a round-trippable file out of them.
//
// The header is written with icza/bitio rather than the codec's own
// internal/bitpack Sink: the two concerns are unrelated (one frames a
// handful of file-level fields MSB-first, the other packs per-block
// residual symbols LSB-first to an exact bit budget) and bitio's
// io.Writer-backed, byte-oriented API is the better fit for a small
// fixed-layout header.
package container

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/mewkiz/bitcompactor"
)

var magic = [4]byte{'B', 'T', 'C', '2'}

// formatVersion is the minor revision of BitCompactor this container
// header was written by.
const formatVersion = 7

var (
	// ErrBadMagic is returned by ReadHeader when src does not begin with
	// the container magic.
	ErrBadMagic = errors.New("container: bad magic")
	// ErrUnsupportedVersion is returned when the header's format version
	// byte does not match formatVersion.
	ErrUnsupportedVersion = errors.New("container: unsupported format version")
)

// Header is the parsed form of a container's fixed-layout preamble.
type Header struct {
	Args        bitcompactor.Args
	OriginalLen int
}

// WriteHeader writes the container preamble for a payload of originalLen
// decompressed bytes, encoded with args, to w. The caller writes the
// compressed payload itself immediately afterward.
func WriteHeader(w io.Writer, args bitcompactor.Args, originalLen int) error {
	if _, err := w.Write(magic[:]); err != nil {
		return errors.WithStack(err)
	}

	// bitio.Writer.Close flushes pending bits but also closes the
	// underlying writer if it implements io.Closer; bit-pack into a scratch
	// buffer first so a caller's os.File isn't closed out from under the
	// payload write that follows.
	flagsBuf := new(bytes.Buffer)
	bw := bitio.NewWriter(flagsBuf)
	if err := bw.WriteByte(formatVersion); err != nil {
		return errors.WithStack(err)
	}
	if err := bw.WriteBool(args.MixedBlkSize); err != nil {
		return errors.WithStack(err)
	}
	if err := bw.WriteBool(args.ProcBinEn); err != nil {
		return errors.WithStack(err)
	}
	if err := bw.WriteBool(args.ProcBtmapEn); err != nil {
		return errors.WithStack(err)
	}
	if err := bw.WriteBool(args.DualEncodeEn); err != nil {
		return errors.WithStack(err)
	}
	if err := bw.WriteBool(args.BypassEn); err != nil {
		return errors.WithStack(err)
	}
	if err := bw.WriteBits(uint64(args.Align), 2); err != nil {
		return errors.WithStack(err)
	}
	if err := bw.WriteBits(uint64(args.MinFixedBitLn), 3); err != nil {
		return errors.WithStack(err)
	}
	if err := bw.Close(); err != nil {
		return errors.WithStack(err)
	}
	if _, err := w.Write(flagsBuf.Bytes()); err != nil {
		return errors.WithStack(err)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(originalLen))
	_, err := w.Write(lenBuf[:])
	return errors.WithStack(err)
}

// ReadHeader parses a container preamble from r, leaving r positioned at
// the start of the compressed payload.
func ReadHeader(r io.Reader) (Header, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return Header{}, errors.WithStack(err)
	}
	if gotMagic != magic {
		return Header{}, ErrBadMagic
	}

	// bitio.Reader may wrap r in a buffered reader if r isn't already an
	// io.ByteReader, which would silently consume bytes from r beyond the
	// 3 bytes the flags actually occupy; decode from an isolated in-memory
	// copy instead so r's cursor lands exactly on the payload afterward.
	var flagsBuf [3]byte
	if _, err := io.ReadFull(r, flagsBuf[:]); err != nil {
		return Header{}, errors.WithStack(err)
	}
	br := bitio.NewReader(bytes.NewReader(flagsBuf[:]))
	version, err := br.ReadByte()
	if err != nil {
		return Header{}, errors.WithStack(err)
	}
	if version != formatVersion {
		return Header{}, ErrUnsupportedVersion
	}

	var args bitcompactor.Args
	if args.MixedBlkSize, err = br.ReadBool(); err != nil {
		return Header{}, errors.WithStack(err)
	}
	if args.ProcBinEn, err = br.ReadBool(); err != nil {
		return Header{}, errors.WithStack(err)
	}
	if args.ProcBtmapEn, err = br.ReadBool(); err != nil {
		return Header{}, errors.WithStack(err)
	}
	if args.DualEncodeEn, err = br.ReadBool(); err != nil {
		return Header{}, errors.WithStack(err)
	}
	if args.BypassEn, err = br.ReadBool(); err != nil {
		return Header{}, errors.WithStack(err)
	}
	align, err := br.ReadBits(2)
	if err != nil {
		return Header{}, errors.WithStack(err)
	}
	args.Align = bitcompactor.Align(align)
	minBitLn, err := br.ReadBits(3)
	if err != nil {
		return Header{}, errors.WithStack(err)
	}
	args.MinFixedBitLn = uint8(minBitLn)

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Header{}, errors.WithStack(err)
	}
	originalLen := int(binary.BigEndian.Uint32(lenBuf[:]))

	return Header{Args: args, OriginalLen: originalLen}, nil
}
