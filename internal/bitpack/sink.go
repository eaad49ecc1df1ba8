// Package bitpack implements the bit-level accumulator pair the codec uses
// to frame blocks onto the wire: Sink on the encode side, Source on the
// decode side. Both are LSB-first: the low bit of an appended value is the
// first bit written, and the accumulator spills to dst in little-endian
// 4-byte groups once 32 bits are buffered.
package bitpack

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrBoundExceeded is returned when a Sink write would cross the caller's
// pre-computed output bound (dst capacity).
var ErrBoundExceeded = errors.New("bitpack: write exceeds output bound")

// Sink accumulates bit groups of up to 16 bits and packs them LSB-first
// into a caller-owned byte slice. The accumulator is flushed to dst in
// natural 4-byte groups as soon as 32 bits are buffered; Flush finalises
// any trailing partial byte.
//
// A Sink is per-call scratch: it holds no state beyond the current write
// position and must not be reused across unrelated encodes.
type Sink struct {
	dst   []byte
	n     int    // whole bytes already written to dst
	state uint8  // number of valid bits currently buffered in accum (0..31)
	accum uint32 // bit accumulator, LSB-first
}

// NewSink returns a Sink that packs into dst. The caller must have sized
// dst using CompressedSizeBound (or a larger bound); Append/Flush report
// ErrBoundExceeded rather than writing past the end of dst.
func NewSink(dst []byte) *Sink {
	return &Sink{dst: dst}
}

// Len returns the number of whole bytes written to dst so far, not
// counting bits still buffered in the accumulator.
func (s *Sink) Len() int { return s.n }

// BitsWritten returns the exact number of bits emitted so far, including
// bits still buffered in the accumulator, for alignment accounting.
func (s *Sink) BitsWritten() int { return s.n*8 + int(s.state) }

// Append appends the low nbits bits of value to the stream, LSB-first.
// 0 <= nbits <= 16; Append panics outside that range, since it signals a
// programming error in a caller rather than malformed input.
func (s *Sink) Append(value uint32, nbits uint8) error {
	if nbits == 0 {
		return nil
	}
	if nbits > 16 {
		panic("bitpack: Append nbits must be in [0,16]")
	}
	if s.BitsWritten()+int(nbits) > len(s.dst)*8 {
		return ErrBoundExceeded
	}
	v := value & (uint32(1)<<nbits - 1)
	if uint16(s.state)+uint16(nbits) > 32 {
		// Split across the 32-bit boundary: take the bits that fit, flush,
		// then stash the remainder in a fresh accumulator.
		rem := 32 - s.state
		low := v & (uint32(1)<<rem - 1)
		s.accum |= low << s.state
		if err := s.emitWord(); err != nil {
			return err
		}
		s.accum = v >> rem
		s.state = nbits - rem
		return nil
	}
	s.accum |= v << s.state
	s.state += nbits
	if s.state == 32 {
		return s.emitWord()
	}
	return nil
}

// AppendBool appends a single bit.
func (s *Sink) AppendBool(b bool) error {
	if b {
		return s.Append(1, 1)
	}
	return s.Append(0, 1)
}

// emitWord writes the 32-bit accumulator to dst as 4 little-endian bytes
// and resets it.
func (s *Sink) emitWord() error {
	if s.n+4 > len(s.dst) {
		return ErrBoundExceeded
	}
	binary.LittleEndian.PutUint32(s.dst[s.n:s.n+4], s.accum)
	s.n += 4
	s.accum = 0
	s.state = 0
	return nil
}

// Flush finalises any partial byte currently buffered, writing
// ceil(state/8) bytes; subsequent Append calls resume on a byte boundary.
// Flush is idempotent when no bits are pending.
func (s *Sink) Flush() error {
	if s.state == 0 {
		return nil
	}
	nbytes := int(s.state+7) / 8
	if s.n+nbytes > len(s.dst) {
		return ErrBoundExceeded
	}
	a := s.accum
	for i := 0; i < nbytes; i++ {
		s.dst[s.n+i] = byte(a)
		a >>= 8
	}
	s.n += nbytes
	s.state = 0
	s.accum = 0
	return nil
}

// AlignBytes pads with zero bits/bytes, after a Flush, until BitsWritten
// is a multiple of n*8, i.e. until Len is a multiple of n bytes.
// AlignBytes must be called only when state==0 (i.e. right after Flush).
func (s *Sink) AlignBytes(n int) error {
	if s.state != 0 {
		panic("bitpack: AlignBytes called with a partial byte pending")
	}
	if n <= 0 {
		return nil
	}
	rem := s.n % n
	if rem == 0 {
		return nil
	}
	pad := n - rem
	if s.n+pad > len(s.dst) {
		return ErrBoundExceeded
	}
	for i := 0; i < pad; i++ {
		s.dst[s.n+i] = 0
	}
	s.n += pad
	return nil
}
