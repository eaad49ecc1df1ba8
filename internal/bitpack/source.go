package bitpack

import "github.com/pkg/errors"

// ErrSourceExhausted is returned when Consume runs past the end of src.
var ErrSourceExhausted = errors.New("bitpack: read past end of input")

// Source is the decode-side dual of Sink: an LSB-first bit cursor over a
// caller-owned byte slice. The cursor never rewinds.
//
// Unlike Sink, Source consumes a bit at a time rather than mirroring the
// encoder's 32-bit word accumulator; both orderings produce and consume
// the identical LSB-first byte sequence, so the simpler implementation is
// equivalent wire-for-wire.
type Source struct {
	src []byte
	pos int   // byte index of the next unconsumed bit
	bit uint8 // bit index within src[pos], 0..7
}

// NewSource returns a Source reading from src.
func NewSource(src []byte) *Source {
	return &Source{src: src}
}

// BytePos returns the index of the byte currently being consumed (the
// byte containing the next unconsumed bit).
func (r *Source) BytePos() int { return r.pos }

// BitsConsumed returns the total number of bits consumed so far.
func (r *Source) BitsConsumed() int { return r.pos*8 + int(r.bit) }

// Exhausted reports whether the cursor has consumed the entire input.
func (r *Source) Exhausted() bool { return r.pos >= len(r.src) }

// Consume reads nbits bits starting at the cursor and returns them
// zero-extended in a uint32, advancing the cursor. 0 <= nbits <= 16.
func (r *Source) Consume(nbits uint8) (uint32, error) {
	if nbits == 0 {
		return 0, nil
	}
	if nbits > 16 {
		panic("bitpack: Consume nbits must be in [0,16]")
	}
	var v uint32
	for i := uint8(0); i < nbits; i++ {
		if r.pos >= len(r.src) {
			return 0, ErrSourceExhausted
		}
		bit := (r.src[r.pos] >> r.bit) & 1
		v |= uint32(bit) << i
		r.bit++
		if r.bit == 8 {
			r.bit = 0
			r.pos++
		}
	}
	return v, nil
}

// ConsumeBool reads a single bit as a bool.
func (r *Source) ConsumeBool() (bool, error) {
	v, err := r.Consume(1)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ConsumeByte reads a full byte (8 bits).
func (r *Source) ConsumeByte() (byte, error) {
	v, err := r.Consume(8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

// AlignByte advances the cursor to the start of the next byte if it is
// not already byte-aligned.
func (r *Source) AlignByte() {
	if r.bit != 0 {
		r.bit = 0
		r.pos++
	}
}
