package bitpack

import "testing"

func TestSinkSourceRoundTrip(t *testing.T) {
	golden := []struct {
		value uint32
		nbits uint8
	}{
		{0x1, 1}, {0x0, 1}, {0x3, 2}, {0x5, 3}, {0xFF, 8},
		{0x1FF, 9}, {0xFFFF, 16}, {0x2A, 6}, {0x0, 4}, {0x7, 3},
	}
	dst := make([]byte, 64)
	sink := NewSink(dst)
	for _, g := range golden {
		if err := sink.Append(g.value, g.nbits); err != nil {
			t.Fatalf("Append(%d,%d): %v", g.value, g.nbits, err)
		}
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	src := NewSource(dst[:sink.Len()])
	for _, g := range golden {
		got, err := src.Consume(g.nbits)
		if err != nil {
			t.Fatalf("Consume(%d): %v", g.nbits, err)
		}
		want := g.value & (uint32(1)<<g.nbits - 1)
		if got != want {
			t.Errorf("Consume(%d) = %d, want %d", g.nbits, got, want)
		}
	}
}

func TestSinkCrossesWordBoundary(t *testing.T) {
	dst := make([]byte, 16)
	sink := NewSink(dst)
	// 3 appends of 16 bits: the second fills the 32-bit accumulator exactly
	// and spills it, the third starts a fresh word.
	vals := []uint32{0xBEEF, 0xCAFE, 0x1234}
	for _, v := range vals {
		if err := sink.Append(v, 16); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	src := NewSource(dst[:sink.Len()])
	for _, want := range vals {
		got, err := src.Consume(16)
		if err != nil {
			t.Fatalf("Consume: %v", err)
		}
		if got != want {
			t.Errorf("Consume(16) = %#x, want %#x", got, want)
		}
	}
}

func TestSinkBoundExceeded(t *testing.T) {
	dst := make([]byte, 1)
	sink := NewSink(dst)
	for i := 0; i < 8; i++ {
		if err := sink.Append(1, 1); err != nil {
			t.Fatalf("unexpected error on bit %d: %v", i, err)
		}
	}
	if err := sink.Append(1, 1); err == nil {
		t.Fatal("expected ErrBoundExceeded, got nil")
	}
}

func TestSinkFlushByteCount(t *testing.T) {
	dst := make([]byte, 4)
	sink := NewSink(dst)
	if err := sink.Append(0x5, 3); err != nil {
		t.Fatal(err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatal(err)
	}
	if sink.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", sink.Len())
	}
}

func TestAlignBytes(t *testing.T) {
	dst := make([]byte, 64)
	sink := NewSink(dst)
	if err := sink.Append(0x1, 2); err != nil {
		t.Fatal(err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := sink.AlignBytes(32); err != nil {
		t.Fatal(err)
	}
	if sink.Len()%32 != 0 {
		t.Fatalf("Len() = %d, not a multiple of 32", sink.Len())
	}
}
