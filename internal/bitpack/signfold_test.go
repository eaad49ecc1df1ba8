package bitpack

import "testing"

func TestToUnsigned(t *testing.T) {
	golden := []struct {
		x    int8
		want uint8
	}{
		{x: 0, want: 0},
		{x: 1, want: 2},
		{x: -1, want: 1},
		{x: 2, want: 4},
		{x: -2, want: 3},
		{x: 127, want: 254},
		{x: -128, want: 255},
	}
	for _, g := range golden {
		got := ToUnsigned(g.x)
		if g.want != got {
			t.Errorf("result mismatch of ToUnsigned(x=%d); expected %d, got %d", g.x, g.want, got)
		}
	}
}

func TestToSigned(t *testing.T) {
	golden := []struct {
		u    uint8
		want int8
	}{
		{u: 0, want: 0},
		{u: 2, want: 1},
		{u: 1, want: -1},
		{u: 4, want: 2},
		{u: 3, want: -2},
		{u: 254, want: 127},
		{u: 255, want: -128},
	}
	for _, g := range golden {
		got := ToSigned(g.u)
		if g.want != got {
			t.Errorf("result mismatch of ToSigned(u=%d); expected %d, got %d", g.u, g.want, got)
		}
	}
}

func TestSignFoldRoundTrip(t *testing.T) {
	for x := -128; x <= 127; x++ {
		got := ToSigned(ToUnsigned(int8(x)))
		if int(got) != x {
			t.Errorf("ToSigned(ToUnsigned(%d)) = %d, want %d", x, got, x)
		}
	}
	for u := 0; u <= 255; u++ {
		got := ToUnsigned(ToSigned(uint8(u)))
		if int(got) != u {
			t.Errorf("ToUnsigned(ToSigned(%d)) = %d, want %d", u, got, u)
		}
	}
}
