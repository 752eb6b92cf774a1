package bitio

import "testing"

func TestAppendBitAndAt(t *testing.T) {
	b := NewBits(0)
	pattern := []bool{true, false, true, true, false, false, true}
	for _, bit := range pattern {
		b.AppendBit(bit)
	}
	if b.Len() != len(pattern) {
		t.Fatalf("Len() = %d, want %d", b.Len(), len(pattern))
	}
	for i, want := range pattern {
		got, ok := b.At(i)
		if !ok {
			t.Fatalf("At(%d) out of range", i)
		}
		if got != want {
			t.Errorf("At(%d) = %v, want %v", i, got, want)
		}
	}
	if _, ok := b.At(len(pattern)); ok {
		t.Errorf("At(%d) should be out of range", len(pattern))
	}
}

func TestAppendBits(t *testing.T) {
	for _, tc := range []struct {
		name  string
		value uint64
		width int
		want  string
	}{
		{"zero width", 0, 0, ""},
		{"single one", 1, 1, "1"},
		{"nibble", 0b1011, 4, "1011"},
		{"wide value truncated to width", 0b1_1011, 4, "1011"},
		{"sixteen bits", 0x00FF, 16, "0000000011111111"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBits(0)
			b.AppendBits(tc.value, tc.width)
			if got := b.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAppend(t *testing.T) {
	a := NewBits(0)
	a.AppendBits(0b101, 3)
	c := NewBits(0)
	c.AppendBits(0b11, 2)

	a.Append(c)
	if got, want := a.String(), "10111"; got != want {
		t.Errorf("Append() = %q, want %q", got, want)
	}
}

func TestFromBytes(t *testing.T) {
	// 0xB4 = 1011 0100
	b := FromBytes([]byte{0xB4}, 6)
	if got, want := b.String(), "101101"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if b.Len() != 6 {
		t.Errorf("Len() = %d, want 6", b.Len())
	}
}

func TestBytesRoundTrip(t *testing.T) {
	b := NewBits(0)
	for _, bit := range []bool{true, false, true, false, true, false, true, false, true} {
		b.AppendBit(bit)
	}
	packed := b.Bytes()
	if len(packed) != 2 {
		t.Fatalf("len(Bytes()) = %d, want 2", len(packed))
	}
	if packed[0] != 0b10101010 {
		t.Errorf("packed[0] = %08b, want 10101010", packed[0])
	}
	// Trailing bits of the final byte must be zero.
	if packed[1]&0b01111111 != 0 {
		t.Errorf("packed[1] trailing bits not zero: %08b", packed[1])
	}
}
