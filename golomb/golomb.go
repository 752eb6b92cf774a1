// Package golomb implements a Golomb entropy coder for signed integers: a
// unary-coded quotient followed by a truncated-binary remainder, under a
// configurable divisor m and sign mapping. It is the entropy stage that
// package imagecodec builds its predictive image codec on top of.
package golomb

import (
	"errors"
	"fmt"

	"golompress/internal/bitio"
)

// ErrInvalidParameter is returned when m is zero at construction or
// reassignment.
var ErrInvalidParameter = errors.New("golomb: invalid parameter")

// ErrMalformed is returned when a bit sequence ends inside a codeword, or a
// truncated-binary remainder decodes out of range.
var ErrMalformed = errors.New("golomb: malformed bit sequence")

// Coder encodes and decodes signed integers under a divisor m and a sign
// mapping mode. A Coder is not safe for concurrent use by multiple
// goroutines, since SetM mutates derived fields in place; two independent
// Coder values may be used concurrently without coordination.
type Coder struct {
	m    uint64
	mode SignMode
	b    uint   // ceil(log2(m)); derived, recomputed by SetM
	t    uint64 // 2^b - m; derived, recomputed by SetM
}

// New constructs a Coder with the given divisor and sign mapping. It fails
// with ErrInvalidParameter if m is zero.
func New(m uint64, mode SignMode) (*Coder, error) {
	c := &Coder{}
	if err := c.SetM(m); err != nil {
		return nil, err
	}
	c.mode = mode
	return c, nil
}

// M returns the current divisor.
func (c *Coder) M() uint64 { return c.m }

// Mode returns the current sign mapping.
func (c *Coder) Mode() SignMode { return c.mode }

// SetM reassigns the divisor. Per the design notes, b and t are recomputed
// eagerly here rather than lazily on the next encode/decode, so there is no
// observable "stale parameters" state between calls.
func (c *Coder) SetM(m uint64) error {
	if m == 0 {
		return fmt.Errorf("m must be >= 1: %w", ErrInvalidParameter)
	}
	c.m = m
	c.b, c.t = deriveParams(m)
	return nil
}

// deriveParams computes b = ceil(log2(m)) and t = 2^b - m, with the m=1
// edge case (b=0, t=1, remainder phase empty) taken verbatim from the
// design notes rather than falling out of the general formula.
func deriveParams(m uint64) (b uint, t uint64) {
	if m == 1 {
		return 0, 1
	}
	for (uint64(1) << b) < m {
		b++
	}
	t = (uint64(1) << b) - m
	return b, t
}

// Encode returns a freshly allocated bit sequence for value.
func (c *Coder) Encode(value int64) *bitio.Bits {
	bits := bitio.NewBits(8)
	c.EncodeTo(value, bits)
	return bits
}

// EncodeTo appends the codeword for value to sink. Its output is identical
// to appending the result of Encode(value).
func (c *Coder) EncodeTo(value int64, sink *bitio.Bits) {
	n := mapSign(c.mode, value)
	q := n / c.m
	r := n % c.m

	for i := uint64(0); i < q; i++ {
		sink.AppendBit(true)
	}
	sink.AppendBit(false)

	if c.b == 0 {
		return
	}
	if r < c.t {
		sink.AppendBits(r, int(c.b-1))
	} else {
		sink.AppendBits(r+c.t, int(c.b))
	}
}

// Decode reads one symbol starting at bit index pos. It returns the decoded
// value and the number of bits consumed. It fails with ErrMalformed if the
// bit sequence ends inside the unary quotient or the remainder.
func (c *Coder) Decode(bits *bitio.Bits, pos int) (value int64, bitsConsumed int, err error) {
	start := pos

	var q uint64
	for {
		bit, ok := bits.At(pos)
		if !ok {
			return 0, 0, fmt.Errorf("truncated unary quotient: %w", ErrMalformed)
		}
		pos++
		if !bit {
			break
		}
		q++
	}

	var r uint64
	if c.b > 0 {
		rPrime, ok := readBits(bits, pos, c.b-1)
		if !ok {
			return 0, 0, fmt.Errorf("truncated remainder: %w", ErrMalformed)
		}
		pos += int(c.b - 1)

		if rPrime < c.t {
			r = rPrime
		} else {
			extra, ok := bits.At(pos)
			if !ok {
				return 0, 0, fmt.Errorf("truncated remainder: %w", ErrMalformed)
			}
			pos++
			extraBit := uint64(0)
			if extra {
				extraBit = 1
			}
			r = 2*rPrime + extraBit - c.t
		}
	}

	n := q*c.m + r
	return unmapSign(c.mode, n), pos - start, nil
}

// readBits reads width bits starting at pos, most-significant bit first.
func readBits(bits *bitio.Bits, pos int, width uint) (uint64, bool) {
	var v uint64
	for i := uint(0); i < width; i++ {
		bit, ok := bits.At(pos)
		if !ok {
			return 0, false
		}
		pos++
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v, true
}

// BitsToString renders a bit sequence as a lossless '0'/'1' string, for
// diagnostics.
func BitsToString(bits *bitio.Bits) string {
	return bits.String()
}
