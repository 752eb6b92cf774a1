package imagecodec

import (
	"fmt"

	"golompress/internal/bitio"
)

// header holds the decoded fields of the fixed 64-bit frame header (§6 of
// SPEC_FULL.md): width, height, m, and predictor id. Reserved bits are
// validated on read and never stored.
type header struct {
	width     uint16
	height    uint16
	m         uint16
	predictor Predictor
}

// writeHeader appends the 64-bit header to out: width, height, and m as
// 16-bit big-endian fields, a 4-bit predictor id, and 12 reserved bits,
// which are always written as zero.
func writeHeader(out *bitio.Bits, width, height int, m uint64, predictor Predictor) {
	out.AppendBits(uint64(width), 16)
	out.AppendBits(uint64(height), 16)
	out.AppendBits(m, 16)
	out.AppendBits(uint64(predictor), 4)
	out.AppendBits(0, 12)
}

// readHeader reads and validates the 64-bit header starting at bit 0. It
// fails with ErrMalformed if the stream is too short, the reserved bits are
// non-zero (per the REDESIGN FLAGS decision to validate rather than ignore
// them), or the predictor id names no known predictor.
func readHeader(bits *bitio.Bits) (header, error) {
	if bits.Len() < headerBits {
		return header{}, fmt.Errorf("imagecodec: stream has %d bits, header needs %d: %w", bits.Len(), headerBits, ErrMalformed)
	}

	width := readField(bits, 0, 16)
	height := readField(bits, 16, 16)
	m := readField(bits, 32, 16)
	predictorID := readField(bits, 48, 4)
	reserved := readField(bits, 52, 12)

	if reserved != 0 {
		return header{}, fmt.Errorf("imagecodec: reserved header bits are non-zero (%d): %w", reserved, ErrMalformed)
	}

	predictor := Predictor(predictorID)
	if !predictor.valid() {
		return header{}, fmt.Errorf("imagecodec: unknown predictor id %d: %w", predictorID, ErrMalformed)
	}

	return header{
		width:     uint16(width),
		height:    uint16(height),
		m:         uint16(m),
		predictor: predictor,
	}, nil
}

// PeekShape reads just enough of an encoded stream to report the width and
// height recorded in its header, without decoding any residuals. Callers
// that only have a raw stream (a CLI reading a .golz file, say) use this to
// learn the dimensions to pass back into Decode.
func PeekShape(bits *bitio.Bits) (width, height int, err error) {
	hdr, err := readHeader(bits)
	if err != nil {
		return 0, 0, err
	}
	return int(hdr.width), int(hdr.height), nil
}

func readField(bits *bitio.Bits, pos, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		bit, _ := bits.At(pos + i)
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v
}
