package imagecodec

import "math"

// estimateM picks the Golomb divisor from a sequence of residuals. It is a
// pure function, independently testable from the encode/decode pipeline.
//
// Residuals of a good predictor are approximately two-sided geometric; p
// estimates the probability mass at zero of the folded distribution, and
// the formula below is the MLE for the Golomb parameter under that model.
func estimateM(residuals []int) uint64 {
	if len(residuals) == 0 {
		return 8
	}

	sum := 0.0
	for _, r := range residuals {
		sum += math.Abs(float64(r))
	}
	mean := sum / float64(len(residuals))

	if mean < 1e-10 {
		return 1
	}

	p := 1.0 / (mean + 1.0)
	mStar := -1.0 / math.Log2(1.0-p)

	m := roundHalfAwayFromZero(mStar)
	if m < 1 {
		m = 1
	}
	return uint64(m)
}

// roundHalfAwayFromZero rounds x to the nearest integer, rounding halves
// away from zero rather than to even (Go's math.Round already does this,
// but the name documents the choice the spec calls for explicitly).
func roundHalfAwayFromZero(x float64) int64 {
	return int64(math.Round(x))
}
