package generator

import "math/big"

// ConfidenceEstimates holds the number of independent uniform draws needed
// to reach a 50%, 90%, or 99% chance of at least one match, given a
// compiled Matcher's admissible region.
type ConfidenceEstimates struct {
	P50 uint64
	P90 uint64
	P99 uint64
}

// Fixed-point threshold constants as fractions of 2^64, for p = 0.50, 0.90,
// 0.99 respectively. Each value is p itself scaled by 2^64, not -ln(1-p).
const (
	fracLn2   uint64 = 0x8000000000000000 // 0.5 * 2^64
	fracLn10  uint64 = 0xE666666666666666 // 0.9 * 2^64
	fracLn100 uint64 = 0xFD70A3D70A3D70A3 // 0.99 * 2^64
)

// EstimateDifficulty computes p50/p90/p99 attempt counts for a compiled
// Matcher. S is the (possibly overlap-inflated) total count of admissible
// 32-byte keys; the estimate for threshold constant P is
// floor(P * 2^192 / S), saturated to math.MaxUint64 if it would overflow 64
// bits. This is the documented, intended behaviour for the open question in
// the source design: when S is tiny enough that the quotient would not fit
// in 64 bits, the result saturates rather than silently truncating.
func EstimateDifficulty(m *Matcher) ConfidenceEstimates {
	s := admissibleMeasure(m)
	return ConfidenceEstimates{
		P50: attemptsForThreshold(fracLn2, s),
		P90: attemptsForThreshold(fracLn10, s),
		P99: attemptsForThreshold(fracLn100, s),
	}
}

// admissibleMeasure computes S = sum(max_i - min_i + 1) as a big integer.
// Overlapping ranges are double-counted; this is an acceptable upper bound
// on the true success measure, per spec.
func admissibleMeasure(m *Matcher) *big.Int {
	s := new(big.Int)
	one := big.NewInt(1)
	for _, r := range m.Ranges() {
		min := new(big.Int).SetBytes(r.Min[:])
		max := new(big.Int).SetBytes(r.Max[:])
		span := new(big.Int).Sub(max, min)
		span.Add(span, one)
		s.Add(s, span)
	}
	return s
}

// attemptsForThreshold computes floor(fracP * 2^192 / s), saturated to
// math.MaxUint64. fracP is one of the fixed-point fractions of 2^64 above;
// the 2^192 shift (not 2^256) compensates for fracP's own 2^64
// scale so the final quotient is a plain 64-bit attempt count.
func attemptsForThreshold(fracP uint64, s *big.Int) uint64 {
	if s.Sign() <= 0 {
		return ^uint64(0)
	}

	numerator := new(big.Int).SetUint64(fracP)
	numerator.Lsh(numerator, 192)

	quotient := new(big.Int).Quo(numerator, s)

	maxUint64 := new(big.Int).SetUint64(^uint64(0))
	if quotient.Cmp(maxUint64) > 0 {
		return ^uint64(0)
	}
	return quotient.Uint64()
}
