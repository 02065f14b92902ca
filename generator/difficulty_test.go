package generator

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateDifficulty_Ordering(t *testing.T) {
	m, err := CompileMatcher("abc")
	require.NoError(t, err)

	est := EstimateDifficulty(m)
	assert.Less(t, est.P50, est.P90, "p50 should need fewer attempts than p90")
	assert.Less(t, est.P90, est.P99, "p90 should need fewer attempts than p99")
}

func TestEstimateDifficulty_ShorterPrefixIsEasier(t *testing.T) {
	short, err := CompileMatcher("a")
	require.NoError(t, err)
	long, err := CompileMatcher("abcdef")
	require.NoError(t, err)

	shortEst := EstimateDifficulty(short)
	longEst := EstimateDifficulty(long)
	assert.Less(t, shortEst.P50, longEst.P50, "a shorter prefix should need fewer expected attempts")
}

// TestAttemptsForThreshold_Saturates resolves the open question in the
// design: when S is small enough that the fixed-point quotient would
// overflow 64 bits, the result saturates to math.MaxUint64 rather than
// silently truncating.
func TestAttemptsForThreshold_Saturates(t *testing.T) {
	tiny := big.NewInt(1) // smallest possible positive measure
	got := attemptsForThreshold(fracLn2, tiny)
	assert.Equal(t, uint64(math.MaxUint64), got)
}

func TestAttemptsForThreshold_FullSpaceIsAtMostOne(t *testing.T) {
	full := new(big.Int).Lsh(big.NewInt(1), 256) // S = 2^256, the whole space
	got := attemptsForThreshold(fracLn2, full)
	assert.LessOrEqual(t, got, uint64(1))
}

func TestAttemptsForThreshold_ZeroMeasureSaturates(t *testing.T) {
	zero := big.NewInt(0)
	got := attemptsForThreshold(fracLn2, zero)
	assert.Equal(t, uint64(math.MaxUint64), got)
}
