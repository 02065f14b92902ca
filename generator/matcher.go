// Package generator implements the parallel vanity-address search engine:
// the prefix range compiler, the range matcher, the difficulty estimator,
// the CPU and GPU search workers, and the coordinator that ties them
// together.
package generator

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// ErrInvalidPrefix is returned when a Base58 prefix admits no representable
// 32-byte range at any encoded length.
var ErrInvalidPrefix = errors.New("svanity: prefix does not admit a valid 32-byte range")

// minAddressLen/maxAddressLen bound the Base58 length of a Solana address depending on
// how many leading zero bytes the 32-byte key has.
const (
	minAddressLen = 32
	maxAddressLen = 44
)

// PubkeyRange is an inclusive, big-endian-compared range of 32-byte public
// keys: Min <= k <= Max under unsigned lexicographic byte order.
type PubkeyRange struct {
	Min [32]byte
	Max [32]byte
}

// Matcher is a compiled, immutable set of PubkeyRange covering every 32-byte
// value whose Base58 encoding begins with a given prefix, across every
// length the prefix admits. It is safe for concurrent read-only use by any
// number of workers.
type Matcher struct {
	prefix string
	ranges []PubkeyRange
}

// CompileMatcher turns a Base58 prefix into a Matcher. It fails with
// ErrInvalidPrefix if no candidate length produces a representable 32-byte
// range.
//
// For every target length L in [max(len(prefix), 32), 44], the prefix is
// padded on the right with the smallest Base58 digit ('1', value 0) to form
// the range floor, and with the largest ('z', value 57) to form the range
// ceiling, then both are decoded. '1' is chosen because it is the digit
// with the smallest place value, and 'z' the largest, so the two padded
// strings span the entire tail space at that length. Lengths whose decoded
// value needs more than 32 bytes are skipped as overflow.
func CompileMatcher(prefix string) (*Matcher, error) {
	if prefix == "" {
		return &Matcher{
			prefix: prefix,
			ranges: []PubkeyRange{{
				Min: [32]byte{},
				Max: [32]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			}},
		}, nil
	}

	startLen := len(prefix)
	if startLen < minAddressLen {
		startLen = minAddressLen
	}

	var ranges []PubkeyRange
	for l := startLen; l <= maxAddressLen; l++ {
		pad := l - len(prefix)
		minStr := prefix + repeatByte('1', pad)
		maxStr := prefix + repeatByte('z', pad)

		min, ok := decodeFixed32(minStr)
		if !ok {
			continue
		}
		max, ok := decodeFixed32(maxStr)
		if !ok {
			continue
		}
		ranges = append(ranges, PubkeyRange{Min: min, Max: max})
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}

	return &Matcher{prefix: prefix, ranges: ranges}, nil
}

// Prefix returns the Base58 prefix this matcher was compiled from.
func (m *Matcher) Prefix() string { return m.prefix }

// Ranges returns the compiled range list. The slice must not be mutated.
func (m *Matcher) Ranges() []PubkeyRange { return m.ranges }

// Matches reports whether pub falls inside any compiled range. It is
// branch-light, allocation-free, and safe for concurrent use — this is the
// hot-path check performed once per derived key on the CPU search path.
func (m *Matcher) Matches(pub [32]byte) bool {
	for i := range m.ranges {
		if within(pub, m.ranges[i].Min, m.ranges[i].Max) {
			return true
		}
	}
	return false
}

// within reports whether min <= k <= max under unsigned big-endian byte
// order, equivalent to a two-sided memcmp.
func within(k, min, max [32]byte) bool {
	for i := 0; i < 32; i++ {
		if k[i] < min[i] {
			return false
		}
		if k[i] > min[i] {
			break
		}
	}
	for i := 0; i < 32; i++ {
		if k[i] > max[i] {
			return false
		}
		if k[i] < max[i] {
			break
		}
	}
	return true
}

// decodeFixed32 decodes s as Base58 and reports whether the result fits in
// exactly 32 bytes once left-padded with zeros. A decode that needs more
// than 32 bytes is overflow for this length and is rejected.
func decodeFixed32(s string) ([32]byte, bool) {
	var out [32]byte
	decoded, err := base58.Decode(s)
	if err != nil {
		return out, false
	}
	if len(decoded) > 32 {
		return out, false
	}
	copy(out[32-len(decoded):], decoded)
	return out, true
}

func repeatByte(b byte, n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}
	return string(buf)
}
