package generator

import (
	"crypto/sha512"

	"filippo.io/edwards25519"
)

// Ed25519Derive computes the Solana-convention public key for a 32-byte seed
// scalar: h = SHA512(seed), c = clamp(h[0:32]), pub = c*G.
//
// Clamping is applied exactly once: filippo.io/edwards25519's
// Scalar.SetBytesWithClamping clamps the low 32 bytes of the hash and
// reduces the result, which is the clamp+reduce step Solana's derivation
// expects, and ScalarBaseMult then only multiplies — it does not clamp a
// second time.
func Ed25519Derive(seed [32]byte) [32]byte {
	h := sha512.Sum512(seed[:])

	var scalar edwards25519.Scalar
	if _, err := scalar.SetBytesWithClamping(h[:32]); err != nil {
		// SetBytesWithClamping only fails on wrong-length input; 32 bytes
		// is always supplied above.
		panic("svanity: clamp on fixed-size input failed: " + err.Error())
	}

	point := new(edwards25519.Point).ScalarBaseMult(&scalar)

	var pub [32]byte
	copy(pub[:], point.Bytes())
	return pub
}

// incrementScalar adds 1 to k treated as a 256-bit big-endian integer with
// byte 31 as the low byte, carrying toward byte 0. Wraparound past 2^256 is
// legal: the scalar simply continues from the all-zero value.
//
// This is the opposite of the usual little-endian reading of "index 0 is
// low" — preserved deliberately so golden-vector tests stay stable across
// implementations that share this convention.
func incrementScalar(k *[32]byte) {
	for i := 31; i >= 0; i-- {
		k[i]++
		if k[i] != 0 {
			return
		}
	}
}
