package generator

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEd25519Derive_KnownAnswerVector pins the derivation against RFC 8032's
// first Ed25519 test vector, which uses the same SHA-512 + clamp +
// scalar-base-mult construction Solana keypairs rely on. A mismatch here
// means the derivation has drifted from the standard, not just from itself.
func TestEd25519Derive_KnownAnswerVector(t *testing.T) {
	seedHex := "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bab56bb0b9d2"
	wantPubHex := "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511"

	seedBytes, err := hex.DecodeString(seedHex)
	require.NoError(t, err)
	var seed [32]byte
	copy(seed[:], seedBytes)

	got := Ed25519Derive(seed)
	assert.Equal(t, wantPubHex, hex.EncodeToString(got[:]))
}

func TestEd25519Derive_Deterministic(t *testing.T) {
	seed := [32]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	a := Ed25519Derive(seed)
	b := Ed25519Derive(seed)
	assert.Equal(t, a, b)
}

func TestEd25519Derive_DifferentSeedsDifferentKeys(t *testing.T) {
	seed1 := [32]byte{1}
	seed2 := [32]byte{2}
	assert.NotEqual(t, Ed25519Derive(seed1), Ed25519Derive(seed2))
}

func TestIncrementScalar_CarriesFromByte31(t *testing.T) {
	k := [32]byte{}
	k[31] = 0xFF
	incrementScalar(&k)
	assert.Equal(t, byte(0), k[31])
	assert.Equal(t, byte(1), k[30])
}

func TestIncrementScalar_WrapsAtTop(t *testing.T) {
	var k [32]byte
	for i := range k {
		k[i] = 0xFF
	}
	incrementScalar(&k)
	assert.Equal(t, [32]byte{}, k, "wraparound past 2^256 continues from zero")
}

func TestIncrementScalar_SimpleCase(t *testing.T) {
	var k [32]byte
	incrementScalar(&k)
	var want [32]byte
	want[31] = 1
	assert.Equal(t, want, k)
}
