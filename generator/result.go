package generator

// Result is a single confirmed match: the 32-byte private scalar and the
// Base58 address it derives to. Mirrors spec's "(private key, public key,
// address) triple" — the public key is recoverable from PrivateKey via
// Ed25519Derive, so it is not carried separately.
type Result struct {
	PrivateKey [32]byte
	Address    string
}
