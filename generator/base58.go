package generator

import "github.com/mr-tron/base58"

// encodeBase58Address renders a 32-byte public key as its Base58 address
// string, the textual form compared against the user's prefix.
func encodeBase58Address(pub [32]byte) string {
	return base58.Encode(pub[:])
}

// EncodeBase58ForDisplay exposes the same encoding for range endpoints,
// which are not real public keys but need the identical textual rendering
// when the coordinator prints a search plan.
func EncodeBase58ForDisplay(b [32]byte) string {
	return base58.Encode(b[:])
}
