// Copyright 2025 Prism Protocol
//
// Package assign derives which vault a claimant draws from inside a
// cohort. The mapping is pure and stateless: given a claimant and a
// vault count, every compiler run and every on-chain verification must
// land on the same vault index, independent of tree version.
package assign

import (
	"crypto/sha256"
	"encoding/binary"
)

// Assign deterministically maps a claimant to a vault index in
// [0, vaultCount). vaultCount must be greater than zero; callers that
// cannot guarantee this should check before calling.
//
// Order of operations is a protocol commitment (spec §4.4/§9): the u64
// seed is truncated to its low byte FIRST, and only then reduced modulo
// vaultCount. This is NOT equivalent to `seed % vaultCount` — truncating
// first discards entropy above the u8 range and biases the result
// slightly for non-power-of-two vaultCount, but V0 and V1 must agree
// byte-for-byte, so the truncation step may never be "fixed" to a full
// u64 modulo.
func Assign(claimant [32]byte, vaultCount uint8) uint8 {
	sum := sha256.Sum256(claimant[:])
	seed := binary.LittleEndian.Uint64(sum[:8])
	truncated := uint8(seed)
	return truncated % vaultCount
}
