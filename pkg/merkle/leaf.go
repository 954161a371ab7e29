// Copyright 2025 Prism Protocol
//
// Claim leaf codec — the protocol-committed unit hashed into both merkle
// tree constructions. The serialization layout and hash scheme are
// byte-exact protocol commitments: any drift silently invalidates every
// previously generated proof.

package merkle

import (
	"crypto/sha256"
	"encoding/binary"
)

// LeafSize is the exact serialized size of a ClaimLeaf: 32 bytes of
// claimant + 1 byte vault index + 8 bytes little-endian entitlements.
const LeafSize = 41

const (
	leafTag     byte = 0x00
	internalTag byte = 0x01
)

// ClaimLeaf is the 41-byte canonical record committed to a cohort's merkle
// tree. Field order and size are immutable post-deployment.
type ClaimLeaf struct {
	Claimant            [32]byte
	AssignedVaultIndex  uint8
	Entitlements        uint64
}

// Serialize produces the canonical 41-byte encoding:
// claimant (32B) || vault_index (1B) || entitlements (8B little-endian).
func (l ClaimLeaf) Serialize() [LeafSize]byte {
	var out [LeafSize]byte
	copy(out[0:32], l.Claimant[:])
	out[32] = l.AssignedVaultIndex
	binary.LittleEndian.PutUint64(out[33:41], l.Entitlements)
	return out
}

// Hash returns SHA256(0x00 || canonical_bytes), the leaf hash used as the
// tree's base input. The 0x00 prefix domain-separates leaf hashes from
// internal node hashes (tag 0x01, see tree_v0.go and tree_v1.go).
func (l ClaimLeaf) Hash() [32]byte {
	serialized := l.Serialize()
	buf := make([]byte, 1+LeafSize)
	buf[0] = leafTag
	copy(buf[1:], serialized[:])
	return sha256.Sum256(buf)
}
