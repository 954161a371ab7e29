// Copyright 2025 Prism Protocol
//
// Wire serialization for merkle proofs (spec.md §6, IMMUTABLE). V0 is a
// flat sequence of 32-byte hashes; V1 is a sequence of levels, each a
// length-prefixed (u32 little-endian element count) sequence of 32-byte
// hashes, following the ambient borsh-style length-prefix convention.

package merkle

import (
	"encoding/binary"
	"fmt"
)

// SerializeProofV0 encodes proof as a flat concatenation of its 32-byte
// sibling hashes.
func SerializeProofV0(proof ProofV0) []byte {
	out := make([]byte, 0, len(proof)*32)
	for _, h := range proof {
		out = append(out, h[:]...)
	}
	return out
}

// DeserializeProofV0 decodes a flat concatenation of 32-byte hashes
// produced by SerializeProofV0.
func DeserializeProofV0(b []byte) (ProofV0, error) {
	if len(b)%32 != 0 {
		return nil, fmt.Errorf("merkle: v0 proof bytes length %d is not a multiple of 32", len(b))
	}
	proof := make(ProofV0, len(b)/32)
	for i := range proof {
		copy(proof[i][:], b[i*32:(i+1)*32])
	}
	return proof, nil
}

// SerializeProofV1 encodes proof as a sequence of levels: each level is a
// u32 little-endian sibling count followed by that many 32-byte hashes.
func SerializeProofV1(proof ProofV1) []byte {
	out := make([]byte, 0)
	for _, level := range proof {
		var count [4]byte
		binary.LittleEndian.PutUint32(count[:], uint32(len(level)))
		out = append(out, count[:]...)
		for _, h := range level {
			out = append(out, h[:]...)
		}
	}
	return out
}

// DeserializeProofV1 decodes bytes produced by SerializeProofV1.
func DeserializeProofV1(b []byte) (ProofV1, error) {
	var proof ProofV1
	for len(b) > 0 {
		if len(b) < 4 {
			return nil, fmt.Errorf("merkle: v1 proof truncated reading level length prefix")
		}
		count := binary.LittleEndian.Uint32(b[:4])
		b = b[4:]
		need := int(count) * 32
		if len(b) < need {
			return nil, fmt.Errorf("merkle: v1 proof truncated reading %d sibling hashes", count)
		}
		level := make(LevelProof, count)
		for i := range level {
			copy(level[i][:], b[i*32:(i+1)*32])
		}
		proof = append(proof, level)
		b = b[need:]
	}
	return proof, nil
}
