// Copyright 2025 Prism Protocol
//
// 256-ary merkle tree (V1). Shortens tree depth from log2(L) to
// log256(L), trading a wider per-level hash input for fewer levels in
// the claim hot path. Domain separation (0x00/0x01) is retained; children
// within a node are hashed in SORTED order so verification is independent
// of the prover's emission order.

package merkle

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"sort"
)

// GroupSize is the maximum number of children per internal node.
const GroupSize = 256

var (
	// ErrEmptyTreeV1 is returned when building a tree from zero leaves.
	ErrEmptyTreeV1 = errors.New("merkle: cannot build v1 tree from zero leaves")
)

// TreeV1 is a 256-ary merkle tree over 32-byte leaf hashes.
type TreeV1 struct {
	levels [][][32]byte
	root   [32]byte
}

func sortHashes(hashes [][32]byte) [][32]byte {
	sorted := make([][32]byte, len(hashes))
	copy(sorted, hashes)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})
	return sorted
}

func hashGroupV1(children [][32]byte) [32]byte {
	sorted := sortHashes(children)
	buf := make([]byte, 1, 1+len(sorted)*32)
	buf[0] = internalTag
	for _, h := range sorted {
		buf = append(buf, h[:]...)
	}
	return sha256.Sum256(buf)
}

// BuildTreeV1 constructs a 256-ary merkle tree from leaf hashes.
func BuildTreeV1(leafHashes [][32]byte) (*TreeV1, error) {
	if len(leafHashes) == 0 {
		return nil, ErrEmptyTreeV1
	}

	level := make([][32]byte, len(leafHashes))
	copy(level, leafHashes)

	levels := [][][32]byte{level}

	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+GroupSize-1)/GroupSize)
		for i := 0; i < len(level); i += GroupSize {
			end := i + GroupSize
			if end > len(level) {
				end = len(level)
			}
			next = append(next, hashGroupV1(level[i:end]))
		}
		levels = append(levels, next)
		level = next
	}

	return &TreeV1{levels: levels, root: level[0]}, nil
}

// Root returns the tree's root hash.
func (t *TreeV1) Root() [32]byte {
	return t.root
}

// LeafCount returns the number of leaves the tree was built from.
func (t *TreeV1) LeafCount() int {
	return len(t.levels[0])
}

// LevelProof is the sibling set for one level of a V1 authentication
// path: every hash in the node's chunk except the one on the path.
type LevelProof [][32]byte

// ProofV1 is an ordered sequence of level proofs, leaf to root. Empty for
// a singleton tree.
type ProofV1 []LevelProof

// Prove generates the inclusion proof for the leaf at leafIndex.
func (t *TreeV1) Prove(leafIndex int) (ProofV1, error) {
	if leafIndex < 0 || leafIndex >= len(t.levels[0]) {
		return nil, errors.New("merkle: v1 leaf index out of range")
	}

	proof := make(ProofV1, 0, len(t.levels)-1)
	idx := leafIndex
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		chunkStart := (idx / GroupSize) * GroupSize
		chunkEnd := chunkStart + GroupSize
		if chunkEnd > len(nodes) {
			chunkEnd = len(nodes)
		}
		positionInChunk := idx - chunkStart

		siblings := make(LevelProof, 0, chunkEnd-chunkStart-1)
		for i := chunkStart; i < chunkEnd; i++ {
			if i-chunkStart == positionInChunk {
				continue
			}
			siblings = append(siblings, nodes[i])
		}
		proof = append(proof, siblings)
		idx = idx / GroupSize
	}
	return proof, nil
}

// VerifyV1 recomputes the root from leaf and proof and reports whether it
// matches the provided root.
func VerifyV1(proof ProofV1, root [32]byte, leaf ClaimLeaf) bool {
	h := leaf.Hash()
	for _, siblings := range proof {
		bucket := make([][32]byte, 0, len(siblings)+1)
		bucket = append(bucket, h)
		bucket = append(bucket, siblings...)
		h = hashGroupV1(bucket)
	}
	return subtle.ConstantTimeCompare(h[:], root[:]) == 1
}
