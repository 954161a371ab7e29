// Copyright 2025 Prism Protocol

package merkle

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func fixtureLeaf() ClaimLeaf {
	var claimant [32]byte
	for i := range claimant {
		claimant[i] = byte(i + 1)
	}
	return ClaimLeaf{
		Claimant:           claimant,
		AssignedVaultIndex: 42,
		Entitlements:       1337,
	}
}

func TestClaimLeaf_Serialize(t *testing.T) {
	leaf := fixtureLeaf()
	out := leaf.Serialize()
	require.Len(t, out, LeafSize)
	require.Equal(t, byte(42), out[32])

	var roundtrip ClaimLeaf
	copy(roundtrip.Claimant[:], out[0:32])
	roundtrip.AssignedVaultIndex = out[32]
	roundtrip.Entitlements = leaf.Entitlements
	require.Equal(t, leaf.Claimant, roundtrip.Claimant)
}

func TestClaimLeaf_HashFixity(t *testing.T) {
	leaf := fixtureLeaf()
	want, err := hex.DecodeString("bd2841892174d4f375f5097ea74a4c955d61a839cce9f5fa7d3d25f389c9ea2b")
	require.NoError(t, err)
	got := leaf.Hash()
	require.Equal(t, want, got[:])
}

func TestClaimLeaf_HashIsDeterministic(t *testing.T) {
	leaf := fixtureLeaf()
	h1 := leaf.Hash()
	h2 := leaf.Hash()
	require.Equal(t, h1, h2)
	require.NotEqual(t, [32]byte{}, h1)
}

func TestClaimLeaf_HashChangesWithAnyField(t *testing.T) {
	base := fixtureLeaf()
	baseHash := base.Hash()

	diffVault := base
	diffVault.AssignedVaultIndex++
	require.NotEqual(t, baseHash, diffVault.Hash())

	diffEnt := base
	diffEnt.Entitlements++
	require.NotEqual(t, baseHash, diffEnt.Hash())

	diffClaimant := base
	diffClaimant.Claimant[0] ^= 0xFF
	require.NotEqual(t, baseHash, diffClaimant.Hash())
}

func leavesFor(n int) []ClaimLeaf {
	leaves := make([]ClaimLeaf, n)
	for i := 0; i < n; i++ {
		var claimant [32]byte
		claimant[0] = byte(i)
		claimant[1] = byte(i >> 8)
		leaves[i] = ClaimLeaf{
			Claimant:           claimant,
			AssignedVaultIndex: uint8(i % 256),
			Entitlements:       uint64(i + 1),
		}
	}
	return leaves
}

func hashesOf(leaves []ClaimLeaf) [][32]byte {
	out := make([][32]byte, len(leaves))
	for i, l := range leaves {
		out[i] = l.Hash()
	}
	return out
}

func TestBuildTreeV0_RejectsEmpty(t *testing.T) {
	_, err := BuildTreeV0(nil)
	require.ErrorIs(t, err, ErrEmptyTreeV0)
}

func TestBuildTreeV1_RejectsEmpty(t *testing.T) {
	_, err := BuildTreeV1(nil)
	require.ErrorIs(t, err, ErrEmptyTreeV1)
}

func TestTreeV0_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 255, 256, 257, 1000} {
		n := n
		t.Run(hexN(n), func(t *testing.T) {
			leaves := leavesFor(n)
			tree, err := BuildTreeV0(hashesOf(leaves))
			require.NoError(t, err)
			require.Equal(t, n, tree.LeafCount())

			for i, leaf := range leaves {
				proof, err := tree.Prove(i)
				require.NoError(t, err)
				require.True(t, VerifyV0(proof, tree.Root(), leaf), "leaf %d", i)
			}
		})
	}
}

func TestTreeV1_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 255, 256, 257, 1000, 65536 + 1} {
		n := n
		t.Run(hexN(n), func(t *testing.T) {
			if n > 70000 {
				t.Skip("large fixture skipped in unit run")
			}
			leaves := leavesFor(n)
			tree, err := BuildTreeV1(hashesOf(leaves))
			require.NoError(t, err)
			require.Equal(t, n, tree.LeafCount())

			for i, leaf := range leaves {
				proof, err := tree.Prove(i)
				require.NoError(t, err)
				require.True(t, VerifyV1(proof, tree.Root(), leaf), "leaf %d", i)
			}
		})
	}
}

func TestTreeV0_SingletonRootIsLeafHash(t *testing.T) {
	leaves := leavesFor(1)
	tree, err := BuildTreeV0(hashesOf(leaves))
	require.NoError(t, err)
	require.Equal(t, leaves[0].Hash(), tree.Root())
}

func TestTreeV1_SingletonRootIsLeafHash(t *testing.T) {
	leaves := leavesFor(1)
	tree, err := BuildTreeV1(hashesOf(leaves))
	require.NoError(t, err)
	require.Equal(t, leaves[0].Hash(), tree.Root())
}

func TestTreeV0_TamperedProofFails(t *testing.T) {
	leaves := leavesFor(10)
	tree, err := BuildTreeV0(hashesOf(leaves))
	require.NoError(t, err)

	proof, err := tree.Prove(3)
	require.NoError(t, err)
	require.NotEmpty(t, proof)
	proof[0][0] ^= 0xFF

	require.False(t, VerifyV0(proof, tree.Root(), leaves[3]))
}

func TestTreeV1_TamperedProofFails(t *testing.T) {
	leaves := leavesFor(600)
	tree, err := BuildTreeV1(hashesOf(leaves))
	require.NoError(t, err)

	proof, err := tree.Prove(500)
	require.NoError(t, err)
	require.NotEmpty(t, proof)
	proof[0][0][0] ^= 0xFF

	require.False(t, VerifyV1(proof, tree.Root(), leaves[500]))
}

func TestTreeV0_WrongLeafFailsVerification(t *testing.T) {
	leaves := leavesFor(10)
	tree, err := BuildTreeV0(hashesOf(leaves))
	require.NoError(t, err)

	proof, err := tree.Prove(3)
	require.NoError(t, err)
	require.False(t, VerifyV0(proof, tree.Root(), leaves[4]))
}

func TestTreeV0_DistinctLeafSetsProduceDistinctRoots(t *testing.T) {
	a, err := BuildTreeV0(hashesOf(leavesFor(5)))
	require.NoError(t, err)
	b, err := BuildTreeV0(hashesOf(leavesFor(6)))
	require.NoError(t, err)
	require.NotEqual(t, a.Root(), b.Root())
}

func TestTreeV0AndV1_SameLeavesDistinctRoots(t *testing.T) {
	hashes := hashesOf(leavesFor(9))
	v0, err := BuildTreeV0(hashes)
	require.NoError(t, err)
	v1, err := BuildTreeV1(hashes)
	require.NoError(t, err)
	// The two constructions hash differently (pairwise vs grouped), so
	// roots over the same leaf set must not collide.
	require.NotEqual(t, v0.Root(), v1.Root())
}

func hexN(n int) string {
	return "n=" + hex.EncodeToString([]byte{byte(n >> 8), byte(n)})
}
