// Copyright 2025 Prism Protocol

package program

import (
	"testing"

	"github.com/prism-protocol/prism/pkg/errkind"
	"github.com/prism-protocol/prism/pkg/merkle"
	"github.com/stretchr/testify/require"
)

func addr(b byte) [32]byte {
	var a [32]byte
	a[0] = b
	return a
}

func setupActiveCampaign(t *testing.T, admin [32]byte) (*Campaign, *Cohort, *Vault) {
	t.Helper()

	campaign := &Campaign{Address: addr(0x10)}
	require.NoError(t, InitializeCampaign(campaign, admin, addr(0x20), 6, 1, addr(0x30), 255))

	cohort := &Cohort{Address: addr(0x11)}
	require.NoError(t, InitializeCohort(admin, campaign, cohort, 1, addr(0x31), 2, 254))

	vault := &Vault{Address: addr(0x12)}
	require.NoError(t, InitializeVault(admin, campaign, cohort, vault, 0, 253))
	require.NoError(t, FundVault(campaign, vault, 1000))
	require.NoError(t, ActivateVault(admin, campaign, cohort, vault, 1000))
	require.NoError(t, ActivateCohort(admin, campaign, cohort))
	require.NoError(t, ActivateCampaign(admin, campaign, addr(0x99), 100, 50))

	return campaign, cohort, vault
}

func TestLifecycle_CounterLadderMonotonic(t *testing.T) {
	admin := addr(0x01)
	campaign, cohort, vault := setupActiveCampaign(t, admin)

	require.Equal(t, StatusActive, campaign.Status)
	require.Equal(t, uint8(1), campaign.InitializedCohortCount)
	require.Equal(t, uint8(1), campaign.ActivatedCohortCount)
	require.Equal(t, uint8(1), cohort.InitializedVaultCount)
	require.Equal(t, uint8(1), cohort.ActivatedVaultCount)
	require.Equal(t, uint64(1000), vault.Balance)
}

func TestLifecycle_DisallowedTransitionLeavesCountersUnchanged(t *testing.T) {
	admin := addr(0x01)
	campaign := &Campaign{Address: addr(0x10)}
	require.NoError(t, InitializeCampaign(campaign, admin, addr(0x20), 6, 1, addr(0x30), 255))

	// Pausing an Inactive campaign must fail without mutating status.
	err := PauseCampaign(admin, campaign)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeCampaignNotActive))
	require.Equal(t, StatusInactive, campaign.Status)
}

func TestLifecycle_NonAdminRejected(t *testing.T) {
	admin := addr(0x01)
	intruder := addr(0x02)
	campaign := &Campaign{Address: addr(0x10)}
	require.NoError(t, InitializeCampaign(campaign, admin, addr(0x20), 6, 1, addr(0x30), 255))

	cohort := &Cohort{Address: addr(0x11)}
	err := InitializeCohort(intruder, campaign, cohort, 1, addr(0x31), 2, 254)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeCampaignAdminMismatch))
}

func TestLifecycle_UnstoppableBlocksPauseAndHalt(t *testing.T) {
	admin := addr(0x01)
	campaign, _, _ := setupActiveCampaign(t, admin)

	require.NoError(t, MakeUnstoppable(admin, campaign))

	err := PauseCampaign(admin, campaign)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeCampaignIsUnstoppable))

	err = PermanentlyHalt(admin, campaign)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeCampaignIsUnstoppable))
	require.Equal(t, StatusActive, campaign.Status)
}

func TestLifecycle_PauseResume(t *testing.T) {
	admin := addr(0x01)
	campaign, cohort, vault := setupActiveCampaign(t, admin)

	require.NoError(t, PauseCampaign(admin, campaign))
	require.Equal(t, StatusPaused, campaign.Status)

	claimant := addr(0x40)
	leaf := merkle.ClaimLeaf{Claimant: claimant, AssignedVaultIndex: 0, Entitlements: 1}
	tree, err := merkle.BuildTreeV0([][32]byte{leaf.Hash()})
	require.NoError(t, err)
	cohort.MerkleRoot = tree.Root()
	proof, err := tree.Prove(0)
	require.NoError(t, err)

	receipt := &ClaimReceipt{}
	_, err = ClaimV0(campaign, cohort, vault, receipt, claimant, 0, 1, proof, 100, 1000)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeCampaignNotActive))

	require.NoError(t, ResumeCampaign(admin, campaign))
	amount, err := ClaimV0(campaign, cohort, vault, receipt, claimant, 0, 1, proof, 100, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(2), amount)
}

func TestClaim_GoLiveGate(t *testing.T) {
	admin := addr(0x01)
	campaign, cohort, vault := setupActiveCampaign(t, admin)

	claimant := addr(0x40)
	leaf := merkle.ClaimLeaf{Claimant: claimant, AssignedVaultIndex: 0, Entitlements: 1}
	tree, err := merkle.BuildTreeV0([][32]byte{leaf.Hash()})
	require.NoError(t, err)
	cohort.MerkleRoot = tree.Root()
	proof, err := tree.Prove(0)
	require.NoError(t, err)

	receipt := &ClaimReceipt{}
	_, err = ClaimV0(campaign, cohort, vault, receipt, claimant, 0, 1, proof, 10, 1000)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeGoLiveDateNotReached))
	require.False(t, receipt.Initialized())

	amount, err := ClaimV0(campaign, cohort, vault, receipt, claimant, 0, 1, proof, 100, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(2), amount)
}

func TestClaim_DoubleClaimGuard(t *testing.T) {
	admin := addr(0x01)
	campaign, cohort, vault := setupActiveCampaign(t, admin)

	claimant := addr(0x40)
	leaf := merkle.ClaimLeaf{Claimant: claimant, AssignedVaultIndex: 0, Entitlements: 1}
	tree, err := merkle.BuildTreeV0([][32]byte{leaf.Hash()})
	require.NoError(t, err)
	cohort.MerkleRoot = tree.Root()
	proof, err := tree.Prove(0)
	require.NoError(t, err)

	receipt := &ClaimReceipt{}
	_, err = ClaimV0(campaign, cohort, vault, receipt, claimant, 0, 1, proof, 100, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(998), vault.Balance)

	_, err = ClaimV0(campaign, cohort, vault, receipt, claimant, 0, 1, proof, 100, 1001)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeReceiptAlreadyInitialized))
	require.Equal(t, uint64(998), vault.Balance, "vault balance must decrease exactly once")
}

func TestClaim_WrongProofRejected(t *testing.T) {
	admin := addr(0x01)
	campaign, cohort, vault := setupActiveCampaign(t, admin)

	claimant := addr(0x40)
	other := merkle.ClaimLeaf{Claimant: addr(0x41), AssignedVaultIndex: 0, Entitlements: 1}
	tree, err := merkle.BuildTreeV0([][32]byte{other.Hash()})
	require.NoError(t, err)
	cohort.MerkleRoot = tree.Root()
	proof, err := tree.Prove(0)
	require.NoError(t, err)

	receipt := &ClaimReceipt{}
	_, err = ClaimV0(campaign, cohort, vault, receipt, claimant, 0, 1, proof, 100, 1000)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeInvalidMerkleProof))
}

func TestClaim_ZeroAmountPerEntitlementRejected(t *testing.T) {
	admin := addr(0x01)
	campaign := &Campaign{Address: addr(0x10)}
	require.NoError(t, InitializeCampaign(campaign, admin, addr(0x20), 6, 1, addr(0x30), 255))

	cohort := &Cohort{Address: addr(0x11)}
	require.NoError(t, InitializeCohort(admin, campaign, cohort, 1, addr(0x31), 0, 254))

	vault := &Vault{Address: addr(0x12)}
	require.NoError(t, InitializeVault(admin, campaign, cohort, vault, 0, 253))
	require.NoError(t, ActivateVault(admin, campaign, cohort, vault, 0))
	require.NoError(t, ActivateCohort(admin, campaign, cohort))
	require.NoError(t, ActivateCampaign(admin, campaign, addr(0x99), 0, 0))

	claimant := addr(0x40)
	leaf := merkle.ClaimLeaf{Claimant: claimant, AssignedVaultIndex: 0, Entitlements: 1}
	tree, err := merkle.BuildTreeV0([][32]byte{leaf.Hash()})
	require.NoError(t, err)
	cohort.MerkleRoot = tree.Root()
	proof, err := tree.Prove(0)
	require.NoError(t, err)

	receipt := &ClaimReceipt{}
	_, err = ClaimV0(campaign, cohort, vault, receipt, claimant, 0, 1, proof, 0, 0)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeZeroAmountPerEntitlement))
}

func TestClaim_V1Variant(t *testing.T) {
	admin := addr(0x01)
	campaign, cohort, vault := setupActiveCampaign(t, admin)

	claimant := addr(0x40)
	leaf := merkle.ClaimLeaf{Claimant: claimant, AssignedVaultIndex: 0, Entitlements: 1}
	tree, err := merkle.BuildTreeV1([][32]byte{leaf.Hash()})
	require.NoError(t, err)
	cohort.MerkleRoot = tree.Root()
	proof, err := tree.Prove(0)
	require.NoError(t, err)

	receipt := &ClaimReceipt{}
	amount, err := ClaimV1(campaign, cohort, vault, receipt, claimant, 0, 1, proof, 100, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(2), amount)
}

func TestReclaim_GatingAndNoOp(t *testing.T) {
	admin := addr(0x01)
	campaign, _, vault := setupActiveCampaign(t, admin)

	_, err := ReclaimTokens(admin, campaign, vault)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeCampaignNotPermanentlyHalted))
	require.Equal(t, uint64(1000), vault.Balance)

	require.NoError(t, PermanentlyHalt(admin, campaign))

	amount, err := ReclaimTokens(admin, campaign, vault)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), amount)
	require.Equal(t, uint64(0), vault.Balance)

	amount, err = ReclaimTokens(admin, campaign, vault)
	require.NoError(t, err)
	require.Equal(t, uint64(0), amount, "reclaiming an empty vault is a no-op success")
}

func TestLifecycle_VaultCounterU8Boundary(t *testing.T) {
	admin := addr(0x01)
	campaign := &Campaign{Address: addr(0x10)}
	require.NoError(t, InitializeCampaign(campaign, admin, addr(0x20), 6, 1, addr(0x30), 255))

	cohort := &Cohort{Address: addr(0x11)}
	require.NoError(t, InitializeCohort(admin, campaign, cohort, 255, addr(0x31), 1, 254))

	for i := 0; i < 255; i++ {
		vault := &Vault{Address: addr(0x12)}
		require.NoError(t, InitializeVault(admin, campaign, cohort, vault, uint8(i), 253))
	}
	require.Equal(t, uint8(255), cohort.InitializedVaultCount)

	overflow := &Vault{}
	err := InitializeVault(admin, campaign, cohort, overflow, 0, 253)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.CodeTooManyVaults))
}
