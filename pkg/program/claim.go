// Copyright 2025 Prism Protocol
//
// Claim processing. ClaimV0 and ClaimV1 differ only in the proof type
// they accept; both share the validation order from spec.md §4.9 via
// claimPrelude, and both leave every account untouched until every check
// has passed.

package program

import (
	"github.com/prism-protocol/prism/pkg/allocator"
	"github.com/prism-protocol/prism/pkg/errkind"
	"github.com/prism-protocol/prism/pkg/merkle"
)

// MaxProofLevelsV0 bounds a V0 proof to 64 siblings (supports up to 2^64
// leaves). This is a defensive compute-budget guard, not a byte-layout
// commitment; a conforming proof from BuildTreeV0 never approaches it for
// any realistic cohort size.
const MaxProofLevelsV0 = 64

// MaxProofLevelsV1 bounds a V1 proof to 8 levels (256^8 leaves).
const MaxProofLevelsV1 = 8

// claimPrelude runs the checks common to both claim variants (spec.md
// §4.9 steps 1-3 and the zero-amount-per-entitlement guard) and returns
// the reconstructed leaf. It mutates nothing.
func claimPrelude(campaign *Campaign, cohort *Cohort, claimant [32]byte, assignedVaultIndex uint8, entitlements uint64, currentSlot uint64) (merkle.ClaimLeaf, error) {
	if entitlements == 0 {
		return merkle.ClaimLeaf{}, errkind.New(errkind.CodeInvalidEntitlements, "entitlements must be > 0")
	}
	if campaign.Status != StatusActive {
		return merkle.ClaimLeaf{}, errkind.New(errkind.CodeCampaignNotActive, "campaign is not Active")
	}
	if currentSlot < campaign.GoLiveSlot {
		return merkle.ClaimLeaf{}, errkind.New(errkind.CodeGoLiveDateNotReached, "current slot precedes go_live_slot")
	}
	if assignedVaultIndex >= cohort.ExpectedVaultCount {
		return merkle.ClaimLeaf{}, errkind.New(errkind.CodeAssignedVaultIndexOutOfBounds, "assigned_vault_index exceeds expected_vault_count")
	}
	if cohort.AmountPerEntitlement == 0 {
		return merkle.ClaimLeaf{}, errkind.New(errkind.CodeZeroAmountPerEntitlement, "cohort amount_per_entitlement is zero")
	}

	return merkle.ClaimLeaf{
		Claimant:           claimant,
		AssignedVaultIndex: assignedVaultIndex,
		Entitlements:       entitlements,
	}, nil
}

// settleClaim performs the shared tail of both claim variants once the
// proof has verified: compute the transfer total, debit the vault,
// record the receipt. Returns the amount transferred.
func settleClaim(cohort *Cohort, vault *Vault, receipt *ClaimReceipt, claimant [32]byte, entitlements uint64, nowUnix int64) (uint64, error) {
	if receipt.Initialized() {
		return 0, errkind.New(errkind.CodeReceiptAlreadyInitialized, "claim receipt already exists for this (cohort, claimant)")
	}

	total, err := allocator.CheckedMulEntitlements(cohort.AmountPerEntitlement, entitlements)
	if err != nil {
		return 0, err
	}
	if total > vault.Balance {
		return 0, errkind.Newf(errkind.CodeInsufficientVaultBalance, "vault balance %d is less than claim total %d", vault.Balance, total)
	}

	vault.Balance -= total
	receipt.Cohort = cohort.Address
	receipt.Claimant = claimant
	receipt.Vault = vault.Address
	receipt.UnixTimestamp = nowUnix
	receipt.initialized = true

	return total, nil
}

// ClaimV0 processes a claim authenticated by a binary (V0) merkle proof.
func ClaimV0(campaign *Campaign, cohort *Cohort, vault *Vault, receipt *ClaimReceipt, claimant [32]byte, assignedVaultIndex uint8, entitlements uint64, proof merkle.ProofV0, currentSlot uint64, nowUnix int64) (uint64, error) {
	if len(proof) > MaxProofLevelsV0 {
		return 0, errkind.Newf(errkind.CodeInvalidMerkleProof, "v0 proof has %d levels, exceeding the %d-level bound", len(proof), MaxProofLevelsV0)
	}

	leaf, err := claimPrelude(campaign, cohort, claimant, assignedVaultIndex, entitlements, currentSlot)
	if err != nil {
		return 0, err
	}

	if !merkle.VerifyV0(proof, cohort.MerkleRoot, leaf) {
		return 0, errkind.New(errkind.CodeInvalidMerkleProof, "v0 proof does not verify against the cohort's merkle root")
	}

	return settleClaim(cohort, vault, receipt, claimant, entitlements, nowUnix)
}

// ClaimV1 processes a claim authenticated by a 256-ary (V1) merkle proof.
func ClaimV1(campaign *Campaign, cohort *Cohort, vault *Vault, receipt *ClaimReceipt, claimant [32]byte, assignedVaultIndex uint8, entitlements uint64, proof merkle.ProofV1, currentSlot uint64, nowUnix int64) (uint64, error) {
	if len(proof) > MaxProofLevelsV1 {
		return 0, errkind.Newf(errkind.CodeInvalidMerkleProof, "v1 proof has %d levels, exceeding the %d-level bound", len(proof), MaxProofLevelsV1)
	}

	leaf, err := claimPrelude(campaign, cohort, claimant, assignedVaultIndex, entitlements, currentSlot)
	if err != nil {
		return 0, err
	}

	if !merkle.VerifyV1(proof, cohort.MerkleRoot, leaf) {
		return 0, errkind.New(errkind.CodeInvalidMerkleProof, "v1 proof does not verify against the cohort's merkle root")
	}

	return settleClaim(cohort, vault, receipt, claimant, entitlements, nowUnix)
}
