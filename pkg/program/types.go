// Copyright 2025 Prism Protocol
//
// Package program models the on-chain campaign lifecycle program as a
// plain Go state machine over deserialized account structs. Each method
// below stands in for one Solana instruction handler: it validates every
// precondition first, mutates nothing until all checks pass, and returns
// a typed *errkind.Error on the first violation — the same
// validate-then-mutate discipline a real runtime enforces by rolling
// back a failed transaction in its entirety.
//
// This package takes no locks. A real runtime serializes instructions
// per account; callers that simulate concurrent claims are responsible
// for serializing access to a given account themselves.
package program

// Status is the campaign lifecycle state.
type Status uint8

const (
	StatusInactive Status = iota
	StatusActive
	StatusPaused
	StatusPermanentlyHalted
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "Inactive"
	case StatusActive:
		return "Active"
	case StatusPaused:
		return "Paused"
	case StatusPermanentlyHalted:
		return "PermanentlyHalted"
	default:
		return "Unknown"
	}
}

// Campaign is the deserialized campaign account.
type Campaign struct {
	Address             [32]byte
	Bump                uint8
	Admin               [32]byte
	Mint                [32]byte
	MintDecimals        uint8
	Fingerprint         [32]byte
	ExpectedCohortCount uint8
	InitializedCohortCount uint8
	ActivatedCohortCount   uint8
	Status              Status
	Unstoppable          bool
	GoLiveSlot           uint64
	FinalDBIPFSHash      [32]byte
}

// Cohort is the deserialized cohort account. It also acts as the signing
// authority (PDA) for token transfers out of its vaults.
type Cohort struct {
	Address                [32]byte
	Bump                   uint8
	Campaign               [32]byte
	MerkleRoot             [32]byte
	AmountPerEntitlement   uint64
	ExpectedVaultCount     uint8
	InitializedVaultCount  uint8
	ActivatedVaultCount    uint8
}

// Vault is the deserialized vault token account.
type Vault struct {
	Address    [32]byte
	Bump       uint8
	Cohort     [32]byte
	VaultIndex uint8
	Balance    uint64
}

// ClaimReceipt is the deserialized claim-receipt account. Its existence
// at the derived receipt address is the double-claim guard: ClaimV0 and
// ClaimV1 fail with receipt-already-initialized when passed a receipt
// that has already recorded a claim.
type ClaimReceipt struct {
	Address       [32]byte
	Bump          uint8
	Cohort        [32]byte
	Claimant      [32]byte
	Vault         [32]byte
	UnixTimestamp int64
	initialized   bool
}

// Initialized reports whether this receipt has already recorded a claim.
func (r *ClaimReceipt) Initialized() bool {
	return r.initialized
}
