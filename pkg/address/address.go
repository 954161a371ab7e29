// Copyright 2025 Prism Protocol
//
// Package address derives the program-derived addresses (PDAs) used for
// campaigns, cohorts, vaults, and claim receipts. A PDA is a 32-byte
// address chosen so that no private key controls it: construction walks a
// bump seed down from 255 until the resulting point falls off the
// ed25519 curve, the same scheme the reference runtime uses to hand a
// program exclusive signing authority over an address.
package address

import (
	"bytes"
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ErrNoValidBump is returned when no bump in [0,255] yields an off-curve
// address, which would indicate a pathological seed set.
var ErrNoValidBump = errors.New("address: no valid bump found in [0,255]")

// Derived is a program-derived address together with the bump seed that
// produced it.
type Derived struct {
	Address [32]byte
	Bump    uint8
}

// String renders the address in base58, the conventional rendering for
// curve-point-shaped addresses.
func (d Derived) String() string {
	return base58.Encode(d.Address[:])
}

const (
	campaignSeed = "campaign_v0"
	cohortSeed   = "cohort_v0"
	receiptSeed  = "receipt_v0"
	vaultSeed    = "vault"
)

// isOffCurve reports whether b, interpreted as a compressed ed25519 point,
// does NOT lie on the curve. PDAs are valid precisely when they are off
// curve: no scalar multiplication can ever produce the corresponding
// private key.
func isOffCurve(b [32]byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b[:])
	return err != nil
}

// derive searches bumps from 255 down to 0 for the highest bump whose
// hash of (seeds... || bump) lands off curve.
func derive(seeds ...[]byte) (Derived, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, seed := range seeds {
			h.Write(seed)
		}
		h.Write([]byte{byte(bump)})

		var addr [32]byte
		copy(addr[:], h.Sum(nil))

		if isOffCurve(addr) {
			return Derived{Address: addr, Bump: uint8(bump)}, nil
		}
	}
	return Derived{}, ErrNoValidBump
}

// DeriveCampaign derives the campaign PDA from the admin and the campaign
// fingerprint.
func DeriveCampaign(admin [32]byte, fingerprint [32]byte) (Derived, error) {
	return derive([]byte(campaignSeed), admin[:], fingerprint[:])
}

// DeriveCohort derives a cohort PDA from its owning campaign and merkle
// root.
func DeriveCohort(campaign [32]byte, merkleRoot [32]byte) (Derived, error) {
	return derive([]byte(cohortSeed), campaign[:], merkleRoot[:])
}

// DeriveReceipt derives the claim-receipt PDA for a (cohort, claimant)
// pair. Its existence is the double-claim guard.
func DeriveReceipt(cohort [32]byte, claimant [32]byte) (Derived, error) {
	return derive([]byte(receiptSeed), cohort[:], claimant[:])
}

// DeriveVault derives a vault PDA from its owning cohort and vault index.
func DeriveVault(cohort [32]byte, vaultIndex uint8) (Derived, error) {
	return derive([]byte(vaultSeed), cohort[:], []byte{vaultIndex})
}

// Equal reports whether two addresses are byte-identical.
func Equal(a, b [32]byte) bool {
	return bytes.Equal(a[:], b[:])
}
