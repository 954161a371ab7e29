// Copyright 2025 Prism Protocol

package compiler

import "github.com/shopspring/decimal"

// TreeVersion selects which merkle construction a cohort's claims are
// committed to.
type TreeVersion string

const (
	TreeVersionV0 TreeVersion = "v0"
	TreeVersionV1 TreeVersion = "v1"
)

// ClaimantRow is one already-decoded row from the campaign (claimants
// and cohorts) input stream.
type ClaimantRow struct {
	CohortName   string
	Claimant     [32]byte
	Entitlements uint64
}

// CohortShareRow is one already-decoded row from the cohort-share
// percentages input stream.
type CohortShareRow struct {
	CohortName      string
	SharePercentage decimal.Decimal
}

// Input is everything the compiler needs to derive a full campaign plan.
type Input struct {
	CampaignRows []ClaimantRow
	CohortRows   []CohortShareRow

	TotalBudget  decimal.Decimal
	Mint         [32]byte
	MintDecimals int32
	Admin        [32]byte

	// ClaimantsPerVault sizes each cohort's vault count:
	// ceil(claimant_count / ClaimantsPerVault). Compile fails with
	// vault-limit-exceeded when that count is above 255.
	ClaimantsPerVault int

	TreeVersion TreeVersion
}
