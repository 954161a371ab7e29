// Copyright 2025 Prism Protocol
//
// Package allocator performs the exact-decimal budget math that turns a
// human-quoted campaign budget into per-cohort and per-vault token
// amounts. All arithmetic is base-10 fixed point via shopspring/decimal;
// binary floating point never touches a budget figure. Rounding is
// always a floor toward mint precision so the allocator can never
// over-allocate.
package allocator

import (
	"math/big"

	"github.com/prism-protocol/prism/pkg/errkind"
	"github.com/shopspring/decimal"
)

// CohortAllocation is the result of allocating one cohort's share of the
// campaign budget.
type CohortAllocation struct {
	// CohortTotal is the cohort's share of the budget, in human units,
	// before rounding to mint precision.
	CohortTotal decimal.Decimal
	// PerEntitlement is the human-unit amount credited per entitlement,
	// already floored to mint precision.
	PerEntitlement decimal.Decimal
	// Dust is the human-unit residue lost to flooring.
	Dust decimal.Decimal
	// PerEntitlementTokenUnits is PerEntitlement expressed in integer
	// base units (PerEntitlement * 10^mint_decimals).
	PerEntitlementTokenUnits uint64
}

// precisionFor returns 10^(-mintDecimals) as a decimal.Decimal.
func precisionFor(mintDecimals int32) decimal.Decimal {
	return decimal.New(1, -mintDecimals)
}

// AllocateCohort computes a cohort's budget share and the conservative
// per-entitlement amount. sharePercentage must lie in [0,100] and
// totalEntitlements must be nonzero.
func AllocateCohort(totalBudget decimal.Decimal, sharePercentage decimal.Decimal, totalEntitlements uint64, mintDecimals int32) (CohortAllocation, error) {
	if sharePercentage.LessThan(decimal.Zero) || sharePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return CohortAllocation{}, errkind.Newf(errkind.CodeInvalidPercentage, "share percentage %s out of [0,100]", sharePercentage.String())
	}
	if totalEntitlements == 0 {
		return CohortAllocation{}, errkind.New(errkind.CodeZeroEntitlements, "cohort has zero total entitlements")
	}
	if mintDecimals < 0 || mintDecimals > 18 {
		return CohortAllocation{}, errkind.Newf(errkind.CodeInvalidMintDecimals, "mint decimals %d out of [0,18]", mintDecimals)
	}

	cohortTotal := totalBudget.Mul(sharePercentage).Div(decimal.NewFromInt(100))

	entitlementsDec := decimal.NewFromBigInt(new(big.Int).SetUint64(totalEntitlements), 0)
	rawPerEntitlement := cohortTotal.Div(entitlementsDec)

	precision := precisionFor(mintDecimals)
	steps := rawPerEntitlement.Div(precision).Floor()
	perEntitlement := steps.Mul(precision)

	dust := cohortTotal.Sub(perEntitlement.Mul(entitlementsDec))
	if dust.LessThan(decimal.Zero) {
		return CohortAllocation{}, errkind.Newf(errkind.CodeBudgetDustNegative, "negative dust %s for cohort total %s", dust.String(), cohortTotal.String())
	}

	perEntitlementTokenUnits, err := toTokenUnits(perEntitlement, mintDecimals)
	if err != nil {
		return CohortAllocation{}, err
	}

	return CohortAllocation{
		CohortTotal:              cohortTotal,
		PerEntitlement:           perEntitlement,
		Dust:                     dust,
		PerEntitlementTokenUnits: perEntitlementTokenUnits,
	}, nil
}

// toTokenUnits converts a human-unit decimal amount to its integer base-unit
// representation, failing if it does not fit in a u64.
func toTokenUnits(amount decimal.Decimal, mintDecimals int32) (uint64, error) {
	shifted := amount.Shift(mintDecimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, errkind.Newf(errkind.CodeTokenAmountOverflow, "amount %s does not resolve to an integer at %d decimals", amount.String(), mintDecimals)
	}
	bi := shifted.Truncate(0).BigInt()
	if bi.Sign() < 0 {
		return 0, errkind.Newf(errkind.CodeTokenAmountOverflow, "amount %s is negative", amount.String())
	}
	if !bi.IsUint64() {
		return 0, errkind.Newf(errkind.CodeTokenAmountOverflow, "amount %s overflows u64 token units", amount.String())
	}
	return bi.Uint64(), nil
}

// VaultDistribution is the result of splitting a cohort's token total
// across its vaults as evenly as integer division allows.
type VaultDistribution struct {
	TokensPerVault uint64
	Remainder      uint64
}

// DistributeAcrossVaults computes the even split of cohortTokenTotal
// across vaultCount vaults. Vault indices [0, Remainder) receive
// TokensPerVault+1; the rest receive TokensPerVault.
func DistributeAcrossVaults(cohortTokenTotal uint64, vaultCount uint8) (VaultDistribution, error) {
	if vaultCount == 0 {
		return VaultDistribution{}, errkind.New(errkind.CodeNoVaultsExpected, "cannot distribute across zero vaults")
	}
	v := uint64(vaultCount)
	return VaultDistribution{
		TokensPerVault: cohortTokenTotal / v,
		Remainder:      cohortTokenTotal % v,
	}, nil
}

// AmountForVault returns the exact token amount vault index vaultIndex
// should receive under dist.
func (d VaultDistribution) AmountForVault(vaultIndex uint8) uint64 {
	if uint64(vaultIndex) < d.Remainder {
		return d.TokensPerVault + 1
	}
	return d.TokensPerVault
}

// CheckedMulEntitlements multiplies perEntitlementTokenUnits by
// entitlements with overflow detection, as required for per-claimant and
// per-vault funding totals.
func CheckedMulEntitlements(perEntitlementTokenUnits uint64, entitlements uint64) (uint64, error) {
	if entitlements == 0 {
		return 0, nil
	}
	product := perEntitlementTokenUnits * entitlements
	if perEntitlementTokenUnits != 0 && product/entitlements != perEntitlementTokenUnits {
		return 0, errkind.Newf(errkind.CodeNumericOverflow, "overflow multiplying %d entitlements by %d", entitlements, perEntitlementTokenUnits)
	}
	return product, nil
}

// FormatHumanAmount renders a decimal budget figure at full precision for
// catalog persistence.
func FormatHumanAmount(d decimal.Decimal) string {
	return d.String()
}
