// Copyright 2025 Prism Protocol
//
// Package harness exposes the module's core invariants as plain
// functions returning error, so an external property-based or fuzz test
// runner can drive them the same way the in-repo table-driven tests do.
// Grounded on liteclient/testing/suite.go's "expose invariants as
// callable checks" shape, adapted from a *testing.T-bound assertion
// suite to pure functions with no testing dependency.
package harness

import (
	"context"
	"fmt"

	"github.com/prism-protocol/prism/pkg/allocator"
	"github.com/prism-protocol/prism/pkg/catalog"
	"github.com/prism-protocol/prism/pkg/compiler"
	"github.com/prism-protocol/prism/pkg/merkle"
	"github.com/prism-protocol/prism/pkg/program"
)

// CheckConservation verifies that, for every cohort of a compiled
// campaign, the vault funding sums to exactly the cohort's recorded
// token budget (CohortBudgetToken). It does not compare a cohort's
// funding with its share of the campaign-level budget.
func CheckConservation(compiled *catalog.CompiledCampaign) error {
	for _, cc := range compiled.Cohorts {
		var vaultTotal uint64
		for _, v := range cc.Vaults {
			vaultTotal += v.BudgetToken
		}
		if vaultTotal != cc.Cohort.CohortBudgetToken {
			return fmt.Errorf("harness: cohort %q vault funding %d does not equal cohort budget %d",
				cc.Cohort.Name, vaultTotal, cc.Cohort.CohortBudgetToken)
		}
	}
	return nil
}

// CheckVaultDistributionFairness verifies allocator.DistributeAcrossVaults
// never lets any two vaults differ by more than one base unit and that
// the distributed total equals the input exactly (spec.md §8 property 7).
func CheckVaultDistributionFairness(cohortTokenTotal uint64, vaultCount uint8) error {
	dist, err := allocator.DistributeAcrossVaults(cohortTokenTotal, vaultCount)
	if err != nil {
		return fmt.Errorf("harness: distribute across vaults: %w", err)
	}

	var min, max uint64
	var sum uint64
	for i := uint8(0); ; i++ {
		amount := dist.AmountForVault(i)
		sum += amount
		if i == 0 || amount < min {
			min = amount
		}
		if amount > max {
			max = amount
		}
		if i == vaultCount-1 {
			break
		}
	}
	if sum != cohortTokenTotal {
		return fmt.Errorf("harness: distributed sum %d does not equal total %d", sum, cohortTokenTotal)
	}
	if max-min > 1 {
		return fmt.Errorf("harness: vault distribution spread %d exceeds one base unit (min=%d max=%d)", max-min, min, max)
	}
	return nil
}

// CheckFingerprintDeterminism recompiles in twice and fails if the two
// runs produce different fingerprints (spec.md §8 property 8).
func CheckFingerprintDeterminism(ctx context.Context, c *compiler.Compiler, in compiler.Input) error {
	first, err := c.Compile(ctx, in)
	if err != nil {
		return fmt.Errorf("harness: first compile: %w", err)
	}
	second, err := c.Compile(ctx, in)
	if err != nil {
		return fmt.Errorf("harness: second compile: %w", err)
	}
	if first.Campaign.Fingerprint != second.Campaign.Fingerprint {
		return fmt.Errorf("harness: fingerprint not deterministic: %q != %q",
			first.Campaign.Fingerprint, second.Campaign.Fingerprint)
	}
	return nil
}

// CheckProofsVerify re-derives every stored proof against its cohort's
// merkle root and fails on the first mismatch.
func CheckProofsVerify(cc catalog.CompiledCohort, root [32]byte, version compiler.TreeVersion, leaves []merkle.ClaimLeaf, proofBytes [][]byte) error {
	if len(leaves) != len(proofBytes) {
		return fmt.Errorf("harness: %d leaves but %d proofs", len(leaves), len(proofBytes))
	}
	for i, leaf := range leaves {
		switch version {
		case compiler.TreeVersionV0:
			proof, err := merkle.DeserializeProofV0(proofBytes[i])
			if err != nil {
				return fmt.Errorf("harness: deserialize v0 proof %d: %w", i, err)
			}
			if !merkle.VerifyV0(proof, root, leaf) {
				return fmt.Errorf("harness: v0 proof %d failed to verify", i)
			}
		case compiler.TreeVersionV1:
			proof, err := merkle.DeserializeProofV1(proofBytes[i])
			if err != nil {
				return fmt.Errorf("harness: deserialize v1 proof %d: %w", i, err)
			}
			if !merkle.VerifyV1(proof, root, leaf) {
				return fmt.Errorf("harness: v1 proof %d failed to verify", i)
			}
		default:
			return fmt.Errorf("harness: unknown tree version %q", version)
		}
	}
	return nil
}

// CheckLifecycleMonotonic verifies a campaign's activated-cohort counter
// never decreases across a sequence of attempted transitions, even when
// some transitions are rejected.
func CheckLifecycleMonotonic(steps []func(*program.Campaign) error, campaign *program.Campaign) error {
	prev := campaign.ActivatedCohortCount
	for i, step := range steps {
		_ = step(campaign) // rejected steps are expected; only monotonicity is checked
		if campaign.ActivatedCohortCount < prev {
			return fmt.Errorf("harness: activated cohort count decreased at step %d: %d -> %d", i, prev, campaign.ActivatedCohortCount)
		}
		prev = campaign.ActivatedCohortCount
	}
	return nil
}

// CheckDoubleClaimRejected asserts that calling claim a second time with
// an already-initialized receipt returns an error and leaves the vault
// balance unchanged (spec.md §8 property 10).
func CheckDoubleClaimRejected(claimTwice func() (uint64, error), vaultBalanceBefore func() uint64) error {
	balanceBefore := vaultBalanceBefore()
	if _, err := claimTwice(); err == nil {
		return fmt.Errorf("harness: second claim over an initialized receipt must fail")
	}
	if balanceBefore != vaultBalanceBefore() {
		return fmt.Errorf("harness: vault balance changed on a rejected double claim: %d -> %d", balanceBefore, vaultBalanceBefore())
	}
	return nil
}

// CheckUnstoppableImmutable asserts that once a campaign is marked
// unstoppable, pause and halt are permanently rejected.
func CheckUnstoppableImmutable(pause, halt func() error) error {
	if err := pause(); err == nil {
		return fmt.Errorf("harness: pause must be rejected on an unstoppable campaign")
	}
	if err := halt(); err == nil {
		return fmt.Errorf("harness: halt must be rejected on an unstoppable campaign")
	}
	return nil
}

// CheckReclaimGating asserts that reclaim fails before a campaign is
// permanently halted and succeeds (draining the vault to zero) after
// (spec.md §8 property 12).
func CheckReclaimGating(reclaimBeforeHalt func() (uint64, error), halt func() error, reclaimAfterHalt func() (uint64, error), vaultBalance func() uint64) error {
	if _, err := reclaimBeforeHalt(); err == nil {
		return fmt.Errorf("harness: reclaim must be rejected before the campaign is permanently halted")
	}
	if err := halt(); err != nil {
		return fmt.Errorf("harness: halt failed: %w", err)
	}
	if _, err := reclaimAfterHalt(); err != nil {
		return fmt.Errorf("harness: reclaim after halt failed: %w", err)
	}
	if vaultBalance() != 0 {
		return fmt.Errorf("harness: vault balance %d not drained to zero after reclaim", vaultBalance())
	}
	return nil
}
