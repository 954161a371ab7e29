// Copyright 2025 Prism Protocol
//
// Package compiler implements the campaign compiler (spec.md §4.6): it
// orchestrates the leaf codec, both merkle tree constructions, vault
// assignment, the budget allocator, and the PDA deriver to turn two
// tabular inputs and a budget into a fully-derived CompiledCampaign. The
// compiler is pure over its inputs — re-running Compile with
// byte-identical inputs always produces a byte-identical fingerprint.
//
// Orchestration follows the teacher's staged-pipeline convention (a
// struct holding injected collaborators, one Compile entrypoint, private
// per-stage methods, first-error-wins propagation through *errkind.Error)
// the way pkg/batch/processor.go and pkg/proof/artifact_service.go stage
// their own multi-step pipelines.
package compiler

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/prism-protocol/prism/pkg/address"
	"github.com/prism-protocol/prism/pkg/allocator"
	"github.com/prism-protocol/prism/pkg/assign"
	"github.com/prism-protocol/prism/pkg/catalog"
	"github.com/prism-protocol/prism/pkg/errkind"
	"github.com/prism-protocol/prism/pkg/merkle"
	"github.com/shopspring/decimal"
)

// maxCohortWorkers bounds the per-cohort fan-out pool (§5: "parallelization
// is permissible per-cohort but not required"). Cohort compilation is pure
// CPU work (decimal math + hashing), so the pool is sized off GOMAXPROCS by
// default, the way the teacher's batch collector bounds its own concurrent
// work; WithWorkerConcurrency overrides the default.
func (c *Compiler) maxCohortWorkers(cohortCount int) int {
	n := c.maxWorkers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n < 1 {
		n = 1
	}
	if cohortCount < n {
		n = cohortCount
	}
	return n
}

// Compiler compiles campaign inputs into a CompiledCampaign. It carries
// no state between calls; the zero value (or New with a nil logger) is
// ready to use.
type Compiler struct {
	logger     *slog.Logger
	maxWorkers int // 0 means "size off GOMAXPROCS", see maxCohortWorkers
}

// Option configures a Compiler at construction time.
type Option func(*Compiler)

// WithWorkerConcurrency caps the per-cohort fan-out pool at n, overriding
// the GOMAXPROCS-sized default. Wired from config.Config.WorkerConcurrency
// by cmd/prismctl.
func WithWorkerConcurrency(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// New creates a Compiler that logs compilation progress through logger.
// A nil logger falls back to slog.Default().
func New(logger *slog.Logger, opts ...Option) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Compiler{logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cohortGroup is the per-cohort working state threaded through Compile's
// stages before it is flattened into catalog types.
type cohortGroup struct {
	name       string
	claimants  []ClaimantRow
	share      allocator.CohortAllocation
	vaultCount uint8
	leaves     []merkle.ClaimLeaf
	leafIndex  map[[32]byte]int // claimant -> index into leaves
	rootV0     *merkle.TreeV0
	rootV1     *merkle.TreeV1
	root       [32]byte
}

// Compile runs the full compilation pipeline described in spec.md §4.6.
func (c *Compiler) Compile(ctx context.Context, in Input) (*catalog.CompiledCampaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := crossValidateCohortSets(in.CampaignRows, in.CohortRows); err != nil {
		return nil, err
	}

	groups, err := groupClaimants(in.CampaignRows)
	if err != nil {
		return nil, err
	}

	shareByName := make(map[string]CohortShareRow, len(in.CohortRows))
	for _, row := range in.CohortRows {
		shareByName[row.CohortName] = row
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names) // §9: canonical cohort order is lexicographic on name.

	// Stage 1 (per-cohort: vault sizing, allocation, leaf construction,
	// tree build) is pure over each cohort's own inputs, so it fans out
	// across a bounded worker pool the way the teacher's batch collector
	// bounds its own concurrent work. Stage 2 (fingerprint, addresses) is
	// strictly sequential and runs after every worker has returned.
	stageErrs := make([]error, len(names))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workerCount := c.maxCohortWorkers(len(names))
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				name := names[i]
				stageErrs[i] = c.compileCohortStage1(groups[name], name, shareByName, in)
			}
		}()
	}
	for i := range names {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// First-error-wins, by cohort's canonical (lexicographic) position —
	// matches the sequential propagation policy even though work ran
	// concurrently.
	for i := range names {
		if stageErrs[i] != nil {
			return nil, stageErrs[i]
		}
	}

	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, name := range names {
		g := groups[name]
		logger.Info("cohort compiled", "cohort", name, "claimants", len(g.claimants), "vaults", g.vaultCount, "root", fmt.Sprintf("%x", g.root))
	}

	fingerprint := computeFingerprint(names, groups)

	campaignDerived, err := address.DeriveCampaign(in.Admin, fingerprint)
	if err != nil {
		return nil, err
	}

	compiled := &catalog.CompiledCampaign{
		Campaign: catalog.Campaign{
			Address:             campaignDerived.String(),
			Admin:               base58.Encode(in.Admin[:]),
			BudgetHuman:         allocator.FormatHumanAmount(in.TotalBudget),
			Mint:                base58.Encode(in.Mint[:]),
			MintDecimals:        in.MintDecimals,
			ClaimantsPerVault:   in.ClaimantsPerVault,
			TreeVersion:         string(in.TreeVersion),
			Fingerprint:         fmt.Sprintf("%x", fingerprint),
			ExpectedCohortCount: len(names),
			CreatedAt:           time.Now().Unix(),
		},
	}

	var totalFunding uint64
	for _, name := range names {
		cc, err := c.assembleCohort(campaignDerived, name, groups[name], in)
		if err != nil {
			return nil, err
		}
		totalFunding += cc.Cohort.CohortBudgetToken
		compiled.Cohorts = append(compiled.Cohorts, *cc)
	}
	compiled.Campaign.BudgetToken = totalFunding

	return compiled, nil
}

// compileCohortStage1 performs the per-cohort work that is pure over g's
// own claimant rows: vault sizing, allocation, leaf construction, and
// merkle tree build. It mutates g in place and is safe to run concurrently
// with other cohorts' calls since each call only touches its own *cohortGroup.
func (c *Compiler) compileCohortStage1(g *cohortGroup, name string, shareByName map[string]CohortShareRow, in Input) error {
	vaultCount, err := vaultCountFor(len(g.claimants), in.ClaimantsPerVault)
	if err != nil {
		return errkind.Wrapf(err, errkind.CodeVaultLimitExceeded, "cohort %q", name)
	}
	g.vaultCount = vaultCount

	totalEntitlements := uint64(0)
	for _, row := range g.claimants {
		totalEntitlements += row.Entitlements
	}

	share, err := allocator.AllocateCohort(in.TotalBudget, shareByName[name].SharePercentage, totalEntitlements, in.MintDecimals)
	if err != nil {
		code, _ := errkind.CodeOf(err)
		return errkind.Wrapf(err, code, "cohort %q allocation failed", name)
	}
	g.share = share

	g.leaves = make([]merkle.ClaimLeaf, len(g.claimants))
	g.leafIndex = make(map[[32]byte]int, len(g.claimants))
	for i, row := range g.claimants {
		vaultIndex := assign.Assign(row.Claimant, vaultCount)
		g.leaves[i] = merkle.ClaimLeaf{
			Claimant:           row.Claimant,
			AssignedVaultIndex: vaultIndex,
			Entitlements:       row.Entitlements,
		}
		g.leafIndex[row.Claimant] = i
	}

	leafHashes := make([][32]byte, len(g.leaves))
	for i, leaf := range g.leaves {
		leafHashes[i] = leaf.Hash()
	}

	switch in.TreeVersion {
	case TreeVersionV0:
		tree, err := merkle.BuildTreeV0(leafHashes)
		if err != nil {
			return err
		}
		g.rootV0 = tree
		g.root = tree.Root()
	case TreeVersionV1:
		tree, err := merkle.BuildTreeV1(leafHashes)
		if err != nil {
			return err
		}
		g.rootV1 = tree
		g.root = tree.Root()
	default:
		return errkind.Newf(errkind.CodeInvalidFingerprint, "unknown tree version %q", in.TreeVersion)
	}

	return nil
}

// assembleCohort derives the cohort's address and every vault, leaf, and
// proof record beneath it.
func (c *Compiler) assembleCohort(campaignDerived address.Derived, name string, g *cohortGroup, in Input) (*catalog.CompiledCohort, error) {
	cohortDerived, err := address.DeriveCohort(campaignDerived.Address, g.root)
	if err != nil {
		return nil, err
	}

	totalEntitlements := uint64(0)
	for _, leaf := range g.leaves {
		totalEntitlements += leaf.Entitlements
	}

	vaultEntitlements := make([]uint64, g.vaultCount)
	for _, leaf := range g.leaves {
		vaultEntitlements[leaf.AssignedVaultIndex] += leaf.Entitlements
	}

	cc := &catalog.CompiledCohort{
		Cohort: catalog.Cohort{
			Address:                   cohortDerived.String(),
			CampaignAddress:           campaignDerived.String(),
			Name:                      name,
			MerkleRoot:                fmt.Sprintf("%x", g.root),
			VaultCount:                int(g.vaultCount),
			TotalEntitlements:         totalEntitlements,
			CohortBudgetHuman:         allocator.FormatHumanAmount(g.share.CohortTotal),
			AmountPerEntitlementHuman: allocator.FormatHumanAmount(g.share.PerEntitlement),
			AmountPerEntitlementToken: g.share.PerEntitlementTokenUnits,
			DustHuman:                 allocator.FormatHumanAmount(g.share.Dust),
		},
	}

	var cohortTokenTotal uint64
	for vi := uint8(0); vi < g.vaultCount; vi++ {
		vaultDerived, err := address.DeriveVault(cohortDerived.Address, vi)
		if err != nil {
			return nil, err
		}

		vaultEntitled := vaultEntitlements[vi]
		vaultTokens, err := allocator.CheckedMulEntitlements(g.share.PerEntitlementTokenUnits, vaultEntitled)
		if err != nil {
			return nil, err
		}
		cohortTokenTotal += vaultTokens

		cc.Vaults = append(cc.Vaults, catalog.Vault{
			VaultAddress:              vaultDerived.String(),
			CohortAddress:             cohortDerived.String(),
			VaultIndex:                vi,
			BudgetHuman:               decimal.New(int64(vaultTokens), -in.MintDecimals).String(),
			BudgetToken:               vaultTokens,
			AmountPerEntitlementHuman: allocator.FormatHumanAmount(g.share.PerEntitlement),
			AmountPerEntitlementToken: g.share.PerEntitlementTokenUnits,
			TotalEntitlements:         vaultEntitled,
		})
	}
	cc.Cohort.CohortBudgetToken = cohortTokenTotal

	for _, claimant := range sortedClaimants(g) {
		idx := g.leafIndex[claimant]
		leaf := g.leaves[idx]
		claimantStr := base58.Encode(claimant[:])

		cc.Leaves = append(cc.Leaves, catalog.Leaf{
			CohortAddress: cohortDerived.String(),
			Claimant:      claimantStr,
			Entitlements:  leaf.Entitlements,
			VaultIndex:    leaf.AssignedVaultIndex,
		})

		proofBytes, err := c.serializeProof(g, in.TreeVersion, idx)
		if err != nil {
			return nil, err
		}
		cc.Proofs = append(cc.Proofs, catalog.Proof{
			CohortAddress:    cohortDerived.String(),
			Claimant:         claimantStr,
			MerkleProofBytes: proofBytes,
		})
	}

	return cc, nil
}

func (c *Compiler) serializeProof(g *cohortGroup, version TreeVersion, leafIndex int) ([]byte, error) {
	switch version {
	case TreeVersionV0:
		proof, err := g.rootV0.Prove(leafIndex)
		if err != nil {
			return nil, err
		}
		return merkle.SerializeProofV0(proof), nil
	case TreeVersionV1:
		proof, err := g.rootV1.Prove(leafIndex)
		if err != nil {
			return nil, err
		}
		return merkle.SerializeProofV1(proof), nil
	default:
		return nil, errkind.Newf(errkind.CodeInvalidFingerprint, "unknown tree version %q", version)
	}
}

// sortedClaimants returns g's claimants in their original input order so
// catalog rows are emitted deterministically.
func sortedClaimants(g *cohortGroup) [][32]byte {
	out := make([][32]byte, len(g.claimants))
	for i, row := range g.claimants {
		out[i] = row.Claimant
	}
	return out
}

// crossValidateCohortSets fails if the cohort names referenced by the
// claimant rows and the cohort-share rows differ, describing the
// symmetric difference.
func crossValidateCohortSets(claimantRows []ClaimantRow, shareRows []CohortShareRow) error {
	inClaimants := make(map[string]bool)
	for _, row := range claimantRows {
		inClaimants[row.CohortName] = true
	}
	inShares := make(map[string]bool)
	for _, row := range shareRows {
		inShares[row.CohortName] = true
	}

	var onlyInClaimants, onlyInShares []string
	for name := range inClaimants {
		if !inShares[name] {
			onlyInClaimants = append(onlyInClaimants, name)
		}
	}
	for name := range inShares {
		if !inClaimants[name] {
			onlyInShares = append(onlyInShares, name)
		}
	}
	if len(onlyInClaimants) == 0 && len(onlyInShares) == 0 {
		return nil
	}

	sort.Strings(onlyInClaimants)
	sort.Strings(onlyInShares)
	return errkind.Newf(errkind.CodeCohortSetMismatch,
		"cohort names differ between claimant and share inputs: only in claimants %v, only in shares %v",
		onlyInClaimants, onlyInShares)
}

// groupClaimants groups claimant rows by cohort, rejecting any cohort
// with a duplicate claimant.
func groupClaimants(rows []ClaimantRow) (map[string]*cohortGroup, error) {
	groups := make(map[string]*cohortGroup)
	seen := make(map[string]map[[32]byte]bool)

	for _, row := range rows {
		g, ok := groups[row.CohortName]
		if !ok {
			g = &cohortGroup{name: row.CohortName}
			groups[row.CohortName] = g
			seen[row.CohortName] = make(map[[32]byte]bool)
		}
		if seen[row.CohortName][row.Claimant] {
			return nil, errkind.Newf(errkind.CodeDuplicateClaimant, "cohort %q has duplicate claimant %x", row.CohortName, row.Claimant)
		}
		seen[row.CohortName][row.Claimant] = true
		g.claimants = append(g.claimants, row)
	}
	return groups, nil
}

// vaultCountFor computes ceil(claimantCount / claimantsPerVault),
// saturating to uint8 and failing if it would exceed 255.
func vaultCountFor(claimantCount, claimantsPerVault int) (uint8, error) {
	if claimantsPerVault <= 0 {
		claimantsPerVault = 1
	}
	count := (claimantCount + claimantsPerVault - 1) / claimantsPerVault
	if count == 0 {
		count = 1
	}
	if count > 255 {
		return 0, errkind.Newf(errkind.CodeVaultLimitExceeded, "vault count %d exceeds 255", count)
	}
	return uint8(count), nil
}

// computeFingerprint hashes the concatenation of every cohort's root, in
// canonical (lexicographic by name) order — spec.md §4.6 step 7.
func computeFingerprint(orderedNames []string, groups map[string]*cohortGroup) [32]byte {
	h := sha256.New()
	for _, name := range orderedNames {
		root := groups[name].root
		h.Write(root[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
