// Copyright 2025 Prism Protocol
//
// Repositories is the single point of access to all compiled-catalog
// entity repositories.

package catalog

import (
	"context"
	"fmt"
)

// Repositories holds one repository per catalog entity.
type Repositories struct {
	Campaigns *CampaignRepository
	Cohorts   *CohortRepository
	Vaults    *VaultRepository
	Leaves    *LeafRepository
	Proofs    *ProofRepository

	client *Client
}

// NewRepositories creates all repositories sharing the given client.
func NewRepositories(client *Client) *Repositories {
	return &Repositories{
		Campaigns: NewCampaignRepository(client),
		Cohorts:   NewCohortRepository(client),
		Vaults:    NewVaultRepository(client),
		Leaves:    NewLeafRepository(client),
		Proofs:    NewProofRepository(client),
		client:    client,
	}
}

// WriteCompiledCampaign persists an entire compiled campaign atomically:
// the campaign, every cohort, and every cohort's vaults, leaves, and
// proofs, or none of them. Once committed, the rows are the catalog's
// immutable record of the compilation.
func (r *Repositories) WriteCompiledCampaign(ctx context.Context, compiled CompiledCampaign) error {
	tx, err := r.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin write: %w", err)
	}
	defer tx.Rollback()

	if err := r.Campaigns.Insert(ctx, tx, compiled.Campaign); err != nil {
		return err
	}

	for _, cc := range compiled.Cohorts {
		if err := r.Cohorts.Insert(ctx, tx, cc.Cohort); err != nil {
			return err
		}
		for _, v := range cc.Vaults {
			if err := r.Vaults.Insert(ctx, tx, v); err != nil {
				return err
			}
		}
		for _, l := range cc.Leaves {
			if err := r.Leaves.Insert(ctx, tx, l); err != nil {
				return err
			}
		}
		for _, p := range cc.Proofs {
			if err := r.Proofs.Insert(ctx, tx, p); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
