// Copyright 2025 Prism Protocol

package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// CohortRepository handles cohort-row persistence.
type CohortRepository struct {
	client *Client
}

// NewCohortRepository creates a CohortRepository.
func NewCohortRepository(client *Client) *CohortRepository {
	return &CohortRepository{client: client}
}

// Insert writes a single cohort row.
func (r *CohortRepository) Insert(ctx context.Context, execer sqlExecer, c Cohort) error {
	_, err := execer.ExecContext(ctx, `
		INSERT INTO cohort (
			address, campaign_address, name, merkle_root, vault_count, total_entitlements,
			cohort_budget_human, cohort_budget_token, amount_per_entitlement_human,
			amount_per_entitlement_token, dust_human, dust_token
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Address, c.CampaignAddress, c.Name, c.MerkleRoot, c.VaultCount, c.TotalEntitlements,
		c.CohortBudgetHuman, c.CohortBudgetToken, c.AmountPerEntitlementHuman,
		c.AmountPerEntitlementToken, c.DustHuman, c.DustToken,
	)
	if err != nil {
		return fmt.Errorf("catalog: insert cohort: %w", err)
	}
	return nil
}

// Get fetches a cohort by its own address.
func (r *CohortRepository) Get(ctx context.Context, address string) (*Cohort, error) {
	row := r.client.DB().QueryRowContext(ctx, `
		SELECT address, campaign_address, name, merkle_root, vault_count, total_entitlements,
			cohort_budget_human, cohort_budget_token, amount_per_entitlement_human,
			amount_per_entitlement_token, dust_human, dust_token
		FROM cohort WHERE address = ?`, address)

	var c Cohort
	err := row.Scan(&c.Address, &c.CampaignAddress, &c.Name, &c.MerkleRoot, &c.VaultCount,
		&c.TotalEntitlements, &c.CohortBudgetHuman, &c.CohortBudgetToken, &c.AmountPerEntitlementHuman,
		&c.AmountPerEntitlementToken, &c.DustHuman, &c.DustToken)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get cohort: %w", err)
	}
	return &c, nil
}

// ListByCampaign returns every cohort belonging to a campaign.
func (r *CohortRepository) ListByCampaign(ctx context.Context, campaignAddress string) ([]Cohort, error) {
	rows, err := r.client.DB().QueryContext(ctx, `
		SELECT address, campaign_address, name, merkle_root, vault_count, total_entitlements,
			cohort_budget_human, cohort_budget_token, amount_per_entitlement_human,
			amount_per_entitlement_token, dust_human, dust_token
		FROM cohort WHERE campaign_address = ?`, campaignAddress)
	if err != nil {
		return nil, fmt.Errorf("catalog: list cohorts: %w", err)
	}
	defer rows.Close()

	var out []Cohort
	for rows.Next() {
		var c Cohort
		if err := rows.Scan(&c.Address, &c.CampaignAddress, &c.Name, &c.MerkleRoot, &c.VaultCount,
			&c.TotalEntitlements, &c.CohortBudgetHuman, &c.CohortBudgetToken, &c.AmountPerEntitlementHuman,
			&c.AmountPerEntitlementToken, &c.DustHuman, &c.DustToken); err != nil {
			return nil, fmt.Errorf("catalog: scan cohort: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
