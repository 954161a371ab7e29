// Copyright 2025 Prism Protocol

package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// CampaignRepository handles campaign-row persistence.
type CampaignRepository struct {
	client *Client
}

// NewCampaignRepository creates a CampaignRepository.
func NewCampaignRepository(client *Client) *CampaignRepository {
	return &CampaignRepository{client: client}
}

// Insert writes a single campaign row.
func (r *CampaignRepository) Insert(ctx context.Context, execer sqlExecer, c Campaign) error {
	_, err := execer.ExecContext(ctx, `
		INSERT INTO campaign (
			address, admin, budget_human, budget_token, mint, mint_decimals,
			claimants_per_vault, tree_version, fingerprint, expected_cohort_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Address, c.Admin, c.BudgetHuman, c.BudgetToken, c.Mint, c.MintDecimals,
		c.ClaimantsPerVault, c.TreeVersion, c.Fingerprint, c.ExpectedCohortCount, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("catalog: insert campaign: %w", err)
	}
	return nil
}

// Get fetches a campaign by address.
func (r *CampaignRepository) Get(ctx context.Context, address string) (*Campaign, error) {
	row := r.client.DB().QueryRowContext(ctx, `
		SELECT address, admin, budget_human, budget_token, mint, mint_decimals,
			claimants_per_vault, tree_version, fingerprint, expected_cohort_count, created_at
		FROM campaign WHERE address = ?`, address)

	var c Campaign
	err := row.Scan(&c.Address, &c.Admin, &c.BudgetHuman, &c.BudgetToken, &c.Mint, &c.MintDecimals,
		&c.ClaimantsPerVault, &c.TreeVersion, &c.Fingerprint, &c.ExpectedCohortCount, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get campaign: %w", err)
	}
	return &c, nil
}

// sqlExecer is satisfied by both *sql.DB and *sql.Tx, letting repository
// methods run inside or outside a transaction.
type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
