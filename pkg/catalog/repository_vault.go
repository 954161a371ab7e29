// Copyright 2025 Prism Protocol

package catalog

import (
	"context"
	"fmt"
)

// VaultRepository handles vault-row persistence.
type VaultRepository struct {
	client *Client
}

// NewVaultRepository creates a VaultRepository.
func NewVaultRepository(client *Client) *VaultRepository {
	return &VaultRepository{client: client}
}

// Insert writes a single vault row.
func (r *VaultRepository) Insert(ctx context.Context, execer sqlExecer, v Vault) error {
	_, err := execer.ExecContext(ctx, `
		INSERT INTO vault (
			vault_address, cohort_address, vault_index, budget_human, budget_token,
			dust_human, dust_token, amount_per_entitlement_human, amount_per_entitlement_token,
			total_entitlements
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VaultAddress, v.CohortAddress, v.VaultIndex, v.BudgetHuman, v.BudgetToken,
		v.DustHuman, v.DustToken, v.AmountPerEntitlementHuman, v.AmountPerEntitlementToken,
		v.TotalEntitlements,
	)
	if err != nil {
		return fmt.Errorf("catalog: insert vault: %w", err)
	}
	return nil
}

// ListByCohort returns every vault belonging to a cohort, ordered by
// vault index.
func (r *VaultRepository) ListByCohort(ctx context.Context, cohortAddress string) ([]Vault, error) {
	rows, err := r.client.DB().QueryContext(ctx, `
		SELECT vault_address, cohort_address, vault_index, budget_human, budget_token,
			dust_human, dust_token, amount_per_entitlement_human, amount_per_entitlement_token,
			total_entitlements
		FROM vault WHERE cohort_address = ? ORDER BY vault_index`, cohortAddress)
	if err != nil {
		return nil, fmt.Errorf("catalog: list vaults: %w", err)
	}
	defer rows.Close()

	var out []Vault
	for rows.Next() {
		var v Vault
		if err := rows.Scan(&v.VaultAddress, &v.CohortAddress, &v.VaultIndex, &v.BudgetHuman,
			&v.BudgetToken, &v.DustHuman, &v.DustToken, &v.AmountPerEntitlementHuman,
			&v.AmountPerEntitlementToken, &v.TotalEntitlements); err != nil {
			return nil, fmt.Errorf("catalog: scan vault: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
