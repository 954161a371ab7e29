// Copyright 2025 Prism Protocol

package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// LeafRepository handles per-claimant leaf-row persistence.
type LeafRepository struct {
	client *Client
}

// NewLeafRepository creates a LeafRepository.
func NewLeafRepository(client *Client) *LeafRepository {
	return &LeafRepository{client: client}
}

// Insert writes a single leaf row.
func (r *LeafRepository) Insert(ctx context.Context, execer sqlExecer, l Leaf) error {
	_, err := execer.ExecContext(ctx, `
		INSERT INTO leaf (cohort_address, claimant, entitlements, vault_index)
		VALUES (?, ?, ?, ?)`,
		l.CohortAddress, l.Claimant, l.Entitlements, l.VaultIndex,
	)
	if err != nil {
		return fmt.Errorf("catalog: insert leaf: %w", err)
	}
	return nil
}

// Get fetches a claimant's leaf within a cohort.
func (r *LeafRepository) Get(ctx context.Context, cohortAddress, claimant string) (*Leaf, error) {
	row := r.client.DB().QueryRowContext(ctx, `
		SELECT cohort_address, claimant, entitlements, vault_index
		FROM leaf WHERE cohort_address = ? AND claimant = ?`, cohortAddress, claimant)

	var l Leaf
	err := row.Scan(&l.CohortAddress, &l.Claimant, &l.Entitlements, &l.VaultIndex)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get leaf: %w", err)
	}
	return &l, nil
}
