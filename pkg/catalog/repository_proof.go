// Copyright 2025 Prism Protocol

package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// ProofRepository handles per-claimant serialized merkle proof
// persistence.
type ProofRepository struct {
	client *Client
}

// NewProofRepository creates a ProofRepository.
func NewProofRepository(client *Client) *ProofRepository {
	return &ProofRepository{client: client}
}

// Insert writes a single proof row.
func (r *ProofRepository) Insert(ctx context.Context, execer sqlExecer, p Proof) error {
	_, err := execer.ExecContext(ctx, `
		INSERT INTO proof (cohort_address, claimant, merkle_proof_bytes)
		VALUES (?, ?, ?)`,
		p.CohortAddress, p.Claimant, p.MerkleProofBytes,
	)
	if err != nil {
		return fmt.Errorf("catalog: insert proof: %w", err)
	}
	return nil
}

// Get fetches a claimant's serialized proof within a cohort.
func (r *ProofRepository) Get(ctx context.Context, cohortAddress, claimant string) (*Proof, error) {
	row := r.client.DB().QueryRowContext(ctx, `
		SELECT cohort_address, claimant, merkle_proof_bytes
		FROM proof WHERE cohort_address = ? AND claimant = ?`, cohortAddress, claimant)

	var p Proof
	err := row.Scan(&p.CohortAddress, &p.Claimant, &p.MerkleProofBytes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get proof: %w", err)
	}
	return &p, nil
}
