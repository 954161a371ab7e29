// Copyright 2025 Prism Protocol
//
// HTTP query API over the compiled catalog. Handlers follow the
// teacher's per-resource handler struct convention (see
// pkg/server/ledger_handlers.go and pkg/server/batch_handlers.go):
// a struct holding its collaborators, a New constructor, and one
// HandleXxx method per endpoint that sets the JSON content type first
// and reports errors through writeJSONError.

package httpapi

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prism-protocol/prism/pkg/catalog"
)

// Handlers serves read-only queries against a compiled catalog.
type Handlers struct {
	repos  *catalog.Repositories
	logger *slog.Logger
}

// New creates a Handlers backed by repos. A nil logger falls back to
// slog.Default().
func New(repos *catalog.Repositories, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{repos: repos, logger: logger}
}

// Mux builds an http.ServeMux with every route registered.
func (h *Handlers) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/campaigns/", h.HandleCampaign)
	mux.HandleFunc("/cohorts/", h.HandleCohortsByCampaign)
	mux.HandleFunc("/cohort/", h.HandleCohort)
	mux.HandleFunc("/vaults/", h.HandleVaultsByCohort)
	mux.HandleFunc("/claim-proof/", h.HandleClaimProof)
	return mux
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleCampaign handles GET /campaigns/{address}.
func (h *Handlers) HandleCampaign(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := strings.TrimPrefix(r.URL.Path, "/campaigns/")
	if address == "" || address == r.URL.Path {
		writeJSONError(w, "campaign address required", http.StatusBadRequest)
		return
	}

	campaign, err := h.repos.Campaigns.Get(r.Context(), address)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("failed to load campaign: %v", err), http.StatusInternalServerError)
		return
	}
	if campaign == nil {
		writeJSONError(w, "campaign not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(campaign)
}

// HandleCohortsByCampaign handles GET /cohorts/{campaignAddress}.
func (h *Handlers) HandleCohortsByCampaign(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	campaignAddress := strings.TrimPrefix(r.URL.Path, "/cohorts/")
	if campaignAddress == "" || campaignAddress == r.URL.Path {
		writeJSONError(w, "campaign address required", http.StatusBadRequest)
		return
	}

	cohorts, err := h.repos.Cohorts.ListByCampaign(r.Context(), campaignAddress)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("failed to list cohorts: %v", err), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(cohorts)
}

// HandleCohort handles GET /cohort/{address}, returning the cohort and
// its vaults together.
func (h *Handlers) HandleCohort(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cohortAddress := strings.TrimPrefix(r.URL.Path, "/cohort/")
	if cohortAddress == "" || cohortAddress == r.URL.Path {
		writeJSONError(w, "cohort address required", http.StatusBadRequest)
		return
	}

	cohort, err := h.repos.Cohorts.Get(r.Context(), cohortAddress)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("failed to load cohort: %v", err), http.StatusInternalServerError)
		return
	}
	if cohort == nil {
		writeJSONError(w, "cohort not found", http.StatusNotFound)
		return
	}

	vaults, err := h.repos.Vaults.ListByCohort(r.Context(), cohortAddress)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("failed to load vaults: %v", err), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"cohort_address": cohortAddress,
		"cohort":         cohort,
		"vaults":         vaults,
	})
}

// HandleVaultsByCohort handles GET /vaults/{cohortAddress}.
func (h *Handlers) HandleVaultsByCohort(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cohortAddress := strings.TrimPrefix(r.URL.Path, "/vaults/")
	if cohortAddress == "" || cohortAddress == r.URL.Path {
		writeJSONError(w, "cohort address required", http.StatusBadRequest)
		return
	}

	vaults, err := h.repos.Vaults.ListByCohort(r.Context(), cohortAddress)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("failed to list vaults: %v", err), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(vaults)
}

// ClaimProofResponse is the API shape for a claimant's claim material:
// everything an airdrop client needs to submit a claim instruction.
type ClaimProofResponse struct {
	CohortAddress string `json:"cohort_address"`
	Claimant      string `json:"claimant"`
	Entitlements  uint64 `json:"entitlements"`
	VaultIndex    uint8  `json:"vault_index"`
	MerkleRoot    string `json:"merkle_root"`
	ProofHex      string `json:"proof_hex"`
}

// HandleClaimProof handles GET /claim-proof/{cohortAddress}/{claimant}.
func (h *Handlers) HandleClaimProof(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/claim-proof/")
	if rest == "" || rest == r.URL.Path {
		writeJSONError(w, "cohort address and claimant required", http.StatusBadRequest)
		return
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeJSONError(w, "expected path /claim-proof/{cohortAddress}/{claimant}", http.StatusBadRequest)
		return
	}
	cohortAddress, claimant := parts[0], parts[1]

	leaf, err := h.repos.Leaves.Get(r.Context(), cohortAddress, claimant)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("failed to load leaf: %v", err), http.StatusInternalServerError)
		return
	}
	if leaf == nil {
		writeJSONError(w, "claimant not found in cohort", http.StatusNotFound)
		return
	}

	proof, err := h.repos.Proofs.Get(r.Context(), cohortAddress, claimant)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("failed to load proof: %v", err), http.StatusInternalServerError)
		return
	}
	if proof == nil {
		writeJSONError(w, "proof not found for claimant", http.StatusNotFound)
		return
	}

	cohort, err := h.repos.Cohorts.Get(r.Context(), cohortAddress)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("failed to load cohort: %v", err), http.StatusInternalServerError)
		return
	}
	if cohort == nil {
		writeJSONError(w, "cohort not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(ClaimProofResponse{
		CohortAddress: cohortAddress,
		Claimant:      claimant,
		Entitlements:  leaf.Entitlements,
		VaultIndex:    leaf.VaultIndex,
		MerkleRoot:    cohort.MerkleRoot,
		ProofHex:      hex.EncodeToString(proof.MerkleProofBytes),
	})
}
