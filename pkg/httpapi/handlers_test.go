// Copyright 2025 Prism Protocol

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/prism-protocol/prism/pkg/catalog"
	"github.com/prism-protocol/prism/pkg/compiler"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixture bundles a live Handlers plus the addresses the compiler
// derived, so tests can hit the HTTP surface without re-deriving PDAs.
type fixture struct {
	handlers        *Handlers
	campaignAddress string
	cohortAddress   string
	claimantB58     string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	client, err := catalog.NewClient(ctx, "file:httpapi_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	repos := catalog.NewRepositories(client)

	var claimant [32]byte
	claimant[0] = 0x42
	var admin [32]byte
	admin[0] = 0x01

	in := compiler.Input{
		CampaignRows: []compiler.ClaimantRow{
			{CohortName: "Alpha", Claimant: claimant, Entitlements: 10},
		},
		CohortRows: []compiler.CohortShareRow{
			{CohortName: "Alpha", SharePercentage: decimal.NewFromInt(100)},
		},
		TotalBudget:       decimal.NewFromInt(100),
		MintDecimals:      0,
		Admin:             admin,
		ClaimantsPerVault: 10,
		TreeVersion:       compiler.TreeVersionV0,
	}
	compiled, err := compiler.New(nil).Compile(ctx, in)
	require.NoError(t, err)
	require.NoError(t, repos.WriteCompiledCampaign(ctx, *compiled))
	require.Len(t, compiled.Cohorts, 1)

	return fixture{
		handlers:        New(repos, nil),
		campaignAddress: compiled.Campaign.Address,
		cohortAddress:   compiled.Cohorts[0].Cohort.Address,
		claimantB58:     base58.Encode(claimant[:]),
	}
}

func TestHandleHealth(t *testing.T) {
	h := New(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	h.HandleHealth(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestHandleCampaign_RoundTrip(t *testing.T) {
	fx := newFixture(t)
	mux := fx.handlers.Mux()

	req := httptest.NewRequest(http.MethodGet, "/campaigns/"+fx.campaignAddress, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got catalog.Campaign
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, fx.campaignAddress, got.Address)
}

func TestHandleCampaign_NotFound(t *testing.T) {
	fx := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/campaigns/does-not-exist", nil)
	rr := httptest.NewRecorder()

	fx.handlers.HandleCampaign(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleCampaign_MethodNotAllowed(t *testing.T) {
	h := New(nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/campaigns/abc", nil)
	rr := httptest.NewRecorder()

	h.HandleCampaign(rr, req)

	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleCohortsByCampaign(t *testing.T) {
	fx := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/cohorts/"+fx.campaignAddress, nil)
	rr := httptest.NewRecorder()

	fx.handlers.HandleCohortsByCampaign(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var cohorts []catalog.Cohort
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cohorts))
	require.Len(t, cohorts, 1)
	require.Equal(t, "Alpha", cohorts[0].Name)
}

func TestHandleVaultsByCohort(t *testing.T) {
	fx := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/vaults/"+fx.cohortAddress, nil)
	rr := httptest.NewRecorder()

	fx.handlers.HandleVaultsByCohort(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var vaults []catalog.Vault
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vaults))
	require.Len(t, vaults, 1)
	require.Equal(t, uint64(100), vaults[0].BudgetToken)
}

func TestHandleClaimProof_BadPath(t *testing.T) {
	h := New(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/claim-proof/onlyonesegment", nil)
	rr := httptest.NewRecorder()

	h.HandleClaimProof(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleClaimProof_FullRoundTrip(t *testing.T) {
	fx := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/claim-proof/"+fx.cohortAddress+"/"+fx.claimantB58, nil)
	rr := httptest.NewRecorder()

	fx.handlers.HandleClaimProof(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp ClaimProofResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, uint64(10), resp.Entitlements)
	require.NotEmpty(t, resp.ProofHex)
	require.NotEmpty(t, resp.MerkleRoot)
}

func TestHandleClaimProof_UnknownClaimant(t *testing.T) {
	fx := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/claim-proof/"+fx.cohortAddress+"/"+base58.Encode(make([]byte, 32)), nil)
	rr := httptest.NewRecorder()

	fx.handlers.HandleClaimProof(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
