// Copyright 2025 Prism Protocol

package address

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seed(b byte) [32]byte {
	var s [32]byte
	s[0] = b
	return s
}

func TestDeriveCampaign_Deterministic(t *testing.T) {
	admin := seed(1)
	fingerprint := seed(2)

	first, err := DeriveCampaign(admin, fingerprint)
	require.NoError(t, err)

	second, err := DeriveCampaign(admin, fingerprint)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestDeriveCampaign_IsOffCurve(t *testing.T) {
	d, err := DeriveCampaign(seed(3), seed(4))
	require.NoError(t, err)
	require.True(t, isOffCurve(d.Address))
}

func TestDerivations_DistinctSeedsDistinctAddresses(t *testing.T) {
	admin := seed(5)
	fp := seed(6)

	campaign, err := DeriveCampaign(admin, fp)
	require.NoError(t, err)

	cohort, err := DeriveCohort(campaign.Address, seed(7))
	require.NoError(t, err)
	require.NotEqual(t, campaign.Address, cohort.Address)

	receipt, err := DeriveReceipt(cohort.Address, seed(8))
	require.NoError(t, err)
	require.NotEqual(t, cohort.Address, receipt.Address)

	vault0, err := DeriveVault(cohort.Address, 0)
	require.NoError(t, err)
	vault1, err := DeriveVault(cohort.Address, 1)
	require.NoError(t, err)
	require.NotEqual(t, vault0.Address, vault1.Address)
}

func TestDerived_StringIsBase58(t *testing.T) {
	d, err := DeriveCampaign(seed(9), seed(10))
	require.NoError(t, err)
	require.NotEmpty(t, d.String())
}

func TestEqual(t *testing.T) {
	a := seed(11)
	b := seed(11)
	c := seed(12)
	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
}
