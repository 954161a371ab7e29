// Copyright 2025 Prism Protocol

package catalog

// Campaign is the catalog's campaign-level record.
type Campaign struct {
	Address             string
	Admin               string
	BudgetHuman         string
	BudgetToken         uint64
	Mint                string
	MintDecimals        int32
	ClaimantsPerVault   int
	TreeVersion         string
	Fingerprint         string
	ExpectedCohortCount int
	CreatedAt           int64
}

// Cohort is the catalog's cohort-level record.
type Cohort struct {
	Address                   string
	CampaignAddress           string
	Name                      string
	MerkleRoot                string
	VaultCount                int
	TotalEntitlements         uint64
	CohortBudgetHuman         string
	CohortBudgetToken         uint64
	AmountPerEntitlementHuman string
	AmountPerEntitlementToken uint64
	DustHuman                 string
	DustToken                 uint64
}

// Vault is the catalog's vault-level record.
type Vault struct {
	VaultAddress              string
	CohortAddress             string
	VaultIndex                uint8
	BudgetHuman               string
	BudgetToken               uint64
	DustHuman                 string
	DustToken                 uint64
	AmountPerEntitlementHuman string
	AmountPerEntitlementToken uint64
	TotalEntitlements         uint64
}

// Leaf is the catalog's per-claimant leaf record.
type Leaf struct {
	CohortAddress string
	Claimant      string
	Entitlements  uint64
	VaultIndex    uint8
}

// Proof is the catalog's per-claimant serialized merkle proof.
type Proof struct {
	CohortAddress    string
	Claimant         string
	MerkleProofBytes []byte
}

// CompiledCampaign is the in-memory tree the compiler produces before it
// is written to the catalog: one campaign, its cohorts, and each
// cohort's vaults, leaves, and proofs.
type CompiledCampaign struct {
	Campaign Campaign
	Cohorts  []CompiledCohort
}

// CompiledCohort bundles one cohort with its vaults and per-claimant
// artifacts.
type CompiledCohort struct {
	Cohort Cohort
	Vaults []Vault
	Leaves []Leaf
	Proofs []Proof
}
