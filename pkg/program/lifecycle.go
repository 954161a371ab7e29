// Copyright 2025 Prism Protocol

package program

import "github.com/prism-protocol/prism/pkg/errkind"

// requireAdmin fails with CodeCampaignAdminMismatch unless caller matches
// the campaign's recorded admin. Every admin-gated operation below takes
// the caller's claimed admin identity as an explicit parameter.
func requireAdmin(c *Campaign, caller [32]byte) error {
	if c.Admin != caller {
		return errkind.New(errkind.CodeCampaignAdminMismatch, "caller is not the campaign admin")
	}
	return nil
}

// InitializeCampaign sets up a fresh campaign account in status Inactive
// with all counters at zero.
func InitializeCampaign(c *Campaign, admin, mint [32]byte, mintDecimals uint8, expectedCohortCount uint8, fingerprint [32]byte, bump uint8) error {
	if expectedCohortCount == 0 {
		return errkind.New(errkind.CodeNoCohortsExpected, "expected_cohort_count must be > 0")
	}

	c.Bump = bump
	c.Admin = admin
	c.Mint = mint
	c.MintDecimals = mintDecimals
	c.Fingerprint = fingerprint
	c.ExpectedCohortCount = expectedCohortCount
	c.InitializedCohortCount = 0
	c.ActivatedCohortCount = 0
	c.Status = StatusInactive
	c.Unstoppable = false
	c.GoLiveSlot = 0
	c.FinalDBIPFSHash = [32]byte{}
	return nil
}

// InitializeCohort registers a new cohort under campaign, advancing its
// initialized-cohort counter.
func InitializeCohort(caller [32]byte, campaign *Campaign, cohort *Cohort, expectedVaultCount uint8, merkleRoot [32]byte, amountPerEntitlement uint64, bump uint8) error {
	if err := requireAdmin(campaign, caller); err != nil {
		return err
	}
	if campaign.Status != StatusInactive {
		return errkind.New(errkind.CodeCampaignIsActive, "cannot initialize a cohort once the campaign has left Inactive")
	}
	if campaign.InitializedCohortCount >= campaign.ExpectedCohortCount {
		return errkind.New(errkind.CodeTooManyCohorts, "initialized_cohort_count already reached expected_cohort_count")
	}
	if expectedVaultCount == 0 {
		return errkind.New(errkind.CodeNoVaultsExpected, "expected_vault_count must be > 0")
	}

	cohort.Bump = bump
	cohort.Campaign = campaign.Address
	cohort.MerkleRoot = merkleRoot
	cohort.AmountPerEntitlement = amountPerEntitlement
	cohort.ExpectedVaultCount = expectedVaultCount
	cohort.InitializedVaultCount = 0
	cohort.ActivatedVaultCount = 0

	campaign.InitializedCohortCount++
	return nil
}

// InitializeVault registers a new vault under cohort at vaultIndex,
// advancing the cohort's initialized-vault counter.
func InitializeVault(caller [32]byte, campaign *Campaign, cohort *Cohort, vault *Vault, vaultIndex uint8, bump uint8) error {
	if err := requireAdmin(campaign, caller); err != nil {
		return err
	}
	if campaign.Status != StatusInactive {
		return errkind.New(errkind.CodeCampaignIsActive, "cannot initialize a vault once the campaign has left Inactive")
	}
	if cohort.InitializedVaultCount >= cohort.ExpectedVaultCount {
		return errkind.New(errkind.CodeTooManyVaults, "initialized_vault_count already reached expected_vault_count")
	}
	if vaultIndex >= cohort.ExpectedVaultCount {
		return errkind.New(errkind.CodeVaultIndexOutOfBounds, "vault_index exceeds expected_vault_count")
	}

	vault.Bump = bump
	vault.Cohort = cohort.Address
	vault.VaultIndex = vaultIndex
	vault.Balance = 0

	cohort.InitializedVaultCount++
	return nil
}

// FundVault credits amount to vault. Funding is an external token
// transfer the admin authorizes before activation; it is only legal
// while the owning campaign is still Inactive.
func FundVault(campaign *Campaign, vault *Vault, amount uint64) error {
	if campaign.Status != StatusInactive {
		return errkind.New(errkind.CodeCampaignIsActive, "cannot fund a vault once the campaign has left Inactive")
	}
	newBalance := vault.Balance + amount
	if newBalance < vault.Balance {
		return errkind.New(errkind.CodeNumericOverflow, "funding overflowed vault balance")
	}
	vault.Balance = newBalance
	return nil
}

// ActivateVault marks vault activated once its balance exactly matches
// expectedBalance, advancing the cohort's activated-vault counter.
func ActivateVault(caller [32]byte, campaign *Campaign, cohort *Cohort, vault *Vault, expectedBalance uint64) error {
	if err := requireAdmin(campaign, caller); err != nil {
		return err
	}
	if cohort.ActivatedVaultCount >= cohort.InitializedVaultCount {
		return errkind.New(errkind.CodeNotAllVaultsActivated, "no remaining initialized vault to activate")
	}
	if vault.Balance != expectedBalance {
		return errkind.Newf(errkind.CodeIncorrectVaultFunding, "vault balance %d does not match required %d", vault.Balance, expectedBalance)
	}

	cohort.ActivatedVaultCount++
	return nil
}

// ActivateCohort marks cohort activated once every expected vault has
// been activated, advancing the campaign's activated-cohort counter.
func ActivateCohort(caller [32]byte, campaign *Campaign, cohort *Cohort) error {
	if err := requireAdmin(campaign, caller); err != nil {
		return err
	}
	if cohort.ActivatedVaultCount != cohort.ExpectedVaultCount {
		return errkind.New(errkind.CodeNotAllVaultsActivated, "activated_vault_count does not equal expected_vault_count")
	}

	campaign.ActivatedCohortCount++
	return nil
}

// ActivateCampaign transitions campaign Inactive -> Active once every
// expected cohort has been initialized and activated, and stores the
// final IPFS hash and go-live slot.
func ActivateCampaign(caller [32]byte, campaign *Campaign, ipfsHash [32]byte, goLiveSlot uint64, currentSlot uint64) error {
	if err := requireAdmin(campaign, caller); err != nil {
		return err
	}
	if campaign.Status != StatusInactive {
		return errkind.New(errkind.CodeCampaignAlreadyActivated, "campaign has already left Inactive")
	}
	if campaign.ActivatedCohortCount != campaign.ExpectedCohortCount || campaign.InitializedCohortCount != campaign.ExpectedCohortCount {
		return errkind.New(errkind.CodeNotAllCohortsActivated, "activated/initialized cohort counts do not equal expected_cohort_count")
	}
	if ipfsHash == ([32]byte{}) {
		return errkind.New(errkind.CodeInvalidIPFSHash, "final_db_ipfs_hash cannot be empty")
	}
	if goLiveSlot < currentSlot {
		return errkind.New(errkind.CodeGoLiveSlotInPast, "go_live_slot is before the current slot")
	}

	campaign.Status = StatusActive
	campaign.FinalDBIPFSHash = ipfsHash
	campaign.GoLiveSlot = goLiveSlot
	return nil
}

// MakeUnstoppable sets the campaign's irreversible unstoppable flag.
// Once set, Pause and PermanentlyHalt both fail for the life of the
// campaign.
func MakeUnstoppable(caller [32]byte, campaign *Campaign) error {
	if err := requireAdmin(campaign, caller); err != nil {
		return err
	}
	if campaign.Status != StatusActive {
		return errkind.New(errkind.CodeCampaignNotActive, "campaign must be Active to become unstoppable")
	}
	if campaign.Unstoppable {
		return errkind.New(errkind.CodeCampaignIsUnstoppable, "campaign is already unstoppable")
	}

	campaign.Unstoppable = true
	return nil
}

// PauseCampaign transitions Active -> Paused.
func PauseCampaign(caller [32]byte, campaign *Campaign) error {
	if err := requireAdmin(campaign, caller); err != nil {
		return err
	}
	if campaign.Status != StatusActive {
		return errkind.New(errkind.CodeCampaignNotActive, "campaign must be Active to pause")
	}
	if campaign.Unstoppable {
		return errkind.New(errkind.CodeCampaignIsUnstoppable, "cannot pause an unstoppable campaign")
	}

	campaign.Status = StatusPaused
	return nil
}

// ResumeCampaign transitions Paused -> Active.
func ResumeCampaign(caller [32]byte, campaign *Campaign) error {
	if err := requireAdmin(campaign, caller); err != nil {
		return err
	}
	if campaign.Status != StatusPaused {
		return errkind.New(errkind.CodeCampaignNotPaused, "campaign must be Paused to resume")
	}

	campaign.Status = StatusActive
	return nil
}

// PermanentlyHalt transitions Active or Paused -> PermanentlyHalted.
// This transition is irreversible: no further lifecycle transition is
// ever permitted afterward.
func PermanentlyHalt(caller [32]byte, campaign *Campaign) error {
	if err := requireAdmin(campaign, caller); err != nil {
		return err
	}
	if campaign.Status != StatusActive && campaign.Status != StatusPaused {
		return errkind.New(errkind.CodeInvalidStatusTransition, "campaign must be Active or Paused to halt")
	}
	if campaign.Unstoppable {
		return errkind.New(errkind.CodeCampaignIsUnstoppable, "cannot halt an unstoppable campaign")
	}

	campaign.Status = StatusPermanentlyHalted
	return nil
}
