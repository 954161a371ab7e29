// Copyright 2025 Prism Protocol

package program

import "github.com/prism-protocol/prism/pkg/errkind"

// ReclaimTokens drains vault's entire remaining balance back to the
// admin once the campaign is PermanentlyHalted. Reclaiming an empty
// vault is a no-op success that returns zero.
func ReclaimTokens(caller [32]byte, campaign *Campaign, vault *Vault) (uint64, error) {
	if err := requireAdmin(campaign, caller); err != nil {
		return 0, err
	}
	if campaign.Status != StatusPermanentlyHalted {
		return 0, errkind.New(errkind.CodeCampaignNotPermanentlyHalted, "campaign must be PermanentlyHalted to reclaim")
	}

	amount := vault.Balance
	vault.Balance = 0
	return amount, nil
}
