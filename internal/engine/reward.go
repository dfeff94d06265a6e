package engine

import (
	"tapforge/internal/catalog"
	"tapforge/internal/config"
	"tapforge/internal/player"
)

// AppliedReward records the bundle one gained level actually granted.
// UnlockIDs are surfaced to the caller; feature flags are an external
// collaborator's concern and never stored here.
type AppliedReward struct {
	Level             int      `json:"level"`
	CurrencyBonus     float64  `json:"currencyBonus,omitempty"`
	EnergyCapBonus    float64  `json:"energyCapBonus,omitempty"`
	YieldPerHourBonus float64  `json:"yieldPerHourBonus,omitempty"`
	YieldPerTapBonus  float64  `json:"yieldPerTapBonus,omitempty"`
	UnlockIDs         []string `json:"unlockIds,omitempty"`
}

// ApplyReward adds every present bundle field onto the player state and
// refreshes the XP display curve for the new level.
func ApplyReward(s *player.State, level int, r catalog.RewardBundle, b config.Balance) AppliedReward {
	s.Currency += r.CurrencyBonus
	s.MaxEnergy += r.EnergyCapBonus
	s.LPPerHour += r.YieldPerHourBonus
	s.LPPerTap += r.YieldPerTapBonus
	s.XPToNext = b.XPPerLevel * s.Level

	applied := AppliedReward{
		Level:             level,
		CurrencyBonus:     r.CurrencyBonus,
		EnergyCapBonus:    r.EnergyCapBonus,
		YieldPerHourBonus: r.YieldPerHourBonus,
		YieldPerTapBonus:  r.YieldPerTapBonus,
	}
	if len(r.UnlockIDs) > 0 {
		applied.UnlockIDs = append([]string{}, r.UnlockIDs...)
	}
	return applied
}
