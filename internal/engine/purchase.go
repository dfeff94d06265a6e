package engine

import (
	"tapforge/internal/catalog"
	"tapforge/internal/player"
)

// PurchaseReceipt describes one successful single-level purchase.
type PurchaseReceipt struct {
	UpgradeID   string           `json:"upgradeId"`
	Category    catalog.Category `json:"category"`
	NewLevel    int              `json:"newLevel"`
	Cost        float64          `json:"cost"`
	EffectDelta float64          `json:"effectDelta"`
}

// Purchase buys exactly one level of one upgrade. Preconditions are checked
// in a fixed order and the first failure wins: unlock level, level cap,
// affordability. The cost is the one quoted for the pre-purchase level; the
// marginal effect lands on the matching player stat in the same step.
func Purchase(s *player.State, l player.Ledger, def catalog.UpgradeDefinition) (PurchaseReceipt, error) {
	if def.UnlockLevel > s.Level {
		return PurchaseReceipt{}, ErrNotUnlocked
	}

	owned := l.Level(def.ID)
	if def.Capped() && owned >= def.MaxLevel {
		return PurchaseReceipt{}, ErrMaxLevelReached
	}

	cost := def.CostAt(owned)
	if s.Currency < cost {
		return PurchaseReceipt{}, ErrInsufficientFunds
	}

	s.Currency -= cost
	newLevel := owned + 1
	l.SetLevel(def.ID, newLevel)

	delta := def.EffectAt(newLevel) - def.EffectAt(owned)
	switch def.Category {
	case catalog.CategoryYieldPerHour:
		s.LPPerHour += delta
	case catalog.CategoryYieldPerTap:
		s.LPPerTap += delta
	case catalog.CategoryEnergyCapacity:
		s.MaxEnergy += delta
	}

	return PurchaseReceipt{
		UpgradeID:   def.ID,
		Category:    def.Category,
		NewLevel:    newLevel,
		Cost:        cost,
		EffectDelta: delta,
	}, nil
}
