package engine

import (
	"tapforge/internal/catalog"
	"tapforge/internal/player"
)

// UpgradeQuote is the engine-computed shop line for one upgrade. Cost is the
// price of the next level; Effect the current total contribution.
type UpgradeQuote struct {
	Upgrade    catalog.UpgradeDefinition `json:"upgrade"`
	OwnedLevel int                       `json:"ownedLevel"`
	Cost       float64                   `json:"cost"`
	Effect     float64                   `json:"effect"`
	NextEffect float64                   `json:"nextEffect"`
	Unlocked   bool                      `json:"unlocked"`
	AtCap      bool                      `json:"atCap"`
	Affordable bool                      `json:"affordable"`
}

// Quotes prices every catalog upgrade against one player's state.
func Quotes(s player.State, l player.Ledger, cat *catalog.Catalog) []UpgradeQuote {
	defs := cat.Upgrades()
	out := make([]UpgradeQuote, 0, len(defs))
	for _, def := range defs {
		owned := l.Level(def.ID)
		cost := def.CostAt(owned)
		q := UpgradeQuote{
			Upgrade:    def,
			OwnedLevel: owned,
			Cost:       cost,
			Effect:     def.EffectAt(owned),
			NextEffect: def.EffectAt(owned + 1),
			Unlocked:   def.UnlockLevel <= s.Level,
			AtCap:      def.Capped() && owned >= def.MaxLevel,
			Affordable: s.Currency >= cost,
		}
		out = append(out, q)
	}
	return out
}

// VisibleQuotes filters to upgrades the player's level has unlocked.
func VisibleQuotes(s player.State, l player.Ledger, cat *catalog.Catalog) []UpgradeQuote {
	all := Quotes(s, l, cat)
	out := make([]UpgradeQuote, 0, len(all))
	for _, q := range all {
		if q.Unlocked {
			out = append(out, q)
		}
	}
	return out
}
