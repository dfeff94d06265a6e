package engine

import (
	"tapforge/internal/catalog"
	"tapforge/internal/config"
	"tapforge/internal/player"
)

// AdvanceOutcome reports sequential level-gate evaluation: every level
// gained in this call, the rewards applied per level in level order, and,
// when a configured threshold blocked further progress, the first blocking
// level with its unmet requirements.
type AdvanceOutcome struct {
	LevelsGained []int              `json:"levelsGained"`
	Rewards      []AppliedReward    `json:"rewards"`
	BlockedLevel int                `json:"blockedLevel,omitempty"`
	Unmet        []UnmetRequirement `json:"unmet,omitempty"`
}

// Blocked reports whether a configured threshold stopped the loop.
func (o AdvanceOutcome) Blocked() bool { return o.BlockedLevel != 0 }

// TryAdvance grants every consecutive level whose requirements are already
// satisfied, starting at the player's level + 1. The loop is bounded by the
// number of configured thresholds, never recursive, and never skips an
// intermediate level: the first unsatisfied threshold stops everything
// behind it regardless of later levels.
func TryAdvance(s *player.State, l player.Ledger, cat *catalog.Catalog, b config.Balance) AdvanceOutcome {
	var out AdvanceOutcome

	for i := 0; i < cat.RequirementCount(); i++ {
		req, ok := cat.Requirement(s.Level + 1)
		if !ok {
			break
		}
		unmet := evaluateRequirements(req, l, cat)
		if len(unmet) > 0 {
			out.BlockedLevel = req.Level
			out.Unmet = unmet
			break
		}
		s.Level = req.Level
		out.LevelsGained = append(out.LevelsGained, req.Level)
		out.Rewards = append(out.Rewards, ApplyReward(s, req.Level, req.Reward, b))
	}
	return out
}

// evaluateRequirements checks every condition of one threshold. The three
// branches are deliberately spelled out one by one; collapsing them into a
// generic any/all switch has mis-ported this logic before.
func evaluateRequirements(req catalog.LevelRequirement, l player.Ledger, cat *catalog.Catalog) []UnmetRequirement {
	var unmet []UnmetRequirement
	for _, r := range req.Requires {
		// Branch 1: a specific upgrade must be at the threshold.
		if r.UpgradeID != "" {
			if l.Level(r.UpgradeID) < r.RequiredLevel {
				unmet = append(unmet, UnmetRequirement{
					Requirement:       r,
					FailingUpgradeIDs: []string{r.UpgradeID},
				})
			}
			continue
		}

		// Branch 2: yield-per-hour category is all-of over every owned
		// upgrade of the category. Owning none satisfies it vacuously.
		if r.Category == catalog.CategoryYieldPerHour {
			var failing []string
			for _, def := range cat.UpgradesByCategory(r.Category) {
				lvl := l.Level(def.ID)
				if lvl >= 1 && lvl < r.RequiredLevel {
					failing = append(failing, def.ID)
				}
			}
			if len(failing) > 0 {
				unmet = append(unmet, UnmetRequirement{
					Requirement:       r,
					FailingUpgradeIDs: failing,
				})
			}
			continue
		}

		// Branch 3: the other categories are any-of; at least one owned
		// upgrade of the category must be at the threshold.
		satisfied := false
		for _, def := range cat.UpgradesByCategory(r.Category) {
			if l.Level(def.ID) >= r.RequiredLevel {
				satisfied = true
				break
			}
		}
		if !satisfied {
			unmet = append(unmet, UnmetRequirement{Requirement: r})
		}
	}
	return unmet
}
