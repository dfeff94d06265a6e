package catalog

import "fmt"

// validate fails fast on corrupt catalog data so that a bad deployment can
// never silently sell free or infinitely cheap upgrades.
func validate(defs []UpgradeDefinition, reqs []LevelRequirement) error {
	ids := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("catalog: upgrade with empty id")
		}
		if ids[d.ID] {
			return fmt.Errorf("catalog: duplicate upgrade id %q", d.ID)
		}
		ids[d.ID] = true
		if !d.Category.Valid() {
			return fmt.Errorf("catalog: upgrade %q has unknown category %q", d.ID, d.Category)
		}
		if d.BaseCost <= 0 {
			return fmt.Errorf("catalog: upgrade %q has non-positive base cost %v", d.ID, d.BaseCost)
		}
		if d.CostGrowthFactor <= 1.0 {
			return fmt.Errorf("catalog: upgrade %q has cost growth factor %v, must be > 1.0", d.ID, d.CostGrowthFactor)
		}
		if d.BaseEffect < 0 {
			return fmt.Errorf("catalog: upgrade %q has negative base effect %v", d.ID, d.BaseEffect)
		}
		if d.EffectGrowthFactor < 0 {
			return fmt.Errorf("catalog: upgrade %q has negative effect growth factor %v", d.ID, d.EffectGrowthFactor)
		}
		if d.MaxLevel < 0 {
			return fmt.Errorf("catalog: upgrade %q has negative max level %d", d.ID, d.MaxLevel)
		}
		if d.UnlockLevel < 1 {
			return fmt.Errorf("catalog: upgrade %q has unlock level %d, must be >= 1", d.ID, d.UnlockLevel)
		}
	}

	seenLevels := make(map[int]bool, len(reqs))
	for _, r := range reqs {
		if r.Level < 2 {
			return fmt.Errorf("catalog: level requirement for level %d, thresholds start at 2", r.Level)
		}
		if seenLevels[r.Level] {
			return fmt.Errorf("catalog: duplicate level requirement for level %d", r.Level)
		}
		seenLevels[r.Level] = true
		for i, ur := range r.Requires {
			if ur.RequiredLevel < 1 {
				return fmt.Errorf("catalog: level %d requirement %d has required level %d, must be >= 1", r.Level, i, ur.RequiredLevel)
			}
			if ur.UpgradeID != "" {
				if !ids[ur.UpgradeID] {
					return fmt.Errorf("catalog: level %d requirement %d references unknown upgrade %q", r.Level, i, ur.UpgradeID)
				}
				continue
			}
			if !ur.Category.Valid() {
				return fmt.Errorf("catalog: level %d requirement %d has unknown category %q", r.Level, i, ur.Category)
			}
		}
	}
	return nil
}
