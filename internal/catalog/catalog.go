// Package catalog holds the configured upgrade definitions and level
// requirements. It is read-only at runtime: admin tooling edits the catalog
// file, the engine only looks things up. All cost and effect formulas live
// here so that no other layer ever recomputes them.
package catalog

import (
	"math"
	"sort"
)

// Category groups upgrades by the player stat they improve.
type Category string

const (
	CategoryYieldPerHour   Category = "yield_per_hour"
	CategoryEnergyCapacity Category = "energy_capacity"
	CategoryYieldPerTap    Category = "yield_per_tap"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryYieldPerHour, CategoryEnergyCapacity, CategoryYieldPerTap:
		return true
	}
	return false
}

// UpgradeDefinition describes one purchasable upgrade.
type UpgradeDefinition struct {
	ID                 string   `yaml:"id" json:"id"`
	Name               string   `yaml:"name" json:"name"`
	Category           Category `yaml:"category" json:"category"`
	BaseCost           float64  `yaml:"base_cost" json:"baseCost"`
	CostGrowthFactor   float64  `yaml:"cost_growth_factor" json:"costGrowthFactor"`
	BaseEffect         float64  `yaml:"base_effect" json:"baseEffect"`
	EffectGrowthFactor float64  `yaml:"effect_growth_factor" json:"effectGrowthFactor"`
	// MaxLevel caps purchases; 0 means uncapped.
	MaxLevel int `yaml:"max_level,omitempty" json:"maxLevel,omitempty"`
	// UnlockLevel is the player level required to see or buy the upgrade.
	UnlockLevel int `yaml:"unlock_level" json:"unlockLevel"`
}

// CostAt returns the price of buying the next level when the player already
// owns `level` levels. CostAt(def, 0) == BaseCost.
func (d UpgradeDefinition) CostAt(level int) float64 {
	if level < 0 {
		level = 0
	}
	return math.Floor(d.BaseCost * math.Pow(d.CostGrowthFactor, float64(level)))
}

// EffectAt returns the total stat contribution of the upgrade at an owned
// level. An unowned upgrade (level 0) contributes nothing; from level 1 up
// the contribution grows linearly on top of the base effect.
func (d UpgradeDefinition) EffectAt(level int) float64 {
	if level <= 0 {
		return 0
	}
	return d.BaseEffect + d.BaseEffect*d.EffectGrowthFactor*float64(level)
}

// Capped reports whether the definition has a level cap.
func (d UpgradeDefinition) Capped() bool { return d.MaxLevel > 0 }

// UpgradeRequirement is one condition inside a level threshold.
//
// Evaluation rules are asymmetric on purpose and must stay that way:
//   - UpgradeID set: that specific upgrade must be at RequiredLevel.
//   - UpgradeID empty, Category yield_per_hour: every currently owned upgrade
//     of the category must individually be at RequiredLevel (all-of).
//   - UpgradeID empty, other categories: at least one owned upgrade of the
//     category at RequiredLevel satisfies it (any-of).
type UpgradeRequirement struct {
	Category      Category `yaml:"category,omitempty" json:"category,omitempty"`
	UpgradeID     string   `yaml:"upgrade_id,omitempty" json:"upgradeId,omitempty"`
	RequiredLevel int      `yaml:"required_level" json:"requiredLevel"`
}

// RewardBundle is granted when a level threshold is passed.
type RewardBundle struct {
	CurrencyBonus     float64  `yaml:"currency_bonus,omitempty" json:"currencyBonus,omitempty"`
	EnergyCapBonus    float64  `yaml:"energy_cap_bonus,omitempty" json:"energyCapBonus,omitempty"`
	YieldPerHourBonus float64  `yaml:"yield_per_hour_bonus,omitempty" json:"yieldPerHourBonus,omitempty"`
	YieldPerTapBonus  float64  `yaml:"yield_per_tap_bonus,omitempty" json:"yieldPerTapBonus,omitempty"`
	UnlockIDs         []string `yaml:"unlock_ids,omitempty" json:"unlockIds,omitempty"`
}

// LevelRequirement gates one integer player level.
type LevelRequirement struct {
	Level    int                  `yaml:"level" json:"level"`
	Requires []UpgradeRequirement `yaml:"requires" json:"requires"`
	Reward   RewardBundle         `yaml:"reward" json:"reward"`
}

// Catalog is the validated, indexed view over definitions and requirements.
type Catalog struct {
	upgrades   map[string]UpgradeDefinition
	ordered    []UpgradeDefinition
	byCategory map[Category][]UpgradeDefinition
	levels     map[int]LevelRequirement
	levelList  []LevelRequirement
}

// New validates the raw definitions and requirements and builds the indexed
// catalog. Any misconfiguration is fatal here, never at purchase time.
func New(defs []UpgradeDefinition, reqs []LevelRequirement) (*Catalog, error) {
	if err := validate(defs, reqs); err != nil {
		return nil, err
	}

	c := &Catalog{
		upgrades:   make(map[string]UpgradeDefinition, len(defs)),
		byCategory: make(map[Category][]UpgradeDefinition),
		levels:     make(map[int]LevelRequirement, len(reqs)),
	}
	for _, d := range defs {
		c.upgrades[d.ID] = d
		c.byCategory[d.Category] = append(c.byCategory[d.Category], d)
	}
	c.ordered = append(c.ordered, defs...)
	sort.Slice(c.ordered, func(i, j int) bool {
		if c.ordered[i].UnlockLevel != c.ordered[j].UnlockLevel {
			return c.ordered[i].UnlockLevel < c.ordered[j].UnlockLevel
		}
		return c.ordered[i].ID < c.ordered[j].ID
	})
	for cat := range c.byCategory {
		list := c.byCategory[cat]
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	for _, r := range reqs {
		c.levels[r.Level] = r
	}
	c.levelList = append(c.levelList, reqs...)
	sort.Slice(c.levelList, func(i, j int) bool { return c.levelList[i].Level < c.levelList[j].Level })
	return c, nil
}

// Upgrade looks up a definition by id.
func (c *Catalog) Upgrade(id string) (UpgradeDefinition, bool) {
	d, ok := c.upgrades[id]
	return d, ok
}

// Upgrades returns all definitions ordered by unlock level, then id.
func (c *Catalog) Upgrades() []UpgradeDefinition {
	out := make([]UpgradeDefinition, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// UpgradesByCategory returns the definitions of one category, id-ordered.
func (c *Catalog) UpgradesByCategory(cat Category) []UpgradeDefinition {
	src := c.byCategory[cat]
	out := make([]UpgradeDefinition, len(src))
	copy(out, src)
	return out
}

// Requirement returns the threshold gating the given player level.
func (c *Catalog) Requirement(level int) (LevelRequirement, bool) {
	r, ok := c.levels[level]
	return r, ok
}

// Requirements returns all thresholds in ascending level order.
func (c *Catalog) Requirements() []LevelRequirement {
	out := make([]LevelRequirement, len(c.levelList))
	copy(out, c.levelList)
	return out
}

// RequirementCount bounds the level-gate advancement loop.
func (c *Catalog) RequirementCount() int { return len(c.levelList) }
