package catalog

// Seed returns the built-in catalog used when no catalog file is configured.
// Numbers mirror the stock balance: early levels are reachable in a session,
// later thresholds want several upgrade lines levelled in parallel.
func Seed() *Catalog {
	upgrades := []UpgradeDefinition{
		{
			ID:                 "side_hustle",
			Name:               "Side Hustle",
			Category:           CategoryYieldPerHour,
			BaseCost:           100,
			CostGrowthFactor:   1.5,
			BaseEffect:         10,
			EffectGrowthFactor: 0.5,
			UnlockLevel:        1,
		},
		{
			ID:                 "night_shift",
			Name:               "Night Shift",
			Category:           CategoryYieldPerHour,
			BaseCost:           250,
			CostGrowthFactor:   1.5,
			BaseEffect:         25,
			EffectGrowthFactor: 0.5,
			UnlockLevel:        1,
		},
		{
			ID:                 "penthouse_suite",
			Name:               "Penthouse Suite",
			Category:           CategoryYieldPerHour,
			BaseCost:           2000,
			CostGrowthFactor:   1.6,
			BaseEffect:         150,
			EffectGrowthFactor: 0.4,
			UnlockLevel:        3,
		},
		{
			ID:                 "gold_fingertips",
			Name:               "Gold Fingertips",
			Category:           CategoryYieldPerTap,
			BaseCost:           150,
			CostGrowthFactor:   1.5,
			BaseEffect:         1,
			EffectGrowthFactor: 1,
			UnlockLevel:        1,
		},
		{
			ID:                 "silk_gloves",
			Name:               "Silk Gloves",
			Category:           CategoryYieldPerTap,
			BaseCost:           900,
			CostGrowthFactor:   1.55,
			BaseEffect:         5,
			EffectGrowthFactor: 0.6,
			MaxLevel:           25,
			UnlockLevel:        2,
		},
		{
			ID:                 "espresso_bar",
			Name:               "Espresso Bar",
			Category:           CategoryEnergyCapacity,
			BaseCost:           200,
			CostGrowthFactor:   1.4,
			BaseEffect:         25,
			EffectGrowthFactor: 0.2,
			MaxLevel:           40,
			UnlockLevel:        1,
		},
		{
			ID:                 "gym_membership",
			Name:               "Gym Membership",
			Category:           CategoryEnergyCapacity,
			BaseCost:           1200,
			CostGrowthFactor:   1.45,
			BaseEffect:         60,
			EffectGrowthFactor: 0.25,
			MaxLevel:           30,
			UnlockLevel:        2,
		},
	}

	levels := []LevelRequirement{
		{
			Level: 2,
			Requires: []UpgradeRequirement{
				{Category: CategoryYieldPerHour, RequiredLevel: 2},
			},
			Reward: RewardBundle{
				CurrencyBonus:  500,
				EnergyCapBonus: 25,
				UnlockIDs:      []string{"silk_gloves", "gym_membership"},
			},
		},
		{
			Level: 3,
			Requires: []UpgradeRequirement{
				{Category: CategoryYieldPerHour, RequiredLevel: 4},
				{Category: CategoryYieldPerTap, RequiredLevel: 3},
			},
			Reward: RewardBundle{
				CurrencyBonus:     2000,
				EnergyCapBonus:    50,
				YieldPerTapBonus:  2,
				UnlockIDs:         []string{"penthouse_suite"},
				YieldPerHourBonus: 20,
			},
		},
		{
			Level: 4,
			Requires: []UpgradeRequirement{
				{Category: CategoryYieldPerHour, RequiredLevel: 6},
				{Category: CategoryEnergyCapacity, RequiredLevel: 5},
				{UpgradeID: "gold_fingertips", RequiredLevel: 5},
			},
			Reward: RewardBundle{
				CurrencyBonus:     8000,
				EnergyCapBonus:    75,
				YieldPerHourBonus: 100,
			},
		},
		{
			Level: 5,
			Requires: []UpgradeRequirement{
				{Category: CategoryYieldPerHour, RequiredLevel: 9},
				{Category: CategoryYieldPerTap, RequiredLevel: 8},
				{UpgradeID: "penthouse_suite", RequiredLevel: 3},
			},
			Reward: RewardBundle{
				CurrencyBonus:     30000,
				EnergyCapBonus:    100,
				YieldPerTapBonus:  10,
				YieldPerHourBonus: 250,
				UnlockIDs:         []string{"wheel_of_fortune"},
			},
		},
	}

	c, err := New(upgrades, levels)
	if err != nil {
		// The seed is compiled in; failing validation is a programming error.
		panic(err)
	}
	return c
}
