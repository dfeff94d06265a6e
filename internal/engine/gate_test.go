package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tapforge/internal/catalog"
	"tapforge/internal/config"
	"tapforge/internal/player"
)

func gateCatalog(t *testing.T, reqs []catalog.LevelRequirement) *catalog.Catalog {
	t.Helper()
	defs := []catalog.UpgradeDefinition{
		{ID: "side_hustle", Category: catalog.CategoryYieldPerHour, BaseCost: 100, CostGrowthFactor: 1.5, BaseEffect: 10, UnlockLevel: 1},
		{ID: "night_shift", Category: catalog.CategoryYieldPerHour, BaseCost: 250, CostGrowthFactor: 1.5, BaseEffect: 25, UnlockLevel: 1},
		{ID: "espresso_bar", Category: catalog.CategoryEnergyCapacity, BaseCost: 80, CostGrowthFactor: 1.4, BaseEffect: 20, UnlockLevel: 1},
		{ID: "gold_fingertips", Category: catalog.CategoryYieldPerTap, BaseCost: 150, CostGrowthFactor: 1.5, BaseEffect: 2, UnlockLevel: 1},
	}
	cat, err := catalog.New(defs, reqs)
	require.NoError(t, err)
	return cat
}

func TestTryAdvance_AllOfNamesEveryOffender(t *testing.T) {
	b := config.DefaultBalance()
	cat := gateCatalog(t, []catalog.LevelRequirement{
		{Level: 2, Requires: []catalog.UpgradeRequirement{
			{Category: catalog.CategoryYieldPerHour, RequiredLevel: 2},
		}},
	})

	s := player.NewState("p1", b)
	l := player.Ledger{"side_hustle": 2, "night_shift": 1}

	out := TryAdvance(&s, l, cat, b)

	require.True(t, out.Blocked())
	assert.Equal(t, 2, out.BlockedLevel)
	require.Len(t, out.Unmet, 1)
	assert.Equal(t, []string{"night_shift"}, out.Unmet[0].FailingUpgradeIDs)
	assert.Equal(t, 1, s.Level)

	// Fixing the named offender unblocks.
	l.SetLevel("night_shift", 2)
	out = TryAdvance(&s, l, cat, b)
	assert.Equal(t, []int{2}, out.LevelsGained)
	assert.Equal(t, 2, s.Level)
}

func TestTryAdvance_AllOfIsVacuouslyTrueWhenNothingOwned(t *testing.T) {
	b := config.DefaultBalance()
	cat := gateCatalog(t, []catalog.LevelRequirement{
		{Level: 2, Requires: []catalog.UpgradeRequirement{
			{Category: catalog.CategoryYieldPerHour, RequiredLevel: 3},
		}},
	})

	s := player.NewState("p1", b)
	out := TryAdvance(&s, player.Ledger{}, cat, b)

	assert.Equal(t, []int{2}, out.LevelsGained)
}

func TestTryAdvance_AnyOfNeedsOneOwned(t *testing.T) {
	b := config.DefaultBalance()
	cat := gateCatalog(t, []catalog.LevelRequirement{
		{Level: 2, Requires: []catalog.UpgradeRequirement{
			{Category: catalog.CategoryEnergyCapacity, RequiredLevel: 2},
		}},
	})

	// Owning nothing of the category fails the any-of branch.
	s := player.NewState("p1", b)
	out := TryAdvance(&s, player.Ledger{}, cat, b)
	require.True(t, out.Blocked())
	require.Len(t, out.Unmet, 1)
	assert.Empty(t, out.Unmet[0].FailingUpgradeIDs)

	// One qualifying upgrade is enough.
	out = TryAdvance(&s, player.Ledger{"espresso_bar": 2}, cat, b)
	assert.Equal(t, []int{2}, out.LevelsGained)
}

func TestTryAdvance_SpecificUpgradeRequirement(t *testing.T) {
	b := config.DefaultBalance()
	cat := gateCatalog(t, []catalog.LevelRequirement{
		{Level: 2, Requires: []catalog.UpgradeRequirement{
			{UpgradeID: "gold_fingertips", RequiredLevel: 3},
		}},
	})

	s := player.NewState("p1", b)
	out := TryAdvance(&s, player.Ledger{"gold_fingertips": 2}, cat, b)
	require.True(t, out.Blocked())
	assert.Equal(t, []string{"gold_fingertips"}, out.Unmet[0].FailingUpgradeIDs)

	out = TryAdvance(&s, player.Ledger{"gold_fingertips": 3}, cat, b)
	assert.Equal(t, []int{2}, out.LevelsGained)
}

func TestTryAdvance_MultiLevelInOneCall(t *testing.T) {
	b := config.DefaultBalance()
	cat := gateCatalog(t, []catalog.LevelRequirement{
		{Level: 2, Requires: []catalog.UpgradeRequirement{
			{UpgradeID: "side_hustle", RequiredLevel: 1},
		}, Reward: catalog.RewardBundle{CurrencyBonus: 100}},
		{Level: 3, Requires: []catalog.UpgradeRequirement{
			{UpgradeID: "side_hustle", RequiredLevel: 2},
		}, Reward: catalog.RewardBundle{YieldPerTapBonus: 1, UnlockIDs: []string{"wheel_of_fortune"}}},
		{Level: 4, Requires: []catalog.UpgradeRequirement{
			{UpgradeID: "night_shift", RequiredLevel: 5},
		}},
	})

	s := player.NewState("p1", b)
	tapBefore := s.LPPerTap
	l := player.Ledger{"side_hustle": 2}

	out := TryAdvance(&s, l, cat, b)

	assert.Equal(t, []int{2, 3}, out.LevelsGained)
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, 100.0, s.Currency)
	assert.Equal(t, tapBefore+1, s.LPPerTap)
	require.Len(t, out.Rewards, 2)
	assert.Equal(t, []string{"wheel_of_fortune"}, out.Rewards[1].UnlockIDs)

	// Level 4 blocked the loop; partial progress still stands.
	assert.Equal(t, 4, out.BlockedLevel)
}

func TestTryAdvance_NeverSkipsABlockedLevel(t *testing.T) {
	b := config.DefaultBalance()
	cat := gateCatalog(t, []catalog.LevelRequirement{
		{Level: 2, Requires: []catalog.UpgradeRequirement{
			{UpgradeID: "night_shift", RequiredLevel: 5},
		}},
		// Level 3 would be satisfied, but it sits behind level 2.
		{Level: 3},
	})

	s := player.NewState("p1", b)
	out := TryAdvance(&s, player.Ledger{}, cat, b)

	assert.Empty(t, out.LevelsGained)
	assert.Equal(t, 2, out.BlockedLevel)
	assert.Equal(t, 1, s.Level)
}

func TestTryAdvance_NoThresholdConfigured(t *testing.T) {
	b := config.DefaultBalance()
	cat := gateCatalog(t, []catalog.LevelRequirement{
		{Level: 2},
	})

	s := player.NewState("p1", b)
	out := TryAdvance(&s, player.Ledger{}, cat, b)
	require.Equal(t, []int{2}, out.LevelsGained)

	// Past the last configured threshold the gate simply stops.
	out = TryAdvance(&s, player.Ledger{}, cat, b)
	assert.Empty(t, out.LevelsGained)
	assert.False(t, out.Blocked())
	assert.Equal(t, 2, s.Level)
}

func TestApplyReward_RefreshesXPCurve(t *testing.T) {
	b := config.DefaultBalance()
	s := player.NewState("p1", b)
	s.Level = 3

	ApplyReward(&s, 3, catalog.RewardBundle{EnergyCapBonus: 50}, b)

	assert.Equal(t, b.StartingMaxEnergy+50, s.MaxEnergy)
	assert.Equal(t, b.XPPerLevel*3, s.XPToNext)
}
