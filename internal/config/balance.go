package config

// Balance holds economy and progression tuning. Every engine operation takes
// its numbers from here so that a deployment can rebalance without a rebuild.
type Balance struct {
	// Starting stats for a freshly created player.
	StartingCurrency  float64 `yaml:"starting_currency" json:"starting_currency"`
	StartingMaxEnergy float64 `yaml:"starting_max_energy" json:"starting_max_energy"`
	StartingLPPerHour float64 `yaml:"starting_lp_per_hour" json:"starting_lp_per_hour"`
	StartingLPPerTap  float64 `yaml:"starting_lp_per_tap" json:"starting_lp_per_tap"`

	// Tap and accrual rates.
	EnergyPerTap         float64 `yaml:"energy_per_tap" json:"energy_per_tap"`
	EnergyRegenPerMinute float64 `yaml:"energy_regen_per_minute" json:"energy_regen_per_minute"`

	// MaxOfflineMinutes caps how much elapsed time a single tick may credit.
	// 0 means unbounded.
	MaxOfflineMinutes int `yaml:"max_offline_minutes" json:"max_offline_minutes"`

	// XP display curve. Levels are granted by the level gate, never by XP.
	XPPerTap   int `yaml:"xp_per_tap" json:"xp_per_tap"`
	XPPerLevel int `yaml:"xp_per_level" json:"xp_per_level"`
}

// DefaultBalance returns the stock tuning.
func DefaultBalance() Balance {
	return Balance{
		StartingCurrency:     0,
		StartingMaxEnergy:    100,
		StartingLPPerHour:    10,
		StartingLPPerTap:     1,
		EnergyPerTap:         1,
		EnergyRegenPerMinute: 1,
		MaxOfflineMinutes:    0,
		XPPerTap:             1,
		XPPerLevel:           100,
	}
}

func (b *Balance) ApplyDefaults() {
	d := DefaultBalance()
	if b.StartingMaxEnergy <= 0 {
		b.StartingMaxEnergy = d.StartingMaxEnergy
	}
	if b.StartingLPPerHour <= 0 {
		b.StartingLPPerHour = d.StartingLPPerHour
	}
	if b.StartingLPPerTap <= 0 {
		b.StartingLPPerTap = d.StartingLPPerTap
	}
	if b.EnergyPerTap <= 0 {
		b.EnergyPerTap = d.EnergyPerTap
	}
	if b.EnergyRegenPerMinute <= 0 {
		b.EnergyRegenPerMinute = d.EnergyRegenPerMinute
	}
	if b.MaxOfflineMinutes < 0 {
		b.MaxOfflineMinutes = 0
	}
	if b.XPPerTap <= 0 {
		b.XPPerTap = d.XPPerTap
	}
	if b.XPPerLevel <= 0 {
		b.XPPerLevel = d.XPPerLevel
	}
}
