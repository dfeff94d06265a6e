package config

import (
	"os"
	"strconv"
)

// FromEnv applies environment overrides on top of a loaded balance.
// Ops can tweak live tuning without editing the config file.
func FromEnv(b Balance) Balance {
	if v := getEnvFloat("TAPFORGE_LP_PER_TAP"); v > 0 {
		b.StartingLPPerTap = v
	}
	if v := getEnvFloat("TAPFORGE_LP_PER_HOUR"); v > 0 {
		b.StartingLPPerHour = v
	}
	if v := getEnvFloat("TAPFORGE_MAX_ENERGY"); v > 0 {
		b.StartingMaxEnergy = v
	}
	if v := getEnvFloat("TAPFORGE_ENERGY_REGEN_PER_MINUTE"); v > 0 {
		b.EnergyRegenPerMinute = v
	}
	if v := getEnvInt("TAPFORGE_MAX_OFFLINE_MINUTES"); v > 0 {
		b.MaxOfflineMinutes = v
	}
	return b
}

func getEnvInt(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func getEnvFloat(key string) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}
