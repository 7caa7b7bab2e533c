package accesspolicy

import (
	"os"
	"strconv"

	"frota/pkg/roles"
)

// Config holds the level thresholds the policy compares against.
// Levels are deployment configuration, not hard-coded policy.
type Config struct {
	SupervisorLevel int
	ManagerLevel    int
	DirectorLevel   int
}

func DefaultConfig() Config {
	return Config{
		SupervisorLevel: roles.SupervisorLevel,
		ManagerLevel:    roles.ManagerLevel,
		DirectorLevel:   roles.DirectorLevel,
	}
}

// ConfigFromEnv reads threshold overrides, falling back to the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.SupervisorLevel = envLevel("POLICY_SUPERVISOR_LEVEL", cfg.SupervisorLevel)
	cfg.ManagerLevel = envLevel("POLICY_MANAGER_LEVEL", cfg.ManagerLevel)
	cfg.DirectorLevel = envLevel("POLICY_DIRECTOR_LEVEL", cfg.DirectorLevel)
	return cfg
}

func envLevel(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	level, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return level
}
