package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/amterp/kanpad/internal/model"
)

// ApplyEnv overlays KANPAD_* environment variables onto cfg.
// Unset variables leave the file-loaded values in place.
func ApplyEnv(cfg *model.GlobalConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// ApplyEnvFrom is ApplyEnv over an explicit environment instead of the process's.
func ApplyEnvFrom(cfg *model.GlobalConfig, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}
