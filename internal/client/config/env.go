package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name in the Config env tags,
// e.g. BURGER_API_URL.
const EnvPrefix = "BURGER_"

// parseEnv overlays Config with the environment. Unset variables leave the
// field as it is. Durations use time.ParseDuration syntax ("15s").
// Panics on malformed values, like the other loaders.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
