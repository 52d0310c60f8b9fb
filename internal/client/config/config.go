package config

import "time"

// Config holds runtime settings for the Stellar Burgers client.
//
// Fields:
//   - APIBaseURL: root of the burger REST API.
//   - DatabasePath: SQLite file that keeps the refresh token between runs.
//   - RequestTimeout: per-request HTTP timeout.
//   - RefreshSkew: refresh an access token this long before it expires.
//   - LogFormat, LogLevel: see logging.New.
type Config struct {
	APIBaseURL     string        `env:"API_URL"`
	DatabasePath   string        `env:"DATABASE_PATH"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	RefreshSkew    time.Duration `env:"REFRESH_SKEW"`
	LogFormat      string        `env:"LOG_FORMAT"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://norma.nomoreparties.space/api"
	c.DatabasePath = "stellarburgers.db"
	c.RequestTimeout = 10 * time.Second
	c.RefreshSkew = 30 * time.Second
	c.LogFormat = "text"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
