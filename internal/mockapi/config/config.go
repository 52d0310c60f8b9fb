// Package config loads the settings of the development API: defaults, then
// an optional JSON file, then the environment, then command-line flags.
package config

import "time"

// Config holds runtime settings for the development API.
//
// Fields:
//   - Addr: listen address of the HTTP server.
//   - SecretKey: HMAC key for access tokens (HS256). Development only.
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
//   - CookTime: how long an order stays pending before it is done.
//   - FirstOrderNumber: number given to the first order.
type Config struct {
	Addr             string        `env:"ADDR"`
	SecretKey        string        `env:"SECRET_KEY"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL"`
	CookTime         time.Duration `env:"COOK_TIME"`
	FirstOrderNumber int           `env:"FIRST_ORDER_NUMBER"`
	LogFormat        string        `env:"LOG_FORMAT"`
	LogLevel         string        `env:"LOG_LEVEL"`
}

// LoadDefaults sets short token lifetimes so clients hit the refresh path
// within a normal session.
func (c *Config) LoadDefaults() {
	c.Addr = "localhost:8080"
	c.SecretKey = "secretKey"
	c.AccessTokenTTL = 1 * time.Minute
	c.RefreshTokenTTL = 24 * time.Hour
	c.CookTime = 15 * time.Second
	c.FirstOrderNumber = 1000
	c.LogFormat = "json"
	c.LogLevel = "info"
}

func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
