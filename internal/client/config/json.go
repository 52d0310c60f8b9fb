package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/stellarburgers/internal/flagx"
	"github.com/dmitrijs2005/stellarburgers/internal/timex"
)

// fileConfig mirrors Config for the JSON file. Durations accept "10s" or
// integer nanoseconds.
type fileConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	DatabasePath   string         `json:"database_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	RefreshSkew    timex.Duration `json:"refresh_skew"`
	LogFormat      string         `json:"log_format"`
	LogLevel       string         `json:"log_level"`
}

func readFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// overlay copies the keys present in the file onto cfg.
func (fc *fileConfig) overlay(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.RefreshSkew.Duration != 0 {
		cfg.RefreshSkew = fc.RefreshSkew.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson applies the file named by -c or -config, if any.
// Panics when the file cannot be read or parsed.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}
	fc, err := readFileConfig(path)
	if err != nil {
		panic(err)
	}
	fc.overlay(cfg)
}
