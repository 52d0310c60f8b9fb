package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/stellarburgers/internal/flagx"
	"github.com/dmitrijs2005/stellarburgers/internal/timex"
)

// JsonConfig is the on-disk shape of Config.
type JsonConfig struct {
	Addr             string         `json:"addr"`
	SecretKey        string         `json:"secret_key"`
	AccessTokenTTL   timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL  timex.Duration `json:"refresh_token_ttl"`
	CookTime         timex.Duration `json:"cook_time"`
	FirstOrderNumber int            `json:"first_order_number"`
	LogFormat        string         `json:"log_format"`
	LogLevel         string         `json:"log_level"`
}

// parseJson overlays the non-zero fields of the file named by -c or
// -config. Panics on read or decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.Addr, jc.Addr)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.AccessTokenTTL.Duration != 0 {
		cfg.AccessTokenTTL = jc.AccessTokenTTL.Duration
	}
	if jc.RefreshTokenTTL.Duration != 0 {
		cfg.RefreshTokenTTL = jc.RefreshTokenTTL.Duration
	}
	if jc.CookTime.Duration != 0 {
		cfg.CookTime = jc.CookTime.Duration
	}
	if jc.FirstOrderNumber != 0 {
		cfg.FirstOrderNumber = jc.FirstOrderNumber
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
