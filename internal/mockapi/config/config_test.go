package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"mockapi"}, args...)
}

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()
	assert.Empty(t, cmp.Diff(defaults(), *cfg))
	assert.Equal(t, time.Minute, cfg.AccessTokenTTL)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.json")
	data, err := json.Marshal(map[string]any{
		"addr":               ":9000",
		"secret_key":         "from-json",
		"cook_time":          "2s",
		"first_order_number": 500,
		"access_token_ttl":   "5m",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("MOCKAPI_SECRET_KEY", "from-env")
	t.Setenv("MOCKAPI_LOG_FORMAT", "text")
	withArgs(t, "-config", path, "-a", ":9100", "-v")

	cfg := LoadConfig()

	want := defaults()
	want.Addr = ":9100"         // flag beats json
	want.SecretKey = "from-env" // env beats json
	want.CookTime = 2 * time.Second
	want.FirstOrderNumber = 500
	want.AccessTokenTTL = 5 * time.Minute
	want.LogFormat = "text"
	want.LogLevel = "debug"
	assert.Empty(t, cmp.Diff(want, *cfg))
}

func TestLoadConfig_BadEnvPanics(t *testing.T) {
	t.Setenv("MOCKAPI_COOK_TIME", "soon")
	withArgs(t)

	assert.Panics(t, func() { LoadConfig() })
}
