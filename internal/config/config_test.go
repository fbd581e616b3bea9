package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("SECRET_KEY", "")

	_, err := Load("", true, false)
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "missing")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_KEY", "k")
	t.Setenv("SECRET_KEY", "s")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load("", true, true)
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "s", cfg.SecretKey)
	assert.True(t, cfg.Testnet)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 100.0, cfg.MinNotionalUSD)
	assert.Equal(t, 10.0, cfg.MarginFloorUSD)
	assert.Equal(t, 20, cfg.DefaultLeverage)
}

func TestLoad_FileOverride(t *testing.T) {
	t.Setenv("API_KEY", "env-key")
	t.Setenv("SECRET_KEY", "env-secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(
		"api_key: file-key\n" +
			"testnet: false\n" +
			"min_notional_usd: 50\n" +
			"default_leverage: 5\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path, true, false)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "env-secret", cfg.SecretKey) // untouched by file
	assert.False(t, cfg.Testnet)
	assert.Equal(t, 50.0, cfg.MinNotionalUSD)
	assert.Equal(t, 5, cfg.DefaultLeverage)
}

func TestLoad_BadFile(t *testing.T) {
	t.Setenv("API_KEY", "k")
	t.Setenv("SECRET_KEY", "s")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true, false)
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
}
