package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		original, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, original)
			}
		})
	}
}

func TestLoadAppliesDefaultsWhenOptionalVarsUnset(t *testing.T) {
	clearEnv(t, "LLM_MODEL_NAME", "LLM_BASE_URL", "DB_HOST", "DB_PORT", "DB_NAME",
		"DB_USER", "LOG_LEVEL", "LOG_FORMAT", "MIGRATIONS_PATH", "CI", "ALLOW_AI_IN_CI")
	os.Setenv("CEREBRAS_API_KEY", "test-key")
	t.Cleanup(func() { os.Unsetenv("CEREBRAS_API_KEY") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "llama3.1-70b", cfg.Cerebras.Model)
	assert.Equal(t, "https://api.cerebras.ai/v1", cfg.Cerebras.BaseURL)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.False(t, cfg.CI.IsCI)
}

func TestLoadFailsWithoutAPIKeyOutsideCI(t *testing.T) {
	clearEnv(t, "CEREBRAS_API_KEY", "CI")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadSucceedsWithoutAPIKeyInCI(t *testing.T) {
	clearEnv(t, "CEREBRAS_API_KEY")
	os.Setenv("CI", "true")
	t.Cleanup(func() { os.Unsetenv("CI") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.CI.IsCI)
}

func TestDatabaseDSNPrefersURLOverDiscreteFields(t *testing.T) {
	d := Database{URL: "postgres://example", Host: "h", Port: "5432", Name: "n", User: "u"}
	assert.Equal(t, "postgres://example", d.DSN())
	assert.Equal(t, "postgres://example", d.PostgresURL())
}

func TestDatabaseDSNBuildsFromDiscreteFieldsWhenURLUnset(t *testing.T) {
	d := Database{Host: "h", Port: "5432", Name: "n", User: "u", Password: "p"}
	assert.Contains(t, d.DSN(), "host=h")
	assert.Contains(t, d.DSN(), "dbname=n")
	assert.Contains(t, d.PostgresURL(), "postgres://u:p@h:5432/n")
}

func TestShortCircuitAIOnlyWhenCIWithoutAllowFlag(t *testing.T) {
	assert.True(t, CI{IsCI: true, AllowAIInCI: false}.ShortCircuitAI())
	assert.False(t, CI{IsCI: true, AllowAIInCI: true}.ShortCircuitAI())
	assert.False(t, CI{IsCI: false}.ShortCircuitAI())
}
