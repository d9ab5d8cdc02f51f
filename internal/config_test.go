package internal

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/nursery/internal/domain"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "src/api/products.json", cfg.CatalogPath)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, "public/images", cfg.Storage.LocalPath)
	assert.Equal(t, "/images", cfg.Storage.LocalURL)
	assert.False(t, cfg.Sentry.Enabled)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("CATALOG_PATH", "data/catalog.json")

	cfg, err := NewConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env, "unknown environments fall back to the default")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data/catalog.json", cfg.CatalogPath)
}

func TestNewConfig_ExplicitValuesWin(t *testing.T) {
	t.Setenv("CATALOG_PATH", "from-env.json")
	v := viper.New()
	v.Set("catalog_path", "from-flag.json")

	cfg, err := NewConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.json", cfg.CatalogPath)
}

func TestNewConfig_Invalid(t *testing.T) {
	t.Run("unknown storage provider", func(t *testing.T) {
		t.Setenv("STORAGE_PROVIDER", "ftp")
		_, err := NewConfig(viper.New())
		require.Error(t, err)
		assert.True(t, domain.IsValidationError(err))
		assert.Equal(t, 2, domain.ExitCode(err))
	})

	t.Run("r2 without credentials", func(t *testing.T) {
		t.Setenv("STORAGE_PROVIDER", "r2")
		t.Setenv("R2_ACCOUNT_ID", "acct")
		_, err := NewConfig(viper.New())
		assert.True(t, domain.IsCode(err, domain.EINVALID))
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", "warn")

	logger.Info().Msg("hidden")
	logger.Warn().Str("file", "products.csv").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "products.csv", entry["file"])
	assert.Contains(t, entry, "time")
}
