package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Sync.PageSize)
	assert.Equal(t, 50, cfg.Sync.BatchSize)
	assert.Equal(t, 25000, cfg.Sync.TimeCeilingMs)
	assert.Equal(t, 3000, cfg.Sync.ReconcileMinRemainingMs)
	assert.Equal(t, 10, cfg.Sync.MaxReportedErrors)
	assert.Equal(t, 900, cfg.Sync.LockTTLSeconds)
	assert.Equal(t, 100, cfg.Catalog.MaxPageSize)
	assert.Equal(t, "snapshot", cfg.Catalog.Fallback)
	assert.Equal(t, "P_", cfg.Pricing.SkuPrefix)
	assert.Equal(t, 300, cfg.RateLimit.WindowSeconds)
	assert.Equal(t, 10, cfg.RateLimit.DefaultThreshold)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SYNC_BATCH_SIZE", "25")
	t.Setenv("PRICING_SKU_PREFIX", "EXT_")
	t.Setenv("PRICING_MARKUP_PERCENT", "35")
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Sync.BatchSize)
	assert.Equal(t, "EXT_", cfg.Pricing.SkuPrefix)
	assert.Equal(t, "35", cfg.Pricing.MarkupPercent)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOG_BASE_URL=https://upstream.test\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CATALOG_BASE_URL") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://upstream.test", cfg.Catalog.BaseURL)
}

func TestBindValues_RegistersNestedKeys(t *testing.T) {
	v := viper.New()
	bindValues(v, Config{}, "")

	assert.True(t, v.IsSet("sync.page_size"))
	assert.True(t, v.IsSet("rate_limit.thresholds"))
	assert.Equal(t, "sync.trigger:10", v.GetString("rate_limit.thresholds"))
	assert.Equal(t, "", v.GetString("catalog.api_key"))
}
