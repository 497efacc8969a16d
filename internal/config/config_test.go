package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 250, cfg.Paging.SoftLimit)
	assert.Equal(t, 2000, cfg.Paging.HardLimit)
	assert.True(t, cfg.MetricsEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "treeindex.json")
	data := []byte(`{"domain":"https://ldes.example.org","paging":{"softLimit":100,"hardLimit":500}}`)
	require.NoError(t, os.WriteFile(file, data, 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "https://ldes.example.org", cfg.Domain)
	assert.Equal(t, 100, cfg.Paging.SoftLimit)
	assert.Equal(t, 500, cfg.Paging.HardLimit)
	assert.Equal(t, ":8080", cfg.HTTPAddr, "unset keys keep defaults")
}

func TestLoadYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "treeindex.yaml")
	data := []byte("domain: https://ldes.example.org\nhttpAddr: \":3000\"\nlog:\n  level: debug\n  format: json\n")
	require.NoError(t, os.WriteFile(file, data, 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 250, cfg.Paging.SoftLimit)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("paging: [1, 2"), 0o644))
	_, err = Load(file)
	assert.Error(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TREEINDEX_DOMAIN", "https://env.example.org")
	t.Setenv("TREEINDEX_PAGING_SOFT_LIMIT", "10")
	t.Setenv("TREEINDEX_LOG_LEVEL", "warn")
	t.Setenv("TREEINDEX_METRICS_ENABLED", "false")

	cfg := Default()
	require.NoError(t, FromEnv(&cfg))
	assert.Equal(t, "https://env.example.org", cfg.Domain)
	assert.Equal(t, 10, cfg.Paging.SoftLimit)
	assert.Equal(t, 2000, cfg.Paging.HardLimit)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestFromEnvInvalid(t *testing.T) {
	t.Setenv("TREEINDEX_PAGING_HARD_LIMIT", "lots")
	cfg := Default()
	assert.Error(t, FromEnv(&cfg))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Domain = "example.org"
	cfg.Paging = Paging{SoftLimit: 0, HardLimit: -1}
	cfg.Fsync = "sometimes"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain")
	assert.Contains(t, err.Error(), "softLimit")
	assert.Contains(t, err.Error(), "hardLimit")
	assert.Contains(t, err.Error(), "fsync")
}
