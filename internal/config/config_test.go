package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"billmaker/internal/gst"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/billmaker")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 18.0, cfg.Tax.RatePercent)
	assert.Equal(t, gst.DisplayEqual, cfg.SplitPolicy())
	assert.Equal(t, "2523", cfg.Seller.HSNCode)
	assert.Equal(t, "Bag", cfg.Seller.Unit)
	assert.Equal(t, 72*time.Hour, cfg.Jobs.PDFRetention)
	assert.Equal(t, "invoices", cfg.Minio.Bucket)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/billmaker")
	t.Setenv("GST_RATE_PERCENT", "28")
	t.Setenv("GST_SPLIT_POLICY", "sum-exact")
	t.Setenv("PDF_RETENTION", "24h")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("JWKS_URL", "https://clerk.example.com/.well-known/jwks.json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 28.0, cfg.Tax.RatePercent)
	assert.Equal(t, gst.SumExact, cfg.SplitPolicy())
	assert.Equal(t, 24*time.Hour, cfg.Jobs.PDFRetention)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Minio.UseSSL)
	assert.Equal(t, "https://clerk.example.com/.well-known/jwks.json", cfg.Auth.JWKSURL)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
database:
  url: postgres://file/billmaker
seller:
  name: ACME TRADERS
  gstin: 29ABCDE1234F1Z5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/billmaker", cfg.Database.URL)
	assert.Equal(t, "ACME TRADERS", cfg.Seller.Name)
	assert.Equal(t, "29ABCDE1234F1Z5", cfg.Seller.GSTIN)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GST_RATE_PERCENT", "100")
	t.Setenv("GST_SPLIT_POLICY", "bankers")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
	assert.Contains(t, err.Error(), "GST_RATE_PERCENT")
	assert.Contains(t, err.Error(), "GST_SPLIT_POLICY")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&Config{LogLevel: "debug"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(&Config{LogLevel: "loud"})
	assert.Error(t, err)
}
