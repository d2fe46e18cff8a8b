package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VARHUB_ADDR", "GDC_BASE_URL", "ENSEMBL_BASE_URL", "CBIO_BASE_URL",
		"CBIO_TOKEN", "REDIS_ADDR", "CACHE_TTL", "JWT_SIGNING_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DefaultGDCBaseURL, cfg.GDCBaseURL)
	assert.Equal(t, DefaultEnsemblBaseURL, cfg.EnsemblBaseURL)
	assert.Equal(t, DefaultCBioBaseURL, cfg.CBioBaseURL)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Empty(t, cfg.CBioToken)
	assert.Empty(t, cfg.RedisAddr)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VARHUB_ADDR", ":9090")
	t.Setenv("CBIO_BASE_URL", "http://localhost:9999/api")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "http://localhost:9999/api", cfg.CBioBaseURL)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestFromEnvRejectsBadTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_TTL", "not-a-duration")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestFromEnvRejectsRelativeBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("GDC_BASE_URL", "api.gdc.cancer.gov")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GDC_BASE_URL")
}

func TestNormalizeBearerToken(t *testing.T) {
	assert.Equal(t, "", NormalizeBearerToken("   "))
	assert.Equal(t, "Bearer abc", NormalizeBearerToken("abc"))
	assert.Equal(t, "Bearer abc", NormalizeBearerToken("Bearer abc"))
	assert.Equal(t, "Bearer abc", NormalizeBearerToken("  abc  "))
}
