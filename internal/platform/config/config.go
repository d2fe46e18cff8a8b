// Package config builds runtime configuration from the environment so main
// stays lean. All validation happens here, at construction time; nothing in
// the call path re-reads the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Registry defaults. Overridable per environment, mainly for tests pointing
// clients at local stub servers.
const (
	DefaultGDCBaseURL     = "https://api.gdc.cancer.gov"
	DefaultEnsemblBaseURL = "https://rest.ensembl.org"
	DefaultCBioBaseURL    = "https://www.cbioportal.org/api"
)

// DefaultCacheTTL bounds how long merged annotations and study metadata are
// reused before re-fetching.
const DefaultCacheTTL = 15 * time.Minute

// Server captures the full service configuration.
type Server struct {
	Addr string

	GDCBaseURL     string
	EnsemblBaseURL string
	CBioBaseURL    string
	// CBioToken is the optional bearer credential for the cross-study
	// registry. Empty means unauthenticated access, which is valid.
	CBioToken string

	// RedisAddr enables the shared Redis caches when set; empty falls back
	// to in-process memory caches.
	RedisAddr string
	CacheTTL  time.Duration

	// JWTSigningKey enables bearer auth on the API when set.
	JWTSigningKey string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:           envOr("VARHUB_ADDR", ":8080"),
		GDCBaseURL:     envOr("GDC_BASE_URL", DefaultGDCBaseURL),
		EnsemblBaseURL: envOr("ENSEMBL_BASE_URL", DefaultEnsemblBaseURL),
		CBioBaseURL:    envOr("CBIO_BASE_URL", DefaultCBioBaseURL),
		CBioToken:      NormalizeBearerToken(os.Getenv("CBIO_TOKEN")),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		CacheTTL:       DefaultCacheTTL,
		JWTSigningKey:  os.Getenv("JWT_SIGNING_KEY"),
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Server{}, fmt.Errorf("invalid CACHE_TTL %q: %w", raw, err)
		}
		cfg.CacheTTL = ttl
	}

	for name, url := range map[string]string{
		"GDC_BASE_URL":     cfg.GDCBaseURL,
		"ENSEMBL_BASE_URL": cfg.EnsemblBaseURL,
		"CBIO_BASE_URL":    cfg.CBioBaseURL,
	} {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return Server{}, fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, url)
		}
	}

	return cfg, nil
}

// NormalizeBearerToken ensures a non-empty token carries the "Bearer "
// prefix the registry expects, whether or not the operator included it.
func NormalizeBearerToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
