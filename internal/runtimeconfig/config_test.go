package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-content-sync/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Fatalf("expected default ttl of one hour, got %s", cfg.Cache.TTL)
	}
	if cfg.Carousel.Interval != 5*time.Second {
		t.Fatalf("expected default carousel interval of 5s, got %s", cfg.Carousel.Interval)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"missing base url", func(c *runtimeconfig.Config) { c.API.BaseURL = " " }, runtimeconfig.ErrAPIBaseURLRequired},
		{"relative base url", func(c *runtimeconfig.Config) { c.API.BaseURL = "/cms" }, runtimeconfig.ErrAPIBaseURLInvalid},
		{"zero bulk size", func(c *runtimeconfig.Config) { c.API.BulkPageSize = 0 }, runtimeconfig.ErrAPIPageSizeInvalid},
		{"negative retries", func(c *runtimeconfig.Config) { c.API.Retries = -1 }, runtimeconfig.ErrAPIRetriesInvalid},
		{"cache without ttl", func(c *runtimeconfig.Config) { c.Cache.TTL = 0 }, runtimeconfig.ErrCacheTTLInvalid},
		{"same locales", func(c *runtimeconfig.Config) { c.Locale.Alternate = "EN" }, runtimeconfig.ErrLocaleCodesIdentical},
		{"missing locale", func(c *runtimeconfig.Config) { c.Locale.Primary = "" }, runtimeconfig.ErrLocaleCodesRequired},
		{"root prefix", func(c *runtimeconfig.Config) { c.Locale.AlternatePrefix = "/" }, runtimeconfig.ErrLocalePrefixInvalid},
		{"zero interval", func(c *runtimeconfig.Config) { c.Carousel.Interval = 0 }, runtimeconfig.ErrCarouselIntervalInvalid},
		{"zero window", func(c *runtimeconfig.Config) { c.Carousel.TeamWindow = 0 }, runtimeconfig.ErrCarouselWindowInvalid},
		{"unknown storage", func(c *runtimeconfig.Config) { c.Storage.Driver = "mongo" }, runtimeconfig.ErrStorageDriverUnknown},
		{"sqlite without dsn", func(c *runtimeconfig.Config) { c.Storage.Driver = "sqlite" }, runtimeconfig.ErrStorageDSNRequired},
		{"unknown logger", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"bad level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"bad format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
		{"missing listen addr", func(c *runtimeconfig.Config) { c.HTTP.ListenAddr = "" }, runtimeconfig.ErrHTTPListenAddrRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_CacheDisabledIgnoresTTL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.TTL = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestLoadEnvOverlaysSetVariables(t *testing.T) {
	t.Setenv("CONTENT_API_URL", "https://cms.example.com")
	t.Setenv("CONTENT_API_TOKEN", "secret")
	t.Setenv("CONTENT_CACHE_TTL", "90s")
	t.Setenv("CONTENT_CACHE_ENABLED", "false")
	t.Setenv("CONTENT_LOG_FOCUS", "sync.api, ,sync.locale")
	t.Setenv("CONTENT_API_RETRIES", "")

	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.LoadEnv(&cfg); err != nil {
		t.Fatalf("LoadEnv() error: %v", err)
	}

	if cfg.API.BaseURL != "https://cms.example.com" || cfg.API.Token != "secret" {
		t.Fatalf("unexpected api config: %+v", cfg.API)
	}
	if cfg.Cache.TTL != 90*time.Second || cfg.Cache.Enabled {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.API.Retries != 2 {
		t.Fatalf("blank variable must keep default retries, got %d", cfg.API.Retries)
	}
	if len(cfg.Logging.Focus) != 2 || cfg.Logging.Focus[1] != "sync.locale" {
		t.Fatalf("unexpected focus list: %v", cfg.Logging.Focus)
	}
}

func TestLoadEnvRejectsMalformedDuration(t *testing.T) {
	t.Setenv("CONTENT_CACHE_TTL", "soon")
	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.LoadEnv(&cfg); err == nil {
		t.Fatal("expected an error for a malformed duration")
	}
}
