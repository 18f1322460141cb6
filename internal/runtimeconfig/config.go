package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	ErrAPIBaseURLRequired      = errors.New("sync config: content api base url is required")
	ErrAPIBaseURLInvalid       = errors.New("sync config: content api base url must be an absolute http(s) url")
	ErrAPIPageSizeInvalid      = errors.New("sync config: page sizes must be positive")
	ErrAPIRetriesInvalid       = errors.New("sync config: retry count must be zero or positive")
	ErrCacheTTLInvalid         = errors.New("sync config: cache ttl must be positive when the cache is enabled")
	ErrLocaleCodesRequired     = errors.New("sync config: primary and alternate locales are required")
	ErrLocaleCodesIdentical    = errors.New("sync config: primary and alternate locales must differ")
	ErrLocalePrefixInvalid     = errors.New("sync config: alternate locale prefix must start with '/' and not be the root")
	ErrCarouselIntervalInvalid = errors.New("sync config: carousel interval must be positive")
	ErrCarouselWindowInvalid   = errors.New("sync config: carousel window must be positive")
	ErrStorageDriverUnknown    = errors.New("sync config: storage driver is invalid")
	ErrStorageDSNRequired      = errors.New("sync config: storage dsn is required for the selected driver")
	ErrLoggingProviderUnknown  = errors.New("sync config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("sync config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("sync config: logging format is invalid")
	ErrSiteBaseURLInvalid      = errors.New("sync config: site base url must be an absolute url")
	ErrHTTPListenAddrRequired  = errors.New("sync config: http listen address is required")
)

// Config aggregates the settings of the content sync runtime.
type Config struct {
	API      APIConfig
	Cache    CacheConfig
	Locale   LocaleConfig
	Carousel CarouselConfig
	Storage  StorageConfig
	Site     SiteConfig
	Logging  LoggingConfig
	HTTP     HTTPConfig
}

// APIConfig describes the remote content API.
type APIConfig struct {
	BaseURL         string
	Token           string
	Timeout         time.Duration
	Retries         int
	BulkPageSize    int
	DefaultPageSize int
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled  bool
	TTL      time.Duration
	Capacity int
}

// LocaleConfig names the two site locales and the URL prefix of the alternate one.
type LocaleConfig struct {
	Primary         string
	Alternate       string
	AlternatePrefix string
	CookieName      string
	PreferenceKey   string
}

// CarouselConfig holds carousel defaults shared by every preset.
type CarouselConfig struct {
	Interval   time.Duration
	TeamWindow int
}

// StorageConfig selects the locale preference store.
type StorageConfig struct {
	Driver string
	DSN    string
}

// SiteConfig carries the public origin used when building absolute links.
type SiteConfig struct {
	BaseURL string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// HTTPConfig configures the JSON surface.
type HTTPConfig struct {
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns defaults for a local content API.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:         "http://localhost:1337",
			Timeout:         10 * time.Second,
			Retries:         2,
			BulkPageSize:    100,
			DefaultPageSize: 9,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTL:      time.Hour,
			Capacity: 1000,
		},
		Locale: LocaleConfig{
			Primary:         "en",
			Alternate:       "ar",
			AlternatePrefix: "/ar",
			CookieName:      "NEXT_LOCALE",
			PreferenceKey:   "language",
		},
		Carousel: CarouselConfig{
			Interval:   5 * time.Second,
			TeamWindow: 3,
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Site: SiteConfig{
			BaseURL: "http://localhost:3000",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		HTTP: HTTPConfig{
			ListenAddr:   ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	base := strings.TrimSpace(cfg.API.BaseURL)
	if base == "" {
		return ErrAPIBaseURLRequired
	}
	if !isHTTPURL(base) {
		return fmt.Errorf("%w: %s", ErrAPIBaseURLInvalid, base)
	}
	if cfg.API.BulkPageSize <= 0 || cfg.API.DefaultPageSize <= 0 {
		return ErrAPIPageSizeInvalid
	}
	if cfg.API.Retries < 0 {
		return ErrAPIRetriesInvalid
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}

	primary := strings.TrimSpace(cfg.Locale.Primary)
	alternate := strings.TrimSpace(cfg.Locale.Alternate)
	if primary == "" || alternate == "" {
		return ErrLocaleCodesRequired
	}
	if strings.EqualFold(primary, alternate) {
		return ErrLocaleCodesIdentical
	}
	prefix := strings.TrimSpace(cfg.Locale.AlternatePrefix)
	if !strings.HasPrefix(prefix, "/") || strings.Trim(prefix, "/") == "" {
		return fmt.Errorf("%w: %q", ErrLocalePrefixInvalid, prefix)
	}

	if cfg.Carousel.Interval <= 0 {
		return ErrCarouselIntervalInvalid
	}
	if cfg.Carousel.TeamWindow <= 0 {
		return ErrCarouselWindowInvalid
	}

	switch driver := normalize(cfg.Storage.Driver); driver {
	case "", "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}

	if site := strings.TrimSpace(cfg.Site.BaseURL); site != "" && !isHTTPURL(site) {
		return fmt.Errorf("%w: %s", ErrSiteBaseURLInvalid, site)
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	if strings.TrimSpace(cfg.HTTP.ListenAddr) == "" {
		return ErrHTTPListenAddrRequired
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "", "console", "gologger", "none":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
