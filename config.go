package contentsync

import "github.com/goliatone/go-content-sync/internal/runtimeconfig"

var (
	ErrAPIBaseURLRequired     = runtimeconfig.ErrAPIBaseURLRequired
	ErrAPIBaseURLInvalid      = runtimeconfig.ErrAPIBaseURLInvalid
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrLocaleCodesIdentical   = runtimeconfig.ErrLocaleCodesIdentical
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	APIConfig      = runtimeconfig.APIConfig
	CacheConfig    = runtimeconfig.CacheConfig
	LocaleConfig   = runtimeconfig.LocaleConfig
	CarouselConfig = runtimeconfig.CarouselConfig
	StorageConfig  = runtimeconfig.StorageConfig
	SiteConfig     = runtimeconfig.SiteConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	HTTPConfig     = runtimeconfig.HTTPConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadEnv overlays CONTENT_* and SITE_* environment variables onto cfg.
func LoadEnv(cfg *Config) error {
	return runtimeconfig.LoadEnv(cfg)
}
