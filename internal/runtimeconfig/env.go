package runtimeconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envOverrides lists the environment variables understood by LoadEnv. Every
// field is read as text so an unset variable never clobbers a configured value.
type envOverrides struct {
	APIURL          string `env:"CONTENT_API_URL" env-description:"content api origin, without the /api suffix"`
	APIToken        string `env:"CONTENT_API_TOKEN" env-description:"optional bearer token"`
	APITimeout      string `env:"CONTENT_API_TIMEOUT"`
	APIRetries      string `env:"CONTENT_API_RETRIES"`
	BulkPageSize    string `env:"CONTENT_API_BULK_PAGE_SIZE"`
	DefaultPageSize string `env:"CONTENT_API_PAGE_SIZE"`
	CacheEnabled    string `env:"CONTENT_CACHE_ENABLED"`
	CacheTTL        string `env:"CONTENT_CACHE_TTL"`
	CacheCapacity   string `env:"CONTENT_CACHE_CAPACITY"`
	PrimaryLocale   string `env:"CONTENT_LOCALE_PRIMARY"`
	AltLocale       string `env:"CONTENT_LOCALE_ALTERNATE"`
	AltPrefix       string `env:"CONTENT_LOCALE_PREFIX"`
	CarouselTick    string `env:"CONTENT_CAROUSEL_INTERVAL"`
	StorageDriver   string `env:"CONTENT_STORAGE_DRIVER"`
	StorageDSN      string `env:"CONTENT_STORAGE_DSN"`
	SiteBaseURL     string `env:"SITE_BASE_URL"`
	LogProvider     string `env:"CONTENT_LOG_PROVIDER"`
	LogLevel        string `env:"CONTENT_LOG_LEVEL"`
	LogFormat       string `env:"CONTENT_LOG_FORMAT"`
	LogFocus        string `env:"CONTENT_LOG_FOCUS"`
	ListenAddr      string `env:"CONTENT_HTTP_ADDR"`
}

// LoadEnv overlays environment variables onto cfg. Variables that are unset
// or blank leave the existing value untouched.
func LoadEnv(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	var env envOverrides
	if err := cleanenv.ReadEnv(&env); err != nil {
		return fmt.Errorf("sync config: read env: %w", err)
	}

	setString(&cfg.API.BaseURL, env.APIURL)
	setString(&cfg.API.Token, env.APIToken)
	setString(&cfg.Locale.Primary, env.PrimaryLocale)
	setString(&cfg.Locale.Alternate, env.AltLocale)
	setString(&cfg.Locale.AlternatePrefix, env.AltPrefix)
	setString(&cfg.Storage.Driver, env.StorageDriver)
	setString(&cfg.Storage.DSN, env.StorageDSN)
	setString(&cfg.Site.BaseURL, env.SiteBaseURL)
	setString(&cfg.Logging.Provider, env.LogProvider)
	setString(&cfg.Logging.Level, env.LogLevel)
	setString(&cfg.Logging.Format, env.LogFormat)
	setString(&cfg.HTTP.ListenAddr, env.ListenAddr)
	if focus := strings.TrimSpace(env.LogFocus); focus != "" {
		cfg.Logging.Focus = splitList(focus)
	}

	steps := []func() error{
		func() error { return setDuration(&cfg.API.Timeout, "CONTENT_API_TIMEOUT", env.APITimeout) },
		func() error { return setInt(&cfg.API.Retries, "CONTENT_API_RETRIES", env.APIRetries) },
		func() error { return setInt(&cfg.API.BulkPageSize, "CONTENT_API_BULK_PAGE_SIZE", env.BulkPageSize) },
		func() error { return setInt(&cfg.API.DefaultPageSize, "CONTENT_API_PAGE_SIZE", env.DefaultPageSize) },
		func() error { return setBool(&cfg.Cache.Enabled, "CONTENT_CACHE_ENABLED", env.CacheEnabled) },
		func() error { return setDuration(&cfg.Cache.TTL, "CONTENT_CACHE_TTL", env.CacheTTL) },
		func() error { return setInt(&cfg.Cache.Capacity, "CONTENT_CACHE_CAPACITY", env.CacheCapacity) },
		func() error {
			return setDuration(&cfg.Carousel.Interval, "CONTENT_CAROUSEL_INTERVAL", env.CarouselTick)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// EnvUsage renders the variable list for CLI help output.
func EnvUsage() string {
	var env envOverrides
	text, err := cleanenv.GetDescription(&env, nil)
	if err != nil {
		return ""
	}
	return text
}

func setString(target *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*target = trimmed
	}
}

func setInt(target *int, name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("sync config: %s: %w", name, err)
	}
	*target = parsed
	return nil
}

func setBool(target *bool, name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("sync config: %s: %w", name, err)
	}
	*target = parsed
	return nil
}

func setDuration(target *time.Duration, name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("sync config: %s: %w", name, err)
	}
	*target = parsed
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
