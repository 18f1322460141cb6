package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

const (
	rootModule     = "sync"
	apiModule      = "sync.api"
	contentModule  = "sync.content"
	localeModule   = "sync.locale"
	carouselModule = "sync.carousel"
	httpModule     = "sync.http"
	commandsModule = "sync.commands"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered per module.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return logger.WithFields(map[string]any{
		"module": module,
	})
}

// APILogger returns the logger namespace reserved for the content API client.
func APILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, apiModule)
}

// ContentLogger returns the logger namespace reserved for the content repository.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// LocaleLogger returns the logger namespace reserved for locale sessions.
func LocaleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localeModule)
}

// CarouselLogger returns the logger namespace reserved for carousel controllers.
func CarouselLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, carouselModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP surface.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithFields attaches structured fields to a logger. Nil loggers and empty
// maps are passed through untouched.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return logger.WithFields(copied)
}

// WithTag enriches a logger with the cache tag and request identity of a
// repository query. Empty values are ignored.
func WithTag(logger interfaces.Logger, tag, key string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(tag); trimmed != "" {
		fields["tag"] = trimmed
	}
	if trimmed := strings.TrimSpace(key); trimmed != "" {
		fields["cache_key"] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
