package commands

import (
	"strings"

	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// CommandLogger returns the sync.commands logger, or its module child when
// module is set, tagged as a command component.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	var logger interfaces.Logger
	if name := strings.TrimSpace(module); name != "" {
		logger = logging.ModuleLogger(provider, "sync.commands."+name)
	} else {
		logger = logging.CommandsLogger(provider)
	}
	return logging.WithFields(logger, map[string]any{"component": "command"})
}
