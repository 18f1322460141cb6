package synccmd

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-content-sync/internal/commands"
	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/repository"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI
// or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	LoggerProvider interfaces.LoggerProvider
	DefaultLocales []string
	OnSubscribe    func(content.SubscriptionResult)
	// Tally, when set, counts every execution outcome next to the log line.
	Tally *commands.Tally
}

// RegistrationResult captures the constructed handlers and subscriptions.
type RegistrationResult struct {
	Refresh       *RefreshContentHandler
	Subscribe     *SubscribeHandler
	Subscriptions []CommandSubscription
}

// Unsubscribe tears down every dispatcher subscription.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterCommands builds the sync command handlers for service and hands
// them to the configured registry and dispatcher.
func RegisterCommands(service repository.Service, opts RegistrationOptions) (*RegistrationResult, error) {
	if service == nil {
		return &RegistrationResult{}, nil
	}
	refreshLogger := commands.CommandLogger(opts.LoggerProvider, "content")
	subscribeLogger := commands.CommandLogger(opts.LoggerProvider, "subscribers")
	var refreshOpts []commands.HandlerOption[RefreshContentCommand]
	var subscribeOpts []commands.HandlerOption[SubscribeCommand]
	if opts.Tally != nil {
		refreshOpts = append(refreshOpts, commands.WithTelemetry(commands.Chain(
			commands.LogTelemetry[RefreshContentCommand](refreshLogger),
			commands.TallyTelemetry[RefreshContentCommand](opts.Tally),
		)))
		subscribeOpts = append(subscribeOpts, commands.WithTelemetry(commands.Chain(
			commands.LogTelemetry[SubscribeCommand](subscribeLogger),
			commands.TallyTelemetry[SubscribeCommand](opts.Tally),
		)))
	}
	result := &RegistrationResult{
		Refresh:   NewRefreshContentHandler(service, refreshLogger, opts.DefaultLocales, refreshOpts...),
		Subscribe: NewSubscribeHandler(service, subscribeLogger, opts.OnSubscribe, subscribeOpts...),
	}

	var errs error
	for _, handler := range []any{result.Refresh, result.Subscribe} {
		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			sub, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if sub != nil {
				result.Subscriptions = append(result.Subscriptions, sub)
			}
		}
	}
	return result, errs
}

// GlobalDispatcher subscribes handlers to the process-wide go-command
// dispatcher.
type GlobalDispatcher struct{}

// RegisterCommand implements CommandDispatcher.
func (GlobalDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *RefreshContentHandler:
		return dispatcher.SubscribeCommand[RefreshContentCommand](h), nil
	case *SubscribeHandler:
		return dispatcher.SubscribeCommand[SubscribeCommand](h), nil
	default:
		return nil, fmt.Errorf("synccmd: unsupported handler %T", handler)
	}
}
