package synccmd

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-content-sync/internal/commands"
	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/repository"
	syncvalidation "github.com/goliatone/go-content-sync/internal/validation"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

const subscribeMessageType = "sync.subscribers.create"

// SubscribeCommand registers an email address with the newsletter.
type SubscribeCommand struct {
	Email  string `json:"email"`
	Locale string `json:"locale,omitempty"`
}

// Type implements command.Message.
func (SubscribeCommand) Type() string { return subscribeMessageType }

// Validate checks the address syntax before anything reaches the API.
func (m SubscribeCommand) Validate() error {
	return validation.Errors{
		"email": validation.Validate(syncvalidation.NormalizeEmail(m.Email), syncvalidation.EmailRules...),
	}.Filter()
}

// SubscriptionError carries a rejected subscription result.
type SubscriptionError struct {
	Result content.SubscriptionResult
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscribe: %s: %s", e.Result.Kind, e.Result.Message)
}

// SubscribeHandler runs SubscribeCommand against the content repository.
// Rejections are returned as *SubscriptionError tagged with the matching
// go-errors category.
type SubscribeHandler struct {
	inner *commands.Handler[SubscribeCommand]
}

// NewSubscribeHandler wires the handler to a content repository. onResult,
// when set, receives every result including successes.
func NewSubscribeHandler(service repository.Service, logger interfaces.Logger, onResult func(content.SubscriptionResult), opts ...commands.HandlerOption[SubscribeCommand]) *SubscribeHandler {
	exec := func(ctx context.Context, msg SubscribeCommand) error {
		if loc := strings.TrimSpace(msg.Locale); loc != "" {
			ctx = content.WithLocale(ctx, loc)
		}
		result := service.Subscribe(ctx, msg.Email)
		if onResult != nil {
			onResult(result)
		}
		if result.Success {
			return nil
		}
		return goerrors.Wrap(&SubscriptionError{Result: result}, categoryFor(result.Kind), "subscription rejected").
			WithTextCode("SYNC_SUBSCRIBE_" + strings.ToUpper(string(result.Kind)))
	}

	handlerOpts := []commands.HandlerOption[SubscribeCommand]{
		commands.WithLogger[SubscribeCommand](logger),
		commands.WithOperation[SubscribeCommand]("subscribers.create"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SubscribeHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SubscribeCommand].Execute.
func (h *SubscribeHandler) Execute(ctx context.Context, msg SubscribeCommand) error {
	return h.inner.Execute(ctx, msg)
}

func categoryFor(kind content.ErrorKind) goerrors.Category {
	switch kind {
	case content.ValidationFailure:
		return goerrors.CategoryValidation
	case content.DuplicateEntry:
		return content.CategoryConflict
	case content.ServerFailure:
		return content.CategoryServer
	case content.TransportFailure:
		return content.CategoryTransport
	default:
		return goerrors.CategoryCommand
	}
}
