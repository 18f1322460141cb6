package repository

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/contentapi"
	"github.com/goliatone/go-content-sync/internal/validation"
)

// Subscribe registers email for the newsletter. The syntax check runs before
// any network call; the existence pre-check is advisory and the server's
// uniqueness constraint is what actually rejects duplicates.
func (s *service) Subscribe(ctx context.Context, email string) content.SubscriptionResult {
	locale := content.LocaleFrom(ctx, s.defaultLocale)
	logger := s.log(ctx, TagSubscribers, "")

	normalized, err := validation.ValidateEmail(email)
	if err != nil {
		logger.Debug("repository.subscribe.invalid", "error", err)
		return failed(content.ValidationFailure, locale)
	}

	exists, err := s.subscriberExists(ctx, normalized)
	switch {
	case err != nil:
		logger.Warn("repository.subscribe.precheck_failed", "status", contentapi.StatusOf(err), "error", err)
	case exists:
		return failed(content.DuplicateEntry, locale)
	}

	resp, err := s.api.Post(ctx, resourceSubscribers, map[string]any{
		"data": map[string]any{"email": normalized},
	})
	if err != nil {
		kind := classifySubscribeError(err)
		logger.Warn("repository.subscribe.failed", "kind", string(kind), "status", contentapi.StatusOf(err), "error", err)
		return failed(kind, locale)
	}

	subscriber := s.normalizer.Subscriber(resp.Object())
	if subscriber.Email == "" {
		subscriber.Email = normalized
	}
	s.Invalidate(ctx, TagSubscribers)
	logger.Info("repository.subscribe.created", "subscriber_id", subscriber.ID)
	return content.SubscriptionResult{
		Success:    true,
		Message:    content.Message("", locale),
		Subscriber: &subscriber,
	}
}

func (s *service) subscriberExists(ctx context.Context, email string) (bool, error) {
	resp, err := s.api.Get(ctx, resourceSubscribers, url.Values{"filters[email][$eq]": {email}})
	if err != nil {
		return false, err
	}
	return len(resp.Items()) > 0, nil
}

func failed(kind content.ErrorKind, locale string) content.SubscriptionResult {
	return content.SubscriptionResult{Kind: kind, Message: content.Message(kind, locale)}
}

// classifySubscribeError maps a failed create onto the taxonomy. A 400 is a
// duplicate when the message mentions uniqueness or any detail points at the
// email field.
func classifySubscribeError(err error) content.ErrorKind {
	statusErr, ok := contentapi.AsStatusError(err)
	if !ok {
		if errors.Is(err, validation.ErrEnvelopeInvalid) || !goerrors.IsCategory(err, content.CategoryTransport) {
			return content.SubscriptionFailed
		}
		return content.TransportFailure
	}
	switch {
	case statusErr.Status == http.StatusBadRequest:
		if mentionsUniqueness(statusErr.Message) || detailsTouchEmail(statusErr.Details) {
			return content.DuplicateEntry
		}
		return content.ValidationFailure
	case statusErr.Status == http.StatusConflict:
		return content.DuplicateEntry
	case statusErr.Status >= http.StatusInternalServerError:
		return content.ServerFailure
	default:
		return content.SubscriptionFailed
	}
}

func mentionsUniqueness(message string) bool {
	lowered := strings.ToLower(message)
	return strings.Contains(lowered, "unique") || strings.Contains(lowered, "duplicate")
}

func detailsTouchEmail(details map[string]any) bool {
	errs, _ := details["errors"].([]any)
	for _, entry := range errs {
		detail, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		switch path := detail["path"].(type) {
		case []any:
			for _, segment := range path {
				if s, ok := segment.(string); ok && s == "email" {
					return true
				}
			}
		case string:
			if path == "email" {
				return true
			}
		}
	}
	return false
}
