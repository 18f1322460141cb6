package contentapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-content-sync/internal/content"
)

const (
	textCodeTransport  = "CONTENT_API_TRANSPORT"
	textCodeNotFound   = "CONTENT_API_NOT_FOUND"
	textCodeValidation = "CONTENT_API_VALIDATION"
	textCodeConflict   = "CONTENT_API_CONFLICT"
	textCodeServer     = "CONTENT_API_SERVER"
	textCodeStatus     = "CONTENT_API_STATUS"
	textCodeEnvelope   = "CONTENT_API_ENVELOPE"
)

// ErrBaseURLRequired is returned by New when no base url is configured.
var ErrBaseURLRequired = errors.New("contentapi: base url is required")

// StatusError is a non-2xx response. Message and Details come from the
// error envelope when the body carried one.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Name    string
	Message string
	Details map[string]any
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("contentapi: %s %s: status %d: %s", e.Method, e.Path, e.Status, msg)
}

// StatusOf returns the HTTP status carried by err, or zero for transport
// failures.
func StatusOf(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return 0
}

// AsStatusError extracts the StatusError carried by err.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

func classifyStatus(err *StatusError) error {
	switch {
	case err.Status == http.StatusNotFound:
		return goerrors.Wrap(err, content.CategoryNotFound, "content api resource not found").
			WithTextCode(textCodeNotFound)
	case err.Status == http.StatusBadRequest:
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content api rejected the request").
			WithTextCode(textCodeValidation)
	case err.Status == http.StatusConflict:
		return goerrors.Wrap(err, content.CategoryConflict, "content api reported a conflict").
			WithTextCode(textCodeConflict)
	case err.Status >= http.StatusInternalServerError:
		return goerrors.Wrap(err, content.CategoryServer, "content api server failure").
			WithTextCode(textCodeServer)
	default:
		return goerrors.Wrap(err, content.CategoryTransport, "content api unexpected status").
			WithTextCode(textCodeStatus)
	}
}

func transportError(err error, msg string) error {
	return goerrors.Wrap(err, content.CategoryTransport, msg).WithTextCode(textCodeTransport)
}

func envelopeError(err error) error {
	return goerrors.Wrap(err, content.CategoryTransport, "content api returned a malformed envelope").
		WithTextCode(textCodeEnvelope)
}
