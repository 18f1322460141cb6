package content

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrorKind classifies content failures.
type ErrorKind string

const (
	TransportFailure   ErrorKind = "transport_failure"
	NotFound           ErrorKind = "not_found"
	ValidationFailure  ErrorKind = "validation_failure"
	DuplicateEntry     ErrorKind = "duplicate_entry"
	ServerFailure      ErrorKind = "server_failure"
	SubscriptionFailed ErrorKind = "subscription_failed"
)

// go-errors categories used to tag content failures.
var (
	CategoryTransport = goerrors.Category("transport")
	CategoryNotFound  = goerrors.Category("not_found")
	CategoryConflict  = goerrors.Category("conflict")
	CategoryServer    = goerrors.Category("server")
)

// ErrNotFound is returned when a single record lookup matched nothing.
var ErrNotFound = errors.New("content: not found")

// KindOf maps an error onto the content taxonomy. Unclassified errors are
// reported as TransportFailure, which is what a read caller treats them as.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound), goerrors.IsCategory(err, CategoryNotFound):
		return NotFound
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		return ValidationFailure
	case goerrors.IsCategory(err, CategoryConflict):
		return DuplicateEntry
	case goerrors.IsCategory(err, CategoryServer):
		return ServerFailure
	default:
		return TransportFailure
	}
}

var messages = map[string]map[ErrorKind]string{
	"en": {
		TransportFailure:   "We could not reach the server. Please try again.",
		NotFound:           "The requested content could not be found.",
		ValidationFailure:  "Please enter a valid email address.",
		DuplicateEntry:     "This email is already subscribed.",
		ServerFailure:      "Something went wrong on our side. Please try again later.",
		SubscriptionFailed: "Subscription failed. Please try again.",
		"":                 "Thank you for subscribing!",
	},
	"ar": {
		TransportFailure:   "تعذر الاتصال بالخادم. يرجى المحاولة مرة أخرى.",
		NotFound:           "تعذر العثور على المحتوى المطلوب.",
		ValidationFailure:  "يرجى إدخال بريد إلكتروني صالح.",
		DuplicateEntry:     "هذا البريد الإلكتروني مشترك بالفعل.",
		ServerFailure:      "حدث خطأ من جانبنا. يرجى المحاولة لاحقاً.",
		SubscriptionFailed: "فشل الاشتراك. يرجى المحاولة مرة أخرى.",
		"":                 "شكراً لاشتراكك!",
	},
}

// Message returns the visitor-facing text for kind in locale, falling back to
// English. The empty kind yields the success message.
func Message(kind ErrorKind, locale string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[kind]; ok {
			return msg
		}
	}
	if msg, ok := messages["en"][kind]; ok {
		return msg
	}
	return messages["en"][SubscriptionFailed]
}
