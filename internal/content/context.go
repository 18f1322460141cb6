package content

import "context"

type localeKey struct{}

// WithLocale stores the active locale on ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFrom returns the locale stored on ctx, or fallback.
func LocaleFrom(ctx context.Context, fallback string) string {
	if ctx != nil {
		if locale, ok := ctx.Value(localeKey{}).(string); ok && locale != "" {
			return locale
		}
	}
	return fallback
}
