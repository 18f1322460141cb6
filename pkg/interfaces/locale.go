package interfaces

import "context"

// PreferenceStore persists the locale a visitor picked last. Load returns an
// empty string when nothing was stored.
type PreferenceStore interface {
	Load(ctx context.Context, visitorID string) (string, error)
	Save(ctx context.Context, visitorID, locale string) error
}

// Document receives the language and text direction of the rendered root
// element (the html tag in a browser, response headers on a server).
type Document interface {
	SetLang(lang string)
	SetDir(dir string)
}

// Navigator moves the active view to a new path.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}
