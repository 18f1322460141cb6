package locale

import (
	"context"
	"sync"

	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// Session owns the active locale for one visitor. All reads and writes of
// the locale go through it; collaborators receive side effects in a fixed
// order: state, document, preference, navigation.
type Session struct {
	scheme    Scheme
	visitorID string

	document  interfaces.Document
	prefs     interfaces.PreferenceStore
	navigator interfaces.Navigator
	logger    interfaces.Logger

	mu     sync.RWMutex
	locale string
	path   string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDocument sets the document receiving lang/dir updates.
func WithDocument(doc interfaces.Document) SessionOption {
	return func(s *Session) {
		if doc != nil {
			s.document = doc
		}
	}
}

// WithPreferences sets the store used to persist the visitor choice.
func WithPreferences(store interfaces.PreferenceStore) SessionOption {
	return func(s *Session) {
		if store != nil {
			s.prefs = store
		}
	}
}

// WithNavigator sets the navigator invoked after a locale switch.
func WithNavigator(nav interfaces.Navigator) SessionOption {
	return func(s *Session) {
		if nav != nil {
			s.navigator = nav
		}
	}
}

// WithLogger overrides the session logger.
func WithLogger(logger interfaces.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVisitorID keys persisted preferences for this session.
func WithVisitorID(id string) SessionOption {
	return func(s *Session) {
		s.visitorID = id
	}
}

// NewSession builds a session starting on the primary locale at "/".
func NewSession(scheme Scheme, opts ...SessionOption) *Session {
	s := &Session{
		scheme: scheme,
		logger: logging.NoOp(),
		locale: scheme.Primary,
		path:   "/",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Scheme exposes the locale pairing used by the session.
func (s *Session) Scheme() Scheme {
	return s.scheme
}

// Locale returns the active locale code.
func (s *Session) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// Direction returns the text direction of the active locale.
func (s *Session) Direction() Direction {
	return DirectionOf(s.Locale())
}

// Path returns the current localized path.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Init resolves the starting locale: an explicit path marker wins, then the
// persisted preference, then the primary locale. When the preference selects
// the alternate locale on an unmarked path, the session navigates to the
// prefixed path. It returns the resolved locale; Path reports the target.
func (s *Session) Init(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = "/"
	}
	stored := s.loadPreference(ctx)

	loc, marked := s.scheme.FromPath(path)
	target := path
	if !marked && stored != "" {
		loc = stored
		target = s.scheme.WithPrefix(path, loc)
	}

	s.mu.Lock()
	s.locale = loc
	s.path = target
	s.mu.Unlock()

	s.applyDocument(loc)
	if stored != loc {
		s.persist(ctx, loc)
	}
	s.logger.Debug("locale.session.init", "locale", loc, "path", target, "preference", stored)

	if target != path {
		if err := s.navigate(ctx, target); err != nil {
			return loc, err
		}
	}
	return loc, nil
}

// SetLocale switches to code, rewriting the current path. Switching to the
// active locale does nothing. The returned path is the navigation target.
func (s *Session) SetLocale(ctx context.Context, code string) (string, error) {
	loc, ok := s.scheme.Normalize(code)
	if !ok {
		return s.Path(), ErrUnsupportedLocale
	}

	s.mu.Lock()
	if loc == s.locale {
		path := s.path
		s.mu.Unlock()
		return path, nil
	}
	previous := s.locale
	target := s.scheme.WithPrefix(s.path, loc)
	s.locale = loc
	s.path = target
	s.mu.Unlock()

	s.applyDocument(loc)
	s.persist(ctx, loc)
	s.logger.Info("locale.session.switched", "from", previous, "to", loc, "path", target)

	if err := s.navigate(ctx, target); err != nil {
		return target, err
	}
	return target, nil
}

// SyncFromPath follows navigation that did not go through SetLocale. The
// path is the source of truth; state, document and preference are updated
// when they disagree with it. It reports whether the locale changed.
func (s *Session) SyncFromPath(ctx context.Context, path string) bool {
	if path == "" {
		path = "/"
	}
	loc, _ := s.scheme.FromPath(path)

	s.mu.Lock()
	s.path = path
	if loc == s.locale {
		s.mu.Unlock()
		if stored := s.loadPreference(ctx); stored != loc {
			s.persist(ctx, loc)
			s.logger.Debug("locale.session.preference_repaired", "stored", stored, "locale", loc)
		}
		return false
	}
	previous := s.locale
	s.locale = loc
	s.mu.Unlock()

	s.applyDocument(loc)
	s.persist(ctx, loc)
	s.logger.Debug("locale.session.resynced", "from", previous, "to", loc, "path", path)
	return true
}

func (s *Session) loadPreference(ctx context.Context) string {
	if s.prefs == nil {
		return ""
	}
	raw, err := s.prefs.Load(ctx, s.visitorID)
	if err != nil {
		s.logger.Warn("locale.preference.load_failed", "visitor_id", s.visitorID, "error", err)
		return ""
	}
	loc, ok := s.scheme.Normalize(raw)
	if !ok {
		return ""
	}
	return loc
}

func (s *Session) applyDocument(loc string) {
	if s.document == nil {
		return
	}
	s.document.SetLang(loc)
	s.document.SetDir(string(DirectionOf(loc)))
}

func (s *Session) persist(ctx context.Context, loc string) {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.Save(ctx, s.visitorID, loc); err != nil {
		s.logger.Warn("locale.preference.save_failed", "visitor_id", s.visitorID, "locale", loc, "error", err)
	}
}

func (s *Session) navigate(ctx context.Context, path string) error {
	if s.navigator == nil {
		return nil
	}
	return s.navigator.Navigate(ctx, path)
}
