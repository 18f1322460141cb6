package http

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/identity"
	"github.com/goliatone/go-content-sync/internal/locale"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

const (
	// DefaultLocaleCookie stores the visitor locale between requests.
	DefaultLocaleCookie = "NEXT_LOCALE"
	// DefaultVisitorCookie keys persisted locale preferences.
	DefaultVisitorCookie = "sync_visitor"

	directionHeader = "X-Content-Direction"
)

// LocaleResolver decides the locale of each request.
type LocaleResolver struct {
	scheme     locale.Scheme
	cookieName string
	matcher    language.Matcher
	logger     interfaces.Logger
}

// NewLocaleResolver builds a resolver for scheme. An empty cookie name uses
// DefaultLocaleCookie.
func NewLocaleResolver(scheme locale.Scheme, cookieName string, logger interfaces.Logger) *LocaleResolver {
	if strings.TrimSpace(cookieName) == "" {
		cookieName = DefaultLocaleCookie
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LocaleResolver{
		scheme:     scheme,
		cookieName: cookieName,
		matcher:    language.NewMatcher([]language.Tag{language.Make(scheme.Primary), language.Make(scheme.Alternate)}),
		logger:     logger,
	}
}

// Middleware resolves the locale and stores it on the request context.
//
// API requests honour ?locale= and then the cookie. Page requests use the
// path prefix; an unprefixed page path whose cookie or Accept-Language
// prefers the alternate locale is redirected to the prefixed path. Page
// responses resynchronise the cookie with the locale actually served.
func (lr *LocaleResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAsset(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookieLoc, hasCookie := lr.cookieLocale(r)
		var loc string
		if isAPI(r.URL.Path) {
			loc = lr.scheme.Primary
			if q, ok := lr.scheme.Normalize(r.URL.Query().Get("locale")); ok {
				loc = q
			} else if hasCookie {
				loc = cookieLoc
			}
		} else {
			var marked bool
			loc, marked = lr.scheme.FromPath(r.URL.Path)
			if !marked {
				preferred := cookieLoc
				if !hasCookie {
					preferred = lr.acceptLanguage(r)
				}
				if preferred == lr.scheme.Alternate {
					lr.setCookie(w, preferred)
					target := lr.scheme.WithPrefix(r.URL.RequestURI(), preferred)
					lr.logger.Debug("http.locale.redirect", "from", r.URL.RequestURI(), "to", target)
					http.Redirect(w, r, target, http.StatusTemporaryRedirect)
					return
				}
			}
			if cookieLoc != loc {
				lr.setCookie(w, loc)
			}
		}

		w.Header().Set("Content-Language", loc)
		w.Header().Set(directionHeader, string(locale.DirectionOf(loc)))
		w.Header().Add("Vary", "Cookie")
		next.ServeHTTP(w, r.WithContext(content.WithLocale(r.Context(), loc)))
	})
}

func (lr *LocaleResolver) cookieLocale(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(lr.cookieName)
	if err != nil {
		return "", false
	}
	return lr.scheme.Normalize(cookie.Value)
}

func (lr *LocaleResolver) acceptLanguage(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		return lr.scheme.Primary
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return lr.scheme.Primary
	}
	_, idx, confidence := lr.matcher.Match(tags...)
	if idx == 1 && confidence != language.No {
		return lr.scheme.Alternate
	}
	return lr.scheme.Primary
}

func (lr *LocaleResolver) setCookie(w http.ResponseWriter, loc string) {
	http.SetCookie(w, &http.Cookie{
		Name:     lr.cookieName,
		Value:    loc,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

func isAPI(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func isAsset(p string) bool {
	return strings.HasPrefix(p, "/_next/") || path.Ext(p) != ""
}

type localeRequest struct {
	Locale string `json:"locale"`
	Path   string `json:"path"`
}

type localeResponse struct {
	Locale    string `json:"locale"`
	Direction string `json:"dir"`
	Redirect  string `json:"redirect"`
	URL       string `json:"url,omitempty"`
}

// headerDocument reflects the session lang/dir onto response headers.
type headerDocument struct {
	header http.Header
}

func (d headerDocument) SetLang(lang string) { d.header.Set("Content-Language", lang) }
func (d headerDocument) SetDir(dir string)   { d.header.Set(directionHeader, dir) }

type redirectNavigator struct {
	target string
}

func (n *redirectNavigator) Navigate(_ context.Context, path string) error {
	n.target = path
	return nil
}

func (api *SiteAPI) setLocale(w http.ResponseWriter, r *http.Request) {
	var req localeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	visitorID := api.visitorID(w, r)
	nav := &redirectNavigator{}
	session := locale.NewSession(api.scheme,
		locale.WithVisitorID(visitorID),
		locale.WithPreferences(api.preferences),
		locale.WithDocument(headerDocument{header: w.Header()}),
		locale.WithNavigator(nav),
		locale.WithLogger(logging.FromContext(r.Context(), api.logger)),
	)

	current := strings.TrimSpace(req.Path)
	if current == "" {
		current = "/"
	}
	session.SyncFromPath(r.Context(), current)

	target, err := session.SetLocale(r.Context(), req.Locale)
	if err != nil {
		if errors.Is(err, locale.ErrUnsupportedLocale) {
			respondError(w, r, http.StatusBadRequest, "unsupported_locale", err.Error())
			return
		}
		respondError(w, r, http.StatusInternalServerError, "locale_switch_failed", err.Error())
		return
	}
	if nav.target != "" {
		target = nav.target
	}

	loc := session.Locale()
	api.resolver.setCookie(w, loc)
	resp := localeResponse{
		Locale:    loc,
		Direction: string(session.Direction()),
		Redirect:  target,
	}
	if api.links != nil {
		resp.URL = api.links.Absolute(target)
	}
	respond(w, r, http.StatusOK, resp)
}

func (api *SiteAPI) visitorID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(api.visitorCookie); err == nil && strings.TrimSpace(cookie.Value) != "" {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
		return identity.VisitorUUID(cookie.Value).String()
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     api.visitorCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
