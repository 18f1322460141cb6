package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	synccmd "github.com/goliatone/go-content-sync/internal/commands/sync"
	"github.com/goliatone/go-content-sync/internal/locale"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/internal/repository"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// SiteAPI serves normalized site content over HTTP.
type SiteAPI struct {
	basePath      string
	content       repository.Service
	scheme        locale.Scheme
	preferences   interfaces.PreferenceStore
	links         *locale.LinkBuilder
	refresh       *synccmd.RefreshContentHandler
	resolver      *LocaleResolver
	cookieName    string
	visitorCookie string
	logger        interfaces.Logger
}

// SiteOption mutates the SiteAPI configuration.
type SiteOption func(*SiteAPI)

// WithBasePath overrides the API mount point (defaults to "/api").
func WithBasePath(path string) SiteOption {
	return func(api *SiteAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = "/" + strings.Trim(trimmed, "/")
		}
	}
}

// WithScheme sets the locale pairing.
func WithScheme(scheme locale.Scheme) SiteOption {
	return func(api *SiteAPI) {
		api.scheme = scheme
	}
}

// WithPreferences sets the store used by the locale switch endpoint.
func WithPreferences(store interfaces.PreferenceStore) SiteOption {
	return func(api *SiteAPI) {
		if store != nil {
			api.preferences = store
		}
	}
}

// WithLinks enables absolute links in responses.
func WithLinks(links *locale.LinkBuilder) SiteOption {
	return func(api *SiteAPI) {
		api.links = links
	}
}

// WithRefreshHandler enables POST /cache/refresh.
func WithRefreshHandler(handler *synccmd.RefreshContentHandler) SiteOption {
	return func(api *SiteAPI) {
		api.refresh = handler
	}
}

// WithCookieNames overrides the locale and visitor cookie names.
func WithCookieNames(localeCookie, visitorCookie string) SiteOption {
	return func(api *SiteAPI) {
		if strings.TrimSpace(localeCookie) != "" {
			api.cookieName = localeCookie
		}
		if strings.TrimSpace(visitorCookie) != "" {
			api.visitorCookie = visitorCookie
		}
	}
}

// WithLogger overrides the HTTP logger.
func WithLogger(logger interfaces.Logger) SiteOption {
	return func(api *SiteAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// NewSiteAPI constructs the API around a content repository.
func NewSiteAPI(content repository.Service, opts ...SiteOption) *SiteAPI {
	api := &SiteAPI{
		basePath:      "/api",
		content:       content,
		scheme:        locale.DefaultScheme,
		preferences:   locale.NewMemoryPreferenceStore(),
		cookieName:    DefaultLocaleCookie,
		visitorCookie: DefaultVisitorCookie,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	api.resolver = NewLocaleResolver(api.scheme, api.cookieName, api.logger)
	return api
}

// Resolver exposes the locale middleware so hosts can mount it on their
// page routes.
func (api *SiteAPI) Resolver() *LocaleResolver {
	return api.resolver
}

// Handler returns a router with request logging, recovery, locale
// resolution and the API routes mounted.
func (api *SiteAPI) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(api.logger))
	r.Use(middleware.Recoverer)
	r.Use(api.resolver.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed")
	})

	r.Mount(api.basePath, api.Routes())
	return r
}

// Routes returns the bare API routes.
func (api *SiteAPI) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/slides", api.listSlides)
	r.Get("/team", api.listTeam)
	r.Get("/testimonials", api.listTestimonials)
	r.Get("/services", api.listServices)
	r.Get("/services/{slug}", api.getService)
	r.Get("/navigation", api.getNavigation)
	r.Post("/subscribers", api.subscribe)
	r.Post("/locale", api.setLocale)
	if api.refresh != nil {
		r.Post("/cache/refresh", api.refreshCache)
	}
	return r
}

func requestLogger(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqID := middleware.GetReqID(r.Context())
			ctx := logging.ContextWithFields(r.Context(), map[string]any{"request_id": reqID})

			next.ServeHTTP(ww, r.WithContext(ctx))

			logging.FromContext(ctx, logger).Info("http.request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(started).Milliseconds(),
			)
		})
	}
}
