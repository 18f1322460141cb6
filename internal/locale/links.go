package locale

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// Site route names understood by LinkBuilder.
const (
	RouteHome     = "home"
	RouteServices = "services"
	RouteService  = "service"
	RouteSearch   = "search"
)

const siteGroup = "site"

// SiteRoutes is the route table shared by both locale groups.
var SiteRoutes = map[string]string{
	RouteHome:     "/",
	RouteServices: "/services",
	RouteService:  "/services/:slug",
	RouteSearch:   "/search",
}

// LinkBuilder produces absolute, localized links for named site routes. The
// primary locale resolves against the "site" group and the alternate locale
// against its child group mounted at the scheme prefix.
type LinkBuilder struct {
	scheme  Scheme
	baseURL string
	manager *urlkit.RouteManager
}

// NewLinkBuilder registers the site routes for both locales under baseURL.
func NewLinkBuilder(scheme Scheme, baseURL string) *LinkBuilder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    siteGroup,
				BaseURL: baseURL,
				Paths:   SiteRoutes,
				Groups: []urlkit.GroupConfig{
					{
						Name:  scheme.Alternate,
						Path:  scheme.Prefix,
						Paths: SiteRoutes,
					},
				},
			},
		},
	})
	return &LinkBuilder{scheme: scheme, baseURL: baseURL, manager: manager}
}

// Link builds the URL for route in the given locale. Params fill path
// placeholders such as ":slug"; query values are appended in order.
func (b *LinkBuilder) Link(locale, route string, params map[string]any, query map[string]string) (string, error) {
	if b == nil || b.manager == nil {
		return "", fmt.Errorf("locale: link builder not configured")
	}
	loc, ok := b.scheme.Normalize(locale)
	if !ok {
		return "", ErrUnsupportedLocale
	}
	if route == RouteHome && len(query) == 0 {
		return b.baseURL + b.scheme.WithPrefix("/", loc), nil
	}

	group, err := lookupGroup(b.manager, siteGroup)
	if err != nil {
		return "", err
	}
	if loc == b.scheme.Alternate {
		if group, err = lookupChildGroup(group, b.scheme.Alternate); err != nil {
			return "", err
		}
	}

	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	for key, val := range query {
		builder.WithQuery(key, val)
	}
	return builder.Build()
}

// Path returns the localized path for a route, without scheme or host.
func (b *LinkBuilder) Path(locale, route string, params map[string]any) (string, error) {
	link, err := b.Link(locale, route, params, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(link, b.baseURL), nil
}

// Absolute joins a site path onto the base URL.
func (b *LinkBuilder) Absolute(path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return b.baseURL + path
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("locale: route %q not found", route)
		}
	}()
	builder = group.Builder(route)
	if builder == nil {
		err = fmt.Errorf("locale: route %q not found", route)
	}
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("locale: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	if group == nil {
		err = fmt.Errorf("locale: route group %q not found", name)
	}
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("locale: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	if group == nil {
		err = fmt.Errorf("locale: child group %q not found", name)
	}
	return group, err
}
