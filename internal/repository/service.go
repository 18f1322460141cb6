package repository

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-content-sync/internal/cache"
	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/contentapi"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/internal/normalize"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// Tag names a cache invalidation group.
type Tag string

const (
	TagSlides       Tag = "slides"
	TagTeamMembers  Tag = "team-members"
	TagTestimonials Tag = "testimonials"
	TagServices     Tag = "services"
	TagNavigation   Tag = "navigation"
	TagSubscribers  Tag = "subscribers"
)

// AllTags lists every tag in a stable order.
var AllTags = []Tag{TagSlides, TagTeamMembers, TagTestimonials, TagServices, TagNavigation, TagSubscribers}

// ParseTag maps a tag name onto a known Tag.
func ParseTag(name string) (Tag, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, tag := range AllTags {
		if string(tag) == name {
			return tag, true
		}
	}
	return "", false
}

const (
	resourceSlides       = "hero-slides"
	resourceTeamMembers  = "team-members"
	resourceTestimonials = "testimonials"
	resourceServices     = "services"
	resourceNavigation   = "navigation"
	resourceSubscribers  = "subscribers"

	defaultSort         = "order:asc"
	defaultPage         = 1
	defaultPageSize     = 9
	defaultBulkPageSize = 100
	allCategories       = "All"
)

// APIClient is the subset of the content API client used by the repository.
type APIClient interface {
	Get(ctx context.Context, resource string, query url.Values) (*contentapi.Response, error)
	Post(ctx context.Context, resource string, payload any) (*contentapi.Response, error)
}

// ServiceQuery selects one page of services.
type ServiceQuery struct {
	Page     int
	PageSize int
	Category string
	Sort     string
}

// Service exposes normalized site content. Reads never fail: a failed fetch
// yields an empty or default value and is logged.
type Service interface {
	ListSlides(ctx context.Context) []content.Slide
	ListTeamMembers(ctx context.Context) []content.TeamMember
	ListTestimonials(ctx context.Context) []content.Testimonial
	ListServices(ctx context.Context) []content.Service
	ListServicesPaged(ctx context.Context, query ServiceQuery) content.ServicePage
	GetServiceBySlug(ctx context.Context, slug string) *content.Service
	GetNavigation(ctx context.Context, locale string) content.NavigationConfig
	Subscribe(ctx context.Context, email string) content.SubscriptionResult
	Invalidate(ctx context.Context, tags ...Tag)
}

// ServiceOption configures repository behaviour.
type ServiceOption func(*service)

// WithCache replaces the default cache store.
func WithCache(store *cache.Store) ServiceOption {
	return func(s *service) {
		if store != nil {
			s.cache = store
		}
	}
}

// WithNormalizer replaces the normalizer built from the client origin.
func WithNormalizer(n *normalize.Normalizer) ServiceOption {
	return func(s *service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithLogger sets the repository logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPageSizes overrides the bulk listing cap and the default page size.
func WithPageSizes(bulk, page int) ServiceOption {
	return func(s *service) {
		if bulk > 0 {
			s.bulkPageSize = bulk
		}
		if page > 0 {
			s.pageSize = page
		}
	}
}

// WithDefaultLocale sets the locale used for messages when ctx carries none.
func WithDefaultLocale(locale string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(locale) != "" {
			s.defaultLocale = locale
		}
	}
}

type service struct {
	api           APIClient
	cache         *cache.Store
	normalizer    *normalize.Normalizer
	logger        interfaces.Logger
	bulkPageSize  int
	pageSize      int
	defaultLocale string
}

type originProvider interface {
	Origin() string
}

// NewService builds the content repository over api.
func NewService(api APIClient, opts ...ServiceOption) Service {
	s := &service{
		api:           api,
		logger:        logging.NoOp(),
		bulkPageSize:  defaultBulkPageSize,
		pageSize:      defaultPageSize,
		defaultLocale: content.DefaultLocales.Primary,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.cache == nil {
		s.cache = cache.New(cache.Config{Enabled: true}, s.logger)
	}
	if s.normalizer == nil {
		origin := ""
		if provider, ok := api.(originProvider); ok {
			origin = provider.Origin()
		}
		s.normalizer = normalize.New(origin, s.logger)
	}
	return s
}

func listQuery(extra url.Values) url.Values {
	query := url.Values{
		"sort":     {defaultSort},
		"populate": {"*"},
	}
	for key, values := range extra {
		query[key] = values
	}
	return query
}

// fetchList loads, normalizes and sorts a collection through the cache.
func fetchList[T content.Ordered](ctx context.Context, s *service, tag Tag, key, resource string, query url.Values, fn func(normalize.Raw) T) []T {
	items, err := cache.Fetch(ctx, s.cache, string(tag), key, func(ctx context.Context) ([]T, error) {
		resp, err := s.api.Get(ctx, resource, query)
		if err != nil {
			return nil, err
		}
		out := normalize.Batch(s.normalizer, string(tag), resp.Items(), fn)
		return content.SortByDisplayOrder(out), nil
	})
	if err != nil {
		s.logFailure(ctx, tag, key, err)
		return []T{}
	}
	return cloneSlice(items)
}

func (s *service) ListSlides(ctx context.Context) []content.Slide {
	return fetchList(ctx, s, TagSlides, "slides:list", resourceSlides, listQuery(nil), s.normalizer.Slide)
}

func (s *service) ListTeamMembers(ctx context.Context) []content.TeamMember {
	return fetchList(ctx, s, TagTeamMembers, "team-members:list", resourceTeamMembers, listQuery(nil), s.normalizer.TeamMember)
}

func (s *service) ListTestimonials(ctx context.Context) []content.Testimonial {
	return fetchList(ctx, s, TagTestimonials, "testimonials:list", resourceTestimonials, listQuery(nil), s.normalizer.Testimonial)
}

func (s *service) ListServices(ctx context.Context) []content.Service {
	query := listQuery(url.Values{"pagination[pageSize]": {strconv.Itoa(s.bulkPageSize)}})
	key := "services:all:" + strconv.Itoa(s.bulkPageSize)
	return fetchList(ctx, s, TagServices, key, resourceServices, query, s.normalizer.Service)
}

func (s *service) ListServicesPaged(ctx context.Context, q ServiceQuery) content.ServicePage {
	q = s.resolveQuery(q)
	params := url.Values{
		"sort":                 {q.Sort},
		"populate":             {"*"},
		"pagination[page]":     {strconv.Itoa(q.Page)},
		"pagination[pageSize]": {strconv.Itoa(q.PageSize)},
	}
	if q.Category != "" {
		params.Set("filters[category][$eq]", q.Category)
	}
	key := strings.Join([]string{"services:page", strconv.Itoa(q.Page), strconv.Itoa(q.PageSize), keyPart(q.Category), keyPart(q.Sort)}, ":")
	requested := content.Pagination{Page: q.Page, PageSize: q.PageSize}

	page, err := cache.Fetch(ctx, s.cache, string(TagServices), key, func(ctx context.Context) (content.ServicePage, error) {
		resp, err := s.api.Get(ctx, resourceServices, params)
		if err != nil {
			return content.ServicePage{}, err
		}
		items := normalize.Batch(s.normalizer, string(TagServices), resp.Items(), s.normalizer.Service)
		if q.Sort == defaultSort {
			content.SortByDisplayOrder(items)
		}
		return content.ServicePage{
			Items:      items,
			Pagination: s.normalizer.Pagination(resp.Meta, derivePagination(requested, len(items))),
		}, nil
	})
	if err != nil {
		s.logFailure(ctx, TagServices, key, err)
		return content.ServicePage{Items: []content.Service{}, Pagination: requested}
	}
	page.Items = cloneSlice(page.Items)
	return page
}

func (s *service) resolveQuery(q ServiceQuery) ServiceQuery {
	if q.Page <= 0 {
		q.Page = defaultPage
	}
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}
	q.Category = strings.TrimSpace(q.Category)
	if strings.EqualFold(q.Category, allCategories) {
		q.Category = ""
	}
	if strings.TrimSpace(q.Sort) == "" {
		q.Sort = defaultSort
	}
	return q
}

// derivePagination is used when the API omits meta.pagination. A short page
// means it was the last one.
func derivePagination(requested content.Pagination, count int) content.Pagination {
	out := requested
	if count == 0 {
		out.PageCount = requested.Page - 1
		out.Total = (requested.Page - 1) * requested.PageSize
		return out
	}
	out.PageCount = requested.Page
	out.Total = (requested.Page-1)*requested.PageSize + count
	if count >= requested.PageSize {
		out.PageCount = requested.Page + 1
	}
	return out
}

func (s *service) GetServiceBySlug(ctx context.Context, slugValue string) *content.Service {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return nil
	}
	key := "services:slug:" + keyPart(slugValue)
	found, err := cache.Fetch(ctx, s.cache, string(TagServices), key, func(ctx context.Context) (*content.Service, error) {
		resp, err := s.api.Get(ctx, resourceServices, listQuery(url.Values{"filters[slug][$eqi]": {slugValue}}))
		if err != nil {
			return nil, err
		}
		for _, svc := range normalize.Batch(s.normalizer, string(TagServices), resp.Items(), s.normalizer.Service) {
			if strings.EqualFold(svc.Slug, slugValue) {
				return &svc, nil
			}
		}
		return nil, content.ErrNotFound
	})
	if err != nil {
		if content.KindOf(err) == content.NotFound {
			s.log(ctx, TagServices, key).Info("repository.service.not_found", "slug", slugValue)
		} else {
			s.logFailure(ctx, TagServices, key, err)
		}
		return nil
	}
	clone := *found
	return &clone
}

func (s *service) GetNavigation(ctx context.Context, locale string) content.NavigationConfig {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = s.defaultLocale
	}
	key := "navigation:" + keyPart(locale)
	nav, err := cache.Fetch(ctx, s.cache, string(TagNavigation), key, func(ctx context.Context) (content.NavigationConfig, error) {
		resp, err := s.api.Get(ctx, resourceNavigation, url.Values{"locale": {locale}, "populate": {"logo"}})
		if err != nil {
			return content.NavigationConfig{}, err
		}
		return s.normalizer.Navigation(resp.Object(), locale), nil
	})
	if err != nil {
		s.logFailure(ctx, TagNavigation, key, err)
		return content.DefaultNavigation(locale)
	}
	if nav.Logo != nil {
		logo := *nav.Logo
		nav.Logo = &logo
	}
	return nav
}

func (s *service) Invalidate(ctx context.Context, tags ...Tag) {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, string(tag))
	}
	removed := s.cache.Invalidate(names...)
	logging.FromContext(ctx, s.logger).Debug("repository.invalidated", "tags", strings.Join(names, ","), "keys", removed)
}

func (s *service) log(ctx context.Context, tag Tag, key string) interfaces.Logger {
	return logging.WithTag(logging.FromContext(ctx, s.logger), string(tag), key)
}

func (s *service) logFailure(ctx context.Context, tag Tag, key string, err error) {
	s.log(ctx, tag, key).Warn("repository.fetch.failed",
		"status", contentapi.StatusOf(err),
		"kind", string(content.KindOf(err)),
		"error", err,
	)
}

// keyPart keeps cache keys readable. Values that go-slug would alter are
// escaped instead so two distinct values never share a key.
func keyPart(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	if lowered == "" {
		return "_"
	}
	if normalized, err := slug.Normalize(lowered); err == nil && normalized == lowered {
		return normalized
	}
	return url.QueryEscape(lowered)
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
