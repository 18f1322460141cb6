package contentsync

import (
	"context"
	"net/http"

	"github.com/goliatone/go-content-sync/internal/carousel"
	synccmd "github.com/goliatone/go-content-sync/internal/commands/sync"
	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/di"
	"github.com/goliatone/go-content-sync/internal/locale"
	"github.com/goliatone/go-content-sync/internal/query"
	"github.com/goliatone/go-content-sync/internal/repository"
)

// ContentService exports the content repository contract.
type ContentService = repository.Service

// ServiceQuery exports the paged services query.
type ServiceQuery = repository.ServiceQuery

// Tag exports the cache invalidation tag type.
type Tag = repository.Tag

// Content records.
type (
	Slide              = content.Slide
	TeamMember         = content.TeamMember
	Testimonial        = content.Testimonial
	Service            = content.Service
	NavigationConfig   = content.NavigationConfig
	ServicePage        = content.ServicePage
	SubscriptionResult = content.SubscriptionResult
	ErrorKind          = content.ErrorKind
)

// Session exports the locale session manager.
type Session = locale.Session

// Carousel exports the carousel controller.
type Carousel = carousel.Controller

// Command messages accepted by the module.
type (
	RefreshContentCommand = synccmd.RefreshContentCommand
	SubscribeCommand      = synccmd.SubscribeCommand
)

// Module represents the top level content sync runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Content returns the content repository.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// NewSession starts a locale session for one visitor.
func (m *Module) NewSession(opts ...locale.SessionOption) *Session {
	return m.container.NewSession(opts...)
}

// HeroCarousel builds the hero slide controller and loads its slides. The
// channel yields the slides once they are applied. Each controller tracks
// its own loads.
func (m *Module) HeroCarousel(ctx context.Context, opts ...carousel.Option) (*Carousel, <-chan []Slide) {
	c := m.container.NewCarousel(carousel.Hero(m.container.Config.Carousel.Interval), opts...)
	return c, carousel.Bind(ctx, c, &query.Tracker[[]Slide]{}, loader(m.Content().ListSlides))
}

// TestimonialCarousel builds the testimonial controller and loads its quotes.
func (m *Module) TestimonialCarousel(ctx context.Context, opts ...carousel.Option) (*Carousel, <-chan []Testimonial) {
	c := m.container.NewCarousel(carousel.Testimonials(m.container.Config.Carousel.Interval), opts...)
	return c, carousel.Bind(ctx, c, &query.Tracker[[]Testimonial]{}, loader(m.Content().ListTestimonials))
}

// TeamCarousel builds the windowed team pager and loads the roster.
func (m *Module) TeamCarousel(ctx context.Context, opts ...carousel.Option) (*Carousel, <-chan []TeamMember) {
	c := m.container.NewCarousel(carousel.Team(m.container.Config.Carousel.TeamWindow), opts...)
	return c, carousel.Bind(ctx, c, &query.Tracker[[]TeamMember]{}, loader(m.Content().ListTeamMembers))
}

// RefreshContent runs the cache refresh command.
func (m *Module) RefreshContent(ctx context.Context, cmd RefreshContentCommand) error {
	return m.container.RefreshHandler().Execute(ctx, cmd)
}

// Subscribe runs the subscribe command. Rejections come back as errors
// wrapping *synccmd.SubscriptionError.
func (m *Module) Subscribe(ctx context.Context, cmd SubscribeCommand) error {
	return m.container.SubscribeHandler().Execute(ctx, cmd)
}

// Handler returns the HTTP JSON surface.
func (m *Module) Handler() http.Handler {
	return m.container.SiteAPI().Handler()
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// loader adapts a fail-soft repository read to a carousel loader. A
// cancelled context discards whatever the read returned.
func loader[T any](list func(context.Context) []T) carousel.Loader[T] {
	return func(ctx context.Context) ([]T, error) {
		items := list(ctx)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return items, nil
	}
}
