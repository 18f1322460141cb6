package contentsync_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	contentsync "github.com/goliatone/go-content-sync"
	synccmd "github.com/goliatone/go-content-sync/internal/commands/sync"
	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/di"
	"github.com/goliatone/go-content-sync/internal/locale"
	"github.com/goliatone/go-content-sync/pkg/testsupport"
	goerrors "github.com/goliatone/go-errors"
)

func newModule(t *testing.T, api *testsupport.ContentAPI, opts ...di.Option) *contentsync.Module {
	t.Helper()
	cfg := contentsync.DefaultConfig()
	cfg.API.BaseURL = api.URL()
	cfg.API.Retries = 0
	cfg.Logging.Provider = "none"

	module, err := contentsync.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := contentsync.DefaultConfig()
	cfg.Cache.TTL = 0
	if _, err := contentsync.New(cfg); !errors.Is(err, contentsync.ErrCacheTTLInvalid) {
		t.Fatalf("expected ErrCacheTTLInvalid, got %v", err)
	}
}

func TestModuleCarouselsBindToRepository(t *testing.T) {
	api := testsupport.NewContentAPI(t)
	api.SetCollection("hero-slides",
		map[string]any{"id": 1, "Title": "One", "order": 1},
		map[string]any{"id": 2, "Title": "Two", "order": 2},
	)
	api.SetCollection("team-members",
		map[string]any{"id": 1, "name": "A"},
		map[string]any{"id": 2, "name": "B"},
		map[string]any{"id": 3, "name": "C"},
		map[string]any{"id": 4, "name": "D"},
	)
	clock := testsupport.NewFakeClock()
	module := newModule(t, api, di.WithClock(clock))
	ctx := context.Background()

	hero, slides := module.HeroCarousel(ctx)
	defer hero.Close()
	if got := <-slides; len(got) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(got))
	}
	if hero.Count() != 2 {
		t.Fatalf("expected hero count 2, got %d", hero.Count())
	}
	clock.Advance(module.Container().Config.Carousel.Interval)
	if hero.Index() != 1 {
		t.Fatalf("expected hero to autoplay to 1, got %d", hero.Index())
	}

	team, members := module.TeamCarousel(ctx)
	<-members
	if team.GoTo(5) != 1 {
		t.Fatalf("expected team pager clamped to 1, got %d", team.Index())
	}
	if team.Offset(locale.RTL) <= 0 {
		t.Fatalf("expected positive rtl offset")
	}
}

func TestModuleConcurrentCarouselsLoadIndependently(t *testing.T) {
	api := testsupport.NewContentAPI(t)
	api.SetCollection("hero-slides",
		map[string]any{"id": 1, "Title": "One", "order": 1},
		map[string]any{"id": 2, "Title": "Two", "order": 2},
	)
	module := newModule(t, api, di.WithClock(testsupport.NewFakeClock()))
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		first, firstSlides := module.HeroCarousel(ctx)
		second, secondSlides := module.HeroCarousel(ctx)
		<-firstSlides
		<-secondSlides
		if first.Count() != 2 || second.Count() != 2 {
			t.Fatalf("round %d: expected both carousels to hold 2 slides, got %d and %d", i, first.Count(), second.Count())
		}
		first.Close()
		second.Close()
	}
}

func TestModuleTestimonialCarouselEmptyOnFailure(t *testing.T) {
	api := testsupport.NewContentAPI(t)
	api.Fail("testimonials", http.StatusInternalServerError)
	module := newModule(t, api, di.WithClock(testsupport.NewFakeClock()))

	c, items := module.TestimonialCarousel(context.Background())
	defer c.Close()
	got, ok := <-items
	if !ok || len(got) != 0 {
		t.Fatalf("expected an applied empty collection, got %v (ok=%v)", got, ok)
	}
	if c.Next() != 0 {
		t.Fatalf("expected navigation disabled on empty carousel")
	}
}

func TestModuleSessionPersistsPreference(t *testing.T) {
	api := testsupport.NewContentAPI(t)
	module := newModule(t, api)
	ctx := context.Background()

	session := module.NewSession(locale.WithVisitorID("v-1"))
	if _, err := session.Init(ctx, "/services"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	target, err := session.SetLocale(ctx, "ar")
	if err != nil {
		t.Fatalf("SetLocale returned error: %v", err)
	}
	if target != "/ar/services" || session.Direction() != locale.RTL {
		t.Fatalf("unexpected switch result %s %s", target, session.Direction())
	}

	next := module.NewSession(locale.WithVisitorID("v-1"))
	if _, err := next.Init(ctx, "/"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if next.Locale() != "ar" {
		t.Fatalf("expected stored preference ar, got %s", next.Locale())
	}
}

func TestModuleSubscribeReportsDuplicate(t *testing.T) {
	api := testsupport.NewContentAPI(t)
	api.SetCollection("subscribers", map[string]any{"id": 1, "email": "taken@example.com"})
	module := newModule(t, api)
	ctx := context.Background()

	if err := module.Subscribe(ctx, contentsync.SubscribeCommand{Email: "fresh@example.com"}); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	err := module.Subscribe(ctx, contentsync.SubscribeCommand{Email: "TAKEN@example.com", Locale: "ar"})
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
	if !goerrors.IsCategory(err, content.CategoryConflict) {
		t.Fatalf("expected conflict category, got %v", err)
	}
	var subErr *synccmd.SubscriptionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubscriptionError, got %T", err)
	}
	if subErr.Result.Kind != content.DuplicateEntry || subErr.Result.Message != content.Message(content.DuplicateEntry, "ar") {
		t.Fatalf("unexpected result %+v", subErr.Result)
	}
}

func TestModuleRefreshContentDropsCache(t *testing.T) {
	api := testsupport.NewContentAPI(t)
	api.SetCollection("services", map[string]any{"id": 1, "title": "Alpha", "slug": "alpha"})
	module := newModule(t, api)
	ctx := context.Background()

	module.Content().ListServices(ctx)
	module.Content().ListServices(ctx)
	if hits := api.Hits("services"); hits != 1 {
		t.Fatalf("expected one fetch, got %d", hits)
	}

	if err := module.RefreshContent(ctx, contentsync.RefreshContentCommand{Tags: []string{"services"}, Warm: true}); err != nil {
		t.Fatalf("RefreshContent returned error: %v", err)
	}
	if hits := api.Hits("services"); hits != 2 {
		t.Fatalf("expected warm fetch, got %d", hits)
	}

	if err := module.RefreshContent(ctx, contentsync.RefreshContentCommand{Tags: []string{"menus"}}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestModuleHandlerServesServices(t *testing.T) {
	api := testsupport.NewContentAPI(t)
	api.SetCollection("services", map[string]any{"id": 1, "title": "Alpha", "slug": "alpha"})
	module := newModule(t, api)

	rec := httptest.NewRecorder()
	module.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/services/ALPHA", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestModuleCarouselCloseStopsAutoplay(t *testing.T) {
	api := testsupport.NewContentAPI(t)
	api.SetCollection("testimonials",
		map[string]any{"id": 1, "text": "a"},
		map[string]any{"id": 2, "text": "b"},
	)
	clock := testsupport.NewFakeClock()
	module := newModule(t, api, di.WithClock(clock))

	c, items := module.TestimonialCarousel(context.Background())
	<-items
	c.Close()
	clock.Advance(10 * time.Second)
	if c.Index() != 0 || clock.Pending() != 0 {
		t.Fatalf("expected closed carousel to stay put, index=%d pending=%d", c.Index(), clock.Pending())
	}
}
