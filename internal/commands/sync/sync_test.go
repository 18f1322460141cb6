package synccmd_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-content-sync/internal/commands"
	synccmd "github.com/goliatone/go-content-sync/internal/commands/sync"
	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/repository"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	mu          sync.Mutex
	invalidated []repository.Tag
	calls       map[string]int
	navLocales  []string
	subscribe   func(ctx context.Context, email string) content.SubscriptionResult
}

func newStubService() *stubService {
	return &stubService{calls: map[string]int{}}
}

func (s *stubService) hit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *stubService) ListSlides(context.Context) []content.Slide {
	s.hit("slides")
	return nil
}

func (s *stubService) ListTeamMembers(context.Context) []content.TeamMember {
	s.hit("team")
	return nil
}

func (s *stubService) ListTestimonials(context.Context) []content.Testimonial {
	s.hit("testimonials")
	return nil
}

func (s *stubService) ListServices(context.Context) []content.Service {
	s.hit("services")
	return nil
}

func (s *stubService) ListServicesPaged(context.Context, repository.ServiceQuery) content.ServicePage {
	s.hit("services_paged")
	return content.ServicePage{}
}

func (s *stubService) GetServiceBySlug(context.Context, string) *content.Service {
	s.hit("service")
	return nil
}

func (s *stubService) GetNavigation(_ context.Context, locale string) content.NavigationConfig {
	s.hit("navigation")
	s.mu.Lock()
	s.navLocales = append(s.navLocales, locale)
	s.mu.Unlock()
	return content.DefaultNavigation(locale)
}

func (s *stubService) Subscribe(ctx context.Context, email string) content.SubscriptionResult {
	s.hit("subscribe")
	if s.subscribe != nil {
		return s.subscribe(ctx, email)
	}
	return content.SubscriptionResult{Success: true, Message: content.Message("", "en")}
}

func (s *stubService) Invalidate(_ context.Context, tags ...repository.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, tags...)
}

func TestRefreshValidatesTags(t *testing.T) {
	svc := newStubService()
	handler := synccmd.NewRefreshContentHandler(svc, nil, nil)

	err := handler.Execute(context.Background(), synccmd.RefreshContentCommand{Tags: []string{"slides", "banners"}})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
	assert.Empty(t, svc.invalidated)
}

func TestRefreshInvalidatesEveryTagByDefault(t *testing.T) {
	svc := newStubService()
	handler := synccmd.NewRefreshContentHandler(svc, nil, []string{"en", "ar"})

	require.NoError(t, handler.Execute(context.Background(), synccmd.RefreshContentCommand{}))
	assert.Equal(t, repository.AllTags, svc.invalidated)
	assert.Empty(t, svc.calls)
}

func TestRefreshWarmsRequestedTags(t *testing.T) {
	svc := newStubService()
	handler := synccmd.NewRefreshContentHandler(svc, nil, []string{"en", "ar"})

	err := handler.Execute(context.Background(), synccmd.RefreshContentCommand{
		Tags: []string{"Slides", "navigation"},
		Warm: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []repository.Tag{repository.TagSlides, repository.TagNavigation}, svc.invalidated)
	assert.Equal(t, 1, svc.calls["slides"])
	assert.Equal(t, []string{"en", "ar"}, svc.navLocales)
	assert.Zero(t, svc.calls["team"])
}

func TestSubscribeSuccess(t *testing.T) {
	svc := newStubService()
	var results []content.SubscriptionResult
	handler := synccmd.NewSubscribeHandler(svc, nil, func(r content.SubscriptionResult) { results = append(results, r) })

	require.NoError(t, handler.Execute(context.Background(), synccmd.SubscribeCommand{Email: " A@B.com "}))
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
}

func TestSubscribeRejectsInvalidEmailBeforeService(t *testing.T) {
	svc := newStubService()
	handler := synccmd.NewSubscribeHandler(svc, nil, nil)

	err := handler.Execute(context.Background(), synccmd.SubscribeCommand{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
	assert.Zero(t, svc.calls["subscribe"])
}

func TestSubscribeDuplicateSurfacesKind(t *testing.T) {
	svc := newStubService()
	var seenLocale string
	svc.subscribe = func(ctx context.Context, email string) content.SubscriptionResult {
		seenLocale = content.LocaleFrom(ctx, "en")
		return content.SubscriptionResult{Kind: content.DuplicateEntry, Message: content.Message(content.DuplicateEntry, seenLocale)}
	}
	handler := synccmd.NewSubscribeHandler(svc, nil, nil)

	err := handler.Execute(context.Background(), synccmd.SubscribeCommand{Email: "a@b.com", Locale: "ar"})
	require.Error(t, err)
	assert.Equal(t, "ar", seenLocale)
	assert.Equal(t, content.DuplicateEntry, content.KindOf(err))

	var subErr *synccmd.SubscriptionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, content.Message(content.DuplicateEntry, "ar"), subErr.Result.Message)
}

func TestSubscribeServerFailureCategory(t *testing.T) {
	svc := newStubService()
	svc.subscribe = func(context.Context, string) content.SubscriptionResult {
		return content.SubscriptionResult{Kind: content.ServerFailure}
	}
	handler := synccmd.NewSubscribeHandler(svc, nil, nil)

	err := handler.Execute(context.Background(), synccmd.SubscribeCommand{Email: "a@b.com"})
	assert.Equal(t, content.ServerFailure, content.KindOf(err))
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRegisterCommandsWithDispatcher(t *testing.T) {
	svc := newStubService()
	registry := &recordingRegistry{}
	tally := &commands.Tally{}
	result, err := synccmd.RegisterCommands(svc, synccmd.RegistrationOptions{
		Registry:   registry,
		Dispatcher: synccmd.GlobalDispatcher{},
		Tally:      tally,
	})
	require.NoError(t, err)
	t.Cleanup(result.Unsubscribe)

	assert.Len(t, registry.handlers, 2)
	assert.Len(t, result.Subscriptions, 2)

	require.NoError(t, dispatcher.Dispatch(context.Background(), synccmd.RefreshContentCommand{Tags: []string{"services"}}))
	assert.Equal(t, []repository.Tag{repository.TagServices}, svc.invalidated)
	assert.Equal(t, 1, tally.Count(synccmd.RefreshContentCommand{}.Type(), commands.OutcomeSuccess))
}

func TestGlobalDispatcherRejectsUnknownHandler(t *testing.T) {
	_, err := synccmd.GlobalDispatcher{}.RegisterCommand(struct{}{})
	assert.Error(t, err)
}
