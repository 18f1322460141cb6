package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synccmd "github.com/goliatone/go-content-sync/internal/commands/sync"
	"github.com/goliatone/go-content-sync/internal/contentapi"
	synchttp "github.com/goliatone/go-content-sync/internal/http"
	"github.com/goliatone/go-content-sync/internal/locale"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/internal/repository"
	"github.com/goliatone/go-content-sync/pkg/testsupport"
)

type fixture struct {
	api     *testsupport.ContentAPI
	prefs   *locale.MemoryPreferenceStore
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := testsupport.NewContentAPI(t)
	api.SetCollection("hero-slides", map[string]any{"id": 1, "Title": "Welcome", "order": 1})
	api.SetCollection("team-members",
		map[string]any{"id": 1, "name": "Sara", "order": 2},
		map[string]any{"id": 2, "name": "Omar", "order": 1},
	)
	api.SetCollection("testimonials", map[string]any{"id": 1, "text": "Great work", "author": "Lina"})
	api.SetCollection("services",
		map[string]any{"id": 1, "title": "Alpha", "slug": "Alpha", "order": 1, "description": "Alpha **helps** you grow.", "descriptionAr": "ألفا تساعدك على النمو."},
		map[string]any{"id": 2, "title": "Beta", "slug": "beta", "order": 2, "category": "Ads"},
	)
	api.SetSingleton("navigation", map[string]any{"title": "Acme", "titleAr": "أكمي"})
	api.SetCollection("subscribers", map[string]any{"id": 1, "email": "taken@example.com"})

	client, err := contentapi.New(contentapi.Config{BaseURL: api.URL(), RetryWait: time.Millisecond}, nil)
	require.NoError(t, err)
	repo := repository.NewService(client)
	prefs := locale.NewMemoryPreferenceStore()

	site := synchttp.NewSiteAPI(repo,
		synchttp.WithPreferences(prefs),
		synchttp.WithLinks(locale.NewLinkBuilder(locale.DefaultScheme, "https://example.com")),
		synchttp.WithRefreshHandler(synccmd.NewRefreshContentHandler(repo, logging.NoOp(), []string{"en", "ar"})),
	)
	return &fixture{api: api, prefs: prefs, handler: site.Handler()}
}

func (f *fixture) do(t *testing.T, method, target string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, target, &payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, fn := range mutate {
		fn(req)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestTeamListIsSorted(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/team", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "Omar", data[0].(map[string]any)["name"])
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	assert.Equal(t, "ltr", rec.Header().Get("X-Content-Direction"))
}

func TestTeamListServerErrorIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.api.Fail("team-members", http.StatusInternalServerError)

	rec := f.do(t, http.MethodGet, "/api/team", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data, _ := decode(t, rec)["data"].([]any)
	assert.Empty(t, data)
}

func TestSlidesAndTestimonials(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/slides", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = f.do(t, http.MethodGet, "/api/testimonials", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	quotes := decode(t, rec)["data"].([]any)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Great work", quotes[0].(map[string]any)["quote"])
}

func TestServicesCarryExcerptAndLocalizedURL(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/services?locale=ar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rtl", rec.Header().Get("X-Content-Direction"))

	data := decode(t, rec)["data"].([]any)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	assert.Equal(t, "ألفا تساعدك على النمو.", first["excerpt"])
	assert.Equal(t, "https://example.com/ar/services/Alpha", first["url"])
}

func TestServicesPagedIncludesPagination(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/services?page=1&pageSize=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["data"], 1)

	pagination := body["meta"].(map[string]any)["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pagination["pageSize"])
	assert.EqualValues(t, 2, pagination["total"])
	assert.EqualValues(t, 2, pagination["pageCount"])
}

func TestServiceBySlugIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/services/alpha", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Alpha", data["slug"])
	assert.Equal(t, "Alpha helps you grow.", data["excerpt"])
}

func TestServiceBySlugNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/services/missing?locale=ar", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "تعذر العثور على المحتوى المطلوب.", body["message"])
	assert.Equal(t, "https://example.com/ar/services", body["links"].(map[string]any)["services"])
}

func TestNavigationUsesRequestLocale(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/navigation", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: synchttp.DefaultLocaleCookie, Value: "ar"})
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Acme", data["title"])
	assert.Equal(t, "ar", f.api.LastQuery("navigation").Get("locale"))
}

func TestSubscribeStatusMapping(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/subscribers", map[string]string{"email": "  New@Example.com "})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "new@example.com", body["subscriber"].(map[string]any)["email"])

	rec = f.do(t, http.MethodPost, "/api/subscribers", map[string]string{"email": "taken@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_entry", decode(t, rec)["kind"])

	hits := f.api.Hits("subscribers")
	rec = f.do(t, http.MethodPost, "/api/subscribers", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failure", decode(t, rec)["kind"])
	assert.Equal(t, hits, f.api.Hits("subscribers"))

	rec = f.do(t, http.MethodPost, "/api/subscribers", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageRequestRedirectsToPreferredLocale(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/services?page=2", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: synchttp.DefaultLocaleCookie, Value: "ar"})
	})
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/ar/services?page=2", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/", nil, func(r *http.Request) {
		r.Header.Set("Accept-Language", "ar-SA,ar;q=0.9,en;q=0.5")
	})
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/ar", rec.Header().Get("Location"))
	require.NotNil(t, cookie(rec, synchttp.DefaultLocaleCookie))
	assert.Equal(t, "ar", cookie(rec, synchttp.DefaultLocaleCookie).Value)
}

func TestPrefixedPageResyncsCookie(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/ar/services", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: synchttp.DefaultLocaleCookie, Value: "en"})
	})
	assert.NotEqual(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "ar", rec.Header().Get("Content-Language"))
	require.NotNil(t, cookie(rec, synchttp.DefaultLocaleCookie))
	assert.Equal(t, "ar", cookie(rec, synchttp.DefaultLocaleCookie).Value)

	rec = f.do(t, http.MethodGet, "/services", nil)
	assert.NotEqual(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
}

func TestAssetsBypassLocaleResolution(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/logo.png", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: synchttp.DefaultLocaleCookie, Value: "ar"})
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Language"))
}

func TestSetLocaleSwitchesAndPersists(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/locale", map[string]string{"locale": "ar", "path": "/services/alpha"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ar", body["locale"])
	assert.Equal(t, "rtl", body["dir"])
	assert.Equal(t, "/ar/services/alpha", body["redirect"])
	assert.Equal(t, "https://example.com/ar/services/alpha", body["url"])

	visitor := cookie(rec, synchttp.DefaultVisitorCookie)
	require.NotNil(t, visitor)
	stored, err := f.prefs.Load(context.Background(), visitor.Value)
	require.NoError(t, err)
	assert.Equal(t, "ar", stored)

	rec = f.do(t, http.MethodPost, "/api/locale", map[string]string{"locale": "en", "path": "/ar"}, func(r *http.Request) {
		r.AddCookie(visitor)
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", decode(t, rec)["redirect"])
	stored, _ = f.prefs.Load(context.Background(), visitor.Value)
	assert.Equal(t, "en", stored)
}

func TestSetLocaleRejectsUnsupported(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/locale", map[string]string{"locale": "fr", "path": "/"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unsupported_locale", decode(t, rec)["error"])
}

func TestRefreshCacheInvalidatesTags(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodGet, "/api/slides", nil)
	f.do(t, http.MethodGet, "/api/slides", nil)
	require.Equal(t, 1, f.api.Hits("hero-slides"))

	rec := f.do(t, http.MethodPost, "/api/cache/refresh", map[string]any{"tags": []string{"slides"}})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []any{"slides"}, decode(t, rec)["data"].(map[string]any)["tags"])

	f.do(t, http.MethodGet, "/api/slides", nil)
	assert.Equal(t, 2, f.api.Hits("hero-slides"))

	rec = f.do(t, http.MethodPost, "/api/cache/refresh", map[string]any{"tags": []string{"bogus"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["error"])
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- synchttp.ListenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler(), nil)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
