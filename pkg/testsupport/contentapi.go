package testsupport

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// ContentAPI is an in-process Strapi-shaped content API for tests.
type ContentAPI struct {
	server *httptest.Server

	mu          sync.Mutex
	collections map[string][]map[string]any
	singletons  map[string]map[string]any
	failures    map[string]failure
	hits        map[string]int
	queries     map[string][]url.Values
	authHeaders []string
	nextID      int
}

type failure struct {
	status int
	body   map[string]any
	times  int
}

// NewContentAPI starts a fake API that is closed when the test ends.
func NewContentAPI(t testing.TB) *ContentAPI {
	t.Helper()
	api := &ContentAPI{
		collections: map[string][]map[string]any{},
		singletons:  map[string]map[string]any{},
		failures:    map[string]failure{},
		hits:        map[string]int{},
		queries:     map[string][]url.Values{},
		nextID:      1000,
	}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.server.Close)
	return api
}

// URL returns the API origin (without /api).
func (a *ContentAPI) URL() string { return a.server.URL }

// SetCollection replaces the items of a collection resource.
func (a *ContentAPI) SetCollection(resource string, items ...map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.collections[resource] = items
}

// SetSingleton replaces a single-type resource.
func (a *ContentAPI) SetSingleton(resource string, item map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.singletons[resource] = item
}

// Fail makes every request for resource answer status. Status 0 clears it.
func (a *ContentAPI) Fail(resource string, status int) {
	a.FailWith(resource, status, nil, 0)
}

// FailWith answers status with a Strapi error body for the next times
// requests (every request when times is 0).
func (a *ContentAPI) FailWith(resource string, status int, body map[string]any, times int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if status == 0 {
		delete(a.failures, resource)
		return
	}
	a.failures[resource] = failure{status: status, body: body, times: times}
}

// Hits counts requests received for resource, any method.
func (a *ContentAPI) Hits(resource string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[resource]
}

// Queries returns the query strings received for resource.
func (a *ContentAPI) Queries(resource string) []url.Values {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]url.Values(nil), a.queries[resource]...)
}

// LastQuery returns the most recent query for resource.
func (a *ContentAPI) LastQuery(resource string) url.Values {
	queries := a.Queries(resource)
	if len(queries) == 0 {
		return nil
	}
	return queries[len(queries)-1]
}

// AuthHeaders lists the Authorization headers seen so far.
func (a *ContentAPI) AuthHeaders() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.authHeaders...)
}

func (a *ContentAPI) serve(w http.ResponseWriter, r *http.Request) {
	resource := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/"), "/")

	a.mu.Lock()
	a.hits[resource]++
	a.queries[resource] = append(a.queries[resource], r.URL.Query())
	a.authHeaders = append(a.authHeaders, r.Header.Get("Authorization"))
	fail, failing := a.failures[resource]
	if failing && fail.times > 0 {
		fail.times--
		if fail.times == 0 {
			delete(a.failures, resource)
		} else {
			a.failures[resource] = fail
		}
	}
	a.mu.Unlock()

	if !strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusNotFound, errorBody(http.StatusNotFound, "NotFoundError", "Not Found", nil))
		return
	}
	if failing {
		body := fail.body
		if body == nil {
			body = errorBody(fail.status, "ApplicationError", http.StatusText(fail.status), nil)
		}
		writeJSON(w, fail.status, body)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.serveGet(w, r, resource)
	case http.MethodPost:
		a.servePost(w, r, resource)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody(http.StatusMethodNotAllowed, "MethodNotAllowedError", "Method Not Allowed", nil))
	}
}

func (a *ContentAPI) serveGet(w http.ResponseWriter, r *http.Request, resource string) {
	a.mu.Lock()
	single, isSingle := a.singletons[resource]
	items, isCollection := a.collections[resource]
	items = append([]map[string]any(nil), items...)
	a.mu.Unlock()

	if isSingle {
		writeJSON(w, http.StatusOK, map[string]any{"data": single, "meta": map[string]any{}})
		return
	}
	if !isCollection {
		writeJSON(w, http.StatusNotFound, errorBody(http.StatusNotFound, "NotFoundError", "Not Found", nil))
		return
	}

	query := r.URL.Query()
	filtered := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if matches(item, query) {
			filtered = append(filtered, item)
		}
	}

	page := atoiDefault(query.Get("pagination[page]"), 1)
	pageSize := atoiDefault(query.Get("pagination[pageSize]"), 25)
	total := len(filtered)
	pageCount := 0
	if pageSize > 0 {
		pageCount = (total + pageSize - 1) / pageSize
	}
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	writeJSON(w, http.StatusOK, map[string]any{
		"data": filtered[start:end],
		"meta": map[string]any{"pagination": map[string]any{
			"page": page, "pageSize": pageSize, "pageCount": pageCount, "total": total,
		}},
	})
}

func (a *ContentAPI) servePost(w http.ResponseWriter, r *http.Request, resource string) {
	var payload struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Data == nil {
		writeJSON(w, http.StatusBadRequest, errorBody(http.StatusBadRequest, "ValidationError", "Missing \"data\" payload in the request body", nil))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if email, ok := payload.Data["email"].(string); ok {
		for _, existing := range a.collections[resource] {
			if strings.EqualFold(field(existing, "email"), email) {
				details := map[string]any{"errors": []any{map[string]any{
					"path": []any{"email"}, "message": "This attribute must be unique", "name": "ValidationError",
				}}}
				writeJSON(w, http.StatusBadRequest, errorBody(http.StatusBadRequest, "ValidationError", "This attribute must be unique", details))
				return
			}
		}
	}
	a.nextID++
	record := maps.Clone(payload.Data)
	record["id"] = a.nextID
	record["documentId"] = fmt.Sprintf("doc-%d", a.nextID)
	a.collections[resource] = append(a.collections[resource], record)
	writeJSON(w, http.StatusCreated, map[string]any{"data": record, "meta": map[string]any{}})
}

// matches applies the filters[field][$eq] and filters[field][$eqi] operators.
func matches(item map[string]any, query url.Values) bool {
	for key, values := range query {
		if !strings.HasPrefix(key, "filters[") || len(values) == 0 {
			continue
		}
		parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(key, "filters["), "]"), "][")
		if len(parts) != 2 {
			continue
		}
		actual := field(item, parts[0])
		switch parts[1] {
		case "$eq":
			if actual != values[0] {
				return false
			}
		case "$eqi":
			if !strings.EqualFold(actual, values[0]) {
				return false
			}
		}
	}
	return true
}

func field(item map[string]any, name string) string {
	if attrs, ok := item["attributes"].(map[string]any); ok {
		if value, ok := attrs[name]; ok {
			return fmt.Sprint(value)
		}
	}
	if value, ok := item[name]; ok && value != nil {
		return fmt.Sprint(value)
	}
	return ""
}

func errorBody(status int, name, message string, details map[string]any) map[string]any {
	if details == nil {
		details = map[string]any{}
	}
	return map[string]any{
		"data": nil,
		"error": map[string]any{
			"status": status, "name": name, "message": message, "details": details,
		},
	}
}

func atoiDefault(value string, def int) int {
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return n
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
