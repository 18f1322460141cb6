package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/internal/validation"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

const maxBodyBytes = 4 << 20

// Config configures the content API client.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	Retries    int
	RetryWait  time.Duration
	HTTPClient *http.Client
}

// Client talks to a Strapi-shaped content API rooted at <base>/api.
type Client struct {
	origin    string
	apiRoot   string
	token     string
	retries   int
	retryWait time.Duration
	http      *http.Client
	logger    interfaces.Logger
}

// Response is a validated success envelope.
type Response struct {
	Status int
	Data   any
	Meta   map[string]any
}

// Items returns data as a collection. A singleton object is returned as a
// one-element slice and null as an empty one.
func (r *Response) Items() []any {
	if r == nil {
		return nil
	}
	switch data := r.Data.(type) {
	case []any:
		return data
	case map[string]any:
		return []any{data}
	default:
		return []any{}
	}
}

// Object returns data as a singleton. Collections yield their first element.
func (r *Response) Object() map[string]any {
	if r == nil {
		return nil
	}
	switch data := r.Data.(type) {
	case map[string]any:
		return data
	case []any:
		if len(data) > 0 {
			obj, _ := data[0].(map[string]any)
			return obj
		}
	}
	return nil
}

// New builds a client. The base url may be given with or without the /api
// suffix.
func New(cfg Config, logger interfaces.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("contentapi: parse base url: %w", err)
	}
	base = strings.TrimSuffix(base, "/api")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	wait := cfg.RetryWait
	if wait <= 0 {
		wait = 200 * time.Millisecond
	}
	return &Client{
		origin:    base,
		apiRoot:   base + "/api",
		token:     strings.TrimSpace(cfg.Token),
		retries:   max(cfg.Retries, 0),
		retryWait: wait,
		http:      httpClient,
		logger:    logger,
	}, nil
}

// Origin returns the API origin without the /api suffix. Media paths are
// resolved against it.
func (c *Client) Origin() string {
	return c.origin
}

// Get fetches resource with query. Transport failures and 5xx responses are
// retried with exponential backoff.
func (c *Client) Get(ctx context.Context, resource string, query url.Values) (*Response, error) {
	endpoint := c.endpoint(resource, query)
	logger := logging.FromContext(ctx, c.logger).WithFields(map[string]any{"method": http.MethodGet, "resource": resource})

	var out *Response
	attempt := 0
	operation := func() error {
		attempt++
		resp, err := c.do(ctx, http.MethodGet, endpoint, resource, nil)
		if err == nil {
			out = resp
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		if status := StatusOf(err); status != 0 && status < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		if errors.Is(err, validation.ErrEnvelopeInvalid) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("contentapi.get.retry", "attempt", attempt, "wait", wait.String(), "error", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryWait
	policy.MaxElapsedTime = 0
	retrier := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.retries)), ctx)
	if err := backoff.RetryNotify(operation, retrier, notify); err != nil {
		logger.Debug("contentapi.get.failed", "attempts", attempt, "status", StatusOf(err), "error", err)
		return nil, err
	}
	return out, nil
}

// Post sends payload as JSON. Writes are never retried.
func (c *Client) Post(ctx context.Context, resource string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("contentapi: encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.endpoint(resource, nil), resource, body)
}

func (c *Client) endpoint(resource string, query url.Values) string {
	endpoint := c.apiRoot + "/" + strings.TrimLeft(resource, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (c *Client) do(ctx context.Context, method, endpoint, resource string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, transportError(err, "content api request could not be built")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err, "content api request failed")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(err, "content api response could not be read")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, classifyStatus(decodeStatusError(method, resource, res.StatusCode, raw))
	}

	var decoded any
	if len(bytes.TrimSpace(raw)) == 0 {
		decoded = map[string]any{"data": nil}
	} else if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, envelopeError(fmt.Errorf("%w: %v", validation.ErrEnvelopeInvalid, err))
	}
	if err := validation.ValidateEnvelope(decoded); err != nil {
		return nil, envelopeError(err)
	}

	envelope := decoded.(map[string]any)
	meta, _ := envelope["meta"].(map[string]any)
	return &Response{Status: res.StatusCode, Data: envelope["data"], Meta: meta}, nil
}

func decodeStatusError(method, resource string, status int, body []byte) *StatusError {
	out := &StatusError{Method: method, Path: "/api/" + strings.TrimLeft(resource, "/"), Status: status}
	var envelope struct {
		Error struct {
			Name    string         `json:"name"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		out.Name = envelope.Error.Name
		out.Message = envelope.Error.Message
		out.Details = envelope.Error.Details
	}
	return out
}
