// Package api is the single outbound HTTP client for the finance API server.
// It attaches the bearer token, unwraps the {result, meta} envelope and
// clears the session when the server answers 401.
package api

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

	"github.com/google/uuid"

	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/session"
)

const (
	maxBodySize = 4 << 20 // 4 MB
	userAgent   = "ledgr/1.0"
	// authedPrefix marks routes that require a bearer token.
	authedPrefix = "/api/"
)

// ErrUnauthorized indicates the session is missing, expired or was rejected.
var ErrUnauthorized = errors.New("api: unauthorized (session expired or invalid)")

// StatusError is a non-2xx, non-401 response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: %s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Meta is the envelope metadata returned next to every result.
type Meta struct {
	Timestamp  model.Timestamp   `json:"timestamp"`
	Pagination *model.Pagination `json:"pagination"`
	Message    string            `json:"message"`
	RequestID  string            `json:"request_id"`
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l.WithComponent(logging.ComponentAPI) }
}

// OnUnauthorized registers a hook run after a 401 has cleared the session.
func OnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// Client talks to the finance API.
type Client struct {
	baseURL        string
	tokens         session.Store
	http           *http.Client
	timeout        time.Duration
	log            *logging.Logger
	onUnauthorized func()
}

// New creates a client for baseURL that reads tokens from store on every request.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  store,
		http:    &http.Client{},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Sessions returns the token store the client reads from.
func (c *Client) Sessions() session.Store {
	return c.tokens
}

// Get performs a GET and decodes the result into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (Meta, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post performs a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) (Meta, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Query: query, Body: body}, out)
}

// Put performs a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) (Meta, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Patch performs a PATCH.
func (c *Client) Patch(ctx context.Context, path string, query url.Values, body, out any) (Meta, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Query: query, Body: body}, out)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) (Meta, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Do sends req once. There is no retry. A nil out discards the result.
func (c *Client) Do(ctx context.Context, req Request, out any) (Meta, error) {
	tokens, err := c.tokens.Tokens(ctx)
	if err != nil {
		return Meta{}, fmt.Errorf("api: reading session: %w", err)
	}
	if tokens.AccessToken == "" && strings.HasPrefix(req.Path, authedPrefix) {
		return Meta{}, ErrUnauthorized
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := c.newRequest(ctx, req, tokens.AccessToken)
	if err != nil {
		return Meta{}, err
	}
	requestID := httpReq.Header.Get("X-Request-ID")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Meta{}, fmt.Errorf("api: %s %s: %w", req.Method, req.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.DebugContext(ctx, "api request",
		logging.FieldMethod, req.Method,
		logging.FieldPath, req.Path,
		logging.FieldStatusCode, resp.StatusCode,
		logging.FieldRequestID, requestID,
		logging.FieldDuration, time.Since(start).Milliseconds(),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Meta{}, fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession(ctx)
		return Meta{}, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Meta{}, &StatusError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(body),
		}
	}

	return decodeEnvelope(body, out)
}

func (c *Client) newRequest(ctx context.Context, req Request, accessToken string) (*http.Request, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		buf, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("api: encoding body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return httpReq, nil
}

// expireSession clears both tokens and notifies the hook. The clear must
// survive a request context that is already cancelled.
func (c *Client) expireSession(ctx context.Context) {
	if err := c.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.WarnErr(ctx, "clearing session after 401", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// decodeEnvelope unwraps {result, meta}. A few routes answer with the bare
// payload; those decode directly into out with empty Meta.
func decodeEnvelope(body []byte, out any) (Meta, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Meta{}, nil
	}

	payload := body
	var meta Meta
	if body[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(body, &env); err != nil {
			return Meta{}, fmt.Errorf("api: parsing response: %w", err)
		}
		if result, ok := env["result"]; ok {
			payload = result
			if raw, ok := env["meta"]; ok && !isNull(raw) {
				if err := json.Unmarshal(raw, &meta); err != nil {
					return Meta{}, fmt.Errorf("api: parsing meta: %w", err)
				}
			}
		}
	}

	if out == nil || isNull(payload) {
		return meta, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return meta, fmt.Errorf("api: parsing result: %w", err)
	}
	return meta, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// errorDetail extracts a human message from an error body. Handles
// {"detail": "..."}, validation lists {"detail": [{"msg": "..."}]},
// and {"error": "..."} / {"message": "..."}.
func errorDetail(body []byte) string {
	var raw struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return strings.TrimSpace(string(body[:min(len(body), 200)]))
	}

	if len(raw.Detail) > 0 {
		var s string
		if err := json.Unmarshal(raw.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	if raw.Error != "" {
		return raw.Error
	}
	return raw.Message
}
