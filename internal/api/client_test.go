package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc, tokens model.Session, opts ...Option) (*Client, *session.Memory) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := session.NewMemory(tokens)
	return New(srv.URL+"/", store, opts...), store
}

func TestDoAttachesHeaders(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `{"result": null, "meta": {}}`)
	}, model.Session{AccessToken: "tok"})

	_, err := c.Get(context.Background(), "/api/v1/analytics/dashboard", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	_, err = uuid.Parse(got.Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestDoReadsTokenPerRequest(t *testing.T) {
	var auths []string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"result": {}}`)
	}, model.Session{AccessToken: "old"})

	ctx := context.Background()
	_, err := c.Get(ctx, "/api/v1/goals/", nil, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetTokens(ctx, model.Session{AccessToken: "new"}))
	_, err = c.Get(ctx, "/api/v1/goals/", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer old", "Bearer new"}, auths)
}

func TestDoUnwrapsEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "page=2&limit=20", r.URL.RawQuery)
		_, _ = io.WriteString(w, `{
			"result": [{"id": "t1", "amount": "12.50", "type": "expense"}],
			"meta": {"request_id": "req-1", "timestamp": "2024-05-01T10:00:00",
			         "pagination": {"page": 2, "limit": 20, "total": 41, "total_pages": 3, "has_next": true, "has_prev": true}}
		}`)
	}, model.Session{AccessToken: "tok"})

	var items []model.Transaction
	q := url.Values{}
	q.Set("page", "2")
	q.Set("limit", "20")
	meta, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/v1/transactions/", Query: q}, &items)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "t1", items[0].ID)
	assert.Equal(t, "12.5", items[0].Amount.String())
	assert.Equal(t, "req-1", meta.RequestID)
	require.NotNil(t, meta.Pagination)
	assert.Equal(t, model.Pagination{Page: 2, Limit: 20, Total: 41, TotalPages: 3, HasNext: true, HasPrev: true}, *meta.Pagination)
	assert.Equal(t, 2024, meta.Timestamp.Year())
}

func TestDoDecodesBarePayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id": "c1", "name": "Food", "type": "expense"}]`)
	}, model.Session{AccessToken: "tok"})

	var cats []model.Category
	meta, err := c.Get(context.Background(), "/api/v1/categories/", nil, &cats)
	require.NoError(t, err)
	assert.Equal(t, Meta{}, meta)
	require.Len(t, cats, 1)
	assert.Equal(t, "Food", cats[0].Name)
}

func TestUnauthorizedClearsSessionAndStopsRequests(t *testing.T) {
	var hits, hooks atomic.Int32
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail": "Could not validate credentials"}`)
	}, model.Session{AccessToken: "stale", RefreshToken: "ref"}, OnUnauthorized(func() { hooks.Add(1) }))

	ctx := context.Background()
	_, err := c.Get(ctx, "/api/v1/analytics/dashboard", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)

	tokens, err := store.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Session{}, tokens)
	assert.Equal(t, int32(1), hooks.Load())

	for range 3 {
		_, err = c.Get(ctx, "/api/v1/analytics/yearly/2024", nil, nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Equal(t, int32(1), hits.Load(), "no network call after the session was cleared")
}

func TestPublicRoutesWorkWithoutToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"result": {"auth_url": "https://accounts.example.com/o/oauth2"}}`)
	}, model.Session{})

	var out struct {
		AuthURL string `json:"auth_url"`
	}
	_, err := c.Get(context.Background(), "/auth/google", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "https://accounts.example.com/o/oauth2", out.AuthURL)
}

func TestStatusErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"string detail", http.StatusNotFound, `{"detail": "Goal not found"}`, "Goal not found"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail": [{"msg": "field required"}, {"msg": "bad date"}]}`, "field required; bad date"},
		{"error field", http.StatusBadRequest, `{"error": "invalid period"}`, "invalid period"},
		{"plain text", http.StatusBadGateway, `upstream down`, "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, model.Session{AccessToken: "tok"})

			_, err := c.Get(context.Background(), "/api/v1/goals/x", nil, nil)
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.detail, se.Detail)
			assert.Equal(t, tt.status == http.StatusNotFound, IsNotFound(err))

			tokens, _ := store.Tokens(context.Background())
			assert.Equal(t, "tok", tokens.AccessToken, "non-401 errors keep the session")
		})
	}
}

func TestDoSendsJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"ended_at": "2024-06-30T12:00:00"}`, string(b))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result": {"id": "p1", "status": "completed"}}`)
	}, model.Session{AccessToken: "tok"})

	var p model.BudgetPeriod
	_, err := c.Post(context.Background(), "/api/v1/periods/p1/complete", nil,
		map[string]string{"ended_at": "2024-06-30T12:00:00"}, &p)
	require.NoError(t, err)
	assert.True(t, p.Completed())
}

func TestDoHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}, model.Session{AccessToken: "tok"})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Get(ctx, "/api/v1/analytics/dashboard", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoTimeout(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}, model.Session{AccessToken: "tok"}, WithTimeout(30*time.Millisecond))
	defer close(release)

	_, err := c.Get(context.Background(), "/api/v1/analytics/dashboard", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
