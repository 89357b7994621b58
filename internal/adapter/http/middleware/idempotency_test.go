package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeStore struct {
	values map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string][]byte)}
}

func (s *fakeStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if existing, ok := s.values[key]; ok {
		return true, existing, nil
	}
	s.values[key] = []byte(inFlightMarker)
	return false, nil, nil
}

func (s *fakeStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.values[key] = response
	return nil
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	store := newFakeStore()
	m := NewIdempotencyMiddleware(store, time.Minute)

	calls := 0
	wrapped := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"transaction":{"id":"tx-1"}}`))
	}))

	first := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader("{}"))
	req1.Header.Set(IdempotencyKeyHeader, "key-1")
	wrapped.ServeHTTP(first, req1)

	if first.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("expected handler to run once, got code=%d calls=%d", first.Code, calls)
	}

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader("{}"))
	req2.Header.Set(IdempotencyKeyHeader, "key-1")
	wrapped.ServeHTTP(second, req2)

	if calls != 1 {
		t.Fatalf("expected replay to skip the handler, got %d calls", calls)
	}
	if second.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected replay header")
	}
	if second.Body.String() != `{"transaction":{"id":"tx-1"}}` {
		t.Fatalf("unexpected replayed body: %s", second.Body.String())
	}
}

func TestIdempotencySkipsRequestsWithoutKey(t *testing.T) {
	store := newFakeStore()
	m := NewIdempotencyMiddleware(store, time.Minute)

	calls := 0
	wrapped := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader("{}"))
		wrapped.ServeHTTP(rec, req)
	}

	if calls != 2 {
		t.Fatalf("expected both requests to reach the handler, got %d", calls)
	}
	if len(store.values) != 0 {
		t.Fatalf("expected nothing stored, got %v", store.values)
	}
}

func TestIdempotencyDoesNotCacheFailures(t *testing.T) {
	store := newFakeStore()
	m := NewIdempotencyMiddleware(store, time.Minute)

	wrapped := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"insufficient_funds"}`))
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader("{}"))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	wrapped.ServeHTTP(rec, req)

	if string(store.values["key-1"]) != inFlightMarker {
		t.Fatalf("expected failed response to stay uncached, got %q", store.values["key-1"])
	}
}

func TestIdempotencyIgnoresGetRequests(t *testing.T) {
	store := newFakeStore()
	m := NewIdempotencyMiddleware(store, time.Minute)

	calls := 0
	wrapped := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	wrapped.ServeHTTP(rec, req)

	if calls != 1 || len(store.values) != 0 {
		t.Fatalf("expected GET to bypass the store, calls=%d stored=%v", calls, store.values)
	}
}
