package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/krzysztofcal/chipledger/internal/adapter/http/dto"
	"github.com/krzysztofcal/chipledger/internal/adapter/http/handler"
	apimiddleware "github.com/krzysztofcal/chipledger/internal/adapter/http/middleware"
	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/usecase"
	"github.com/krzysztofcal/chipledger/internal/usecase/mocks"
)

const (
	routerTestActorID = "11111111-1111-1111-1111-111111111111"
	routerTestUserID  = "22222222-2222-2222-2222-222222222222"
	routerTestUser2ID = "33333333-3333-3333-3333-333333333333"
	routerTestTableID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	routerTestHandID  = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

func TestRouterHealthEndpointAvailable(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestRouterRegistersKeyRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/transactions/",
		"GET /api/v1/transactions/{id}",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"GET /api/v1/accounts/{id}/entries",
		"GET /api/v1/users/{userID}/account",
		"POST /api/v1/poker/side-pots",
		"POST /api/v1/poker/showdown",
		"POST /api/v1/poker/showdown/redact",
		"POST /api/v1/poker/settlements",
		"POST /api/v1/poker/cash-outs",
		"POST /api/v1/poker/buy-ins",
		"POST /api/v1/poker/bot-top-ups",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestRouterSettleHandEndToEnd(t *testing.T) {
	router, store := newTestRouter(t)

	store.SeedAccount(&domain.Account{
		ID:      "acc-escrow",
		Kind:    domain.AccountKindEscrow,
		Key:     domain.EscrowKey(routerTestTableID),
		Status:  domain.AccountStatusActive,
		Balance: 200,
	})

	body := `{
		"table_id": "` + routerTestTableID + `",
		"hand_id": "` + routerTestHandID + `",
		"created_by": "` + routerTestActorID + `",
		"community": ["AS", "AD", "KC", "7H", "2D"],
		"players": [
			{"user_id": "` + routerTestUserID + `", "seat_no": 0, "hole_cards": ["AH", "2C"], "contribution": 100},
			{"user_id": "` + routerTestUser2ID + `", "seat_no": 1, "hole_cards": ["KS", "KD"], "contribution": 100}
		],
		"rake": 0
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/poker/settlements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SettleHandResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.PayoutsByUserID[routerTestUserID] != 200 {
		t.Fatalf("expected winner payout 200, got %+v", resp.PayoutsByUserID)
	}
	if resp.Showdown == nil || len(resp.Showdown.Winners) != 1 {
		t.Fatalf("expected single winner, got %+v", resp.Showdown)
	}

	winner, err := store.GetByKey(context.Background(), domain.UserKey(routerTestUserID))
	if err != nil {
		t.Fatalf("winner account not materialized: %v", err)
	}
	if winner.Balance != 200 {
		t.Fatalf("expected winner balance 200, got %d", winner.Balance)
	}

	// Same hand settles only once.
	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/poker/settlements", strings.NewReader(body))
	router.ServeHTTP(rec2, req2)

	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d: %s", rec2.Code, rec2.Body.String())
	}
}

func TestRouterSidePotsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{
		"contributions": {"u1": 100, "u2": "50", "u3": 20.5},
		"eligible_user_ids": ["u1", "u2", "u3"]
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/poker/side-pots", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SidePotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Total != 170 {
		t.Fatalf("expected total 170, got %d", resp.Total)
	}
	if len(resp.Pots) != 3 {
		t.Fatalf("expected 3 pots, got %d", len(resp.Pots))
	}
}

func TestRouterShowdownRejectsMalformedHand(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{
		"community": ["AS", "KD"],
		"players": [{"user_id": "u1", "hole_cards": ["AH", "AD"]}]
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/poker/showdown", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "invalid_state" {
		t.Fatalf("expected invalid_state, got %s", resp.Code)
	}
}

func TestRouterPostTransactionFractionalAmountRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{
		"type": "SYSTEM_ADJUSTMENT",
		"idempotency_key": "adjust:1",
		"created_by": "` + routerTestActorID + `",
		"entries": [
			{"account_kind": "SYSTEM", "key": "system:treasury", "amount": -10.5},
			{"account_kind": "SYSTEM", "key": "system:rake", "amount": 10.5}
		]
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterRateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router, _ := newTestRouter(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	})

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestRouterIdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router, _ := newTestRouter(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.IdempotencyTTL = time.Minute
	})

	body := `{"contributions": {"u1": 10}, "eligible_user_ids": ["u1"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/poker/side-pots", strings.NewReader(body))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if !store.updateCalled {
		t.Fatalf("expected successful response to be stored")
	}
}

func newTestRouter(t *testing.T, opts ...func(*RouterConfig)) (http.Handler, *mocks.MemoryLedger) {
	t.Helper()

	store := mocks.NewMemoryLedger()
	ledgerUC := usecase.NewLedgerUseCase(
		mocks.NopTxManager{},
		store,
		store.Transactions(),
		store,
		store,
		&mocks.SeqIDGenerator{},
		mocks.PassRetrier{},
		nil,
	)
	settlementUC := usecase.NewSettlementUseCase(ledgerUC, nil)
	accountUC := usecase.NewAccountUseCase(store)
	entryUC := usecase.NewEntryUseCase(store, store.Transactions())

	cfg := RouterConfig{
		LedgerHandler:     handler.NewLedgerHandler(ledgerUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC),
		PokerHandler:      handler.NewPokerHandler(),
		AccountHandler:    handler.NewAccountHandler(accountUC),
		EntryHandler:      handler.NewEntryHandler(entryUC, nil),
		HealthHandler:     &handler.HealthHandler{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return NewRouter(cfg), store
}

type stubIdempotencyStore struct {
	checkCalled  bool
	updateCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updateCalled = true
	return nil
}
