package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	adaptershttp "github.com/krzysztofcal/chipledger/internal/adapter/http"
	"github.com/krzysztofcal/chipledger/internal/adapter/http/dto"
	"github.com/krzysztofcal/chipledger/internal/adapter/http/handler"
	redisrepo "github.com/krzysztofcal/chipledger/internal/adapter/repository/redis"
	infraredis "github.com/krzysztofcal/chipledger/internal/infrastructure/redis"
	"github.com/krzysztofcal/chipledger/tests/testutil"
)

func TestSettlementOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	testDB.TruncateAll(ctx)

	stack := newLedgerStack(testDB)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		LedgerHandler:     handler.NewLedgerHandler(stack.ledgerUC),
		SettlementHandler: handler.NewSettlementHandler(stack.settlementUC),
		PokerHandler:      handler.NewPokerHandler(),
		AccountHandler:    handler.NewAccountHandler(stack.accountUC),
		EntryHandler:      handler.NewEntryHandler(stack.entryUC, redisrepo.NewCache(redisClient)),
		HealthHandler:     handler.NewHealthHandler(testDB.Pool, redisClient),
		IdempotencyStore:  redisrepo.NewIdempotencyStore(redisClient),
	})

	var (
		user1   = testutil.UUID('1')
		user2   = testutil.UUID('2')
		user3   = testutil.UUID('3')
		tableID = testutil.UUID('a')
		handID  = testutil.UUID('b')
	)

	post := func(t *testing.T, path string, body string) *httptest.ResponseRecorder {
		t.Helper()

		r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
		r.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		return w
	}

	t.Run("fund and seat two players", func(t *testing.T) {
		for i, userID := range []string{user1, user2} {
			w := post(t, "/api/v1/poker/bot-top-ups", `{
				"bot_user_id": "`+userID+`",
				"amount": 1000,
				"top_up_id": "`+testutil.UUID(byte('e'+i))+`",
				"created_by": "`+userID+`"
			}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("top-up for %s: expected status %d, got %d: %s",
					userID, http.StatusCreated, w.Code, w.Body.String())
			}

			w = post(t, "/api/v1/poker/buy-ins", `{
				"table_id": "`+tableID+`",
				"user_id": "`+userID+`",
				"seat_no": `+string(rune('0'+i))+`,
				"amount": 500,
				"buy_in_id": "`+testutil.UUID(byte('c'+i))+`",
				"created_by": "`+userID+`"
			}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("buy-in for %s: expected status %d, got %d: %s",
					userID, http.StatusCreated, w.Code, w.Body.String())
			}
		}

		if got := stack.escrowBalance(ctx, t, tableID); got != 1000 {
			t.Errorf("expected escrow balance 1000, got %d", got)
		}
	})

	t.Run("reject buy-in over balance", func(t *testing.T) {
		w := post(t, "/api/v1/poker/buy-ins", `{
			"table_id": "`+tableID+`",
			"user_id": "`+user3+`",
			"seat_no": 2,
			"amount": 2000,
			"buy_in_id": "`+testutil.UUID('9')+`",
			"created_by": "`+user3+`"
		}`)
		if w.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
		}

		var resp dto.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse error response: %v", err)
		}

		if resp.Code != "insufficient_funds" {
			t.Errorf("expected code insufficient_funds, got %q", resp.Code)
		}
	})

	settleBody := `{
		"table_id": "` + tableID + `",
		"hand_id": "` + handID + `",
		"created_by": "` + user1 + `",
		"community": ["AS", "7C", "2D", "9H", "4S"],
		"players": [
			{"user_id": "` + user1 + `", "seat_no": 0, "hole_cards": ["AH", "AD"], "contribution": 200},
			{"user_id": "` + user2 + `", "seat_no": 1, "hole_cards": ["KS", "KD"], "contribution": 200}
		],
		"rake": 10
	}`

	t.Run("settle heads-up hand", func(t *testing.T) {
		w := post(t, "/api/v1/poker/settlements", settleBody)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		var resp dto.SettleHandResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		// Trip aces beat kings; the winner takes the pot minus rake.
		if got := resp.PayoutsByUserID[user1]; got != 390 {
			t.Errorf("expected payout 390 for winner, got %d", got)
		}

		if got := stack.userBalance(ctx, t, user1); got != 890 {
			t.Errorf("expected winner balance 890, got %d", got)
		}

		if got := stack.userBalance(ctx, t, user2); got != 500 {
			t.Errorf("expected loser balance 500, got %d", got)
		}

		if got := stack.escrowBalance(ctx, t, tableID); got != 600 {
			t.Errorf("expected escrow balance 600, got %d", got)
		}
	})

	t.Run("retried settlement replays the original posting", func(t *testing.T) {
		w := post(t, "/api/v1/poker/settlements", settleBody)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp dto.SettleHandResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		if !resp.Replayed {
			t.Error("expected replayed settlement")
		}

		if got := stack.userBalance(ctx, t, user1); got != 890 {
			t.Errorf("winner credited twice: balance %d", got)
		}
	})

	t.Run("cash out both seats", func(t *testing.T) {
		for i, userID := range []string{user1, user2} {
			w := post(t, "/api/v1/poker/cash-outs", `{
				"table_id": "`+tableID+`",
				"user_id": "`+userID+`",
				"seat_no": `+string(rune('0'+i))+`,
				"amount": 300,
				"created_by": "`+userID+`"
			}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("cash-out for %s: expected status %d, got %d: %s",
					userID, http.StatusCreated, w.Code, w.Body.String())
			}
		}

		if got := stack.escrowBalance(ctx, t, tableID); got != 0 {
			t.Errorf("expected drained escrow, got %d", got)
		}

		if got := stack.userBalance(ctx, t, user1); got != 1190 {
			t.Errorf("expected winner balance 1190, got %d", got)
		}

		if got := stack.userBalance(ctx, t, user2); got != 800 {
			t.Errorf("expected loser balance 800, got %d", got)
		}
	})

	t.Run("ledger stays consistent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp dto.ConsistencyResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		if !resp.Consistent {
			t.Errorf("ledger inconsistent: total balance %d, total entry amount %d",
				resp.TotalBalance, resp.TotalEntryAmount)
		}
	})
}
