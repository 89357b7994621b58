package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/krzysztofcal/chipledger/internal/poker"
	"github.com/krzysztofcal/chipledger/internal/usecase"
	"github.com/krzysztofcal/chipledger/tests/testutil"
)

func TestSettleHandIdempotency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	stack := newLedgerStack(testDB)

	var (
		user1   = testutil.UUID('1')
		user2   = testutil.UUID('2')
		tableID = testutil.UUID('a')
	)

	seatPlayers := func(t *testing.T) {
		t.Helper()

		testDB.TruncateAll(ctx)

		stack.fundUser(ctx, t, user1, testutil.UUID('e'), 1000)
		stack.fundUser(ctx, t, user2, testutil.UUID('f'), 1000)

		for i, userID := range []string{user1, user2} {
			_, err := stack.settlementUC.BuyIn(ctx, usecase.BuyInInput{
				TableID:   tableID,
				UserID:    userID,
				SeatNo:    i,
				Amount:    500,
				BuyInID:   testutil.UUID(byte('c' + i)),
				CreatedBy: userID,
			})
			if err != nil {
				t.Fatalf("failed to seat %s: %v", userID, err)
			}
		}
	}

	handInput := func(handID string) usecase.SettleHandInput {
		return usecase.SettleHandInput{
			TableID:   tableID,
			HandID:    handID,
			CreatedBy: user1,
			Community: poker.MustParseCards("AS 7C 2D 9H 4S"),
			Players: []usecase.HandPlayerInput{
				{UserID: user1, SeatNo: 0, HoleCards: poker.MustParseCards("AH AD"), Contribution: 200},
				{UserID: user2, SeatNo: 1, HoleCards: poker.MustParseCards("KS KD"), Contribution: 200},
			},
		}
	}

	t.Run("serial retry settles once", func(t *testing.T) {
		seatPlayers(t)

		input := handInput(testutil.UUID('b'))

		first, err := stack.settlementUC.SettleHand(ctx, input)
		if err != nil {
			t.Fatalf("failed to settle hand: %v", err)
		}

		if first.Replayed {
			t.Error("first settlement reported as replayed")
		}

		second, err := stack.settlementUC.SettleHand(ctx, input)
		if err != nil {
			t.Fatalf("failed to retry settlement: %v", err)
		}

		if !second.Replayed {
			t.Error("retried settlement not reported as replayed")
		}

		if second.Transaction.ID != first.Transaction.ID {
			t.Errorf("retry posted a new transaction: %s vs %s",
				second.Transaction.ID, first.Transaction.ID)
		}

		if got := stack.userBalance(ctx, t, user1); got != 900 {
			t.Errorf("expected winner balance 900, got %d", got)
		}

		stack.assertConsistent(ctx, t)
	})

	t.Run("concurrent retries settle once", func(t *testing.T) {
		seatPlayers(t)

		input := handInput(testutil.UUID('d'))

		const workers = 8

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			posted   int
			replayed int
		)

		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()

				result, err := stack.settlementUC.SettleHand(ctx, input)
				if err != nil {
					t.Errorf("settlement failed: %v", err)
					return
				}

				mu.Lock()
				defer mu.Unlock()

				if result.Replayed {
					replayed++
				} else {
					posted++
				}
			}()
		}

		wg.Wait()

		if posted != 1 {
			t.Errorf("expected exactly one posted settlement, got %d", posted)
		}

		if replayed != workers-1 {
			t.Errorf("expected %d replayed settlements, got %d", workers-1, replayed)
		}

		if got := stack.userBalance(ctx, t, user1); got != 900 {
			t.Errorf("expected winner balance 900, got %d", got)
		}

		if got := stack.escrowBalance(ctx, t, tableID); got != 600 {
			t.Errorf("expected escrow balance 600, got %d", got)
		}

		stack.assertConsistent(ctx, t)
	})
}
