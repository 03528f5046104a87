package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"chat-game-backend/internal/model"
	"chat-game-backend/internal/pkg/kv"
	"chat-game-backend/internal/repository"
)

const startingCredits = 100

func newTestLedger() (*LedgerService, *repository.UserStore) {
	users := repository.NewUserStore(kv.NewMemoryStore())
	return NewLedgerService(users, nil, startingCredits), users
}

func TestLedgerService_Register(t *testing.T) {
	ledger, _ := newTestLedger()
	ctx := context.Background()

	user, created, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(startingCredits), user.Credits)
	assert.Equal(t, "alice", user.DisplayName)
	assert.False(t, user.IsPremium)
}

func TestLedgerService_RegisterPreservesBalance(t *testing.T) {
	ledger, _ := newTestLedger()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = ledger.Credit(ctx, 1, 500, model.TxTypeAdminAdd, "")
	require.NoError(t, err)

	user, created, err := ledger.Register(ctx, 1, "alice2")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(startingCredits+500), user.Credits, "re-registration must not reset the balance")
	assert.Equal(t, "alice2", user.DisplayName)
}

func TestLedgerService_GetUserNotFound(t *testing.T) {
	ledger, _ := newTestLedger()

	_, err := ledger.GetUser(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestLedgerService_DebitClampsAtZero(t *testing.T) {
	ledger, _ := newTestLedger()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	user, removed, err := ledger.Debit(ctx, 1, startingCredits+50, model.TxTypeAdminSub, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.Credits)
	assert.Equal(t, int64(startingCredits), removed)
}

func TestLedgerService_ChargeAndAward(t *testing.T) {
	ledger, _ := newTestLedger()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	user, err := ledger.ChargeEntry(ctx, 1, 10, model.KindDice)
	require.NoError(t, err)
	assert.Equal(t, int64(startingCredits-10), user.Credits)
	assert.Equal(t, int64(1), user.GamesPlayed)
	assert.Equal(t, int64(0), user.GamesWon)

	user, err = ledger.AwardWin(ctx, 1, 30, model.KindDice)
	require.NoError(t, err)
	assert.Equal(t, int64(startingCredits+20), user.Credits)
	assert.Equal(t, int64(1), user.GamesWon)
	assert.Equal(t, int64(30), user.TotalEarnings)
}

func TestLedgerService_PremiumGrantAndRevoke(t *testing.T) {
	ledger, _ := newTestLedger()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	user, err := ledger.GrantPremium(ctx, 1, 30)
	require.NoError(t, err)
	assert.True(t, user.IsPremium)

	wantExpiry := time.Now().Add(30 * 24 * time.Hour).UnixMilli()
	assert.InDelta(t, wantExpiry, user.PremiumExpiry, float64(5*time.Second.Milliseconds()))

	active, err := ledger.IsPremiumActive(ctx, 1)
	require.NoError(t, err)
	assert.True(t, active)

	user, err = ledger.RevokePremium(ctx, 1)
	require.NoError(t, err)
	assert.False(t, user.IsPremium)
	assert.Zero(t, user.PremiumExpiry)

	// Second revoke is a no-op, not an error.
	_, err = ledger.RevokePremium(ctx, 1)
	require.NoError(t, err)
}

// TestLedgerService_LazyExpiryPersisted: reading premium status for a
// lapsed subscription flips the stored record, so the next raw read of
// the record already sees it expired.
func TestLedgerService_LazyExpiryPersisted(t *testing.T) {
	ledger, users := newTestLedger()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	user, err := users.Get(ctx, 1)
	require.NoError(t, err)
	user.IsPremium = true
	user.PremiumExpiry = time.Now().Add(-time.Hour).UnixMilli()
	require.NoError(t, users.Put(ctx, user))

	active, err := ledger.IsPremiumActive(ctx, 1)
	require.NoError(t, err)
	assert.False(t, active)

	stored, err := users.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, stored.IsPremium, "expiry flip must be written back")
	assert.Zero(t, stored.PremiumExpiry)
}

// TestLedgerCreditsNonNegativeProperty: no sequence of credits and
// clamped debits drives a balance below zero, and the balance always
// matches the running sum of applied changes.
func TestLedgerCreditsNonNegativeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ledger, _ := newTestLedger()
		ctx := context.Background()

		_, _, err := ledger.Register(ctx, 1, "alice")
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		expected := int64(startingCredits)
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			amount := rapid.Int64Range(1, 500).Draw(t, "amount")
			if rapid.Bool().Draw(t, "credit") {
				user, err := ledger.Credit(ctx, 1, amount, model.TxTypeAdminAdd, "")
				if err != nil {
					t.Fatalf("credit: %v", err)
				}
				expected += amount
				if user.Credits != expected {
					t.Fatalf("after credit: balance %d, expected %d", user.Credits, expected)
				}
			} else {
				user, removed, err := ledger.Debit(ctx, 1, amount, model.TxTypeAdminSub, "")
				if err != nil {
					t.Fatalf("debit: %v", err)
				}
				if removed > amount || removed > expected {
					t.Fatalf("debit removed %d, asked %d, had %d", removed, amount, expected)
				}
				expected -= removed
				if user.Credits != expected {
					t.Fatalf("after debit: balance %d, expected %d", user.Credits, expected)
				}
			}
			if expected < 0 {
				t.Fatalf("balance went negative: %d", expected)
			}
		}
	})
}
