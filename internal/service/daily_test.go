package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-game-backend/internal/pkg/kv"
	"chat-game-backend/internal/pkg/lock"
	"chat-game-backend/internal/repository"
)

func newTestDaily() (*DailyService, *LedgerService) {
	store := kv.NewMemoryStore()
	ledger := NewLedgerService(repository.NewUserStore(store), nil, startingCredits)
	daily := NewDailyService(ledger, repository.NewDailyStore(store), lock.NewUserLock(), 50, 100)
	return daily, ledger
}

func TestDailyService_Claim(t *testing.T) {
	daily, ledger := newTestDaily()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	result, err := daily.Claim(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.Amount)
	assert.False(t, result.Premium)
	assert.Equal(t, int64(startingCredits+50), result.Balance)
}

func TestDailyService_ClaimTwiceSameDay(t *testing.T) {
	daily, ledger := newTestDaily()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	_, err = daily.Claim(ctx, 1)
	require.NoError(t, err)

	_, err = daily.Claim(ctx, 1)
	assert.ErrorIs(t, err, ErrDailyAlreadyClaimed)

	user, err := ledger.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(startingCredits+50), user.Credits, "rejected claim must not pay")
}

// TestDailyService_ResetAtMidnight: a claim late in the evening does not
// block a claim shortly after local midnight.
func TestDailyService_ResetAtMidnight(t *testing.T) {
	daily, ledger := newTestDaily()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	evening := time.Date(2026, 3, 10, 23, 50, 0, 0, time.Local)
	daily.now = func() time.Time { return evening }
	_, err = daily.Claim(ctx, 1)
	require.NoError(t, err)

	pastMidnight := time.Date(2026, 3, 11, 0, 5, 0, 0, time.Local)
	daily.now = func() time.Time { return pastMidnight }
	result, err := daily.Claim(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.Amount)

	user, err := ledger.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(startingCredits+100), user.Credits)
}

func TestDailyService_PremiumAmount(t *testing.T) {
	daily, ledger := newTestDaily()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = ledger.GrantPremium(ctx, 1, 30)
	require.NoError(t, err)

	result, err := daily.Claim(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Amount)
	assert.True(t, result.Premium)
}

func TestDailyService_ClaimUnknownUser(t *testing.T) {
	daily, _ := newTestDaily()

	_, err := daily.Claim(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestDailyService_NextReset(t *testing.T) {
	daily, _ := newTestDaily()
	daily.now = func() time.Time {
		return time.Date(2026, 3, 10, 15, 30, 0, 0, time.Local)
	}

	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local), daily.NextReset())
}
