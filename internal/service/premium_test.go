package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-game-backend/internal/model"
	"chat-game-backend/internal/notify"
	"chat-game-backend/internal/pkg/lock"
	"chat-game-backend/internal/repository"
)

func newTestPremium() (*PremiumService, *LedgerService) {
	ledger, _ := newTestLedger()
	premium := NewPremiumService(ledger, lock.NewUserLock(), notify.Nop{})
	return premium, ledger
}

func TestPremiumService_CreateCheckout(t *testing.T) {
	premium, ledger := newTestPremium()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	checkout, err := premium.CreateCheckout(ctx, 1, model.TierSubscription)
	require.NoError(t, err)
	assert.Equal(t, int64(1), checkout.UserID)
	assert.Equal(t, model.TierSubscription, checkout.Tier)

	_, err = uuid.Parse(checkout.ID)
	assert.NoError(t, err, "checkout reference must be a uuid")

	// References are unique per checkout.
	second, err := premium.CreateCheckout(ctx, 1, model.TierSubscription)
	require.NoError(t, err)
	assert.NotEqual(t, checkout.ID, second.ID)
}

func TestPremiumService_CreateCheckoutErrors(t *testing.T) {
	premium, ledger := newTestPremium()
	ctx := context.Background()

	_, err := premium.CreateCheckout(ctx, 1, "lifetime")
	assert.ErrorIs(t, err, ErrInvalidTier)

	_, _, err = ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = premium.CreateCheckout(ctx, 99, model.TierAnnual)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestPremiumService_Activate(t *testing.T) {
	premium, ledger := newTestPremium()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	tests := []struct {
		name string
		tier model.PremiumTier
		days int
	}{
		{"subscription runs 30 days", model.TierSubscription, 30},
		{"annual runs 365 days", model.TierAnnual, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := premium.Activate(ctx, 1, tt.tier)
			require.NoError(t, err)
			assert.True(t, user.IsPremium)

			want := time.Now().Add(time.Duration(tt.days) * 24 * time.Hour).UnixMilli()
			assert.InDelta(t, want, user.PremiumExpiry, float64(5*time.Second.Milliseconds()))
		})
	}
}

// TestPremiumService_ActivateReplay: a duplicated payment confirmation
// re-applies the same entitlement instead of failing or stacking.
func TestPremiumService_ActivateReplay(t *testing.T) {
	premium, ledger := newTestPremium()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	first, err := premium.Activate(ctx, 1, model.TierSubscription)
	require.NoError(t, err)
	second, err := premium.Activate(ctx, 1, model.TierSubscription)
	require.NoError(t, err)

	assert.True(t, second.IsPremium)
	// Expiry is re-anchored to now, not extended by another 30 days.
	assert.InDelta(t, first.PremiumExpiry, second.PremiumExpiry, float64(5*time.Second.Milliseconds()))
}

func TestPremiumService_ActivateInvalidTier(t *testing.T) {
	premium, ledger := newTestPremium()
	ctx := context.Background()

	_, _, err := ledger.Register(ctx, 1, "alice")
	require.NoError(t, err)

	_, err = premium.Activate(ctx, 1, "forever")
	assert.ErrorIs(t, err, ErrInvalidTier)
}
