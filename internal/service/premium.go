package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"chat-game-backend/internal/model"
	"chat-game-backend/internal/notify"
	"chat-game-backend/internal/pkg/lock"
)

// PremiumService activates paid premium tiers. Payment collection
// happens upstream; this service issues checkout references and applies
// the entitlement once payment is confirmed.
type PremiumService struct {
	ledger   *LedgerService
	locks    *lock.UserLock
	notifier notify.Notifier
}

// NewPremiumService creates a new PremiumService instance.
func NewPremiumService(ledger *LedgerService, locks *lock.UserLock, notifier notify.Notifier) *PremiumService {
	return &PremiumService{
		ledger:   ledger,
		locks:    locks,
		notifier: notifier,
	}
}

// Checkout is a reference handed to the payment provider. The ID comes
// back in the payment confirmation and ties it to the user and tier.
type Checkout struct {
	ID        string            `json:"id"`
	UserID    int64             `json:"user_id"`
	Tier      model.PremiumTier `json:"tier"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateCheckout issues a checkout reference for the given tier. It
// verifies the user exists and the tier is known; it does not mutate
// the account.
func (s *PremiumService) CreateCheckout(ctx context.Context, userID int64, tier model.PremiumTier) (*Checkout, error) {
	if tier.Days() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}
	if _, err := s.ledger.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return &Checkout{
		ID:        uuid.NewString(),
		UserID:    userID,
		Tier:      tier,
		CreatedAt: time.Now(),
	}, nil
}

// Activate applies a confirmed payment: premium for the tier's duration,
// counted from now. Activating an already-premium account overwrites
// the expiry, so a replayed confirmation is harmless.
func (s *PremiumService) Activate(ctx context.Context, userID int64, tier model.PremiumTier) (*model.User, error) {
	days := tier.Days()
	if days == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}

	var user *model.User
	err := s.locks.WithLock(userID, func() error {
		var err error
		user, err = s.ledger.GrantPremium(ctx, userID, days)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("tier", string(tier)).
		Int("days", days).
		Msg("Premium activated")
	notify.Send(s.notifier, userID, fmt.Sprintf("⭐ Premium activated for %d days. Thank you!", days))
	return user, nil
}
