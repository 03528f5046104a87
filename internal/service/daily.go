package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"chat-game-backend/internal/model"
	"chat-game-backend/internal/pkg/lock"
	"chat-game-backend/internal/repository"
)

// DailyService hands out the once-per-day reward. A day is the server's
// local calendar day: eligibility resets at local midnight, not 24 hours
// after the previous claim.
type DailyService struct {
	ledger        *LedgerService
	daily         *repository.DailyStore
	locks         *lock.UserLock
	reward        int64
	premiumReward int64

	now func() time.Time // overridden in tests
}

// NewDailyService creates a new DailyService instance.
func NewDailyService(ledger *LedgerService, daily *repository.DailyStore, locks *lock.UserLock, reward, premiumReward int64) *DailyService {
	return &DailyService{
		ledger:        ledger,
		daily:         daily,
		locks:         locks,
		reward:        reward,
		premiumReward: premiumReward,
		now:           time.Now,
	}
}

// ClaimResult describes a successful daily claim.
type ClaimResult struct {
	Amount  int64
	Premium bool
	Balance int64
}

// Claim credits the user's daily reward. Premium users receive the
// larger amount. A second claim on the same calendar day fails with
// ErrDailyAlreadyClaimed.
func (s *DailyService) Claim(ctx context.Context, userID int64) (*ClaimResult, error) {
	var result *ClaimResult
	err := s.locks.WithLock(userID, func() error {
		var err error
		result, err = s.claimLocked(ctx, userID)
		return err
	})
	return result, err
}

func (s *DailyService) claimLocked(ctx context.Context, userID int64) (*ClaimResult, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	last, claimed, err := s.daily.LastClaimDay(ctx, userID)
	if err != nil {
		return nil, err
	}
	if claimed && last.Equal(today) {
		return nil, ErrDailyAlreadyClaimed
	}

	premium, err := s.ledger.IsPremiumActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	amount := s.reward
	if premium {
		amount = s.premiumReward
	}

	user, err := s.ledger.Credit(ctx, userID, amount, model.TxTypeDaily, "daily reward")
	if err != nil {
		return nil, err
	}
	if err := s.daily.SetClaimDay(ctx, userID, today); err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Int64("amount", amount).
		Bool("premium", premium).
		Msg("Daily reward claimed")

	return &ClaimResult{
		Amount:  amount,
		Premium: premium,
		Balance: user.Credits,
	}, nil
}

// NextReset returns the next local-midnight boundary after now.
func (s *DailyService) NextReset() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}
