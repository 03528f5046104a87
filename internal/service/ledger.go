// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"chat-game-backend/internal/model"
	"chat-game-backend/internal/repository"
)

// Common errors for service operations.
var (
	ErrDailyAlreadyClaimed = errors.New("daily reward already claimed")
	ErrUnauthorized        = errors.New("admin access required")
	ErrInvalidTier         = errors.New("unknown premium tier")
)

// History is the audit-trail sink for balance changes. Writes are
// best-effort: a failure is logged and never aborts the balance change
// it describes.
type History interface {
	Create(ctx context.Context, userID int64, amount int64, txType string, description *string) (*model.Transaction, error)
}

// LedgerService owns user records and their credit balances. Its
// methods are single read-modify-write steps; callers that compose
// several of them hold the per-user lock around the whole sequence.
type LedgerService struct {
	users           *repository.UserStore
	history         History
	startingCredits int64
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(users *repository.UserStore, history History, startingCredits int64) *LedgerService {
	return &LedgerService{
		users:           users,
		history:         history,
		startingCredits: startingCredits,
	}
}

// Register ensures a user record exists, creating one with the starting
// balance if necessary. Re-registration preserves the existing balance
// and only refreshes the display name. Returns the user and whether it
// was newly created.
func (s *LedgerService) Register(ctx context.Context, userID int64, displayName string) (*model.User, bool, error) {
	user, err := s.users.Get(ctx, userID)
	if err == nil {
		if displayName != "" && user.DisplayName != displayName {
			user.DisplayName = displayName
			user.UpdatedAt = time.Now()
			if err := s.users.Put(ctx, user); err != nil {
				return nil, false, err
			}
		}
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, err
	}

	now := time.Now()
	user = &model.User{
		ID:          userID,
		DisplayName: displayName,
		Credits:     s.startingCredits,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Put(ctx, user); err != nil {
		return nil, false, err
	}
	s.record(ctx, userID, s.startingCredits, model.TxTypeInitial, "welcome credits")

	log.Info().Int64("user_id", userID).Str("name", displayName).Msg("User registered")
	return user, true, nil
}

// GetUser retrieves a user record.
func (s *LedgerService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.Get(ctx, userID)
}

// FindByName retrieves a user by display name, ignoring a leading "@".
func (s *LedgerService) FindByName(ctx context.Context, name string) (*model.User, error) {
	return s.users.FindByName(ctx, name)
}

// ListUsers returns every user record.
func (s *LedgerService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// Credit adds amount to the user's balance.
func (s *LedgerService) Credit(ctx context.Context, userID int64, amount int64, txType, description string) (*model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Credits += amount
	user.UpdatedAt = time.Now()
	if err := s.users.Put(ctx, user); err != nil {
		return nil, err
	}
	s.record(ctx, userID, amount, txType, description)
	return user, nil
}

// Debit subtracts amount from the user's balance, clamping at zero: a
// balance never goes negative. Returns the updated user and the amount
// actually removed.
func (s *LedgerService) Debit(ctx context.Context, userID int64, amount int64, txType, description string) (*model.User, int64, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	removed := amount
	if removed > user.Credits {
		removed = user.Credits
	}
	user.Credits -= removed
	user.UpdatedAt = time.Now()
	if err := s.users.Put(ctx, user); err != nil {
		return nil, 0, err
	}
	s.record(ctx, userID, -removed, txType, description)
	return user, removed, nil
}

// ChargeEntry debits the full entry fee and counts the game as played.
// The caller has already verified the balance covers the fee.
func (s *LedgerService) ChargeEntry(ctx context.Context, userID int64, fee int64, kind model.GameKind) (*model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Credits -= fee
	user.GamesPlayed++
	user.UpdatedAt = time.Now()
	if err := s.users.Put(ctx, user); err != nil {
		return nil, err
	}
	s.record(ctx, userID, -fee, model.TxTypeGameEntry, string(kind)+" entry fee")
	return user, nil
}

// AwardWin credits the payout and counts the game as won.
func (s *LedgerService) AwardWin(ctx context.Context, userID int64, payout int64, kind model.GameKind) (*model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Credits += payout
	user.GamesWon++
	user.TotalEarnings += payout
	user.UpdatedAt = time.Now()
	if err := s.users.Put(ctx, user); err != nil {
		return nil, err
	}
	s.record(ctx, userID, payout, model.TxTypeGameWin, string(kind)+" win")
	return user, nil
}

// GrantPremium activates premium for the given number of days, counted
// from now. A repeated grant overwrites the expiry rather than
// extending it.
func (s *LedgerService) GrantPremium(ctx context.Context, userID int64, days int) (*model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.IsPremium = true
	user.PremiumExpiry = now.Add(time.Duration(days) * 24 * time.Hour).UnixMilli()
	user.UpdatedAt = now
	if err := s.users.Put(ctx, user); err != nil {
		return nil, err
	}
	s.record(ctx, userID, 0, model.TxTypePremiumGrant, fmt.Sprintf("premium for %d days", days))

	log.Info().Int64("user_id", userID).Int("days", days).Msg("Premium granted")
	return user, nil
}

// RevokePremium clears the premium flag. Revoking a user who is not
// premium is a no-op.
func (s *LedgerService) RevokePremium(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPremium && user.PremiumExpiry == 0 {
		return user, nil
	}

	user.IsPremium = false
	user.PremiumExpiry = 0
	user.UpdatedAt = time.Now()
	if err := s.users.Put(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IsPremiumActive reports whether the user's premium is active. A
// lapsed subscription is flipped off and the flip is persisted, so a
// later read of the record sees the expired state.
func (s *LedgerService) IsPremiumActive(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.PremiumActive(time.Now()) {
		return true, nil
	}
	if user.IsPremium {
		user.IsPremium = false
		user.PremiumExpiry = 0
		user.UpdatedAt = time.Now()
		if err := s.users.Put(ctx, user); err != nil {
			return false, err
		}
		log.Debug().Int64("user_id", userID).Msg("Premium expired")
	}
	return false, nil
}

func (s *LedgerService) record(ctx context.Context, userID int64, amount int64, txType, description string) {
	if s.history == nil {
		return
	}
	var desc *string
	if description != "" {
		desc = &description
	}
	if _, err := s.history.Create(ctx, userID, amount, txType, desc); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("type", txType).Msg("Failed to record transaction")
	}
}
