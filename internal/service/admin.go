package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"chat-game-backend/internal/model"
	"chat-game-backend/internal/notify"
	"chat-game-backend/internal/pkg/lock"
)

// AdminService implements the operator surface: credit adjustments,
// premium grants, and aggregate stats. Every operation checks the actor
// against a static allow-list first.
type AdminService struct {
	ledger   *LedgerService
	locks    *lock.UserLock
	notifier notify.Notifier
	admins   map[int64]bool
}

// NewAdminService creates a new AdminService instance. adminIDs is the
// allow-list of operator user IDs.
func NewAdminService(ledger *LedgerService, locks *lock.UserLock, notifier notify.Notifier, adminIDs []int64) *AdminService {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &AdminService{
		ledger:   ledger,
		locks:    locks,
		notifier: notifier,
		admins:   admins,
	}
}

// IsAdmin reports whether the user is on the allow-list.
func (s *AdminService) IsAdmin(userID int64) bool {
	return s.admins[userID]
}

func (s *AdminService) authorize(actorID int64) error {
	if !s.admins[actorID] {
		log.Warn().Int64("user_id", actorID).Msg("Unauthorized admin command")
		return ErrUnauthorized
	}
	return nil
}

// resolve finds the target user by display name ("@name" or "name").
func (s *AdminService) resolve(ctx context.Context, target string) (*model.User, error) {
	return s.ledger.FindByName(ctx, target)
}

// AddCredits grants amount credits to the named user and notifies them.
func (s *AdminService) AddCredits(ctx context.Context, actorID int64, target string, amount int64) (*model.User, error) {
	if err := s.authorize(actorID); err != nil {
		return nil, err
	}
	user, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	err = s.locks.WithLock(user.ID, func() error {
		user, err = s.ledger.Credit(ctx, user.ID, amount, model.TxTypeAdminAdd, "admin grant")
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("admin_id", actorID).
		Int64("user_id", user.ID).
		Int64("amount", amount).
		Msg("Admin added credits")
	notify.Send(s.notifier, user.ID, fmt.Sprintf("💰 An admin added %d credits to your balance. New balance: %d", amount, user.Credits))
	return user, nil
}

// RemoveCredits removes up to amount credits from the named user; the
// balance clamps at zero.
func (s *AdminService) RemoveCredits(ctx context.Context, actorID int64, target string, amount int64) (*model.User, error) {
	if err := s.authorize(actorID); err != nil {
		return nil, err
	}
	user, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	var removed int64
	err = s.locks.WithLock(user.ID, func() error {
		user, removed, err = s.ledger.Debit(ctx, user.ID, amount, model.TxTypeAdminSub, "admin removal")
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("admin_id", actorID).
		Int64("user_id", user.ID).
		Int64("removed", removed).
		Msg("Admin removed credits")
	notify.Send(s.notifier, user.ID, fmt.Sprintf("⚠️ An admin removed %d credits from your balance. New balance: %d", removed, user.Credits))
	return user, nil
}

// GrantPremium activates premium for the named user for the given
// number of days.
func (s *AdminService) GrantPremium(ctx context.Context, actorID int64, target string, days int) (*model.User, error) {
	if err := s.authorize(actorID); err != nil {
		return nil, err
	}
	user, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	err = s.locks.WithLock(user.ID, func() error {
		user, err = s.ledger.GrantPremium(ctx, user.ID, days)
		return err
	})
	if err != nil {
		return nil, err
	}

	notify.Send(s.notifier, user.ID, fmt.Sprintf("⭐ You have been granted premium for %d days. Enjoy!", days))
	return user, nil
}

// RevokePremium clears the named user's premium status. Revoking a
// non-premium user succeeds without effect.
func (s *AdminService) RevokePremium(ctx context.Context, actorID int64, target string) (*model.User, error) {
	if err := s.authorize(actorID); err != nil {
		return nil, err
	}
	user, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	wasPremium := user.IsPremium
	err = s.locks.WithLock(user.ID, func() error {
		user, err = s.ledger.RevokePremium(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if wasPremium {
		notify.Send(s.notifier, user.ID, "Your premium status has been revoked.")
	}
	return user, nil
}

// Stats aggregates over all user records. The average is the integer
// floor of total credits over user count, and zero when there are no
// users.
func (s *AdminService) Stats(ctx context.Context, actorID int64) (*model.Stats, error) {
	if err := s.authorize(actorID); err != nil {
		return nil, err
	}

	users, err := s.ledger.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{TotalUsers: len(users)}
	for _, user := range users {
		stats.TotalCredits += user.Credits
		if user.IsPremium {
			stats.PremiumUsers++
		}
	}
	if stats.TotalUsers > 0 {
		stats.AverageCredits = stats.TotalCredits / int64(stats.TotalUsers)
	}
	return stats, nil
}
