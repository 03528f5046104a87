package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"chat-game-backend/internal/pkg/kv"
)

// DailyStore persists the last successful daily claim per user under
// daily:<id> keys. The value is the server-local midnight of the claim
// day, in unix milliseconds.
type DailyStore struct {
	store kv.Store
}

// NewDailyStore creates a new DailyStore instance.
func NewDailyStore(store kv.Store) *DailyStore {
	return &DailyStore{store: store}
}

// LastClaimDay returns the midnight marker of the user's last claim.
// ok is false when the user has never claimed.
func (s *DailyStore) LastClaimDay(ctx context.Context, userID int64) (time.Time, bool, error) {
	data, err := s.store.Get(ctx, kv.DailyKey(userID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to get daily marker for user %d: %w", userID, err)
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse daily marker for user %d: %w", userID, err)
	}
	return time.UnixMilli(ms), true, nil
}

// SetClaimDay records day (a midnight-truncated time) as the user's last
// successful claim, overwriting any previous marker.
func (s *DailyStore) SetClaimDay(ctx context.Context, userID int64, day time.Time) error {
	val := strconv.FormatInt(day.UnixMilli(), 10)
	if err := s.store.Set(ctx, kv.DailyKey(userID), []byte(val)); err != nil {
		return fmt.Errorf("failed to store daily marker for user %d: %w", userID, err)
	}
	return nil
}
