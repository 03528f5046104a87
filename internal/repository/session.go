package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chat-game-backend/internal/model"
	"chat-game-backend/internal/pkg/kv"
)

// SessionStore persists at most one active game session per user under
// game:<id> keys.
type SessionStore struct {
	store kv.Store
}

// NewSessionStore creates a new SessionStore instance.
func NewSessionStore(store kv.Store) *SessionStore {
	return &SessionStore{store: store}
}

// GetActive retrieves the user's active session.
// Returns ErrSessionNotFound when no game is in progress.
func (s *SessionStore) GetActive(ctx context.Context, userID int64) (*model.Session, error) {
	data, err := s.store.Get(ctx, kv.GameKey(userID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session for user %d: %w", userID, err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session for user %d: %w", userID, err)
	}
	return &sess, nil
}

// Start writes a fresh session, silently overwriting any stale one.
// A stale session's stake is forfeited by construction: it was debited
// when that session started and is never refunded.
func (s *SessionStore) Start(ctx context.Context, userID int64, sess *model.Session) error {
	return s.put(ctx, userID, sess)
}

// Update persists an in-progress session after an attempt.
func (s *SessionStore) Update(ctx context.Context, userID int64, sess *model.Session) error {
	return s.put(ctx, userID, sess)
}

// Clear removes the user's session. Clearing an absent session is not an
// error.
func (s *SessionStore) Clear(ctx context.Context, userID int64) error {
	if err := s.store.Delete(ctx, kv.GameKey(userID)); err != nil {
		return fmt.Errorf("failed to clear session for user %d: %w", userID, err)
	}
	return nil
}

func (s *SessionStore) put(ctx context.Context, userID int64, sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session for user %d: %w", userID, err)
	}
	if err := s.store.Set(ctx, kv.GameKey(userID), data); err != nil {
		return fmt.Errorf("failed to store session for user %d: %w", userID, err)
	}
	return nil
}
