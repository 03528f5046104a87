// Package repository provides data access layer implementations over the
// key-value record store and the PostgreSQL transaction history.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chat-game-backend/internal/model"
	"chat-game-backend/internal/pkg/kv"
)

// Common errors for repository operations.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("no active game session")
)

// UserStore persists user records under user:<id> keys.
type UserStore struct {
	store kv.Store
}

// NewUserStore creates a new UserStore instance.
func NewUserStore(store kv.Store) *UserStore {
	return &UserStore{store: store}
}

// Get retrieves a user record. Returns ErrUserNotFound if absent.
func (s *UserStore) Get(ctx context.Context, userID int64) (*model.User, error) {
	data, err := s.store.Get(ctx, kv.UserKey(userID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user %d: %w", userID, err)
	}
	return &user, nil
}

// Put writes a user record, overwriting any previous version.
func (s *UserStore) Put(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user %d: %w", user.ID, err)
	}
	if err := s.store.Set(ctx, kv.UserKey(user.ID), data); err != nil {
		return fmt.Errorf("failed to store user %d: %w", user.ID, err)
	}
	return nil
}

// List returns every user record. Used by the admin stats scan.
func (s *UserStore) List(ctx context.Context) ([]*model.User, error) {
	values, err := s.store.List(ctx, kv.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*model.User, 0, len(values))
	for _, data := range values {
		var user model.User
		if err := json.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("failed to decode user record: %w", err)
		}
		users = append(users, &user)
	}
	return users, nil
}

// FindByName returns the first user whose display name matches.
// A leading "@" in the query is ignored. Returns ErrUserNotFound when no
// record matches.
func (s *UserStore) FindByName(ctx context.Context, name string) (*model.User, error) {
	if len(name) > 0 && name[0] == '@' {
		name = name[1:]
	}
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if user.DisplayName == name {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}
