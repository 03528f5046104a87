package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-game-backend/internal/model"
	"chat-game-backend/internal/pkg/kv"
)

func TestUserStore_GetPut(t *testing.T) {
	store := NewUserStore(kv.NewMemoryStore())
	ctx := context.Background()

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)

	user := &model.User{
		ID:          1,
		DisplayName: "alice",
		Credits:     100,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, store.Put(ctx, user))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, user.DisplayName, got.DisplayName)
	assert.Equal(t, user.Credits, got.Credits)

	// Put overwrites.
	user.Credits = 250
	require.NoError(t, store.Put(ctx, user))
	got, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got.Credits)
}

func TestUserStore_List(t *testing.T) {
	mem := kv.NewMemoryStore()
	store := NewUserStore(mem)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, store.Put(ctx, &model.User{ID: i, Credits: i * 10}))
	}
	// Records under other prefixes don't leak into the scan.
	require.NoError(t, mem.Set(ctx, kv.GameKey(1), []byte(`{}`)))
	require.NoError(t, mem.Set(ctx, kv.DailyKey(1), []byte("0")))

	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUserStore_FindByName(t *testing.T) {
	store := NewUserStore(kv.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &model.User{ID: 1, DisplayName: "alice"}))
	require.NoError(t, store.Put(ctx, &model.User{ID: 2, DisplayName: "bob"}))

	user, err := store.FindByName(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)

	user, err = store.FindByName(ctx, "@alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = store.FindByName(ctx, "carol")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store := NewSessionStore(kv.NewMemoryStore())
	ctx := context.Background()

	_, err := store.GetActive(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess := &model.Session{
		Kind:            model.KindDice,
		Stake:           10,
		AttemptsAllowed: 3,
		Dice:            &model.DiceState{Target: 4},
		StartedAt:       time.Now(),
	}
	require.NoError(t, store.Start(ctx, 1, sess))

	got, err := store.GetActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.KindDice, got.Kind)
	require.NotNil(t, got.Dice)
	assert.Equal(t, 4, got.Dice.Target)
	assert.Nil(t, got.Number)

	got.AttemptsUsed = 2
	require.NoError(t, store.Update(ctx, 1, got))
	got, err = store.GetActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AttemptsUsed)
	assert.Equal(t, 1, got.AttemptsLeft())

	require.NoError(t, store.Clear(ctx, 1))
	_, err = store.GetActive(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Clearing again is fine.
	require.NoError(t, store.Clear(ctx, 1))
}

func TestSessionStore_StartOverwrites(t *testing.T) {
	store := NewSessionStore(kv.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, store.Start(ctx, 1, &model.Session{
		Kind: model.KindDice,
		Dice: &model.DiceState{Target: 2},
	}))
	require.NoError(t, store.Start(ctx, 1, &model.Session{
		Kind:   model.KindNumber,
		Number: &model.NumberState{Secret: 42},
	}))

	got, err := store.GetActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.KindNumber, got.Kind)
	assert.Nil(t, got.Dice)
}

func TestDailyStore(t *testing.T) {
	store := NewDailyStore(kv.NewMemoryStore())
	ctx := context.Background()

	_, claimed, err := store.LastClaimDay(ctx, 1)
	require.NoError(t, err)
	assert.False(t, claimed)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	require.NoError(t, store.SetClaimDay(ctx, 1, day))

	got, claimed, err := store.LastClaimDay(ctx, 1)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.True(t, got.Equal(day))

	// A later claim overwrites the marker.
	next := day.AddDate(0, 0, 1)
	require.NoError(t, store.SetClaimDay(ctx, 1, next))
	got, _, err = store.LastClaimDay(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(next))
}
