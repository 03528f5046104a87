package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-game-backend/internal/model"

	"chat-game-backend/internal/game/dice"
)

func (f *fixture) send(t *testing.T, userID int64, text string) (int, string) {
	t.Helper()

	resp, body := f.post(t, "/webhook", map[string]interface{}{
		"user_id":      userID,
		"display_name": "alice",
		"text":         text,
	})
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, ""
	}
	reply := body["data"].(map[string]interface{})
	return resp.StatusCode, reply["text"].(string)
}

func TestWebhook_Start(t *testing.T) {
	f := newFixture(t)

	status, text := f.send(t, 1, "/start")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, text, "Welcome, alice")
	assert.Contains(t, text, "100 credits")

	status, text = f.send(t, 1, "/start")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, text, "Welcome back")
}

func TestWebhook_HelpAndUnknown(t *testing.T) {
	f := newFixture(t)

	_, text := f.send(t, 1, "/help")
	assert.Contains(t, text, "/daily")

	_, text = f.send(t, 1, "hello there")
	assert.Contains(t, text, "Unknown command")
}

func TestWebhook_Credits(t *testing.T) {
	f := newFixture(t)
	f.send(t, 1, "/start")

	_, text := f.send(t, 1, "/credits")
	assert.Contains(t, text, "Balance: 100 credits")
	assert.Contains(t, text, "standard")
}

func TestWebhook_Games(t *testing.T) {
	f := newFixture(t)

	_, text := f.send(t, 1, "/games")
	assert.Contains(t, text, "/dice")
	assert.Contains(t, text, "/slots")
	assert.Contains(t, text, "premium only")
}

// TestWebhook_DicePlaythrough scripts a full hint-to-win conversation.
func TestWebhook_DicePlaythrough(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.send(t, 1, "/start")

	_, text := f.send(t, 1, "/dice")
	assert.Contains(t, text, "between 1 and 6")

	require.NoError(t, f.sessions.Update(ctx, 1, &model.Session{
		Kind:            model.KindDice,
		Stake:           dice.DefaultFee,
		AttemptsAllowed: dice.Attempts,
		Dice:            &model.DiceState{Target: 4},
	}))

	_, text = f.send(t, 1, "2")
	assert.Contains(t, text, "higher")
	assert.Contains(t, text, "2 attempts left")

	_, text = f.send(t, 1, "4")
	assert.Contains(t, text, "won 30 credits")
}

func TestWebhook_GuessWithoutGame(t *testing.T) {
	f := newFixture(t)
	f.send(t, 1, "/start")

	status, text := f.send(t, 1, "42")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, text, "No game in progress")
}

func TestWebhook_Daily(t *testing.T) {
	f := newFixture(t)
	f.send(t, 1, "/start")

	status, text := f.send(t, 1, "/daily")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, text, "+50 credits")

	// User-caused failures come back as chat replies, not HTTP errors.
	status, text = f.send(t, 1, "/daily")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, text, "already claimed")
}

func TestWebhook_SlotsWithoutPremium(t *testing.T) {
	f := newFixture(t)
	f.send(t, 1, "/start")

	status, text := f.send(t, 1, "/slots")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, text, "premium")
}

func TestWebhook_InsufficientCredits(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.send(t, 1, "/start")

	_, _, err := f.ledger.Debit(ctx, 1, startingCredits, model.TxTypeAdminSub, "")
	require.NoError(t, err)

	status, text := f.send(t, 1, "/dice")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, text, "Not enough credits")
}

func TestWebhook_AdminCommands(t *testing.T) {
	f := newFixture(t)
	f.send(t, 1, "/start")

	status, text := f.send(t, 1, "/addcredits @alice 100")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, text, "admin access")

	status, text = f.send(t, adminID, "/addcredits @alice 100")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, text, "200")

	_, text = f.send(t, adminID, "/grantpremium @alice 30")
	assert.Contains(t, text, "premium for 30 days")

	_, text = f.send(t, adminID, "/stats")
	assert.Contains(t, text, "Users: 1")

	// Malformed arguments get a usage hint.
	_, text = f.send(t, adminID, "/addcredits @alice lots")
	assert.Contains(t, text, "Usage")
}

func TestWebhook_Validation(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.post(t, "/webhook", map[string]interface{}{"text": "/start"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing user_id")
}
