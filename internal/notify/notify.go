// Package notify delivers out-of-band messages to users, such as admin
// balance adjustments and premium activations. Delivery is best-effort:
// callers fire and forget, and failures are only logged.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// Notifier sends a plain-text message to a user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string) error
}

// Nop discards all notifications. Used when no bot token is configured
// and in tests.
type Nop struct{}

// Notify discards the message.
func (Nop) Notify(ctx context.Context, userID int64, text string) error {
	return nil
}

// Telegram delivers notifications through the Telegram Bot API.
type Telegram struct {
	bot *tele.Bot
}

// NewTelegram creates a Telegram notifier from a bot token.
func NewTelegram(token string) (*Telegram, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:       token,
		Synchronous: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

// Notify sends text to the user's chat.
func (t *Telegram) Notify(ctx context.Context, userID int64, text string) error {
	if _, err := t.bot.Send(tele.ChatID(userID), text); err != nil {
		return fmt.Errorf("failed to send notification to %d: %w", userID, err)
	}
	return nil
}

// Send dispatches a notification in the background and logs failures.
// The surrounding operation has already committed; delivery problems
// must not surface to the caller.
func Send(n Notifier, userID int64, text string) {
	if n == nil {
		return
	}
	go func() {
		if err := n.Notify(context.Background(), userID, text); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("Notification delivery failed")
		}
	}()
}
