package handler

import (
	"errors"
	"fmt"
	"net/http"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"chat-game-backend/internal/game"
	"chat-game-backend/internal/model"
	"chat-game-backend/internal/repository"
	"chat-game-backend/internal/service"
)

// Update is one inbound chat message, already unwrapped from the chat
// platform's envelope by the gateway.
type Update struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
}

// Reply is the message sent back to the chat. Options, when present,
// render as a one-tap keyboard.
type Reply struct {
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

const helpText = `🎮 Available commands:
/start - create your account
/credits - show your balance
/games - list games
/dice - dice game (guess 1-6)
/number - number game (guess 1-100)
/quiz - trivia question
/slots - premium slot machine
/daily - claim your daily reward
/help - this message

During a game, just send your guess as a number.`

// Webhook dispatches a chat command to the backend services and renders
// the outcome as a reply. User-facing failures (insufficient credits,
// no active game, bad guesses) become reply text, not HTTP errors.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var update Update
	if err := decodeBody(r, &update); err != nil {
		h.writeError(w, err)
		return
	}
	if update.UserID == 0 {
		h.writeError(w, fmt.Errorf("%w: user_id is required", errBadRequest))
		return
	}

	reply, err := h.dispatch(r, &update)
	if err != nil {
		if text, ok := friendlyError(err); ok {
			reply = &Reply{Text: text}
		} else {
			h.writeError(w, err)
			return
		}
	}

	log.Debug().
		Int64("user_id", update.UserID).
		Str("text", update.Text).
		Msg("Webhook update handled")
	h.writeSuccess(w, reply)
}

func (h *Handler) dispatch(r *http.Request, update *Update) (*Reply, error) {
	ctx := r.Context()
	text := strings.TrimSpace(update.Text)
	command, arg1, arg2 := splitCommand(text)

	switch command {
	case "/start":
		user, created, err := h.ledger.Register(ctx, update.UserID, update.DisplayName)
		if err != nil {
			return nil, err
		}
		if created {
			return &Reply{Text: fmt.Sprintf("👋 Welcome, %s! You start with %d credits.\nSend /games to see what you can play.", user.DisplayName, user.Credits)}, nil
		}
		return &Reply{Text: fmt.Sprintf("Welcome back, %s! Balance: %d credits.", user.DisplayName, user.Credits)}, nil

	case "/help":
		return &Reply{Text: helpText}, nil

	case "/credits", "/balance":
		return h.creditsReply(r, update.UserID)

	case "/games":
		return h.gamesReply(), nil

	case "/dice":
		return h.enterReply(r, update.UserID, model.KindDice)
	case "/number":
		return h.enterReply(r, update.UserID, model.KindNumber)
	case "/quiz":
		return h.enterReply(r, update.UserID, model.KindQuiz)
	case "/slots":
		return h.enterReply(r, update.UserID, model.KindSlots)

	case "/daily":
		result, err := h.daily.Claim(ctx, update.UserID)
		if err != nil {
			return nil, err
		}
		prefix := "🎁"
		if result.Premium {
			prefix = "🎁⭐"
		}
		return &Reply{Text: fmt.Sprintf("%s Daily reward claimed: +%d credits!\nBalance: %d", prefix, result.Amount, result.Balance)}, nil

	case "/addcredits":
		return h.adminAmountReply(r, update.UserID, arg1, arg2, h.admin.AddCredits, "Added %d credits to %s. New balance: %d")
	case "/removecredits":
		return h.adminAmountReply(r, update.UserID, arg1, arg2, h.admin.RemoveCredits, "Removed credits from %[2]s. New balance: %[3]d")

	case "/grantpremium":
		days, err := strconv.Atoi(arg2)
		if err != nil || days <= 0 {
			return &Reply{Text: "Usage: /grantpremium @user <days>"}, nil
		}
		user, err := h.admin.GrantPremium(ctx, update.UserID, arg1, days)
		if err != nil {
			return nil, err
		}
		return &Reply{Text: fmt.Sprintf("⭐ %s is premium for %d days.", user.DisplayName, days)}, nil

	case "/revokepremium":
		if arg1 == "" {
			return &Reply{Text: "Usage: /revokepremium @user"}, nil
		}
		user, err := h.admin.RevokePremium(ctx, update.UserID, arg1)
		if err != nil {
			return nil, err
		}
		return &Reply{Text: fmt.Sprintf("%s is no longer premium.", user.DisplayName)}, nil

	case "/stats":
		stats, err := h.admin.Stats(ctx, update.UserID)
		if err != nil {
			return nil, err
		}
		return &Reply{Text: fmt.Sprintf(
			"📊 Backend stats:\nUsers: %d\nPremium users: %d\nTotal credits: %d\nAverage credits: %d",
			stats.TotalUsers, stats.PremiumUsers, stats.TotalCredits, stats.AverageCredits,
		)}, nil
	}

	// Bare numbers are guesses at the active session.
	if guess, err := strconv.Atoi(text); err == nil {
		return h.guessReply(r, update.UserID, guess)
	}

	return &Reply{Text: "Unknown command. Send /help for the command list."}, nil
}

func (h *Handler) creditsReply(r *http.Request, userID int64) (*Reply, error) {
	user, err := h.ledger.GetUser(r.Context(), userID)
	if err != nil {
		return nil, err
	}

	status := "standard"
	if user.PremiumActive(time.Now()) {
		status = "⭐ premium"
	}
	return &Reply{Text: fmt.Sprintf(
		"💰 Balance: %d credits\nAccount: %s\nGames played: %d, won: %d\nTotal winnings: %d",
		user.Credits, status, user.GamesPlayed, user.GamesWon, user.TotalEarnings,
	)}, nil
}

func (h *Handler) gamesReply() *Reply {
	var b strings.Builder
	b.WriteString("🎮 Games:\n")
	for _, entry := range h.engine.Catalog() {
		fmt.Fprintf(&b, "/%s - %s (%d credits", entry.Kind, entry.Name, entry.EntryFee)
		if entry.PremiumOnly {
			b.WriteString(", premium only")
		}
		b.WriteString(")\n")
	}
	return &Reply{Text: b.String()}
}

func (h *Handler) enterReply(r *http.Request, userID int64, kind model.GameKind) (*Reply, error) {
	result, err := h.engine.Enter(r.Context(), userID, kind)
	if err != nil {
		return nil, err
	}

	if result.Spin != nil {
		line := strings.Join(result.Spin.Symbols, " | ")
		if result.Spin.Winnings > 0 {
			return &Reply{Text: fmt.Sprintf("🎰 %s\n\nYou won %d credits! Balance: %d", line, result.Spin.Winnings, result.Balance)}, nil
		}
		return &Reply{Text: fmt.Sprintf("🎰 %s\n\nNo luck this time. Balance: %d", line, result.Balance)}, nil
	}

	reply := &Reply{Text: result.Prompt.Text}
	for i, opt := range result.Prompt.Options {
		reply.Options = append(reply.Options, fmt.Sprintf("%d. %s", i+1, opt))
	}
	return reply, nil
}

// guessReply routes a bare number at the user's active session. Quiz
// answers arrive 1-based from the rendered keyboard and are shifted to
// the option index.
func (h *Handler) guessReply(r *http.Request, userID int64, guess int) (*Reply, error) {
	ctx := r.Context()

	sess, active, err := h.engine.ActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !active {
		return &Reply{Text: "No game in progress. Send /games to start one."}, nil
	}

	if sess.Kind == model.KindQuiz {
		guess--
	}

	result, err := h.engine.Attempt(ctx, userID, sess.Kind, guess)
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case game.OutcomeWon:
		return &Reply{Text: fmt.Sprintf("🎉 Correct! You won %d credits.\nBalance: %d", result.Payout, result.Balance)}, nil
	case game.OutcomeLost:
		return &Reply{Text: fmt.Sprintf("❌ Game over! The answer was %s.\nBetter luck next time.", result.Reveal)}, nil
	default:
		return &Reply{Text: fmt.Sprintf("Not quite - try %s. %d attempts left.", result.Hint, result.AttemptsLeft)}, nil
	}
}

type adminAmountFn func(ctx context.Context, actorID int64, target string, amount int64) (*model.User, error)

func (h *Handler) adminAmountReply(r *http.Request, actorID int64, target, amountArg string, fn adminAmountFn, format string) (*Reply, error) {
	amount, err := strconv.ParseInt(amountArg, 10, 64)
	if err != nil || amount <= 0 || target == "" {
		return &Reply{Text: "Usage: /<command> @user <amount>"}, nil
	}

	user, err := fn(r.Context(), actorID, target, amount)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: fmt.Sprintf(format, amount, user.DisplayName, user.Credits)}, nil
}

// friendlyError renders user-caused failures as chat replies.
func friendlyError(err error) (string, bool) {
	switch {
	case errors.Is(err, game.ErrInsufficientCredits):
		return "💸 Not enough credits. Claim your /daily reward or win some games!", true
	case errors.Is(err, game.ErrPremiumRequired):
		return "⭐ That game needs a premium account. Ask about /premium plans.", true
	case errors.Is(err, game.ErrNoActiveGame):
		return "No game in progress. Send /games to start one.", true
	case errors.Is(err, game.ErrInvalidGuess):
		return err.Error(), true
	case errors.Is(err, service.ErrDailyAlreadyClaimed):
		return "You already claimed today's reward. Come back after midnight!", true
	case errors.Is(err, service.ErrUnauthorized):
		return "❌ That command needs admin access.", true
	case errors.Is(err, repository.ErrUserNotFound):
		return "Account not found. Send /start first.", true
	default:
		return "", false
	}
}

// splitCommand separates "/cmd arg1 arg2..." into its first three
// tokens.
func splitCommand(text string) (command, arg1, arg2 string) {
	fields := strings.Fields(text)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		command = fields[0]
	}
	if len(fields) > 1 {
		arg1 = fields[1]
	}
	if len(fields) > 2 {
		arg2 = fields[2]
	}
	return command, arg1, arg2
}
