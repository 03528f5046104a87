// Package game defines the game engine: the variant interfaces, the
// registry, and the per-user session state machine that ties variants to
// the credit ledger.
package game

import (
	"errors"
	"math/rand"

	"chat-game-backend/internal/model"
)

// Errors reported to callers as user-facing outcomes. None of them leave
// any state changed.
var (
	ErrNoActiveGame        = errors.New("no active game")
	ErrInvalidGuess        = errors.New("guess outside the game's range")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrPremiumRequired     = errors.New("premium required")
	ErrUnknownGame         = errors.New("unknown game")
)

// Prompt describes what to show the user when a session starts.
type Prompt struct {
	Text    string   `json:"text"`              // e.g. "I'm thinking of a number between 1 and 100."
	Options []string `json:"options,omitempty"` // quiz answer options, nil for other variants
}

// Judgement is a variant's verdict on a single guess. It carries no
// session mutation; the engine owns attempt accounting and payout.
type Judgement struct {
	Win    bool
	Payout int64  // credits awarded on win
	Hint   string // "higher"/"lower" on a miss, empty otherwise
	Reveal string // hidden value disclosed when the game ends lost
}

// Variant is a game with an Enter -> Attempt* -> Resolve lifecycle.
type Variant interface {
	// Kind returns the variant identifier stored in the session record.
	Kind() model.GameKind

	// Name returns the variant's display name (e.g. "Dice Game").
	Name() string

	// EntryFee returns the fixed fee debited on entry.
	EntryFee() int64

	// Start creates a fresh session with hidden state drawn from rng,
	// alongside the prompt to show the player. stake is the fee already
	// debited.
	Start(rng *rand.Rand, stake int64) (*model.Session, *Prompt)

	// Judge evaluates a guess against the session's hidden state without
	// mutating it. Returns ErrInvalidGuess (wrapped with guidance) when
	// the guess is outside the variant's legal domain.
	Judge(sess *model.Session, guess int) (*Judgement, error)
}

// InstantVariant is a game that resolves on entry with no attempt phase.
type InstantVariant interface {
	// Kind returns the variant identifier.
	Kind() model.GameKind

	// Name returns the variant's display name.
	Name() string

	// EntryFee returns the bet debited on entry; for instant games the
	// entry fee IS the bet.
	EntryFee() int64

	// PremiumOnly reports whether the game requires active premium.
	PremiumOnly() bool

	// Spin draws the outcome and returns the winnings (0 = bet lost).
	Spin(rng *rand.Rand, bet int64) *SpinResult
}

// SpinResult is the outcome of an instant game round.
type SpinResult struct {
	Symbols  []string `json:"symbols"`
	Winnings int64    `json:"winnings"` // credits awarded; 0 means the bet is lost
}
