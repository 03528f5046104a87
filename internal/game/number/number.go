// Package number implements the number guessing game: a secret in
// [1,100], five attempts with higher/lower hints, win pays four times
// the stake.
package number

import (
	"fmt"
	"math/rand"
	"time"

	"chat-game-backend/internal/game"
	"chat-game-backend/internal/model"
)

const (
	// DefaultFee is the entry fee when no configuration is supplied.
	DefaultFee = 10

	// Attempts is the number of guesses a session allows.
	Attempts = 5

	// WinMultiplier applied to the stake on a correct guess.
	// Higher than dice: the search space is larger.
	WinMultiplier = 4

	maxSecret = 100
)

// Game implements game.Variant for the number guessing game.
type Game struct {
	fee int64
}

// Config holds configuration for the number game.
type Config struct {
	Fee int64
}

// New creates a number Game with the given configuration.
func New(cfg *Config) *Game {
	fee := int64(DefaultFee)
	if cfg != nil && cfg.Fee > 0 {
		fee = cfg.Fee
	}
	return &Game{fee: fee}
}

// Kind returns the variant identifier.
func (g *Game) Kind() model.GameKind {
	return model.KindNumber
}

// Name returns the display name.
func (g *Game) Name() string {
	return "Number Guessing Game"
}

// EntryFee returns the fixed entry fee.
func (g *Game) EntryFee() int64 {
	return g.fee
}

// Start draws the hidden secret number.
func (g *Game) Start(rng *rand.Rand, stake int64) (*model.Session, *game.Prompt) {
	sess := &model.Session{
		Kind:            model.KindNumber,
		Stake:           stake,
		AttemptsAllowed: Attempts,
		Number:          &model.NumberState{Secret: rng.Intn(maxSecret) + 1},
		StartedAt:       time.Now(),
	}
	prompt := &game.Prompt{
		Text: fmt.Sprintf(
			"🔢 Number Guessing Game Started!\n\nI'm thinking of a number between 1 and 100.\nYou have %d attempts to guess it.\nCost: %d credits",
			Attempts, stake,
		),
	}
	return sess, prompt
}

// Judge evaluates a guess against the secret, revealing direction on a
// miss.
func (g *Game) Judge(sess *model.Session, guess int) (*game.Judgement, error) {
	if guess < 1 || guess > maxSecret {
		return nil, fmt.Errorf("%w: enter a number between 1 and 100", game.ErrInvalidGuess)
	}

	secret := sess.Number.Secret
	j := &game.Judgement{
		Reveal: fmt.Sprintf("%d", secret),
	}
	if guess == secret {
		j.Win = true
		j.Payout = sess.Stake * WinMultiplier
		return j, nil
	}
	if guess < secret {
		j.Hint = "higher"
	} else {
		j.Hint = "lower"
	}
	return j, nil
}
