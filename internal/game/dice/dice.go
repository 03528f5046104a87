// Package dice implements the dice guessing game: a hidden die face in
// [1,6], three attempts to hit it, win pays three times the stake.
package dice

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
	Attempts = 3

	// WinMultiplier applied to the stake on a correct guess.
	WinMultiplier = 3

	faces = 6
)

// Game implements game.Variant for the dice game.
type Game struct {
	fee int64
}

// Config holds configuration for the dice game.
type Config struct {
	Fee int64
}

// New creates a dice Game with the given configuration.
func New(cfg *Config) *Game {
	fee := int64(DefaultFee)
	if cfg != nil && cfg.Fee > 0 {
		fee = cfg.Fee
	}
	return &Game{fee: fee}
}

// Kind returns the variant identifier.
func (g *Game) Kind() model.GameKind {
	return model.KindDice
}

// Name returns the display name.
func (g *Game) Name() string {
	return "Dice Game"
}

// EntryFee returns the fixed entry fee.
func (g *Game) EntryFee() int64 {
	return g.fee
}

// Start draws the hidden target face.
func (g *Game) Start(rng *rand.Rand, stake int64) (*model.Session, *game.Prompt) {
	sess := &model.Session{
		Kind:            model.KindDice,
		Stake:           stake,
		AttemptsAllowed: Attempts,
		Dice:            &model.DiceState{Target: rng.Intn(faces) + 1},
		StartedAt:       time.Now(),
	}
	prompt := &game.Prompt{
		Text: fmt.Sprintf(
			"🎲 Dice Game Started!\n\nI'm thinking of a number between 1 and 6.\nYou have %d attempts to guess it.\nCost: %d credits",
			Attempts, stake,
		),
	}
	return sess, prompt
}

// Judge evaluates a guess against the hidden target.
func (g *Game) Judge(sess *model.Session, guess int) (*game.Judgement, error) {
	if guess < 1 || guess > faces {
		return nil, fmt.Errorf("%w: enter a number between 1 and 6", game.ErrInvalidGuess)
	}

	target := sess.Dice.Target
	j := &game.Judgement{
		Reveal: fmt.Sprintf("%d", target),
	}
	if guess == target {
		j.Win = true
		j.Payout = sess.Stake * WinMultiplier
		return j, nil
	}
	if guess < target {
		j.Hint = "higher"
	} else {
		j.Hint = "lower"
	}
	return j, nil
}
