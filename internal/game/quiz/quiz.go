// Package quiz implements the trivia quiz game: one question drawn from
// a fixed bank, a single attempt, win pays five times the stake.
package quiz

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

	// Attempts is the number of answers a session allows.
	Attempts = 1

	// WinMultiplier applied to the stake on a correct answer.
	// Tops the difficulty ladder: a single attempt, no hints.
	WinMultiplier = 5
)

// Question is one entry in the quiz bank.
type Question struct {
	Text    string
	Options []string
	Answer  int // index into Options
}

// Bank is the fixed question pool sessions draw from.
var Bank = []Question{
	{
		Text:    "What is the capital of France?",
		Options: []string{"London", "Berlin", "Paris", "Madrid"},
		Answer:  2,
	},
	{
		Text:    "Which planet is known as the Red Planet?",
		Options: []string{"Venus", "Mars", "Jupiter", "Saturn"},
		Answer:  1,
	},
	{
		Text:    "What is 2 + 2?",
		Options: []string{"3", "4", "5", "22"},
		Answer:  1,
	},
	{
		Text:    "Who wrote 'Romeo and Juliet'?",
		Options: []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"},
		Answer:  1,
	},
	{
		Text:    "What is the largest ocean on Earth?",
		Options: []string{"Atlantic Ocean", "Indian Ocean", "Arctic Ocean", "Pacific Ocean"},
		Answer:  3,
	},
}

// Game implements game.Variant for the quiz game.
type Game struct {
	fee  int64
	bank []Question
}

// Config holds configuration for the quiz game.
type Config struct {
	Fee  int64
	Bank []Question // custom question pool; defaults to Bank
}

// New creates a quiz Game with the given configuration.
func New(cfg *Config) *Game {
	fee := int64(DefaultFee)
	bank := Bank
	if cfg != nil {
		if cfg.Fee > 0 {
			fee = cfg.Fee
		}
		if len(cfg.Bank) > 0 {
			bank = cfg.Bank
		}
	}
	return &Game{fee: fee, bank: bank}
}

// Kind returns the variant identifier.
func (g *Game) Kind() model.GameKind {
	return model.KindQuiz
}

// Name returns the display name.
func (g *Game) Name() string {
	return "Quiz Game"
}

// EntryFee returns the fixed entry fee.
func (g *Game) EntryFee() int64 {
	return g.fee
}

// Start draws one question uniformly from the bank.
func (g *Game) Start(rng *rand.Rand, stake int64) (*model.Session, *game.Prompt) {
	q := g.bank[rng.Intn(len(g.bank))]
	sess := &model.Session{
		Kind:            model.KindQuiz,
		Stake:           stake,
		AttemptsAllowed: Attempts,
		Quiz: &model.QuizState{
			Question:      q.Text,
			Options:       q.Options,
			CorrectOption: q.Answer,
		},
		StartedAt: time.Now(),
	}
	prompt := &game.Prompt{
		Text: fmt.Sprintf(
			"❓ Quiz Game Started!\n\n%s\nCost: %d credits\n\nSelect your answer:",
			q.Text, stake,
		),
		Options: q.Options,
	}
	return sess, prompt
}

// Judge evaluates an answer index against the stored question.
func (g *Game) Judge(sess *model.Session, guess int) (*game.Judgement, error) {
	state := sess.Quiz
	if guess < 0 || guess >= len(state.Options) {
		return nil, fmt.Errorf("%w: pick one of the listed options", game.ErrInvalidGuess)
	}

	j := &game.Judgement{
		Reveal: state.Options[state.CorrectOption],
	}
	if guess == state.CorrectOption {
		j.Win = true
		j.Payout = sess.Stake * WinMultiplier
	}
	return j, nil
}
