package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"chat-game-backend/internal/model"
)

// Ledger is the credit ledger surface the engine consumes.
type Ledger interface {
	// GetUser returns the user record or repository.ErrUserNotFound.
	GetUser(ctx context.Context, userID int64) (*model.User, error)

	// IsPremiumActive reports active premium, persisting the lazy expiry
	// flip when the subscription has lapsed.
	IsPremiumActive(ctx context.Context, userID int64) (bool, error)

	// ChargeEntry debits the entry fee and counts the game as played.
	ChargeEntry(ctx context.Context, userID int64, fee int64, kind model.GameKind) (*model.User, error)

	// AwardWin credits the payout and counts the game as won.
	AwardWin(ctx context.Context, userID int64, payout int64, kind model.GameKind) (*model.User, error)
}

// Sessions is the game session store surface the engine consumes.
type Sessions interface {
	GetActive(ctx context.Context, userID int64) (*model.Session, error)
	Start(ctx context.Context, userID int64, sess *model.Session) error
	Update(ctx context.Context, userID int64, sess *model.Session) error
	Clear(ctx context.Context, userID int64) error
}

// Locker provides the per-user mutual exclusion scope every
// read-modify-write runs under.
type Locker interface {
	WithLock(userID int64, fn func() error) error
}

// Outcome is the terminal or intermediate result of an attempt.
type Outcome string

const (
	OutcomeWon      Outcome = "won"
	OutcomeLost     Outcome = "lost"
	OutcomeContinue Outcome = "continue"
)

// EnterResult describes a started game. For session games Prompt is set;
// for instant games Spin carries the already-resolved outcome.
type EnterResult struct {
	Kind    model.GameKind `json:"kind"`
	Fee     int64          `json:"fee"`
	Prompt  *Prompt        `json:"prompt,omitempty"`
	Spin    *SpinResult    `json:"spin,omitempty"`
	Balance int64          `json:"balance"`
}

// AttemptResult describes the effect of one guess.
type AttemptResult struct {
	Kind         model.GameKind `json:"kind"`
	Outcome      Outcome        `json:"outcome"`
	Payout       int64          `json:"payout,omitempty"`
	Hint         string         `json:"hint,omitempty"` // "higher"/"lower" on a miss
	Reveal       string         `json:"reveal,omitempty"`
	AttemptsLeft int            `json:"attempts_left,omitempty"`
	Balance      int64          `json:"balance,omitempty"`
}

// Engine drives the per-user game state machine:
// Idle -> Active -> {Won, Lost} -> Idle. Won and Lost are transient: the
// session row is deleted in the same locked scope that applies the
// payout.
type Engine struct {
	registry *Registry
	instant  InstantVariant
	ledger   Ledger
	sessions Sessions
	locks    Locker
	notFound func(error) bool

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewEngine creates an Engine. notFound recognizes the session store's
// not-found error. rng may be nil, in which case a time-seeded source is
// used.
func NewEngine(registry *Registry, instant InstantVariant, ledger Ledger, sessions Sessions, locks Locker, notFound func(error) bool, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		registry: registry,
		instant:  instant,
		ledger:   ledger,
		sessions: sessions,
		locks:    locks,
		notFound: notFound,
		rng:      rng,
	}
}

// Enter starts a game of the given kind for the user: it verifies the
// balance covers the entry fee, debits it, and either creates a session
// (dice, number, quiz) or resolves immediately (slots). Starting a new
// game silently abandons any stale session, forfeiting its stake.
func (e *Engine) Enter(ctx context.Context, userID int64, kind model.GameKind) (*EnterResult, error) {
	var result *EnterResult
	err := e.locks.WithLock(userID, func() error {
		var err error
		result, err = e.enterLocked(ctx, userID, kind)
		return err
	})
	return result, err
}

func (e *Engine) enterLocked(ctx context.Context, userID int64, kind model.GameKind) (*EnterResult, error) {
	if e.instant != nil && kind == e.instant.Kind() {
		return e.enterInstant(ctx, userID)
	}

	variant, ok := e.registry.Get(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, kind)
	}

	user, err := e.ledger.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fee := variant.EntryFee()
	if user.Credits < fee {
		return nil, fmt.Errorf("%w: you need %d credits", ErrInsufficientCredits, fee)
	}

	user, err = e.ledger.ChargeEntry(ctx, userID, fee, kind)
	if err != nil {
		return nil, err
	}

	sess, prompt := e.roll(variant, fee)
	if err := e.sessions.Start(ctx, userID, sess); err != nil {
		return nil, err
	}

	log.Debug().
		Int64("user_id", userID).
		Str("kind", string(kind)).
		Int64("fee", fee).
		Msg("Game session started")

	return &EnterResult{
		Kind:    kind,
		Fee:     fee,
		Prompt:  prompt,
		Balance: user.Credits,
	}, nil
}

func (e *Engine) enterInstant(ctx context.Context, userID int64) (*EnterResult, error) {
	user, err := e.ledger.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if e.instant.PremiumOnly() {
		active, err := e.ledger.IsPremiumActive(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, fmt.Errorf("%w: %s is a premium game", ErrPremiumRequired, e.instant.Name())
		}
	}

	bet := e.instant.EntryFee()
	if user.Credits < bet {
		return nil, fmt.Errorf("%w: you need %d credits", ErrInsufficientCredits, bet)
	}

	user, err = e.ledger.ChargeEntry(ctx, userID, bet, e.instant.Kind())
	if err != nil {
		return nil, err
	}

	spin := e.spin(bet)
	if spin.Winnings > 0 {
		user, err = e.ledger.AwardWin(ctx, userID, spin.Winnings, e.instant.Kind())
		if err != nil {
			return nil, err
		}
	}

	log.Debug().
		Int64("user_id", userID).
		Int64("bet", bet).
		Int64("winnings", spin.Winnings).
		Strs("symbols", spin.Symbols).
		Msg("Instant game resolved")

	return &EnterResult{
		Kind:    e.instant.Kind(),
		Fee:     bet,
		Spin:    spin,
		Balance: user.Credits,
	}, nil
}

// Attempt applies one guess to the user's active session. kind must
// match the active session; a guess routed at the wrong game fails with
// ErrNoActiveGame. Out-of-domain guesses fail with ErrInvalidGuess and
// do not consume an attempt.
func (e *Engine) Attempt(ctx context.Context, userID int64, kind model.GameKind, guess int) (*AttemptResult, error) {
	var result *AttemptResult
	err := e.locks.WithLock(userID, func() error {
		var err error
		result, err = e.attemptLocked(ctx, userID, kind, guess)
		return err
	})
	return result, err
}

func (e *Engine) attemptLocked(ctx context.Context, userID int64, kind model.GameKind, guess int) (*AttemptResult, error) {
	sess, err := e.sessions.GetActive(ctx, userID)
	if err != nil {
		if e.notFound(err) {
			return nil, fmt.Errorf("%w: start one with a game command", ErrNoActiveGame)
		}
		return nil, err
	}
	if sess.Kind != kind {
		return nil, fmt.Errorf("%w of that kind", ErrNoActiveGame)
	}

	variant, ok := e.registry.Get(sess.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, sess.Kind)
	}

	judgement, err := variant.Judge(sess, guess)
	if err != nil {
		return nil, err
	}

	sess.AttemptsUsed++

	switch {
	case judgement.Win:
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return nil, err
		}
		user, err := e.ledger.AwardWin(ctx, userID, judgement.Payout, sess.Kind)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Int64("user_id", userID).
			Str("kind", string(sess.Kind)).
			Int64("payout", judgement.Payout).
			Msg("Game won")
		return &AttemptResult{
			Kind:    sess.Kind,
			Outcome: OutcomeWon,
			Payout:  judgement.Payout,
			Balance: user.Credits,
		}, nil

	case sess.AttemptsUsed >= sess.AttemptsAllowed:
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return nil, err
		}
		log.Debug().
			Int64("user_id", userID).
			Str("kind", string(sess.Kind)).
			Msg("Game lost, attempts exhausted")
		return &AttemptResult{
			Kind:    sess.Kind,
			Outcome: OutcomeLost,
			Reveal:  judgement.Reveal,
		}, nil

	default:
		if err := e.sessions.Update(ctx, userID, sess); err != nil {
			return nil, err
		}
		return &AttemptResult{
			Kind:         sess.Kind,
			Outcome:      OutcomeContinue,
			Hint:         judgement.Hint,
			AttemptsLeft: sess.AttemptsLeft(),
		}, nil
	}
}

// CatalogEntry describes one playable game.
type CatalogEntry struct {
	Kind        model.GameKind `json:"kind"`
	Name        string         `json:"name"`
	EntryFee    int64          `json:"entry_fee"`
	PremiumOnly bool           `json:"premium_only"`
}

// Catalog lists every playable game, session variants first, sorted by
// kind for a stable order.
func (e *Engine) Catalog() []CatalogEntry {
	kinds := e.registry.Kinds()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	catalog := make([]CatalogEntry, 0, len(kinds)+1)
	for _, kind := range kinds {
		v, _ := e.registry.Get(kind)
		catalog = append(catalog, CatalogEntry{
			Kind:     v.Kind(),
			Name:     v.Name(),
			EntryFee: v.EntryFee(),
		})
	}
	if e.instant != nil {
		catalog = append(catalog, CatalogEntry{
			Kind:        e.instant.Kind(),
			Name:        e.instant.Name(),
			EntryFee:    e.instant.EntryFee(),
			PremiumOnly: e.instant.PremiumOnly(),
		})
	}
	return catalog
}

// ActiveSession returns the user's in-progress session, if any.
func (e *Engine) ActiveSession(ctx context.Context, userID int64) (*model.Session, bool, error) {
	sess, err := e.sessions.GetActive(ctx, userID)
	if err != nil {
		if e.notFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return sess, true, nil
}

// roll draws a session's hidden state. The shared rng is guarded: the
// per-user lock does not serialize different users.
func (e *Engine) roll(variant Variant, stake int64) (*model.Session, *Prompt) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return variant.Start(e.rng, stake)
}

func (e *Engine) spin(bet int64) *SpinResult {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.instant.Spin(e.rng, bet)
}
