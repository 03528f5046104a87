// Package model defines the data models for the chat game backend.
package model

import "time"

// User represents a player account stored under the user:<id> key.
type User struct {
	ID            int64     `json:"id"`
	DisplayName   string    `json:"display_name"`
	Credits       int64     `json:"credits"`
	IsPremium     bool      `json:"is_premium"`
	PremiumExpiry int64     `json:"premium_expiry,omitempty"` // ms since epoch, meaningful only while IsPremium
	GamesPlayed   int64     `json:"games_played"`
	GamesWon      int64     `json:"games_won"`
	TotalEarnings int64     `json:"total_earnings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PremiumActive reports whether the premium flag is set and not past expiry.
// It does not persist the lazy expiry flip; that is the ledger's job.
func (u *User) PremiumActive(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	if u.PremiumExpiry == 0 {
		return true
	}
	return now.UnixMilli() <= u.PremiumExpiry
}

// GameKind identifies a game variant.
type GameKind string

const (
	KindDice   GameKind = "dice"
	KindNumber GameKind = "number"
	KindQuiz   GameKind = "quiz"
	KindSlots  GameKind = "slots"
)

// DiceState is the hidden state of a dice session.
type DiceState struct {
	Target int `json:"target"` // 1..6
}

// NumberState is the hidden state of a number-guess session.
type NumberState struct {
	Secret int `json:"secret"` // 1..100
}

// QuizState is the hidden state of a quiz session.
type QuizState struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"` // index into Options
}

// Session is the single active game record for a user, stored under
// game:<id>. Exactly one of the variant state fields is set, selected
// by Kind. Slots resolves on entry and never persists a session.
type Session struct {
	Kind            GameKind     `json:"kind"`
	Stake           int64        `json:"stake"`
	AttemptsUsed    int          `json:"attempts_used"`
	AttemptsAllowed int          `json:"attempts_allowed"`
	Dice            *DiceState   `json:"dice,omitempty"`
	Number          *NumberState `json:"number,omitempty"`
	Quiz            *QuizState   `json:"quiz,omitempty"`
	StartedAt       time.Time    `json:"started_at"`
}

// AttemptsLeft returns the number of attempts remaining in the session.
func (s *Session) AttemptsLeft() int {
	left := s.AttemptsAllowed - s.AttemptsUsed
	if left < 0 {
		return 0
	}
	return left
}

// Transaction represents a balance change record in the history ledger.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypeInitial      = "initial"       // Starting credits on registration
	TxTypeDaily        = "daily"         // Daily reward claim
	TxTypeGameEntry    = "game_entry"    // Entry fee debit
	TxTypeGameWin      = "game_win"      // Game payout
	TxTypeAdminAdd     = "admin_add"     // Admin granted credits
	TxTypeAdminSub     = "admin_sub"     // Admin removed credits
	TxTypePremiumGrant = "premium_grant" // Premium activation (zero-amount marker)
)

// Stats is the aggregate view over all user records.
type Stats struct {
	TotalUsers     int   `json:"total_users"`
	PremiumUsers   int   `json:"premium_users"`
	TotalCredits   int64 `json:"total_credits"`
	AverageCredits int64 `json:"average_credits"`
}

// PremiumTier selects the duration of a paid premium activation.
type PremiumTier string

const (
	TierSubscription PremiumTier = "subscription" // 30 days
	TierAnnual       PremiumTier = "annual"       // 365 days
)

// Days returns the premium duration for the tier, or 0 for an unknown tier.
func (t PremiumTier) Days() int {
	switch t {
	case TierSubscription:
		return 30
	case TierAnnual:
		return 365
	default:
		return 0
	}
}
