// Package slots implements the premium slot machine. The game resolves
// on entry: three symbols are drawn independently and uniformly, and the
// bet (the entry fee) is either multiplied or lost.
package slots

import (
	"math/rand"

	"chat-game-backend/internal/game"
	"chat-game-backend/internal/model"
)

const (
	// DefaultFee is the bet when no configuration is supplied.
	DefaultFee = 50

	// TripleMultiplier pays on three matching ordinary symbols.
	TripleMultiplier = 10
	// HighMultiplier pays on three 💎.
	HighMultiplier = 20
	// JackpotMultiplier pays on three 7️⃣.
	JackpotMultiplier = 50
	// PairMultiplier pays on exactly two matching symbols.
	PairMultiplier = 2
)

// Symbol values, in draw order.
const (
	SymbolHigh    = "💎"
	SymbolJackpot = "7️⃣"
)

// Symbols is the fixed reel set drawn from.
var Symbols = []string{"🍒", "🍋", "🍊", "🍇", SymbolHigh, SymbolJackpot}

// Game implements game.InstantVariant for the slot machine.
type Game struct {
	fee int64
}

// Config holds configuration for the slots game.
type Config struct {
	Fee int64
}

// New creates a slots Game with the given configuration.
func New(cfg *Config) *Game {
	fee := int64(DefaultFee)
	if cfg != nil && cfg.Fee > 0 {
		fee = cfg.Fee
	}
	return &Game{fee: fee}
}

// Kind returns the variant identifier.
func (g *Game) Kind() model.GameKind {
	return model.KindSlots
}

// Name returns the display name.
func (g *Game) Name() string {
	return "Premium Slots"
}

// EntryFee returns the bet debited on entry.
func (g *Game) EntryFee() int64 {
	return g.fee
}

// PremiumOnly reports that slots requires active premium.
func (g *Game) PremiumOnly() bool {
	return true
}

// Spin draws three symbols and computes the winnings.
func (g *Game) Spin(rng *rand.Rand, bet int64) *game.SpinResult {
	symbols := []string{
		Symbols[rng.Intn(len(Symbols))],
		Symbols[rng.Intn(len(Symbols))],
		Symbols[rng.Intn(len(Symbols))],
	}
	return &game.SpinResult{
		Symbols:  symbols,
		Winnings: Winnings(symbols, bet),
	}
}

// Winnings computes the payout for a drawn line:
// three-of-a-kind pays bet*10, upgraded to bet*20 for 💎 and bet*50 for
// 7️⃣; exactly two matching pays bet*2; otherwise the bet is lost.
func Winnings(symbols []string, bet int64) int64 {
	a, b, c := symbols[0], symbols[1], symbols[2]

	if a == b && b == c {
		switch a {
		case SymbolJackpot:
			return bet * JackpotMultiplier
		case SymbolHigh:
			return bet * HighMultiplier
		default:
			return bet * TripleMultiplier
		}
	}
	if a == b || b == c || a == c {
		return bet * PairMultiplier
	}
	return 0
}
