package kv

import "fmt"

// Key layout of the record store.
const (
	KeyUser  = "user:%d"  // User record (JSON)
	KeyGame  = "game:%d"  // Active game session (JSON)
	KeyDaily = "daily:%d" // Last daily claim day marker (unix ms)

	PrefixUser = "user:"
)

// UserKey returns the record key for a user ID.
func UserKey(userID int64) string {
	return fmt.Sprintf(KeyUser, userID)
}

// GameKey returns the session key for a user ID.
func GameKey(userID int64) string {
	return fmt.Sprintf(KeyGame, userID)
}

// DailyKey returns the daily claim marker key for a user ID.
func DailyKey(userID int64) string {
	return fmt.Sprintf(KeyDaily, userID)
}
