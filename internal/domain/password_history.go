package domain

import "time"

// PasswordHistoryEntry is an append-only record of a retired password hash,
// kept only for reuse-prevention checks. At most the 5 most recent entries
// are retained per user.
type PasswordHistoryEntry struct {
	ID           string
	UserID       string
	PasswordHash string
	CreatedAt    time.Time
}

// PasswordHistoryLimit is the number of prior hashes retained per user.
const PasswordHistoryLimit = 5
