// Package models holds the persisted domain types.
package models

import "time"

// UserEntry is a single guestbook submission. At most one row exists
// per distinct Name (case-sensitive); re-submitting a name overwrites
// Quote and Advice and refreshes UpdatedAt.
type UserEntry struct {
	ID        int64
	Name      string
	Quote     string
	Advice    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
