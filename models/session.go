package models

import "time"

// PersistedSession is the durable snapshot of an authenticated session. It is
// stored as plain text: non-confidential but integrity-sensitive, so a
// corrupt blob falls back to an anonymous session rather than a partial one.
type PersistedSession struct {
	Token    string    `json:"token"`
	Identity *Identity `json:"identity,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}
