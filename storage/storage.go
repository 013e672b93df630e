// File: hotelier/storage/storage.go
package storage

import "errors"

// Store is the durable key/blob collaborator used for the session token, the
// booking draft and UI preferences. Implementations must treat a corrupt or
// unreadable value as absent so consumers can fail safe to an empty state.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// ErrNotFound is returned by Load when no value exists under the key.
var ErrNotFound = errors.New("storage: key not found")

// Reserved keys.
const (
	KeySession     = "session"
	KeyDraft       = "booking_draft"
	KeyPreferences = "preferences"
)
