package repositories

import (
	"errors"

	"github.com/statusarea/presenced/internal/models"
)

var ErrNotFound = errors.New("not found")

// PersistedProfile is one stored user-profile group. Built-in profiles are
// never persisted.
type PersistedProfile struct {
	Name            string
	Icon            string
	DefaultPresence string
	// Accounts maps account id to the stored presence keyword.
	Accounts map[string]string
}

// PersistedState is the logical content of the state file: the General group
// plus one group per user profile, in stored order.
type PersistedState struct {
	ActiveProfile int
	LocationLevel models.LocationLevel
	// StatusMessage is the user's custom message. HasStatusMessage
	// distinguishes "no custom message" from an empty one.
	StatusMessage    string
	HasStatusMessage bool
	Profiles         []PersistedProfile
}

// StateRepository loads and stores the engine's persisted state. Save is
// best-effort from the engine's point of view: in-memory state stays
// authoritative when a write fails.
type StateRepository interface {
	Load() (*PersistedState, error)
	Save(state *PersistedState) error
}
