package store

import (
	"github.com/halcyon-app/tend/internal/models"
)

// Store is the persistence interface for the session collection,
// notification preferences, and usage counters.
type Store interface {
	// SaveSessions overwrites the entire persisted session collection.
	// The full collection is written on every mutation, not deltas.
	SaveSessions(sessions []*models.Session) error
	// Sessions returns the persisted session collection.
	Sessions() ([]*models.Session, error)
	// SavePreferences overwrites the persisted notification preferences.
	SavePreferences(prefs *models.Preferences) error
	// Preferences merges the persisted preferences into dest and reports
	// whether any were found. Keys absent from the stored object keep
	// the values dest already carries, so callers can pass defaults.
	Preferences(dest *models.Preferences) (bool, error)
	// IncrementTotalSessions advances the lifetime completed-session
	// counter by one and returns the new total.
	IncrementTotalSessions() (int, error)
	// ActivityData returns the stored usage counters.
	ActivityData() (*models.ActivityData, error)
	// Close ends the database connection.
	Close() error
	// Open begins a database connection.
	Open() error
}
