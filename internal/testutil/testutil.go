// Package testutil provides shared test doubles.
package testutil

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/halcyon-app/tend/internal/models"
)

// ErrSaveFailed simulates a persistence I/O failure.
var ErrSaveFailed = errors.New("simulated save failure")

// MemStore is an in-memory store.Store implementation. Values round-trip
// through JSON so serialization behaves like the real bolt client.
type MemStore struct {
	mu        sync.Mutex
	data      map[string][]byte
	FailSaves bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		data: make(map[string][]byte),
	}
}

func (m *MemStore) SaveSessions(sessions []*models.Session) error {
	if m.FailSaves {
		return ErrSaveFailed
	}

	b, err := json.Marshal(sessions)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data["coaching_sessions"] = b

	return nil
}

func (m *MemStore) Sessions() ([]*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.data["coaching_sessions"]
	if !ok {
		return nil, nil
	}

	var sessions []*models.Session

	err := json.Unmarshal(b, &sessions)

	return sessions, err
}

func (m *MemStore) SavePreferences(prefs *models.Preferences) error {
	if m.FailSaves {
		return ErrSaveFailed
	}

	b, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data["notification_preferences"] = b

	return nil
}

func (m *MemStore) Preferences(dest *models.Preferences) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.data["notification_preferences"]
	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(b, dest)
}

// SetRawPreferences stores a preference object verbatim, so tests can
// simulate documents written by older app versions with missing keys.
func (m *MemStore) SetRawPreferences(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data["notification_preferences"] = []byte(raw)
}

func (m *MemStore) IncrementTotalSessions() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var data models.ActivityData

	if b, ok := m.data["userActivityData"]; ok {
		err := json.Unmarshal(b, &data)
		if err != nil {
			return 0, err
		}
	}

	data.TotalSessions++

	b, err := json.Marshal(&data)
	if err != nil {
		return 0, err
	}

	m.data["userActivityData"] = b

	return data.TotalSessions, nil
}

func (m *MemStore) ActivityData() (*models.ActivityData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var data models.ActivityData

	if b, ok := m.data["userActivityData"]; ok {
		err := json.Unmarshal(b, &data)
		if err != nil {
			return nil, err
		}
	}

	return &data, nil
}

func (m *MemStore) Open() error {
	return nil
}

func (m *MemStore) Close() error {
	return nil
}
