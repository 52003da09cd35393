package session

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"github.com/halcyon-app/tend/internal/models"
)

// Status is a point-in-time summary of the engine, written to the status
// file by the watch loop so other invocations can report on it without
// opening the database.
type Status struct {
	UpdatedAt   time.Time       `json:"updated_at"`
	NextSession *models.Session `json:"next_session,omitempty"`
	Upcoming    int             `json:"upcoming"`
	Completed   int             `json:"completed"`
	Pending     int             `json:"pending_reminders"`
}

// Status summarizes the current collection.
func (m *Manager) Status(pendingReminders int) Status {
	upcoming := m.UpcomingSessions()
	completed := m.CompletedSessions()

	s := Status{
		UpdatedAt: m.now(),
		Upcoming:  len(upcoming),
		Completed: len(completed),
		Pending:   pendingReminders,
	}

	if len(upcoming) > 0 {
		s.NextSession = upcoming[0]
	}

	return s
}

// WriteStatusFile saves the status summary for consumption by the
// status command.
func (m *Manager) WriteStatusFile(
	path string,
	pendingReminders int,
) (err error) {
	s := m.Status(pendingReminders)

	statusFile, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		ferr := statusFile.Close()
		if ferr != nil {
			err = ferr
		}
	}()

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(statusFile)

	_, err = writer.Write(b)
	if err != nil {
		return err
	}

	return writer.Flush()
}

// ReadStatusFile loads a previously written status summary. A missing
// file returns nil without an error.
func ReadStatusFile(path string) (*Status, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		// missing file should not return an error
		return nil, nil
	}

	var s Status

	err = json.Unmarshal(fileBytes, &s)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
