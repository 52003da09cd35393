package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/halcyon-app/tend/internal/models"
	"github.com/halcyon-app/tend/store"
)

func newTestClient(t *testing.T) *store.Client {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tend.db")

	client, err := store.NewClient(dbPath)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestSessionsRoundTrip(t *testing.T) {
	client := newTestClient(t)

	loc := time.FixedZone("UTC+2", 2*60*60)

	sessions := []*models.Session{
		{
			ID:          "a",
			Goal:        "Morning check-in",
			Type:        models.Call,
			Recurring:   models.RecurWeekly,
			FullDate:    time.Date(2026, 9, 3, 9, 30, 0, 0, loc),
			DisplayTime: "Thu, Sep 3 at 9:30 AM",
			Status:      models.StatusUpcoming,
			CreatedAt:   time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "b",
			Goal:      "Evening reflection",
			Type:      models.Chat,
			Recurring: models.RecurNone,
			FullDate:  time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC),
			Status:    models.StatusCompleted,
			CreatedAt: time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC),
		},
	}

	err := client.SaveSessions(sessions)
	assert.NoError(t, err)

	loaded, err := client.Sessions()
	assert.NoError(t, err)
	assert.Len(t, loaded, 2)

	for i, want := range sessions {
		got := loaded[i]

		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Status, got.Status)
		assert.True(t, want.FullDate.Equal(got.FullDate),
			"FullDate mismatch: %s vs %s", want.FullDate, got.FullDate)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt),
			"CreatedAt mismatch: %s vs %s", want.CreatedAt, got.CreatedAt)
	}
}

func TestSessionsEmpty(t *testing.T) {
	client := newTestClient(t)

	loaded, err := client.Sessions()
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPreferencesMergeOverDefaults(t *testing.T) {
	client := newTestClient(t)

	defaults := models.Preferences{
		Enabled:       true,
		ReminderTimes: []int{30},
		Sound:         true,
		Vibration:     true,
	}

	// nothing saved yet: defaults untouched
	prefs := defaults

	found, err := client.Preferences(&prefs)
	assert.NoError(t, err)
	assert.False(t, found)

	if diff := cmp.Diff(defaults, prefs); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}

	saved := models.Preferences{
		Enabled:       false,
		ReminderTimes: []int{15, 60},
		Sound:         false,
		Vibration:     true,
	}

	err = client.SavePreferences(&saved)
	assert.NoError(t, err)

	prefs = defaults

	found, err = client.Preferences(&prefs)
	assert.NoError(t, err)
	assert.True(t, found)

	if diff := cmp.Diff(saved, prefs); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestNewClientSecondInstance(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tend.db")

	first, err := store.NewClient(dbPath)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	defer first.Close()

	// the file lock held by the first client surfaces as a timeout
	_, err = store.NewClient(dbPath)
	assert.ErrorContains(t, err, "already running")
}

func TestIncrementTotalSessions(t *testing.T) {
	client := newTestClient(t)

	data, err := client.ActivityData()
	assert.NoError(t, err)
	assert.Equal(t, 0, data.TotalSessions)

	total, err := client.IncrementTotalSessions()
	assert.NoError(t, err)
	assert.Equal(t, 1, total)

	total, err = client.IncrementTotalSessions()
	assert.NoError(t, err)
	assert.Equal(t, 2, total)

	data, err = client.ActivityData()
	assert.NoError(t, err)
	assert.Equal(t, 2, data.TotalSessions)
}
