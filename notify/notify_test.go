package notify

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/halcyon-app/tend/config"
	"github.com/halcyon-app/tend/internal/models"
	"github.com/halcyon-app/tend/internal/testutil"
)

// fakePlatform is an in-memory Platform with scriptable failures.
type fakePlatform struct {
	mu             sync.Mutex
	scheduled      map[string]models.Reminder
	nextID         int
	denyPermission bool
	failLeads      map[int]bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		scheduled: make(map[string]models.Reminder),
		failLeads: make(map[int]bool),
	}
}

func (f *fakePlatform) Schedule(
	content models.ReminderContent,
	fireTime time.Time,
) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failLeads[content.MinutesBefore] {
		return "", fmt.Errorf("platform rejected trigger")
	}

	f.nextID++
	id := fmt.Sprintf("reminder-%d", f.nextID)

	f.scheduled[id] = models.Reminder{
		ID:       id,
		Content:  content,
		FireTime: fireTime,
	}

	return id, nil
}

func (f *fakePlatform) Cancel(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.scheduled, id)

	return nil
}

func (f *fakePlatform) CancelAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scheduled = make(map[string]models.Reminder)

	return nil
}

func (f *fakePlatform) ListScheduled() ([]models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reminders := make([]models.Reminder, 0, len(f.scheduled))
	for _, r := range f.scheduled {
		reminders = append(reminders, r)
	}

	return reminders, nil
}

func (f *fakePlatform) RequestPermission() (bool, error) {
	return !f.denyPermission, nil
}

func (f *fakePlatform) forSession(sessionID string) []models.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []models.Reminder

	for _, r := range f.scheduled {
		if r.Content.SessionID == sessionID {
			result = append(result, r)
		}
	}

	return result
}

func testConfig(leads ...int) *config.Config {
	if len(leads) == 0 {
		leads = []int{30}
	}

	return &config.Config{
		Notifications: config.NotificationConfig{
			Enabled:       true,
			ReminderTimes: leads,
			MinLeadBuffer: 5 * time.Minute,
		},
	}
}

func newTestScheduler(
	t *testing.T,
	platform Platform,
	db *testutil.MemStore,
	cfg *config.Config,
	now time.Time,
) *Scheduler {
	t.Helper()

	s, err := NewScheduler(platform, db, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	s.now = func() time.Time { return now }

	return s
}

func sessionAt(fullDate time.Time) *models.Session {
	return &models.Session{
		ID:       "sess-1",
		Goal:     "Morning check-in",
		Type:     models.Call,
		FullDate: fullDate,
		Status:   models.StatusUpcoming,
	}
}

func TestScheduleIsIdempotent(t *testing.T) {
	now := time.Now()
	platform := newFakePlatform()
	s := newTestScheduler(
		t, platform, testutil.NewMemStore(), testConfig(30, 60), now,
	)

	sess := sessionAt(now.Add(2 * time.Hour))

	err := s.ScheduleSessionNotifications(sess)
	assert.NoError(t, err)

	once := len(platform.forSession(sess.ID))

	err = s.ScheduleSessionNotifications(sess)
	assert.NoError(t, err)

	assert.Equal(t, 2, once)
	assert.Len(t, platform.forSession(sess.ID), once)
}

func TestScheduleLeadTimes(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name     string
		fullDate time.Time
		leads    []int
		want     int
	}{
		{
			name:     "single lead fits",
			fullDate: now.Add(40 * time.Minute),
			leads:    []int{30},
			want:     1,
		},
		{
			name:     "inside the lead buffer",
			fullDate: now.Add(3 * time.Minute),
			leads:    []int{1},
			want:     0,
		},
		{
			name:     "session already passed",
			fullDate: now.Add(-time.Minute),
			leads:    []int{30},
			want:     0,
		},
		{
			name:     "elapsed lead times skipped silently",
			fullDate: now.Add(20 * time.Minute),
			leads:    []int{30, 10},
			want:     1,
		},
		{
			name:     "non-positive lead times ignored",
			fullDate: now.Add(time.Hour),
			leads:    []int{0, -5, 15},
			want:     1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			platform := newFakePlatform()
			s := newTestScheduler(
				t, platform, testutil.NewMemStore(), testConfig(tc.leads...), now,
			)

			sess := sessionAt(tc.fullDate)

			err := s.ScheduleSessionNotifications(sess)
			assert.NoError(t, err)

			assert.Len(t, platform.forSession(sess.ID), tc.want)
		})
	}
}

func TestScheduleFireTimeAndPayload(t *testing.T) {
	now := time.Now()
	platform := newFakePlatform()
	s := newTestScheduler(
		t, platform, testutil.NewMemStore(), testConfig(30), now,
	)

	sess := sessionAt(now.Add(40 * time.Minute))

	err := s.ScheduleSessionNotifications(sess)
	assert.NoError(t, err)

	reminders := platform.forSession(sess.ID)
	assert.Len(t, reminders, 1)

	r := reminders[0]
	assert.True(t, r.FireTime.Equal(now.Add(10*time.Minute)))
	assert.Equal(t, sess.ID, r.Content.SessionID)
	assert.Equal(t, models.Call, r.Content.SessionType)
	assert.Equal(t, "Morning check-in", r.Content.Goal)
	assert.Equal(t, 30, r.Content.MinutesBefore)
}

func TestScheduleDisabledPreferences(t *testing.T) {
	now := time.Now()
	platform := newFakePlatform()

	cfg := testConfig(30)
	cfg.Notifications.Enabled = false

	s := newTestScheduler(t, platform, testutil.NewMemStore(), cfg, now)

	err := s.ScheduleSessionNotifications(sessionAt(now.Add(time.Hour)))
	assert.NoError(t, err)

	assert.Empty(t, platform.scheduled)
}

func TestSchedulePermissionDenied(t *testing.T) {
	now := time.Now()
	platform := newFakePlatform()
	platform.denyPermission = true

	s := newTestScheduler(
		t, platform, testutil.NewMemStore(), testConfig(30), now,
	)

	assert.False(t, s.Permitted())

	err := s.ScheduleSessionNotifications(sessionAt(now.Add(time.Hour)))
	assert.NoError(t, err)

	assert.Empty(t, platform.scheduled)
}

func TestScheduleRejectedTriggerDoesNotAbortBatch(t *testing.T) {
	now := time.Now()
	platform := newFakePlatform()
	platform.failLeads[60] = true

	s := newTestScheduler(
		t, platform, testutil.NewMemStore(), testConfig(60, 30), now,
	)

	sess := sessionAt(now.Add(2 * time.Hour))

	err := s.ScheduleSessionNotifications(sess)
	assert.NoError(t, err)

	reminders := platform.forSession(sess.ID)
	assert.Len(t, reminders, 1)
	assert.Equal(t, 30, reminders[0].Content.MinutesBefore)
}

func TestCancelSessionNotifications(t *testing.T) {
	now := time.Now()
	platform := newFakePlatform()
	s := newTestScheduler(
		t, platform, testutil.NewMemStore(), testConfig(30, 60), now,
	)

	first := sessionAt(now.Add(2 * time.Hour))

	second := sessionAt(now.Add(3 * time.Hour))
	second.ID = "sess-2"

	assert.NoError(t, s.ScheduleSessionNotifications(first))
	assert.NoError(t, s.ScheduleSessionNotifications(second))

	err := s.CancelSessionNotifications(first.ID)
	assert.NoError(t, err)

	assert.Empty(t, platform.forSession(first.ID))
	assert.Len(t, platform.forSession(second.ID), 2)

	// cancelling with no matches is a no-op
	err = s.CancelSessionNotifications("missing")
	assert.NoError(t, err)
}

func TestCancelAllNotifications(t *testing.T) {
	now := time.Now()
	platform := newFakePlatform()
	s := newTestScheduler(
		t, platform, testutil.NewMemStore(), testConfig(30), now,
	)

	assert.NoError(t, s.ScheduleSessionNotifications(
		sessionAt(now.Add(2*time.Hour)),
	))

	err := s.CancelAllNotifications()
	assert.NoError(t, err)

	reminders, err := s.ScheduledNotifications()
	assert.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestUpdatePreferencesMergesAndPersists(t *testing.T) {
	now := time.Now()
	platform := newFakePlatform()
	db := testutil.NewMemStore()
	s := newTestScheduler(t, platform, db, testConfig(30), now)

	enabled := false
	prefs := s.UpdatePreferences(models.PreferencesPatch{
		Enabled:       &enabled,
		ReminderTimes: []int{15, 45},
	})

	assert.False(t, prefs.Enabled)
	assert.Equal(t, []int{15, 45}, prefs.ReminderTimes)

	// the full merged object is persisted, not a delta
	var stored models.Preferences

	found, err := db.Preferences(&stored)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, prefs, stored)

	// disabled preferences suppress future scheduling
	err = s.ScheduleSessionNotifications(sessionAt(now.Add(time.Hour)))
	assert.NoError(t, err)
	assert.Empty(t, platform.scheduled)
}

func TestPreferencesMergeOverDefaults(t *testing.T) {
	now := time.Now()
	db := testutil.NewMemStore()

	// a preference object written before reminder_times existed
	db.SetRawPreferences(`{"enabled":false}`)

	s := newTestScheduler(t, newFakePlatform(), db, testConfig(30), now)

	prefs := s.Preferences()
	assert.False(t, prefs.Enabled)
	assert.Equal(t, []int{30}, prefs.ReminderTimes)
}

func TestUpdatePreferencesKeepsInMemoryOnSaveFailure(t *testing.T) {
	now := time.Now()
	db := testutil.NewMemStore()
	s := newTestScheduler(t, newFakePlatform(), db, testConfig(30), now)

	db.FailSaves = true

	enabled := false
	prefs := s.UpdatePreferences(models.PreferencesPatch{Enabled: &enabled})

	assert.False(t, prefs.Enabled)
	assert.False(t, s.Preferences().Enabled)
}
