// Package notify keeps the platform reminder set for each session
// consistent with the current notification preferences.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/halcyon-app/tend/config"
	"github.com/halcyon-app/tend/internal/models"
	"github.com/halcyon-app/tend/internal/timeutil"
	"github.com/halcyon-app/tend/store"
)

// Scheduler derives reminder fire times from sessions and the configured
// lead times, and registers them with the notification platform. Desired
// state is recomputed from the session and preferences on every call; the
// platform's live list is the only record of what currently exists.
type Scheduler struct {
	mu        sync.Mutex
	platform  Platform
	db        store.Store
	prefs     models.Preferences
	permitted bool
	// minLeadBuffer suppresses every reminder for a session starting
	// sooner than this from now, so a reminder cannot fire seconds
	// after the session was created.
	minLeadBuffer time.Duration
	now           func() time.Time
}

// NewScheduler constructs the process-wide scheduler. Persisted
// preferences are merged over the configured defaults so newly
// introduced keys pick up their default values. If notification
// permission is denied the scheduler is still usable, but scheduling
// operations become no-ops.
func NewScheduler(
	platform Platform,
	db store.Store,
	cfg *config.Config,
) (*Scheduler, error) {
	prefs := models.Preferences{
		Enabled:       cfg.Notifications.Enabled,
		ReminderTimes: cfg.Notifications.ReminderTimes,
		Sound:         cfg.Notifications.Sound != "",
		Vibration:     cfg.Notifications.Vibration,
	}

	found, err := db.Preferences(&prefs)
	if err != nil {
		return nil, err
	}

	if !found {
		slog.Info("no saved notification preferences, using defaults")
	}

	permitted, err := platform.RequestPermission()
	if err != nil {
		slog.Error("notification permission request failed",
			slog.Any("error", err),
		)

		permitted = false
	}

	if !permitted {
		slog.Warn("notification permission denied, reminders are disabled")
	}

	return &Scheduler{
		platform:      platform,
		db:            db,
		prefs:         prefs,
		permitted:     permitted,
		minLeadBuffer: cfg.Notifications.MinLeadBuffer,
		now:           time.Now,
	}, nil
}

// Permitted reports whether notification permission was granted at
// initialization.
func (s *Scheduler) Permitted() bool {
	return s.permitted
}

// Preferences returns a copy of the current notification preferences.
func (s *Scheduler) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.prefs
}

// UpdatePreferences merges the patch into the current preferences and
// persists the full merged object. Existing reminders are not
// rescheduled; callers needing that must re-invoke
// ScheduleSessionNotifications per affected session.
func (s *Scheduler) UpdatePreferences(
	patch models.PreferencesPatch,
) models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	patch.Apply(&s.prefs)

	prefs := s.prefs

	err := s.db.SavePreferences(&prefs)
	if err != nil {
		// the in-memory update stands even when persistence fails
		slog.Error("unable to persist notification preferences",
			slog.Any("error", err),
		)
	}

	return prefs
}

// ScheduleSessionNotifications replaces the reminder set for the session
// with one derived from the current preferences. One reminder is
// registered per lead time whose fire instant is still in the future.
// Calling it repeatedly is safe: existing reminders for the session are
// cancelled before any new ones are registered, so no duplicates accrue.
func (s *Scheduler) ScheduleSessionNotifications(sess *models.Session) error {
	s.mu.Lock()
	prefs := s.prefs
	s.mu.Unlock()

	if !prefs.Enabled {
		return nil
	}

	if !s.permitted {
		return nil
	}

	now := s.now()

	if !sess.FullDate.After(now) {
		// session already started or passed
		return nil
	}

	if sess.FullDate.Sub(now) < s.minLeadBuffer {
		slog.Info("session starts within the lead buffer, skipping reminders",
			slog.String("session_id", sess.ID),
		)

		return nil
	}

	err := s.CancelSessionNotifications(sess.ID)
	if err != nil {
		return err
	}

	for _, minutesBefore := range prefs.ReminderTimes {
		if minutesBefore <= 0 {
			slog.Warn("ignoring non-positive reminder lead time",
				slog.Int("minutes_before", minutesBefore),
			)

			continue
		}

		fireTime := sess.FullDate.Add(timeutil.LeadOffset(minutesBefore))
		if !fireTime.After(now) {
			continue
		}

		content := models.ReminderContent{
			SessionID:     sess.ID,
			SessionType:   sess.Type,
			Goal:          sess.Goal,
			MinutesBefore: minutesBefore,
		}

		_, err := s.platform.Schedule(content, fireTime)
		if err != nil {
			// a rejected trigger must not sink the rest of the batch
			slog.Error("unable to schedule reminder",
				slog.String("session_id", sess.ID),
				slog.Int("minutes_before", minutesBefore),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// CancelSessionNotifications cancels every scheduled reminder tagged
// with the session id. Zero matches is a no-op, not an error.
func (s *Scheduler) CancelSessionNotifications(sessionID string) error {
	reminders, err := s.platform.ListScheduled()
	if err != nil {
		return err
	}

	for _, r := range reminders {
		if r.Content.SessionID != sessionID {
			continue
		}

		err := s.platform.Cancel(r.ID)
		if err != nil {
			slog.Error("unable to cancel reminder",
				slog.String("reminder_id", r.ID),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// CancelAllNotifications clears every reminder regardless of owner.
func (s *Scheduler) CancelAllNotifications() error {
	return s.platform.CancelAll()
}

// ScheduledNotifications returns the platform's live reminder list. The
// result always reflects current platform state; nothing is cached.
func (s *Scheduler) ScheduledNotifications() ([]models.Reminder, error) {
	return s.platform.ListScheduled()
}
