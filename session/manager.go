// Package session owns the canonical coaching-session collection, its
// state transitions, and the periodic reconciliation of stale entries.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halcyon-app/tend/config"
	"github.com/halcyon-app/tend/internal/models"
	"github.com/halcyon-app/tend/store"
)

// ReminderScheduler maintains the reminder set for a session. Satisfied
// by *notify.Scheduler.
type ReminderScheduler interface {
	ScheduleSessionNotifications(sess *models.Session) error
	CancelSessionNotifications(sessionID string) error
}

// ActivityCounter records lifetime usage. Satisfied by *store.Client.
type ActivityCounter interface {
	IncrementTotalSessions() (int, error)
}

// Draft holds the caller-supplied fields of a new session. The id,
// status, and creation timestamp are assigned by the manager.
type Draft struct {
	Goal        string
	Type        models.SessionType
	Recurring   models.Recurrence
	FullDate    time.Time
	DisplayTime string
}

// Manager is the single source of truth for the session collection. All
// mutations persist the full collection and feed the reconciliation
// pass, so the persisted and in-memory views never drift for long.
type Manager struct {
	mu        sync.Mutex
	db        store.Store
	scheduler ReminderScheduler
	activity  ActivityCounter
	sessions  []*models.Session
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

// NewManager loads the persisted session collection and returns the
// lifecycle manager.
func NewManager(
	db store.Store,
	scheduler ReminderScheduler,
	activity ActivityCounter,
	cfg *config.Config,
) (*Manager, error) {
	sessions, err := db.Sessions()
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:        db,
		scheduler: scheduler,
		activity:  activity,
		sessions:  sessions,
		retention: time.Duration(cfg.Retention.Days) * 24 * time.Hour,
		interval:  cfg.Retention.CleanupInterval,
		now:       time.Now,
	}, nil
}

// AddSession creates a new upcoming session, persists the collection,
// and registers its reminders. A scheduling failure never rolls back the
// session; it is logged and the session stays.
func (m *Manager) AddSession(draft Draft) (*models.Session, error) {
	sess := &models.Session{
		ID:          uuid.NewString(),
		Goal:        draft.Goal,
		Type:        draft.Type,
		Recurring:   draft.Recurring,
		FullDate:    draft.FullDate,
		DisplayTime: draft.DisplayTime,
		Status:      models.StatusUpcoming,
		CreatedAt:   m.now(),
	}

	m.mu.Lock()
	m.sessions = append(m.sessions, sess)
	m.persistLocked()
	m.mu.Unlock()

	err := m.scheduler.ScheduleSessionNotifications(sess)
	if err != nil {
		slog.Error("unable to schedule session reminders",
			slog.String("session_id", sess.ID),
			slog.Any("error", err),
		)
	}

	m.reconcile()

	return sess, nil
}

// DeleteSession removes the session and cancels its reminders. An
// unknown id is a no-op. A cancellation failure is logged and does not
// block the deletion.
func (m *Manager) DeleteSession(id string) error {
	m.mu.Lock()

	found := false

	for i, sess := range m.sessions {
		if sess.ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			found = true

			break
		}
	}

	if found {
		m.persistLocked()
	}

	m.mu.Unlock()

	if !found {
		return nil
	}

	err := m.scheduler.CancelSessionNotifications(id)
	if err != nil {
		slog.Error("unable to cancel session reminders",
			slog.String("session_id", id),
			slog.Any("error", err),
		)
	}

	m.reconcile()

	return nil
}

// UpdateSession shallow-merges the patch into the matching session and
// persists. Reminders are not rescheduled here: callers that change
// FullDate must re-invoke the scheduler themselves. An unknown id is a
// no-op and returns nil.
func (m *Manager) UpdateSession(
	id string,
	patch models.SessionPatch,
) (*models.Session, error) {
	m.mu.Lock()

	var updated *models.Session

	for _, sess := range m.sessions {
		if sess.ID == id {
			patch.Apply(sess)

			updated = sess

			break
		}
	}

	if updated != nil {
		m.persistLocked()
	}

	m.mu.Unlock()

	if updated != nil {
		m.reconcile()
	}

	return updated, nil
}

// CancelSession marks an upcoming session cancelled without removing
// it, and cancels its reminders. Completed and already-cancelled
// sessions are terminal, so the call is a no-op for them. Cancelled
// sessions never advance the activity counter and are pruned by the
// same retention cutoff as completed ones.
func (m *Manager) CancelSession(id string) error {
	m.mu.Lock()

	var cancelled *models.Session

	for _, sess := range m.sessions {
		if sess.ID == id {
			if sess.Status != models.StatusUpcoming {
				break
			}

			sess.Status = models.StatusCancelled
			cancelled = sess

			break
		}
	}

	if cancelled != nil {
		m.persistLocked()
	}

	m.mu.Unlock()

	if cancelled == nil {
		return nil
	}

	err := m.scheduler.CancelSessionNotifications(id)
	if err != nil {
		slog.Error("unable to cancel session reminders",
			slog.String("session_id", id),
			slog.Any("error", err),
		)
	}

	m.reconcile()

	return nil
}

// UpcomingSessions returns the sessions still pending, soonest first.
// The result is recomputed on every call.
func (m *Manager) UpcomingSessions() []*models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	var result []*models.Session

	for _, sess := range m.sessions {
		if sess.Upcoming(now) {
			result = append(result, sess)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].FullDate.Equal(result[j].FullDate) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}

		return result[i].FullDate.Before(result[j].FullDate)
	})

	return result
}

// CompletedSessions returns finished sessions, most recent first.
// Sessions whose start instant has passed but which the reconciliation
// pass has not yet flipped are included, so the UI stays responsive
// between passes.
func (m *Manager) CompletedSessions() []*models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	var result []*models.Session

	for _, sess := range m.sessions {
		if sess.Status == models.StatusCompleted ||
			(sess.Status == models.StatusUpcoming && sess.Elapsed(now)) {
			result = append(result, sess)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].FullDate.Equal(result[j].FullDate) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}

		return result[i].FullDate.After(result[j].FullDate)
	})

	return result
}

// CleanupOldSessions runs one reconciliation pass: elapsed upcoming
// sessions become completed, and completed or cancelled sessions older
// than the retention cutoff are dropped permanently. The pass computes a
// full new snapshot under the lock before swapping it in, so two
// back-to-back passes cannot double-apply a transition. The activity
// counter advances exactly once per session's flip into completed; the
// flip itself is the de-dupe guard, since a session only transitions
// once before being retained as completed or pruned.
func (m *Manager) CleanupOldSessions() error {
	m.mu.Lock()

	now := m.now()
	cutoff := now.Add(-m.retention)

	var (
		newlyCompleted []*models.Session
		retained       = make([]*models.Session, 0, len(m.sessions))
		changed        bool
	)

	for _, sess := range m.sessions {
		next := *sess

		if next.Status == models.StatusUpcoming && next.Elapsed(now) {
			next.Status = models.StatusCompleted
			newlyCompleted = append(newlyCompleted, &next)
			changed = true
		}

		switch {
		case next.Status == models.StatusUpcoming && next.FullDate.After(now):
			retained = append(retained, &next)
		case next.Status != models.StatusUpcoming && next.FullDate.After(cutoff):
			retained = append(retained, &next)
		default:
			changed = true
		}
	}

	if changed {
		m.sessions = retained
		m.persistLocked()
	}

	m.mu.Unlock()

	for _, sess := range newlyCompleted {
		total, err := m.activity.IncrementTotalSessions()
		if err != nil {
			slog.Error("unable to increment activity counter",
				slog.String("session_id", sess.ID),
				slog.Any("error", err),
			)

			continue
		}

		slog.Info("session completed",
			slog.String("session_id", sess.ID),
			slog.Int("total_sessions", total),
		)
	}

	return nil
}

// RescheduleAll re-registers reminders for every pending session. Used
// on process start since desktop reminders do not survive a restart, and
// after preference changes that affect lead times.
func (m *Manager) RescheduleAll() {
	for _, sess := range m.UpcomingSessions() {
		err := m.scheduler.ScheduleSessionNotifications(sess)
		if err != nil {
			slog.Error("unable to schedule session reminders",
				slog.String("session_id", sess.ID),
				slog.Any("error", err),
			)
		}
	}
}

// Run drives the periodic reconciliation pass until the context is
// cancelled. It is a safety net for the reactive pass that follows every
// mutation; both paths feed the same idempotent algorithm.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := m.CleanupOldSessions()
			if err != nil {
				slog.Error("reconciliation pass failed",
					slog.Any("error", err),
				)
			}
		}
	}
}

// reconcile is the reactive cleanup trigger invoked after every
// collection change.
func (m *Manager) reconcile() {
	err := m.CleanupOldSessions()
	if err != nil {
		slog.Error("reconciliation pass failed", slog.Any("error", err))
	}
}

// persistLocked writes the full collection to the store. Persistence
// failures are logged only; the in-memory effect stands.
func (m *Manager) persistLocked() {
	err := m.db.SaveSessions(m.sessions)
	if err != nil {
		slog.Error("unable to persist sessions", slog.Any("error", err))
	}
}
