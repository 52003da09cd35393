// Package models defines the data types shared across the tend engine.
package models

import "time"

// SessionType indicates how a coaching session is conducted.
type SessionType string

const (
	Call SessionType = "call"
	Chat SessionType = "chat"
)

// Recurrence describes how often a session repeats. It is informational
// only: tend tracks single occurrences and never expands a recurrence
// into multiple session instances.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Session represents a single scheduled coaching session.
type Session struct {
	ID        string      `json:"id"`
	Goal      string      `json:"goal"`
	Type      SessionType `json:"sessionType"`
	Recurring Recurrence  `json:"recurring"`
	// FullDate is the authoritative session start instant.
	FullDate time.Time `json:"fullDate"`
	// DisplayTime is a precomputed human-readable time string. It is
	// derived upstream and stored verbatim, never recomputed here.
	DisplayTime string    `json:"displayTime"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Upcoming reports whether the session is still pending relative to now.
func (s *Session) Upcoming(now time.Time) bool {
	return s.Status == StatusUpcoming && s.FullDate.After(now)
}

// Elapsed reports whether the session's start instant has passed.
func (s *Session) Elapsed(now time.Time) bool {
	return s.FullDate.Before(now)
}

// SessionPatch holds partial updates to a session. Nil fields are left
// untouched by a merge.
type SessionPatch struct {
	Goal        *string      `json:"goal,omitempty"`
	Type        *SessionType `json:"sessionType,omitempty"`
	Recurring   *Recurrence  `json:"recurring,omitempty"`
	FullDate    *time.Time   `json:"fullDate,omitempty"`
	DisplayTime *string      `json:"displayTime,omitempty"`
	Status      *Status      `json:"status,omitempty"`
}

// Apply merges the patch into the session.
func (p *SessionPatch) Apply(s *Session) {
	if p.Goal != nil {
		s.Goal = *p.Goal
	}

	if p.Type != nil {
		s.Type = *p.Type
	}

	if p.Recurring != nil {
		s.Recurring = *p.Recurring
	}

	if p.FullDate != nil {
		s.FullDate = *p.FullDate
	}

	if p.DisplayTime != nil {
		s.DisplayTime = *p.DisplayTime
	}

	if p.Status != nil {
		s.Status = *p.Status
	}
}

// Preferences holds the persisted, process-wide notification settings.
type Preferences struct {
	// Enabled is the master switch. When false no new reminders are
	// created, but previously scheduled ones are not revoked implicitly.
	Enabled bool `json:"enabled"`
	// ReminderTimes lists lead times in minutes before the session start.
	ReminderTimes []int `json:"reminderTimes"`
	Sound         bool  `json:"sound"`
	Vibration     bool  `json:"vibration"`
}

// PreferencesPatch holds partial updates to notification preferences.
type PreferencesPatch struct {
	Enabled       *bool `json:"enabled,omitempty"`
	ReminderTimes []int `json:"reminderTimes,omitempty"`
	Sound         *bool `json:"sound,omitempty"`
	Vibration     *bool `json:"vibration,omitempty"`
}

// Apply merges the patch into the preferences.
func (p *PreferencesPatch) Apply(prefs *Preferences) {
	if p.Enabled != nil {
		prefs.Enabled = *p.Enabled
	}

	if p.ReminderTimes != nil {
		prefs.ReminderTimes = p.ReminderTimes
	}

	if p.Sound != nil {
		prefs.Sound = *p.Sound
	}

	if p.Vibration != nil {
		prefs.Vibration = *p.Vibration
	}
}

// ReminderContent is the payload attached to a scheduled reminder so a
// delivered notification can be routed back to its session.
type ReminderContent struct {
	SessionID     string      `json:"sessionId"`
	SessionType   SessionType `json:"sessionType"`
	Goal          string      `json:"goal"`
	MinutesBefore int         `json:"minutesBefore"`
}

// Reminder is a notification registered with the platform. The platform's
// live list is the source of truth; tend never persists these.
type Reminder struct {
	ID       string          `json:"id"`
	Content  ReminderContent `json:"content"`
	FireTime time.Time       `json:"fireTime"`
}

// ActivityData tracks lifetime usage counters.
type ActivityData struct {
	TotalSessions int `json:"totalSessions"`
}
