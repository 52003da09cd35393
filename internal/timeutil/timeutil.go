// Package timeutil provides utility functions for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"time"
)

const minutesInAnHour = 60

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// FormatLead renders a lead time in minutes as a short human string,
// e.g. "30m" or "1h30m".
func FormatLead(minutes int) string {
	hrs, mins := MinsToHoursAndMins(minutes)
	if hrs == 0 {
		return fmt.Sprintf("%dm", mins)
	}

	if mins == 0 {
		return fmt.Sprintf("%dh", hrs)
	}

	return fmt.Sprintf("%dh%dm", hrs, mins)
}

// SameDay reports whether two instants fall on the same calendar day in
// the first instant's location.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.In(a.Location()).Date()

	return y1 == y2 && m1 == m2 && d1 == d2
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// LeadOffset converts a minutes-before-session lead time to a negative
// duration offset from the session start.
func LeadOffset(minutesBefore int) time.Duration {
	return -time.Duration(minutesBefore) * time.Minute
}
