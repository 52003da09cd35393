package timeutil

import (
	"testing"
	"time"
)

func TestFormatLead(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{5, "5m"},
		{30, "30m"},
		{60, "1h"},
		{90, "1h30m"},
		{1440, "24h"},
	}

	for _, v := range cases {
		got := FormatLead(v.minutes)
		if got != v.want {
			t.Errorf(
				"Expected FormatLead(%d) to be: %s, but got: %s",
				v.minutes,
				v.want,
				got,
			)
		}
	}
}

func TestMinsToHoursAndMins(t *testing.T) {
	hrs, mins := MinsToHoursAndMins(95)
	if hrs != 1 || mins != 35 {
		t.Errorf("Expected 1h35m, but got: %dh%dm", hrs, mins)
	}
}

func TestSameDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)

	cases := []struct {
		name string
		a    time.Time
		b    time.Time
		want bool
	}{
		{
			name: "same day same zone",
			a:    time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "different days",
			a:    time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "same instant viewed from another zone",
			a:    time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 9, 2, 7, 0, 0, 0, loc),
			want: true,
		},
	}

	for _, v := range cases {
		t.Run(v.name, func(t *testing.T) {
			got := SameDay(v.a, v.b)
			if got != v.want {
				t.Errorf("Expected %v, but got: %v", v.want, got)
			}
		})
	}
}

func TestRoundToStartAndEnd(t *testing.T) {
	instant := time.Date(2026, 9, 1, 14, 45, 12, 0, time.UTC)

	start := RoundToStart(instant)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("Expected start of day, but got: %v", start)
	}

	end := RoundToEnd(instant)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("Expected end of day, but got: %v", end)
	}
}

func TestLeadOffset(t *testing.T) {
	sessionStart := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	fireTime := sessionStart.Add(LeadOffset(30))

	want := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	if !fireTime.Equal(want) {
		t.Errorf("Expected %v, but got: %v", want, fireTime)
	}
}
