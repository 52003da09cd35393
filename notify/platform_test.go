package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/halcyon-app/tend/internal/models"
)

func desktopContent(sessionID string) models.ReminderContent {
	return models.ReminderContent{
		SessionID:     sessionID,
		SessionType:   models.Chat,
		Goal:          "Evening reflection",
		MinutesBefore: 30,
	}
}

func TestDesktopScheduleAndList(t *testing.T) {
	d := NewDesktop(DesktopOptions{})

	t.Cleanup(func() {
		_ = d.CancelAll()
	})

	fireTime := time.Now().Add(time.Hour)

	id, err := d.Schedule(desktopContent("sess-1"), fireTime)
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	reminders, err := d.ListScheduled()
	assert.NoError(t, err)
	assert.Len(t, reminders, 1)
	assert.Equal(t, id, reminders[0].ID)
	assert.True(t, reminders[0].FireTime.Equal(fireTime))
	assert.Equal(t, "sess-1", reminders[0].Content.SessionID)
}

func TestDesktopRejectsPastTrigger(t *testing.T) {
	d := NewDesktop(DesktopOptions{})

	_, err := d.Schedule(
		desktopContent("sess-1"), time.Now().Add(-time.Second),
	)
	assert.Error(t, err)
}

func TestDesktopCancel(t *testing.T) {
	d := NewDesktop(DesktopOptions{})

	t.Cleanup(func() {
		_ = d.CancelAll()
	})

	id, err := d.Schedule(
		desktopContent("sess-1"), time.Now().Add(time.Hour),
	)
	assert.NoError(t, err)

	assert.NoError(t, d.Cancel(id))

	reminders, err := d.ListScheduled()
	assert.NoError(t, err)
	assert.Empty(t, reminders)

	// cancelling an unknown identifier is a no-op
	assert.NoError(t, d.Cancel("missing"))
}

func TestDesktopCancelAll(t *testing.T) {
	d := NewDesktop(DesktopOptions{})

	for range 3 {
		_, err := d.Schedule(
			desktopContent("sess-1"), time.Now().Add(time.Hour),
		)
		assert.NoError(t, err)
	}

	assert.NoError(t, d.CancelAll())

	reminders, err := d.ListScheduled()
	assert.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestDesktopPermissionAlwaysGranted(t *testing.T) {
	d := NewDesktop(DesktopOptions{})

	granted, err := d.RequestPermission()
	assert.NoError(t, err)
	assert.True(t, granted)
}
