package notify

import (
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/halcyon-app/tend/internal/models"
	"github.com/halcyon-app/tend/internal/timeutil"
)

// Platform is the OS-level notification service consumed by the
// scheduler. Implementations own the live list of scheduled reminders.
type Platform interface {
	// Schedule registers a reminder to fire at the specified instant and
	// returns its identifier. The trigger must be a future instant.
	Schedule(content models.ReminderContent, fireTime time.Time) (string, error)
	// Cancel removes a scheduled reminder. Cancelling an unknown
	// identifier is a no-op.
	Cancel(id string) error
	// CancelAll clears every scheduled reminder regardless of owner.
	CancelAll() error
	// ListScheduled returns the reminders currently pending delivery.
	ListScheduled() ([]models.Reminder, error)
	// RequestPermission asks the OS for notification permission and
	// reports whether it was granted.
	RequestPermission() (bool, error)
}

// DesktopOptions configures the desktop notification platform.
type DesktopOptions struct {
	// Sound is a path or bundled sound name played on delivery, subject
	// to the user's sound preference. Empty disables playback.
	Sound string
	// DeliveryCmd is an optional command executed after a reminder is
	// delivered.
	DeliveryCmd string
	// PlaySound gates sound playback.
	PlaySound bool
}

type pendingReminder struct {
	reminder models.Reminder
	timer    *time.Timer
}

// Desktop schedules reminders on in-process timers and delivers them as
// desktop notifications. Pending reminders do not survive a process
// restart; the session lifecycle manager reschedules them on startup.
type Desktop struct {
	mu      sync.Mutex
	pending map[string]pendingReminder
	opts    DesktopOptions
}

// NewDesktop returns a desktop-backed notification platform.
func NewDesktop(opts DesktopOptions) *Desktop {
	return &Desktop{
		pending: make(map[string]pendingReminder),
		opts:    opts,
	}
}

func (d *Desktop) Schedule(
	content models.ReminderContent,
	fireTime time.Time,
) (string, error) {
	if !fireTime.After(time.Now()) {
		return "", errPastTrigger
	}

	id := uuid.NewString()

	d.mu.Lock()
	defer d.mu.Unlock()

	timer := time.AfterFunc(time.Until(fireTime), func() {
		d.deliver(id)
	})

	d.pending[id] = pendingReminder{
		reminder: models.Reminder{
			ID:       id,
			Content:  content,
			FireTime: fireTime,
		},
		timer: timer,
	}

	return id, nil
}

func (d *Desktop) Cancel(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[id]
	if !ok {
		return nil
	}

	p.timer.Stop()
	delete(d.pending, id)

	return nil
}

func (d *Desktop) CancelAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, id)
	}

	return nil
}

func (d *Desktop) ListScheduled() ([]models.Reminder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	reminders := make([]models.Reminder, 0, len(d.pending))

	for _, p := range d.pending {
		reminders = append(reminders, p.reminder)
	}

	return reminders, nil
}

// RequestPermission always grants on desktop. The notification daemon
// may still refuse delivery, which surfaces as a delivery error.
func (d *Desktop) RequestPermission() (bool, error) {
	return true, nil
}

// deliver fires the reminder as a desktop notification. A fired reminder
// is removed from the pending list and is never resurrected.
func (d *Desktop) deliver(id string) {
	d.mu.Lock()

	p, ok := d.pending[id]
	if ok {
		delete(d.pending, id)
	}

	d.mu.Unlock()

	if !ok {
		return
	}

	content := p.reminder.Content

	title := "Coaching session in " + timeutil.FormatLead(
		content.MinutesBefore,
	)

	msg := content.Goal
	if msg == "" {
		msg = string(content.SessionType) + " session"
	}

	err := beeep.Notify(title, msg, "")
	if err != nil {
		slog.Error("unable to display notification",
			slog.String("session_id", content.SessionID),
			slog.Any("error", err),
		)
	}

	if d.opts.PlaySound && d.opts.Sound != "" {
		playSound(d.opts.Sound)
	}

	if err := d.runDeliveryCmd(); err != nil {
		slog.Error("delivery command failed", slog.Any("error", err))
	}
}

// runDeliveryCmd executes the configured post-delivery command.
func (d *Desktop) runDeliveryCmd() error {
	if d.opts.DeliveryCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(d.opts.DeliveryCmd)
	if err != nil {
		return errInvalidDeliveryCmd.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	cmd := exec.Command(name, args...)

	return cmd.Run()
}
