package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/markusmobius/go-dateparser"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/halcyon-app/tend/config"
	"github.com/halcyon-app/tend/internal/models"
	"github.com/halcyon-app/tend/internal/pathutil"
	"github.com/halcyon-app/tend/internal/timeutil"
	"github.com/halcyon-app/tend/internal/ui"
	"github.com/halcyon-app/tend/notify"
	"github.com/halcyon-app/tend/session"
	"github.com/halcyon-app/tend/store"
)

const displayTimeFormat = "Mon, Jan 2 at 3:04 PM"

// engine bundles the collaborators behind the CLI commands.
type engine struct {
	cfg       *config.Config
	db        *store.Client
	scheduler *notify.Scheduler
	manager   *session.Manager
}

func newEngine() (*engine, error) {
	cfg, err := config.New(
		config.WithViperConfig(pathutil.ConfigFilePath()),
	)
	if err != nil {
		return nil, err
	}

	db, err := store.NewClient(pathutil.DBFilePath())
	if err != nil {
		return nil, err
	}

	// read the sound preference ahead of scheduler construction so the
	// platform honors it from the first delivery
	prefs := models.Preferences{Sound: cfg.Notifications.Sound != ""}

	_, err = db.Preferences(&prefs)
	if err != nil {
		return nil, err
	}

	platform := notify.NewDesktop(notify.DesktopOptions{
		Sound:       cfg.Notifications.Sound,
		PlaySound:   prefs.Sound,
		DeliveryCmd: cfg.System.DeliveryCmd,
	})

	scheduler, err := notify.NewScheduler(platform, db, cfg)
	if err != nil {
		return nil, err
	}

	manager, err := session.NewManager(db, scheduler, db, cfg)
	if err != nil {
		return nil, err
	}

	return &engine{
		cfg:       cfg,
		db:        db,
		scheduler: scheduler,
		manager:   manager,
	}, nil
}

func (e *engine) close() {
	err := e.db.Close()
	if err != nil {
		slog.Error("unable to close database", slog.Any("error", err))
	}
}

// parseSessionTime resolves a natural-language time expression to a
// future instant.
func parseSessionTime(expr string) (time.Time, error) {
	dt, err := dateparser.Parse(&dateparser.Configuration{
		CurrentTime:         time.Now(),
		PreferredDateSource: dateparser.Future,
	}, expr)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"unable to parse session time %q: %w", expr, err,
		)
	}

	return dt.Time, nil
}

func addAction(ctx *cli.Context) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	defer e.close()

	fullDate, err := parseSessionTime(ctx.String("at"))
	if err != nil {
		return err
	}

	sessType := models.SessionType(ctx.String("type"))
	if sessType != models.Call && sessType != models.Chat {
		return fmt.Errorf("invalid session type: %s", ctx.String("type"))
	}

	recur := models.Recurrence(ctx.String("recur"))

	sess, err := e.manager.AddSession(session.Draft{
		Goal:        ctx.String("goal"),
		Type:        sessType,
		Recurring:   recur,
		FullDate:    fullDate,
		DisplayTime: fullDate.Format(displayTimeFormat),
	})
	if err != nil {
		return err
	}

	pterm.Success.Printfln(
		"Session scheduled for %s (id: %s)",
		ui.Highlight(sess.DisplayTime),
		sess.ID,
	)

	return nil
}

func listAction(_ *cli.Context) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	defer e.close()

	upcoming := e.manager.UpcomingSessions()
	if len(upcoming) == 0 {
		pterm.Info.Println("No upcoming sessions")
		return nil
	}

	printSessionTable(upcoming)

	return nil
}

func historyAction(_ *cli.Context) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	defer e.close()

	completed := e.manager.CompletedSessions()
	if len(completed) == 0 {
		pterm.Info.Println("No completed sessions")
		return nil
	}

	printSessionTable(completed)

	return nil
}

func printSessionTable(sessions []*models.Session) {
	data := [][]string{
		{"ID", "GOAL", "TYPE", "WHEN", "STATUS"},
	}

	for _, s := range sessions {
		status := string(s.Status)

		switch s.Status {
		case models.StatusUpcoming:
			status = ui.Green(status)
		case models.StatusCompleted:
			status = ui.Yellow(status)
		case models.StatusCancelled:
			status = ui.Red(status)
		}

		data = append(data, []string{
			s.ID,
			s.Goal,
			string(s.Type),
			s.FullDate.Format(displayTimeFormat),
			status,
		})
	}

	ui.PrintTable(data, os.Stdout)
}

func deleteAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return fmt.Errorf("a session id is required")
	}

	e, err := newEngine()
	if err != nil {
		return err
	}

	defer e.close()

	err = e.manager.DeleteSession(id)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Session %s deleted", id)

	return nil
}

func cancelAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return fmt.Errorf("a session id is required")
	}

	e, err := newEngine()
	if err != nil {
		return err
	}

	defer e.close()

	err = e.manager.CancelSession(id)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Session %s cancelled", id)

	return nil
}

func remindersAction(_ *cli.Context) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	defer e.close()

	reminders, err := e.scheduler.ScheduledNotifications()
	if err != nil {
		return err
	}

	if len(reminders) == 0 {
		pterm.Info.Println("No reminders scheduled")
		return nil
	}

	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].FireTime.Before(reminders[j].FireTime)
	})

	data := [][]string{
		{"FIRES AT", "SESSION", "GOAL", "LEAD"},
	}

	for _, r := range reminders {
		data = append(data, []string{
			r.FireTime.Format(displayTimeFormat),
			r.Content.SessionID,
			r.Content.Goal,
			timeutil.FormatLead(r.Content.MinutesBefore),
		})
	}

	ui.PrintTable(data, os.Stdout)

	return nil
}

func clearRemindersAction(_ *cli.Context) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	defer e.close()

	err = e.scheduler.CancelAllNotifications()
	if err != nil {
		return err
	}

	pterm.Success.Println("All reminders cleared")

	return nil
}

func prefsAction(ctx *cli.Context) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	defer e.close()

	patch := models.PreferencesPatch{}
	dirty := false

	if ctx.Bool("enable") {
		v := true
		patch.Enabled = &v
		dirty = true
	}

	if ctx.Bool("disable") {
		v := false
		patch.Enabled = &v
		dirty = true
	}

	if ctx.IsSet("lead") {
		patch.ReminderTimes = ctx.IntSlice("lead")
		dirty = true
	}

	if ctx.Bool("sound") {
		v := true
		patch.Sound = &v
		dirty = true
	}

	if ctx.Bool("no-sound") {
		v := false
		patch.Sound = &v
		dirty = true
	}

	if ctx.Bool("vibrate") {
		v := true
		patch.Vibration = &v
		dirty = true
	}

	if ctx.Bool("no-vibrate") {
		v := false
		patch.Vibration = &v
		dirty = true
	}

	prefs := e.scheduler.Preferences()

	if dirty {
		prefs = e.scheduler.UpdatePreferences(patch)

		// lead-time changes only affect future scheduling unless the
		// pending reminders are rebuilt now
		e.manager.RescheduleAll()
	}

	leads := make([]string, len(prefs.ReminderTimes))
	for i, m := range prefs.ReminderTimes {
		leads[i] = timeutil.FormatLead(m)
	}

	data := [][]string{
		{"SETTING", "VALUE"},
		{"enabled", strconv.FormatBool(prefs.Enabled)},
		{"reminder lead times", fmt.Sprint(leads)},
		{"sound", strconv.FormatBool(prefs.Sound)},
		{"vibration", strconv.FormatBool(prefs.Vibration)},
	}

	ui.PrintTable(data, os.Stdout)

	return nil
}

func statusAction(_ *cli.Context) error {
	s, err := session.ReadStatusFile(pathutil.StatusFilePath())
	if err != nil {
		return err
	}

	if s == nil {
		pterm.Info.Println("No status recorded. Is `tend watch` running?")
		return nil
	}

	pterm.Printfln(
		"%d upcoming, %d completed, %d reminders pending",
		s.Upcoming,
		s.Completed,
		s.Pending,
	)

	if s.NextSession != nil {
		pterm.Printfln(
			"Next session: %s (%s)",
			ui.Highlight(s.NextSession.Goal),
			s.NextSession.FullDate.Format(displayTimeFormat),
		)
	}

	return nil
}

func watchAction(cliCtx *cli.Context) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	defer e.close()

	ctx, stop := signal.NotifyContext(
		cliCtx.Context, os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	// in-process reminder timers do not survive restarts, so rebuild
	// them from the persisted collection before settling in
	e.manager.RescheduleAll()

	err = e.manager.CleanupOldSessions()
	if err != nil {
		return err
	}

	go e.manager.Run(ctx)

	writeStatus := func() {
		reminders, lerr := e.scheduler.ScheduledNotifications()
		if lerr != nil {
			slog.Error("unable to list reminders", slog.Any("error", lerr))
			return
		}

		serr := e.manager.WriteStatusFile(
			pathutil.StatusFilePath(), len(reminders),
		)
		if serr != nil {
			slog.Error("unable to write status file", slog.Any("error", serr))
		}
	}

	writeStatus()

	pterm.Info.Println("Watching for session reminders. Ctrl-C to exit.")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = os.Remove(pathutil.StatusFilePath())

			slog.InfoContext(cliCtx.Context, "exiting tend")

			return nil
		case <-ticker.C:
			writeStatus()
		}
	}
}
