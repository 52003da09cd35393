// Package app wires the command-line interface to the tend engine.
package app

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/halcyon-app/tend/config"
	"github.com/halcyon-app/tend/internal/log"
	"github.com/halcyon-app/tend/internal/pathutil"
)

const (
	envNoColor     = "NO_COLOR"
	envTendNoColor = "TEND_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

func beforeAction(_ *cli.Context) error {
	if _, ok := os.LookupEnv(envNoColor); ok {
		disableStyling()
	}

	if _, ok := os.LookupEnv(envTendNoColor); ok {
		disableStyling()
	}

	err := pathutil.Initialize()
	if err != nil {
		return err
	}

	log.Init(pathutil.LogFilePath())

	return nil
}

// Get retrieves the tend app instance.
func Get() *cli.App {
	tendApp := &cli.App{
		Name: "tend",
		Usage: `
		Tend schedules your coaching sessions and keeps their reminders in
		order. Sessions move from upcoming to completed on their own; stale
		history is pruned after the retention window.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Schedule a new coaching session",
				Action: addAction,
				Flags: []cli.Flag{
					goalFlag,
					typeFlag,
					recurFlag,
					atFlag,
				},
			},
			{
				Name:   "list",
				Usage:  "List upcoming sessions, soonest first",
				Action: listAction,
			},
			{
				Name:   "history",
				Usage:  "List completed sessions, most recent first",
				Action: historyAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete a session and its reminders",
				ArgsUsage: "<session-id>",
				Action:    deleteAction,
			},
			{
				Name:      "cancel",
				Usage:     "Cancel a session without deleting it",
				ArgsUsage: "<session-id>",
				Action:    cancelAction,
			},
			{
				Name:   "reminders",
				Usage:  "List the reminders currently scheduled",
				Action: remindersAction,
			},
			{
				Name:   "clear-reminders",
				Usage:  "Cancel every scheduled reminder",
				Action: clearRemindersAction,
			},
			{
				Name:   "prefs",
				Usage:  "Show or update notification preferences",
				Action: prefsAction,
				Flags: []cli.Flag{
					enableFlag,
					disableFlag,
					leadFlag,
					soundFlag,
					noSoundFlag,
					vibrateFlag,
					noVibrateFlag,
				},
			},
			{
				Name:   "status",
				Usage:  "Print a summary from the last watch pass",
				Action: statusAction,
			},
			{
				Name: "watch",
				Usage: `
				Run the reminder engine in the foreground, delivering
				notifications and reconciling sessions until interrupted`,
				Action: watchAction,
			},
		},
		Before: beforeAction,
	}

	return tendApp
}
