package app

import "github.com/urfave/cli/v2"

var (
	goalFlag = &cli.StringFlag{
		Name:    "goal",
		Aliases: []string{"g"},
		Usage:   "What the session is about",
	}

	typeFlag = &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Usage:   "Session type: call or chat",
		Value:   "call",
	}

	recurFlag = &cli.StringFlag{
		Name:  "recur",
		Usage: "Recurrence: none, daily, weekly, or monthly",
		Value: "none",
	}

	atFlag = &cli.StringFlag{
		Name:     "at",
		Usage:    "When the session starts (e.g. 'tomorrow 9am')",
		Required: true,
	}

	enableFlag = &cli.BoolFlag{
		Name:  "enable",
		Usage: "Enable reminder notifications",
	}

	disableFlag = &cli.BoolFlag{
		Name:  "disable",
		Usage: "Disable reminder notifications",
	}

	leadFlag = &cli.IntSliceFlag{
		Name:    "lead",
		Aliases: []string{"l"},
		Usage:   "Reminder lead times in minutes before the session",
	}

	soundFlag = &cli.BoolFlag{
		Name:  "sound",
		Usage: "Play a sound when a reminder is delivered",
	}

	noSoundFlag = &cli.BoolFlag{
		Name:  "no-sound",
		Usage: "Deliver reminders silently",
	}

	vibrateFlag = &cli.BoolFlag{
		Name:  "vibrate",
		Usage: "Vibrate when a reminder is delivered",
	}

	noVibrateFlag = &cli.BoolFlag{
		Name:  "no-vibrate",
		Usage: "Do not vibrate when a reminder is delivered",
	}
)
