package notify

import "github.com/halcyon-app/tend/internal/apperr"

var (
	errPastTrigger = &apperr.Error{
		Message: "reminder trigger must be a future instant",
	}

	errInvalidSoundFormat = &apperr.Error{
		Message: "sound file must be in mp3, ogg, flac, or wav format",
	}

	errInvalidDeliveryCmd = &apperr.Error{
		Message: "unable to parse delivery_cmd option",
	}
)
