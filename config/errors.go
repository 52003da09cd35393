package config

import "github.com/halcyon-app/tend/internal/apperr"

var (
	errInvalidRetention = &apperr.Error{
		Message: "retention days must be zero or greater",
	}

	errInvalidLeadTime = &apperr.Error{
		Message: "reminder lead times must be positive minute values",
	}
)
