package console

import (
	"errors"

	"github.com/riskibarqy/tippspiel/internal/config"
	"github.com/riskibarqy/tippspiel/internal/usecase"
)

const (
	ExitOK          = 0
	ExitConfig      = 1
	ExitProvider    = 2
	ExitUnknownUser = 3
)

type MappedError struct {
	ExitCode int
	Reason   string
}

// MapError turns a run failure into a process exit code and a short reason
// suitable for the one-line message printed on stderr.
func MapError(err error) MappedError {
	switch {
	case err == nil:
		return MappedError{ExitCode: ExitOK}
	case errors.Is(err, config.ErrConfig),
		errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrMatchesFrozen):
		return MappedError{ExitCode: ExitConfig, Reason: "configuration error"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return MappedError{ExitCode: ExitProvider, Reason: "results provider unavailable"}
	case errors.Is(err, usecase.ErrMalformedPayload):
		return MappedError{ExitCode: ExitProvider, Reason: "results provider sent malformed data"}
	case errors.Is(err, usecase.ErrNotFound):
		return MappedError{ExitCode: ExitUnknownUser, Reason: "unknown user"}
	default:
		return MappedError{ExitCode: ExitConfig, Reason: "unexpected error"}
	}
}
