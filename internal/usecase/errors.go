package usecase

import (
	"errors"

	"github.com/riskibarqy/tippspiel/internal/domain/participant"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrMatchesFrozen         = errors.New("matches cannot change after tips were accepted")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrMalformedPayload      = errors.New("malformed provider payload")
	ErrTipOverflow           = participant.ErrTipOverflow
)
