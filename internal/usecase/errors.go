package usecase

import (
	"errors"

	"github.com/riskibarqy/gameday/internal/domain/game"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ValidationError carries every violation of a rejected game payload.
type ValidationError struct {
	Violations game.Violations
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Violations.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
