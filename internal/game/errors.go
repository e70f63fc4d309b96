// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Commands convert these to {result:false, message}
// responses at the gateway boundary. ErrStoreUnavailable is the only
// retryable class; everything else reports a terminal validation failure.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrDataIntegrity    = errors.New("data integrity fault")
)

// CommandError couples a taxonomy class with the exact message reported to
// the client that issued the command.
type CommandError struct {
	Kind    error
	Message string
}

func (e *CommandError) Error() string { return e.Message }
func (e *CommandError) Unwrap() error { return e.Kind }

func invalidInput(msg string) error {
	return &CommandError{Kind: ErrInvalidInput, Message: msg}
}

func notFound(msg string) error {
	return &CommandError{Kind: ErrNotFound, Message: msg}
}

func conflict(msg string) error {
	return &CommandError{Kind: ErrConflict, Message: msg}
}

// storeErr wraps a backend failure as retryable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
