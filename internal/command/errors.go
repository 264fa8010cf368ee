package command

import (
	"errors"
	"fmt"

	"github.com/oshokin/alarm-scheduler/internal/scheduler"
)

// ErrBadCommand is matched by every validation or parse failure.
var ErrBadCommand = errors.New("bad command")

// BadCommandError describes malformed input. No state was changed.
type BadCommandError struct {
	// Reason explains what is wrong with the input.
	Reason string
}

// Error implements error.
func (e *BadCommandError) Error() string {
	return fmt.Sprintf("bad command: %s", e.Reason)
}

// Is reports whether target is ErrBadCommand.
func (e *BadCommandError) Is(target error) bool {
	return target == ErrBadCommand
}

// NotFoundError reports a command aimed at an alarm that is not pending.
type NotFoundError struct {
	// ID is the requested alarm id.
	ID int
	// Op is the attempted operation, e.g. "change".
	Op string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Alarm(%d) not found. Cannot %s.", e.ID, e.Op)
}

// Unwrap exposes scheduler.ErrNotFound to errors.Is.
func (e *NotFoundError) Unwrap() error {
	return scheduler.ErrNotFound
}

func badCommand(reason string) error {
	return &BadCommandError{Reason: reason}
}
