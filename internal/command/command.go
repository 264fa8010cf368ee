package command

import (
	"fmt"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
)

// Kind identifies a command.
type Kind int

const (
	// KindCreate inserts a new alarm.
	KindCreate Kind = iota + 1
	// KindChange updates an active alarm.
	KindChange
	// KindCancel removes an active alarm.
	KindCancel
	// KindView lists the consumer groups.
	KindView
	// KindList lists the pending alarms.
	KindList
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "Create"
	case KindChange:
		return "Change"
	case KindCancel:
		return "Cancel"
	case KindView:
		return "View"
	case KindList:
		return "List"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command is a structured request for the Processor.
type Command struct {
	// Kind selects the operation.
	Kind Kind
	// ID is the alarm id for Create, Change and Cancel.
	ID int
	// Category is the routing label for Create and Change.
	Category string
	// Seconds is the requested delay for Create and Change.
	Seconds int
	// Text is the payload for Create and Change. Longer texts are truncated.
	Text string
}

// Validate checks field presence and bounds for the command kind.
func (c *Command) Validate() error {
	switch c.Kind {
	case KindCreate, KindChange:
		if err := alarm.ValidateCategory(c.Category); err != nil {
			return badCommand(err.Error())
		}

		if err := alarm.ValidateSeconds(c.Seconds); err != nil {
			return badCommand(err.Error())
		}

		if c.Text == "" {
			return badCommand("text is required")
		}

		return nil
	case KindCancel, KindView, KindList:
		return nil
	default:
		return badCommand("unknown command")
	}
}
