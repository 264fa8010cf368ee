package command

import (
	"context"
	"errors"
	"time"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
	"github.com/oshokin/alarm-scheduler/internal/logger"
	"github.com/oshokin/alarm-scheduler/internal/scheduler"
)

// Scheduler is the engine surface the Processor depends on.
type Scheduler interface {
	Create(ctx context.Context, a *alarm.Alarm) (*alarm.Alarm, *scheduler.Assignment)
	Change(id int, category string, seconds int, text string) (*alarm.Alarm, error)
	Cancel(id int) (*alarm.Alarm, error)
	Groups() []scheduler.GroupSnapshot
	Alarms() []alarm.Alarm
	Now() time.Time
}

// Result is the outcome of a successful command.
type Result struct {
	// Kind is the executed command kind.
	Kind Kind
	// Message is the human-readable acknowledgement.
	Message string
	// Alarm is the affected alarm for Create, Change and Cancel.
	Alarm *alarm.Alarm
	// Assignment is set when Create routed the alarm right away.
	Assignment *scheduler.Assignment
	// Groups is the consumer-group snapshot for View.
	Groups []scheduler.GroupSnapshot
	// Alarms is the registry snapshot for List.
	Alarms []alarm.Alarm
	// At is when the command was executed.
	At time.Time
}

// Processor validates commands and applies them to the scheduler.
type Processor struct {
	// scheduler is the engine receiving the operations.
	scheduler Scheduler
}

// NewProcessor wires a processor to the provided scheduler.
func NewProcessor(s Scheduler) *Processor {
	return &Processor{
		scheduler: s,
	}
}

// ExecuteLine parses and executes one text line.
func (p *Processor) ExecuteLine(ctx context.Context, line string) (*Result, error) {
	cmd, err := Parse(line)
	if err != nil {
		return nil, err
	}

	return p.Execute(ctx, cmd)
}

// Execute validates cmd and applies it. Failures are *BadCommandError or *NotFoundError.
func (p *Processor) Execute(ctx context.Context, cmd *Command) (*Result, error) {
	if cmd == nil {
		return nil, badCommand("command is required")
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Kind: cmd.Kind,
		At:   p.scheduler.Now(),
	}

	switch cmd.Kind {
	case KindCreate:
		a, err := alarm.New(cmd.ID, cmd.Category, cmd.Seconds, cmd.Text)
		if err != nil {
			return nil, badCommand(err.Error())
		}

		result.Alarm, result.Assignment = p.scheduler.Create(ctx, a)
		logger.DebugKV(ctx, "Alarm inserted", "alarm_id", cmd.ID, "category", cmd.Category, "seconds", cmd.Seconds)
	case KindChange:
		changed, err := p.scheduler.Change(cmd.ID, cmd.Category, cmd.Seconds, alarm.TruncateText(cmd.Text))
		if err != nil {
			return nil, notFound(err, cmd.ID, "change")
		}

		result.Alarm = changed
		logger.DebugKV(ctx, "Alarm changed", "alarm_id", cmd.ID, "category", cmd.Category, "seconds", cmd.Seconds)
	case KindCancel:
		cancelled, err := p.scheduler.Cancel(cmd.ID)
		if err != nil {
			return nil, notFound(err, cmd.ID, "cancel")
		}

		result.Alarm = cancelled
		logger.DebugKV(ctx, "Alarm cancelled", "alarm_id", cmd.ID)
	case KindView:
		result.Groups = p.scheduler.Groups()
	case KindList:
		result.Alarms = p.scheduler.Alarms()
	}

	result.Message = render(result)

	return result, nil
}

// notFound converts scheduler.ErrNotFound into a *NotFoundError and passes other errors through.
func notFound(err error, id int, op string) error {
	if errors.Is(err, scheduler.ErrNotFound) {
		return &NotFoundError{ID: id, Op: op}
	}

	return err
}
