package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/oshokin/alarm-scheduler/internal/command"
	"github.com/oshokin/alarm-scheduler/internal/logger"
)

// Executor runs one command line.
type Executor interface {
	ExecuteLine(ctx context.Context, line string) (*command.Result, error)
}

// Console reads command lines and prints their outcome.
type Console struct {
	// in is the command source.
	in io.Reader
	// printer owns the terminal.
	printer *Printer
	// executor runs the commands.
	executor Executor
}

// New creates a console reading from in.
func New(in io.Reader, printer *Printer, executor Executor) *Console {
	return &Console{
		in:       in,
		printer:  printer,
		executor: executor,
	}
}

// Run processes lines until the input ends (returns nil) or ctx is cancelled
// (returns ctx.Err()). Blank lines are ignored.
func (c *Console) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "console")

	lines := make(chan string)
	readErr := make(chan error, 1)

	// The reader goroutine may stay blocked in Read after cancellation;
	// it exits with the process.
	go func() {
		scanner := bufio.NewScanner(c.in)

		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		readErr <- scanner.Err()
	}()

	for {
		c.printer.Prompt()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read console: %w", err)
			}

			logger.Debug(ctx, "Console input closed")

			return nil
		case line := <-lines:
			c.printer.inputReceived()
			c.handle(ctx, line)
		}
	}
}

// handle executes one line and prints the acknowledgement or the error.
func (c *Console) handle(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	result, err := c.executor.ExecuteLine(ctx, line)
	if err != nil {
		logger.DebugKV(ctx, "Command rejected", "line", line, "error", err)
		c.printer.Println(err.Error())

		return
	}

	c.printer.Println(result.Message)
}
