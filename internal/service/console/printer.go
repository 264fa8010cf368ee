package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/oshokin/alarm-scheduler/internal/scheduler"
)

// DefaultPrompt is shown before each command.
const DefaultPrompt = "alarm> "

// Printer writes console output from several goroutines without interleaving.
type Printer struct {
	// mu guards out and prompting.
	mu sync.Mutex
	// out is the terminal.
	out io.Writer
	// prompt is printed by Prompt, empty disables it.
	prompt string
	// prompting is true while the prompt is the last thing on the line.
	prompting bool
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithPrompt replaces the default prompt. An empty prompt disables it.
func WithPrompt(prompt string) PrinterOption {
	return func(p *Printer) {
		p.prompt = prompt
	}
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{
		out:    out,
		prompt: DefaultPrompt,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Prompt shows the prompt.
func (p *Printer) Prompt() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.prompt == "" || p.prompting {
		return
	}

	_, _ = io.WriteString(p.out, p.prompt)
	p.prompting = true
}

// inputReceived records that the user ended the prompt line with Enter.
func (p *Printer) inputReceived() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.prompting = false
}

// Println writes one message followed by a newline.
func (p *Printer) Println(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writeLocked(msg, false)
}

// Notify implements scheduler.Sink. Expired alarms are announced, then the
// prompt is restored if it was showing. Assignments made on creation are
// already part of the Create acknowledgement and are not repeated.
func (p *Printer) Notify(_ context.Context, event scheduler.Event) {
	if event.Kind != scheduler.EventExpired {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.writeLocked(FormatExpired(event), true)
}

// writeLocked prints msg on its own line. Callers hold mu.
func (p *Printer) writeLocked(msg string, restorePrompt bool) {
	wasPrompting := p.prompting

	if wasPrompting && restorePrompt {
		_, _ = io.WriteString(p.out, "\n")
	}

	_, _ = io.WriteString(p.out, msg+"\n")
	p.prompting = false

	if wasPrompting && restorePrompt && p.prompt != "" {
		_, _ = io.WriteString(p.out, p.prompt)
		p.prompting = true
	}
}

// FormatExpired renders the notification for a fired alarm.
func FormatExpired(event scheduler.Event) string {
	var (
		b  strings.Builder
		a  = &event.Alarm
		at = event.At.Unix()
	)

	fmt.Fprintf(&b, "(%d) %s\n", a.ID, a.Text)
	fmt.Fprintf(&b, "Alarm(%d): Alarm Expired at %d: Alarm Removed From Alarm List", a.ID, at)

	if g := event.Assignment; g != nil {
		if g.Created {
			fmt.Fprintf(&b, "\nNew Group(%s) Created at %d: %s", g.GroupID, at, a)
		} else {
			fmt.Fprintf(&b, "\nAlarm(%d) Assigned to Group(%s) at %d: %s", a.ID, g.GroupID, at, a)
		}
	}

	return b.String()
}
