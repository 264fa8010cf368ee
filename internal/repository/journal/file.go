package journal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/logger"
	"github.com/oshokin/alarm-scheduler/internal/scheduler"
)

// maxLineSize bounds a single journal line when reading.
const maxLineSize = 64 * 1024

// ErrNotFound is returned when the journal file does not exist yet.
var ErrNotFound = errors.New("journal not found")

// Entry is one decoded journal line.
type Entry struct {
	// Kind is the event kind ("expired" or "assigned").
	Kind string
	// At is when the event happened.
	At time.Time
	// AlarmID is the caller-supplied alarm id.
	AlarmID int
	// Category is the alarm category.
	Category string
	// Seconds is the requested duration.
	Seconds int
	// Text is the alarm text.
	Text string
	// DueAt is when the alarm was due.
	DueAt time.Time
	// GroupID is the consumer group the alarm went to, empty if it was not routed.
	GroupID string
}

// FileJournal appends scheduler events to a file.
type FileJournal struct {
	// path is the filesystem location of the journal.
	path string
	// mu serialises appends.
	mu sync.Mutex
}

// NewFileJournal creates a journal that appends to the provided path.
func NewFileJournal(path string) *FileJournal {
	return &FileJournal{
		path: filepath.Clean(path),
	}
}

// Path returns the journal location.
func (j *FileJournal) Path() string {
	return j.path
}

// Notify implements scheduler.Sink. Write failures are logged, not returned:
// the scheduler keeps running without its audit trail.
func (j *FileJournal) Notify(ctx context.Context, event scheduler.Event) {
	if err := j.Append(event); err != nil {
		logger.ErrorKV(ctx, "Failed to append journal entry", "path", j.path, "alarm_id", event.Alarm.ID, "error", err)
	}
}

// Append writes one event as a JSON line.
func (j *FileJournal) Append(event scheduler.Event) error {
	line, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	if _, err = file.Write(append(line, '\n')); err != nil {
		_ = file.Close()

		return fmt.Errorf("write journal: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}

	return nil
}

// ReadEntries decodes every line of the journal at path in file order.
func ReadEntries(path string) ([]Entry, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("open journal: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	var (
		entries []Entry
		scanner = bufio.NewScanner(file)
		lineNo  int
	)

	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	for scanner.Scan() {
		lineNo++

		if len(scanner.Bytes()) == 0 {
			continue
		}

		entry, err := decodeEntry(scanner.Bytes())
		if err != nil {
			return nil, fmt.Errorf("decode journal line %d: %w", lineNo, err)
		}

		entries = append(entries, *entry)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	return entries, nil
}

// encodeEvent converts an event into one protobuf JSON line.
func encodeEvent(event scheduler.Event) ([]byte, error) {
	fields := map[string]any{
		"kind":     event.Kind.String(),
		"at":       event.At.Unix(),
		"alarm_id": event.Alarm.ID,
		"category": event.Alarm.Category,
		"seconds":  event.Alarm.Seconds(),
		"text":     event.Alarm.Text,
		"due_at":   event.Alarm.DueAt.Unix(),
	}

	if event.Assignment != nil {
		fields["group_id"] = event.Assignment.GroupID
	}

	record, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	return protojson.Marshal(record)
}

// decodeEntry converts one protobuf JSON line into an Entry.
func decodeEntry(line []byte) (*Entry, error) {
	var record structpb.Struct
	if err := protojson.Unmarshal(line, &record); err != nil {
		return nil, err
	}

	f := record.GetFields()

	return &Entry{
		Kind:     f["kind"].GetStringValue(),
		At:       time.Unix(int64(f["at"].GetNumberValue()), 0),
		AlarmID:  int(f["alarm_id"].GetNumberValue()),
		Category: f["category"].GetStringValue(),
		Seconds:  int(f["seconds"].GetNumberValue()),
		Text:     f["text"].GetStringValue(),
		DueAt:    time.Unix(int64(f["due_at"].GetNumberValue()), 0),
		GroupID:  f["group_id"].GetStringValue(),
	}, nil
}
