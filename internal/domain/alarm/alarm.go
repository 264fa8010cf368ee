package alarm

import (
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

const (
	// MaxCategoryLength is the longest accepted category label, in bytes.
	MaxCategoryLength = 9
	// MaxTextLength is the longest stored text payload, in bytes. Longer texts are truncated.
	MaxTextLength = 127
	// MaxSeconds is the longest duration, in seconds, that fits in a time.Duration.
	MaxSeconds = math.MaxInt64 / int64(time.Second)
)

var (
	// ErrInvalidCategory is returned for an empty or over-long category.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrNegativeDuration is returned for a negative duration.
	ErrNegativeDuration = errors.New("duration must not be negative")
	// ErrDurationTooLong is returned for a duration above MaxSeconds.
	ErrDurationTooLong = errors.New("duration is too long")
)

// State is the lifecycle stage of an alarm.
type State int

const (
	// Active alarms wait in the registry.
	Active State = iota
	// Cancelled alarms were removed by a cancel command and never fire.
	Cancelled
	// Expired alarms were drained by the worker and dispatched.
	Expired
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Cancelled:
		return "cancelled"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Alarm is a single timed notification request.
type Alarm struct {
	// ID is supplied by the caller and is not guaranteed to be unique.
	ID int
	// Category is the short routing label used to pick a consumer group.
	Category string
	// Duration is the delay requested, in whole seconds.
	Duration time.Duration
	// DueAt is the absolute moment the alarm fires: request time plus Duration.
	DueAt time.Time
	// Text is the payload shown when the alarm fires.
	Text string
	// State is the lifecycle stage.
	State State
}

// New builds an Active alarm with validated fields.
// DueAt is left zero: the registry stamps it when the alarm is inserted.
func New(id int, category string, seconds int, text string) (*Alarm, error) {
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}

	if err := ValidateSeconds(seconds); err != nil {
		return nil, err
	}

	return &Alarm{
		ID:       id,
		Category: category,
		Duration: time.Duration(seconds) * time.Second,
		Text:     TruncateText(text),
		State:    Active,
	}, nil
}

// ValidateCategory checks that the category is non-empty and within MaxCategoryLength.
func ValidateCategory(category string) error {
	if category == "" || len(category) > MaxCategoryLength {
		return fmt.Errorf("%w: %q (1..%d bytes)", ErrInvalidCategory, category, MaxCategoryLength)
	}

	return nil
}

// ValidateSeconds checks that seconds is in 0..MaxSeconds, so converting it
// to a time.Duration cannot overflow.
func ValidateSeconds(seconds int) error {
	switch {
	case seconds < 0:
		return ErrNegativeDuration
	case int64(seconds) > MaxSeconds:
		return fmt.Errorf("%w: %d (max %d)", ErrDurationTooLong, seconds, MaxSeconds)
	default:
		return nil
	}
}

// TruncateText cuts text to MaxTextLength bytes without splitting a UTF-8 sequence.
func TruncateText(text string) string {
	if len(text) <= MaxTextLength {
		return text
	}

	cut := MaxTextLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return text[:cut]
}

// Seconds returns the requested duration in whole seconds.
func (a *Alarm) Seconds() int {
	return int(a.Duration / time.Second)
}

// Due reports whether the alarm fires at or before now.
func (a *Alarm) Due(now time.Time) bool {
	return !a.DueAt.After(now)
}

// Clone returns a copy of the alarm, nil-safe.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String renders the alarm the way acknowledgements print it: "<category> <seconds> <text>".
func (a *Alarm) String() string {
	return fmt.Sprintf("%s %d %s", a.Category, a.Seconds(), a.Text)
}
