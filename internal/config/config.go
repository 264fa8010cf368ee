package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-scheduler/internal/logger"
)

// Config holds the settings shared by the scheduler binaries.
type Config struct {
	// ServerAddress is the gRPC address the scheduler listens on and alarm-ctl dials.
	ServerAddress string `yaml:"server_addr"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level written by the logger.
	LogLevel string `yaml:"log_level"`
	// JournalFile is an optional path where fired alarms are appended.
	JournalFile string `yaml:"journal_file,omitempty"`
	// Scheduler holds the engine policies.
	Scheduler Scheduler `yaml:"scheduler"`
}

// Scheduler holds the tunables of the scheduling engine.
type Scheduler struct {
	// GroupCapacity is the number of alarms a consumer group accepts before a new group is opened.
	GroupCapacity int `yaml:"group_capacity"`
	// IdleInterval is how long the worker waits before re-checking an empty registry.
	IdleInterval time.Duration `yaml:"idle_interval"`
	// Ordering selects the registry sort key: "id" or "due_time".
	Ordering string `yaml:"ordering"`
	// DispatchOn selects when alarms are routed to consumer groups: "expiry" or "create".
	DispatchOn string `yaml:"dispatch_on"`
}

const (
	// DefaultConfigFilename is the default filename for scheduler settings.
	DefaultConfigFilename = "alarm-scheduler.yaml"

	// DefaultServerAddress is used when no address is configured.
	DefaultServerAddress = "127.0.0.1:7711"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is the level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultGroupCapacity is the number of alarms per consumer group.
	DefaultGroupCapacity = 2

	// DefaultIdleInterval is the worker re-check period for an empty registry.
	DefaultIdleInterval = time.Second

	// DefaultJournalFilename is where alarm-ctl looks for the journal when no path is given.
	DefaultJournalFilename = "alarm-journal.jsonl"

	// DefaultFilePermissions is the default file permission for config and journal files.
	DefaultFilePermissions = 0o600
)

// Registry orderings.
const (
	OrderingID      = "id"
	OrderingDueTime = "due_time"
)

// Dispatch moments.
const (
	DispatchOnExpiry = "expiry"
	DispatchOnCreate = "create"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownOrdering is returned for an unsupported scheduler.ordering value.
	errUnknownOrdering = errors.New("unknown ordering")
	// errUnknownDispatch is returned for an unsupported scheduler.dispatch_on value.
	errUnknownDispatch = errors.New("unknown dispatch moment")
	// errUnknownLogLevel is returned for an unsupported log_level value.
	errUnknownLogLevel = errors.New("unknown log level")
	// errNegativeCapacity is returned for a negative group capacity.
	errNegativeCapacity = errors.New("group capacity must not be negative")
)

// Default returns a configuration populated with defaults.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg) //nolint:errcheck // Defaults always validate.

	return cfg
}

// Load reads configuration from the provided path and validates it.
// An empty path or a missing default file yields the defaults.
func Load(path string) (*Config, error) {
	usingDefault := path == "" || path == DefaultConfigFilename
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if usingDefault && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the provided settings.
//
//nolint:cyclop // A flat list of field checks reads best.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		settings.ServerAddress = DefaultServerAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	return settings.Scheduler.validate()
}

// validate fills defaults of the scheduler section and checks its policies.
func (s *Scheduler) validate() error {
	switch {
	case s.GroupCapacity < 0:
		return errNegativeCapacity
	case s.GroupCapacity == 0:
		s.GroupCapacity = DefaultGroupCapacity
	}

	if s.IdleInterval <= 0 {
		s.IdleInterval = DefaultIdleInterval
	}

	switch s.Ordering {
	case "":
		s.Ordering = OrderingID
	case OrderingID, OrderingDueTime:
	default:
		return fmt.Errorf("%w: %q", errUnknownOrdering, s.Ordering)
	}

	switch s.DispatchOn {
	case "":
		s.DispatchOn = DispatchOnExpiry
	case DispatchOnExpiry, DispatchOnCreate:
	default:
		return fmt.Errorf("%w: %q", errUnknownDispatch, s.DispatchOn)
	}

	return nil
}
