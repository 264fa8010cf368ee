package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another process runs the same executable.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lister enumerates the processes of the machine.
type Lister func() ([]ps.Process, error)

// EnsureSingle returns ErrAlreadyRunning when a process other than the
// current one runs an executable called name.
func EnsureSingle(name string) error {
	return ensureSingle(name, os.Getpid(), ps.Processes)
}

// CurrentExecutable returns the file name of the running binary.
func CurrentExecutable() string {
	path, err := os.Executable()
	if err != nil {
		path = os.Args[0]
	}

	return filepath.Base(path)
}

func ensureSingle(name string, self int, list Lister) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == self {
			continue
		}

		if !sameExecutable(process.Executable(), name) {
			continue
		}

		return fmt.Errorf("%w: %s (pid %d)", ErrAlreadyRunning, name, process.Pid())
	}

	return nil
}

// sameExecutable compares process names, ignoring case on Windows.
func sameExecutable(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}

	return a == b
}
