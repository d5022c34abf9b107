// Package lock keeps two daybook processes from using one data directory.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
)

var (
	ErrAlreadyRunning = errors.New("another daybook process is using this data directory")

	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

type Lock struct {
	path string
	pid  int
}

// Acquire writes a pidfile in dir. A pidfile left by a process that no
// longer exists is taken over.
func Acquire(dir string) (*Lock, error) {
	return acquire(dir, getpidFunc())
}

func acquire(dir string, self int) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.LockfileName)

	// The pid is written to a private file first so the lockfile never
	// exists without its content. Linking it into place fails if the
	// lockfile is already there.
	tmp := fmt.Sprintf("%s.%d", path, self)
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(self)), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	defer os.Remove(tmp)

	err := os.Link(tmp, path)
	if err == nil {
		return &Lock{path: path, pid: self}, nil
	}
	if !os.IsExist(err) {
		return nil, fmt.Errorf("failed to create lockfile: %w", err)
	}

	// The file exists. Only a live owner other than us keeps it.
	if owner, ok := readOwner(path); ok && owner != self {
		process, err := findProcessFunc(owner)
		if err == nil && process != nil {
			return nil, fmt.Errorf("%w (pid %d, %s)", ErrAlreadyRunning, owner, process.Executable())
		}
		logger.Debug("Removing stale lockfile", "path", path, "pid", owner)
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, fmt.Errorf("failed to replace lockfile: %w", err)
	}
	return &Lock{path: path, pid: self}, nil
}

func readOwner(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Release removes the pidfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if owner, ok := readOwner(l.path); !ok || owner != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
