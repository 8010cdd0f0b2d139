// Package lock guards a file store against two gradecalc processes writing
// it at once. The lockfile holds "pid|executable"; a lock whose process is
// gone, or now belongs to another program, is stale and taken over.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/logger"
)

var findProcessFunc = ps.FindProcess

// ErrLocked is returned when another live gradecalc process holds the lock.
var ErrLocked = errors.New("store is in use by another gradecalc process")

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// Holder describes the process recorded in a lockfile.
type Holder struct {
	PID        int
	Executable string
}

// Path returns the lockfile location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire takes the lock in dir, replacing a stale one.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := Path(dir)
	pid := os.Getpid()
	exe := executableName()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s", pid, exe)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, live := Inspect(dir)
		if live {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, holder.PID)
		}
		logger.Debug("removing stale lockfile", "path", path, "pid", holder.PID)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: lockfile keeps reappearing", ErrLocked)
}

// Inspect reads the lockfile in dir. live is true only when the recorded
// process is running and is a gradecalc binary.
func Inspect(dir string) (holder Holder, live bool) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return Holder{}, false
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), "|", 2)
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, false
	}
	holder.PID = pid
	if len(parts) == 2 {
		holder.Executable = parts[1]
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return holder, false
	}
	if holder.Executable != "" && process.Executable() != holder.Executable {
		return holder, false
	}
	return holder, true
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	owner := strings.SplitN(strings.TrimSpace(string(data)), "|", 2)[0]
	if owner != strconv.Itoa(l.pid) {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func executableName() string {
	if p, err := findProcessFunc(os.Getpid()); err == nil && p != nil {
		return p.Executable()
	}
	exe, err := os.Executable()
	if err != nil {
		return constants.AppName
	}
	return filepath.Base(exe)
}
