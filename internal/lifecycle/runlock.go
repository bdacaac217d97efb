package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another worker holds the run lock.
var ErrAlreadyRunning = errors.New("a scrape worker is already running")

const (
	acquirePollInterval = 50 * time.Millisecond
	acquireTimeout      = 2 * time.Second
)

// RunLock is the liveness record of a running worker: an OS-level exclusive
// lock on the lock file, held for the worker's lifetime and released by the
// kernel if the process dies. The file body carries the worker PID so the
// supervisor can signal it.
type RunLock struct {
	fl   *flock.Flock
	path string
}

// AcquireRunLock takes the exclusive lock and records the current PID. The
// supervisor grabs the same lock momentarily to probe liveness, so a busy
// lock is retried for a short window before it is treated as a competing
// worker.
func AcquireRunLock(path string) (*RunLock, error) {
	fl := flock.New(path)
	deadline := time.Now().Add(acquireTimeout)
	for {
		locked, err := fl.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if locked {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrAlreadyRunning
		}
		time.Sleep(acquirePollInterval)
	}
	// The flock lives on the inode, so rewriting the body keeps it held.
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		fl.Unlock()
		return nil, fmt.Errorf("record worker pid: %w", err)
	}
	return &RunLock{fl: fl, path: path}, nil
}

// Release removes the file and drops the lock, in that order: unlinking
// while the lock is still held means no other process can have locked the
// doomed inode in between. Safe to call on every exit path; the kernel
// releases the lock anyway if the process is gone.
func (l *RunLock) Release() {
	if l == nil {
		return
	}
	os.Remove(l.path)
	l.fl.Unlock()
}

// readLockedPID returns the PID stored in the lock file.
func readLockedPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in lock file: %q", data)
	}
	return pid, nil
}
