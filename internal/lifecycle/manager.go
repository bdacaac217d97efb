// Package lifecycle starts and stops the scrape worker process and exposes
// its liveness. Liveness is an exclusive file lock held by the worker, so a
// crashed worker is indistinguishable from a stopped one: the lock is simply
// gone.
package lifecycle

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/phuslu/log"
)

const (
	stopPollInterval = 100 * time.Millisecond
	stopTimeout      = 5 * time.Second
	restartSettle    = time.Second
)

// Manager supervises the worker process.
type Manager struct {
	lockPath  string
	workerBin string
	log       log.Logger
}

// Status describes the supervisor's view of the worker.
type Status struct {
	Running bool `json:"running"`
	PID     int  `json:"pid,omitempty"`
}

// NewManager builds a supervisor. When workerBin is empty the worker binary
// is expected next to the current executable under the name "scraper".
func NewManager(lockPath, workerBin string, logger log.Logger) *Manager {
	if workerBin == "" {
		if exe, err := os.Executable(); err == nil {
			workerBin = filepath.Join(filepath.Dir(exe), "scraper")
		} else {
			workerBin = "scraper"
		}
	}
	return &Manager{lockPath: lockPath, workerBin: workerBin, log: logger}
}

// Status probes the run lock. A lock nobody holds means idle. The probe
// only ever locks and unlocks; a leftover file from a killed worker stays
// on disk until the next Start, because removing it here could unlink an
// inode a starting worker just locked.
func (m *Manager) Status() Status {
	fl := flock.New(m.lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		// Cannot probe the lock; assume idle rather than wedging the UI.
		m.log.Warn().Err(err).Msg("liveness probe failed")
		return Status{}
	}
	if locked {
		fl.Unlock()
		return Status{}
	}
	pid, _ := readLockedPID(m.lockPath)
	return Status{Running: true, PID: pid}
}

// Start spawns the worker process. It returns false when a worker is already
// running. A stale lock file is removed while the probe lock is still held,
// so the removal cannot race a worker locking the same inode.
func (m *Manager) Start() (bool, error) {
	fl := flock.New(m.lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("probe run lock: %w", err)
	}
	if !locked {
		return false, nil
	}
	os.Remove(m.lockPath)
	fl.Unlock()

	cmd := exec.Command(m.workerBin)
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("spawn worker: %w", err)
	}
	// Reap the child when it exits so it never lingers as a zombie.
	go func() { _ = cmd.Wait() }()

	m.log.Info().Int("pid", cmd.Process.Pid).Str("bin", m.workerBin).Msg("worker started")
	return true, nil
}

// Stop asks the running worker to terminate, escalating to SIGKILL when it
// does not exit within the timeout budget. Returns false when already idle.
func (m *Manager) Stop() bool {
	st := m.Status()
	if !st.Running {
		return false
	}

	if st.PID > 0 {
		_ = syscall.Kill(st.PID, syscall.SIGTERM)
	}

	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		if !m.Status().Running {
			m.log.Info().Int("pid", st.PID).Msg("worker stopped")
			return true
		}
		time.Sleep(stopPollInterval)
	}

	if st.PID > 0 {
		m.log.Warn().Int("pid", st.PID).Msg("worker did not stop in time, killing")
		_ = syscall.Kill(st.PID, syscall.SIGKILL)
	}
	for m.Status().Running {
		time.Sleep(stopPollInterval)
	}
	return true
}

// Restart stops any running worker, waits a settle delay and starts a fresh
// one. Best-effort.
func (m *Manager) Restart() {
	m.Stop()
	time.Sleep(restartSettle)
	if _, err := m.Start(); err != nil {
		m.log.Error().Err(err).Msg("restart failed")
	}
}
