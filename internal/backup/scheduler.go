// Package backup writes periodic snapshots of the full aggregate into a
// user-chosen folder. A small state machine tracks whether the schedule is
// idle, running, waiting on folder permission, or recovering from a failed
// write. Snapshot files are full overwrites named by date and time, so a
// re-run after recovery causes no corruption, only possibly-redundant files.
package backup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/pkg/types"
)

// Scheduler states.
const (
	StateIdle             = "idle"
	StateRunning          = "running"
	StatePermissionNeeded = "permission_needed"
	StateError            = "error"
)

// tickInterval is the wall-clock polling cadence. The configured backup
// interval gates actual writes; the tick only re-checks permission and
// elapsed time.
const tickInterval = time.Minute

// SettingsStore persists backup settings across runs.
type SettingsStore interface {
	LoadBackupSettings() types.BackupSettings
	SaveBackupSettings(types.BackupSettings) error
}

// Scheduler runs the periodic backup loop.
type Scheduler struct {
	mu       sync.Mutex
	state    string
	settings types.BackupSettings
	folder   string

	snapshot func() types.Aggregate
	store    SettingsStore
	log      *zap.Logger

	// Overridable in tests.
	now   func() time.Time
	probe func(dir string) error
}

// New creates a scheduler reading persisted settings from store. snapshot
// returns the current full aggregate; it is called once per backup write,
// out-of-band of the mutation path.
func New(store SettingsStore, snapshot func() types.Aggregate, log *zap.Logger) *Scheduler {
	s := &Scheduler{
		state:    StateIdle,
		settings: store.LoadBackupSettings(),
		snapshot: snapshot,
		store:    store,
		log:      log,
		now:      time.Now,
		probe:    probeWrite,
	}
	s.folder = s.settings.FolderName
	// A restart with backup enabled resumes immediately instead of sitting
	// in idle until the first tick.
	if s.settings.Enabled && s.folder != "" {
		if err := s.probe(s.folder); err != nil {
			s.log.Warn("backup folder not writable", zap.String("folder", s.folder), zap.Error(err))
			s.state = StatePermissionNeeded
		} else {
			s.state = StateRunning
		}
	}
	return s
}

// Start runs the polling loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(s.now())
		}
	}
}

// State returns the current state machine state.
func (s *Scheduler) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Settings returns a copy of the current backup settings.
func (s *Scheduler) Settings() types.BackupSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SelectFolder records dir as the backup folder, auto-enables backup, and
// moves to running. The write-permission probe runs immediately; a folder
// that cannot be written is rejected.
func (s *Scheduler) SelectFolder(dir string) error {
	if err := s.probe(dir); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.folder = dir
	s.settings.Enabled = true
	s.settings.FolderName = dir
	s.persistLocked()
	s.state = StateRunning
	return nil
}

// SetInterval updates the configured backup interval in minutes. Values
// below the minimum are clamped at write time by Interval.
func (s *Scheduler) SetInterval(minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.IntervalMinutes = minutes
	s.persistLocked()
}

// RequestPermission re-probes the folder after the user re-granted access.
// On success the scheduler returns to running.
func (s *Scheduler) RequestPermission() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.folder == "" {
		s.state = StateIdle
		return nil
	}
	if err := s.probe(s.folder); err != nil {
		s.state = StatePermissionNeeded
		return err
	}
	s.state = StateRunning
	return nil
}

// Disable turns backup off and moves to idle from any state. The last-backup
// timestamp and folder choice are kept.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Enabled = false
	s.persistLocked()
	s.state = StateIdle
}

// ClearFolder forgets the folder handle and moves to idle.
func (s *Scheduler) ClearFolder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folder = ""
	s.settings.Enabled = false
	s.settings.FolderName = ""
	s.persistLocked()
	s.state = StateIdle
}

// tick is one polling step. Permission is re-checked on every tick before
// any write: folder access can be revoked between ticks, and probing first
// degrades to a visible permission_needed state instead of a write failure.
func (s *Scheduler) tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settings.Enabled || s.folder == "" {
		s.state = StateIdle
		return
	}

	if err := s.probe(s.folder); err != nil {
		s.log.Warn("backup folder not writable", zap.String("folder", s.folder), zap.Error(err))
		s.state = StatePermissionNeeded
		return
	}
	s.state = StateRunning

	if now.Sub(s.settings.LastBackup) < s.settings.Interval() {
		return
	}

	if err := writeSnapshot(s.folder, s.snapshot(), now); err != nil {
		s.log.Warn("backup write failed", zap.String("folder", s.folder), zap.Error(err))
		s.state = StateError
		return
	}

	s.settings.LastBackup = now
	s.persistLocked()
}

func (s *Scheduler) persistLocked() {
	if err := s.store.SaveBackupSettings(s.settings); err != nil {
		s.log.Warn("persisting backup settings failed", zap.Error(err))
	}
}
