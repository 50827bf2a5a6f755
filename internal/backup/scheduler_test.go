package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/pkg/types"
)

// memSettings is an in-memory SettingsStore.
type memSettings struct {
	settings types.BackupSettings
}

func (m *memSettings) LoadBackupSettings() types.BackupSettings         { return m.settings }
func (m *memSettings) SaveBackupSettings(b types.BackupSettings) error { m.settings = b; return nil }

func newTestScheduler(t *testing.T) (*Scheduler, string) {
	t.Helper()
	dir := t.TempDir()
	s := New(&memSettings{settings: types.BackupSettings{IntervalMinutes: 10}},
		func() types.Aggregate {
			return types.Aggregate{OffDays: []string{"2025-03-01"}}
		},
		zap.NewNop())
	require.NoError(t, s.SelectFolder(dir))
	return s, dir
}

func snapshotFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "protrack-") {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestSelectFolderEnablesAndRuns(t *testing.T) {
	s, dir := newTestScheduler(t)
	assert.Equal(t, StateRunning, s.State())
	assert.True(t, s.Settings().Enabled)
	assert.Equal(t, dir, s.Settings().FolderName)
}

func TestIntervalGating(t *testing.T) {
	s, dir := newTestScheduler(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// Last backup 5 minutes ago with a 10-minute interval: no write.
	s.settings.LastBackup = now.Add(-5 * time.Minute)
	s.tick(now)
	assert.Equal(t, StateRunning, s.State())
	assert.Empty(t, snapshotFiles(t, dir))
	assert.Equal(t, now.Add(-5*time.Minute), s.Settings().LastBackup)

	// Last backup 11 minutes ago: write, and record the new timestamp.
	s.settings.LastBackup = now.Add(-11 * time.Minute)
	s.tick(now)
	assert.Equal(t, StateRunning, s.State())
	assert.Len(t, snapshotFiles(t, dir), 1)
	assert.Equal(t, now, s.Settings().LastBackup)
}

func TestFirstTickWritesImmediately(t *testing.T) {
	s, dir := newTestScheduler(t)
	// Zero last-backup means the interval has long elapsed.
	s.tick(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	files := snapshotFiles(t, dir)
	require.Len(t, files, 1)
	assert.Equal(t, "protrack-20250310-120000.json", files[0])

	data, err := os.ReadFile(filepath.Join(dir, files[0]))
	require.NoError(t, err)
	assert.Contains(t, string(data), "2025-03-01")
}

func TestPermissionLossBetweenTicks(t *testing.T) {
	s, dir := newTestScheduler(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	s.settings.LastBackup = now.Add(-20 * time.Minute)
	last := s.settings.LastBackup

	// Permission revoked between ticks: no write attempt, timestamp kept.
	s.probe = func(string) error { return errors.New("permission revoked") }
	s.tick(now)
	assert.Equal(t, StatePermissionNeeded, s.State())
	assert.Empty(t, snapshotFiles(t, dir))
	assert.Equal(t, last, s.Settings().LastBackup)

	// Re-grant recovers to running and the next tick writes.
	s.probe = probeWrite
	require.NoError(t, s.RequestPermission())
	assert.Equal(t, StateRunning, s.State())
	s.tick(now)
	assert.Len(t, snapshotFiles(t, dir), 1)
}

func TestWriteFailureMovesToError(t *testing.T) {
	s, dir := newTestScheduler(t)
	// Probe passes but the write fails because the folder is gone.
	s.probe = func(string) error { return nil }
	require.NoError(t, os.RemoveAll(dir))

	s.tick(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, StateError, s.State())
	assert.True(t, s.Settings().LastBackup.IsZero())
}

func TestDisableMovesToIdle(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.Disable()
	assert.Equal(t, StateIdle, s.State())

	// Ticks while disabled stay idle and write nothing.
	s.tick(time.Now())
	assert.Equal(t, StateIdle, s.State())
}

func TestClearFolderMovesToIdle(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.ClearFolder()
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Settings().FolderName)
}

func TestNewResumesFromPersistedSettings(t *testing.T) {
	dir := t.TempDir()
	snapshot := func() types.Aggregate { return types.Aggregate{} }

	// Enabled settings with a writable folder resume running right away.
	s := New(&memSettings{settings: types.BackupSettings{
		Enabled:         true,
		IntervalMinutes: 10,
		FolderName:      dir,
	}}, snapshot, zap.NewNop())
	assert.Equal(t, StateRunning, s.State())

	// A folder that is no longer writable surfaces as permission_needed.
	s = New(&memSettings{settings: types.BackupSettings{
		Enabled:         true,
		IntervalMinutes: 10,
		FolderName:      filepath.Join(dir, "gone"),
	}}, snapshot, zap.NewNop())
	assert.Equal(t, StatePermissionNeeded, s.State())

	// Disabled settings stay idle regardless of the stored folder.
	s = New(&memSettings{settings: types.BackupSettings{
		IntervalMinutes: 10,
		FolderName:      dir,
	}}, snapshot, zap.NewNop())
	assert.Equal(t, StateIdle, s.State())
}
