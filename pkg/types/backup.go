package types

import "time"

// MinBackupIntervalMinutes is the floor applied to configured backup
// intervals.
const MinBackupIntervalMinutes = 1

// BackupSettings holds the periodic-backup configuration and the timestamp
// of the last successful snapshot write.
type BackupSettings struct {
	Enabled         bool      `json:"enabled"`
	IntervalMinutes int       `json:"interval_minutes"`
	LastBackup      time.Time `json:"last_backup,omitempty"`
	FolderName      string    `json:"folder_name,omitempty"`
}

// Interval returns the effective backup interval, clamped to the minimum.
func (b BackupSettings) Interval() time.Duration {
	minutes := b.IntervalMinutes
	if minutes < MinBackupIntervalMinutes {
		minutes = MinBackupIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}
