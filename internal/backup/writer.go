package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/protrack-ai/protrack/pkg/types"
)

// snapshotNameLayout names snapshot files by date and time so successive
// backups never overwrite each other.
const snapshotNameLayout = "20060102-150405"

// probeWrite checks that dir is writable by creating and removing a probe
// file. Any failure is treated as missing permission.
func probeWrite(dir string) error {
	probe := filepath.Join(dir, ".protrack-probe")
	f, err := os.OpenFile(probe, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("probing %s: %w", dir, err)
	}
	f.Close()
	return os.Remove(probe)
}

// writeSnapshot atomically writes the full aggregate to a timestamp-named
// file in dir using the temp-file, fsync, rename pattern.
func writeSnapshot(dir string, agg types.Aggregate, now time.Time) error {
	data, err := json.MarshalIndent(agg.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing snapshot: %w", err)
	}

	name := fmt.Sprintf("protrack-%s.json", now.Format(snapshotNameLayout))
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming snapshot: %w", err)
	}
	return nil
}
