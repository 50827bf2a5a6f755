// Package store implements the local persistence layer: a small set of
// independently keyed text blobs (aggregate state, app config, backup
// settings, remote-sync config, AI key, report instructions, sort mode)
// written synchronously to a pluggable key-value backend.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/pkg/types"
)

// Supported backend names.
const (
	BackendDisk   = "disk"
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendDisk:   true,
	BackendSQLite: true,
}

// Config holds backend selection and parameters for Open.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// Keys under which the blobs are stored. Each key loads independently and
// tolerates absence and corruption.
const (
	keyState        = "protrack.state"
	keyAppConfig    = "protrack.config"
	keyBackup       = "protrack.backup"
	keyRemote       = "protrack.remote"
	keyAPIKey       = "protrack.gemini_key"
	keyInstructions = "protrack.report_instructions"
	keySortMode     = "protrack.sort_mode"
)

// DefaultSortMode is the sort-mode preference used when none is stored.
const DefaultSortMode = "due_date"

// Backend is the raw key-value contract implemented by the disk and sqlite
// backends. Read reports ok=false when the key is absent.
type Backend interface {
	Read(key string) (value []byte, ok bool, err error)
	Write(key string, value []byte) error
	Close() error
}

// Store wraps a Backend with JSON encoding and the fallback-on-corruption
// load policy: a blob that is missing or fails to parse loads as its
// documented default and is never surfaced as an error.
type Store struct {
	backend Backend
	log     *zap.Logger
}

// Open validates cfg, creates the data directory, and opens the selected
// backend.
func Open(cfg Config, log *zap.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case BackendDisk:
		backend = newDiskBackend(dataDir)
	case BackendSQLite:
		backend, err = newSQLiteBackend(dataDir)
	}
	if err != nil {
		return nil, err
	}

	return &Store{backend: backend, log: log}, nil
}

// Close releases backend resources.
func (s *Store) Close() error {
	return s.backend.Close()
}

// SaveAggregate serializes the full aggregate and writes it under the state
// key. Writing the same aggregate twice leaves the stored value unchanged.
func (s *Store) SaveAggregate(a types.Aggregate) error {
	return s.saveJSON(keyState, a.Normalize())
}

// LoadAggregate reads the aggregate. Absence or corruption loads as the
// empty aggregate; the problem is logged for diagnostics only.
func (s *Store) LoadAggregate() types.Aggregate {
	var a types.Aggregate
	if !s.loadJSON(keyState, &a) {
		return types.EmptyAggregate()
	}
	return a.Normalize()
}

// SaveAppConfig writes the app configuration blob.
func (s *Store) SaveAppConfig(c types.AppConfig) error {
	return s.saveJSON(keyAppConfig, c)
}

// LoadAppConfig reads the app configuration, defaulting on absence or
// corruption.
func (s *Store) LoadAppConfig() types.AppConfig {
	var c types.AppConfig
	if !s.loadJSON(keyAppConfig, &c) {
		return types.DefaultAppConfig()
	}
	return c
}

// SaveBackupSettings writes the backup settings blob.
func (s *Store) SaveBackupSettings(b types.BackupSettings) error {
	return s.saveJSON(keyBackup, b)
}

// LoadBackupSettings reads the backup settings, defaulting to a disabled
// hourly schedule.
func (s *Store) LoadBackupSettings() types.BackupSettings {
	var b types.BackupSettings
	if !s.loadJSON(keyBackup, &b) {
		return types.BackupSettings{IntervalMinutes: 60}
	}
	return b
}

// SaveRemoteConfig writes the remote-sync credentials blob.
func (s *Store) SaveRemoteConfig(c types.RemoteConfig) error {
	return s.saveJSON(keyRemote, c)
}

// LoadRemoteConfig reads the remote-sync credentials. ok is false when none
// are stored or the blob is corrupt.
func (s *Store) LoadRemoteConfig() (types.RemoteConfig, bool) {
	var c types.RemoteConfig
	if !s.loadJSON(keyRemote, &c) {
		return types.RemoteConfig{}, false
	}
	return c, true
}

// SaveAPIKey writes the AI-provider API key.
func (s *Store) SaveAPIKey(key string) error {
	return s.backend.Write(keyAPIKey, []byte(key))
}

// LoadAPIKey reads the AI-provider API key, empty when absent.
func (s *Store) LoadAPIKey() string {
	return s.loadText(keyAPIKey, "")
}

// SaveReportInstructions writes the custom report-instruction string.
func (s *Store) SaveReportInstructions(text string) error {
	return s.backend.Write(keyInstructions, []byte(text))
}

// LoadReportInstructions reads the custom report-instruction string, empty
// when absent.
func (s *Store) LoadReportInstructions() string {
	return s.loadText(keyInstructions, "")
}

// SaveSortMode writes the UI sort-mode preference.
func (s *Store) SaveSortMode(mode string) error {
	return s.backend.Write(keySortMode, []byte(mode))
}

// LoadSortMode reads the UI sort-mode preference, defaulting when absent.
func (s *Store) LoadSortMode() string {
	return s.loadText(keySortMode, DefaultSortMode)
}

func (s *Store) saveJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.backend.Write(key, data)
}

// loadJSON reads and decodes key into target. It returns false when the key
// is absent or the stored text does not parse; the caller applies the
// default.
func (s *Store) loadJSON(key string, target any) bool {
	data, ok, err := s.backend.Read(key)
	if err != nil {
		s.log.Debug("store read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		s.log.Debug("store blob corrupt, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) loadText(key, fallback string) string {
	data, ok, err := s.backend.Read(key)
	if err != nil {
		s.log.Debug("store read failed", zap.String("key", key), zap.Error(err))
		return fallback
	}
	if !ok || len(data) == 0 {
		return fallback
	}
	return string(data)
}
