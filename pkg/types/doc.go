// Package types defines the ProTrack entity types (Task, DailyLog,
// Observation, AppConfig, BackupSettings, RemoteConfig), the Aggregate
// persistence unit, and the standard errors shared across components.
package types
