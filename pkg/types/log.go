package types

import "errors"

// ErrLogNotFound is returned by journal operations naming an unknown entry.
var ErrLogNotFound = errors.New("daily log not found")

// DailyLog is one journal entry. TaskID is a weak reference: deleting the
// task leaves the log behind, and consumers render the dangling reference
// as "Unknown".
type DailyLog struct {
	LogID   string `json:"log_id"`
	Date    string `json:"date"` // DateLayout
	TaskID  string `json:"task_id,omitempty"`
	Content string `json:"content"`
}
