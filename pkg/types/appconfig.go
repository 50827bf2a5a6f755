package types

import (
	"errors"
	"slices"
)

// AppConfig validation errors.
var (
	ErrUnknownStatus   = errors.New("status not in configured set")
	ErrUnknownPriority = errors.New("priority not in configured set")
	ErrUnknownColumn   = errors.New("observation column not in configured set")
)

// HighlightTag is a configured (color, label) pair attachable to an Update
// to flag significance.
type HighlightTag struct {
	TagID string `json:"tag_id"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// AppConfig holds the runtime-editable configuration: the allowed status,
// priority, and observation-column values, per-value display color
// overrides, and highlight tag definitions. These are open string sets, not
// closed enumerations; the configuration surface may add or remove values
// at any time.
type AppConfig struct {
	Statuses           []string          `json:"statuses"`
	Priorities         []string          `json:"priorities"`
	ObservationColumns []string          `json:"observation_columns"`
	Colors             map[string]string `json:"colors,omitempty"`
	HighlightTags      []HighlightTag    `json:"highlight_tags,omitempty"`
}

// DefaultAppConfig returns the configuration used when no stored
// configuration exists or the stored blob fails to parse.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Statuses:           []string{"Backlog", "In Progress", "Blocked", "Done"},
		Priorities:         []string{"Low", "Medium", "High", "Urgent"},
		ObservationColumns: []string{"New", "Investigating", "Resolved"},
		HighlightTags: []HighlightTag{
			{TagID: "important", Color: "#f59e0b", Label: "Important"},
		},
	}
}

// CheckStatus reports whether s is in the configured status set.
func (c AppConfig) CheckStatus(s string) error {
	if !slices.Contains(c.Statuses, s) {
		return ErrUnknownStatus
	}
	return nil
}

// CheckPriority reports whether p is in the configured priority set.
func (c AppConfig) CheckPriority(p string) error {
	if !slices.Contains(c.Priorities, p) {
		return ErrUnknownPriority
	}
	return nil
}

// CheckColumn reports whether col is a configured observation column.
func (c AppConfig) CheckColumn(col string) error {
	if !slices.Contains(c.ObservationColumns, col) {
		return ErrUnknownColumn
	}
	return nil
}
