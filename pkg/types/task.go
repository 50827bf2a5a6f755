package types

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Task entity errors.
var (
	ErrDuplicateDisplayID = errors.New("display id already in use")
	ErrDisplayIDEmpty     = errors.New("display id must not be empty")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUpdateNotFound     = errors.New("task update not found")
	ErrBadDate            = errors.New("date is not a valid calendar date")
)

// DateLayout is the calendar-date encoding used for due dates, daily log
// dates, and off-days.
const DateLayout = "2006-01-02"

// Attachment is a named binary blob embedded in a task or update.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data,omitempty"`
}

// Update is one dated progress note on a task. Updates are append-only from
// the caller's perspective except for explicit edit and delete operations.
type Update struct {
	ID          string       `json:"id"`
	Timestamp   time.Time    `json:"timestamp"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	// HighlightTag references an AppConfig highlight tag id; empty means
	// no highlight.
	HighlightTag string `json:"highlight_tag,omitempty"`
}

// Task represents a tracked work item.
type Task struct {
	TaskID      string       `json:"task_id"`
	DisplayID   string       `json:"display_id"`
	Source      string       `json:"source"`
	ProjectID   string       `json:"project_id"`
	Description string       `json:"description"`
	DueDate     string       `json:"due_date,omitempty"` // DateLayout, empty when absent
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	Updates     []Update     `json:"updates"`
	Attachments []Attachment `json:"attachments,omitempty"`
	// SortOrder is the manual ordering position, meaningful only among
	// tasks sharing a due date.
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateDisplayID checks that candidate is non-empty and does not collide
// case-insensitively with any task's display id other than excludeTaskID.
// Pass an empty excludeTaskID when validating a new task.
func ValidateDisplayID(tasks []Task, candidate, excludeTaskID string) error {
	if strings.TrimSpace(candidate) == "" {
		return ErrDisplayIDEmpty
	}
	for _, t := range tasks {
		if t.TaskID == excludeTaskID {
			continue
		}
		if strings.EqualFold(t.DisplayID, candidate) {
			return ErrDuplicateDisplayID
		}
	}
	return nil
}

// NextDisplayID proposes the next display id for a project. It scans tasks
// sharing projectID, parses the trailing numeric segment of each display id
// (after the last "-"), and returns "<projectID>-<max+1>". Display ids with
// non-numeric tails are skipped, not counted as zero. With no numeric tails
// at all the proposal is "<projectID>-1".
func NextDisplayID(tasks []Task, projectID string) string {
	max := 0
	for _, t := range tasks {
		if t.ProjectID != projectID {
			continue
		}
		idx := strings.LastIndex(t.DisplayID, "-")
		if idx < 0 || idx == len(t.DisplayID)-1 {
			continue
		}
		n, err := strconv.Atoi(t.DisplayID[idx+1:])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return projectID + "-" + strconv.Itoa(max+1)
}
