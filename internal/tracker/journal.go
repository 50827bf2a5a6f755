package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/protrack-ai/protrack/pkg/types"
)

// AddLog creates a journal entry directly, optionally referencing a task.
// The task reference is weak: it may name a task that no longer exists.
func (t *Tracker) AddLog(date, taskID, content string) (types.DailyLog, error) {
	var added types.DailyLog
	err := t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		if _, err := time.Parse(types.DateLayout, date); err != nil {
			return agg, fmt.Errorf("%w: %q", types.ErrBadDate, date)
		}
		added = types.DailyLog{
			LogID:   uuid.NewString(),
			Date:    date,
			TaskID:  taskID,
			Content: content,
		}
		agg.Logs = append(agg.Logs, added)
		return agg, nil
	})
	return added, err
}

// EditLog rewrites a journal entry. Journal edits are independent: they
// never reach back into the task update that spawned the entry, so a direct
// edit is how the pair diverges.
func (t *Tracker) EditLog(logID, content string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		for i, l := range agg.Logs {
			if l.LogID == logID {
				agg.Logs[i].Content = content
				return agg, nil
			}
		}
		return agg, types.ErrLogNotFound
	})
}

// DeleteLog removes a journal entry independently of any task update.
func (t *Tracker) DeleteLog(logID string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		for i, l := range agg.Logs {
			if l.LogID == logID {
				agg.Logs = append(agg.Logs[:i], agg.Logs[i+1:]...)
				return agg, nil
			}
		}
		return agg, types.ErrLogNotFound
	})
}

// PruneDanglingLogs removes journal entries whose task reference dangles
// (a non-empty task id naming no existing task) and reports how many were
// removed.
func (t *Tracker) PruneDanglingLogs() (int, error) {
	pruned := 0
	err := t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		kept := agg.Logs[:0]
		for _, l := range agg.Logs {
			if l.TaskID != "" && taskIndex(agg.Tasks, l.TaskID) < 0 {
				pruned++
				continue
			}
			kept = append(kept, l)
		}
		agg.Logs = kept
		return agg, nil
	})
	if err != nil {
		pruned = 0
	}
	return pruned, err
}

// ToggleOffDay flips whether a date is flagged as non-working.
func (t *Tracker) ToggleOffDay(date string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		if _, err := time.Parse(types.DateLayout, date); err != nil {
			return agg, fmt.Errorf("%w: %q", types.ErrBadDate, date)
		}
		for i, d := range agg.OffDays {
			if d == date {
				agg.OffDays = append(agg.OffDays[:i], agg.OffDays[i+1:]...)
				return agg, nil
			}
		}
		agg.OffDays = append(agg.OffDays, date)
		return agg, nil
	})
}
