package tracker

import (
	"github.com/google/uuid"

	"github.com/protrack-ai/protrack/pkg/types"
)

// TaskInput carries the caller-editable task fields.
type TaskInput struct {
	DisplayID   string `json:"display_id"`
	Source      string `json:"source"`
	ProjectID   string `json:"project_id"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// CreateTask validates the display id against the current aggregate and
// appends a new task. Duplicate display ids (case-insensitive) are rejected
// without mutating state, as are status or priority values outside the
// configured sets. Empty status and priority default to the first configured
// value.
func (t *Tracker) CreateTask(in TaskInput) (types.Task, error) {
	var created types.Task
	err := t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		if err := types.ValidateDisplayID(agg.Tasks, in.DisplayID, ""); err != nil {
			return agg, err
		}
		if err := t.checkStatusPriority(in.Status, in.Priority); err != nil {
			return agg, err
		}
		status := in.Status
		if status == "" && len(t.appConfig.Statuses) > 0 {
			status = t.appConfig.Statuses[0]
		}
		priority := in.Priority
		if priority == "" && len(t.appConfig.Priorities) > 0 {
			priority = t.appConfig.Priorities[0]
		}

		created = types.Task{
			TaskID:      uuid.NewString(),
			DisplayID:   in.DisplayID,
			Source:      in.Source,
			ProjectID:   in.ProjectID,
			Description: in.Description,
			DueDate:     in.DueDate,
			Status:      status,
			Priority:    priority,
			Updates:     []types.Update{},
			SortOrder:   nextSortOrder(agg.Tasks, in.DueDate),
			CreatedAt:   t.now(),
		}
		agg.Tasks = append(agg.Tasks, created)
		return agg, nil
	})
	return created, err
}

// checkStatusPriority validates caller-supplied status and priority values
// against the configured sets. Empty values pass: they default later.
func (t *Tracker) checkStatusPriority(status, priority string) error {
	if status != "" {
		if err := t.appConfig.CheckStatus(status); err != nil {
			return err
		}
	}
	if priority != "" {
		if err := t.appConfig.CheckPriority(priority); err != nil {
			return err
		}
	}
	return nil
}

// nextSortOrder places a new task after the existing tasks sharing its due
// date. Manual order is only meaningful within one due date.
func nextSortOrder(tasks []types.Task, dueDate string) int {
	order := 0
	for _, task := range tasks {
		if task.DueDate == dueDate && task.SortOrder >= order {
			order = task.SortOrder + 1
		}
	}
	return order
}

// EditTask replaces the editable fields of a task. Changing the display id
// to one that collides with another task (excluding itself) is rejected.
func (t *Tracker) EditTask(taskID string, in TaskInput) (types.Task, error) {
	var edited types.Task
	err := t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := taskIndex(agg.Tasks, taskID)
		if idx < 0 {
			return agg, types.ErrTaskNotFound
		}
		if err := types.ValidateDisplayID(agg.Tasks, in.DisplayID, taskID); err != nil {
			return agg, err
		}
		if err := t.checkStatusPriority(in.Status, in.Priority); err != nil {
			return agg, err
		}

		task := agg.Tasks[idx]
		task.DisplayID = in.DisplayID
		task.Source = in.Source
		task.ProjectID = in.ProjectID
		task.Description = in.Description
		task.DueDate = in.DueDate
		if in.Status != "" {
			task.Status = in.Status
		}
		if in.Priority != "" {
			task.Priority = in.Priority
		}
		agg.Tasks[idx] = task
		edited = task
		return agg, nil
	})
	return edited, err
}

// SetTaskStatus moves a task to another configured status value.
func (t *Tracker) SetTaskStatus(taskID, status string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := taskIndex(agg.Tasks, taskID)
		if idx < 0 {
			return agg, types.ErrTaskNotFound
		}
		if err := t.appConfig.CheckStatus(status); err != nil {
			return agg, err
		}
		agg.Tasks[idx].Status = status
		return agg, nil
	})
}

// SetTaskSortOrder records a new manual position for the task within its
// due-date group.
func (t *Tracker) SetTaskSortOrder(taskID string, order int) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := taskIndex(agg.Tasks, taskID)
		if idx < 0 {
			return agg, types.ErrTaskNotFound
		}
		agg.Tasks[idx].SortOrder = order
		return agg, nil
	})
}

// DeleteTask removes the task. Daily logs referencing it are kept and left
// dangling; PruneDanglingLogs removes them in bulk.
func (t *Tracker) DeleteTask(taskID string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := taskIndex(agg.Tasks, taskID)
		if idx < 0 {
			return agg, types.ErrTaskNotFound
		}
		agg.Tasks = append(agg.Tasks[:idx], agg.Tasks[idx+1:]...)
		return agg, nil
	})
}

// SuggestDisplayID proposes the next display id for a project from the
// current aggregate.
func (t *Tracker) SuggestDisplayID(projectID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return types.NextDisplayID(t.agg.Tasks, projectID)
}

// AddTaskUpdate appends a progress update to the task and, as a side
// effect, appends a daily log entry with the same content for the update's
// date.
func (t *Tracker) AddTaskUpdate(taskID, content, highlightTag string, attachments []types.Attachment) (types.Update, error) {
	var added types.Update
	err := t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := taskIndex(agg.Tasks, taskID)
		if idx < 0 {
			return agg, types.ErrTaskNotFound
		}

		now := t.now()
		added = types.Update{
			ID:           uuid.NewString(),
			Timestamp:    now,
			Content:      content,
			Attachments:  attachments,
			HighlightTag: highlightTag,
		}
		agg.Tasks[idx].Updates = append(agg.Tasks[idx].Updates, added)
		agg.Logs = append(agg.Logs, types.DailyLog{
			LogID:   uuid.NewString(),
			Date:    now.Format(types.DateLayout),
			TaskID:  taskID,
			Content: content,
		})
		return agg, nil
	})
	return added, err
}

// EditTaskUpdate rewrites an update's content and highlight tag. While a
// daily log and the update it spawned are still textually identical, the
// log is rewritten along with the update; once their texts diverge they
// live independent lives.
func (t *Tracker) EditTaskUpdate(taskID, updateID, content, highlightTag string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := taskIndex(agg.Tasks, taskID)
		if idx < 0 {
			return agg, types.ErrTaskNotFound
		}
		task := agg.Tasks[idx]
		for i, u := range task.Updates {
			if u.ID != updateID {
				continue
			}
			for j, l := range agg.Logs {
				if l.TaskID == taskID && l.Content == u.Content {
					agg.Logs[j].Content = content
					break
				}
			}
			task.Updates[i].Content = content
			task.Updates[i].HighlightTag = highlightTag
			agg.Tasks[idx] = task
			return agg, nil
		}
		return agg, types.ErrUpdateNotFound
	})
}

// DeleteTaskUpdate removes an update. The daily log it spawned, if any, is
// kept; journal entries are deleted through the journal operations.
func (t *Tracker) DeleteTaskUpdate(taskID, updateID string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := taskIndex(agg.Tasks, taskID)
		if idx < 0 {
			return agg, types.ErrTaskNotFound
		}
		updates := agg.Tasks[idx].Updates
		for i, u := range updates {
			if u.ID == updateID {
				agg.Tasks[idx].Updates = append(updates[:i], updates[i+1:]...)
				return agg, nil
			}
		}
		return agg, types.ErrUpdateNotFound
	})
}

func taskIndex(tasks []types.Task, taskID string) int {
	for i, task := range tasks {
		if task.TaskID == taskID {
			return i
		}
	}
	return -1
}
