package report

import (
	"time"

	"github.com/protrack-ai/protrack/pkg/types"
)

// WeekStart returns midnight of the most recent Monday at or before t, in
// t's location.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// inWeek reports whether date (DateLayout) falls in the week starting at
// start. Unparseable dates are excluded.
func inWeek(date string, start time.Time) bool {
	d, err := time.ParseInLocation(types.DateLayout, date, start.Location())
	if err != nil {
		return false
	}
	return !d.Before(start) && d.Before(start.AddDate(0, 0, 7))
}

// tasksForWeek selects tasks touched during the week: due that week or
// carrying an update timestamped inside it.
func tasksForWeek(tasks []types.Task, start time.Time) []types.Task {
	end := start.AddDate(0, 0, 7)
	var out []types.Task
	for _, task := range tasks {
		if inWeek(task.DueDate, start) {
			out = append(out, task)
			continue
		}
		for _, u := range task.Updates {
			if !u.Timestamp.Before(start) && u.Timestamp.Before(end) {
				out = append(out, task)
				break
			}
		}
	}
	return out
}

// logsForWeek selects daily logs dated inside the week starting at start.
func logsForWeek(logs []types.DailyLog, start time.Time) []types.DailyLog {
	var out []types.DailyLog
	for _, l := range logs {
		if inWeek(l.Date, start) {
			out = append(out, l)
		}
	}
	return out
}
