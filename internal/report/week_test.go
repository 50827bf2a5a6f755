package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/pkg/types"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		now  string
		want string
	}{
		{name: "wednesday", now: "2025-03-05", want: "2025-03-03"},
		{name: "monday is its own week start", now: "2025-03-03", want: "2025-03-03"},
		{name: "sunday belongs to the previous monday", now: "2025-03-09", want: "2025-03-03"},
		{name: "saturday", now: "2025-03-08", want: "2025-03-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now, err := time.Parse(types.DateLayout, tt.now)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, WeekStart(now).Format(types.DateLayout))
		})
	}
}

func TestWeekFilters(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	tasks := []types.Task{
		{TaskID: "due-this-week", DueDate: "2025-03-07"},
		{TaskID: "due-next-week", DueDate: "2025-03-12"},
		{TaskID: "updated-this-week", Updates: []types.Update{
			{Timestamp: time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)},
		}},
		{TaskID: "updated-last-week", Updates: []types.Update{
			{Timestamp: time.Date(2025, 2, 26, 10, 0, 0, 0, time.UTC)},
		}},
		{TaskID: "no-date"},
	}
	got := tasksForWeek(tasks, start)
	ids := make([]string, len(got))
	for i, task := range got {
		ids[i] = task.TaskID
	}
	assert.Equal(t, []string{"due-this-week", "updated-this-week"}, ids)

	logs := []types.DailyLog{
		{LogID: "in", Date: "2025-03-03"},
		{LogID: "boundary-out", Date: "2025-03-10"},
		{LogID: "before", Date: "2025-03-02"},
		{LogID: "bad", Date: "bogus"},
	}
	gotLogs := logsForWeek(logs, start)
	assert.Len(t, gotLogs, 1)
	assert.Equal(t, "in", gotLogs[0].LogID)
}

func TestNewRequiresCredential(t *testing.T) {
	_, err := New(context.Background(), "", "", zap.NewNop())
	assert.ErrorIs(t, err, ErrCredentialMissing)
}

func TestBuildWeeklyPrompt(t *testing.T) {
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	agg := types.Aggregate{
		Tasks: []types.Task{{
			TaskID:      "t1",
			DisplayID:   "PRJ-1",
			Description: "ship parser",
			Status:      "In Progress",
			Priority:    "High",
			DueDate:     "2025-03-06",
			Updates: []types.Update{{
				Timestamp: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC),
				Content:   "half done",
			}},
		}},
		Logs: []types.DailyLog{
			{Date: "2025-03-04", Content: "paired on parser"},
			{Date: "2025-02-20", Content: "old entry"},
		},
	}

	prompt := buildWeeklyPrompt(agg, "keep it under 200 words", now)
	assert.Contains(t, prompt, "week starting 2025-03-03")
	assert.Contains(t, prompt, "PRJ-1")
	assert.Contains(t, prompt, "half done")
	assert.Contains(t, prompt, "paired on parser")
	assert.NotContains(t, prompt, "old entry")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "keep it under 200 words"))
}
