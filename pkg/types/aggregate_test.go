package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateNormalize(t *testing.T) {
	a := Aggregate{}.Normalize()
	assert.NotNil(t, a.Tasks)
	assert.NotNil(t, a.Logs)
	assert.NotNil(t, a.Observations)
	assert.NotNil(t, a.OffDays)
	assert.Equal(t, EmptyAggregate(), a)
}

func TestAggregateClone(t *testing.T) {
	orig := Aggregate{
		Tasks: []Task{{
			TaskID:    "t1",
			DisplayID: "PRJ-1",
			Updates: []Update{{
				ID:        "u1",
				Timestamp: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
				Content:   "started",
			}},
		}},
		Logs:         []DailyLog{{LogID: "l1", Date: "2025-03-03", TaskID: "t1", Content: "started"}},
		Observations: []Observation{{ObservationID: "o1", Status: "New"}},
		OffDays:      []string{"2025-03-01"},
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone.Tasks[0].Updates[0].Content = "changed"
	clone.Logs[0].Content = "changed"
	clone.OffDays[0] = "2025-04-01"

	assert.Equal(t, "started", orig.Tasks[0].Updates[0].Content)
	assert.Equal(t, "started", orig.Logs[0].Content)
	assert.Equal(t, "2025-03-01", orig.OffDays[0])
}

func TestAppConfigChecks(t *testing.T) {
	cfg := DefaultAppConfig()

	assert.NoError(t, cfg.CheckStatus("Backlog"))
	assert.ErrorIs(t, cfg.CheckStatus("Shipped"), ErrUnknownStatus)
	assert.NoError(t, cfg.CheckPriority("High"))
	assert.ErrorIs(t, cfg.CheckPriority("P0"), ErrUnknownPriority)
	assert.NoError(t, cfg.CheckColumn("Investigating"))
	assert.ErrorIs(t, cfg.CheckColumn("Archived"), ErrUnknownColumn)

	// Configured sets are open: adding a value at runtime makes it valid.
	cfg.Statuses = append(cfg.Statuses, "Shipped")
	assert.NoError(t, cfg.CheckStatus("Shipped"))
}
