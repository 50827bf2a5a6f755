package tracker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/protrack-ai/protrack/pkg/types"
)

// Import validation errors.
var (
	ErrImportMalformed    = errors.New("import file is not valid JSON")
	ErrImportFieldMissing = errors.New("import file missing required field")
)

// exportSnapshot is the manual export/import shape. Off-days and app config
// are deliberately not part of it.
type exportSnapshot struct {
	Tasks        []types.Task        `json:"tasks"`
	Logs         []types.DailyLog    `json:"logs"`
	Observations []types.Observation `json:"observations,omitempty"`
}

// requiredImportFields must be present as top-level keys in an import file.
// observations is optional and defaults to empty.
var requiredImportFields = []string{"tasks", "logs"}

// Export produces a downloadable JSON snapshot of tasks, logs, and
// observations.
func (t *Tracker) Export() ([]byte, error) {
	agg := t.Snapshot()
	return json.MarshalIndent(exportSnapshot{
		Tasks:        agg.Tasks,
		Logs:         agg.Logs,
		Observations: agg.Observations,
	}, "", "  ")
}

// Import replaces tasks, logs, and observations from an exported snapshot,
// preserving off-days and app config. Malformed input or a missing required
// top-level field fails with a descriptive error and leaves state untouched.
func (t *Tracker) Import(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrImportMalformed, err)
	}
	for _, field := range requiredImportFields {
		if _, ok := raw[field]; !ok {
			return fmt.Errorf("%w: %q", ErrImportFieldMissing, field)
		}
	}

	var snap exportSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrImportMalformed, err)
	}

	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		agg.Tasks = snap.Tasks
		agg.Logs = snap.Logs
		agg.Observations = snap.Observations
		return agg, nil
	})
}
