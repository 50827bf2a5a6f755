package tracker

import (
	"github.com/google/uuid"

	"github.com/protrack-ai/protrack/pkg/types"
)

// AddObservation creates an observation in the first configured kanban
// column.
func (t *Tracker) AddObservation(content string, images []types.Attachment) (types.Observation, error) {
	var added types.Observation
	err := t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		status := ""
		if len(t.appConfig.ObservationColumns) > 0 {
			status = t.appConfig.ObservationColumns[0]
		}
		added = types.Observation{
			ObservationID: uuid.NewString(),
			Timestamp:     t.now(),
			Content:       content,
			Status:        status,
			Images:        images,
		}
		agg.Observations = append(agg.Observations, added)
		return agg, nil
	})
	return added, err
}

// EditObservation rewrites an observation's content.
func (t *Tracker) EditObservation(observationID, content string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := observationIndex(agg.Observations, observationID)
		if idx < 0 {
			return agg, types.ErrObservationNotFound
		}
		agg.Observations[idx].Content = content
		return agg, nil
	})
}

// MoveObservation advances or regresses an observation to another
// configured column.
func (t *Tracker) MoveObservation(observationID, column string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := observationIndex(agg.Observations, observationID)
		if idx < 0 {
			return agg, types.ErrObservationNotFound
		}
		if err := t.appConfig.CheckColumn(column); err != nil {
			return agg, err
		}
		agg.Observations[idx].Status = column
		return agg, nil
	})
}

// DeleteObservation removes an observation.
func (t *Tracker) DeleteObservation(observationID string) error {
	return t.mutate(func(agg types.Aggregate) (types.Aggregate, error) {
		idx := observationIndex(agg.Observations, observationID)
		if idx < 0 {
			return agg, types.ErrObservationNotFound
		}
		agg.Observations = append(agg.Observations[:idx], agg.Observations[idx+1:]...)
		return agg, nil
	})
}

func observationIndex(observations []types.Observation, id string) int {
	for i, o := range observations {
		if o.ObservationID == id {
			return i
		}
	}
	return -1
}
