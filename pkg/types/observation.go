package types

import (
	"errors"
	"time"
)

// ErrObservationNotFound is returned by observation operations naming an
// unknown observation.
var ErrObservationNotFound = errors.New("observation not found")

// Observation is a free-standing note that moves through the configured
// kanban columns independently of any task.
type Observation struct {
	ObservationID string       `json:"observation_id"`
	Timestamp     time.Time    `json:"timestamp"`
	Content       string       `json:"content"`
	Status        string       `json:"status"`
	Images        []Attachment `json:"images,omitempty"`
}
