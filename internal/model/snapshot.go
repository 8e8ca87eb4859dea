package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the result of the single startup fetch. It is never mutated
// after the loader returns it.
type Snapshot struct {
	ID         string          `json:"id"`
	TakenAt    time.Time       `json:"taken_at"`
	Source     string          `json:"source"`
	Degraded   bool            `json:"degraded"`
	FetchError string          `json:"fetch_error,omitempty"`
	Sensors    []DisplaySensor `json:"sensors"`
}

func NewSnapshot(source string, takenAt time.Time, sensors []DisplaySensor) *Snapshot {
	if sensors == nil {
		sensors = []DisplaySensor{}
	}
	return &Snapshot{
		ID:      uuid.New().String(),
		TakenAt: takenAt.UTC(),
		Source:  source,
		Sensors: sensors,
	}
}

func (s *Snapshot) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

func SnapshotFromJSON(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
