package compost

import "time"

type Phase string

const (
	PhaseInactive Phase = "inactive"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

// ClimateSample is one synchronous reading from the climate collaborator.
type ClimateSample struct {
	TemperatureC float64 `json:"temperature_c"`
	Rainfall     float64 `json:"rainfall"` // 0..1
}

type DomainEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// UpdateInput carries the environmental readings the engine pulls from its
// collaborators on every tick. Green/brown counts are owned by the inventory
// side; the engine only reads them.
type UpdateInput struct {
	Climate     ClimateSample
	RainExposed bool
	GreenCount  int
	BrownCount  int
}

const pileStateSchemaVersion = 2

// PileState is the flat persisted record for one pile. The three model blocks
// are optional: a save written before the environmental models existed has
// none of them, which restore treats as an incompatible legacy save.
type PileState struct {
	SchemaVersion   int      `json:"schema_version"`
	StartHours      *float64 `json:"start_hours,omitempty"`
	LastUpdateHours float64  `json:"last_update_hours"`
	LastTurnHours   float64  `json:"last_turn_hours"`
	Progress        float64  `json:"progress"`
	Finished        bool     `json:"finished"`

	Moisture    *MoistureSnapshot    `json:"moisture,omitempty"`
	Aeration    *AerationSnapshot    `json:"aeration,omitempty"`
	Temperature *TemperatureSnapshot `json:"temperature,omitempty"`
}

type MoistureSnapshot struct {
	Level          *float64 `json:"level,omitempty"`
	LastCheckHours float64  `json:"last_check_hours"`
}

type AerationSnapshot struct {
	Level           *float64 `json:"level,omitempty"`
	LastUpdateHours float64  `json:"last_update_hours"`
	LastTurnHours   float64  `json:"last_turn_hours"`
}

type TemperatureSnapshot struct {
	InternalC       *float64 `json:"internal_c,omitempty"`
	AmbientC        *float64 `json:"ambient_c,omitempty"`
	LastUpdateHours float64  `json:"last_update_hours"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floatPtr(v float64) *float64 {
	return &v
}
