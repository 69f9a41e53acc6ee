package model

import "time"

// PileState is the persisted row for one pile: the engine's flat scalar
// fields plus the deposited material counts. The nullable model columns carry
// the optionality the restore path needs: a legacy row has NULLs where the
// environmental models should be.
type PileState struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	PileID string `gorm:"column:pile_id;uniqueIndex;size:64"`

	SchemaVersion   int      `gorm:"column:schema_version"`
	StartHours      *float64 `gorm:"column:start_hours"`
	LastUpdateHours float64  `gorm:"column:last_update_hours"`
	LastTurnHours   float64  `gorm:"column:last_turn_hours"`
	Progress        float64  `gorm:"column:progress"`
	Finished        bool     `gorm:"column:finished"`

	MoistureLevel          *float64 `gorm:"column:moisture_level"`
	MoistureLastCheckHours float64  `gorm:"column:moisture_last_check_hours"`

	AerationLevel           *float64 `gorm:"column:aeration_level"`
	AerationLastUpdateHours float64  `gorm:"column:aeration_last_update_hours"`
	AerationLastTurnHours   float64  `gorm:"column:aeration_last_turn_hours"`

	TemperatureInternalC       *float64 `gorm:"column:temperature_internal_c"`
	TemperatureAmbientC        *float64 `gorm:"column:temperature_ambient_c"`
	TemperatureLastUpdateHours float64  `gorm:"column:temperature_last_update_hours"`

	GreenCount int `gorm:"column:green_count"`
	BrownCount int `gorm:"column:brown_count"`

	Version   int64     `gorm:"column:version"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (PileState) TableName() string {
	return "pile_states"
}

type PileEvent struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	PileID     string    `gorm:"column:pile_id;index;size:64"`
	Type       string    `gorm:"column:type;size:64"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
	Payload    []byte    `gorm:"column:payload;type:jsonb"`
}

func (PileEvent) TableName() string {
	return "pile_events"
}
