package gormrepo

import (
	"context"
	"errors"

	"mulchworks/internal/adapter/repo/gorm/model"
	"mulchworks/internal/app/ports"
	"mulchworks/internal/domain/compost"

	"gorm.io/gorm"
)

type PileRepo struct {
	db *gorm.DB
}

func NewPileRepo(db *gorm.DB) PileRepo {
	return PileRepo{db: db}
}

func (r PileRepo) GetByPileID(ctx context.Context, pileID string) (ports.PileRecord, error) {
	var row model.PileState
	if err := sessionFrom(ctx, r.db).Where("pile_id = ?", pileID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PileRecord{}, ports.ErrNotFound
		}
		return ports.PileRecord{}, err
	}
	return recordFromRow(row), nil
}

func (r PileRepo) SaveWithVersion(ctx context.Context, record ports.PileRecord, expectedVersion int64) error {
	db := sessionFrom(ctx, r.db)
	row := rowFromRecord(record)

	if expectedVersion == 0 {
		return db.Create(&row).Error
	}

	res := db.Model(&model.PileState{}).
		Where("pile_id = ? AND version = ?", record.PileID, expectedVersion).
		Updates(updateColumns(row))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r PileRepo) ListPileIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := sessionFrom(ctx, r.db).
		Model(&model.PileState{}).
		Order("pile_id").
		Pluck("pile_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func recordFromRow(row model.PileState) ports.PileRecord {
	state := compost.PileState{
		SchemaVersion:   row.SchemaVersion,
		StartHours:      row.StartHours,
		LastUpdateHours: row.LastUpdateHours,
		LastTurnHours:   row.LastTurnHours,
		Progress:        row.Progress,
		Finished:        row.Finished,
	}
	// NULL model columns stay absent in the snapshot so the engine's restore
	// path can apply its own defaulting and legacy detection.
	if row.MoistureLevel != nil {
		state.Moisture = &compost.MoistureSnapshot{
			Level:          row.MoistureLevel,
			LastCheckHours: row.MoistureLastCheckHours,
		}
	}
	if row.AerationLevel != nil {
		state.Aeration = &compost.AerationSnapshot{
			Level:           row.AerationLevel,
			LastUpdateHours: row.AerationLastUpdateHours,
			LastTurnHours:   row.AerationLastTurnHours,
		}
	}
	if row.TemperatureInternalC != nil || row.TemperatureAmbientC != nil {
		state.Temperature = &compost.TemperatureSnapshot{
			InternalC:       row.TemperatureInternalC,
			AmbientC:        row.TemperatureAmbientC,
			LastUpdateHours: row.TemperatureLastUpdateHours,
		}
	}
	return ports.PileRecord{
		PileID:     row.PileID,
		State:      state,
		GreenCount: row.GreenCount,
		BrownCount: row.BrownCount,
		Version:    row.Version,
		UpdatedAt:  row.UpdatedAt,
	}
}

func rowFromRecord(record ports.PileRecord) model.PileState {
	row := model.PileState{
		PileID:          record.PileID,
		SchemaVersion:   record.State.SchemaVersion,
		StartHours:      record.State.StartHours,
		LastUpdateHours: record.State.LastUpdateHours,
		LastTurnHours:   record.State.LastTurnHours,
		Progress:        record.State.Progress,
		Finished:        record.State.Finished,
		GreenCount:      record.GreenCount,
		BrownCount:      record.BrownCount,
		Version:         record.Version,
		UpdatedAt:       record.UpdatedAt,
	}
	if m := record.State.Moisture; m != nil {
		row.MoistureLevel = m.Level
		row.MoistureLastCheckHours = m.LastCheckHours
	}
	if a := record.State.Aeration; a != nil {
		row.AerationLevel = a.Level
		row.AerationLastUpdateHours = a.LastUpdateHours
		row.AerationLastTurnHours = a.LastTurnHours
	}
	if t := record.State.Temperature; t != nil {
		row.TemperatureInternalC = t.InternalC
		row.TemperatureAmbientC = t.AmbientC
		row.TemperatureLastUpdateHours = t.LastUpdateHours
	}
	return row
}

func updateColumns(row model.PileState) map[string]any {
	return map[string]any{
		"schema_version":                row.SchemaVersion,
		"start_hours":                   row.StartHours,
		"last_update_hours":             row.LastUpdateHours,
		"last_turn_hours":               row.LastTurnHours,
		"progress":                      row.Progress,
		"finished":                      row.Finished,
		"moisture_level":                row.MoistureLevel,
		"moisture_last_check_hours":     row.MoistureLastCheckHours,
		"aeration_level":                row.AerationLevel,
		"aeration_last_update_hours":    row.AerationLastUpdateHours,
		"aeration_last_turn_hours":      row.AerationLastTurnHours,
		"temperature_internal_c":        row.TemperatureInternalC,
		"temperature_ambient_c":         row.TemperatureAmbientC,
		"temperature_last_update_hours": row.TemperatureLastUpdateHours,
		"green_count":                   row.GreenCount,
		"brown_count":                   row.BrownCount,
		"version":                       row.Version,
		"updated_at":                    row.UpdatedAt,
	}
}
