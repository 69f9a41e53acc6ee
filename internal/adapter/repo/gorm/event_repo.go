package gormrepo

import (
	"context"
	"encoding/json"

	"mulchworks/internal/adapter/repo/gorm/model"
	"mulchworks/internal/app/ports"
	"mulchworks/internal/domain/compost"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, pileID string, events []compost.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.PileEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.PileEvent{
			PileID:     pileID,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return sessionFrom(ctx, r.db).Create(&rows).Error
}

func (r EventRepo) ListByPileID(ctx context.Context, pileID string, limit int) ([]compost.DomainEvent, error) {
	rows := []model.PileEvent{}
	query := sessionFrom(ctx, r.db).
		Where(&model.PileEvent{PileID: pileID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "occurred_at"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]compost.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, compost.DomainEvent{
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
