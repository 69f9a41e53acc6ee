package pilestatus

import (
	"context"
	"errors"
	"strings"

	"mulchworks/internal/app/pileview"
	"mulchworks/internal/app/ports"
	"mulchworks/internal/domain/compost"
)

var ErrInvalidRequest = errors.New("invalid pile status request")

type Request struct {
	PileID string
}

type Response struct {
	View pileview.View `json:"view"`
}

// UseCase assembles pile telemetry without mutating anything: the engine is
// rebuilt from the persisted record, queried, and discarded.
type UseCase struct {
	Piles   ports.PileRepository
	Climate ports.ClimateProvider
	Tuning  compost.Tuning
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.PileID = strings.TrimSpace(req.PileID)
	if req.PileID == "" {
		return Response{}, ErrInvalidRequest
	}

	record, err := u.Piles.GetByPileID(ctx, req.PileID)
	if err != nil {
		return Response{}, err
	}
	snap, err := u.Climate.SnapshotForPile(ctx, req.PileID)
	if err != nil {
		return Response{}, err
	}

	engine := compost.NewEngine(u.Tuning)
	engine.RestoreFromSnapshot(record.State)
	return Response{
		View: pileview.Derive(req.PileID, engine, record.GreenCount, record.BrownCount, snap),
	}, nil
}
