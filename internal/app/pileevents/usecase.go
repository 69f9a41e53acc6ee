package pileevents

import (
	"context"
	"errors"
	"strings"

	"mulchworks/internal/app/ports"
	"mulchworks/internal/domain/compost"
)

var ErrInvalidRequest = errors.New("invalid pile events request")

// DefaultLimit caps the event listing when the caller does not ask for a
// specific window, so a long-lived pile cannot dump its whole history.
const DefaultLimit = 50

type Request struct {
	PileID string
	Limit  int
}

type Response struct {
	Events []compost.DomainEvent `json:"events"`
}

// UseCase lists a pile's recorded history, newest first.
type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.PileID = strings.TrimSpace(req.PileID)
	if req.PileID == "" || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	if req.Limit == 0 {
		req.Limit = DefaultLimit
	}

	events, err := u.Events.ListByPileID(ctx, req.PileID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	return Response{Events: events}, nil
}
