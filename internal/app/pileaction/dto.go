package pileaction

import (
	"mulchworks/internal/app/pileview"
	"mulchworks/internal/domain/compost"
)

type DepositRequest struct {
	PileID     string
	GreenCount int
	BrownCount int
}

type AmountRequest struct {
	PileID string
	Amount float64
}

type PileRequest struct {
	PileID string
}

type Response struct {
	View           pileview.View         `json:"view"`
	Events         []compost.DomainEvent `json:"events,omitempty"`
	StateReset     bool                  `json:"state_reset,omitempty"`
	HarvestedUnits int                   `json:"harvested_units,omitempty"`
}
