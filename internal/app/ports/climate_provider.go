package ports

import (
	"context"

	"mulchworks/internal/domain/climate"
	"mulchworks/internal/domain/compost"
)

// ClimateSnapshot is everything the simulation pulls from its environment on
// one tick: the game-clock position and the local weather at the pile.
type ClimateSnapshot struct {
	Hours       float64
	Season      climate.Season
	Sample      compost.ClimateSample
	RainExposed bool
}

type ClimateProvider interface {
	SnapshotForPile(ctx context.Context, pileID string) (ClimateSnapshot, error)
}
