package runtime

import (
	"context"
	"time"

	"mulchworks/internal/app/ports"
	"mulchworks/internal/domain/climate"
	"mulchworks/internal/domain/compost"
)

type Config struct {
	Clock climate.Clock
	Curve climate.Curve

	// RainExposure overrides the default per pile; piles built under a roof
	// never take rain.
	RainExposure       map[string]bool
	DefaultRainExposed bool

	Now func() time.Time
}

type Provider struct {
	cfg Config
}

func DefaultConfig() Config {
	return Config{
		Clock:              climate.DefaultClock(),
		Curve:              climate.DefaultCurve(),
		DefaultRainExposed: true,
		Now:                time.Now,
	}
}

func NewProvider(cfg Config) Provider {
	def := DefaultConfig()
	if cfg.Clock == (climate.Clock{}) {
		cfg.Clock = def.Clock
	}
	if cfg.Curve == (climate.Curve{}) {
		cfg.Curve = def.Curve
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	return Provider{cfg: cfg}
}

func (p Provider) SnapshotForPile(_ context.Context, pileID string) (ports.ClimateSnapshot, error) {
	hours := p.cfg.Clock.HoursAt(p.cfg.Now())

	exposed := p.cfg.DefaultRainExposed
	if v, ok := p.cfg.RainExposure[pileID]; ok {
		exposed = v
	}

	return ports.ClimateSnapshot{
		Hours:  hours,
		Season: climate.SeasonAt(hours),
		Sample: compost.ClimateSample{
			TemperatureC: p.cfg.Curve.TemperatureAt(hours),
			Rainfall:     p.cfg.Curve.RainfallAt(hours),
		},
		RainExposed: exposed,
	}, nil
}
