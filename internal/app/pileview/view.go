package pileview

import (
	"mulchworks/internal/app/ports"
	"mulchworks/internal/domain/compost"
)

type ModelView struct {
	Level float64 `json:"level"`
	State string  `json:"state"`
}

type TemperatureView struct {
	InternalC float64 `json:"internal_c"`
	AmbientC  float64 `json:"ambient_c"`
	State     string  `json:"state"`
}

type ClimateView struct {
	Season       string  `json:"season"`
	TemperatureC float64 `json:"temperature_c"`
	Rainfall     float64 `json:"rainfall"`
	RainExposed  bool    `json:"rain_exposed"`
}

// View is the read-only telemetry record for one pile, assembled from the
// engine's queries without mutating it.
type View struct {
	PileID          string  `json:"pile_id"`
	Phase           string  `json:"phase"`
	ProgressPercent float64 `json:"progress_percent"`
	Finished        bool    `json:"finished"`
	ElapsedHours    float64 `json:"elapsed_hours"`
	RemainingHours  float64 `json:"remaining_hours"`
	SpeedMultiplier float64 `json:"speed_multiplier"`

	GreenCount int `json:"green_count"`
	BrownCount int `json:"brown_count"`
	Capacity   int `json:"capacity"`

	CNRatio   float64 `json:"cn_ratio"`
	CNQuality string  `json:"cn_quality"`

	Moisture    ModelView       `json:"moisture"`
	Aeration    ModelView       `json:"aeration"`
	Temperature TemperatureView `json:"temperature"`
	Climate     ClimateView     `json:"climate"`

	CanTurn                    bool    `json:"can_turn"`
	TurnCooldownRemainingHours float64 `json:"turn_cooldown_remaining_hours"`
}

func Derive(pileID string, engine *compost.Engine, green, brown int, snap ports.ClimateSnapshot) View {
	tuning := engine.Tuning()
	ratio := compost.CNRatio(green, brown, tuning)
	speed := speedMultiplier(engine, ratio, green+brown, tuning)
	return View{
		PileID:          pileID,
		Phase:           string(engine.Phase()),
		ProgressPercent: engine.ProgressPercent(),
		Finished:        engine.IsFinished(),
		ElapsedHours:    engine.ElapsedHours(snap.Hours),
		RemainingHours:  remainingHours(engine, speed, tuning),
		SpeedMultiplier: speed,

		GreenCount: green,
		BrownCount: brown,
		Capacity:   tuning.PileCapacity,

		CNRatio:   ratio,
		CNQuality: compost.CNQuality(ratio, tuning),

		Moisture: ModelView{Level: engine.MoistureLevel(), State: engine.MoistureState()},
		Aeration: ModelView{Level: engine.AerationLevel(), State: engine.AerationState()},
		Temperature: TemperatureView{
			InternalC: engine.TemperatureC(),
			AmbientC:  engine.AmbientC(),
			State:     engine.TemperatureState(),
		},
		Climate: ClimateView{
			Season:       string(snap.Season),
			TemperatureC: snap.Sample.TemperatureC,
			Rainfall:     snap.Sample.Rainfall,
			RainExposed:  snap.RainExposed,
		},

		CanTurn:                    engine.CanTurn(snap.Hours),
		TurnCooldownRemainingHours: engine.TurnCooldownRemaining(snap.Hours),
	}
}

// speedMultiplier recomputes the modifier product from the engine's current
// sub-model state rather than reading the last update's cached rate, so an
// engine rebuilt from a snapshot reports the same speed a live one would.
func speedMultiplier(engine *compost.Engine, ratio float64, total int, tuning compost.Tuning) float64 {
	if engine.Phase() != compost.PhaseActive || total <= 0 {
		return 0
	}
	return compost.CNModifier(ratio, tuning) *
		engine.MoistureModifier() *
		engine.AerationModifier() *
		engine.TemperatureModifier()
}

func remainingHours(engine *compost.Engine, speed float64, tuning compost.Tuning) float64 {
	if engine.IsFinished() {
		return 0
	}
	if speed <= 0 {
		return compost.RemainingHoursCap
	}
	remaining := (1 - engine.Progress()) * tuning.HoursToComplete / speed
	if remaining > compost.RemainingHoursCap {
		return compost.RemainingHoursCap
	}
	return remaining
}
