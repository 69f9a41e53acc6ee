package compost

import "math"

// RemainingHoursCap bounds the remaining-time estimate when the current rate
// is zero, so callers never see an unrepresentable duration.
const RemainingHoursCap = 99999

// Engine owns the full decomposition state of one pile. It is not safe for
// concurrent use; the caller serializes updates and commands per pile.
type Engine struct {
	tuning Tuning

	started    bool
	startHours float64

	lastUpdateHours float64
	lastTurnHours   float64
	progress        float64
	finished        bool

	moisture    MoistureModel
	aeration    AerationModel
	temperature TemperatureModel

	greenCount int
	brownCount int
	lastRate   float64
}

func NewEngine(t Tuning) *Engine {
	t = t.withDefaults()
	return &Engine{
		tuning:      t,
		moisture:    NewMoistureModel(),
		aeration:    NewAerationModel(),
		temperature: NewTemperatureModel(t.DefaultAmbientC),
	}
}

func (e *Engine) Phase() Phase {
	switch {
	case !e.started:
		return PhaseInactive
	case e.finished:
		return PhaseFinished
	default:
		return PhaseActive
	}
}

// Start activates an inactive pile. Called when material count first becomes
// positive; repeated calls on an active pile are no-ops.
func (e *Engine) Start(nowHours float64) {
	if e.started {
		return
	}
	e.started = true
	e.startHours = nowHours
	e.lastUpdateHours = nowHours
	e.lastTurnHours = nowHours
	e.moisture.LastCheckHours = nowHours
	e.aeration.LastUpdateHours = nowHours
	e.aeration.LastTurnHours = nowHours
	e.temperature.LastUpdateHours = nowHours
}

// Update advances decomposition to nowHours. The sub-model ordering is load
// bearing: the evaporation multiplier is sampled from the temperature model
// before it updates, so moisture always sees the previous tick's heat.
func (e *Engine) Update(nowHours float64, in UpdateInput) {
	if !e.started || e.finished {
		return
	}
	total := in.GreenCount + in.BrownCount
	if total <= 0 {
		return
	}
	dt := nowHours - e.lastUpdateHours
	if dt <= 0 {
		return
	}
	e.greenCount = in.GreenCount
	e.brownCount = in.BrownCount

	evapMultiplier := e.temperature.EvaporationMultiplier()
	e.moisture.UpdateEnvironmental(nowHours, evapMultiplier, in.Climate, in.RainExposed, e.tuning)
	e.aeration.Update(nowHours, e.moisture.Level, e.tuning)

	fill := math.Min(1, float64(total)/float64(e.tuning.PileCapacity))
	activity := math.Min(1, fill/e.tuning.ActivityFillRamp)

	ratio := CNRatio(in.GreenCount, in.BrownCount, e.tuning)
	cnModifier := CNModifier(ratio, e.tuning)

	e.temperature.Update(nowHours, activity, e.moisture.Level, e.aeration.Level, cnModifier, fill, in.Climate, e.tuning)

	rate := (1.0 / e.tuning.HoursToComplete) *
		cnModifier *
		e.moisture.Modifier() *
		e.aeration.Modifier() *
		e.temperature.Modifier()
	e.lastRate = rate

	e.progress = clamp01(e.progress + rate*dt)
	e.lastUpdateHours = nowHours
	if e.progress >= 1 {
		e.finished = true
	}
}

// CanTurn reports whether the turn cooldown has elapsed. The engine does not
// enforce it; callers gate Turn on this query.
func (e *Engine) CanTurn(nowHours float64) bool {
	return nowHours-e.lastTurnHours >= e.tuning.TurnCooldownHours
}

func (e *Engine) TurnCooldownRemaining(nowHours float64) float64 {
	remaining := e.tuning.TurnCooldownHours - (nowHours - e.lastTurnHours)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Turn applies the discrete turning action: a direct progress jump worth
// speedupHours of optimal decomposition, plus aeration, drying, and cooling.
func (e *Engine) Turn(nowHours, speedupHours float64) {
	if !e.started || e.finished {
		return
	}
	if speedupHours <= 0 {
		speedupHours = e.tuning.TurnSpeedupHours
	}

	e.progress = clamp01(e.progress + speedupHours/e.tuning.HoursToComplete)
	if e.progress >= 1 {
		e.finished = true
	}

	e.aeration.Turn(nowHours, e.tuning)
	if e.moisture.Level > moistureSlightlyWetMax {
		e.moisture.AddDryMaterial(0.1)
	} else if e.moisture.Level > moistureDefault {
		e.moisture.AddDryMaterial(0.05)
	}
	e.temperature.ApplyTurningCooling(e.tuning)
	e.lastTurnHours = nowHours
}

func (e *Engine) AddWater(amount float64) {
	if !e.started || e.finished {
		return
	}
	e.moisture.AddWater(amount)
}

func (e *Engine) AddDryMaterial(amount float64) {
	if !e.started || e.finished {
		return
	}
	e.moisture.AddDryMaterial(amount)
}

// Harvest resets the pile to inactive defaults and reports whether a finished
// batch was collected. Clearing the deposited items is the inventory
// collaborator's job.
func (e *Engine) Harvest() bool {
	harvested := e.finished
	e.Reset()
	return harvested
}

func (e *Engine) Reset() {
	tuning := e.tuning
	*e = *NewEngine(tuning)
}

func (e *Engine) ProgressPercent() float64 {
	return e.progress * 100
}

func (e *Engine) Progress() float64 {
	return e.progress
}

func (e *Engine) IsFinished() bool {
	return e.finished
}

func (e *Engine) ElapsedHours(nowHours float64) float64 {
	if !e.started {
		return 0
	}
	elapsed := nowHours - e.startHours
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func (e *Engine) RemainingHours() float64 {
	if e.finished {
		return 0
	}
	if e.lastRate <= 0 {
		return RemainingHoursCap
	}
	remaining := (1 - e.progress) / e.lastRate
	if remaining > RemainingHoursCap {
		return RemainingHoursCap
	}
	return remaining
}

// SpeedMultiplier is the product of all rate modifiers from the last update:
// 1.0 means the pile is decomposing at the nominal rate.
func (e *Engine) SpeedMultiplier() float64 {
	return e.lastRate * e.tuning.HoursToComplete
}

func (e *Engine) CNRatio() float64 {
	return CNRatio(e.greenCount, e.brownCount, e.tuning)
}

func (e *Engine) CNQuality() string {
	return CNQuality(e.CNRatio(), e.tuning)
}

// The modifier accessors expose each sub-model's current rate contribution.
// Unlike SpeedMultiplier they do not depend on Update having run, so a view
// rebuilt from a snapshot can derive the live rate without mutating state.
func (e *Engine) MoistureModifier() float64    { return e.moisture.Modifier() }
func (e *Engine) AerationModifier() float64    { return e.aeration.Modifier() }
func (e *Engine) TemperatureModifier() float64 { return e.temperature.Modifier() }

func (e *Engine) MoistureLevel() float64   { return e.moisture.Level }
func (e *Engine) MoistureState() string    { return e.moisture.State() }
func (e *Engine) AerationLevel() float64   { return e.aeration.Level }
func (e *Engine) AerationState() string    { return e.aeration.State() }
func (e *Engine) TemperatureC() float64    { return e.temperature.InternalC }
func (e *Engine) AmbientC() float64        { return e.temperature.AmbientC }
func (e *Engine) TemperatureState() string { return e.temperature.State() }

func (e *Engine) Tuning() Tuning {
	return e.tuning
}

// Snapshot exports the full pile state as a flat persistable record.
func (e *Engine) Snapshot() PileState {
	out := PileState{
		SchemaVersion:   pileStateSchemaVersion,
		LastUpdateHours: e.lastUpdateHours,
		LastTurnHours:   e.lastTurnHours,
		Progress:        e.progress,
		Finished:        e.finished,
		Moisture:        e.moisture.Snapshot(),
		Aeration:        e.aeration.Snapshot(),
		Temperature:     e.temperature.Snapshot(),
	}
	if e.started {
		out.StartHours = floatPtr(e.startHours)
	}
	return out
}

// RestoreFromSnapshot rebuilds engine state from a persisted record. Missing
// scalar fields fall back to each model's documented default. An active save
// that predates the environmental model blocks cannot be partially migrated;
// it is wiped back to defaults and the reset is reported to the caller.
func (e *Engine) RestoreFromSnapshot(s PileState) (reset bool) {
	e.Reset()

	if s.StartHours == nil {
		return false
	}
	legacy := s.SchemaVersion < pileStateSchemaVersion ||
		s.Moisture == nil || s.Aeration == nil || s.Temperature == nil
	if legacy {
		return true
	}

	e.started = true
	e.startHours = *s.StartHours
	e.lastUpdateHours = s.LastUpdateHours
	e.lastTurnHours = s.LastTurnHours
	e.progress = clamp01(s.Progress)
	e.finished = s.Finished || e.progress >= 1

	e.moisture = moistureFromSnapshot(s.Moisture)
	e.aeration = aerationFromSnapshot(s.Aeration)
	e.temperature = temperatureFromSnapshot(s.Temperature, e.tuning)
	return false
}
