package compost

import (
	"math"
	"testing"
)

func mildClimate() ClimateSample {
	return ClimateSample{TemperatureC: 20}
}

func activeInput(green, brown int) UpdateInput {
	return UpdateInput{Climate: mildClimate(), GreenCount: green, BrownCount: brown}
}

func TestEngine_InactiveUpdateIsNoOp(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Update(10, activeInput(10, 0))
	if e.Progress() != 0 {
		t.Fatalf("progress = %v, want 0 before Start", e.Progress())
	}
	if e.Phase() != PhaseInactive {
		t.Fatalf("phase = %q, want %q", e.Phase(), PhaseInactive)
	}
}

func TestEngine_ZeroMaterialUpdateIsNoOp(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	e.Update(5, activeInput(0, 0))
	if e.Progress() != 0 {
		t.Fatalf("progress = %v, want 0 with empty pile", e.Progress())
	}
}

func TestEngine_FirstHourScenario(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	e.Update(1, activeInput(10, 0))

	// No rain: moisture evaporates once (0.02 + 20*0.001) from 0.5 and stays
	// in the optimal band, so only the temperature modifier (0.9 in the
	// 20-30°C band) shapes the first hour's rate.
	wantMoisture := 0.5 - 0.04
	if math.Abs(e.MoistureLevel()-wantMoisture) > 1e-9 {
		t.Fatalf("moisture = %v, want %v", e.MoistureLevel(), wantMoisture)
	}
	if e.MoistureState() != MoistureOptimal {
		t.Fatalf("moisture state = %q, want %q", e.MoistureState(), MoistureOptimal)
	}

	wantProgress := (1.0 / 240) * 1.0 * 1.0 * 1.0 * 0.9
	if math.Abs(e.Progress()-wantProgress) > 1e-9 {
		t.Fatalf("progress after 1h = %v, want %v", e.Progress(), wantProgress)
	}
	if e.IsFinished() {
		t.Fatalf("pile finished after a single hour")
	}
	if e.TemperatureC() <= 20 || e.TemperatureC() >= 30 {
		t.Fatalf("core temp = %v, want inside 20..30 after first hour", e.TemperatureC())
	}
}

func TestEngine_UpdateSameHourIsIdempotent(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	e.Update(3, activeInput(8, 4))

	before := e.Snapshot()
	e.Update(3, activeInput(8, 4))
	after := e.Snapshot()

	if before.Progress != after.Progress ||
		*before.Moisture.Level != *after.Moisture.Level ||
		*before.Aeration.Level != *after.Aeration.Level ||
		*before.Temperature.InternalC != *after.Temperature.InternalC {
		t.Fatalf("state changed on repeated update at same hour: %+v vs %+v", before, after)
	}
}

func TestEngine_ProgressIsMonotonic(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)

	last := 0.0
	for hour := 1.0; hour <= 100; hour += 1.5 {
		e.Update(hour, activeInput(12, 6))
		if e.Progress() < last {
			t.Fatalf("progress decreased at hour %v: %v -> %v", hour, last, e.Progress())
		}
		last = e.Progress()
	}
}

func TestEngine_TurnAddsDirectProgressJump(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	e.Update(1, activeInput(10, 5))
	before := e.Progress()

	e.Turn(1, 5)
	want := before + 5.0/240
	if math.Abs(e.Progress()-want) > 1e-9 {
		t.Fatalf("progress after turn = %v, want %v", e.Progress(), want)
	}
}

func TestEngine_TurnSideEffects(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	e.Update(1, activeInput(10, 5))

	e.AddWater(0.3) // push into the too-wet band
	if e.MoistureState() != MoistureTooWet {
		t.Fatalf("moisture state = %q, want %q before turn", e.MoistureState(), MoistureTooWet)
	}
	moistureBefore := e.MoistureLevel()
	aerationBefore := e.AerationLevel()

	e.Turn(1, 5)

	if math.Abs(e.MoistureLevel()-(moistureBefore-0.1)) > 1e-9 {
		t.Fatalf("too-wet turn should dry by 0.1: %v -> %v", moistureBefore, e.MoistureLevel())
	}
	if e.AerationLevel() <= aerationBefore {
		t.Fatalf("turn should boost aeration: %v -> %v", aerationBefore, e.AerationLevel())
	}
	if e.CanTurn(1) {
		t.Fatalf("CanTurn immediately after turning = true, want false")
	}
	if got := e.TurnCooldownRemaining(1); math.Abs(got-4) > 1e-9 {
		t.Fatalf("cooldown remaining = %v, want 4", got)
	}
	if !e.CanTurn(5) {
		t.Fatalf("CanTurn after cooldown elapsed = false, want true")
	}
}

func TestEngine_TurnCooldownIsCallerEnforced(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	e.Update(1, activeInput(10, 5))
	first := e.Progress()

	// The engine itself never blocks a turn; ignoring CanTurn double-applies.
	e.Turn(1, 5)
	e.Turn(1, 5)
	want := first + 2*(5.0/240)
	if math.Abs(e.Progress()-want) > 1e-9 {
		t.Fatalf("progress after double turn = %v, want %v", e.Progress(), want)
	}
}

func TestEngine_ModeratelyDryingTurnAboveMidpoint(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	e.Update(1, activeInput(10, 5))
	e.AddWater(0.2) // slightly wet, but not past 0.7
	moistureBefore := e.MoistureLevel()

	e.Turn(1, 5)
	if math.Abs(e.MoistureLevel()-(moistureBefore-0.05)) > 1e-9 {
		t.Fatalf("slightly-wet turn should dry by 0.05: %v -> %v", moistureBefore, e.MoistureLevel())
	}
}

func TestEngine_FinishedPileIsInert(t *testing.T) {
	tuning := DefaultTuning()
	tuning.HoursToComplete = 2
	e := NewEngine(tuning)
	e.Start(0)

	for hour := 1.0; hour <= 48 && !e.IsFinished(); hour++ {
		e.Update(hour, activeInput(40, 20))
	}
	if !e.IsFinished() {
		t.Fatalf("short pile never finished")
	}
	if e.Phase() != PhaseFinished {
		t.Fatalf("phase = %q, want %q", e.Phase(), PhaseFinished)
	}

	snap := e.Snapshot()
	e.Update(100, activeInput(40, 20))
	e.Turn(100, 5)
	e.AddWater(0.5)
	after := e.Snapshot()
	if snap.Progress != after.Progress || *snap.Moisture.Level != *after.Moisture.Level {
		t.Fatalf("finished pile mutated: %+v vs %+v", snap, after)
	}
}

func TestEngine_TendedPileFinishes(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)

	finishedAt := 0.0
	for hour := 1.0; hour <= 250; hour++ {
		e.Update(hour, activeInput(40, 20))
		if e.IsFinished() {
			finishedAt = hour
			break
		}
		if e.MoistureLevel() < 0.45 {
			e.AddWater(0.1)
		}
		if e.CanTurn(hour) {
			e.Turn(hour, 5)
		}
	}
	if finishedAt == 0 {
		t.Fatalf("tended pile did not finish within 250 hours, progress=%v", e.Progress())
	}
	if finishedAt >= 240 {
		t.Fatalf("tended pile should beat the nominal duration, finished at %v", finishedAt)
	}
}

func TestEngine_HarvestResetsToInactive(t *testing.T) {
	tuning := DefaultTuning()
	tuning.HoursToComplete = 2
	e := NewEngine(tuning)
	e.Start(0)
	for hour := 1.0; hour <= 48 && !e.IsFinished(); hour++ {
		e.Update(hour, activeInput(40, 20))
	}
	if !e.IsFinished() {
		t.Fatalf("pile never finished")
	}

	if !e.Harvest() {
		t.Fatalf("Harvest on finished pile = false, want true")
	}
	if e.Phase() != PhaseInactive {
		t.Fatalf("phase after harvest = %q, want %q", e.Phase(), PhaseInactive)
	}
	if e.Progress() != 0 || e.MoistureLevel() != 0.5 || e.AerationLevel() != 0.7 {
		t.Fatalf("state not reset after harvest: progress=%v moisture=%v aeration=%v",
			e.Progress(), e.MoistureLevel(), e.AerationLevel())
	}
}

func TestEngine_HarvestUnfinishedReturnsFalse(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	e.Update(1, activeInput(10, 5))
	if e.Harvest() {
		t.Fatalf("Harvest on unfinished pile = true, want false")
	}
	if e.Phase() != PhaseInactive {
		t.Fatalf("phase after harvest = %q, want %q", e.Phase(), PhaseInactive)
	}
}

func TestEngine_SnapshotRoundTrip(t *testing.T) {
	a := NewEngine(DefaultTuning())
	a.Start(0)
	for hour := 1.0; hour <= 30; hour++ {
		a.Update(hour, activeInput(14, 7))
		if a.CanTurn(hour) {
			a.Turn(hour, 5)
		}
	}

	b := NewEngine(DefaultTuning())
	if reset := b.RestoreFromSnapshot(a.Snapshot()); reset {
		t.Fatalf("round-trip restore reported a legacy reset")
	}

	a.Update(31, activeInput(14, 7))
	b.Update(31, activeInput(14, 7))

	if a.Progress() != b.Progress() {
		t.Fatalf("progress diverged after restore: %v vs %v", a.Progress(), b.Progress())
	}
	if a.MoistureLevel() != b.MoistureLevel() ||
		a.AerationLevel() != b.AerationLevel() ||
		a.TemperatureC() != b.TemperatureC() {
		t.Fatalf("model levels diverged after restore")
	}
}

func TestEngine_RestoreLegacySaveResets(t *testing.T) {
	e := NewEngine(DefaultTuning())
	legacy := PileState{
		SchemaVersion: 1,
		StartHours:    floatPtr(100),
		Progress:      0.6,
	}
	if reset := e.RestoreFromSnapshot(legacy); !reset {
		t.Fatalf("legacy save restore should report a reset")
	}
	if e.Phase() != PhaseInactive || e.Progress() != 0 {
		t.Fatalf("legacy restore left state behind: phase=%q progress=%v", e.Phase(), e.Progress())
	}
}

func TestEngine_RestoreMissingScalarsFallBackToDefaults(t *testing.T) {
	e := NewEngine(DefaultTuning())
	state := PileState{
		SchemaVersion: 2,
		StartHours:    floatPtr(10),
		Progress:      0.25,
		Moisture:      &MoistureSnapshot{LastCheckHours: 10},
		Aeration:      &AerationSnapshot{LastUpdateHours: 10, LastTurnHours: 10},
		Temperature:   &TemperatureSnapshot{LastUpdateHours: 10},
	}
	if reset := e.RestoreFromSnapshot(state); reset {
		t.Fatalf("restore with missing scalars should not reset")
	}
	if e.MoistureLevel() != 0.5 {
		t.Fatalf("moisture default = %v, want 0.5", e.MoistureLevel())
	}
	if e.AerationLevel() != 0.7 {
		t.Fatalf("aeration default = %v, want 0.7", e.AerationLevel())
	}
	if e.TemperatureC() != 20 || e.AmbientC() != 20 {
		t.Fatalf("temperature defaults = (%v,%v), want (20,20)", e.TemperatureC(), e.AmbientC())
	}
	if e.Progress() != 0.25 {
		t.Fatalf("progress = %v, want 0.25", e.Progress())
	}
}

func TestEngine_RestoreInactiveRecord(t *testing.T) {
	e := NewEngine(DefaultTuning())
	if reset := e.RestoreFromSnapshot(PileState{SchemaVersion: 2}); reset {
		t.Fatalf("restoring an inactive record should not report a reset")
	}
	if e.Phase() != PhaseInactive {
		t.Fatalf("phase = %q, want %q", e.Phase(), PhaseInactive)
	}
}

func TestEngine_RemainingHoursCapped(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	if got := e.RemainingHours(); got != RemainingHoursCap {
		t.Fatalf("remaining hours with zero rate = %v, want cap %v", got, RemainingHoursCap)
	}

	e.Update(1, activeInput(10, 0))
	remaining := e.RemainingHours()
	if remaining <= 0 || remaining >= RemainingHoursCap {
		t.Fatalf("remaining hours after update = %v, want finite positive", remaining)
	}
}

func TestEngine_SpeedMultiplierReflectsModifiers(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.Start(0)
	e.Update(1, activeInput(10, 0))
	// cn 1.0, moisture 1.0, aeration 1.0, temperature 0.9 after the first hour.
	if got := e.SpeedMultiplier(); math.Abs(got-0.9) > 1e-9 {
		t.Fatalf("speed multiplier = %v, want 0.9", got)
	}
}

func TestEngine_CommandsInertWhileInactive(t *testing.T) {
	e := NewEngine(DefaultTuning())
	e.AddWater(0.3)
	e.AddDryMaterial(0.3)
	e.Turn(0, 5)
	if e.MoistureLevel() != 0.5 || e.Progress() != 0 {
		t.Fatalf("inactive pile mutated: moisture=%v progress=%v", e.MoistureLevel(), e.Progress())
	}
}
