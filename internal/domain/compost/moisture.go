package compost

import "math"

const (
	moistureDefault = 0.5

	moistureBoneDryMax     = 0.2
	moistureTooDryMax      = 0.3
	moistureSlightlyDryMax = 0.4
	moistureOptimalMax     = 0.6
	moistureSlightlyWetMax = 0.7
	moistureTooWetMax      = 0.85
)

const (
	MoistureBoneDry     = "Bone Dry"
	MoistureTooDry      = "Too Dry"
	MoistureSlightlyDry = "Slightly Dry"
	MoistureOptimal     = "Optimal"
	MoistureSlightlyWet = "Slightly Wet"
	MoistureTooWet      = "Too Wet"
	MoistureWaterlogged = "Waterlogged"
)

// MoistureModel tracks pile wetness as a 0..1 level. Environmental updates
// fire at most once per in-game hour; manual water and dry-material additions
// apply immediately.
type MoistureModel struct {
	Level          float64
	LastCheckHours float64
}

func NewMoistureModel() MoistureModel {
	return MoistureModel{Level: moistureDefault}
}

// UpdateEnvironmental applies rain and evaporation. The evaporation
// multiplier comes from the temperature model's previous tick, which keeps
// the moisture/temperature feedback one update behind on purpose.
func (m *MoistureModel) UpdateEnvironmental(nowHours, evapMultiplier float64, climate ClimateSample, rainExposed bool, t Tuning) {
	if nowHours-m.LastCheckHours < 1.0 {
		return
	}
	m.LastCheckHours = nowHours

	raining := rainExposed && climate.Rainfall > 0
	if raining {
		m.Level = clamp01(m.Level + clamp01(climate.Rainfall)*t.RainAbsorption)
	}

	evaporation := (t.EvaporationBase + math.Max(0, climate.TemperatureC)*t.EvaporationPerDegree) * evapMultiplier
	if raining {
		evaporation *= 0.1
	}
	m.Level = clamp01(m.Level - evaporation)
}

func (m *MoistureModel) AddWater(amount float64) {
	if amount <= 0 {
		return
	}
	m.Level = clamp01(m.Level + amount)
}

func (m *MoistureModel) AddDryMaterial(amount float64) {
	if amount <= 0 {
		return
	}
	m.Level = clamp01(m.Level - amount)
}

func (m MoistureModel) Modifier() float64 {
	switch {
	case m.Level < moistureBoneDryMax:
		return 0.1
	case m.Level < moistureTooDryMax:
		return 0.5
	case m.Level < moistureSlightlyDryMax:
		return 0.8
	case m.Level <= moistureOptimalMax:
		return 1.0
	case m.Level <= moistureSlightlyWetMax:
		return 0.8
	case m.Level <= moistureTooWetMax:
		return 0.4
	default:
		return 0.2
	}
}

func (m MoistureModel) State() string {
	switch {
	case m.Level < moistureBoneDryMax:
		return MoistureBoneDry
	case m.Level < moistureTooDryMax:
		return MoistureTooDry
	case m.Level < moistureSlightlyDryMax:
		return MoistureSlightlyDry
	case m.Level <= moistureOptimalMax:
		return MoistureOptimal
	case m.Level <= moistureSlightlyWetMax:
		return MoistureSlightlyWet
	case m.Level <= moistureTooWetMax:
		return MoistureTooWet
	default:
		return MoistureWaterlogged
	}
}

func (m MoistureModel) Snapshot() *MoistureSnapshot {
	return &MoistureSnapshot{
		Level:          floatPtr(m.Level),
		LastCheckHours: m.LastCheckHours,
	}
}

func moistureFromSnapshot(s *MoistureSnapshot) MoistureModel {
	out := NewMoistureModel()
	if s == nil {
		return out
	}
	if s.Level != nil {
		out.Level = clamp01(*s.Level)
	}
	out.LastCheckHours = s.LastCheckHours
	return out
}
