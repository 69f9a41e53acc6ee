package compost

const (
	heatGenerationCap  = 10.0
	heatLossBase       = 0.5
	heatLossSizeShield = 0.3

	evaporativeCoolingFactor = 1.5
	evaporationDivisor       = 50.0
	belowAmbientFloor        = 5.0
)

const (
	TemperatureDormant      = "Dormant"
	TemperatureCold         = "Cold"
	TemperatureMesophilic   = "Mesophilic"
	TemperatureThermophilic = "Thermophilic"
	TemperatureOverheated   = "Overheated"
)

// TemperatureModel tracks the pile core temperature against an externally
// sampled ambient. Microbial heat generation pushes the core up; the ambient
// differential and evaporative cooling pull it back down.
type TemperatureModel struct {
	InternalC       float64
	AmbientC        float64
	LastUpdateHours float64
}

func NewTemperatureModel(ambientC float64) TemperatureModel {
	return TemperatureModel{InternalC: ambientC, AmbientC: ambientC}
}

func (m *TemperatureModel) Update(nowHours, activity, moisture, aeration, cnModifier, pileSize float64, climate ClimateSample, t Tuning) {
	dt := nowHours - m.LastUpdateHours
	if dt < 1.0 {
		return
	}
	m.LastUpdateHours = nowHours
	m.AmbientC = climate.TemperatureC

	heatGeneration := clampFloat(
		2*activity*(1+aeration*0.5)*cnModifier*(0.5+pileSize*0.5),
		0, heatGenerationCap,
	)

	diff := m.InternalC - m.AmbientC
	heatLoss := diff * heatLossBase * (1 - pileSize*heatLossSizeShield)
	if diff > 0 && moisture > 0.5 {
		heatLoss += (moisture - 0.5) * (diff / evaporationDivisor) * evaporativeCoolingFactor
	}

	m.InternalC = clampFloat(
		m.InternalC+(heatGeneration-heatLoss)*dt,
		m.AmbientC-belowAmbientFloor,
		t.MaxCoreTempC,
	)
}

// ApplyTurningCooling vents part of the stored heat when the pile is opened
// up, never dropping the core below ambient.
func (m *TemperatureModel) ApplyTurningCooling(t Tuning) {
	diff := m.InternalC - m.AmbientC
	if diff <= 0 {
		return
	}
	m.InternalC -= diff * t.TurnCoolingRelease
}

func (m TemperatureModel) Modifier() float64 {
	switch {
	case m.InternalC < 5:
		return 0.1
	case m.InternalC < 10:
		return 0.3
	case m.InternalC < 20:
		return 0.6
	case m.InternalC < 30:
		return 0.9
	case m.InternalC < 40:
		return 1.1
	case m.InternalC < 55:
		return 1.5
	case m.InternalC < 65:
		return 1.3
	case m.InternalC <= 70:
		return 0.7
	default:
		return 0.3
	}
}

// EvaporationMultiplier feeds the moisture model on the next tick: a hot core
// dries the pile faster.
func (m TemperatureModel) EvaporationMultiplier() float64 {
	if m.InternalC <= m.AmbientC {
		return 1.0
	}
	return 1.0 + (m.InternalC-m.AmbientC)/evaporationDivisor
}

func (m TemperatureModel) State() string {
	switch {
	case m.InternalC < 5:
		return TemperatureDormant
	case m.InternalC < 20:
		return TemperatureCold
	case m.InternalC < 40:
		return TemperatureMesophilic
	case m.InternalC < 65:
		return TemperatureThermophilic
	default:
		return TemperatureOverheated
	}
}

func (m TemperatureModel) Snapshot() *TemperatureSnapshot {
	return &TemperatureSnapshot{
		InternalC:       floatPtr(m.InternalC),
		AmbientC:        floatPtr(m.AmbientC),
		LastUpdateHours: m.LastUpdateHours,
	}
}

func temperatureFromSnapshot(s *TemperatureSnapshot, t Tuning) TemperatureModel {
	out := NewTemperatureModel(t.DefaultAmbientC)
	if s == nil {
		return out
	}
	if s.AmbientC != nil {
		out.AmbientC = *s.AmbientC
	}
	if s.InternalC != nil {
		out.InternalC = *s.InternalC
	} else {
		out.InternalC = out.AmbientC
	}
	out.LastUpdateHours = s.LastUpdateHours
	return out
}
