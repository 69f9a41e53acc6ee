package compost

// Tuning collects every shared constant the simulation reads. Engines take a
// Tuning by value at construction so tests can vary it per case without any
// global state.
type Tuning struct {
	HoursToComplete   float64
	TurnCooldownHours float64
	TurnSpeedupHours  float64

	GreenCNRatio   float64
	BrownCNRatio   float64
	OptimalCN      float64
	OptimalCNBonus float64
	PoorCNPenalty  float64

	RainAbsorption       float64
	EvaporationBase      float64
	EvaporationPerDegree float64

	CompactionBasePerHour float64
	TurnAerationBoost     float64

	DefaultAmbientC    float64
	MaxCoreTempC       float64
	TurnCoolingRelease float64

	PileCapacity     int
	ActivityFillRamp float64
}

func DefaultTuning() Tuning {
	return Tuning{
		HoursToComplete:   240,
		TurnCooldownHours: 4,
		TurnSpeedupHours:  5,

		GreenCNRatio:   15,
		BrownCNRatio:   60,
		OptimalCN:      27.5,
		OptimalCNBonus: 1.5,
		PoorCNPenalty:  0.5,

		RainAbsorption:       0.1,
		EvaporationBase:      0.02,
		EvaporationPerDegree: 0.001,

		CompactionBasePerHour: 0.01,
		TurnAerationBoost:     0.4,

		DefaultAmbientC:    20,
		MaxCoreTempC:       80,
		TurnCoolingRelease: 0.4,

		PileCapacity:     64,
		ActivityFillRamp: 0.3,
	}
}

func (t Tuning) withDefaults() Tuning {
	def := DefaultTuning()
	if t.HoursToComplete <= 0 {
		t.HoursToComplete = def.HoursToComplete
	}
	if t.TurnCooldownHours <= 0 {
		t.TurnCooldownHours = def.TurnCooldownHours
	}
	if t.TurnSpeedupHours <= 0 {
		t.TurnSpeedupHours = def.TurnSpeedupHours
	}
	if t.GreenCNRatio <= 0 {
		t.GreenCNRatio = def.GreenCNRatio
	}
	if t.BrownCNRatio <= 0 {
		t.BrownCNRatio = def.BrownCNRatio
	}
	if t.OptimalCN <= 0 {
		t.OptimalCN = def.OptimalCN
	}
	if t.OptimalCNBonus <= 0 {
		t.OptimalCNBonus = def.OptimalCNBonus
	}
	if t.PoorCNPenalty <= 0 {
		t.PoorCNPenalty = def.PoorCNPenalty
	}
	if t.RainAbsorption <= 0 {
		t.RainAbsorption = def.RainAbsorption
	}
	if t.EvaporationBase <= 0 {
		t.EvaporationBase = def.EvaporationBase
	}
	if t.EvaporationPerDegree <= 0 {
		t.EvaporationPerDegree = def.EvaporationPerDegree
	}
	if t.CompactionBasePerHour <= 0 {
		t.CompactionBasePerHour = def.CompactionBasePerHour
	}
	if t.TurnAerationBoost <= 0 {
		t.TurnAerationBoost = def.TurnAerationBoost
	}
	if t.DefaultAmbientC == 0 {
		t.DefaultAmbientC = def.DefaultAmbientC
	}
	if t.MaxCoreTempC <= 0 {
		t.MaxCoreTempC = def.MaxCoreTempC
	}
	if t.TurnCoolingRelease <= 0 {
		t.TurnCoolingRelease = def.TurnCoolingRelease
	}
	if t.PileCapacity <= 0 {
		t.PileCapacity = def.PileCapacity
	}
	if t.ActivityFillRamp <= 0 {
		t.ActivityFillRamp = def.ActivityFillRamp
	}
	return t
}
