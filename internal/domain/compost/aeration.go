package compost

const (
	aerationDefault = 0.7

	// Compaction accelerates right after loading or turning while the pile
	// settles, then slows once it has packed down.
	compactionFreshHours   = 24
	compactionSettledHours = 72
	compactionFreshFactor  = 1.5
	compactionMidFactor    = 1.0
	compactionOldFactor    = 0.5

	wetCompactionThreshold = 0.6
	wetCompactionFactor    = 0.5
)

const (
	AerationCompletelyAnaerobic = "Completely Anaerobic"
	AerationAnaerobic           = "Anaerobic"
	AerationLowOxygen           = "Low Oxygen"
	AerationOptimal             = "Optimal"
	AerationOverAerated         = "Over-Aerated"
)

// AerationModel tracks oxygen availability as a 0..1 level that decays as the
// pile compacts and recovers when the pile is turned.
type AerationModel struct {
	Level           float64
	LastUpdateHours float64
	LastTurnHours   float64
}

func NewAerationModel() AerationModel {
	return AerationModel{Level: aerationDefault}
}

func (a *AerationModel) Update(nowHours, moisture float64, t Tuning) {
	dt := nowHours - a.LastUpdateHours
	if dt < 1.0 {
		return
	}
	a.LastUpdateHours = nowHours

	sinceTurn := nowHours - a.LastTurnHours
	factor := compactionOldFactor
	switch {
	case sinceTurn < compactionFreshHours:
		factor = compactionFreshFactor
	case sinceTurn < compactionSettledHours:
		factor = compactionMidFactor
	}

	loss := t.CompactionBasePerHour * factor * dt
	if moisture > wetCompactionThreshold {
		loss += (moisture - wetCompactionThreshold) * wetCompactionFactor * t.CompactionBasePerHour * dt
	}
	a.Level = clamp01(a.Level - loss)
}

func (a *AerationModel) Aerate(amount float64) {
	if amount <= 0 {
		return
	}
	a.Level = clamp01(a.Level + amount)
}

// Turn restores aeration and restarts the compaction clock.
func (a *AerationModel) Turn(nowHours float64, t Tuning) {
	a.Aerate(t.TurnAerationBoost)
	a.LastTurnHours = nowHours
}

func (a AerationModel) Modifier() float64 {
	switch {
	case a.Level < 0.2:
		return 0.1
	case a.Level < 0.3:
		return 0.3
	case a.Level < 0.5:
		return 0.7
	case a.Level <= 0.9:
		return 1.0
	default:
		return 0.9
	}
}

func (a AerationModel) State() string {
	switch {
	case a.Level < 0.2:
		return AerationCompletelyAnaerobic
	case a.Level < 0.3:
		return AerationAnaerobic
	case a.Level < 0.5:
		return AerationLowOxygen
	case a.Level <= 0.9:
		return AerationOptimal
	default:
		return AerationOverAerated
	}
}

func (a AerationModel) Snapshot() *AerationSnapshot {
	return &AerationSnapshot{
		Level:           floatPtr(a.Level),
		LastUpdateHours: a.LastUpdateHours,
		LastTurnHours:   a.LastTurnHours,
	}
}

func aerationFromSnapshot(s *AerationSnapshot) AerationModel {
	out := NewAerationModel()
	if s == nil {
		return out
	}
	if s.Level != nil {
		out.Level = clamp01(*s.Level)
	}
	out.LastUpdateHours = s.LastUpdateHours
	out.LastTurnHours = s.LastTurnHours
	return out
}
