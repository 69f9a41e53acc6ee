package compost

import "math"

const (
	CNQualityNoMaterial = "No Material"
	CNQualityExcellent  = "Excellent"
	CNQualityGood       = "Good"
	CNQualityFair       = "Fair"
	CNQualityPoor       = "Poor"
	CNQualityBad        = "Bad"
)

// CNRatio derives the carbon:nitrogen ratio of the aggregate pile from the
// green (nitrogen-rich) and brown (carbon-rich) item counts.
func CNRatio(greenCount, brownCount int, t Tuning) float64 {
	if greenCount <= 0 && brownCount <= 0 {
		return 0
	}
	if greenCount <= 0 {
		return t.BrownCNRatio
	}
	if brownCount <= 0 {
		return t.GreenCNRatio
	}
	total := float64(greenCount + brownCount)
	return (float64(greenCount)*t.GreenCNRatio + float64(brownCount)*t.BrownCNRatio) / total
}

// CNModifier maps distance from the optimal ratio onto a decomposition rate
// multiplier. Unrepresentable ratios are neutral, never an error.
func CNModifier(ratio float64, t Tuning) float64 {
	if ratio <= 0 || ratio > 100 {
		return 1.0
	}
	distance := math.Abs(ratio - t.OptimalCN)
	switch {
	case distance <= 5:
		return t.OptimalCNBonus
	case distance <= 10:
		return 1.2
	case distance <= 15:
		return 1.0
	case distance <= 25:
		return 0.8
	default:
		return t.PoorCNPenalty
	}
}

func CNQuality(ratio float64, t Tuning) string {
	if ratio <= 0 || ratio > 100 {
		return CNQualityNoMaterial
	}
	distance := math.Abs(ratio - t.OptimalCN)
	switch {
	case distance <= 5:
		return CNQualityExcellent
	case distance <= 10:
		return CNQualityGood
	case distance <= 15:
		return CNQualityFair
	case distance <= 25:
		return CNQualityPoor
	default:
		return CNQualityBad
	}
}
