package climate

import "math"

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

const (
	HoursPerDay  = 24
	DaysPerYear  = 120
	HoursPerYear = HoursPerDay * DaysPerYear
)

// Curve describes the deterministic yearly weather cycle. The same game hour
// always yields the same temperature and rainfall, which keeps every pile's
// environment reproducible across restarts.
type Curve struct {
	MeanTemperatureC  float64
	SeasonalAmplitude float64
	DiurnalAmplitude  float64
	RainThreshold     float64 // 0..1, higher means rarer rain
}

func DefaultCurve() Curve {
	return Curve{
		MeanTemperatureC:  15,
		SeasonalAmplitude: 10,
		DiurnalAmplitude:  4,
		RainThreshold:     0.7,
	}
}

func (c Curve) withDefaults() Curve {
	def := DefaultCurve()
	if c.MeanTemperatureC == 0 {
		c.MeanTemperatureC = def.MeanTemperatureC
	}
	if c.SeasonalAmplitude <= 0 {
		c.SeasonalAmplitude = def.SeasonalAmplitude
	}
	if c.DiurnalAmplitude <= 0 {
		c.DiurnalAmplitude = def.DiurnalAmplitude
	}
	if c.RainThreshold <= 0 || c.RainThreshold >= 1 {
		c.RainThreshold = def.RainThreshold
	}
	return c
}

func SeasonAt(hours float64) Season {
	if hours < 0 {
		hours = 0
	}
	day := math.Mod(hours/HoursPerDay, DaysPerYear)
	quarter := DaysPerYear / 4.0
	switch {
	case day < quarter:
		return SeasonSpring
	case day < 2*quarter:
		return SeasonSummer
	case day < 3*quarter:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// TemperatureAt combines the yearly curve with a day/night swing. The yearly
// sine peaks mid-summer (a quarter year in) and bottoms mid-winter.
func (c Curve) TemperatureAt(hours float64) float64 {
	c = c.withDefaults()
	if hours < 0 {
		hours = 0
	}
	yearPhase := 2 * math.Pi * math.Mod(hours, HoursPerYear) / HoursPerYear
	dayPhase := 2 * math.Pi * math.Mod(hours, HoursPerDay) / HoursPerDay

	seasonal := c.SeasonalAmplitude * math.Sin(yearPhase)
	// Coldest around 03:00, warmest around 15:00.
	diurnal := c.DiurnalAmplitude * math.Sin(dayPhase-math.Pi/2)
	return c.MeanTemperatureC + seasonal + diurnal
}

// RainfallAt returns rain intensity in 0..1. Rain arrives in multi-hour bands
// driven by two incommensurate sines, so wet and dry spells alternate without
// any random state.
func (c Curve) RainfallAt(hours float64) float64 {
	c = c.withDefaults()
	if hours < 0 {
		hours = 0
	}
	signal := 0.5 + 0.35*math.Sin(hours/7.3) + 0.15*math.Sin(hours/1.9)
	if signal <= c.RainThreshold {
		return 0
	}
	intensity := (signal - c.RainThreshold) / (1 - c.RainThreshold)
	if intensity > 1 {
		intensity = 1
	}
	return intensity
}
