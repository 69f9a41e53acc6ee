package climate

import (
	"math"
	"testing"
	"time"
)

func TestClock_HoursAt(t *testing.T) {
	start := time.Unix(1_000_000, 0)
	c := NewClock(ClockConfig{StartAt: start, HourDuration: time.Minute})

	if got := c.HoursAt(start); got != 0 {
		t.Fatalf("hours at start = %v, want 0", got)
	}
	if got := c.HoursAt(start.Add(90 * time.Second)); math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("hours after 90s = %v, want 1.5", got)
	}
	if got := c.HoursAt(start.Add(-time.Hour)); got != 0 {
		t.Fatalf("hours before start = %v, want 0", got)
	}
}

func TestClock_Defaults(t *testing.T) {
	c := NewClock(ClockConfig{})
	base := time.Unix(0, 0)
	if got := c.HoursAt(base.Add(time.Minute)); math.Abs(got-1) > 1e-9 {
		t.Fatalf("default clock hours after 1m = %v, want 1", got)
	}
}

func TestSeasonAt_CyclesThroughQuarters(t *testing.T) {
	quarterHours := float64(HoursPerYear) / 4

	cases := []struct {
		hours float64
		want  Season
	}{
		{0, SeasonSpring},
		{quarterHours, SeasonSummer},
		{2 * quarterHours, SeasonAutumn},
		{3 * quarterHours, SeasonWinter},
		{float64(HoursPerYear), SeasonSpring}, // wraps
	}
	for _, tc := range cases {
		if got := SeasonAt(tc.hours); got != tc.want {
			t.Fatalf("SeasonAt(%v) = %q, want %q", tc.hours, got, tc.want)
		}
	}
}

func TestCurve_TemperatureIsDeterministicAndBounded(t *testing.T) {
	curve := DefaultCurve()
	for hours := 0.0; hours < 2*HoursPerYear; hours += 17 {
		a := curve.TemperatureAt(hours)
		b := curve.TemperatureAt(hours)
		if a != b {
			t.Fatalf("temperature not deterministic at %v: %v vs %v", hours, a, b)
		}
		lo := curve.MeanTemperatureC - curve.SeasonalAmplitude - curve.DiurnalAmplitude
		hi := curve.MeanTemperatureC + curve.SeasonalAmplitude + curve.DiurnalAmplitude
		if a < lo-1e-9 || a > hi+1e-9 {
			t.Fatalf("temperature %v out of bounds [%v,%v] at hour %v", a, lo, hi, hours)
		}
	}
}

func TestCurve_RainfallBoundedWithDrySpells(t *testing.T) {
	curve := DefaultCurve()
	sawRain, sawDry := false, false
	for hours := 0.0; hours < 500; hours++ {
		r := curve.RainfallAt(hours)
		if r < 0 || r > 1 {
			t.Fatalf("rainfall %v out of range at hour %v", r, hours)
		}
		if r > 0 {
			sawRain = true
		} else {
			sawDry = true
		}
	}
	if !sawRain || !sawDry {
		t.Fatalf("expected both wet and dry hours, rain=%v dry=%v", sawRain, sawDry)
	}
}
