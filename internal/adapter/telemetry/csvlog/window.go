package csvlog

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const defaultWindowSize = 24

// WindowStats aggregates one window of snapshot rows.
type WindowStats struct {
	WindowEndHours float64 `csv:"window_end_hours"`
	Samples        int     `csv:"samples"`

	SpeedMean float64 `csv:"speed_mean"`
	SpeedMin  float64 `csv:"speed_min"`
	SpeedMax  float64 `csv:"speed_max"`

	TempMean   float64 `csv:"temp_mean"`
	TempStdDev float64 `csv:"temp_stddev"`
	TempMin    float64 `csv:"temp_min"`
	TempMax    float64 `csv:"temp_max"`

	MoistureMean float64 `csv:"moisture_mean"`
	AerationMean float64 `csv:"aeration_mean"`
}

// windowAccumulator buffers rows until a window fills.
type windowAccumulator struct {
	size     int
	endHours float64
	speed    []float64
	temp     []float64
	moisture []float64
	aeration []float64
}

func newWindowAccumulator(size int) *windowAccumulator {
	if size <= 0 {
		size = defaultWindowSize
	}
	return &windowAccumulator{size: size}
}

func (w *windowAccumulator) add(row SnapshotRow) (WindowStats, bool) {
	w.endHours = row.Hours
	w.speed = append(w.speed, row.SpeedMultiplier)
	w.temp = append(w.temp, row.InternalTempC)
	w.moisture = append(w.moisture, row.Moisture)
	w.aeration = append(w.aeration, row.Aeration)
	if len(w.speed) < w.size {
		return WindowStats{}, false
	}
	return w.drain(), true
}

func (w *windowAccumulator) flush() (WindowStats, bool) {
	if len(w.speed) == 0 {
		return WindowStats{}, false
	}
	return w.drain(), true
}

func (w *windowAccumulator) drain() WindowStats {
	stats := WindowStats{
		WindowEndHours: w.endHours,
		Samples:        len(w.speed),
		SpeedMean:      stat.Mean(w.speed, nil),
		SpeedMin:       floats.Min(w.speed),
		SpeedMax:       floats.Max(w.speed),
		TempMean:       stat.Mean(w.temp, nil),
		TempMin:        floats.Min(w.temp),
		TempMax:        floats.Max(w.temp),
		MoistureMean:   stat.Mean(w.moisture, nil),
		AerationMean:   stat.Mean(w.aeration, nil),
	}
	if len(w.temp) > 1 {
		stats.TempStdDev = stat.StdDev(w.temp, nil)
	}
	w.speed = w.speed[:0]
	w.temp = w.temp[:0]
	w.moisture = w.moisture[:0]
	w.aeration = w.aeration[:0]
	return stats
}
