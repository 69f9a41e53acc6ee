package csvlog

import (
	"fmt"
	"os"
	"path/filepath"

	"mulchworks/internal/app/pileview"

	"github.com/gocarina/gocsv"
)

// SnapshotRow is one pile observation flattened for CSV export.
type SnapshotRow struct {
	PileID          string  `csv:"pile_id"`
	Hours           float64 `csv:"hours"`
	Phase           string  `csv:"phase"`
	ProgressPercent float64 `csv:"progress_percent"`
	SpeedMultiplier float64 `csv:"speed_multiplier"`
	CNRatio         float64 `csv:"cn_ratio"`
	Moisture        float64 `csv:"moisture"`
	Aeration        float64 `csv:"aeration"`
	InternalTempC   float64 `csv:"internal_temp_c"`
	AmbientTempC    float64 `csv:"ambient_temp_c"`
	Rainfall        float64 `csv:"rainfall"`
}

// RowFromView flattens a pile view into a snapshot row.
func RowFromView(hours float64, v pileview.View) SnapshotRow {
	return SnapshotRow{
		PileID:          v.PileID,
		Hours:           hours,
		Phase:           v.Phase,
		ProgressPercent: v.ProgressPercent,
		SpeedMultiplier: v.SpeedMultiplier,
		CNRatio:         v.CNRatio,
		Moisture:        v.Moisture.Level,
		Aeration:        v.Aeration.Level,
		InternalTempC:   v.Temperature.InternalC,
		AmbientTempC:    v.Temperature.AmbientC,
		Rainfall:        v.Climate.Rainfall,
	}
}

// Logger appends pile snapshots to snapshots.csv and windowed aggregates to
// windows.csv under one output directory. A nil Logger is a no-op, so callers
// never have to branch on whether telemetry is enabled.
type Logger struct {
	dir          string
	snapshotFile *os.File
	windowFile   *os.File

	snapshotHeaderWritten bool
	windowHeaderWritten   bool

	window *windowAccumulator
}

// NewLogger creates the output directory and both CSV files. Returns nil if
// dir is empty (telemetry disabled).
func NewLogger(dir string, windowSize int) (*Logger, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}

	l := &Logger{dir: dir, window: newWindowAccumulator(windowSize)}

	f, err := os.Create(filepath.Join(dir, "snapshots.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating snapshots.csv: %w", err)
	}
	l.snapshotFile = f

	f, err = os.Create(filepath.Join(dir, "windows.csv"))
	if err != nil {
		l.snapshotFile.Close()
		return nil, fmt.Errorf("creating windows.csv: %w", err)
	}
	l.windowFile = f

	return l, nil
}

// Append writes one snapshot row and, when a stats window fills, the
// aggregated window row.
func (l *Logger) Append(row SnapshotRow) error {
	if l == nil {
		return nil
	}

	records := []SnapshotRow{row}
	if !l.snapshotHeaderWritten {
		if err := gocsv.Marshal(records, l.snapshotFile); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		l.snapshotHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, l.snapshotFile); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
	}

	stats, full := l.window.add(row)
	if !full {
		return nil
	}
	return l.writeWindow(stats)
}

func (l *Logger) writeWindow(stats WindowStats) error {
	records := []WindowStats{stats}
	if !l.windowHeaderWritten {
		if err := gocsv.Marshal(records, l.windowFile); err != nil {
			return fmt.Errorf("writing window: %w", err)
		}
		l.windowHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, l.windowFile); err != nil {
		return fmt.Errorf("writing window: %w", err)
	}
	return nil
}

// Close flushes a partial window before closing the files.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	if stats, ok := l.window.flush(); ok {
		if err := l.writeWindow(stats); err != nil {
			l.snapshotFile.Close()
			l.windowFile.Close()
			return err
		}
	}
	if err := l.snapshotFile.Close(); err != nil {
		l.windowFile.Close()
		return err
	}
	return l.windowFile.Close()
}
