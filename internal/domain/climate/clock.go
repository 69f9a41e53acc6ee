package climate

import "time"

// Clock maps wall time onto the in-game hour scale the simulation runs on.
type ClockConfig struct {
	StartAt      time.Time
	HourDuration time.Duration // real time per in-game hour
}

type Clock struct {
	cfg ClockConfig
}

func NewClock(cfg ClockConfig) Clock {
	if cfg.HourDuration <= 0 {
		cfg.HourDuration = time.Minute
	}
	if cfg.StartAt.IsZero() {
		cfg.StartAt = time.Unix(0, 0)
	}
	return Clock{cfg: cfg}
}

func DefaultClock() Clock {
	return NewClock(ClockConfig{})
}

// HoursAt returns the in-game hour count at the given wall time. Times before
// the clock start map to hour zero.
func (c Clock) HoursAt(now time.Time) float64 {
	elapsed := now.Sub(c.cfg.StartAt)
	if elapsed < 0 {
		return 0
	}
	return float64(elapsed) / float64(c.cfg.HourDuration)
}
