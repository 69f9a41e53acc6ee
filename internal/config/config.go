// Package config provides configuration loading for the composting server.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"mulchworks/internal/domain/climate"
	"mulchworks/internal/domain/compost"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

const dsnEnvKey = "MULCHWORKS_DB_DSN"

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Clock      ClockConfig      `yaml:"clock"`
	Climate    ClimateConfig    `yaml:"climate"`
	Simulation SimulationConfig `yaml:"simulation"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type ClockConfig struct {
	StartUnix   int64 `yaml:"start_unix"`
	HourSeconds int   `yaml:"hour_seconds"` // real seconds per in-game hour
}

type ClimateConfig struct {
	MeanTemperatureC   float64  `yaml:"mean_temperature_c"`
	SeasonalAmplitude  float64  `yaml:"seasonal_amplitude"`
	DiurnalAmplitude   float64  `yaml:"diurnal_amplitude"`
	RainThreshold      float64  `yaml:"rain_threshold"`
	DefaultRainExposed bool     `yaml:"default_rain_exposed"`
	ShelteredPiles     []string `yaml:"sheltered_piles"` // never take rain
}

type SimulationConfig struct {
	HoursToComplete   float64 `yaml:"hours_to_complete"`
	TurnCooldownHours float64 `yaml:"turn_cooldown_hours"`
	TurnSpeedupHours  float64 `yaml:"turn_speedup_hours"`
	PileCapacity      int     `yaml:"pile_capacity"`
}

type SchedulerConfig struct {
	TickSeconds int `yaml:"tick_seconds"` // 0 disables the background ticker
}

type TelemetryConfig struct {
	Dir        string `yaml:"dir"` // empty disables CSV output
	WindowSize int    `yaml:"window_size"`
}

// Load parses the embedded defaults, overlays the optional config file, and
// applies environment overrides. Fields absent from the file keep defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if dsn := strings.TrimSpace(os.Getenv(dsnEnvKey)); dsn != "" {
		cfg.Database.DSN = dsn
	}

	return cfg, nil
}

// Tuning materializes the simulation section over the built-in defaults.
func (c *Config) Tuning() compost.Tuning {
	t := compost.DefaultTuning()
	if c.Simulation.HoursToComplete > 0 {
		t.HoursToComplete = c.Simulation.HoursToComplete
	}
	if c.Simulation.TurnCooldownHours > 0 {
		t.TurnCooldownHours = c.Simulation.TurnCooldownHours
	}
	if c.Simulation.TurnSpeedupHours > 0 {
		t.TurnSpeedupHours = c.Simulation.TurnSpeedupHours
	}
	if c.Simulation.PileCapacity > 0 {
		t.PileCapacity = c.Simulation.PileCapacity
	}
	return t
}

// GameClock builds the domain clock from the clock section.
func (c *Config) GameClock() climate.Clock {
	return climate.NewClock(climate.ClockConfig{
		StartAt:      time.Unix(c.Clock.StartUnix, 0),
		HourDuration: time.Duration(c.Clock.HourSeconds) * time.Second,
	})
}

// WeatherCurve builds the deterministic weather curve from the climate
// section.
func (c *Config) WeatherCurve() climate.Curve {
	return climate.Curve{
		MeanTemperatureC:  c.Climate.MeanTemperatureC,
		SeasonalAmplitude: c.Climate.SeasonalAmplitude,
		DiurnalAmplitude:  c.Climate.DiurnalAmplitude,
		RainThreshold:     c.Climate.RainThreshold,
	}
}

// RainExposure expands the sheltered pile list into the per-pile override map
// the climate provider takes.
func (c *Config) RainExposure() map[string]bool {
	if len(c.Climate.ShelteredPiles) == 0 {
		return nil
	}
	out := make(map[string]bool, len(c.Climate.ShelteredPiles))
	for _, pileID := range c.Climate.ShelteredPiles {
		pileID = strings.TrimSpace(pileID)
		if pileID == "" {
			continue
		}
		out[pileID] = false
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// TickInterval returns the scheduler period, or zero when disabled.
func (c *Config) TickInterval() time.Duration {
	if c.Scheduler.TickSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Scheduler.TickSeconds) * time.Second
}
