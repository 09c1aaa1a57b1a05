// Package config loads server and live-mode settings from ossim.yaml and
// OSSIM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/disk"
)

// Config holds every tunable default. Command-line flags override it.
type Config struct {
	Port        int
	Quantum     int64
	Frames      int
	MaxCylinder int
	Direction   string
	Interval    time.Duration
	Limit       int
	Seed        int64
	ExportDir   string
}

var defaults = map[string]any{
	"server.port":                        9095,
	"scheduler.round_robin.time_quantum": 2,
	"paging.frames":                      3,
	"disk.max_cylinder":                  disk.DefaultMaxCylinder,
	"disk.direction":                     "up",
	"live.interval":                      "7s",
	"live.limit":                         12,
	"seed":                               42,
	"export.dir":                         ".",
}

// Load reads configuration. With an empty path, ./ossim.yaml is used when it
// exists and defaults apply otherwise; an explicit path must exist.
// Environment variables override the file: scheduler.round_robin.time_quantum
// is OSSIM_SCHEDULER_ROUND_ROBIN_TIME_QUANTUM.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix("OSSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("ossim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading ossim.yaml: %w", err)
			}
		}
	}

	cfg := &Config{
		Port:        v.GetInt("server.port"),
		Quantum:     v.GetInt64("scheduler.round_robin.time_quantum"),
		Frames:      v.GetInt("paging.frames"),
		MaxCylinder: v.GetInt("disk.max_cylinder"),
		Direction:   string(disk.NormalizeDirection(v.GetString("disk.direction"))),
		Interval:    v.GetDuration("live.interval"),
		Limit:       v.GetInt("live.limit"),
		Seed:        v.GetInt64("seed"),
		ExportDir:   v.GetString("export.dir"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: server.port must be in [1, 65535], got %d", sim.ErrMalformedInput, c.Port)
	}
	if c.Quantum < 1 {
		return fmt.Errorf("%w: scheduler.round_robin.time_quantum must be >= 1, got %d", sim.ErrInvalidQuantum, c.Quantum)
	}
	if c.Frames < 1 {
		return fmt.Errorf("%w: paging.frames must be >= 1, got %d", sim.ErrInvalidCapacity, c.Frames)
	}
	if c.MaxCylinder < 0 {
		return fmt.Errorf("%w: disk.max_cylinder must be non-negative, got %d", sim.ErrMalformedInput, c.MaxCylinder)
	}
	if !disk.ValidDirections[c.Direction] {
		return fmt.Errorf("%w: disk.direction must be up or down, got %q", sim.ErrMalformedInput, c.Direction)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: live.interval must be positive, got %s", sim.ErrMalformedInput, c.Interval)
	}
	if c.Limit < 1 {
		return fmt.Errorf("%w: live.limit must be >= 1, got %d", sim.ErrInvalidCapacity, c.Limit)
	}
	return nil
}
