package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"polylife/src/universe"
)

// Config holds the start-up configuration of the simulation
type Config struct {
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	CellTypes    int           `json:"cell_types"`
	Bordered     bool          `json:"bordered"`
	Interval     time.Duration `json:"interval"`
	MaxSteps     int           `json:"max_steps"`
	HistoryDepth int           `json:"history_depth"`
	Seed         int64         `json:"seed"` // 0 picks a time-based seed at start-up
	Interactive  bool          `json:"interactive"`
	Random       bool          `json:"random"`
	Template     string        `json:"template"`
	PrintField   bool          `json:"print_field"`
}

// UnmarshalJSON accepts the interval either as a duration string like "150ms" or as integer nanoseconds
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	aux := struct {
		*plain
		Interval interface{} `json:"interval"`
	}{plain: (*plain)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch v := aux.Interval.(type) {
	case nil:
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid interval %q", v)
		}
		c.Interval = d
	case float64:
		c.Interval = time.Duration(v)
	default:
		return errors.Errorf("invalid interval %v", v)
	}
	return nil
}

// DefaultConfig returns the defaults of the terminal build
func DefaultConfig() Config {
	return Config{
		Width:        universe.DefWidth,
		Height:       universe.DefHeight,
		CellTypes:    universe.DefCellTypes,
		Interval:     universe.DefSimulationInterval,
		MaxSteps:     universe.DefMaxSteps,
		HistoryDepth: universe.DefHistoryDepth,
		Template:     "testSample1",
	}
}

// LoadConfig loads configuration from JSON file, fields missing from the file keep their defaults
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Merge overrides c with every value of flags that differs from defaults
func (c Config) Merge(flags, defaults Config) Config {
	if flags.Width != defaults.Width {
		c.Width = flags.Width
	}
	if flags.Height != defaults.Height {
		c.Height = flags.Height
	}
	if flags.CellTypes != defaults.CellTypes {
		c.CellTypes = flags.CellTypes
	}
	if flags.Bordered != defaults.Bordered {
		c.Bordered = flags.Bordered
	}
	if flags.Interval != defaults.Interval {
		c.Interval = flags.Interval
	}
	if flags.MaxSteps != defaults.MaxSteps {
		c.MaxSteps = flags.MaxSteps
	}
	if flags.HistoryDepth != defaults.HistoryDepth {
		c.HistoryDepth = flags.HistoryDepth
	}
	if flags.Seed != defaults.Seed {
		c.Seed = flags.Seed
	}
	if flags.Interactive != defaults.Interactive {
		c.Interactive = flags.Interactive
	}
	if flags.Random != defaults.Random {
		c.Random = flags.Random
	}
	if flags.Template != defaults.Template {
		c.Template = flags.Template
	}
	if flags.PrintField != defaults.PrintField {
		c.PrintField = flags.PrintField
	}
	return c
}

// Validate rejects configurations the simulation cannot be built from
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("[Validate] grid dimensions must be positive, got %vx%v", c.Width, c.Height)
	}
	if c.CellTypes < 1 || c.CellTypes > universe.MaxCellTypes {
		return errors.Errorf("[Validate] cell types must be within [1, %v], got %v", universe.MaxCellTypes, c.CellTypes)
	}
	if c.Interval < 0 {
		return errors.Errorf("[Validate] interval must not be negative, got %v", c.Interval)
	}
	if c.MaxSteps < 0 {
		return errors.Errorf("[Validate] max steps must not be negative, got %v", c.MaxSteps)
	}
	if c.HistoryDepth < 0 {
		return errors.Errorf("[Validate] history depth must not be negative, got %v", c.HistoryDepth)
	}
	if !c.Random && !knownTemplate(c.Template) {
		return errors.Errorf("[Validate] unknown template %q", c.Template)
	}
	return nil
}

// UniverseOptions converts the configuration for universe.NewBaseUniverse
func (c Config) UniverseOptions() universe.Options {
	o := universe.DefaultUniverseOptions
	o.Width = c.Width
	o.Height = c.Height
	o.CellTypes = c.CellTypes
	o.Topology = universe.Wrap
	if c.Bordered {
		o.Topology = universe.Bordered
	}
	o.Interval = c.Interval
	o.MaxSteps = c.MaxSteps
	o.HistoryDepth = c.HistoryDepth
	o.Seed = c.Seed
	return o
}

func knownTemplate(name string) bool {
	for _, t := range universe.DefaultTemplates {
		if t.Name == name {
			return true
		}
	}
	return false
}
