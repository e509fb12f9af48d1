package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"polylife/src/universe"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigKeepsDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, `{"width": 320, "height": 180, "cell_types": 3, "bordered": true}`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Width != 320 || c.Height != 180 || c.CellTypes != 3 || !c.Bordered {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Interval != universe.DefSimulationInterval || c.Template != "testSample1" {
		t.Fatalf("defaults were lost: %+v", c)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Fatalf("expected a read error, got %v", err)
	}
	path := writeConfig(t, `{"width": "wide"}`)
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "failed to unmarshal") {
		t.Fatalf("expected an unmarshal error, got %v", err)
	}
}

func TestLoadConfigInterval(t *testing.T) {
	cases := []struct {
		content string
		want    time.Duration
	}{
		{`{"interval": "150ms"}`, 150 * time.Millisecond},
		{`{"interval": "1s"}`, time.Second},
		{`{"interval": 2000000}`, 2 * time.Millisecond},
		{`{"width": 10}`, universe.DefSimulationInterval},
	}
	for _, c := range cases {
		cfg, err := LoadConfig(writeConfig(t, c.content))
		if err != nil {
			t.Fatalf("LoadConfig(%s): %v", c.content, err)
		}
		if cfg.Interval != c.want {
			t.Fatalf("LoadConfig(%s) interval = %v, expected %v", c.content, cfg.Interval, c.want)
		}
	}

	if _, err := LoadConfig(writeConfig(t, `{"interval": "fast"}`)); err == nil || !strings.Contains(err.Error(), "invalid interval") {
		t.Fatalf("expected an interval error, got %v", err)
	}
}

func TestMergePrefersExplicitFlags(t *testing.T) {
	defaults := DefaultConfig()
	file := defaults
	file.Width = 100
	file.Height = 50
	file.CellTypes = 2

	flags := defaults
	flags.Height = 20
	flags.Bordered = true
	flags.Interval = 10 * time.Millisecond

	c := file.Merge(flags, defaults)
	if c.Width != 100 || c.Height != 20 || c.CellTypes != 2 || !c.Bordered || c.Interval != 10*time.Millisecond {
		t.Fatalf("unexpected merge result %+v", c)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"zero width":       func(c *Config) { c.Width = 0 },
		"negative height":  func(c *Config) { c.Height = -3 },
		"no species":       func(c *Config) { c.CellTypes = 0 },
		"too many species": func(c *Config) { c.CellTypes = universe.MaxCellTypes + 1 },
		"negative steps":   func(c *Config) { c.MaxSteps = -1 },
		"negative history": func(c *Config) { c.HistoryDepth = -1 },
		"negative period":  func(c *Config) { c.Interval = -time.Millisecond },
		"unknown template": func(c *Config) { c.Template = "nope" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}
	random := DefaultConfig()
	random.Template = ""
	random.Random = true
	if err := random.Validate(); err != nil {
		t.Fatalf("random settle needs no template: %v", err)
	}
}

func TestUniverseOptions(t *testing.T) {
	c := DefaultConfig()
	c.Bordered = true
	c.CellTypes = 3
	c.Seed = 12
	o := c.UniverseOptions()
	if o.Topology != universe.Bordered || o.CellTypes != 3 || o.Seed != 12 || o.Width != c.Width {
		t.Fatalf("unexpected options %+v", o)
	}
	u, err := universe.NewBaseUniverse(&o, nil)
	if err != nil {
		t.Fatalf("options must build a universe: %v", err)
	}
	u.Close()
}
