package hanami

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth       = 1280
	DefaultHeight      = 720
	DefaultFPS         = 60
	DefaultLifetimeMs  = 6000
	DefaultMaxBatches  = 8
	DefaultIntervalMs  = 6000
	DefaultHaikuLineMs = 2500
	DefaultHaikuHoldMs = 4000
)

// Config is the full runtime configuration, loadable from YAML.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Spawn  SpawnConfig  `yaml:"spawn"`
	Path   PathBands    `yaml:"path"`
	Haiku  HaikuConfig  `yaml:"haiku"`
	Seed   uint64       `yaml:"seed"`
	Debug  bool         `yaml:"debug"`
}

// WindowConfig sizes the drawable surface. Terminal and websocket hosts use
// Width and Height as their logical viewport.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FPS        int    `yaml:"fps"`
	Background Color  `yaml:"background"`
}

// SpawnConfig controls batch spawning.
type SpawnConfig struct {
	// LifetimeMs is how long a batch lives before forced teardown. 0 keeps
	// batches until all their entities finish.
	LifetimeMs int `yaml:"lifetime_ms"`
	// MaxBatches caps concurrently live batches. 0 disables the cap.
	MaxBatches int `yaml:"max_batches"`
	// IntervalMs separates continuous spawns. 0 spawns a single round.
	IntervalMs int `yaml:"interval_ms"`
	// Kinds lists what continuous spawning produces, one batch per kind.
	Kinds []Kind `yaml:"kinds"`
	// PerKind holds the per-kind entity parameters.
	PerKind map[Kind]KindConfig `yaml:"per_kind"`
}

// KindConfig holds the random ranges for entities of one kind. Millisecond
// ranges are sampled as [Min, Max).
type KindConfig struct {
	Count      IntRange `yaml:"count"`
	DurationMs IntRange `yaml:"duration_ms"`
	StaggerMs  IntRange `yaml:"stagger_ms"`
	EntryMs    IntRange `yaml:"entry_ms"`
	Loop       bool     `yaml:"loop"`
}

// HaikuConfig controls the typewriter overlay.
type HaikuConfig struct {
	Enabled bool   `yaml:"enabled"`
	LineMs  int    `yaml:"line_ms"`
	HoldMs  int    `yaml:"hold_ms"`
	Ease    string `yaml:"ease"`
}

func defaultKind() KindConfig {
	return KindConfig{
		Count:      IntRange{Min: 4, Max: 11},
		DurationMs: IntRange{Min: 1000, Max: 5000},
		StaggerMs:  IntRange{Min: 1000, Max: 5000},
		EntryMs:    IntRange{Min: 0, Max: 0},
	}
}

// DefaultConfig returns the configuration of the petal scene.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "hanami",
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			FPS:        DefaultFPS,
			Background: Color{R: 0.98, G: 0.95, B: 0.96, A: 1},
		},
		Spawn: SpawnConfig{
			LifetimeMs: DefaultLifetimeMs,
			MaxBatches: DefaultMaxBatches,
			IntervalMs: DefaultIntervalMs,
			Kinds:      []Kind{KindPetal, KindFlower},
			PerKind: map[Kind]KindConfig{
				KindPetal:  defaultKind(),
				KindFlower: defaultKind(),
			},
		},
		Path: DefaultPathBands(),
		Haiku: HaikuConfig{
			Enabled: true,
			LineMs:  DefaultHaikuLineMs,
			HoldMs:  DefaultHaikuHoldMs,
			Ease:    "linear",
		},
	}
}

// Presets are named variations of the default scene.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	// looping reproduces endless drifting petals and flowers: 30 petals and
	// 5 flowers each wait up to ten seconds, then loop forever on a fresh
	// path every pass.
	"looping": func(c *Config) {
		counts := map[Kind]int{KindPetal: 30, KindFlower: 5}
		for kind, n := range counts {
			k := c.Spawn.Kind(kind)
			k.Count = IntRange{Min: n, Max: n}
			k.DurationMs = IntRange{Min: 3000, Max: 5000}
			k.StaggerMs = IntRange{}
			k.EntryMs = IntRange{Min: 0, Max: 10000}
			k.Loop = true
			c.Spawn.PerKind[kind] = k
		}
		c.Spawn.Kinds = []Kind{KindPetal, KindFlower}
		c.Spawn.IntervalMs = 0
		c.Spawn.LifetimeMs = 0
	},
	"storm": func(c *Config) {
		for kind, k := range c.Spawn.PerKind {
			k.Count = IntRange{Min: 12, Max: 25}
			k.DurationMs = IntRange{Min: 800, Max: 2000}
			c.Spawn.PerKind[kind] = k
		}
		c.Spawn.IntervalMs = 2000
		c.Spawn.MaxBatches = 16
		c.Path.Spin = Range{Min: -4, Max: 4}
	},
}

// PresetConfig returns the default configuration with the named preset
// applied, or nil if the preset does not exist.
func PresetConfig(name string) *Config {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset(name); err != nil {
		return nil
	}
	return cfg
}

// ApplyPreset applies the named preset on top of c.
func (c *Config) ApplyPreset(name string) error {
	apply, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q (have %s)", ErrInvalidConfig, name, strings.Join(PresetNames(), ", "))
	}
	if c.Spawn.PerKind == nil {
		c.Spawn.PerKind = make(map[Kind]KindConfig)
	}
	apply(c)
	return nil
}

// PresetNames lists presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first out-of-range value, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.Window.FPS)
	}
	if c.Spawn.LifetimeMs < 0 || c.Spawn.IntervalMs < 0 || c.Spawn.MaxBatches < 0 {
		return fmt.Errorf("%w: negative spawn timing", ErrInvalidConfig)
	}
	for _, kind := range c.Spawn.Kinds {
		if _, ok := c.Spawn.PerKind[kind]; !ok {
			return fmt.Errorf("%w: kind %q has no per_kind entry", ErrInvalidConfig, kind)
		}
	}
	for kind, k := range c.Spawn.PerKind {
		for name, r := range map[string]IntRange{
			"count": k.Count, "duration_ms": k.DurationMs,
			"stagger_ms": k.StaggerMs, "entry_ms": k.EntryMs,
		} {
			if r.Min < 0 || r.Max < r.Min {
				return fmt.Errorf("%w: %s.%s [%d, %d)", ErrInvalidConfig, kind, name, r.Min, r.Max)
			}
		}
	}
	if c.Path.TimingEarly.Min < 0 || c.Path.TimingLate.Max > 1 {
		return fmt.Errorf("%w: timing bands must stay within [0, 1]", ErrInvalidConfig)
	}
	if _, err := EaseByName(c.Haiku.Ease); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Kind returns the parameters for kind, falling back to the defaults.
func (c *SpawnConfig) Kind(kind Kind) KindConfig {
	if k, ok := c.PerKind[kind]; ok {
		return k
	}
	return defaultKind()
}

// Lifetime returns LifetimeMs as a duration.
func (c *SpawnConfig) Lifetime() time.Duration { return ms(c.LifetimeMs) }

// Interval returns IntervalMs as a duration.
func (c *SpawnConfig) Interval() time.Duration { return ms(c.IntervalMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
