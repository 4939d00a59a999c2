// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/swirl/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Swarm     SwarmConfig     `yaml:"swarm"`
	Pairwise  PairwiseConfig  `yaml:"pairwise"`
	Camera    CameraConfig    `yaml:"camera"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Autopilot AutopilotConfig `yaml:"autopilot"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`
	Terminal  TerminalConfig  `yaml:"terminal"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TargetFPS  int     `yaml:"target_fps"`
	PointSize  float64 `yaml:"point_size"`  // world-space radius of a drawn particle
	SpeedScale float64 `yaml:"speed_scale"` // speed mapped to the hot end of the colour ramp
}

// FieldConfig holds the initial particle layout.
type FieldConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"` // annulus base radius
	Depth  float64 `yaml:"depth"`  // shared z of every particle
}

// SwarmConfig holds the force model constants.
type SwarmConfig struct {
	BaseOffset       float64 `yaml:"base_offset"`
	Spring           float64 `yaml:"spring"`
	Damping          float64 `yaml:"damping"`
	PointerThreshold float64 `yaml:"pointer_threshold"`
	PointerStrength  float64 `yaml:"pointer_strength"`
}

// PairwiseConfig holds the separation solver settings.
type PairwiseConfig struct {
	MinDist         float64 `yaml:"min_dist"`
	RepulsionFactor float64 `yaml:"repulsion_factor"`
	Method          string  `yaml:"method"` // brute | grid
}

// CameraConfig holds the perspective camera placement.
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	Up       [3]float64 `yaml:"up"`
	FovY     float64    `yaml:"fovy"` // degrees
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
}

// PointerConfig holds pointer projection settings.
type PointerConfig struct {
	Depth float64 `yaml:"depth"` // NDC depth used when unprojecting the pointer
}

// AutopilotConfig drives the pointer from noise when no one is steering.
type AutopilotConfig struct {
	Enabled bool    `yaml:"enabled"`
	Speed   float64 `yaml:"speed"`   // noise samples per second
	Extent  float64 `yaml:"extent"`  // NDC amplitude in [0,1]
	Alpha   float64 `yaml:"alpha"`   // perlin weight
	Beta    float64 `yaml:"beta"`    // perlin harmonic scaling
	Octaves int32   `yaml:"octaves"` // perlin iterations
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// StreamConfig holds websocket streaming settings.
type StreamConfig struct {
	Path         string  `yaml:"path"`
	SendInterval float64 `yaml:"send_interval"` // seconds between frames per client
	WriteTimeout float64 `yaml:"write_timeout"` // seconds
}

// TerminalConfig holds terminal frontend settings.
type TerminalConfig struct {
	FrameRate  int     `yaml:"frame_rate"`
	CellAspect float64 `yaml:"cell_aspect"` // cell height / cell width
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT         float64 // 1 / Screen.TargetFPS
	Aspect     float64 // Screen.Width / Screen.Height
	CameraPos  r3.Vec
	CameraLook r3.Vec
	CameraUp   r3.Vec
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Field.Count < 0 {
		return fmt.Errorf("field.count must be >= 0, got %d", c.Field.Count)
	}
	if c.Swarm.Damping <= 0 || c.Swarm.Damping >= 1 {
		return fmt.Errorf("swarm.damping must be in (0,1), got %v", c.Swarm.Damping)
	}
	if c.Pairwise.MinDist < 0 {
		return fmt.Errorf("pairwise.min_dist must be >= 0, got %v", c.Pairwise.MinDist)
	}
	switch systems.PairMethod(c.Pairwise.Method) {
	case systems.PairBrute, systems.PairGrid:
	default:
		return fmt.Errorf("pairwise.method must be %q or %q, got %q",
			systems.PairBrute, systems.PairGrid, c.Pairwise.Method)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT = 1.0 / float64(fps)
	c.Derived.Aspect = float64(c.Screen.Width) / float64(c.Screen.Height)
	c.Derived.CameraPos = vec(c.Camera.Position)
	c.Derived.CameraLook = vec(c.Camera.Target)
	c.Derived.CameraUp = vec(c.Camera.Up)
	if c.Derived.CameraUp == (r3.Vec{}) {
		c.Derived.CameraUp = r3.Vec{Y: 1}
	}
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

// SwarmParams returns the force model constants as systems.Params.
func (c *Config) SwarmParams() systems.Params {
	return systems.Params{
		BaseOffset:       c.Swarm.BaseOffset,
		Spring:           c.Swarm.Spring,
		Damping:          c.Swarm.Damping,
		PointerThreshold: c.Swarm.PointerThreshold,
		PointerStrength:  c.Swarm.PointerStrength,
		MinDist:          c.Pairwise.MinDist,
		RepulsionFactor:  c.Pairwise.RepulsionFactor,
	}
}

// ApplySwarmParams writes p back into the config.
func (c *Config) ApplySwarmParams(p systems.Params) {
	c.Swarm.BaseOffset = p.BaseOffset
	c.Swarm.Spring = p.Spring
	c.Swarm.Damping = p.Damping
	c.Swarm.PointerThreshold = p.PointerThreshold
	c.Swarm.PointerStrength = p.PointerStrength
	c.Pairwise.MinDist = p.MinDist
	c.Pairwise.RepulsionFactor = p.RepulsionFactor
}

// FieldLayout returns the initial layout as systems.FieldLayout.
func (c *Config) FieldLayout() systems.FieldLayout {
	return systems.FieldLayout{
		Count:  c.Field.Count,
		Radius: c.Field.Radius,
		Depth:  c.Field.Depth,
	}
}

// SimulationOptions returns the options for systems.NewSimulation.
func (c *Config) SimulationOptions() systems.Options {
	return systems.Options{
		Params:       c.SwarmParams(),
		PairMethod:   systems.PairMethod(c.Pairwise.Method),
		CameraOrigin: c.Derived.CameraPos,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
