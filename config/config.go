// Package config loads the tunables of the ball pit. Defaults are embedded;
// a file on disk overrides any subset of them.
package config

import (
	"embed"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/mazznoer/csscolorparser"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultsFS embed.FS

type Config struct {
	Debug     bool            `yaml:"debug"`
	World     WorldConfig     `yaml:"world"`
	Ball      BallConfig      `yaml:"ball"`
	Drain     DrainConfig     `yaml:"drain"`
	Chute     ChuteConfig     `yaml:"chute"`
	Hover     HoverConfig     `yaml:"hover"`
	Drag      DragConfig      `yaml:"drag"`
	Boundary  BoundaryConfig  `yaml:"boundary"`
	Reaction  ReactionConfig  `yaml:"reaction"`
	Rendering RenderingConfig `yaml:"rendering"`
}

type WorldConfig struct {
	Gravity       float64 `yaml:"gravity"`
	Iterations    int     `yaml:"iterations"`
	WallThickness float64 `yaml:"wall_thickness"`
	InitialBalls  int     `yaml:"initial_balls"`
	// PrefillQueue starts with the chute full and no live balls.
	PrefillQueue bool `yaml:"prefill_queue"`
}

type BallConfig struct {
	Radius       float64 `yaml:"radius"`
	RadiusJitter float64 `yaml:"radius_jitter"`
	Restitution  float64 `yaml:"restitution"`
	Friction     float64 `yaml:"friction"`
	AirFriction  float64 `yaml:"air_friction"`
	Density      float64 `yaml:"density"`
	Palette      []Color `yaml:"palette"`
}

type DrainConfig struct {
	// X and Y are fractions of the canvas size.
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	Radius         float64 `yaml:"radius"`
	ShrinkZone     float64 `yaml:"shrink_zone"`
	MinShrink      float64 `yaml:"min_shrink"`
	FinalizeShrink float64 `yaml:"finalize_shrink"`
}

type ChuteConfig struct {
	Capacity int `yaml:"capacity"`
	// ExitX is a fraction of the canvas width, ExitY is in pixels.
	ExitX     float64 `yaml:"exit_x"`
	ExitY     float64 `yaml:"exit_y"`
	SpreadX   float64 `yaml:"spread_x"`
	DownSpeed float64 `yaml:"down_speed"`
}

type HoverConfig struct {
	Radius     float64 `yaml:"radius"`
	IntervalMS int     `yaml:"interval_ms"`
}

func (h HoverConfig) Interval() time.Duration {
	return time.Duration(h.IntervalMS) * time.Millisecond
}

type DragConfig struct {
	Stiffness float64 `yaml:"stiffness"`
	MaxForce  float64 `yaml:"max_force"`
	GrabSlop  float64 `yaml:"grab_slop"`
}

type BoundaryConfig struct {
	Restitution       float64 `yaml:"restitution"`
	Friction          float64 `yaml:"friction"`
	VelocityThreshold float64 `yaml:"velocity_threshold"`
	ResizeEpsilon     float64 `yaml:"resize_epsilon"`
	RegisterDelayMS   int     `yaml:"register_delay_ms"`
}

func (b BoundaryConfig) RegisterDelay() time.Duration {
	return time.Duration(b.RegisterDelayMS) * time.Millisecond
}

type ReactionConfig struct {
	Scale      float64 `yaml:"scale"`
	Brightness float64 `yaml:"brightness"`
	DurationMS int     `yaml:"duration_ms"`
	LeadMS     int     `yaml:"lead_ms"`
}

func (r ReactionConfig) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

func (r ReactionConfig) Lead() time.Duration {
	return time.Duration(r.LeadMS) * time.Millisecond
}

type RenderingConfig struct {
	Background  Color   `yaml:"background"`
	ShadowAlpha float64 `yaml:"shadow_alpha"`
	GlowColor   Color   `yaml:"glow_color"`
	GlowRadius  float64 `yaml:"glow_radius"`
}

// Color is any CSS color string in YAML.
type Color struct {
	color.NRGBA
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.NRGBA = parsed
	return nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}

// ParseColor accepts hex, named and functional CSS colors.
func ParseColor(s string) (color.NRGBA, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := parse(nil)
	if err != nil {
		panic("config: embedded defaults: " + err.Error())
	}
	return cfg
}

// Load reads path on top of the embedded defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

func parse(override []byte) (*Config, error) {
	base, err := defaultsFS.ReadFile("default.yaml")
	if err != nil {
		return nil, fmt.Errorf("config: read defaults: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(base, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal defaults: %w", err)
	}
	if len(override) > 0 {
		palette := cfg.Ball.Palette
		cfg.Ball.Palette = nil
		if err := yaml.Unmarshal(override, &cfg); err != nil {
			return nil, fmt.Errorf("config: unmarshal: %w", err)
		}
		if len(cfg.Ball.Palette) == 0 {
			cfg.Ball.Palette = palette
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Ball.Radius <= 0:
		return fmt.Errorf("config: ball.radius must be positive")
	case c.Ball.Density <= 0:
		return fmt.Errorf("config: ball.density must be positive")
	case c.Chute.Capacity <= 0:
		return fmt.Errorf("config: chute.capacity must be positive")
	case c.Drain.Radius <= 0 || c.Drain.ShrinkZone <= c.Drain.Radius:
		return fmt.Errorf("config: drain.shrink_zone must exceed drain.radius > 0")
	case c.Drain.MinShrink <= 0 || c.Drain.MinShrink > 1:
		return fmt.Errorf("config: drain.min_shrink must be in (0, 1]")
	case c.Hover.IntervalMS <= 0:
		return fmt.Errorf("config: hover.interval_ms must be positive")
	case c.World.WallThickness <= 0:
		return fmt.Errorf("config: world.wall_thickness must be positive")
	}
	return nil
}
