package main

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Tuning holds every simulation constant. Differences between gameplay
// revisions (spray ranges, obstacle bob, collision thresholds) are expressed
// here rather than in code.
type Tuning struct {
	Player    PlayerConfig    `yaml:"player"`
	Session   SessionConfig   `yaml:"session"`
	Spawner   SpawnerConfig   `yaml:"spawner"`
	Obstacles ObstaclesConfig `yaml:"obstacles"`
	Particles ParticlesConfig `yaml:"particles"`
	Water     WaterConfig     `yaml:"water"`
	Camera    CameraConfig    `yaml:"camera"`
	Ambient   AmbientConfig   `yaml:"ambient"`
}

// PlayerConfig holds boat movement parameters.
type PlayerConfig struct {
	LateralBound  float64 `yaml:"lateral_bound"`   // |x| limit
	DodgeSpeed    float64 `yaml:"dodge_speed"`     // lateral units per tick
	ModelY        float64 `yaml:"model_y"`         // resting height with the loaded model
	FallbackY     float64 `yaml:"fallback_y"`      // resting height with the fallback box
	Footprint     float64 `yaml:"footprint"`       // half-extent of the logical collision box
	MoveSplash    bool    `yaml:"move_splash"`     // impact spray on lateral move start
	BowInterval   float64 `yaml:"bow_interval"`    // seconds between bow spray retriggers
	BowOffsetZ    float64 `yaml:"bow_offset_z"`    // bow spray origin relative to the boat
	ImpactOffsetZ float64 `yaml:"impact_offset_z"` // impact spray origin on collision (backward)
}

// SessionConfig holds run progression parameters.
type SessionConfig struct {
	InitialSpeed   float64 `yaml:"initial_speed"`
	SpeedIncrement float64 `yaml:"speed_increment"` // per Running tick
}

// SpawnerConfig holds obstacle placement parameters.
type SpawnerConfig struct {
	Probability  float64 `yaml:"probability"`   // per Running tick
	LeadDistance float64 `yaml:"lead_distance"` // spawn this far ahead of the player
	LateralRange float64 `yaml:"lateral_range"` // x uniform in [-range, range]
}

// ObstaclesConfig holds per-kind obstacle profiles and the recycle margin.
type ObstaclesConfig struct {
	PassMargin float64         `yaml:"pass_margin"`
	Rock       ObstacleProfile `yaml:"rock"`
	Log        ObstacleProfile `yaml:"log"`
}

// ObstacleProfile describes the vertical behaviour of one obstacle kind.
type ObstacleProfile struct {
	BaseY         float64 `yaml:"base_y"`
	Floats        bool    `yaml:"floats"`
	BobAmplitude  float64 `yaml:"bob_amplitude"`
	BobSpeed      float64 `yaml:"bob_speed"` // rad/s
	VerticalReach float64 `yaml:"vertical_reach"`
}

// ParticlesConfig holds both spray emitters and the shared decay constants.
type ParticlesConfig struct {
	LifeDecay      float64       `yaml:"life_decay"` // life lost per second
	Gravity        float64       `yaml:"gravity"`    // upward velocity lost per reference step
	RefStep        float64       `yaml:"ref_step"`   // seconds; motion constants are per this step
	Bow            EmitterConfig `yaml:"bow"`
	Impact         EmitterConfig `yaml:"impact"`
	FallbackBow    EmitterConfig `yaml:"fallback_bow"`
	FallbackImpact EmitterConfig `yaml:"fallback_impact"`
}

// EmitterConfig sizes one particle pool and picks its spray tier.
type EmitterConfig struct {
	Count int       `yaml:"count"`
	Size  float64   `yaml:"size"`
	Tier  SprayTier `yaml:"tier"`
}

// SprayTier is the velocity distribution for a burst.
type SprayTier struct {
	Lateral Range `yaml:"lateral"`
	Upward  Range `yaml:"upward"`
	Depth   Range `yaml:"depth"`
}

// Range is a closed float interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// WaterConfig holds the heightfield terms and grid shape.
type WaterConfig struct {
	Width     float64    `yaml:"width"`
	Depth     float64    `yaml:"depth"`
	SegmentsX int        `yaml:"segments_x"`
	SegmentsY int        `yaml:"segments_y"`
	Terms     []WaveTerm `yaml:"terms"`
}

// CameraConfig holds follow parameters.
type CameraConfig struct {
	Offset       Vector3 `yaml:"offset"`
	SmoothFactor float64 `yaml:"smooth_factor"`
}

// AmbientConfig holds cloud and bird drift parameters.
type AmbientConfig struct {
	Clouds DrifterConfig `yaml:"clouds"`
	Birds  DrifterConfig `yaml:"birds"`
}

// DrifterConfig describes one ambient population.
type DrifterConfig struct {
	Count   int     `yaml:"count"`
	Height  Range   `yaml:"height"`
	Speed   Range   `yaml:"speed"`
	Span    float64 `yaml:"span"`    // reset once |travel coordinate| exceeds this
	Spread  float64 `yaml:"spread"`  // cross-axis scatter
	Wobble  float64 `yaml:"wobble"`  // altitude noise amplitude (birds)
	Lateral bool    `yaml:"lateral"` // travel along X instead of Z
}

// LoadTuning loads embedded defaults and, when path is non-empty, overlays the
// user file on top of them.
func LoadTuning(path string) (*Tuning, error) {
	cfg := &Tuning{}
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultTuning returns the embedded defaults. Panics if they do not parse.
func DefaultTuning() *Tuning {
	cfg, err := LoadTuning("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Validate rejects values the simulation cannot run with.
func (c *Tuning) Validate() error {
	if c.Player.LateralBound <= 0 {
		return fmt.Errorf("player.lateral_bound must be positive")
	}
	if c.Spawner.Probability < 0 || c.Spawner.Probability > 1 {
		return fmt.Errorf("spawner.probability must be in [0,1], got %v", c.Spawner.Probability)
	}
	if c.Session.SpeedIncrement < 0 {
		return fmt.Errorf("session.speed_increment must not be negative")
	}
	if c.Camera.SmoothFactor <= 0 || c.Camera.SmoothFactor > 1 {
		return fmt.Errorf("camera.smooth_factor must be in (0,1], got %v", c.Camera.SmoothFactor)
	}
	if c.Particles.RefStep <= 0 {
		return fmt.Errorf("particles.ref_step must be positive")
	}
	for name, e := range map[string]EmitterConfig{
		"bow": c.Particles.Bow, "impact": c.Particles.Impact,
		"fallback_bow": c.Particles.FallbackBow, "fallback_impact": c.Particles.FallbackImpact,
	} {
		if e.Count <= 0 {
			return fmt.Errorf("particles.%s.count must be positive", name)
		}
	}
	if n := len(c.Water.Terms); n < 1 || n > 3 {
		return fmt.Errorf("water.terms must hold 1-3 terms, got %d", n)
	}
	if c.Water.SegmentsX <= 0 || c.Water.SegmentsY <= 0 {
		return fmt.Errorf("water segments must be positive")
	}
	return nil
}

// WriteYAML writes the effective configuration to a YAML file.
func (c *Tuning) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
