// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world" toml:"world"`
	Movement   MovementConfig   `yaml:"movement" toml:"movement"`
	Boost      BoostConfig      `yaml:"boost" toml:"boost"`
	Sensing    SensingConfig    `yaml:"sensing" toml:"sensing"`
	Decision   DecisionConfig   `yaml:"decision" toml:"decision"`
	Collision  CollisionConfig  `yaml:"collision" toml:"collision"`
	Energy     EnergyConfig     `yaml:"energy" toml:"energy"`
	Food       FoodConfig       `yaml:"food" toml:"food"`
	Population PopulationConfig `yaml:"population" toml:"population"`
	Guardians  GuardianConfig   `yaml:"guardians" toml:"guardians"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// WorldConfig holds level dimensions and the mass-to-size scaling.
type WorldConfig struct {
	Width       float64 `yaml:"width" toml:"width"`
	Height      float64 `yaml:"height" toml:"height"`
	DT          float64 `yaml:"dt" toml:"dt"`
	MassMult    float64 `yaml:"mass_mult" toml:"mass_mult"`       // world units per unit of mass
	AtomMult    float64 `yaml:"atom_mult" toml:"atom_mult"`       // radius = mass * mass_mult * atom_mult
	SightFactor float64 `yaml:"sight_factor" toml:"sight_factor"` // sight range = radius * this
	MainAgentID uint32  `yaml:"main_agent_id" toml:"main_agent_id"`
	WinMargin   float64 `yaml:"win_margin" toml:"win_margin"` // main agent wins above height - this
}

// MovementParams holds one stage of movement tuning.
type MovementParams struct {
	Name                   string  `yaml:"name" toml:"name"`
	Friction1              float64 `yaml:"friction1" toml:"friction1"` // linear drag
	Friction2              float64 `yaml:"friction2" toml:"friction2"` // quadratic drag
	Throttle               float64 `yaml:"throttle" toml:"throttle"`
	TurningSpeedDependence float64 `yaml:"turning_speed_dependence" toml:"turning_speed_dependence"`
	BackwardsMult          float64 `yaml:"backwards_mult" toml:"backwards_mult"`
	BoostMult              float64 `yaml:"boost_mult" toml:"boost_mult"`
	RestTurnSpeed          float64 `yaml:"rest_turn_speed" toml:"rest_turn_speed"`
	MaxTurnSpeed           float64 `yaml:"max_turn_speed" toml:"max_turn_speed"`
	TimeBetweenBoosts      float64 `yaml:"time_between_boosts" toml:"time_between_boosts"`
	BottomBounce           float64 `yaml:"bottom_bounce" toml:"bottom_bounce"`
	WallBounce             float64 `yaml:"wall_bounce" toml:"wall_bounce"`
	SoftAngular            float64 `yaml:"soft_angular" toml:"soft_angular"`
}

// MovementConfig holds the movement stages and the rules for picking one.
type MovementConfig struct {
	Stages []MovementParams `yaml:"stages" toml:"stages"`
	// StageEnergy[i] is the main agent energy above which Stages[i+1] applies.
	StageEnergy           []float64 `yaml:"stage_energy" toml:"stage_energy"`
	GuardianThrottleMult  float64   `yaml:"guardian_throttle_mult" toml:"guardian_throttle_mult"`
	DowncurrentBase       float64   `yaml:"downcurrent_base" toml:"downcurrent_base"`
	DowncurrentGradient   float64   `yaml:"downcurrent_gradient" toml:"downcurrent_gradient"`
	MainBoostMassFactor   float64   `yaml:"main_boost_mass_factor" toml:"main_boost_mass_factor"`
	NPCEnergyAcceleration bool      `yaml:"npc_energy_acceleration" toml:"npc_energy_acceleration"`
}

// BoostConfig shapes the boost impulse.
type BoostConfig struct {
	TotalTime    float64 `yaml:"total_time" toml:"total_time"`
	RiseFraction float64 `yaml:"rise_fraction" toml:"rise_fraction"`
}

// SensingConfig holds sensing and memory parameters.
type SensingConfig struct {
	MaxSensed    int     `yaml:"max_sensed" toml:"max_sensed"`       // closest neighbors recorded per tick
	ForgetChance float64 `yaml:"forget_chance" toml:"forget_chance"` // per-agent probability of a forgetting pass
	SenseFood    bool    `yaml:"sense_food" toml:"sense_food"`
}

// SigmoidConfig parameterises a logistic response curve.
type SigmoidConfig struct {
	Sign  float64 `yaml:"sign" toml:"sign"`
	Upper float64 `yaml:"upper" toml:"upper"`
	Lower float64 `yaml:"lower" toml:"lower"`
	Slope float64 `yaml:"slope" toml:"slope"`
	Shift float64 `yaml:"shift" toml:"shift"`
}

// DecisionConfig holds goal selection parameters.
type DecisionConfig struct {
	DecideChance      float64       `yaml:"decide_chance" toml:"decide_chance"`
	BullyChance       float64       `yaml:"bully_chance" toml:"bully_chance"`
	FleeDistance      float64       `yaml:"flee_distance" toml:"flee_distance"` // multiplied by mass
	WanderJitter      float64       `yaml:"wander_jitter" toml:"wander_jitter"`
	ReactToCollisions bool          `yaml:"react_to_collisions" toml:"react_to_collisions"`
	Flee              SigmoidConfig `yaml:"flee" toml:"flee"`
}

// CollisionConfig holds collision and mass exchange parameters.
type CollisionConfig struct {
	BroadPhaseScale  float64 `yaml:"broad_phase_scale" toml:"broad_phase_scale"` // body extent = mass * mass_mult * this
	BounceScale      float64 `yaml:"bounce_scale" toml:"bounce_scale"`
	SeparationPush   float64 `yaml:"separation_push" toml:"separation_push"`
	MassExchangeRate float64 `yaml:"mass_exchange_rate" toml:"mass_exchange_rate"`
	MinMass          float64 `yaml:"min_mass" toml:"min_mass"`
}

// EnergyConfig holds energy habituation and relaxation parameters.
type EnergyConfig struct {
	IncreaseRate  float64 `yaml:"increase_rate" toml:"increase_rate"`
	DecayRate     float64 `yaml:"decay_rate" toml:"decay_rate"`
	RegainRate    float64 `yaml:"regain_rate" toml:"regain_rate"`
	GroundState   float64 `yaml:"ground_state" toml:"ground_state"`
	QuietPeriod   float64 `yaml:"quiet_period" toml:"quiet_period"` // seconds without collision before relaxing
	GuardianSmash float64 `yaml:"guardian_smash" toml:"guardian_smash"`
	Initial       float64 `yaml:"initial" toml:"initial"`
}

// FoodConfig holds food scattering and consumption parameters.
type FoodConfig struct {
	Count           int     `yaml:"count" toml:"count"`
	MaxMass         float64 `yaml:"max_mass" toml:"max_mass"`
	MaxEnergy       float64 `yaml:"max_energy" toml:"max_energy"`
	EatRadiusFactor float64 `yaml:"eat_radius_factor" toml:"eat_radius_factor"`
}

// StageBand describes where and how heavy agents of one stage spawn.
type StageBand struct {
	Count   int        `yaml:"count" toml:"count"`
	XRange  [2]float64 `yaml:"x_range" toml:"x_range"` // fraction of width
	YRange  [2]float64 `yaml:"y_range" toml:"y_range"` // fraction of height
	MassMin float64    `yaml:"mass_min" toml:"mass_min"`
	MassMax float64    `yaml:"mass_max" toml:"mass_max"`
}

// PopulationConfig holds world generation parameters.
type PopulationConfig struct {
	Bottom      StageBand `yaml:"bottom" toml:"bottom"`
	Mid         StageBand `yaml:"mid" toml:"mid"`
	TopMassMin  float64   `yaml:"top_mass_min" toml:"top_mass_min"`
	TopMassMax  float64   `yaml:"top_mass_max" toml:"top_mass_max"`
	FirstNPCID  uint32    `yaml:"first_npc_id" toml:"first_npc_id"`
	MainSpawnY  float64   `yaml:"main_spawn_y" toml:"main_spawn_y"` // offset below the top of the level
	TargetAhead float64   `yaml:"target_ahead" toml:"target_ahead"`
}

// GuardianRow places a row of guardians.
type GuardianRow struct {
	Count  int     `yaml:"count" toml:"count"`
	Depth  float64 `yaml:"depth" toml:"depth"` // distance below the top of the level
	Patrol bool    `yaml:"patrol" toml:"patrol"`
}

// GuardianConfig holds guardian placement and dispatch parameters.
type GuardianConfig struct {
	FirstID       uint32        `yaml:"first_id" toml:"first_id"`
	Rows          []GuardianRow `yaml:"rows" toml:"rows"`
	AlertFraction float64       `yaml:"alert_fraction" toml:"alert_fraction"` // of level height
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window" toml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window" toml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MassScale   float64 // MassMult * AtomMult
	StageByName map[string]int
	GuardianIDs []uint32
	PatrolIDs   map[uint32]bool
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

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML or TOML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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
		// Only fields present in the file are overwritten
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing toml config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the simulation cannot run with.
func (c *Config) validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height)
	}
	if c.World.DT <= 0 {
		return fmt.Errorf("world: dt must be positive, got %v", c.World.DT)
	}
	if len(c.Movement.Stages) == 0 {
		return fmt.Errorf("movement: at least one stage is required")
	}
	if len(c.Movement.StageEnergy) != len(c.Movement.Stages)-1 {
		return fmt.Errorf("movement: %d stages need %d stage_energy thresholds, got %d",
			len(c.Movement.Stages), len(c.Movement.Stages)-1, len(c.Movement.StageEnergy))
	}
	if c.Boost.TotalTime <= 0 || c.Boost.RiseFraction <= 0 || c.Boost.RiseFraction >= 1 {
		return fmt.Errorf("boost: total_time must be positive and rise_fraction in (0,1)")
	}
	if c.Collision.MinMass <= 0 {
		return fmt.Errorf("collision: min_mass must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MassScale = c.World.MassMult * c.World.AtomMult

	c.Derived.StageByName = make(map[string]int, len(c.Movement.Stages))
	for i, s := range c.Movement.Stages {
		c.Derived.StageByName[s.Name] = i
	}

	c.Derived.GuardianIDs = c.Derived.GuardianIDs[:0]
	c.Derived.PatrolIDs = make(map[uint32]bool)
	id := c.Guardians.FirstID
	for _, row := range c.Guardians.Rows {
		for i := 0; i < row.Count; i++ {
			c.Derived.GuardianIDs = append(c.Derived.GuardianIDs, id)
			if row.Patrol {
				c.Derived.PatrolIDs[id] = true
			}
			id++
		}
	}
}

// Stage returns the movement stage for the given main agent energy.
func (c *Config) Stage(energy float64) (int, MovementParams) {
	idx := 0
	for i, threshold := range c.Movement.StageEnergy {
		if energy > threshold {
			idx = i + 1
		}
	}
	return idx, c.Movement.Stages[idx]
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
