// Package game owns the simulation state and runs the per-tick pipeline.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
	"github.com/pthm-cable/riseabove/systems"
	"github.com/pthm-cable/riseabove/telemetry"
)

// ErrNoMainAgent is returned by Step when the main agent is not in the world.
var ErrNoMainAgent = errors.New("main agent missing")

// Simulation holds the world and every system's working state. It is not
// safe for concurrent use; Step runs its own workers internally.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	// World
	agents    []*components.Agent // ascending id
	byID      map[uint32]*components.Agent
	foods     map[uint32]*components.Food
	snapshots map[uint32]components.Snapshot

	// Indices and scratch
	index     *systems.SpatialIndex
	foodIndex *systems.FoodIndex
	points    []systems.IndexedPoint
	collider  *systems.Collider
	events    []systems.CollisionEvent
	parallel  *parallelState

	// State
	tick       int32
	now        float64
	stage      int
	params     config.MovementParams
	alert      bool
	dispatched bool
	won        bool

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewSimulation generates a world from cfg and opts.
func NewSimulation(cfg *config.Config, opts Options) (*Simulation, error) {
	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		window = opts.StatsWindowSec
	}

	s := &Simulation{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		byID:          make(map[uint32]*components.Agent),
		foods:         make(map[uint32]*components.Food, cfg.Food.Count),
		snapshots:     make(map[uint32]components.Snapshot),
		index:         systems.NewSpatialIndex(),
		collider:      systems.NewCollider(cfg.Collision, cfg.World.MassMult),
		parallel:      newParallelState(opts.Workers),
		collector:     telemetry.NewCollector(window, cfg.World.DT),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	if err := s.generateWorld(opts.BodyPlan); err != nil {
		return nil, fmt.Errorf("generating world: %w", err)
	}
	s.foodIndex = systems.NewFoodIndex(s.foods)
	s.rebuildIndex()

	if main, ok := s.byID[cfg.World.MainAgentID]; ok {
		s.stage, s.params = cfg.Stage(main.Energy)
	} else {
		s.params = cfg.Movement.Stages[0]
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	s.output = output
	if err := s.output.WriteConfig(cfg); err != nil {
		s.output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	s.logWorldSummary(opts.Seed)
	return s, nil
}

// Step advances the simulation by one tick using ctrl for the main agent.
func (s *Simulation) Step(ctrl components.Control) error {
	main, ok := s.byID[s.cfg.World.MainAgentID]
	if !ok {
		return fmt.Errorf("tick %d: %w", s.tick, ErrNoMainAgent)
	}

	s.perf.StartTick()
	s.tick++
	s.now = float64(s.tick) * s.cfg.World.DT

	s.perf.StartPhase(telemetry.PhaseSensing)
	s.updateSensing()

	s.perf.StartPhase(telemetry.PhaseDecision)
	s.updateGuardians(main)
	s.updateDecisions(main, ctrl)

	s.perf.StartPhase(telemetry.PhaseMotion)
	s.updateMotion()

	s.perf.StartPhase(telemetry.PhaseRecover)
	s.recoverAgents()

	s.perf.StartPhase(telemetry.PhaseIndex)
	s.rebuildIndex()

	s.perf.StartPhase(telemetry.PhaseCollision)
	s.updateCollisions()

	s.perf.StartPhase(telemetry.PhaseFeeding)
	s.updateFeeding()

	s.perf.StartPhase(telemetry.PhaseEnergy)
	s.updateEnergy()
	s.updateStage(main)
	s.checkWin(main)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perf.EndTick()
	return nil
}

// Signals is the plain-data view a presentation layer samples each frame.
type Signals struct {
	MainEnergy      float64
	NearestGuardian float64 // -1 when there are no guardians
	Pursuers        int     // agents whose goal targets the main agent
	Won             bool
}

// Signals returns the current main agent signals.
func (s *Simulation) Signals() Signals {
	sig := Signals{NearestGuardian: -1, Won: s.won}
	main, ok := s.byID[s.cfg.World.MainAgentID]
	if !ok {
		return sig
	}
	sig.MainEnergy = main.Energy
	sig.NearestGuardian = s.nearestGuardian(main)
	for _, a := range s.agents {
		if id, ok := components.TargetAgent(a.CurrentGoal()); ok && id == main.ID && a != main {
			sig.Pursuers++
		}
	}
	return sig
}

// nearestGuardian returns the distance from a to the closest guardian.
func (s *Simulation) nearestGuardian(a *components.Agent) float64 {
	best := -1.0
	for _, id := range s.cfg.Derived.GuardianIDs {
		g, ok := s.byID[id]
		if !ok {
			continue
		}
		d := math.Hypot(g.Position.X-a.Position.X, g.Position.Y-a.Position.Y)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int32 { return s.tick }

// Now returns the simulation time in seconds.
func (s *Simulation) Now() float64 { return s.now }

// Stage returns the active movement stage index and its name.
func (s *Simulation) Stage() (int, string) { return s.stage, s.params.Name }

// Won reports whether the main agent has reached the surface.
func (s *Simulation) Won() bool { return s.won }

// AgentCount returns the number of agents in the world.
func (s *Simulation) AgentCount() int { return len(s.agents) }

// FoodRemaining returns the number of uneaten food items.
func (s *Simulation) FoodRemaining() int { return len(s.foods) }

// Agent returns a snapshot of one agent.
func (s *Simulation) Agent(id uint32) (components.Snapshot, bool) {
	a, ok := s.byID[id]
	if !ok {
		return components.Snapshot{}, false
	}
	return a.Snapshot(), true
}

// Snapshots appends a snapshot of every agent to dst, in ascending id order.
func (s *Simulation) Snapshots(dst []components.Snapshot) []components.Snapshot {
	for _, a := range s.agents {
		dst = append(dst, a.Snapshot())
	}
	return dst
}

// Events returns the collision events of the last tick. The slice is
// reused by the next Step.
func (s *Simulation) Events() []systems.CollisionEvent { return s.events }

// PerfStats returns timing statistics over the recent ticks.
func (s *Simulation) PerfStats() telemetry.PerfStats { return s.perf.Stats() }

// Close stops the sensing workers and flushes output files.
func (s *Simulation) Close() error {
	s.parallel.stopWorkers()
	if s.output == nil {
		return nil
	}
	if err := s.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		return err
	}
	return nil
}
