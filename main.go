package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/bodyplan"
	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
	"github.com/pthm-cable/riseabove/game"
	"github.com/pthm-cable/riseabove/scene"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml or .toml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = run until the main agent wins)")
	dt := flag.Float64("dt", 0, "Seconds per tick (0 = use config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	bodyPlanPath := flag.String("body-plan", "", "Path to a body plan YAML (empty = built-in ring)")
	workers := flag.Int("workers", 1, "Sensing worker goroutines")
	autopilot := flag.Bool("autopilot", false, "Steer the main agent to the surface and boost when allowed")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *dt > 0 {
		cfg.World.DT = *dt
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	plan := bodyplan.Default()
	if *bodyPlanPath != "" {
		p, err := bodyplan.Load(*bodyPlanPath)
		if err != nil {
			slog.Error("failed to load body plan", "error", err)
			os.Exit(1)
		}
		plan = p
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		BodyPlan:       plan.Vectors(),
		Workers:        *workers,
	}

	if err := run(cfg, opts, *maxTicks, *autopilot); err != nil {
		slog.Error("simulation stopped", "error", err)
		os.Exit(1)
	}
}

// run drives the headless loop until the tick limit or a win.
func run(cfg *config.Config, opts game.Options, maxTicks int, autopilot bool) error {
	sim, err := game.NewSimulation(cfg, opts)
	if err != nil {
		return err
	}
	defer sim.Close()

	sc := scene.New()
	var snaps []components.Snapshot
	mainID := cfg.World.MainAgentID

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"autopilot", autopilot,
		"workers", opts.Workers,
	)

	for {
		var ctrl components.Control
		if autopilot {
			ctrl = autopilotControl(sim, cfg)
		}
		if err := sim.Step(ctrl); err != nil {
			return fmt.Errorf("step: %w", err)
		}

		snaps = sim.Snapshots(snaps[:0])
		sc.Sync(snaps, mainID)

		if sim.Won() {
			break
		}
		if maxTicks > 0 && int(sim.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", sim.Tick())
			break
		}
	}

	sig := sim.Signals()
	stage, stageName := sim.Stage()
	slog.Info("run finished",
		"tick", sim.Tick(),
		"time", sim.Now(),
		"won", sig.Won,
		"main_energy", sig.MainEnergy,
		"nearest_guardian", sig.NearestGuardian,
		"stage", stage,
		"stage_name", stageName,
		"scene_entities", sc.Len(),
		"perf", sim.PerfStats(),
	)
	return nil
}

// autopilotControl steers the main agent straight up and asks for a boost
// every tick; the cooldown decides when one actually starts.
func autopilotControl(sim *game.Simulation, cfg *config.Config) components.Control {
	main, ok := sim.Agent(cfg.World.MainAgentID)
	if !ok {
		return components.Control{}
	}
	target := r2.Vec{X: main.Position.X, Y: cfg.World.Height}
	return components.Control{
		Accelerate:     components.AccelForward,
		BoostRequested: true,
		SteerTarget:    &target,
	}
}
