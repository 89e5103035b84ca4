package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/telemetry"
)

// Options holds per-run settings that are not part of the simulation config.
type Options struct {
	Seed           int64
	LogStats       bool    // log window stats as they are flushed
	StatsWindowSec float64 // overrides telemetry.stats_window when > 0
	OutputDir      string  // CSV output directory, empty disables file output

	// BodyPlan holds normalized atom offsets shared by every agent.
	// Empty means each agent is a single atom at its centre.
	BodyPlan []r2.Vec

	// Workers is the number of sensing goroutines. Values below 2 sense
	// on the calling goroutine.
	Workers int

	StatsCallback func(telemetry.WindowStats)
}

// DefaultOptions returns options for a quiet, sequential run.
func DefaultOptions() Options {
	return Options{Seed: 42, Workers: 1}
}
