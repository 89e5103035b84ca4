package game

import (
	"log/slog"

	"github.com/pthm-cable/riseabove/telemetry"
)

// flushTelemetry closes the stats window when it is due and fans the
// result out to the callback, the log and the CSV output.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sampleSnapshot())
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleSnapshot collects the population state for the window record.
func (s *Simulation) sampleSnapshot() telemetry.Snapshot {
	snap := telemetry.Snapshot{
		Agents:          len(s.agents),
		FoodRemaining:   len(s.foods),
		Masses:          make([]float64, 0, len(s.agents)),
		Energies:        make([]float64, 0, len(s.agents)),
		NearestGuardian: -1,
		Stage:           s.stage,
		Won:             s.won,
	}
	for _, a := range s.agents {
		snap.Masses = append(snap.Masses, a.Mass)
		snap.Energies = append(snap.Energies, a.Energy)
	}
	if main, ok := s.byID[s.cfg.World.MainAgentID]; ok {
		snap.MainEnergy = main.Energy
		snap.MainHeight = main.Position.Y
		snap.NearestGuardian = s.nearestGuardian(main)
	}
	return snap
}
