package game

import (
	"log/slog"

	"github.com/pthm-cable/riseabove/components"
)

// logWorldSummary logs the generated world.
func (s *Simulation) logWorldSummary(seed int64) {
	var guardians, searching, fighting int
	var massSum float64
	for _, a := range s.agents {
		massSum += a.Mass
		if a.IsGuardian {
			guardians++
			continue
		}
		switch a.CurrentGoal().Kind() {
		case components.GoalSearchForFood:
			searching++
		case components.GoalSearchForFight:
			fighting++
		}
	}

	meanMass := 0.0
	if len(s.agents) > 0 {
		meanMass = massSum / float64(len(s.agents))
	}

	slog.Info("world generated",
		"seed", seed,
		"width", s.cfg.World.Width,
		"height", s.cfg.World.Height,
		"agents", len(s.agents),
		"guardians", guardians,
		"food_seekers", searching,
		"fighters", fighting,
		"mean_mass", meanMass,
		"food", len(s.foods),
		"stage", s.params.Name,
	)
}
