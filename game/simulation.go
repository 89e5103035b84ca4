package game

import (
	"log/slog"

	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/systems"
	"github.com/pthm-cable/riseabove/telemetry"
)

// refreshSnapshots captures the observable state of every agent. Positions
// have not moved since the index was built, so the snapshots describe the
// indexed world.
func (s *Simulation) refreshSnapshots() {
	clear(s.snapshots)
	for _, a := range s.agents {
		s.snapshots[a.ID] = a.Snapshot()
	}
}

// updateSensing refreshes every agent's memory and runs the forgetting pass.
func (s *Simulation) updateSensing() {
	s.refreshSnapshots()

	st := s.senseAll()
	if st.LookupFailures > 0 {
		s.collector.Record(telemetry.NewLookupFailureEvent(s.tick, components.NoAgent, st.LookupFailures))
	}

	systems.ForgetPass(s.agents, s.now, s.rng, s.cfg.Sensing)
}

// updateGuardians re-dispatches the guardians when the main agent crosses
// the alert height, and once on the first tick.
func (s *Simulation) updateGuardians(main *components.Agent) {
	alert := main.Position.Y > s.cfg.World.Height*s.cfg.Guardians.AlertFraction
	if s.dispatched && alert == s.alert {
		return
	}
	missing := systems.DispatchGuardians(
		s.byID,
		s.cfg.Derived.GuardianIDs,
		s.cfg.Derived.PatrolIDs,
		main.ID,
		alert,
		s.now,
	)
	if missing > 0 {
		s.collector.Record(telemetry.NewLookupFailureEvent(s.tick, components.NoAgent, missing))
	}
	if s.dispatched {
		slog.Info("guardian alert changed", "tick", s.tick, "alert", alert, "main_y", main.Position.Y)
	}
	s.alert = alert
	s.dispatched = true
}

// updateDecisions picks goals and movement intents for every agent. The
// main agent follows ctrl; everyone else follows its goal.
func (s *Simulation) updateDecisions(main *components.Agent, ctrl components.Control) {
	dcfg := s.cfg.Decision
	for _, a := range s.agents {
		if a == main {
			systems.ApplyControl(a, ctrl, s.now, s.params)
			continue
		}

		if systems.Decide(a, s.now, main.ID, s.rng, dcfg) {
			s.collector.Record(telemetry.NewGoalChangeEvent(s.tick, a.ID))
		}
		if !systems.Act(a, s.snapshots, s.rng, dcfg) {
			// Target is gone; keep last tick's intent.
			s.collector.Record(telemetry.NewLookupFailureEvent(s.tick, a.ID, 1))
			continue
		}
		systems.SteerNPC(a)
	}
}

// updateMotion integrates every agent with the active movement stage.
func (s *Simulation) updateMotion() {
	m := systems.NewMotion(s.cfg, s.params, s.now)
	for _, a := range s.agents {
		m.Step(a)
	}
}

// recoverAgents re-seats agents whose position went non-finite.
func (s *Simulation) recoverAgents() {
	ids := systems.RecoverNonFinite(s.agents, s.cfg.World.Width, s.cfg.World.Height, s.rng)
	for _, id := range ids {
		slog.Warn("recovered non-finite agent", "tick", s.tick, "agent", id)
		s.collector.Record(telemetry.NewRecoveryEvent(s.tick, id))
	}
}

// rebuildIndex rebuilds the agent index from current positions. Collision
// uses it this tick and sensing reuses it on the next.
func (s *Simulation) rebuildIndex() {
	s.points = s.points[:0]
	for _, a := range s.agents {
		s.points = append(s.points, systems.IndexedPoint{ID: a.ID, Pos: a.Position})
	}
	s.index.Build(s.points)
	if n := s.index.Skipped(); n > 0 {
		slog.Warn("spatial index skipped non-finite entries", "tick", s.tick, "count", n)
		s.collector.RecordIndexSkipped(n)
	}
}

// updateCollisions resolves collisions and consumes the resulting events.
func (s *Simulation) updateCollisions() {
	res := s.collider.Collide(s.agents, s.byID, s.index)
	s.collector.RecordBroadPairs(res.BroadPairs)
	for _, info := range res.Infos {
		s.collector.Record(telemetry.NewCollisionEvent(s.tick, info.AgentID1, info.AgentID2))
	}

	world := s.cfg.World
	for _, ev := range res.Events {
		a, ok := s.byID[ev.AgentID]
		if !ok {
			continue
		}
		systems.ApplyCollisionEvent(a, ev, s.now, world.MainAgentID, s.cfg.Energy)

		if other, ok := s.byID[ev.OtherAgentID]; ok && a.ID != world.MainAgentID {
			prev := a.CurrentGoal()
			systems.ReactToCollision(a, other.Snapshot(), s.now, s.rng, s.cfg.Decision)
			if a.CurrentGoal() != prev {
				s.collector.Record(telemetry.NewGoalChangeEvent(s.tick, a.ID))
			}
		}

		a.UpdateMassProperties(world.MassMult, world.AtomMult, world.SightFactor)
	}
	s.events = append(s.events[:0], res.Events...)
}

// updateFeeding lets every agent eat the food it touches.
func (s *Simulation) updateFeeding() {
	for _, a := range s.agents {
		if n := systems.Feed(a, s.foods, s.foodIndex, s.cfg.Food, s.cfg.World); n > 0 {
			s.collector.Record(telemetry.NewFoodEatenEvent(s.tick, a.ID, n))
		}
	}
}

// updateEnergy relaxes every agent's energy toward the ground state.
func (s *Simulation) updateEnergy() {
	for _, a := range s.agents {
		systems.RelaxEnergy(a, s.now, s.cfg.Energy)
	}
}

// updateStage picks the movement stage for the next tick from the main
// agent's energy.
func (s *Simulation) updateStage(main *components.Agent) {
	stage, params := s.cfg.Stage(main.Energy)
	if stage == s.stage {
		return
	}
	slog.Info("movement stage changed",
		"tick", s.tick,
		"from", s.params.Name,
		"to", params.Name,
		"energy", main.Energy,
	)
	s.stage, s.params = stage, params
	s.collector.Record(telemetry.NewStageChangeEvent(s.tick, stage))
}

// checkWin latches the win flag once the main agent nears the surface.
func (s *Simulation) checkWin(main *components.Agent) {
	if s.won || main.Position.Y <= s.cfg.World.Height-s.cfg.World.WinMargin {
		return
	}
	s.won = true
	slog.Info("main agent reached the surface", "tick", s.tick, "time", s.now, "energy", main.Energy)
}
