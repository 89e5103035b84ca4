package game

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
	"github.com/pthm-cable/riseabove/systems"
)

// generateWorld creates the main agent, guardians, stage NPCs and food.
// Agents are generated in a fixed order so a seed reproduces the world.
func (s *Simulation) generateWorld(plan []r2.Vec) error {
	cfg := s.cfg
	pop := cfg.Population

	if err := s.spawnMain(plan); err != nil {
		return err
	}
	if err := s.spawnGuardians(plan); err != nil {
		return err
	}

	nextID := pop.FirstNPCID
	if err := s.spawnBand(components.StageBottom, pop.Bottom, &nextID, plan); err != nil {
		return err
	}
	if err := s.spawnBand(components.StageMid, pop.Mid, &nextID, plan); err != nil {
		return err
	}

	sort.Slice(s.agents, func(i, j int) bool { return s.agents[i].ID < s.agents[j].ID })

	s.scatterFood()
	return nil
}

// spawnMain places the main agent at the centre of the level, MainSpawnY
// below the top.
func (s *Simulation) spawnMain(plan []r2.Vec) error {
	cfg := s.cfg
	pos := r2.Vec{X: cfg.World.Width / 2, Y: cfg.World.Height - cfg.Population.MainSpawnY}
	mass := s.uniform(cfg.Population.Bottom.MassMin, cfg.Population.Bottom.MassMax)
	race := components.DrawRace(components.StageBottom, s.rng)

	a := s.newAgent(cfg.World.MainAgentID, pos, mass, race, plan)
	return s.addAgent(a)
}

// spawnGuardians places each guardian row evenly across the width.
func (s *Simulation) spawnGuardians(plan []r2.Vec) error {
	cfg := s.cfg
	ids := cfg.Derived.GuardianIDs
	i := 0
	for _, row := range cfg.Guardians.Rows {
		y := cfg.World.Height - row.Depth
		for k := 0; k < row.Count; k++ {
			pos := r2.Vec{X: cfg.World.Width * (float64(k) + 0.5) / float64(row.Count), Y: y}
			mass := s.uniform(cfg.Population.TopMassMin, cfg.Population.TopMassMax)
			race := components.DrawRace(components.StageTop, s.rng)

			a := s.newAgent(ids[i], pos, mass, race, plan)
			a.IsGuardian = true
			a.GuardianPos = pos
			if err := s.addAgent(a); err != nil {
				return err
			}
			i++
		}
	}
	return nil
}

// spawnBand creates the NPCs of one stage inside its spawn band.
func (s *Simulation) spawnBand(stage components.Stage, band config.StageBand, nextID *uint32, plan []r2.Vec) error {
	w, h := s.cfg.World.Width, s.cfg.World.Height
	for k := 0; k < band.Count; k++ {
		pos := r2.Vec{
			X: s.uniform(band.XRange[0], band.XRange[1]) * w,
			Y: s.uniform(band.YRange[0], band.YRange[1]) * h,
		}
		mass := s.uniform(band.MassMin, band.MassMax)
		race := components.DrawRace(stage, s.rng)

		a := s.newAgent(*nextID, pos, mass, race, plan)
		*nextID++
		systems.InitialGoal(a, 0, s.rng)
		if err := s.addAgent(a); err != nil {
			return err
		}
	}
	return nil
}

// newAgent builds an agent with drawn traits, a random facing and a
// target a little way ahead.
func (s *Simulation) newAgent(id uint32, pos r2.Vec, mass float64, race components.Race, plan []r2.Vec) *components.Agent {
	world := s.cfg.World

	a := components.NewAgent(id, pos, mass)
	a.Energy = s.cfg.Energy.Initial
	a.Race = race
	a.Traits = components.DrawTraits(race, s.rng)
	a.LookAtAngle = s.rng.Float64() * 2 * math.Pi
	a.TargetPosition = r2.Add(pos, r2.Scale(s.cfg.Population.TargetAhead, a.Forward()))
	// Boosting is allowed from the first tick.
	a.BoostTime = -math.MaxFloat64

	a.Body.SetPlan(plan, world.MassMult, mass)
	a.UpdateMassProperties(world.MassMult, world.AtomMult, world.SightFactor)
	return a
}

// addAgent registers a. Ids must be unique across all agent kinds.
func (s *Simulation) addAgent(a *components.Agent) error {
	if a.ID == components.NoAgent {
		return fmt.Errorf("agent id %d is reserved", a.ID)
	}
	if _, ok := s.byID[a.ID]; ok {
		return fmt.Errorf("agent id %d assigned twice", a.ID)
	}
	s.byID[a.ID] = a
	s.agents = append(s.agents, a)
	return nil
}

// scatterFood places food uniformly over the level.
func (s *Simulation) scatterFood() {
	fc := s.cfg.Food
	for i := 0; i < fc.Count; i++ {
		id := uint32(i + 1)
		s.foods[id] = &components.Food{
			ID: id,
			Position: r2.Vec{
				X: s.rng.Float64() * s.cfg.World.Width,
				Y: s.rng.Float64() * s.cfg.World.Height,
			},
			Mass:   s.rng.Float64() * fc.MaxMass,
			Energy: s.rng.Float64() * fc.MaxEnergy,
		}
	}
}

func (s *Simulation) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
