package systems

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
)

// Decide runs goal selection for one non-main agent and reports whether
// the goal changed.
//
// Food refinements run every tick. The transition rules run with
// probability cfg.DecideChance, and only once the current goal is older
// than the agent's memory time.
func Decide(a *components.Agent, now float64, mainID uint32, rng *rand.Rand, cfg config.DecisionConfig) bool {
	if refineFoodGoal(a, now) {
		return true
	}

	if rng.Float64() >= cfg.DecideChance {
		return false
	}
	if now-a.GoalTime <= a.Traits.MemoryTime {
		return false
	}

	ids := sensedIDs(a)

	if a.IsGuardian {
		for _, id := range ids {
			if id == mainID {
				return setGoal(a, components.Bully{ID: mainID}, now)
			}
		}
	}

	for _, id := range ids {
		if id == a.LastAgentHit {
			continue
		}
		if rng.Float64() < cfg.BullyChance {
			return setGoal(a, components.Bully{ID: id}, now)
		}
	}
	return false
}

// refineFoodGoal turns a food search into a concrete meal once food is
// remembered, and gives up on a meal that has been forgotten.
func refineFoodGoal(a *components.Agent, now float64) bool {
	switch g := a.CurrentGoal().(type) {
	case components.SearchForFood:
		if rec, ok := nearestFood(a); ok {
			return setGoal(a, components.EatFood{Record: rec}, now)
		}
	case components.EatFood:
		if _, ok := a.SensedFood[g.Record.ID]; !ok {
			return setGoal(a, components.SearchForFood{}, now)
		}
	}
	return false
}

func nearestFood(a *components.Agent) (components.FoodSightRecord, bool) {
	var best components.FoodSightRecord
	found := false
	for _, r := range a.SensedFood {
		if !found || r.Distance < best.Distance || (r.Distance == best.Distance && r.ID < best.ID) {
			best = r
			found = true
		}
	}
	return best, found
}

// sensedIDs returns the remembered neighbor ids in ascending order so that
// random draws are consumed deterministically.
func sensedIDs(a *components.Agent) []uint32 {
	ids := make([]uint32, 0, len(a.SensedNeighbors))
	for id := range a.SensedNeighbors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func setGoal(a *components.Agent, g components.Goal, now float64) bool {
	a.SetGoal(g, now)
	return true
}

// InitialGoal picks the starting goal of an NPC from its aggressivity.
func InitialGoal(a *components.Agent, now float64, rng *rand.Rand) {
	if rng.Float64() < a.Traits.Aggressivity {
		a.SetGoal(components.SearchForFight{}, now)
		return
	}
	a.SetGoal(components.SearchForFood{}, now)
}

// FleeProbability returns the chance that an agent of mass own flees after
// being hit by an agent of mass attacker.
func FleeProbability(attacker, own float64, s config.SigmoidConfig) float64 {
	if own <= 0 {
		return s.Upper
	}
	return clamp01(sigmoid(attacker/own, s.Sign, s.Upper, s.Lower, s.Slope, s.Shift))
}

// ReactToCollision retargets a non-guardian NPC that was just hit: it
// either flees from the attacker or turns on it.
func ReactToCollision(a *components.Agent, attacker components.Snapshot, now float64, rng *rand.Rand, cfg config.DecisionConfig) {
	if a.IsGuardian || !cfg.ReactToCollisions {
		return
	}
	if rng.Float64() < FleeProbability(attacker.Mass, a.Mass, cfg.Flee) {
		a.SetGoal(components.Flee{From: attacker.Position}, now)
		return
	}
	a.SetGoal(components.Bully{ID: attacker.ID}, now)
}

// DispatchGuardians sends every guardian after the main agent when alert,
// otherwise returns patrol guardians to their posts. Guardians missing from
// agents are skipped and counted.
func DispatchGuardians(
	agents map[uint32]*components.Agent,
	guardianIDs []uint32,
	patrol map[uint32]bool,
	mainID uint32,
	alert bool,
	now float64,
) (missing int) {
	for _, id := range guardianIDs {
		g, ok := agents[id]
		if !ok {
			missing++
			continue
		}
		if alert || !patrol[id] {
			g.SetGoal(components.Bully{ID: mainID}, now)
		} else {
			g.SetGoal(components.GoTo{Target: g.GuardianPos}, now)
		}
	}
	return missing
}
