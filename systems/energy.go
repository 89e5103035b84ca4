package systems

import (
	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
)

// ApplyCollisionEvent updates one agent from a collision event: the guardian
// penalty for the main agent, then habituation. Hitting a new partner
// excites the agent; hitting the same one again calms it.
func ApplyCollisionEvent(a *components.Agent, ev CollisionEvent, now float64, mainID uint32, cfg config.EnergyConfig) {
	if ev.OtherIsGuardian && a.ID == mainID {
		a.Energy *= cfg.GuardianSmash
	}
	if a.LastAgentHit != ev.OtherAgentID {
		a.Energy *= 1 + cfg.IncreaseRate
	} else {
		a.Energy *= 1 - cfg.IncreaseRate
	}
	a.LastAgentHit = ev.OtherAgentID
	a.LastCollisionTime = now
}

// RelaxEnergy drifts energy toward the ground state once the agent has gone
// QuietPeriod seconds without a collision. Energy below the ground state
// regains a fixed step; energy above it decays proportionally.
func RelaxEnergy(a *components.Agent, now float64, cfg config.EnergyConfig) {
	if now-a.LastCollisionTime <= cfg.QuietPeriod {
		return
	}
	if a.Energy < cfg.GroundState {
		a.Energy = min(cfg.GroundState, a.Energy+cfg.RegainRate)
		return
	}
	a.Energy -= cfg.DecayRate * (a.Energy - cfg.GroundState)
}
