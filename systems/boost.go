package systems

import (
	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
)

// BoostImpulse returns the boost envelope at elapsed seconds since the boost
// started: a linear rise to 1 over RiseFraction of TotalTime, a linear fall
// to 0 over the rest, and 0 outside [0, TotalTime).
func BoostImpulse(elapsed float64, cfg config.BoostConfig) float64 {
	rise := cfg.RiseFraction * cfg.TotalTime
	fall := cfg.TotalTime - rise
	switch {
	case elapsed < 0:
		return 0
	case elapsed < rise:
		return elapsed / rise
	case elapsed < cfg.TotalTime:
		return 1 - (elapsed-rise)/fall
	}
	return 0
}

// TriggerBoost starts a boost unless the previous one started less than
// TimeBetweenBoosts ago. Reports whether a boost started.
func TriggerBoost(a *components.Agent, now float64, p config.MovementParams) bool {
	if now-a.BoostTime <= p.TimeBetweenBoosts {
		return false
	}
	a.Boost = true
	a.BoostTime = now
	return true
}
