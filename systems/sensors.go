package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
)

// SenseStats summarises one sensing pass.
type SenseStats struct {
	Records        int // neighbor records written
	FoodRecords    int
	LookupFailures int // indexed ids with no snapshot
}

// Sense refreshes the memory of a single agent. snapshots must hold every
// agent the index was built from, captured at build time.
func Sense(
	a *components.Agent,
	idx *SpatialIndex,
	snapshots map[uint32]components.Snapshot,
	foods *FoodIndex,
	now float64,
	cfg config.SensingConfig,
) SenseStats {
	var st SenseStats
	if !a.IsFinite() || a.SightRange <= 0 {
		return st
	}

	for _, n := range idx.WithinRadius(a.Position, a.SightRange) {
		if st.Records >= cfg.MaxSensed {
			break
		}
		if n.ID == a.ID {
			continue
		}
		snap, ok := snapshots[n.ID]
		if !ok {
			st.LookupFailures++
			continue
		}
		a.SensedNeighbors[n.ID] = components.SightRecord{
			ID:         n.ID,
			Position:   snap.Position,
			Heading:    unitOr(snap.Velocity, snap.Forward),
			Speed:      snap.Speed,
			Mass:       snap.Mass,
			Distance:   math.Sqrt(n.DistSq),
			IsGuardian: snap.IsGuardian,
			LastSeen:   now,
		}
		st.Records++
	}

	if !cfg.SenseFood || foods == nil {
		return st
	}
	for _, f := range foods.WithinRadius(a.Position, a.SightRange) {
		if st.FoodRecords >= cfg.MaxSensed {
			break
		}
		a.SensedFood[f.ID] = components.FoodSightRecord{
			ID:       f.ID,
			Position: f.Position,
			Distance: math.Sqrt(distanceSq(f.Position, a.Position)),
			LastSeen: now,
		}
		st.FoodRecords++
	}
	return st
}

// Forget evicts every memory record older than the agent's memory time.
// Returns the number of records removed.
func Forget(a *components.Agent, now float64) int {
	removed := 0
	for id, r := range a.SensedNeighbors {
		if now-r.LastSeen > a.Traits.MemoryTime {
			delete(a.SensedNeighbors, id)
			removed++
		}
	}
	for id, r := range a.SensedFood {
		if now-r.LastSeen > a.Traits.MemoryTime {
			delete(a.SensedFood, id)
			removed++
		}
	}
	return removed
}

// ForgetPass runs Forget on each agent with probability cfg.ForgetChance.
// One random draw is consumed per agent, in slice order.
func ForgetPass(agents []*components.Agent, now float64, rng *rand.Rand, cfg config.SensingConfig) int {
	removed := 0
	for _, a := range agents {
		if rng.Float64() >= cfg.ForgetChance {
			continue
		}
		removed += Forget(a, now)
	}
	return removed
}
