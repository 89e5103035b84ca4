package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
)

// CollisionEvent tells one agent that it collided. Every resolved
// collision produces two events, one per participant.
type CollisionEvent struct {
	AgentID         uint32
	OtherAgentID    uint32
	OtherIsGuardian bool
}

// CollisionInfo describes one resolved collision. Atom1 and Atom2 index the
// first overlapping atoms, Velocity1 and Velocity2 are post-collision, and
// Exchange is the mass moved from agent 2 to agent 1.
type CollisionInfo struct {
	AgentID1, AgentID2   uint32
	Atom1, Atom2         int
	Velocity1, Velocity2 r2.Vec
	Mass1, Mass2         float64
	Exchange             float64
	Position1, Position2 r2.Vec
	GuardianHit          bool
}

// CollisionResult is the outcome of one collision pass.
type CollisionResult struct {
	Infos      []CollisionInfo
	Events     []CollisionEvent
	BroadPairs int // pairs that passed the broad phase
}

// ElasticCollision returns the post-collision velocities of two discs at
// x1 and x2. Momentum is conserved. Coincident centres use the x axis.
func ElasticCollision(x1, x2, u1, u2 r2.Vec, m1, m2 float64) (v1, v2 r2.Vec) {
	n := unitOr(r2.Sub(x1, x2), defaultAxis)
	total := m1 + m2
	k1 := 2 * m2 / total
	k2 := 2 * m1 / total
	v1 = r2.Sub(u1, r2.Scale(k1*r2.Dot(r2.Sub(u1, u2), n), n))
	v2 = r2.Sub(u2, r2.Scale(k2*r2.Dot(r2.Sub(u2, u1), n), n))
	return v1, v2
}

// ExchangeMass moves mass between two colliding agents. The heavier agent
// takes rate of the lighter agent's mass; on a tie the first agent gives
// rate of its own. No agent is left below minMass. The total is unchanged.
func ExchangeMass(m1, m2, rate, minMass float64) (n1, n2, exchange float64) {
	if m1 > m2 {
		exchange = m2 * rate
		if m2-exchange < minMass {
			exchange = max(0, m2-minMass)
		}
	} else {
		exchange = -m1 * rate
		if m1+exchange < minMass {
			exchange = -max(0, m1-minMass)
		}
	}
	return m1 + exchange, m2 - exchange, exchange
}

// Collider detects and resolves collisions. It holds scratch buffers, so
// one Collider must not be shared between goroutines.
type Collider struct {
	Config   config.CollisionConfig
	MassMult float64

	snaps    map[uint32]components.Snapshot
	centers1 []r2.Vec
	centers2 []r2.Vec
}

// NewCollider creates a collider.
func NewCollider(cfg config.CollisionConfig, massMult float64) *Collider {
	return &Collider{
		Config:   cfg,
		MassMult: massMult,
		snaps:    make(map[uint32]components.Snapshot),
	}
}

// Collide runs one collision pass. agents must be in a stable order and
// idx must have been built from their current positions. Each agent takes
// part in at most one collision per pass.
func (c *Collider) Collide(agents []*components.Agent, byID map[uint32]*components.Agent, idx *SpatialIndex) CollisionResult {
	var res CollisionResult

	clear(c.snaps)
	for _, a := range agents {
		a.JustCollided = false
		c.snaps[a.ID] = a.Snapshot()
	}

	taken := make(map[uint32]bool)
	for _, a := range agents {
		if taken[a.ID] {
			continue
		}
		otherID, ok := nearestOther(idx, a)
		if !ok || taken[otherID] {
			continue
		}
		s1 := c.snaps[a.ID]
		s2, ok := c.snaps[otherID]
		if !ok {
			continue
		}

		extent := (s1.Mass + s2.Mass) * c.MassMult * c.Config.BroadPhaseScale
		if distanceSq(s1.Position, s2.Position) >= extent*extent {
			continue
		}
		res.BroadPairs++

		i, j, hit := c.narrowPhase(s1, s2)
		if !hit {
			continue
		}
		taken[s1.ID] = true
		taken[s2.ID] = true
		res.Infos = append(res.Infos, c.resolve(s1, s2, i, j))
	}

	c.apply(res.Infos, byID, &res)
	return res
}

// nearestOther returns the nearest indexed agent that is not a.
func nearestOther(idx *SpatialIndex, a *components.Agent) (uint32, bool) {
	for _, n := range idx.NearestK(a.Position, 2) {
		if n.ID != a.ID {
			return n.ID, true
		}
	}
	return components.NoAgent, false
}

// narrowPhase tests atom pairs in order and returns the first overlap.
func (c *Collider) narrowPhase(s1, s2 components.Snapshot) (int, int, bool) {
	c.centers1 = s1.Body.WorldCenters(c.centers1[:0], s1.Position, s1.Angle)
	c.centers2 = s2.Body.WorldCenters(c.centers2[:0], s2.Position, s2.Angle)
	reach := s1.Radius + s2.Radius
	reachSq := reach * reach
	for i, p1 := range c.centers1 {
		for j, p2 := range c.centers2 {
			if distanceSq(p1, p2) < reachSq {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// resolve computes the outcome of a collision from the snapshots.
func (c *Collider) resolve(s1, s2 components.Snapshot, i, j int) CollisionInfo {
	v1, v2 := ElasticCollision(s1.Position, s2.Position, s1.Velocity, s2.Velocity, s1.Mass, s2.Mass)

	// Push the bodies apart along the line of centres, lighter one further.
	n := unitOr(r2.Sub(s2.Position, s1.Position), defaultAxis)
	total := s1.Mass + s2.Mass
	push := c.Config.SeparationPush
	v1 = r2.Sub(v1, r2.Scale(s2.Mass/total*push, n))
	v2 = r2.Add(v2, r2.Scale(s1.Mass/total*push, n))

	_, _, exchange := ExchangeMass(s1.Mass, s2.Mass, c.Config.MassExchangeRate, c.Config.MinMass)
	return CollisionInfo{
		AgentID1:    s1.ID,
		AgentID2:    s2.ID,
		Atom1:       i,
		Atom2:       j,
		Velocity1:   v1,
		Velocity2:   v2,
		Mass1:       s1.Mass,
		Mass2:       s2.Mass,
		Exchange:    exchange,
		Position1:   s1.Position,
		Position2:   s2.Position,
		GuardianHit: s1.IsGuardian || s2.IsGuardian,
	}
}

// apply writes resolved collisions back to the agents and emits events.
// An agent resolved twice in one pass is a broken invariant and panics.
func (c *Collider) apply(infos []CollisionInfo, byID map[uint32]*components.Agent, res *CollisionResult) {
	seen := make(map[uint32]bool, 2*len(infos))
	for _, info := range infos {
		for _, id := range [2]uint32{info.AgentID1, info.AgentID2} {
			if seen[id] {
				panic(fmt.Sprintf("collision: agent %d resolved twice in one pass", id))
			}
			seen[id] = true
		}

		a1, a2 := byID[info.AgentID1], byID[info.AgentID2]
		if a1 == nil || a2 == nil {
			continue
		}
		a1.LastPosition = r2.Sub(a1.Position, r2.Scale(c.Config.BounceScale, info.Velocity1))
		a2.LastPosition = r2.Sub(a2.Position, r2.Scale(c.Config.BounceScale, info.Velocity2))

		a1.Mass += info.Exchange
		a2.Mass -= info.Exchange

		a1.JustCollided, a2.JustCollided = true, true
		a1.OtherColliderMass, a2.OtherColliderMass = info.Mass2, info.Mass1

		res.Events = append(res.Events,
			CollisionEvent{AgentID: a1.ID, OtherAgentID: a2.ID, OtherIsGuardian: a2.IsGuardian},
			CollisionEvent{AgentID: a2.ID, OtherAgentID: a1.ID, OtherIsGuardian: a1.IsGuardian},
		)
	}
}
