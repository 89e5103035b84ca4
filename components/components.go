// Package components defines the per-entity state of the simulation.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// NoAgent is never assigned to a live agent.
const NoAgent uint32 = 0

// Agent holds the state of one simulated creature.
// Velocity is never stored: it is Position - LastPosition (Verlet).
type Agent struct {
	ID uint32

	// Kinematics
	Position       r2.Vec
	LastPosition   r2.Vec
	TargetPosition r2.Vec
	LookAtAngle    float64 // radians
	Speed          float64 // |Position - LastPosition| after the last motion step

	// Size. Radius and SightRange follow Mass via UpdateMassProperties.
	Mass       float64
	Radius     float64
	SightRange float64

	Energy float64

	// Behaviour
	Goal     Goal
	GoalTime float64
	Race     Race
	Traits   SocialTraits

	IsGuardian  bool
	GuardianPos r2.Vec

	// Memory, written only by sensing
	SensedNeighbors map[uint32]SightRecord
	SensedFood      map[uint32]FoodSightRecord

	Body SubBodyBuffer

	// Movement intent for this tick
	Accel     Accel
	Turn      Turn
	Boost     bool
	BoostTime float64

	// Collision bookkeeping
	JustCollided      bool
	OtherColliderMass float64
	LastAgentHit      uint32
	LastCollisionTime float64
}

// NewAgent returns an agent at rest at pos with empty memory.
func NewAgent(id uint32, pos r2.Vec, mass float64) *Agent {
	return &Agent{
		ID:              id,
		Position:        pos,
		LastPosition:    pos,
		TargetPosition:  pos,
		Mass:            mass,
		Goal:            NoGoal{},
		SensedNeighbors: make(map[uint32]SightRecord),
		SensedFood:      make(map[uint32]FoodSightRecord),
	}
}

// UpdateMassProperties recomputes the size-derived fields from Mass and
// rescales the sub-body offsets.
func (a *Agent) UpdateMassProperties(massMult, atomMult, sightFactor float64) {
	a.Radius = a.Mass * massMult * atomMult
	a.SightRange = a.Radius * sightFactor
	a.Body.Rescale(a.Mass)
}

// Velocity returns the effective velocity.
func (a *Agent) Velocity() r2.Vec {
	return r2.Sub(a.Position, a.LastPosition)
}

// Forward returns the unit vector of LookAtAngle.
func (a *Agent) Forward() r2.Vec {
	return r2.Vec{X: math.Cos(a.LookAtAngle), Y: math.Sin(a.LookAtAngle)}
}

// CurrentGoal returns the goal, treating an unset goal as NoGoal.
func (a *Agent) CurrentGoal() Goal {
	if a.Goal == nil {
		return NoGoal{}
	}
	return a.Goal
}

// SetGoal replaces the goal and stamps the time it was chosen.
func (a *Agent) SetGoal(g Goal, now float64) {
	a.Goal = g
	a.GoalTime = now
}

// IsFinite reports whether the position history holds only finite values.
func (a *Agent) IsFinite() bool {
	return finite(a.Position) && finite(a.LastPosition)
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Snapshot is a read-only copy of the fields other agents may observe.
type Snapshot struct {
	ID         uint32
	Position   r2.Vec
	Velocity   r2.Vec
	Forward    r2.Vec
	Speed      float64
	Mass       float64
	Radius     float64
	IsGuardian bool
	Body       SubBodyBuffer
	Angle      float64
}

// Snapshot copies the observable state of a.
func (a *Agent) Snapshot() Snapshot {
	return Snapshot{
		ID:         a.ID,
		Position:   a.Position,
		Velocity:   a.Velocity(),
		Forward:    a.Forward(),
		Speed:      a.Speed,
		Mass:       a.Mass,
		Radius:     a.Radius,
		IsGuardian: a.IsGuardian,
		Body:       a.Body,
		Angle:      a.LookAtAngle,
	}
}
