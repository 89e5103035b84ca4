package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
)

// SteerTowardsTarget sets a turning intent toward the agent's target and
// asks for forward thrust. The turn rate is |dot(left, dir)| so it fades
// out as the agent lines up. Does nothing when the target is reached.
func SteerTowardsTarget(a *components.Agent) {
	to := r2.Sub(a.TargetPosition, a.Position)
	if to.X == 0 && to.Y == 0 || !isFinite(to) {
		return
	}
	a.Turn = steer(a.Forward(), r2.Unit(to))
	a.Accel = components.AccelForward
}

// steer returns the turn that rotates forward toward dir.
func steer(forward, dir r2.Vec) components.Turn {
	left := r2.Vec{X: -forward.Y, Y: forward.X}
	d := r2.Dot(left, dir)
	if d < 0 {
		return components.Turn{Dir: components.TurnRight, Amount: -d}
	}
	return components.Turn{Dir: components.TurnLeft, Amount: d}
}

// SteerNPC sets the movement intent of a non-main agent from its goal.
// Agents without a goal coast.
func SteerNPC(a *components.Agent) {
	if a.CurrentGoal().Kind() == components.GoalNone {
		a.Accel = components.AccelNone
		a.Turn = components.Turn{}
		return
	}
	SteerTowardsTarget(a)
}

// ApplyControl sets the main agent's movement intent from decoded input.
// A steer target overrides the discrete turn. Reports whether a boost started.
func ApplyControl(a *components.Agent, c components.Control, now float64, p config.MovementParams) bool {
	a.Accel = c.Accelerate
	if c.SteerTarget != nil {
		a.TargetPosition = *c.SteerTarget
		a.Turn = components.Turn{}
		if to := r2.Sub(a.TargetPosition, a.Position); (to.X != 0 || to.Y != 0) && isFinite(to) {
			a.Turn = steer(a.Forward(), r2.Unit(to))
		}
	} else {
		a.Turn = components.Turn{Dir: c.Turn, Amount: 1}
	}
	if c.BoostRequested {
		return TriggerBoost(a, now, p)
	}
	return false
}

// Motion integrates agents for one tick with position Verlet.
type Motion struct {
	Params   config.MovementParams
	Movement config.MovementConfig
	Boost    config.BoostConfig
	Width    float64
	Height   float64
	MainID   uint32
	Now      float64
	DT       float64
}

// NewMotion builds the integrator for one tick.
func NewMotion(cfg *config.Config, params config.MovementParams, now float64) Motion {
	return Motion{
		Params:   params,
		Movement: cfg.Movement,
		Boost:    cfg.Boost,
		Width:    cfg.World.Width,
		Height:   cfg.World.Height,
		MainID:   cfg.World.MainAgentID,
		Now:      now,
		DT:       cfg.World.DT,
	}
}

// Step advances one agent. Velocity is implied by Position - LastPosition,
// so LastPosition always ends up as the pre-step position.
func (m Motion) Step(a *components.Agent) {
	p := m.Params
	isMain := a.ID == m.MainID

	velocity := a.Velocity()
	speed := r2.Norm(velocity)
	forward := a.Forward()

	var acc r2.Vec
	switch a.Accel {
	case components.AccelForward:
		scale := 1.0
		if isMain || m.Movement.NPCEnergyAcceleration {
			scale = a.Energy
		}
		acc = r2.Scale(scale, forward)
	case components.AccelBackward:
		acc = r2.Scale(-p.BackwardsMult, forward)
	}

	boost := 0.0
	if a.Boost {
		elapsed := m.Now - a.BoostTime
		boost = BoostImpulse(elapsed, m.Boost)
		mult := p.BoostMult
		if isMain {
			mult = (mult + a.Mass*m.Movement.MainBoostMassFactor) * a.Energy
		}
		acc = r2.Scale(1+boost*mult, acc)
		if elapsed >= m.Boost.TotalTime {
			a.Boost = false
		}
	}

	turn := m.turnRate(a.Turn, speed, boost)

	// Drag opposes the Verlet velocity.
	drag := p.Friction1*speed + p.Friction2*speed*speed
	acc = r2.Sub(acc, r2.Scale(drag, unitOr(velocity, r2.Vec{})))

	if isMain {
		acc.Y -= m.Movement.DowncurrentBase + a.Position.Y/m.Height*m.Movement.DowncurrentGradient
	}

	throttle := p.Throttle
	if a.IsGuardian {
		throttle *= m.Movement.GuardianThrottleMult
	}

	next := r2.Add(a.Position, r2.Add(velocity, r2.Scale(m.DT*m.DT*throttle, acc)))
	next = m.bound(next, a.Radius)

	a.LastPosition = a.Position
	a.Position = next
	a.Speed = r2.Norm(r2.Sub(next, a.LastPosition))
	a.LookAtAngle = math.Mod(a.LookAtAngle+turn, 2*math.Pi)
}

// turnRate returns the signed angle change for this tick. Left is positive.
func (m Motion) turnRate(t components.Turn, speed, boost float64) float64 {
	if t.Dir == components.TurnNone {
		return 0
	}
	p := m.Params
	delta := 1.0
	if p.SoftAngular > 0 {
		delta = clamp01(t.Amount / p.SoftAngular)
	}
	speedTurn := clampFloat(speed*p.TurningSpeedDependence*(1-boost), 0, math.Max(0, p.MaxTurnSpeed-p.RestTurnSpeed))
	rate := delta * (p.RestTurnSpeed + speedTurn)
	if t.Dir == components.TurnRight {
		return -rate
	}
	return rate
}

// bound applies the floor and wall bounces and keeps x inside the level.
func (m Motion) bound(pos r2.Vec, r float64) r2.Vec {
	if pos.Y < r {
		pos.Y = r + m.Params.BottomBounce
	}
	if pos.X < r {
		pos.X = r + m.Params.WallBounce
	}
	if pos.X > m.Width-r {
		pos.X = m.Width - r - m.Params.WallBounce
	}
	pos.X = clampFloat(pos.X, r, math.Max(r, m.Width-r))
	return pos
}
