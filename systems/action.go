package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
)

// Act translates the agent's goal into a target position. It returns false
// when the goal names an agent with no snapshot; the target is then left
// unchanged.
func Act(a *components.Agent, snapshots map[uint32]components.Snapshot, rng *rand.Rand, cfg config.DecisionConfig) bool {
	t := targeter{agent: a, snapshots: snapshots, rng: rng, cfg: cfg, ok: true}
	a.CurrentGoal().Accept(&t)
	return t.ok
}

// targeter is the goal visitor behind Act.
type targeter struct {
	agent     *components.Agent
	snapshots map[uint32]components.Snapshot
	rng       *rand.Rand
	cfg       config.DecisionConfig
	ok        bool
}

func (t *targeter) VisitNone() {}

func (t *targeter) VisitSearchForFight() { t.wander() }

func (t *targeter) VisitSearchForFood() { t.wander() }

func (t *targeter) VisitGoTo(target r2.Vec) {
	t.agent.TargetPosition = target
}

func (t *targeter) VisitGoToAgent(id uint32) { t.follow(id) }

func (t *targeter) VisitBully(id uint32) { t.follow(id) }

func (t *targeter) VisitFlee(from r2.Vec) {
	a := t.agent
	away := unitOr(r2.Sub(a.Position, from), a.Forward())
	a.TargetPosition = r2.Add(a.Position, r2.Scale(a.Mass*t.cfg.FleeDistance, away))
}

func (t *targeter) VisitFood(record components.FoodSightRecord) {
	t.agent.TargetPosition = record.Position
}

// wander aims one unit ahead with a random lateral jitter.
func (t *targeter) wander() {
	a := t.agent
	fwd := a.Forward()
	j := t.cfg.WanderJitter
	a.TargetPosition = r2.Vec{
		X: a.Position.X + fwd.X + (t.rng.Float64()-0.5)*j,
		Y: a.Position.Y + fwd.Y + (t.rng.Float64()-0.5)*j,
	}
}

func (t *targeter) follow(id uint32) {
	snap, ok := t.snapshots[id]
	if !ok {
		t.ok = false
		return
	}
	t.agent.TargetPosition = snap.Position
}
