package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
)

func TestElasticCollisionConservesMomentum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		x1 := r2.Vec{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		x2 := r2.Vec{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		u1 := r2.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64()}
		u2 := r2.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64()}
		m1 := 0.01 + rng.Float64()
		m2 := 0.01 + rng.Float64()

		v1, v2 := ElasticCollision(x1, x2, u1, u2, m1, m2)

		before := r2.Add(r2.Scale(m1, u1), r2.Scale(m2, u2))
		after := r2.Add(r2.Scale(m1, v1), r2.Scale(m2, v2))
		if r2.Norm(r2.Sub(before, after)) > 1e-9 {
			t.Fatalf("case %d: momentum %v -> %v", i, before, after)
		}

		ke := func(a, b r2.Vec) float64 { return m1*r2.Norm2(a) + m2*r2.Norm2(b) }
		if math.Abs(ke(u1, u2)-ke(v1, v2)) > 1e-9 {
			t.Fatalf("case %d: kinetic energy %v -> %v", i, ke(u1, u2), ke(v1, v2))
		}
	}
}

func TestElasticCollisionCoincidentCentres(t *testing.T) {
	p := r2.Vec{X: 5, Y: 5}
	v1, v2 := ElasticCollision(p, p, r2.Vec{X: 1}, r2.Vec{X: -1}, 1, 1)
	for _, v := range []r2.Vec{v1, v2} {
		if !isFinite(v) {
			t.Fatalf("non-finite velocity %v", v)
		}
	}
	if math.Abs(v1.X+1) > 1e-12 || math.Abs(v2.X-1) > 1e-12 {
		t.Errorf("equal masses should swap velocities, got %v %v", v1, v2)
	}
}

func TestExchangeMass(t *testing.T) {
	tests := []struct {
		name         string
		m1, m2, rate float64
		minMass      float64
		wantExchange float64
	}{
		{"heavier takes from lighter", 0.2, 0.1, 0.03, 0.005, 0.003},
		{"lighter gives its own", 0.1, 0.2, 0.03, 0.005, -0.003},
		{"tie gives from the first", 0.05, 0.05, 0.03, 0.005, -0.0015},
		{"floor protects the donor", 0.2, 0.0051, 0.5, 0.005, 0.0001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n1, n2, ex := ExchangeMass(tt.m1, tt.m2, tt.rate, tt.minMass)
			if math.Abs(ex-tt.wantExchange) > 1e-12 {
				t.Errorf("exchange = %v, want %v", ex, tt.wantExchange)
			}
			if math.Abs((n1+n2)-(tt.m1+tt.m2)) > 1e-12 {
				t.Errorf("total mass %v -> %v", tt.m1+tt.m2, n1+n2)
			}
			if n1 < tt.minMass-1e-12 || n2 < tt.minMass-1e-12 {
				t.Errorf("masses %v %v below floor %v", n1, n2, tt.minMass)
			}
		})
	}
}

func TestCollideOverlappingPair(t *testing.T) {
	cfg := loadDefaults(t)
	a := newTestAgent(cfg, 100, r2.Vec{X: 500, Y: 500}, 0.05)
	b := newTestAgent(cfg, 101, r2.Vec{X: 514, Y: 500}, 0.05)
	if math.Abs(a.Radius-7.5) > 1e-9 {
		t.Fatalf("radius = %v, want 7.5", a.Radius)
	}

	c := NewCollider(cfg.Collision, cfg.World.MassMult)
	res := c.Collide([]*components.Agent{a, b}, byID(a, b), indexOf(a, b))

	if len(res.Infos) != 1 {
		t.Fatalf("got %d collisions, want 1", len(res.Infos))
	}
	if len(res.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(res.Events))
	}
	if res.Events[0].AgentID != 100 || res.Events[0].OtherAgentID != 101 ||
		res.Events[1].AgentID != 101 || res.Events[1].OtherAgentID != 100 {
		t.Errorf("events = %+v, want one per direction", res.Events)
	}
	if !a.JustCollided || !b.JustCollided {
		t.Error("JustCollided not set")
	}

	da, db := a.Mass-0.05, b.Mass-0.05
	if math.Abs(da+db) > 1e-12 {
		t.Errorf("mass not conserved: %v %v", da, db)
	}
	if math.Abs(math.Abs(da)-0.05*cfg.Collision.MassExchangeRate) > 1e-12 {
		t.Errorf("exchanged %v, want %v", math.Abs(da), 0.05*cfg.Collision.MassExchangeRate)
	}

	// Both were at rest, so the push alone separates them.
	if a.Velocity().X >= 0 || b.Velocity().X <= 0 {
		t.Errorf("velocities %v %v, want moving apart", a.Velocity(), b.Velocity())
	}
}

func TestCollideSeparatedPair(t *testing.T) {
	cfg := loadDefaults(t)
	a := newTestAgent(cfg, 100, r2.Vec{X: 500, Y: 500}, 0.05)
	b := newTestAgent(cfg, 101, r2.Vec{X: 516, Y: 500}, 0.05)

	c := NewCollider(cfg.Collision, cfg.World.MassMult)
	res := c.Collide([]*components.Agent{a, b}, byID(a, b), indexOf(a, b))

	if res.BroadPairs == 0 {
		t.Error("pair should pass the broad phase")
	}
	if len(res.Infos) != 0 || len(res.Events) != 0 {
		t.Errorf("got %d collisions, want none", len(res.Infos))
	}
	if a.Mass != 0.05 || b.Mass != 0.05 {
		t.Error("mass changed without a collision")
	}
}

func TestCollideAtMostOncePerAgent(t *testing.T) {
	cfg := loadDefaults(t)
	rng := rand.New(rand.NewSource(9))

	var agents []*components.Agent
	for i := 0; i < 200; i++ {
		pos := r2.Vec{X: rng.Float64() * 300, Y: rng.Float64() * 300}
		a := newTestAgent(cfg, uint32(100+i), pos, 0.02+rng.Float64()*0.05)
		a.LastPosition = r2.Sub(pos, r2.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64()})
		agents = append(agents, a)
	}
	total := 0.0
	for _, a := range agents {
		total += a.Mass
	}

	c := NewCollider(cfg.Collision, cfg.World.MassMult)
	res := c.Collide(agents, byID(agents...), indexOf(agents...))
	if len(res.Infos) == 0 {
		t.Fatal("dense population produced no collisions")
	}

	seen := make(map[uint32]int)
	for _, info := range res.Infos {
		seen[info.AgentID1]++
		seen[info.AgentID2]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("agent %d collided %d times", id, n)
		}
	}
	if len(res.Events) != 2*len(res.Infos) {
		t.Errorf("events = %d, want %d", len(res.Events), 2*len(res.Infos))
	}

	after := 0.0
	for _, a := range agents {
		after += a.Mass
	}
	if math.Abs(after-total) > 1e-9 {
		t.Errorf("total mass %v -> %v", total, after)
	}
}

func TestApplyPanicsOnDuplicateAgent(t *testing.T) {
	cfg := loadDefaults(t)
	a := newTestAgent(cfg, 1, r2.Vec{}, 0.05)
	b := newTestAgent(cfg, 2, r2.Vec{X: 10}, 0.05)
	d := newTestAgent(cfg, 3, r2.Vec{X: 20}, 0.05)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for an agent resolved twice")
		}
	}()
	c := NewCollider(cfg.Collision, cfg.World.MassMult)
	var res CollisionResult
	c.apply([]CollisionInfo{
		{AgentID1: 1, AgentID2: 2},
		{AgentID1: 2, AgentID2: 3},
	}, byID(a, b, d), &res)
}
