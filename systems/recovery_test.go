package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
)

func TestRecoverNonFinite(t *testing.T) {
	cfg := loadDefaults(t)
	ok := newTestAgent(cfg, 100, r2.Vec{X: 50, Y: 50}, 0.05)
	bad := newTestAgent(cfg, 101, r2.Vec{X: math.NaN(), Y: 50}, 0.05)
	inf := newTestAgent(cfg, 102, r2.Vec{X: 50, Y: 50}, 0.05)
	inf.LastPosition = r2.Vec{X: math.Inf(-1), Y: 0}

	ids := RecoverNonFinite([]*components.Agent{ok, bad, inf}, cfg.World.Width, cfg.World.Height, rand.New(rand.NewSource(1)))

	if len(ids) != 2 || ids[0] != 101 || ids[1] != 102 {
		t.Fatalf("recovered %v, want [101 102]", ids)
	}
	for _, a := range []*components.Agent{bad, inf} {
		if !a.IsFinite() {
			t.Errorf("agent %d still non-finite", a.ID)
		}
		if a.Velocity() != (r2.Vec{}) {
			t.Errorf("agent %d not at rest", a.ID)
		}
		if a.Position.X < a.Radius || a.Position.X > cfg.World.Width-a.Radius {
			t.Errorf("agent %d placed outside the level at %v", a.ID, a.Position)
		}
	}
	if ok.Position != (r2.Vec{X: 50, Y: 50}) {
		t.Error("finite agent moved")
	}
}
