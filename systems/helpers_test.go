package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

// newTestAgent returns an agent sized from mass with a single centre atom.
func newTestAgent(cfg *config.Config, id uint32, pos r2.Vec, mass float64) *components.Agent {
	a := components.NewAgent(id, pos, mass)
	a.Energy = 1
	a.Body.SetPlan([]r2.Vec{{}}, cfg.World.MassMult, mass)
	a.UpdateMassProperties(cfg.World.MassMult, cfg.World.AtomMult, cfg.World.SightFactor)
	return a
}

func snapshotsOf(agents ...*components.Agent) map[uint32]components.Snapshot {
	m := make(map[uint32]components.Snapshot, len(agents))
	for _, a := range agents {
		m[a.ID] = a.Snapshot()
	}
	return m
}

func indexOf(agents ...*components.Agent) *SpatialIndex {
	entries := make([]IndexedPoint, 0, len(agents))
	for _, a := range agents {
		entries = append(entries, IndexedPoint{ID: a.ID, Pos: a.Position})
	}
	idx := NewSpatialIndex()
	idx.Build(entries)
	return idx
}

func byID(agents ...*components.Agent) map[uint32]*components.Agent {
	m := make(map[uint32]*components.Agent, len(agents))
	for _, a := range agents {
		m[a.ID] = a
	}
	return m
}
