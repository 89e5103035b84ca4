// Package scene mirrors simulation agents into an ECS entity table that
// presentation code (rendering, audio, UI) reads from. The simulation never
// reads the scene back.
package scene

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
)

// AgentRef links an entity to its simulation agent.
type AgentRef struct {
	ID uint32
}

// Transform is where and how an agent is drawn.
type Transform struct {
	Position r2.Vec
	Angle    float64
}

// Appearance holds the size and role an agent is drawn with.
type Appearance struct {
	Radius   float64
	Atoms    int
	Guardian bool
	Main     bool
}

// Scene is the presentation-side entity table.
type Scene struct {
	world    *ecs.World
	mapper   *ecs.Map3[AgentRef, Transform, Appearance]
	filter   *ecs.Filter3[AgentRef, Transform, Appearance]
	entities map[uint32]ecs.Entity
	seen     map[uint32]bool
}

// New creates an empty scene.
func New() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:    world,
		mapper:   ecs.NewMap3[AgentRef, Transform, Appearance](world),
		filter:   ecs.NewFilter3[AgentRef, Transform, Appearance](world),
		entities: make(map[uint32]ecs.Entity),
		seen:     make(map[uint32]bool),
	}
}

// Sync brings the scene in line with snaps: new agents get entities,
// existing ones are updated and entities of vanished agents are removed.
func (s *Scene) Sync(snaps []components.Snapshot, mainID uint32) (added, removed int) {
	clear(s.seen)
	for i := range snaps {
		snap := &snaps[i]
		s.seen[snap.ID] = true

		tr := Transform{Position: snap.Position, Angle: snap.Angle}
		ap := Appearance{
			Radius:   snap.Radius,
			Atoms:    snap.Body.CollisionAtoms(),
			Guardian: snap.IsGuardian,
			Main:     snap.ID == mainID,
		}

		if e, ok := s.entities[snap.ID]; ok {
			_, t, a := s.mapper.Get(e)
			*t = tr
			*a = ap
			continue
		}
		ref := AgentRef{ID: snap.ID}
		s.entities[snap.ID] = s.mapper.NewEntity(&ref, &tr, &ap)
		added++
	}

	for id, e := range s.entities {
		if s.seen[id] {
			continue
		}
		s.world.RemoveEntity(e)
		delete(s.entities, id)
		removed++
	}
	return added, removed
}

// Len returns the number of entities.
func (s *Scene) Len() int {
	return len(s.entities)
}

// Lookup returns the drawn state of one agent.
func (s *Scene) Lookup(id uint32) (Transform, Appearance, bool) {
	e, ok := s.entities[id]
	if !ok {
		return Transform{}, Appearance{}, false
	}
	_, t, a := s.mapper.Get(e)
	return *t, *a, true
}

// Each calls fn for every entity. fn must not call Sync.
func (s *Scene) Each(fn func(ref AgentRef, t Transform, a Appearance)) {
	query := s.filter.Query()
	for query.Next() {
		ref, t, a := query.Get()
		fn(*ref, *t, *a)
	}
}
