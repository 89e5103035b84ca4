package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
)

func scatterFood(rng *rand.Rand, n int) map[uint32]*components.Food {
	foods := make(map[uint32]*components.Food, n)
	for i := 0; i < n; i++ {
		id := uint32(i + 1)
		foods[id] = &components.Food{
			ID:       id,
			Position: r2.Vec{X: rng.Float64() * 1000, Y: rng.Float64() * 1000},
			Mass:     0.01,
			Energy:   0.01,
		}
	}
	return foods
}

func TestFoodIndexWithinRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	foods := scatterFood(rng, 400)
	idx := NewFoodIndex(foods)
	if idx.Len() != len(foods) {
		t.Fatalf("Len = %d, want %d", idx.Len(), len(foods))
	}

	p := r2.Vec{X: 400, Y: 600}
	const r = 90.0
	got := idx.WithinRadius(p, r)

	want := 0
	for _, f := range foods {
		if distanceSq(f.Position, p) <= r*r {
			want++
		}
	}
	if len(got) != want {
		t.Fatalf("got %d items, want %d", len(got), want)
	}
	for i := 1; i < len(got); i++ {
		if distanceSq(got[i].Position, p) < distanceSq(got[i-1].Position, p) {
			t.Errorf("results not ordered by distance at %d", i)
		}
	}
}

func TestFoodIndexRemoveAndInsert(t *testing.T) {
	foods := map[uint32]*components.Food{
		1: {ID: 1, Position: r2.Vec{X: 10, Y: 10}},
		2: {ID: 2, Position: r2.Vec{X: 12, Y: 10}},
	}
	idx := NewFoodIndex(foods)

	if !idx.Remove(1) {
		t.Fatal("Remove(1) = false")
	}
	if idx.Remove(1) {
		t.Error("second Remove(1) = true")
	}
	if got := idx.WithinRadius(r2.Vec{X: 10, Y: 10}, 5); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("after remove got %v", got)
	}

	idx.Insert(&components.Food{ID: 3, Position: r2.Vec{X: 11, Y: 11}})
	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2", idx.Len())
	}
}

func TestFeed(t *testing.T) {
	cfg := loadDefaults(t)
	a := newTestAgent(cfg, 100, r2.Vec{X: 200, Y: 200}, 0.05)
	a.Energy = 0.5
	foods := map[uint32]*components.Food{
		1: {ID: 1, Position: r2.Vec{X: 203, Y: 200}, Mass: 0.01, Energy: 0.02},
		2: {ID: 2, Position: r2.Vec{X: 200, Y: 205}, Mass: 0.02, Energy: 0.01},
		3: {ID: 3, Position: r2.Vec{X: 300, Y: 300}, Mass: 0.01, Energy: 0.01},
	}
	a.SensedFood[1] = components.FoodSightRecord{ID: 1}
	idx := NewFoodIndex(foods)
	oldRadius := a.Radius

	eaten := Feed(a, foods, idx, cfg.Food, cfg.World)

	if eaten != 2 {
		t.Fatalf("eaten = %d, want 2", eaten)
	}
	if len(foods) != 1 || idx.Len() != 1 {
		t.Errorf("remaining food = %d (index %d), want 1", len(foods), idx.Len())
	}
	if _, ok := a.SensedFood[1]; ok {
		t.Error("eaten food still remembered")
	}
	if diff := a.Mass - 0.08; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("mass = %v, want 0.08", a.Mass)
	}
	if diff := a.Energy - 0.53; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("energy = %v, want 0.53", a.Energy)
	}
	if a.Radius <= oldRadius {
		t.Errorf("radius %v not grown from %v", a.Radius, oldRadius)
	}
}
