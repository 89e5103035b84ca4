package systems

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
)

// foodTolerance is the half-size of the box a food item occupies in the tree.
const foodTolerance = 0.01

// foodEntry adapts a Food to rtreego.Spatial.
type foodEntry struct {
	food *components.Food
	rect rtreego.Rect
}

func (e *foodEntry) Bounds() rtreego.Rect { return e.rect }

// FoodIndex is an R-tree over food positions. Unlike the agent index it is
// updated incrementally, since food only ever disappears.
type FoodIndex struct {
	tree    *rtreego.Rtree
	entries map[uint32]*foodEntry
}

// NewFoodIndex indexes the given food.
func NewFoodIndex(foods map[uint32]*components.Food) *FoodIndex {
	idx := &FoodIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[uint32]*foodEntry, len(foods)),
	}
	for _, f := range foods {
		idx.Insert(f)
	}
	return idx
}

// Len returns the number of indexed food items.
func (idx *FoodIndex) Len() int {
	return idx.tree.Size()
}

// Insert adds a food item.
func (idx *FoodIndex) Insert(f *components.Food) {
	if _, ok := idx.entries[f.ID]; ok || !isFinite(f.Position) {
		return
	}
	e := &foodEntry{food: f, rect: rtreego.Point{f.Position.X, f.Position.Y}.ToRect(foodTolerance)}
	idx.entries[f.ID] = e
	idx.tree.Insert(e)
}

// Remove deletes a food item. Returns false if it was not indexed.
func (idx *FoodIndex) Remove(id uint32) bool {
	e, ok := idx.entries[id]
	if !ok {
		return false
	}
	delete(idx.entries, id)
	return idx.tree.Delete(e)
}

// WithinRadius returns the food items within r of p, nearest first.
func (idx *FoodIndex) WithinRadius(p r2.Vec, r float64) []*components.Food {
	if r <= 0 || !isFinite(p) || idx.tree.Size() == 0 {
		return nil
	}
	bb := rtreego.Point{p.X, p.Y}.ToRect(r)
	rSq := r * r
	var out []*components.Food
	for _, obj := range idx.tree.SearchIntersect(bb) {
		f := obj.(*foodEntry).food
		if distanceSq(f.Position, p) <= rSq {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := distanceSq(out[i].Position, p), distanceSq(out[j].Position, p)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}
