package systems

import (
	"github.com/pthm-cable/riseabove/components"
	"github.com/pthm-cable/riseabove/config"
)

// Feed lets an agent eat every food item within its eating radius. Eaten
// food is removed from both foods and idx and its mass and energy go to the
// agent. Returns the number of items eaten.
func Feed(
	a *components.Agent,
	foods map[uint32]*components.Food,
	idx *FoodIndex,
	cfg config.FoodConfig,
	world config.WorldConfig,
) int {
	if !a.IsFinite() {
		return 0
	}
	eaten := 0
	for _, f := range idx.WithinRadius(a.Position, a.Radius*cfg.EatRadiusFactor) {
		a.Mass += f.Mass
		a.Energy += f.Energy
		delete(foods, f.ID)
		idx.Remove(f.ID)
		delete(a.SensedFood, f.ID)
		eaten++
	}
	if eaten > 0 {
		a.UpdateMassProperties(world.MassMult, world.AtomMult, world.SightFactor)
	}
	return eaten
}
