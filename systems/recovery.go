package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/riseabove/components"
)

// RecoverNonFinite re-seats agents whose position went non-finite at a
// random point inside the level, at rest. Returns the recovered ids.
func RecoverNonFinite(agents []*components.Agent, width, height float64, rng *rand.Rand) []uint32 {
	var ids []uint32
	for _, a := range agents {
		if a.IsFinite() {
			continue
		}
		r := a.Radius
		if math.IsNaN(r) || math.IsInf(r, 0) || 2*r >= width {
			r = 0
		}
		p := r2.Vec{
			X: r + rng.Float64()*(width-2*r),
			Y: r + rng.Float64()*math.Max(0, height-r),
		}
		a.Position = p
		a.LastPosition = p
		a.Speed = 0
		if math.IsNaN(a.LookAtAngle) || math.IsInf(a.LookAtAngle, 0) {
			a.LookAtAngle = 0
		}
		if !isFinite(a.TargetPosition) {
			a.TargetPosition = p
		}
		ids = append(ids, a.ID)
	}
	return ids
}
