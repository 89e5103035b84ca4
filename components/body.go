package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxSubBodies is the capacity of a SubBodyBuffer.
const MaxSubBodies = 32

// coreFraction bounds the body plan: nodes farther than this fraction of
// mass_mult from the centre are kept but not used for collision.
const coreFraction = 0.49

// SubBody is one circular collision atom of an agent.
type SubBody struct {
	Node   r2.Vec // body plan node scaled by mass_mult
	Offset r2.Vec // Node * mass, in the agent's local frame
	InUse  bool
}

// SubBodyBuffer holds the atoms of an agent.
// Using a fixed-size array so snapshots copy by value.
type SubBodyBuffer struct {
	Bodies [MaxSubBodies]SubBody
	Count  uint8
}

// Add appends a sub-body. Returns false when the buffer is full.
func (b *SubBodyBuffer) Add(s SubBody) bool {
	if int(b.Count) >= MaxSubBodies {
		return false
	}
	b.Bodies[b.Count] = s
	b.Count++
	return true
}

// SetPlan replaces the atoms from normalized body plan nodes.
// Nodes beyond MaxSubBodies are dropped.
func (b *SubBodyBuffer) SetPlan(nodes []r2.Vec, massMult, mass float64) {
	b.Count = 0
	limit := coreFraction * massMult
	for _, n := range nodes {
		node := r2.Scale(massMult, n)
		if !b.Add(SubBody{
			Node:   node,
			Offset: r2.Scale(mass, node),
			InUse:  r2.Norm(node) < limit,
		}) {
			return
		}
	}
}

// Rescale recomputes every offset for a new mass.
func (b *SubBodyBuffer) Rescale(mass float64) {
	for i := uint8(0); i < b.Count; i++ {
		b.Bodies[i].Offset = r2.Scale(mass, b.Bodies[i].Node)
	}
}

// ActiveCount returns the number of atoms in use.
func (b *SubBodyBuffer) ActiveCount() int {
	n := 0
	for i := uint8(0); i < b.Count; i++ {
		if b.Bodies[i].InUse {
			n++
		}
	}
	return n
}

// CollisionAtoms returns the number of atoms the agent collides with. A
// body without atoms in use collides as one atom at its centre.
func (b *SubBodyBuffer) CollisionAtoms() int {
	return max(1, b.ActiveCount())
}

// WorldCenters appends the world-space centres of the in-use atoms to dst.
// An agent without atoms collides as a single atom at its centre.
func (b *SubBodyBuffer) WorldCenters(dst []r2.Vec, pos r2.Vec, angle float64) []r2.Vec {
	sin, cos := math.Sincos(angle)
	start := len(dst)
	for i := uint8(0); i < b.Count; i++ {
		s := &b.Bodies[i]
		if !s.InUse {
			continue
		}
		dst = append(dst, r2.Vec{
			X: pos.X + s.Offset.X*cos - s.Offset.Y*sin,
			Y: pos.Y + s.Offset.X*sin + s.Offset.Y*cos,
		})
	}
	if len(dst) == start {
		dst = append(dst, pos)
	}
	return dst
}
