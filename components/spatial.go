package components

import "gonum.org/v1/gonum/spatial/r2"

// SightRecord is what an agent remembers about a neighbour it saw.
type SightRecord struct {
	ID         uint32
	Position   r2.Vec
	Heading    r2.Vec // unit velocity, or facing direction when the neighbour was still
	Speed      float64
	Mass       float64
	Distance   float64
	IsGuardian bool
	LastSeen   float64
}

// FoodSightRecord is what an agent remembers about a food item it saw.
type FoodSightRecord struct {
	ID       uint32
	Position r2.Vec
	Distance float64
	LastSeen float64
}

// Food is a passive resource. It is removed when eaten.
type Food struct {
	ID       uint32
	Position r2.Vec
	Mass     float64
	Energy   float64
}
