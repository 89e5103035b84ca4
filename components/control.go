package components

import "gonum.org/v1/gonum/spatial/r2"

// Accel is the longitudinal movement intent.
type Accel uint8

const (
	AccelNone Accel = iota
	AccelForward
	AccelBackward
)

// TurnDir is the turning direction. Left is counter-clockwise.
type TurnDir uint8

const (
	TurnNone TurnDir = iota
	TurnLeft
	TurnRight
)

// Turn is a turning intent with a soft rate in [0,1].
type Turn struct {
	Dir    TurnDir
	Amount float64
}

// Control is the decoded input for the main agent for one tick.
type Control struct {
	Accelerate     Accel
	Turn           TurnDir
	BoostRequested bool
	SteerTarget    *r2.Vec // overrides Turn when set
}
