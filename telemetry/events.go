// Package telemetry provides windowed simulation statistics, performance
// timing and CSV output.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventCollision EventType = iota
	EventFoodEaten
	EventGoalChange
	EventLookupFailure
	EventRecovery
	EventStageChange
)

// Event represents a single telemetry event.
type Event struct {
	Type    EventType
	Tick    int32
	AgentID uint32

	// Optional fields depending on event type
	OtherID uint32 // collision partner
	Count   int    // items eaten, lookups failed
	Stage   int    // new movement stage
}

// NewCollisionEvent creates a collision event for one resolved pair.
func NewCollisionEvent(tick int32, a, b uint32) Event {
	return Event{Type: EventCollision, Tick: tick, AgentID: a, OtherID: b}
}

// NewFoodEatenEvent creates a feeding event.
func NewFoodEatenEvent(tick int32, agentID uint32, count int) Event {
	return Event{Type: EventFoodEaten, Tick: tick, AgentID: agentID, Count: count}
}

// NewGoalChangeEvent creates an event for an agent that picked a new goal.
func NewGoalChangeEvent(tick int32, agentID uint32) Event {
	return Event{Type: EventGoalChange, Tick: tick, AgentID: agentID}
}

// NewLookupFailureEvent creates an event for ids that could not be resolved.
func NewLookupFailureEvent(tick int32, agentID uint32, count int) Event {
	return Event{Type: EventLookupFailure, Tick: tick, AgentID: agentID, Count: count}
}

// NewRecoveryEvent creates an event for an agent reset after a non-finite state.
func NewRecoveryEvent(tick int32, agentID uint32) Event {
	return Event{Type: EventRecovery, Tick: tick, AgentID: agentID}
}

// NewStageChangeEvent creates a movement stage change event.
func NewStageChangeEvent(tick int32, stage int) Event {
	return Event{Type: EventStageChange, Tick: tick, Stage: stage}
}
