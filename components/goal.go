package components

import "gonum.org/v1/gonum/spatial/r2"

// GoalKind identifies a goal variant.
type GoalKind uint8

const (
	GoalNone GoalKind = iota
	GoalSearchForFight
	GoalSearchForFood
	GoalGoTo
	GoalGoToAgent
	GoalBully
	GoalFlee
	GoalFood

	goalKindCount
)

// Goal is the behavioural intent of an agent. The set of goals is closed:
// only the types in this file implement it.
type Goal interface {
	Kind() GoalKind
	// Accept calls the visitor method matching the goal.
	Accept(v GoalVisitor)
	sealed()
}

// GoalVisitor dispatches on a Goal. Adding a goal adds a method here, so
// every dispatcher stops compiling until it handles the new goal.
type GoalVisitor interface {
	VisitNone()
	VisitSearchForFight()
	VisitSearchForFood()
	VisitGoTo(target r2.Vec)
	VisitGoToAgent(id uint32)
	VisitBully(id uint32)
	VisitFlee(from r2.Vec)
	VisitFood(record FoodSightRecord)
}

// NoGoal is the resting state.
type NoGoal struct{}

// SearchForFight wanders looking for someone to hit.
type SearchForFight struct{}

// SearchForFood wanders looking for food.
type SearchForFood struct{}

// GoTo heads for a fixed point.
type GoTo struct{ Target r2.Vec }

// GoToAgent follows another agent.
type GoToAgent struct{ ID uint32 }

// Bully chases another agent to ram it.
type Bully struct{ ID uint32 }

// Flee runs directly away from a point.
type Flee struct{ From r2.Vec }

// EatFood heads for a remembered food item.
type EatFood struct{ Record FoodSightRecord }

func (NoGoal) Kind() GoalKind         { return GoalNone }
func (SearchForFight) Kind() GoalKind { return GoalSearchForFight }
func (SearchForFood) Kind() GoalKind  { return GoalSearchForFood }
func (GoTo) Kind() GoalKind           { return GoalGoTo }
func (GoToAgent) Kind() GoalKind      { return GoalGoToAgent }
func (Bully) Kind() GoalKind          { return GoalBully }
func (Flee) Kind() GoalKind           { return GoalFlee }
func (EatFood) Kind() GoalKind        { return GoalFood }

func (NoGoal) Accept(v GoalVisitor)         { v.VisitNone() }
func (SearchForFight) Accept(v GoalVisitor) { v.VisitSearchForFight() }
func (SearchForFood) Accept(v GoalVisitor)  { v.VisitSearchForFood() }
func (g GoTo) Accept(v GoalVisitor)         { v.VisitGoTo(g.Target) }
func (g GoToAgent) Accept(v GoalVisitor)    { v.VisitGoToAgent(g.ID) }
func (g Bully) Accept(v GoalVisitor)        { v.VisitBully(g.ID) }
func (g Flee) Accept(v GoalVisitor)         { v.VisitFlee(g.From) }
func (g EatFood) Accept(v GoalVisitor)      { v.VisitFood(g.Record) }

func (NoGoal) sealed()         {}
func (SearchForFight) sealed() {}
func (SearchForFood) sealed()  {}
func (GoTo) sealed()           {}
func (GoToAgent) sealed()      {}
func (Bully) sealed()          {}
func (Flee) sealed()           {}
func (EatFood) sealed()        {}

// TargetAgent returns the agent a goal refers to, if any.
func TargetAgent(g Goal) (uint32, bool) {
	switch g := g.(type) {
	case GoToAgent:
		return g.ID, true
	case Bully:
		return g.ID, true
	}
	return NoAgent, false
}

// GoalKindCount returns the number of goal variants.
func GoalKindCount() int {
	return int(goalKindCount)
}
