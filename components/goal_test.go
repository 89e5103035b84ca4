package components

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// kindRecorder records which visitor method was called.
type kindRecorder struct{ kind GoalKind }

func (r *kindRecorder) VisitNone()                { r.kind = GoalNone }
func (r *kindRecorder) VisitSearchForFight()      { r.kind = GoalSearchForFight }
func (r *kindRecorder) VisitSearchForFood()       { r.kind = GoalSearchForFood }
func (r *kindRecorder) VisitGoTo(r2.Vec)          { r.kind = GoalGoTo }
func (r *kindRecorder) VisitGoToAgent(uint32)     { r.kind = GoalGoToAgent }
func (r *kindRecorder) VisitBully(uint32)         { r.kind = GoalBully }
func (r *kindRecorder) VisitFlee(r2.Vec)          { r.kind = GoalFlee }
func (r *kindRecorder) VisitFood(FoodSightRecord) { r.kind = GoalFood }

func TestGoalAcceptMatchesKind(t *testing.T) {
	goals := []Goal{
		NoGoal{},
		SearchForFight{},
		SearchForFood{},
		GoTo{Target: r2.Vec{X: 1}},
		GoToAgent{ID: 3},
		Bully{ID: 4},
		Flee{From: r2.Vec{Y: 2}},
		EatFood{Record: FoodSightRecord{ID: 9}},
	}
	if len(goals) != GoalKindCount() {
		t.Fatalf("test covers %d goals, want %d", len(goals), GoalKindCount())
	}
	for _, g := range goals {
		t.Run(g.Kind().String(), func(t *testing.T) {
			r := &kindRecorder{kind: GoalKind(255)}
			g.Accept(r)
			if r.kind != g.Kind() {
				t.Errorf("Accept dispatched %v, want %v", r.kind, g.Kind())
			}
		})
	}
}

func TestTargetAgent(t *testing.T) {
	tests := []struct {
		goal   Goal
		wantID uint32
		wantOK bool
	}{
		{Bully{ID: 4}, 4, true},
		{GoToAgent{ID: 5}, 5, true},
		{GoTo{}, NoAgent, false},
		{NoGoal{}, NoAgent, false},
	}
	for _, tt := range tests {
		id, ok := TargetAgent(tt.goal)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("TargetAgent(%#v) = %d, %v; want %d, %v", tt.goal, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestCurrentGoalDefaultsToNone(t *testing.T) {
	var a Agent
	if a.CurrentGoal().Kind() != GoalNone {
		t.Errorf("zero agent goal = %v, want None", a.CurrentGoal().Kind())
	}
	a.SetGoal(Bully{ID: 2}, 3)
	if a.CurrentGoal().Kind() != GoalBully || a.GoalTime != 3 {
		t.Errorf("goal = %v at %v", a.CurrentGoal().Kind(), a.GoalTime)
	}
}
