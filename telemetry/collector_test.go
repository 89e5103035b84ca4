package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("WindowDurationTicks = %d, want 10", c.WindowDurationTicks())
	}
	if c.ShouldFlush(9) {
		t.Error("flush before window end")
	}
	if !c.ShouldFlush(10) {
		t.Error("no flush at window end")
	}
}

func TestCollectorWindowDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		window float64
		dt     float64
	}{
		{"zero dt", 1.0, 0},
		{"negative dt", 1.0, -0.1},
		{"window shorter than dt", 0.01, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(tt.window, tt.dt)
			if c.WindowDurationTicks() != 1 {
				t.Errorf("WindowDurationTicks = %d, want 1", c.WindowDurationTicks())
			}
		})
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.1)

	c.Record(NewCollisionEvent(1, 100, 101))
	c.Record(NewCollisionEvent(2, 102, 103))
	c.Record(NewFoodEatenEvent(3, 100, 3))
	c.Record(NewGoalChangeEvent(3, 100))
	c.Record(NewLookupFailureEvent(4, 100, 2))
	c.Record(NewRecoveryEvent(5, 104))
	c.Record(NewStageChangeEvent(6, 1))
	c.RecordBroadPairs(5)
	c.RecordIndexSkipped(1)

	stats := c.Flush(10, Snapshot{
		Agents:        4,
		FoodRemaining: 7,
		Masses:        []float64{0.1, 0.2, 0.3, 0.4},
		Energies:      []float64{1, 1, 1, 1},
		MainEnergy:    0.5,
		Stage:         1,
	})

	checks := []struct {
		name      string
		got, want int
	}{
		{"collisions", stats.Collisions, 2},
		{"foods eaten", stats.FoodsEaten, 3},
		{"goal changes", stats.GoalChanges, 1},
		{"lookup failures", stats.LookupFailures, 2},
		{"recoveries", stats.Recoveries, 1},
		{"stage changes", stats.StageChanges, 1},
		{"broad pairs", stats.BroadPairs, 5},
		{"index skipped", stats.IndexSkipped, 1},
		{"agents", stats.Agents, 4},
		{"food", stats.FoodRemaining, 7},
	}
	for _, chk := range checks {
		if chk.got != chk.want {
			t.Errorf("%s = %d, want %d", chk.name, chk.got, chk.want)
		}
	}
	if math.Abs(stats.MassMean-0.25) > 1e-12 {
		t.Errorf("mass mean = %v, want 0.25", stats.MassMean)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-12 {
		t.Errorf("sim time = %v, want 1", stats.SimTimeSec)
	}

	// Counters reset for the next window.
	next := c.Flush(20, Snapshot{})
	if next.Collisions != 0 || next.FoodsEaten != 0 || next.WindowStartTick != 10 {
		t.Errorf("next window = %+v, want reset counters starting at 10", next)
	}
}
