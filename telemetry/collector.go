package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	collisions     int
	broadPairs     int
	foodsEaten     int
	goalChanges    int
	lookupFailures int
	recoveries     int
	stageChanges   int
	indexSkipped   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 && windowDurationSec > dt {
		ticksPerWindow = int32(windowDurationSec / dt)
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventCollision:
		c.collisions++
	case EventFoodEaten:
		c.foodsEaten += ev.Count
	case EventGoalChange:
		c.goalChanges++
	case EventLookupFailure:
		c.lookupFailures += max(1, ev.Count)
	case EventRecovery:
		c.recoveries++
	case EventStageChange:
		c.stageChanges++
	}
}

// RecordBroadPairs adds n pairs that passed the collision broad phase.
func (c *Collector) RecordBroadPairs(n int) {
	c.broadPairs += n
}

// RecordIndexSkipped adds n entries the spatial index excluded.
func (c *Collector) RecordIndexSkipped(n int) {
	c.indexSkipped += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Snapshot is the population state sampled at the end of a window.
type Snapshot struct {
	Agents        int
	FoodRemaining int
	Masses        []float64
	Energies      []float64

	MainEnergy      float64
	MainHeight      float64
	NearestGuardian float64
	Stage           int
	Won             bool
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	mass := ComputeDistribution(snap.Masses)
	energy := ComputeDistribution(snap.Energies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Agents:        snap.Agents,
		FoodRemaining: snap.FoodRemaining,

		Collisions:     c.collisions,
		BroadPairs:     c.broadPairs,
		FoodsEaten:     c.foodsEaten,
		GoalChanges:    c.goalChanges,
		LookupFailures: c.lookupFailures,
		Recoveries:     c.recoveries,
		StageChanges:   c.stageChanges,
		IndexSkipped:   c.indexSkipped,

		MassMean: mass.Mean,
		MassStd:  mass.Std,
		MassP10:  mass.P10,
		MassP50:  mass.P50,
		MassP90:  mass.P90,

		EnergyMean: energy.Mean,
		EnergyStd:  energy.Std,
		EnergyP10:  energy.P10,
		EnergyP50:  energy.P50,
		EnergyP90:  energy.P90,

		MainEnergy:      snap.MainEnergy,
		MainHeight:      snap.MainHeight,
		NearestGuardian: snap.NearestGuardian,
		Stage:           snap.Stage,
		Won:             snap.Won,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.collisions = 0
	c.broadPairs = 0
	c.foodsEaten = 0
	c.goalChanges = 0
	c.lookupFailures = 0
	c.recoveries = 0
	c.stageChanges = 0
	c.indexSkipped = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
