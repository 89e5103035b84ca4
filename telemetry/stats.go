package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Agents        int `csv:"agents"`
	FoodRemaining int `csv:"food"`

	// Events during window
	Collisions     int `csv:"collisions"`
	BroadPairs     int `csv:"broad_pairs"`
	FoodsEaten     int `csv:"foods_eaten"`
	GoalChanges    int `csv:"goal_changes"`
	LookupFailures int `csv:"lookup_failures"`
	Recoveries     int `csv:"recoveries"`
	StageChanges   int `csv:"stage_changes"`
	IndexSkipped   int `csv:"index_skipped"`

	// Mass distribution (sampled at window end)
	MassMean float64 `csv:"mass_mean"`
	MassStd  float64 `csv:"mass_std"`
	MassP10  float64 `csv:"mass_p10"`
	MassP50  float64 `csv:"mass_p50"`
	MassP90  float64 `csv:"mass_p90"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Main agent
	MainEnergy      float64 `csv:"main_energy"`
	MainHeight      float64 `csv:"main_height"`
	NearestGuardian float64 `csv:"nearest_guardian"`
	Stage           int     `csv:"stage"`
	Won             bool    `csv:"won"`
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, standard deviation and percentiles.
// The standard deviation is the unbiased sample estimate; it is 0 for fewer
// than two values.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Int("food", s.FoodRemaining),
		slog.Int("collisions", s.Collisions),
		slog.Int("broad_pairs", s.BroadPairs),
		slog.Int("foods_eaten", s.FoodsEaten),
		slog.Int("goal_changes", s.GoalChanges),
		slog.Int("lookup_failures", s.LookupFailures),
		slog.Int("recoveries", s.Recoveries),
		slog.Int("stage_changes", s.StageChanges),
		slog.Int("index_skipped", s.IndexSkipped),
		slog.Float64("mass_mean", s.MassMean),
		slog.Float64("mass_std", s.MassStd),
		slog.Float64("mass_p10", s.MassP10),
		slog.Float64("mass_p50", s.MassP50),
		slog.Float64("mass_p90", s.MassP90),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("main_energy", s.MainEnergy),
		slog.Float64("main_height", s.MainHeight),
		slog.Float64("nearest_guardian", s.NearestGuardian),
		slog.Int("stage", s.Stage),
		slog.Bool("won", s.Won),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.Agents,
		"food", s.FoodRemaining,
		"collisions", s.Collisions,
		"broad_pairs", s.BroadPairs,
		"foods_eaten", s.FoodsEaten,
		"goal_changes", s.GoalChanges,
		"lookup_failures", s.LookupFailures,
		"recoveries", s.Recoveries,
		"index_skipped", s.IndexSkipped,
		"mass_mean", s.MassMean,
		"mass_p50", s.MassP50,
		"energy_mean", s.EnergyMean,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"main_energy", s.MainEnergy,
		"main_height", s.MainHeight,
		"nearest_guardian", s.NearestGuardian,
		"stage", s.Stage,
		"won", s.Won,
	)
}
