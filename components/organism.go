package components

import "math/rand"

// Stage is the depth band an agent is generated in.
type Stage uint8

const (
	StageBottom Stage = iota
	StageMid
	StageTop
)

// Race determines the ranges social traits are drawn from.
type Race uint8

const (
	RaceAmoeba Race = iota
	RaceStratolopus
	RacePiko
	RaceSeahorse
	RaceSquid
	RaceWhale
)

// SocialTraits shape how an agent picks and reacts to goals.
type SocialTraits struct {
	Aggressivity float64 // 0..1, chance of seeking fights
	Altruism     float64 // 0..1
	Collector    float64 // 0..1, interest in food
	MemoryTime   float64 // seconds a sighting or goal is kept
}

type span struct{ lo, hi float64 }

func (s span) draw(rng *rand.Rand) float64 {
	return s.lo + rng.Float64()*(s.hi-s.lo)
}

type traitRanges struct {
	aggressivity, altruism, collector, memory span
}

var raceTraits = [...]traitRanges{
	RaceAmoeba:      {span{0, 0.4}, span{0, 0.4}, span{0, 0.5}, span{0, 0.5}},
	RaceStratolopus: {span{0.2, 0.3}, span{0.3, 0.5}, span{0, 0.5}, span{0.5, 1.5}},
	RacePiko:        {span{0.5, 0.7}, span{0, 0.4}, span{0, 0.5}, span{2, 4}},
	RaceSeahorse:    {span{0, 0.2}, span{0, 0.5}, span{0, 0.5}, span{3, 3.5}},
	RaceSquid:       {span{0.1, 0.3}, span{0.4, 0.9}, span{0, 0.5}, span{3, 5}},
	RaceWhale:       {span{0.1, 0.9}, span{0.6, 0.9}, span{0, 0.5}, span{5, 10}},
}

var stageRaces = [...][2]Race{
	StageBottom: {RaceAmoeba, RaceStratolopus},
	StageMid:    {RacePiko, RaceSeahorse},
	StageTop:    {RaceSquid, RaceWhale},
}

// DrawRace picks one of the two races living in a stage.
func DrawRace(stage Stage, rng *rand.Rand) Race {
	return stageRaces[stage][rng.Intn(2)]
}

// DrawTraits samples social traits from the ranges of a race.
func DrawTraits(race Race, rng *rand.Rand) SocialTraits {
	r := raceTraits[race]
	return SocialTraits{
		Aggressivity: r.aggressivity.draw(rng),
		Altruism:     r.altruism.draw(rng),
		Collector:    r.collector.draw(rng),
		MemoryTime:   r.memory.draw(rng),
	}
}
