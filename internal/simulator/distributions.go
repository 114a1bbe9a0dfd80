package simulator

import (
	"math/rand"

	"github.com/chrisdamba/hotelsim/internal/models"
)

// SeasonInfluence scales generated demand and guest budgets for a season.
type SeasonInfluence struct {
	DemandMultiplier float64
	BudgetMultiplier float64
}

const (
	maxCheckInOffset = 30
	preferenceChance = 0.7
	minBudgetFactor  = 0.8
	maxBudgetFactor  = 1.5
)

var (
	SeasonInfluences = map[string]SeasonInfluence{
		models.SeasonHigh:   {DemandMultiplier: 1.5, BudgetMultiplier: 1.2},
		models.SeasonMedium: {DemandMultiplier: 1.0, BudgetMultiplier: 1.0},
		models.SeasonLow:    {DemandMultiplier: 0.7, BudgetMultiplier: 0.8},
	}

	// nights 1..7
	stayLengthWeights = []float64{10, 30, 25, 15, 10, 5, 5}

	// guests 1..5
	partySizeWeights = []float64{5, 40, 30, 20, 5}

	// preferred room type weights by party size, over the three configured types from smallest to largest
	preferenceWeights = map[int][]float64{
		1: {70, 25, 5},
		2: {60, 30, 10},
		3: {10, 70, 20},
		4: {0, 30, 70},
		5: {0, 30, 70},
	}
)

func influenceFor(season string) SeasonInfluence {
	if influence, ok := SeasonInfluences[season]; ok {
		return influence
	}
	return SeasonInfluence{DemandMultiplier: 1, BudgetMultiplier: 1}
}

// preferenceWeightsFor falls back to uniform weights when the hotel does not define exactly three types.
func preferenceWeightsFor(guests, roomTypes int) []float64 {
	if weights, ok := preferenceWeights[guests]; ok && roomTypes == len(weights) {
		return weights
	}
	uniform := make([]float64, roomTypes)
	for i := range uniform {
		uniform[i] = 1
	}
	return uniform
}

// weightedChoice returns an index drawn with probability proportional to its weight.
func weightedChoice(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}

	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
