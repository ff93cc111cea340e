// Package diagnostics computes run-time scalar summaries over a
// field -- mean, variance, extrema -- standing in for the original's
// dedicated analysis library, which is out of scope for this module.
package diagnostics

import "gonum.org/v1/gonum/stat"

// Summary holds the scalar statistics of one field snapshot.
type Summary struct {
	Mean     float64
	Variance float64
	Min      float64
	Max      float64
}

// Summarize computes the statistics of data, a flat slice of one
// scalar field's values across every interior cell.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	mean, variance := stat.MeanVariance(data, nil)
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return Summary{Mean: mean, Variance: variance, Min: min, Max: max}
}

// MassDifference returns the relative difference between the current
// total mass and the mass at initialisation -- the mass-conservation
// invariant an iteration must hold within tolerance.
func MassDifference(currentMass, initialMass float64) float64 {
	if initialMass == 0 {
		return currentMass
	}
	return (currentMass - initialMass) / initialMass
}
