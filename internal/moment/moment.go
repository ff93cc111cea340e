// Package moment computes the hydrodynamic moments -- density and
// momentum/velocity -- of a single cell's populations against a
// lattice's celerity set.
package moment

import "github.com/paul-f-baumeister/metalbm-go/internal/lattice"

// Compute returns the density and velocity of one cell given its Q
// populations f, following the standard zeroth and first moment
// sums: rho = sum_i f_i, rho*u = sum_i c_i*f_i.
func Compute(l *lattice.Lattice, f []float64) (density float64, velocity []float64) {
	velocity = make([]float64, l.D)
	for i := 0; i < l.Q; i++ {
		density += f[i]
		for k := 0; k < l.D; k++ {
			velocity[k] += float64(l.C[i][k]) * f[i]
		}
	}
	if density != 0 {
		for k := range velocity {
			velocity[k] /= density
		}
	}
	return density, velocity
}

// ComputeInto writes into the caller-supplied velocity slice to avoid
// an allocation per cell in the hot loop.
func ComputeInto(l *lattice.Lattice, f []float64, velocity []float64) (density float64) {
	for k := range velocity {
		velocity[k] = 0
	}
	for i := 0; i < l.Q; i++ {
		density += f[i]
		for k := 0; k < l.D; k++ {
			velocity[k] += float64(l.C[i][k]) * f[i]
		}
	}
	if density != 0 {
		for k := range velocity {
			velocity[k] /= density
		}
	}
	return density
}
