// Package equilibrium computes the Maxwell-Boltzmann equilibrium
// distribution each collision variant relaxes towards.
package equilibrium

import "github.com/paul-f-baumeister/metalbm-go/internal/lattice"

// Variant selects the equilibrium expansion order/form.
type Variant int

const (
	// Standard is the usual second-order expansion in velocity.
	Standard Variant = iota
	// Incompressible drops the density factor from the
	// velocity-dependent terms, improving accuracy at low Mach
	// number at the cost of exact mass conservation under forcing.
	Incompressible
)

// Equilibrium evaluates f_eq_i for one cell. SetVariables must be
// called once per cell before Calculate.
type Equilibrium struct {
	lat     *lattice.Lattice
	variant Variant

	density  float64
	velocity []float64
	u2       float64
}

// New constructs an Equilibrium evaluator for the given lattice and
// expansion variant.
func New(lat *lattice.Lattice, variant Variant) *Equilibrium {
	return &Equilibrium{lat: lat, variant: variant, velocity: make([]float64, lat.D)}
}

// SetVariables caches the per-cell density and velocity the next
// Calculate calls will use.
func (e *Equilibrium) SetVariables(density float64, velocity []float64) {
	e.density = density
	copy(e.velocity, velocity)
	e.u2 = 0
	for _, u := range velocity {
		e.u2 += u * u
	}
}

// Calculate returns f_eq for direction i of the cell set by the last
// SetVariables call.
func (e *Equilibrium) Calculate(i int) float64 {
	l := e.lat
	ciu := l.Dot(e.velocity, i)

	if e.variant == Incompressible {
		return l.W[i] * (e.density +
			l.InvCs2*ciu +
			0.5*l.InvCs2*l.InvCs2*ciu*ciu -
			0.5*l.InvCs2*e.u2)
	}

	return l.W[i] * e.density * (1.0 +
		l.InvCs2*ciu +
		0.5*l.InvCs2*l.InvCs2*ciu*ciu -
		0.5*l.InvCs2*e.u2)
}

// Density returns the density the evaluator was last set to.
func (e *Equilibrium) Density() float64 {
	return e.density
}

// Velocity returns the velocity the evaluator was last set to.
func (e *Equilibrium) Velocity() []float64 {
	return e.velocity
}
