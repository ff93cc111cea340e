// Package collision implements the BGK and entropic (ELBM) collision
// kernels a per-cell iteration relaxes populations through. Each
// variant is a distinct Go type rather than one interface-dispatched
// implementation, so the compiler can generate a dedicated,
// monomorphic body for whichever kernel a run is configured with
// instead of paying virtual-call overhead in the innermost loop.
package collision

import (
	"github.com/paul-f-baumeister/metalbm-go/internal/equilibrium"
	"github.com/paul-f-baumeister/metalbm-go/internal/forcing"
	"github.com/paul-f-baumeister/metalbm-go/internal/lattice"
)

// Kernel is satisfied by every collision variant. internal/algorithm
// is generic over Kernel implementations, so each configured variant
// still gets its own compiled instantiation of the iteration loop.
type Kernel interface {
	// SetVariables prepares the kernel for one cell: f is that cell's
	// current populations (read-only), density/velocity its moments,
	// and force the body force active there this iteration.
	SetVariables(f []float64, density float64, velocity, force []float64)
	// Calculate returns the post-collision population for direction i.
	// Valid only after SetVariables.
	Calculate(i int) float64
	// HydrodynamicVelocity returns the observable velocity of the
	// cell set by the last SetVariables call.
	HydrodynamicVelocity() []float64
	// Alpha returns the relaxation-path parameter used by the last
	// Calculate call: exactly 2 for BGK, the entropic root for ELBM
	// variants.
	Alpha() float64
	// FallbackCount returns how many cells since construction fell
	// back to alpha=2 because the entropic root solve failed to
	// converge.
	FallbackCount() int
}

// BGK is the single-relaxation-time collision kernel, optionally
// coupled to a forcing.Scheme.
type BGK struct {
	lat    *lattice.Lattice
	tau    float64
	eq     *equilibrium.Equilibrium
	scheme forcing.Scheme

	f        []float64
	density  float64
	velocity []float64
	force    []float64
}

// NewBGK constructs a BGK kernel with relaxation time tau. scheme may
// be nil to disable forcing.
func NewBGK(lat *lattice.Lattice, tau float64, scheme forcing.Scheme) *BGK {
	if tau <= 0.5 {
		panic("collision: tau must be greater than 0.5 for numerical stability")
	}
	return &BGK{
		lat:    lat,
		tau:    tau,
		eq:     equilibrium.New(lat, equilibrium.Standard),
		scheme: scheme,
	}
}

// UseEquilibriumVariant switches the equilibrium expansion the kernel
// relaxes towards. Defaults to equilibrium.Standard; call before the
// first SetVariables.
func (k *BGK) UseEquilibriumVariant(variant equilibrium.Variant) {
	k.eq = equilibrium.New(k.lat, variant)
}

func (k *BGK) SetVariables(f []float64, density float64, velocity, force []float64) {
	k.f = f
	k.density = density
	k.velocity = velocity
	k.force = force
	if k.scheme != nil {
		k.scheme.SetVariables(density, velocity, force, k.tau)
		k.eq.SetVariables(density, k.scheme.EquilibriumVelocity())
	} else {
		k.eq.SetVariables(density, velocity)
	}
}

func (k *BGK) Calculate(i int) float64 {
	feq := k.eq.Calculate(i)
	post := k.f[i] - (k.f[i]-feq)/k.tau
	if k.scheme != nil {
		post += k.scheme.CollisionSource(i)
	}
	return post
}

func (k *BGK) HydrodynamicVelocity() []float64 {
	if k.scheme != nil {
		return k.scheme.HydrodynamicVelocity()
	}
	return k.velocity
}

// Alpha is always 2 for plain BGK: the collision advances exactly to
// the equilibrium-relaxed state, no entropic correction applied.
func (k *BGK) Alpha() float64 { return 2.0 }

// FallbackCount is always 0: BGK never falls back, it has no root to
// solve.
func (k *BGK) FallbackCount() int { return 0 }
