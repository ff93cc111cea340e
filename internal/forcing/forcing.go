// Package forcing implements the three external-force coupling
// schemes a collision kernel can apply: Guo's source-term scheme,
// the Shan-Chen equilibrium-velocity shift, and Kupershtokh's exact
// difference method.
package forcing

import (
	"github.com/paul-f-baumeister/metalbm-go/internal/equilibrium"
	"github.com/paul-f-baumeister/metalbm-go/internal/lattice"
)

// Scheme couples a body force into the collision step. SetVariables
// must be called once per cell before any other method.
type Scheme interface {
	// SetVariables caches the per-cell density, velocity, force and
	// relaxation time tau the following calls use.
	SetVariables(density float64, velocity, force []float64, tau float64)
	// EquilibriumVelocity returns the velocity the equilibrium
	// distribution should be evaluated at.
	EquilibriumVelocity() []float64
	// HydrodynamicVelocity returns the observable fluid velocity,
	// which generally differs from EquilibriumVelocity under forcing.
	HydrodynamicVelocity() []float64
	// CollisionSource returns the extra term direction i contributes
	// to the post-collision population on top of BGK relaxation.
	CollisionSource(i int) float64
}

type base struct {
	lat           *lattice.Lattice
	density       float64
	velocity      []float64
	force         []float64
	tau           float64
	eqVelocity    []float64
	hydroVelocity []float64
}

func newBase(lat *lattice.Lattice) base {
	return base{
		lat:           lat,
		velocity:      make([]float64, lat.D),
		force:         make([]float64, lat.D),
		eqVelocity:    make([]float64, lat.D),
		hydroVelocity: make([]float64, lat.D),
	}
}

func (b *base) set(density float64, velocity, force []float64, tau float64) {
	b.density = density
	copy(b.velocity, velocity)
	copy(b.force, force)
	b.tau = tau
}

func (b *base) EquilibriumVelocity() []float64  { return b.eqVelocity }
func (b *base) HydrodynamicVelocity() []float64 { return b.hydroVelocity }

// Guo implements the He-Luo/Guo source-term scheme: the equilibrium
// is evaluated at the bare velocity, and the force enters through an
// explicit per-direction source term.
type Guo struct {
	base
}

// NewGuo constructs a Guo forcing scheme for lat.
func NewGuo(lat *lattice.Lattice) *Guo {
	return &Guo{base: newBase(lat)}
}

func (g *Guo) SetVariables(density float64, velocity, force []float64, tau float64) {
	g.set(density, velocity, force, tau)
	copy(g.eqVelocity, velocity)
	for k := range g.hydroVelocity {
		g.hydroVelocity[k] = velocity[k] + force[k]/(2*density)
	}
}

func (g *Guo) CollisionSource(i int) float64 {
	l := g.lat
	ciu := l.Dot(g.hydroVelocity, i)
	cif := l.Dot(g.force, i)

	var s float64
	for k := 0; k < l.D; k++ {
		cmu := float64(l.C[i][k]) - g.hydroVelocity[k]
		s += l.InvCs2 * cmu * g.force[k]
	}
	s += l.InvCs2 * l.InvCs2 * ciu * cif

	return (1.0 - 1.0/(2.0*g.tau)) * l.W[i] * s
}

// ShanChen implements the Shan-Chen scheme: the force is folded
// entirely into the velocity the equilibrium is evaluated at, so
// there is no explicit collision source.
type ShanChen struct {
	base
}

// NewShanChen constructs a Shan-Chen forcing scheme for lat.
func NewShanChen(lat *lattice.Lattice) *ShanChen {
	return &ShanChen{base: newBase(lat)}
}

func (s *ShanChen) SetVariables(density float64, velocity, force []float64, tau float64) {
	s.set(density, velocity, force, tau)
	for k := range s.eqVelocity {
		s.eqVelocity[k] = velocity[k] + tau*force[k]/density
	}
	for k := range s.hydroVelocity {
		s.hydroVelocity[k] = velocity[k] + force[k]/(2*density)
	}
}

func (s *ShanChen) CollisionSource(i int) float64 {
	return 0
}

// ExactDifferenceMethod implements Kupershtokh's EDM scheme: the
// source term is the difference of two equilibrium distributions
// evaluated at the unforced and force-shifted velocity.
type ExactDifferenceMethod struct {
	base
	eq *equilibrium.Equilibrium
}

// NewExactDifferenceMethod constructs an EDM forcing scheme for lat.
func NewExactDifferenceMethod(lat *lattice.Lattice) *ExactDifferenceMethod {
	return &ExactDifferenceMethod{
		base: newBase(lat),
		eq:   equilibrium.New(lat, equilibrium.Standard),
	}
}

func (e *ExactDifferenceMethod) SetVariables(density float64, velocity, force []float64, tau float64) {
	e.set(density, velocity, force, tau)
	copy(e.eqVelocity, velocity)
	for k := range e.hydroVelocity {
		e.hydroVelocity[k] = velocity[k] + force[k]/density
	}
}

func (e *ExactDifferenceMethod) CollisionSource(i int) float64 {
	e.eq.SetVariables(e.density, e.hydroVelocity)
	shifted := e.eq.Calculate(i)
	e.eq.SetVariables(e.density, e.velocity)
	unshifted := e.eq.Calculate(i)
	return shifted - unshifted
}
