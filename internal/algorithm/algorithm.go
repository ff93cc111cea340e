// Package algorithm orchestrates one rank's simulation loop: swap
// buffers, advance the force generator, exchange halos, apply the
// periodic boundary on the axes not handled by communication, then
// stream-gather, compute moments and collide every interior cell.
// Algorithm is generic over the configured collision.Kernel type so
// the compiler emits one specialised instantiation per run instead of
// dispatching through an interface in the innermost loop.
package algorithm

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/paul-f-baumeister/metalbm-go/internal/boundary"
	"github.com/paul-f-baumeister/metalbm-go/internal/collision"
	"github.com/paul-f-baumeister/metalbm-go/internal/comm"
	"github.com/paul-f-baumeister/metalbm-go/internal/dist"
	"github.com/paul-f-baumeister/metalbm-go/internal/domain"
	"github.com/paul-f-baumeister/metalbm-go/internal/field"
	"github.com/paul-f-baumeister/metalbm-go/internal/force"
	"github.com/paul-f-baumeister/metalbm-go/internal/lattice"
	"github.com/paul-f-baumeister/metalbm-go/internal/moment"
	"github.com/paul-f-baumeister/metalbm-go/internal/worker"
)

// Algorithm drives the iteration loop for one rank, using K as the
// collision kernel.
type Algorithm[K collision.Kernel] struct {
	lat       *lattice.Lattice
	halo      domain.Halo
	offsetX   int
	buffers   *dist.Buffers
	transport comm.HaloTransport
	forceGen  *force.Generator

	degree    int
	partition *worker.PartitionMap
	kernels   []K
	scratchF  [][]float64
	scratchU  [][]float64

	densityField  *field.Scalar
	alphaField    *field.Scalar
	velocityField *field.Vector
	forceField    *field.Vector

	fallbacks atomic.Int64

	dtCommunication time.Duration
	dtCompute       time.Duration
	dtTotal         time.Duration
}

// New constructs an Algorithm for one rank. newKernel is called once
// per worker goroutine so each has its own entropic-solver scratch
// state, avoiding shared mutable state across goroutines.
func New[K collision.Kernel](lat *lattice.Lattice, halo domain.Halo, offsetX int, transport comm.HaloTransport, forceGen *force.Generator, degree int, newKernel func() K) *Algorithm[K] {
	if degree < 1 {
		panic("algorithm: New requires degree >= 1")
	}
	a := &Algorithm[K]{
		lat:       lat,
		halo:      halo,
		offsetX:   offsetX,
		buffers:   dist.New(halo),
		transport: transport,
		forceGen:  forceGen,
		degree:    degree,
		partition: worker.NewPartitionMap(degree, halo.Inner.Length[0]),
		kernels:   make([]K, degree),
		scratchF:  make([][]float64, degree),
		scratchU:  make([][]float64, degree),
	}
	for w := 0; w < degree; w++ {
		a.kernels[w] = newKernel()
		a.scratchF[w] = make([]float64, lat.Q)
		a.scratchU[w] = make([]float64, lat.D)
	}

	n := halo.Volume()
	a.densityField = field.NewScalar(n)
	a.alphaField = field.NewScalar(n)
	a.velocityField = field.NewVector(n, lat.D)
	a.forceField = field.NewVector(n, lat.D)

	return a
}

// Distribution exposes the underlying population buffers, e.g. for
// initial condition seeding or output writers.
func (a *Algorithm[K]) Distribution() *dist.Buffers {
	return a.buffers
}

// FallbackCount returns how many cells, across every worker, have
// fallen back to alpha=2 because an entropic root solve failed to
// converge.
func (a *Algorithm[K]) FallbackCount() int64 {
	return a.fallbacks.Load()
}

// Timings returns the duration breakdown of the most recently
// completed Iterate call.
func (a *Algorithm[K]) Timings() (communication, compute, total time.Duration) {
	return a.dtCommunication, a.dtCompute, a.dtTotal
}

// Density returns the per-cell density field, populated at the last
// iteration run with isStored=true.
func (a *Algorithm[K]) Density() *field.Scalar { return a.densityField }

// Alpha returns the per-cell entropic relaxation-path field, populated
// at the last iteration run with isStored=true.
func (a *Algorithm[K]) Alpha() *field.Scalar { return a.alphaField }

// Velocity returns the per-cell hydrodynamic velocity field, populated
// at the last iteration run with isStored=true.
func (a *Algorithm[K]) Velocity() *field.Vector { return a.velocityField }

// Force returns the per-cell body force field, populated at the last
// iteration run with isStored=true.
func (a *Algorithm[K]) Force() *field.Vector { return a.forceField }

// Iterate advances the simulation by one time step. When isStored is
// true, every interior cell's density, alpha, velocity and force are
// additionally written to the per-cell field storage exposed by
// Density, Alpha, Velocity and Force.
func (a *Algorithm[K]) Iterate(iteration int, isStored bool) error {
	t0 := time.Now()

	a.buffers.Swap()
	a.forceGen.Update(iteration)

	previous := a.buffers.Previous()
	if err := a.transport.ExchangeX(a.halo, previous); err != nil {
		return fmt.Errorf("algorithm: halo exchange failed at iteration %d: %w", iteration, err)
	}

	if a.halo.Inner.Length[1] > 1 {
		boundary.ApplyPeriodic(a.halo, previous, 1)
	}
	if a.halo.Inner.Length[2] > 1 {
		boundary.ApplyPeriodic(a.halo, previous, 2)
	}

	t1 := time.Now()

	next := a.buffers.Next()
	worker.Run(a.degree, func(w int) {
		a.computeBlock(w, previous, next, isStored)
	})

	var fallbacks int64
	for _, kernel := range a.kernels {
		fallbacks += int64(kernel.FallbackCount())
	}
	a.fallbacks.Store(fallbacks)

	t2 := time.Now()
	a.dtCommunication = t1.Sub(t0)
	a.dtCompute = t2.Sub(t1)
	a.dtTotal = t2.Sub(t0)
	return nil
}

func (a *Algorithm[K]) computeBlock(w int, previous, next []float64, isStored bool) {
	lo, hi := a.partition.Range(w)
	kernel := a.kernels[w]
	f := a.scratchF[w]
	u := a.scratchU[w]
	length := a.halo.Inner.Length

	for x := lo; x < hi; x++ {
		for y := 0; y < length[1]; y++ {
			for z := 0; z < length[2]; z++ {
				p := domain.Position{x, y, z}
				a.gather(previous, p, f)
				density := moment.ComputeInto(a.lat, f, u)

				globalPos := [3]int{a.offsetX + x, y, z}
				forceVec := a.forceGen.At(globalPos)

				kernel.SetVariables(f, density, u, forceVec)
				haloP := domain.Add(p, a.halo.Thickness)
				for i := 0; i < a.lat.Q; i++ {
					next[a.halo.IndexQ(haloP, i)] = kernel.Calculate(i)
				}

				if isStored {
					index := a.halo.IndexLocal(p)
					a.densityField.Set(index, density)
					a.alphaField.Set(index, kernel.Alpha())
					velocity := kernel.HydrodynamicVelocity()
					for k := 0; k < a.lat.D; k++ {
						a.velocityField.Set(index, k, velocity[k])
						a.forceField.Set(index, k, forceVec[k])
					}
				}
			}
		}
	}
}

// gather pulls the Q populations that stream into interior-local cell
// p out of the previous buffer: direction i's population at p came
// from cell p-c_i.
func (a *Algorithm[K]) gather(previous []float64, p domain.Position, f []float64) {
	haloP := domain.Add(p, a.halo.Thickness)
	for i := 0; i < a.lat.Q; i++ {
		c := a.lat.CelerityExt(i)
		source := domain.Sub(haloP, domain.Position{c[0], c[1], c[2]})
		f[i] = previous[a.halo.IndexQ(source, i)]
	}
}
