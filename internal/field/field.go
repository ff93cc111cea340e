// Package field provides the per-cell scalar and vector field storage
// (density, velocity, force) backed by gonum vectors, giving moment
// and diagnostics reductions a BLAS-friendly layout to work with.
package field

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Scalar is a dense scalar field over every cell of a halo space, one
// value per cell, e.g. density.
type Scalar struct {
	v *mat.VecDense
}

// NewScalar allocates a zeroed scalar field of n cells.
func NewScalar(n int) *Scalar {
	return &Scalar{v: mat.NewVecDense(n, nil)}
}

// At returns the value at cell index.
func (s *Scalar) At(index int) float64 {
	return s.v.AtVec(index)
}

// Set stores the value at cell index.
func (s *Scalar) Set(index int, value float64) {
	s.v.SetVec(index, value)
}

// Data exposes the backing slice for bulk access (packing, I/O).
func (s *Scalar) Data() []float64 {
	return s.v.RawVector().Data
}

// Sum returns the sum of all cell values, used for the mass
// conservation check.
func (s *Scalar) Sum() float64 {
	return floats.Sum(s.Data())
}

// Vector is a dense D-component vector field over every cell of a
// halo space, e.g. velocity or force.
type Vector struct {
	d          int
	components []*Scalar
}

// NewVector allocates a zeroed D-component vector field of n cells.
func NewVector(n, d int) *Vector {
	v := &Vector{d: d, components: make([]*Scalar, d)}
	for k := range v.components {
		v.components[k] = NewScalar(n)
	}
	return v
}

// At returns component k of cell index.
func (v *Vector) At(index, k int) float64 {
	return v.components[k].At(index)
}

// Set stores component k of cell index.
func (v *Vector) Set(index, k int, value float64) {
	v.components[k].Set(index, value)
}

// Component returns the scalar field backing component k, e.g. for
// bulk writes by an I/O writer.
func (v *Vector) Component(k int) *Scalar {
	return v.components[k]
}

// D returns the number of vector components.
func (v *Vector) D() int {
	return v.d
}
