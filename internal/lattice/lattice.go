// Package lattice provides the compile-time DdQq stencil tables
// (celerities, weights, sound speed) shared by every other component.
package lattice

import "fmt"

// Kind names the supported stencils. Only a closed set is
// instantiated, matching the original template-specialised lattice
// selection.
type Kind string

const (
	D2Q9  Kind = "D2Q9"
	D3Q19 Kind = "D3Q19"
	D3Q27 Kind = "D3Q27"
)

// Lattice holds the fixed celerity/weight tables for one DdQq
// stencil. All fields are read-only after construction.
type Lattice struct {
	Kind   Kind
	D      int // dimension
	Q      int // number of discrete velocities
	C      [][3]int
	W      []float64
	Cs2    float64
	InvCs2 float64
	// Halo is the ghost-layer thickness per axis, equal to the
	// maximum celerity magnitude (1 for every stencil here).
	Halo     [3]int
	Opposite []int
}

// New builds the lattice for the given kind. Panics on an unknown
// kind: the stencil is a startup configuration error, not a runtime
// one (spec's Configuration error class).
func New(kind Kind) *Lattice {
	switch kind {
	case D2Q9:
		return build(2, kind, false)
	case D3Q19:
		return build(3, kind, true)
	case D3Q27:
		return build(3, kind, false)
	default:
		panic(fmt.Errorf("lattice: unknown kind %q", kind))
	}
}

// build enumerates every vector in {-1,0,1}^d, optionally dropping
// the corner (all-three-nonzero) velocities to produce D3Q19 from
// the D3Q27 cube, and assigns weights by the number of nonzero
// components -- the standard DdQq weight rule.
func build(d int, kind Kind, dropCorners bool) *Lattice {
	var combos [][3]int
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if d < 3 && z != 0 {
					continue
				}
				if d < 2 && y != 0 {
					continue
				}
				nz := nonzero(x, y, z)
				if dropCorners && nz == 3 {
					continue
				}
				combos = append(combos, [3]int{x, y, z})
			}
		}
	}

	l := &Lattice{
		Kind: kind,
		D:    d,
		Q:    len(combos),
		C:    combos,
		W:    make([]float64, len(combos)),
		Cs2:  1.0 / 3.0,
	}
	l.InvCs2 = 1.0 / l.Cs2
	for i := 0; i < d; i++ {
		l.Halo[i] = 1
	}

	switch d {
	case 2:
		for i, c := range combos {
			switch nonzero(c[0], c[1], c[2]) {
			case 0:
				l.W[i] = 4.0 / 9.0
			case 1:
				l.W[i] = 1.0 / 9.0
			case 2:
				l.W[i] = 1.0 / 36.0
			}
		}
	case 3:
		if dropCorners {
			for i, c := range combos {
				switch nonzero(c[0], c[1], c[2]) {
				case 0:
					l.W[i] = 1.0 / 3.0
				case 1:
					l.W[i] = 1.0 / 18.0
				case 2:
					l.W[i] = 1.0 / 36.0
				}
			}
		} else {
			for i, c := range combos {
				switch nonzero(c[0], c[1], c[2]) {
				case 0:
					l.W[i] = 8.0 / 27.0
				case 1:
					l.W[i] = 2.0 / 27.0
				case 2:
					l.W[i] = 1.0 / 54.0
				case 3:
					l.W[i] = 1.0 / 216.0
				}
			}
		}
	}

	l.Opposite = make([]int, l.Q)
	for i, c := range combos {
		neg := [3]int{-c[0], -c[1], -c[2]}
		l.Opposite[i] = indexOf(combos, neg)
	}

	return l
}

func nonzero(x, y, z int) int {
	n := 0
	if x != 0 {
		n++
	}
	if y != 0 {
		n++
	}
	if z != 0 {
		n++
	}
	return n
}

func indexOf(combos [][3]int, v [3]int) int {
	for i, c := range combos {
		if c == v {
			return i
		}
	}
	panic(fmt.Errorf("lattice: no opposite direction found for %v", v))
}

// Dot returns c_i . velocity, velocity given as a D-length slice.
func (l *Lattice) Dot(velocity []float64, i int) float64 {
	var s float64
	for k := 0; k < l.D; k++ {
		s += float64(l.C[i][k]) * velocity[k]
	}
	return s
}

// CelerityExt returns the celerity of direction i padded/truncated to
// the lattice dimension, as a 3-vector usable for position arithmetic
// in domain space.
func (l *Lattice) CelerityExt(i int) [3]int {
	return l.C[i]
}
