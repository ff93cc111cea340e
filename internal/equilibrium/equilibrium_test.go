package equilibrium

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paul-f-baumeister/metalbm-go/internal/lattice"
)

func TestRestEquilibriumMatchesWeights(t *testing.T) {
	l := lattice.New(lattice.D2Q9)
	e := New(l, Standard)
	e.SetVariables(1.0, []float64{0, 0})

	var sum float64
	for i := 0; i < l.Q; i++ {
		got := e.Calculate(i)
		assert.InDelta(t, l.W[i], got, 1e-12)
		sum += got
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestEquilibriumConservesMomentsAtLowMach(t *testing.T) {
	l := lattice.New(lattice.D2Q9)
	e := New(l, Standard)
	u := []float64{0.01, -0.02}
	e.SetVariables(1.2, u)

	var rho float64
	mom := []float64{0, 0}
	for i := 0; i < l.Q; i++ {
		feq := e.Calculate(i)
		rho += feq
		for k := 0; k < l.D; k++ {
			mom[k] += float64(l.C[i][k]) * feq
		}
	}
	assert.InDelta(t, 1.2, rho, 1e-9)
	assert.InDelta(t, 1.2*u[0], mom[0], 1e-9)
	assert.InDelta(t, 1.2*u[1], mom[1], 1e-9)
}
