package forcing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paul-f-baumeister/metalbm-go/internal/lattice"
)

func TestGuoHydrodynamicVelocityShift(t *testing.T) {
	l := lattice.New(lattice.D2Q9)
	g := NewGuo(l)
	rho := 1.0
	u := []float64{0.1, 0.0}
	F := []float64{0.0, 0.02}
	g.SetVariables(rho, u, F, 0.8)

	assert.Equal(t, u, g.EquilibriumVelocity())
	assert.InDelta(t, 0.01, g.HydrodynamicVelocity()[1], 1e-12)
}

func TestGuoSourceSumsToZeroAtRest(t *testing.T) {
	l := lattice.New(lattice.D2Q9)
	g := NewGuo(l)
	g.SetVariables(1.0, []float64{0, 0}, []float64{0.01, -0.02}, 0.8)

	var sum float64
	for i := 0; i < l.Q; i++ {
		sum += g.CollisionSource(i)
	}
	assert.InDelta(t, 0.0, sum, 1e-9)
}

func TestShanChenNoExplicitSource(t *testing.T) {
	l := lattice.New(lattice.D2Q9)
	sc := NewShanChen(l)
	sc.SetVariables(1.0, []float64{0.1, 0}, []float64{0.01, 0.02}, 0.8)
	for i := 0; i < l.Q; i++ {
		assert.Equal(t, 0.0, sc.CollisionSource(i))
	}
	assert.NotEqual(t, sc.EquilibriumVelocity()[1], 0.0)
}

func TestExactDifferenceMethodSourceSumsToForceMomentum(t *testing.T) {
	l := lattice.New(lattice.D2Q9)
	edm := NewExactDifferenceMethod(l)
	rho := 1.0
	u := []float64{0.05, 0}
	F := []float64{0.0, 0.01}
	edm.SetVariables(rho, u, F, 0.8)

	var momY float64
	for i := 0; i < l.Q; i++ {
		momY += float64(l.C[i][1]) * edm.CollisionSource(i)
	}
	assert.InDelta(t, F[1], momY, 1e-9)
}
