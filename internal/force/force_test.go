package force

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantForceIsUniform(t *testing.T) {
	g := NewConstant([]float64{0.01, -0.02})
	a := g.At([3]int{0, 0, 0})
	b := g.At([3]int{5, 3, 1})
	assert.Equal(t, a, b)
	assert.Equal(t, []float64{0.01, -0.02}, a)
}

func TestConstantForceIgnoresUpdate(t *testing.T) {
	g := NewConstant([]float64{1, 2})
	g.Update(100)
	assert.Equal(t, []float64{1, 2}, g.At([3]int{0, 0, 0}))
}

func TestKolmogorovVariesWithWaveAxis(t *testing.T) {
	g := NewKolmogorov(2, 1.0, math.Pi/4, 1, 0, 0)
	f0 := g.At([3]int{0, 0, 0})
	f1 := g.At([3]int{0, 2, 0})
	assert.NotEqual(t, f0[0], f1[0])
}

func TestKolmogorovSteadyIgnoresPeriodZero(t *testing.T) {
	g := NewKolmogorov(2, 1.0, 1.0, 0, 1, 0)
	g.Update(1000)
	f := g.At([3]int{1, 0, 0})
	assert.InDelta(t, math.Sin(1.0), f[1], 1e-12)
}

func TestKolmogorovOscillatesWithPeriod(t *testing.T) {
	g := NewKolmogorov(2, 1.0, 1.0, 0, 1, 4)
	g.Update(0)
	f0 := g.At([3]int{1, 0, 0})
	g.Update(2)
	f2 := g.At([3]int{1, 0, 0})
	assert.InDelta(t, -f0[1], f2[1], 1e-9)
}
