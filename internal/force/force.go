// Package force generates the per-cell, per-iteration body force fed
// into the forcing scheme. It is kept separate from the collision
// kernel (the original couples force generation into the kernel
// itself) so that the time-dependent amplitude update and the
// per-cell spatial profile can be composed independently of which
// collision variant is running.
package force

import "math"

// Variant selects the spatial/temporal profile of the body force.
type Variant int

const (
	// Constant applies a fixed force vector to every cell.
	Constant Variant = iota
	// Kolmogorov applies a sinusoidal shear force along one axis,
	// varying with the perpendicular coordinate -- the classic
	// Kolmogorov-flow forcing used to drive decaying/steady shear
	// turbulence benchmarks.
	Kolmogorov
)

// Generator produces the force vector active at a given cell for the
// current iteration.
type Generator struct {
	variant  Variant
	d        int
	constant []float64

	amplitude      float64
	amplitudeScale float64
	waveAxis       int // axis the sinusoid varies along
	forceAxis      int // axis the force vector points along
	waveNumber     float64
	period         int // iterations per amplitude oscillation, 0 = steady
}

// NewConstant builds a Generator applying force to every cell,
// unconditionally on iteration.
func NewConstant(force []float64) *Generator {
	c := make([]float64, len(force))
	copy(c, force)
	return &Generator{variant: Constant, d: len(force), constant: c}
}

// NewKolmogorov builds a Generator producing
// F[forceAxis](x) = amplitude * sin(waveNumber * x[waveAxis]), optionally
// oscillating in time with the given period (0 disables the time
// dependence, giving a steady Kolmogorov force).
func NewKolmogorov(d int, amplitude, waveNumber float64, waveAxis, forceAxis, period int) *Generator {
	return &Generator{
		variant:        Kolmogorov,
		d:              d,
		amplitude:      amplitude,
		amplitudeScale: 1,
		waveNumber:     waveNumber,
		waveAxis:       waveAxis,
		forceAxis:      forceAxis,
		period:         period,
	}
}

// Update recomputes any iteration-dependent state. Constant forces
// ignore it; an oscillating Kolmogorov force uses it to phase the
// time-dependent envelope.
func (g *Generator) Update(iteration int) {
	if g.variant != Kolmogorov || g.period == 0 {
		return
	}
	phase := 2 * math.Pi * float64(iteration) / float64(g.period)
	g.amplitudeScale = math.Cos(phase)
}

// At returns the force vector active at the given global position.
func (g *Generator) At(posGlobal [3]int) []float64 {
	out := make([]float64, g.d)
	switch g.variant {
	case Constant:
		copy(out, g.constant)
	case Kolmogorov:
		scale := g.amplitudeScale
		if g.period == 0 {
			scale = 1
		}
		out[g.forceAxis] = g.amplitude * scale * math.Sin(g.waveNumber*float64(posGlobal[g.waveAxis]))
	}
	return out
}
