package collision

import (
	"math"

	"github.com/paul-f-baumeister/metalbm-go/internal/forcing"
	"github.com/paul-f-baumeister/metalbm-go/internal/lattice"
)

// solver finds the entropic root alpha in [1, alphaMax] satisfying
// the discrete H-theorem equation, given a cell's populations f and
// deviation-from-equilibrium delta = f - feq. It reports ok=false if
// it failed to converge within maxIterations.
type solver func(w, f, delta []float64, alphaMax, tol float64, maxIterations int) (alpha float64, ok bool)

// ELBM is the entropic collision kernel: it replaces BGK's fixed
// relaxation path (implicit alpha=2) with a per-cell alpha solved so
// that the collision step conserves the discrete entropy, improving
// stability at low viscosity and high Mach number.
type ELBM struct {
	*BGK
	beta          float64
	tolerance     float64
	maxIterations int
	solve         solver
	approximate   bool

	feq           []float64
	delta         []float64
	alpha         float64
	fallbackCount int
}

// NewELBM constructs an entropic kernel using full Newton-Raphson
// root-finding, relaxing towards equilibrium with no external force.
func NewELBM(lat *lattice.Lattice, tau, tolerance float64, maxIterations int) *ELBM {
	return newELBM(lat, tau, nil, tolerance, maxIterations, newtonRaphson, false)
}

// NewApproachedELBM constructs an entropic kernel that seeds the
// Newton-Raphson solve with a closed-form approximation of alpha
// valid for small deviations from equilibrium, converging in fewer
// iterations than starting from the bisection midpoint.
func NewApproachedELBM(lat *lattice.Lattice, tau, tolerance float64, maxIterations int) *ELBM {
	return newELBM(lat, tau, nil, tolerance, maxIterations, newtonRaphson, true)
}

// NewForcedNRELBM constructs a forced entropic kernel using
// Newton-Raphson root-finding. scheme must not be nil.
func NewForcedNRELBM(lat *lattice.Lattice, tau float64, scheme forcing.Scheme, tolerance float64, maxIterations int) *ELBM {
	if scheme == nil {
		panic("collision: NewForcedNRELBM requires a non-nil forcing scheme")
	}
	return newELBM(lat, tau, scheme, tolerance, maxIterations, newtonRaphson, false)
}

// ForcedBNRELBM is a forced entropic kernel that solves for alpha
// with a bisection-guarded Newton-Raphson hybrid, trading a little
// convergence speed for guaranteed bracket containment under strong
// forcing, where a pure Newton step can overshoot past the positivity
// bound.
type ForcedBNRELBM struct {
	*ELBM
}

// NewForcedBNRELBM constructs a forced entropic kernel using the
// bisection-Newton hybrid solver. scheme must not be nil.
func NewForcedBNRELBM(lat *lattice.Lattice, tau float64, scheme forcing.Scheme, tolerance float64, maxIterations int) *ForcedBNRELBM {
	if scheme == nil {
		panic("collision: NewForcedBNRELBM requires a non-nil forcing scheme")
	}
	return &ForcedBNRELBM{ELBM: newELBM(lat, tau, scheme, tolerance, maxIterations, bisectionNewton, false)}
}

func newELBM(lat *lattice.Lattice, tau float64, scheme forcing.Scheme, tolerance float64, maxIterations int, solve solver, approximate bool) *ELBM {
	return &ELBM{
		BGK:           NewBGK(lat, tau, scheme),
		beta:          1.0 / (2.0 * tau),
		tolerance:     tolerance,
		maxIterations: maxIterations,
		solve:         solve,
		approximate:   approximate,
		feq:           make([]float64, lat.Q),
		delta:         make([]float64, lat.Q),
	}
}

func (e *ELBM) SetVariables(f []float64, density float64, velocity, force []float64) {
	e.BGK.SetVariables(f, density, velocity, force)

	for i := 0; i < e.lat.Q; i++ {
		e.feq[i] = e.eq.Calculate(i)
		e.delta[i] = f[i] - e.feq[i]
	}

	if isDeviationSmall(f, e.delta) && !e.approximate {
		e.alpha = 2.0
		return
	}

	alphaMax := calculateAlphaMax(f, e.delta)

	if alphaMax < 2.0 {
		e.alpha = 0.95 * alphaMax
		return
	}

	if e.approximate {
		seed := approximateAlpha(f, e.delta)
		if alpha, ok := refineFromSeed(e.lat.W, f, e.delta, seed, alphaMax, e.tolerance, e.maxIterations); ok {
			e.alpha = alpha
			return
		}
	}

	alpha, ok := e.solve(e.lat.W, f, e.delta, alphaMax, e.tolerance, e.maxIterations)
	if !ok {
		e.fallbackCount++
		e.alpha = 2.0
		return
	}
	e.alpha = alpha
}

func (e *ELBM) Calculate(i int) float64 {
	post := e.f[i] - e.alpha*e.beta*e.delta[i]
	if e.scheme != nil {
		post += e.scheme.CollisionSource(i)
	}
	return post
}

func (e *ELBM) Alpha() float64 { return e.alpha }

func (e *ELBM) FallbackCount() int { return e.fallbackCount }

// deviationThreshold bounds the per-direction relative deviation
// isDeviationSmall shortcuts on, distinct from the Newton-Raphson
// convergence tolerance passed into the root solvers.
const deviationThreshold = 1e-3

// isDeviationSmall reports whether every direction's deviation from
// equilibrium is small relative to its population, letting most cells
// skip the root solve and use the BGK value alpha=2 directly.
func isDeviationSmall(f, delta []float64) bool {
	for i := range f {
		if f[i] == 0 {
			continue
		}
		if math.Abs(delta[i]/f[i]) >= deviationThreshold {
			return false
		}
	}
	return true
}

// calculateAlphaMax returns the largest alpha for which every
// post-collision population f_i - alpha*delta_i stays positive,
// capped at 2.5 -- the original's starting upper bound.
func calculateAlphaMax(f, delta []float64) float64 {
	alphaMax := 2.5
	for i := range f {
		if delta[i] > 0 {
			if candidate := f[i] / delta[i]; candidate < alphaMax {
				alphaMax = candidate
			}
		}
	}
	return alphaMax
}

// entropyH evaluates the discrete H-function H(f) = sum f_i ln(f_i/w_i).
func entropyH(w, f []float64) float64 {
	var h float64
	for i := range f {
		if f[i] <= 0 {
			continue
		}
		h += f[i] * math.Log(f[i]/w[i])
	}
	return h
}

// residual evaluates DeltaH(alpha) = H(f - alpha*delta) - H(f), the
// entropy balance the collision step must preserve.
func residual(w, f, delta []float64, alpha float64) float64 {
	g := make([]float64, len(f))
	for i := range f {
		g[i] = f[i] - alpha*delta[i]
	}
	return entropyH(w, g) - entropyH(w, f)
}

// residualAndDerivative evaluates both DeltaH(alpha) and its
// derivative d/dalpha, needed by Newton-Raphson. Reports ok=false if
// any post-collision population at alpha would be non-positive.
func residualAndDerivative(w, f, delta []float64, alpha float64) (value, deriv float64, ok bool) {
	var h float64
	for i := range f {
		g := f[i] - alpha*delta[i]
		if g <= 0 {
			return 0, 0, false
		}
		h += g * math.Log(g/w[i])
		deriv += -delta[i] * (math.Log(g/w[i]) + 1.0)
	}
	return h - entropyH(w, f), deriv, true
}

// newtonRaphson solves residual(alpha)=0 starting from the midpoint
// of [1, alphaMax].
func newtonRaphson(w, f, delta []float64, alphaMax, tol float64, maxIterations int) (float64, bool) {
	return refineFromSeed(w, f, delta, (1.0+alphaMax)/2, alphaMax, tol, maxIterations)
}

// refineFromSeed runs Newton-Raphson starting from a caller-supplied
// initial guess, used directly by the Newton solver and to refine the
// closed-form seed of the Approached variant. alpha is held to
// [1, alphaMax] throughout, the valid entropic range.
func refineFromSeed(w, f, delta []float64, seed, alphaMax, tol float64, maxIterations int) (float64, bool) {
	alpha := seed
	if alpha < 1 || alpha > alphaMax {
		alpha = (1.0 + alphaMax) / 2
	}
	for iter := 0; iter < maxIterations; iter++ {
		value, deriv, ok := residualAndDerivative(w, f, delta, alpha)
		if !ok || deriv == 0 {
			return 0, false
		}
		step := value / deriv
		next := alpha - step
		if next < 1 || next > alphaMax {
			return 0, false
		}
		alpha = next
		if math.Abs(step) < tol {
			return alpha, true
		}
	}
	return 0, false
}

// bisectionNewton solves residual(alpha)=0 on [1, alphaMax] using a
// Newton step whenever it stays inside the current bracket, and
// falling back to bisection otherwise -- guarantees convergence even
// when a strong force pushes the Newton step outside the positivity
// bound.
func bisectionNewton(w, f, delta []float64, alphaMax, tol float64, maxIterations int) (float64, bool) {
	lo, hi := 1.0, alphaMax
	valueLo := residual(w, f, delta, lo)
	valueHi := residual(w, f, delta, hi)
	if valueLo == 0 {
		return lo, true
	}
	if valueHi == 0 {
		return hi, true
	}
	if (valueLo > 0) == (valueHi > 0) {
		return 0, false
	}

	alpha := (lo + hi) / 2
	for iter := 0; iter < maxIterations; iter++ {
		value, deriv, ok := residualAndDerivative(w, f, delta, alpha)
		if ok && deriv != 0 {
			candidate := alpha - value/deriv
			if candidate > lo && candidate < hi {
				alpha = candidate
			} else {
				alpha = (lo + hi) / 2
			}
		} else {
			alpha = (lo + hi) / 2
		}

		v := residual(w, f, delta, alpha)
		if math.Abs(v) < tol {
			return alpha, true
		}
		if (v > 0) == (valueLo > 0) {
			lo, valueLo = alpha, v
		} else {
			hi = alpha
		}
	}
	return 0, false
}

// approximateAlpha returns a closed-form estimate of the entropic
// root, 2 - (2/3)*sum(d^3)/sum(d^2) over the relative deviation
// d = delta/f, used only to seed Newton-Raphson for the Approached
// variant.
func approximateAlpha(f, delta []float64) float64 {
	var a1, a2 float64
	for i := range f {
		if f[i] <= 0 {
			continue
		}
		d := delta[i] / f[i]
		a1 += d * d
		a2 += d * d * d
	}
	if a1 == 0 {
		return 2.0
	}
	return 2.0 - (2.0/3.0)*a2/a1
}
