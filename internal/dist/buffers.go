// Package dist holds the two population buffers a pull-streaming
// iteration alternates between, and the swap that makes last
// iteration's write buffer this iteration's read buffer.
package dist

import "github.com/paul-f-baumeister/metalbm-go/internal/domain"

// Buffers owns the two backing arrays for the distribution function,
// each sized to the full halo volume times the stencil's Q. Pull
// streaming reads from Previous() and writes into Next(); Swap()
// exchanges the roles in O(1) without copying.
type Buffers struct {
	a, b []float64
	cur  int
}

// New allocates both buffers for the given halo space.
func New(h domain.Halo) *Buffers {
	n := h.Volume() * h.Q
	return &Buffers{a: make([]float64, n), b: make([]float64, n)}
}

// Previous returns the buffer holding the populations from the end of
// the last completed iteration.
func (buf *Buffers) Previous() []float64 {
	if buf.cur == 0 {
		return buf.a
	}
	return buf.b
}

// Next returns the buffer the current iteration should write into.
func (buf *Buffers) Next() []float64 {
	if buf.cur == 0 {
		return buf.b
	}
	return buf.a
}

// Swap flips which buffer is Previous and which is Next.
func (buf *Buffers) Swap() {
	buf.cur = 1 - buf.cur
}
