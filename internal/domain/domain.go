// Package domain implements the index-space arithmetic shared by every
// per-cell component: translating (x,y,z) lattice-site coordinates and
// (x,y,z,i) population coordinates into flat array offsets, for each
// of the four spaces a distributed simulation needs -- the full
// global domain, one rank's interior, one rank's interior plus halo,
// and the thin X-buffer used to pack halo exchange messages.
package domain

// Position is a lattice-site coordinate, always given with X first.
// The 1-D decomposition is along X, so only X ever differs between
// Global and Local coordinates; Halo coordinates are additionally
// shifted by the ghost-layer Thickness on every axis.
type Position [3]int

// Add returns the elementwise sum, used to move from a cell to one of
// its streaming neighbours.
func Add(p, c Position) Position {
	return Position{p[0] + c[0], p[1] + c[1], p[2] + c[2]}
}

// Sub returns the elementwise difference.
func Sub(p, c Position) Position {
	return Position{p[0] - c[0], p[1] - c[1], p[2] - c[2]}
}

// Layout selects how the Q populations of a cell are interleaved with
// the cells themselves in the backing slice.
type Layout int

const (
	// AoS stores all Q populations of a cell contiguously: index is
	// cellIndex*Q + i. Favoured by the per-cell collision kernel,
	// which touches every direction of one cell at a time.
	AoS Layout = iota
	// SoA stores one direction's field contiguously across every
	// cell: index is i*volume + cellIndex. Favoured by streaming and
	// by vectorised moment reductions.
	SoA
)

// Global describes the whole simulation domain and how it is split
// along X across ranks. Splitting follows the same even-block, spread
// the remainder over the first ranks rule as the teacher's bucket
// partitioning.
type Global struct {
	Length Position
	NProcs int
}

// NewGlobal validates and constructs a Global space.
func NewGlobal(length Position, nprocs int) Global {
	if nprocs < 1 {
		panic("domain: NewGlobal requires nprocs >= 1")
	}
	return Global{Length: length, NProcs: nprocs}
}

// Volume returns the total number of lattice sites in the domain.
func (g Global) Volume() int {
	return g.Length[0] * g.Length[1] * g.Length[2]
}

// LocalLengthX returns the number of X-planes owned by rank.
func (g Global) LocalLengthX(rank int) int {
	base := g.Length[0] / g.NProcs
	rem := g.Length[0] % g.NProcs
	if rank < rem {
		return base + 1
	}
	return base
}

// OffsetX returns the global X coordinate of rank's first owned
// plane.
func (g Global) OffsetX(rank int) int {
	base := g.Length[0] / g.NProcs
	rem := g.Length[0] % g.NProcs
	if rank < rem {
		return rank * (base + 1)
	}
	return rem*(base+1) + (rank-rem)*base
}

// Local describes one rank's interior (halo-free) sub-domain.
type Local struct {
	Length Position
}

// NewLocal builds the Local space owned by rank within g.
func NewLocal(g Global, rank int) Local {
	return Local{Length: Position{g.LocalLengthX(rank), g.Length[1], g.Length[2]}}
}

// Volume returns the number of interior lattice sites.
func (l Local) Volume() int {
	return l.Length[0] * l.Length[1] * l.Length[2]
}

// Index flattens an interior-local position in row-major X,Y,Z order.
func (l Local) Index(p Position) int {
	return (p[0]*l.Length[1]+p[1])*l.Length[2] + p[2]
}

// Halo describes one rank's interior padded with a ghost layer of
// Thickness sites on every side of every axis -- the space the
// collision kernel and streaming actually index into.
type Halo struct {
	Inner     Local
	Thickness Position
	Layout    Layout
	Q         int
}

// NewHalo pads inner by thickness on every axis.
func NewHalo(inner Local, thickness Position, layout Layout, q int) Halo {
	return Halo{Inner: inner, Thickness: thickness, Layout: layout, Q: q}
}

// Length returns the padded extents.
func (h Halo) Length() Position {
	return Position{
		h.Inner.Length[0] + 2*h.Thickness[0],
		h.Inner.Length[1] + 2*h.Thickness[1],
		h.Inner.Length[2] + 2*h.Thickness[2],
	}
}

// Volume returns the number of sites including the ghost layer.
func (h Halo) Volume() int {
	l := h.Length()
	return l[0] * l[1] * l[2]
}

// Index flattens a halo-space position (coordinates already include
// the padding offset, i.e. the interior starts at Thickness).
func (h Halo) Index(p Position) int {
	l := h.Length()
	return (p[0]*l[1]+p[1])*l[2] + p[2]
}

// IndexLocal converts an interior-local position into its halo-space
// flat index by first shifting it by Thickness.
func (h Halo) IndexLocal(p Position) int {
	return h.Index(Add(p, h.Thickness))
}

// IndexQ flattens a (position, direction) pair according to Layout.
func (h Halo) IndexQ(p Position, i int) int {
	idx := h.Index(p)
	if h.Layout == SoA {
		return i*h.Volume() + idx
	}
	return idx*h.Q + i
}

// LeftPadXRange returns the [lo,hi) range of X-plane indices, in
// halo-space coordinates, making up the left ghost layer.
func (h Halo) LeftPadXRange() (lo, hi int) {
	return 0, h.Thickness[0]
}

// RightPadXRange returns the [lo,hi) range of X-plane indices making
// up the right ghost layer.
func (h Halo) RightPadXRange() (lo, hi int) {
	l := h.Length()
	return l[0] - h.Thickness[0], l[0]
}

// InteriorXRangeNearLeft returns the interior X-planes adjacent to the
// left ghost layer -- the planes packed into an outgoing leftward
// exchange message.
func (h Halo) InteriorXRangeNearLeft() (lo, hi int) {
	return h.Thickness[0], 2 * h.Thickness[0]
}

// InteriorXRangeNearRight returns the interior X-planes adjacent to
// the right ghost layer.
func (h Halo) InteriorXRangeNearRight() (lo, hi int) {
	l := h.Length()
	return l[0] - 2*h.Thickness[0], l[0] - h.Thickness[0]
}

// BufferX is the thin slab of X-planes packed into one halo-exchange
// message: Thickness planes, full Y and Z extent of the halo space.
type BufferX struct {
	Halo      Halo
	Thickness int
}

// NewBufferX builds the packing buffer for h, one plane thick per the
// lattice's X-halo requirement unless overridden.
func NewBufferX(h Halo) BufferX {
	return BufferX{Halo: h, Thickness: h.Thickness[0]}
}

// Length returns the buffer's own extents.
func (b BufferX) Length() Position {
	l := b.Halo.Length()
	return Position{b.Thickness, l[1], l[2]}
}

// Volume returns the number of sites in the buffer.
func (b BufferX) Volume() int {
	l := b.Length()
	return l[0] * l[1] * l[2]
}

// Index flattens a position given in buffer-local coordinates (X in
// [0,Thickness)).
func (b BufferX) Index(p Position) int {
	l := b.Length()
	return (p[0]*l[1]+p[1])*l[2] + p[2]
}

// IndexQ flattens a (position, direction) pair in the buffer,
// following the same Layout as the parent halo space.
func (b BufferX) IndexQ(p Position, i int) int {
	idx := b.Index(p)
	if b.Halo.Layout == SoA {
		return i*b.Volume() + idx
	}
	return idx*b.Halo.Q + i
}
