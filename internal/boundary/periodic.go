// Package boundary applies periodic boundary conditions along the
// axes not handled by inter-rank halo exchange. The X axis is always
// closed by communication (even at NProcs=1, where the halo transport
// wraps a rank's own interior); Y and Z wrap by a direct ghost-layer
// slab copy since every rank owns the full extent of both.
package boundary

import "github.com/paul-f-baumeister/metalbm-go/internal/domain"

// ApplyPeriodic copies the interior slab adjacent to one edge of axis
// into the ghost layer at the opposite edge, and vice versa, for every
// population direction. axis must be 1 (Y) or 2 (Z); X periodicity is
// the halo transport's responsibility.
func ApplyPeriodic(h domain.Halo, f []float64, axis int) {
	if axis != 1 && axis != 2 {
		panic("boundary: ApplyPeriodic only supports axis 1 (Y) or 2 (Z)")
	}

	length := h.Length()
	thickness := h.Thickness[axis]
	extent := length[axis]

	forEachTransversePosition(h, axis, func(p domain.Position) {
		for pad := 0; pad < thickness; pad++ {
			lowGhost := withAxis(p, axis, pad)
			lowInterior := withAxis(p, axis, extent-2*thickness+pad)
			highGhost := withAxis(p, axis, extent-thickness+pad)
			highInterior := withAxis(p, axis, thickness+pad)

			copyCell(h, f, lowInterior, lowGhost)
			copyCell(h, f, highInterior, highGhost)
		}
	})
}

func withAxis(p domain.Position, axis, value int) domain.Position {
	q := p
	q[axis] = value
	return q
}

func copyCell(h domain.Halo, f []float64, src, dst domain.Position) {
	for i := 0; i < h.Q; i++ {
		f[h.IndexQ(dst, i)] = f[h.IndexQ(src, i)]
	}
}

// forEachTransversePosition iterates over every position in the halo
// space whose axis-component is fixed at 0 (the caller fills it in),
// covering the two axes other than the one periodic wrap is applied
// along.
func forEachTransversePosition(h domain.Halo, axis int, fn func(domain.Position)) {
	length := h.Length()
	var other1, other2 int
	switch axis {
	case 1:
		other1, other2 = 0, 2
	case 2:
		other1, other2 = 0, 1
	}
	var p domain.Position
	for a := 0; a < length[other1]; a++ {
		for b := 0; b < length[other2]; b++ {
			p[other1] = a
			p[other2] = b
			fn(p)
		}
	}
}
