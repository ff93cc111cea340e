package comm

import "github.com/paul-f-baumeister/metalbm-go/internal/domain"

func packRight(h domain.Halo, f []float64) []float64 {
	lo, hi := h.InteriorXRangeNearRight()
	return packSlab(h, f, lo, hi)
}

func packLeft(h domain.Halo, f []float64) []float64 {
	lo, hi := h.InteriorXRangeNearLeft()
	return packSlab(h, f, lo, hi)
}

func unpackRightGhost(h domain.Halo, f []float64, slab []float64) {
	lo, hi := h.RightPadXRange()
	unpackSlab(h, f, lo, hi, slab)
}

func unpackLeftGhost(h domain.Halo, f []float64, slab []float64) {
	lo, hi := h.LeftPadXRange()
	unpackSlab(h, f, lo, hi, slab)
}

func packSlab(h domain.Halo, f []float64, xlo, xhi int) []float64 {
	length := h.Length()
	slab := make([]float64, (xhi-xlo)*length[1]*length[2]*h.Q)
	n := 0
	for x := xlo; x < xhi; x++ {
		for y := 0; y < length[1]; y++ {
			for z := 0; z < length[2]; z++ {
				p := domain.Position{x, y, z}
				for i := 0; i < h.Q; i++ {
					slab[n] = f[h.IndexQ(p, i)]
					n++
				}
			}
		}
	}
	return slab
}

func unpackSlab(h domain.Halo, f []float64, xlo, xhi int, slab []float64) {
	length := h.Length()
	n := 0
	for x := xlo; x < xhi; x++ {
		for y := 0; y < length[1]; y++ {
			for z := 0; z < length[2]; z++ {
				p := domain.Position{x, y, z}
				for i := 0; i < h.Q; i++ {
					f[h.IndexQ(p, i)] = slab[n]
					n++
				}
			}
		}
	}
}
