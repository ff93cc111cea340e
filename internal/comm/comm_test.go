package comm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paul-f-baumeister/metalbm-go/internal/domain"
)

func haloFor(rank, nprocs int) domain.Halo {
	g := domain.NewGlobal(domain.Position{8, 4, 4}, nprocs)
	l := domain.NewLocal(g, rank)
	return domain.NewHalo(l, domain.Position{1, 1, 1}, domain.AoS, 9)
}

func fillWithRank(h domain.Halo, rank int) []float64 {
	f := make([]float64, h.Volume()*h.Q)
	length := h.Length()
	for x := 0; x < length[0]; x++ {
		for y := 0; y < length[1]; y++ {
			for z := 0; z < length[2]; z++ {
				p := domain.Position{x, y, z}
				for i := 0; i < h.Q; i++ {
					f[h.IndexQ(p, i)] = float64(rank*1000 + x)
				}
			}
		}
	}
	return f
}

func TestLocalTransportSingleRankWrapsPeriodically(t *testing.T) {
	h := haloFor(0, 1)
	f := fillWithRank(h, 0)

	group := NewLocalGroup(1)
	transport := group.For(0)

	err := transport.ExchangeX(h, f)
	assert.NoError(t, err)

	length := h.Length()
	loLo, loHi := h.LeftPadXRange()
	hiLo, hiHi := h.RightPadXRange()
	interiorLeftLo, _ := h.InteriorXRangeNearLeft()
	_, interiorRightHi := h.InteriorXRangeNearRight()

	for y := 0; y < length[1]; y++ {
		for z := 0; z < length[2]; z++ {
			p := domain.Position{loLo, y, z}
			want := f[h.IndexQ(domain.Position{interiorRightHi - (loHi - loLo), y, z}, 0)]
			assert.Equal(t, want, f[h.IndexQ(p, 0)])

			p2 := domain.Position{hiLo, y, z}
			want2 := f[h.IndexQ(domain.Position{interiorLeftLo, y, z}, 0)]
			assert.Equal(t, want2, f[h.IndexQ(p2, 0)])
			_ = hiHi
		}
	}
}

func TestLocalTransportTwoRanksExchangeGhosts(t *testing.T) {
	nprocs := 2
	group := NewLocalGroup(nprocs)

	halos := make([]domain.Halo, nprocs)
	fields := make([][]float64, nprocs)
	for r := 0; r < nprocs; r++ {
		halos[r] = haloFor(r, nprocs)
		fields[r] = fillWithRank(halos[r], r)
	}

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for r := 0; r < nprocs; r++ {
		go func(r int) {
			defer wg.Done()
			transport := group.For(r)
			err := transport.ExchangeX(halos[r], fields[r])
			assert.NoError(t, err)
		}(r)
	}
	wg.Wait()

	h0, h1 := halos[0], halos[1]
	length := h0.Length()
	rightGhostLo, _ := h0.RightPadXRange()
	rank1InteriorLo, _ := h1.InteriorXRangeNearLeft()
	for y := 0; y < length[1]; y++ {
		for z := 0; z < length[2]; z++ {
			got := fields[0][h0.IndexQ(domain.Position{rightGhostLo, y, z}, 0)]
			assert.Equal(t, float64(1000+rank1InteriorLo), got, "rank 0's right ghost should come from rank 1's interior")
		}
	}
	leftGhostLo, _ := h1.LeftPadXRange()
	rank0InteriorLo, _ := h0.InteriorXRangeNearRight()
	for y := 0; y < length[1]; y++ {
		for z := 0; z < length[2]; z++ {
			got := fields[1][h1.IndexQ(domain.Position{leftGhostLo, y, z}, 0)]
			assert.Equal(t, float64(rank0InteriorLo), got, "rank 1's left ghost should come from rank 0's interior")
		}
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	h := haloFor(0, 1)
	f := fillWithRank(h, 0)
	slab := packRight(h, f)

	target := make([]float64, len(f))
	unpackLeftGhost(h, target, slab)

	loLo, _ := h.LeftPadXRange()
	rightLo, _ := h.InteriorXRangeNearRight()
	length := h.Length()
	for y := 0; y < length[1]; y++ {
		for z := 0; z < length[2]; z++ {
			got := target[h.IndexQ(domain.Position{loLo, y, z}, 0)]
			want := f[h.IndexQ(domain.Position{rightLo, y, z}, 0)]
			assert.Equal(t, want, got)
		}
	}
}

func TestNVSHMEMStubsReturnError(t *testing.T) {
	var out NVSHMEMOutTransport
	var in NVSHMEMInTransport
	assert.ErrorIs(t, out.ExchangeX(domain.Halo{}, nil), ErrNVSHMEMUnavailable)
	assert.ErrorIs(t, in.ExchangeX(domain.Halo{}, nil), ErrNVSHMEMUnavailable)
}
