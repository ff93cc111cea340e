// Package comm implements the halo-exchange transport: one message
// pair (left-going, right-going) per iteration, carrying the interior
// X-planes adjacent to each rank boundary into the neighbour's ghost
// layer. HaloTransport abstracts over the wire so the rest of the
// module never references MPI, channels, or NVSHMEM directly.
package comm

import "github.com/paul-f-baumeister/metalbm-go/internal/domain"

// HaloTransport exchanges the X-boundary halo of one rank's
// populations with its two neighbours along the 1-D decomposition.
type HaloTransport interface {
	// Rank returns this transport's rank index.
	Rank() int
	// NRanks returns the total number of ranks in the decomposition.
	NRanks() int
	// ExchangeX packs f's interior X-boundary planes, sends them to
	// the left and right neighbours, and receives into f's ghost
	// layer. At NRanks()==1 a rank is its own neighbour, which
	// implements periodic X boundary conditions for free.
	ExchangeX(h domain.Halo, f []float64) error
}
