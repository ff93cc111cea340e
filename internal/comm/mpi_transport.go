//go:build mpi

package comm

import (
	"fmt"

	"github.com/cpmech/gosl/mpi"

	"github.com/paul-f-baumeister/metalbm-go/internal/domain"
)

// MPITransport exchanges halos across real MPI ranks. Built only when
// the mpi tag is set, since it requires a working MPI installation
// and cgo to link against gosl/mpi.
type MPITransport struct {
	comm *mpi.Communicator
	rank int
	size int
}

// NewMPITransport wraps the world communicator. Callers must have
// already called mpi.Start and must call mpi.Stop on shutdown.
func NewMPITransport() *MPITransport {
	comm := mpi.NewCommunicator(nil)
	return &MPITransport{comm: comm, rank: comm.Rank(), size: comm.Size()}
}

func (t *MPITransport) Rank() int   { return t.rank }
func (t *MPITransport) NRanks() int { return t.size }

func (t *MPITransport) ExchangeX(h domain.Halo, f []float64) error {
	rightNeighbor := (t.rank + 1) % t.size
	leftNeighbor := (t.rank - 1 + t.size) % t.size

	right := packRight(h, f)
	left := packLeft(h, f)

	fromLeft := make([]float64, len(left))
	fromRight := make([]float64, len(right))

	if err := t.sendRecv(right, rightNeighbor, fromLeft, leftNeighbor); err != nil {
		return fmt.Errorf("comm: halo exchange rightward failed: %w", err)
	}
	if err := t.sendRecv(left, leftNeighbor, fromRight, rightNeighbor); err != nil {
		return fmt.Errorf("comm: halo exchange leftward failed: %w", err)
	}

	unpackLeftGhost(h, f, fromLeft)
	unpackRightGhost(h, f, fromRight)
	return nil
}

func (t *MPITransport) sendRecv(send []float64, to int, recv []float64, from int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mpi send/recv panicked: %v", r)
		}
	}()
	t.comm.SendRecv(send, to, recv, from)
	return nil
}
