//go:build mpi

package orchestrate

import (
	"fmt"

	"github.com/cpmech/gosl/mpi"
	"github.com/sirupsen/logrus"

	"github.com/paul-f-baumeister/metalbm-go/internal/comm"
	"github.com/paul-f-baumeister/metalbm-go/internal/config"
)

// Run drives exactly this process's MPI rank. One process per rank,
// started under mpirun/mpiexec with world size cfg.NProcesses.
func Run(cfg config.Config, log *logrus.Logger) error {
	mpi.Start()
	defer mpi.Stop()

	transport := comm.NewMPITransport()
	if transport.NRanks() != cfg.NProcesses {
		return fmt.Errorf("orchestrate: mpi world size %d does not match configured nprocesses %d", transport.NRanks(), cfg.NProcesses)
	}
	return RunRank(cfg, log, transport)
}
