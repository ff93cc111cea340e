//go:build !mpi

package orchestrate

import (
	"github.com/sirupsen/logrus"

	"github.com/paul-f-baumeister/metalbm-go/internal/comm"
	"github.com/paul-f-baumeister/metalbm-go/internal/config"
)

// Run drives cfg.NProcesses ranks as goroutines within this one
// process, communicating halos over in-memory channels -- the
// non-cgo build, used for local development and every test in this
// repo that doesn't carry the mpi build tag.
func Run(cfg config.Config, log *logrus.Logger) error {
	group := comm.NewLocalGroup(cfg.NProcesses)

	errs := make(chan error, cfg.NProcesses)
	for rank := 0; rank < cfg.NProcesses; rank++ {
		rank := rank
		go func() {
			errs <- RunRank(cfg, log, group.For(rank))
		}()
	}

	var first error
	for i := 0; i < cfg.NProcesses; i++ {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}
