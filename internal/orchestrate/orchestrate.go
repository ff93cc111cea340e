// Package orchestrate wires a Config into a running rank: builds the
// lattice, domain, forcing scheme, force generator and initial
// condition it names, picks the collision kernel variant, seeds the
// distribution and drives routine.Runner to completion. Splitting this
// out of cmd lets both the in-process (goroutine-ranks) and the MPI
// build reuse the exact same per-rank driver.
package orchestrate

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/paul-f-baumeister/metalbm-go/internal/algorithm"
	"github.com/paul-f-baumeister/metalbm-go/internal/collision"
	"github.com/paul-f-baumeister/metalbm-go/internal/comm"
	"github.com/paul-f-baumeister/metalbm-go/internal/config"
	"github.com/paul-f-baumeister/metalbm-go/internal/domain"
	"github.com/paul-f-baumeister/metalbm-go/internal/equilibrium"
	"github.com/paul-f-baumeister/metalbm-go/internal/force"
	"github.com/paul-f-baumeister/metalbm-go/internal/forcing"
	"github.com/paul-f-baumeister/metalbm-go/internal/initcond"
	"github.com/paul-f-baumeister/metalbm-go/internal/iowriter"
	"github.com/paul-f-baumeister/metalbm-go/internal/lattice"
	"github.com/paul-f-baumeister/metalbm-go/internal/routine"
)

// RunRank drives one rank's full simulation lifecycle to completion,
// using transport for halo exchange with its neighbours.
func RunRank(cfg config.Config, log *logrus.Logger, transport comm.HaloTransport) error {
	lat := lattice.New(lattice.Kind(cfg.Lattice))

	g := domain.NewGlobal(domain.Position{cfg.LengthX, cfg.LengthY, cfg.LengthZ}, transport.NRanks())
	l := domain.NewLocal(g, transport.Rank())
	layout := domain.AoS
	if cfg.MemoryLayout == "SoA" {
		layout = domain.SoA
	}
	h := domain.NewHalo(l, lat.Halo, layout, lat.Q)
	offsetX := g.OffsetX(transport.Rank())

	forceGen, err := buildForceGenerator(cfg, lat.D)
	if err != nil {
		return err
	}

	field, err := buildInitialCondition(cfg, lat.D)
	if err != nil {
		return err
	}

	writer := buildWriter(cfg, transport.Rank())

	degree := cfg.NThreads
	if degree < 1 {
		degree = 1
	}

	switch cfg.CollisionVariant {
	case "BGK":
		return runWithKernel(cfg, log, lat, h, offsetX, transport, forceGen, writer, field, degree, func() *collision.BGK {
			scheme := buildForcingScheme(cfg, lat)
			k := collision.NewBGK(lat, cfg.Tau, scheme)
			applyEquilibriumVariant(k, cfg)
			return k
		})
	case "ELBM":
		return runWithKernel(cfg, log, lat, h, offsetX, transport, forceGen, writer, field, degree, func() *collision.ELBM {
			return collision.NewELBM(lat, cfg.Tau, elbmTolerance, elbmMaxIterations)
		})
	case "Approached_ELBM":
		return runWithKernel(cfg, log, lat, h, offsetX, transport, forceGen, writer, field, degree, func() *collision.ELBM {
			return collision.NewApproachedELBM(lat, cfg.Tau, elbmTolerance, elbmMaxIterations)
		})
	case "ForcedNR_ELBM":
		return runWithKernel(cfg, log, lat, h, offsetX, transport, forceGen, writer, field, degree, func() *collision.ELBM {
			scheme := buildForcingScheme(cfg, lat)
			if scheme == nil {
				scheme = forcing.NewGuo(lat)
			}
			return collision.NewForcedNRELBM(lat, cfg.Tau, scheme, elbmTolerance, elbmMaxIterations)
		})
	case "ForcedBNR_ELBM":
		return runWithKernel(cfg, log, lat, h, offsetX, transport, forceGen, writer, field, degree, func() *collision.ForcedBNRELBM {
			scheme := buildForcingScheme(cfg, lat)
			if scheme == nil {
				scheme = forcing.NewGuo(lat)
			}
			return collision.NewForcedBNRELBM(lat, cfg.Tau, scheme, elbmTolerance, elbmMaxIterations)
		})
	default:
		return fmt.Errorf("orchestrate: unknown collision_variant %q", cfg.CollisionVariant)
	}
}

const (
	elbmTolerance     = 1e-10
	elbmMaxIterations = 50
)

func runWithKernel[K collision.Kernel](cfg config.Config, log *logrus.Logger, lat *lattice.Lattice, h domain.Halo, offsetX int, transport comm.HaloTransport, forceGen *force.Generator, writer iowriter.Writer, field initcond.Field, degree int, newKernel func() K) error {
	alg := algorithm.New(lat, h, offsetX, transport, forceGen, degree, newKernel)
	initcond.Seed(lat, h, alg.Distribution().Previous(), offsetX, field)
	initcond.Seed(lat, h, alg.Distribution().Next(), offsetX, field)

	r := routine.New(alg, lat, h, writer, log, cfg)
	return r.Run()
}

func applyEquilibriumVariant(k *collision.BGK, cfg config.Config) {
	if cfg.EquilibriumVariant == "Incompressible" {
		k.UseEquilibriumVariant(equilibrium.Incompressible)
	}
}

func buildForcingScheme(cfg config.Config, lat *lattice.Lattice) forcing.Scheme {
	switch cfg.ForcingVariant {
	case "Guo":
		return forcing.NewGuo(lat)
	case "ShanChen":
		return forcing.NewShanChen(lat)
	case "EDM":
		return forcing.NewExactDifferenceMethod(lat)
	default:
		return nil
	}
}

func buildForceGenerator(cfg config.Config, d int) (*force.Generator, error) {
	switch cfg.ForceVariant {
	case "Constant":
		return force.NewConstant(make([]float64, d)), nil
	case "Kolmogorov":
		waveAxis := 1
		forceAxis := 0
		waveNumber := 0.0
		if cfg.ForceWavelength > 0 {
			waveNumber = 2 * math.Pi / cfg.ForceWavelength
		}
		return force.NewKolmogorov(d, cfg.ForceAmplitude, waveNumber, waveAxis, forceAxis, 0), nil
	default:
		return nil, fmt.Errorf("orchestrate: unknown force_variant %q", cfg.ForceVariant)
	}
}

func buildInitialCondition(cfg config.Config, d int) (initcond.Field, error) {
	velocity := make([]float64, d)
	for k := 0; k < d && k < len(cfg.InitialVelocityValue); k++ {
		velocity[k] = cfg.InitialVelocityValue[k]
	}

	switch cfg.InitialDensityVariant {
	case "Uniform":
		return initcond.Uniform(cfg.InitialDensityValue, velocity), nil
	case "Sine":
		return initcond.SineDensity(cfg.InitialDensityValue, cfg.InitialDensityValue*0.01, 2*3.141592653589793/cfg.ForceWavelength, 0, velocity), nil
	case "TaylorGreen":
		return initcond.TaylorGreen(cfg.InitialDensityValue, cfg.InitialVelocityValue[0], 2*3.141592653589793/float64(cfg.LengthX), 2*3.141592653589793/float64(cfg.LengthY)), nil
	default:
		return nil, fmt.Errorf("orchestrate: unknown initial_density_variant %q", cfg.InitialDensityVariant)
	}
}

func buildWriter(cfg config.Config, rank int) iowriter.Writer {
	return iowriter.NewASCIIWriter(cfg.WriteStep, cfg.AnalysisStep, cfg.BackupStep, func(iteration int) (io.WriteCloser, error) {
		name := fmt.Sprintf("%s.rank%d.iter%d.csv", cfg.OutputPrefix, rank, iteration)
		return os.Create(name)
	})
}
