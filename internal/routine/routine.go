// Package routine implements the outer iteration loop: initialise,
// iterate, gate writes/analyses/backups through a Writer, check mass
// conservation, and print the per-run diagnostic line the teacher's
// Euler.PrintUpdate idiom inspired.
package routine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paul-f-baumeister/metalbm-go/internal/algorithm"
	"github.com/paul-f-baumeister/metalbm-go/internal/collision"
	"github.com/paul-f-baumeister/metalbm-go/internal/config"
	"github.com/paul-f-baumeister/metalbm-go/internal/diagnostics"
	"github.com/paul-f-baumeister/metalbm-go/internal/domain"
	"github.com/paul-f-baumeister/metalbm-go/internal/field"
	"github.com/paul-f-baumeister/metalbm-go/internal/iowriter"
	"github.com/paul-f-baumeister/metalbm-go/internal/lattice"
)

// Runner drives the full run for one rank.
type Runner[K collision.Kernel] struct {
	alg    *algorithm.Algorithm[K]
	lat    *lattice.Lattice
	halo   domain.Halo
	writer iowriter.Writer
	log    *logrus.Logger
	cfg    config.Config

	initialMass float64
}

// New constructs a Runner.
func New[K collision.Kernel](alg *algorithm.Algorithm[K], lat *lattice.Lattice, halo domain.Halo, writer iowriter.Writer, log *logrus.Logger, cfg config.Config) *Runner[K] {
	return &Runner[K]{alg: alg, lat: lat, halo: halo, writer: writer, log: log, cfg: cfg}
}

// Run executes iterations [StartIteration, EndIteration), returning
// the first transport error encountered -- fatal at the call site, as
// spec.md's error taxonomy requires for the Transport class.
func (r *Runner[K]) Run() error {
	r.initialMass = r.totalMass(r.alg.Distribution().Previous())
	start := time.Now()
	var communicationTime, computeTime time.Duration

	for iteration := r.cfg.StartIteration; iteration < r.cfg.EndIteration; iteration++ {
		isWritten := r.writer.GetIsWritten(iteration)
		isBackedUp := r.writer.GetIsBackedUp(iteration)
		isAnalyzed := r.writer.GetIsAnalyzed(iteration)
		isStored := isWritten || isBackedUp || isAnalyzed

		if err := r.alg.Iterate(iteration, isStored); err != nil {
			return fmt.Errorf("routine: iteration %d failed: %w", iteration, err)
		}
		dtCommunication, dtCompute, _ := r.alg.Timings()
		communicationTime += dtCommunication
		computeTime += dtCompute

		current := r.alg.Distribution().Previous()

		if isWritten {
			if err := r.writeFields(iteration, current); err != nil {
				return err
			}
		}
		if isBackedUp {
			if err := r.writeBackup(iteration, current); err != nil {
				return err
			}
		}
		if isAnalyzed {
			r.logAnalysis(iteration, current)
		}
	}

	elapsed := time.Since(start)
	finalMass := r.totalMass(r.alg.Distribution().Previous())
	diff := diagnostics.MassDifference(finalMass, r.initialMass)

	nCells := r.halo.Inner.Volume()
	nIterations := r.cfg.EndIteration - r.cfg.StartIteration
	mlups := float64(nCells*nIterations) / elapsed.Seconds() / 1e6

	r.log.WithFields(logrus.Fields{
		"iterations":     nIterations,
		"elapsed":        elapsed,
		"mlups":          mlups,
		"mass_diff":      diff,
		"fallback_count": r.alg.FallbackCount(),
	}).Info("run complete")

	fmt.Printf("total=%s communication=%s compute=%s mlups=%.3f initialMass=%.17g finalMass=%.17g massDiff=%.3e fallbacks=%d\n",
		elapsed, communicationTime, computeTime, mlups, r.initialMass, finalMass, diff, r.alg.FallbackCount())

	return nil
}

func (r *Runner[K]) totalMass(f []float64) float64 {
	var mass float64
	length := r.halo.Inner.Length
	for x := 0; x < length[0]; x++ {
		for y := 0; y < length[1]; y++ {
			for z := 0; z < length[2]; z++ {
				p := domain.Add(domain.Position{x, y, z}, r.halo.Thickness)
				for i := 0; i < r.lat.Q; i++ {
					mass += f[r.halo.IndexQ(p, i)]
				}
			}
		}
	}
	return mass
}

func (r *Runner[K]) writeFields(iteration int, f []float64) error {
	if err := r.writer.OpenFile(iteration); err != nil {
		return fmt.Errorf("routine: %w", err)
	}
	defer r.writer.CloseFile()

	if r.cfg.WriteDensity || r.cfg.WriteVelocity {
		density, ux, uy := r.gatherMoments(f)
		if r.cfg.WriteDensity {
			if err := r.writer.WriteField("density", density); err != nil {
				return fmt.Errorf("routine: writing density: %w", err)
			}
		}
		if r.cfg.WriteVelocity {
			if err := r.writer.WriteField("velocity_x", ux); err != nil {
				return fmt.Errorf("routine: writing velocity_x: %w", err)
			}
			if err := r.writer.WriteField("velocity_y", uy); err != nil {
				return fmt.Errorf("routine: writing velocity_y: %w", err)
			}
		}
	}
	if r.cfg.WriteAlpha {
		if err := r.writer.WriteField("alpha", r.gatherScalar(r.alg.Alpha())); err != nil {
			return fmt.Errorf("routine: writing alpha: %w", err)
		}
	}
	if r.cfg.WriteForce {
		force := r.alg.Force()
		for k := 0; k < force.D(); k++ {
			name := fmt.Sprintf("force_%d", k)
			if err := r.writer.WriteField(name, r.gatherScalar(force.Component(k))); err != nil {
				return fmt.Errorf("routine: writing %s: %w", name, err)
			}
		}
	}
	return nil
}

// gatherScalar extracts s's interior cells in the same x,y,z order
// gatherMoments uses, from the per-algorithm halo-space storage s was
// populated at.
func (r *Runner[K]) gatherScalar(s *field.Scalar) []float64 {
	length := r.halo.Inner.Length
	out := make([]float64, length[0]*length[1]*length[2])
	idx := 0
	for x := 0; x < length[0]; x++ {
		for y := 0; y < length[1]; y++ {
			for z := 0; z < length[2]; z++ {
				out[idx] = s.At(r.halo.IndexLocal(domain.Position{x, y, z}))
				idx++
			}
		}
	}
	return out
}

func (r *Runner[K]) writeBackup(iteration int, f []float64) error {
	if err := r.writer.OpenFile(iteration); err != nil {
		return fmt.Errorf("routine: %w", err)
	}
	defer r.writer.CloseFile()
	if err := r.writer.WriteDistribution(f); err != nil {
		return fmt.Errorf("routine: writing distribution backup: %w", err)
	}
	return nil
}

func (r *Runner[K]) gatherMoments(f []float64) (density, ux, uy []float64) {
	length := r.halo.Inner.Length
	n := length[0] * length[1] * length[2]
	density = make([]float64, n)
	ux = make([]float64, n)
	uy = make([]float64, n)

	scratch := make([]float64, r.lat.Q)
	idx := 0
	for x := 0; x < length[0]; x++ {
		for y := 0; y < length[1]; y++ {
			for z := 0; z < length[2]; z++ {
				p := domain.Add(domain.Position{x, y, z}, r.halo.Thickness)
				for i := 0; i < r.lat.Q; i++ {
					scratch[i] = f[r.halo.IndexQ(p, i)]
				}
				var rho float64
				var mx, my float64
				for i := 0; i < r.lat.Q; i++ {
					rho += scratch[i]
					mx += float64(r.lat.C[i][0]) * scratch[i]
					my += float64(r.lat.C[i][1]) * scratch[i]
				}
				density[idx] = rho
				if rho != 0 {
					ux[idx] = mx / rho
					uy[idx] = my / rho
				}
				idx++
			}
		}
	}
	return
}

func (r *Runner[K]) logAnalysis(iteration int, f []float64) {
	density, ux, uy := r.gatherMoments(f)
	densityStats := diagnostics.Summarize(density)
	uxStats := diagnostics.Summarize(ux)
	uyStats := diagnostics.Summarize(uy)

	r.log.WithFields(logrus.Fields{
		"iteration":     iteration,
		"density_mean":  densityStats.Mean,
		"ux_mean":       uxStats.Mean,
		"uy_mean":       uyStats.Mean,
		"fallback_count": r.alg.FallbackCount(),
	}).Debug("analysis")
}
