package routine

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paul-f-baumeister/metalbm-go/internal/algorithm"
	"github.com/paul-f-baumeister/metalbm-go/internal/collision"
	"github.com/paul-f-baumeister/metalbm-go/internal/comm"
	"github.com/paul-f-baumeister/metalbm-go/internal/config"
	"github.com/paul-f-baumeister/metalbm-go/internal/domain"
	"github.com/paul-f-baumeister/metalbm-go/internal/force"
	"github.com/paul-f-baumeister/metalbm-go/internal/initcond"
	"github.com/paul-f-baumeister/metalbm-go/internal/iowriter"
	"github.com/paul-f-baumeister/metalbm-go/internal/lattice"
	"github.com/paul-f-baumeister/metalbm-go/internal/obslog"
)

type nopCloserBuffer struct{ *bytes.Buffer }

func (nopCloserBuffer) Close() error { return nil }

func TestRunQuiescentFluidStaysAtRest(t *testing.T) {
	lat := lattice.New(lattice.D2Q9)
	g := domain.NewGlobal(domain.Position{8, 8, 1}, 1)
	l := domain.NewLocal(g, 0)
	h := domain.NewHalo(l, lat.Halo, domain.AoS, lat.Q)

	group := comm.NewLocalGroup(1)
	transport := group.For(0)
	forceGen := force.NewConstant([]float64{0, 0})

	alg := algorithm.New(lat, h, g.OffsetX(0), transport, forceGen, 2, func() *collision.BGK {
		return collision.NewBGK(lat, 0.8, nil)
	})

	initcond.Seed(lat, h, alg.Distribution().Previous(), g.OffsetX(0), initcond.Uniform(1.0, []float64{0, 0}))
	initcond.Seed(lat, h, alg.Distribution().Next(), g.OffsetX(0), initcond.Uniform(1.0, []float64{0, 0}))

	cfg := config.Default()
	cfg.LengthX, cfg.LengthY, cfg.LengthZ = 8, 8, 1
	cfg.EndIteration = 5
	cfg.WriteStep, cfg.AnalysisStep, cfg.BackupStep = 0, 0, 0

	var buf bytes.Buffer
	writer := iowriter.NewASCIIWriter(0, 0, 0, func(int) (io.WriteCloser, error) {
		return nopCloserBuffer{&buf}, nil
	})

	log := obslog.New(false)
	runner := New(alg, lat, h, writer, log, cfg)

	require.NoError(t, runner.Run())

	density, ux, uy := runner.gatherMoments(alg.Distribution().Previous())
	for _, rho := range density {
		assert.InDelta(t, 1.0, rho, 1e-9)
	}
	for i := range ux {
		assert.InDelta(t, 0.0, ux[i], 1e-9)
		assert.InDelta(t, 0.0, uy[i], 1e-9)
	}
}

func TestRunWritesFieldsWhenGated(t *testing.T) {
	lat := lattice.New(lattice.D2Q9)
	g := domain.NewGlobal(domain.Position{4, 4, 1}, 1)
	l := domain.NewLocal(g, 0)
	h := domain.NewHalo(l, lat.Halo, domain.AoS, lat.Q)

	group := comm.NewLocalGroup(1)
	transport := group.For(0)
	forceGen := force.NewConstant([]float64{0, 0})

	alg := algorithm.New(lat, h, g.OffsetX(0), transport, forceGen, 1, func() *collision.BGK {
		return collision.NewBGK(lat, 0.8, nil)
	})
	initcond.Seed(lat, h, alg.Distribution().Previous(), g.OffsetX(0), initcond.Uniform(1.0, []float64{0.01, 0}))
	initcond.Seed(lat, h, alg.Distribution().Next(), g.OffsetX(0), initcond.Uniform(1.0, []float64{0.01, 0}))

	cfg := config.Default()
	cfg.LengthX, cfg.LengthY, cfg.LengthZ = 4, 4, 1
	cfg.EndIteration = 2
	cfg.WriteStep = 1
	cfg.AnalysisStep = 0
	cfg.BackupStep = 0

	var buf bytes.Buffer
	writer := iowriter.NewASCIIWriter(1, 0, 0, func(int) (io.WriteCloser, error) {
		return nopCloserBuffer{&buf}, nil
	})

	log := obslog.New(false)
	runner := New(alg, lat, h, writer, log, cfg)
	require.NoError(t, runner.Run())

	assert.Contains(t, buf.String(), "field,density")
}

func TestRunWritesAlphaAndForceWhenConfigured(t *testing.T) {
	lat := lattice.New(lattice.D2Q9)
	g := domain.NewGlobal(domain.Position{4, 4, 1}, 1)
	l := domain.NewLocal(g, 0)
	h := domain.NewHalo(l, lat.Halo, domain.AoS, lat.Q)

	group := comm.NewLocalGroup(1)
	transport := group.For(0)
	forceGen := force.NewConstant([]float64{0.001, 0})

	alg := algorithm.New(lat, h, g.OffsetX(0), transport, forceGen, 1, func() *collision.BGK {
		return collision.NewBGK(lat, 0.8, nil)
	})
	initcond.Seed(lat, h, alg.Distribution().Previous(), g.OffsetX(0), initcond.Uniform(1.0, []float64{0, 0}))
	initcond.Seed(lat, h, alg.Distribution().Next(), g.OffsetX(0), initcond.Uniform(1.0, []float64{0, 0}))

	cfg := config.Default()
	cfg.LengthX, cfg.LengthY, cfg.LengthZ = 4, 4, 1
	cfg.EndIteration = 2
	cfg.WriteStep = 1
	cfg.AnalysisStep = 0
	cfg.BackupStep = 0
	cfg.WriteAlpha = true
	cfg.WriteForce = true

	var buf bytes.Buffer
	writer := iowriter.NewASCIIWriter(1, 0, 0, func(int) (io.WriteCloser, error) {
		return nopCloserBuffer{&buf}, nil
	})

	log := obslog.New(false)
	runner := New(alg, lat, h, writer, log, cfg)
	require.NoError(t, runner.Run())

	assert.Contains(t, buf.String(), "field,alpha")
	assert.Contains(t, buf.String(), "field,force_0")
	assert.Contains(t, buf.String(), "field,force_1")
}
