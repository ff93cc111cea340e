package orchestrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paul-f-baumeister/metalbm-go/internal/comm"
	"github.com/paul-f-baumeister/metalbm-go/internal/config"
	"github.com/paul-f-baumeister/metalbm-go/internal/obslog"
)

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.OutputPrefix = filepath.Join(dir, "out")
	cfg.LengthX, cfg.LengthY, cfg.LengthZ = 8, 8, 1
	cfg.EndIteration = 3
	cfg.WriteStep = 0
	cfg.AnalysisStep = 0
	cfg.BackupStep = 0
	return cfg
}

func TestRunRankBGKSingleRank(t *testing.T) {
	cfg := baseConfig(t)
	transport := comm.NewLocalGroup(1).For(0)
	require.NoError(t, RunRank(cfg, obslog.New(false), transport))
}

func TestRunRankUnknownCollisionVariant(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CollisionVariant = "NoSuchVariant"
	transport := comm.NewLocalGroup(1).For(0)
	assert.Error(t, RunRank(cfg, obslog.New(false), transport))
}

func TestRunRankForcedBNRELBMWithGuoForcing(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CollisionVariant = "ForcedBNR_ELBM"
	cfg.ForcingVariant = "Guo"
	cfg.ForceVariant = "Kolmogorov"
	cfg.ForceAmplitude = 1e-5
	cfg.ForceWavelength = 8
	transport := comm.NewLocalGroup(1).For(0)
	require.NoError(t, RunRank(cfg, obslog.New(false), transport))
}

func TestRunLocalTwoRanks(t *testing.T) {
	cfg := baseConfig(t)
	cfg.NProcesses = 2
	require.NoError(t, Run(cfg, obslog.New(false)))
}

func TestRunRankWritesOutputFiles(t *testing.T) {
	cfg := baseConfig(t)
	cfg.WriteStep = 1
	cfg.EndIteration = 2
	transport := comm.NewLocalGroup(1).For(0)
	require.NoError(t, RunRank(cfg, obslog.New(false), transport))

	matches, err := filepath.Glob(cfg.OutputPrefix + ".rank0.iter*.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
	for _, m := range matches {
		_, err := os.Stat(m)
		assert.NoError(t, err)
	}
}
