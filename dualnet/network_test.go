package dual

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNetworkBuildsForBothVariants(t *testing.T) {
	for _, conf := range []Config{AnimalConfig(), FullConfig()} {
		conf.BatchSize = 2
		net, err := NewNetwork(conf)
		require.NoError(t, err)
		require.NotNil(t, net)
		require.Len(t, net.Learnables(), len(net.learnables))
		require.NotZero(t, len(net.Learnables()))
	}
}

func TestNewNetworkRejectsInvalidConfig(t *testing.T) {
	_, err := NewNetwork(Config{})
	require.Error(t, err)
}

func TestInferenceNetworkMatchesBatchSizeOne(t *testing.T) {
	conf := AnimalConfig()
	conf.BatchSize = 4
	trainer, err := NewTrainer(conf)
	require.NoError(t, err)

	infer, err := InferenceNetwork(trainer.Network())
	require.NoError(t, err)
	require.Equal(t, 1, infer.conf.BatchSize)
	require.True(t, infer.conf.FwdOnly)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	conf := AnimalConfig()
	conf.BatchSize = 1
	conf.FwdOnly = true
	a, err := NewNetwork(conf)
	require.NoError(t, err)
	b, err := NewNetwork(conf)
	require.NoError(t, err)

	snap := a.Snapshot()
	require.NoError(t, b.Restore(snap))

	snapB := b.Snapshot()
	require.Equal(t, len(snap.Weights), len(snapB.Weights))
	for name, want := range snap.Weights {
		got, ok := snapB.Weights[name]
		require.True(t, ok, "missing weight %s after restore", name)
		require.Equal(t, len(want), len(got))
	}
}

func TestSaveLoadSnapshotRoundTrip(t *testing.T) {
	conf := AnimalConfig()
	conf.BatchSize = 1
	conf.FwdOnly = true
	a, err := NewNetwork(conf)
	require.NoError(t, err)

	path := t.TempDir() + "/checkpoint.gob"
	require.NoError(t, a.SaveSnapshot(path))

	b, err := NewNetwork(conf)
	require.NoError(t, err)
	require.NoError(t, b.LoadSnapshot(path))
}

func TestInferReturnsActionSpaceSizedPolicy(t *testing.T) {
	conf := AnimalConfig()
	conf.BatchSize = 1
	conf.FwdOnly = true
	net, err := NewNetwork(conf)
	require.NoError(t, err)

	planes := make([]float32, conf.Features*conf.Height*conf.Width)
	policy, _, err := net.Infer(planes, conf.Features, conf.Height, conf.Width)
	require.NoError(t, err)
	require.Len(t, policy, conf.ActionSpace)
}

func TestTrainBatchRunsOneStep(t *testing.T) {
	conf := AnimalConfig()
	conf.BatchSize = 2
	trainer, err := NewTrainer(conf)
	require.NoError(t, err)

	planeSize := conf.Features * conf.Height * conf.Width
	planes := make([]float32, conf.BatchSize*planeSize)
	policyTargets := make([]float32, conf.BatchSize*conf.ActionSpace)
	for b := 0; b < conf.BatchSize; b++ {
		policyTargets[b*conf.ActionSpace] = 1
	}
	valueTargets := make([]float32, conf.BatchSize)

	_, err = trainer.TrainBatch(planes, policyTargets, valueTargets)
	require.NoError(t, err)
}
