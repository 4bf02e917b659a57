package trainer

import (
	"math/rand"
	"testing"

	dual "github.com/forest6511/shogiai/dualnet"
	"github.com/forest6511/shogiai/selfplay"
	"github.com/stretchr/testify/require"
)

func makeExamples(conf dual.Config, n int) []selfplay.TrainingExample {
	exs := make([]selfplay.TrainingExample, n)
	for i := range exs {
		policy := make([]float32, conf.ActionSpace)
		policy[i%conf.ActionSpace] = 1
		exs[i] = selfplay.TrainingExample{
			Planes: make([]float32, conf.Features*conf.Height*conf.Width),
			Policy: policy,
			Value:  float32(i%3) - 1,
		}
	}
	return exs
}

func TestTrainRunsOverAllEpochs(t *testing.T) {
	conf := dual.AnimalConfig()
	conf.BatchSize = 4
	dt, err := dual.NewTrainer(conf)
	require.NoError(t, err)

	examples := makeExamples(conf, 20)
	cfg := Config{BatchSize: 4, EpochsPerGeneration: 2}
	rng := rand.New(rand.NewSource(1))

	losses, err := Train(dt, examples, cfg, rng)
	require.NoError(t, err)
	require.GreaterOrEqual(t, losses.Total, float32(0))
}

func TestTrainRejectsEmptyExamples(t *testing.T) {
	conf := dual.AnimalConfig()
	conf.BatchSize = 4
	dt, err := dual.NewTrainer(conf)
	require.NoError(t, err)

	_, err = Train(dt, nil, DefaultConfig(), rand.New(rand.NewSource(1)))
	require.Error(t, err)
}

func TestTrainRejectsMismatchedBatchSize(t *testing.T) {
	conf := dual.AnimalConfig()
	conf.BatchSize = 4
	dt, err := dual.NewTrainer(conf)
	require.NoError(t, err)

	examples := makeExamples(conf, 8)
	_, err = Train(dt, examples, Config{BatchSize: 64, EpochsPerGeneration: 1}, rand.New(rand.NewSource(1)))
	require.Error(t, err)
}
