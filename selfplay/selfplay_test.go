package selfplay

import (
	"math/rand"
	"testing"

	"github.com/forest6511/shogiai/animalshogi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uniformInferer struct{ actionSize int }

func (u uniformInferer) Infer(planes []float32, channels, rows, cols int) ([]float32, float32, error) {
	return make([]float32, u.actionSize), 0, nil
}

func testConfig(actionSize int) Config {
	return Config{
		MCTS: MCTSParams{
			PUCT:             1.4,
			NumSimulations:   5,
			DirichletAlpha:   0.3,
			DirichletEpsilon: 0.25,
		},
		TemperatureThreshold: 10,
	}
}

func TestPlayGameProducesTrainingExamples(t *testing.T) {
	initial := animalshogi.NewState()
	infer := uniformInferer{actionSize: initial.ActionSpaceSize()}
	rng := rand.New(rand.NewSource(1))

	examples := PlayGame[animalshogi.State](infer, initial, testConfig(initial.ActionSpaceSize()), rng)
	require.NotEmpty(t, examples)

	for _, ex := range examples {
		var sum float32
		for _, p := range ex.Policy {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-3)
		assert.Contains(t, []float32{-1, 0, 1}, ex.Value)
	}
}

func TestGenerateGamesConcatenatesMultipleGames(t *testing.T) {
	initial := animalshogi.NewState()
	infer := uniformInferer{actionSize: initial.ActionSpaceSize()}
	rng := rand.New(rand.NewSource(2))

	examples := GenerateGames[animalshogi.State](infer, initial, testConfig(initial.ActionSpaceSize()), 3, rng)
	require.NotEmpty(t, examples)
}

func TestTemperatureForThreshold(t *testing.T) {
	assert.Equal(t, float32(1.0), temperatureFor(0, 10))
	assert.Equal(t, float32(0.01), temperatureFor(10, 10))
}
