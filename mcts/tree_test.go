package mcts

import (
	"math/rand"
	"testing"

	"github.com/forest6511/shogiai/animalshogi"
	"github.com/forest6511/shogiai/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniformInferer is a stand-in Inferencer for tests: it returns a
// constant zero-logit policy (softmax over legal moves becomes
// uniform) and a fixed value, so tests can exercise Search without a
// trained dualnet.Network.
type uniformInferer struct {
	actionSize int
	value      float32
}

func (u uniformInferer) Infer(planes []float32, channels, rows, cols int) ([]float32, float32, error) {
	return make([]float32, u.actionSize), u.value, nil
}

func TestSearchReturnsDistributionOverLegalMoves(t *testing.T) {
	s := animalshogi.NewState()
	infer := uniformInferer{actionSize: s.ActionSpaceSize()}
	cfg := DefaultConfig()
	cfg.NumSimulations = 20
	tree := NewTree[animalshogi.State](cfg, infer)
	rng := rand.New(rand.NewSource(42))

	dist, err := tree.Search(s, rng)
	require.NoError(t, err)
	require.Len(t, dist, s.ActionSpaceSize())

	var sum float32
	legal := map[int]bool{}
	for _, m := range s.LegalMoves() {
		legal[m] = true
	}
	for action, p := range dist {
		sum += p
		if p > 0 {
			assert.True(t, legal[action], "probability mass must sit only on legal moves")
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestSearchZeroTemperatureIsDeterministic(t *testing.T) {
	s := animalshogi.NewState()
	infer := uniformInferer{actionSize: s.ActionSpaceSize()}
	cfg := DefaultConfig()
	cfg.NumSimulations = 10
	cfg.Temperature = 0
	tree := NewTree[animalshogi.State](cfg, infer)
	rng := rand.New(rand.NewSource(7))

	dist, err := tree.Search(s, rng)
	require.NoError(t, err)
	var nonZero int
	for _, p := range dist {
		if p > 0 {
			nonZero++
			assert.Equal(t, float32(1), p)
		}
	}
	assert.Equal(t, 1, nonZero)
}

func TestSearchOnTerminalRootErrorsOnEmptyLegalSet(t *testing.T) {
	b := animalshogi.Board{}
	sLion := animalshogi.Piece{Kind: animalshogi.Lion, Owner: game.First}
	b = b.SetPiece(0, 0, &sLion)
	s := animalshogi.NewStateFromBoard(b, game.Second)
	infer := uniformInferer{actionSize: s.ActionSpaceSize()}
	tree := NewTree[animalshogi.State](DefaultConfig(), infer)
	rng := rand.New(rand.NewSource(1))

	_, err := tree.Search(s, rng)
	require.Error(t, err)
}

func TestDOTProducesNonEmptyGraph(t *testing.T) {
	s := animalshogi.NewState()
	infer := uniformInferer{actionSize: s.ActionSpaceSize()}
	cfg := DefaultConfig()
	cfg.NumSimulations = 5
	tree := NewTree[animalshogi.State](cfg, infer)
	rng := rand.New(rand.NewSource(3))
	_, err := tree.Search(s, rng)
	require.NoError(t, err)

	out, err := tree.DOT()
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
}
