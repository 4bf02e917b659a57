package search

import (
	"math/rand"
	"testing"

	"github.com/forest6511/shogiai/animalshogi"
	"github.com/forest6511/shogiai/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomMoveIsLegal(t *testing.T) {
	s := animalshogi.NewState()
	rng := rand.New(rand.NewSource(1))
	move, err := RandomMove[animalshogi.State](s, rng)
	require.NoError(t, err)
	assert.Contains(t, s.LegalMoves(), move)
}

func TestNegamaxFindsImmediateLionCapture(t *testing.T) {
	// Sente lion adjacent to gote lion: a depth-1 search must find the
	// capturing move and score it as a near-certain win.
	b := animalshogi.Board{}
	sLion := animalshogi.Piece{Kind: animalshogi.Lion, Owner: game.First}
	gLion := animalshogi.Piece{Kind: animalshogi.Lion, Owner: game.Second}
	b = b.SetPiece(3, 1, &sLion)
	b = b.SetPiece(2, 1, &gLion)
	s := animalshogi.NewStateFromBoard(b, game.First)

	move, score := Negamax[animalshogi.State](s, 1, -1e9, 1e9, animalshogi.Evaluate)
	assert.Greater(t, score, float32(500))
	next := s.Apply(move)
	winner, ok := next.Winner()
	require.True(t, ok)
	assert.Equal(t, int(game.First), winner)
}

func TestMinimaxMoveOnEmptyLegalSetErrors(t *testing.T) {
	b := animalshogi.Board{}
	sLion := animalshogi.Piece{Kind: animalshogi.Lion, Owner: game.First}
	b = b.SetPiece(0, 0, &sLion)
	s := animalshogi.NewStateFromBoard(b, game.Second)
	_, err := MinimaxMove[animalshogi.State](s, 2, animalshogi.Evaluate)
	require.Error(t, err)
}
