package animalshogi

import (
	"testing"

	"github.com/forest6511/shogiai/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateNotTerminal(t *testing.T) {
	s := NewState()
	assert.False(t, s.IsTerminal())
	_, ok := s.Winner()
	assert.False(t, ok)
	assert.Equal(t, int(game.First), s.CurrentPlayer())
}

func TestLionCaptureEndsGame(t *testing.T) {
	b := Board{}
	lionS := Piece{Kind: Lion, Owner: game.First}
	lionG := Piece{Kind: Lion, Owner: game.Second}
	b = b.SetPiece(3, 1, &lionS)
	b = b.SetPiece(2, 1, &lionG)
	s := State{board: b, player: game.First}
	// Sente lion captures gote lion.
	action := EncodeBoardMove(3*Cols+1, 2*Cols+1)
	next := s.Apply(action)
	assert.True(t, next.IsTerminal())
	winner, ok := next.Winner()
	require.True(t, ok)
	assert.Equal(t, int(game.First), winner)
}

func TestTryRuleWin(t *testing.T) {
	b := Board{}
	lionS := Piece{Kind: Lion, Owner: game.First}
	lionG := Piece{Kind: Lion, Owner: game.Second}
	// Sente's lion sits on gote's back rank (row 0), undefended.
	b = b.SetPiece(0, 1, &lionS)
	b = b.SetPiece(3, 2, &lionG)
	s := State{board: b, player: game.Second}
	assert.True(t, s.IsTerminal())
	winner, ok := s.Winner()
	require.True(t, ok)
	assert.Equal(t, int(game.First), winner)
}

func TestStalemateLossForSideToMove(t *testing.T) {
	b := Board{}
	// Gote's own giraffe, elephant and chicks fill every square its
	// pieces could step to (each target is own-occupied or off-board),
	// so gote has no move; Sente has only a lion, away from row 0.
	lionG := Piece{Kind: Lion, Owner: game.Second}
	chick00 := Piece{Kind: Chick, Owner: game.Second}
	giraffeG := Piece{Kind: Giraffe, Owner: game.Second}
	elephantG := Piece{Kind: Elephant, Owner: game.Second}
	chickG := Piece{Kind: Chick, Owner: game.Second}
	b = b.SetPiece(0, 0, &lionG)
	b = b.SetPiece(1, 0, &giraffeG)
	b = b.SetPiece(2, 0, &elephantG)
	b = b.SetPiece(3, 0, &chickG)
	b = b.SetPiece(0, 1, &chick00)
	b = b.SetPiece(1, 1, &Piece{Kind: Chick, Owner: game.Second})
	b = b.SetPiece(2, 1, &Piece{Kind: Chick, Owner: game.Second})
	b = b.SetPiece(3, 1, &Piece{Kind: Chick, Owner: game.Second})
	lionS := Piece{Kind: Lion, Owner: game.First}
	b = b.SetPiece(2, 2, &lionS)

	s := State{board: b, player: game.Second}
	require.Empty(t, s.LegalMoves())
	assert.True(t, s.IsTerminal())
	winner, ok := s.Winner()
	require.True(t, ok)
	assert.Equal(t, int(game.First), winner)
}

func TestTurnIndicatorPlane(t *testing.T) {
	s := NewState()
	planes, _, rows, cols := s.ToTensorPlanes()
	turnPlane := 13
	for sq := 0; sq < rows*cols; sq++ {
		assert.Equal(t, float32(1), planes[turnPlane*rows*cols+sq], "First to move should set the turn plane to 1")
	}

	next := s.Apply(s.LegalMoves()[0])
	planes2, _, _, _ := next.ToTensorPlanes()
	for sq := 0; sq < rows*cols; sq++ {
		assert.Equal(t, float32(0), planes2[turnPlane*rows*cols+sq], "Second to move should set the turn plane to 0")
	}
}

func TestTensorPlanesShape(t *testing.T) {
	s := NewState()
	planes, channels, rows, cols := s.ToTensorPlanes()
	assert.Equal(t, NumPlanes, channels)
	assert.Equal(t, Rows, rows)
	assert.Equal(t, Cols, cols)
	assert.Len(t, planes, NumPlanes*rows*cols)
}

func TestEvaluateTerminalScores(t *testing.T) {
	b := Board{}
	lionS := Piece{Kind: Lion, Owner: game.First}
	b = b.SetPiece(3, 1, &lionS)
	s := State{board: b, player: game.First}
	assert.Equal(t, float32(1000), Evaluate(s, int(game.First)))
	assert.Equal(t, float32(-1000), Evaluate(s, int(game.Second)))
}
