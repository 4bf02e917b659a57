package fullshogi

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

func TestOpeningLegalMoveCountViaState(t *testing.T) {
	s := NewState()
	assert.Len(t, s.LegalMoves(), 30)
}

func TestCheckmateEndsGame(t *testing.T) {
	b := Board{}
	king := Piece{Kind: King, Owner: game.First}
	rookA := Piece{Kind: Rook, Owner: game.Second}
	rookB := Piece{Kind: Rook, Owner: game.Second}
	oppKing := Piece{Kind: King, Owner: game.Second}
	// King boxed into the corner with two rooks sweeping both the back
	// rank and the rank in front of it: every escape square lies on
	// one of the two swept ranks, and neither rook is capturable.
	b = b.SetPiece(8, 8, &king)
	b = b.SetPiece(8, 0, &rookA)
	b = b.SetPiece(7, 0, &rookB)
	b = b.SetPiece(0, 0, &oppKing)
	s := State{board: b, player: game.First}
	assert.True(t, s.IsTerminal())
	winner, ok := s.Winner()
	require.True(t, ok)
	assert.Equal(t, int(game.Second), winner)
}

func TestTurnIndicatorPlane(t *testing.T) {
	s := NewState()
	planes, _, rows, cols := s.ToTensorPlanes()
	turnPlane := NumPlanes - 1
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

func TestEvaluateBareKingsIsZero(t *testing.T) {
	b := Board{}
	king := Piece{Kind: King, Owner: game.First}
	oppKing := Piece{Kind: King, Owner: game.Second}
	b = b.SetPiece(8, 4, &king)
	b = b.SetPiece(0, 4, &oppKing)
	s := State{board: b, player: game.First}
	assert.Equal(t, float32(0), Evaluate(s, int(game.First)))
}
