package animalshogi

import (
	"testing"

	"github.com/forest6511/shogiai/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBoardMove(t *testing.T) {
	for from := 0; from < NumSquares; from++ {
		for to := 0; to < NumSquares; to++ {
			action := EncodeBoardMove(from, to)
			require.Less(t, action, DropOffset)
			bm, dm := DecodeMove(action)
			require.Nil(t, dm)
			require.NotNil(t, bm)
			assert.Equal(t, from, bm.From)
			assert.Equal(t, to, bm.To)
		}
	}
}

func TestEncodeDecodeDropMove(t *testing.T) {
	for _, k := range HandKinds {
		for to := 0; to < NumSquares; to++ {
			action := EncodeDropMove(k, to)
			require.GreaterOrEqual(t, action, DropOffset)
			require.Less(t, action, ActionSpace)
			bm, dm := DecodeMove(action)
			require.Nil(t, bm)
			require.NotNil(t, dm)
			assert.Equal(t, k, dm.Kind)
			assert.Equal(t, to, dm.To)
		}
	}
}

func TestInitialLegalMoveCount(t *testing.T) {
	b := NewBoard()
	moves := LegalMoves(b, game.First)
	// Sente's opening: the chick captures forward, the lion steps to
	// (2,0) or (2,2), the giraffe steps to (2,2); the elephant is boxed
	// in. No hand pieces yet, so this is purely board moves.
	assert.NotEmpty(t, moves)
	for _, m := range moves {
		assert.Less(t, m, DropOffset)
	}
}

func TestDropOntoOccupiedSquareNotGenerated(t *testing.T) {
	b := NewBoard()
	b = b.AddToHand(game.First, Chick)
	moves := LegalMoves(b, game.First)
	for _, m := range moves {
		if m < DropOffset {
			continue
		}
		_, dm := DecodeMove(m)
		require.Nil(t, b.PieceAt(dm.To/Cols, dm.To%Cols))
	}
}

func TestApplyBoardMoveCapturesIntoHand(t *testing.T) {
	b := NewBoard()
	// Sente chick at (2,1) advances to (1,1) capturing gote's chick.
	from := 2*Cols + 1
	to := 1*Cols + 1
	action := EncodeBoardMove(from, to)
	nb := ApplyMove(b, game.First, action)
	require.Nil(t, nb.PieceAt(from/Cols, from%Cols))
	placed := nb.PieceAt(to/Cols, to%Cols)
	require.NotNil(t, placed)
	assert.Equal(t, Chick, placed.Kind)
	assert.Equal(t, game.First, placed.Owner)
	assert.Contains(t, nb.Hand(game.First), Chick)
}

func TestChickPromotesOnFarRank(t *testing.T) {
	b := Board{}
	chick := Piece{Kind: Chick, Owner: game.First}
	b = b.SetPiece(1, 1, &chick)
	lionS := Piece{Kind: Lion, Owner: game.First}
	lionG := Piece{Kind: Lion, Owner: game.Second}
	b = b.SetPiece(3, 0, &lionS)
	b = b.SetPiece(0, 2, &lionG)
	from := 1*Cols + 1
	to := 0*Cols + 1
	action := EncodeBoardMove(from, to)
	nb := ApplyMove(b, game.First, action)
	placed := nb.PieceAt(to/Cols, to%Cols)
	require.NotNil(t, placed)
	assert.Equal(t, Hen, placed.Kind)
}

func TestRemoveFromHandUnderflowErrors(t *testing.T) {
	b := NewBoard()
	_, err := b.RemoveFromHand(game.First, Chick)
	require.Error(t, err)
}
