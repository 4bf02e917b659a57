package fullshogi

import (
	"testing"

	"github.com/forest6511/shogiai/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBoardMoveNoPromo(t *testing.T) {
	action := EncodeBoardMove(10, 20, false)
	assert.Less(t, action, PromoMoveBase)
	bm, dm := DecodeMove(action)
	require.Nil(t, dm)
	require.NotNil(t, bm)
	assert.Equal(t, 10, bm.From)
	assert.Equal(t, 20, bm.To)
	assert.False(t, bm.Promote)
}

func TestEncodeDecodeBoardMovePromo(t *testing.T) {
	action := EncodeBoardMove(10, 20, true)
	assert.GreaterOrEqual(t, action, PromoMoveBase)
	assert.Less(t, action, DropMoveBase)
	bm, dm := DecodeMove(action)
	require.Nil(t, dm)
	require.NotNil(t, bm)
	assert.Equal(t, 10, bm.From)
	assert.Equal(t, 20, bm.To)
	assert.True(t, bm.Promote)
}

func TestEncodeDecodeDropMove(t *testing.T) {
	for _, k := range HandKinds {
		action := EncodeDropMove(k, 40)
		assert.GreaterOrEqual(t, action, DropMoveBase)
		assert.Less(t, action, ActionSpace)
		bm, dm := DecodeMove(action)
		require.Nil(t, bm)
		require.NotNil(t, dm)
		assert.Equal(t, k, dm.Kind)
		assert.Equal(t, 40, dm.To)
	}
}

func TestOpeningLegalMoveCount(t *testing.T) {
	b := NewBoard()
	moves := LegalMoves(b, game.First)
	assert.Len(t, moves, 30)
}

func TestNifuForbidsSecondPawnInColumn(t *testing.T) {
	b := NewBoard()
	b = b.AddToHand(game.First, Pawn)
	moves := LegalMoves(b, game.First)
	for _, action := range moves {
		_, dm := DecodeMove(action)
		if dm == nil || dm.Kind != Pawn {
			continue
		}
		_, c := rowCol(dm.To)
		assert.Zero(t, b.CountPawnsInColumn(game.First, c))
	}
}

func TestDeadPieceDropRestrictions(t *testing.T) {
	b := Board{}
	king := Piece{Kind: King, Owner: game.First}
	oppKing := Piece{Kind: King, Owner: game.Second}
	b = b.SetPiece(8, 4, &king)
	b = b.SetPiece(0, 4, &oppKing)
	b = b.AddToHand(game.First, Pawn)
	b = b.AddToHand(game.First, Lance)
	b = b.AddToHand(game.First, Knight)
	moves := LegalMoves(b, game.First)
	for _, action := range moves {
		_, dm := DecodeMove(action)
		if dm == nil {
			continue
		}
		r, _ := rowCol(dm.To)
		switch dm.Kind {
		case Pawn, Lance:
			assert.NotEqual(t, 0, r)
		case Knight:
			assert.Greater(t, r, 1)
		}
	}
}

func TestForcedPawnPromotionOnLastRank(t *testing.T) {
	b := Board{}
	pawn := Piece{Kind: Pawn, Owner: game.First}
	king := Piece{Kind: King, Owner: game.First}
	oppKing := Piece{Kind: King, Owner: game.Second}
	b = b.SetPiece(1, 4, &pawn)
	b = b.SetPiece(8, 0, &king)
	b = b.SetPiece(0, 0, &oppKing)
	from := 1*Cols + 4
	to := 0*Cols + 4
	moves := LegalMoves(b, game.First)
	sawPromo := false
	sawNonPromo := false
	for _, action := range moves {
		bm, _ := DecodeMove(action)
		if bm == nil || bm.From != from || bm.To != to {
			continue
		}
		if bm.Promote {
			sawPromo = true
		} else {
			sawNonPromo = true
		}
	}
	assert.True(t, sawPromo, "pawn reaching the last rank must have a promoting move")
	assert.False(t, sawNonPromo, "pawn reaching the last rank must not have a non-promoting move")
}

func TestCannotMoveIntoCheck(t *testing.T) {
	b := Board{}
	king := Piece{Kind: King, Owner: game.First}
	rook := Piece{Kind: Rook, Owner: game.Second}
	b = b.SetPiece(8, 4, &king)
	b = b.SetPiece(0, 4, &rook)
	oppKing := Piece{Kind: King, Owner: game.Second}
	b = b.SetPiece(0, 0, &oppKing)
	require.True(t, IsInCheck(b, game.First))
	moves := LegalMoves(b, game.First)
	for _, action := range moves {
		nb := ApplyMove(b, game.First, action)
		assert.False(t, IsInCheck(nb, game.First))
	}
}
