package fullshogi

import (
	"sort"

	"github.com/forest6511/shogiai/game"
	"github.com/pkg/errors"
)

// Board is an immutable 9x9 board plus both players' hands.
type Board struct {
	squares [NumSquares]*Piece
	hands   [2][]Kind // sorted for canonical equality
}

// NewBoard returns the standard starting position: a 180-degree
// rotationally symmetric layout with Gote's back rank on row 0 and
// Sente's on row 8.
func NewBoard() Board {
	b := Board{}
	set := func(r, c int, k Kind, owner game.Player) {
		p := Piece{Kind: k, Owner: owner}
		b.squares[r*Cols+c] = &p
	}
	backRank := []Kind{Lance, Knight, Silver, Gold, King, Gold, Silver, Knight, Lance}
	for c, k := range backRank {
		set(0, c, k, game.Second)
		set(8, c, k, game.First)
	}
	set(1, 1, Rook, game.Second)
	set(1, 7, Bishop, game.Second)
	set(7, 1, Bishop, game.First)
	set(7, 7, Rook, game.First)
	for c := 0; c < Cols; c++ {
		set(2, c, Pawn, game.Second)
		set(6, c, Pawn, game.First)
	}
	return b
}

// PieceAt returns the piece at (row, col), or nil if empty.
func (b Board) PieceAt(row, col int) *Piece {
	return b.squares[row*Cols+col]
}

// SetPiece returns a new board with (row, col) set to piece (nil
// clears the square).
func (b Board) SetPiece(row, col int, piece *Piece) Board {
	nb := b
	nb.squares[row*Cols+col] = piece
	return nb
}

// AddToHand returns a new board with kind added to player's hand.
// Promoted kinds revert to their base kind on capture
// (original_source/full_shogi/board.py).
func (b Board) AddToHand(player game.Player, kind Kind) Board {
	if base, ok := UnpromotionMap[kind]; ok {
		kind = base
	}
	nb := b
	hand := append(append([]Kind(nil), b.hands[player]...), kind)
	sort.Slice(hand, func(i, j int) bool { return hand[i] < hand[j] })
	nb.hands[player] = hand
	return nb
}

// RemoveFromHand returns a new board with one occurrence of kind
// removed from player's hand.
func (b Board) RemoveFromHand(player game.Player, kind Kind) (Board, error) {
	hand := b.hands[player]
	for i, k := range hand {
		if k == kind {
			nb := b
			newHand := make([]Kind, 0, len(hand)-1)
			newHand = append(newHand, hand[:i]...)
			newHand = append(newHand, hand[i+1:]...)
			nb.hands[player] = newHand
			return nb, nil
		}
	}
	return b, errors.Wrapf(game.ErrHandUnderflow, "no %v in hand for player %v", kind, player)
}

// Hand returns player's hand kinds in canonical sorted order.
func (b Board) Hand(player game.Player) []Kind {
	return b.hands[player]
}

// FindKing returns the index of player's king, or -1 if captured
// (should not occur under legal play; retained as a defensive check
// matching original_source/full_shogi/state.py).
func (b Board) FindKing(player game.Player) int {
	for idx, p := range b.squares {
		if p != nil && p.Kind == King && p.Owner == player {
			return idx
		}
	}
	return -1
}

// CountPawnsInColumn counts player's unpromoted pawns in column c,
// used by the nifu (two-pawns-in-a-file) drop restriction.
func (b Board) CountPawnsInColumn(player game.Player, c int) int {
	n := 0
	for r := 0; r < Rows; r++ {
		p := b.PieceAt(r, c)
		if p != nil && p.Owner == player && p.Kind == Pawn {
			n++
		}
	}
	return n
}
