package animalshogi

import (
	"sort"

	"github.com/forest6511/shogiai/game"
	"github.com/pkg/errors"
)

// Board is an immutable 3x4 board plus both players' hands. All
// mutating-looking methods return a fresh Board (copy-on-write), per
// spec.md §4.B.
type Board struct {
	squares [NumSquares]*Piece
	hands   [2][]Kind // sorted for canonical equality
}

// NewBoard returns the standard starting position.
func NewBoard() Board {
	b := Board{}
	set := func(r, c int, k Kind, owner game.Player) {
		p := Piece{Kind: k, Owner: owner}
		b.squares[r*Cols+c] = &p
	}
	// Row 0: GOTE's back rank.
	set(0, 0, Giraffe, game.Second)
	set(0, 1, Lion, game.Second)
	set(0, 2, Elephant, game.Second)
	// Row 1: GOTE's chick.
	set(1, 1, Chick, game.Second)
	// Row 2: SENTE's chick.
	set(2, 1, Chick, game.First)
	// Row 3: SENTE's back rank.
	set(3, 0, Elephant, game.First)
	set(3, 1, Lion, game.First)
	set(3, 2, Giraffe, game.First)
	return b
}

// PieceAt returns the piece at (row, col), or nil if empty.
func (b Board) PieceAt(row, col int) *Piece {
	return b.squares[row*Cols+col]
}

// SetPiece returns a new board with (row, col) set to piece (nil clears
// the square).
func (b Board) SetPiece(row, col int, piece *Piece) Board {
	nb := b
	nb.squares[row*Cols+col] = piece
	return nb
}

// AddToHand returns a new board with kind added to player's hand.
// Promoted pieces (Hen) are normalised to their base kind (Chick) on
// entry, matching captured-piece reversion.
func (b Board) AddToHand(player game.Player, kind Kind) Board {
	if kind == Hen {
		kind = Chick
	}
	nb := b
	hand := append(append([]Kind(nil), b.hands[player]...), kind)
	sort.Slice(hand, func(i, j int) bool { return hand[i] < hand[j] })
	nb.hands[player] = hand
	return nb
}

// RemoveFromHand returns a new board with one occurrence of kind
// removed from player's hand. Returns an error wrapping
// game.ErrHandUnderflow if kind is not present.
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

// FindLion returns the index of player's lion, or -1 if captured.
func (b Board) FindLion(player game.Player) int {
	for idx, p := range b.squares {
		if p != nil && p.Kind == Lion && p.Owner == player {
			return idx
		}
	}
	return -1
}
