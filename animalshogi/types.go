// Package animalshogi implements どうぶつしょうぎ (Animal Shogi): a 3x4
// simplified shogi variant with five piece kinds and an explicit
// try-rule win condition.
package animalshogi

import "github.com/forest6511/shogiai/game"

// Board dimensions.
const (
	Rows = 4
	Cols = 3
	// NumSquares is the number of squares on the board (12).
	NumSquares = Rows * Cols
)

// Kind enumerates the five piece kinds. Integer indices 0..4 are part
// of the tensor-plane contract (spec.md §3).
type Kind int

const (
	Chick Kind = iota
	Giraffe
	Elephant
	Lion
	Hen // promoted Chick
)

// HandKinds are the piece kinds that may be held in hand, in the
// canonical order used for the drop-move codec (spec.md §4.C).
var HandKinds = [3]Kind{Chick, Giraffe, Elephant}

// handIndex returns k's position in HandKinds, or -1.
func handIndex(k Kind) int {
	for i, h := range HandKinds {
		if h == k {
			return i
		}
	}
	return -1
}

// delta is a (row, col) movement offset.
type delta struct{ dr, dc int }

// steps holds the one-square movement offsets for each kind, given
// from game.First's perspective (forward = decreasing row). For
// game.Second, both row and column deltas are negated by the caller.
var steps = map[Kind][]delta{
	Chick:   {{-1, 0}},
	Giraffe: {{-1, 0}, {1, 0}, {0, -1}, {0, 1}},
	Elephant: {
		{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
	},
	Lion: {
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	},
	Hen: {
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, 0},
	},
}

// Piece is an immutable (kind, owner) pair.
type Piece struct {
	Kind  Kind
	Owner game.Player
}
