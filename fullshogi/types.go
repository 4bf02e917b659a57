// Package fullshogi implements standard 9x9 shogi: 14 piece kinds,
// nifu/dead-piece/uchifuzume drop restrictions, and check-safety move
// filtering.
package fullshogi

import "github.com/forest6511/shogiai/game"

// Board dimensions.
const (
	Rows = 9
	Cols = 9
	// NumSquares is the number of squares on the board (81).
	NumSquares = Rows * Cols
)

// Kind enumerates the fourteen piece kinds. Integer indices 0..13 are
// part of the tensor-plane contract (spec.md §3).
type Kind int

const (
	Pawn Kind = iota
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	ProPawn   // と (tokin)
	ProLance  // 成香
	ProKnight // 成桂
	ProSilver // 成銀
	Horse     // 馬 (promoted bishop)
	Dragon    // 龍 (promoted rook)
)

// PromotionMap maps an unpromoted kind to its promoted form.
var PromotionMap = map[Kind]Kind{
	Pawn:   ProPawn,
	Lance:  ProLance,
	Knight: ProKnight,
	Silver: ProSilver,
	Bishop: Horse,
	Rook:   Dragon,
}

// UnpromotionMap is the reverse of PromotionMap, used when a captured
// promoted piece reverts to its base kind on entering hand.
var UnpromotionMap = func() map[Kind]Kind {
	m := make(map[Kind]Kind, len(PromotionMap))
	for k, v := range PromotionMap {
		m[v] = k
	}
	return m
}()

// HandKinds are the seven piece kinds that may be held in hand, in
// canonical order used by the drop-move codec (spec.md §4.C).
var HandKinds = [7]Kind{Pawn, Lance, Knight, Silver, Gold, Bishop, Rook}

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

// stepMoves holds the one-square movement offsets for each
// non-sliding kind, from game.First's perspective (forward =
// decreasing row). Promoted Pawn/Lance/Knight/Silver all move like
// Gold.
var stepMoves = map[Kind][]delta{
	Pawn: {{-1, 0}},
	Gold: {
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, 0},
	},
	Silver: {
		{-1, -1}, {-1, 0}, {-1, 1},
		{1, -1}, {1, 1},
	},
	King: {
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	},
}

func init() {
	goldMoves := stepMoves[Gold]
	stepMoves[ProPawn] = goldMoves
	stepMoves[ProLance] = goldMoves
	stepMoves[ProKnight] = goldMoves
	stepMoves[ProSilver] = goldMoves
}

// knightMoves holds the knight's two jump offsets.
var knightMoves = []delta{{-2, -1}, {-2, 1}}

// slideDirections holds the sliding directions for each sliding kind.
// Lance slides straight forward; Bishop diagonally; Rook
// orthogonally; Horse and Dragon slide like Bishop/Rook respectively
// plus a one-square king-style step set (handled separately in
// moves.go via extraSteps).
var slideDirections = map[Kind][]delta{
	Lance:  {{-1, 0}},
	Bishop: {{-1, -1}, {-1, 1}, {1, -1}, {1, 1}},
	Rook:   {{-1, 0}, {1, 0}, {0, -1}, {0, 1}},
	Horse:  {{-1, -1}, {-1, 1}, {1, -1}, {1, 1}},
	Dragon: {{-1, 0}, {1, 0}, {0, -1}, {0, 1}},
}

// extraSteps holds the one-square, non-sliding moves available to the
// promoted bishop (orthogonal) and promoted rook (diagonal), layered
// on top of their slideDirections.
var extraSteps = map[Kind][]delta{
	Horse:  {{-1, 0}, {1, 0}, {0, -1}, {0, 1}},
	Dragon: {{-1, -1}, {-1, 1}, {1, -1}, {1, 1}},
}

// Piece is an immutable (kind, owner) pair.
type Piece struct {
	Kind  Kind
	Owner game.Player
}

// IsPromoted reports whether k is a promoted piece kind.
func (k Kind) IsPromoted() bool {
	_, ok := UnpromotionMap[k]
	return ok
}
