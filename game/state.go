// Package game defines the variant-agnostic contract shared by the
// animal-shogi and full-shogi rule engines, search, self-play, trainer
// and arena.
package game

// Player identifies one of the two sides. Integer identity 0 and 1 is
// part of the external contract (spec.md §3).
type Player int

const (
	// First is 先手 (sente), the first player to move.
	First Player = 0
	// Second is 後手 (gote), the second player to move.
	Second Player = 1
)

// Opponent returns the other player.
func (p Player) Opponent() Player { return 1 - p }

func (p Player) String() string {
	if p == First {
		return "FIRST"
	}
	return "SECOND"
}

// State is implemented by both variants' game states. It is a bounded
// generic parameter rather than a plain interface (spec.md §9 design
// note): Apply returns S, the concrete implementing type, so MCTS,
// negamax, self-play, the trainer and the arena can all be written
// once against S game.State[S] and still inline the hot per-simulation
// calls instead of going through an interface vtable.
type State[S any] interface {
	// CurrentPlayer returns the player to move, 0 or 1.
	CurrentPlayer() int

	// IsTerminal reports whether the game has ended.
	IsTerminal() bool

	// Winner returns the winning player and true, or (-1, false) if the
	// game is a draw or still ongoing.
	Winner() (player int, ok bool)

	// LegalMoves returns every legal ActionIndex for the current player.
	LegalMoves() []int

	// Apply returns the state after playing move. Undefined (may panic)
	// if move is not in LegalMoves().
	Apply(move int) S

	// ActionSpaceSize returns the total number of possible actions for
	// this variant (180 for animal shogi, 13689 for full shogi).
	ActionSpaceSize() int

	// ToTensorPlanes returns the current-player-perspective input
	// tensor, flattened row-major as (channels, rows, cols), along with
	// its shape.
	ToTensorPlanes() (planes []float32, channels, rows, cols int)
}
