// Package arena pits two move-selection functions against each other
// over a fixed number of games, translating seat outcomes back to
// challenger/incumbent identity (spec.md §4.L).
//
// The teacher's arena.go models this as a stateful Arena struct
// owning two long-lived Agents with mutable MCTS trees and a logger.
// Here, since nothing in the arena outlives one Pit call and the
// move-selectors already close over whatever network/MCTS state they
// need, a stateless free function is the faithful match for spec.md
// §4.L's `pit(fnA, fnB, initial_state, num_games, max_moves) -> (winsA,
// winsB, draws)` signature.
package arena

import "github.com/forest6511/shogiai/game"

// defaultMaxMoves matches self-play's own cap; arena callers pass their own
// maxMoves, but this is the fallback when maxMoves <= 0.
const defaultMaxMoves = 200

// SelectFn picks the next move for state. Both players in a Pit call
// are expected to consult their own MCTS search internally (with
// temperature ~0, per spec.md §4.M step 4) and close over whichever
// network backs them.
type SelectFn[S game.State[S]] func(state S) int

// Pit plays numGames games between a and b, alternating which plays
// First by game parity (spec.md §4.L: "this halves colour bias"), and
// returns the win/draw counts translated back to identity A/B rather
// than seat.
func Pit[S game.State[S]](a, b SelectFn[S], initial S, numGames, maxMoves int) (winsA, winsB, draws int) {
	if maxMoves <= 0 {
		maxMoves = defaultMaxMoves
	}
	for g := 0; g < numGames; g++ {
		first, second := a, b
		if g%2 != 0 {
			first, second = b, a
		}
		winnerSeat, hasWinner := playOne(first, second, initial, maxMoves)
		if !hasWinner {
			draws++
			continue
		}
		// winnerSeat 0 is whichever of first/second moved First.
		aWonFirstSeat := g%2 == 0
		aWon := (winnerSeat == 0) == aWonFirstSeat
		if aWon {
			winsA++
		} else {
			winsB++
		}
	}
	return winsA, winsB, draws
}

// playOne plays one game between the player occupying the First seat
// and the player occupying the Second seat, returning the winning
// seat (0 = First, 1 = Second) and whether the game had a winner.
func playOne[S game.State[S]](first, second SelectFn[S], initial S, maxMoves int) (int, bool) {
	state := initial
	for ply := 0; ply < maxMoves && !state.IsTerminal(); ply++ {
		var move int
		if state.CurrentPlayer() == int(game.First) {
			move = first(state)
		} else {
			move = second(state)
		}
		state = state.Apply(move)
	}
	return state.Winner()
}
