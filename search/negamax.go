// Package search implements non-learned move selection: random play,
// depth-limited negamax with alpha-beta pruning and mate-distance
// preference, and a minimax-backed move picker (spec.md §4.G). The
// training loop's gating arena does not use them; it pits two
// MCTS-driven selectors against each other.
package search

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/forest6511/shogiai/game"
	"github.com/pkg/errors"
)

// Evaluator scores a terminal-or-leaf state from player's perspective.
// animalshogi.Evaluate and fullshogi.Evaluate both satisfy this shape.
type Evaluator[S game.State[S]] func(s S, player int) float32

// Negamax performs depth-limited negamax search with alpha-beta
// pruning, returning the best move and its score from the current
// player's perspective. Mirrors
// original_source/engine/minimax.py:negamax almost exactly: terminal
// positions score ±(1000+depth) to prefer faster mates and slower
// losses, depth-0 leaves fall back to the static evaluator, and the
// search loop breaks on a beta cutoff.
func Negamax[S game.State[S]](s S, depth int, alpha, beta float32, eval Evaluator[S]) (bestMove int, score float32) {
	if s.IsTerminal() {
		if _, ok := s.Winner(); ok {
			return -1, -(1000 + float32(depth))
		}
		return -1, 0
	}
	if depth == 0 {
		return -1, eval(s, s.CurrentPlayer())
	}
	best := float32(math32.Inf(-1))
	bestMove = -1
	for _, move := range s.LegalMoves() {
		next := s.Apply(move)
		_, childScore := Negamax(next, depth-1, -beta, -alpha, eval)
		childScore = -childScore
		if childScore > best {
			best = childScore
			bestMove = move
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}
	return bestMove, best
}

// MinimaxMove runs Negamax to depth and returns only the chosen move.
func MinimaxMove[S game.State[S]](s S, depth int, eval Evaluator[S]) (int, error) {
	legal := s.LegalMoves()
	if len(legal) == 0 {
		return -1, errors.WithStack(game.ErrEmptyLegalSet)
	}
	move, _ := Negamax(s, depth, math32.Inf(-1), math32.Inf(1), eval)
	if move < 0 {
		// Negamax picks no move when depth is 0 or s is already
		// terminal (e.g. a try-rule win with moves still available);
		// fall back to the first legal move rather than -1.
		return legal[0], nil
	}
	return move, nil
}

// RandomMove returns a uniformly random legal move, mirroring
// original_source/engine/random_player.py:random_move.
func RandomMove[S game.State[S]](s S, rng *rand.Rand) (int, error) {
	legal := s.LegalMoves()
	if len(legal) == 0 {
		return -1, errors.WithStack(game.ErrEmptyLegalSet)
	}
	return legal[rng.Intn(len(legal))], nil
}
