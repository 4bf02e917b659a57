package game

import "github.com/pkg/errors"

// ApplyChecked validates move against s before calling s.Apply. It is
// for the player-facing boundary (spec.md §6.3) — a CLI or other
// external caller submitting untrusted input — where Apply's "may
// panic if move is not legal" contract is unacceptable and
// ErrInvalidAction/ErrTerminalState must surface as ordinary errors
// instead. Internal callers (MCTS, negamax, self-play, arena) never
// need this: they only ever call Apply with a move drawn from
// LegalMoves, so the contract is satisfied by construction.
func ApplyChecked[S State[S]](s S, move int) (S, error) {
	var zero S
	if s.IsTerminal() {
		return zero, errors.Wrap(ErrTerminalState, "game: apply_move called on terminal state")
	}
	for _, m := range s.LegalMoves() {
		if m == move {
			return s.Apply(move), nil
		}
	}
	return zero, errors.Wrapf(ErrInvalidAction, "game: action %d not in legal move set", move)
}
