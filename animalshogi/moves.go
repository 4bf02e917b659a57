package animalshogi

import (
	"github.com/forest6511/shogiai/game"
)

// Action space layout (spec.md §4.C): board moves occupy [0, DropOffset),
// drop moves occupy [DropOffset, ActionSpace).
const (
	ActionSpace = 180
	DropOffset  = 144
)

// BoardMove is a decoded board move (no promotion is ever encoded
// explicitly in animal shogi: chick promotion is automatic on reaching
// the far rank, per shouldPromote).
type BoardMove struct {
	From, To int
}

// DropMove is a decoded drop move.
type DropMove struct {
	Kind Kind
	To   int
}

// EncodeBoardMove returns the ActionIndex for a board move from->to.
func EncodeBoardMove(from, to int) int {
	return from*NumSquares + to
}

// EncodeDropMove returns the ActionIndex for dropping kind onto to.
func EncodeDropMove(kind Kind, to int) int {
	return DropOffset + handIndex(kind)*NumSquares + to
}

// DecodeMove interprets an ActionIndex as either a BoardMove or a
// DropMove. Exactly one of the two return pointers is non-nil.
func DecodeMove(action int) (*BoardMove, *DropMove) {
	if action < DropOffset {
		return &BoardMove{From: action / NumSquares, To: action % NumSquares}, nil
	}
	rest := action - DropOffset
	kindIdx := rest / NumSquares
	to := rest % NumSquares
	return nil, &DropMove{Kind: HandKinds[kindIdx], To: to}
}

// rowCol splits a flat square index into (row, col).
func rowCol(idx int) (int, int) { return idx / Cols, idx % Cols }

// shouldPromote reports whether a chick moving to square `to` promotes
// to a hen: reaching the far rank from the mover's perspective.
func shouldPromote(owner game.Player, to int) bool {
	row, _ := rowCol(to)
	if owner == game.First {
		return row == 0
	}
	return row == Rows-1
}

// LegalMoves returns every legal ActionIndex for player on board b.
// There is no check-safety filter in animal shogi: any pseudo-legal
// board or drop move is legal (original_source/animal_shogi/moves.py
// applies none either; try-rule safety is checked only at the
// state-terminal level, not during move generation).
func LegalMoves(b Board, player game.Player) []int {
	var moves []int
	sign := 1
	if player == game.Second {
		sign = -1
	}
	for idx := 0; idx < NumSquares; idx++ {
		p := b.PieceAt(idx / Cols, idx%Cols)
		if p == nil || p.Owner != player {
			continue
		}
		r, c := rowCol(idx)
		for _, d := range steps[p.Kind] {
			nr, nc := r+sign*d.dr, c+sign*d.dc
			if nr < 0 || nr >= Rows || nc < 0 || nc >= Cols {
				continue
			}
			target := b.PieceAt(nr, nc)
			if target != nil && target.Owner == player {
				continue
			}
			moves = append(moves, EncodeBoardMove(idx, nr*Cols+nc))
		}
	}
	seen := map[Kind]bool{}
	for _, k := range b.Hand(player) {
		if seen[k] {
			continue
		}
		seen[k] = true
		for idx := 0; idx < NumSquares; idx++ {
			if b.PieceAt(idx/Cols, idx%Cols) == nil {
				moves = append(moves, EncodeDropMove(k, idx))
			}
		}
	}
	return moves
}

// ApplyMove applies action for player to b, returning the resulting
// board.
func ApplyMove(b Board, player game.Player, action int) Board {
	boardMove, dropMove := DecodeMove(action)
	if boardMove != nil {
		return applyBoardMove(b, player, *boardMove)
	}
	return applyDropMove(b, player, *dropMove)
}

func applyBoardMove(b Board, player game.Player, m BoardMove) Board {
	mover := b.PieceAt(m.From / Cols, m.From%Cols)
	captured := b.PieceAt(m.To / Cols, m.To%Cols)
	nb := b.SetPiece(m.From/Cols, m.From%Cols, nil)
	if captured != nil {
		nb = nb.AddToHand(player, captured.Kind)
	}
	kind := mover.Kind
	if kind == Chick && shouldPromote(player, m.To) {
		kind = Hen
	}
	placed := Piece{Kind: kind, Owner: player}
	nb = nb.SetPiece(m.To/Cols, m.To%Cols, &placed)
	return nb
}

func applyDropMove(b Board, player game.Player, m DropMove) Board {
	nb, err := b.RemoveFromHand(player, m.Kind)
	if err != nil {
		panic(err)
	}
	placed := Piece{Kind: m.Kind, Owner: player}
	return nb.SetPiece(m.To/Cols, m.To%Cols, &placed)
}
