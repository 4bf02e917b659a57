package fullshogi

import "github.com/forest6511/shogiai/game"

// Action space layout (spec.md §4.C): non-promoting board moves
// occupy [0, PromoMoveBase), promoting board moves occupy
// [PromoMoveBase, DropMoveBase), drop moves occupy
// [DropMoveBase, ActionSpace).
const (
	ActionSpace   = 13689
	PromoMoveBase = 6561 // 81*81
	DropMoveBase  = 13122
)

// BoardMove is a decoded board move.
type BoardMove struct {
	From, To int
	Promote  bool
}

// DropMove is a decoded drop move.
type DropMove struct {
	Kind Kind
	To   int
}

// EncodeBoardMove returns the ActionIndex for a board move.
func EncodeBoardMove(from, to int, promote bool) int {
	if promote {
		return PromoMoveBase + from*NumSquares + to
	}
	return from*NumSquares + to
}

// EncodeDropMove returns the ActionIndex for dropping kind onto to.
func EncodeDropMove(kind Kind, to int) int {
	return DropMoveBase + handIndex(kind)*NumSquares + to
}

// DecodeMove interprets an ActionIndex as either a BoardMove or a
// DropMove. Exactly one of the two return pointers is non-nil.
func DecodeMove(action int) (*BoardMove, *DropMove) {
	if action < DropMoveBase {
		promote := action >= PromoMoveBase
		rest := action
		if promote {
			rest -= PromoMoveBase
		}
		return &BoardMove{From: rest / NumSquares, To: rest % NumSquares, Promote: promote}, nil
	}
	rest := action - DropMoveBase
	kindIdx := rest / NumSquares
	to := rest % NumSquares
	return nil, &DropMove{Kind: HandKinds[kindIdx], To: to}
}

func rowCol(idx int) (int, int) { return idx / Cols, idx % Cols }

func inBounds(r, c int) bool { return r >= 0 && r < Rows && c >= 0 && c < Cols }

// isPromotable reports whether kind has a promoted form and is not
// already promoted.
func isPromotable(kind Kind) bool {
	_, ok := PromotionMap[kind]
	return ok
}

// inPromotionZone reports whether row lies in owner's promotion zone
// (the farthest three ranks from owner's own back rank).
func inPromotionZone(owner game.Player, row int) bool {
	if owner == game.First {
		return row <= 2
	}
	return row >= Rows-3
}

// mustPromote reports whether a piece of kind moving to toRow is
// forced to promote because it would otherwise have no legal moves
// (original_source/full_shogi/moves.py:_must_promote).
func mustPromote(kind Kind, owner game.Player, toRow int) bool {
	switch kind {
	case Pawn, Lance:
		if owner == game.First {
			return toRow == 0
		}
		return toRow == Rows-1
	case Knight:
		if owner == game.First {
			return toRow <= 1
		}
		return toRow >= Rows-2
	default:
		return false
	}
}

// addMoveWithPromotion expands a single (from, to) reach into one or
// two ActionIndex values depending on promotion eligibility.
func addMoveWithPromotion(kind Kind, owner game.Player, from, to int) []int {
	if !isPromotable(kind) {
		return []int{EncodeBoardMove(from, to, false)}
	}
	fromRow, _ := rowCol(from)
	toRow, _ := rowCol(to)
	canPromote := inPromotionZone(owner, fromRow) || inPromotionZone(owner, toRow)
	if !canPromote {
		return []int{EncodeBoardMove(from, to, false)}
	}
	if mustPromote(kind, owner, toRow) {
		return []int{EncodeBoardMove(from, to, true)}
	}
	return []int{EncodeBoardMove(from, to, false), EncodeBoardMove(from, to, true)}
}

// addStepTarget records (r, c) as reachable for the mover if in
// bounds and not occupied by a friendly piece.
func addStepTarget(b Board, owner game.Player, r, c int, targets map[int]bool) {
	if !inBounds(r, c) {
		return
	}
	if occ := b.PieceAt(r, c); occ != nil && occ.Owner == owner {
		return
	}
	targets[r*Cols+c] = true
}

// generateBoardMoves returns every pseudo-legal board-move
// ActionIndex for player, with promotion variants already expanded.
func generateBoardMoves(b Board, player game.Player) []int {
	var moves []int
	sign := 1
	if player == game.Second {
		sign = -1
	}
	for idx := 0; idx < NumSquares; idx++ {
		p := b.PieceAt(idx/Cols, idx%Cols)
		if p == nil || p.Owner != player {
			continue
		}
		fr, fc := rowCol(idx)
		targets := map[int]bool{}

		if steps, ok := stepMoves[p.Kind]; ok {
			for _, d := range steps {
				addStepTarget(b, player, fr+sign*d.dr, fc+sign*d.dc, targets)
			}
		}
		if p.Kind == Knight {
			for _, d := range knightMoves {
				addStepTarget(b, player, fr+sign*d.dr, fc+sign*d.dc, targets)
			}
		}
		if dirs, ok := slideDirections[p.Kind]; ok {
			for _, d := range dirs {
				dr, dc := sign*d.dr, sign*d.dc
				r, c := fr+dr, fc+dc
				for inBounds(r, c) {
					occ := b.PieceAt(r, c)
					if occ != nil {
						if occ.Owner != player {
							targets[r*Cols+c] = true
						}
						break
					}
					targets[r*Cols+c] = true
					r += dr
					c += dc
				}
			}
		}
		if extra, ok := extraSteps[p.Kind]; ok {
			for _, d := range extra {
				addStepTarget(b, player, fr+sign*d.dr, fc+sign*d.dc, targets)
			}
		}

		for to := range targets {
			moves = append(moves, addMoveWithPromotion(p.Kind, player, idx, to)...)
		}
	}
	return moves
}

// canDrop applies the dead-piece and nifu restrictions (uchifuzume is
// checked separately in LegalMoves, since it requires simulating the
// resulting position).
func canDrop(b Board, player game.Player, kind Kind, r, c int) bool {
	switch kind {
	case Pawn, Lance:
		deadRow := 0
		if player == game.Second {
			deadRow = Rows - 1
		}
		if r == deadRow {
			return false
		}
	case Knight:
		if player == game.First {
			if r <= 1 {
				return false
			}
		} else if r >= Rows-2 {
			return false
		}
	}
	if kind == Pawn && b.CountPawnsInColumn(player, c) > 0 {
		return false
	}
	return true
}

// generateDropMoves returns every pseudo-legal drop ActionIndex for
// player, applying the dead-piece and nifu restrictions.
func generateDropMoves(b Board, player game.Player) []int {
	var moves []int
	seen := map[Kind]bool{}
	for _, k := range b.Hand(player) {
		if seen[k] {
			continue
		}
		seen[k] = true
		for idx := 0; idx < NumSquares; idx++ {
			r, c := rowCol(idx)
			if b.PieceAt(r, c) != nil {
				continue
			}
			if !canDrop(b, player, k, r, c) {
				continue
			}
			moves = append(moves, EncodeDropMove(k, idx))
		}
	}
	return moves
}

// attacksSquare reports whether the piece at fromIdx (owned by
// attacker) can reach target, accounting for sliding blockage.
func attacksSquare(b Board, fromIdx, target int, attacker game.Player) bool {
	p := b.PieceAt(fromIdx/Cols, fromIdx%Cols)
	if p == nil {
		return false
	}
	sign := 1
	if attacker == game.Second {
		sign = -1
	}
	fr, fc := rowCol(fromIdx)
	tr, tc := rowCol(target)

	if steps, ok := stepMoves[p.Kind]; ok {
		for _, d := range steps {
			if fr+sign*d.dr == tr && fc+sign*d.dc == tc {
				return true
			}
		}
	}
	if p.Kind == Knight {
		for _, d := range knightMoves {
			if fr+sign*d.dr == tr && fc+sign*d.dc == tc {
				return true
			}
		}
	}
	if dirs, ok := slideDirections[p.Kind]; ok {
		for _, d := range dirs {
			dr, dc := sign*d.dr, sign*d.dc
			r, c := fr+dr, fc+dc
			for inBounds(r, c) {
				if r == tr && c == tc {
					return true
				}
				if b.PieceAt(r, c) != nil {
					break
				}
				r += dr
				c += dc
			}
		}
	}
	if extra, ok := extraSteps[p.Kind]; ok {
		for _, d := range extra {
			if fr+sign*d.dr == tr && fc+sign*d.dc == tc {
				return true
			}
		}
	}
	return false
}

// IsInCheck reports whether player's king is currently attacked.
func IsInCheck(b Board, player game.Player) bool {
	kingIdx := b.FindKing(player)
	if kingIdx < 0 {
		return false
	}
	attacker := player.Opponent()
	for idx := 0; idx < NumSquares; idx++ {
		p := b.PieceAt(idx/Cols, idx%Cols)
		if p == nil || p.Owner != attacker {
			continue
		}
		if attacksSquare(b, idx, kingIdx, attacker) {
			return true
		}
	}
	return false
}

func isPawnDropAction(action int) bool {
	_, dm := DecodeMove(action)
	return dm != nil && dm.Kind == Pawn
}

// LegalMoves returns every legal ActionIndex for player on board b:
// pseudo-legal board and drop moves filtered by self-check safety,
// plus the uchifuzume (pawn-drop checkmate) prohibition.
func LegalMoves(b Board, player game.Player) []int {
	candidates := append(generateBoardMoves(b, player), generateDropMoves(b, player)...)
	var legal []int
	for _, action := range candidates {
		nb := ApplyMove(b, player, action)
		if IsInCheck(nb, player) {
			continue
		}
		if isPawnDropAction(action) && IsInCheck(nb, player.Opponent()) {
			if len(LegalMoves(nb, player.Opponent())) == 0 {
				continue
			}
		}
		legal = append(legal, action)
	}
	return legal
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
	if m.Promote {
		kind = PromotionMap[kind]
	}
	placed := Piece{Kind: kind, Owner: player}
	return nb.SetPiece(m.To/Cols, m.To%Cols, &placed)
}

func applyDropMove(b Board, player game.Player, m DropMove) Board {
	nb, err := b.RemoveFromHand(player, m.Kind)
	if err != nil {
		panic(err)
	}
	placed := Piece{Kind: m.Kind, Owner: player}
	return nb.SetPiece(m.To/Cols, m.To%Cols, &placed)
}
