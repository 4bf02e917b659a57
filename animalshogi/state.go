package animalshogi

import "github.com/forest6511/shogiai/game"

// NumPlanes is the tensor-plane channel count (spec.md §4.E): 5 own
// piece-kind planes + 5 opponent piece-kind planes + 3 own hand-count
// planes + 1 turn-indicator plane.
const NumPlanes = 5 + 5 + 3 + 1

// State is an immutable Animal Shogi position. It implements
// game.State[State].
type State struct {
	board  Board
	player game.Player
}

// NewState returns the standard starting position with First to move.
func NewState() State {
	return State{board: NewBoard(), player: game.First}
}

// NewStateFromBoard builds a State from an arbitrary board and player
// to move, for puzzle positions and tests.
func NewStateFromBoard(b Board, player game.Player) State {
	return State{board: b, player: player}
}

// CurrentPlayer returns the player to move, 0 or 1.
func (s State) CurrentPlayer() int { return int(s.player) }

// Board returns the underlying board.
func (s State) Board() Board { return s.board }

// LegalMoves returns every legal ActionIndex for the current player.
func (s State) LegalMoves() []int {
	return LegalMoves(s.board, s.player)
}

// Apply returns the state after playing move. It checks neither
// whether the game is already terminal nor whether move is legal; the
// result for a move outside LegalMoves() is undefined.
func (s State) Apply(move int) State {
	nb := ApplyMove(s.board, s.player, move)
	return State{board: nb, player: s.player.Opponent()}
}

// IsTerminal reports whether the game has ended: either lion has been
// captured, the player who just moved has won by the try rule (lion on
// the opponent's back rank where the side to move cannot capture it),
// or the side to move has no legal moves.
func (s State) IsTerminal() bool {
	_, ok := s.Winner()
	return ok
}

// Winner returns the winning player and true, matching lion-capture,
// try-rule, and stalemate precedence exactly as in
// original_source/animal_shogi/state.py: a captured lion is checked
// first, then the try rule, then the side to move having no legal
// moves (a loss for the side to move, same as checkmate).
func (s State) Winner() (int, bool) {
	if s.board.FindLion(game.First) < 0 {
		return int(game.Second), true
	}
	if s.board.FindLion(game.Second) < 0 {
		return int(game.First), true
	}
	if mover, ok := s.tryRuleWinner(); ok {
		return mover, true
	}
	if len(s.LegalMoves()) == 0 {
		return int(s.player.Opponent()), true
	}
	return -1, false
}

// tryRuleWinner reports whether the player who just moved (the
// opponent of the side now to move) has won by advancing their lion
// onto the opponent's back rank in a way the side now to move cannot
// capture.
func (s State) tryRuleWinner() (int, bool) {
	mover := s.player.Opponent()
	lionIdx := s.board.FindLion(mover)
	if lionIdx < 0 {
		return -1, false
	}
	row, _ := rowCol(lionIdx)
	farRank := Rows - 1
	if mover == game.First {
		farRank = 0
	}
	if row != farRank {
		return -1, false
	}
	if !s.canCaptureLion(s.player, lionIdx) {
		return int(mover), true
	}
	return -1, false
}

// canCaptureLion reports whether any board move available to attacker
// lands on lionIdx. Uses the unfiltered legal move list: animal shogi
// has no check-safety filter (DESIGN.md Open Question decisions).
func (s State) canCaptureLion(attacker game.Player, lionIdx int) bool {
	for _, action := range LegalMoves(s.board, attacker) {
		bm, _ := DecodeMove(action)
		if bm != nil && bm.To == lionIdx {
			return true
		}
	}
	return false
}

// ActionSpaceSize returns 180.
func (s State) ActionSpaceSize() int { return ActionSpace }

// ToTensorPlanes encodes s from the current player's perspective into
// NumPlanes flat float32 planes of shape (Rows, Cols).
func (s State) ToTensorPlanes() ([]float32, int, int, int) {
	planes := make([]float32, NumPlanes*NumSquares)
	own, opp := s.player, s.player.Opponent()
	for idx := 0; idx < NumSquares; idx++ {
		p := s.board.PieceAt(idx/Cols, idx%Cols)
		if p == nil {
			continue
		}
		base := 0
		if p.Owner == opp {
			base = 5
		}
		planes[(base+int(p.Kind))*NumSquares+idx] = 1
		_ = own
	}
	for i, k := range HandKinds {
		count := 0
		for _, h := range s.board.Hand(s.player) {
			if h == k {
				count++
			}
		}
		plane := 10 + i
		for sq := 0; sq < NumSquares; sq++ {
			planes[plane*NumSquares+sq] = float32(count)
		}
	}
	if s.player == game.First {
		turnPlane := 13
		for sq := 0; sq < NumSquares; sq++ {
			planes[turnPlane*NumSquares+sq] = 1
		}
	}
	return planes, NumPlanes, Rows, Cols
}
