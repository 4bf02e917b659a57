package fullshogi

import "github.com/forest6511/shogiai/game"

// NumKinds is the piece-kind count (14).
const NumKinds = 14

// NumPlanes is the tensor-plane channel count (spec.md §4.E): 14 own
// piece-kind planes + 14 opponent piece-kind planes + 7 own hand-count
// planes + 7 opponent hand-count planes + 1 turn-indicator plane.
const NumPlanes = NumKinds + NumKinds + 7 + 7 + 1

// State is an immutable full-shogi position. It implements
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

// Apply returns the state after playing move.
func (s State) Apply(move int) State {
	nb := ApplyMove(s.board, s.player, move)
	return State{board: nb, player: s.player.Opponent()}
}

// IsTerminal reports whether the game has ended.
func (s State) IsTerminal() bool {
	_, ok := s.Winner()
	return ok
}

// Winner returns the winning player and true: either king is already
// missing (a defensive check; should not occur reaching a State under
// legal play, mirrored from original_source/full_shogi/state.py), or
// the side to move has no legal response (checkmate or stalemate,
// both losses in shogi).
func (s State) Winner() (int, bool) {
	if s.board.FindKing(game.First) < 0 {
		return int(game.Second), true
	}
	if s.board.FindKing(game.Second) < 0 {
		return int(game.First), true
	}
	if len(s.LegalMoves()) == 0 {
		return int(s.player.Opponent()), true
	}
	return -1, false
}

// ActionSpaceSize returns 13689.
func (s State) ActionSpaceSize() int { return ActionSpace }

// ToTensorPlanes encodes s from the current player's perspective into
// NumPlanes flat float32 planes of shape (Rows, Cols).
func (s State) ToTensorPlanes() ([]float32, int, int, int) {
	planes := make([]float32, NumPlanes*NumSquares)
	opp := s.player.Opponent()
	for idx := 0; idx < NumSquares; idx++ {
		p := s.board.PieceAt(idx/Cols, idx%Cols)
		if p == nil {
			continue
		}
		base := 0
		if p.Owner == opp {
			base = NumKinds
		}
		planes[(base+int(p.Kind))*NumSquares+idx] = 1
	}
	for i, k := range HandKinds {
		ownCount := 0
		for _, h := range s.board.Hand(s.player) {
			if h == k {
				ownCount++
			}
		}
		oppCount := 0
		for _, h := range s.board.Hand(opp) {
			if h == k {
				oppCount++
			}
		}
		ownPlane := 2*NumKinds + i
		oppPlane := 2*NumKinds + 7 + i
		for sq := 0; sq < NumSquares; sq++ {
			planes[ownPlane*NumSquares+sq] = float32(ownCount)
			planes[oppPlane*NumSquares+sq] = float32(oppCount)
		}
	}
	if s.player == game.First {
		turnPlane := NumPlanes - 1
		for sq := 0; sq < NumSquares; sq++ {
			planes[turnPlane*NumSquares+sq] = 1
		}
	}
	return planes, NumPlanes, Rows, Cols
}
