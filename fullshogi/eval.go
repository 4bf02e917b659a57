package fullshogi

import "github.com/forest6511/shogiai/game"

// pieceValues are standard shogi material weights, extended with the
// promoted-piece values used by the static evaluator and by negamax's
// leaf evaluation (mirrors the material-sum shape of
// original_source/engine/minimax.py, generalised from animal shogi's
// five kinds to full shogi's fourteen).
var pieceValues = map[Kind]float32{
	Pawn:      1,
	Lance:     3,
	Knight:    3,
	Silver:    5,
	Gold:      6,
	Bishop:    8,
	Rook:      10,
	King:      100,
	ProPawn:   6,
	ProLance:  6,
	ProKnight: 6,
	ProSilver: 6,
	Horse:     10,
	Dragon:    12,
}

// Evaluate returns a heuristic score of s from player's perspective:
// terminal positions score ±1000, otherwise the material balance
// (board pieces plus hand pieces, hand pieces valued at their
// unpromoted worth) of player minus the opponent. player takes the
// int shape search.Evaluator[S] requires rather than game.Player,
// since CurrentPlayer() (what negamax passes in) returns int.
func Evaluate(s State, playerID int) float32 {
	player := game.Player(playerID)
	if winner, ok := s.Winner(); ok {
		if winner == playerID {
			return 1000
		}
		return -1000
	}
	var total float32
	for idx := 0; idx < NumSquares; idx++ {
		p := s.Board().PieceAt(idx/Cols, idx%Cols)
		if p == nil {
			continue
		}
		v := pieceValues[p.Kind]
		if p.Owner == player {
			total += v
		} else {
			total -= v
		}
	}
	for _, k := range s.Board().Hand(player) {
		total += pieceValues[k]
	}
	for _, k := range s.Board().Hand(player.Opponent()) {
		total -= pieceValues[k]
	}
	return total
}
