package animalshogi

import "github.com/forest6511/shogiai/game"

// pieceValues mirrors original_source/engine/minimax.py's
// _PIECE_VALUES exactly: material weights used by the static
// evaluator and by negamax's leaf evaluation.
var pieceValues = map[Kind]float32{
	Chick:    1,
	Giraffe:  3,
	Elephant: 3,
	Lion:     100,
	Hen:      5,
}

// Evaluate returns a heuristic score of s from player's perspective:
// terminal positions score ±1000, otherwise the material balance
// (board pieces plus hand pieces) of player minus the opponent. player
// takes the int shape search.Evaluator[S] requires rather than
// game.Player, since CurrentPlayer() (what negamax passes in) returns
// int.
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
