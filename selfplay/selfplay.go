// Package selfplay generates labelled training positions by having a
// single network play itself via MCTS, generic across any
// game.State[S] implementation (spec.md §4.J).
package selfplay

import (
	"math/rand"

	"github.com/forest6511/shogiai/game"
	"github.com/forest6511/shogiai/mcts"
)

// moveCap matches spec.md §4.J: a game that reaches this many plies
// without reaching a terminal state is scored as a draw.
const moveCap = 200

// Config tunes one PlayGame call.
type Config struct {
	MCTS MCTSParams
	// TemperatureThreshold is the ply count below which the search
	// temperature is 1.0; at or beyond it, temperature drops to 0.01
	// (near-deterministic but never perfectly so, avoiding argmax
	// ties collapsing identically every game).
	TemperatureThreshold int
}

// MCTSParams carries the subset of mcts.Config that PlayGame
// overrides per ply (PUCT/NumSimulations/Dirichlet stay fixed across
// a game; only Temperature changes).
type MCTSParams struct {
	PUCT             float32
	NumSimulations   int
	DirichletAlpha   float32
	DirichletEpsilon float32
}

// TrainingExample is one labelled position: the tensor-plane
// encoding of a state, the MCTS visit distribution recorded there,
// and the player to move at that state (so the eventual game outcome
// can be translated into a ±1/0 value target after the fact).
type TrainingExample struct {
	Planes   []float32
	Channels int
	Rows     int
	Cols     int
	Policy   []float32
	Player   int
	Value    float32
}

// PlayGame plays one game of self-play from initial using infer for
// every MCTS leaf evaluation, and returns one TrainingExample per ply
// recorded, each with its Value field filled in from the eventual
// outcome (spec.md §4.J steps 1-5 plus the post-hoc value-target
// pass).
func PlayGame[S game.State[S]](infer mcts.Inferencer, initial S, cfg Config, rng *rand.Rand) []TrainingExample {
	type pending struct {
		planes   []float32
		channels int
		rows     int
		cols     int
		policy   []float32
		player   int
	}

	var recorded []pending
	state := initial
	ply := 0

	for ply < moveCap && !state.IsTerminal() {
		mctsCfg := mcts.Config{
			PUCT:             cfg.MCTS.PUCT,
			NumSimulations:   cfg.MCTS.NumSimulations,
			DirichletAlpha:   cfg.MCTS.DirichletAlpha,
			DirichletEpsilon: cfg.MCTS.DirichletEpsilon,
			Temperature:      temperatureFor(ply, cfg.TemperatureThreshold),
		}
		tree := mcts.NewTree[S](mctsCfg, infer)
		policy, err := tree.Search(state, rng)
		if err != nil {
			break
		}

		planes, channels, rows, cols := state.ToTensorPlanes()
		recorded = append(recorded, pending{
			planes:   planes,
			channels: channels,
			rows:     rows,
			cols:     cols,
			policy:   policy,
			player:   state.CurrentPlayer(),
		})

		move := selectMove(state, policy, rng)
		state = state.Apply(move)
		ply++
	}

	winner, hasWinner := state.Winner()

	examples := make([]TrainingExample, len(recorded))
	for i, r := range recorded {
		var value float32
		if hasWinner {
			if r.player == winner {
				value = 1
			} else {
				value = -1
			}
		}
		examples[i] = TrainingExample{
			Planes:   r.planes,
			Channels: r.channels,
			Rows:     r.rows,
			Cols:     r.cols,
			Policy:   r.policy,
			Player:   r.player,
			Value:    value,
		}
	}
	return examples
}

// GenerateGames plays numGames independent self-play games and
// concatenates their TrainingExamples, forming one generation's
// training set (spec.md §4.J: "Batch-generating num_games calls
// produces the per-generation training set").
func GenerateGames[S game.State[S]](infer mcts.Inferencer, initial S, cfg Config, numGames int, rng *rand.Rand) []TrainingExample {
	var all []TrainingExample
	for i := 0; i < numGames; i++ {
		all = append(all, PlayGame[S](infer, initial, cfg, rng)...)
	}
	return all
}

// temperatureFor implements spec.md §4.J step 1.
func temperatureFor(ply, threshold int) float32 {
	if ply < threshold {
		return 1.0
	}
	return 0.01
}

// selectMove samples an action from policy restricted to state's
// legal moves; if the restricted mass sums to zero it falls back to
// uniform-at-random over legal moves rather than over the whole
// action space (spec.md §9: reproduce the source's exact fallback).
func selectMove[S game.State[S]](state S, policy []float32, rng *rand.Rand) int {
	legal := state.LegalMoves()
	var sum float32
	for _, m := range legal {
		sum += policy[m]
	}
	if sum <= 0 {
		return legal[rng.Intn(len(legal))]
	}
	target := rng.Float32() * sum
	var cum float32
	for _, m := range legal {
		cum += policy[m]
		if cum >= target {
			return m
		}
	}
	return legal[len(legal)-1]
}
