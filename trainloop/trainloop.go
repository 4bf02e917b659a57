// Package trainloop orchestrates one full AlphaZero generational
// cycle — self-play, training, arena gating, and conditional
// promotion — emitting progress events a caller drains asynchronously
// (spec.md §4.M).
package trainloop

import (
	"math/rand"
	"os"
	"sync/atomic"

	dual "github.com/forest6511/shogiai/dualnet"
	"github.com/forest6511/shogiai/arena"
	"github.com/forest6511/shogiai/game"
	"github.com/forest6511/shogiai/mcts"
	"github.com/forest6511/shogiai/selfplay"
	"github.com/forest6511/shogiai/trainer"
	"github.com/pkg/errors"
)

// EventType discriminates the opaque progress records emitted on
// Events (spec.md §4.M: "opaque records with a discriminating type
// field").
type EventType string

const (
	EventPhase          EventType = "phase"
	EventGenerationDone EventType = "generation_done"
	EventStopped        EventType = "stopped"
	EventDone           EventType = "done"
)

// Phase names used with EventPhase, mirroring
// original_source/training/train_loop.py's phase strings exactly.
const (
	PhaseSelfPlay = "self_play"
	PhaseTraining = "training"
	PhaseArena    = "arena"
)

// Event is one progress record. Only the fields relevant to Type are
// populated; the rest are zero.
type Event struct {
	Type       EventType
	Generation int
	Total      int
	Phase      string
	DataSize   int

	PolicyLoss float32
	ValueLoss  float32
	TotalLoss  float32

	NewWins int
	OldWins int
	Draws   int
	WinRate float32
	Adopted bool
}

// Config tunes run_training (spec.md §4.M's loop_config).
type Config struct {
	NumGenerations   int
	NumSelfPlayGames int
	NumSimulations   int
	ArenaGames       int
	WinRateThreshold float32
	ModelPath        string
}

// DefaultConfig mirrors original_source/training/train_loop.py's
// TrainLoopConfig dataclass defaults.
func DefaultConfig() Config {
	return Config{
		NumGenerations:   10,
		NumSelfPlayGames: 5,
		NumSimulations:   25,
		ArenaGames:       10,
		WinRateThreshold: 0.55,
		ModelPath:        "best_model.gob",
	}
}

// RunTraining runs loopConf.NumGenerations generations, each
// self-play -> train -> arena -> promote, against initial using
// netConf to shape the network. events receives every progress
// record in emission order on the calling goroutine; callers that
// want this to run in the background should invoke RunTraining from
// their own goroutine and give events a sufficiently buffered
// channel, per spec.md §5's "dedicated worker task" model. stop is
// polled only between phases, never mid-simulation, so the emitted
// `stopped` record is always the last one written before return.
func RunTraining[S game.State[S]](initial S, netConf dual.Config, loopConf Config, events chan<- Event, stop *atomic.Bool) error {
	best, err := dual.NewNetwork(withBatchOne(netConf))
	if err != nil {
		return errors.Wrap(err, "initializing best network")
	}
	if _, statErr := os.Stat(loopConf.ModelPath); statErr == nil {
		if err := best.LoadSnapshot(loopConf.ModelPath); err != nil {
			return errors.Wrap(err, "loading best model checkpoint")
		}
	}

	rng := rand.New(rand.NewSource(1))

	for gen := 0; gen < loopConf.NumGenerations; gen++ {
		if stop.Load() {
			events <- Event{Type: EventStopped}
			return nil
		}

		events <- Event{Type: EventPhase, Generation: gen + 1, Total: loopConf.NumGenerations, Phase: PhaseSelfPlay}
		spCfg := selfplay.Config{
			MCTS: selfplay.MCTSParams{
				PUCT:             1.4,
				NumSimulations:   loopConf.NumSimulations,
				DirichletAlpha:   0.3,
				DirichletEpsilon: 0.25,
			},
			TemperatureThreshold: 15,
		}
		data := selfplay.GenerateGames[S](best, initial, spCfg, loopConf.NumSelfPlayGames, rng)

		if stop.Load() {
			events <- Event{Type: EventStopped}
			return nil
		}

		events <- Event{Type: EventPhase, Generation: gen + 1, Total: loopConf.NumGenerations, Phase: PhaseTraining, DataSize: len(data)}
		challengerTrainer, err := dual.NewTrainer(netConf)
		if err != nil {
			return errors.Wrap(err, "building challenger")
		}
		if err := challengerTrainer.Network().Restore(best.Snapshot()); err != nil {
			return errors.Wrap(err, "seeding challenger from best")
		}
		trainCfg := trainer.DefaultConfig()
		trainCfg.BatchSize = netConf.BatchSize
		losses, err := trainer.Train(challengerTrainer, data, trainCfg, rng)
		if err != nil {
			return errors.Wrap(err, "training challenger")
		}

		if stop.Load() {
			events <- Event{Type: EventStopped}
			return nil
		}

		events <- Event{Type: EventPhase, Generation: gen + 1, Total: loopConf.NumGenerations, Phase: PhaseArena}
		challengerInfer, err := dual.InferenceNetwork(challengerTrainer.Network())
		if err != nil {
			return errors.Wrap(err, "building challenger inference network")
		}
		newWins, oldWins, draws := arena.Pit[S](
			moveSelector[S](challengerInfer, loopConf.NumSimulations, rng),
			moveSelector[S](best, loopConf.NumSimulations, rng),
			initial, loopConf.ArenaGames, 0,
		)

		total := newWins + oldWins + draws
		var winRate float32
		if total > 0 {
			winRate = float32(newWins) / float32(total)
		}
		adopted := winRate >= loopConf.WinRateThreshold
		if adopted {
			best = challengerInfer
			if err := best.SaveSnapshot(loopConf.ModelPath); err != nil {
				return errors.Wrap(err, "persisting promoted model")
			}
		}

		events <- Event{
			Type:       EventGenerationDone,
			Generation: gen + 1,
			Total:      loopConf.NumGenerations,
			PolicyLoss: losses.Policy,
			ValueLoss:  losses.Value,
			TotalLoss:  losses.Total,
			NewWins:    newWins,
			OldWins:    oldWins,
			Draws:      draws,
			WinRate:    winRate,
			Adopted:    adopted,
			DataSize:   len(data),
		}
	}

	events <- Event{Type: EventDone}
	return nil
}

func withBatchOne(conf dual.Config) dual.Config {
	conf.BatchSize = 1
	conf.FwdOnly = true
	return conf
}

// moveSelector builds a temperature~0.01 MCTS move-picker over net,
// matching original_source/training/train_loop.py's _make_mcts_fn:
// near-deterministic, but not a hard argmax over the network's raw
// policy, so search still resolves ties through visit counts.
func moveSelector[S game.State[S]](net mcts.Inferencer, numSimulations int, rng *rand.Rand) arena.SelectFn[S] {
	cfg := mcts.Config{PUCT: 1.4, NumSimulations: numSimulations, DirichletAlpha: 0.3, DirichletEpsilon: 0.25, Temperature: 0.01}
	return func(state S) int {
		tree := mcts.NewTree[S](cfg, net)
		probs, err := tree.Search(state, rng)
		if err != nil {
			legal := state.LegalMoves()
			return legal[0]
		}
		legal := state.LegalMoves()
		best := legal[0]
		for _, m := range legal[1:] {
			if probs[m] > probs[best] {
				best = m
			}
		}
		return best
	}
}
