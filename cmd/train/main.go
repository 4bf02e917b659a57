// Command train runs the AlphaZero-style generational training loop
// (self-play, supervised training, arena gating) for one shogi
// variant, persisting the best network to -model_path as it improves.
package main

import (
	"flag"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/forest6511/shogiai/animalshogi"
	dual "github.com/forest6511/shogiai/dualnet"
	"github.com/forest6511/shogiai/fullshogi"
	"github.com/forest6511/shogiai/game"
	"github.com/forest6511/shogiai/trainloop"
)

var (
	variant          = flag.String("variant", "animal", "shogi variant to train: animal or full")
	modelPath        = flag.String("model_path", "best_model.gob", "path to load/save the best network's weights")
	numGenerations   = flag.Int("generations", 10, "number of self_play/train/arena generations to run")
	numSelfPlayGames = flag.Int("self_play_games", 5, "self-play games per generation")
	numSimulations   = flag.Int("simulations", 25, "MCTS simulations per move")
	arenaGames       = flag.Int("arena_games", 10, "games played per generation to gate promotion")
	winRateThreshold = flag.Float64("win_rate_threshold", 0.55, "challenger win rate required to be promoted")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	loopConf := trainloop.Config{
		NumGenerations:   *numGenerations,
		NumSelfPlayGames: *numSelfPlayGames,
		NumSimulations:   *numSimulations,
		ArenaGames:       *arenaGames,
		WinRateThreshold: float32(*winRateThreshold),
		ModelPath:        *modelPath,
	}

	var err error
	switch *variant {
	case "animal":
		err = run[animalshogi.State](animalshogi.NewState(), dual.AnimalConfig(), loopConf)
	case "full":
		err = run[fullshogi.State](fullshogi.NewState(), dual.FullConfig(), loopConf)
	default:
		log.Fatalf("unknown variant %q: expected animal or full", *variant)
	}
	if err != nil {
		log.Fatalf("training failed: %+v", err)
	}
}

func run[S game.State[S]](initial S, netConf dual.Config, loopConf trainloop.Config) error {
	netConf.BatchSize = 64

	events := make(chan trainloop.Event, 16)
	var stop atomic.Bool

	done := make(chan error, 1)
	go func() {
		done <- trainloop.RunTraining[S](initial, netConf, loopConf, events, &stop)
	}()

	for ev := range events {
		logEvent(ev)
		if ev.Type == trainloop.EventDone || ev.Type == trainloop.EventStopped {
			break
		}
	}
	return <-done
}

func logEvent(ev trainloop.Event) {
	switch ev.Type {
	case trainloop.EventPhase:
		fmt.Printf("[gen %d/%d] phase=%s data_size=%d\n", ev.Generation, ev.Total, ev.Phase, ev.DataSize)
	case trainloop.EventGenerationDone:
		fmt.Printf("[gen %d/%d] done: policy_loss=%.4f value_loss=%.4f total_loss=%.4f new=%d old=%d draws=%d win_rate=%.3f adopted=%t\n",
			ev.Generation, ev.Total, ev.PolicyLoss, ev.ValueLoss, ev.TotalLoss, ev.NewWins, ev.OldWins, ev.Draws, ev.WinRate, ev.Adopted)
	case trainloop.EventStopped:
		fmt.Println("training stopped")
	case trainloop.EventDone:
		fmt.Println("training complete")
	}
}
