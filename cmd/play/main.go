// Command play loads a trained network and lets a human play against
// it from the terminal, one variant per run.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/forest6511/shogiai/animalshogi"
	dual "github.com/forest6511/shogiai/dualnet"
	"github.com/forest6511/shogiai/fullshogi"
	"github.com/forest6511/shogiai/game"
	"github.com/forest6511/shogiai/mcts"
)

var (
	variant        = flag.String("variant", "animal", "shogi variant to play: animal or full")
	modelPath      = flag.String("model_path", "best_model.gob", "path to the trained network's weights")
	numSimulations = flag.Int("simulations", 50, "MCTS simulations per engine move")
	humanFirst     = flag.Bool("human_first", true, "whether the human plays the First seat")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	var err error
	switch *variant {
	case "animal":
		err = play[animalshogi.State](animalshogi.NewState(), dual.AnimalConfig())
	case "full":
		err = play[fullshogi.State](fullshogi.NewState(), dual.FullConfig())
	default:
		log.Fatalf("unknown variant %q: expected animal or full", *variant)
	}
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func play[S game.State[S]](state S, netConf dual.Config) error {
	netConf.BatchSize = 1
	netConf.FwdOnly = true
	net, err := dual.NewNetwork(netConf)
	if err != nil {
		return err
	}
	if err := net.LoadSnapshot(*modelPath); err != nil {
		return fmt.Errorf("loading %s: %w", *modelPath, err)
	}

	engineSeat := int(game.First)
	if *humanFirst {
		engineSeat = int(game.Second)
	}

	rng := rand.New(rand.NewSource(1))
	cfg := mcts.Config{PUCT: 1.4, NumSimulations: *numSimulations, DirichletAlpha: 0.3, DirichletEpsilon: 0.25, Temperature: 0}
	input := bufio.NewScanner(os.Stdin)

	for !state.IsTerminal() {
		fmt.Printf("legal moves: %v\n", state.LegalMoves())
		if state.CurrentPlayer() == engineSeat {
			tree := mcts.NewTree[S](cfg, net)
			probs, err := tree.Search(state, rng)
			if err != nil {
				return err
			}
			legal := state.LegalMoves()
			best := legal[0]
			for _, m := range legal[1:] {
				if probs[m] > probs[best] {
					best = m
				}
			}
			fmt.Printf("engine plays %d\n", best)
			state = state.Apply(best)
			continue
		}

		fmt.Print("your move (action index): ")
		if !input.Scan() {
			return nil
		}
		move, convErr := strconv.Atoi(strings.TrimSpace(input.Text()))
		if convErr != nil {
			fmt.Println("not a number, try again")
			continue
		}
		next, applyErr := game.ApplyChecked[S](state, move)
		if applyErr != nil {
			fmt.Printf("%v, try again\n", applyErr)
			continue
		}
		state = next
	}

	if winner, ok := state.Winner(); ok {
		fmt.Printf("winner: player %d\n", winner)
	} else {
		fmt.Println("draw")
	}
	return nil
}
