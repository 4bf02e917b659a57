// Package trainer runs supervised training over a generation's
// self-play examples (spec.md §4.K).
package trainer

import (
	"math/rand"

	"github.com/forest6511/shogiai/selfplay"
	dual "github.com/forest6511/shogiai/dualnet"
	"github.com/pkg/errors"
)

// Config tunes one Train call. Defaults match
// original_source/training/train_loop.py's TRAIN_CONFIG: Adam lr
// 1e-3, weight decay 1e-4 (both baked into dual.NewTrainer's solver),
// batch size 64, 10 epochs per generation.
type Config struct {
	BatchSize           int
	EpochsPerGeneration int
}

// DefaultConfig returns the spec.md §4.K defaults.
func DefaultConfig() Config {
	return Config{BatchSize: 64, EpochsPerGeneration: 10}
}

// Losses is the average per-epoch loss returned after Train.
type Losses struct {
	Policy float32
	Value  float32
	Total  float32
}

// Train shuffles examples at the start of every epoch and runs one
// Adam step per full minibatch of cfg.BatchSize; a trailing partial
// batch at the end of an epoch is dropped, since net's graph has a
// fixed batch dimension. It returns the average (policy, value,
// total) loss across every minibatch over every epoch.
func Train(net *dual.Trainer, examples []selfplay.TrainingExample, cfg Config, rng *rand.Rand) (Losses, error) {
	if len(examples) == 0 {
		return Losses{}, errors.New("trainer: no training examples")
	}
	conf := net.Network().Config()
	if conf.BatchSize != cfg.BatchSize {
		return Losses{}, errors.Errorf("trainer: network batch size %d does not match config batch size %d", conf.BatchSize, cfg.BatchSize)
	}

	planeSize := conf.Features * conf.Height * conf.Width
	idx := make([]int, len(examples))
	for i := range idx {
		idx[i] = i
	}

	var totalPolicy, totalValue, totalLoss float32
	var batches int

	for epoch := 0; epoch < cfg.EpochsPerGeneration; epoch++ {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		for start := 0; start+cfg.BatchSize <= len(idx); start += cfg.BatchSize {
			batchIdx := idx[start : start+cfg.BatchSize]

			planes := make([]float32, 0, cfg.BatchSize*planeSize)
			policyTargets := make([]float32, 0, cfg.BatchSize*conf.ActionSpace)
			valueTargets := make([]float32, 0, cfg.BatchSize)
			for _, i := range batchIdx {
				ex := examples[i]
				planes = append(planes, ex.Planes...)
				policyTargets = append(policyTargets, ex.Policy...)
				valueTargets = append(valueTargets, ex.Value)
			}

			loss, err := net.TrainBatch(planes, policyTargets, valueTargets)
			if err != nil {
				return Losses{}, errors.Wrap(err, "training minibatch")
			}
			totalPolicy += loss.Policy
			totalValue += loss.Value
			totalLoss += loss.Total
			batches++
		}
	}

	if batches == 0 {
		return Losses{}, errors.New("trainer: too few examples for one minibatch")
	}
	avg := totalLoss / float32(batches)
	return Losses{Policy: totalPolicy / float32(batches), Value: totalValue / float32(batches), Total: avg}, nil
}
