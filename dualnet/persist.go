package dual

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Snapshot is the weights-only serialization format: a flat map from
// stable layer-parameter name to its tensor data, plus the shape
// config needed to rebuild a matching graph. Unlike the teacher's
// agogo.go, which gob-encodes the whole *dual.Dual (graph nodes and
// all), this only ever persists plain float32 slices keyed by name —
// gob decoding a snapshot can never execute arbitrary code, unlike
// gob/pickle-decoding a live object graph.
type Snapshot struct {
	Conf    Config
	Weights map[string][]float32
}

// Snapshot captures n's current learnable values by name.
func (n *Network) Snapshot() Snapshot {
	weights := make(map[string][]float32, len(n.learnables))
	for _, node := range n.learnables {
		data, ok := node.Value().Data().([]float32)
		if !ok {
			continue
		}
		cp := make([]float32, len(data))
		copy(cp, data)
		weights[node.Name()] = cp
	}
	return Snapshot{Conf: n.conf, Weights: weights}
}

// Restore loads snap's weights into n's matching learnable nodes by
// name. It is an error for snap to be missing a weight n needs, but
// snap may carry extra names, e.g. architecture-shared checkpoints.
func (n *Network) Restore(snap Snapshot) error {
	for _, node := range n.learnables {
		data, ok := snap.Weights[node.Name()]
		if !ok {
			return errors.Errorf("dual: snapshot missing weight %q", node.Name())
		}
		shape := node.Value().Shape()
		cp := make([]float32, len(data))
		copy(cp, data)
		t := tensor.New(tensor.WithShape(shape...), tensor.WithBacking(cp))
		if err := node.SetValue(t); err != nil {
			return errors.Wrapf(err, "setting weight %q", node.Name())
		}
	}
	return nil
}

// SaveSnapshot gob-encodes n's current weights to path atomically: it
// writes to a temp file in the same directory and renames over path,
// so a crash mid-write never leaves a corrupt checkpoint in place
// (original_source/training/train_loop.py saves a checkpoint after
// every generation that is promoted).
func (n *Network) SaveSnapshot(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp snapshot file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := gob.NewEncoder(tmp).Encode(n.Snapshot()); err != nil {
		tmp.Close()
		return errors.Wrap(err, "encoding snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp snapshot file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming snapshot into place")
	}
	return nil
}

// LoadSnapshot decodes a gob-encoded Snapshot from path and restores
// it into n.
func (n *Network) LoadSnapshot(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening snapshot file")
	}
	defer f.Close()

	var snap Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return errors.Wrap(err, "decoding snapshot")
	}
	return n.Restore(snap)
}
