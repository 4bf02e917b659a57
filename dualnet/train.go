package dual

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Trainer wraps a full-batch-size Network and drives one Adam update
// per minibatch (original_source/training/train_loop.py's per-epoch
// gradient step).
type Trainer struct {
	net *Network
}

// NewTrainer builds a fresh network to train with conf.
func NewTrainer(conf Config) (*Trainer, error) {
	conf.FwdOnly = false
	net, err := NewNetwork(conf)
	if err != nil {
		return nil, err
	}
	return &Trainer{net: net}, nil
}

// Network exposes the underlying network, e.g. to build an
// InferenceNetwork sibling after training.
func (t *Trainer) Network() *Network { return t.net }

// BatchLosses is the (policy, value, total) loss from one minibatch
// step, matching spec.md §4.K's "Returns average (policy_loss,
// value_loss, total_loss)" shape.
type BatchLosses struct {
	Policy float32
	Value  float32
	Total  float32
}

// TrainBatch runs one forward/backward/update step over exactly
// conf.BatchSize examples. planes must hold
// BatchSize*channels*rows*cols values in row-major batch order;
// policyTargets BatchSize*ActionSpace; valueTargets BatchSize.
func (t *Trainer) TrainBatch(planes, policyTargets, valueTargets []float32) (BatchLosses, error) {
	conf := t.net.conf
	wantPlanes := conf.BatchSize * conf.Features * conf.Height * conf.Width
	if len(planes) != wantPlanes {
		return BatchLosses{}, errors.Errorf("dual: expected %d plane values, got %d", wantPlanes, len(planes))
	}
	wantPolicy := conf.BatchSize * conf.ActionSpace
	if len(policyTargets) != wantPolicy {
		return BatchLosses{}, errors.Errorf("dual: expected %d policy target values, got %d", wantPolicy, len(policyTargets))
	}
	if len(valueTargets) != conf.BatchSize {
		return BatchLosses{}, errors.Errorf("dual: expected %d value target values, got %d", conf.BatchSize, len(valueTargets))
	}

	in := tensor.New(tensor.WithShape(conf.BatchSize, conf.Features, conf.Height, conf.Width), tensor.WithBacking(planes))
	pt := tensor.New(tensor.WithShape(conf.BatchSize, conf.ActionSpace), tensor.WithBacking(policyTargets))
	vt := tensor.New(tensor.WithShape(conf.BatchSize, 1), tensor.WithBacking(valueTargets))

	if err := G.Let(t.net.input, in); err != nil {
		return BatchLosses{}, errors.Wrap(err, "binding input")
	}
	if err := G.Let(t.net.policyTarget, pt); err != nil {
		return BatchLosses{}, errors.Wrap(err, "binding policy target")
	}
	if err := G.Let(t.net.valueTarget, vt); err != nil {
		return BatchLosses{}, errors.Wrap(err, "binding value target")
	}

	if err := t.net.vm.RunAll(); err != nil {
		return BatchLosses{}, errors.Wrap(err, "running training step")
	}
	defer t.net.vm.Reset()

	if err := t.net.solver.Step(t.net.learnables); err != nil {
		return BatchLosses{}, errors.Wrap(err, "applying optimizer step")
	}

	policyLoss, err := scalarValue(t.net.policyLoss)
	if err != nil {
		return BatchLosses{}, err
	}
	valueLoss, err := scalarValue(t.net.valueLoss)
	if err != nil {
		return BatchLosses{}, err
	}
	totalLoss, err := scalarValue(t.net.loss)
	if err != nil {
		return BatchLosses{}, err
	}
	return BatchLosses{Policy: policyLoss, Value: valueLoss, Total: totalLoss}, nil
}

func scalarValue(n *G.Node) (float32, error) {
	data, ok := n.Value().Data().(float32)
	if !ok {
		return 0, errors.Errorf("dual: unexpected scalar dtype for %s", n.Name())
	}
	return data, nil
}
