package dual

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Infer wraps a batch-size-1 Network so it satisfies mcts.Inferencer:
// it runs one forward pass for one state's tensor planes and returns
// raw policy logits (masking/softmax is the MCTS leaf-expansion
// step's job, not this one) plus the scalar value estimate.
//
// A *Network built with NewNetwork(conf) where conf.BatchSize != 1
// cannot be used here directly; call InferenceNetwork first.
func (n *Network) Infer(planes []float32, channels, rows, cols int) ([]float32, float32, error) {
	if n.conf.BatchSize != 1 {
		return nil, 0, errors.New("dual: Infer requires a batch-size-1 network; use InferenceNetwork")
	}
	want := channels * rows * cols
	if len(planes) != want {
		return nil, 0, errors.Errorf("dual: expected %d plane values, got %d", want, len(planes))
	}
	in := tensor.New(tensor.WithShape(1, channels, rows, cols), tensor.WithBacking(planes))
	if err := G.Let(n.input, in); err != nil {
		return nil, 0, errors.Wrap(err, "binding input")
	}
	if err := n.vm.RunAll(); err != nil {
		return nil, 0, errors.Wrap(err, "running forward pass")
	}
	defer n.vm.Reset()

	policyVal := n.policyOut.Value()
	policyData, ok := policyVal.Data().([]float32)
	if !ok {
		return nil, 0, errors.New("dual: unexpected policy output dtype")
	}
	policy := make([]float32, len(policyData))
	copy(policy, policyData)

	valueVal := n.valueOut.Value()
	valueData, ok := valueVal.Data().([]float32)
	if !ok {
		return nil, 0, errors.New("dual: unexpected value output dtype")
	}
	var value float32
	if len(valueData) > 0 {
		value = valueData[0]
	}
	return policy, value, nil
}
