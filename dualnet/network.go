package dual

import (
	"fmt"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// convBlock is one conv2d -> batchnorm -> ReLU stage, grounded on
// original_source/model/network.py's input stem and ResBlock
// convolutions.
type convBlock struct {
	w, b       *G.Node
	bnScale    *G.Node
	bnBias     *G.Node
	bnMean     *G.Node
	bnVariance *G.Node
}

// Network is the dual-head residual CNN: a shared convolutional tower
// feeding a policy head (move priors over the action space) and a
// value head (scalar position evaluation), built once as a
// gorgonia.org/gorgonia expression graph and executed with a
// TapeMachine (spec.md §4.H).
type Network struct {
	conf Config

	g     *G.ExprGraph
	input *G.Node

	stem      convBlock
	resBlocks []resBlock

	policyConv convBlock
	policyW    *G.Node
	policyB    *G.Node
	policyOut  *G.Node

	valueConv convBlock
	valueW1   *G.Node
	valueB1   *G.Node
	valueW2   *G.Node
	valueB2   *G.Node
	valueOut  *G.Node

	policyTarget *G.Node
	valueTarget  *G.Node
	policyLoss   *G.Node
	valueLoss    *G.Node
	loss         *G.Node

	learnables G.Nodes
	vm         G.VM
	solver     G.Solver
}

// resBlock is one residual block: conv-BN-ReLU-conv-BN, summed with
// its input and passed through a final ReLU
// (original_source/model/network.py:ResBlock).
type resBlock struct {
	first  convBlock
	second convBlock
}

func newWeight(g *G.ExprGraph, name string, shape ...int) *G.Node {
	return G.NewTensor(g, tensor.Float32, len(shape),
		G.WithShape(shape...), G.WithName(name), G.WithInit(G.GlorotN(1.0)))
}

func newBias(g *G.ExprGraph, name string, shape ...int) *G.Node {
	return G.NewTensor(g, tensor.Float32, len(shape),
		G.WithShape(shape...), G.WithName(name), G.WithInit(G.Zeroes()))
}

func newConvBlock(g *G.ExprGraph, name string, inCh, outCh, kernel int) convBlock {
	return convBlock{
		w:          newWeight(g, name+"_w", outCh, inCh, kernel, kernel),
		b:          newBias(g, name+"_b", 1, outCh, 1, 1),
		bnScale:    newWeight(g, name+"_bn_scale", 1, outCh, 1, 1),
		bnBias:     newBias(g, name+"_bn_bias", 1, outCh, 1, 1),
		bnMean:     newBias(g, name+"_bn_mean", 1, outCh, 1, 1),
		bnVariance: newWeight(g, name+"_bn_var", 1, outCh, 1, 1),
	}
}

func (c convBlock) learnables() G.Nodes {
	return G.Nodes{c.w, c.b, c.bnScale, c.bnBias}
}

// apply runs conv2d -> bias add -> batchnorm -> ReLU.
func (c convBlock) apply(x *G.Node, pad int) (*G.Node, error) {
	conv, err := G.Conv2d(x, c.w, tensor.Shape{c.w.Shape()[2], c.w.Shape()[3]}, []int{pad, pad}, []int{1, 1}, []int{1, 1})
	if err != nil {
		return nil, errors.Wrap(err, "conv2d")
	}
	biased, err := G.BroadcastAdd(conv, c.b, nil, []byte{0, 2, 3})
	if err != nil {
		return nil, errors.Wrap(err, "bias add")
	}
	normed, _, _, _, err := G.BatchNorm(biased, c.bnScale, c.bnBias, 0.9, 1e-5)
	if err != nil {
		return nil, errors.Wrap(err, "batchnorm")
	}
	return G.Rectify(normed)
}

// NewNetwork builds a fresh, randomly initialized network for conf.
func NewNetwork(conf Config) (*Network, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "dual: invalid network config")
	}
	g := G.NewGraph()
	input := G.NewTensor(g, tensor.Float32, 4,
		G.WithShape(conf.BatchSize, conf.Features, conf.Height, conf.Width),
		G.WithName("input"))

	n := &Network{conf: conf, g: g, input: input}

	n.stem = newConvBlock(g, "stem", conf.Features, conf.K, 3)
	x, err := n.stem.apply(input, 1)
	if err != nil {
		return nil, err
	}
	n.learnables = append(n.learnables, n.stem.learnables()...)

	for i := 0; i < conf.SharedLayers; i++ {
		rb := resBlock{
			first:  newConvBlock(g, fmt.Sprintf("res%d_a", i), conf.K, conf.K, 3),
			second: newConvBlock(g, fmt.Sprintf("res%d_b", i), conf.K, conf.K, 3),
		}
		h, err := rb.first.apply(x, 1)
		if err != nil {
			return nil, err
		}
		convOnly, err := G.Conv2d(h, rb.second.w, tensor.Shape{3, 3}, []int{1, 1}, []int{1, 1}, []int{1, 1})
		if err != nil {
			return nil, errors.Wrap(err, "res conv2")
		}
		biased, err := G.BroadcastAdd(convOnly, rb.second.b, nil, []byte{0, 2, 3})
		if err != nil {
			return nil, errors.Wrap(err, "res bias2")
		}
		normed, _, _, _, err := G.BatchNorm(biased, rb.second.bnScale, rb.second.bnBias, 0.9, 1e-5)
		if err != nil {
			return nil, errors.Wrap(err, "res batchnorm2")
		}
		summed, err := G.Add(normed, x)
		if err != nil {
			return nil, errors.Wrap(err, "res skip add")
		}
		x, err = G.Rectify(summed)
		if err != nil {
			return nil, err
		}
		n.resBlocks = append(n.resBlocks, rb)
		n.learnables = append(n.learnables, rb.first.learnables()...)
		n.learnables = append(n.learnables, rb.second.w, rb.second.b, rb.second.bnScale, rb.second.bnBias)
	}

	if err := n.buildPolicyHead(x); err != nil {
		return nil, err
	}
	if err := n.buildValueHead(x); err != nil {
		return nil, err
	}

	if conf.FwdOnly {
		n.vm = G.NewTapeMachine(g)
		return n, nil
	}
	if err := n.buildLoss(); err != nil {
		return nil, err
	}
	if _, err := G.Grad(n.loss, n.learnables...); err != nil {
		return nil, errors.Wrap(err, "computing gradients")
	}
	n.vm = G.NewTapeMachine(g, G.BindDualValues(n.learnables...))
	n.solver = G.NewAdamSolver(G.WithLearnRate(0.001), G.WithL2Reg(0.0001))
	return n, nil
}

// buildLoss attaches the combined policy cross-entropy + value MSE
// training objective (original_source/training/train_loop.py's
// loss: categorical cross-entropy on the MCTS visit distribution plus
// mean-squared error on the game outcome), against placeholder target
// nodes fed per minibatch by Trainer.
func (n *Network) buildLoss() error {
	n.policyTarget = G.NewMatrix(n.g, tensor.Float32, G.WithShape(n.conf.BatchSize, n.conf.ActionSpace), G.WithName("policy_target"))
	n.valueTarget = G.NewMatrix(n.g, tensor.Float32, G.WithShape(n.conf.BatchSize, 1), G.WithName("value_target"))

	logProbs, err := G.Neg(G.Must(G.LogSoftmax(n.policyOut, 1)))
	if err != nil {
		return errors.Wrap(err, "policy log-softmax")
	}
	weighted, err := G.HadamardProd(logProbs, n.policyTarget)
	if err != nil {
		return errors.Wrap(err, "policy cross-entropy weighting")
	}
	policyLossPerExample, err := G.Sum(weighted, 1)
	if err != nil {
		return errors.Wrap(err, "policy cross-entropy sum")
	}
	n.policyLoss, err = G.Mean(policyLossPerExample)
	if err != nil {
		return errors.Wrap(err, "policy cross-entropy mean")
	}

	diff, err := G.Sub(n.valueOut, n.valueTarget)
	if err != nil {
		return errors.Wrap(err, "value diff")
	}
	sq, err := G.Square(diff)
	if err != nil {
		return errors.Wrap(err, "value square")
	}
	n.valueLoss, err = G.Mean(sq)
	if err != nil {
		return errors.Wrap(err, "value mean")
	}

	n.loss, err = G.Add(n.policyLoss, n.valueLoss)
	if err != nil {
		return errors.Wrap(err, "combined loss")
	}
	return nil
}

// InferenceNetwork builds a batch-size-1, forward-only sibling graph
// for single-state search-time inference and seeds it with trained's
// current weight values (teacher's dual.Infer(nn, false) split between
// a training graph and a lightweight inference graph).
func InferenceNetwork(trained *Network) (*Network, error) {
	conf := trained.conf
	conf.BatchSize = 1
	conf.FwdOnly = true
	n, err := NewNetwork(conf)
	if err != nil {
		return nil, err
	}
	if err := n.copyWeightsFrom(trained); err != nil {
		return nil, err
	}
	return n, nil
}

// copyWeightsFrom binds each of n's learnable nodes to the current
// value held by the corresponding node in src, matched by position
// (both networks are built by the identical sequence of newWeight/
// newBias calls for a given Config).
func (n *Network) copyWeightsFrom(src *Network) error {
	if len(n.learnables) != len(src.learnables) {
		return errors.Errorf("dual: learnable count mismatch: %d vs %d", len(n.learnables), len(src.learnables))
	}
	for i, dst := range n.learnables {
		if err := G.Let(dst, src.learnables[i].Value()); err != nil {
			return errors.Wrapf(err, "copying weight %s", dst.Name())
		}
	}
	return nil
}

// buildPolicyHead: 1x1 conv -> BN -> ReLU -> flatten -> dense to
// ActionSpace, producing raw logits (softmax is applied by the MCTS
// leaf-expansion step, not here).
func (n *Network) buildPolicyHead(x *G.Node) error {
	n.policyConv = newConvBlock(n.g, "policy", n.conf.K, 2, 1)
	h, err := n.policyConv.apply(x, 0)
	if err != nil {
		return err
	}
	flat, err := G.Reshape(h, tensor.Shape{n.conf.BatchSize, 2 * n.conf.Height * n.conf.Width})
	if err != nil {
		return errors.Wrap(err, "policy flatten")
	}
	n.policyW = newWeight(n.g, "policy_fc_w", 2*n.conf.Height*n.conf.Width, n.conf.ActionSpace)
	n.policyB = newBias(n.g, "policy_fc_b", 1, n.conf.ActionSpace)
	mul, err := G.Mul(flat, n.policyW)
	if err != nil {
		return errors.Wrap(err, "policy fc mul")
	}
	out, err := G.BroadcastAdd(mul, n.policyB, nil, []byte{0})
	if err != nil {
		return errors.Wrap(err, "policy fc bias")
	}
	n.policyOut = out
	n.learnables = append(n.learnables, n.policyConv.learnables()...)
	n.learnables = append(n.learnables, n.policyW, n.policyB)
	return nil
}

// buildValueHead: 1x1 conv -> BN -> ReLU -> flatten -> dense(64) ->
// ReLU -> dense(1) -> tanh.
func (n *Network) buildValueHead(x *G.Node) error {
	n.valueConv = newConvBlock(n.g, "value", n.conf.K, 1, 1)
	h, err := n.valueConv.apply(x, 0)
	if err != nil {
		return err
	}
	flat, err := G.Reshape(h, tensor.Shape{n.conf.BatchSize, n.conf.Height * n.conf.Width})
	if err != nil {
		return errors.Wrap(err, "value flatten")
	}
	n.valueW1 = newWeight(n.g, "value_fc1_w", n.conf.Height*n.conf.Width, n.conf.FC)
	n.valueB1 = newBias(n.g, "value_fc1_b", 1, n.conf.FC)
	mul1, err := G.Mul(flat, n.valueW1)
	if err != nil {
		return errors.Wrap(err, "value fc1 mul")
	}
	biased1, err := G.BroadcastAdd(mul1, n.valueB1, nil, []byte{0})
	if err != nil {
		return errors.Wrap(err, "value fc1 bias")
	}
	h1, err := G.Rectify(biased1)
	if err != nil {
		return err
	}
	n.valueW2 = newWeight(n.g, "value_fc2_w", n.conf.FC, 1)
	n.valueB2 = newBias(n.g, "value_fc2_b", 1, 1)
	mul2, err := G.Mul(h1, n.valueW2)
	if err != nil {
		return errors.Wrap(err, "value fc2 mul")
	}
	biased2, err := G.BroadcastAdd(mul2, n.valueB2, nil, []byte{0})
	if err != nil {
		return errors.Wrap(err, "value fc2 bias")
	}
	out, err := G.Tanh(biased2)
	if err != nil {
		return errors.Wrap(err, "value tanh")
	}
	n.valueOut = out
	n.learnables = append(n.learnables, n.valueConv.learnables()...)
	n.learnables = append(n.learnables, n.valueW1, n.valueB1, n.valueW2, n.valueB2)
	return nil
}

// Config returns a copy of the configuration this network was built
// from.
func (n *Network) Config() Config { return n.conf }

// Learnables exposes the trainable parameter set, for Trainer.
func (n *Network) Learnables() G.Nodes { return n.learnables }

// Graph exposes the underlying expression graph, for Trainer.
func (n *Network) Graph() *G.ExprGraph { return n.g }

// Solver exposes the Adam optimizer bound to this network's
// parameters.
func (n *Network) Solver() G.Solver { return n.solver }
