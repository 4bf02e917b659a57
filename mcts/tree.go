package mcts

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/forest6511/shogiai/game"
	"github.com/pkg/errors"
	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
)

// Tree is a single-search arena: every node allocated by one call to
// Search lives in nodes, addressed by handle rather than pointer
// (teacher's mcts/tree.go naughty-indexed arena, simplified to
// single-threaded growth since no tree is reused across searches).
type Tree[S game.State[S]] struct {
	cfg   Config
	infer Inferencer
	nodes []node
}

// NewTree constructs an empty search tree for one Search call.
func NewTree[S game.State[S]](cfg Config, infer Inferencer) *Tree[S] {
	return &Tree[S]{cfg: cfg, infer: infer, nodes: make([]node, 0, 512)}
}

func (t *Tree[S]) alloc() handle {
	t.nodes = append(t.nodes, node{})
	return handle(len(t.nodes) - 1)
}

func (t *Tree[S]) at(h handle) *node { return &t.nodes[h] }

// Search runs cfg.NumSimulations PUCT simulations rooted at root and
// returns the temperature-scaled visit-count distribution over the
// full action space (spec.md §4.I).
func (t *Tree[S]) Search(root S, rng *rand.Rand) ([]float32, error) {
	if !t.cfg.IsValid() {
		return nil, errors.New("mcts: invalid config")
	}
	rootHandle := t.alloc()
	if _, err := t.expand(rootHandle, root); err != nil {
		return nil, err
	}
	t.addDirichletNoise(rootHandle, rng)
	for i := 0; i < t.cfg.NumSimulations; i++ {
		if _, err := t.simulate(rootHandle, root); err != nil {
			return nil, err
		}
	}
	return t.outputDistribution(rootHandle, root.ActionSpaceSize()), nil
}

// simulate descends from handle/state by one playout, returning the
// backed-up value from state's current player's perspective. The
// root's own visit/value fields are never written — only a node's
// visits/totalValue change, and only by its parent's recursive call —
// matching original_source/engine/mcts.py's _simulate, where the root
// itself is never updated.
func (t *Tree[S]) simulate(h handle, state S) (float32, error) {
	if state.IsTerminal() {
		return -1, nil
	}
	n := t.at(h)
	if !n.expanded {
		return t.expand(h, state)
	}
	childH := t.selectChild(h)
	childMove := t.at(childH).move
	childState := state.Apply(childMove)
	childValue, err := t.simulate(childH, childState)
	if err != nil {
		return 0, err
	}
	value := -childValue
	cn := t.at(childH)
	cn.visits++
	cn.totalValue += value
	return value, nil
}

// expand evaluates state with the network, masks the policy to
// state's legal moves, allocates one child per legal move, and
// returns the value estimate.
func (t *Tree[S]) expand(h handle, state S) (float32, error) {
	planes, channels, rows, cols := state.ToTensorPlanes()
	logits, value, err := t.infer.Infer(planes, channels, rows, cols)
	if err != nil {
		return 0, errors.Wrap(game.ErrInferenceFailure, err.Error())
	}
	legal := state.LegalMoves()
	if len(legal) == 0 {
		return 0, errors.WithStack(game.ErrEmptyLegalSet)
	}
	probs := maskedSoftmax(logits, legal)

	n := t.at(h)
	n.expanded = true
	n.children = make([]handle, len(legal))
	for i, move := range legal {
		ch := t.alloc()
		cn := t.at(ch)
		cn.move = move
		cn.prior = probs[move]
		n.children[i] = ch
	}
	return value, nil
}

// selectChild picks the child maximizing PUCT(a) = Q(s,a) + c_puct *
// P(s,a) * sqrt(N_parent+1) / (1+N(s,a)), where N_parent is the sum
// of the children's visit counts (the root's own visits field is never
// written, so it cannot stand in for N_parent).
func (t *Tree[S]) selectChild(h handle) handle {
	n := t.at(h)
	var parentVisits uint32
	for _, ch := range n.children {
		parentVisits += t.at(ch).visits
	}
	numerator := math32.Sqrt(float32(parentVisits) + 1)
	best := nilHandle
	bestScore := math32.Inf(-1)
	for _, ch := range n.children {
		cn := t.at(ch)
		score := cn.qValue() + t.cfg.PUCT*cn.prior*numerator/(1+float32(cn.visits))
		if score > bestScore {
			bestScore = score
			best = ch
		}
	}
	return best
}

// addDirichletNoise perturbs the root's child priors with
// symmetric-Dirichlet noise to diversify self-play openings
// (gonum.org/v1/gonum/stat/distmv.Dirichlet, matching the teacher's
// mcts/tree.go).
func (t *Tree[S]) addDirichletNoise(rootHandle handle, rng *rand.Rand) {
	n := t.at(rootHandle)
	k := len(n.children)
	if k == 0 {
		return
	}
	alpha := make([]float64, k)
	for i := range alpha {
		alpha[i] = float64(t.cfg.DirichletAlpha)
	}
	dist := distmv.NewDirichlet(alpha, distrand.NewSource(uint64(rng.Int63())))
	noise := dist.Rand(nil)
	eps := t.cfg.DirichletEpsilon
	for i, ch := range n.children {
		cn := t.at(ch)
		cn.prior = (1-eps)*cn.prior + eps*float32(noise[i])
	}
}

// outputDistribution builds the temperature-scaled move distribution
// from the root's children's visit counts. Temperature 0 collapses to
// the single most-visited move, matching
// original_source/engine/mcts.py's temperature==0 special case.
func (t *Tree[S]) outputDistribution(rootHandle handle, actionSpaceSize int) []float32 {
	n := t.at(rootHandle)
	probs := make([]float32, actionSpaceSize)
	if len(n.children) == 0 {
		return probs
	}
	if t.cfg.Temperature == 0 {
		best := n.children[0]
		for _, ch := range n.children[1:] {
			if t.at(ch).visits > t.at(best).visits {
				best = ch
			}
		}
		probs[t.at(best).move] = 1
		return probs
	}
	// Visit counts are scaled by the largest one before exponentiation,
	// so a small temperature (large 1/T) cannot overflow float32.
	var maxVisits uint32
	for _, ch := range n.children {
		if v := t.at(ch).visits; v > maxVisits {
			maxVisits = v
		}
	}
	if maxVisits == 0 {
		return probs
	}
	weights := make([]float32, len(n.children))
	var sum float32
	for i, ch := range n.children {
		w := math32.Pow(float32(t.at(ch).visits)/float32(maxVisits), 1/t.cfg.Temperature)
		weights[i] = w
		sum += w
	}
	if sum == 0 {
		return probs
	}
	for i, ch := range n.children {
		probs[t.at(ch).move] = weights[i] / sum
	}
	return probs
}

// maskedSoftmax returns a distribution over len(logits) with mass
// only on the indices in legal, masking everything else to zero
// (spec.md §4.I: "masked-softmax leaf expansion").
func maskedSoftmax(logits []float32, legal []int) []float32 {
	probs := make([]float32, len(logits))
	if len(legal) == 0 {
		return probs
	}
	maxLogit := logits[legal[0]]
	for _, m := range legal[1:] {
		if logits[m] > maxLogit {
			maxLogit = logits[m]
		}
	}
	var sum float32
	for _, m := range legal {
		e := math32.Exp(logits[m] - maxLogit)
		probs[m] = e
		sum += e
	}
	if sum > 0 {
		for _, m := range legal {
			probs[m] /= sum
		}
	}
	return probs
}
