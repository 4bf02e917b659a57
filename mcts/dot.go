package mcts

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// DOT renders the most recently searched tree (the whole nodes arena)
// as Graphviz DOT source, for offline inspection of a search. rootHandle
// is always 0 since Search always allocates the root first.
func (t *Tree[S]) DOT() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("mcts"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		name := fmt.Sprintf("n%d", i)
		label := fmt.Sprintf(`"move=%d visits=%d q=%.3f p=%.3f"`, n.move, n.visits, n.qValue(), n.prior)
		if err := g.AddNode("mcts", name, map[string]string{"label": label}); err != nil {
			return "", err
		}
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		from := fmt.Sprintf("n%d", i)
		for _, ch := range n.children {
			to := fmt.Sprintf("n%d", ch)
			if err := g.AddEdge(from, to, true, nil); err != nil {
				return "", err
			}
		}
	}
	return g.String(), nil
}
