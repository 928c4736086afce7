/*
Package dot exports trees as Graphviz DOT graphs.
*/
package dot

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pbanos/sprout/tree"
)

const graphName = "G"

/*
Graph takes a tree and returns a directed gographviz graph with a node for
each node of the tree and an edge, labelled with the branch condition, from
every internal node to each of its children.
*/
func Graph(t *tree.Tree) (*gographviz.Graph, error) {
	graphAst, err := gographviz.Parse([]byte(`digraph G{}`))
	if err != nil {
		return nil, err
	}
	graph := gographviz.NewGraph()
	if err = gographviz.Analyse(graphAst, graph); err != nil {
		return nil, err
	}
	var next int
	ids := make(map[tree.Node]string)
	err = t.Traverse(context.Background(), false, func(_ context.Context, n tree.Node) error {
		id := fmt.Sprintf("n%d", next)
		next++
		ids[n] = id
		attrs := map[string]string{"label": label(n)}
		if _, ok := n.(*tree.Leaf); ok {
			attrs["shape"] = "box"
		}
		return graph.AddNode(graphName, id, attrs)
	})
	if err != nil {
		return nil, err
	}
	err = t.Traverse(context.Background(), false, func(_ context.Context, n tree.Node) error {
		in, ok := n.(*tree.Internal)
		if !ok {
			return nil
		}
		for _, child := range []tree.Node{in.Left, in.Right} {
			attrs := map[string]string{"label": strconv.Quote(child.NodeInfo().Criterion.String())}
			if err := graph.AddEdge(ids[n], ids[child], true, attrs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return graph, nil
}

// Write writes the DOT graph of the tree to w
func Write(t *tree.Tree, w io.Writer) error {
	graph, err := Graph(t)
	if err != nil {
		return fmt.Errorf("building graph: %v", err)
	}
	_, err = io.WriteString(w, graph.String())
	return err
}

func label(n tree.Node) string {
	info := n.NodeInfo()
	if in, ok := n.(*tree.Internal); ok {
		return strconv.Quote(fmt.Sprintf("%s <= %g?\n%v", in.Feature, in.Threshold, info.Counts))
	}
	return strconv.Quote(fmt.Sprintf("%v\nvote = %d", info.Counts, info.Vote))
}
