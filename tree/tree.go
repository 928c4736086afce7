package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sprout/feature"
)

// Tree represents a binary classification tree. It is
// composed of its root node, the label it is able to
// predict, the features it was grown from and the
// parameters used to grow it.
type Tree struct {
	Root      Node
	Label     string
	Features  []string
	Criterion string
	MaxDepth  int
}

// New takes a root node, a label, the features and the growing
// parameters and returns a tree with them.
func New(root Node, label string, features []string, criterion string, maxDepth int) *Tree {
	return &Tree{root, label, features, criterion, maxDepth}
}

// Predictor is implemented by trees and forests
type Predictor interface {
	Predict(context.Context, feature.Sample) (int, error)
}

// Predict takes a sample and returns the label predicted by the tree and an
// error if the prediction could not be made.
func (t *Tree) Predict(ctx context.Context, s feature.Sample) (int, error) {
	if t == nil || t.Root == nil {
		return 0, fmt.Errorf("nil tree cannot predict samples")
	}
	return Predict(ctx, t.Root, s)
}

/*
Predict takes a node and a sample and descends from the node to a leaf,
going left at every internal node where the sample's value for its feature
is not above its threshold and right otherwise. It returns the leaf vote or
the sample's error, a *feature.MissingFeatureError when it lacks a value.
*/
func Predict(ctx context.Context, n Node, s feature.Sample) (int, error) {
	for {
		switch node := n.(type) {
		case *Leaf:
			return node.Vote, nil
		case *Internal:
			v, err := s.ValueFor(ctx, node.Feature)
			if err != nil {
				return 0, err
			}
			if v <= node.Threshold {
				n = node.Left
			} else {
				n = node.Right
			}
		default:
			return 0, fmt.Errorf("cannot predict on node of type %T", n)
		}
	}
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node,
// left subtrees first.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, Node) error) error {
	return traverse(ctx, t.Root, bottomup, f)
}

func traverse(ctx context.Context, n Node, bottomup bool, f func(context.Context, Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		if err = f(ctx, n); err != nil {
			return err
		}
	}
	if in, ok := n.(*Internal); ok {
		if err = traverse(ctx, in.Left, bottomup, f); err != nil {
			return err
		}
		if err = traverse(ctx, in.Right, bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

// Stats returns the number of nodes, the number of leaves and the depth
// of the deepest node of the tree.
func (t *Tree) Stats() (nodes, leaves, depth int) {
	t.Traverse(context.Background(), false, func(_ context.Context, n Node) error {
		nodes++
		if _, ok := n.(*Leaf); ok {
			leaves++
		}
		if d := n.NodeInfo().Depth; d > depth {
			depth = d
		}
		return nil
	})
	return
}

/*
Validate returns an error if a node of the tree is nil, an internal node
lacks a child, a child's depth is not its parent's plus 1 or a child's
criterion is not the condition its parent sends it down with.
*/
func (t *Tree) Validate() error {
	if t.Root == nil {
		return fmt.Errorf("tree has no root")
	}
	return validate(t.Root, 0, nil)
}

func validate(n Node, depth int, c *feature.Criterion) error {
	if n == nil {
		return fmt.Errorf("missing node at depth %d", depth)
	}
	info := n.NodeInfo()
	if info.Depth != depth {
		return fmt.Errorf("node at depth %d declares depth %d", depth, info.Depth)
	}
	if (c == nil) != (info.Criterion == nil) || (c != nil && *c != *info.Criterion) {
		return fmt.Errorf("node at depth %d has criterion %v, expected %v", depth, info.Criterion, c)
	}
	in, ok := n.(*Internal)
	if !ok {
		return nil
	}
	if in.Left == nil || in.Right == nil {
		return fmt.Errorf("internal node at depth %d splitting on %s lacks a child", depth, in.Feature)
	}
	if err := validate(in.Left, depth+1, in.LeftCriterion()); err != nil {
		return err
	}
	return validate(in.Right, depth+1, in.RightCriterion())
}

func (t *Tree) String() string {
	return Render(t.Root)
}

/*
Render returns a text rendering of the subtree under n, one line per node
in preorder, left subtrees first. The first line shows the counts of n.
Every other line is indented with "| " once per depth level and shows the
branch condition leading to the node followed by its counts. Leaves end
with the label they predict.

	[5 0/5 1]
	| X1 <= 0.5: [5 0/1 1] => 0
	| X1 > 0.5: [0 0/4 1] => 1
*/
func Render(n Node) string {
	var b strings.Builder
	render(&b, n, true)
	return b.String()
}

func render(b *strings.Builder, n Node, top bool) {
	info := n.NodeInfo()
	if !top && info.Criterion != nil {
		b.WriteString(strings.Repeat("| ", info.Depth))
		b.WriteString(info.Criterion.String())
		b.WriteString(": ")
	}
	b.WriteString(info.Counts.String())
	in, ok := n.(*Internal)
	if !ok {
		fmt.Fprintf(b, " => %d\n", info.Vote)
		return
	}
	b.WriteString("\n")
	render(b, in.Left, false)
	render(b, in.Right, false)
}
