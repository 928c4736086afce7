package tree

import (
	"fmt"

	"github.com/pbanos/sprout/feature"
)

// Counts holds the number of training rows with label 0 and label 1
type Counts [2]int

/*
Vote returns the label predicted by a node with these counts: 0 when
strictly more rows have label 0, 1 otherwise. Ties favour label 1.
*/
func (c Counts) Vote() int {
	if c[0] > c[1] {
		return 0
	}
	return 1
}

// Total returns the number of rows counted
func (c Counts) Total() int {
	return c[0] + c[1]
}

func (c Counts) String() string {
	return fmt.Sprintf("[%d 0/%d 1]", c[0], c[1])
}

/*
Info holds what every node of a tree knows about the training rows that
reached it.
*/
type Info struct {
	// Depth is 0 for the root and its parent's plus 1 otherwise
	Depth int
	// Counts of the training rows reaching the node
	Counts Counts
	// Vote is the label predicted at the node
	Vote int
	// Criterion is the branch condition the rows reaching the
	// node satisfy on its parent's split feature. It is nil
	// for the root.
	Criterion *feature.Criterion
}

/*
Node is a node of the tree: either a *Leaf or an *Internal node.
*/
type Node interface {
	NodeInfo() *Info
}

// Leaf is a node that predicts its vote for every sample reaching it
type Leaf struct {
	Info
}

/*
Internal is a node that splits samples on a feature: the ones with a
value not above the threshold go to Left, the rest to Right.
*/
type Internal struct {
	Info
	Feature   string
	Threshold float64
	Left      Node
	Right     Node
}

/*
NewLeaf takes the depth, counts and branch criterion of a node and
returns a Leaf with them and the vote for the counts.
*/
func NewLeaf(depth int, counts Counts, c *feature.Criterion) *Leaf {
	return &Leaf{Info{Depth: depth, Counts: counts, Vote: counts.Vote(), Criterion: c}}
}

/*
NewInternal takes the depth, counts and branch criterion of a node, the
feature and threshold it splits on and its children and returns an
Internal node with them and the vote for the counts.
*/
func NewInternal(depth int, counts Counts, c *feature.Criterion, f string, threshold float64, left, right Node) *Internal {
	return &Internal{
		Info:      Info{Depth: depth, Counts: counts, Vote: counts.Vote(), Criterion: c},
		Feature:   f,
		Threshold: threshold,
		Left:      left,
		Right:     right,
	}
}

// NodeInfo returns the node information of the leaf
func (l *Leaf) NodeInfo() *Info {
	return &l.Info
}

// NodeInfo returns the node information of the internal node
func (in *Internal) NodeInfo() *Info {
	return &in.Info
}

// LeftCriterion returns the criterion satisfied by samples sent left
func (in *Internal) LeftCriterion() *feature.Criterion {
	return feature.NewCriterion(in.Feature, feature.LessOrEqual, in.Threshold)
}

// RightCriterion returns the criterion satisfied by samples sent right
func (in *Internal) RightCriterion() *feature.Criterion {
	return feature.NewCriterion(in.Feature, feature.Greater, in.Threshold)
}
