package json

import (
	"fmt"

	"github.com/pbanos/sprout/feature"
	"github.com/pbanos/sprout/tree"
)

type node struct {
	Depth     int        `json:"depth"`
	Counts    [2]int     `json:"counts"`
	Vote      int        `json:"vote"`
	Criterion *criterion `json:"criterion,omitempty"`
	Feature   string     `json:"feature,omitempty"`
	Threshold *float64   `json:"threshold,omitempty"`
	Left      *node      `json:"left,omitempty"`
	Right     *node      `json:"right,omitempty"`
}

type criterion struct {
	Feature   string  `json:"feature"`
	Symbol    string  `json:"symbol"`
	Threshold float64 `json:"threshold"`
}

func encodeNode(n tree.Node) (*node, error) {
	if n == nil {
		return nil, fmt.Errorf("cannot encode nil node")
	}
	info := n.NodeInfo()
	jn := &node{Depth: info.Depth, Counts: info.Counts, Vote: info.Vote}
	if info.Criterion != nil {
		jn.Criterion = &criterion{info.Criterion.Feature, string(info.Criterion.Symbol), info.Criterion.Threshold}
	}
	switch n := n.(type) {
	case *tree.Leaf:
		return jn, nil
	case *tree.Internal:
		var err error
		threshold := n.Threshold
		jn.Feature = n.Feature
		jn.Threshold = &threshold
		if jn.Left, err = encodeNode(n.Left); err != nil {
			return nil, err
		}
		if jn.Right, err = encodeNode(n.Right); err != nil {
			return nil, err
		}
		return jn, nil
	}
	return nil, fmt.Errorf("cannot encode node of type %T", n)
}

func decodeNode(jn *node) (tree.Node, error) {
	if jn.Vote != 0 && jn.Vote != 1 {
		return nil, fmt.Errorf("node at depth %d has vote %d", jn.Depth, jn.Vote)
	}
	if jn.Counts[0] < 0 || jn.Counts[1] < 0 {
		return nil, fmt.Errorf("node at depth %d has negative counts %v", jn.Depth, jn.Counts)
	}
	if v := tree.Counts(jn.Counts).Vote(); jn.Vote != v {
		return nil, fmt.Errorf("node at depth %d has vote %d but its counts %v vote %d", jn.Depth, jn.Vote, jn.Counts, v)
	}
	var c *feature.Criterion
	if jn.Criterion != nil {
		symbol, err := feature.ParseSymbol(jn.Criterion.Symbol)
		if err != nil {
			return nil, fmt.Errorf("node at depth %d: %v", jn.Depth, err)
		}
		c = feature.NewCriterion(jn.Criterion.Feature, symbol, jn.Criterion.Threshold)
	}
	info := tree.Info{Depth: jn.Depth, Counts: tree.Counts(jn.Counts), Vote: jn.Vote, Criterion: c}
	if jn.Feature == "" {
		if jn.Left != nil || jn.Right != nil || jn.Threshold != nil {
			return nil, fmt.Errorf("node at depth %d has children or threshold but no split feature", jn.Depth)
		}
		return &tree.Leaf{Info: info}, nil
	}
	if jn.Left == nil || jn.Right == nil {
		return nil, fmt.Errorf("node at depth %d splitting on %s lacks a child", jn.Depth, jn.Feature)
	}
	if jn.Threshold == nil {
		return nil, fmt.Errorf("node at depth %d splitting on %s has no threshold", jn.Depth, jn.Feature)
	}
	left, err := decodeNode(jn.Left)
	if err != nil {
		return nil, err
	}
	right, err := decodeNode(jn.Right)
	if err != nil {
		return nil, err
	}
	return &tree.Internal{Info: info, Feature: jn.Feature, Threshold: *jn.Threshold, Left: left, Right: right}, nil
}
