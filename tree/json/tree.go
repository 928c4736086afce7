/*
Package json serializes trees and forests as JSON documents.

A forest is serialized as an object with a "version" number (currently 1)
and the array of its "trees". Each tree is an object with its "label",
"features", "criterion", "maxDepth" and "root" node. Each node is an
object with its "depth", "counts" (label 0 and label 1 counts), "vote" and,
but for the root, the "criterion" leading to it as an object with
"feature", "symbol" and "threshold". Internal nodes also have the
"feature" and "threshold" they split on and their "left" and "right"
nodes.
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/sprout/tree"
)

// Version of the serialization format written by this package
const Version = 1

type jsonTree struct {
	Label     string   `json:"label"`
	Features  []string `json:"features"`
	Criterion string   `json:"criterion"`
	MaxDepth  int      `json:"maxDepth"`
	Root      *node    `json:"root"`
}

type jsonForest struct {
	Version int         `json:"version"`
	Trees   []*jsonTree `json:"trees"`
}

/*
EncodeTree takes a tree and returns a slice of bytes with the tree
serialized as JSON or an error.
*/
func EncodeTree(t *tree.Tree) ([]byte, error) {
	jt, err := encodeTree(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jt)
}

/*
DecodeTree takes a slice of bytes with a JSON serialized tree and returns
the tree or an error if it cannot be unmarshalled or is not well formed.
*/
func DecodeTree(data []byte) (*tree.Tree, error) {
	jt := &jsonTree{}
	if err := json.Unmarshal(data, jt); err != nil {
		return nil, err
	}
	return decodeTree(jt)
}

/*
WriteForest takes a forest and an io.Writer and serializes the forest as
JSON onto the io.Writer. An error is returned if the forest cannot be
serialized or written.
*/
func WriteForest(f *tree.Forest, w io.Writer) error {
	jf := &jsonForest{Version: Version, Trees: make([]*jsonTree, 0, len(f.Trees))}
	for i, t := range f.Trees {
		jt, err := encodeTree(t)
		if err != nil {
			return fmt.Errorf("encoding tree %d: %v", i, err)
		}
		jf.Trees = append(jf.Trees, jt)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(jf)
}

/*
ReadForest takes an io.Reader and unmarshals a forest from its contents.
An error is returned if the JSON cannot be read, has an unsupported
version or holds a tree that is not well formed.
*/
func ReadForest(r io.Reader) (*tree.Forest, error) {
	jf := &jsonForest{}
	if err := json.NewDecoder(r).Decode(jf); err != nil {
		return nil, err
	}
	if jf.Version != Version {
		return nil, fmt.Errorf("unsupported forest version %d, expected %d", jf.Version, Version)
	}
	trees := make([]*tree.Tree, 0, len(jf.Trees))
	for i, jt := range jf.Trees {
		t, err := decodeTree(jt)
		if err != nil {
			return nil, fmt.Errorf("decoding tree %d: %v", i, err)
		}
		trees = append(trees, t)
	}
	return tree.NewForest(trees...), nil
}

// WriteTree serializes the tree onto w as a forest with a single tree
func WriteTree(t *tree.Tree, w io.Writer) error {
	return WriteForest(tree.NewForest(t), w)
}

/*
ReadTree reads a forest from r with ReadForest and returns its only tree.
An error is returned if the forest does not have exactly one tree.
*/
func ReadTree(r io.Reader) (*tree.Tree, error) {
	f, err := ReadForest(r)
	if err != nil {
		return nil, err
	}
	if len(f.Trees) != 1 {
		return nil, fmt.Errorf("expected a single tree, found %d", len(f.Trees))
	}
	return f.Trees[0], nil
}

func encodeTree(t *tree.Tree) (*jsonTree, error) {
	root, err := encodeNode(t.Root)
	if err != nil {
		return nil, err
	}
	return &jsonTree{
		Label:     t.Label,
		Features:  t.Features,
		Criterion: t.Criterion,
		MaxDepth:  t.MaxDepth,
		Root:      root,
	}, nil
}

func decodeTree(jt *jsonTree) (*tree.Tree, error) {
	if jt == nil || jt.Root == nil {
		return nil, fmt.Errorf("tree has no root node")
	}
	if jt.Label == "" {
		return nil, fmt.Errorf("tree has no label")
	}
	root, err := decodeNode(jt.Root)
	if err != nil {
		return nil, err
	}
	t := tree.New(root, jt.Label, jt.Features, jt.Criterion, jt.MaxDepth)
	if err = t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
