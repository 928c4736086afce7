package queue

import (
	"fmt"

	"github.com/pbanos/sprout/dataset"
)

// Task represents a tree to be grown for
// a forest.
type Task struct {
	// The ID of the forest the tree belongs to
	Forest string
	// The position of the tree in the forest
	Index int
	// The dataset of training data to grow
	// the tree from.
	Dataset *dataset.Dataset
	// The maximum depth of the tree
	MaxDepth int
	// The name of the splitting criterion
	// used to choose the split attributes
	Criterion string
}

// ID returns a string that identifies the
// task, made of its forest ID and index.
func (t *Task) ID() string {
	return fmt.Sprintf("%s-%d", t.Forest, t.Index)
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s}", t.ID())
}
