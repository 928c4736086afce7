package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sprout/feature"
)

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrEmptyForest is the error returned when trying to predict with a forest
that has no trees.
*/
const ErrEmptyForest = PredictionError("cannot predict with an empty forest")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
Forest is an ensemble of trees grown independently over the same columns.
It predicts the label most of its trees vote for.
*/
type Forest struct {
	Trees []*Tree
}

// NewForest returns a forest with the given trees
func NewForest(trees ...*Tree) *Forest {
	return &Forest{trees}
}

/*
Vote takes a sample and returns the mean of the votes of the trees in the
forest, the fraction of trees predicting label 1. It returns ErrEmptyForest
for a forest without trees and the error of the first tree failing to
predict the sample otherwise.
*/
func (f *Forest) Vote(ctx context.Context, s feature.Sample) (float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return 0, ErrEmptyForest
	}
	var votes int
	for i, t := range f.Trees {
		v, err := t.Predict(ctx, s)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		votes += v
	}
	return float64(votes) / float64(len(f.Trees)), nil
}

/*
Predict takes a sample and returns 1 if at least half of the trees in the
forest predict label 1 for it, and 0 otherwise.
*/
func (f *Forest) Predict(ctx context.Context, s feature.Sample) (int, error) {
	mean, err := f.Vote(ctx, s)
	if err != nil {
		return 0, err
	}
	if mean >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

// Label returns the label predicted by the forest trees
func (f *Forest) Label() string {
	if f == nil || len(f.Trees) == 0 {
		return ""
	}
	return f.Trees[0].Label
}

func (f *Forest) String() string {
	var b strings.Builder
	for i, t := range f.Trees {
		fmt.Fprintf(&b, "Tree %d (%s, max depth %d):\n", i, t.Criterion, t.MaxDepth)
		b.WriteString(t.String())
	}
	return b.String()
}
