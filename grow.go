package sprout

import (
	"context"
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set"
	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/feature"
	"github.com/pbanos/sprout/splitting"
	"github.com/pbanos/sprout/tree"
	"go.uber.org/zap"
)

// GrowError represents an error growing a tree
type GrowError string

/*
ErrEmptyNode is the error returned when growing reaches a node with no
training rows, like when growing from an empty dataset.
*/
const ErrEmptyNode = GrowError("no training rows reach the node")

func (ge GrowError) Error() string {
	return string(ge)
}

/*
Grower grows trees with a maximum depth using a splitting criterion to
choose the feature to split every node on.
*/
type Grower struct {
	maxDepth  int
	criterion *splitting.Criterion
	*options
}

/*
NewGrower takes a maximum depth, a splitting criterion and options and
returns a Grower with them, or an error if the depth is negative or the
criterion nil.
*/
func NewGrower(maxDepth int, c *splitting.Criterion, opts ...Option) (*Grower, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("maximum depth must not be negative, got %d", maxDepth)
	}
	if c == nil {
		return nil, fmt.Errorf("no splitting criterion")
	}
	return &Grower{maxDepth, c, newOptions(opts)}, nil
}

/*
Grow takes a context, a dataset, a maximum depth, a splitting criterion and
options and returns the tree grown from the dataset. See Grower.Grow.
*/
func Grow(ctx context.Context, ds *dataset.Dataset, maxDepth int, c *splitting.Criterion, opts ...Option) (*tree.Tree, error) {
	g, err := NewGrower(maxDepth, c, opts...)
	if err != nil {
		return nil, err
	}
	return g.Grow(ctx, ds)
}

/*
Grow takes a context and a dataset and returns the tree grown from it, or
an error wrapping ErrEmptyNode if the dataset has no rows. The context is
checked before developing every node; its error is returned if it is
cancelled.
*/
func (g *Grower) Grow(ctx context.Context, ds *dataset.Dataset) (*tree.Tree, error) {
	g.logger.Debug("growing tree",
		zap.Int("rows", ds.Count()),
		zap.Int("maxDepth", g.maxDepth),
		zap.String("criterion", g.criterion.Name),
	)
	root, err := g.learnNode(ctx, ds, 0, mapset.NewThreadUnsafeSet(), nil)
	if err != nil {
		return nil, err
	}
	return tree.New(root, ds.Label(), ds.Features(), g.criterion.Name, g.maxDepth), nil
}

// learnNode develops the node for the rows in ds, reached through the
// branch criterion c at the given depth with the features in used
// already split on by its ancestors.
func (g *Grower) learnNode(ctx context.Context, ds *dataset.Dataset, depth int, used mapset.Set, c *feature.Criterion) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ds.Count() == 0 {
		return nil, fmt.Errorf("growing node at depth %d: %w", depth, ErrEmptyNode)
	}
	counts := tree.Counts(ds.LabelCounts())
	if depth >= g.maxDepth {
		g.logLeaf("maximum depth reached", depth, counts)
		return tree.NewLeaf(depth, counts, c), nil
	}
	attr, ok, err := selectBestAttribute(ds, used, g.criterion)
	if err != nil {
		return nil, err
	}
	if !ok {
		g.logLeaf("no features left", depth, counts)
		return tree.NewLeaf(depth, counts, c), nil
	}
	p, err := selectBestThreshold(ds, attr)
	if err != nil {
		return nil, err
	}
	if p == nil {
		g.logLeaf(fmt.Sprintf("no valid threshold for %s", attr), depth, counts)
		return tree.NewLeaf(depth, counts, c), nil
	}
	g.logger.Debug("splitting node",
		zap.Int("depth", depth),
		zap.Stringer("counts", counts),
		zap.String("feature", attr),
		zap.Float64("threshold", p.Threshold),
		zap.Float64("gini", p.Score),
	)
	childUsed := used.Clone()
	childUsed.Add(attr)
	var left, right tree.Node
	var lerr, rerr error
	if g.parallel {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			left, lerr = g.learnNode(ctx, p.Left, depth+1, childUsed, p.LeftCriterion())
			wg.Done()
		}()
		go func() {
			right, rerr = g.learnNode(ctx, p.Right, depth+1, childUsed, p.RightCriterion())
			wg.Done()
		}()
		wg.Wait()
	} else {
		left, lerr = g.learnNode(ctx, p.Left, depth+1, childUsed, p.LeftCriterion())
		if lerr == nil {
			right, rerr = g.learnNode(ctx, p.Right, depth+1, childUsed, p.RightCriterion())
		}
	}
	if lerr != nil {
		return nil, lerr
	}
	if rerr != nil {
		return nil, rerr
	}
	return tree.NewInternal(depth, counts, c, attr, p.Threshold, left, right), nil
}

func (g *Grower) logLeaf(reason string, depth int, counts tree.Counts) {
	g.logger.Debug("node becomes a leaf",
		zap.String("reason", reason),
		zap.Int("depth", depth),
		zap.Stringer("counts", counts),
		zap.Int("vote", counts.Vote()),
	)
}
