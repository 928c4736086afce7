package sprout

import (
	"context"
	"errors"
	"math"
	"testing"

	mapset "github.com/deckarep/golang-set"
	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/feature"
	"github.com/pbanos/sprout/queue"
	"github.com/pbanos/sprout/splitting"
	"github.com/pbanos/sprout/tree"
	. "github.com/smartystreets/goconvey/convey"
)

func mustDataset(t *testing.T, columns []string, rows [][]float64) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(columns, rows)
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	return ds
}

// separable returns 10 rows where the label equals X
func separable(t *testing.T) *dataset.Dataset {
	rows := make([][]float64, 10)
	for i := range rows {
		x := 0.0
		if i >= 5 {
			x = 1
		}
		rows[i] = []float64{x, x}
	}
	return mustDataset(t, []string{"X", "Y"}, rows)
}

// mixed returns rows with two noisy features a and b and a label y
func mixed(t *testing.T) *dataset.Dataset {
	return mustDataset(t, []string{"a", "b", "y"}, [][]float64{
		{0, 1, 0},
		{0, 0, 0},
		{1, 1, 1},
		{1, 0, 1},
		{0, 1, 1},
		{1, 0, 0},
		{0, 0, 0},
		{1, 1, 1},
		{0, 1, 1},
		{1, 1, 1},
		{0, 0, 0},
		{1, 0, 0},
	})
}

func gini(t *testing.T) *splitting.Criterion {
	c, err := splitting.Resolve(splitting.GiniName)
	if err != nil {
		t.Fatalf("resolving gini: %v", err)
	}
	return c
}

func TestGrowSeparable(t *testing.T) {
	ctx := context.Background()
	Convey("Given 10 rows with a label equal to X", t, func() {
		ds := separable(t)
		Convey("growing with gini and maximum depth 1", func() {
			tr, err := Grow(ctx, ds, 1, gini(t))
			So(err, ShouldBeNil)
			Convey("splits the root on X at 0.5", func() {
				root, ok := tr.Root.(*tree.Internal)
				So(ok, ShouldBeTrue)
				So(root.Feature, ShouldEqual, "X")
				So(root.Threshold, ShouldEqual, 0.5)
				So(root.Counts, ShouldResemble, tree.Counts{5, 5})
				left, ok := root.Left.(*tree.Leaf)
				So(ok, ShouldBeTrue)
				So(left.Counts, ShouldResemble, tree.Counts{5, 0})
				So(left.Vote, ShouldEqual, 0)
				So(left.Criterion.String(), ShouldEqual, "X <= 0.5")
				right, ok := root.Right.(*tree.Leaf)
				So(ok, ShouldBeTrue)
				So(right.Counts, ShouldResemble, tree.Counts{0, 5})
				So(right.Vote, ShouldEqual, 1)
				So(right.Criterion.String(), ShouldEqual, "X > 0.5")
			})
			Convey("keeps the dataset label, features and growing settings", func() {
				So(tr.Label, ShouldEqual, "Y")
				So(tr.Features, ShouldResemble, []string{"X"})
				So(tr.Criterion, ShouldEqual, "gini")
				So(tr.MaxDepth, ShouldEqual, 1)
			})
			Convey("renders it", func() {
				So(tr.String(), ShouldEqual, "[5 0/5 1]\n| X <= 0.5: [5 0/0 1] => 0\n| X > 0.5: [0 0/5 1] => 1\n")
			})
		})
		Convey("growing with a larger maximum depth stops when the features run out", func() {
			tr, err := Grow(ctx, ds, 5, gini(t))
			So(err, ShouldBeNil)
			nodes, leaves, depth := tr.Stats()
			So(nodes, ShouldEqual, 3)
			So(leaves, ShouldEqual, 2)
			So(depth, ShouldEqual, 1)
		})
	})
}

func TestGrowMaxDepthZero(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		rows     [][]float64
		expected int
	}{
		{[][]float64{{0, 0}, {1, 0}, {1, 1}}, 0},
		{[][]float64{{0, 1}, {1, 0}, {1, 1}}, 1},
		{[][]float64{{0, 0}, {1, 1}}, 1},
	}
	for i, tc := range testCases {
		ds := mustDataset(t, []string{"x", "y"}, tc.rows)
		tr, err := Grow(ctx, ds, 0, gini(t))
		if err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		leaf, ok := tr.Root.(*tree.Leaf)
		if !ok {
			t.Fatalf("case %d: expected a leaf root, got %T", i, tr.Root)
		}
		if leaf.Vote != tc.expected {
			t.Errorf("case %d: expected vote %d, got %d", i, tc.expected, leaf.Vote)
		}
		if leaf.Counts.Total() != len(tc.rows) {
			t.Errorf("case %d: expected %d rows counted, got %d", i, len(tc.rows), leaf.Counts.Total())
		}
	}
}

func TestGrowInvariants(t *testing.T) {
	ctx := context.Background()
	ds := mixed(t)
	for _, name := range splitting.Names() {
		c, err := splitting.Resolve(name)
		if err != nil {
			t.Fatalf("resolving %s: %v", name, err)
		}
		for maxDepth := 0; maxDepth <= 3; maxDepth++ {
			tr, err := Grow(ctx, ds, maxDepth, c)
			if err != nil {
				t.Fatalf("%s/%d: unexpected error %v", name, maxDepth, err)
			}
			if err = tr.Validate(); err != nil {
				t.Errorf("%s/%d: invalid tree: %v", name, maxDepth, err)
			}
			_, _, depth := tr.Stats()
			if depth > maxDepth {
				t.Errorf("%s/%d: tree has depth %d", name, maxDepth, depth)
			}
			checkPaths(t, tr.Root, mapset.NewSet())
		}
	}
}

// checkPaths fails the test if a feature is split on twice along a path,
// a child is empty or children counts do not add up to their parent's.
func checkPaths(t *testing.T, n tree.Node, used mapset.Set) {
	in, ok := n.(*tree.Internal)
	if !ok {
		return
	}
	if used.Contains(in.Feature) {
		t.Errorf("feature %s split on twice along a path", in.Feature)
	}
	l, r := in.Left.NodeInfo().Counts, in.Right.NodeInfo().Counts
	if l.Total() == 0 || r.Total() == 0 {
		t.Errorf("empty child under split on %s", in.Feature)
	}
	if l[0]+r[0] != in.Counts[0] || l[1]+r[1] != in.Counts[1] {
		t.Errorf("children counts %v and %v do not add up to %v", l, r, in.Counts)
	}
	childUsed := used.Clone()
	childUsed.Add(in.Feature)
	checkPaths(t, in.Left, childUsed)
	checkPaths(t, in.Right, childUsed)
}

func TestGrowParallelBranches(t *testing.T) {
	ctx := context.Background()
	Convey("Given a dataset", t, func() {
		ds := mixed(t)
		Convey("growing with parallel branches yields the same tree", func() {
			sequential, err := Grow(ctx, ds, 3, gini(t))
			So(err, ShouldBeNil)
			parallel, err := Grow(ctx, ds, 3, gini(t), WithParallelBranches(true))
			So(err, ShouldBeNil)
			So(parallel.String(), ShouldEqual, sequential.String())
		})
	})
}

func TestGrowErrors(t *testing.T) {
	ctx := context.Background()
	Convey("Growing from an empty dataset", t, func() {
		ds := mustDataset(t, []string{"x", "y"}, nil)
		_, err := Grow(ctx, ds, 2, gini(t))
		Convey("fails with ErrEmptyNode", func() {
			So(errors.Is(err, ErrEmptyNode), ShouldBeTrue)
		})
	})
	Convey("Growing with a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Grow(cctx, separable(t), 2, gini(t))
		Convey("fails with the context error", func() {
			So(err, ShouldEqual, context.Canceled)
		})
	})
	Convey("A grower with a negative depth cannot be created", t, func() {
		_, err := NewGrower(-1, gini(t))
		So(err, ShouldNotBeNil)
	})
	Convey("A grower without a criterion cannot be created", t, func() {
		_, err := NewGrower(1, nil)
		So(err, ShouldNotBeNil)
	})
}

func TestSelectBestAttribute(t *testing.T) {
	Convey("Given features scoring the same", t, func() {
		ds := mustDataset(t, []string{"a", "b", "y"}, [][]float64{
			{0, 0, 0},
			{1, 1, 1},
			{0, 0, 0},
			{1, 1, 1},
		})
		c := gini(t)
		Convey("the first one wins", func() {
			attr, ok, err := selectBestAttribute(ds, mapset.NewSet(), c)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(attr, ShouldEqual, "a")
		})
		Convey("used features are skipped", func() {
			attr, ok, err := selectBestAttribute(ds, mapset.NewSet("a"), c)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(attr, ShouldEqual, "b")
		})
		Convey("none is selected when all are used", func() {
			_, ok, err := selectBestAttribute(ds, mapset.NewSet("a", "b"), c)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
	Convey("Given a feature with information on the label and one without", t, func() {
		ds := mustDataset(t, []string{"noise", "signal", "y"}, [][]float64{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 1},
			{1, 1, 1},
		})
		Convey("mutual information selects the informative one", func() {
			c, err := splitting.Resolve(splitting.MutualInformationName)
			So(err, ShouldBeNil)
			attr, _, err := selectBestAttribute(ds, mapset.NewSet(), c)
			So(err, ShouldBeNil)
			So(attr, ShouldEqual, "signal")
		})
		Convey("gini selects the informative one", func() {
			attr, _, err := selectBestAttribute(ds, mapset.NewSet(), gini(t))
			So(err, ShouldBeNil)
			So(attr, ShouldEqual, "signal")
		})
	})
	Convey("Given an independent feature followed by a constant one", t, func() {
		// a holds a third of positive labels on both of its sides, so its
		// mutual information with y is 0, the same as the constant column
		ds := mustDataset(t, []string{"a", "const", "y"}, [][]float64{
			{0, 1, 1}, {0, 1, 1}, {0, 1, 1}, {0, 1, 1},
			{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
			{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
			{1, 1, 1}, {1, 1, 0}, {1, 1, 0},
		})
		c, err := splitting.Resolve(splitting.MutualInformationName)
		So(err, ShouldBeNil)
		Convey("mutual information keeps the first one", func() {
			attr, ok, err := selectBestAttribute(ds, mapset.NewSet(), c)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(attr, ShouldEqual, "a")
		})
		Convey("growing one level splits on it", func() {
			tr, err := Grow(context.Background(), ds, 1, c)
			So(err, ShouldBeNil)
			root, ok := tr.Root.(*tree.Internal)
			So(ok, ShouldBeTrue)
			So(root.Feature, ShouldEqual, "a")
			So(root.Threshold, ShouldEqual, 0.5)
		})
	})
}

func TestSelectBestThreshold(t *testing.T) {
	Convey("Given a continuous feature", t, func() {
		ds := mustDataset(t, []string{"x", "y"}, [][]float64{
			{1, 0},
			{2, 0},
			{2, 0},
			{3, 1},
			{4, 1},
		})
		Convey("the midpoint separating the labels is selected", func() {
			p, err := selectBestThreshold(ds, "x")
			So(err, ShouldBeNil)
			So(p, ShouldNotBeNil)
			So(p.Threshold, ShouldEqual, 2.5)
			So(p.Score, ShouldEqual, 0.0)
			So(p.Left.Count(), ShouldEqual, 3)
			So(p.Right.Count(), ShouldEqual, 2)
		})
	})
	Convey("Given equally scoring thresholds", t, func() {
		ds := mustDataset(t, []string{"x", "y"}, [][]float64{
			{0, 0},
			{1, 1},
			{2, 0},
		})
		Convey("the lowest one is selected", func() {
			p, err := selectBestThreshold(ds, "x")
			So(err, ShouldBeNil)
			So(p.Threshold, ShouldEqual, 0.5)
		})
	})
	Convey("Given values close to the largest float", t, func() {
		ds := mustDataset(t, []string{"x", "y"}, [][]float64{
			{1e308, 0},
			{1e308, 0},
			{1.7e308, 1},
		})
		Convey("the midpoint between them is finite and separates them", func() {
			p, err := selectBestThreshold(ds, "x")
			So(err, ShouldBeNil)
			So(p, ShouldNotBeNil)
			So(math.IsInf(p.Threshold, 0), ShouldBeFalse)
			So(p.Threshold, ShouldBeGreaterThan, 1e308)
			So(p.Threshold, ShouldBeLessThan, 1.7e308)
			So(p.Left.Count(), ShouldEqual, 2)
			So(p.Right.Count(), ShouldEqual, 1)
		})
	})
	Convey("Given a constant feature", t, func() {
		ds := mustDataset(t, []string{"x", "y"}, [][]float64{
			{1, 0},
			{1, 1},
		})
		Convey("no threshold is selected", func() {
			p, err := selectBestThreshold(ds, "x")
			So(err, ShouldBeNil)
			So(p, ShouldBeNil)
		})
	})
	Convey("Given a constant feature in a dataset", t, func() {
		ds := mustDataset(t, []string{"x", "y"}, [][]float64{
			{1, 0},
			{1, 1},
			{1, 1},
		})
		Convey("growing stops at a leaf", func() {
			tr, err := Grow(context.Background(), ds, 3, gini(t))
			So(err, ShouldBeNil)
			leaf, ok := tr.Root.(*tree.Leaf)
			So(ok, ShouldBeTrue)
			So(leaf.Vote, ShouldEqual, 1)
		})
	})
}

func TestTrainForest(t *testing.T) {
	ctx := context.Background()
	Convey("Given identical datasets", t, func() {
		ds := mixed(t)
		datasets := []*dataset.Dataset{ds, ds, ds}
		Convey("training a forest with several workers", func() {
			f, err := TrainForest(ctx, datasets, 2, gini(t), WithWorkers(2))
			So(err, ShouldBeNil)
			Convey("grows identical trees in dataset order", func() {
				So(f.Trees, ShouldHaveLength, 3)
				So(f.Trees[1].String(), ShouldEqual, f.Trees[0].String())
				So(f.Trees[2].String(), ShouldEqual, f.Trees[0].String())
			})
			Convey("predicts like any of its trees", func() {
				for j := 0; j < ds.Count(); j++ {
					s := ds.Sample(j)
					expected, err := f.Trees[0].Predict(ctx, s)
					So(err, ShouldBeNil)
					got, err := f.Predict(ctx, s)
					So(err, ShouldBeNil)
					So(got, ShouldEqual, expected)
				}
			})
		})
	})
	Convey("Given a bootstrap of a dataset", t, func() {
		datasets, err := mixed(t).Bootstrap(4, 7)
		So(err, ShouldBeNil)
		Convey("training a forest grows a tree per sample", func() {
			f, err := TrainForest(ctx, datasets, 3, gini(t))
			So(err, ShouldBeNil)
			So(f.Trees, ShouldHaveLength, 4)
			for i, tr := range f.Trees {
				expected, err := Grow(ctx, datasets[i], 3, gini(t))
				So(err, ShouldBeNil)
				So(tr.String(), ShouldEqual, expected.String())
			}
		})
	})
	Convey("Training a forest with an empty dataset", t, func() {
		empty := mustDataset(t, []string{"a", "b", "y"}, nil)
		_, err := TrainForest(ctx, []*dataset.Dataset{mixed(t), empty}, 2, gini(t), WithWorkers(2))
		Convey("fails with ErrEmptyNode", func() {
			So(errors.Is(err, ErrEmptyNode), ShouldBeTrue)
		})
	})
	Convey("Training a forest without datasets fails", t, func() {
		_, err := TrainForest(ctx, nil, 2, gini(t))
		So(err, ShouldNotBeNil)
	})
}

func TestSeedAndWork(t *testing.T) {
	ctx := context.Background()
	Convey("Given a queue and a store", t, func() {
		q := queue.New()
		s := tree.NewMemoryStore()
		ds := separable(t)
		Convey("seeding with an unknown criterion fails", func() {
			err := Seed(ctx, "f", []*dataset.Dataset{ds}, 1, "xyz", q)
			var uce *splitting.UnknownCriterionError
			So(errors.As(err, &uce), ShouldBeTrue)
		})
		Convey("seeding a forest pushes a task per dataset", func() {
			err := Seed(ctx, "f", []*dataset.Dataset{ds, ds}, 1, "GINI", q)
			So(err, ShouldBeNil)
			pending, running, err := q.Count(ctx)
			So(err, ShouldBeNil)
			So(pending, ShouldEqual, 2)
			So(running, ShouldEqual, 0)
			Convey("and working the queue stores the trees", func() {
				So(Work(ctx, q, s), ShouldBeNil)
				pending, running, err = q.Count(ctx)
				So(err, ShouldBeNil)
				So(pending+running, ShouldEqual, 0)
				f, err := tree.LoadForest(ctx, s, "f", 2)
				So(err, ShouldBeNil)
				v, err := f.Predict(ctx, feature.MapSample{"X": 1})
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 1)
				So(f.Trees[0].Criterion, ShouldEqual, "gini")
			})
		})
	})
}
