package tree

import (
	"context"
	"errors"
	"testing"

	"github.com/pbanos/sprout/feature"
	. "github.com/smartystreets/goconvey/convey"
)

// stump returns a tree splitting on x at threshold 0.5, sending 5 rows
// with label 0 and 1 with label 1 left and 4 rows with label 1 right.
func stump() *Tree {
	left := NewLeaf(1, Counts{5, 1}, feature.NewCriterion("x", feature.LessOrEqual, 0.5))
	right := NewLeaf(1, Counts{0, 4}, feature.NewCriterion("x", feature.Greater, 0.5))
	root := NewInternal(0, Counts{5, 5}, nil, "x", 0.5, left, right)
	return New(root, "y", []string{"x"}, "gini", 3)
}

// constant returns a single-leaf tree voting v.
func constant(v int) *Tree {
	counts := Counts{1, 0}
	if v == 1 {
		counts = Counts{0, 1}
	}
	return New(NewLeaf(0, counts, nil), "y", []string{"x"}, "gini", 0)
}

func TestCountsVote(t *testing.T) {
	testCases := []struct {
		c        Counts
		expected int
	}{
		{Counts{3, 1}, 0},
		{Counts{1, 3}, 1},
		{Counts{2, 2}, 1},
		{Counts{0, 0}, 1},
	}
	for _, tc := range testCases {
		if got := tc.c.Vote(); got != tc.expected {
			t.Errorf("%v.Vote() = %d, expected %d", tc.c, got, tc.expected)
		}
	}
}

func TestPredict(t *testing.T) {
	ctx := context.Background()
	Convey("Given a tree splitting on x at 0.5", t, func() {
		tr := stump()
		Convey("values below the threshold go left", func() {
			v, err := tr.Predict(ctx, feature.MapSample{"x": 0.2})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)
		})
		Convey("values equal to the threshold go left", func() {
			v, err := tr.Predict(ctx, feature.MapSample{"x": 0.5})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)
		})
		Convey("values above the threshold go right", func() {
			v, err := tr.Predict(ctx, feature.MapSample{"x": 0.9})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1)
		})
		Convey("samples lacking the split feature fail with MissingFeatureError", func() {
			_, err := tr.Predict(ctx, feature.MapSample{"z": 0.9})
			var mfe *feature.MissingFeatureError
			So(errors.As(err, &mfe), ShouldBeTrue)
			So(mfe.Feature, ShouldEqual, "x")
		})
	})
	Convey("A single leaf tree predicts its vote for any sample", t, func() {
		v, err := constant(1).Predict(ctx, feature.MapSample{})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 1)
	})
}

func TestForestPredict(t *testing.T) {
	ctx := context.Background()
	s := feature.MapSample{"x": 1}
	Convey("A forest predicts with the mean of its tree votes", t, func() {
		testCases := []struct {
			votes    []int
			expected int
			mean     float64
		}{
			{[]int{1, 0, 1}, 1, 2.0 / 3},
			{[]int{1, 0}, 1, 0.5},
			{[]int{0, 0, 1}, 0, 1.0 / 3},
			{[]int{0}, 0, 0},
		}
		for _, tc := range testCases {
			trees := make([]*Tree, 0, len(tc.votes))
			for _, v := range tc.votes {
				trees = append(trees, constant(v))
			}
			f := NewForest(trees...)
			mean, err := f.Vote(ctx, s)
			So(err, ShouldBeNil)
			So(mean, ShouldAlmostEqual, tc.mean, 1e-9)
			p, err := f.Predict(ctx, s)
			So(err, ShouldBeNil)
			So(p, ShouldEqual, tc.expected)
		}
	})
	Convey("An empty forest cannot predict", t, func() {
		_, err := NewForest().Predict(ctx, s)
		So(err, ShouldEqual, ErrEmptyForest)
	})
	Convey("A forest fails when one of its trees fails", t, func() {
		_, err := NewForest(constant(1), stump()).Predict(ctx, feature.MapSample{})
		var mfe *feature.MissingFeatureError
		So(errors.As(err, &mfe), ShouldBeTrue)
	})
}

func TestRender(t *testing.T) {
	expected := "[5 0/5 1]\n" +
		"| x <= 0.5: [5 0/1 1] => 0\n" +
		"| x > 0.5: [0 0/4 1] => 1\n"
	if got := stump().String(); got != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, got)
	}
	if got := constant(1).String(); got != "[0 0/1 1] => 1\n" {
		t.Errorf("unexpected rendering of a single leaf tree: %q", got)
	}
}

func TestTraverseAndStats(t *testing.T) {
	var preorder, postorder []int
	tr := stump()
	tr.Traverse(context.Background(), false, func(_ context.Context, n Node) error {
		preorder = append(preorder, n.NodeInfo().Counts.Total())
		return nil
	})
	tr.Traverse(context.Background(), true, func(_ context.Context, n Node) error {
		postorder = append(postorder, n.NodeInfo().Counts.Total())
		return nil
	})
	if len(preorder) != 3 || preorder[0] != 10 || preorder[1] != 6 {
		t.Errorf("unexpected preorder %v", preorder)
	}
	if len(postorder) != 3 || postorder[2] != 10 || postorder[0] != 6 {
		t.Errorf("unexpected postorder %v", postorder)
	}
	nodes, leaves, depth := tr.Stats()
	if nodes != 3 || leaves != 2 || depth != 1 {
		t.Errorf("expected 3 nodes, 2 leaves and depth 1, got %d, %d, %d", nodes, leaves, depth)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tr.Traverse(ctx, false, func(context.Context, Node) error { return nil }); err == nil {
		t.Errorf("expected error traversing with a cancelled context")
	}
}

func TestValidate(t *testing.T) {
	if err := stump().Validate(); err != nil {
		t.Errorf("unexpected error validating a well formed tree: %v", err)
	}
	broken := stump()
	broken.Root.(*Internal).Right = nil
	if err := broken.Validate(); err == nil {
		t.Errorf("expected error for an internal node without right child")
	}
	wrongDepth := stump()
	wrongDepth.Root.(*Internal).Left.NodeInfo().Depth = 2
	if err := wrongDepth.Validate(); err == nil {
		t.Errorf("expected error for a child with the wrong depth")
	}
	wrongCriterion := stump()
	wrongCriterion.Root.(*Internal).Left.NodeInfo().Criterion = feature.NewCriterion("x", feature.Greater, 0.5)
	if err := wrongCriterion.Validate(); err == nil {
		t.Errorf("expected error for a child with the wrong criterion")
	}
}
