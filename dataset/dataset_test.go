package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/pbanos/sprout/feature"
)

func newTestDataset(t *testing.T) *Dataset {
	ds, err := New([]string{"a", "b", "y"}, [][]float64{
		{0, 1.5, 0},
		{1, 2.5, 1},
		{0, 3.5, 1},
		{1, 0.5, 0},
		{1, 1.0, 1},
	})
	if err != nil {
		t.Fatalf("unexpected error building dataset: %v", err)
	}
	return ds
}

func TestNewValidation(t *testing.T) {
	testCases := []struct {
		name    string
		columns []string
		rows    [][]float64
	}{
		{"no columns", nil, nil},
		{"repeated column", []string{"a", "a"}, nil},
		{"unnamed feature", []string{"", "y"}, [][]float64{{1, 0}}},
		{"unnamed label", []string{"a", ""}, nil},
		{"short row", []string{"a", "y"}, [][]float64{{1}}},
		{"bad label", []string{"a", "y"}, [][]float64{{1, 2}}},
	}
	for _, tc := range testCases {
		if _, err := New(tc.columns, tc.rows); err == nil {
			t.Errorf("%s: expected an error, got nil", tc.name)
		}
	}
}

func TestAccessors(t *testing.T) {
	ds := newTestDataset(t)
	if ds.Count() != 5 {
		t.Errorf("expected 5 rows, got %d", ds.Count())
	}
	if ds.Label() != "y" {
		t.Errorf("expected label y, got %q", ds.Label())
	}
	if fs := ds.Features(); len(fs) != 2 || fs[0] != "a" || fs[1] != "b" {
		t.Errorf("expected features [a b], got %v", fs)
	}
	if counts := ds.LabelCounts(); counts != [2]int{2, 3} {
		t.Errorf("expected label counts [2 3], got %v", counts)
	}
	values, err := ds.Values("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[0] != 1.5 || values[4] != 1.0 {
		t.Errorf("unexpected values for b: %v", values)
	}
	if _, err = ds.Values("c"); err == nil {
		t.Errorf("expected error for unknown column")
	}
	v, err := ds.Sample(1).ValueFor(context.Background(), "b")
	if err != nil || v != 2.5 {
		t.Errorf("expected 2.5, nil for sample 1 b; got %v, %v", v, err)
	}
	_, err = ds.Sample(1).ValueFor(context.Background(), "z")
	var mfe *feature.MissingFeatureError
	if !errors.As(err, &mfe) {
		t.Errorf("expected missing feature error, got %v", err)
	}
}

func TestSubsetWith(t *testing.T) {
	ds := newTestDataset(t)
	left, err := ds.SubsetWith(feature.NewCriterion("b", feature.LessOrEqual, 1.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	right, err := ds.SubsetWith(feature.NewCriterion("b", feature.Greater, 1.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left.Count() != 3 || right.Count() != 2 {
		t.Errorf("expected 3 and 2 rows, got %d and %d", left.Count(), right.Count())
	}
	if left.LabelCounts() != [2]int{2, 1} {
		t.Errorf("expected left label counts [2 1], got %v", left.LabelCounts())
	}
	nested, err := right.SubsetWith(feature.NewCriterion("a", feature.LessOrEqual, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nested.Count() != 1 || nested.Rows()[0][1] != 3.5 {
		t.Errorf("expected only the row with b 3.5, got %v", nested.Rows())
	}
	if ds.Count() != 5 {
		t.Errorf("subsetting modified the parent dataset")
	}
	if _, err = ds.SubsetWith(feature.NewCriterion("zz", feature.Greater, 0)); err == nil {
		t.Errorf("expected error subsetting on unknown column")
	}
}

func TestNewWithMetadata(t *testing.T) {
	md := &feature.Metadata{Features: []string{"c", "a"}, Label: "y"}
	ds, err := NewWithMetadata([]string{"y", "a", "b", "c"}, [][]float64{{1, 2, 3, 4}}, md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cols := ds.Columns()
	if len(cols) != 3 || cols[0] != "c" || cols[1] != "a" || cols[2] != "y" {
		t.Errorf("expected columns [c a y], got %v", cols)
	}
	if r := ds.Rows()[0]; r[0] != 4 || r[1] != 2 || r[2] != 1 {
		t.Errorf("expected row [4 2 1], got %v", r)
	}
	md.Features = []string{"missing"}
	if _, err = NewWithMetadata([]string{"y", "a"}, nil, md); err == nil {
		t.Errorf("expected error for a missing column")
	}
}
