package sprout

import (
	mapset "github.com/deckarep/golang-set"
	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/feature"
	"github.com/pbanos/sprout/splitting"
	"golang.org/x/exp/slices"
)

/*
Partition represents a split of a dataset on a feature at a threshold
into the rows with values not above it (Left) and the ones above it
(Right), with the weighted Gini impurity of the split as Score.
*/
type Partition struct {
	Feature   string
	Threshold float64
	Score     float64
	Left      *dataset.Dataset
	Right     *dataset.Dataset
}

// LeftCriterion returns the criterion the rows in Left satisfy
func (p *Partition) LeftCriterion() *feature.Criterion {
	return feature.NewCriterion(p.Feature, feature.LessOrEqual, p.Threshold)
}

// RightCriterion returns the criterion the rows in Right satisfy
func (p *Partition) RightCriterion() *feature.Criterion {
	return feature.NewCriterion(p.Feature, feature.Greater, p.Threshold)
}

/*
selectBestAttribute scores every feature of ds not in used with the
criterion and returns the best scoring one, the first one in column order
among equally scoring ones. The returned bool is false when every feature
is used.
*/
func selectBestAttribute(ds *dataset.Dataset, used mapset.Set, c *splitting.Criterion) (string, bool, error) {
	labels := ds.Labels()
	var best string
	var bestScore float64
	var found bool
	for _, f := range ds.Features() {
		if used.Contains(f) {
			continue
		}
		x, err := ds.Values(f)
		if err != nil {
			return "", false, err
		}
		score := c.Score(x, labels)
		if !found || c.Direction.Better(score, bestScore) {
			best = f
			bestScore = score
			found = true
		}
	}
	return best, found, nil
}

/*
selectBestThreshold tries the midpoints between consecutive distinct
values of the feature in ds as thresholds and returns the partition with
the lowest weighted Gini impurity, the lowest threshold among equally
scoring ones. Thresholds leaving a side empty are skipped; nil is returned
when none is left.
*/
func selectBestThreshold(ds *dataset.Dataset, f string) (*Partition, error) {
	values, err := ds.Values(f)
	if err != nil {
		return nil, err
	}
	labels := ds.Labels()
	distinct := slices.Clone(values)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	var best *Partition
	for i := 0; i+1 < len(distinct); i++ {
		threshold := distinct[i] + (distinct[i+1]-distinct[i])/2
		var left, right [2]int
		for j, v := range values {
			if v <= threshold {
				left[int(labels[j])]++
			} else {
				right[int(labels[j])]++
			}
		}
		if left[0]+left[1] == 0 || right[0]+right[1] == 0 {
			continue
		}
		score := splitting.WeightedGini(left, right)
		if best == nil || score < best.Score {
			best = &Partition{Feature: f, Threshold: threshold, Score: score}
		}
	}
	if best == nil {
		return nil, nil
	}
	if best.Left, err = ds.SubsetWith(best.LeftCriterion()); err != nil {
		return nil, err
	}
	if best.Right, err = ds.SubsetWith(best.RightCriterion()); err != nil {
		return nil, err
	}
	return best, nil
}
