package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

/*
Partition takes a number of chunks k and a seed and returns k disjoint
datasets that together hold every row of d. Rows are shuffled with a
random source seeded with seed before being dealt, so chunk sizes differ
by at most one and the same seed always gives the same chunks. An error is
returned if k is not positive or is larger than the number of rows.
*/
func (d *Dataset) Partition(k int, seed int64) ([]*Dataset, error) {
	if k <= 0 {
		return nil, fmt.Errorf("cannot partition dataset into %d chunks", k)
	}
	if k > len(d.inx) {
		return nil, fmt.Errorf("cannot partition %d rows into %d non-empty chunks", len(d.inx), k)
	}
	shuffled := d.shuffled(seed)
	chunks := make([]*Dataset, 0, k)
	start := 0
	for c := 0; c < k; c++ {
		size := len(shuffled) / k
		if c < len(shuffled)%k {
			size++
		}
		chunks = append(chunks, d.view(shuffled[start:start+size:start+size]))
		start += size
	}
	return chunks, nil
}

/*
Bootstrap takes a number of samples k and a seed and returns k datasets
with as many rows as d, drawn from d with replacement.
*/
func (d *Dataset) Bootstrap(k int, seed int64) ([]*Dataset, error) {
	if k <= 0 {
		return nil, fmt.Errorf("cannot draw %d bootstrap samples", k)
	}
	if len(d.inx) == 0 {
		return nil, fmt.Errorf("cannot draw bootstrap samples from an empty dataset")
	}
	r := rand.New(rand.NewSource(seed))
	samples := make([]*Dataset, 0, k)
	for s := 0; s < k; s++ {
		inx := make([]int, len(d.inx))
		for j := range inx {
			inx[j] = d.inx[r.Intn(len(d.inx))]
		}
		samples = append(samples, d.view(inx))
	}
	return samples, nil
}

/*
Split takes the fraction of rows to hold out for testing and a seed and
returns the training and the testing datasets. The testing dataset has
round(fraction * rows) rows picked at random, the training one the rest.
*/
func (d *Dataset) Split(testFraction float64, seed int64) (*Dataset, *Dataset, error) {
	if testFraction < 0 || testFraction > 1 || math.IsNaN(testFraction) {
		return nil, nil, fmt.Errorf("test fraction must be between 0 and 1, got %v", testFraction)
	}
	shuffled := d.shuffled(seed)
	n := int(math.Round(testFraction * float64(len(shuffled))))
	return d.view(shuffled[n:]), d.view(shuffled[:n:n]), nil
}

func (d *Dataset) shuffled(seed int64) []int {
	inx := make([]int, len(d.inx))
	copy(inx, d.inx)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(inx), func(i, j int) {
		inx[i], inx[j] = inx[j], inx[i]
	})
	return inx
}
