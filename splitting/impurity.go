package splitting

import "math"

// Entropy returns the binary entropy, in bits, of a sequence of labels.
// It is 0 for an empty sequence and for sequences holding a single class.
func Entropy(values []float64) float64 {
	zeros, ones := countBinary(values)
	if zeros == 0 || ones == 0 {
		return 0
	}
	total := float64(len(values))
	p0 := float64(zeros) / total
	p1 := float64(ones) / total
	return -(p0*math.Log2(p0) + p1*math.Log2(p1))
}

/*
MutualInformation returns the information gained on y by splitting it on
x: the entropy of y minus the entropy of y within each partition of x,
weighted by the partition sizes, floored at 0 so rounding noise cannot
rank an independent attribute below a constant one. Higher is better.
*/
func MutualInformation(x, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	y0, y1 := partition(x, y)
	total := float64(len(x))
	return math.Max(0, Entropy(y)-float64(len(y0))/total*Entropy(y0)-float64(len(y1))/total*Entropy(y1))
}

/*
GiniIndex returns the Gini impurity of y within each partition of x,
weighted by the partition sizes. Lower is better.
*/
func GiniIndex(x, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	y0, y1 := partition(x, y)
	total := float64(len(x))
	return float64(len(y0))/total*impurity(y0) + float64(len(y1))/total*impurity(y1)
}

/*
LowestVariance returns p*(1-p), p being the fraction of x values equal to 1.
It does not look at y at all, so it favours attributes that are nearly
constant rather than attributes that separate the labels. Lower is
better.
*/
func LowestVariance(x, _ []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	_, ones := countBinary(x)
	p := float64(ones) / float64(len(x))
	return p * (1 - p)
}

// WeightedGini returns the Gini impurity of several groups of label counts,
// each group weighted by its share of the total count.
func WeightedGini(groups ...[2]int) float64 {
	var total int
	for _, g := range groups {
		total += g[0] + g[1]
	}
	if total == 0 {
		return 0
	}
	var score float64
	for _, g := range groups {
		n := g[0] + g[1]
		if n == 0 {
			continue
		}
		p0 := float64(g[0]) / float64(n)
		p1 := float64(g[1]) / float64(n)
		score += float64(n) / float64(total) * (1 - p0*p0 - p1*p1)
	}
	return score
}

func impurity(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	zeros, ones := countBinary(values)
	total := float64(len(values))
	p0 := float64(zeros) / total
	p1 := float64(ones) / total
	return 1 - p0*p0 - p1*p1
}

func countBinary(values []float64) (zeros, ones int) {
	for _, v := range values {
		switch v {
		case 0:
			zeros++
		case 1:
			ones++
		}
	}
	return
}

// partition returns the labels of the rows where x is 0 and where x is 1.
func partition(x, y []float64) (y0, y1 []float64) {
	for i, v := range x {
		if i >= len(y) {
			break
		}
		switch v {
		case 0:
			y0 = append(y0, y[i])
		case 1:
			y1 = append(y1, y[i])
		}
	}
	return
}
