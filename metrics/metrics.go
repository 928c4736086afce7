/*
Package metrics evaluates the predictions of trees and forests against
labelled datasets and renders the resulting reports.
*/
package metrics

import (
	"context"
	"fmt"

	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/tree"
)

/*
Report holds the result of evaluating a predictor on a dataset. Confusion
is indexed first by the true label and then by the predicted one.
*/
type Report struct {
	Name      string     `yaml:"name,omitempty"`
	Count     int        `yaml:"count"`
	Accuracy  float64    `yaml:"accuracy"`
	ErrorRate float64    `yaml:"errorRate"`
	MacroF1   float64    `yaml:"macroF1"`
	F1        [2]float64 `yaml:"f1"`
	Confusion [2][2]int  `yaml:"confusion"`
}

/*
Evaluate takes a context, a predictor and a dataset and returns a report
comparing the predictions for every row of the dataset to its label, or
an error if the dataset is empty or a prediction fails.
*/
func Evaluate(ctx context.Context, p tree.Predictor, ds *dataset.Dataset) (*Report, error) {
	if ds.Count() == 0 {
		return nil, fmt.Errorf("evaluating on an empty dataset")
	}
	labels := ds.Labels()
	r := &Report{Count: ds.Count()}
	for j := 0; j < ds.Count(); j++ {
		prediction, err := p.Predict(ctx, ds.Sample(j))
		if err != nil {
			return nil, fmt.Errorf("predicting row %d: %w", j, err)
		}
		r.Confusion[int(labels[j])][prediction]++
	}
	r.compute()
	return r, nil
}

// Named returns a copy of the report with the given name
func (r *Report) Named(name string) *Report {
	nr := *r
	nr.Name = name
	return &nr
}

func (r *Report) compute() {
	correct := r.Confusion[0][0] + r.Confusion[1][1]
	r.Accuracy = float64(correct) / float64(r.Count)
	r.ErrorRate = 1 - r.Accuracy
	for class := 0; class < 2; class++ {
		tp := r.Confusion[class][class]
		var predicted, actual int
		for other := 0; other < 2; other++ {
			predicted += r.Confusion[other][class]
			actual += r.Confusion[class][other]
		}
		var precision, recall float64
		if predicted > 0 {
			precision = float64(tp) / float64(predicted)
		}
		if actual > 0 {
			recall = float64(tp) / float64(actual)
		}
		if precision+recall > 0 {
			r.F1[class] = 2 * precision * recall / (precision + recall)
		}
	}
	r.MacroF1 = (r.F1[0] + r.F1[1]) / 2
}
