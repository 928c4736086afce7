/*
Package splitting provides the scoring functions used to choose the
attribute a decision tree node is split on.

Every scoring function takes an attribute column X and a label column Y of
the same length, with labels in {0, 1}, and splits the rows into the
partition where X is exactly 0 and the partition where X is exactly 1.
Values that are neither fall in no partition but still count towards the
totals used to weight them.
*/
package splitting

import (
	"fmt"
	"sort"
	"strings"
)

// Direction tells whether a criterion score improves as it grows
// or as it shrinks.
type Direction int

const (
	// Minimize marks criteria whose best score is the lowest one
	Minimize Direction = iota
	// Maximize marks criteria whose best score is the highest one
	Maximize
)

/*
Better returns whether score strictly improves on best in the direction d.
Equal scores never improve on each other, so the first candidate seen wins
ties.
*/
func (d Direction) Better(score, best float64) bool {
	if d == Maximize {
		return score > best
	}
	return score < best
}

func (d Direction) String() string {
	if d == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Func scores an attribute column x against a label column y.
type Func func(x, y []float64) float64

/*
Criterion is a named scoring function and the direction in which its
scores improve.
*/
type Criterion struct {
	Name      string
	Score     Func
	Direction Direction
}

func (c *Criterion) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Direction)
}

// Names of the registered criteria
const (
	GiniName              = "gini"
	MutualInformationName = "mutual_information"
	LowestVarianceName    = "lowest_variance"
)

var registry = map[string]*Criterion{
	GiniName:              {Name: GiniName, Score: GiniIndex, Direction: Minimize},
	MutualInformationName: {Name: MutualInformationName, Score: MutualInformation, Direction: Maximize},
	LowestVarianceName:    {Name: LowestVarianceName, Score: LowestVariance, Direction: Minimize},
}

// UnknownCriterionError is returned when resolving a name that does not
// match any registered criterion.
type UnknownCriterionError struct {
	Name string
}

func (e *UnknownCriterionError) Error() string {
	return fmt.Sprintf("unknown splitting criterion %q (available: %s)", e.Name, strings.Join(Names(), ", "))
}

/*
Resolve takes the name of a criterion and returns the registered criterion
with that name, ignoring case. It returns an *UnknownCriterionError if no
criterion is registered under the name.
*/
func Resolve(name string) (*Criterion, error) {
	c, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &UnknownCriterionError{Name: name}
	}
	return c, nil
}

// Names returns the sorted names of the registered criteria
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
