package feature

import (
	"context"
	"fmt"
	"strconv"
)

// Symbol is the comparison a Criterion applies to a feature value
type Symbol string

const (
	// LessOrEqual is satisfied by values not above the threshold
	LessOrEqual Symbol = "<="
	// Greater is satisfied by values above the threshold
	Greater Symbol = ">"
)

/*
ParseSymbol takes a string and returns the Symbol it represents or an error
if it is not one of "<=" and ">".
*/
func ParseSymbol(s string) (Symbol, error) {
	switch Symbol(s) {
	case LessOrEqual, Greater:
		return Symbol(s), nil
	}
	return "", fmt.Errorf("unknown comparison symbol %q", s)
}

/*
Criterion represents a constraint on a feature: its value must be on one
side of a threshold. Each branch of a split node carries the criterion its
samples satisfy.
*/
type Criterion struct {
	Feature   string
	Symbol    Symbol
	Threshold float64
}

/*
NewCriterion takes a feature name, a comparison symbol and a threshold
and returns a Criterion with them.
*/
func NewCriterion(feature string, symbol Symbol, threshold float64) *Criterion {
	return &Criterion{Feature: feature, Symbol: symbol, Threshold: threshold}
}

/*
SatisfiedBy receives a sample and returns a boolean indicating if the
sample's value for the feature satisfies the criterion. It returns the
sample's error if the value cannot be obtained.
*/
func (c *Criterion) SatisfiedBy(ctx context.Context, s Sample) (bool, error) {
	v, err := s.ValueFor(ctx, c.Feature)
	if err != nil {
		return false, err
	}
	return c.SatisfiedByValue(v), nil
}

// SatisfiedByValue returns whether v satisfies the criterion
func (c *Criterion) SatisfiedByValue(v float64) bool {
	if c.Symbol == Greater {
		return v > c.Threshold
	}
	return v <= c.Threshold
}

func (c *Criterion) String() string {
	return fmt.Sprintf("%s %s %s", c.Feature, c.Symbol, FormatThreshold(c.Threshold))
}

// FormatThreshold formats a threshold with the shortest representation
// that reads back as the same value.
func FormatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}
