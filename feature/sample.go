package feature

import (
	"context"
	"fmt"
)

/*
Sample is an interface for something that can satisfy a Criterion.

Its ValueFor method returns the value corresponding to the feature
whose name is passed as parameter. Implementations return a
*MissingFeatureError when they have no value for it.
*/
type Sample interface {
	ValueFor(ctx context.Context, name string) (float64, error)
}

// MissingFeatureError is returned when a sample has no value for a
// feature that is needed.
type MissingFeatureError struct {
	Feature string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("sample has no value for feature %q", e.Feature)
}

// MapSample is a Sample backed by a map of feature names to values
type MapSample map[string]float64

// ValueFor returns the value stored for the feature or a *MissingFeatureError
func (ms MapSample) ValueFor(_ context.Context, name string) (float64, error) {
	v, ok := ms[name]
	if !ok {
		return 0, &MissingFeatureError{Feature: name}
	}
	return v, nil
}
