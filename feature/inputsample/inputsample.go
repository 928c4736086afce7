/*
Package inputsample provides an implementation of feature.Sample that is read
from an io.Reader.
*/
package inputsample

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pbanos/sprout/feature"
)

/*
readSample represents a sample whose feature values
are retrieved from a reader. A feature value will be
requested using a FeatureValueRequester before reading it.
*/
type readSample struct {
	obtainedValues        map[string]float64
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              map[string]bool
}

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature string) error
	RejectValueFor(feature string, value string) error
}

/*
New takes an io.Reader, a slice of feature names, a
FeatureValueRequester and an undefinedValue coding string
and returns a feature.Sample.

The returned Sample ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and
then parsing the values from the reader, one per line. Lines
that do not hold a number are rejected with the
FeatureValueRequester's RejectValueFor method and reading goes
on. A line with the undefinedValue string makes the feature
missing.

Values are requested only once; later calls for the same
feature return the value obtained the first time.
*/
func New(r io.Reader, features []string, featureValueRequester FeatureValueRequester, undefinedValue string) feature.Sample {
	known := make(map[string]bool, len(features))
	for _, f := range features {
		known[f] = true
	}
	return &readSample{make(map[string]float64), undefinedValue, bufio.NewScanner(r), featureValueRequester, known}
}

func (rs *readSample) ValueFor(ctx context.Context, name string) (float64, error) {
	if value, ok := rs.obtainedValues[name]; ok {
		return value, nil
	}
	if !rs.features[name] {
		return 0, fmt.Errorf("have no information about feature %s, do not know how to read its value", name)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := rs.featureValueRequester.RequestValueFor(name)
	if err != nil {
		return 0, err
	}
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == rs.undefinedValue {
			return 0, &feature.MissingFeatureError{Feature: name}
		}
		value, perr := strconv.ParseFloat(line, 64)
		if perr == nil {
			rs.obtainedValues[name] = value
			return value, nil
		}
		err = rs.featureValueRequester.RejectValueFor(name, line)
		if err != nil {
			return 0, err
		}
	}
	if err = rs.scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("EOF when requesting value for %s", name)
}
