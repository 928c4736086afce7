/*
Package dataset provides the tables of numeric training data decision
trees are grown from.

A Dataset is a view on a table: the rows of the table are stored once and
every Dataset holds the indexes of the rows it contains. Subsetting and
resampling produce new views without copying rows.
*/
package dataset

import (
	"context"
	"fmt"

	"github.com/pbanos/sprout/feature"
)

type table struct {
	columns []string
	index   map[string]int
	rows    [][]float64
}

/*
Dataset represents a collection of rows sharing the same columns. The last
column is the label and holds only 0 or 1 values.
*/
type Dataset struct {
	t   *table
	inx []int
}

/*
New takes a slice of column names and a slice of rows and returns a dataset
with them, or an error if there are no columns, a column name is empty or
repeated, a row does not have a value for every column or a label value is not 0 or 1.
The dataset keeps the given rows; they should not be modified afterwards.
*/
func New(columns []string, rows [][]float64) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset needs at least a label column")
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, ok := index[c]; ok {
			return nil, fmt.Errorf("column %q is repeated", c)
		}
		index[c] = i
	}
	label := len(columns) - 1
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(r), len(columns))
		}
		if r[label] != 0 && r[label] != 1 {
			return nil, fmt.Errorf("row %d has label %v for %s, expected 0 or 1", i, r[label], columns[label])
		}
	}
	inx := make([]int, len(rows))
	for i := range inx {
		inx[i] = i
	}
	cs := make([]string, len(columns))
	copy(cs, columns)
	return &Dataset{&table{cs, index, rows}, inx}, nil
}

/*
NewWithMetadata takes the header and rows of a table and metadata describing
it and returns a dataset with the metadata features, in their order, followed
by the metadata label. Columns of the table not mentioned by the metadata are
dropped. A nil metadata uses the table as is. An error is returned if the header
lacks a column the metadata names or if New fails with the resulting rows.
*/
func NewWithMetadata(header []string, rows [][]float64, md *feature.Metadata) (*Dataset, error) {
	if md == nil {
		return New(header, rows)
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[h] = i
	}
	columns := md.Columns()
	projection := make([]int, len(columns))
	for i, c := range columns {
		p, ok := positions[c]
		if !ok {
			return nil, fmt.Errorf("table has no column %q", c)
		}
		projection[i] = p
	}
	projected := make([][]float64, len(rows))
	for i, r := range rows {
		if len(r) != len(header) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(r), len(header))
		}
		pr := make([]float64, len(projection))
		for j, p := range projection {
			pr[j] = r[p]
		}
		projected[i] = pr
	}
	return New(columns, projected)
}

// Columns returns the names of the dataset columns, label last
func (d *Dataset) Columns() []string {
	cs := make([]string, len(d.t.columns))
	copy(cs, d.t.columns)
	return cs
}

// Features returns the names of the dataset columns but the label
func (d *Dataset) Features() []string {
	cs := d.Columns()
	return cs[:len(cs)-1]
}

// Label returns the name of the label column
func (d *Dataset) Label() string {
	return d.t.columns[len(d.t.columns)-1]
}

// Metadata returns the metadata describing the dataset columns
func (d *Dataset) Metadata() *feature.Metadata {
	return &feature.Metadata{Features: d.Features(), Label: d.Label()}
}

// Count returns the number of rows in the dataset
func (d *Dataset) Count() int {
	return len(d.inx)
}

/*
LabelCounts returns the number of rows with label 0 and the number of rows
with label 1.
*/
func (d *Dataset) LabelCounts() [2]int {
	var counts [2]int
	label := len(d.t.columns) - 1
	for _, i := range d.inx {
		if d.t.rows[i][label] == 1 {
			counts[1]++
		} else {
			counts[0]++
		}
	}
	return counts
}

/*
Values returns the values of the given column for every row in the
dataset, in row order, or an error if the dataset has no such column.
*/
func (d *Dataset) Values(column string) ([]float64, error) {
	c, ok := d.t.index[column]
	if !ok {
		return nil, fmt.Errorf("dataset has no column %q", column)
	}
	values := make([]float64, len(d.inx))
	for j, i := range d.inx {
		values[j] = d.t.rows[i][c]
	}
	return values, nil
}

// Labels returns the label of every row in the dataset, in row order
func (d *Dataset) Labels() []float64 {
	values, _ := d.Values(d.Label())
	return values
}

/*
Rows returns the rows in the dataset, in order. The returned rows are
shared with the dataset and must not be modified.
*/
func (d *Dataset) Rows() [][]float64 {
	rows := make([][]float64, len(d.inx))
	for j, i := range d.inx {
		rows[j] = d.t.rows[i]
	}
	return rows
}

// Sample returns the j-th row of the dataset as a feature.Sample
func (d *Dataset) Sample(j int) feature.Sample {
	return &rowSample{d.t, d.inx[j]}
}

/*
SubsetWith takes a feature.Criterion and returns the dataset of the rows
that satisfy it or an error if the dataset has no column for its feature.
*/
func (d *Dataset) SubsetWith(c *feature.Criterion) (*Dataset, error) {
	col, ok := d.t.index[c.Feature]
	if !ok {
		return nil, fmt.Errorf("dataset has no column %q", c.Feature)
	}
	inx := make([]int, 0, len(d.inx))
	for _, i := range d.inx {
		if c.SatisfiedByValue(d.t.rows[i][col]) {
			inx = append(inx, i)
		}
	}
	return &Dataset{d.t, inx}, nil
}

func (d *Dataset) String() string {
	return fmt.Sprintf("{Dataset %d rows %v}", len(d.inx), d.t.columns)
}

func (d *Dataset) view(inx []int) *Dataset {
	return &Dataset{d.t, inx}
}

type rowSample struct {
	t   *table
	row int
}

func (rs *rowSample) ValueFor(_ context.Context, name string) (float64, error) {
	c, ok := rs.t.index[name]
	if !ok {
		return 0, &feature.MissingFeatureError{Feature: name}
	}
	return rs.t.rows[rs.row][c], nil
}
