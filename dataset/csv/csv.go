/*
Package csv reads datasets from and writes datasets to delimited text:
comma separated values, or tab separated values for files with a .tsv
extension.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/feature"
)

/*
Writer is an interface for a delimited stream to which
rows can be written.
*/
type Writer interface {
	// Write will attempt to write the given rows
	// and will return the actually written number
	// of rows and an error (if not all rows
	// could be written)
	Write([][]float64) (int, error)
	// Count returns the total number of rows written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count   int
	columns int
	w       *csv.Writer
}

/*
DelimiterFor takes a file path and returns the delimiter used to read and
write it: a tab for paths with the .tsv extension, a comma otherwise.
*/
func DelimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

/*
ReadTable takes an io.Reader for a delimited stream and the delimiter and
returns the header, or first row, and the rest of the rows parsed as
float64 values, or an error. Every row must have as many values as the
header.
*/
func ReadTable(reader io.Reader, comma rune) ([]string, [][]float64, error) {
	var rows [][]float64
	header, err := ReadTableByRow(reader, comma, func(_ int, row []float64) (bool, error) {
		rows = append(rows, row)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return header, rows, nil
}

/*
ReadTableByRow takes an io.Reader for a delimited stream, the delimiter and
a lambda function on an integer and a row. It parses the header and then
each row, calling the lambda function with the row index and values. If the
lambda function returns true, it will continue processing the next row,
otherwise it will stop. It returns the header and an error if something goes
wrong when reading or parsing a row.
*/
func ReadTableByRow(reader io.Reader, comma rune, lambda func(int, []float64) (bool, error)) ([]string, error) {
	r := csv.NewReader(reader)
	r.Comma = comma
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	for l := 2; ; l++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, row)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return header, nil
}

/*
ReadDataset takes an io.Reader for a delimited stream, the delimiter and an
optional feature.Metadata and returns the dataset read from it or an error.
Without metadata, the last column of the header is taken as the label.
*/
func ReadDataset(reader io.Reader, comma rune, md *feature.Metadata) (*dataset.Dataset, error) {
	header, rows, err := ReadTable(reader, comma)
	if err != nil {
		return nil, err
	}
	return dataset.NewWithMetadata(header, rows, md)
}

/*
ReadDatasetFromFilePath takes a filepath string and an optional
feature.Metadata, opens the file to which the filepath points to and uses
ReadDataset to return the dataset in it, with the delimiter given by
DelimiterFor. If the filepath is "", os.Stdin is read as CSV instead.
*/
func ReadDatasetFromFilePath(path string, md *feature.Metadata) (*dataset.Dataset, error) {
	f, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %v", err)
	}
	defer f.Close()
	ds, err := ReadDataset(f, DelimiterFor(path), md)
	if err != nil {
		err = fmt.Errorf("parsing file %s: %v", path, err)
	}
	return ds, err
}

/*
ReadSamples takes an io.Reader for a delimited stream and the delimiter and
returns a feature.MapSample for each row, keyed by the header names. The
rows need not have a label column. Empty values and the '?' string are left
out of the sample, so predicting on it fails for that feature.
*/
func ReadSamples(reader io.Reader, comma rune) ([]feature.MapSample, error) {
	r := csv.NewReader(reader)
	r.Comma = comma
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	var samples []feature.MapSample
	for l := 2; ; l++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		s := make(feature.MapSample, len(header))
		for i, v := range record {
			v = strings.TrimSpace(v)
			if v == "" || v == "?" {
				continue
			}
			value, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing line %d: converting %s to float64: %v", l, v, err)
			}
			s[strings.TrimSpace(header[i])] = value
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// ReadSamplesFromFilePath is ReadSamples on the file at path, or os.Stdin if
// path is "".
func ReadSamplesFromFilePath(path string) ([]feature.MapSample, error) {
	f, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	defer f.Close()
	samples, err := ReadSamples(f, DelimiterFor(path))
	if err != nil {
		err = fmt.Errorf("parsing file %s: %v", path, err)
	}
	return samples, err
}

/*
NewWriter takes an io.Writer, a slice of column names and the delimiter
and returns a Writer that will write rows on the io.Writer after writing
the column names as header.
*/
func NewWriter(writer io.Writer, columns []string, comma rune) (Writer, error) {
	w := csv.NewWriter(writer)
	w.Comma = comma
	err := w.Write(columns)
	if err != nil {
		return nil, fmt.Errorf("writing header: %v", err)
	}
	return &csvWriter{columns: len(columns), w: w}, nil
}

/*
WriteDataset takes a writer, a dataset and the delimiter and dumps the
dataset to the writer. It returns an error if something went wrong when
writing.
*/
func WriteDataset(writer io.Writer, ds *dataset.Dataset, comma rune) error {
	cw, err := NewWriter(writer, ds.Columns(), comma)
	if err != nil {
		return err
	}
	_, err = cw.Write(ds.Rows())
	if err != nil {
		return err
	}
	return cw.Flush()
}

/*
WriteDatasetToFilePath creates the file at path and writes the dataset to
it with the delimiter given by DelimiterFor.
*/
func WriteDatasetToFilePath(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %v", path, err)
	}
	err = WriteDataset(f, ds, DelimiterFor(path))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(rows [][]float64) (int, error) {
	for n, row := range rows {
		if len(row) != cw.columns {
			return n, fmt.Errorf("row %d has %d values, expected %d", cw.count+1, len(row), cw.columns)
		}
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		err := cw.w.Write(record)
		if err != nil {
			return n, fmt.Errorf("writing row %d: %v", cw.count+1, err)
		}
		cw.count++
	}
	return len(rows), nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

func parseRow(record []string) ([]float64, error) {
	row := make([]float64, len(record))
	for i, v := range record {
		value, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("converting %s to float64: %v", v, err)
		}
		row[i] = value
	}
	return row, nil
}

func open(path string) (*os.File, error) {
	if path == "" {
		return os.Stdin, nil
	}
	return os.Open(path)
}
