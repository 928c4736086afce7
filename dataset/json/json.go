/*
Package json encodes datasets as JSON documents holding their columns and
rows, so they can travel along with queued tasks.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/sprout/dataset"
)

type jsonDataset struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

/*
Encode takes a dataset and returns a slice of bytes with the dataset
encoded as a JSON object with its columns and the rows in its view.
*/
func Encode(ds *dataset.Dataset) ([]byte, error) {
	return json.Marshal(&jsonDataset{Columns: ds.Columns(), Rows: ds.Rows()})
}

/*
Decode takes a slice of bytes with a JSON encoded dataset and returns
the dataset or an error if it cannot be decoded or is not a valid dataset.
*/
func Decode(data []byte) (*dataset.Dataset, error) {
	jds := &jsonDataset{}
	err := json.Unmarshal(data, jds)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.New(jds.Columns, jds.Rows)
	if err != nil {
		return nil, fmt.Errorf("decoding dataset: %v", err)
	}
	return ds, nil
}
