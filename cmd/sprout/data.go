package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/dataset/csv"
	"github.com/pbanos/sprout/dataset/mongodataset"
	"github.com/pbanos/sprout/dataset/sqldataset"
	"github.com/pbanos/sprout/dataset/sqldataset/pgadapter"
	"github.com/pbanos/sprout/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sprout/feature"
	"github.com/pbanos/sprout/feature/yaml"
	"github.com/pbanos/sprout/tree"
	"github.com/pbanos/sprout/tree/json"
	mgo "gopkg.in/mgo.v2"
)

const (
	postgresPrefix = "postgresql://"
	mongoPrefix    = "mongodb://"
	sqlite3Suffix  = ".db"
)

/*
dataLocation describes where a dataset is read from or written to: a CSV
or TSV file (STDIN or STDOUT when empty), an SQLite3 .db file, a
PostgreSQL connection URL or a MongoDB connection URL. Table is the table
or collection for the database locations.
*/
type dataLocation struct {
	path  string
	table string
}

func (dl dataLocation) String() string {
	if dl.path == "" {
		return "standard I/O"
	}
	if dl.isDB() {
		return fmt.Sprintf("%s (%s)", dl.path, dl.table)
	}
	return dl.path
}

func (dl dataLocation) isDB() bool {
	return strings.HasPrefix(dl.path, postgresPrefix) ||
		strings.HasPrefix(dl.path, mongoPrefix) ||
		strings.HasSuffix(dl.path, sqlite3Suffix)
}

func (rcc *rootCmdConfig) metadata() (*feature.Metadata, error) {
	path := rcc.String("metadata")
	if path == "" {
		return nil, nil
	}
	rcc.Debugf("Reading metadata from %s...", path)
	return yaml.ReadMetadataFromFile(path)
}

func (rcc *rootCmdConfig) loadDataset(ctx context.Context, dl dataLocation, md *feature.Metadata) (*dataset.Dataset, error) {
	if dl.isDB() && md == nil {
		return nil, fmt.Errorf("reading dataset from %s requires metadata", dl)
	}
	rcc.Logf("Reading dataset from %s...", dl)
	switch {
	case strings.HasPrefix(dl.path, mongoPrefix):
		session, err := mgo.Dial(dl.path)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %v", dl.path, err)
		}
		defer session.Close()
		c, err := mongodataset.Open(session, dl.table, md)
		if err != nil {
			return nil, err
		}
		return c.Load(ctx)
	case strings.HasPrefix(dl.path, postgresPrefix), strings.HasSuffix(dl.path, sqlite3Suffix):
		a, err := rcc.sqlAdapter(dl.path)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.Load(ctx, a, dl.table, md)
	}
	return csv.ReadDatasetFromFilePath(dl.path, md)
}

func (rcc *rootCmdConfig) writeDataset(ctx context.Context, dl dataLocation, ds *dataset.Dataset) error {
	rcc.Logf("Writing dataset with %d rows to %s...", ds.Count(), dl)
	switch {
	case strings.HasPrefix(dl.path, mongoPrefix):
		session, err := mgo.Dial(dl.path)
		if err != nil {
			return fmt.Errorf("connecting to %s: %v", dl.path, err)
		}
		defer session.Close()
		c, err := mongodataset.Open(session, dl.table, ds.Metadata())
		if err != nil {
			return err
		}
		_, err = c.Write(ctx, ds)
		return err
	case strings.HasPrefix(dl.path, postgresPrefix), strings.HasSuffix(dl.path, sqlite3Suffix):
		a, err := rcc.sqlAdapter(dl.path)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = sqldataset.Write(ctx, a, dl.table, ds)
		return err
	case dl.path == "":
		return csv.WriteDataset(os.Stdout, ds, ',')
	}
	return csv.WriteDatasetToFilePath(dl.path, ds)
}

func (rcc *rootCmdConfig) sqlAdapter(path string) (sqldataset.Adapter, error) {
	if strings.HasPrefix(path, postgresPrefix) {
		rcc.Debugf("Creating PostgreSQL adapter for url %s...", path)
		return pgadapter.New(path)
	}
	rcc.Debugf("Creating SQLite3 adapter for file %s...", path)
	return sqlite3adapter.New(path)
}

func loadForest(path string) (*tree.Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading forest in JSON from %s: %v", path, err)
	}
	defer f.Close()
	forest, err := json.ReadForest(f)
	if err != nil {
		err = fmt.Errorf("parsing forest in JSON from %s: %v", path, err)
	}
	return forest, err
}

func outputForest(path string, forest *tree.Forest) error {
	if path == "" {
		return json.WriteForest(forest, os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.WriteForest(forest, f)
}
