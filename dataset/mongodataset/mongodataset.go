/*
Package mongodataset loads datasets from and writes datasets to a
MongoDB collection, one document per row with a field per column.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// DefaultCollection is the collection used when none is given to Open
const DefaultCollection = "samples"

/*
Collection is a MongoDB collection of rows described by a
feature.Metadata.
*/
type Collection struct {
	session *mgo.Session
	name    string
	md      *feature.Metadata
}

/*
Open takes a MongoDB database session, a collection name and the metadata
describing its documents and returns a Collection that works on the
default database for that session or an error if the metadata names
fields that cannot be used or the indexes on them cannot be ensured.
*/
func Open(session *mgo.Session, collection string, md *feature.Metadata) (*Collection, error) {
	if err := md.Validate(); err != nil {
		return nil, err
	}
	if collection == "" {
		collection = DefaultCollection
	}
	c := &Collection{session, collection, md}
	if err := c.ensureIndexes(); err != nil {
		return nil, err
	}
	return c, nil
}

/*
Load takes a context and optional criteria and returns a dataset with the
documents of the collection satisfying all criteria, or an error.
*/
func (c *Collection) Load(ctx context.Context, criteria ...*feature.Criterion) (*dataset.Dataset, error) {
	columns := c.md.Columns()
	var rows [][]float64
	docs, errs := c.Read(ctx, criteria...)
	for doc := range docs {
		row, err := rowFromDoc(doc, columns)
		if err != nil {
			for range docs {
			}
			return nil, fmt.Errorf("reading document %d: %v", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	return dataset.New(columns, rows)
}

// Count returns the number of documents satisfying the criteria
func (c *Collection) Count(criteria ...*feature.Criterion) (int, error) {
	return c.collection().Find(Query(criteria...)).Count()
}

/*
Write takes a context and a dataset and inserts a document in the
collection for each of its rows. It returns the number of rows written or
an error.
*/
func (c *Collection) Write(ctx context.Context, ds *dataset.Dataset) (int, error) {
	columns := ds.Columns()
	rows := ds.Rows()
	docs := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		doc := make(bson.M, len(columns))
		for i, col := range columns {
			doc[col] = r[i]
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err := c.collection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

/*
Read takes a context and optional criteria and returns a channel on which
the documents satisfying them are sent, and a channel on which a reading
error, if any, is sent once the first one is closed.
*/
func (c *Collection) Read(ctx context.Context, criteria ...*feature.Criterion) (<-chan bson.M, <-chan error) {
	docs := make(chan bson.M)
	errs := make(chan error, 1)
	go func() {
		var err error
		iter := c.collection().Find(Query(criteria...)).Iter()
		doc := bson.M{}
	loop:
		for iter.Next(&doc) {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				break loop
			case docs <- doc:
			}
			doc = bson.M{}
		}
		if cerr := iter.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			errs <- err
		}
		close(errs)
		close(docs)
	}()
	return docs, errs
}

/*
Query takes criteria and returns the MongoDB query selecting the documents
that satisfy all of them.
*/
func Query(criteria ...*feature.Criterion) bson.M {
	query := make(bson.M)
	for _, fc := range criteria {
		var rangeValue bson.M
		if v, ok := query[fc.Feature].(bson.M); ok {
			rangeValue = v
		} else {
			rangeValue = make(bson.M)
		}
		switch fc.Symbol {
		case feature.Greater:
			v, ok := rangeValue["$gt"].(float64)
			if !ok || v < fc.Threshold {
				rangeValue["$gt"] = fc.Threshold
			}
		default:
			v, ok := rangeValue["$lte"].(float64)
			if !ok || v > fc.Threshold {
				rangeValue["$lte"] = fc.Threshold
			}
		}
		query[fc.Feature] = rangeValue
	}
	return query
}

func rowFromDoc(doc bson.M, columns []string) ([]float64, error) {
	row := make([]float64, len(columns))
	for i, col := range columns {
		switch v := doc[col].(type) {
		case float64:
			row[i] = v
		case int:
			row[i] = float64(v)
		case int64:
			row[i] = float64(v)
		case bool:
			if v {
				row[i] = 1
			}
		case nil:
			return nil, fmt.Errorf("field %q is missing", col)
		default:
			return nil, fmt.Errorf("field %q has a %T instead of a number", col, v)
		}
	}
	return row, nil
}

func (c *Collection) ensureIndexes() error {
	for _, name := range c.md.Columns() {
		if name == "_id" {
			return fmt.Errorf("invalid column name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(name, ".$") {
			return fmt.Errorf("invalid column name %q: contains reserved characters %q or %q", name, ".", "$")
		}
		index := mgo.Index{
			Key:        []string{name},
			Background: true,
			Sparse:     true,
		}
		err := c.collection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) collection() *mgo.Collection {
	return c.session.DB("").C(c.name)
}
