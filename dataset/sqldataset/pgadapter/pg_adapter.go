/*
Package pgadapter provides a sqldataset.Adapter for PostgreSQL databases.
*/
package pgadapter

import (
	"database/sql"
	"fmt"
	"strings"

	// Import of postgresql driver
	_ "github.com/lib/pq"
	"github.com/pbanos/sprout/dataset/sqldataset"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL connection URL and returns an Adapter that works on
its database or an error if the connection cannot be configured.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) DB() *sql.DB {
	return a.db
}

func (a *adapter) ColumnName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty names cannot be used as identifiers")
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`name '%s' contains invalid character '"'`, name)
	}
	return `"` + name + `"`, nil
}

func (a *adapter) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (a *adapter) ColumnType() string {
	return "DOUBLE PRECISION"
}

func (a *adapter) Close() error {
	return a.db.Close()
}
