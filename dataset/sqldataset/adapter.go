package sqldataset

import "database/sql"

/*
Adapter is an interface providing the methods
needed to read and write datasets on a database
backend.
*/
type Adapter interface {
	// DB returns the database handle queries run on
	DB() *sql.DB
	// ColumnName takes a column name and returns it
	// quoted for its use as an identifier in
	// statements, or an error if it cannot be used.
	ColumnName(string) (string, error)
	// Placeholder returns the bind parameter
	// placeholder for the n-th parameter of a
	// statement, starting at 1.
	Placeholder(n int) string
	// ColumnType returns the SQL type of the
	// columns of created tables.
	ColumnType() string
	// Close releases the database handle
	Close() error
}
