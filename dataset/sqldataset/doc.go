/*
Package sqldataset loads datasets from and writes datasets to SQL
database tables.

Every column of the table is read as a float64 value. The dialect
details of each database backend, like placeholders and identifier
quoting, are provided by an Adapter; the sqlite3adapter and pgadapter
subpackages provide adapters for SQLite3 and PostgreSQL.
*/
package sqldataset
