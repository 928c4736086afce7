package sqldataset

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/feature"
)

/*
MaxRowInsertionsPerStatement is the maximum number
of rows that are inserted with a single insert
statement by Write. Writing more will result in
running more statements.
*/
const MaxRowInsertionsPerStatement = 50

/*
Load takes a context, an Adapter, a table name and the metadata describing
the table and returns a dataset with the rows of the table, or an error.
Only the columns named by the metadata are read, features first and the
label last.
*/
func Load(ctx context.Context, a Adapter, table string, md *feature.Metadata) (*dataset.Dataset, error) {
	if err := md.Validate(); err != nil {
		return nil, err
	}
	columns := md.Columns()
	tableName, err := a.ColumnName(table)
	if err != nil {
		return nil, err
	}
	var query bytes.Buffer
	query.WriteString("SELECT ")
	for i, c := range columns {
		cn, err := a.ColumnName(c)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString(cn)
	}
	query.WriteString(" FROM ")
	query.WriteString(tableName)
	rs, err := a.DB().QueryContext(ctx, query.String())
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %v", table, err)
	}
	defer rs.Close()
	var rows [][]float64
	for rs.Next() {
		row := make([]float64, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err = rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row %d of table %s: %v", len(rows)+1, table, err)
		}
		rows = append(rows, row)
	}
	if err = rs.Err(); err != nil {
		return nil, fmt.Errorf("reading table %s: %v", table, err)
	}
	return dataset.New(columns, rows)
}

/*
Write takes a context, an Adapter, a table name and a dataset, ensures the
table exists with a column for each dataset column and inserts the dataset
rows in it inside a transaction. It returns the number of rows written or an
error.
*/
func Write(ctx context.Context, a Adapter, table string, ds *dataset.Dataset) (int, error) {
	tableName, err := a.ColumnName(table)
	if err != nil {
		return 0, err
	}
	columns := ds.Columns()
	columnNames := make([]string, len(columns))
	for i, c := range columns {
		columnNames[i], err = a.ColumnName(c)
		if err != nil {
			return 0, err
		}
	}
	var createStmt bytes.Buffer
	createStmt.WriteString("CREATE TABLE IF NOT EXISTS ")
	createStmt.WriteString(tableName)
	createStmt.WriteString(" (")
	for i, cn := range columnNames {
		if i > 0 {
			createStmt.WriteString(", ")
		}
		createStmt.WriteString(fmt.Sprintf("%s %s NOT NULL", cn, a.ColumnType()))
	}
	createStmt.WriteString(")")
	if _, err = a.DB().ExecContext(ctx, createStmt.String()); err != nil {
		return 0, fmt.Errorf("ensuring table %s exists: %v", table, err)
	}
	tx, err := a.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %v", err)
	}
	rows := ds.Rows()
	written := 0
	for chunkStart := 0; chunkStart < len(rows); chunkStart += MaxRowInsertionsPerStatement {
		chunkEnd := chunkStart + MaxRowInsertionsPerStatement
		if chunkEnd > len(rows) {
			chunkEnd = len(rows)
		}
		stmt, args := insertStatement(a, tableName, columnNames, rows[chunkStart:chunkEnd])
		if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting rows %d to %d: %v", chunkStart+1, chunkEnd, err)
		}
		written = chunkEnd
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing %d rows: %v", written, err)
	}
	return written, nil
}

func insertStatement(a Adapter, tableName string, columnNames []string, rows [][]float64) (string, []interface{}) {
	var stmt bytes.Buffer
	args := make([]interface{}, 0, len(rows)*len(columnNames))
	stmt.WriteString("INSERT INTO ")
	stmt.WriteString(tableName)
	stmt.WriteString(" (")
	for i, cn := range columnNames {
		if i > 0 {
			stmt.WriteString(", ")
		}
		stmt.WriteString(cn)
	}
	stmt.WriteString(") VALUES ")
	for r, row := range rows {
		if r > 0 {
			stmt.WriteString(", ")
		}
		stmt.WriteString("(")
		for i, v := range row {
			if i > 0 {
				stmt.WriteString(", ")
			}
			args = append(args, v)
			stmt.WriteString(a.Placeholder(len(args)))
		}
		stmt.WriteString(")")
	}
	return stmt.String(), args
}
