package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Rows is a lazy, forward-only, single-pass view over one query's result
// set. It is restartable only by re-issuing the query.
type Rows struct {
	rows    *sql.Rows
	columns []string
}

// Columns returns the column names of the result set.
func (r *Rows) Columns() []string { return r.columns }

// Next advances to the next row.
func (r *Rows) Next() bool { return r.rows.Next() }

// Scan copies the current row into dest.
func (r *Rows) Scan(dest ...any) error { return r.rows.Scan(dest...) }

// Err returns any error encountered during iteration.
func (r *Rows) Err() error { return r.rows.Err() }

// Close releases the result set.
func (r *Rows) Close() error { return r.rows.Close() }

// Query runs a filtered select against one table. projection defaults to all
// columns, where is a parameterized conjunctive filter over named columns,
// and limit caps the result set when positive.
func (db *DB) Query(ctx context.Context, kind Kind, projection []string, where string, args []any, orderBy string, limit int) (*Rows, error) {
	cols := "*"
	if len(projection) > 0 {
		cols = strings.Join(projection, ", ")
	}

	var q strings.Builder
	fmt.Fprintf(&q, "SELECT %s FROM %s", cols, kind.Table())
	if where != "" {
		q.WriteString(" WHERE ")
		q.WriteString(where)
	}
	if orderBy != "" {
		q.WriteString(" ORDER BY ")
		q.WriteString(orderBy)
	}
	if limit > 0 {
		fmt.Fprintf(&q, " LIMIT %d", limit)
	}

	rows, err := db.conn.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", kind.Table(), err)
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("store: query %s: columns: %w", kind.Table(), err)
	}
	return &Rows{rows: rows, columns: columns}, nil
}

// UnreadCount pairs an account with its number of to-read bookmarks.
type UnreadCount struct {
	Count   int64  `json:"count"`
	Account string `json:"account"`
}

// UnreadCounts returns the to-read bookmark count grouped by account.
func (db *DB) UnreadCounts(ctx context.Context) ([]UnreadCount, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT count(*) AS count, account FROM bookmark WHERE toread = 1 GROUP BY account`)
	if err != nil {
		return nil, fmt.Errorf("store: unread counts: %w", err)
	}
	defer rows.Close()

	var out []UnreadCount
	for rows.Next() {
		var c UnreadCount
		if err := rows.Scan(&c.Count, &c.Account); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
