package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Values holds column values for an insert or update, keyed by column name.
type Values map[string]any

// columns returns the value's column names in a stable order.
func (v Values) columns() []string {
	cols := make([]string, 0, len(v))
	for c := range v {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Insert writes one row and returns its new identity.
func (db *DB) Insert(ctx context.Context, kind Kind, values Values) (int64, error) {
	cols := values.columns()
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = values[c]
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		kind.Table(), strings.Join(cols, ", "), placeholders(len(cols)))

	res, err := db.conn.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("store: insert %s: %w", kind.Table(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: insert %s: last id: %w", kind.Table(), err)
	}
	return id, nil
}

// Update applies values to every row matching where and returns the number
// of affected rows.
func (db *DB) Update(ctx context.Context, kind Kind, values Values, where string, args []any) (int64, error) {
	cols := values.columns()
	sets := make([]string, len(cols))
	setArgs := make([]any, 0, len(cols)+len(args))
	for i, c := range cols {
		sets[i] = c + " = ?"
		setArgs = append(setArgs, values[c])
	}
	setArgs = append(setArgs, args...)

	q := fmt.Sprintf("UPDATE %s SET %s", kind.Table(), strings.Join(sets, ", "))
	if where != "" {
		q += " WHERE " + where
	}

	res, err := db.conn.ExecContext(ctx, q, setArgs...)
	if err != nil {
		return 0, fmt.Errorf("store: update %s: %w", kind.Table(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: update %s: rows affected: %w", kind.Table(), err)
	}
	return n, nil
}

// Delete removes every row matching where and returns the number of
// affected rows. A filter matching nothing deletes zero rows without error.
func (db *DB) Delete(ctx context.Context, kind Kind, where string, args []any) (int64, error) {
	q := "DELETE FROM " + kind.Table()
	if where != "" {
		q += " WHERE " + where
	}
	res, err := db.conn.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("store: delete %s: %w", kind.Table(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: delete %s: rows affected: %w", kind.Table(), err)
	}
	return n, nil
}

// BulkInsert writes every row inside a single transaction. Either all rows
// are inserted and their count returned, or the transaction is rolled back
// and zero rows are reported.
func (db *DB) BulkInsert(ctx context.Context, kind Kind, rows []Values) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, v := range rows {
		cols := v.columns()
		args := make([]any, len(cols))
		for i, c := range cols {
			args[i] = v[c]
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			kind.Table(), strings.Join(cols, ", "), placeholders(len(cols)))
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return 0, fmt.Errorf("store: bulk insert %s: %w", kind.Table(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: bulk insert %s: commit: %w", kind.Table(), err)
	}
	return int64(len(rows)), nil
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
