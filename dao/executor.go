package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/kcmvp/rawsql/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var (
	ErrBatchSize          = errors.New("batch exceeds size")
	ErrEmptyUpdate        = errors.New("update has no fields")
	ErrUnsupportedDialect = errors.New("dialect cannot return rows from writes")
)

// Row is one result row addressed by column name.
type Row struct {
	columns []string
	values  map[string]any
}

// Get returns the value of column, None when the row has no such column.
// A SQL NULL is Some(nil).
func (r Row) Get(column string) mo.Option[any] {
	v, ok := r.values[column]
	if !ok {
		return mo.None[any]()
	}
	return mo.Some(v)
}

// Columns returns the column names in result order.
func (r Row) Columns() []string {
	return append([]string{}, r.columns...)
}

// Executor runs caller-built statements. Each call is one transaction that is
// committed on success and rolled back on any failure. Statements use `?`
// placeholders and are rebound for the store's dialect.
type Executor struct {
	m *store.Manager
}

func NewExecutor(m *store.Manager) *Executor {
	return &Executor{m: m}
}

func (e *Executor) Dialect() store.Dialect { return e.m.Dialect() }

// query runs stmt in tx and reads every row before returning, so the
// transaction can be committed right after.
func (e *Executor) query(ctx context.Context, tx store.Tx, stmt string, args []any) ([]Row, error) {
	rows, err := tx.QueryContext(ctx, e.m.Dialect().Rebind(stmt), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var result []Row
	for rows.Next() {
		raw := make([]any, len(columns))
		dest := lo.Map(raw, func(_ any, i int) any { return &raw[i] })
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		values := make(map[string]any, len(columns))
		for i, c := range columns {
			if b, ok := raw[i].([]byte); ok {
				values[c] = string(b)
				continue
			}
			values[c] = raw[i]
		}
		result = append(result, Row{columns: columns, values: values})
	}
	// constraint failures of INSERT/UPDATE ... RETURNING can surface here
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Executor) run(ctx context.Context, op string, stmt string, args []any) ([]Row, error) {
	var result []Row
	err := e.m.InTx(ctx, op, func(tx store.Tx) error {
		rows, err := e.query(ctx, tx, stmt, args)
		result = rows
		return err
	})
	return result, err
}

// one runs a write that must return the affected row.
func (e *Executor) one(ctx context.Context, op string, stmt string, args []any) (Row, error) {
	var row Row
	err := e.m.InTx(ctx, op, func(tx store.Tx) error {
		rows, err := e.query(ctx, tx, stmt, args)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return store.NotFound(op)
		}
		row = rows[0]
		return nil
	})
	return row, err
}

func (e *Executor) ReadAll(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	return e.run(ctx, "read all", stmt, args)
}

// ReadOne returns the first row, None when the statement returns nothing.
func (e *Executor) ReadOne(ctx context.Context, stmt string, args ...any) (mo.Option[Row], error) {
	rows, err := e.run(ctx, "read one", stmt, args)
	if err != nil {
		return mo.None[Row](), err
	}
	if len(rows) == 0 {
		return mo.None[Row](), nil
	}
	return mo.Some(rows[0]), nil
}

// InsertOne runs an INSERT ... RETURNING statement and returns the new row.
func (e *Executor) InsertOne(ctx context.Context, stmt string, args ...any) (Row, error) {
	return e.one(ctx, "insert one", stmt, args)
}

// UpdateOne runs an UPDATE ... RETURNING statement. No matched row is ErrNotFound.
func (e *Executor) UpdateOne(ctx context.Context, stmt string, args ...any) (Row, error) {
	return e.one(ctx, "update one", stmt, args)
}

// DeleteOne runs a DELETE ... RETURNING statement. No matched row is ErrNotFound.
func (e *Executor) DeleteOne(ctx context.Context, stmt string, args ...any) (Row, error) {
	return e.one(ctx, "delete one", stmt, args)
}

// many runs stmt once per parameter tuple in a single transaction; one
// failing tuple rolls back all of them.
func (e *Executor) many(ctx context.Context, op string, stmt string, size int, params [][]any) ([]Row, error) {
	if len(params) > size {
		return nil, fmt.Errorf("%s: %w: %d tuples, size %d", op, ErrBatchSize, len(params), size)
	}
	var result []Row
	err := e.m.InTx(ctx, op, func(tx store.Tx) error {
		for _, args := range params {
			rows, err := e.query(ctx, tx, stmt, args)
			if err != nil {
				return err
			}
			result = append(result, rows...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Executor) InsertMany(ctx context.Context, stmt string, size int, params [][]any) ([]Row, error) {
	return e.many(ctx, "insert many", stmt, size, params)
}

func (e *Executor) UpdateMany(ctx context.Context, stmt string, size int, params [][]any) ([]Row, error) {
	return e.many(ctx, "update many", stmt, size, params)
}

func (e *Executor) DeleteMany(ctx context.Context, stmt string, size int, params [][]any) ([]Row, error) {
	return e.many(ctx, "delete many", stmt, size, params)
}
