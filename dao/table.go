package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/kcmvp/rawsql/record"
	"github.com/kcmvp/rawsql/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// decoder reads typed values out of a Row by column name. The first failure
// sticks; later reads return zero values.
type decoder struct {
	row Row
	err error
}

func value[T any](d *decoder, column string, conv func(any) (T, error)) T {
	var zero T
	if d.err != nil {
		return zero
	}
	v, ok := d.row.values[column]
	if !ok {
		d.err = fmt.Errorf("column %s is missing from the result", column)
		return zero
	}
	if v == nil {
		return zero
	}
	t, err := conv(v)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", column, err)
	}
	return t
}

func (d *decoder) int64(column string) int64 { return value(d, column, cast.ToInt64E) }

func (d *decoder) string(column string) string { return value(d, column, cast.ToStringE) }

func (d *decoder) bool(column string) bool { return value(d, column, cast.ToBoolE) }

func (d *decoder) time(column string) time.Time {
	return value(d, column, func(v any) (time.Time, error) {
		t, err := cast.ToTimeE(v)
		return t.UTC(), err
	})
}

func (d *decoder) decimal(column string) decimal.Decimal {
	return value(d, column, func(v any) (decimal.Decimal, error) {
		switch n := v.(type) {
		case float64:
			return decimal.NewFromFloat(n), nil
		case int64:
			return decimal.NewFromInt(n), nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	})
}

func bindDate(t time.Time) any { return record.DateOf(t).Format(record.DateLayout) }

func bindTimestamp(t time.Time) any { return record.Timestamp(t).Format(record.TimestampLayout) }

func bindAmount(a decimal.Decimal) any { return a.StringFixed(record.AmountScale) }

func checkReturning(d store.Dialect) error {
	if !d.Returning() {
		return fmt.Errorf("%w: %s", ErrUnsupportedDialect, d)
	}
	return nil
}

// table runs the five single-row operations of one entity table and decodes
// the rows it gets back.
type table[T any] struct {
	exec   *Executor
	name   string
	decode func(d *decoder) T
}

func newTable[T any](m *store.Manager, name string, decode func(d *decoder) T) (table[T], error) {
	if err := checkReturning(m.Dialect()); err != nil {
		return table[T]{}, err
	}
	return table[T]{exec: NewExecutor(m), name: name, decode: decode}, nil
}

func (t table[T]) decodeRow(op string, row Row) (T, error) {
	d := &decoder{row: row}
	rec := t.decode(d)
	if d.err != nil {
		var zero T
		return zero, fmt.Errorf("%s %s: decode: %w", op, t.name, d.err)
	}
	return rec, nil
}

func (t table[T]) decodeRows(op string, rows []Row) ([]T, error) {
	result := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := t.decodeRow(op, row)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, nil
}

func (t table[T]) insert(ctx context.Context, s *setter) (T, error) {
	var zero T
	stmt, args, err := insertSQL(t.name, s)
	if err != nil {
		return zero, err
	}
	row, err := t.exec.InsertOne(ctx, stmt, args...)
	if err != nil {
		return zero, err
	}
	return t.decodeRow("insert", row)
}

// get returns store.ErrNotFound when no row has the id.
func (t table[T]) get(ctx context.Context, id int64) (T, error) {
	var zero T
	stmt, args := selectSQL(t.name, byID(id))
	opt, err := t.exec.ReadOne(ctx, stmt, args...)
	if err != nil {
		return zero, err
	}
	row, ok := opt.Get()
	if !ok {
		return zero, store.NotFound(fmt.Sprintf("get %s %d", t.name, id))
	}
	return t.decodeRow("get", row)
}

func (t table[T]) find(ctx context.Context, where Where) ([]T, error) {
	stmt, args := selectSQL(t.name, where)
	rows, err := t.exec.ReadAll(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return t.decodeRows("list", rows)
}

func (t table[T]) update(ctx context.Context, id int64, s *setter) (T, error) {
	var zero T
	stmt, args, err := updateSQL(t.name, s, byID(id))
	if err != nil {
		return zero, err
	}
	row, err := t.exec.UpdateOne(ctx, stmt, args...)
	if err != nil {
		return zero, err
	}
	return t.decodeRow("update", row)
}

func (t table[T]) delete(ctx context.Context, id int64) (T, error) {
	var zero T
	stmt, args, err := deleteSQL(t.name, byID(id))
	if err != nil {
		return zero, err
	}
	row, err := t.exec.DeleteOne(ctx, stmt, args...)
	if err != nil {
		return zero, err
	}
	return t.decodeRow("delete", row)
}
