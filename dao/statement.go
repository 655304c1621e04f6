package dao

import (
	"fmt"
	"strings"
	"time"

	"github.com/kcmvp/rawsql/schema"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Where is a query condition. Only column names from the schema registry are
// written into the clause; values always travel as arguments.
type Where interface {
	Build() (string, []any)
}

type whereFunc func() (string, []any)

func (f whereFunc) Build() (string, []any) { return f() }

func join(sep string, wheres []Where) Where {
	return whereFunc(func() (string, []any) {
		clauses := make([]string, 0, len(wheres))
		var allArgs []any
		for _, w := range wheres {
			if w == nil {
				continue
			}
			clause, args := w.Build()
			if clause == "" {
				continue
			}
			clauses = append(clauses, clause)
			allArgs = append(allArgs, args...)
		}
		if len(clauses) == 0 {
			return "", nil
		}
		return fmt.Sprintf("(%s)", strings.Join(clauses, sep)), allArgs
	})
}

// And combines conditions, skipping nil or empty ones.
func And(wheres ...Where) Where { return join(" AND ", wheres) }

// Or combines conditions, skipping nil or empty ones.
func Or(wheres ...Where) Where { return join(" OR ", wheres) }

func Eq(column string, value any) Where {
	return whereFunc(func() (string, []any) {
		return fmt.Sprintf("%s = ?", column), []any{value}
	})
}

// In is always false for an empty value list.
func In(column string, values ...any) Where {
	if len(values) == 0 {
		return whereFunc(func() (string, []any) { return "1=0", nil })
	}
	return whereFunc(func() (string, []any) {
		return fmt.Sprintf("%s IN (%s)", column, makePlaceholders(len(values))), values
	})
}

func byID(id int64) Where {
	return Eq(schema.ID, id)
}

func makePlaceholders(n int) string {
	return strings.Join(lo.Times(n, func(int) string { return "?" }), ", ")
}

// setter is an ordered list of column assignments.
type setter struct {
	columns []string
	args    []any
}

func (s *setter) set(column string, value any) *setter {
	s.columns = append(s.columns, column)
	s.args = append(s.args, value)
	return s
}

func (s *setter) empty() bool { return len(s.columns) == 0 }

// setOpt assigns column only when o carries a value.
func setOpt[T any](s *setter, column string, o mo.Option[T], bind func(T) any) {
	if v, ok := o.Get(); ok {
		s.set(column, bind(v))
	}
}

// now stamps updated_at. Writes bind it in UTC instead of using the store
// clock, whose time zone is the session's.
var now = time.Now

func selectSQL(table string, where Where) (string, []any) {
	stmt := fmt.Sprintf("SELECT * FROM %s", table)
	if where == nil {
		return stmt, nil
	}
	clause, args := where.Build()
	if clause == "" {
		return stmt, nil
	}
	return stmt + " WHERE " + clause, args
}

func insertSQL(table string, s *setter) (string, []any, error) {
	if s == nil || s.empty() {
		return "", nil, fmt.Errorf("no fields to insert into %s", table)
	}
	columns := append(append([]string{}, s.columns...), schema.UpdatedAt)
	args := append(append([]any{}, s.args...), bindTimestamp(now()))
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(columns, ", "), makePlaceholders(len(columns)))
	return stmt, args, nil
}

// updateSQL sets every assigned column and stamps updated_at.
func updateSQL(table string, s *setter, where Where) (string, []any, error) {
	if s == nil || s.empty() {
		return "", nil, ErrEmptyUpdate
	}
	if where == nil {
		return "", nil, fmt.Errorf("where is required")
	}
	clause, whereArgs := where.Build()
	if clause == "" {
		return "", nil, fmt.Errorf("where is required")
	}
	sets := lo.Map(s.columns, func(c string, _ int) string { return c + " = ?" })
	sets = append(sets, schema.UpdatedAt+" = ?")
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING *", table, strings.Join(sets, ", "), clause)
	args := append(append([]any{}, s.args...), bindTimestamp(now()))
	return stmt, append(args, whereArgs...), nil
}

func deleteSQL(table string, where Where) (string, []any, error) {
	if where == nil {
		return "", nil, fmt.Errorf("where is required")
	}
	clause, args := where.Build()
	if clause == "" {
		return "", nil, fmt.Errorf("where is required")
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s RETURNING *", table, clause), args, nil
}
