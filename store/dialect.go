package store

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/kcmvp/rawsql/schema"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/samber/lo"
)

// Dialect is named after the database/sql driver that serves it.
type Dialect string

const (
	SQLite3  Dialect = "sqlite3"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// DialectOf resolves the dialect of a driver name.
func DialectOf(driver string) (Dialect, error) {
	if !lo.Contains(schema.Dialects(), driver) {
		// let schema build the error so the supported list stays in one place
		_, err := schema.Placeholder(driver)
		return "", err
	}
	return Dialect(driver), nil
}

func (d Dialect) String() string { return string(d) }

// Returning reports whether writes can return the affected rows.
func (d Dialect) Returning() bool {
	ok, _ := schema.Returning(string(d))
	return ok
}

// Statements returns the CREATE TABLE statements of every registered table.
func (d Dialect) Statements() ([]string, error) {
	return schema.Statements(string(d))
}

// Rebind rewrites `?` markers into the dialect's placeholder style. Markers
// inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if p, _ := schema.Placeholder(string(d)); p != "$" {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n, quoted := 0, false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == '?' && !quoted:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// IsIntegrity reports whether err is a constraint violation raised by the
// driver: unique, not-null or foreign key.
func (d Dialect) IsIntegrity(err error) bool {
	switch d {
	case SQLite3:
		var se sqlite3.Error
		return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
	case Postgres:
		var pe *pq.Error
		return errors.As(err, &pe) && pe.Code.Class() == "23"
	case MySQL:
		var me *mysql.MySQLError
		return errors.As(err, &me) && strings.HasPrefix(string(me.SQLState[:]), "23")
	}
	return false
}
