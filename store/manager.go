package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
)

const sqliteForeignKeys = "_foreign_keys=on"

type options struct {
	logger    *log.Logger
	sqlLogger *log.Logger
	schema    []string
	schemaSet bool
}

type Option func(*options)

// WithLogger sets the logger schema initialization and rollback failures go to.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSQLLogger logs every statement, commit and rollback.
func WithSQLLogger(l *log.Logger) Option {
	return func(o *options) { o.sqlLogger = l }
}

// WithSchema replaces the registry statements run by InitSchema.
func WithSchema(stmts ...string) Option {
	return func(o *options) {
		o.schema = append([]string{}, stmts...)
		o.schemaSet = true
	}
}

// Manager owns the single connection to the store.
type Manager struct {
	db      DB
	dialect Dialect
	logger  *log.Logger
	schema  []string
}

// Open connects to ds, limits the pool to one open connection and creates the
// tables. Table creation failures are logged and do not fail Open.
func Open(ctx context.Context, ds DataSource, opts ...Option) (*Manager, error) {
	o := options{logger: log.New(os.Stderr, "", log.LstdFlags)}
	for _, opt := range opts {
		opt(&o)
	}
	dialect, err := DialectOf(ds.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := ds.DSNChecked()
	if err != nil {
		return nil, fmt.Errorf("invalid dsn: %w", err)
	}
	if dialect == SQLite3 {
		dsn = withForeignKeys(dsn)
	}
	stmts := o.schema
	if !o.schemaSet {
		if stmts, err = dialect.Statements(); err != nil {
			return nil, err
		}
	}

	raw, err := sql.Open(ds.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ds.Driver, err)
	}
	raw.SetMaxOpenConns(1)
	if err := raw.PingContext(ctx); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping %s: %w", ds.Driver, err)
	}

	m := &Manager{
		db:      LogSQL(stdDB{DB: raw}, o.sqlLogger),
		dialect: dialect,
		logger:  o.logger,
		schema:  stmts,
	}
	_ = m.InitSchema(ctx)
	return m, nil
}

// withForeignKeys turns on sqlite foreign key enforcement, without which
// ON DELETE CASCADE does nothing.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteForeignKeys
	}
	return dsn + "?" + sqliteForeignKeys
}

// InitSchema runs each statement in its own transaction. A failing statement
// is logged and rolled back and the rest still run; the failures are joined.
func (m *Manager) InitSchema(ctx context.Context) error {
	var errs []error
	for _, stmt := range m.schema {
		err := m.InTx(ctx, "create table", func(tx Tx) error {
			_, err := tx.ExecContext(ctx, stmt)
			return err
		})
		if err != nil {
			m.logger.Printf("level=error msg=%q table=%s err=%v", "create table failed", tableName(stmt), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func tableName(stmt string) string {
	fields := strings.Fields(stmt)
	for i, f := range fields {
		if strings.EqualFold(f, "EXISTS") && i+1 < len(fields) {
			return strings.TrimSuffix(fields[i+1], "(")
		}
	}
	if len(fields) > 2 && strings.EqualFold(fields[1], "TABLE") {
		return strings.TrimSuffix(fields[2], "(")
	}
	return "?"
}

// InTx runs fn in a new transaction. fn's error rolls the transaction back;
// otherwise it is committed. Failures are returned as *Error.
func (m *Manager) InTx(ctx context.Context, op string, fn func(tx Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return m.dialect.Classify(op, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			m.logger.Printf("level=error msg=%q op=%q err=%v", "rollback failed", op, rbErr)
		}
		return m.dialect.Classify(op, err)
	}
	if err := tx.Commit(); err != nil {
		return m.dialect.Classify(op, err)
	}
	return nil
}

func (m *Manager) Dialect() Dialect { return m.dialect }

func (m *Manager) Logger() *log.Logger { return m.logger }

func (m *Manager) Close() error {
	return m.db.Close()
}
