package store

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// Tx is the part of *sql.Tx the executor uses.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Commit() error
	Rollback() error
}

// DB is the minimal database contract of this package. It can be backed by
// *sql.DB or a thin wrapper adding cross-cutting features such as SQL logging.
type DB interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
	PingContext(ctx context.Context) error
	Close() error
}

// stdDB adapts *sql.DB to the DB interface.
type stdDB struct{ *sql.DB }

func (d stdDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	tx, err := d.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// loggingDB logs every statement run through the transactions it opens.
// It does not attempt to pretty-print SQL.
type loggingDB struct {
	inner  DB
	logger *log.Logger
}

func (d loggingDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	start := time.Now()
	tx, err := d.inner.BeginTx(ctx, opts)
	d.logger.Printf("sql begin dur=%s err=%v", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return loggingTx{inner: tx, logger: d.logger}, nil
}

func (d loggingDB) PingContext(ctx context.Context) error {
	start := time.Now()
	err := d.inner.PingContext(ctx)
	d.logger.Printf("sql ping dur=%s err=%v", time.Since(start), err)
	return err
}

func (d loggingDB) Close() error {
	start := time.Now()
	err := d.inner.Close()
	d.logger.Printf("sql close dur=%s err=%v", time.Since(start), err)
	return err
}

type loggingTx struct {
	inner  Tx
	logger *log.Logger
}

func (t loggingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.inner.ExecContext(ctx, query, args...)
	t.logger.Printf("sql exec dur=%s err=%v sql=%q args=%v", time.Since(start), err, query, args)
	return res, err
}

func (t loggingTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.inner.QueryContext(ctx, query, args...)
	t.logger.Printf("sql query dur=%s err=%v sql=%q args=%v", time.Since(start), err, query, args)
	return rows, err
}

func (t loggingTx) Commit() error {
	err := t.inner.Commit()
	t.logger.Printf("sql commit err=%v", err)
	return err
}

func (t loggingTx) Rollback() error {
	err := t.inner.Rollback()
	t.logger.Printf("sql rollback err=%v", err)
	return err
}

// LogSQL wraps db with a SQL logger if logger is not nil.
func LogSQL(db DB, logger *log.Logger) DB {
	if logger == nil {
		return db
	}
	return loggingDB{inner: db, logger: logger}
}
