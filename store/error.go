package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Kind classifies a store failure.
type Kind int

const (
	KindExec Kind = iota
	KindIntegrity
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindIntegrity:
		return "integrity"
	case KindNotFound:
		return "not found"
	default:
		return "exec"
	}
}

var (
	ErrIntegrity = errors.New("integrity constraint violated")
	ErrNotFound  = errors.New("no row found")
)

// Error is the failure returned by every store operation. errors.Is matches
// ErrIntegrity and ErrNotFound against its Kind.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrIntegrity:
		return e.Kind == KindIntegrity
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// NotFound reports an operation that expected a row and got none.
func NotFound(op string) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: sql.ErrNoRows}
}

// Classify wraps err as an *Error, recognising integrity violations of the
// dialect's driver. An err that already is an *Error is returned unchanged.
func (d Dialect) Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(op)
	}
	kind := KindExec
	if d.IsIntegrity(err) {
		kind = KindIntegrity
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
