// Package record holds the values the DAOs return and accept: full records,
// insert shapes and partial update shapes whose fields are all optional.
package record

import (
	"fmt"
	"time"

	"github.com/samber/mo"
)

// DateLayout is how dates are bound as statement parameters.
const DateLayout = time.DateOnly

// TimestampLayout is how timestamps are bound as statement parameters. It
// carries no zone; timestamps are stored in UTC.
const TimestampLayout = time.DateTime

type OrderStatus int

const (
	StatusCreated OrderStatus = 1
	StatusPending OrderStatus = 2
	StatusDone    OrderStatus = 3
)

func (s OrderStatus) String() string {
	switch s {
	case StatusCreated:
		return "CREATED"
	case StatusPending:
		return "PENDING"
	case StatusDone:
		return "DONE"
	}
	return fmt.Sprintf("OrderStatus(%d)", int(s))
}

type PayMethod int

const (
	CreditCard PayMethod = 1
	Cash       PayMethod = 2
)

func (m PayMethod) String() string {
	switch m {
	case CreditCard:
		return "CREDIT_CARD"
	case Cash:
		return "CASH"
	}
	return fmt.Sprintf("PayMethod(%d)", int(m))
}

// Today is the current UTC date.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf drops the time of day of t, in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Timestamp normalizes t to the precision the store keeps.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return Timestamp(time.Now())
	}
	return Timestamp(t)
}

func fieldErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("field '%s': %w", name, err)
}

// checkPresent validates o only when it carries a value.
func checkPresent[T any](o mo.Option[T], check func(T) error) error {
	if v, ok := o.Get(); ok {
		return check(v)
	}
	return nil
}
