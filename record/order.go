package record

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/kcmvp/rawsql/constraint"
	"github.com/kcmvp/rawsql/payload"
	"github.com/kcmvp/rawsql/schema"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// AmountScale is the number of fraction digits total_amount keeps.
const AmountScale = 2

// AmountLimit is the exclusive upper bound of total_amount, given by the
// precision and scale of its column.
var AmountLimit = amountLimit()

func amountLimit() float64 {
	t, _ := schema.Lookup(schema.Orders.Table)
	c, _ := t.Column(schema.Orders.TotalAmount)
	return math.Pow10(c.Size - c.Scale)
}

type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MarshalJSON renders total_amount as a number rather than a quoted string.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		TotalAmount float64 `json:"total_amount"`
	}{plain: plain(o), TotalAmount: o.TotalAmount.InexactFloat64()})
}

type NewOrder struct {
	UserID      int64
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Status      OrderStatus
}

var orderStatuses = []int64{int64(StatusCreated), int64(StatusPending), int64(StatusDone)}

func checkOrderUser(v int64) error {
	return fieldErr(schema.Orders.UserID, constraint.Check(v, constraint.Gt[int64](0)))
}

func checkStatus(v OrderStatus) error {
	return fieldErr(schema.Orders.Status, constraint.Check(int64(v), constraint.OneOf(orderStatuses...)))
}

// checkAmount bounds the amount as it will be stored, after rounding.
func checkAmount(v decimal.Decimal) error {
	stored := v.Round(AmountScale).InexactFloat64()
	return fieldErr(schema.Orders.TotalAmount, constraint.Check(stored, constraint.Gte(0.0), constraint.Lt(AmountLimit)))
}

// Validate checks the order and fills the order date with now when zero.
func (o NewOrder) Validate() (NewOrder, error) {
	if err := errors.Join(checkOrderUser(o.UserID), checkStatus(o.Status), checkAmount(o.TotalAmount)); err != nil {
		return o, err
	}
	o.OrderDate = orNow(o.OrderDate)
	o.TotalAmount = o.TotalAmount.Round(AmountScale)
	return o, nil
}

type OrderUpdate struct {
	UserID      mo.Option[int64]
	OrderDate   mo.Option[time.Time]
	TotalAmount mo.Option[decimal.Decimal]
	Status      mo.Option[OrderStatus]
}

func (o OrderUpdate) Empty() bool {
	return o.UserID.IsAbsent() && o.OrderDate.IsAbsent() && o.TotalAmount.IsAbsent() && o.Status.IsAbsent()
}

func (o OrderUpdate) Validate() (OrderUpdate, error) {
	err := errors.Join(
		checkPresent(o.UserID, checkOrderUser),
		checkPresent(o.Status, checkStatus),
		checkPresent(o.TotalAmount, checkAmount),
	)
	if err != nil {
		return o, err
	}
	if d, ok := o.OrderDate.Get(); ok {
		o.OrderDate = mo.Some(Timestamp(d))
	}
	if a, ok := o.TotalAmount.Get(); ok {
		o.TotalAmount = mo.Some(a.Round(AmountScale))
	}
	return o, nil
}

func OrderPayload() *payload.Object {
	return payload.WithFields(
		payload.Of[int64](schema.Orders.UserID, constraint.Gt[int64](0)),
		payload.Of[time.Time](schema.Orders.OrderDate).Optional(),
		payload.Of[float64](schema.Orders.TotalAmount, constraint.Gte(0.0), constraint.Lt(AmountLimit)),
		payload.Of[int64](schema.Orders.Status, constraint.OneOf(orderStatuses...)),
	)
}

func OrderUpdatePayload() *payload.Object {
	return payload.WithFields(
		payload.Of[int64](schema.Orders.UserID, constraint.Gt[int64](0)).Optional(),
		payload.Of[time.Time](schema.Orders.OrderDate).Optional(),
		payload.Of[float64](schema.Orders.TotalAmount, constraint.Gte(0.0), constraint.Lt(AmountLimit)).Optional(),
		payload.Of[int64](schema.Orders.Status, constraint.OneOf(orderStatuses...)).Optional(),
	)
}

func NewOrderFrom(v payload.Values) NewOrder {
	return NewOrder{
		UserID:      v.Int64(schema.Orders.UserID).OrEmpty(),
		OrderDate:   v.Time(schema.Orders.OrderDate).OrEmpty(),
		TotalAmount: decimal.NewFromFloat(v.Float64(schema.Orders.TotalAmount).OrEmpty()),
		Status:      OrderStatus(v.Int64(schema.Orders.Status).OrEmpty()),
	}
}

func OrderUpdateFrom(v payload.Values) OrderUpdate {
	u := OrderUpdate{
		UserID:    v.Int64(schema.Orders.UserID),
		OrderDate: v.Time(schema.Orders.OrderDate),
	}
	if a, ok := v.Float64(schema.Orders.TotalAmount).Get(); ok {
		u.TotalAmount = mo.Some(decimal.NewFromFloat(a))
	}
	if s, ok := v.Int64(schema.Orders.Status).Get(); ok {
		u.Status = mo.Some(OrderStatus(s))
	}
	return u
}
