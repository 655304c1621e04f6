package record

import (
	"errors"
	"time"

	"github.com/kcmvp/rawsql/constraint"
	"github.com/kcmvp/rawsql/payload"
	"github.com/kcmvp/rawsql/schema"
	"github.com/samber/mo"
)

type Payment struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	OrderID       int64     `json:"order_id"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMethod PayMethod `json:"payment_method"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type NewPayment struct {
	UserID        int64
	OrderID       int64
	PaymentDate   time.Time
	PaymentMethod PayMethod
}

var payMethods = []int64{int64(CreditCard), int64(Cash)}

func checkPaymentUser(v int64) error {
	return fieldErr(schema.Payments.UserID, constraint.Check(v, constraint.Gt[int64](0)))
}

func checkPaymentOrder(v int64) error {
	return fieldErr(schema.Payments.OrderID, constraint.Check(v, constraint.Gt[int64](0)))
}

func checkMethod(v PayMethod) error {
	return fieldErr(schema.Payments.PaymentMethod, constraint.Check(int64(v), constraint.OneOf(payMethods...)))
}

func (p NewPayment) Validate() (NewPayment, error) {
	if err := errors.Join(checkPaymentUser(p.UserID), checkPaymentOrder(p.OrderID), checkMethod(p.PaymentMethod)); err != nil {
		return p, err
	}
	p.PaymentDate = orNow(p.PaymentDate)
	return p, nil
}

type PaymentUpdate struct {
	UserID        mo.Option[int64]
	OrderID       mo.Option[int64]
	PaymentDate   mo.Option[time.Time]
	PaymentMethod mo.Option[PayMethod]
}

func (p PaymentUpdate) Empty() bool {
	return p.UserID.IsAbsent() && p.OrderID.IsAbsent() && p.PaymentDate.IsAbsent() && p.PaymentMethod.IsAbsent()
}

func (p PaymentUpdate) Validate() (PaymentUpdate, error) {
	err := errors.Join(
		checkPresent(p.UserID, checkPaymentUser),
		checkPresent(p.OrderID, checkPaymentOrder),
		checkPresent(p.PaymentMethod, checkMethod),
	)
	if err != nil {
		return p, err
	}
	if d, ok := p.PaymentDate.Get(); ok {
		p.PaymentDate = mo.Some(Timestamp(d))
	}
	return p, nil
}

func PaymentPayload() *payload.Object {
	return payload.WithFields(
		payload.Of[int64](schema.Payments.UserID, constraint.Gt[int64](0)),
		payload.Of[int64](schema.Payments.OrderID, constraint.Gt[int64](0)),
		payload.Of[time.Time](schema.Payments.PaymentDate).Optional(),
		payload.Of[int64](schema.Payments.PaymentMethod, constraint.OneOf(payMethods...)),
	)
}

func PaymentUpdatePayload() *payload.Object {
	return payload.WithFields(
		payload.Of[int64](schema.Payments.UserID, constraint.Gt[int64](0)).Optional(),
		payload.Of[int64](schema.Payments.OrderID, constraint.Gt[int64](0)).Optional(),
		payload.Of[time.Time](schema.Payments.PaymentDate).Optional(),
		payload.Of[int64](schema.Payments.PaymentMethod, constraint.OneOf(payMethods...)).Optional(),
	)
}

func NewPaymentFrom(v payload.Values) NewPayment {
	return NewPayment{
		UserID:        v.Int64(schema.Payments.UserID).OrEmpty(),
		OrderID:       v.Int64(schema.Payments.OrderID).OrEmpty(),
		PaymentDate:   v.Time(schema.Payments.PaymentDate).OrEmpty(),
		PaymentMethod: PayMethod(v.Int64(schema.Payments.PaymentMethod).OrEmpty()),
	}
}

func PaymentUpdateFrom(v payload.Values) PaymentUpdate {
	u := PaymentUpdate{
		UserID:      v.Int64(schema.Payments.UserID),
		OrderID:     v.Int64(schema.Payments.OrderID),
		PaymentDate: v.Time(schema.Payments.PaymentDate),
	}
	if m, ok := v.Int64(schema.Payments.PaymentMethod).Get(); ok {
		u.PaymentMethod = mo.Some(PayMethod(m))
	}
	return u
}
