package dao

import (
	"context"

	"github.com/kcmvp/rawsql/record"
	"github.com/kcmvp/rawsql/schema"
	"github.com/kcmvp/rawsql/store"
)

type Payments interface {
	Insert(ctx context.Context, p record.NewPayment) (record.Payment, error)
	Get(ctx context.Context, id int64) (record.Payment, error)
	GetAll(ctx context.Context) ([]record.Payment, error)
	Update(ctx context.Context, id int64, p record.PaymentUpdate) (record.Payment, error)
	Delete(ctx context.Context, id int64) (record.Payment, error)
}

type PaymentDAO struct {
	table[record.Payment]
}

var _ Payments = (*PaymentDAO)(nil)

func NewPaymentDAO(m *store.Manager) (*PaymentDAO, error) {
	t, err := newTable(m, schema.Payments.Table, decodePayment)
	if err != nil {
		return nil, err
	}
	return &PaymentDAO{table: t}, nil
}

func decodePayment(d *decoder) record.Payment {
	return record.Payment{
		ID:            d.int64(schema.Payments.ID),
		UserID:        d.int64(schema.Payments.UserID),
		OrderID:       d.int64(schema.Payments.OrderID),
		PaymentDate:   d.time(schema.Payments.PaymentDate),
		PaymentMethod: record.PayMethod(d.int64(schema.Payments.PaymentMethod)),
		UpdatedAt:     d.time(schema.Payments.UpdatedAt),
	}
}

func (dao *PaymentDAO) Insert(ctx context.Context, p record.NewPayment) (record.Payment, error) {
	p, err := p.Validate()
	if err != nil {
		return record.Payment{}, err
	}
	s := (&setter{}).
		set(schema.Payments.UserID, p.UserID).
		set(schema.Payments.OrderID, p.OrderID).
		set(schema.Payments.PaymentDate, bindTimestamp(p.PaymentDate)).
		set(schema.Payments.PaymentMethod, int64(p.PaymentMethod))
	return dao.insert(ctx, s)
}

func (dao *PaymentDAO) Get(ctx context.Context, id int64) (record.Payment, error) {
	return dao.get(ctx, id)
}

func (dao *PaymentDAO) GetAll(ctx context.Context) ([]record.Payment, error) {
	return dao.find(ctx, nil)
}

// GetByOrder lists the payments made for one order.
func (dao *PaymentDAO) GetByOrder(ctx context.Context, orderID int64) ([]record.Payment, error) {
	return dao.find(ctx, Eq(schema.Payments.OrderID, orderID))
}

func (dao *PaymentDAO) Update(ctx context.Context, id int64, p record.PaymentUpdate) (record.Payment, error) {
	if p.Empty() {
		return record.Payment{}, ErrEmptyUpdate
	}
	p, err := p.Validate()
	if err != nil {
		return record.Payment{}, err
	}
	s := &setter{}
	setOpt(s, schema.Payments.UserID, p.UserID, func(v int64) any { return v })
	setOpt(s, schema.Payments.OrderID, p.OrderID, func(v int64) any { return v })
	setOpt(s, schema.Payments.PaymentDate, p.PaymentDate, bindTimestamp)
	setOpt(s, schema.Payments.PaymentMethod, p.PaymentMethod, func(v record.PayMethod) any { return int64(v) })
	return dao.update(ctx, id, s)
}

func (dao *PaymentDAO) Delete(ctx context.Context, id int64) (record.Payment, error) {
	return dao.delete(ctx, id)
}
