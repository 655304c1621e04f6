package dao

import (
	"context"

	"github.com/kcmvp/rawsql/record"
	"github.com/kcmvp/rawsql/schema"
	"github.com/kcmvp/rawsql/store"
)

type Orders interface {
	Insert(ctx context.Context, o record.NewOrder) (record.Order, error)
	Get(ctx context.Context, id int64) (record.Order, error)
	GetAll(ctx context.Context) ([]record.Order, error)
	Update(ctx context.Context, id int64, o record.OrderUpdate) (record.Order, error)
	Delete(ctx context.Context, id int64) (record.Order, error)
}

type OrderDAO struct {
	table[record.Order]
}

var _ Orders = (*OrderDAO)(nil)

func NewOrderDAO(m *store.Manager) (*OrderDAO, error) {
	t, err := newTable(m, schema.Orders.Table, decodeOrder)
	if err != nil {
		return nil, err
	}
	return &OrderDAO{table: t}, nil
}

func decodeOrder(d *decoder) record.Order {
	return record.Order{
		ID:          d.int64(schema.Orders.ID),
		UserID:      d.int64(schema.Orders.UserID),
		OrderDate:   d.time(schema.Orders.OrderDate),
		TotalAmount: d.decimal(schema.Orders.TotalAmount),
		Status:      record.OrderStatus(d.int64(schema.Orders.Status)),
		UpdatedAt:   d.time(schema.Orders.UpdatedAt),
	}
}

func (dao *OrderDAO) Insert(ctx context.Context, o record.NewOrder) (record.Order, error) {
	o, err := o.Validate()
	if err != nil {
		return record.Order{}, err
	}
	s := (&setter{}).
		set(schema.Orders.UserID, o.UserID).
		set(schema.Orders.OrderDate, bindTimestamp(o.OrderDate)).
		set(schema.Orders.TotalAmount, bindAmount(o.TotalAmount)).
		set(schema.Orders.Status, int64(o.Status))
	return dao.insert(ctx, s)
}

func (dao *OrderDAO) Get(ctx context.Context, id int64) (record.Order, error) {
	return dao.get(ctx, id)
}

func (dao *OrderDAO) GetAll(ctx context.Context) ([]record.Order, error) {
	return dao.find(ctx, nil)
}

// GetByUser lists the orders of one user.
func (dao *OrderDAO) GetByUser(ctx context.Context, userID int64) ([]record.Order, error) {
	return dao.find(ctx, Eq(schema.Orders.UserID, userID))
}

func (dao *OrderDAO) Update(ctx context.Context, id int64, o record.OrderUpdate) (record.Order, error) {
	if o.Empty() {
		return record.Order{}, ErrEmptyUpdate
	}
	o, err := o.Validate()
	if err != nil {
		return record.Order{}, err
	}
	s := &setter{}
	setOpt(s, schema.Orders.UserID, o.UserID, func(v int64) any { return v })
	setOpt(s, schema.Orders.OrderDate, o.OrderDate, bindTimestamp)
	setOpt(s, schema.Orders.TotalAmount, o.TotalAmount, bindAmount)
	setOpt(s, schema.Orders.Status, o.Status, func(v record.OrderStatus) any { return int64(v) })
	return dao.update(ctx, id, s)
}

func (dao *OrderDAO) Delete(ctx context.Context, id int64) (record.Order, error) {
	return dao.delete(ctx, id)
}
