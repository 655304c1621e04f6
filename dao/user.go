package dao

import (
	"context"

	"github.com/kcmvp/rawsql/record"
	"github.com/kcmvp/rawsql/schema"
	"github.com/kcmvp/rawsql/store"
)

// Users is the data access contract of the users table.
type Users interface {
	Insert(ctx context.Context, u record.NewUser) (record.User, error)
	Get(ctx context.Context, id int64) (record.User, error)
	GetAll(ctx context.Context) ([]record.User, error)
	Update(ctx context.Context, id int64, u record.UserUpdate) (record.User, error)
	Delete(ctx context.Context, id int64) (record.User, error)
}

type UserDAO struct {
	table[record.User]
}

var _ Users = (*UserDAO)(nil)

func NewUserDAO(m *store.Manager) (*UserDAO, error) {
	t, err := newTable(m, schema.Users.Table, decodeUser)
	if err != nil {
		return nil, err
	}
	return &UserDAO{table: t}, nil
}

func decodeUser(d *decoder) record.User {
	return record.User{
		ID:               d.int64(schema.Users.ID),
		Name:             d.string(schema.Users.Name),
		Email:            d.string(schema.Users.Email),
		RegistrationDate: record.DateOf(d.time(schema.Users.RegistrationDate)),
		IsActive:         d.bool(schema.Users.IsActive),
		UpdatedAt:        d.time(schema.Users.UpdatedAt),
	}
}

func (dao *UserDAO) Insert(ctx context.Context, u record.NewUser) (record.User, error) {
	u, err := u.Validate()
	if err != nil {
		return record.User{}, err
	}
	s := (&setter{}).
		set(schema.Users.Name, u.Name).
		set(schema.Users.Email, u.Email).
		set(schema.Users.RegistrationDate, bindDate(u.RegistrationDate)).
		set(schema.Users.IsActive, u.IsActive.OrElse(true))
	return dao.insert(ctx, s)
}

func (dao *UserDAO) Get(ctx context.Context, id int64) (record.User, error) {
	return dao.get(ctx, id)
}

func (dao *UserDAO) GetAll(ctx context.Context) ([]record.User, error) {
	return dao.find(ctx, nil)
}

// Update changes the fields present in u and refreshes updated_at.
func (dao *UserDAO) Update(ctx context.Context, id int64, u record.UserUpdate) (record.User, error) {
	if u.Empty() {
		return record.User{}, ErrEmptyUpdate
	}
	u, err := u.Validate()
	if err != nil {
		return record.User{}, err
	}
	s := &setter{}
	setOpt(s, schema.Users.Name, u.Name, func(v string) any { return v })
	setOpt(s, schema.Users.Email, u.Email, func(v string) any { return v })
	setOpt(s, schema.Users.RegistrationDate, u.RegistrationDate, bindDate)
	setOpt(s, schema.Users.IsActive, u.IsActive, func(v bool) any { return v })
	return dao.update(ctx, id, s)
}

func (dao *UserDAO) Delete(ctx context.Context, id int64) (record.User, error) {
	return dao.delete(ctx, id)
}
