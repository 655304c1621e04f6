package record

import (
	"errors"
	"time"

	"github.com/kcmvp/rawsql/constraint"
	"github.com/kcmvp/rawsql/payload"
	"github.com/kcmvp/rawsql/schema"
	"github.com/samber/mo"
)

const (
	NameMaxLength  = 50
	EmailMaxLength = 100
)

type User struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	RegistrationDate time.Time `json:"registration_date"`
	IsActive         bool      `json:"is_active"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewUser is the insert shape of a user.
type NewUser struct {
	Name             string
	Email            string
	RegistrationDate time.Time
	IsActive         mo.Option[bool]
}

// NewUserOf returns an active user registered today.
func NewUserOf(name, email string) NewUser {
	return NewUser{Name: name, Email: email, RegistrationDate: Today(), IsActive: mo.Some(true)}
}

func checkName(v string) error {
	return fieldErr(schema.Users.Name, constraint.Check(v, constraint.MinLength(1), constraint.MaxLength(NameMaxLength)))
}

func checkEmail(v string) error {
	return fieldErr(schema.Users.Email, constraint.Check(v, constraint.MinLength(1), constraint.MaxLength(EmailMaxLength)))
}

// Validate checks the length limits, fills the registration date and makes
// an absent is_active true. The returned copy is what gets stored.
func (u NewUser) Validate() (NewUser, error) {
	if err := errors.Join(checkName(u.Name), checkEmail(u.Email)); err != nil {
		return u, err
	}
	if u.RegistrationDate.IsZero() {
		u.RegistrationDate = Today()
	} else {
		u.RegistrationDate = DateOf(u.RegistrationDate)
	}
	u.IsActive = mo.Some(u.IsActive.OrElse(true))
	return u, nil
}

// UserUpdate changes only the fields that are present.
type UserUpdate struct {
	Name             mo.Option[string]
	Email            mo.Option[string]
	RegistrationDate mo.Option[time.Time]
	IsActive         mo.Option[bool]
}

func (u UserUpdate) Empty() bool {
	return u.Name.IsAbsent() && u.Email.IsAbsent() && u.RegistrationDate.IsAbsent() && u.IsActive.IsAbsent()
}

func (u UserUpdate) Validate() (UserUpdate, error) {
	if err := errors.Join(checkPresent(u.Name, checkName), checkPresent(u.Email, checkEmail)); err != nil {
		return u, err
	}
	if d, ok := u.RegistrationDate.Get(); ok {
		u.RegistrationDate = mo.Some(DateOf(d))
	}
	return u, nil
}

// UserPayload is the body of a user creation request.
func UserPayload() *payload.Object {
	return payload.WithFields(
		payload.Of[string](schema.Users.Name, constraint.MinLength(1), constraint.MaxLength(NameMaxLength)),
		payload.Of[string](schema.Users.Email, constraint.MinLength(1), constraint.MaxLength(EmailMaxLength)),
		payload.Of[time.Time](schema.Users.RegistrationDate).Optional(),
		payload.Of[bool](schema.Users.IsActive).Optional(),
	)
}

// UserUpdatePayload is the body of a user update request.
func UserUpdatePayload() *payload.Object {
	return payload.WithFields(
		payload.Of[string](schema.Users.Name, constraint.MinLength(1), constraint.MaxLength(NameMaxLength)).Optional(),
		payload.Of[string](schema.Users.Email, constraint.MinLength(1), constraint.MaxLength(EmailMaxLength)).Optional(),
		payload.Of[time.Time](schema.Users.RegistrationDate).Optional(),
		payload.Of[bool](schema.Users.IsActive).Optional(),
	)
}

// NewUserFrom builds the insert shape of a validated UserPayload.
func NewUserFrom(v payload.Values) NewUser {
	return NewUser{
		Name:             v.String(schema.Users.Name).OrEmpty(),
		Email:            v.String(schema.Users.Email).OrEmpty(),
		RegistrationDate: v.Time(schema.Users.RegistrationDate).OrEmpty(),
		IsActive:         v.Bool(schema.Users.IsActive),
	}
}

// UserUpdateFrom builds the update shape of a validated UserUpdatePayload.
func UserUpdateFrom(v payload.Values) UserUpdate {
	return UserUpdate{
		Name:             v.String(schema.Users.Name),
		Email:            v.String(schema.Users.Email),
		RegistrationDate: v.Time(schema.Users.RegistrationDate),
		IsActive:         v.Bool(schema.Users.IsActive),
	}
}
