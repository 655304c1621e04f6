package constraint

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
)

type Number interface {
	uint | uint8 | uint16 | uint32 | uint64 | int | int8 | int16 | int32 | int64 | float32 | float64
}

// JSONType is the set of Go types a payload field can be decoded into.
type JSONType interface {
	Number | string | time.Time | bool
}

type Validator[T JSONType] func(v T) error

// ValidateFunc returns the validator together with its name. The name is used
// to reject the same validator being attached twice to one field.
type ValidateFunc[T JSONType] func() (string, Validator[T])

var (
	ErrIntegerOverflow = errors.New("integer overflow")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrRequired        = errors.New("is required but not found")

	ErrLengthMin = errors.New("length must be at least")
	ErrLengthMax = errors.New("length must be at most")

	ErrNotOneOf = errors.New("value must be one of")
	ErrMustGt   = errors.New("must be greater than")
	ErrMustGte  = errors.New("must be greater than or equal to")
	ErrMustLt   = errors.New("must be less than")
)

// MinLength validates that a string has at least min characters.
func MinLength(min int) ValidateFunc[string] {
	return func() (string, Validator[string]) {
		return "min_length", func(str string) error {
			return lo.Ternary(utf8.RuneCountInString(str) < min, fmt.Errorf("%w %d characters", ErrLengthMin, min), nil)
		}
	}
}

// MaxLength validates that a string has at most max characters.
// Characters are counted as runes, so multi-byte names are not penalised.
func MaxLength(max int) ValidateFunc[string] {
	return func() (string, Validator[string]) {
		return "max_length", func(str string) error {
			return lo.Ternary(utf8.RuneCountInString(str) > max, fmt.Errorf("%w %d characters", ErrLengthMax, max), nil)
		}
	}
}

// OneOf validates that a value is one of the allowed values.
func OneOf[T JSONType](allowed ...T) ValidateFunc[T] {
	return func() (string, Validator[T]) {
		return "one_of", func(val T) error {
			return lo.Ternary(!lo.Contains(allowed, val), fmt.Errorf("%w %v", ErrNotOneOf, allowed), nil)
		}
	}
}

// Gt validates that a number is strictly greater than min.
func Gt[T Number](min T) ValidateFunc[T] {
	return func() (string, Validator[T]) {
		return "gt", func(val T) error {
			return lo.Ternary(val <= min, fmt.Errorf("%w %v", ErrMustGt, min), nil)
		}
	}
}

// Gte validates that a number is greater than or equal to min.
func Gte[T Number](min T) ValidateFunc[T] {
	return func() (string, Validator[T]) {
		return "gte", func(val T) error {
			return lo.Ternary(val < min, fmt.Errorf("%w %v", ErrMustGte, min), nil)
		}
	}
}

// Lt validates that a number is strictly less than max.
func Lt[T Number](max T) ValidateFunc[T] {
	return func() (string, Validator[T]) {
		return "lt", func(val T) error {
			return lo.Ternary(val >= max, fmt.Errorf("%w %v", ErrMustLt, max), nil)
		}
	}
}

// Check runs the validators against v and returns the first failure.
func Check[T JSONType](v T, vfs ...ValidateFunc[T]) error {
	for _, vf := range vfs {
		if _, f := vf(); f != nil {
			if err := f(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsViolation reports whether err carries any of the validation sentinels.
func IsViolation(err error) bool {
	return lo.ContainsBy([]error{
		ErrIntegerOverflow, ErrTypeMismatch, ErrRequired,
		ErrLengthMin, ErrLengthMax, ErrNotOneOf, ErrMustGt, ErrMustGte, ErrMustLt,
	}, func(sentinel error) bool {
		return errors.Is(err, sentinel)
	})
}
