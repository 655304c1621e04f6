// Package payload validates JSON request bodies against a declared blueprint
// of typed fields. Fields missing from an optional blueprint stay absent in the
// resulting Values, which is what partial updates rely on.
package payload

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/kcmvp/rawsql/constraint"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

// TimeLayouts are tried in order when a string is decoded into time.Time.
var TimeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

// validationError keeps one error per field.
type validationError struct {
	errors map[string]error
}

func (e *validationError) Error() string {
	if e == nil || len(e.errors) == 0 {
		return ""
	}
	names := lo.Keys(e.errors)
	sort.Strings(names)
	msgs := lo.Map(names, func(n string, _ int) string {
		return e.errors[n].Error()
	})
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the per-field errors to errors.Is / errors.As.
func (e *validationError) Unwrap() []error {
	return lo.Values(e.errors)
}

func (e *validationError) add(name string, err error) {
	if err == nil {
		return
	}
	if e.errors == nil {
		e.errors = make(map[string]error)
	}
	e.errors[name] = err
}

func (e *validationError) err() error {
	if e == nil || len(e.errors) == 0 {
		return nil
	}
	return e
}

// Field is the non-generic view of a TypedField so an Object can hold fields
// of different value types. It is sealed by the unexported validate method.
type Field interface {
	Name() string
	validate(json string) (value any, found bool, err error)
}

type TypedField[T constraint.JSONType] struct {
	name       string
	required   bool
	validators []constraint.Validator[T]
}

var _ Field = (*TypedField[string])(nil)

// Of declares a required field. Attaching the same validator twice panics.
func Of[T constraint.JSONType](name string, vfs ...constraint.ValidateFunc[T]) *TypedField[T] {
	lo.Assert(name != "", "payload: field name must not be empty")
	seen := make(map[string]struct{}, len(vfs))
	validators := make([]constraint.Validator[T], 0, len(vfs))
	for _, vf := range vfs {
		n, f := vf()
		if _, ok := seen[n]; ok {
			panic(fmt.Sprintf("payload: duplicate validator '%s' for field '%s'", n, name))
		}
		seen[n] = struct{}{}
		validators = append(validators, f)
	}
	return &TypedField[T]{name: name, required: true, validators: validators}
}

func (f *TypedField[T]) Name() string {
	return f.name
}

// Optional marks the field as allowed to be absent.
func (f *TypedField[T]) Optional() *TypedField[T] {
	f.required = false
	return f
}

func (f *TypedField[T]) validate(json string) (any, bool, error) {
	rs, found := f.Validate(json)
	if rs.IsError() {
		return nil, found, rs.Error()
	}
	if !found {
		return nil, false, nil
	}
	return rs.MustGet(), true, nil
}

// Validate extracts the field from json, converts it to T and runs the
// validators. The boolean reports whether the field was present.
func (f *TypedField[T]) Validate(json string) (mo.Result[T], bool) {
	res := gjson.Get(json, f.name)
	if !res.Exists() {
		if f.required {
			return mo.Err[T](fmt.Errorf("%s %w", f.name, constraint.ErrRequired)), false
		}
		return mo.Ok(*new(T)), false
	}
	typedVal := typed[T](res)
	if typedVal.IsError() {
		return mo.Err[T](fmt.Errorf("field '%s': %w", f.name, typedVal.Error())), true
	}
	val := typedVal.MustGet()
	for _, v := range f.validators {
		if err := v(val); err != nil {
			return mo.Err[T](fmt.Errorf("field '%s': %w", f.name, err)), true
		}
	}
	return mo.Ok(val), true
}

func overflowError[T any](v T) error {
	return fmt.Errorf("for type %T: %w", v, constraint.ErrIntegerOverflow)
}

// typed converts a gjson value into T, refusing JSON types that do not match.
func typed[T constraint.JSONType](res gjson.Result) mo.Result[T] {
	var zero T
	targetType := reflect.TypeOf(zero)

	switch targetType.Kind() {
	case reflect.String:
		if res.Type == gjson.String {
			return mo.Ok(any(res.String()).(T))
		}
	case reflect.Bool:
		if res.Type == gjson.True || res.Type == gjson.False {
			return mo.Ok(any(res.Bool()).(T))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if res.Type != gjson.Number {
			break
		}
		bf, _, err := new(big.Float).Parse(res.Raw, 10)
		if err != nil {
			return mo.Err[T](fmt.Errorf("could not parse number: %w", err))
		}
		if !bf.IsInt() {
			return mo.Err[T](fmt.Errorf("%w: cannot assign float value %s to integer type", constraint.ErrTypeMismatch, res.Raw))
		}
		bi, _ := bf.Int(nil)
		if !bi.IsInt64() {
			return mo.Err[T](overflowError(zero))
		}
		val := bi.Int64()
		if reflect.New(targetType).Elem().OverflowInt(val) {
			return mo.Err[T](overflowError(zero))
		}
		return mo.Ok(reflect.ValueOf(val).Convert(targetType).Interface().(T))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if res.Type != gjson.Number {
			break
		}
		bf, _, err := new(big.Float).Parse(res.Raw, 10)
		if err != nil {
			return mo.Err[T](fmt.Errorf("could not parse number: %w", err))
		}
		if bf.Sign() < 0 {
			return mo.Err[T](overflowError(zero))
		}
		if !bf.IsInt() {
			return mo.Err[T](fmt.Errorf("%w: cannot assign float value %s to unsigned integer type", constraint.ErrTypeMismatch, res.Raw))
		}
		bi, _ := bf.Int(nil)
		if !bi.IsUint64() {
			return mo.Err[T](overflowError(zero))
		}
		val := bi.Uint64()
		if reflect.New(targetType).Elem().OverflowUint(val) {
			return mo.Err[T](overflowError(zero))
		}
		return mo.Ok(reflect.ValueOf(val).Convert(targetType).Interface().(T))
	case reflect.Float32, reflect.Float64:
		if res.Type != gjson.Number {
			break
		}
		val := res.Float()
		if reflect.New(targetType).Elem().OverflowFloat(val) {
			return mo.Err[T](fmt.Errorf("value %f overflows type %T", val, zero))
		}
		return mo.Ok(reflect.ValueOf(val).Convert(targetType).Interface().(T))
	case reflect.Struct:
		if targetType != reflect.TypeOf(time.Time{}) {
			return mo.Err[T](fmt.Errorf("%w: unsupported type %T", constraint.ErrTypeMismatch, zero))
		}
		if res.Type != gjson.String {
			break
		}
		for _, layout := range TimeLayouts {
			if t, err := time.Parse(layout, res.String()); err == nil {
				return mo.Ok(any(t).(T))
			}
		}
		return mo.Err[T](fmt.Errorf("incorrect date format for string '%s'", res.String()))
	default:
		return mo.Err[T](fmt.Errorf("%w: unsupported type %T", constraint.ErrTypeMismatch, zero))
	}
	return mo.Err[T](fmt.Errorf("%w: expected %T but got JSON type %s", constraint.ErrTypeMismatch, zero, res.Type))
}

// Object is a blueprint for one JSON object.
type Object struct {
	fields             []Field
	allowUnknownFields bool
}

// WithFields builds a blueprint. Duplicate field names panic.
func WithFields(fields ...Field) *Object {
	names := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, exists := names[f.Name()]; exists {
			panic(fmt.Sprintf("payload: duplicate field name '%s'", f.Name()))
		}
		names[f.Name()] = struct{}{}
	}
	return &Object{fields: fields}
}

// AllowUnknownFields makes the blueprint ignore keys it does not declare.
func (o *Object) AllowUnknownFields() *Object {
	o.allowUnknownFields = true
	return o
}

// Validate checks json against the blueprint and collects every field error.
func (o *Object) Validate(json string) mo.Result[Values] {
	if !gjson.Valid(json) {
		return mo.Err[Values](fmt.Errorf("%w: invalid JSON", constraint.ErrTypeMismatch))
	}
	errs := &validationError{}
	values := valueMap{}
	if !o.allowUnknownFields {
		known := lo.SliceToMap(o.fields, func(f Field) (string, struct{}) {
			return f.Name(), struct{}{}
		})
		gjson.Parse(json).ForEach(func(key, _ gjson.Result) bool {
			if _, ok := known[key.String()]; !ok {
				errs.add(key.String(), fmt.Errorf("unknown field '%s'", key.String()))
			}
			return true
		})
	}
	for _, f := range o.fields {
		v, found, err := f.validate(json)
		if err != nil {
			errs.add(f.Name(), err)
			continue
		}
		if found {
			values[f.Name()] = v
		}
	}
	if err := errs.err(); err != nil {
		return mo.Err[Values](err)
	}
	return mo.Ok[Values](values)
}

// Values holds the validated fields of one payload. Getters return None for
// absent fields and panic when a present field has another type, which is a
// programming error in the blueprint.
type Values interface {
	String(name string) mo.Option[string]
	Int64(name string) mo.Option[int64]
	Float64(name string) mo.Option[float64]
	Bool(name string) mo.Option[bool]
	Time(name string) mo.Option[time.Time]
	Get(name string) mo.Option[any]
	Fields() []string
	seal()
}

type valueMap map[string]any

var _ Values = valueMap{}

func (vm valueMap) seal() {}

func get[T any](vm valueMap, name string) mo.Option[T] {
	value, ok := vm[name]
	if !ok {
		return mo.None[T]()
	}
	typedValue, ok := value.(T)
	if !ok {
		panic(fmt.Sprintf("payload: field '%s' has wrong type: expected %T, got %T", name, *new(T), value))
	}
	return mo.Some(typedValue)
}

func (vm valueMap) String(name string) mo.Option[string] {
	return get[string](vm, name)
}

func (vm valueMap) Int64(name string) mo.Option[int64] {
	return get[int64](vm, name)
}

func (vm valueMap) Float64(name string) mo.Option[float64] {
	return get[float64](vm, name)
}

func (vm valueMap) Bool(name string) mo.Option[bool] {
	return get[bool](vm, name)
}

func (vm valueMap) Time(name string) mo.Option[time.Time] {
	return get[time.Time](vm, name)
}

func (vm valueMap) Get(name string) mo.Option[any] {
	return get[any](vm, name)
}

// Fields returns the present field names in sorted order.
func (vm valueMap) Fields() []string {
	names := lo.Keys(vm)
	sort.Strings(names)
	return names
}
