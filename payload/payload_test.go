package payload

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/kcmvp/rawsql/constraint"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestTyped(t *testing.T) {
	t.Run("integers", func(t *testing.T) {
		tests := []struct {
			name        string
			json        string
			want        int64
			expectedErr error
		}{
			{name: "int_ok", json: `{"value": 123}`, want: 123},
			{name: "int_from_string_fail", json: `{"value": "123"}`, expectedErr: constraint.ErrTypeMismatch},
			{name: "int_from_float_fail", json: `{"value": 1.5}`, expectedErr: constraint.ErrTypeMismatch},
			{name: "int_overflow", json: fmt.Sprintf(`{"value": %d1}`, math.MaxInt64), expectedErr: constraint.ErrIntegerOverflow},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rs := typed[int64](gjson.Get(tt.json, "value"))
				if tt.expectedErr != nil {
					require.True(t, rs.IsError())
					require.ErrorIs(t, rs.Error(), tt.expectedErr)
					return
				}
				require.Equal(t, tt.want, rs.MustGet())
			})
		}
	})

	t.Run("int8_overflow", func(t *testing.T) {
		rs := typed[int8](gjson.Get(`{"value": 128}`, "value"))
		require.ErrorIs(t, rs.Error(), constraint.ErrIntegerOverflow)
	})

	t.Run("uint_negative", func(t *testing.T) {
		rs := typed[uint](gjson.Get(`{"value": -1}`, "value"))
		require.ErrorIs(t, rs.Error(), constraint.ErrIntegerOverflow)
	})

	t.Run("float", func(t *testing.T) {
		rs := typed[float64](gjson.Get(`{"value": 3.25}`, "value"))
		require.Equal(t, 3.25, rs.MustGet())
	})

	t.Run("bool", func(t *testing.T) {
		require.True(t, typed[bool](gjson.Get(`{"value": true}`, "value")).MustGet())
		require.ErrorIs(t, typed[bool](gjson.Get(`{"value": 1}`, "value")).Error(), constraint.ErrTypeMismatch)
	})

	t.Run("time", func(t *testing.T) {
		rs := typed[time.Time](gjson.Get(`{"value": "1970-01-01"}`, "value"))
		require.True(t, rs.MustGet().Equal(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)))

		rs = typed[time.Time](gjson.Get(`{"value": "2024-05-06T07:08:09Z"}`, "value"))
		require.True(t, rs.MustGet().Equal(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)))

		rs = typed[time.Time](gjson.Get(`{"value": "06/05/2024"}`, "value"))
		require.True(t, rs.IsError())
	})
}

func TestOf_DuplicateValidatorPanics(t *testing.T) {
	require.Panics(t, func() {
		Of[string]("name", constraint.MaxLength(1), constraint.MaxLength(2))
	})
}

func TestWithFields_DuplicateNamePanics(t *testing.T) {
	require.Panics(t, func() {
		WithFields(Of[string]("name"), Of[int64]("name"))
	})
}

func TestObject_Validate(t *testing.T) {
	blueprint := WithFields(
		Of[string]("name", constraint.MaxLength(5)),
		Of[int64]("age").Optional(),
		Of[bool]("active").Optional(),
	)

	t.Run("all present", func(t *testing.T) {
		rs := blueprint.Validate(`{"name":"bob","age":3,"active":false}`)
		require.True(t, rs.IsOk(), "%v", rs.Error())
		vals := rs.MustGet()
		require.Equal(t, "bob", vals.String("name").MustGet())
		require.Equal(t, int64(3), vals.Int64("age").MustGet())
		require.False(t, vals.Bool("active").MustGet())
		require.Equal(t, []string{"active", "age", "name"}, vals.Fields())
	})

	t.Run("optional absent", func(t *testing.T) {
		rs := blueprint.Validate(`{"name":"bob"}`)
		require.True(t, rs.IsOk())
		vals := rs.MustGet()
		require.True(t, vals.Int64("age").IsAbsent())
		require.True(t, vals.Get("active").IsAbsent())
		require.Equal(t, []string{"name"}, vals.Fields())
	})

	t.Run("required missing and unknown field", func(t *testing.T) {
		rs := blueprint.Validate(`{"nick":"bob"}`)
		require.True(t, rs.IsError())
		require.ErrorIs(t, rs.Error(), constraint.ErrRequired)
		require.Contains(t, rs.Error().Error(), "unknown field 'nick'")
	})

	t.Run("unknown field allowed", func(t *testing.T) {
		lenient := WithFields(Of[string]("name")).AllowUnknownFields()
		require.True(t, lenient.Validate(`{"name":"bob","nick":"b"}`).IsOk())
	})

	t.Run("validator failure", func(t *testing.T) {
		rs := blueprint.Validate(`{"name":"robert"}`)
		require.True(t, errors.Is(rs.Error(), constraint.ErrLengthMax))
	})

	t.Run("invalid json", func(t *testing.T) {
		require.True(t, blueprint.Validate(`{"name":`).IsError())
	})
}

func TestValues_WrongTypePanics(t *testing.T) {
	vals := WithFields(Of[string]("name")).Validate(`{"name":"bob"}`).MustGet()
	require.Panics(t, func() {
		vals.Int64("name")
	})
}
