// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argweave/argweave/pkg/coerce"
)

func TestNormalizeOption_Defaults(t *testing.T) {
	t.Parallel()

	o, err := NormalizeOption(Raw{}, WithRegistry(coerce.Standard()))
	require.NoError(t, err)

	assert.Equal(t, coerce.Boolean, o.Type)
	assert.Empty(t, o.Alias)
	assert.False(t, o.Multiple)
	assert.False(t, o.Required)
	assert.False(t, o.Hidden)
	assert.False(t, o.HasDefault())
	require.NotNil(t, o.Transform)
	require.NotNil(t, o.Validate)
	assert.Equal(t, 42, o.Transform(42))
	ok, reason := o.Validate("anything")
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestNormalizeOption_AllProperties(t *testing.T) {
	t.Parallel()

	input := Raw{
		"alias":        "n",
		"defaultValue": 0.0,
		"description":  "A number to add to the sum.",
		"env":          "SUM_NUMBER",
		"group":        "math",
		"hidden":       false,
		"multiple":     true,
		"required":     false,
		"transform":    func(v any) any { return math.Abs(v.(float64)) },
		"type":         "Number",
		"validate":     func(v any) bool { return !math.IsNaN(v.(float64)) },
	}

	o, err := NormalizeOption(input, WithRegistry(coerce.Standard()))
	require.NoError(t, err)

	assert.Equal(t, "n", o.Alias)
	assert.Equal(t, coerce.Number, o.Type)
	assert.Equal(t, "SUM_NUMBER", o.Env)
	assert.Equal(t, "math", o.Group)
	assert.True(t, o.Multiple)
	assert.True(t, o.HasDefault())
	assert.Equal(t, 0.0, o.DefaultValue)
	assert.Equal(t, 3.0, o.Transform(-3.0))

	ok, _ := o.Validate(math.NaN())
	assert.False(t, ok)
	assert.Len(t, input, 11, "input must not be modified")
}

func TestNormalizeOption_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, raw := range []any{nil, "str", 5, true, (*Option)(nil)} {
		_, err := NormalizeOption(raw)
		require.Error(t, err, "%v", raw)
		assert.ErrorIs(t, err, ErrSchema)
	}
}

func TestNormalizeOption_FieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   Raw
		field string
	}{
		{"alias too long", Raw{"alias": "ab"}, "alias"},
		{"alias not a letter", Raw{"alias": "1"}, "alias"},
		{"alias not a string", Raw{"alias": 5}, "alias"},
		{"description not a string", Raw{"description": 1}, "description"},
		{"env not a string", Raw{"env": true}, "env"},
		{"group not a string", Raw{"group": []any{"a"}}, "group"},
		{"hidden not a bool", Raw{"hidden": "yes"}, "hidden"},
		{"multiple not a bool", Raw{"multiple": 1}, "multiple"},
		{"required not a bool", Raw{"required": "true"}, "required"},
		{"transform not a func", Raw{"transform": "upper"}, "transform"},
		{"validate wrong signature", Raw{"validate": func(int) bool { return true }}, "validate"},
		{"unknown type", Raw{"type": "uuid"}, "type"},
		{"blank type", Raw{"type": " "}, "type"},
		{"type not a string", Raw{"type": 3}, "type"},
		{"bad pattern", Raw{"type": "string", "pattern": "("}, "pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NormalizeOption(tt.raw, WithRegistry(coerce.Standard()))
			require.Error(t, err)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr), "got %T", err)
			assert.Equal(t, tt.field, schemaErr.Field)
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestNormalizeOption_RequiredAndDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     Raw
		wantErr bool
	}{
		{"both", Raw{"required": true, "defaultValue": true}, true},
		{"both with nil default", Raw{"required": true, "defaultValue": nil}, true},
		{"default only", Raw{"defaultValue": true}, false},
		{"required false with default", Raw{"required": false, "defaultValue": true}, false},
		{"required only", Raw{"required": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NormalizeOption(tt.raw)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
			assert.Contains(t, err.Error(), "mutually exclusive")
		})
	}

	_, err := NormalizeOption(&Option{Required: true, DefaultValue: "x", Type: coerce.String})
	assert.ErrorIs(t, err, ErrSchema, "hand-built options follow the same rule")
}

func TestNormalizeOption_DefaultMustValidate(t *testing.T) {
	t.Parallel()

	positive := func(v any) (bool, string) {
		if v.(float64) <= 0 {
			return false, "must be positive"
		}
		return true, ""
	}

	_, err := NormalizeOption(Raw{"type": "number", "defaultValue": -1.0, "validate": positive})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "must be positive")

	o, err := NormalizeOption(Raw{"type": "number", "defaultValue": "5", "validate": positive})
	require.NoError(t, err, "string defaults are coerced before validation")
	assert.Equal(t, "5", o.DefaultValue)

	_, err = NormalizeOption(Raw{"type": "object", "defaultValue": "[1]"})
	assert.ErrorIs(t, err, coerce.ErrCoercion)
}

func TestNormalizeOption_ValidateSignatures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		validate any
		reason   string
	}{
		{"bool and reason", ValidateFunc(func(v any) (bool, string) { return v == "ok", "not ok" }), "not ok"},
		{"plain func bool and reason", func(v any) (bool, string) { return v == "ok", "nope" }, "nope"},
		{"bool", func(v any) bool { return v == "ok" }, ""},
		{"error", func(v any) error {
			if v != "ok" {
				return errors.New("bad value")
			}
			return nil
		}, "bad value"},
		{"string reason", func(v any) string {
			if v != "ok" {
				return "expected ok"
			}
			return ""
		}, "expected ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o, err := NormalizeOption(Raw{"type": "string", "validate": tt.validate})
			require.NoError(t, err)

			ok, _ := o.Validate("ok")
			assert.True(t, ok)
			ok, reason := o.Validate("other")
			assert.False(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestNormalizeOption_Pattern(t *testing.T) {
	t.Parallel()

	o, err := NormalizeOption(Raw{
		"type":     "string",
		"pattern":  `^[a-z]+$`,
		"validate": func(v any) bool { return v != "forbidden" },
	})
	require.NoError(t, err)

	v, err := o.Apply(coerce.Standard(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	_, err = o.Apply(coerce.Standard(), "Hello1")
	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Contains(t, rejected.Reason, "does not match pattern")

	_, err = o.Apply(coerce.Standard(), "forbidden")
	assert.ErrorIs(t, err, ErrRejected, "pattern composes with validate")

	_, err = NormalizeOption(Raw{"type": "string", "pattern": `^\d+$`, "defaultValue": "abc"})
	assert.ErrorIs(t, err, ErrSchema)
}

func TestNormalizeOption_Idempotent(t *testing.T) {
	t.Parallel()

	calls := 0
	raw := Raw{"type": "string", "transform": func(v any) any {
		calls++
		return strings.ToUpper(v.(string))
	}, "defaultValue": "x"}

	first, err := NormalizeOption(raw)
	require.NoError(t, err)
	second, err := NormalizeOption(first)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls, "re-normalizing must not re-check the default")

	byValue, err := NormalizeOption(*first)
	require.NoError(t, err)
	assert.Equal(t, first.Type, byValue.Type)
	assert.Equal(t, 1, calls)
}

func TestNormalizeOption_HandBuilt(t *testing.T) {
	t.Parallel()

	in := &Option{Type: coerce.Number, Alias: "a"}
	o, err := NormalizeOption(in)
	require.NoError(t, err)

	assert.NotSame(t, in, o, "input must be copied")
	assert.Nil(t, in.Transform, "input must not be modified")
	assert.NotNil(t, o.Transform)
	assert.False(t, o.HasDefault())

	withDefault, err := NormalizeOption(&Option{Type: coerce.String, DefaultValue: "x"})
	require.NoError(t, err)
	assert.True(t, withDefault.HasDefault())
}

func TestOption_Apply(t *testing.T) {
	t.Parallel()

	o, err := NormalizeOption(Raw{
		"type":      "number",
		"transform": func(v any) any { return v.(float64) * 2 },
		"validate":  func(v any) bool { return v.(float64) < 100 },
	})
	require.NoError(t, err)
	reg := coerce.Standard()

	v, err := o.Apply(reg, "5")
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = o.Apply(reg, 7.0)
	require.NoError(t, err, "typed values skip coercion")
	assert.Equal(t, 14.0, v)

	_, err = o.Apply(reg, "60")
	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, 120.0, rejected.Value, "validate sees the transformed value")
}
