// SPDX-License-Identifier: MPL-2.0

package coerce

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_Boolean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"false", false},
		{"0", false},
		{"1", true},
		{"-3", true},
		{"0.5", false},
		{"0x10", true},
		{"", true},
		{"{}", true},
		{"foo", true},
		{" ", false},
	}

	r := Standard()
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			v, err := r.Coerce(Boolean, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestCoerce_Number(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want float64
	}{
		{"0", 0},
		{"1", 1},
		{"1.35", 1.35},
		{"-1", -1},
		{"1e3", 1000},
		{".5", 0.5},
		{"0x10", 16},
		{"0b101", 5},
		{" 7 ", 7},
		{"", 0},
		{"Infinity", math.Inf(1)},
	}

	r := Standard()
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			v, err := r.Coerce(Number, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	for _, raw := range []string{"abc", "true", "1_000", "12px", "0xZZ"} {
		v, err := r.Coerce(Number, raw)
		require.NoError(t, err, "non-numeric input degrades, it does not fail")
		assert.True(t, math.IsNaN(v.(float64)), "%q should be NaN", raw)
	}
}

func TestCoerce_String(t *testing.T) {
	t.Parallel()

	r := Standard()
	for _, raw := range []string{"abc", "a=b", "", "-x"} {
		v, err := r.Coerce(String, raw)
		require.NoError(t, err)
		assert.Equal(t, raw, v)
		assert.Equal(t, raw, Format(v))
	}
}

func TestCoerce_Date(t *testing.T) {
	t.Parallel()

	r := Standard()

	v, err := r.Coerce(Date, "0")
	require.NoError(t, err)
	require.IsType(t, time.Time{}, v)
	assert.Equal(t, int64(0), v.(time.Time).UnixMilli())

	v, err = r.Coerce(Date, "86400000")
	require.NoError(t, err)
	assert.Equal(t, int64(86400000), v.(time.Time).UnixMilli())

	for raw, ms := range map[string]int64{"1.5": 1, "1e3": 1, "-2": -2, " 7 ": 7} {
		v, err = r.Coerce(Date, raw)
		require.NoError(t, err)
		assert.Equal(t, ms, v.(time.Time).UnixMilli(), "numeric %q is truncated to its leading integer", raw)
	}

	v, err = r.Coerce(Date, "2000-01-02 12:00:01")
	require.NoError(t, err)
	want := time.Date(2000, time.January, 2, 12, 0, 1, 0, time.Local)
	assert.True(t, want.Equal(v.(time.Time)), "got %v, want %v", v, want)

	v, err = r.Coerce(Date, "2021-03-04T05:06:07Z")
	require.NoError(t, err)
	assert.True(t, time.Date(2021, time.March, 4, 5, 6, 7, 0, time.UTC).Equal(v.(time.Time)))

	for _, raw := range []string{"", "not a date"} {
		v, err = r.Coerce(Date, raw)
		require.NoError(t, err)
		assert.True(t, v.(time.Time).IsZero(), "%q should degrade to the zero time", raw)
	}
}

func TestCoerce_Array(t *testing.T) {
	t.Parallel()

	r := Standard()
	tests := []struct {
		name string
		raw  string
		want []any
	}{
		{"empty", "[]", []any{}},
		{"missing token", "", []any{}},
		{"nested", `[ 1, 2, [ "a", "b" ]]`, []any{1.0, 2.0, []any{"a", "b"}}},
		{"single quotes", `['x', true, null]`, []any{"x", true, nil}},
		{"numeric string falls back", "2", []any{"2"}},
		{"word falls back", "Hello", []any{"Hello"}},
		{"code falls back", "[process.exit(1)]", []any{"[process.exit(1)]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := r.Coerce(Array, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestCoerce_Object(t *testing.T) {
	t.Parallel()

	r := Standard()

	v, err := r.Coerce(Object, "{}")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, v)

	v, err = r.Coerce(Object, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, v)

	v, err = r.Coerce(Object, `{ a: 1, b: { c: "d", e: [ 3 ] } }`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": 1.0,
		"b": map[string]any{"c": "d", "e": []any{3.0}},
	}, v)

	v, err = r.Coerce(Object, "null")
	require.NoError(t, err)
	assert.Nil(t, v)

	for _, raw := range []string{"[1]", "5", "not an object", "{ a: b }"} {
		_, err = r.Coerce(Object, raw)
		assert.ErrorIs(t, err, ErrCoercion, "%q should fail", raw)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	t.Parallel()

	r := Standard()

	v, err := r.Coerce(Number, "5")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
	assert.Equal(t, "5", Format(v))

	v, err = r.Coerce(Number, "-2.25")
	require.NoError(t, err)
	assert.Equal(t, "-2.25", Format(v))

	assert.Equal(t, "NaN", Format(math.NaN()))
	assert.Equal(t, "true", Format(true))
	assert.Equal(t, "null", Format(nil))
	assert.Equal(t, `[1, "a", [true]]`, Format([]any{1.0, "a", []any{true}}))
	assert.Equal(t, `{"a": 1, "b": "x"}`, Format(map[string]any{"b": "x", "a": 1.0}))

	obj, err := r.Coerce(Object, Format(map[string]any{"b": "x", "a": 1.0}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0, "b": "x"}, obj)
}
