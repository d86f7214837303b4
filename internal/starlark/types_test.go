package starlark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantStr string
		wantErr bool
	}{
		{
			name:    "string",
			input:   "hello",
			wantStr: `"hello"`,
		},
		{
			name:    "int",
			input:   42,
			wantStr: "42",
		},
		{
			name:    "int64",
			input:   int64(123456789),
			wantStr: "123456789",
		},
		{
			name:    "float64",
			input:   3.14,
			wantStr: "3.14",
		},
		{
			name:    "bool",
			input:   true,
			wantStr: "True",
		},
		{
			name:    "nil",
			input:   nil,
			wantStr: "None",
		},
		{
			name:    "time",
			input:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			wantStr: `"2024-01-02T03:04:05Z"`,
		},
		{
			name:    "string slice",
			input:   []string{"a", "b"},
			wantStr: `["a", "b"]`,
		},
		{
			name:    "any slice",
			input:   []any{"x", 1, true},
			wantStr: `["x", 1, True]`,
		},
		{
			name:    "map keys sorted",
			input:   map[string]any{"b": 2, "a": 1},
			wantStr: `{"a": 1, "b": 2}`,
		},
		{
			name:    "unsupported",
			input:   struct{}{},
			wantErr: true,
		},
		{
			name:    "unsupported nested",
			input:   []any{make(chan int)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoToStarlark(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStr, got.String())
		})
	}
}

func TestToGo(t *testing.T) {
	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.String("k"), starlark.MakeInt(1)))

	badDict := starlark.NewDict(1)
	require.NoError(t, badDict.SetKey(starlark.MakeInt(1), starlark.String("v")))

	tests := []struct {
		name    string
		input   starlark.Value
		want    any
		wantErr bool
	}{
		{name: "string", input: starlark.String("hello"), want: "hello"},
		{name: "int", input: starlark.MakeInt(42), want: int64(42)},
		{name: "float", input: starlark.Float(3.14), want: 3.14},
		{name: "bool", input: starlark.Bool(false), want: false},
		{name: "none", input: starlark.None, want: nil},
		{name: "list", input: starlark.NewList([]starlark.Value{starlark.String("a")}), want: []any{"a"}},
		{name: "tuple", input: starlark.Tuple{starlark.MakeInt(1), starlark.True}, want: []any{int64(1), true}},
		{name: "dict", input: dict, want: map[string]any{"k": int64(1)}},
		{name: "non-string dict key", input: badDict, wantErr: true},
		{name: "function", input: starlark.NewBuiltin("f", nil), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToGo(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestThisInfo_ToStarlark(t *testing.T) {
	val := ThisInfo{Name: "orders", SourceEntity: "raw.orders"}.ToStarlark()
	assert.Contains(t, val.String(), `name = "orders"`)
	assert.Contains(t, val.String(), `source_entity = "raw.orders"`)
}
