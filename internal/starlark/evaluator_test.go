package starlark

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/bollhav/internal/testutil"
	"github.com/leapstack-labs/bollhav/pkg/core"
	"github.com/leapstack-labs/bollhav/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestEvaluator_Eval(t *testing.T) {
	e := NewEvaluator(testutil.NewTestLogger(t), WithLookupEnv(fakeEnv(map[string]string{"REGION": "eu"})))
	this := ThisInfo{Name: "orders", SourceEntity: "raw.orders"}
	static := map[string]any{"owner": "data", "retention_days": 30, "env": "shadowed"}

	tests := []struct {
		name string
		expr string
		want any
	}{
		{name: "global from static", expr: `owner + "-team"`, want: "data-team"},
		{name: "arithmetic", expr: "retention_days * 2", want: int64(60)},
		{name: "extra dict", expr: `extra["owner"]`, want: "data"},
		{name: "this", expr: `this.name + "@" + this.source_entity`, want: "orders@raw.orders"},
		{name: "env set", expr: `env("REGION")`, want: "eu"},
		{name: "env default", expr: `env("MISSING", "local")`, want: "local"},
		{name: "env missing", expr: `env("MISSING")`, want: nil},
		{name: "list", expr: `[owner, "ops"]`, want: []any{"data", "ops"}},
		{name: "dict", expr: `{"days": retention_days}`, want: map[string]any{"days": int64(30)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Eval(this, tt.expr, static)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_EvalErrors(t *testing.T) {
	e := NewEvaluator(nil, WithMaxSteps(1000))
	this := ThisInfo{Name: "m"}

	tests := []struct {
		name string
		expr string
	}{
		{name: "undefined", expr: "missing_name"},
		{name: "type error", expr: `"a" + 1`},
		{name: "unconvertible result", expr: "len"},
		{name: "step limit", expr: "[x for x in range(100000)]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Eval(this, tt.expr, nil)
			var exprErr *ExprError
			require.True(t, errors.As(err, &exprErr), "got %v", err)
			assert.Equal(t, tt.expr, exprErr.Expr)
		})
	}
}

func TestEvaluator_StepLimitDoesNotPoisonLaterEvals(t *testing.T) {
	e := NewEvaluator(nil, WithMaxSteps(1000))
	this := ThisInfo{Name: "m"}

	_, err := e.Eval(this, "[x for x in range(100000)]", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many steps")

	for range defaultPoolSize + 1 {
		got, err := e.Eval(this, "1 + 1", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got)
	}
}

func TestEvaluator_StaticIsReadOnly(t *testing.T) {
	e := NewEvaluator(nil)
	_, err := e.Eval(ThisInfo{Name: "m"}, `tags.append("x")`, map[string]any{"tags": []string{"a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frozen")
}

func TestEvaluator_Check(t *testing.T) {
	e := NewEvaluator(nil)
	assert.NoError(t, e.Check("owner + 1"))
	assert.Error(t, e.Check("owner +"))
	assert.Error(t, e.Check("x = 1"))
}

func TestEvaluator_ResolverInModel(t *testing.T) {
	e := NewEvaluator(nil)
	resolver, err := e.Resolver(ThisInfo{Name: "orders", SourceEntity: "raw.orders"}, `owner.upper()`)
	require.NoError(t, err)

	m, err := model.New("orders", "raw.orders",
		model.WithExtra("owner", "data"),
		model.WithResolver("owner_upper", resolver),
	)
	require.NoError(t, err)

	v, ok := m.Extra().Get("owner_upper")
	require.True(t, ok)
	assert.Equal(t, "DATA", v)
}

func TestEvaluator_ResolverFailureSurfacesInModel(t *testing.T) {
	e := NewEvaluator(nil)
	resolver, err := e.Resolver(ThisInfo{Name: "orders"}, `nope`)
	require.NoError(t, err)

	_, err = model.New("orders", "src", model.WithResolver("x", resolver))
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, core.RuleExtraResolverFailed, vErr.Rule)

	var exprErr *ExprError
	assert.True(t, errors.As(err, &exprErr))
}

func TestEvaluator_ResolverRejectsBadSyntax(t *testing.T) {
	_, err := NewEvaluator(nil).Resolver(ThisInfo{Name: "m"}, "1 +")
	var exprErr *ExprError
	assert.True(t, errors.As(err, &exprErr))
}
