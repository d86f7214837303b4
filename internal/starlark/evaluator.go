package starlark

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/bollhav/pkg/model"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// DefaultMaxSteps bounds a single expression evaluation.
const DefaultMaxSteps = 1_000_000

// ExprError reports an expression that failed to parse or evaluate.
type ExprError struct {
	Expr string
	Err  error
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("starlark expression %q: %v", e.Expr, e.Err)
}

func (e *ExprError) Unwrap() error {
	return e.Err
}

// Evaluator compiles extra expressions into model resolvers.
type Evaluator struct {
	pool      *ThreadPool
	opts      *syntax.FileOptions
	lookupEnv func(string) (string, bool)
	logger    *slog.Logger
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLookupEnv replaces the environment lookup behind env().
func WithLookupEnv(fn func(string) (string, bool)) EvaluatorOption {
	return func(e *Evaluator) { e.lookupEnv = fn }
}

// WithMaxSteps bounds each evaluation to n execution steps.
func WithMaxSteps(n uint64) EvaluatorOption {
	return func(e *Evaluator) { e.pool = NewThreadPool(defaultPoolSize, n) }
}

// NewEvaluator creates an Evaluator. A nil logger discards output.
func NewEvaluator(logger *slog.Logger, opts ...EvaluatorOption) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Evaluator{
		pool:      NewThreadPool(defaultPoolSize, DefaultMaxSteps),
		opts:      &syntax.FileOptions{},
		lookupEnv: os.LookupEnv,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Check parses expr without evaluating it.
func (e *Evaluator) Check(expr string) error {
	if _, err := e.opts.ParseExpr("<extra>", expr, 0); err != nil {
		return &ExprError{Expr: expr, Err: err}
	}
	return nil
}

// Eval evaluates expr with the static extra entries and this as globals,
// returning the result as a Go value.
func (e *Evaluator) Eval(this ThisInfo, expr string, static map[string]any) (any, error) {
	globals, err := Predeclared(static, this, e.lookupEnv)
	if err != nil {
		return nil, &ExprError{Expr: expr, Err: err}
	}

	thread := e.pool.Get(this.Name)

	val, err := starlark.EvalOptions(e.opts, thread, this.Name, expr, globals)
	if err != nil {
		// A thread that hit its step limit stays cancelled; never reuse it.
		return nil, &ExprError{Expr: expr, Err: err}
	}
	steps := thread.Steps
	e.pool.Put(thread)

	out, err := ToGo(val)
	if err != nil {
		return nil, &ExprError{Expr: expr, Err: err}
	}
	e.logger.Debug("evaluated extra expression",
		slog.String("model", this.Name),
		slog.String("expr", expr),
		slog.Uint64("steps", steps))
	return out, nil
}

// Resolver returns a model.Resolver that evaluates expr for the given model.
// The expression is parsed up front so syntax errors surface immediately.
func (e *Evaluator) Resolver(this ThisInfo, expr string) (model.Resolver, error) {
	if err := e.Check(expr); err != nil {
		return nil, err
	}
	return func(static map[string]any) (any, error) {
		return e.Eval(this, expr, static)
	}, nil
}
