package starlark

import (
	"fmt"
	"os"

	"go.starlark.net/starlark"
)

// Reserved global names. Static extra entries never shadow them.
const (
	globalThis  = "this"
	globalExtra = "extra"
	globalEnv   = "env"
)

// Predeclared builds the globals for one evaluation: every static extra
// entry by name, the full set as the "extra" dict, "this" and the env() builtin.
func Predeclared(static map[string]any, this ThisInfo, lookupEnv func(string) (string, bool)) (starlark.StringDict, error) {
	extra, err := GoToStarlark(orEmpty(static))
	if err != nil {
		return nil, fmt.Errorf("converting extra: %w", err)
	}

	globals := make(starlark.StringDict, len(static)+3)
	for k, v := range static {
		if isReserved(k) {
			continue
		}
		sv, err := GoToStarlark(v)
		if err != nil {
			return nil, fmt.Errorf("extra %q: %w", k, err)
		}
		sv.Freeze()
		globals[k] = sv
	}

	extra.Freeze()
	globals[globalExtra] = extra
	globals[globalThis] = this.ToStarlark()
	globals[globalEnv] = envBuiltin(lookupEnv)
	return globals, nil
}

// envBuiltin implements env(name, default=None).
func envBuiltin(lookupEnv func(string) (string, bool)) *starlark.Builtin {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return starlark.NewBuiltin(globalEnv, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var def starlark.Value = starlark.None
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &def); err != nil {
			return nil, err
		}
		if v, ok := lookupEnv(name); ok {
			return starlark.String(v), nil
		}
		return def, nil
	})
}

func isReserved(name string) bool {
	return name == globalThis || name == globalExtra || name == globalEnv
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
