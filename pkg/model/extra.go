package model

import (
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/leapstack-labs/bollhav/pkg/core"
)

// Resolver computes an extra value at construction time. It receives a copy
// of the model's static (non-resolver) extra entries, keyed by name.
//
// Resolvers never see each other's results; an entry computed from another
// resolver's output is not supported.
type Resolver func(static map[string]any) (any, error)

type extraEntry struct {
	key      string
	value    any
	resolver Resolver
}

// Extra is the model's ordered extension map of caller-supplied metadata.
// The zero value is an empty map.
type Extra struct {
	keys   []string
	values map[string]any
}

// resolveExtra partitions entries into static values and resolvers, then
// invokes each resolver once, in declaration order, against the static set.
func resolveExtra(modelName string, entries []extraEntry) (Extra, error) {
	static := make(map[string]any, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.key) == "" {
			return Extra{}, &core.ValidationError{
				Model:   modelName,
				Rule:    core.RuleInvalidExtraKey,
				Message: "extra keys must not be empty",
			}
		}
		if e.resolver == nil {
			if err := checkExtraValue(modelName, e.key, e.value); err != nil {
				return Extra{}, err
			}
			static[e.key] = e.value
		}
	}

	out := Extra{
		keys:   make([]string, 0, len(entries)),
		values: make(map[string]any, len(entries)),
	}
	for _, e := range entries {
		v := e.value
		if e.resolver != nil {
			resolved, err := e.resolver(maps.Clone(static))
			if err != nil {
				return Extra{}, &core.ValidationError{
					Model:   modelName,
					Rule:    core.RuleExtraResolverFailed,
					Message: fmt.Sprintf("resolving extra %q: %v", e.key, err),
					Err:     err,
				}
			}
			if err := checkExtraValue(modelName, e.key, resolved); err != nil {
				return Extra{}, err
			}
			v = resolved
		}
		out.keys = append(out.keys, e.key)
		out.values[e.key] = v
	}
	return out, nil
}

// checkExtraValue rejects functions that are not resolvers. They can be
// neither invoked nor compared.
func checkExtraValue(modelName, key string, v any) error {
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
		return &core.ValidationError{
			Model:   modelName,
			Rule:    core.RuleInvalidExtraValue,
			Message: fmt.Sprintf("extra %q: %T is not a resolver; use func(map[string]any) (any, error)", key, v),
		}
	}
	return nil
}

// Get returns the value stored under key.
func (e Extra) Get(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Keys returns the keys in declaration order.
func (e Extra) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of entries.
func (e Extra) Len() int {
	return len(e.keys)
}

// Map returns a copy of the entries as a plain map.
func (e Extra) Map() map[string]any {
	out := make(map[string]any, len(e.values))
	maps.Copy(out, e.values)
	return out
}

// Equal reports whether e and other hold the same entries. Order is ignored.
func (e Extra) Equal(other Extra) bool {
	if len(e.values) != len(other.values) {
		return false
	}
	for k, v := range e.values {
		ov, ok := other.values[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// String renders the entries in declaration order, e.g. {owner="data", priority=1}.
func (e Extra) String() string {
	parts := make([]string, len(e.keys))
	for i, k := range e.keys {
		parts[i] = k + "=" + formatValue(e.values[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "none"
	case string:
		return fmt.Sprintf("%q", val)
	case []string:
		return formatStrings(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
