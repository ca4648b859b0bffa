package eval

import (
	"encoding/json"
	"maps"
	"slices"
	"time"
)

type builtin func(rec *Record, state *State) (any, error)

var builtins = map[string]builtin{
	"serial": serialBuiltin,
	"raw":    rawBuiltin,
	"uuid":   uuidBuiltin,
	"now":    nowBuiltin,
}

// BuiltinNames returns the sorted names of the built-in functions.
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// serialBuiltin increments then reads, so the first call returns the start
// value.
func serialBuiltin(_ *Record, state *State) (any, error) {
	return state.NextSerial(), nil
}

func rawBuiltin(rec *Record, _ *State) (any, error) {
	if rec == nil {
		return nil, nil
	}
	return json.RawMessage(rec.Raw), nil
}

func uuidBuiltin(_ *Record, state *State) (any, error) {
	return state.newUUID(), nil
}

func nowBuiltin(_ *Record, state *State) (any, error) {
	return state.now().UTC().Format(time.RFC3339), nil
}
