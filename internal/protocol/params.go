package protocol

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Params holds an action's parameter set as a raw JSON object. Keeping the
// params as a JSON tree (rather than decoding into a Go struct per action)
// lets the macro expander and executor substitute {{var}} tokens at any
// depth with gjson/sjson path addressing instead of reflecting over a
// family of per-action parameter structs.
type Params []byte

// EmptyParams returns an empty JSON object.
func EmptyParams() Params {
	return Params("{}")
}

// NewParams builds Params from a generic map, typically decoded from JSON
// or produced by a handler that needs to synthesize params (dry-run echo,
// macro variable injection).
func NewParams(m map[string]any) (Params, error) {
	if m == nil {
		return EmptyParams(), nil
	}
	raw, err := marshalOrdered(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal params: %w", err)
	}
	return Params(raw), nil
}

// MarshalJSON implements json.Marshaler.
func (p Params) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("{}"), nil
	}
	return []byte(p), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Params) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("protocol: params is not valid JSON")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	*p = cp
	return nil
}

// Clone returns a deep copy of the params bytes so callers may mutate the
// copy (via Set) without affecting the stored Action.
func (p Params) Clone() Params {
	if p == nil {
		return EmptyParams()
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	return cp
}

// Has reports whether the given top-level key is present.
func (p Params) Has(key string) bool {
	return p.Get(key).Exists()
}

// Get returns the gjson result at the given path ("." separated for nested
// fields, e.g. "to.x").
func (p Params) Get(path string) gjson.Result {
	if len(p) == 0 {
		return gjson.Result{}
	}
	return gjson.GetBytes(p, path)
}

// Keys returns the top-level keys present in the params object.
func (p Params) Keys() []string {
	result := p.Get("@this")
	if !result.IsObject() {
		return nil
	}
	var keys []string
	result.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// String returns the string value at path, coercing numbers/bools.
func (p Params) String(path string) string {
	return p.Get(path).String()
}

// Int returns the integer value at path. If the underlying value is a
// string (as happens after token substitution produced "100" from
// "{{verified_x}}"), it is coerced via strconv
// "numeric targets ... must be coerced at handler entry."
func (p Params) Int(path string) (int, error) {
	r := p.Get(path)
	switch r.Type {
	case gjson.Number:
		return int(r.Int()), nil
	case gjson.String:
		n, err := strconv.Atoi(r.String())
		if err != nil {
			return 0, fmt.Errorf("protocol: param %q is not an integer: %q", path, r.String())
		}
		return n, nil
	default:
		return 0, fmt.Errorf("protocol: param %q is not an integer", path)
	}
}

// IntOr returns Int(path) or def if the path is absent.
func (p Params) IntOr(path string, def int) int {
	if !p.Has(path) {
		return def
	}
	n, err := p.Int(path)
	if err != nil {
		return def
	}
	return n
}

// Bool returns the boolean value at path.
func (p Params) Bool(path string) bool {
	r := p.Get(path)
	if r.Type == gjson.String {
		b, err := strconv.ParseBool(r.String())
		if err == nil {
			return b
		}
	}
	return r.Bool()
}

// BoolOr returns Bool(path) or def if the path is absent.
func (p Params) BoolOr(path string, def bool) bool {
	if !p.Has(path) {
		return def
	}
	return p.Bool(path)
}

// StringOr returns String(path) or def if the path is absent.
func (p Params) StringOr(path string, def string) string {
	if !p.Has(path) {
		return def
	}
	return p.String(path)
}

// StringSlice returns the string array at path.
func (p Params) StringSlice(path string) []string {
	r := p.Get(path)
	if !r.IsArray() {
		return nil
	}
	items := r.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}

// Set returns a copy of p with path set to value, using sjson path
// addressing. value is marshaled using Go's normal JSON rules.
func (p Params) Set(path string, value any) (Params, error) {
	base := []byte(p)
	if len(base) == 0 {
		base = []byte("{}")
	}
	out, err := sjson.SetBytes(base, path, value)
	if err != nil {
		return nil, fmt.Errorf("protocol: set %q: %w", path, err)
	}
	return Params(out), nil
}

// WithDefaults merges defaults for any key absent from p, returning a new
// Params. Used by the registry to fill in optional-parameter defaults
// before invoking a handler.
func (p Params) WithDefaults(defaults map[string]any) (Params, error) {
	out := p.Clone()
	if len(out) == 0 {
		out = EmptyParams()
	}
	var err error
	for key, val := range defaults {
		if out.Has(key) {
			continue
		}
		out, err = out.Set(key, val)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func marshalOrdered(m map[string]any) ([]byte, error) {
	out := []byte("{}")
	var err error
	for k, v := range m {
		out, err = sjson.SetBytes(out, k, v)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
