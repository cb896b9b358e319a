package protocol

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// tokenPattern matches the literal {{name}} variable token syntax.
var tokenPattern = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// Resolver looks up a variable's string value. ok is false if the name
// is unknown, in which case Substitute leaves the token intact rather
// than erroring — an unresolved token in a required field is a runtime
// error at the handler, not at substitution time.
type Resolver func(name string) (value string, ok bool)

// Tokens returns the distinct {{name}} token names referenced anywhere in
// a string. Used by the validator's variable-hygiene check.
func Tokens(s string) []string {
	matches := tokenPattern.FindAllStringSubmatch(s, -1)
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// substituteString replaces every {{name}} token in s using resolve.
func substituteString(s string, resolve Resolver) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		name := tokenPattern.FindStringSubmatch(tok)[1]
		if val, ok := resolve(name); ok {
			return val
		}
		return tok
	})
}

// Substitute walks the params JSON tree depth-first and replaces every
// string-valued leaf's {{name}} tokens, recursing into nested objects
// and arrays. It never mutates p; it returns a new Params value built
// with sjson path writes.
//
// This is the single substitution primitive shared by the macro
// expander (C5) and the executor's per-action variable pass (C7):
// a pure function over the parameter tree.
func Substitute(p Params, resolve Resolver) (Params, error) {
	if len(p) == 0 {
		return EmptyParams(), nil
	}
	out := []byte(p)
	root := gjson.ParseBytes(out)
	var walkErr error
	var walk func(path string, value gjson.Result)
	walk = func(path string, value gjson.Result) {
		if walkErr != nil {
			return
		}
		switch {
		case value.IsObject():
			value.ForEach(func(key, val gjson.Result) bool {
				child := key.String()
				if path != "" {
					child = path + "." + escapeSjsonKey(key.String())
				}
				walk(child, val)
				return walkErr == nil
			})
		case value.IsArray():
			i := 0
			value.ForEach(func(_, val gjson.Result) bool {
				child := fmt.Sprintf("%s.%d", path, i)
				i++
				walk(child, val)
				return walkErr == nil
			})
		case value.Type == gjson.String:
			newVal := substituteString(value.String(), resolve)
			if newVal != value.String() {
				next, err := sjson.SetBytes(out, path, newVal)
				if err != nil {
					walkErr = fmt.Errorf("protocol: substitute at %q: %w", path, err)
					return
				}
				out = next
			}
		}
	}
	walk("", root)
	if walkErr != nil {
		return nil, walkErr
	}
	return Params(out), nil
}

// escapeSjsonKey escapes characters sjson treats specially in path
// segments (".", "*", "?").
func escapeSjsonKey(key string) string {
	needsEscape := false
	for _, r := range key {
		if r == '.' || r == '*' || r == '?' {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return key
	}
	out := make([]byte, 0, len(key)*2)
	for _, r := range key {
		if r == '.' || r == '*' || r == '?' {
			out = append(out, '\\')
		}
		out = append(out, byte(r))
	}
	return string(out)
}

// CoerceInt parses an integer from a string that may have come from
// substitution (e.g. "{{verified_x}}" resolving to "100").
func CoerceInt(s string) (int, error) {
	return strconv.Atoi(s)
}
