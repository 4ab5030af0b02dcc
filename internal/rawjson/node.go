// Package rawjson provides defensive, path-based access to loosely shaped
// upstream JSON. Every accessor resolves a missing or mistyped field to the
// zero value of the requested type instead of failing.
package rawjson

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by Parse when the input is not valid JSON.
var ErrInvalidJSON = errors.New("invalid json")

// Node is a read-only view of a JSON value. The zero Node behaves like a
// missing value.
type Node struct {
	r gjson.Result
}

// Parse validates data and returns its root node.
func Parse(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return Node{}, ErrInvalidJSON
	}
	return Node{r: gjson.ParseBytes(data)}, nil
}

// MustParse is Parse for literals known to be valid. Invalid input yields
// the zero Node.
func MustParse(s string) Node {
	n, _ := Parse([]byte(s))
	return n
}

// Get returns the node at a dot-separated path. Array elements are addressed
// by index ("items.0.id"). An empty path returns n itself.
func (n Node) Get(path string) Node {
	return Node{r: n.at(path)}
}

// Index returns the i-th element of an array node.
func (n Node) Index(i int) Node {
	if !n.r.IsArray() {
		return Node{}
	}
	return Node{r: n.r.Get(strconv.Itoa(i))}
}

// Key returns the member named name of an object node. Unlike Get, name is
// matched literally, so keys containing path syntax are safe.
func (n Node) Key(name string) Node {
	var out gjson.Result
	if !n.r.IsObject() {
		return Node{}
	}
	n.r.ForEach(func(k, v gjson.Result) bool {
		if k.Str == name {
			out = v
			return false
		}
		return true
	})
	return Node{r: out}
}

// IsObject reports whether the node is a JSON object.
func (n Node) IsObject() bool { return n.r.IsObject() }

// IsArray reports whether the node is a JSON array.
func (n Node) IsArray() bool { return n.r.IsArray() }

// Str returns the string at path, or "" when absent or not a string.
func (n Node) Str(path string) string {
	s, _ := n.LookupStr(path)
	return s
}

// LookupStr returns the string at path and whether it was a string.
func (n Node) LookupStr(path string) (string, bool) {
	r := n.at(path)
	if r.Type != gjson.String {
		malformed(path, r, "string")
		return "", false
	}
	return r.Str, true
}

// Int returns the integer at path, or 0.
func (n Node) Int(path string) int64 {
	v, _ := n.LookupInt(path)
	return v
}

// LookupInt returns the integer at path. Numbers written with a fraction or
// exponent are not integers.
func (n Node) LookupInt(path string) (int64, bool) {
	r := n.at(path)
	if r.Type != gjson.Number {
		malformed(path, r, "integer")
		return 0, false
	}
	v, err := strconv.ParseInt(r.Raw, 10, 64)
	if err != nil {
		malformed(path, r, "integer")
		return 0, false
	}
	return v, true
}

// Uint returns the non-negative integer at path, or 0.
func (n Node) Uint(path string) uint64 {
	v, _ := n.LookupUint(path)
	return v
}

// LookupUint returns the non-negative integer at path.
func (n Node) LookupUint(path string) (uint64, bool) {
	r := n.at(path)
	if r.Type != gjson.Number {
		malformed(path, r, "unsigned integer")
		return 0, false
	}
	v, err := strconv.ParseUint(r.Raw, 10, 64)
	if err != nil {
		malformed(path, r, "unsigned integer")
		return 0, false
	}
	return v, true
}

// Float returns the number at path, or 0.
func (n Node) Float(path string) float64 {
	v, _ := n.LookupFloat(path)
	return v
}

// FloatOr returns the number at path, or def.
func (n Node) FloatOr(path string, def float64) float64 {
	if v, ok := n.LookupFloat(path); ok {
		return v
	}
	return def
}

// LookupFloat returns the number at path. Integers are accepted.
func (n Node) LookupFloat(path string) (float64, bool) {
	r := n.at(path)
	if r.Type != gjson.Number {
		malformed(path, r, "number")
		return 0, false
	}
	return r.Num, true
}

// Bool returns the boolean at path, or false.
func (n Node) Bool(path string) bool {
	r := n.at(path)
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		malformed(path, r, "bool")
		return false
	}
}

// Array returns the elements of the array at path, or nil.
func (n Node) Array(path string) []Node {
	r := n.at(path)
	if !r.IsArray() {
		if r.Exists() && r.Type != gjson.Null {
			malformed(path, r, "array")
		}
		return nil
	}
	items := r.Array()
	out := make([]Node, len(items))
	for i, item := range items {
		out[i] = Node{r: item}
	}
	return out
}

func (n Node) at(path string) gjson.Result {
	if path == "" {
		return n.r
	}
	return n.r.Get(path)
}

// malformed records a present field of the wrong type. Missing fields and
// explicit nulls are expected and not reported.
func malformed(path string, r gjson.Result, want string) {
	if !r.Exists() || r.Type == gjson.Null {
		return
	}
	slog.Debug("malformed field", "path", path, "want", want, "got", r.Type.String())
}
