package query

import (
	"iter"
	"strconv"
	"strings"

	"github.com/ardnew/ajson/json"
)

// IsIdentifier reports whether key can be written as a bare member name in
// an expression.
func IsIdentifier(key string) bool {
	if key == "" {
		return false
	}

	for i := range len(key) {
		c := key[i]

		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}

// Member appends key to path using dot notation when key is an identifier
// and bracket notation otherwise.
func Member(path, key string) string {
	if !IsIdentifier(key) {
		return path + "[" + strconv.Quote(key) + "]"
	}

	if path == "" {
		return key
	}

	return path + "." + key
}

// Index appends an array subscript to path.
func Index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// Paths yields the path of every member and element below v in document
// order. Paths are valid expressions relative to the document environment.
func Paths(v json.Value) iter.Seq2[string, json.Value] {
	return func(yield func(string, json.Value) bool) {
		walk(v, "", yield)
	}
}

func walk(v json.Value, path string, yield func(string, json.Value) bool) bool {
	switch {
	case v.IsObject():
		obj, _ := v.AsObject()
		for key, val := range obj.All() {
			p := Member(path, key)
			if path == "" && !IsIdentifier(key) {
				p = Member(DocIdentifier, key)
			}

			if !yield(p, val) || !walk(val, p, yield) {
				return false
			}
		}
	case v.IsArray():
		arr, _ := v.AsArray()
		base := path
		if base == "" {
			base = DocIdentifier
		}

		for i, val := range arr.All() {
			p := Index(base, i)
			if !yield(p, val) || !walk(val, p, yield) {
				return false
			}
		}
	}

	return true
}

// Lookup resolves a dotted chain of member names starting at v. Each segment
// may be an object key or a decimal array index. An empty path, or the
// single segment doc, resolves to v itself.
func Lookup(v json.Value, path string) (json.Value, bool) {
	if path == "" {
		return v, true
	}

	segments := strings.Split(path, ".")
	if segments[0] == DocIdentifier {
		segments = segments[1:]
	}

	for _, seg := range segments {
		switch {
		case v.IsObject():
			obj, _ := v.AsObject()

			next, ok := obj.Get(seg)
			if !ok {
				return json.Invalid(), false
			}

			v = next
		case v.IsArray():
			arr, _ := v.AsArray()

			i, err := strconv.Atoi(seg)
			if err != nil {
				return json.Invalid(), false
			}

			next, ok := arr.At(i)
			if !ok {
				return json.Invalid(), false
			}

			v = next
		default:
			return json.Invalid(), false
		}
	}

	return v, true
}

// Members returns the identifier keys of the object at path, in member
// order.
func Members(v json.Value, path string) []string {
	v, ok := Lookup(v, path)
	if !ok {
		return nil
	}

	obj, err := v.AsObject()
	if err != nil {
		return nil
	}

	var keys []string

	for key := range obj.All() {
		if IsIdentifier(key) {
			keys = append(keys, key)
		}
	}

	return keys
}
