package json

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/ajson/container"
)

// Kind identifies which variant a [Value] holds.
type Kind uint8

const (
	// KindInvalid marks the absence of a value. It is the zero Kind and
	// appears where a lookup misses or a parse fails.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JSON value: null, a boolean, an integer, a float, a string, an
// array or an object, or the invalid sentinel.
//
// Scalars are stored inline. Arrays and objects are held by reference, so
// copying a Value shares its container the way copying a Go map or slice
// does. Use [Value.Clone] for an independent deep copy.
//
// The zero Value is invalid.
type Value struct {
	kind Kind
	n    int64 // bool (0 or 1) and int payload
	f    float64
	s    string
	arr  *Array
	obj  *Object
}

// Array is an ordered sequence of values.
type Array struct {
	container.Array[Value]
}

// Object is an insertion-ordered set of key/value members.
//
// Keys are unique and at most [container.MaxKeyLength] bytes; longer keys
// are truncated. Members removed with Remove leave a tombstone that is
// reused by the next insertion and is never printed.
type Object struct {
	container.Map[Value]
}

// NewArray returns an empty array.
func NewArray() *Array {
	return &Array{Array: *container.NewArray[Value]()}
}

// NewObject returns an empty object whose new members start invalid.
func NewObject() *Object {
	return &Object{Map: *container.NewMapFunc(Invalid)}
}

// Invalid returns the invalid sentinel.
func Invalid() Value { return Value{} }

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.n = 1
	}

	return v
}

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, n: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// ArrayOf returns a value referring to a. A nil a yields an empty array.
func ArrayOf(a *Array) Value {
	if a == nil {
		a = NewArray()
	}

	return Value{kind: KindArray, arr: a}
}

// ObjectOf returns a value referring to o. A nil o yields an empty object.
func ObjectOf(o *Object) Value {
	if o == nil {
		o = NewObject()
	}

	return Value{kind: KindObject, obj: o}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsInvalid() bool { return v.kind == KindInvalid }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) IsBool() bool    { return v.kind == KindBool }
func (v Value) IsInt() bool     { return v.kind == KindInt }
func (v Value) IsFloat() bool   { return v.kind == KindFloat }
func (v Value) IsString() bool  { return v.kind == KindString }
func (v Value) IsArray() bool   { return v.kind == KindArray }
func (v Value) IsObject() bool  { return v.kind == KindObject }

func (v Value) mismatch(want Kind) error {
	return ErrTypeMismatch.With(
		slog.String("want", want.String()),
		slog.String("have", v.kind.String()),
	)
}

// AsBool returns the boolean held by v, or [ErrTypeMismatch].
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}

	return v.n != 0, nil
}

// AsInt returns the integer held by v, or [ErrTypeMismatch].
// Floats are not converted.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt {
		return 0, v.mismatch(KindInt)
	}

	return v.n, nil
}

// AsFloat returns the float held by v, or [ErrTypeMismatch].
// Integers are not converted.
func (v Value) AsFloat() (float64, error) {
	if v.kind != KindFloat {
		return 0, v.mismatch(KindFloat)
	}

	return v.f, nil
}

// AsString returns the string held by v, or [ErrTypeMismatch].
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch(KindString)
	}

	return v.s, nil
}

// AsArray returns the array held by v, or [ErrTypeMismatch].
// The array is shared with v.
func (v Value) AsArray() (*Array, error) {
	if v.kind != KindArray {
		return nil, v.mismatch(KindArray)
	}

	return v.arr, nil
}

// AsObject returns the object held by v, or [ErrTypeMismatch].
// The object is shared with v.
func (v Value) AsObject() (*Object, error) {
	if v.kind != KindObject {
		return nil, v.mismatch(KindObject)
	}

	return v.obj, nil
}

// Clone returns a deep copy of v. Arrays and objects are copied
// recursively; the copy shares nothing mutable with v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		return Value{kind: KindArray, arr: v.arr.Clone()}
	case KindObject:
		return Value{kind: KindObject, obj: v.obj.Clone()}
	default:
		return v
	}
}

// Equal reports whether v and w hold the same JSON value. Integers and
// floats never compare equal to each other, and object members are compared
// by key regardless of order.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindBool, KindInt:
		return v.n == w.n
	case KindFloat:
		return v.f == w.f
	case KindString:
		return v.s == w.s
	case KindArray:
		return v.arr.Equal(w.arr)
	case KindObject:
		return v.obj.Equal(w.obj)
	default:
		return true
	}
}

// String returns v in its printed form, or "invalid".
func (v Value) String() string {
	if v.kind == KindInvalid {
		return KindInvalid.String()
	}

	var sb strings.Builder

	_, _ = Print(v, &sb)

	return sb.String()
}

// Clone returns a deep copy of a.
func (a *Array) Clone() *Array {
	c := &Array{Array: *a.Array.Clone()}

	for i := range c.Len() {
		p := c.Ptr(i)
		*p = p.Clone()
	}

	return c
}

// Equal reports whether a and b hold equal elements in the same order.
func (a *Array) Equal(b *Array) bool {
	if a.Len() != b.Len() {
		return false
	}

	for i, v := range a.All() {
		if !v.Equal(b.Get(i)) {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of o, tombstones included.
func (o *Object) Clone() *Object {
	c := &Object{Map: *o.Map.Clone()}

	for k, v := range o.All() {
		*c.GetOrCreate(k) = v.Clone()
	}

	return c
}

// Equal reports whether o and p hold the same live members.
func (o *Object) Equal(p *Object) bool {
	if o.Len() != p.Len() {
		return false
	}

	for k, v := range o.All() {
		w, ok := p.Get(k)
		if !ok || !v.Equal(w) {
			return false
		}
	}

	return true
}
