package json

import (
	"bytes"
	"cmp"
	"context"
	"log/slog"
	"math"
	"reflect"
	"slices"
)

// ToNative converts v into plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any. Object member order is not preserved.
// The invalid value converts to nil.
func (v Value) ToNative() any {
	switch v.kind {
	case KindBool:
		return v.n != 0
	case KindInt:
		return v.n
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, 0, v.arr.Len())
		for e := range v.arr.Values() {
			if !e.IsInvalid() {
				out = append(out, e.ToNative())
			}
		}

		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for k, e := range v.obj.All() {
			if !e.IsInvalid() {
				out[k] = e.ToNative()
			}
		}

		return out
	default:
		return nil
	}
}

// FromNative converts a Go value into a Value.
//
// It accepts nil, booleans, integers, floats, strings, Values, *Array,
// *Object, slices and arrays, and maps with string keys. Map members are
// added in sorted key order. Unsigned integers above the int64 range fail
// with [ErrNumberRange]; anything else fails with [ErrUnsupportedType].
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Array:
		return ArrayOf(t), nil
	case *Object:
		return ObjectOf(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case []any:
		arr := NewArray()

		for _, e := range t {
			v, err := FromNative(e)
			if err != nil {
				return Invalid(), err
			}

			arr.Append(v)
		}

		return ArrayOf(arr), nil
	}

	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Invalid(), ErrNumberRange.With(slog.Uint64("number", u))
		}

		return Int(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}

		return FromNative(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}

		arr := NewArray()

		for i := range rv.Len() {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return Invalid(), err
			}

			arr.Append(v)
		}

		return ArrayOf(arr), nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		if rv.IsNil() {
			return Null(), nil
		}

		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return cmp.Compare(a.String(), b.String())
		})

		obj := NewObject()

		for _, k := range keys {
			v, err := FromNative(rv.MapIndex(k).Interface())
			if err != nil {
				return Invalid(), err
			}

			obj.Set(k.String(), v)
		}

		return ObjectOf(obj), nil
	}

	return Invalid(), ErrUnsupportedType.With(slog.String("type", rv.Type().String()))
}

// ValueOf is like [FromNative] but returns the invalid value on failure.
func ValueOf(x any) Value {
	v, err := FromNative(x)
	if err != nil {
		return Invalid()
	}

	return v
}

// MarshalJSON implements the Marshaler interface of encoding/json and
// compatible packages.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	if _, err := Print(v, &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalJSON implements the Unmarshaler interface of encoding/json and
// compatible packages.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBytes(context.Background(), data)
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}
