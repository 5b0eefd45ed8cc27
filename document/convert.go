package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/jacoelho/jdoc/internal/number"
)

var jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()

// ValueOf converts a Go value into a Value.
//
// Supported inputs are nil, bool, string, all integer and float types,
// json.Number, Value, Document and *Document, []any, []Value,
// map[string]any and anything encoding/json can marshal (slices, maps,
// structs, json.Marshaler and encoding.TextMarshaler implementations).
// NaN and infinite floats become null. Inputs encoding/json rejects, such as
// channels and functions, are programming errors and cause a panic.
func ValueOf(v any) Value {
	out, err := valueOf(v)
	if err != nil {
		panic(fmt.Sprintf("document: cannot store %T: %v", v, err))
	}
	return out
}

func valueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x.Clone(), nil
	case *Value:
		if x == nil {
			return NullValue(), nil
		}
		return x.Clone(), nil
	case *Document:
		if x == nil {
			return NullValue(), nil
		}
		return ObjectValue(x), nil
	case Document:
		return ObjectValue(&x), nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case []Value:
		return ArrayValue(x...), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			converted, err := valueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = converted
		}
		return Value{kind: Array, arr: items}, nil
	case map[string]any:
		d := New()
		for _, key := range slices.Sorted(maps.Keys(x)) {
			converted, err := valueOf(x[key])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			d.set(key, converted)
		}
		return Value{kind: Object, obj: d}, nil
	}

	n, ok, err := number.FromAny(v)
	if ok {
		if errors.Is(err, number.ErrNotFinite) {
			return NullValue(), nil
		}
		if err != nil {
			return Value{}, err
		}
		return Value{kind: Number, num: n}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, err
	}
	return parseValue(data)
}

// Get returns the value stored under key converted to T.
//
// It fails with a *KeyNotFoundError when key is absent and with a
// *ConversionError when the stored value does not fit T. The result never
// shares memory with d.
func Get[T any](d *Document, key string) (T, error) {
	if !d.Has(key) {
		var zero T
		return zero, &KeyNotFoundError{Key: key, Document: d.String()}
	}
	return As[T](d.fields[validUTF8(key)])
}

// As converts v to T.
//
// Value and any receive a copy of v. Other types follow their encoding/json
// mapping with two differences: integers never accept fractional or
// out-of-range numbers, and null only converts to pointers, interfaces and
// json.Unmarshaler implementations.
func As[T any](v Value) (T, error) {
	var out T
	if err := v.decodeInto(&out); err != nil {
		var zero T
		return zero, &ConversionError{
			Value: v.String(),
			Type:  reflect.TypeFor[T]().String(),
			Err:   err,
		}
	}
	return out, nil
}

func (v Value) decodeInto(target any) error {
	switch p := target.(type) {
	case *Value:
		*p = v.Clone()
		return nil
	case *any:
		*p = v.Interface()
		return nil
	case *string:
		if v.kind != String {
			break
		}
		*p = v.str
		return nil
	case **Document:
		switch v.kind {
		case Object:
			*p = v.obj.Clone()
			return nil
		case Null:
			*p = nil
			return nil
		}
		return mismatch(v, reflect.TypeFor[*Document]())
	case *Document:
		if v.kind != Object {
			return mismatch(v, reflect.TypeFor[Document]())
		}
		*p = *v.obj.Clone()
		return nil
	}

	t := reflect.TypeOf(target).Elem()
	if v.kind == Null && !acceptsNull(t) {
		return mismatch(v, t)
	}

	dec := json.NewDecoder(bytes.NewReader(appendValue(nil, v)))
	dec.UseNumber()
	return dec.Decode(target)
}

func acceptsNull(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return true
	}
	return reflect.PointerTo(t).Implements(jsonUnmarshalerType)
}

func mismatch(v Value, t reflect.Type) error {
	return &json.UnmarshalTypeError{Value: v.kind.String(), Type: t}
}
