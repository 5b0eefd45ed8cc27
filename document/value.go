package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/jdoc/internal/number"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{
	Null:   "null",
	Bool:   "bool",
	Number: "number",
	String: "string",
	Array:  "array",
	Object: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a dynamic JSON value. The zero Value is null.
//
// Numbers keep their JSON literal so that integers and floats convert back to
// the Go type requested by the caller without loss.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  *Document
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// StringValue wraps s. Invalid UTF-8 sequences are replaced with U+FFFD, the
// form the string takes in JSON text.
func StringValue(s string) Value { return Value{kind: String, str: validUTF8(s)} }

func validUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}

// IntValue wraps an integer.
func IntValue(i int64) Value {
	return Value{kind: Number, num: json.Number(strconv.FormatInt(i, 10))}
}

// FloatValue wraps f. NaN and infinities have no JSON form and become null.
func FloatValue(f float64) Value {
	n, err := number.FromFloat(f, 64)
	if err != nil {
		return NullValue()
	}
	return Value{kind: Number, num: n}
}

// NumberValue wraps a JSON number literal.
func NumberValue(n json.Number) (Value, error) {
	if !number.Valid(string(n)) {
		return Value{}, fmt.Errorf("invalid number literal %q", string(n))
	}
	return Value{kind: Number, num: n}, nil
}

// ArrayValue builds a sequence holding copies of items.
func ArrayValue(items ...Value) Value {
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return Value{kind: Array, arr: out}
}

// ObjectValue wraps a copy of d. A nil d yields an empty object.
func ObjectValue(d *Document) Value {
	return Value{kind: Object, obj: d.Clone()}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

// Str returns the string held by v.
func (v Value) Str() (string, bool) { return v.str, v.kind == String }

// Number returns the number literal held by v.
func (v Value) Number() (json.Number, bool) { return v.num, v.kind == Number }

// Array returns a copy of the sequence held by v.
func (v Value) Array() ([]Value, bool) {
	if v.kind != Array {
		return nil, false
	}
	out := make([]Value, len(v.arr))
	for i, item := range v.arr {
		out[i] = item.Clone()
	}
	return out, true
}

// Object returns a copy of the nested document held by v.
func (v Value) Object() (*Document, bool) {
	if v.kind != Object {
		return nil, false
	}
	return v.obj.Clone(), true
}

// Interface returns v as plain Go data: nil, bool, json.Number, string,
// []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		return v.num
	case String:
		return v.str
	case Array:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, v.obj.Len())
		for key, item := range v.obj.All() {
			out[key] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case Array:
		out := make([]Value, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Clone()
		}
		return Value{kind: Array, arr: out}
	case Object:
		return Value{kind: Object, obj: v.obj.Clone()}
	default:
		return v
	}
}

// Equal reports whether v and other hold the same data. Numbers compare by
// value, object fields regardless of order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case Number:
		return number.Equal(v.num, other.num)
	case String:
		return v.str == other.str
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		return v.obj.Equal(other.obj)
	default:
		return false
	}
}

// String renders v as compact JSON.
func (v Value) String() string {
	return string(appendValue(nil, v))
}
