package document

import (
	"iter"
	"slices"
)

// Document is an ordered mapping from unique field names to dynamic values.
//
// The zero Document is empty and ready to use. A Document owns every value
// stored in it: Add copies its argument and reads hand out copies, so two
// documents never share mutable state. Documents are not safe for concurrent
// mutation.
type Document struct {
	keys   []string
	fields map[string]Value
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// Field is one key/value pair of a Build call.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for Field{Key: key, Value: value}.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Build returns a document holding fields, added in order. A repeated key
// keeps its last value.
func Build(fields ...Field) *Document {
	d := New()
	for _, f := range fields {
		d.Add(f.Key, f.Value)
	}
	return d
}

// Add stores value under key, replacing any previous value. An overwritten
// key keeps its original position.
//
// value is converted with ValueOf and Add panics for the same inputs.
func (d *Document) Add(key string, value any) {
	d.set(key, ValueOf(value))
}

// With calls Add and returns d, for chaining.
func (d *Document) With(key string, value any) *Document {
	d.Add(key, value)
	return d
}

func (d *Document) set(key string, v Value) {
	key = validUTF8(key)
	if d.fields == nil {
		d.fields = make(map[string]Value)
	}
	if _, ok := d.fields[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.fields[key] = v
}

// Lookup returns a copy of the value stored under key.
func (d *Document) Lookup(key string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	v, ok := d.fields[validUTF8(key)]
	if !ok {
		return Value{}, false
	}
	return v.Clone(), true
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.fields[validUTF8(key)]
	return ok
}

// Len returns the number of fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the field names in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// All iterates fields in insertion order. Yielded values are shared with d
// and must not be retained across a mutation of d.
func (d *Document) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil {
			return
		}
		for _, key := range d.keys {
			if !yield(key, d.fields[key]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of d. Cloning nil yields an empty document.
func (d *Document) Clone() *Document {
	out := New()
	if d == nil || len(d.keys) == 0 {
		return out
	}

	out.keys = slices.Clone(d.keys)
	out.fields = make(map[string]Value, len(d.fields))
	for key, v := range d.fields {
		out.fields[key] = v.Clone()
	}
	return out
}

// Equal reports whether d and other hold the same keys with equal values.
// Field order is ignored.
func (d *Document) Equal(other *Document) bool {
	if d.Len() != other.Len() {
		return false
	}
	for key, v := range d.All() {
		ov, ok := other.fields[key]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// String renders d as compact JSON in insertion order.
func (d *Document) String() string {
	return Encode(d)
}
