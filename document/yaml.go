package document

import (
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jdoc/internal/number"
)

// EncodeYAML renders d as a YAML mapping with fields in insertion order.
func EncodeYAML(d *Document) ([]byte, error) {
	payload, err := yaml.Marshal(d.mapSlice())
	if err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return payload, nil
}

// DecodeYAML parses a YAML mapping into a Document, keeping the order of
// its keys. Mapping keys must be strings.
func DecodeYAML(data []byte) (*Document, error) {
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	v, err := fromYAML(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if v.kind != Object {
		return nil, fmt.Errorf("%w: top-level %s is not a mapping", ErrMalformed, v.kind)
	}
	return v.obj, nil
}

// MarshalYAML emits the ordered mapping representation.
func (d Document) MarshalYAML() (any, error) {
	return d.mapSlice(), nil
}

// UnmarshalYAML replaces the content of d with the mapping in data.
func (d *Document) UnmarshalYAML(data []byte) error {
	parsed, err := DecodeYAML(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// MarshalYAML emits v as plain YAML data.
func (v Value) MarshalYAML() (any, error) {
	return v.yaml(), nil
}

func (d *Document) mapSlice() yaml.MapSlice {
	out := make(yaml.MapSlice, 0, d.Len())
	for key, v := range d.All() {
		out = append(out, yaml.MapItem{Key: key, Value: v.yaml()})
	}
	return out
}

func (v Value) yaml() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		return number.Native(v.num)
	case String:
		return v.str
	case Array:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.yaml()
		}
		return out
	case Object:
		return v.obj.mapSlice()
	default:
		return nil
	}
}

func fromYAML(raw any) (Value, error) {
	switch x := raw.(type) {
	case yaml.MapSlice:
		d := New()
		for _, item := range x {
			key, ok := item.Key.(string)
			if !ok {
				return Value{}, fmt.Errorf("mapping key %v is %T, not a string", item.Key, item.Key)
			}
			v, err := fromYAML(item.Value)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			d.set(key, v)
		}
		return Value{kind: Object, obj: d}, nil
	case map[string]any:
		d := New()
		for _, key := range slices.Sorted(maps.Keys(x)) {
			v, err := fromYAML(x[key])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			d.set(key, v)
		}
		return Value{kind: Object, obj: d}, nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := fromYAML(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return Value{kind: Array, arr: items}, nil
	default:
		return valueOf(raw)
	}
}
