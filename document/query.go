package document

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/theory/jsonpath"

	"github.com/jacoelho/jdoc/internal/number"
)

// Select returns a copy of every value matched by the RFC 9535 JSONPath
// expression expr, in document order.
func (d *Document) Select(expr string) ([]Value, error) {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrPath, expr, err)
	}

	tree := exportTree{objects: make(map[uintptr]*Document)}
	nodes := path.Select(tree.document(d))

	out := make([]Value, 0, len(nodes))
	for _, node := range nodes {
		v, err := tree.restore(node)
		if err != nil {
			return nil, fmt.Errorf("JSONPath %q: %w", expr, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Query returns the first value matched by expr converted to T. It fails with
// a *KeyNotFoundError keyed by expr when nothing matches and with a
// *ConversionError when the match does not fit T.
func Query[T any](d *Document, expr string) (T, error) {
	var zero T

	matches, err := d.Select(expr)
	if err != nil {
		return zero, err
	}
	if len(matches) == 0 {
		return zero, &KeyNotFoundError{Key: expr, Document: d.String()}
	}
	return As[T](matches[0])
}

// exportTree turns a document into the map[string]any/[]any form JSONPath
// evaluates, remembering which exported map came from which document so
// that matched objects keep their field order.
type exportTree struct {
	objects map[uintptr]*Document
}

func (t *exportTree) document(d *Document) map[string]any {
	out := make(map[string]any, d.Len())
	for key, v := range d.All() {
		out[key] = t.value(v)
	}
	t.objects[reflect.ValueOf(out).Pointer()] = d
	return out
}

func (t *exportTree) value(v Value) any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		native := number.Native(v.num)
		// literals beyond float64 range stay json.Number
		if literal, ok := native.(string); ok {
			return json.Number(literal)
		}
		return native
	case String:
		return v.str
	case Array:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = t.value(item)
		}
		return out
	case Object:
		return t.document(v.obj)
	default:
		return nil
	}
}

func (t *exportTree) restore(node any) (Value, error) {
	switch x := node.(type) {
	case map[string]any:
		if d, ok := t.objects[reflect.ValueOf(x).Pointer()]; ok {
			return ObjectValue(d), nil
		}
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := t.restore(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{kind: Array, arr: items}, nil
	}
	return valueOf(node)
}
