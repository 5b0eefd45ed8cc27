package runner

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/jacoelho/jdoc/document"
	"github.com/jacoelho/jdoc/internal/config"
	"github.com/jacoelho/jdoc/internal/template"
)

// execute runs the configured command against doc and returns the rendered output.
func (r *Runner) execute(doc *document.Document) ([]byte, error) {
	switch r.config.Command {
	case config.CommandGet:
		return r.get(doc, r.config.Args[0])
	case config.CommandQuery:
		return r.query(doc, r.config.Args[0])
	case config.CommandSet:
		if err := r.set(doc); err != nil {
			return nil, err
		}
		return r.encodeDocument(doc)
	case config.CommandFmt:
		return r.encodeDocument(doc)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownCommand, r.config.Command)
	}
}

func (r *Runner) get(doc *document.Document, key string) ([]byte, error) {
	v, err := document.Get[document.Value](doc, key)
	if err != nil {
		return nil, err
	}

	converted, err := convert(v, r.config.Type)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}

	return r.render(converted)
}

func (r *Runner) query(doc *document.Document, expr string) ([]byte, error) {
	matches, err := doc.Select(expr)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, &document.KeyNotFoundError{Key: expr, Document: doc.String()}
	}
	r.log.WithFields(logrus.Fields{"path": expr, "matches": len(matches)}).Debug("query matched")

	var out []byte
	for i, match := range matches {
		converted, err := convert(match, r.config.Type)
		if err != nil {
			return nil, fmt.Errorf("match %d of %s: %w", i, expr, err)
		}
		rendered, err := r.render(converted)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered...)
	}
	return out, nil
}

// set renders each assignment as a template and stores the result, parsed as
// JSON when possible and as a plain string otherwise.
func (r *Runner) set(doc *document.Document) error {
	assignments, err := r.config.Assignments()
	if err != nil {
		return err
	}

	for _, assignment := range assignments {
		rendered, err := template.Apply(assignment.Key, assignment.Value, r.config.Variables)
		if err != nil {
			return fmt.Errorf("template for %q: %w", assignment.Key, err)
		}

		v, err := document.ParseValue(rendered)
		if err != nil {
			v = document.StringValue(rendered)
		}
		r.log.WithFields(logrus.Fields{"key": assignment.Key, "kind": v.Kind().String()}).Debug("set field")

		doc.Add(assignment.Key, v)
	}

	return nil
}

func convert(v document.Value, typ string) (any, error) {
	switch typ {
	case "string":
		return as[string](v)
	case "bool":
		return as[bool](v)
	case "int":
		return as[int64](v)
	case "uint":
		return as[uint64](v)
	case "float":
		return as[float64](v)
	case "document":
		return as[*document.Document](v)
	case "array":
		return as[[]document.Value](v)
	default:
		return v, nil
	}
}

func as[T any](v document.Value) (any, error) {
	out, err := document.As[T](v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// render prints scalars bare, one per line, and structured values in the
// configured output format.
func (r *Runner) render(v any) ([]byte, error) {
	switch x := v.(type) {
	case string:
		return []byte(x + "\n"), nil
	case bool:
		return []byte(strconv.FormatBool(x) + "\n"), nil
	case int64:
		return []byte(strconv.FormatInt(x, 10) + "\n"), nil
	case uint64:
		return []byte(strconv.FormatUint(x, 10) + "\n"), nil
	case float64:
		return []byte(strconv.FormatFloat(x, 'g', -1, 64) + "\n"), nil
	case *document.Document:
		if x == nil {
			return []byte("null\n"), nil
		}
		return r.encodeDocument(x)
	case []document.Value:
		return r.encodeValue(document.ArrayValue(x...))
	case document.Value:
		if doc, ok := x.Object(); ok {
			return r.encodeDocument(doc)
		}
		return r.encodeValue(x)
	default:
		return nil, fmt.Errorf("cannot render %T", v)
	}
}

func (r *Runner) encodeDocument(doc *document.Document) ([]byte, error) {
	return r.formatter.Document(doc)
}

func (r *Runner) encodeValue(v document.Value) ([]byte, error) {
	return r.formatter.Value(v)
}
