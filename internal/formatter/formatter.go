package formatter

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jdoc/document"
	"github.com/jacoelho/jdoc/internal/config"
)

// Formatter renders documents and values for one output format.
// Every rendering ends with a newline.
type Formatter interface {
	Document(doc *document.Document) ([]byte, error)
	Value(v document.Value) ([]byte, error)
}

// New returns the formatter for an output format name.
func New(format string) (Formatter, error) {
	switch format {
	case config.FormatJSON:
		return JSON{}, nil
	case config.FormatYAML:
		return YAML{}, nil
	case config.FormatCanonical:
		return Canonical{}, nil
	default:
		return nil, fmt.Errorf("%w, got: %s", config.ErrInvalidOutputFormat, format)
	}
}

// JSON keeps field insertion order.
type JSON struct{}

func (JSON) Document(doc *document.Document) ([]byte, error) {
	return []byte(document.Encode(doc) + "\n"), nil
}

func (JSON) Value(v document.Value) ([]byte, error) {
	return []byte(v.String() + "\n"), nil
}

type YAML struct{}

func (YAML) Document(doc *document.Document) ([]byte, error) {
	return document.EncodeYAML(doc)
}

func (YAML) Value(v document.Value) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return out, nil
}

// Canonical emits RFC 8785 text.
type Canonical struct{}

func (Canonical) Document(doc *document.Document) ([]byte, error) {
	out, err := document.Canonical(doc)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (Canonical) Value(v document.Value) ([]byte, error) {
	out, err := document.CanonicalValue(v)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
