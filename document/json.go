package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// Encode renders d as compact JSON with fields in insertion order.
func Encode(d *Document) string {
	return string(appendDocument(nil, d))
}

// Decode parses a JSON object into a Document. Fields keep their textual
// order; a repeated key keeps its last value. Errors match ErrMalformed and
// wrap the underlying encoding/json error.
func Decode(text string) (*Document, error) {
	v, err := parseValue([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if v.kind != Object {
		return nil, fmt.Errorf("%w: top-level %s is not an object", ErrMalformed, v.kind)
	}
	return v.obj, nil
}

// ParseValue parses any JSON value.
func ParseValue(text string) (Value, error) {
	v, err := parseValue([]byte(text))
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return v, nil
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	return appendDocument(nil, &d), nil
}

// UnmarshalJSON implements json.Unmarshaler. It replaces the content of d.
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(string(data))
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return appendValue(nil, v), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func parseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return Value{}, errors.New("invalid JSON: trailing data")
		}
		return Value{}, err
	}

	return v, nil
}

func readValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return Value{kind: Number, num: t}, nil
	case json.Delim:
		switch t {
		case '{':
			return readObject(dec)
		case '[':
			return readArray(dec)
		}
	}

	return Value{}, fmt.Errorf("invalid JSON: unexpected token %v", tok)
}

func readObject(dec *json.Decoder) (Value, error) {
	d := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("invalid JSON: object key %v is not a string", tok)
		}

		v, err := readValue(dec)
		if err != nil {
			return Value{}, err
		}
		d.set(key, v)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: Object, obj: d}, nil
}

func readArray(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		v, err := readValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}

	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: Array, arr: items}, nil
}

func appendDocument(buf []byte, d *Document) []byte {
	buf = append(buf, '{')
	i := 0
	for key, v := range d.All() {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, key)
		buf = append(buf, ':')
		buf = appendValue(buf, v)
		i++
	}
	return append(buf, '}')
}

func appendValue(buf []byte, v Value) []byte {
	switch v.kind {
	case Bool:
		return strconv.AppendBool(buf, v.b)
	case Number:
		return append(buf, v.num...)
	case String:
		return appendString(buf, v.str)
	case Array:
		buf = append(buf, '[')
		for i, item := range v.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendValue(buf, item)
		}
		return append(buf, ']')
	case Object:
		return appendDocument(buf, v.obj)
	default:
		return append(buf, "null"...)
	}
}

// appendString quotes s using the short escapes for \b, \t, \n, \f and \r
// and \u00xx for the remaining control characters. Invalid UTF-8 is replaced
// with U+FFFD.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				buf = append(buf, '\\', c)
			case c == '\b':
				buf = append(buf, '\\', 'b')
			case c == '\t':
				buf = append(buf, '\\', 't')
			case c == '\n':
				buf = append(buf, '\\', 'n')
			case c == '\f':
				buf = append(buf, '\\', 'f')
			case c == '\r':
				buf = append(buf, '\\', 'r')
			case c < 0x20:
				buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			default:
				buf = append(buf, c)
			}
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf = append(buf, `�`...)
		} else {
			buf = append(buf, s[i:i+size]...)
		}
		i += size
	}
	return append(buf, '"')
}
