package document

import (
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"github.com/jacoelho/jdoc/internal/number"
)

// Canonical renders d following RFC 8785 (JSON Canonicalization Scheme):
// members sorted by their UTF-16 code units, numbers in ECMAScript form and
// no insignificant whitespace. Equal documents produce identical bytes,
// which makes the output suitable for hashing and golden files.
//
// It fails for numbers outside the IEEE-754 double range.
func Canonical(d *Document) ([]byte, error) {
	return appendCanonicalDocument(nil, d)
}

// CanonicalValue is Canonical for a single value of any kind.
func CanonicalValue(v Value) ([]byte, error) {
	return appendCanonicalValue(nil, v)
}

func appendCanonicalDocument(buf []byte, d *Document) ([]byte, error) {
	type member struct {
		key   string
		units []uint16
	}

	members := make([]member, 0, d.Len())
	for key := range d.All() {
		members = append(members, member{key: key, units: utf16.Encode([]rune(key))})
	}
	slices.SortFunc(members, func(a, b member) int {
		return slices.Compare(a.units, b.units)
	})

	buf = append(buf, '{')
	for i, m := range members {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, m.key)
		buf = append(buf, ':')

		var err error
		buf, err = appendCanonicalValue(buf, d.fields[m.key])
		if err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

func appendCanonicalValue(buf []byte, v Value) ([]byte, error) {
	switch v.kind {
	case Number:
		f, err := strconv.ParseFloat(string(v.num), 64)
		if err != nil {
			return nil, fmt.Errorf("canonical number %s: %w", v.num, err)
		}
		// -0 and 0 share one form
		if f == 0 {
			return append(buf, '0'), nil
		}
		n, err := number.FromFloat(f, 64)
		if err != nil {
			return nil, err
		}
		return append(buf, n...), nil
	case Array:
		buf = append(buf, '[')
		for i, item := range v.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			buf, err = appendCanonicalValue(buf, item)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case Object:
		return appendCanonicalDocument(buf, v.obj)
	default:
		return appendValue(buf, v), nil
	}
}
