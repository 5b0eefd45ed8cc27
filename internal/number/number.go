package number

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// ErrNotFinite is returned for NaN and infinite floats, which have no JSON literal.
var ErrNotFinite = errors.New("number is not finite")

// FromAny converts supported numeric values to a JSON number literal.
// The boolean is false when value is not numeric.
func FromAny(value any) (json.Number, bool, error) {
	switch current := value.(type) {
	case int:
		return json.Number(strconv.FormatInt(int64(current), 10)), true, nil
	case int8:
		return json.Number(strconv.FormatInt(int64(current), 10)), true, nil
	case int16:
		return json.Number(strconv.FormatInt(int64(current), 10)), true, nil
	case int32:
		return json.Number(strconv.FormatInt(int64(current), 10)), true, nil
	case int64:
		return json.Number(strconv.FormatInt(current, 10)), true, nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(current), 10)), true, nil
	case uint8:
		return json.Number(strconv.FormatUint(uint64(current), 10)), true, nil
	case uint16:
		return json.Number(strconv.FormatUint(uint64(current), 10)), true, nil
	case uint32:
		return json.Number(strconv.FormatUint(uint64(current), 10)), true, nil
	case uint64:
		return json.Number(strconv.FormatUint(current, 10)), true, nil
	case float32:
		n, err := FromFloat(float64(current), 32)
		return n, true, err
	case float64:
		n, err := FromFloat(current, 64)
		return n, true, err
	case json.Number:
		if !Valid(string(current)) {
			return "", true, strconv.ErrSyntax
		}
		return current, true, nil
	default:
		return "", false, nil
	}
}

// FromFloat formats f the way encoding/json prints floats of the given bit size.
func FromFloat(f float64, bits int) (json.Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", ErrNotFinite
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}

	b := strconv.AppendFloat(nil, f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}

	return json.Number(b), nil
}

// Valid reports whether s is a JSON number literal.
func Valid(s string) bool {
	if s == "" {
		return false
	}

	if s[0] == '-' {
		s = s[1:]
		if s == "" {
			return false
		}
	}

	switch {
	case s[0] == '0':
		s = s[1:]
	case '1' <= s[0] && s[0] <= '9':
		s = s[1:]
		for len(s) > 0 && isDigit(s[0]) {
			s = s[1:]
		}
	default:
		return false
	}

	if len(s) >= 2 && s[0] == '.' && isDigit(s[1]) {
		s = s[2:]
		for len(s) > 0 && isDigit(s[0]) {
			s = s[1:]
		}
	}

	if len(s) >= 2 && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		if s[0] == '+' || s[0] == '-' {
			s = s[1:]
			if s == "" {
				return false
			}
		}
		for len(s) > 0 && isDigit(s[0]) {
			s = s[1:]
		}
	}

	return s == ""
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Native converts a literal to int64, uint64 or float64, in that order of preference.
func Native(n json.Number) any {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		return u
	}
	if f, err := strconv.ParseFloat(string(n), 64); err == nil {
		return f
	}
	return string(n)
}

// Equal compares two literals numerically. Literals that are textually
// identical are always equal.
func Equal(a, b json.Number) bool {
	if a == b {
		return true
	}

	ai, aerr := strconv.ParseInt(string(a), 10, 64)
	bi, berr := strconv.ParseInt(string(b), 10, 64)
	if aerr == nil && berr == nil {
		return ai == bi
	}

	au, aerr := strconv.ParseUint(string(a), 10, 64)
	bu, berr := strconv.ParseUint(string(b), 10, 64)
	if aerr == nil && berr == nil {
		return au == bu
	}

	af, aerr := strconv.ParseFloat(string(a), 64)
	bf, berr := strconv.ParseFloat(string(b), 64)
	if aerr != nil || berr != nil {
		return false
	}
	return af == bf
}
