package validation

import (
	"fmt"
	"net/url"
	"strconv"
)

// Strings normalizes a raw multi-valued field: absent becomes an empty
// slice, a scalar a one-element slice, and a sequence passes through.
// HTML forms send a single checkbox as a scalar and several as a sequence.
func Strings(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			out = append(out, Scalar(e))
		}
		return out
	default:
		return []string{Scalar(v)}
	}
}

// Scalar reads a single-valued field. Sequences yield their first element.
func Scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		if len(t) == 0 {
			return ""
		}
		return t[0]
	case []any:
		if len(t) == 0 {
			return ""
		}
		return Scalar(t[0])
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// FromValues converts form values, keeping single values scalar so the
// list normalization sees the same shapes a browser sends.
func FromValues(values url.Values) Input {
	in := make(Input, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
		case 1:
			in[k] = v[0]
		default:
			in[k] = append([]string{}, v...)
		}
	}
	return in
}
