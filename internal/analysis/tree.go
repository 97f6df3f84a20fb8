package analysis

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// member is one key/value pair of an object, in source order.
type member struct {
	key   string
	value any
	// phrase marks an unquoted multi-word key, which may carry leading prose.
	phrase bool
	// quoted is set when the value was written as a quoted string.
	quoted bool
}

// object is an ordered key/value list. Both the strict decoder and the
// tolerant scanner produce values built from object, array, string and
// json.Number so the field readers work on either.
type object []member

type array []any

func canonicalKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

// get returns the value of the first direct member whose key matches one of names.
func (o object) get(names ...string) (any, bool) {
	for _, m := range o {
		k := canonicalKey(m.key)
		for _, n := range names {
			if k == n {
				return m.value, true
			}
		}
	}
	return nil, false
}

// matchesLoosely reports whether m's key names one of names. An unquoted
// phrase also matches on its trailing words, so "Overall analysis" matches
// "analysis", but only when a text value is quoted. Otherwise a sentence
// such as "I could not finish the analysis: too dark" would read as a pair.
func (m member) matchesLoosely(names []string) bool {
	k := canonicalKey(m.key)
	for _, n := range names {
		if k == n {
			return true
		}
		if m.phrase && strings.HasSuffix(k, "_"+n) {
			_, text := m.value.(string)
			return !text || m.quoted
		}
	}
	return false
}

// find walks o depth-first in source order and returns the first value whose
// key matches one of names and that satisfies accept.
func (o object) find(accept func(any) bool, names ...string) (any, bool) {
	for _, m := range o {
		if m.matchesLoosely(names) && accept(m.value) {
			return m.value, true
		}
		if v, ok := findIn(m.value, accept, names...); ok {
			return v, true
		}
	}
	return nil, false
}

func findIn(v any, accept func(any) bool, names ...string) (any, bool) {
	switch t := v.(type) {
	case object:
		return t.find(accept, names...)
	case array:
		for _, e := range t {
			if found, ok := findIn(e, accept, names...); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// fromJSON converts a decoded JSON value into the ordered tree. Map keys are
// sorted so traversal is deterministic.
func fromJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := make(object, 0, len(t))
		for _, k := range keys {
			o = append(o, member{key: k, value: fromJSON(t[k])})
		}
		return o
	case []any:
		a := make(array, 0, len(t))
		for _, e := range t {
			a = append(a, fromJSON(e))
		}
		return a
	default:
		return v
	}
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isArray(v any) bool {
	_, ok := v.(array)
	return ok
}

func isNumeric(v any) bool {
	_, ok := toNumber(v)
	return ok
}

func isItemContainer(v any) bool {
	switch v.(type) {
	case object, array:
		return true
	}
	return false
}

// toNumber coerces JSON numbers, Go numerics and numeric strings. A string
// may carry a unit suffix ("95 kcal"); only its leading number is read.
func toNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		n, ok := leadingNumber(t)
		if !ok {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	for end > 0 {
		if n, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return n, true
		}
		end--
	}
	return 0, false
}

func toText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	}
	return "", false
}

// toStrings reads a list value. A lone string becomes a one-element list.
func toStrings(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case array:
		for _, e := range t {
			if s, ok := toText(e); ok {
				out = append(out, s)
			}
		}
	case string:
		if s, ok := toText(t); ok {
			out = append(out, s)
		}
	}
	return out
}
