package analysis

import (
	"encoding/json"
	"strings"
)

// topLevelObjects returns every brace-balanced span that opens at depth zero.
// Braces inside JSON strings are ignored. Objects nested in an unterminated
// object are not top level and are left to the tolerant scanner.
func topLevelObjects(text string) []string {
	var spans []string
	depth, start := 0, -1
	inString, escaped := false, false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					spans = append(spans, text[start:i+1])
				}
			}
		}
	}
	return spans
}

// decodeObject strictly decodes a single JSON object, keeping numbers as json.Number.
func decodeObject(span string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// extractJSONObject finds the first top-level JSON object in text that carries
// at least one of the given keys.
func extractJSONObject(text string, keys []string) (object, bool) {
	for _, span := range topLevelObjects(text) {
		obj, err := decodeObject(span)
		if err != nil || obj == nil {
			continue
		}
		root := fromJSON(obj).(object)
		for _, k := range keys {
			if _, ok := root.get(k); ok {
				return root, true
			}
		}
	}
	return nil, false
}
