package analysis

import (
	"encoding/json"
	"strings"
)

// ParseResponse locates the JSON object embedded in a model completion and
// decodes it. Models wrap their answer in prose or code fences, so the object
// is found by a brace-depth scan that skips braces inside string literals;
// the first-'{'/last-'}' slice is only used when no balanced object decodes.
func ParseResponse(raw string) (map[string]any, error) {
	text := stripCodeFence(raw)
	if json.Valid([]byte(text)) {
		var v any
		if err := json.Unmarshal([]byte(text), &v); err != nil {
			return nil, &MalformedJSONError{Raw: raw, Candidate: text, Cause: err}
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, &UnexpectedShapeError{Raw: raw, Kind: jsonKind(v)}
		}
		return obj, nil
	}

	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return nil, &NoJSONFoundError{Raw: raw}
	}

	// An empty object is usually prose ("return {} if unsure"), so it only
	// wins when the text holds no populated object.
	var empty map[string]any
	for i := start; ; {
		if end, ok := matchObject(raw, i); ok {
			var obj map[string]any
			if err := json.Unmarshal([]byte(raw[i:end+1]), &obj); err == nil && obj != nil {
				if len(obj) > 0 {
					return obj, nil
				}
				if empty == nil {
					empty = obj
				}
			}
		}
		next := strings.IndexByte(raw[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	if empty != nil {
		return empty, nil
	}

	candidate := raw[start:]
	if end := strings.LastIndexByte(raw, '}'); end > start {
		candidate = raw[start : end+1]
	}

	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return nil, &MalformedJSONError{Raw: raw, Candidate: candidate, Cause: err}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &UnexpectedShapeError{Raw: raw, Kind: jsonKind(v)}
	}
	return obj, nil
}

// matchObject returns the index of the '}' closing the object opened at start.
func matchObject(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Skip a language tag such as "json" on the opening line
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(text[:idx])
		if !strings.ContainsAny(firstLine, "{[ ") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
