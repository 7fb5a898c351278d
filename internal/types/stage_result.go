package types

import "fmt"

// StageResult is the normalized output of one pipeline stage. The upstream
// model may omit keys or return values of the wrong type, so consumers go
// through the accessors below, which fold missing and malformed into the
// caller's default.
type StageResult map[string]any

// Str returns the string at key, or def when the key is missing or not a string.
func (r StageResult) Str(key, def string) string {
	if v, ok := r[key].(string); ok && v != "" {
		return v
	}
	return def
}

// List returns the value at key as a string slice. Non-string elements are
// stringified; a scalar string becomes a singleton; anything else is nil.
func (r StageResult) List(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprintf("%v", e))
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Map returns the nested mapping at key, or nil when absent or not a mapping.
func (r StageResult) Map(key string) StageResult {
	switch v := r[key].(type) {
	case StageResult:
		return v
	case map[string]any:
		return StageResult(v)
	default:
		return nil
	}
}
