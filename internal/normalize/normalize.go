// Package normalize coerces free-text model replies into structured data.
// Models asked for JSON return, in practice, anything from clean JSON to
// fenced markdown to loose "key: value" prose; the cascade here runs strict
// to lenient and stops at the first strategy that yields a mapping.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"call-insights-go/internal/types"
)

// ParseError reports a model reply that survived every fallback strategy
// without yielding any structured data.
type ParseError struct {
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model response: %q", e.Snippet)
}

const snippetLen = 100

var (
	delimSplit = regexp.MustCompile(`[,;\n]\s*`)
	quotedItem = regexp.MustCompile(`"([^"]*)"`)
)

// Response turns a raw model reply into a StageResult. The cascade:
// direct JSON parse, repaired JSON parse, fenced code block extraction,
// balanced-brace extraction, then line-oriented key:value scraping.
// Pure and deterministic: identical input always yields identical output.
func Response(raw string) (types.StageResult, error) {
	trimmed := strings.TrimSpace(raw)

	if m, ok := parseObject(trimmed); ok {
		return normalizeActions(m), nil
	}

	if body, ok := fencedBody(trimmed); ok {
		if m, ok := parseObject(body); ok {
			return normalizeActions(m), nil
		}
	}

	if candidate := balancedObject(trimmed); candidate != "" {
		if m, ok := parseObject(candidate); ok {
			return normalizeActions(m), nil
		}
	}

	if m := scrapeLines(trimmed); len(m) > 0 {
		return normalizeActions(m), nil
	}

	snippet := trimmed
	if len(snippet) > snippetLen {
		snippet = snippet[:snippetLen]
	}
	return nil, &ParseError{Snippet: snippet}
}

// parseObject unmarshals s as a JSON object, repairing malformed JSON once
// before giving up. Non-object JSON (arrays, scalars) is rejected.
func parseObject(s string) (map[string]any, bool) {
	if s == "" {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err == nil {
		return m, true
	}
	fixed, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(fixed), &m); err != nil {
		return nil, false
	}
	return m, true
}

// fencedBody extracts the content of the first markdown code fence.
func fencedBody(s string) (string, bool) {
	marker := "```json"
	idx := strings.Index(s, marker)
	if idx == -1 {
		marker = "```"
		idx = strings.Index(s, marker)
	}
	if idx == -1 {
		return "", false
	}
	rest := s[idx+len(marker):]
	if end := strings.Index(rest, "```"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// balancedObject returns the first brace-balanced substring of s.
func balancedObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// scrapeLines is the last resort: split on newlines, take the first colon of
// each line as the key/value boundary, and strip quote/brace/comma noise.
func scrapeLines(s string) map[string]any {
	out := map[string]any{}
	cleaned := strings.ReplaceAll(s, "```", "")
	for _, line := range strings.Split(cleaned, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `"'{}`)
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `",`)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			out[key] = coerceList(value)
			continue
		}
		out[key] = value
	}
	return out
}

// coerceList turns a string that should have been a list into one:
// JSON array parse, then quoted-substring extraction, then delimiter split,
// then a singleton.
func coerceList(s string) []string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var arr []any
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			out := make([]string, 0, len(arr))
			for _, e := range arr {
				if str, ok := e.(string); ok {
					out = append(out, str)
				} else {
					out = append(out, fmt.Sprintf("%v", e))
				}
			}
			return out
		}
		if quoted := quotedItem.FindAllStringSubmatch(trimmed, -1); len(quoted) > 0 {
			out := make([]string, 0, len(quoted))
			for _, q := range quoted {
				if v := strings.TrimSpace(q[1]); v != "" {
					out = append(out, v)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
		trimmed = strings.Trim(trimmed, "[]")
	}
	var out []string
	for _, part := range delimSplit.Split(trimmed, -1) {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// normalizeActions guarantees recommended_actions is a list so downstream
// consumers never branch on its type.
func normalizeActions(m map[string]any) types.StageResult {
	if v, ok := m["recommended_actions"].(string); ok {
		m["recommended_actions"] = coerceList(v)
	}
	return types.StageResult(m)
}
