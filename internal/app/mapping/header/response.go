package header_mapping_service

import (
	"strings"

	"github.com/tidwall/gjson"
)

// parseClassification reads either {"header": "field", ...} or the structured
// {"mappings": [{"header": ..., "field": ...}]} shape out of free text.
func parseClassification(text string) (map[string]string, error) {
	raw := extractJSON(text)
	if raw == "" || !gjson.Valid(raw) {
		return nil, ErrUnparseableResponse
	}

	parsed := gjson.Parse(raw)
	out := make(map[string]string)

	if list := parsed.Get("mappings"); list.IsArray() {
		list.ForEach(func(_, item gjson.Result) bool {
			header := item.Get("header").String()
			if header != "" {
				out[header] = strings.TrimSpace(item.Get("field").String())
			}
			return true
		})
		return out, nil
	}

	parsed.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			out[key.String()] = strings.TrimSpace(value.String())
		}
		return true
	})
	return out, nil
}

// extractJSON returns the first balanced {...} block, skipping markdown fences
// and prose around it. Braces inside JSON strings are not counted.
func extractJSON(text string) string {
	text = stripMarkdownCodeFences(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func stripMarkdownCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	firstNewline := strings.Index(trimmed, "\n")
	if firstNewline == -1 {
		return s
	}
	lastFence := strings.LastIndex(trimmed, "```")
	if lastFence <= firstNewline {
		return s
	}
	return strings.TrimSpace(trimmed[firstNewline+1 : lastFence])
}
