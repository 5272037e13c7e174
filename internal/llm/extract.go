package llm

import "strings"

// ExtractJSON finds the first JSON object or array in text. Fenced code
// blocks are preferred over raw scanning.
func ExtractJSON(text string) string {
	if idx := strings.Index(text, "```json"); idx != -1 {
		start := idx + len("```json")
		if end := strings.Index(text[start:], "```"); end != -1 {
			return strings.TrimSpace(text[start : start+end])
		}
	}
	if idx := strings.Index(text, "```"); idx != -1 {
		start := idx + len("```")
		if end := strings.Index(text[start:], "```"); end != -1 {
			candidate := strings.TrimSpace(text[start : start+end])
			if len(candidate) > 0 && (candidate[0] == '{' || candidate[0] == '[') {
				return candidate
			}
		}
	}

	// No usable fence: scan for a balanced JSON value.
	for i, ch := range text {
		if ch != '{' && ch != '[' {
			continue
		}
		closing := byte('}')
		if ch == '[' {
			closing = ']'
		}
		depth := 0
		inString := false
		escape := false
		for j := i; j < len(text); j++ {
			if escape {
				escape = false
				continue
			}
			switch {
			case text[j] == '\\' && inString:
				escape = true
			case text[j] == '"':
				inString = !inString
			case inString:
			case text[j] == byte(ch):
				depth++
			case text[j] == closing:
				depth--
				if depth == 0 {
					return text[i : j+1]
				}
			}
		}
	}
	return ""
}
