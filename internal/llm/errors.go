package llm

import "fmt"

const rawSnippetLimit = 500

// ParseError reports a model response that could not be decoded into the
// expected shape. Raw carries the full response for diagnosis.
type ParseError struct {
	Message string
	Raw     string
}

func (e *ParseError) Error() string {
	raw := e.Raw
	if len(raw) > rawSnippetLimit {
		raw = raw[:rawSnippetLimit] + "..."
	}
	if raw == "" {
		return e.Message
	}
	return fmt.Sprintf("%s; raw response: %s", e.Message, raw)
}
