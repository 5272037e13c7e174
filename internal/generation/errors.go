package generation

import (
	"fmt"
	"strings"
)

// NoMatchesError means no catalog entry scored against the extracted
// keywords; generation stops before any model call.
type NoMatchesError struct {
	Keywords []string
}

func (e *NoMatchesError) Error() string {
	return fmt.Sprintf(
		"no known automation building blocks match %q, try describing the services involved (e.g. \"gmail\", \"slack\", \"webhook\")",
		strings.Join(e.Keywords, ", "))
}

// InvalidGraphError means the generated graph failed structural validation.
// Message carries the first fatal validation error.
type InvalidGraphError struct {
	Message string
}

func (e *InvalidGraphError) Error() string {
	return fmt.Sprintf("generated workflow is invalid: %s", e.Message)
}
