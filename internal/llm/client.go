package llm

import "context"

// Request is a single model call. System is optional.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Client is the model-call contract the pipeline and the intent classifier
// consume. Implementations wrap one concrete LLM API.
type Client interface {
	// Complete returns the model's text response.
	Complete(ctx context.Context, req Request) (string, error)

	// CompleteJSON extracts the first JSON value from the model's response
	// (stripping Markdown fences) and decodes it into out. A missing or
	// undecodable JSON value yields a *ParseError carrying the raw text.
	CompleteJSON(ctx context.Context, req Request, out any) error
}
