package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flowdraft/flowdraft/internal/catalog"
	"github.com/flowdraft/flowdraft/internal/llm"
	"github.com/flowdraft/flowdraft/internal/workflow"
)

const maxKeywords = 5

// Pipeline turns a natural-language request into a validated, positioned
// workflow graph: keyword extraction, catalog search, model generation,
// structural validation, canvas layout, clarification checks.
type Pipeline struct {
	client      llm.Client
	catalog     *catalog.Catalog
	searchLimit int
	logger      *slog.Logger
}

func NewPipeline(client llm.Client, cat *catalog.Catalog, searchLimit int, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		client:      client,
		catalog:     cat,
		searchLimit: searchLimit,
		logger:      logger,
	}
}

// Generate produces a draft-ready graph from a user prompt.
func (p *Pipeline) Generate(ctx context.Context, prompt string) (*workflow.Graph, error) {
	keywords, err := p.ExtractKeywords(ctx, prompt)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Extracted keywords", "keywords", keywords)

	candidates := p.catalog.Search(keywords, p.searchLimit)
	if len(candidates) == 0 {
		return nil, &NoMatchesError{Keywords: keywords}
	}

	text, err := p.client.Complete(ctx, llm.Request{
		System: generateSystemPrompt,
		Prompt: buildGeneratePrompt(prompt, candidates),
	})
	if err != nil {
		return nil, fmt.Errorf("workflow generation failed: %w", err)
	}

	graph, err := decodeGraph(text)
	if err != nil {
		return nil, err
	}
	return p.finish(graph)
}

// Modify re-sends the existing graph with a modification instruction and
// expects the complete updated graph back.
func (p *Pipeline) Modify(ctx context.Context, g *workflow.Graph, instruction string) (*workflow.Graph, error) {
	current, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize current workflow: %w", err)
	}

	text, err := p.client.Complete(ctx, llm.Request{
		System: modifySystemPrompt,
		Prompt: fmt.Sprintf("Current workflow:\n%s\n\nModification: %s", current, instruction),
	})
	if err != nil {
		return nil, fmt.Errorf("workflow modification failed: %w", err)
	}

	graph, err := decodeGraph(text)
	if err != nil {
		return nil, err
	}
	return p.finish(graph)
}

// ExtractKeywords asks the model for 1-5 search keywords. The response must
// be an object with a string array; anything else is a parse error.
func (p *Pipeline) ExtractKeywords(ctx context.Context, prompt string) ([]string, error) {
	var raw struct {
		Keywords []any `json:"keywords"`
	}
	if err := p.client.CompleteJSON(ctx, llm.Request{
		System:    keywordSystemPrompt,
		Prompt:    prompt,
		MaxTokens: 256,
	}, &raw); err != nil {
		return nil, fmt.Errorf("keyword extraction failed: %w", err)
	}

	if raw.Keywords == nil {
		return nil, &llm.ParseError{Message: "keyword extraction returned no keywords array"}
	}

	var keywords []string
	for _, entry := range raw.Keywords {
		s, ok := entry.(string)
		if !ok {
			return nil, &llm.ParseError{Message: fmt.Sprintf("keyword extraction returned a non-string keyword: %v", entry)}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		keywords = append(keywords, s)
		if len(keywords) == maxKeywords {
			break
		}
	}
	if len(keywords) == 0 {
		return nil, &llm.ParseError{Message: "keyword extraction returned no usable keywords"}
	}
	return keywords, nil
}

// finish runs the shared post-generation stages: validate, position, and
// catalog-aware clarification checks.
func (p *Pipeline) finish(g *workflow.Graph) (*workflow.Graph, error) {
	result := workflow.Validate(g)
	if !result.Valid {
		return nil, &InvalidGraphError{Message: result.Errors[0]}
	}
	for _, w := range result.Warnings {
		p.logger.Warn("Generated workflow warning", "warning", w)
	}
	if result.FixedGraph != nil {
		g = result.FixedGraph
	}

	layout := workflow.AssignPositions(g)
	if len(layout.Unplaced) > 0 {
		p.logger.Warn("Some nodes could not be positioned", "nodes", layout.Unplaced)
	}
	g = layout.Graph

	g.AddClarifications(p.missingParameterChecks(g)...)
	return g, nil
}

// missingParameterChecks flags nodes missing a parameter their catalog entry
// marks required.
func (p *Pipeline) missingParameterChecks(g *workflow.Graph) []string {
	var entries []string
	for _, n := range g.Nodes {
		nt := p.catalog.Lookup(n.Type)
		if nt == nil {
			continue
		}
		for _, param := range nt.RequiredParameters {
			if _, ok := n.Parameters[param]; !ok {
				entries = append(entries, fmt.Sprintf("node %q needs a value for %q", n.Name, param))
			}
		}
	}
	return entries
}

// decodeGraph parses the model's response as a workflow graph, stripping any
// Markdown fence. A missing nodes array or connections object is a shape
// error carrying the raw response.
func decodeGraph(text string) (*workflow.Graph, error) {
	var g workflow.Graph
	if err := llm.DecodeJSON(text, &g); err != nil {
		return nil, err
	}
	if g.Nodes == nil {
		return nil, &llm.ParseError{Message: "generated workflow has no nodes array", Raw: text}
	}
	if g.Connections == nil {
		return nil, &llm.ParseError{Message: "generated workflow has no connections object", Raw: text}
	}
	return &g, nil
}

func buildGeneratePrompt(prompt string, candidates []catalog.Scored) string {
	var b strings.Builder
	b.WriteString("Available node types:\n")
	for _, c := range candidates {
		def, err := json.Marshal(c.NodeType)
		if err != nil {
			continue
		}
		b.Write(def)
		b.WriteByte('\n')
	}
	b.WriteString("\nUser request: ")
	b.WriteString(prompt)
	return b.String()
}
