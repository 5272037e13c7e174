package generation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flowdraft/flowdraft/internal/catalog"
	"github.com/flowdraft/flowdraft/internal/generation"
	"github.com/flowdraft/flowdraft/internal/llm"
	"github.com/flowdraft/flowdraft/internal/workflow"
)

// scriptedClient replays one canned response per model call, in order.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []llm.Request
}

func (c *scriptedClient) next() (string, error) {
	i := c.calls
	c.calls++
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i >= len(c.responses) {
		return "", errors.New("scripted client exhausted")
	}
	return c.responses[i], nil
}

func (c *scriptedClient) Complete(_ context.Context, req llm.Request) (string, error) {
	c.prompts = append(c.prompts, req)
	return c.next()
}

func (c *scriptedClient) CompleteJSON(_ context.Context, req llm.Request, out any) error {
	c.prompts = append(c.prompts, req)
	text, err := c.next()
	if err != nil {
		return err
	}
	return llm.DecodeJSON(text, out)
}

const keywordResponse = `{"keywords": ["gmail", "slack"]}`

const graphResponse = `{
  "name": "Gmail to Slack",
  "nodes": [
    {"name": "Gmail Trigger", "type": "n8n-nodes-base.gmailTrigger", "parameters": {"event": "messageReceived"}},
    {"name": "Slack", "type": "n8n-nodes-base.slack", "parameters": {"channel": "#inbox", "resource": "message", "operation": "post", "text": "new mail"}}
  ],
  "connections": {
    "Gmail Trigger": {"main": [[{"node": "Slack", "type": "main", "index": 0}]]}
  }
}`

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.NodeType{
		{
			Name:        "n8n-nodes-base.gmailTrigger",
			DisplayName: "Gmail Trigger",
			Group:       "trigger",
			Description: "Starts the workflow on new Gmail messages",
		},
		{
			Name:               "n8n-nodes-base.slack",
			DisplayName:        "Slack",
			Group:              "output",
			Description:        "Sends messages to Slack",
			RequiredParameters: []string{"channel", "text"},
		},
	})
}

func newPipeline(client llm.Client) *generation.Pipeline {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return generation.NewPipeline(client, testCatalog(), 15, logger)
}

var _ = Describe("Pipeline", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("ExtractKeywords", func() {
		It("returns the trimmed keywords", func() {
			client := &scriptedClient{responses: []string{`{"keywords": [" gmail ", "slack"]}`}}

			keywords, err := newPipeline(client).ExtractKeywords(ctx, "forward gmail to slack")
			Expect(err).NotTo(HaveOccurred())
			Expect(keywords).To(Equal([]string{"gmail", "slack"}))
		})

		It("truncates to five keywords", func() {
			client := &scriptedClient{responses: []string{`{"keywords": ["a", "b", "c", "d", "e", "f", "g"]}`}}

			keywords, err := newPipeline(client).ExtractKeywords(ctx, "busy prompt")
			Expect(err).NotTo(HaveOccurred())
			Expect(keywords).To(HaveLen(5))
		})

		It("drops empty entries", func() {
			client := &scriptedClient{responses: []string{`{"keywords": ["gmail", "  ", ""]}`}}

			keywords, err := newPipeline(client).ExtractKeywords(ctx, "gmail")
			Expect(err).NotTo(HaveOccurred())
			Expect(keywords).To(Equal([]string{"gmail"}))
		})

		It("rejects non-string keywords", func() {
			client := &scriptedClient{responses: []string{`{"keywords": ["gmail", 42]}`}}

			_, err := newPipeline(client).ExtractKeywords(ctx, "gmail")
			var parseErr *llm.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
		})

		It("rejects a response without a keywords array", func() {
			client := &scriptedClient{responses: []string{`{"words": ["gmail"]}`}}

			_, err := newPipeline(client).ExtractKeywords(ctx, "gmail")
			var parseErr *llm.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
		})

		It("rejects a response that is not JSON", func() {
			client := &scriptedClient{responses: []string{`sure, the keywords are gmail and slack`}}

			_, err := newPipeline(client).ExtractKeywords(ctx, "gmail")
			var parseErr *llm.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
		})
	})

	Describe("Generate", func() {
		It("produces a validated, positioned graph", func() {
			client := &scriptedClient{responses: []string{keywordResponse, graphResponse}}

			g, err := newPipeline(client).Generate(ctx, "post new gmail messages to slack")
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Nodes).To(HaveLen(2))
			Expect(g.Nodes[0].Position).To(Equal([]float64{250, 250}))
			Expect(g.Nodes[1].Position).To(Equal([]float64{500, 250}))
		})

		It("embeds the candidate node types in the generation prompt", func() {
			client := &scriptedClient{responses: []string{keywordResponse, graphResponse}}

			_, err := newPipeline(client).Generate(ctx, "post new gmail messages to slack")
			Expect(err).NotTo(HaveOccurred())
			Expect(client.prompts).To(HaveLen(2))
			Expect(client.prompts[1].Prompt).To(ContainSubstring("n8n-nodes-base.gmailTrigger"))
			Expect(client.prompts[1].Prompt).To(ContainSubstring("n8n-nodes-base.slack"))
		})

		It("fails fast when nothing in the catalog matches", func() {
			client := &scriptedClient{responses: []string{`{"keywords": ["quantum"]}`}}

			_, err := newPipeline(client).Generate(ctx, "quantum entangle my toaster")
			var noMatches *generation.NoMatchesError
			Expect(errors.As(err, &noMatches)).To(BeTrue())
			Expect(noMatches.Keywords).To(Equal([]string{"quantum"}))
			Expect(client.calls).To(Equal(1), "no generation call after zero matches")
		})

		It("accepts a fence-wrapped graph response", func() {
			client := &scriptedClient{responses: []string{
				keywordResponse,
				"```json\n" + graphResponse + "\n```",
			}}

			g, err := newPipeline(client).Generate(ctx, "post new gmail messages to slack")
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Name).To(Equal("Gmail to Slack"))
		})

		It("attaches the raw response when the graph has no nodes array", func() {
			client := &scriptedClient{responses: []string{
				keywordResponse,
				`{"name": "empty", "connections": {}}`,
			}}

			_, err := newPipeline(client).Generate(ctx, "post new gmail messages to slack")
			var parseErr *llm.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
			Expect(parseErr.Raw).To(ContainSubstring(`"empty"`))
		})

		It("surfaces the first validation error", func() {
			client := &scriptedClient{responses: []string{
				keywordResponse,
				`{"name": "bad", "nodes": [{"name": "A", "type": "t"}], "connections": {"Ghost": {"main": [[{"node": "A", "type": "main", "index": 0}]]}}}`,
			}}

			_, err := newPipeline(client).Generate(ctx, "post new gmail messages to slack")
			var invalid *generation.InvalidGraphError
			Expect(errors.As(err, &invalid)).To(BeTrue())
			Expect(invalid.Error()).To(ContainSubstring(`connection source "Ghost" is not a node`))
		})

		It("flags missing required parameters as clarifications", func() {
			client := &scriptedClient{responses: []string{
				keywordResponse,
				`{
				  "name": "Gmail to Slack",
				  "nodes": [
				    {"name": "Gmail Trigger", "type": "n8n-nodes-base.gmailTrigger", "parameters": {"event": "messageReceived"}},
				    {"name": "Slack", "type": "n8n-nodes-base.slack", "parameters": {"text": "new mail"}}
				  ],
				  "connections": {
				    "Gmail Trigger": {"main": [[{"node": "Slack", "type": "main", "index": 0}]]}
				  }
				}`,
			}}

			g, err := newPipeline(client).Generate(ctx, "post new gmail messages to slack")
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Meta).NotTo(BeNil())
			Expect(g.Meta.RequiresClarification).To(ConsistOf(`node "Slack" needs a value for "channel"`))
		})

		It("merges parameter clarifications after model-provided ones", func() {
			client := &scriptedClient{responses: []string{
				keywordResponse,
				`{
				  "name": "Gmail to Slack",
				  "nodes": [
				    {"name": "Gmail Trigger", "type": "n8n-nodes-base.gmailTrigger", "parameters": {"event": "messageReceived"}},
				    {"name": "Slack", "type": "n8n-nodes-base.slack", "parameters": {"text": "new mail"}}
				  ],
				  "connections": {
				    "Gmail Trigger": {"main": [[{"node": "Slack", "type": "main", "index": 0}]]}
				  },
				  "meta": {"requiresClarification": ["which gmail label?"]}
				}`,
			}}

			g, err := newPipeline(client).Generate(ctx, "post new gmail messages to slack")
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Meta.RequiresClarification).To(Equal([]string{
				"which gmail label?",
				`node "Slack" needs a value for "channel"`,
			}))
		})

		It("wraps model transport errors", func() {
			client := &scriptedClient{errs: []error{errors.New("connection refused")}}

			_, err := newPipeline(client).Generate(ctx, "anything")
			Expect(err).To(MatchError(ContainSubstring("keyword extraction failed")))
		})
	})

	Describe("Modify", func() {
		existing := &workflow.Graph{
			Name: "Gmail to Slack",
			Nodes: []workflow.Node{
				{Name: "Gmail Trigger", Type: "n8n-nodes-base.gmailTrigger", Position: []float64{250, 300}, Parameters: map[string]any{"event": "messageReceived"}},
			},
			Connections: workflow.ConnectionMap{},
		}

		It("sends the current graph and returns the updated one", func() {
			client := &scriptedClient{responses: []string{graphResponse}}

			g, err := newPipeline(client).Modify(ctx, existing, "also post to slack")
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Nodes).To(HaveLen(2))
			Expect(client.prompts[0].Prompt).To(ContainSubstring("Gmail Trigger"))
			Expect(client.prompts[0].Prompt).To(ContainSubstring("also post to slack"))
		})

		It("does not consult the keyword extractor", func() {
			client := &scriptedClient{responses: []string{graphResponse}}

			_, err := newPipeline(client).Modify(ctx, existing, "also post to slack")
			Expect(err).NotTo(HaveOccurred())
			Expect(client.calls).To(Equal(1))
		})

		It("rejects an ill-shaped updated graph", func() {
			client := &scriptedClient{responses: []string{`{"nodes": []}`}}

			_, err := newPipeline(client).Modify(ctx, existing, "break it")
			var parseErr *llm.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
		})
	})
})
