package catalog_test

import (
	"github.com/flowdraft/flowdraft/internal/catalog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Catalog", func() {
	var c *catalog.Catalog

	BeforeEach(func() {
		c = catalog.New([]catalog.NodeType{
			{
				Name:        "n8n-nodes-base.gmail",
				DisplayName: "Gmail",
				Group:       "output",
				Categories:  []string{"communication", "email"},
				Description: "Send, read and search email through a Gmail account",
			},
			{
				Name:        "n8n-nodes-base.slack",
				DisplayName: "Slack",
				Group:       "output",
				Categories:  []string{"communication", "chat"},
				Description: "Post messages to a Slack workspace",
			},
			{
				Name:        "n8n-nodes-base.httpRequest",
				DisplayName: "HTTP Request",
				Group:       "transform",
				Categories:  []string{"core"},
				Description: "Make an HTTP request to any URL",
			},
		})
	})

	Describe("Search", func() {
		It("returns nothing for an empty keyword list", func() {
			Expect(c.Search(nil, 15)).To(BeEmpty())
		})

		It("scores an exact display-name match at 10", func() {
			results := c.Search([]string{"gmail"}, 15)

			Expect(results).NotTo(BeEmpty())
			Expect(results[0].NodeType.Name).To(Equal("n8n-nodes-base.gmail"))
			// Exact display name (10) + description word "gmail" (2).
			Expect(results[0].Score).To(Equal(12))
		})

		It("scores a substring name match at 5", func() {
			results := c.Search([]string{"http"}, 15)

			Expect(results).NotTo(BeEmpty())
			Expect(results[0].NodeType.Name).To(Equal("n8n-nodes-base.httpRequest"))
			// Substring of name/display (5) + description substring (2).
			Expect(results[0].Score).To(Equal(7))
		})

		It("accumulates scores from multiple keywords on the same entry", func() {
			single := c.Search([]string{"email"}, 15)
			combined := c.Search([]string{"email", "gmail"}, 15)

			Expect(single[0].NodeType.Name).To(Equal("n8n-nodes-base.gmail"))
			Expect(combined[0].NodeType.Name).To(Equal("n8n-nodes-base.gmail"))
			Expect(combined[0].Score).To(BeNumerically(">", single[0].Score))
		})

		It("matches categories at 3", func() {
			results := c.Search([]string{"chat"}, 15)

			Expect(results).To(HaveLen(1))
			Expect(results[0].NodeType.Name).To(Equal("n8n-nodes-base.slack"))
			Expect(results[0].Score).To(Equal(3))
		})

		It("drops zero-score entries and sorts descending", func() {
			results := c.Search([]string{"communication"}, 15)

			Expect(results).To(HaveLen(2))
			for _, r := range results {
				Expect(r.Score).To(BeNumerically(">", 0))
			}
			Expect(results[0].Score).To(BeNumerically(">=", results[1].Score))
		})

		It("caps results at the limit", func() {
			results := c.Search([]string{"communication"}, 1)

			Expect(results).To(HaveLen(1))
		})
	})

	Describe("LoadEmbedded", func() {
		It("parses the embedded catalog", func() {
			embedded, err := catalog.LoadEmbedded()

			Expect(err).ToNot(HaveOccurred())
			Expect(embedded.Types()).ToNot(BeEmpty())
			Expect(embedded.Lookup("n8n-nodes-base.webhook")).ToNot(BeNil())
		})

		It("indexes entries by name", func() {
			embedded, err := catalog.LoadEmbedded()

			Expect(err).ToNot(HaveOccurred())
			gmail := embedded.Lookup("n8n-nodes-base.gmail")
			Expect(gmail).ToNot(BeNil())
			Expect(gmail.Credentials).To(ContainElement("gmailOAuth2Api"))
		})
	})
})
