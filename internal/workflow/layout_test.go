package workflow_test

import (
	"github.com/flowdraft/flowdraft/internal/workflow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func positionOf(g *workflow.Graph, name string) []float64 {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n.Position
		}
	}
	return nil
}

var _ = Describe("AssignPositions", func() {
	It("places a single node with no connections at [250, 250]", func() {
		g := &workflow.Graph{
			Nodes:       []workflow.Node{{Name: "Only", Type: "n8n-nodes-base.set"}},
			Connections: workflow.ConnectionMap{},
		}

		result := workflow.AssignPositions(g)

		Expect(result.Unplaced).To(BeEmpty())
		Expect(positionOf(result.Graph, "Only")).To(Equal([]float64{250, 250}))
	})

	It("assigns strictly increasing x-coordinates along a linear chain", func() {
		g := linearGraph("A", "B", "C", "D")

		result := workflow.AssignPositions(g)

		Expect(result.Unplaced).To(BeEmpty())
		var prev float64 = -1
		for _, name := range []string{"A", "B", "C", "D"} {
			pos := positionOf(result.Graph, name)
			Expect(pos).To(HaveLen(2))
			Expect(pos[0]).To(BeNumerically(">", prev))
			prev = pos[0]
		}
	})

	It("places parallel branches on the same level with distinct y", func() {
		g := &workflow.Graph{
			Nodes: []workflow.Node{
				{Name: "Trigger", Type: "n8n-nodes-base.webhook"},
				{Name: "Left", Type: "n8n-nodes-base.set"},
				{Name: "Right", Type: "n8n-nodes-base.set"},
			},
			Connections: workflow.ConnectionMap{
				"Trigger": {"main": {
					{{Node: "Left", Type: "main", Index: 0}},
					{{Node: "Right", Type: "main", Index: 0}},
				}},
			},
		}

		result := workflow.AssignPositions(g)

		left := positionOf(result.Graph, "Left")
		right := positionOf(result.Graph, "Right")
		Expect(left[0]).To(Equal(right[0]))
		Expect(left[1]).NotTo(Equal(right[1]))
		// Two-node stack centered around the anchor.
		Expect(left[1]).To(Equal(200.0))
		Expect(right[1]).To(Equal(300.0))
	})

	It("is idempotent once every node is positioned", func() {
		g := linearGraph("A", "B", "C")

		first := workflow.AssignPositions(g)
		second := workflow.AssignPositions(first.Graph)

		Expect(second.Graph.Nodes).To(Equal(first.Graph.Nodes))
	})

	It("does not mutate the input graph", func() {
		g := linearGraph("A", "B")

		workflow.AssignPositions(g)

		Expect(g.Nodes[0].Position).To(BeNil())
		Expect(g.Nodes[1].Position).To(BeNil())
	})

	It("reports nodes isolated in a cycle as unplaced", func() {
		g := linearGraph("A", "B")
		g.Nodes = append(g.Nodes,
			workflow.Node{Name: "Loop1", Type: "n8n-nodes-base.set"},
			workflow.Node{Name: "Loop2", Type: "n8n-nodes-base.set"},
		)
		g.Connections["Loop1"] = map[string][][]workflow.Connection{
			"main": {{{Node: "Loop2", Type: "main", Index: 0}}},
		}
		g.Connections["Loop2"] = map[string][][]workflow.Connection{
			"main": {{{Node: "Loop1", Type: "main", Index: 0}}},
		}

		result := workflow.AssignPositions(g)

		Expect(result.Unplaced).To(ConsistOf("Loop1", "Loop2"))
		Expect(positionOf(result.Graph, "Loop1")).To(BeNil())
		Expect(positionOf(result.Graph, "A")).NotTo(BeNil())
	})

	It("skips traversal when every node already has a valid position", func() {
		g := linearGraph("A", "B")
		g.Nodes[0].Position = []float64{10, 20}
		g.Nodes[1].Position = []float64{30, 40}

		result := workflow.AssignPositions(g)

		Expect(positionOf(result.Graph, "A")).To(Equal([]float64{10, 20}))
		Expect(positionOf(result.Graph, "B")).To(Equal([]float64{30, 40}))
	})
})
