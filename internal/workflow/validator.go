package workflow

import (
	"fmt"
	"strings"
)

// ValidationResult holds the outcome of structural graph validation.
// Errors are fatal, warnings are advisory; both keep insertion order so
// callers can render them verbatim.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	FixedGraph *Graph   `json:"fixedGraph,omitempty"`
}

// triggerMarkers are matched case-insensitively against node type and name to
// heuristically recognize nodes that can start execution on their own.
var triggerMarkers = []string{"trigger", "webhook", "start"}

// Validate checks the structural invariants of a generated graph.
//
// FixedGraph is populated only when no fatal error was found and at least one
// node carried a malformed position; the fix assigns sequential positions and
// never alters names or connections.
func Validate(g *Graph) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(g.Nodes) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "workflow has no nodes")
		return result
	}

	if g.Connections == nil {
		result.Valid = false
		result.Errors = append(result.Errors, "workflow has no connections object")
		return result
	}

	needsPositionFix := false
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("node of type %q has no name", n.Type))
		}
		if n.Type == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("node %q has no type", n.Name))
		}
		if _, dup := seen[n.Name]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate node name: %q", n.Name))
		}
		seen[n.Name] = struct{}{}

		// An absent position is legal (the positioner fills it in); a
		// present but non-2-tuple position is malformed.
		if n.Position != nil && !n.HasValidPosition() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("node %q has a malformed position", n.Name))
			needsPositionFix = true
		}
		if n.Parameters == nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("node %q has no parameters", n.Name))
		}
	}

	names := g.NodeNames()
	for _, src := range sortedKeys(g.Connections) {
		if _, ok := names[src]; !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("connection source %q is not a node", src))
		}
		outputs := g.Connections[src]
		for _, outputType := range sortedKeys(outputs) {
			for _, group := range outputs[outputType] {
				for _, conn := range group {
					if _, ok := names[conn.Node]; !ok {
						result.Errors = append(result.Errors, fmt.Sprintf("connection target %q is not a node", conn.Node))
					}
				}
			}
		}
	}

	if !hasTrigger(g) {
		result.Warnings = append(result.Warnings, "no trigger node found, workflow supports manual execution only")
	}

	for _, orphan := range orphanNodes(g) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("node %q has no incoming connection and will never execute", orphan))
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		return result
	}

	if needsPositionFix {
		result.FixedGraph = fixPositions(g)
	}

	return result
}

// IsTrigger reports whether the node looks like a trigger by type or name.
func IsTrigger(n *Node) bool {
	loweredType := strings.ToLower(n.Type)
	loweredName := strings.ToLower(n.Name)
	for _, marker := range triggerMarkers {
		if strings.Contains(loweredType, marker) || strings.Contains(loweredName, marker) {
			return true
		}
	}
	return false
}

func hasTrigger(g *Graph) bool {
	for i := range g.Nodes {
		if IsTrigger(&g.Nodes[i]) {
			return true
		}
	}
	return false
}

// orphanNodes returns non-trigger nodes with no incoming connection, in node
// order.
func orphanNodes(g *Graph) []string {
	incoming := make(map[string]int)
	for _, outputs := range g.Connections {
		for _, groups := range outputs {
			for _, group := range groups {
				for _, conn := range group {
					incoming[conn.Node]++
				}
			}
		}
	}

	var orphans []string
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if IsTrigger(n) {
			continue
		}
		if incoming[n.Name] == 0 {
			orphans = append(orphans, n.Name)
		}
	}
	return orphans
}

// fixPositions assigns sequential left-to-right positions to nodes lacking a
// valid one, preserving node order.
func fixPositions(g *Graph) *Graph {
	fixed := g.Clone()
	i := 0
	for idx := range fixed.Nodes {
		if fixed.Nodes[idx].HasValidPosition() {
			continue
		}
		fixed.Nodes[idx].Position = []float64{float64(250 + i*250), 300}
		i++
	}
	return fixed
}
