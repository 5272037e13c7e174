package workflow

import "sort"

const (
	layoutBaseX    = 250.0
	layoutStepX    = 250.0
	layoutAnchorY  = 300.0
	layoutSpacingY = 100.0
)

// LayoutResult is a positioned copy of the input graph plus the names of any
// nodes the breadth-first traversal never reached (isolated cycles or
// components with no zero-in-degree entry). Unreached nodes keep whatever
// position they had, usually none.
type LayoutResult struct {
	Graph    *Graph
	Unplaced []string
}

// AssignPositions lays the graph out on the canvas by breadth-first layering.
// The input graph is never mutated. If every node already carries a valid
// position the graph is returned as-is (copied) with no traversal.
func AssignPositions(g *Graph) LayoutResult {
	out := g.Clone()

	allPositioned := true
	for i := range out.Nodes {
		if !out.Nodes[i].HasValidPosition() {
			allPositioned = false
			break
		}
	}
	if allPositioned {
		return LayoutResult{Graph: out}
	}

	adjacency := buildAdjacency(out)

	inDegree := make(map[string]int, len(out.Nodes))
	for i := range out.Nodes {
		inDegree[out.Nodes[i].Name] = 0
	}
	for _, targets := range adjacency {
		for _, target := range targets {
			inDegree[target]++
		}
	}

	type queued struct {
		name  string
		level int
	}

	// Seed with every zero-in-degree node at level 0, in node order.
	var queue []queued
	for i := range out.Nodes {
		name := out.Nodes[i].Name
		if inDegree[name] == 0 {
			queue = append(queue, queued{name: name, level: 0})
		}
	}

	// Classic BFS level assignment: a node takes the level of its
	// first-discovered predecessor, ties broken by discovery order.
	visited := make(map[string]struct{}, len(out.Nodes))
	var levels [][]string
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if _, ok := visited[item.name]; ok {
			continue
		}
		visited[item.name] = struct{}{}

		for len(levels) <= item.level {
			levels = append(levels, nil)
		}
		levels[item.level] = append(levels[item.level], item.name)

		for _, target := range adjacency[item.name] {
			queue = append(queue, queued{name: target, level: item.level + 1})
		}
	}

	positions := make(map[string][]float64, len(visited))
	for level, names := range levels {
		x := layoutBaseX + float64(level)*layoutStepX
		// Stack the level vertically around the anchor.
		startY := layoutAnchorY - float64(len(names))*layoutSpacingY/2
		for i, name := range names {
			positions[name] = []float64{x, startY + float64(i)*layoutSpacingY}
		}
	}

	result := LayoutResult{Graph: out}
	for i := range out.Nodes {
		name := out.Nodes[i].Name
		if pos, ok := positions[name]; ok {
			out.Nodes[i].Position = pos
			continue
		}
		result.Unplaced = append(result.Unplaced, name)
	}
	return result
}

// buildAdjacency flattens the nested output-group structure into a plain
// source -> targets list, preserving group and output order. Output types are
// walked in sorted order to keep the traversal deterministic.
func buildAdjacency(g *Graph) map[string][]string {
	adjacency := make(map[string][]string, len(g.Connections))
	for src, outputs := range g.Connections {
		for _, outputType := range sortedKeys(outputs) {
			for _, group := range outputs[outputType] {
				for _, conn := range group {
					adjacency[src] = append(adjacency[src], conn.Node)
				}
			}
		}
	}
	return adjacency
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
