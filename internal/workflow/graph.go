package workflow

import "sort"

// Graph is the node+connection structure generated from a user prompt,
// in the wire shape the execution engine accepts.
type Graph struct {
	Name        string         `json:"name"`
	Nodes       []Node         `json:"nodes"`
	Connections ConnectionMap  `json:"connections"`
	Settings    map[string]any `json:"settings,omitempty"`
	Meta        *Meta          `json:"meta,omitempty"`
}

// Node is a single typed step of the graph. Name is unique within the graph.
type Node struct {
	Name        string                   `json:"name"`
	Type        string                   `json:"type"`
	TypeVersion float64                  `json:"typeVersion,omitempty"`
	Position    []float64                `json:"position,omitempty"`
	Parameters  map[string]any           `json:"parameters,omitempty"`
	Credentials map[string]CredentialRef `json:"credentials,omitempty"`
}

// CredentialRef points a node at an engine-side credential. Generated graphs
// carry placeholder refs until the resolver injects concrete ids.
type CredentialRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ConnectionMap maps source node name -> output type ("main") -> ordered
// parallel-output groups, each an ordered list of targets.
type ConnectionMap map[string]map[string][][]Connection

// Connection is a single directed edge into a target node input.
type Connection struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// Meta carries generation annotations that ride along with the graph.
type Meta struct {
	Assumptions           []string `json:"assumptions,omitempty"`
	Suggestions           []string `json:"suggestions,omitempty"`
	RequiresClarification []string `json:"requiresClarification,omitempty"`
}

// NodeNames returns the set of node names in the graph.
func (g *Graph) NodeNames() map[string]struct{} {
	names := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		names[n.Name] = struct{}{}
	}
	return names
}

// RequiredCredentialTypes returns the distinct credential type keys referenced
// by any node, in first-seen node order (sorted within a node).
func (g *Graph) RequiredCredentialTypes() []string {
	seen := make(map[string]struct{})
	var types []string
	for _, n := range g.Nodes {
		nodeTypes := make([]string, 0, len(n.Credentials))
		for credType := range n.Credentials {
			nodeTypes = append(nodeTypes, credType)
		}
		sort.Strings(nodeTypes)
		for _, credType := range nodeTypes {
			if _, ok := seen[credType]; ok {
				continue
			}
			seen[credType] = struct{}{}
			types = append(types, credType)
		}
	}
	return types
}

// NeedsClarification reports whether the graph carries unresolved
// clarification entries.
func (g *Graph) NeedsClarification() bool {
	return g.Meta != nil && len(g.Meta.RequiresClarification) > 0
}

// AddClarifications appends entries to meta.requiresClarification without
// dropping existing ones.
func (g *Graph) AddClarifications(entries ...string) {
	if len(entries) == 0 {
		return
	}
	if g.Meta == nil {
		g.Meta = &Meta{}
	}
	g.Meta.RequiresClarification = append(g.Meta.RequiresClarification, entries...)
}

// HasValidPosition reports whether the node carries a well-formed 2-tuple
// canvas position.
func (n *Node) HasValidPosition() bool {
	return len(n.Position) == 2
}

// Clone returns a deep copy of the graph. The copy shares no node, position,
// credential or meta storage with the original; parameter values are shared.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Name:        g.Name,
		Nodes:       make([]Node, len(g.Nodes)),
		Connections: g.Connections.clone(),
	}
	for i, n := range g.Nodes {
		cn := n
		if n.Position != nil {
			cn.Position = append([]float64(nil), n.Position...)
		}
		if n.Parameters != nil {
			cn.Parameters = make(map[string]any, len(n.Parameters))
			for k, v := range n.Parameters {
				cn.Parameters[k] = v
			}
		}
		if n.Credentials != nil {
			cn.Credentials = make(map[string]CredentialRef, len(n.Credentials))
			for k, v := range n.Credentials {
				cn.Credentials[k] = v
			}
		}
		out.Nodes[i] = cn
	}
	if g.Settings != nil {
		out.Settings = make(map[string]any, len(g.Settings))
		for k, v := range g.Settings {
			out.Settings[k] = v
		}
	}
	if g.Meta != nil {
		out.Meta = &Meta{
			Assumptions:           append([]string(nil), g.Meta.Assumptions...),
			Suggestions:           append([]string(nil), g.Meta.Suggestions...),
			RequiresClarification: append([]string(nil), g.Meta.RequiresClarification...),
		}
	}
	return out
}

func (cm ConnectionMap) clone() ConnectionMap {
	if cm == nil {
		return nil
	}
	out := make(ConnectionMap, len(cm))
	for src, outputs := range cm {
		outCopy := make(map[string][][]Connection, len(outputs))
		for outputType, groups := range outputs {
			groupsCopy := make([][]Connection, len(groups))
			for i, group := range groups {
				groupsCopy[i] = append([]Connection(nil), group...)
			}
			outCopy[outputType] = groupsCopy
		}
		out[src] = outCopy
	}
	return out
}
