package catalog

import (
	"sort"
	"strings"
)

// NodeType describes one entry of the node-type catalog: the building blocks
// the generation pipeline may use in a graph.
type NodeType struct {
	Name               string   `yaml:"name" json:"name"`
	DisplayName        string   `yaml:"displayName" json:"displayName"`
	Group              string   `yaml:"group" json:"group"`
	Categories         []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	Description        string   `yaml:"description" json:"description"`
	DefaultTypeVersion float64  `yaml:"defaultTypeVersion,omitempty" json:"defaultTypeVersion,omitempty"`
	// Credentials lists the credential types nodes of this type accept.
	Credentials []string `yaml:"credentials,omitempty" json:"credentials,omitempty"`
	// RequiredParameters lists parameter keys a usable node must carry.
	RequiredParameters []string `yaml:"requiredParameters,omitempty" json:"requiredParameters,omitempty"`
}

// Catalog is an in-memory, searchable set of node types.
type Catalog struct {
	types  []NodeType
	byName map[string]*NodeType
}

func New(types []NodeType) *Catalog {
	c := &Catalog{
		types:  types,
		byName: make(map[string]*NodeType, len(types)),
	}
	for i := range c.types {
		c.byName[c.types[i].Name] = &c.types[i]
	}
	return c
}

// Types returns all catalog entries in definition order.
func (c *Catalog) Types() []NodeType {
	return c.types
}

// Lookup returns the entry for a node type name, or nil.
func (c *Catalog) Lookup(name string) *NodeType {
	return c.byName[name]
}

// Scored pairs a node type with its accumulated keyword score.
type Scored struct {
	NodeType NodeType
	Score    int
}

// Keyword scoring weights. Scores from multiple keywords on the same entry
// accumulate.
const (
	scoreExactName       = 10
	scoreSubstringName   = 5
	scoreCategory        = 3
	scoreDescription     = 2
	scoreDescriptionWord = 1
)

// Search scores every entry against the keywords, drops zero scores, sorts
// descending by score (ties keep definition order) and caps the result at
// limit. An empty keyword list yields no results.
func (c *Catalog) Search(keywords []string, limit int) []Scored {
	if len(keywords) == 0 {
		return nil
	}

	var matches []Scored
	for _, nt := range c.types {
		score := 0
		for _, kw := range keywords {
			score += scoreKeyword(&nt, strings.ToLower(strings.TrimSpace(kw)))
		}
		if score > 0 {
			matches = append(matches, Scored{NodeType: nt, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func scoreKeyword(nt *NodeType, kw string) int {
	if kw == "" {
		return 0
	}

	score := 0

	name := strings.ToLower(nt.Name)
	display := strings.ToLower(nt.DisplayName)
	switch {
	case name == kw || display == kw:
		score += scoreExactName
	case strings.Contains(name, kw) || strings.Contains(display, kw):
		score += scoreSubstringName
	}

	group := strings.ToLower(nt.Group)
	categoryHit := strings.Contains(group, kw)
	for _, cat := range nt.Categories {
		if strings.Contains(strings.ToLower(cat), kw) {
			categoryHit = true
			break
		}
	}
	if categoryHit {
		score += scoreCategory
	}

	desc := strings.ToLower(nt.Description)
	if strings.Contains(desc, kw) {
		score += scoreDescription
	} else if containsAnyWord(desc, kw) {
		score += scoreDescriptionWord
	}

	return score
}

// containsAnyWord reports whether any single word of a multi-word keyword
// appears in the description.
func containsAnyWord(desc, kw string) bool {
	words := strings.Fields(kw)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if strings.Contains(desc, w) {
			return true
		}
	}
	return false
}
