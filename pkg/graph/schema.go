package graph

import "sort"

// AllowedNodeTypes is the closed set of node labels in the strategy graph.
// Document and DocumentVersion are administrative; the rest are extractable
// business entities.
var AllowedNodeTypes = map[string]bool{
	"Company":         true,
	"Product":         true,
	"Market":          true,
	"CustomerSegment": true,
	"Capability":      true,
	"Constraint":      true,
	"Risk":            true,
	"Goal":            true,
	"Metric":          true,
	"Document":        true,
	"DocumentVersion": true,
}

// adminNodeTypes are never produced by extraction and never surface in
// strategic state.
var adminNodeTypes = map[string]bool{
	"Document":        true,
	"DocumentVersion": true,
}

// AllowedRelationships is the closed set of edge types. Edges with any
// other type are dropped during persistence.
var AllowedRelationships = map[string]bool{
	"TARGETS":     true,
	"OPERATES_IN": true,
	"REQUIRES":    true,
	"LIMITED_BY":  true,
	"EXPOSED_TO":  true,
	"IMPROVES":    true,
	"ALIGNS_WITH": true,
	"HAS_VERSION": true,
	"SUPPORTS":    true,
}

// ExtractableNodeTypes returns the sorted list of node types the extractor
// may produce, for building prompts.
func ExtractableNodeTypes() []string {
	out := make([]string, 0, len(AllowedNodeTypes))
	for t := range AllowedNodeTypes {
		if adminNodeTypes[t] {
			continue
		}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// RelationshipTypes returns the sorted list of edge types, for building
// prompts.
func RelationshipTypes() []string {
	out := make([]string, 0, len(AllowedRelationships))
	for t := range AllowedRelationships {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IsExtractableNodeType reports whether t may appear in extraction output.
func IsExtractableNodeType(t string) bool {
	return AllowedNodeTypes[t] && !adminNodeTypes[t]
}
