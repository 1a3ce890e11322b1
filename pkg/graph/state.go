package graph

import (
	"context"
	"strconv"

	"github.com/stratum-ai/stratum/pkg/logger"
)

const (
	docMatchLimit  = 50
	textMatchLimit = 20
)

// StateEntry is one deduplicated graph fact in a strategic-state snapshot.
type StateEntry struct {
	Type           string         `json:"type"`
	Name           string         `json:"name"`
	NormalizedName string         `json:"normalized_name"`
	SourceDocID    string         `json:"source_doc_id"`
	Properties     map[string]any `json:"properties"`
}

// BuildState retrieves a compact strategic-state snapshot from the graph.
// Nodes matching any of the given doc ids and nodes whose name, description
// or function contains the query text are unioned, then deduplicated by
// (type, normalized name, source doc). Administrative Document and
// DocumentVersion nodes never appear. This is a prompt-enrichment read path,
// so store errors degrade to an empty snapshot instead of propagating.
func BuildState(ctx context.Context, runner Runner, docIDs []string, queryText string) []StateEntry {
	labels := ExtractableNodeTypes()
	entries := []StateEntry{}
	type dedupKey struct {
		Type  string
		Norm  string
		DocID string
	}
	seen := map[dedupKey]bool{}

	appendRows := func(rows []map[string]any) {
		for _, row := range rows {
			entry := rowToEntry(row)
			if entry.Type == "" {
				continue
			}
			key := dedupKey{Type: entry.Type, Norm: entry.NormalizedName, DocID: entry.SourceDocID}
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, entry)
		}
	}

	if len(docIDs) > 0 {
		rows, err := runner.Run(ctx, `
			MATCH (n)
			WHERE n.source_doc_id IN $doc_ids
			  AND any(l IN labels(n) WHERE l IN $labels)
			RETURN [l IN labels(n) WHERE l IN $labels][0] AS label, properties(n) AS props
			ORDER BY n.normalized_name
			LIMIT `+strconv.Itoa(docMatchLimit),
			map[string]any{"doc_ids": docIDs, "labels": labels})
		if err != nil {
			logger.Error("state builder doc-id query failed", "err", err)
			return []StateEntry{}
		}
		appendRows(rows)
	}

	if queryText != "" {
		rows, err := runner.Run(ctx, `
			MATCH (n)
			WHERE any(l IN labels(n) WHERE l IN $labels)
			  AND (toLower(coalesce(n.name, '')) CONTAINS toLower($query)
			    OR toLower(coalesce(n.description, '')) CONTAINS toLower($query)
			    OR toLower(coalesce(n.function, '')) CONTAINS toLower($query))
			RETURN [l IN labels(n) WHERE l IN $labels][0] AS label, properties(n) AS props
			ORDER BY n.normalized_name
			LIMIT `+strconv.Itoa(textMatchLimit),
			map[string]any{"labels": labels, "query": queryText})
		if err != nil {
			logger.Error("state builder text query failed", "err", err)
			return entries
		}
		appendRows(rows)
	}

	return entries
}

func rowToEntry(row map[string]any) StateEntry {
	entry := StateEntry{}
	if label, ok := row["label"].(string); ok {
		entry.Type = label
	}
	props, ok := row["props"].(map[string]any)
	if !ok {
		return entry
	}
	entry.Properties = props
	if v, ok := props["name"].(string); ok {
		entry.Name = v
	}
	if v, ok := props["normalized_name"].(string); ok {
		entry.NormalizedName = v
	}
	if v, ok := props["source_doc_id"].(string); ok {
		entry.SourceDocID = v
	}
	return entry
}
