package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/stratum-ai/stratum/pkg/common"
)

// PersistParams carries the document-level metadata for one persist call.
type PersistParams struct {
	DocID     string
	VersionID string
	Hash      string
	Title     string
	DocType   string
}

type nodeKey struct {
	Label string
	Norm  string
}

type edgeKey struct {
	FromLabel string
	FromNorm  string
	ToLabel   string
	ToNorm    string
	Type      string
}

type record struct {
	props      map[string]any
	segmentIDs map[string]bool
	versions   map[string]bool
}

func (r *record) addProvenance(segmentID, versionID string) {
	if segmentID != "" {
		r.segmentIDs[segmentID] = true
	}
	r.versions[versionID] = true
}

// Persist merge-upserts the validated facts of one ingestion into the graph.
// Nodes are merged per label on normalized_name, edges per endpoint pair and
// type; repeat calls with the same input only enlarge provenance sets and
// refresh scalar fields. Any store error aborts the call: the graph is the
// authoritative store and partial silence is not acceptable here.
func Persist(ctx context.Context, runner Runner, params PersistParams, segments []common.SegmentFacts) error {
	_, err := runner.Run(ctx, `
		MERGE (d:Document {doc_id: $doc_id})
		SET d.title = $title, d.doc_type = $doc_type
		MERGE (v:DocumentVersion {version_id: $version_id})
		SET v.hash = $hash, v.status = 'active'
		MERGE (d)-[:HAS_VERSION]->(v)`,
		map[string]any{
			"doc_id":     params.DocID,
			"version_id": params.VersionID,
			"title":      params.Title,
			"doc_type":   params.DocType,
			"hash":       params.Hash,
		})
	if err != nil {
		return fmt.Errorf("failed to upsert document nodes: %w", err)
	}

	entityMap := map[nodeKey]*record{}
	edgeMap := map[edgeKey]*record{}

	for _, seg := range segments {
		collectEntities(entityMap, seg, params)
		collectEdges(entityMap, edgeMap, seg, params)
	}

	if err := writeNodeBatches(ctx, runner, entityMap); err != nil {
		return err
	}
	return writeEdgeBatches(ctx, runner, edgeMap)
}

func collectEntities(entityMap map[nodeKey]*record, seg common.SegmentFacts, params PersistParams) {
	for _, e := range seg.Entities {
		if !AllowedNodeTypes[e.Type] || e.Name == "" {
			continue
		}
		norm := NormalizeName(e.Name)
		if norm == "" {
			continue
		}

		props := map[string]any{
			"name":            e.Name,
			"normalized_name": norm,
			"confidence":      e.Confidence,
			"source_doc_id":   params.DocID,
		}
		for k, v := range e.Properties {
			props[k] = v
		}

		key := nodeKey{Label: e.Type, Norm: norm}
		existing, ok := entityMap[key]
		if !ok {
			entityMap[key] = &record{
				props:      props,
				segmentIDs: map[string]bool{},
				versions:   map[string]bool{},
			}
			existing = entityMap[key]
		} else {
			// Later extractions win per field.
			for k, v := range props {
				existing.props[k] = v
			}
		}
		existing.addProvenance(seg.Segment.ID, params.VersionID)
	}
}

func collectEdges(entityMap map[nodeKey]*record, edgeMap map[edgeKey]*record, seg common.SegmentFacts, params PersistParams) {
	for _, r := range seg.Relationships {
		if r.FromType == "" || r.ToType == "" || r.Type == "" {
			continue
		}
		if r.FromName == "" || r.ToName == "" {
			continue
		}
		// Relationship types outside the closed vocabulary are dropped:
		// the type is interpolated into Cypher, so an open policy would
		// also be an injection hole.
		if !AllowedRelationships[r.Type] {
			continue
		}

		fromNorm := NormalizeName(r.FromName)
		toNorm := NormalizeName(r.ToName)
		if fromNorm == "" || toNorm == "" {
			continue
		}

		// Endpoints that were never explicitly extracted still get
		// placeholder nodes so the edge has something to attach to.
		ensureImplicit(entityMap, r.FromType, r.FromName, fromNorm, seg, params)
		ensureImplicit(entityMap, r.ToType, r.ToName, toNorm, seg, params)
		if !AllowedNodeTypes[r.FromType] || !AllowedNodeTypes[r.ToType] {
			continue
		}

		key := edgeKey{
			FromLabel: r.FromType,
			FromNorm:  fromNorm,
			ToLabel:   r.ToType,
			ToNorm:    toNorm,
			Type:      r.Type,
		}
		props := map[string]any{
			"confidence":           r.Confidence,
			"from_normalized_name": fromNorm,
			"to_normalized_name":   toNorm,
			"source_doc_id":        params.DocID,
		}

		existing, ok := edgeMap[key]
		if !ok {
			edgeMap[key] = &record{
				props:      props,
				segmentIDs: map[string]bool{},
				versions:   map[string]bool{},
			}
			existing = edgeMap[key]
		} else {
			for k, v := range props {
				existing.props[k] = v
			}
		}
		existing.addProvenance(seg.Segment.ID, params.VersionID)
	}
}

func ensureImplicit(entityMap map[nodeKey]*record, label, rawName, norm string, seg common.SegmentFacts, params PersistParams) {
	if !AllowedNodeTypes[label] {
		return
	}
	key := nodeKey{Label: label, Norm: norm}
	existing, ok := entityMap[key]
	if !ok {
		entityMap[key] = &record{
			props: map[string]any{
				"name":            rawName,
				"normalized_name": norm,
				"implicit":        true,
				"source_doc_id":   params.DocID,
			},
			segmentIDs: map[string]bool{},
			versions:   map[string]bool{},
		}
		existing = entityMap[key]
	}
	existing.addProvenance(seg.Segment.ID, params.VersionID)
}

func writeNodeBatches(ctx context.Context, runner Runner, entityMap map[nodeKey]*record) error {
	byLabel := map[string][]map[string]any{}
	for key, rec := range entityMap {
		byLabel[key.Label] = append(byLabel[key.Label], map[string]any{
			"normalized_name": key.Norm,
			"props":           sanitizeProperties(rec.props),
			"segment_ids":     sortedKeys(rec.segmentIDs),
			"source_versions": sortedKeys(rec.versions),
		})
	}

	for _, label := range sortedBatchLabels(byLabel) {
		batch := byLabel[label]
		sort.Slice(batch, func(i, j int) bool {
			return batch[i]["normalized_name"].(string) < batch[j]["normalized_name"].(string)
		})
		query := fmt.Sprintf(`
			UNWIND $batch AS row
			MERGE (n:%s {normalized_name: row.normalized_name})
			ON CREATE SET n.created_at = timestamp()
			SET n += row.props
			SET n.segment_ids = [x IN coalesce(n.segment_ids, []) WHERE NOT x IN row.segment_ids] + row.segment_ids
			SET n.source_versions = [x IN coalesce(n.source_versions, []) WHERE NOT x IN row.source_versions] + row.source_versions`,
			label)
		if _, err := runner.Run(ctx, query, map[string]any{"batch": batch}); err != nil {
			return fmt.Errorf("failed to upsert %s nodes: %w", label, err)
		}
	}
	return nil
}

func writeEdgeBatches(ctx context.Context, runner Runner, edgeMap map[edgeKey]*record) error {
	type groupKey struct {
		FromLabel string
		ToLabel   string
		Type      string
	}
	groups := map[groupKey][]map[string]any{}
	for key, rec := range edgeMap {
		gk := groupKey{FromLabel: key.FromLabel, ToLabel: key.ToLabel, Type: key.Type}
		groups[gk] = append(groups[gk], map[string]any{
			"props":           sanitizeProperties(rec.props),
			"from":            key.FromNorm,
			"to":              key.ToNorm,
			"segment_ids":     sortedKeys(rec.segmentIDs),
			"source_versions": sortedKeys(rec.versions),
		})
	}

	orderedGroups := make([]groupKey, 0, len(groups))
	for gk := range groups {
		orderedGroups = append(orderedGroups, gk)
	}
	sort.Slice(orderedGroups, func(i, j int) bool {
		a, b := orderedGroups[i], orderedGroups[j]
		if a.FromLabel != b.FromLabel {
			return a.FromLabel < b.FromLabel
		}
		if a.ToLabel != b.ToLabel {
			return a.ToLabel < b.ToLabel
		}
		return a.Type < b.Type
	})

	for _, gk := range orderedGroups {
		batch := groups[gk]
		sort.Slice(batch, func(i, j int) bool {
			if batch[i]["from"].(string) != batch[j]["from"].(string) {
				return batch[i]["from"].(string) < batch[j]["from"].(string)
			}
			return batch[i]["to"].(string) < batch[j]["to"].(string)
		})
		query := fmt.Sprintf(`
			UNWIND $batch AS row
			MATCH (a:%s {normalized_name: row.from})
			MATCH (b:%s {normalized_name: row.to})
			MERGE (a)-[r:%s]->(b)
			SET r += row.props
			SET r.segment_ids = [x IN coalesce(r.segment_ids, []) WHERE NOT x IN row.segment_ids] + row.segment_ids
			SET r.source_versions = [x IN coalesce(r.source_versions, []) WHERE NOT x IN row.source_versions] + row.source_versions`,
			gk.FromLabel, gk.ToLabel, gk.Type)
		if _, err := runner.Run(ctx, query, map[string]any{"batch": batch}); err != nil {
			return fmt.Errorf("failed to upsert %s edges: %w", gk.Type, err)
		}
	}
	return nil
}

// sanitizeProperties stringifies nested structures since the store only
// accepts primitive or primitive-list property values.
func sanitizeProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return stringify(val)
	case []any:
		for _, item := range val {
			if _, ok := item.(map[string]any); ok {
				return stringify(val)
			}
		}
	}
	return v
}

func stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedBatchLabels(byLabel map[string][]map[string]any) []string {
	out := make([]string, 0, len(byLabel))
	for label := range byLabel {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
