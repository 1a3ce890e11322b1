package ingest

import (
	"github.com/stratum-ai/stratum/pkg/common"
	"github.com/stratum-ai/stratum/pkg/graph"
)

// validateSegment filters extracted facts against the closed schema and
// stamps provenance. Entities survive only with an extractable type and a
// non-empty name; relationships survive only with both endpoints and a
// type. Endpoint types the extractor omitted are backfilled from entities
// extracted out of the same segment, best effort.
func validateSegment(
	doc common.Document,
	segment common.Segment,
	category string,
	confidence float64,
	entities []common.Entity,
	relationships []common.Relationship,
) common.SegmentFacts {
	validEntities := make([]common.Entity, 0, len(entities))
	for _, e := range entities {
		if !graph.IsExtractableNodeType(e.Type) || e.Name == "" {
			continue
		}
		e.SourcePages = segment.PageNumbers
		e.Confidence = confidence
		e.SourceDocID = doc.DocID
		e.SourceVersionID = doc.VersionID
		validEntities = append(validEntities, e)
	}

	typeByName := make(map[string]string, len(validEntities))
	for _, e := range validEntities {
		typeByName[e.Name] = e.Type
	}

	validRelationships := make([]common.Relationship, 0, len(relationships))
	for _, r := range relationships {
		if r.FromName == "" || r.ToName == "" || r.Type == "" {
			continue
		}
		r.SourcePages = segment.PageNumbers
		r.Confidence = confidence
		r.SourceDocID = doc.DocID
		r.SourceVersionID = doc.VersionID
		if r.FromType == "" {
			r.FromType = typeByName[r.FromName]
		}
		if r.ToType == "" {
			r.ToType = typeByName[r.ToName]
		}
		validRelationships = append(validRelationships, r)
	}

	return common.SegmentFacts{
		Segment:       segment,
		Category:      category,
		Confidence:    confidence,
		Entities:      validEntities,
		Relationships: validRelationships,
	}
}
