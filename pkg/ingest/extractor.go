package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratum-ai/stratum/internal/util"
	"github.com/stratum-ai/stratum/pkg/ai"
	"github.com/stratum-ai/stratum/pkg/common"
	"github.com/stratum-ai/stratum/pkg/graph"
	"github.com/stratum-ai/stratum/pkg/logger"
)

type extractedEntity struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
}

type extractedRelationship struct {
	From string `json:"from"`
	Type string `json:"type"`
	To   string `json:"to"`
}

type extractionResult struct {
	Entities      []extractedEntity       `json:"entities"`
	Relationships []extractedRelationship `json:"relationships"`
}

// extractFacts pulls typed entities and relationships out of segment text,
// constrained to the graph schema. Extraction failures degrade to empty
// lists rather than aborting the segment.
func extractFacts(ctx context.Context, client ai.Client, segment common.Segment) ([]common.Entity, []common.Relationship) {
	system := fmt.Sprintf(ai.ExtractPrompt,
		strings.Join(graph.ExtractableNodeTypes(), ", "),
		strings.Join(graph.RelationshipTypes(), ", "),
	)

	result, err := util.RetryWithBackoff(ctx, util.DefaultBackoff(), ai.IsRecoverable,
		func(ctx context.Context) (extractionResult, error) {
			var out extractionResult
			err := client.GenerateCompletionWithFormat(
				ctx,
				"fact_extraction",
				"Entities and relationships stated in one document segment",
				segment.Text,
				&out,
				ai.WithSystemPrompts(system),
			)
			return out, err
		})
	if err != nil {
		logger.Warn("fact extraction failed, keeping segment without facts",
			"segment", segment.ID, "err", err)
		return []common.Entity{}, []common.Relationship{}
	}

	entities := make([]common.Entity, 0, len(result.Entities))
	for _, e := range result.Entities {
		entities = append(entities, common.Entity{
			Type:       e.Type,
			Name:       e.Name,
			Properties: e.Properties,
		})
	}
	relationships := make([]common.Relationship, 0, len(result.Relationships))
	for _, r := range result.Relationships {
		relationships = append(relationships, common.Relationship{
			FromName: r.From,
			Type:     r.Type,
			ToName:   r.To,
		})
	}
	return entities, relationships
}
