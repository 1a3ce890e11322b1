package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratum-ai/stratum/internal/util"
	"github.com/stratum-ai/stratum/pkg/ai"
	"github.com/stratum-ai/stratum/pkg/common"
	"github.com/stratum-ai/stratum/pkg/logger"
)

// Categories is the closed taxonomy for segment classification.
var Categories = []string{
	"product",
	"market",
	"pricing",
	"traction",
	"technology",
	"risk",
	"team",
	"financials",
	"other",
}

var categorySet = func() map[string]bool {
	set := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		set[c] = true
	}
	return set
}()

const (
	fallbackCategory   = "other"
	fallbackConfidence = 0.5
)

type classificationResult struct {
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// classifySegment assigns one category from the closed taxonomy plus a
// confidence score. Failures are never fatal: a segment that cannot be
// classified falls back to "other" at confidence 0.5 so the rest of the
// pipeline keeps moving.
func classifySegment(ctx context.Context, client ai.Client, segment common.Segment) (string, float64) {
	system := fmt.Sprintf(ai.ClassifyPrompt, strings.Join(Categories, ", "))

	result, err := util.RetryWithBackoff(ctx, util.DefaultBackoff(), ai.IsRecoverable,
		func(ctx context.Context) (classificationResult, error) {
			var out classificationResult
			err := client.GenerateCompletionWithFormat(
				ctx,
				"segment_classification",
				"Category and confidence for one document segment",
				segment.Text,
				&out,
				ai.WithSystemPrompts(system),
			)
			return out, err
		})
	if err != nil {
		logger.Warn("segment classification failed, using fallback",
			"segment", segment.ID, "err", err)
		return fallbackCategory, fallbackConfidence
	}

	category := strings.ToLower(strings.TrimSpace(result.Category))
	if !categorySet[category] {
		category = fallbackCategory
	}
	confidence := fallbackConfidence
	if result.Confidence != nil {
		confidence = *result.Confidence
	}
	return category, confidence
}
