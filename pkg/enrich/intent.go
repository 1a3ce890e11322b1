package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratum-ai/stratum/internal/util"
	"github.com/stratum-ai/stratum/pkg/ai"
	"github.com/stratum-ai/stratum/pkg/graph"
	"github.com/stratum-ai/stratum/pkg/ingest"
	"github.com/stratum-ai/stratum/pkg/logger"
)

// Intents is the closed taxonomy for question intent classification.
var Intents = []string{
	"market_analysis",
	"risk_assessment",
	"capability_check",
	"financial_review",
	"general_inquiry",
}

const defaultIntent = "general_inquiry"

// intentCategories maps each intent to the segment categories worth
// retrieving for it. general_inquiry deliberately stays broad.
var intentCategories = map[string][]string{
	"market_analysis":  {"market", "pricing", "traction"},
	"risk_assessment":  {"risk", "technology", "financials"},
	"capability_check": {"technology", "product", "team"},
	"financial_review": {"financials", "pricing", "traction"},
	"general_inquiry":  ingest.Categories,
}

var intentSet = func() map[string]bool {
	set := make(map[string]bool, len(Intents))
	for _, i := range Intents {
		set[i] = true
	}
	return set
}()

type intentResult struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// classifyIntent assigns the question one intent from the closed taxonomy,
// showing the model the graph schema so it knows what the system can answer.
// Any failure falls back to general_inquiry.
func classifyIntent(ctx context.Context, client ai.Client, question string) string {
	prompt := fmt.Sprintf(ai.IntentPrompt,
		strings.Join(graph.ExtractableNodeTypes(), ", "),
		strings.Join(graph.RelationshipTypes(), ", "),
		strings.Join(Intents, ", "),
		question,
	)

	result, err := util.RetryWithBackoff(ctx, util.DefaultBackoff(), ai.IsRecoverable,
		func(ctx context.Context) (intentResult, error) {
			var out intentResult
			err := client.GenerateCompletionWithFormat(
				ctx,
				"intent_classification",
				"Intent and confidence for one user question",
				prompt,
				&out,
			)
			return out, err
		})
	if err != nil {
		logger.Warn("intent classification failed, using fallback", "err", err)
		return defaultIntent
	}

	intent := strings.ToLower(strings.TrimSpace(result.Intent))
	if !intentSet[intent] {
		return defaultIntent
	}
	return intent
}

// categoriesFor returns the retrieval category allow-list for an intent.
func categoriesFor(intent string) []string {
	if categories, ok := intentCategories[intent]; ok {
		return categories
	}
	return intentCategories[defaultIntent]
}
