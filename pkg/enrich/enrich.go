package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratum-ai/stratum/pkg/ai"
	"github.com/stratum-ai/stratum/pkg/graph"
	"github.com/stratum-ai/stratum/pkg/logger"
	"github.com/stratum-ai/stratum/pkg/vector"
)

// contextTopK is how many vector matches feed into one enriched prompt.
const contextTopK = 5

const (
	noContextFallback = "No supporting context available."
	noStateFallback   = "No strategic state available."
)

// ContextRetriever is the vector search surface the orchestrator needs.
// Satisfied by vector.Retriever.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, filter vector.QueryFilter, topK int) ([]vector.Match, error)
}

// Orchestrator fuses graph state and vector context into a prompt-ready
// block for a user question.
type Orchestrator struct {
	ai        ai.Client
	graph     graph.Runner
	retriever ContextRetriever
}

// NewOrchestrator wires the enrichment orchestrator. All three clients are
// constructed once at process start and injected.
func NewOrchestrator(client ai.Client, runner graph.Runner, retriever ContextRetriever) *Orchestrator {
	return &Orchestrator{ai: client, graph: runner, retriever: retriever}
}

// EnrichParams carries the question plus optional scoping to one document.
type EnrichParams struct {
	Question   string
	DocID      string
	DocVersion string
}

// Enrich classifies the question's intent, retrieves vector context limited
// to the intent's categories, builds the graph state for the documents those
// matches came from, and renders everything into one text block. Every stage
// degrades independently; Enrich never fails.
func (o *Orchestrator) Enrich(ctx context.Context, params EnrichParams) string {
	intent := classifyIntent(ctx, o.ai, params.Question)
	categories := categoriesFor(intent)
	logger.Info("question intent classified", "intent", intent, "categories", len(categories))

	matches := o.retrieveContext(ctx, params, categories)

	docIDs := distinctDocIDs(matches)
	if params.DocID != "" && !contains(docIDs, params.DocID) {
		docIDs = append(docIDs, params.DocID)
	}

	state := graph.BuildState(ctx, o.graph, docIDs, params.Question)

	return renderBlock(state, matches, params.Question)
}

func (o *Orchestrator) retrieveContext(ctx context.Context, params EnrichParams, categories []string) []vector.Match {
	filter := vector.QueryFilter{
		DocID:      params.DocID,
		DocVersion: params.DocVersion,
		Categories: categories,
	}
	matches, err := o.retriever.Retrieve(ctx, params.Question, filter, contextTopK)
	if err != nil {
		logger.Error("context retrieval failed", "err", err)
		return nil
	}
	return matches
}

func distinctDocIDs(matches []vector.Match) []string {
	seen := map[string]bool{}
	ids := []string{}
	for _, m := range matches {
		if m.DocID == "" || seen[m.DocID] {
			continue
		}
		seen[m.DocID] = true
		ids = append(ids, m.DocID)
	}
	return ids
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// renderBlock lays out the two labeled sections followed by the question.
// Graph facts are authoritative; vector matches are explanatory.
func renderBlock(state []graph.StateEntry, matches []vector.Match, question string) string {
	stateStr := noStateFallback
	if len(state) > 0 {
		lines := make([]string, 0, len(state))
		for _, entry := range state {
			lines = append(lines, fmt.Sprintf("- [%s] %s (source: %s)", entry.Type, entry.Name, entry.SourceDocID))
		}
		stateStr = strings.Join(lines, "\n")
	}

	contextStr := noContextFallback
	if len(matches) > 0 {
		parts := make([]string, 0, len(matches))
		for _, m := range matches {
			parts = append(parts, fmt.Sprintf("[%s | score %.2f] %s", m.Category, m.Score, m.Text))
		}
		contextStr = strings.Join(parts, "\n\n")
	}

	return fmt.Sprintf(`STRATEGIC FACTS (graph, authoritative):
%s

SUPPORTING CONTEXT (vector matches, explanatory):
%s

QUESTION:
%s`, stateStr, contextStr, question)
}
