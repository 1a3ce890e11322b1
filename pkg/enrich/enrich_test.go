package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stratum-ai/stratum/pkg/ai"
	"github.com/stratum-ai/stratum/pkg/vector"
)

// fakeAI answers the intent schema with canned JSON. Errors are
// non-recoverable so tests do not sit in backoff.
type fakeAI struct {
	intentJSON string
	intentErr  error
}

func (f *fakeAI) GenerateCompletion(context.Context, string, ...ai.GenerateOption) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeAI) GenerateCompletionWithFormat(
	_ context.Context,
	name, _, _ string,
	out any,
	_ ...ai.GenerateOption,
) error {
	if name != "intent_classification" {
		return errors.New("unexpected schema " + name)
	}
	if f.intentErr != nil {
		return f.intentErr
	}
	return json.Unmarshal([]byte(f.intentJSON), out)
}

func (f *fakeAI) GenerateEmbeddings(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (f *fakeAI) ResetMetrics()               {}
func (f *fakeAI) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type fakeRetriever struct {
	filter  vector.QueryFilter
	topK    int
	matches []vector.Match
	err     error
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, filter vector.QueryFilter, topK int) ([]vector.Match, error) {
	f.filter = filter
	f.topK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

// stateFakeRunner answers the state builder's doc-id and text queries and
// records the parameters it saw.
type stateFakeRunner struct {
	docIDParams map[string]any
	rows        []map[string]any
	err         error
}

func (f *stateFakeRunner) Run(_ context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.Contains(cypher, "source_doc_id IN $doc_ids") {
		f.docIDParams = params
		return f.rows, nil
	}
	return nil, nil
}

func TestEnrichRiskAssessmentRestrictsCategories(t *testing.T) {
	client := &fakeAI{intentJSON: `{"intent": "risk_assessment", "confidence": 0.9}`}
	retriever := &fakeRetriever{matches: []vector.Match{
		{DocID: "doc-1", Category: "risk", Text: "Driver churn is accelerating", Score: 0.91},
		{DocID: "doc-2", Category: "financials", Text: "Runway is nine months", Score: 0.74},
		{DocID: "doc-1", Category: "risk", Text: "Fuel costs are volatile", Score: 0.66},
	}}
	runner := &stateFakeRunner{rows: []map[string]any{
		{"label": "Risk", "props": map[string]any{
			"name": "driver churn", "normalized_name": "driver churn", "source_doc_id": "doc-1",
		}},
	}}

	o := NewOrchestrator(client, runner, retriever)
	block := o.Enrich(context.Background(), EnrichParams{Question: "pricing risk"})

	want := []string{"risk", "technology", "financials"}
	if !reflect.DeepEqual(retriever.filter.Categories, want) {
		t.Errorf("categories = %v, want %v", retriever.filter.Categories, want)
	}
	if retriever.topK != 5 {
		t.Errorf("topK = %d, want 5", retriever.topK)
	}

	gotDocIDs, _ := runner.docIDParams["doc_ids"].([]string)
	if !reflect.DeepEqual(gotDocIDs, []string{"doc-1", "doc-2"}) {
		t.Errorf("state doc ids = %v, want distinct match doc ids", gotDocIDs)
	}

	if !strings.Contains(block, "[Risk] driver churn (source: doc-1)") {
		t.Errorf("strategic facts missing from block:\n%s", block)
	}
	if !strings.Contains(block, "[risk | score 0.91] Driver churn is accelerating") {
		t.Errorf("supporting context missing from block:\n%s", block)
	}
	if !strings.Contains(block, "QUESTION:\npricing risk") {
		t.Errorf("question missing from block:\n%s", block)
	}
}

func TestEnrichDegradesIndependently(t *testing.T) {
	client := &fakeAI{intentJSON: `{"intent": "market_analysis", "confidence": 0.8}`}
	retriever := &fakeRetriever{err: errors.New("vector store down")}
	runner := &stateFakeRunner{err: errors.New("graph store down")}

	o := NewOrchestrator(client, runner, retriever)
	block := o.Enrich(context.Background(), EnrichParams{Question: "what market are we in"})

	if !strings.Contains(block, "No supporting context available.") {
		t.Errorf("missing context fallback:\n%s", block)
	}
	if !strings.Contains(block, "No strategic state available.") {
		t.Errorf("missing state fallback:\n%s", block)
	}
	if !strings.Contains(block, "what market are we in") {
		t.Errorf("question must always survive:\n%s", block)
	}
}

func TestEnrichIntentFailureFallsBack(t *testing.T) {
	client := &fakeAI{intentErr: errors.New("invalid api key")}
	retriever := &fakeRetriever{}
	o := NewOrchestrator(client, &stateFakeRunner{}, retriever)

	o.Enrich(context.Background(), EnrichParams{Question: "anything"})

	if !reflect.DeepEqual(retriever.filter.Categories, intentCategories[defaultIntent]) {
		t.Errorf("fallback intent should use the broad category set, got %v", retriever.filter.Categories)
	}
}

func TestEnrichUnknownIntentCoerced(t *testing.T) {
	client := &fakeAI{intentJSON: `{"intent": "weather_report", "confidence": 0.9}`}
	retriever := &fakeRetriever{}
	o := NewOrchestrator(client, &stateFakeRunner{}, retriever)

	o.Enrich(context.Background(), EnrichParams{Question: "anything"})

	if !reflect.DeepEqual(retriever.filter.Categories, intentCategories[defaultIntent]) {
		t.Errorf("unknown intent should coerce to the default, got %v", retriever.filter.Categories)
	}
}

func TestEnrichExplicitDocIDJoinsState(t *testing.T) {
	client := &fakeAI{intentJSON: `{"intent": "capability_check", "confidence": 0.7}`}
	retriever := &fakeRetriever{matches: []vector.Match{
		{DocID: "doc-9", Category: "technology", Text: "Routing engine v2", Score: 0.8},
	}}
	runner := &stateFakeRunner{}

	o := NewOrchestrator(client, runner, retriever)
	o.Enrich(context.Background(), EnrichParams{Question: "can we route fleets", DocID: "doc-1"})

	if retriever.filter.DocID != "doc-1" {
		t.Errorf("doc filter not forwarded to retrieval: %+v", retriever.filter)
	}
	gotDocIDs, _ := runner.docIDParams["doc_ids"].([]string)
	if !reflect.DeepEqual(gotDocIDs, []string{"doc-9", "doc-1"}) {
		t.Errorf("explicit doc id should join the state filter, got %v", gotDocIDs)
	}
}
