package vector

import (
	"context"
	"fmt"

	"github.com/stratum-ai/stratum/pkg/ai"
)

// Retriever embeds free-text queries and searches the vector index.
type Retriever struct {
	store Store
	ai    ai.Client
}

// NewRetriever returns a Retriever over the given store and embedding client.
func NewRetriever(store Store, client ai.Client) *Retriever {
	return &Retriever{store: store, ai: client}
}

// Retrieve embeds the query and returns up to topK matches ordered by
// similarity, restricted by the filter.
func (r *Retriever) Retrieve(ctx context.Context, query string, filter QueryFilter, topK int) ([]Match, error) {
	vectors, err := r.ai.GenerateEmbeddings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embedding response missing query vector")
	}
	return r.store.Query(ctx, vectors[0], filter, topK)
}
