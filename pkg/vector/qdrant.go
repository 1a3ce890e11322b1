package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore implements Store against a Qdrant collection with cosine
// distance and payload filters on doc_id, doc_version and category.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// QdrantConfig configures the Qdrant connection and collection.
type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Dimensions uint64
}

// NewQdrantStore connects to Qdrant and creates the collection if it does
// not exist yet.
func NewQdrantStore(ctx context.Context, cfg QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	store := &QdrantStore{client: client, collection: cfg.Collection}
	if err := store.ensureCollection(ctx, cfg.Dimensions); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context, dimensions uint64) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", s.collection, err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     dimensions,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}
	return nil
}

// pointUUID derives a deterministic UUID from the logical point key, since
// Qdrant only accepts UUID or integer point ids.
func pointUUID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// Upsert writes the points in one call; identical logical keys overwrite.
func (s *QdrantStore) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		qdrantPoints = append(qdrantPoints, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointUUID(p.ID)),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(p.Payload),
		})
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         qdrantPoints,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points: %w", len(points), err)
	}
	return nil
}

func buildFilter(filter QueryFilter) *qdrant.Filter {
	conditions := []*qdrant.Condition{}
	if filter.DocID != "" {
		conditions = append(conditions, qdrant.NewMatch("doc_id", filter.DocID))
	}
	if filter.DocVersion != "" {
		conditions = append(conditions, qdrant.NewMatch("doc_version", filter.DocVersion))
	}
	if len(filter.Categories) > 0 {
		conditions = append(conditions, qdrant.NewMatchKeywords("category", filter.Categories...))
	}
	if len(conditions) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: conditions}
}

// Query runs a cosine similarity search restricted by the filter.
func (s *QdrantStore) Query(ctx context.Context, vector []float32, filter QueryFilter, topK int) ([]Match, error) {
	limit := uint64(topK)
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         buildFilter(filter),
		Limit:          &limit,
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	matches := make([]Match, 0, len(hits))
	for _, hit := range hits {
		match := Match{
			DocID:      hit.Payload["doc_id"].GetStringValue(),
			DocVersion: hit.Payload["doc_version"].GetStringValue(),
			SegmentID:  hit.Payload["segment_id"].GetStringValue(),
			Category:   hit.Payload["category"].GetStringValue(),
			Text:       hit.Payload["text"].GetStringValue(),
			Confidence: hit.Payload["confidence"].GetDoubleValue(),
			Score:      hit.Score,
		}
		if pages := hit.Payload["page_numbers"].GetListValue(); pages != nil {
			for _, v := range pages.Values {
				match.PageNumbers = append(match.PageNumbers, v.GetStringValue())
			}
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// DeleteByDocID removes every point carrying the given doc_id.
func (s *QdrantStore) DeleteByDocID(ctx context.Context, docID string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{qdrant.NewMatch("doc_id", docID)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points for doc %s: %w", docID, err)
	}
	return nil
}
