package vector

import "context"

// Point is one record in the vector index. ID is the logical key
// "{doc_id}:{doc_version}:{segment_id}"; re-upserting the same key
// overwrites the record.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// Match is one retrieval hit with its payload lifted back into fields.
type Match struct {
	DocID       string
	DocVersion  string
	SegmentID   string
	Category    string
	PageNumbers []string
	Text        string
	Confidence  float64
	Score       float32
}

// QueryFilter restricts retrieval. Zero values mean unrestricted.
type QueryFilter struct {
	DocID      string
	DocVersion string
	Categories []string
}

// Store abstracts the vector index. The production implementation talks to
// Qdrant; tests substitute an in-memory fake.
type Store interface {
	Upsert(ctx context.Context, points []Point) error
	Query(ctx context.Context, vector []float32, filter QueryFilter, topK int) ([]Match, error)
	DeleteByDocID(ctx context.Context, docID string) error
}
