package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/stratum-ai/stratum/pkg/ai"
	"github.com/stratum-ai/stratum/pkg/common"
	"github.com/stratum-ai/stratum/pkg/graph"
	"github.com/stratum-ai/stratum/pkg/logger"
)

// VectorPersister is the slice of the vector store the service needs.
type VectorPersister interface {
	PersistSegments(ctx context.Context, doc common.Document, segments []common.SegmentFacts) error
}

// Service ties the ingestion pipeline to the two stores. Clients are
// injected once at construction and reused for the life of the process.
type Service struct {
	ai     ai.Client
	graph  graph.Runner
	vector VectorPersister
}

// NewService creates an ingestion service. The vector persister may be nil
// when no vector store is configured; ingestion then only feeds the graph.
func NewService(aiClient ai.Client, graphRunner graph.Runner, vector VectorPersister) *Service {
	return &Service{ai: aiClient, graph: graphRunner, vector: vector}
}

// IngestParams describes one document to ingest.
type IngestParams struct {
	Doc     common.Document
	Content []byte
	Title   string
	DocType string
}

// IngestAndPersist runs the full pipeline and writes both stores. The graph
// write is authoritative: its failure fails the call. The vector write is
// best effort: failures are logged and swallowed, and the caller still gets
// the processed segments back.
func (s *Service) IngestAndPersist(ctx context.Context, params IngestParams) ([]common.SegmentFacts, error) {
	doc := params.Doc
	if doc.Hash == "" {
		sum := sha256.Sum256(params.Content)
		doc.Hash = hex.EncodeToString(sum[:])
	}

	segments, err := RunIngestion(ctx, s.ai, doc, params.Content)
	if err != nil {
		return nil, err
	}

	err = graph.Persist(ctx, s.graph, graph.PersistParams{
		DocID:     doc.DocID,
		VersionID: doc.VersionID,
		Hash:      doc.Hash,
		Title:     params.Title,
		DocType:   params.DocType,
	}, segments)
	if err != nil {
		return nil, fmt.Errorf("graph persistence failed for %s: %w", doc.DocID, err)
	}

	if s.vector != nil {
		if err := s.vector.PersistSegments(ctx, doc, segments); err != nil {
			logger.Warn("vector persistence failed, continuing without context store",
				"doc", doc.DocID, "version", doc.VersionID, "err", err)
		}
	}

	logger.Info("document ingested",
		"doc", doc.DocID, "version", doc.VersionID, "segments", len(segments))
	return segments, nil
}
