package vector

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkoukk/tiktoken-go"

	"github.com/stratum-ai/stratum/internal/util"
	"github.com/stratum-ai/stratum/pkg/ai"
	"github.com/stratum-ai/stratum/pkg/common"
	"github.com/stratum-ai/stratum/pkg/logger"
)

// embedBatchTokenBudget caps the token total of one embedding request.
// Segments are never split; a segment larger than the budget goes into a
// batch of its own.
const embedBatchTokenBudget = 8000

// Writer embeds processed segments and upserts them into the vector index.
// It satisfies the ingestion service's vector persister.
type Writer struct {
	store Store
	ai    ai.Client
}

// NewWriter returns a Writer over the given store and embedding client.
func NewWriter(store Store, client ai.Client) *Writer {
	return &Writer{store: store, ai: client}
}

// PersistSegments embeds every non-empty segment and upserts it under the
// key "{doc_id}:{doc_version}:{segment_id}", so re-ingesting the same
// version overwrites rather than duplicates. Batches that fail are logged
// and skipped; the aggregated error reports how many were lost.
func (w *Writer) PersistSegments(ctx context.Context, doc common.Document, segments []common.SegmentFacts) error {
	indexable := make([]common.SegmentFacts, 0, len(segments))
	for _, seg := range segments {
		if seg.Segment.Text != "" {
			indexable = append(indexable, seg)
		}
	}
	if len(indexable) == 0 {
		return nil
	}

	batches := batchByTokenBudget(indexable, embedBatchTokenBudget)

	failed := 0
	var lastErr error
	for _, batch := range batches {
		if err := w.persistBatch(ctx, doc, batch); err != nil {
			logger.Warn("vector batch failed",
				"doc_id", doc.DocID,
				"segments", len(batch),
				"error", err,
			)
			failed += len(batch)
			lastErr = err
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to index %d of %d segments: %w", failed, len(indexable), lastErr)
	}
	return nil
}

func (w *Writer) persistBatch(ctx context.Context, doc common.Document, batch []common.SegmentFacts) error {
	inputs := make([]string, len(batch))
	for i, seg := range batch {
		inputs[i] = seg.Segment.Text
	}

	vectors, err := w.ai.GenerateEmbeddings(ctx, inputs)
	if err != nil {
		return fmt.Errorf("embedding request failed: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(batch))
	}

	points := make([]Point, 0, len(batch))
	for i, seg := range batch {
		pages := make([]any, len(seg.Segment.PageNumbers))
		for j, n := range seg.Segment.PageNumbers {
			pages[j] = strconv.Itoa(n)
		}
		points = append(points, Point{
			ID:     fmt.Sprintf("%s:%s:%s", doc.DocID, doc.VersionID, seg.Segment.ID),
			Vector: vectors[i],
			Payload: map[string]any{
				"doc_id":       doc.DocID,
				"doc_version":  doc.VersionID,
				"segment_id":   seg.Segment.ID,
				"category":     seg.Category,
				"page_numbers": pages,
				"confidence":   seg.Confidence,
				"text":         seg.Segment.Text,
			},
		})
	}
	// One immediate retry covers transient store hiccups; anything worse
	// gets logged and skipped by the caller.
	return util.RetryErrWithContext(ctx, 2, func(ctx context.Context) error {
		return w.store.Upsert(ctx, points)
	})
}

// batchByTokenBudget groups segments into embedding batches whose combined
// token count stays under budget. Order is preserved and a single segment is
// never split across batches.
func batchByTokenBudget(segments []common.SegmentFacts, budget int) [][]common.SegmentFacts {
	count := tokenCounter()

	var batches [][]common.SegmentFacts
	var current []common.SegmentFacts
	used := 0
	for _, seg := range segments {
		tokens := count(seg.Segment.Text)
		if len(current) > 0 && used+tokens > budget {
			batches = append(batches, current)
			current = nil
			used = 0
		}
		current = append(current, seg)
		used += tokens
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

// tokenCounter returns an o200k_base token count function, falling back to a
// bytes/4 estimate when the encoding is unavailable (it is fetched lazily and
// needs network access on first use).
func tokenCounter() func(string) int {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, estimating token counts", "error", err)
		return func(text string) int { return len(text)/4 + 1 }
	}
	return func(text string) int { return len(enc.Encode(text, nil, nil)) }
}
