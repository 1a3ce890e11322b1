package ingest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stratum-ai/stratum/pkg/ai"
	"github.com/stratum-ai/stratum/pkg/common"
	"github.com/stratum-ai/stratum/pkg/loader"
)

// maxConcurrentSegments bounds in-flight segment pipelines. Sized to stay
// under typical LLM-provider rate limits, not to maximize throughput.
const maxConcurrentSegments = 5

// RunIngestion loads a document, splits it into page segments and runs
// classify, extract, validate over each segment with bounded concurrency.
// Per-segment AI failures degrade in-band (fallback category, empty fact
// lists); the only fatal error is a document that cannot be loaded at all.
func RunIngestion(
	ctx context.Context,
	client ai.Client,
	doc common.Document,
	content []byte,
) ([]common.SegmentFacts, error) {
	pages, err := loader.Load(doc.Filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", doc.DocID, err)
	}

	segments := SegmentPages(pages)
	processed := make([]common.SegmentFacts, len(segments))

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentSegments)
	for i, segment := range segments {
		eg.Go(func() error {
			// Classification confidence feeds extraction provenance,
			// so the three stages stay sequential per segment.
			category, confidence := classifySegment(ectx, client, segment)
			entities, relationships := extractFacts(ectx, client, segment)
			processed[i] = validateSegment(doc, segment, category, confidence, entities, relationships)
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = eg.Wait()

	return processed, nil
}
