package ingest

import (
	"fmt"

	"github.com/stratum-ai/stratum/pkg/common"
	"github.com/stratum-ai/stratum/pkg/loader"
)

// SegmentPages maps loader pages to ingestion segments, one per page.
// Segment ids are stable per document and page, which makes re-ingestion
// overwrite instead of duplicate downstream.
func SegmentPages(pages []loader.Page) []common.Segment {
	segments := make([]common.Segment, 0, len(pages))
	for _, page := range pages {
		segments = append(segments, common.Segment{
			ID:          fmt.Sprintf("page_%d", page.Number),
			PageNumbers: []int{page.Number},
			Text:        page.Text,
		})
	}
	return segments
}
