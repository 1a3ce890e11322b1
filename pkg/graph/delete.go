package graph

import (
	"context"
	"fmt"
)

// DeleteDocument removes everything a document contributed to the graph:
// every extracted node whose source_doc_id points at it, then the
// administrative Document node and its versions. Canonical nodes whose last
// write came from another document are left alone.
func DeleteDocument(ctx context.Context, runner Runner, docID string) error {
	_, err := runner.Run(ctx, `
		MATCH (n)
		WHERE n.source_doc_id = $doc_id
		DETACH DELETE n`,
		map[string]any{"doc_id": docID})
	if err != nil {
		return fmt.Errorf("failed to delete extracted nodes for %s: %w", docID, err)
	}

	_, err = runner.Run(ctx, `
		MATCH (d:Document {doc_id: $doc_id})
		OPTIONAL MATCH (d)-[:HAS_VERSION]->(v:DocumentVersion)
		DETACH DELETE d, v`,
		map[string]any{"doc_id": docID})
	if err != nil {
		return fmt.Errorf("failed to delete document record for %s: %w", docID, err)
	}
	return nil
}
