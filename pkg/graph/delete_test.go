package graph

import (
	"context"
	"strings"
	"testing"
)

func TestDeleteDocument(t *testing.T) {
	runner := &fakeRunner{}
	if err := DeleteDocument(context.Background(), runner, "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(runner.calls))
	}
	if !strings.Contains(runner.calls[0].Cypher, "n.source_doc_id = $doc_id") {
		t.Errorf("first statement should remove extracted nodes: %s", runner.calls[0].Cypher)
	}
	if !strings.Contains(runner.calls[1].Cypher, "Document {doc_id: $doc_id}") {
		t.Errorf("second statement should remove the document record: %s", runner.calls[1].Cypher)
	}
	for _, call := range runner.calls {
		if call.Params["doc_id"] != "doc-1" {
			t.Errorf("doc_id param missing on %s", call.Cypher)
		}
	}
}

func TestDeleteDocumentErrorPropagates(t *testing.T) {
	runner := &fakeRunner{failOn: "source_doc_id"}
	if err := DeleteDocument(context.Background(), runner, "doc-1"); err == nil {
		t.Fatal("expected error from store failure")
	}
}
