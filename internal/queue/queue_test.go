package queue

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeGraphRunner struct {
	queries []string
	err     error
}

func (f *fakeGraphRunner) Run(_ context.Context, cypher string, _ map[string]any) ([]map[string]any, error) {
	f.queries = append(f.queries, cypher)
	return nil, f.err
}

type fakeVectorDeleter struct {
	docIDs []string
	err    error
}

func (f *fakeVectorDeleter) DeleteByDocID(_ context.Context, docID string) error {
	f.docIDs = append(f.docIDs, docID)
	return f.err
}

func TestProcessIngestMessageRejectsBadPayload(t *testing.T) {
	if err := ProcessIngestMessage(context.Background(), nil, nil, "{not json"); err == nil {
		t.Error("malformed JSON must error")
	}
	if err := ProcessIngestMessage(context.Background(), nil, nil, `{"doc_id": "doc-1"}`); err == nil {
		t.Error("message without version_id and file_key must error")
	}
}

func TestProcessDeleteMessage(t *testing.T) {
	runner := &fakeGraphRunner{}
	vectors := &fakeVectorDeleter{}

	err := ProcessDeleteMessage(context.Background(), nil, runner, vectors, `{"doc_id": "doc-1"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.queries) == 0 {
		t.Error("graph delete never happened")
	}
	if len(vectors.docIDs) != 1 || vectors.docIDs[0] != "doc-1" {
		t.Errorf("vector delete calls = %v, want [doc-1]", vectors.docIDs)
	}
}

func TestProcessDeleteMessageGraphFailureRetries(t *testing.T) {
	runner := &fakeGraphRunner{err: errors.New("neo4j down")}
	vectors := &fakeVectorDeleter{}

	err := ProcessDeleteMessage(context.Background(), nil, runner, vectors, `{"doc_id": "doc-1"}`)
	if err == nil {
		t.Fatal("graph failure must surface so the message is retried")
	}
	if len(vectors.docIDs) != 0 {
		t.Error("vector delete should not run when the authoritative delete failed")
	}
}

func TestProcessDeleteMessageVectorFailureIsolated(t *testing.T) {
	runner := &fakeGraphRunner{}
	vectors := &fakeVectorDeleter{err: errors.New("qdrant down")}

	if err := ProcessDeleteMessage(context.Background(), nil, runner, vectors, `{"doc_id": "doc-1"}`); err != nil {
		t.Fatalf("vector failure must not fail the delete: %v", err)
	}
}

func TestProcessDeleteMessageRejectsBadPayload(t *testing.T) {
	err := ProcessDeleteMessage(context.Background(), nil, &fakeGraphRunner{}, nil, `{}`)
	if err == nil || !strings.Contains(err.Error(), "doc_id") {
		t.Errorf("missing doc_id must error, got %v", err)
	}
}

func TestProcessDeleteMessageWithoutVectorStore(t *testing.T) {
	runner := &fakeGraphRunner{}
	if err := ProcessDeleteMessage(context.Background(), nil, runner, nil, `{"doc_id": "doc-1"}`); err != nil {
		t.Fatalf("nil vector store must be tolerated: %v", err)
	}
}
