package queue

import (
	"context"
	"encoding/json"
	"fmt"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/stratum-ai/stratum/internal/storage"
	"github.com/stratum-ai/stratum/pkg/graph"
	"github.com/stratum-ai/stratum/pkg/logger"
)

// DeleteMsg is the payload of one delete_queue message.
type DeleteMsg struct {
	DocID         string   `json:"doc_id"`
	FileKeys      []string `json:"file_keys,omitempty"`
	CorrelationID string   `json:"correlation_id,omitempty"`
}

// VectorDeleter is the slice of the vector store the delete handler needs.
type VectorDeleter interface {
	DeleteByDocID(ctx context.Context, docID string) error
}

// ProcessDeleteMessage removes a document from every store. The graph delete
// is authoritative and failing it retries the message; vector and S3
// cleanup are best effort, mirroring the write-path asymmetry.
func ProcessDeleteMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	graphRunner graph.Runner,
	vectorStore VectorDeleter,
	msg string,
) error {
	data := new(DeleteMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("invalid delete message: %w", err)
	}
	if data.DocID == "" {
		return fmt.Errorf("delete message missing doc_id")
	}

	if err := graph.DeleteDocument(ctx, graphRunner, data.DocID); err != nil {
		return err
	}

	if vectorStore != nil {
		if err := vectorStore.DeleteByDocID(ctx, data.DocID); err != nil {
			logger.Warn("[Queue] Failed to delete vectors", "doc_id", data.DocID, "err", err)
		}
	}

	for _, fileKey := range data.FileKeys {
		if err := storage.DeleteFile(ctx, s3Client, fileKey); err != nil {
			logger.Warn("[Queue] Failed to delete S3 file", "file_key", fileKey, "err", err)
		}
	}

	logger.Info("[Queue] Delete completed", "doc_id", data.DocID, "correlation_id", data.CorrelationID)
	return nil
}
