package queue

import (
	"context"
	"encoding/json"
	"fmt"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/stratum-ai/stratum/internal/storage"
	"github.com/stratum-ai/stratum/pkg/common"
	"github.com/stratum-ai/stratum/pkg/ingest"
	"github.com/stratum-ai/stratum/pkg/logger"
)

// IngestMsg is the payload of one ingest_queue message.
type IngestMsg struct {
	DocID         string `json:"doc_id"`
	VersionID     string `json:"version_id"`
	Title         string `json:"title"`
	DocType       string `json:"doc_type"`
	FileKey       string `json:"file_key"`
	Hash          string `json:"hash,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// ProcessIngestMessage fetches the document from S3 and runs it through the
// ingestion service. An error return leaves the message unacked so the
// worker's retry policy applies.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	svc *ingest.Service,
	msg string,
) error {
	data := new(IngestMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("invalid ingest message: %w", err)
	}
	if data.DocID == "" || data.VersionID == "" || data.FileKey == "" {
		return fmt.Errorf("ingest message missing doc_id, version_id or file_key")
	}

	content, err := storage.GetFile(ctx, s3Client, data.FileKey)
	if err != nil {
		return err
	}

	segments, err := svc.IngestAndPersist(ctx, ingest.IngestParams{
		Doc: common.Document{
			DocID:     data.DocID,
			VersionID: data.VersionID,
			Filename:  data.FileKey,
			Hash:      data.Hash,
		},
		Content: content,
		Title:   data.Title,
		DocType: data.DocType,
	})
	if err != nil {
		return err
	}

	logger.Info("[Queue] Ingestion completed",
		"doc_id", data.DocID,
		"version_id", data.VersionID,
		"segments", len(segments),
		"correlation_id", data.CorrelationID,
	)
	return nil
}
