package openai

import (
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"

	"github.com/stratum-ai/stratum/pkg/ai"
)

const defaultMaxConcurrentRequests = 5

// Client talks to OpenAI-compatible endpoints. Separate underlying clients
// are kept for chat and embeddings so the two can point at different
// deployments. Construct once with NewClient and inject where needed.
type Client struct {
	chatModel       string
	extractionModel string
	embeddingModel  string

	chatURL string

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewClientParams configures a Client. ChatModel is used for classification
// and intent calls, ExtractionModel for entity extraction; when
// ExtractionModel is empty ChatModel is used for both.
type NewClientParams struct {
	ChatModel       string
	ExtractionModel string
	EmbeddingModel  string

	ChatURL      string
	ChatKey      string
	EmbeddingURL string
	EmbeddingKey string

	MaxConcurrentRequests int64
}

// NewClient creates a Client from the given parameters.
func NewClient(params NewClientParams) *Client {
	if params.ExtractionModel == "" {
		params.ExtractionModel = params.ChatModel
	}
	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = defaultMaxConcurrentRequests
	}

	chatClient := newUnderlying(params.ChatURL, params.ChatKey)
	embedClient := newUnderlying(params.EmbeddingURL, params.EmbeddingKey)

	return &Client{
		chatModel:       params.ChatModel,
		extractionModel: params.ExtractionModel,
		embeddingModel:  params.EmbeddingModel,
		chatURL:         params.ChatURL,
		reqLock:         semaphore.NewWeighted(maxReq),
		ChatClient:      chatClient,
		EmbeddingClient: embedClient,
	}
}

func newUnderlying(baseURL, apiKey string) *openai.Client {
	opts := []option.RequestOption{}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := openai.NewClient(opts...)
	return &client
}

func (c *Client) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

// GetMetrics returns the accumulated usage metrics.
func (c *Client) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

// ResetMetrics zeroes the accumulated usage metrics.
func (c *Client) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}
