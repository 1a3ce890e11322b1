package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/stratum-ai/stratum/internal/util"
	"github.com/stratum-ai/stratum/pkg/ai"
	oai "github.com/stratum-ai/stratum/pkg/ai/ollama"
	gai "github.com/stratum-ai/stratum/pkg/ai/openai"
	"github.com/stratum-ai/stratum/pkg/enrich"
	"github.com/stratum-ai/stratum/pkg/graph"
	"github.com/stratum-ai/stratum/pkg/logger"
	"github.com/stratum-ai/stratum/pkg/logger/console"
	"github.com/stratum-ai/stratum/pkg/vector"
)

// Builds the enriched prompt block for a question given on the command line
// and prints it to stdout.
func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	}))

	question := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: enrich <question>")
		os.Exit(2)
	}

	var aiClient ai.Client
	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := oai.NewClient(oai.NewClientParams{
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			BaseURL:         util.GetEnv("AI_CHAT_URL"),
			APIKey:          util.GetEnv("AI_CHAT_KEY"),
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		aiClient = client
	default:
		aiClient = gai.NewClient(gai.NewClientParams{
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			ChatURL:         util.GetEnv("AI_CHAT_URL"),
			ChatKey:         util.GetEnv("AI_CHAT_KEY"),
			EmbeddingURL:    util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey:    util.GetEnv("AI_EMBED_KEY"),
		})
	}

	graphClient, err := graph.NewClient(ctx, graph.NewClientParams{
		URI:      util.GetEnv("NEO4J_URI"),
		Username: util.GetEnv("NEO4J_USER"),
		Password: util.GetEnv("NEO4J_PASSWORD"),
	})
	if err != nil {
		logger.Fatal("Unable to connect to Neo4j", "err", err)
	}
	defer graphClient.Close(context.Background())

	store, err := vector.NewQdrantStore(ctx, vector.QdrantConfig{
		Host:       util.GetEnv("QDRANT_HOST"),
		Port:       util.GetEnvInt("QDRANT_PORT", 6334),
		APIKey:     util.GetEnv("QDRANT_API_KEY"),
		UseTLS:     util.GetEnvBool("QDRANT_TLS", false),
		Collection: util.GetEnvString("QDRANT_COLLECTION", "segments"),
		Dimensions: uint64(util.GetEnvInt("AI_EMBED_DIMENSIONS", 1536)),
	})
	if err != nil {
		logger.Fatal("Unable to connect to Qdrant", "err", err)
	}

	orchestrator := enrich.NewOrchestrator(aiClient, graphClient, vector.NewRetriever(store, aiClient))
	fmt.Println(orchestrator.Enrich(ctx, enrich.EnrichParams{Question: question}))
}
