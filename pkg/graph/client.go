package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner executes a Cypher statement and returns one map per record.
// Satisfied by Client; tests substitute an in-memory fake.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
}

// Client wraps the Neo4j driver with the eager-result access pattern used
// throughout this package.
type Client struct {
	driver neo4j.DriverWithContext
}

// NewClientParams configures the Neo4j connection.
type NewClientParams struct {
	URI      string
	Username string
	Password string
}

// NewClient connects to Neo4j and verifies reachability.
func NewClient(ctx context.Context, params NewClientParams) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.Username, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j unreachable: %w", err)
	}
	return &Client{driver: driver}, nil
}

// Run executes a single Cypher statement and flattens the eager result
// into one key/value map per record.
func (c *Client) Run(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, c.driver, cypher, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("cypher execution failed: %w", err)
	}

	out := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = record.Values[i]
		}
		out = append(out, row)
	}
	return out, nil
}

// Close releases the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// EnsureConstraints creates the uniqueness constraints the merge writer
// relies on. Idempotent; safe to run at every startup.
func EnsureConstraints(ctx context.Context, runner Runner) error {
	statements := []string{
		"CREATE CONSTRAINT document_doc_id IF NOT EXISTS FOR (d:Document) REQUIRE d.doc_id IS UNIQUE",
		"CREATE CONSTRAINT documentversion_version_id IF NOT EXISTS FOR (v:DocumentVersion) REQUIRE v.version_id IS UNIQUE",
	}
	for _, label := range ExtractableNodeTypes() {
		statements = append(statements, fmt.Sprintf(
			"CREATE CONSTRAINT %s_normalized_name IF NOT EXISTS FOR (n:%s) REQUIRE n.normalized_name IS UNIQUE",
			strings.ToLower(label), label,
		))
	}

	for _, stmt := range statements {
		if _, err := runner.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to ensure constraint: %w", err)
		}
	}
	return nil
}
