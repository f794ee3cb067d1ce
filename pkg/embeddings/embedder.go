// Package embeddings turns verse translations and search queries into dense
// vectors through a pluggable backend.
package embeddings

import "context"

// TaskType tells the model whether it is embedding a query or a document.
type TaskType string

const (
	TaskTypeQuery    TaskType = "RETRIEVAL_QUERY"
	TaskTypeDocument TaskType = "RETRIEVAL_DOCUMENT"
)

// Embedder defines the interface for text embedding operations
type Embedder interface {
	// Embed generates an embedding for a single text with the given task type
	Embed(ctx context.Context, text string, taskType TaskType) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts with the given task type
	EmbedBatch(ctx context.Context, texts []string, taskType TaskType) ([][]float64, error)
}

// Config selects and configures a backend.
type Config struct {
	Provider   string // "custom" or "vertex"
	ServiceURL string // custom provider
	Dimensions int

	GCPProjectID string
	GCPLocation  string
	VertexModel  string
}
