package embeddings

import (
	"context"
	"fmt"
	"io"
)

// Service embeds queries and verses using a pluggable backend
type Service struct {
	embedder Embedder
}

// New builds the backend named by cfg.Provider.
func New(ctx context.Context, cfg Config) (*Service, error) {
	switch cfg.Provider {
	case "vertex":
		embedder, err := NewVertexEmbedder(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Vertex AI embedder: %w", err)
		}
		return NewService(embedder), nil
	case "custom":
		return NewService(NewCustomEmbedder(cfg)), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// NewService wraps an existing embedder.
func NewService(embedder Embedder) *Service {
	return &Service{embedder: embedder}
}

// EmbedQuery embeds a query for retrieval
func (s *Service) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	return s.embedder.Embed(ctx, query, TaskTypeQuery)
}

// EmbedVerse embeds a verse as a document for retrieval
func (s *Service) EmbedVerse(ctx context.Context, text string) ([]float64, error) {
	return s.embedder.Embed(ctx, text, TaskTypeDocument)
}

// EmbedVerses embeds many verses as documents
func (s *Service) EmbedVerses(ctx context.Context, texts []string) ([][]float64, error) {
	return s.embedder.EmbedBatch(ctx, texts, TaskTypeDocument)
}

// Close releases the backend's connections, if it holds any.
func (s *Service) Close() error {
	if c, ok := s.embedder.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
