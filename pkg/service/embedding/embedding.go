// Package embedding generates fixed-dimension embedding vectors for summary
// and memory text. Embeddings are an optional enrichment: a disabled or
// failing embedder degrades search to recency, it never blocks writes.
package embedding

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
)

// Service wraps an LLM client's embedding endpoint
type Service struct {
	llmClient gollem.LLMClient
	dimension int
}

type Option func(*Service)

// WithDimension overrides the embedding vector dimension
func WithDimension(dimension int) Option {
	return func(s *Service) {
		s.dimension = dimension
	}
}

// New creates an embedding service. A nil client yields a disabled service
// whose Generate always returns nil vectors.
func New(llmClient gollem.LLMClient, opts ...Option) *Service {
	s := &Service{
		llmClient: llmClient,
		dimension: model.EmbeddingDimension,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether an embedding backend is configured
func (s *Service) Enabled() bool {
	return s != nil && s.llmClient != nil
}

// Generate returns the embedding vector for text, or nil when disabled or
// the text is empty
func (s *Service) Generate(ctx context.Context, text string) ([]float32, error) {
	if !s.Enabled() || text == "" {
		return nil, nil
	}

	vectors, err := s.llmClient.GenerateEmbedding(ctx, s.dimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, goerr.New("embedding backend returned no vector")
	}

	vector := make([]float32, len(vectors[0]))
	for i, v := range vectors[0] {
		vector[i] = float32(v)
	}
	return vector, nil
}
