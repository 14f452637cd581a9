package interfaces

import "context"

// EmbeddingClient is the subset of gollem.LLMClient the engine consumes: it
// maps texts to fixed-dimensional vectors or fails. Any failure is treated
// identically by callers; there is no retry.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error)
}
