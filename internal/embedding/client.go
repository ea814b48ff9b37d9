// Package embedding wraps the text-embedding provider behind a narrow
// interface: text in, fixed-length float vector out, or failure. The provider
// is treated as a single unreliable remote call; no retry is built in here.
package embedding

import "context"

// Client generates vector embeddings from free text.
type Client interface {
	// Embed returns the embedding vector for the given text. Failures are
	// reported as *txerror.EmbeddingUnavailableError.
	Embed(ctx context.Context, text string) ([]float32, error)
}
