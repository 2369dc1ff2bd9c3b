package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates a text response from a fully assembled prompt.
// The sampling temperature is fixed at construction, not per call.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete invokes the completion model with the given prompt and
	// returns the generated text. One network call per invocation;
	// service errors propagate unmodified.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// Completer instances sharing configuration and credentials.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Completer returns the completion model service.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	Close() error
}
