package document

import "errors"

var (
	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidChunking is returned when the chunk size or overlap is
	// out of range.
	ErrInvalidChunking = errors.New("chunk size must be positive and overlap must be smaller than the chunk size")

	// ErrNamespaceRequired is returned when no target namespace is named.
	ErrNamespaceRequired = errors.New("namespace required")

	// ErrEmbeddingCount is returned when the embedding service returns a
	// different number of vectors than texts submitted.
	ErrEmbeddingCount = errors.New("embedding count does not match chunk count")
)
