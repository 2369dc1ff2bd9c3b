package vectorstore

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// QueryOptions controls a similarity search.
type QueryOptions struct {
	// TopK bounds the number of returned matches.
	TopK int

	// Filter restricts matches by metadata field equality.
	// Nil means no filtering.
	Filter map[string]any

	// IncludeMetadata requests stored metadata alongside each match.
	IncludeMetadata bool
}

// Match is one ranked result of a similarity search.
type Match struct {
	ID       string
	Score    float32
	Metadata core.Metadata
}

// Index provides namespaced vector persistence and similarity search.
// Implementations must be thread-safe and reusable across requests;
// they hold configuration and credentials only, never mutable state
// shared with callers.
type Index interface {
	// Upsert writes records into the named namespace with
	// replace-by-id semantics: re-writing an id overwrites the prior
	// vector rather than duplicating it.
	Upsert(ctx context.Context, namespace string, records []core.VectorRecord) error

	// Query returns the stored vectors most similar to the given
	// vector, ranked by descending similarity per the store's own
	// metric. Non-existent namespaces behave as empty.
	Query(ctx context.Context, namespace string, vector []float32, opts QueryOptions) ([]Match, error)

	// DeleteAll removes every vector in the named namespace.
	DeleteAll(ctx context.Context, namespace string) error
}
