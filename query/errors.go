package query

import "errors"

var (
	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("ai provider required")

	// ErrEmptyQuestion is returned when the question is empty or blank.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrNamespaceRequired is returned when no namespace is named.
	ErrNamespaceRequired = errors.New("namespace required")
)
