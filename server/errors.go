package server

import "errors"

var (
	// ErrAnswererRequired is returned when no answer pipeline is provided.
	ErrAnswererRequired = errors.New("answerer required")

	// ErrNamespaceRequired is returned when no namespace is named.
	ErrNamespaceRequired = errors.New("namespace required")
)
