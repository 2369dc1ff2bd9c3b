package supabase

import "errors"

var (
	// ErrDatabaseRequired is returned when a database handle is not provided.
	ErrDatabaseRequired = errors.New("database required")

	// ErrInvalidLimit is returned when the message limit is not positive.
	ErrInvalidLimit = errors.New("limit must be greater than 0")

	// ErrCredentialsRequired is returned when the project URL or API key
	// is missing.
	ErrCredentialsRequired = errors.New("project URL and API key required")

	// ErrBucketRequired is returned when no storage bucket is named.
	ErrBucketRequired = errors.New("storage bucket required")
)
