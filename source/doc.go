// Package source defines where ingestible content comes from.
//
// Implementations live in subpackages; supabase provides the Postgres
// message table and storage bucket readers.
package source
