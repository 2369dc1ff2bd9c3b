// Package supabase reads ingestible content from a Supabase project:
// chat messages from the Postgres messages table and stored files from
// a storage bucket via the REST API.
package supabase
