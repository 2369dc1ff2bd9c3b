// Package ingestion provides the batch upsert engine for chat-derived
// content.
//
// The Pipeline type drives the per-record transformation chain:
//   - Classifying raw records (plain message, social post, stored file)
//   - Generating embeddings, bounded by the batch size
//   - Constructing typed metadata and deterministic vector ids
//   - Upserting each batch into a namespace of the vector store
//
// Batches are processed sequentially; work within a batch runs
// concurrently on a worker pool. Ingestion is idempotent: ids are a
// pure function of the source identifier, so re-runs overwrite.
package ingestion
