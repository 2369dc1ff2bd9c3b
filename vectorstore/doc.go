// Package vectorstore defines the namespaced vector index abstraction
// used by the ingestion and query pipelines.
//
// Namespaces isolate unrelated content families: chat-derived vectors
// and document-derived vectors always live in distinct namespaces, and
// every query names exactly one. Implementations live in sub-packages:
//
//   - vectorstore/pinecone: Pinecone data-plane REST client
//   - vectorstore/memory: in-memory brute-force index for tests
package vectorstore
