// Package document ingests reference documents into the vector store.
//
// A directory of .pdf, .txt, and .md files is loaded, split into
// overlapping character chunks, embedded in one call per file, and
// upserted with ids of the form doc_<file>_<index>. Ids are a pure
// function of the file name and chunk position, so re-ingestion
// overwrites previous chunks.
package document
