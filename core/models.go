package core

import (
	"fmt"
	"time"
)

// ContentType classifies the semantic kind of an indexed record.
// The set is closed: every vector written to the store carries exactly
// one of these tags in its metadata.
type ContentType string

const (
	// ContentTypeMessage is a plain chat message.
	ContentTypeMessage ContentType = "chat_message"
	// ContentTypeSocialPost is a chat message referencing a social post URL.
	ContentTypeSocialPost ContentType = "social_post"
	// ContentTypeFile is a file stored in the attachments bucket.
	ContentTypeFile ContentType = "stored_file"
	// ContentTypeChunk is a chunk of a bulk-loaded document.
	ContentTypeChunk ContentType = "document_chunk"
)

// Origin identifies which upstream system produced a SourceRecord.
type Origin int

const (
	// OriginMessage marks records fetched from the messages table.
	OriginMessage Origin = iota + 1
	// OriginFile marks records derived from object-storage listings.
	OriginFile
)

// FileInfo carries the storage metadata of a file-origin record.
type FileInfo struct {
	Name     string
	URL      string
	MimeType string
	Size     int64
}

// SourceRecord is a unit of raw content fetched from an upstream source.
// Records are immutable once fetched; the pipeline never writes back.
type SourceRecord struct {
	ID        string
	Text      string
	UserID    string
	ChannelID string
	CreatedAt time.Time
	Origin    Origin
	File      *FileInfo // set only for OriginFile records
}

// ClassifiedRecord is a SourceRecord annotated with its content type and,
// for social posts, the referenced URL.
type ClassifiedRecord struct {
	SourceRecord
	Type         ContentType
	ReferenceURL string
}

// VectorRecord is the unit persisted to the vector store.
type VectorRecord struct {
	ID       string
	Values   []float32
	Metadata Metadata
}

// Passage is one retrieved piece of context with its source identifier.
type Passage struct {
	SourceID string
	Text     string
}

// Answer is the result of a retrieval-augmented query: the model's response
// plus the passages that were fed to it, in descending relevance order.
type Answer struct {
	Text    string
	Sources []Passage
}

// MessageVectorID returns the deterministic vector id for a chat message.
// Re-ingesting the same message overwrites the prior vector.
func MessageVectorID(sourceID string) string {
	return "msg_" + sourceID
}

// FileVectorID returns the deterministic vector id for a stored file.
func FileVectorID(name string) string {
	return "file_" + name
}

// ChunkVectorID returns the deterministic vector id for a document chunk.
// Ids are stable across re-runs for unchanged input.
func ChunkVectorID(fileID string, index int) string {
	return fmt.Sprintf("doc_%s_%d", fileID, index)
}
