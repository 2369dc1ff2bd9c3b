package source

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// MessageSource lists recent chat messages for ingestion.
type MessageSource interface {
	// RecentMessages returns up to limit messages, newest first.
	RecentMessages(ctx context.Context, limit int) ([]core.SourceRecord, error)
}

// FileSource lists stored files for ingestion.
type FileSource interface {
	// ListFiles returns the files available in the backing store.
	ListFiles(ctx context.Context) ([]core.SourceRecord, error)
}
