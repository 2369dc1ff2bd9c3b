package document

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore"
	"github.com/tmc/langchaingo/textsplitter"
)

// Pipeline ingests reference documents: each file is split into
// overlapping chunks, embedded, and upserted into a namespace of the
// vector store with ids derived from the file name and chunk index.
type Pipeline struct {
	index    vectorstore.Index
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a new document ingestion pipeline.
func NewPipeline(index vectorstore.Index, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		index:    index,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// IngestDirectory loads every supported document in dir (.pdf, .txt,
// .md), splits each into chunks of chunkSize characters with
// chunkOverlap characters of overlap, embeds the chunks, and upserts
// them into the namespace. One upsert per file. Returns the number of
// chunks written.
//
// Chunk ids are deterministic in the file name and chunk index, so
// re-ingesting a directory overwrites rather than duplicates. A
// failure stops the run; files already upserted stay committed.
func (p *Pipeline) IngestDirectory(ctx context.Context, dir string, chunkSize, chunkOverlap int, namespace string) (int, error) {
	if chunkSize < 1 || chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return 0, ErrInvalidChunking
	}
	if namespace == "" {
		return 0, ErrNamespaceRequired
	}

	names, err := listDocuments(dir)
	if err != nil {
		return 0, err
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	written := 0
	for _, name := range names {
		count, err := p.ingestFile(ctx, filepath.Join(dir, name), name, splitter, namespace)
		if err != nil {
			return written, fmt.Errorf("%s: %w", name, err)
		}
		written += count
		p.logger.Info("ingested document", "file", name, "chunks", count, "namespace", namespace)
	}

	return written, nil
}

// ingestFile splits, embeds, and upserts one document. The whole file
// is embedded in a single call so chunk order is preserved by the
// embedding service's positional contract.
func (p *Pipeline) ingestFile(ctx context.Context, path, name string, splitter textsplitter.RecursiveCharacter, namespace string) (int, error) {
	text, err := loadText(ctx, path)
	if err != nil {
		return 0, err
	}

	chunks, err := splitter.SplitText(text)
	if err != nil {
		return 0, fmt.Errorf("split: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	values, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(values) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrEmbeddingCount, len(values), len(chunks))
	}

	vectors := make([]core.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		metadata, err := core.NewChunkMetadata(chunk, name, i)
		if err != nil {
			return 0, err
		}
		vectors[i] = core.VectorRecord{
			ID:       core.ChunkVectorID(name, i),
			Values:   values[i],
			Metadata: metadata,
		}
	}

	if err := p.index.Upsert(ctx, namespace, vectors); err != nil {
		return 0, fmt.Errorf("upsert: %w", err)
	}

	return len(vectors), nil
}
