package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore"
)

// Pipeline is the batch upsert engine. It classifies source records,
// generates embeddings, and writes vector records into a namespace of
// the index, one upsert per batch.
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

// NewPipeline creates a new ingestion pipeline.
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

// Ingest writes records into the namespace in consecutive batches of
// batchSize (the last batch may be shorter). Within a batch, records
// are classified, embedded, and assembled concurrently; the batch size
// bounds how many embedding calls are in flight at once. Batches are
// processed strictly sequentially, and each batch is one upsert call.
//
// A failure inside a batch aborts that batch's upsert and stops the
// run; batches already upserted stay committed. Returns the number of
// records written. Re-invoking on the same records is safe: vector ids
// are deterministic, so prior vectors are overwritten, not duplicated.
func (p *Pipeline) Ingest(ctx context.Context, records []core.SourceRecord, batchSize int, namespace string) (int, error) {
	if batchSize < 1 {
		return 0, ErrInvalidBatchSize
	}
	if namespace == "" {
		return 0, ErrNamespaceRequired
	}
	if len(records) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(batchSize)
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	written := 0
	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		batchNum := start/batchSize + 1

		vectors, err := p.processBatch(ctx, records[start:end], pool)
		if err != nil {
			return written, fmt.Errorf("batch %d: %w", batchNum, err)
		}

		if err := p.index.Upsert(ctx, namespace, vectors); err != nil {
			return written, fmt.Errorf("batch %d: upsert: %w", batchNum, err)
		}

		written += len(vectors)
		p.logger.Info("processed batch", "batch", batchNum, "records", len(vectors), "namespace", namespace)
	}

	return written, nil
}

// processBatch builds the batch's vector records concurrently. Each
// record writes to its own slot, so no locking is needed; completion
// order within the batch is irrelevant.
func (p *Pipeline) processBatch(ctx context.Context, batch []core.SourceRecord, pool *ants.Pool) ([]core.VectorRecord, error) {
	vectors := make([]core.VectorRecord, len(batch))
	errs := make([]error, len(batch))

	var wg sync.WaitGroup
	for i, record := range batch {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			vector, err := p.processRecord(ctx, record)
			if err != nil {
				errs[i] = fmt.Errorf("record %s: %w", record.ID, err)
				return
			}
			vectors[i] = vector
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return vectors, nil
}

// processRecord runs the per-record transformation chain:
// validate, classify, embed, construct metadata.
func (p *Pipeline) processRecord(ctx context.Context, record core.SourceRecord) (core.VectorRecord, error) {
	if err := core.ValidateSourceRecord(&record); err != nil {
		return core.VectorRecord{}, err
	}

	classified := Classify(record)

	values, err := p.embedder.EmbedText(ctx, record.Text)
	if err != nil {
		return core.VectorRecord{}, err
	}

	metadata, err := core.MetadataForRecord(classified)
	if err != nil {
		return core.VectorRecord{}, err
	}

	return core.VectorRecord{
		ID:       vectorID(classified),
		Values:   values,
		Metadata: metadata,
	}, nil
}

// vectorID derives the deterministic store id for a classified record.
func vectorID(record core.ClassifiedRecord) string {
	if record.Type == core.ContentTypeFile {
		return core.FileVectorID(record.ID)
	}
	return core.MessageVectorID(record.ID)
}
