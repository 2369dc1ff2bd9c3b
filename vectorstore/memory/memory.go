package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore"
)

// Index is an in-memory brute-force cosine-similarity index with
// namespaces. It exists for tests and local development; it mirrors
// the replace-by-id and namespace semantics of the real store.
type Index struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]entry
}

type entry struct {
	values   []float32
	metadata core.Metadata
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		namespaces: make(map[string]map[string]entry),
	}
}

// Upsert stores records in the namespace, replacing by id.
func (i *Index) Upsert(ctx context.Context, namespace string, records []core.VectorRecord) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	ns, ok := i.namespaces[namespace]
	if !ok {
		ns = make(map[string]entry)
		i.namespaces[namespace] = ns
	}

	for _, record := range records {
		ns[record.ID] = entry{values: record.Values, metadata: record.Metadata}
	}

	return nil
}

// Query returns up to TopK matches ranked by descending cosine
// similarity. Unknown namespaces behave as empty.
func (i *Index) Query(ctx context.Context, namespace string, vector []float32, opts vectorstore.QueryOptions) ([]vectorstore.Match, error) {
	if namespace == "" {
		return nil, vectorstore.ErrEmptyNamespace
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	matches := make([]vectorstore.Match, 0)
	for id, e := range i.namespaces[namespace] {
		if !matchesFilter(e.metadata, opts.Filter) {
			continue
		}
		matches = append(matches, vectorstore.Match{
			ID:       id,
			Score:    cosine(vector, e.values),
			Metadata: e.metadata,
		})
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return matches[a].ID < matches[b].ID
	})

	if opts.TopK > 0 && len(matches) > opts.TopK {
		matches = matches[:opts.TopK]
	}

	return matches, nil
}

// DeleteAll removes every vector in the namespace.
func (i *Index) DeleteAll(ctx context.Context, namespace string) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.namespaces, namespace)
	return nil
}

// Len reports the number of vectors stored in the namespace.
func (i *Index) Len(namespace string) int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return len(i.namespaces[namespace])
}

// matchesFilter applies field-equality filtering against the flat
// metadata mapping, the same model the real store uses.
func matchesFilter(metadata core.Metadata, filter map[string]any) bool {
	if len(filter) == 0 {
		return true
	}

	fields := metadata.Fields()
	for key, want := range filter {
		if fields[key] != want {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
		normA += float64(a[n]) * float64(a[n])
		normB += float64(b[n]) * float64(b[n])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
