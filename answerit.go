// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package answerit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/document"
	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/query"
	"github.com/poiesic/answerit/source"
	"github.com/poiesic/answerit/vectorstore"
)

// Defaults for the knowledge base. Namespaces keep conversational
// content and reference documents separate in the same index.
const (
	DefaultChatNamespace     = "chat-messages"
	DefaultDocumentNamespace = "documents"

	DefaultMessageBatchSize = 100
	DefaultFileBatchSize    = 20

	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100

	// DefaultDimension matches the text-embedding-3-large model.
	DefaultDimension = 3072
)

// ErrSameNamespace is returned when the chat and document namespaces
// are configured to collide.
var ErrSameNamespace = errors.New("chat and document namespaces must differ")

// KnowledgeBase ties the ingestion pipelines, the document pipeline,
// and the answer pipeline together over one index and one AI provider.
type KnowledgeBase struct {
	provider ai.Provider
	index    vectorstore.Index

	chatNamespace     string
	documentNamespace string
	dimension         int

	messages  *ingestion.Pipeline
	documents *document.Pipeline
	answerer  *query.Answerer
	logger    *slog.Logger
}

// KnowledgeBaseOption configures a KnowledgeBase.
type KnowledgeBaseOption func(*KnowledgeBase)

// WithNamespaces overrides the default namespace pair.
func WithNamespaces(chat, documents string) KnowledgeBaseOption {
	return func(kb *KnowledgeBase) {
		if chat != "" {
			kb.chatNamespace = chat
		}
		if documents != "" {
			kb.documentNamespace = documents
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) KnowledgeBaseOption {
	return func(kb *KnowledgeBase) {
		if logger != nil {
			kb.logger = logger
		}
	}
}

// WithDimension overrides the embedding dimension used for synthetic
// query vectors, for models other than the default.
func WithDimension(dimension int) KnowledgeBaseOption {
	return func(kb *KnowledgeBase) {
		if dimension > 0 {
			kb.dimension = dimension
		}
	}
}

// New assembles a KnowledgeBase from an AI provider and a vector index.
func New(provider ai.Provider, index vectorstore.Index, opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	if provider == nil {
		return nil, query.ErrProviderRequired
	}
	if index == nil {
		return nil, query.ErrIndexRequired
	}

	kb := &KnowledgeBase{
		provider:          provider,
		index:             index,
		chatNamespace:     DefaultChatNamespace,
		documentNamespace: DefaultDocumentNamespace,
		dimension:         DefaultDimension,
		logger:            slog.Default(),
	}

	for _, opt := range opts {
		opt(kb)
	}

	if kb.chatNamespace == kb.documentNamespace {
		return nil, ErrSameNamespace
	}

	messages, err := ingestion.NewPipeline(index, provider.Embedder(), ingestion.WithLogger(kb.logger))
	if err != nil {
		return nil, err
	}

	documents, err := document.NewPipeline(index, provider.Embedder(), document.WithLogger(kb.logger))
	if err != nil {
		return nil, err
	}

	answerer, err := query.NewAnswerer(index, provider, query.WithLogger(kb.logger))
	if err != nil {
		return nil, err
	}

	kb.messages = messages
	kb.documents = documents
	kb.answerer = answerer

	return kb, nil
}

// IngestMessages pulls recent messages from the source and writes them
// into the chat namespace. Returns the number of vectors written.
func (kb *KnowledgeBase) IngestMessages(ctx context.Context, src source.MessageSource, limit int) (int, error) {
	if limit < 1 {
		limit = DefaultMessageBatchSize
	}

	records, err := src.RecentMessages(ctx, limit)
	if err != nil {
		return 0, err
	}

	return kb.messages.Ingest(ctx, records, DefaultMessageBatchSize, kb.chatNamespace)
}

// IngestFiles lists stored files from the source and writes them into
// the chat namespace alongside messages, using the smaller file batch.
func (kb *KnowledgeBase) IngestFiles(ctx context.Context, src source.FileSource) (int, error) {
	records, err := src.ListFiles(ctx)
	if err != nil {
		return 0, err
	}

	return kb.messages.Ingest(ctx, records, DefaultFileBatchSize, kb.chatNamespace)
}

// UploadDocuments chunks and ingests a directory of reference documents
// into the document namespace.
func (kb *KnowledgeBase) UploadDocuments(ctx context.Context, dir string) (int, error) {
	return kb.documents.IngestDirectory(ctx, dir, DefaultChunkSize, DefaultChunkOverlap, kb.documentNamespace)
}

// Ask answers a question against the document namespace.
func (kb *KnowledgeBase) Ask(ctx context.Context, question string, topK int) (core.Answer, error) {
	return kb.answerer.Answer(ctx, question, kb.documentNamespace, topK)
}

// AskChat answers a question against the chat namespace.
func (kb *KnowledgeBase) AskChat(ctx context.Context, question string, topK int) (core.Answer, error) {
	return kb.answerer.Answer(ctx, question, kb.chatNamespace, topK)
}

// Answerer exposes the underlying answer pipeline, for the HTTP server.
func (kb *KnowledgeBase) Answerer() *query.Answerer {
	return kb.answerer
}

// DocumentNamespace reports the namespace reference documents live in.
func (kb *KnowledgeBase) DocumentNamespace() string {
	return kb.documentNamespace
}

// SocialPosts lists stored social posts from the chat namespace. The
// zero query vector makes similarity irrelevant; the type filter does
// the selection.
func (kb *KnowledgeBase) SocialPosts(ctx context.Context) ([]vectorstore.Match, error) {
	return kb.index.Query(ctx, kb.chatNamespace, make([]float32, kb.dimension), vectorstore.QueryOptions{
		TopK:            100,
		Filter:          map[string]any{"type": string(core.ContentTypeSocialPost)},
		IncludeMetadata: true,
	})
}

// PurgeChat deletes every vector in the chat namespace.
func (kb *KnowledgeBase) PurgeChat(ctx context.Context) error {
	return kb.index.DeleteAll(ctx, kb.chatNamespace)
}

// PurgeDocuments deletes every vector in the document namespace.
func (kb *KnowledgeBase) PurgeDocuments(ctx context.Context) error {
	return kb.index.DeleteAll(ctx, kb.documentNamespace)
}

// Close releases the AI provider.
func (kb *KnowledgeBase) Close() error {
	return kb.provider.Close()
}
