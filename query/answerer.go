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

package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore"
	"github.com/tmc/langchaingo/prompts"
)

// DefaultTopK is the number of passages retrieved when the caller does
// not ask for a specific count.
const DefaultTopK = 4

// answerTemplate shapes the completion prompt. The retrieved passages
// are rendered into the context slot; the model is steered toward
// short answers.
const answerTemplate = `Please provide a brief, concise answer in 2-3 sentences: {{.query}} Context: {{.context}}`

// Answerer runs the retrieval-augmented answer pipeline: embed the
// question, retrieve the nearest passages from a namespace, render them
// into the prompt, and complete.
type Answerer struct {
	index     vectorstore.Index
	embedder  ai.Embedder
	completer ai.Completer
	prompt    prompts.PromptTemplate
	logger    *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnswerer creates an Answerer backed by the given index and
// provider.
func NewAnswerer(index vectorstore.Index, provider ai.Provider, opts ...Option) (*Answerer, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	a := &Answerer{
		index:     index,
		embedder:  provider.Embedder(),
		completer: provider.Completer(),
		prompt:    prompts.NewPromptTemplate(answerTemplate, []string{"query", "context"}),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Answer resolves a question against the namespace. topK below 1 falls
// back to DefaultTopK. Blank questions are rejected before any network
// call. An empty retrieval still goes to the completion model with an
// empty context; the model answers from its own knowledge.
func (a *Answerer) Answer(ctx context.Context, question, namespace string, topK int) (core.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return core.Answer{}, ErrEmptyQuestion
	}
	if namespace == "" {
		return core.Answer{}, ErrNamespaceRequired
	}
	if topK < 1 {
		topK = DefaultTopK
	}

	vector, err := a.embedder.EmbedText(ctx, question)
	if err != nil {
		return core.Answer{}, fmt.Errorf("embed question: %w", err)
	}

	matches, err := a.index.Query(ctx, namespace, vector, vectorstore.QueryOptions{
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return core.Answer{}, fmt.Errorf("retrieve: %w", err)
	}

	passages := make([]core.Passage, 0, len(matches))
	for _, match := range matches {
		passages = append(passages, core.Passage{
			SourceID: match.Metadata.SourceLabel(match.ID),
			Text:     match.Metadata.PassageText(),
		})
	}

	prompt, err := a.prompt.Format(map[string]any{
		"query":   question,
		"context": formatContext(passages),
	})
	if err != nil {
		return core.Answer{}, fmt.Errorf("format prompt: %w", err)
	}

	a.logger.Debug("answering question", "namespace", namespace, "passages", len(passages))

	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return core.Answer{}, fmt.Errorf("complete: %w", err)
	}

	return core.Answer{Text: text, Sources: passages}, nil
}

// formatContext renders retrieved passages into the block handed to the
// completion model, one attributed passage per paragraph.
func formatContext(passages []core.Passage) string {
	var b strings.Builder
	for _, p := range passages {
		fmt.Fprintf(&b, "Source: %s\n%s\n\n", p.SourceID, p.Text)
	}
	return b.String()
}
