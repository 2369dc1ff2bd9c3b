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


package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore"
)

// Config holds the connection settings for one Pinecone index.
type Config struct {
	// APIKey authenticates every data-plane request.
	APIKey string

	// Host is the index data-plane endpoint, e.g.
	// "https://my-index-abc123.svc.us-east-1-aws.pinecone.io".
	Host string
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("pinecone config: APIKey is required")
	}
	if c.Host == "" {
		return errors.New("pinecone config: Host is required")
	}
	return nil
}

// Index is a Pinecone data-plane client implementing vectorstore.Index.
// It is stateless apart from configuration and safe for concurrent use.
type Index struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Index) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(i *Index) {
		if client != nil {
			i.client = client
		}
	}
}

// New creates a Pinecone index client.
//
// Returns vectorstore.Index interface to enforce abstraction.
func New(config Config, opts ...Option) (vectorstore.Index, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	idx := &Index{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: slog.Default().With("component", "pinecone"),
	}

	for _, opt := range opts {
		opt(idx)
	}

	return idx, nil
}

type upsertRequest struct {
	Vectors   []vector `json:"vectors"`
	Namespace string   `json:"namespace"`
}

type vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type queryRequest struct {
	Namespace       string         `json:"namespace"`
	TopK            int            `json:"topK"`
	Vector          []float32      `json:"vector"`
	Filter          map[string]any `json:"filter,omitempty"`
	IncludeMetadata bool           `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

type queryMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type deleteRequest struct {
	DeleteAll bool   `json:"deleteAll"`
	Namespace string `json:"namespace"`
}

// Upsert writes records into the namespace, one request per call.
// Pinecone replaces vectors by id, so re-ingestion overwrites.
func (i *Index) Upsert(ctx context.Context, namespace string, records []core.VectorRecord) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}
	if len(records) == 0 {
		return nil
	}

	req := upsertRequest{
		Vectors:   make([]vector, len(records)),
		Namespace: namespace,
	}
	for n, record := range records {
		req.Vectors[n] = vector{
			ID:       record.ID,
			Values:   record.Values,
			Metadata: record.Metadata.Fields(),
		}
	}

	var rsp upsertResponse
	if err := i.do(ctx, "/vectors/upsert", req, &rsp); err != nil {
		return err
	}

	i.logger.Debug("upserted vectors", "namespace", namespace, "count", rsp.UpsertedCount)
	return nil
}

// Query performs a similarity search against the namespace. Unknown
// namespaces return zero matches, not an error.
func (i *Index) Query(ctx context.Context, namespace string, vec []float32, opts vectorstore.QueryOptions) ([]vectorstore.Match, error) {
	if namespace == "" {
		return nil, vectorstore.ErrEmptyNamespace
	}

	req := queryRequest{
		Namespace:       namespace,
		TopK:            opts.TopK,
		Vector:          vec,
		Filter:          opts.Filter,
		IncludeMetadata: opts.IncludeMetadata,
	}

	var rsp queryResponse
	if err := i.do(ctx, "/query", req, &rsp); err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, 0, len(rsp.Matches))
	for _, m := range rsp.Matches {
		matches = append(matches, vectorstore.Match{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: core.MetadataFromFields(m.Metadata),
		})
	}

	return matches, nil
}

// DeleteAll removes every vector in the namespace.
func (i *Index) DeleteAll(ctx context.Context, namespace string) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}

	req := deleteRequest{DeleteAll: true, Namespace: namespace}
	if err := i.do(ctx, "/vectors/delete", req, nil); err != nil {
		return err
	}

	i.logger.Info("deleted all vectors", "namespace", namespace)
	return nil
}

func (i *Index) do(ctx context.Context, path string, req any, rsp any) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	u := strings.TrimSuffix(i.config.Host, "/") + path
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Api-Key", i.config.APIKey)

	response, err := i.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return statusError(response.StatusCode, payload)
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

// statusError maps HTTP failures onto the store's inspectable error
// kinds so callers can distinguish auth, throttling, and payload
// problems without parsing messages.
func statusError(code int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: http %d: %s", vectorstore.ErrUnauthorized, code, msg)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: http %d: %s", vectorstore.ErrRateLimited, code, msg)
	case code >= 400 && code < 500:
		return fmt.Errorf("%w: http %d: %s", vectorstore.ErrBadRequest, code, msg)
	default:
		return fmt.Errorf("pinecone http %d: %s", code, msg)
	}
}
