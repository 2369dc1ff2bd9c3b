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

package supabase

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/poiesic/answerit/core"
)

// OpenDatabase opens a connection pool against the project's Postgres
// instance and verifies it is reachable.
func OpenDatabase(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// MessageStore reads chat messages from the messages table.
type MessageStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// MessageStoreOption configures a MessageStore.
type MessageStoreOption func(*MessageStore)

// WithMessageLogger sets a custom logger.
// Default is slog.Default().
func WithMessageLogger(logger *slog.Logger) MessageStoreOption {
	return func(s *MessageStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewMessageStore creates a message source over an open database.
func NewMessageStore(db *sql.DB, opts ...MessageStoreOption) (*MessageStore, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}

	s := &MessageStore{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// RecentMessages returns up to limit messages, newest first. Null user
// and channel columns come back empty; downstream metadata construction
// substitutes its own default.
func (s *MessageStore) RecentMessages(ctx context.Context, limit int) ([]core.SourceRecord, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	query := `
		SELECT id, content, user_id, channel_id, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var records []core.SourceRecord
	for rows.Next() {
		var (
			id        string
			content   sql.NullString
			userID    sql.NullString
			channelID sql.NullString
			createdAt time.Time
		)
		if err := rows.Scan(&id, &content, &userID, &channelID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}

		records = append(records, core.SourceRecord{
			ID:        id,
			Text:      content.String,
			UserID:    userID.String,
			ChannelID: channelID.String,
			CreatedAt: createdAt,
			Origin:    core.OriginMessage,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	s.logger.Debug("fetched messages", "count", len(records), "limit", limit)

	return records, nil
}
