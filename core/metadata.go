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

package core

import (
	"fmt"
	"time"
)

// Metadata is the closed set of fields attached to a vector record.
// Which fields are populated depends on the content type; use the
// per-type constructors rather than filling the struct directly so that
// every variant is validated at construction.
type Metadata struct {
	Type      ContentType
	Content   string
	UserID    string
	ChannelID string
	CreatedAt time.Time

	// Social posts only.
	ReferenceURL string

	// Stored files only.
	Name     string
	URL      string
	MimeType string
	Size     int64

	// Document chunks only.
	Source     string
	ChunkIndex int
}

// NewMessageMetadata builds metadata for a plain chat message.
// Missing user or channel identifiers default to "unknown", matching
// what upstream sources may legitimately omit.
func NewMessageMetadata(content, userID, channelID string, createdAt time.Time) (Metadata, error) {
	return Metadata{
		Type:      ContentTypeMessage,
		Content:   content,
		UserID:    orUnknown(userID),
		ChannelID: orUnknown(channelID),
		CreatedAt: timestampOrNow(createdAt),
	}, nil
}

// NewSocialPostMetadata builds metadata for a message that references a
// social post. The reference URL is required.
func NewSocialPostMetadata(content, userID, channelID string, createdAt time.Time, referenceURL string) (Metadata, error) {
	if referenceURL == "" {
		return Metadata{}, fmt.Errorf("%w: social post requires a reference URL", ErrInvalidMetadata)
	}
	return Metadata{
		Type:         ContentTypeSocialPost,
		Content:      content,
		UserID:       orUnknown(userID),
		ChannelID:    orUnknown(channelID),
		CreatedAt:    timestampOrNow(createdAt),
		ReferenceURL: referenceURL,
	}, nil
}

// NewFileMetadata builds metadata for a stored file.
func NewFileMetadata(info FileInfo, userID, channelID string, createdAt time.Time) (Metadata, error) {
	if info.Name == "" {
		return Metadata{}, fmt.Errorf("%w: stored file requires a name", ErrInvalidMetadata)
	}
	return Metadata{
		Type:      ContentTypeFile,
		Name:      info.Name,
		URL:       info.URL,
		MimeType:  info.MimeType,
		Size:      info.Size,
		UserID:    orUnknown(userID),
		ChannelID: orUnknown(channelID),
		CreatedAt: timestampOrNow(createdAt),
	}, nil
}

// NewChunkMetadata builds metadata for a document chunk. The source is
// the identifier of the originating file.
func NewChunkMetadata(content, source string, index int) (Metadata, error) {
	if source == "" {
		return Metadata{}, fmt.Errorf("%w: document chunk requires a source", ErrInvalidMetadata)
	}
	if index < 0 {
		return Metadata{}, fmt.Errorf("%w: chunk index cannot be negative", ErrInvalidMetadata)
	}
	return Metadata{
		Type:       ContentTypeChunk,
		Content:    content,
		Source:     source,
		ChunkIndex: index,
	}, nil
}

// MetadataForRecord builds the metadata variant matching a classified
// record's content type.
func MetadataForRecord(record ClassifiedRecord) (Metadata, error) {
	switch record.Type {
	case ContentTypeMessage:
		return NewMessageMetadata(record.Text, record.UserID, record.ChannelID, record.CreatedAt)
	case ContentTypeSocialPost:
		return NewSocialPostMetadata(record.Text, record.UserID, record.ChannelID, record.CreatedAt, record.ReferenceURL)
	case ContentTypeFile:
		info := FileInfo{Name: record.ID}
		if record.File != nil {
			info = *record.File
		}
		return NewFileMetadata(info, record.UserID, record.ChannelID, record.CreatedAt)
	default:
		return Metadata{}, fmt.Errorf("%w: %q", ErrUnknownContentType, record.Type)
	}
}

// Fields returns the flat key/value mapping persisted alongside the
// vector. Only the keys belonging to the variant are emitted.
func (m Metadata) Fields() map[string]any {
	fields := map[string]any{
		"type": string(m.Type),
	}
	if !m.CreatedAt.IsZero() {
		fields["created_at"] = m.CreatedAt.UTC().Format(time.RFC3339)
	}

	switch m.Type {
	case ContentTypeMessage:
		fields["content"] = m.Content
		fields["user_id"] = m.UserID
		fields["channel_id"] = m.ChannelID
	case ContentTypeSocialPost:
		fields["content"] = m.Content
		fields["user_id"] = m.UserID
		fields["channel_id"] = m.ChannelID
		fields["tweet_url"] = m.ReferenceURL
	case ContentTypeFile:
		fields["name"] = m.Name
		fields["url"] = m.URL
		fields["mimetype"] = m.MimeType
		fields["size"] = m.Size
		fields["user_id"] = m.UserID
		fields["channel_id"] = m.ChannelID
	case ContentTypeChunk:
		fields["content"] = m.Content
		fields["source"] = m.Source
		fields["chunk_index"] = m.ChunkIndex
	}

	return fields
}

// MetadataFromFields reconstructs a Metadata from the flat mapping
// returned by a vector store query. Unknown keys are ignored and
// missing keys are left zero; query results are treated as advisory,
// not validated like freshly constructed metadata.
func MetadataFromFields(fields map[string]any) Metadata {
	m := Metadata{
		Type:         ContentType(stringField(fields, "type")),
		Content:      stringField(fields, "content"),
		UserID:       stringField(fields, "user_id"),
		ChannelID:    stringField(fields, "channel_id"),
		ReferenceURL: stringField(fields, "tweet_url"),
		Name:         stringField(fields, "name"),
		URL:          stringField(fields, "url"),
		MimeType:     stringField(fields, "mimetype"),
		Size:         intField(fields, "size"),
		Source:       stringField(fields, "source"),
		ChunkIndex:   int(intField(fields, "chunk_index")),
	}
	if raw := stringField(fields, "created_at"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			m.CreatedAt = ts
		}
	}
	return m
}

// PassageText returns the text a retrieved vector contributes to a
// context block. Files have no body; their name stands in.
func (m Metadata) PassageText() string {
	if m.Content != "" {
		return m.Content
	}
	return m.Name
}

// SourceLabel returns the identifier used to attribute a passage.
// Falls back to the supplied id when the variant carries no source.
func (m Metadata) SourceLabel(fallback string) string {
	if m.Source != "" {
		return m.Source
	}
	if m.Name != "" {
		return m.Name
	}
	return fallback
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func timestampOrNow(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func intField(fields map[string]any, key string) int64 {
	switch v := fields[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		// JSON numbers decode as float64.
		return int64(v)
	default:
		return 0
	}
}
