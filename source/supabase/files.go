package supabase

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/answerit/core"
)

const defaultListLimit = 100

// FileStore lists files from a storage bucket. When an open database
// is attached, each file is enriched with its row from the files table
// so descriptions end up in the embedded text.
type FileStore struct {
	baseURL    string
	apiKey     string
	bucket     string
	db         *sql.DB
	httpClient *http.Client
	logger     *slog.Logger
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileLogger sets a custom logger.
// Default is slog.Default().
func WithFileLogger(logger *slog.Logger) FileStoreOption {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFileHTTPClient sets a custom HTTP client.
func WithFileHTTPClient(client *http.Client) FileStoreOption {
	return func(s *FileStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithFileDatabase attaches a database used to look up per-file
// descriptions. Without it, files are listed from storage alone.
func WithFileDatabase(db *sql.DB) FileStoreOption {
	return func(s *FileStore) {
		s.db = db
	}
}

// NewFileStore creates a file source over the project's storage API.
func NewFileStore(baseURL, apiKey, bucket string, opts ...FileStoreOption) (*FileStore, error) {
	if baseURL == "" || apiKey == "" {
		return nil, ErrCredentialsRequired
	}
	if bucket == "" {
		return nil, ErrBucketRequired
	}

	s := &FileStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

type storageObject struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Metadata  struct {
		Size     int64  `json:"size"`
		MimeType string `json:"mimetype"`
	} `json:"metadata"`
}

type fileRow struct {
	description string
	userID      string
	channelID   string
	createdAt   time.Time
}

// ListFiles returns every object in the bucket as a source record. The
// embedded text is a composed description, not the file body; the
// public URL and mimetype travel in the metadata.
func (s *FileStore) ListFiles(ctx context.Context) ([]core.SourceRecord, error) {
	objects, err := s.listObjects(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]core.SourceRecord, 0, len(objects))
	for _, obj := range objects {
		row, err := s.lookupFileRow(ctx, obj.Name)
		if err != nil {
			return nil, err
		}

		createdAt := obj.CreatedAt
		if !row.createdAt.IsZero() {
			createdAt = row.createdAt
		}

		records = append(records, core.SourceRecord{
			ID:        obj.Name,
			Text:      composeFileText(obj, row.description),
			UserID:    row.userID,
			ChannelID: row.channelID,
			CreatedAt: createdAt,
			Origin:    core.OriginFile,
			File: &core.FileInfo{
				Name:     obj.Name,
				URL:      s.publicURL(obj.Name),
				MimeType: obj.Metadata.MimeType,
				Size:     obj.Metadata.Size,
			},
		})
	}

	s.logger.Debug("listed files", "bucket", s.bucket, "count", len(records))

	return records, nil
}

// listObjects calls the storage list endpoint.
func (s *FileStore) listObjects(ctx context.Context) ([]storageObject, error) {
	body, err := json.Marshal(map[string]any{
		"prefix": "",
		"limit":  defaultListLimit,
		"offset": 0,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/storage/v1/object/list/%s", s.baseURL, s.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("list objects: storage http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var objects []storageObject
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, fmt.Errorf("decode object list: %w", err)
	}

	return objects, nil
}

// lookupFileRow fetches the files table row for a storage object.
// Objects without a row are legitimate; they just have no description.
func (s *FileStore) lookupFileRow(ctx context.Context, name string) (fileRow, error) {
	if s.db == nil {
		return fileRow{}, nil
	}

	query := `
		SELECT description, user_id, channel_id, created_at
		FROM files
		WHERE name = $1
	`

	var (
		description sql.NullString
		userID      sql.NullString
		channelID   sql.NullString
		createdAt   sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, name).Scan(&description, &userID, &channelID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fileRow{}, nil
	}
	if err != nil {
		return fileRow{}, fmt.Errorf("lookup file %s: %w", name, err)
	}

	return fileRow{
		description: description.String,
		userID:      userID.String,
		channelID:   channelID.String,
		createdAt:   createdAt.Time,
	}, nil
}

func (s *FileStore) publicURL(name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, name)
}

// composeFileText builds the text that stands in for the file body
// when embedding. Files are retrieved by what they are, not by their
// contents.
func composeFileText(obj storageObject, description string) string {
	mimetype := obj.Metadata.MimeType
	if mimetype == "" {
		mimetype = "unknown"
	}
	if description == "" {
		description = "No description available"
	}

	return fmt.Sprintf("File Name: %s\nType: %s\nSize: %d\nDescription: %s",
		obj.Name, mimetype, obj.Metadata.Size, description)
}
