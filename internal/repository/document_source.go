package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paperless-annotator/internal/domain"
)

// HTTPSource fetches documents from http(s) URLs.
type HTTPSource struct {
	client  *http.Client
	maxSize int64
	logger  domain.Logger
}

// NewHTTPSource creates a source with a per-request timeout and a response
// size limit.
func NewHTTPSource(timeout time.Duration, maxSize int64, logger domain.Logger) *HTTPSource {
	return &HTTPSource{
		client:  &http.Client{Timeout: timeout},
		maxSize: maxSize,
		logger:  logger,
	}
}

// Fetch downloads the document at location.
func (s *HTTPSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", location, resp.StatusCode)
	}

	// Read one byte past the limit to detect oversized bodies.
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("fetch %s: document exceeds %d bytes", location, s.maxSize)
	}

	s.logger.Debug("Document fetched", "url", location, "bytes", len(data))
	return data, nil
}

// StorageDownloader is the subset of the Supabase client used for documents.
type StorageDownloader interface {
	Download(bucket, path string) ([]byte, error)
}

// SupabaseSource fetches supabase://<bucket>/<path> locations.
type SupabaseSource struct {
	storage StorageDownloader
	logger  domain.Logger
}

// NewSupabaseSource creates a storage-bucket source.
func NewSupabaseSource(storage StorageDownloader, logger domain.Logger) *SupabaseSource {
	return &SupabaseSource{storage: storage, logger: logger}
}

// Fetch downloads a storage object.
func (s *SupabaseSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bucket, path, err := parseStorageLocation(location)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Download(bucket, path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Document downloaded from storage", "bucket", bucket, "path", path, "bytes", len(data))
	return data, nil
}

func parseStorageLocation(location string) (bucket, path string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", location, err)
	}
	bucket = u.Host
	path = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || path == "" {
		return "", "", fmt.Errorf("%q: expected supabase://<bucket>/<path>: %w", location, domain.ErrUnsupportedSource)
	}
	return bucket, path, nil
}

// MultiSource dispatches on the location scheme.
type MultiSource struct {
	sources map[string]domain.DocumentSource
}

// NewMultiSource creates an empty dispatcher.
func NewMultiSource() *MultiSource {
	return &MultiSource{sources: make(map[string]domain.DocumentSource)}
}

// Register serves locations with the given scheme from src.
func (m *MultiSource) Register(scheme string, src domain.DocumentSource) {
	m.sources[strings.ToLower(scheme)] = src
}

// Fetch resolves location by scheme.
func (m *MultiSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", location, domain.ErrUnsupportedSource)
	}
	src, ok := m.sources[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("scheme %q: %w", u.Scheme, domain.ErrUnsupportedSource)
	}
	return src.Fetch(ctx, location)
}

// Supports reports whether location has a registered scheme.
func (m *MultiSource) Supports(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	_, ok := m.sources[strings.ToLower(u.Scheme)]
	return ok
}
