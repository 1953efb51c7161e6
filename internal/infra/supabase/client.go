package supabase

import (
	"bytes"
	"fmt"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"paperless-annotator/internal/domain"
)

// Client wraps the Supabase client used for document storage.
type Client struct {
	client *supabase.Client
	config domain.Config
	logger domain.Logger
}

// NewClient creates an uninitialized Supabase client holder
func NewClient(config domain.Config, logger domain.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

// Configured reports whether Supabase credentials are present.
func (c *Client) Configured() bool {
	return c.config.GetSupabaseURL() != "" && c.config.GetSupabaseKey() != ""
}

// Initialize establishes a connection to Supabase
func (c *Client) Initialize() error {
	if !c.Configured() {
		return fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(c.config.GetSupabaseURL(), c.config.GetSupabaseKey(), &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	c.client = client
	c.logger.Info("Supabase client initialized successfully", "url", c.config.GetSupabaseURL())
	return nil
}

// Download fetches an object from a storage bucket.
func (c *Client) Download(bucket, path string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}
	data, err := c.client.Storage.DownloadFile(bucket, path)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", bucket, path, err)
	}
	return data, nil
}

// Upload stores an object in a storage bucket, replacing any previous
// version at the same path.
func (c *Client) Upload(bucket, path string, data []byte, contentType string) error {
	if c.client == nil {
		return fmt.Errorf("supabase client not initialized")
	}
	upsert := true
	_, err := c.client.Storage.UploadFile(bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	return nil
}

// Ready reports whether Initialize succeeded.
func (c *Client) Ready() bool {
	return c.client != nil
}
