package domain

import (
	"context"
	"image"
)

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetMaxFileSize() int64
	GetFetchTimeoutSeconds() int
	GetAllowedOrigins() []string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetInkStrokeWidth() float64
	GetInkOpacity() float64
	GetExportBucket() string
	GetExportPrefix() string
	GetSampleDocumentURL() string
	GetMaxSessions() int
	GetSessionIdleMinutes() int
}

// DocumentSource fetches the original bytes of a document from a location
// (URL or storage reference).
type DocumentSource interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Renderer is the document rendering collaborator.
type Renderer interface {
	Load(ctx context.Context, data []byte) (RenderedDocument, error)
}

// RenderedDocument is a parsed document ready for page rendering.
// Page indexes are 1-based.
type RenderedDocument interface {
	PageCount() int
	RenderPage(index int, scale float64) (image.Image, error)
	Close() error
}

// DocumentMutator is the document mutation collaborator.
type DocumentMutator interface {
	Load(ctx context.Context, data []byte) (MutableDocument, error)
}

// MutableDocument is an editable in-memory document model.
// Page indexes are 0-based.
type MutableDocument interface {
	PageCount() int
	Page(index int) (MutablePage, error)
	Save(ctx context.Context) ([]byte, error)
}

// MutablePage accepts drawing instructions in page-space coordinates
// (origin bottom-left).
type MutablePage interface {
	Size() (width, height float64)
	DrawText(text string, x, y, size float64) error
	DrawImage(img image.Image, x, y, width, height, opacity float64) error
}

// Downloader hands an exported artifact to the client.
type Downloader interface {
	Deliver(ctx context.Context, filename string, data []byte) error
}

// RasterSurface is the drawing backend of the ink layer.
type RasterSurface interface {
	StrokeFrom(x, y float64)
	StrokeTo(x, y float64)
	Clear()
	IsBlank() bool
	Resize(width, height int)
	Bounds() image.Rectangle
	Image() image.Image
	ImageBytes() ([]byte, error)
}
