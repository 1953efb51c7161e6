// Package pdf adapts third-party PDF libraries to the rendering and
// mutation collaborators used by annotation sessions.
package pdf

import (
	"context"
	"fmt"
	"errors"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"

	"paperless-annotator/internal/domain"
)

// pointsPerInch is the PDF user-space unit; rendering at 72·scale DPI maps
// one page unit to scale pixels.
const pointsPerInch = 72.0

var errDocumentClosed = errors.New("document is closed")

// FitzRenderer renders pages with MuPDF.
type FitzRenderer struct {
	logger domain.Logger
}

// NewFitzRenderer creates a renderer.
func NewFitzRenderer(logger domain.Logger) *FitzRenderer {
	return &FitzRenderer{logger: logger}
}

// Load parses document bytes for rendering.
func (r *FitzRenderer) Load(ctx context.Context, data []byte) (domain.RenderedDocument, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document: %w", domain.ErrDocumentLoad)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}
	r.logger.Debug("Document loaded for rendering", "pages", doc.NumPage(), "bytes", len(data))
	return &fitzDocument{doc: doc}, nil
}

// fitzDocument serializes MuPDF calls. doc is nil once closed; a freed
// context must never reach MuPDF.
type fitzDocument struct {
	mu  sync.Mutex
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return 0
	}
	return d.doc.NumPage()
}

func (d *fitzDocument) RenderPage(index int, scale float64) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.doc == nil {
		return nil, errDocumentClosed
	}
	if index < 1 || index > d.doc.NumPage() {
		return nil, fmt.Errorf("page %d of %d: %w", index, d.doc.NumPage(), domain.ErrPageIndex)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("invalid scale %g", scale)
	}
	img, err := d.doc.ImageDPI(index-1, pointsPerInch*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index, err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}
