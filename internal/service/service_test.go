package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"paperless-annotator/internal/domain"
	"paperless-annotator/internal/raster"
)

type MockLogger struct{}

func (l *MockLogger) Info(msg string, fields ...interface{})             {}
func (l *MockLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockLogger) Warn(msg string, fields ...interface{})             {}

// MockSource serves fixed bytes per location. When gate is set, fetches
// after the first one wait on it.
type MockSource struct {
	mu      sync.Mutex
	data    map[string][]byte
	err     error
	fetches int

	gate    chan struct{}
	entered chan struct{}
}

func NewMockSource() *MockSource {
	return &MockSource{data: map[string][]byte{"https://example.com/doc.pdf": []byte("%PDF")}}
}

func (m *MockSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	m.mu.Lock()
	m.fetches++
	n, gate, entered, err := m.fetches, m.gate, m.entered, m.err
	data, ok := m.data[location]
	m.mu.Unlock()

	if gate != nil && n > 1 {
		entered <- struct{}{}
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: not found", location)
	}
	return data, nil
}

func (m *MockSource) setErr(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// MockRenderer produces blank pages of 600x800 pixels at scale 1.
type MockRenderer struct {
	mu       sync.Mutex
	pages    int
	loadErr  error
	failPage int
	closed   bool
	// afterClose counts renders attempted on a closed document.
	afterClose int
	docs       []*mockRendered
}

func (m *MockRenderer) Load(ctx context.Context, data []byte) (domain.RenderedDocument, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	d := &mockRendered{r: m}
	m.mu.Lock()
	m.docs = append(m.docs, d)
	m.mu.Unlock()
	return d, nil
}

func (m *MockRenderer) rendersAfterClose() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.afterClose
}

type mockRendered struct {
	r        *MockRenderer
	rendered []string
	closed   bool
}

func (d *mockRendered) PageCount() int { return d.r.pages }

func (d *mockRendered) RenderPage(index int, scale float64) (image.Image, error) {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()
	if d.closed {
		d.r.afterClose++
		return nil, errors.New("render on closed document")
	}
	if index < 1 || index > d.r.pages {
		return nil, domain.ErrPageIndex
	}
	if index == d.r.failPage {
		return nil, errBoom
	}
	d.rendered = append(d.rendered, fmt.Sprintf("%d@%.1f", index, scale))
	return image.NewRGBA(image.Rect(0, 0, int(600*scale), int(800*scale))), nil
}

func (d *mockRendered) Close() error {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()
	d.closed = true
	d.r.closed = true
	return nil
}

type drawnText struct {
	text       string
	x, y, size float64
}

type drawnImage struct {
	bounds              image.Rectangle
	x, y, w, h, opacity float64
}

type MockPage struct {
	w, h   float64
	texts  []drawnText
	images []drawnImage
}

func (p *MockPage) Size() (float64, float64) { return p.w, p.h }

func (p *MockPage) DrawText(text string, x, y, size float64) error {
	p.texts = append(p.texts, drawnText{text, x, y, size})
	return nil
}

func (p *MockPage) DrawImage(img image.Image, x, y, w, h, opacity float64) error {
	p.images = append(p.images, drawnImage{img.Bounds(), x, y, w, h, opacity})
	return nil
}

type MockMutator struct {
	pages   []*MockPage
	loadErr error
	saveErr error
}

func NewMockMutator(pages int) *MockMutator {
	m := &MockMutator{}
	for i := 0; i < pages; i++ {
		m.pages = append(m.pages, &MockPage{w: 300, h: 400})
	}
	return m
}

func (m *MockMutator) Load(ctx context.Context, data []byte) (domain.MutableDocument, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m, nil
}

func (m *MockMutator) PageCount() int { return len(m.pages) }

func (m *MockMutator) Page(index int) (domain.MutablePage, error) {
	if index < 0 || index >= len(m.pages) {
		return nil, domain.ErrPageIndex
	}
	return m.pages[index], nil
}

func (m *MockMutator) Save(ctx context.Context) ([]byte, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return []byte("%PDF-annotated"), nil
}

type MockDownloader struct {
	calls    int
	filename string
	data     []byte
	err      error
}

func (d *MockDownloader) Deliver(ctx context.Context, filename string, data []byte) error {
	d.calls++
	d.filename, d.data = filename, data
	return d.err
}

type mockResolver map[string]string

func (r mockResolver) ResolveLocation(id string) (string, error) {
	loc, ok := r[id]
	if !ok {
		return "", domain.ErrDocumentNotFound
	}
	return loc, nil
}

func testSurface() domain.RasterSurface {
	return raster.NewSurface(0, 0, 2, color.Black)
}

type fixture struct {
	source   *MockSource
	renderer *MockRenderer
	mutator  *MockMutator
	sessions *SessionService
	exporter *ExportService
}

func newFixture(pages int) *fixture {
	f := &fixture{
		source:   NewMockSource(),
		renderer: &MockRenderer{pages: pages},
		mutator:  NewMockMutator(pages),
	}
	resolver := mockResolver{"doc1": "https://example.com/doc.pdf"}
	f.sessions = NewSessionService(f.source, f.renderer, resolver, testSurface, &MockLogger{})
	f.exporter = NewExportService(f.sessions, f.source, f.mutator, 0.8, &MockLogger{})
	return f
}

func (f *fixture) open() (*domain.Session, error) {
	return f.sessions.Open(context.Background(), domain.OpenSessionRequest{DocumentURL: "https://example.com/doc.pdf"})
}

var errBoom = errors.New("boom")
