package service

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"paperless-annotator/internal/annotation"
	"paperless-annotator/internal/domain"
	"paperless-annotator/internal/raster"
)

// ThumbnailWidth is the pixel width of page thumbnails.
const ThumbnailWidth = 100

// LocationResolver maps catalog document ids to file locations.
type LocationResolver interface {
	ResolveLocation(documentID string) (string, error)
}

// SurfaceFactory creates the raster behind a session's ink layer.
type SurfaceFactory func() domain.RasterSurface

type sessionEntry struct {
	mu         sync.Mutex
	id         string
	documentID string
	location   string
	createdAt  time.Time
	editor     *annotation.Editor
	doc        domain.RenderedDocument
	page       image.Image
	// closed is set once the document has been released; guarded by mu.
	closed bool

	processing atomic.Bool
	lastUsed   atomic.Int64
}

// release closes the document. Later calls are no-ops.
func (e *sessionEntry) release() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.page = nil
	return e.doc.Close()
}

// lock takes e.mu and fails when the session was closed after lookup.
func (e *sessionEntry) lock() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", e.id, domain.ErrSessionNotFound)
	}
	return nil
}

// render draws the current page at the current scale and resizes the
// overlay to match. Callers hold e.mu.
func (e *sessionEntry) render() error {
	v := e.editor.Viewer()
	img, err := e.doc.RenderPage(v.Page(), v.Scale())
	if err != nil {
		return fmt.Errorf("render page %d: %w", v.Page(), err)
	}
	b := img.Bounds()
	e.page = img
	e.editor.ApplyRender(float64(b.Dx()), float64(b.Dy()))
	return nil
}

// session builds the client view. Callers hold e.mu.
func (e *sessionEntry) session() *domain.Session {
	return &domain.Session{
		ID:         e.id,
		DocumentID: e.documentID,
		Location:   e.location,
		State:      e.editor.State(),
		Processing: e.processing.Load(),
		CreatedAt:  e.createdAt,
	}
}

// SessionLimits bounds the sessions kept in memory. Zero values disable the
// corresponding limit.
type SessionLimits struct {
	MaxSessions int
	IdleTimeout time.Duration
}

// SessionService keeps annotation sessions in memory. Events on one session
// are serialized; different sessions proceed independently.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	limits   SessionLimits

	source     domain.DocumentSource
	renderer   domain.Renderer
	resolver   LocationResolver
	newSurface SurfaceFactory
	newID      func() string
	now        func() time.Time
	logger     domain.Logger
}

// NewSessionService creates a session service.
func NewSessionService(
	source domain.DocumentSource,
	renderer domain.Renderer,
	resolver LocationResolver,
	newSurface SurfaceFactory,
	logger domain.Logger,
) *SessionService {
	return &SessionService{
		sessions:   make(map[string]*sessionEntry),
		source:     source,
		renderer:   renderer,
		resolver:   resolver,
		newSurface: newSurface,
		newID:      uuid.NewString,
		now:        time.Now,
		logger:     logger,
	}
}

// SetLimits installs session limits. It is meant to be called during wiring.
func (s *SessionService) SetLimits(limits SessionLimits) {
	s.mu.Lock()
	s.limits = limits
	s.mu.Unlock()
}

// Open loads a document and renders its first page.
func (s *SessionService) Open(ctx context.Context, req domain.OpenSessionRequest) (*domain.Session, error) {
	location, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	data, err := s.source.Fetch(ctx, location)
	if err != nil {
		s.logger.Error("Failed to fetch document", err, "location", location)
		return nil, fmt.Errorf("%w: %w", domain.ErrDocumentLoad, err)
	}

	doc, err := s.renderer.Load(ctx, data)
	if err != nil {
		s.logger.Error("Failed to load document", err, "location", location)
		return nil, err
	}

	entry := &sessionEntry{
		id:         s.newID(),
		documentID: req.DocumentID,
		location:   location,
		createdAt:  s.now(),
		editor:     annotation.NewEditor(s.newSurface(), nil),
		doc:        doc,
	}
	entry.lastUsed.Store(entry.createdAt.UnixNano())
	entry.editor.SetPageCount(doc.PageCount())
	if err := entry.render(); err != nil {
		doc.Close()
		s.logger.Error("Failed to render first page", err, "location", location)
		return nil, err
	}

	s.mu.Lock()
	evicted := s.evictLocked()
	s.sessions[entry.id] = entry
	s.mu.Unlock()
	if evicted != nil {
		s.discard(evicted, "Session evicted")
	}

	s.logger.Info("Session opened", "session_id", entry.id, "pages", doc.PageCount(), "location", location)
	return entry.session(), nil
}

// evictLocked removes the least recently used idle session when the service
// is at capacity. Sessions with a running export are never evicted. Callers
// hold s.mu.
func (s *SessionService) evictLocked() *sessionEntry {
	if s.limits.MaxSessions <= 0 || len(s.sessions) < s.limits.MaxSessions {
		return nil
	}
	var oldest *sessionEntry
	for _, e := range s.sessions {
		if e.processing.Load() {
			continue
		}
		if oldest == nil || e.lastUsed.Load() < oldest.lastUsed.Load() {
			oldest = e
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.id)
	}
	return oldest
}

// ExpireIdle closes sessions unused for longer than the idle timeout and
// returns how many were closed.
func (s *SessionService) ExpireIdle() int {
	s.mu.Lock()
	if s.limits.IdleTimeout <= 0 {
		s.mu.Unlock()
		return 0
	}
	cutoff := s.now().Add(-s.limits.IdleTimeout).UnixNano()
	var expired []*sessionEntry
	for id, e := range s.sessions {
		if e.processing.Load() || e.lastUsed.Load() > cutoff {
			continue
		}
		delete(s.sessions, id)
		expired = append(expired, e)
	}
	s.mu.Unlock()

	for _, e := range expired {
		s.discard(e, "Session expired")
	}
	return len(expired)
}

// RunExpiry calls ExpireIdle every interval until ctx is done.
func (s *SessionService) RunExpiry(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.ExpireIdle(); n > 0 {
				s.logger.Debug("Idle sessions expired", "count", n)
			}
		}
	}
}

func (s *SessionService) discard(e *sessionEntry, msg string) {
	if err := e.release(); err != nil {
		s.logger.Warn("Failed to close document", "session_id", e.id, "error", err.Error())
	}
	s.logger.Info(msg, "session_id", e.id)
}

func (s *SessionService) resolve(req domain.OpenSessionRequest) (string, error) {
	if req.DocumentID != "" {
		if s.resolver == nil {
			return "", fmt.Errorf("%s: %w", req.DocumentID, domain.ErrDocumentNotFound)
		}
		return s.resolver.ResolveLocation(req.DocumentID)
	}
	if req.DocumentURL == "" {
		return "", &domain.ValidationError{Field: "document_url", Message: "document_id or document_url is required"}
	}
	return req.DocumentURL, nil
}

func (s *SessionService) lookup(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrSessionNotFound)
	}
	entry.lastUsed.Store(s.now().UnixNano())
	return entry, nil
}

// update runs fn with the session locked and returns the resulting state.
func (s *SessionService) update(id string, fn func(e *sessionEntry) error) (*domain.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := entry.lock(); err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	if err := fn(entry); err != nil {
		return nil, err
	}
	return entry.session(), nil
}

func (s *SessionService) Get(id string) (*domain.Session, error) {
	return s.update(id, func(*sessionEntry) error { return nil })
}

// Close discards a session and releases its document.
func (s *SessionService) Close(id string) error {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s: %w", id, domain.ErrSessionNotFound)
	}
	s.discard(entry, "Session closed")
	return nil
}

// PageImage returns the last rendered page as PNG.
func (s *SessionService) PageImage(id string) ([]byte, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := entry.lock(); err != nil {
		return nil, err
	}
	page := entry.page
	rendered := entry.editor.Rendered()
	entry.mu.Unlock()

	if page == nil || !rendered {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotRendered)
	}
	return raster.EncodePNG(page)
}

// Thumbnail renders a small preview of any page as PNG.
func (s *SessionService) Thumbnail(id string, page int) ([]byte, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := entry.lock(); err != nil {
		return nil, err
	}
	img, err := entry.doc.RenderPage(page, 1)
	entry.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("thumbnail of page %d: %w", page, err)
	}
	return raster.EncodePNG(raster.Thumbnail(img, ThumbnailWidth))
}

// InkImage returns the ink layer as PNG.
func (s *SessionService) InkImage(id string) ([]byte, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := entry.lock(); err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	return entry.editor.InkPNG()
}

// rerender renders after a viewer change. On failure the previous viewer is
// restored, so the session keeps showing the last good render. Overlays a
// page change already discarded stay discarded.
func (e *sessionEntry) rerender(prev annotation.Viewer, wasRendered bool) error {
	if err := e.render(); err != nil {
		e.editor.Restore(prev, wasRendered)
		return err
	}
	return nil
}

// Navigate changes the current page and re-renders when it changed.
func (s *SessionService) Navigate(id string, action domain.NavigateAction, page int) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		prev, wasRendered := e.editor.Viewer(), e.editor.Rendered()
		var changed bool
		switch action {
		case domain.NavigateNext:
			changed = e.editor.Next()
		case domain.NavigatePrev:
			changed = e.editor.Prev()
		case domain.NavigateGoTo:
			var err error
			if changed, err = e.editor.GoTo(page); err != nil {
				return err
			}
		default:
			return &domain.ValidationError{Field: "action", Message: fmt.Sprintf("unknown navigation %q", action)}
		}
		if changed || !e.editor.Rendered() {
			return e.rerender(prev, wasRendered)
		}
		return nil
	})
}

// Zoom changes the scale and re-renders when it changed.
func (s *SessionService) Zoom(id string, action domain.ZoomAction) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		prev, wasRendered := e.editor.Viewer(), e.editor.Rendered()
		var changed bool
		switch action {
		case domain.ZoomIn:
			changed = e.editor.ZoomIn()
		case domain.ZoomOut:
			changed = e.editor.ZoomOut()
		default:
			return &domain.ValidationError{Field: "action", Message: fmt.Sprintf("unknown zoom %q", action)}
		}
		if changed || !e.editor.Rendered() {
			return e.rerender(prev, wasRendered)
		}
		return nil
	})
}

func (s *SessionService) ToggleDrawing(id string) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		e.editor.ToggleDrawing()
		return nil
	})
}

func (s *SessionService) ToggleTextBox(id string) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		e.editor.ToggleTextBox()
		return nil
	})
}

// Stroke replays a pointer stroke. It is ignored unless drawing is active.
func (s *SessionService) Stroke(id string, points []domain.Point) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		e.editor.Stroke(points)
		return nil
	})
}

func (s *SessionService) ClearInk(id string) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		e.editor.ClearInk()
		return nil
	})
}

// Click feeds a click into text-box placement.
func (s *SessionService) Click(id string, at domain.Point) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		if box, ok := e.editor.Click(at.X, at.Y); ok {
			s.logger.Debug("Text box placed", "session_id", id, "box_id", box.ID)
		}
		return nil
	})
}

func (s *SessionService) SelectTextBox(id, boxID string) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		return e.editor.SelectBox(boxID)
	})
}

func (s *SessionService) SetText(id, boxID, text string) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		return e.editor.SetText(boxID, text)
	})
}

func (s *SessionService) ClearTextBoxes(id string) (*domain.Session, error) {
	return s.update(id, func(e *sessionEntry) error {
		e.editor.ClearTextBoxes()
		return nil
	})
}
